package yaml

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	goyaml "gopkg.in/yaml.v3"

	"github.com/scigolib/byml/internal/core"
)

// Unmarshal parses a single YAML document into a BYML document tree.
func Unmarshal(data []byte) (*core.Node, error) {
	var doc goyaml.Node
	if err := goyaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrFormat, err)
	}
	if doc.Kind == 0 {
		return core.NewNull(), nil
	}
	if doc.Kind == goyaml.DocumentNode {
		if len(doc.Content) == 0 {
			return core.NewNull(), nil
		}
		return convert(doc.Content[0])
	}
	return convert(&doc)
}

func convert(n *goyaml.Node) (*core.Node, error) {
	switch n.Kind {
	case goyaml.ScalarNode:
		return convertScalar(n)
	case goyaml.SequenceNode:
		return convertSequence(n)
	case goyaml.MappingNode:
		return convertMapping(n)
	case goyaml.AliasNode:
		return convert(n.Alias)
	default:
		return nil, fmt.Errorf("%w: unsupported YAML node kind %v", core.ErrFormat, n.Kind)
	}
}

func convertSequence(n *goyaml.Node) (*core.Node, error) {
	children := make([]*core.Node, len(n.Content))
	for i, c := range n.Content {
		v, err := convert(c)
		if err != nil {
			return nil, err
		}
		children[i] = v
	}
	return core.NewArray(children), nil
}

func convertMapping(n *goyaml.Node) (*core.Node, error) {
	h := make(map[string]*core.Node, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, err := mappingKey(n.Content[i])
		if err != nil {
			return nil, err
		}
		val, err := convert(n.Content[i+1])
		if err != nil {
			return nil, err
		}
		h[key] = val
	}
	return core.NewHash(h), nil
}

// mappingKey stringifies a mapping key. BYML hash keys are always strings
// on the wire; a key that happens to parse as a number is silently
// stringified to its decimal form, matching the upstream text front-end's
// behavior.
func mappingKey(n *goyaml.Node) (string, error) {
	if n.Kind != goyaml.ScalarNode {
		return "", fmt.Errorf("%w: hash keys must be scalars", core.ErrFormat)
	}
	return n.Value, nil
}

func convertScalar(n *goyaml.Node) (*core.Node, error) {
	tag := n.Tag
	switch tag {
	case "!!null":
		return core.NewNull(), nil
	case tagUInt:
		return parseUInt(n.Value)
	case tagInt64:
		return parseInt64(n.Value)
	case tagUInt64:
		return parseUInt64(n.Value)
	case tagDouble:
		return parseDouble(n.Value)
	case tagBinary, "!!binary":
		return parseBinary(n.Value)
	case "!!bool":
		v, err := strconv.ParseBool(n.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: bad bool scalar %q", core.ErrFormat, n.Value)
		}
		return core.NewBool(v), nil
	case "!!int":
		return parseInt(n.Value)
	case "!!float":
		return parseFloat(n.Value)
	case "!!str":
		return core.NewString(n.Value), nil
	}
	return parseUntagged(n.Value)
}

// parseUntagged disambiguates a plain scalar in the order the text front
// end specifies: 32-bit signed int, 32-bit float, bool literal, else string.
func parseUntagged(v string) (*core.Node, error) {
	if i, err := strconv.ParseInt(v, 10, 32); err == nil {
		return core.NewInt(int32(i)), nil
	}
	if f, err := strconv.ParseFloat(v, 32); err == nil {
		return core.NewFloat(float32(f), core.LittleEndian), nil
	}
	switch v {
	case "true":
		return core.NewBool(true), nil
	case "false":
		return core.NewBool(false), nil
	case "~", "null":
		return core.NewNull(), nil
	}
	return core.NewString(v), nil
}

func parseInt(v string) (*core.Node, error) {
	i, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: bad int scalar %q", core.ErrFormat, v)
	}
	return core.NewInt(int32(i)), nil
}

func parseUInt(v string) (*core.Node, error) {
	u, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: bad uint scalar %q", core.ErrFormat, v)
	}
	return core.NewUInt(uint32(u)), nil
}

func parseInt64(v string) (*core.Node, error) {
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad int64 scalar %q", core.ErrFormat, v)
	}
	return core.NewInt64(i), nil
}

func parseUInt64(v string) (*core.Node, error) {
	u, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad uint64 scalar %q", core.ErrFormat, v)
	}
	return core.NewUInt64(u), nil
}

func parseFloat(v string) (*core.Node, error) {
	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: bad float scalar %q", core.ErrFormat, v)
	}
	return core.NewFloat(float32(f), core.LittleEndian), nil
}

func parseDouble(v string) (*core.Node, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad double scalar %q", core.ErrFormat, v)
	}
	return core.NewDouble(f, core.LittleEndian), nil
}

func parseBinary(v string) (*core.Node, error) {
	raw := strings.Join(strings.Fields(v), "")
	b, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: bad base64 binary payload: %v", core.ErrFormat, err)
	}
	return core.NewBinary(b), nil
}
