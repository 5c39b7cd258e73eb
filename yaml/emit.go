package yaml

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/scigolib/byml/internal/core"
)

const bestIndent = 2

// Marshal renders a BYML document as YAML text, using the tag vocabulary
// documented in tags.go for the numeric variants plain YAML cannot express.
func Marshal(doc *core.Node) ([]byte, error) {
	var sb strings.Builder
	e := &emitter{out: &sb, level: -1}
	sb.WriteString("---\n")
	if err := e.node(doc); err != nil {
		return nil, err
	}
	sb.WriteByte('\n')
	return []byte(sb.String()), nil
}

type emitter struct {
	out   *strings.Builder
	level int
}

func (e *emitter) indent() {
	if e.level <= 0 {
		return
	}
	for i := 0; i < e.level; i++ {
		for j := 0; j < bestIndent; j++ {
			e.out.WriteByte(' ')
		}
	}
}

func (e *emitter) node(n *core.Node) error {
	switch n.Type() {
	case core.TypeArray:
		arr, _ := n.AsArray()
		return e.array(arr)
	case core.TypeHash:
		keys, vals, _ := n.Pairs()
		return e.hash(keys, vals)
	case core.TypeString:
		s, _ := n.AsString()
		if needsQuotes(s) {
			e.out.WriteString(strconv.Quote(s))
		} else {
			e.out.WriteString(s)
		}
	case core.TypeBool:
		b, _ := n.AsBool()
		if b {
			e.out.WriteString("true")
		} else {
			e.out.WriteString("false")
		}
	case core.TypeInt:
		v, _ := n.AsInt()
		fmt.Fprintf(e.out, "%d", v)
	case core.TypeUInt:
		v, _ := n.AsUInt()
		fmt.Fprintf(e.out, "%s %d", tagUInt, v)
	case core.TypeInt64:
		v, _ := n.AsInt64()
		fmt.Fprintf(e.out, "%s %d", tagInt64, v)
	case core.TypeUInt64:
		v, _ := n.AsUInt64()
		fmt.Fprintf(e.out, "%s %d", tagUInt64, v)
	case core.TypeFloat:
		v, _ := n.AsFloat()
		fmt.Fprintf(e.out, "%s", strconv.FormatFloat(float64(v), 'g', -1, 32))
	case core.TypeDouble:
		v, _ := n.AsDouble()
		fmt.Fprintf(e.out, "%s %s", tagDouble, strconv.FormatFloat(v, 'g', -1, 64))
	case core.TypeBinary:
		b, _ := n.AsBinary()
		fmt.Fprintf(e.out, "%s %s", tagBinary, base64.StdEncoding.EncodeToString(b))
	case core.TypeNull:
		e.out.WriteString("~")
	default:
		return fmt.Errorf("%w: cannot emit node of type %s", core.ErrType, n.Type())
	}
	return nil
}

func (e *emitter) array(v []*core.Node) error {
	if len(v) == 0 {
		e.out.WriteString("[]")
		return nil
	}
	e.level++
	for i, x := range v {
		if i > 0 {
			e.out.WriteByte('\n')
			e.indent()
		}
		e.out.WriteByte('-')
		if err := e.value(true, x); err != nil {
			return err
		}
	}
	e.level--
	return nil
}

func (e *emitter) hash(keys []string, vals []*core.Node) error {
	if len(keys) == 0 {
		e.out.WriteString("{}")
		return nil
	}
	e.level++
	for i, k := range keys {
		if i > 0 {
			e.out.WriteByte('\n')
			e.indent()
		}
		if needsQuotes(k) {
			e.out.WriteString(strconv.Quote(k))
		} else {
			e.out.WriteString(k)
		}
		e.out.WriteByte(':')
		if err := e.value(false, vals[i]); err != nil {
			return err
		}
	}
	e.level--
	return nil
}

// value emits val as the value following a hash key's ":" or an array
// item's "-". inline controls whether, for a non-empty nested container,
// the container starts on the same line (after a space) or its own
// (indented) line.
func (e *emitter) value(inline bool, val *core.Node) error {
	switch val.Type() {
	case core.TypeArray:
		arr, _ := val.AsArray()
		if inline || len(arr) == 0 {
			e.out.WriteByte(' ')
		} else {
			e.out.WriteByte('\n')
			e.level++
			e.indent()
			e.level--
		}
		return e.array(arr)
	case core.TypeHash:
		keys, vals, _ := val.Pairs()
		if inline || len(keys) == 0 {
			e.out.WriteByte(' ')
		} else {
			e.out.WriteByte('\n')
			e.level++
			e.indent()
			e.level--
		}
		return e.hash(keys, vals)
	default:
		e.out.WriteByte(' ')
		return e.node(val)
	}
}
