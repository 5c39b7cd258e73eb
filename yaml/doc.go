// Package yaml provides a YAML-flavored text front-end for BYML documents,
// built on top of gopkg.in/yaml.v3. It targets the same document model as
// the binary codec (internal/core) and is a convenience surface for hand
// editing and diffing, not a replacement for the binary format: wire
// concepts with no YAML equivalent (string-table interning, offset vs.
// inline encoding) do not appear here at all.
package yaml
