package yaml

import "strconv"

// Custom scalar tags that extend plain YAML to cover BYML's wider numeric
// variant set.
const (
	tagUInt   = "!u"
	tagInt64  = "!l"
	tagUInt64 = "!ul"
	tagDouble = "!f64"
	tagBinary = "!!binary"
)

// needsQuotes reports whether a plain (untagged) scalar string must be
// double-quoted to round-trip through YAML without being reinterpreted as a
// different type or losing leading/trailing whitespace.
func needsQuotes(s string) bool {
	if s == "" || startsOrEndsWithSpace(s) {
		return true
	}
	if len(s) > 0 && isIndicatorStart(s[0]) {
		return true
	}
	for _, r := range s {
		if isIndicatorChar(r) {
			return true
		}
	}
	if isReservedWord(s) {
		return true
	}
	if s[0] == '.' || (len(s) >= 2 && s[0] == '0' && s[1] == 'x') {
		return true
	}
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return true
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return true
	}
	return false
}

func startsOrEndsWithSpace(s string) bool {
	return s[0] == ' ' || s[len(s)-1] == ' '
}

func isIndicatorStart(b byte) bool {
	switch b {
	case '&', '*', '?', '|', '-', '<', '>', '=', '!', '%', '@':
		return true
	default:
		return false
	}
}

func isIndicatorChar(r rune) bool {
	switch r {
	case ':', '{', '}', '[', ']', ',', '#', '`', '"', '\'', '\\':
		return true
	}
	switch {
	case r >= 0x00 && r <= 0x06:
		return true
	case r == '\t' || r == '\n' || r == '\r':
		return true
	case r >= 0x0e && r <= 0x1a:
		return true
	case r >= 0x1c && r <= 0x1f:
		return true
	}
	return false
}

// isReservedWord reports whether s is one of the YAML 1.1 boolean/null
// spellings that a plain scalar would otherwise be mistaken for. Note that
// bare "y"/"n" (and their case variants) are deliberately excluded: like
// libyaml and PyYAML, this front-end treats them as plain strings, not
// booleans.
func isReservedWord(s string) bool {
	switch s {
	case "yes", "Yes", "YES", "no", "No", "NO",
		"true", "True", "TRUE", "false", "False", "FALSE",
		"on", "On", "ON", "off", "Off", "OFF",
		"null", "Null", "NULL", "~":
		return true
	default:
		return false
	}
}
