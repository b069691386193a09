package markers

import (
	"strconv"
	"strings"
)

// ParamMeta is spec.md's ParamMetadata (§3): the parsed contents of one
// struct field's `mcp` tag. A zero ParamMeta means "no overrides, field is
// required by its declared type."
type ParamMeta struct {
	Description    string
	Examples       []string
	RequiredSet    bool // true when Required was explicitly present in the tag
	Required       bool
	SchemaOverride string // raw JSON, empty when absent

	// Default is the Go substitute for a language-level default parameter
	// value (spec.md has no such thing to reflect on, since Go function
	// signatures carry none): a field tagged `default=...` is treated as
	// having a default, so it is not required even without an explicit
	// required=false, and an absent argument is filled with this raw
	// string before coercion. See DESIGN.md.
	Default string
}

// ParseParamTag parses an `mcp` struct tag of the form
// `description=...;examples=a,b,c;required=false;default=ADD;schema={...}`.
// Segments are separated by ';'; each segment is a key=value pair except
// schema, whose value runs to the end of the tag since it may itself
// contain ';' inside JSON string values — schema must therefore be the
// last segment when present.
func ParseParamTag(tag string) ParamMeta {
	var meta ParamMeta
	if tag == "" {
		return meta
	}

	rest := tag
	for rest != "" {
		key, value, tail, found := nextSegment(rest)
		switch key {
		case "description":
			meta.Description = value
		case "examples":
			meta.Examples = splitNonEmpty(value, ',')
		case "required":
			meta.RequiredSet = true
			meta.Required, _ = strconv.ParseBool(value)
		case "default":
			meta.Default = value
		case "schema":
			// schema's value is everything remaining, braces and all.
			meta.SchemaOverride = strings.TrimPrefix(rest, "schema=")
			return meta
		}
		if !found {
			break
		}
		rest = tail
	}
	return meta
}

// nextSegment splits "key=value;restofstring" into its parts. found is
// false once rest has been fully consumed.
func nextSegment(rest string) (key, value, tail string, found bool) {
	sep := strings.IndexByte(rest, ';')
	var segment string
	if sep < 0 {
		segment, tail, found = rest, "", false
	} else {
		segment, tail, found = rest[:sep], rest[sep+1:], true
	}
	eq := strings.IndexByte(segment, '=')
	if eq < 0 {
		return strings.TrimSpace(segment), "", tail, found
	}
	return strings.TrimSpace(segment[:eq]), segment[eq+1:], tail, found
}

func splitNonEmpty(s string, sep byte) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			if part := strings.TrimSpace(s[start:i]); part != "" {
				out = append(out, part)
			}
			start = i + 1
		}
	}
	if part := strings.TrimSpace(s[start:]); part != "" {
		out = append(out, part)
	}
	return out
}
