// Package uritemplate implements spec.md's URI Template Engine (§4.5): it
// parses a resource pattern containing {name} placeholders into an anchored
// matcher, and extracts placeholder values from a concrete URI in
// declaration order.
package uritemplate

import (
	"regexp"
	"strings"
)

var placeholder = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Template is a compiled resource URI pattern. A pattern with no
// placeholders is a static resource URI; IsTemplate reports which.
type Template struct {
	pattern string
	names   []string
	re      *regexp.Regexp
}

// Compile parses pattern into a Template. {name} segments become capture
// groups matching any run of characters other than '/', so
// "users://{id}" matches "users://123" but not "users://123/extra".
func Compile(pattern string) *Template {
	var names []string
	var b strings.Builder
	b.WriteByte('^')

	last := 0
	for _, loc := range placeholder.FindAllStringSubmatchIndex(pattern, -1) {
		start, end := loc[0], loc[1]
		nameStart, nameEnd := loc[2], loc[3]

		b.WriteString(regexp.QuoteMeta(pattern[last:start]))
		b.WriteString(`([^/]+)`)
		names = append(names, pattern[nameStart:nameEnd])
		last = end
	}
	b.WriteString(regexp.QuoteMeta(pattern[last:]))
	b.WriteByte('$')

	return &Template{
		pattern: pattern,
		names:   names,
		re:      regexp.MustCompile(b.String()),
	}
}

// Pattern returns the original, uncompiled pattern string.
func (t *Template) Pattern() string { return t.pattern }

// IsTemplate reports whether the pattern contains at least one {name}
// placeholder. A pattern with none identifies a static resource.
func (t *Template) IsTemplate() bool { return len(t.names) > 0 }

// ParamNames returns the placeholder names in declaration order.
func (t *Template) ParamNames() []string { return append([]string(nil), t.names...) }

// Matches reports whether uri matches this template in its entirety.
func (t *Template) Matches(uri string) bool {
	return t.re.MatchString(uri)
}

// Extract matches uri against the template and, on success, returns the
// captured placeholder values keyed by name.
func (t *Template) Extract(uri string) (map[string]string, bool) {
	m := t.re.FindStringSubmatch(uri)
	if m == nil {
		return nil, false
	}
	out := make(map[string]string, len(t.names))
	for i, name := range t.names {
		out[name] = m[i+1]
	}
	return out, true
}
