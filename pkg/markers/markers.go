// Package markers carries the method-level metadata spec.md's Metadata
// Parser (§4.1) would otherwise read off a Tool/Resource/Prompt annotation.
// Go attaches no annotations to methods, so a Marker is supplied by the host
// author at the call site that names the method (see pkg/scan.Register) —
// the nearest runtime-observable substitute. See SPEC_FULL.md §0.
package markers

// Kind identifies which of the three registration surfaces a Marker targets.
type Kind int

const (
	KindTool Kind = iota
	KindResource
	KindPrompt
)

// Marker names one method on a host type and attaches its Tool/Resource/
// Prompt metadata. MethodName must match an exported method on the host
// passed to pkg/scan.Register.
type Marker struct {
	Kind       Kind
	MethodName string

	// Tool/Prompt
	Name        string
	Description string
	DocComment  string
	Tags        []string

	// Resource
	URI      string
	MimeType string
}

// Option mutates a Marker being built by Tool/Resource/Prompt.
type Option func(*Marker)

// WithName overrides the default name (the method's own Go name).
func WithName(name string) Option {
	return func(m *Marker) { m.Name = name }
}

// WithDescription sets the marker's description explicitly.
func WithDescription(desc string) Option {
	return func(m *Marker) { m.Description = desc }
}

// WithDocComment supplies the method's doc comment text, since reflect
// cannot recover it at runtime. Description falls back to this when unset.
func WithDocComment(doc string) Option {
	return func(m *Marker) { m.DocComment = doc }
}

// WithTags attaches tags to a tool marker.
func WithTags(tags ...string) Option {
	return func(m *Marker) { m.Tags = append([]string(nil), tags...) }
}

// WithMimeType sets a resource marker's MIME type; defaults to text/plain.
func WithMimeType(mime string) Option {
	return func(m *Marker) { m.MimeType = mime }
}

// Tool marks methodName as a tool handler.
func Tool(methodName string, opts ...Option) Marker {
	m := Marker{Kind: KindTool, MethodName: methodName}
	apply(&m, opts)
	return m
}

// Resource marks methodName as a resource handler for uriOrPattern. A
// pattern containing {name} placeholders registers a template; otherwise it
// registers a static resource.
func Resource(methodName, uriOrPattern string, opts ...Option) Marker {
	m := Marker{Kind: KindResource, MethodName: methodName, URI: uriOrPattern, MimeType: "text/plain"}
	apply(&m, opts)
	return m
}

// Prompt marks methodName as a prompt handler.
func Prompt(methodName string, opts ...Option) Marker {
	m := Marker{Kind: KindPrompt, MethodName: methodName}
	apply(&m, opts)
	return m
}

func apply(m *Marker, opts []Option) {
	for _, opt := range opts {
		opt(m)
	}
}

// ResolvedDescription returns Description, falling back to DocComment, per
// spec.md §4.1's "description defaults to the method's doc comment" rule.
func (m Marker) ResolvedDescription() string {
	if m.Description != "" {
		return m.Description
	}
	return m.DocComment
}
