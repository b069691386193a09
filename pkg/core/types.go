// Package core defines the data model shared by every other mcpkit package:
// tool/resource/prompt definitions, the message envelope returned to a
// protocol runtime, and the request context threaded through handler calls.
package core

import "encoding/json"

// ToolDefinition describes a registered tool: its name, its JSON Schema
// input shape, and the tags an application may use to group tools.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema map[string]any
	Tags        []string
}

// ResourceArgument describes one placeholder of a templated resource. Static
// resources take no arguments.
type ResourceArgument struct {
	Name        string
	Description string
	Required    bool
}

// ResourceDefinition describes a registered resource. IsTemplate is true
// when URIOrPattern contains at least one {name} placeholder.
type ResourceDefinition struct {
	URIOrPattern string
	Name         string
	Description  string
	MimeType     string
	IsTemplate   bool
	Arguments    []ResourceArgument
}

// PromptArgument describes one argument a prompt template accepts.
type PromptArgument struct {
	Name        string
	Description string
	Required    bool
}

// PromptDefinition describes a registered prompt.
type PromptDefinition struct {
	Name        string
	Description string
	Arguments   []PromptArgument
}

// Role identifies the sender of a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Content is the payload of a Message or of a tool call result. Exactly one
// of Text, the Data/MimeType pair, or Resource is populated, selected by Type.
type Content struct {
	Type     string // "text", "image", or "resource"
	Text     string
	Data     []byte
	MimeType string
	Resource *EmbeddedResource
}

// EmbeddedResource carries either text or a base64-eligible blob alongside
// the URI and MIME type identifying the resource it was read from. Exactly
// one of Text or Blob MUST be set.
type EmbeddedResource struct {
	URI      string
	MimeType string
	Text     string
	Blob     []byte
}

// TextContent is a convenience constructor for a text Content item.
func TextContent(text string) Content {
	return Content{Type: "text", Text: text}
}

// ImageContent is a convenience constructor for an image Content item.
func ImageContent(data []byte, mimeType string) Content {
	return Content{Type: "image", Data: data, MimeType: mimeType}
}

// Message is a single turn of a prompt result: a role plus its content.
type Message struct {
	Role    Role
	Content Content
}

// UserText builds a single-message prompt result out of plain text, per
// spec.md's prompt adaptation rule for string-returning prompt methods.
func UserText(text string) []Message {
	return []Message{{Role: RoleUser, Content: TextContent(text)}}
}

// ClientInfo identifies the MCP client driving a request, as surfaced by
// RequestContext.
type ClientInfo struct {
	Name    string
	Version string
}

// ClientCapabilities mirrors the subset of capability negotiation a handler
// might care about; it is opaque beyond what the protocol runtime populated.
type ClientCapabilities map[string]json.RawMessage
