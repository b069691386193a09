// Package demoserver is an illustrative stdio JSON-lines front end for a
// registry.Registry. It is explicitly not part of the core derivation
// pipeline spec.md covers (§1 lists "JSON serialization of handler return
// values to protocol content envelopes" as an external collaborator's
// concern); it exists so the registry can be exercised end-to-end outside a
// test file, the same role teacher's pkg/server/mcp.go and
// pkg/api/service.go play for its own tool registrations.
package demoserver

import (
	"encoding/base64"
	"fmt"

	"github.com/ksysoev/mcpkit/pkg/core"
)

// ToolContent renders a tool handler's raw return value into the Content
// list a protocol runtime would serialize, per spec.md §6's result
// envelope conventions.
func ToolContent(result any) []core.Content {
	switch v := result.(type) {
	case nil:
		return []core.Content{}
	case string:
		return []core.Content{core.TextContent(v)}
	case []byte:
		return []core.Content{core.ImageContent(v, "application/octet-stream")}
	case core.Content:
		return []core.Content{v}
	case []core.Content:
		return v
	default:
		return []core.Content{core.TextContent(fmt.Sprintf("%v", v))}
	}
}

// PromptMessages applies spec.md §6's prompt adaptation rule to a prompt
// handler's raw return value.
func PromptMessages(result any) []core.Message {
	switch v := result.(type) {
	case []core.Message:
		if len(v) > 0 {
			return v
		}
		return core.UserText("")
	case string:
		return core.UserText(v)
	default:
		return core.UserText(fmt.Sprintf("%v", v))
	}
}

// contentJSON is the wire shape ToolContent/embedded-resource content is
// marshalled to; base64 fields are encoded explicitly since Content.Data
// and EmbeddedResource.Blob are raw []byte.
type contentJSON struct {
	Type     string           `json:"type"`
	Text     string           `json:"text,omitempty"`
	Data     string           `json:"data,omitempty"`
	MimeType string           `json:"mimeType,omitempty"`
	Resource *resourceContent `json:"resource,omitempty"`
}

type resourceContent struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
	Blob     string `json:"blob,omitempty"`
}

func marshalContent(c core.Content) contentJSON {
	out := contentJSON{Type: c.Type, Text: c.Text, MimeType: c.MimeType}
	if len(c.Data) > 0 {
		out.Data = base64.StdEncoding.EncodeToString(c.Data)
	}
	if c.Resource != nil {
		out.Resource = &resourceContent{
			URI:      c.Resource.URI,
			MimeType: c.Resource.MimeType,
			Text:     c.Resource.Text,
		}
		if len(c.Resource.Blob) > 0 {
			out.Resource.Blob = base64.StdEncoding.EncodeToString(c.Resource.Blob)
		}
	}
	return out
}

type messageJSON struct {
	Role    string      `json:"role"`
	Content contentJSON `json:"content"`
}

func marshalMessage(m core.Message) messageJSON {
	return messageJSON{Role: string(m.Role), Content: marshalContent(m.Content)}
}
