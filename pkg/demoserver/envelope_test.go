package demoserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksysoev/mcpkit/pkg/core"
)

func TestToolContentNilIsEmptyList(t *testing.T) {
	// Arrange / Act
	out := ToolContent(nil)

	// Assert
	assert.Equal(t, []core.Content{}, out)
}

func TestToolContentString(t *testing.T) {
	// Arrange / Act
	out := ToolContent("hello")

	// Assert
	require.Len(t, out, 1)
	assert.Equal(t, core.TextContent("hello"), out[0])
}

func TestToolContentBytesBecomesImage(t *testing.T) {
	// Arrange
	data := []byte{0xde, 0xad, 0xbe, 0xef}

	// Act
	out := ToolContent(data)

	// Assert
	require.Len(t, out, 1)
	assert.Equal(t, "image", out[0].Type)
	assert.Equal(t, data, out[0].Data)
	assert.Equal(t, "application/octet-stream", out[0].MimeType)
}

func TestToolContentPassthroughSingleAndSlice(t *testing.T) {
	// Arrange
	single := core.TextContent("one")
	list := []core.Content{core.TextContent("a"), core.TextContent("b")}

	// Act / Assert
	assert.Equal(t, []core.Content{single}, ToolContent(single))
	assert.Equal(t, list, ToolContent(list))
}

func TestToolContentDefaultStringifies(t *testing.T) {
	// Arrange / Act
	out := ToolContent(42)

	// Assert
	require.Len(t, out, 1)
	assert.Equal(t, "42", out[0].Text)
}

func TestPromptMessagesString(t *testing.T) {
	// Arrange / Act
	out := PromptMessages("what's the weather")

	// Assert
	assert.Equal(t, core.UserText("what's the weather"), out)
}

func TestPromptMessagesPassthroughList(t *testing.T) {
	// Arrange
	msgs := []core.Message{{Role: core.RoleAssistant, Content: core.TextContent("hi")}}

	// Act
	out := PromptMessages(msgs)

	// Assert
	assert.Equal(t, msgs, out)
}

func TestPromptMessagesEmptyListBecomesEmptyUserText(t *testing.T) {
	// Arrange / Act
	out := PromptMessages([]core.Message{})

	// Assert
	assert.Equal(t, core.UserText(""), out)
}

func TestPromptMessagesDefaultStringifies(t *testing.T) {
	// Arrange / Act
	out := PromptMessages(7)

	// Assert
	assert.Equal(t, core.UserText("7"), out)
}

func TestMarshalContentEncodesDataAsBase64(t *testing.T) {
	// Arrange
	c := core.ImageContent([]byte("hi"), "image/png")

	// Act
	out := marshalContent(c)

	// Assert
	assert.Equal(t, "aGk=", out.Data)
	assert.Equal(t, "image/png", out.MimeType)
}

func TestMarshalContentWithEmbeddedResource(t *testing.T) {
	// Arrange
	c := core.Content{
		Type: "resource",
		Resource: &core.EmbeddedResource{
			URI:      "users://42",
			MimeType: "text/plain",
			Blob:     []byte("blob"),
		},
	}

	// Act
	out := marshalContent(c)

	// Assert
	require.NotNil(t, out.Resource)
	assert.Equal(t, "users://42", out.Resource.URI)
	assert.Equal(t, "YmxvYg==", out.Resource.Blob)
}

func TestMarshalMessage(t *testing.T) {
	// Arrange
	m := core.Message{Role: core.RoleUser, Content: core.TextContent("hi")}

	// Act
	out := marshalMessage(m)

	// Assert
	assert.Equal(t, "user", out.Role)
	assert.Equal(t, "hi", out.Content.Text)
}
