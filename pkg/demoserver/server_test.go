package demoserver

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksysoev/mcpkit/pkg/core"
	"github.com/ksysoev/mcpkit/pkg/mcpctx"
	"github.com/ksysoev/mcpkit/pkg/registry"
)

func newTestServer(t *testing.T, in io.Reader, out io.Writer) *Server {
	t.Helper()
	reg := registry.New(registry.Options{})
	require.NoError(t, reg.RegisterTool(core.ToolDefinition{
		Name:        "echo",
		InputSchema: map[string]any{"type": "object"},
	}, func(rc mcpctx.RequestContext, args map[string]any) (any, error) {
		return args["text"], nil
	}))
	return New(reg, in, out, nil)
}

func TestValidateSchemasAcceptsWellFormedSchema(t *testing.T) {
	// Arrange
	s := newTestServer(t, nil, &bytes.Buffer{})

	// Act
	err := s.ValidateSchemas()

	// Assert
	assert.NoError(t, err)
}

func TestValidateSchemasRejectsMalformedSchema(t *testing.T) {
	// Arrange
	reg := registry.New(registry.Options{})
	require.NoError(t, reg.RegisterTool(core.ToolDefinition{
		Name:        "broken",
		InputSchema: map[string]any{"type": "not-a-real-type", "properties": 42},
	}, func(mcpctx.RequestContext, map[string]any) (any, error) { return nil, nil }))
	s := New(reg, nil, &bytes.Buffer{}, nil)

	// Act
	err := s.ValidateSchemas()

	// Assert
	assert.Error(t, err)
}

func TestRunStopsOnContextCancellation(t *testing.T) {
	// Arrange
	in, _ := io.Pipe() // never written to or closed
	out := &bytes.Buffer{}
	s := newTestServer(t, in, out)

	ctx, cancel := context.WithCancel(context.Background())

	// Act
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	// Assert
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}

func TestRunProcessesToolsListRequest(t *testing.T) {
	// Arrange
	in, w := io.Pipe()
	out := &bytes.Buffer{}
	s := newTestServer(t, in, out)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()

	// Act
	_, err := w.Write([]byte(`{"id":"1","method":"tools/list"}` + "\n"))
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-errCh

	// Assert
	assert.Contains(t, out.String(), `"id":"1"`)
	assert.Contains(t, out.String(), "echo")
}

func TestRunProcessesToolsCallRequest(t *testing.T) {
	// Arrange
	in, w := io.Pipe()
	out := &bytes.Buffer{}
	s := newTestServer(t, in, out)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()

	// Act
	req := `{"id":"2","method":"tools/call","params":{"name":"echo","arguments":{"text":"hi"}}}` + "\n"
	_, err := w.Write([]byte(req))
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-errCh

	// Assert
	assert.Contains(t, out.String(), `"text":"hi"`)
}

func TestRunReturnsInvalidRequestErrorOnMalformedJSON(t *testing.T) {
	// Arrange
	in, w := io.Pipe()
	out := &bytes.Buffer{}
	s := newTestServer(t, in, out)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()

	// Act
	_, err := w.Write([]byte("{not json\n"))
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-errCh

	// Assert
	assert.Contains(t, out.String(), "invalid request")
}
