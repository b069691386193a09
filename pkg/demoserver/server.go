package demoserver

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/sync/errgroup"

	"github.com/ksysoev/mcpkit/pkg/core"
	"github.com/ksysoev/mcpkit/pkg/mcpctx"
	"github.com/ksysoev/mcpkit/pkg/registry"
)

// request is one line of the illustrative stdio wire format: a method name
// plus its raw JSON params.
type request struct {
	ID     string          `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

type response struct {
	ID     string `json:"id"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

type initializeParams struct {
	ClientInfo core.ClientInfo `json:"clientInfo"`
}

type callParams struct {
	Name string         `json:"name"`
	URI  string         `json:"uri"`
	Args map[string]any `json:"arguments"`
}

// Server reads one JSON request per line from In and writes one JSON
// response per line to Out, dispatching each against a registry.Registry.
// It is illustrative wiring for exercising the registry, not a conformant
// MCP transport (see SPEC_FULL.md §5).
type Server struct {
	Registry *registry.Registry
	In       io.Reader
	Out      io.Writer
	Logger   *slog.Logger

	mu     sync.Mutex
	client core.ClientInfo
}

// New builds a Server. A nil Logger falls back to slog.Default().
func New(reg *registry.Registry, in io.Reader, out io.Writer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{Registry: reg, In: in, Out: out, Logger: logger}
}

// ValidateSchemas compiles every registered tool's input_schema against the
// JSON Schema meta-schema, failing fast on a malformed schema before the
// server starts serving requests — the sanity check a real protocol
// runtime would also want to run once at startup.
func (s *Server) ValidateSchemas() error {
	for _, def := range s.Registry.ListTools() {
		data, err := json.Marshal(def.InputSchema)
		if err != nil {
			return fmt.Errorf("mcpkit/demoserver: marshal schema for %q: %w", def.Name, err)
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(def.Name+".json", bytes.NewReader(data)); err != nil {
			return fmt.Errorf("mcpkit/demoserver: schema for %q: %w", def.Name, err)
		}
		if _, err := compiler.Compile(def.Name + ".json"); err != nil {
			return fmt.Errorf("mcpkit/demoserver: schema for %q is not a valid JSON Schema: %w", def.Name, err)
		}
	}
	return nil
}

// Run serves requests from In until ctx is cancelled or In returns EOF,
// writing responses to Out as it goes. The line reader runs on its own
// goroutine so a blocking read on In (the normal state of a stdio pipe with
// no more input coming) never prevents Run from returning once ctx is
// cancelled; it mirrors teacher's pattern of running the serve loop
// alongside a cancellation watcher under a single errgroup.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	lines := make(chan []byte)
	go func() {
		defer close(lines)
		if err := readLines(s.In, lines); err != nil {
			s.Logger.Error("mcpkit/demoserver: read loop", "error", err)
		}
	}()

	g.Go(func() error {
		// Returning on EOF releases the cancellation watcher below.
		defer cancel()
		return s.serve(ctx, lines)
	})
	g.Go(func() error {
		<-ctx.Done()
		return ctx.Err()
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// readLines scans in line by line, sending each non-empty line on lines.
// It runs detached from ctx: a blocking read on a pipe nobody closes simply
// outlives the Server.Run call that spawned it, same as any stdio server
// that can't interrupt a pending read on its input.
func readLines(in io.Reader, lines chan<- []byte) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := append([]byte(nil), scanner.Bytes()...)
		if len(line) == 0 {
			continue
		}
		lines <- line
	}
	return scanner.Err()
}

func (s *Server) serve(ctx context.Context, lines <-chan []byte) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			var req request
			if err := json.Unmarshal(line, &req); err != nil {
				s.writeResponse(response{Error: fmt.Sprintf("invalid request: %v", err)})
				continue
			}
			s.handle(ctx, req)
		}
	}
}

func (s *Server) handle(ctx context.Context, req request) {
	resp := response{ID: req.ID}

	result, err := s.dispatch(ctx, req)
	if err != nil {
		resp.Error = err.Error()
	} else {
		resp.Result = result
	}
	s.writeResponse(resp)
}

func (s *Server) dispatch(ctx context.Context, req request) (any, error) {
	switch req.Method {
	case "initialize":
		var p initializeParams
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.client = p.ClientInfo
		s.mu.Unlock()
		return map[string]any{"ok": true}, nil

	case "tools/list":
		return s.Registry.ListTools(), nil

	case "resources/list":
		return s.Registry.ListResources(), nil

	case "resources/templates/list":
		return s.Registry.ListResourceTemplates(), nil

	case "prompts/list":
		return s.Registry.ListPrompts(), nil

	case "tools/call":
		var p callParams
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return nil, err
		}
		result, err := s.Registry.CallTool(ctx, s.requestContext(ctx), p.Name, p.Args)
		if err != nil {
			return nil, err
		}
		out := make([]contentJSON, 0)
		for _, c := range ToolContent(result) {
			out = append(out, marshalContent(c))
		}
		return out, nil

	case "resources/read":
		var p callParams
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return nil, err
		}
		result, err := s.Registry.ReadResource(ctx, s.requestContext(ctx), p.URI)
		if err != nil {
			return nil, err
		}
		return result, nil

	case "prompts/get":
		var p callParams
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return nil, err
		}
		result, err := s.Registry.GetPrompt(ctx, s.requestContext(ctx), p.Name, p.Args)
		if err != nil {
			return nil, err
		}
		out := make([]messageJSON, 0)
		for _, m := range PromptMessages(result) {
			out = append(out, marshalMessage(m))
		}
		return out, nil

	default:
		return nil, fmt.Errorf("mcpkit/demoserver: unknown method %q", req.Method)
	}
}

func (s *Server) requestContext(ctx context.Context) mcpctx.RequestContext {
	s.mu.Lock()
	client := s.client
	s.mu.Unlock()
	return mcpctx.New(ctx, client, nil)
}

func (s *Server) writeResponse(resp response) {
	data, err := json.Marshal(resp)
	if err != nil {
		s.Logger.Error("mcpkit/demoserver: marshal response", "error", err)
		return
	}
	data = append(data, '\n')
	if _, err := s.Out.Write(data); err != nil {
		s.Logger.Error("mcpkit/demoserver: write response", "error", err)
	}
}
