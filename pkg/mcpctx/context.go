// Package mcpctx implements spec.md's Context Plumbing (§4.7): the optional
// first handler parameter that carries client identity and capabilities
// without being part of the tool/resource/prompt's own argument schema.
package mcpctx

import (
	"context"
	"encoding/json"
	"reflect"

	"github.com/ksysoev/mcpkit/pkg/core"
)

// RequestContext is the Go substitute for the runtime-injected "ctx"
// parameter spec.md describes. A handler method opts into it by declaring a
// first parameter of exactly this type; pkg/dispatch detects that
// declaration once, at registration time, via reflect.Type, and excludes it
// from the args struct used to build the schema and run coercion.
type RequestContext struct {
	ctx          context.Context
	clientInfo   core.ClientInfo
	capabilities core.ClientCapabilities
}

// New builds a RequestContext for one call.
func New(ctx context.Context, info core.ClientInfo, caps core.ClientCapabilities) RequestContext {
	if ctx == nil {
		ctx = context.Background()
	}
	return RequestContext{ctx: ctx, clientInfo: info, capabilities: caps}
}

// Empty returns a RequestContext suitable for calls with no transport-level
// client session behind them (local tests, the demo harness).
func Empty() RequestContext {
	return RequestContext{ctx: context.Background()}
}

// Context returns the underlying cancellation/deadline context.
func (c RequestContext) Context() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

// ClientInfo returns the connected client's self-reported identity.
func (c RequestContext) ClientInfo() core.ClientInfo { return c.clientInfo }

// Capabilities returns the connected client's declared capabilities.
func (c RequestContext) Capabilities() core.ClientCapabilities { return c.capabilities }

// RawCapability returns the raw JSON for a named capability, and whether it
// was present at all.
func (c RequestContext) RawCapability(name string) (json.RawMessage, bool) {
	raw, ok := c.capabilities[name]
	return raw, ok
}

// requestContextType is computed once and reused by every IsRequestContext
// check.
var requestContextType = reflect.TypeOf(RequestContext{})

// IsRequestContext reports whether t is exactly RequestContext, the type a
// handler's first parameter must have to receive one.
func IsRequestContext(t reflect.Type) bool {
	return t == requestContextType
}
