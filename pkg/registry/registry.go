// Package registry implements the concurrent map of tools, resources
// (static and templated), and prompts that a protocol runtime queries and
// invokes against. Registration happens once at startup (pkg/scan.Register)
// and is expected to race with high-volume concurrent lookups and calls, so
// the read path takes a RWMutex read lock and the write path takes it
// exclusively.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/ksysoev/mcpkit/pkg/core"
	"github.com/ksysoev/mcpkit/pkg/dispatch"
	"github.com/ksysoev/mcpkit/pkg/mcpctx"
	"github.com/ksysoev/mcpkit/pkg/uritemplate"
)

type toolEntry struct {
	def  core.ToolDefinition
	call dispatch.Func
}

type resourceEntry struct {
	def  core.ResourceDefinition
	tmpl *uritemplate.Template // nil for a static resource
	call dispatch.Func
}

type promptEntry struct {
	def  core.PromptDefinition
	call dispatch.Func
}

// Options controls duplicate-registration handling.
type Options struct {
	// AllowOverrides, when true, lets a later registration replace an
	// earlier one under the same name instead of failing.
	AllowOverrides bool
	// WarnOnDuplicates logs (rather than silently accepts) an override.
	WarnOnDuplicates bool
	Logger           *slog.Logger
}

// Registry holds every tool, resource, and prompt registered against a host.
type Registry struct {
	mu sync.RWMutex

	opts Options

	tools             *orderedmap.OrderedMap[string, *toolEntry]
	resourcesStatic   *orderedmap.OrderedMap[string, *resourceEntry]
	resourceTemplates []*resourceEntry
	prompts           *orderedmap.OrderedMap[string, *promptEntry]
}

// New builds an empty Registry.
func New(opts Options) *Registry {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Registry{
		opts:            opts,
		tools:           orderedmap.New[string, *toolEntry](),
		resourcesStatic: orderedmap.New[string, *resourceEntry](),
		prompts:         orderedmap.New[string, *promptEntry](),
	}
}

func (r *Registry) duplicate(kind, name string) error {
	if r.opts.WarnOnDuplicates {
		r.opts.Logger.Warn("mcpkit: duplicate registration", "kind", kind, "name", name)
	}
	if r.opts.AllowOverrides {
		return nil
	}
	return &core.DuplicateRegistrationError{Name: name, Kind: kind}
}

// RegisterTool adds or replaces a tool.
func (r *Registry) RegisterTool(def core.ToolDefinition, call dispatch.Func) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools.Get(def.Name); exists {
		if err := r.duplicate("tool", def.Name); err != nil {
			return err
		}
	}
	r.tools.Set(def.Name, &toolEntry{def: def, call: call})
	return nil
}

// RegisterResourceStatic adds or replaces a fixed-URI resource.
func (r *Registry) RegisterResourceStatic(def core.ResourceDefinition, call dispatch.Func) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.resourcesStatic.Get(def.URIOrPattern); exists {
		if err := r.duplicate("resource", def.URIOrPattern); err != nil {
			return err
		}
	}
	r.resourcesStatic.Set(def.URIOrPattern, &resourceEntry{def: def, call: call})
	return nil
}

// RegisterResourceTemplate adds a templated resource. Duplicate detection is
// by pattern string identity rather than overlap; resolving overlapping
// templates against a single URI is left to callers.
func (r *Registry) RegisterResourceTemplate(def core.ResourceDefinition, tmpl *uritemplate.Template, call dispatch.Func) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, e := range r.resourceTemplates {
		if e.tmpl.Pattern() != tmpl.Pattern() {
			continue
		}
		if err := r.duplicate("resource", tmpl.Pattern()); err != nil {
			return err
		}
		r.resourceTemplates[i] = &resourceEntry{def: def, tmpl: tmpl, call: call}
		return nil
	}
	r.resourceTemplates = append(r.resourceTemplates, &resourceEntry{def: def, tmpl: tmpl, call: call})
	return nil
}

// RegisterPrompt adds or replaces a prompt.
func (r *Registry) RegisterPrompt(def core.PromptDefinition, call dispatch.Func) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.prompts.Get(def.Name); exists {
		if err := r.duplicate("prompt", def.Name); err != nil {
			return err
		}
	}
	r.prompts.Set(def.Name, &promptEntry{def: def, call: call})
	return nil
}

// ListTools returns every registered tool definition in registration order.
func (r *Registry) ListTools() []core.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]core.ToolDefinition, 0, r.tools.Len())
	for pair := r.tools.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value.def)
	}
	return out
}

// ListResources returns every static resource definition, in registration
// order. Templated resources are listed separately via
// ListResourceTemplates, per spec.md §4.6/§6's distinct list_resources and
// list_resource_templates operations.
func (r *Registry) ListResources() []core.ResourceDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]core.ResourceDefinition, 0, r.resourcesStatic.Len())
	for pair := r.resourcesStatic.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value.def)
	}
	return out
}

// ListResourceTemplates returns every templated resource definition, in
// registration order.
func (r *Registry) ListResourceTemplates() []core.ResourceDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]core.ResourceDefinition, 0, len(r.resourceTemplates))
	for _, e := range r.resourceTemplates {
		out = append(out, e.def)
	}
	return out
}

// ListPrompts returns every registered prompt definition in registration
// order.
func (r *Registry) ListPrompts() []core.PromptDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]core.PromptDefinition, 0, r.prompts.Len())
	for pair := r.prompts.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value.def)
	}
	return out
}

// CallTool invokes the named tool with raw arguments, injecting rc.
func (r *Registry) CallTool(ctx context.Context, rc mcpctx.RequestContext, name string, args map[string]any) (any, error) {
	r.mu.RLock()
	entry, ok := r.tools.Get(name)
	r.mu.RUnlock()
	if !ok {
		return nil, core.NotFoundf("tool %q is not registered", name)
	}
	return runWithContext(ctx, rc, entry.call, args)
}

// ReadResource resolves uri against every static resource first, then every
// template in registration order, and invokes the match.
func (r *Registry) ReadResource(ctx context.Context, rc mcpctx.RequestContext, uri string) (any, error) {
	r.mu.RLock()
	entry, ok := r.resourcesStatic.Get(uri)
	var tmplArgs map[string]string
	if !ok {
		for _, e := range r.resourceTemplates {
			if extracted, matched := e.tmpl.Extract(uri); matched {
				entry, tmplArgs, ok = e, extracted, true
				break
			}
		}
	}
	r.mu.RUnlock()

	if !ok {
		return nil, core.NotFoundf("resource %q is not registered", uri)
	}

	args := make(map[string]any, len(tmplArgs))
	for k, v := range tmplArgs {
		args[k] = v
	}
	return runWithContext(ctx, rc, entry.call, args)
}

// GetPrompt invokes the named prompt with raw arguments, injecting rc.
func (r *Registry) GetPrompt(ctx context.Context, rc mcpctx.RequestContext, name string, args map[string]any) (any, error) {
	r.mu.RLock()
	entry, ok := r.prompts.Get(name)
	r.mu.RUnlock()
	if !ok {
		return nil, core.NotFoundf("prompt %q is not registered", name)
	}
	return runWithContext(ctx, rc, entry.call, args)
}

func runWithContext(ctx context.Context, rc mcpctx.RequestContext, call dispatch.Func, args map[string]any) (any, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("mcpkit/registry: %w", ctx.Err())
	default:
	}
	return call(rc, args)
}
