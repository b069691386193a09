// Package scan orchestrates turning a host value and its markers into live
// registry entries: given a host value and the markers describing which of
// its methods are tools, resources, or prompts, it derives each method's
// TypeShape, generates its JSON Schema, builds its dispatch adapter, and
// registers the result into a registry.Registry.
package scan

import (
	"reflect"

	"github.com/ksysoev/mcpkit/pkg/core"
	"github.com/ksysoev/mcpkit/pkg/dispatch"
	"github.com/ksysoev/mcpkit/pkg/markers"
	"github.com/ksysoev/mcpkit/pkg/registry"
	"github.com/ksysoev/mcpkit/pkg/schema"
	"github.com/ksysoev/mcpkit/pkg/typeshape"
	"github.com/ksysoev/mcpkit/pkg/uritemplate"
)

// Register builds and registers every marker in ms against reg, resolving
// each marker's MethodName on host. It validates marker/method consistency
// (method exists, has a dispatchable signature, a resource pattern's
// placeholders exactly match the args struct's fields) before registering
// anything from this call, so a malformed host fails fast with a
// core.ErrBuild-classified error rather than registering a partial set.
func Register(reg *registry.Registry, host any, ms ...markers.Marker) error {
	hostVal := reflect.ValueOf(host)

	type built struct {
		marker markers.Marker
		call   dispatch.Func
		shape  typeshape.Shape
		sch    map[string]any
		tmpl   *uritemplate.Template
	}

	builds := make([]built, 0, len(ms))

	for _, m := range ms {
		method := hostVal.MethodByName(m.MethodName)
		if !method.IsValid() {
			return core.BuildErrorf("mcpkit/scan: host has no method %q", m.MethodName)
		}

		call, shape, err := dispatch.Build(m.MethodName, method)
		if err != nil {
			return core.BuildErrorf("mcpkit/scan: %s: %w", m.MethodName, err)
		}

		overrides := paramOverrides(shape)
		if err := validateOverrides(m.MethodName, shape, overrides); err != nil {
			return err
		}

		sch, err := schema.Generate(shape, overrides)
		if err != nil {
			return core.BuildErrorf("mcpkit/scan: %s: %w", m.MethodName, err)
		}

		b := built{marker: m, call: call, shape: shape, sch: sch}

		if m.Kind == markers.KindResource {
			tmpl := uritemplate.Compile(m.URI)
			if err := validateTemplateParams(m.MethodName, tmpl, shape); err != nil {
				return err
			}
			b.tmpl = tmpl
		}

		builds = append(builds, b)
	}

	for _, b := range builds {
		switch b.marker.Kind {
		case markers.KindTool:
			def := core.ToolDefinition{
				Name:        resolvedName(b.marker),
				Description: b.marker.ResolvedDescription(),
				InputSchema: b.sch,
				Tags:        b.marker.Tags,
			}
			if err := reg.RegisterTool(def, b.call); err != nil {
				return err
			}
		case markers.KindResource:
			def := core.ResourceDefinition{
				URIOrPattern: b.marker.URI,
				Name:         resolvedName(b.marker),
				Description:  b.marker.ResolvedDescription(),
				MimeType:     b.marker.MimeType,
				IsTemplate:   b.tmpl.IsTemplate(),
				Arguments:    resourceArguments(b.tmpl),
			}
			if b.tmpl.IsTemplate() {
				if err := reg.RegisterResourceTemplate(def, b.tmpl, b.call); err != nil {
					return err
				}
			} else {
				if err := reg.RegisterResourceStatic(def, b.call); err != nil {
					return err
				}
			}
		case markers.KindPrompt:
			def := core.PromptDefinition{
				Name:        resolvedName(b.marker),
				Description: b.marker.ResolvedDescription(),
				Arguments:   promptArguments(b.shape),
			}
			if err := reg.RegisterPrompt(def, b.call); err != nil {
				return err
			}
		}
	}

	return nil
}

func resolvedName(m markers.Marker) string {
	if m.Name != "" {
		return m.Name
	}
	return m.MethodName
}

// paramOverrides reads each top-level field's `mcp` struct tag into a
// markers.ParamMeta, keyed by the field's JSON/argument name.
func paramOverrides(shape typeshape.Shape) map[string]markers.ParamMeta {
	if shape.GoType == nil {
		return nil
	}
	overrides := make(map[string]markers.ParamMeta, len(shape.Fields))
	for _, f := range shape.Fields {
		sf := shape.GoType.FieldByIndex(f.Index)
		tag := sf.Tag.Get("mcp")
		if tag == "" {
			continue
		}
		overrides[f.JSONName] = markers.ParseParamTag(tag)
	}
	return overrides
}

// validateOverrides enforces that required=false is only meaningful on a
// field that is itself Optional or defaulted;
// overriding required=true on an Optional field is allowed (the handler
// must still cope with a nil pointer if the caller omits it, but the schema
// will advertise it as required).
func validateOverrides(methodName string, shape typeshape.Shape, overrides map[string]markers.ParamMeta) error {
	for _, f := range shape.Fields {
		meta, ok := overrides[f.JSONName]
		if !ok || !meta.RequiredSet || meta.Required {
			continue
		}
		if f.Shape.Kind != typeshape.KindOptional && !f.HasDefault {
			return core.BuildErrorf(
				"mcpkit/scan: %s: field %q cannot be marked required=false; it has no default and is not a pointer type",
				methodName, f.JSONName,
			)
		}
	}
	return nil
}

// validateTemplateParams enforces that every {name} placeholder in a
// resource pattern must name an actual field of the args struct, and vice
// versa every required field must appear as a placeholder. A pattern with
// no placeholders identifies a static resource, which per spec.md §4.1/§8
// must have zero parameters.
func validateTemplateParams(methodName string, tmpl *uritemplate.Template, shape typeshape.Shape) error {
	if !tmpl.IsTemplate() {
		if len(shape.Fields) > 0 {
			return core.BuildErrorf(
				"mcpkit/scan: %s: static resource pattern %q must have no parameters, got %d",
				methodName, tmpl.Pattern(), len(shape.Fields),
			)
		}
		return nil
	}
	fields := make(map[string]bool, len(shape.Fields))
	for _, f := range shape.Fields {
		fields[f.JSONName] = true
	}
	for _, name := range tmpl.ParamNames() {
		if !fields[name] {
			return core.BuildErrorf(
				"mcpkit/scan: %s: resource pattern placeholder %q has no matching args field", methodName, name,
			)
		}
	}
	for _, f := range shape.Fields {
		if f.IsRequiredByDefault() && !containsStr(tmpl.ParamNames(), f.JSONName) {
			return core.BuildErrorf(
				"mcpkit/scan: %s: required field %q is not bound by any {%s} placeholder in pattern %q",
				methodName, f.JSONName, f.JSONName, tmpl.Pattern(),
			)
		}
	}
	return nil
}

func containsStr(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}

func resourceArguments(tmpl *uritemplate.Template) []core.ResourceArgument {
	if tmpl == nil || !tmpl.IsTemplate() {
		return nil
	}
	names := tmpl.ParamNames()
	args := make([]core.ResourceArgument, len(names))
	for i, n := range names {
		args[i] = core.ResourceArgument{Name: n, Required: true}
	}
	return args
}

func promptArguments(shape typeshape.Shape) []core.PromptArgument {
	args := make([]core.PromptArgument, 0, len(shape.Fields))
	for _, f := range shape.Fields {
		args = append(args, core.PromptArgument{
			Name:        f.JSONName,
			Description: f.Description,
			Required:    f.IsRequiredByDefault(),
		})
	}
	return args
}
