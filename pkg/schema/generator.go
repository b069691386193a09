// Package schema implements spec.md's Schema Generator (§4.3, component 2):
// it walks a typeshape.Shape and produces a JSON Schema value, resolving
// away any internal $defs/$ref before returning it, then applies
// per-parameter markers.ParamMeta overrides.
package schema

import (
	"encoding/json"
	"fmt"
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/invopop/jsonschema"

	"github.com/ksysoev/mcpkit/pkg/markers"
	"github.com/ksysoev/mcpkit/pkg/typeshape"
)

// Properties is the ordered map/string-schema type used for every
// "properties" value this package emits, so JSON marshalling preserves
// declaration order the way spec.md's Product/top-level rules require.
type Properties = *orderedmap.OrderedMap[string, any]

func newProperties() Properties { return orderedmap.New[string, any]() }

// draft is the intermediate representation: a schema tree that may still
// contain {"$ref": "#/$defs/X"} nodes, plus the $defs table they point into.
type draft struct {
	defs map[string]map[string]any
}

// Generate produces the top-level input_schema object for a Product shape
// representing a method's args struct, with its "required" property names
// sorted. overrides is keyed by the struct field's JSON name.
func Generate(shape typeshape.Shape, overrides map[string]markers.ParamMeta) (map[string]any, error) {
	if shape.Kind != typeshape.KindProduct {
		return nil, fmt.Errorf("mcpkit/schema: top-level shape must be a product, got %v", shape.Kind)
	}

	d := &draft{defs: map[string]map[string]any{}}
	raw := d.object(shape)
	resolved := inline(raw, d.defs, map[string]bool{})

	applyOverrides(resolved, overrides)
	sortRequired(resolved)
	return resolved, nil
}

// object builds the schema for a Product shape's own field list (used both
// for the top-level args struct and for nested struct-typed fields).
func (d *draft) object(shape typeshape.Shape) map[string]any {
	props := newProperties()
	var required []string

	for _, f := range shape.Fields {
		props.Set(f.JSONName, d.subschema(f.Shape))
		if f.IsRequiredByDefault() {
			required = append(required, f.JSONName)
		}
	}

	out := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		sort.Strings(required)
		out["required"] = required
	}
	return out
}

func (d *draft) subschema(s typeshape.Shape) any {
	switch s.Kind {
	case typeshape.KindPrimitiveString:
		return map[string]any{"type": "string"}
	case typeshape.KindPrimitiveInteger:
		return map[string]any{"type": "integer"}
	case typeshape.KindPrimitiveNumber:
		return map[string]any{"type": "number"}
	case typeshape.KindPrimitiveBoolean:
		return map[string]any{"type": "boolean"}
	case typeshape.KindOptional:
		return d.subschema(*s.Elem)
	case typeshape.KindList:
		return map[string]any{
			"type":  "array",
			"items": d.subschema(*s.Elem),
		}
	case typeshape.KindMap:
		return map[string]any{
			"type":                 "object",
			"additionalProperties": d.subschema(*s.Elem),
		}
	case typeshape.KindProduct:
		return d.productRef(s)
	case typeshape.KindSum:
		return map[string]any{"type": "string", "enum": append([]string(nil), s.Variants...)}
	case typeshape.KindOpaque:
		return opaqueSchema(s)
	default:
		return map[string]any{"type": "object"}
	}
}

// productRef registers the named product's schema under $defs and returns a
// $ref to it, exactly the indirection spec.md §4.3 says the walker produces
// before the resolver inlines everything away.
func (d *draft) productRef(s typeshape.Shape) map[string]any {
	name := s.Name
	if name == "" {
		name = fmt.Sprintf("anon%p", &s)
	}
	if _, ok := d.defs[name]; !ok {
		d.defs[name] = map[string]any{} // placeholder breaks recursion cycles
		d.defs[name] = d.object(s)
	}
	return map[string]any{"$ref": "#/$defs/" + name}
}

// opaqueSchema falls through to a general-purpose struct reflector for types
// the structural walker has no dedicated rule for, per spec.md §4.2's
// "Opaque(name): serialization will fall through to a general-purpose
// object converter at run time."
func opaqueSchema(s typeshape.Shape) map[string]any {
	if s.GoType == nil {
		return map[string]any{"type": "object"}
	}
	r := &jsonschema.Reflector{ExpandedStruct: true}
	js := r.ReflectFromType(s.GoType)
	data, err := json.Marshal(js)
	if err != nil {
		return map[string]any{"type": "object"}
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return map[string]any{"type": "object"}
	}
	out["type"] = "object"
	delete(out, "$schema")
	delete(out, "$id")
	return out
}

// inline recursively replaces every {"$ref": "#/$defs/X"} with a fresh copy
// of defs[X], resolved the same way inside. A $ref that doesn't resolve is
// left in place, per spec.md §4.3. visiting guards against def-to-def
// cycles (which productRef's placeholder already prevents at build time,
// but a user-defined recursive struct can still legitimately produce one).
func inline(node any, defs map[string]map[string]any, visiting map[string]bool) any {
	switch v := node.(type) {
	case map[string]any:
		if ref, ok := v["$ref"].(string); ok && len(v) == 1 {
			name, ok := defName(ref)
			if !ok {
				return v
			}
			def, ok := defs[name]
			if !ok || visiting[name] {
				return v
			}
			visiting = cloneVisiting(visiting)
			visiting[name] = true
			return inline(def, defs, visiting)
		}
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[k] = inline(val, defs, visiting)
		}
		return out
	case Properties:
		out := newProperties()
		for pair := v.Oldest(); pair != nil; pair = pair.Next() {
			out.Set(pair.Key, inline(pair.Value, defs, visiting))
		}
		return out
	case []string:
		return v
	default:
		return v
	}
}

func defName(ref string) (string, bool) {
	const prefix = "#/$defs/"
	if len(ref) <= len(prefix) || ref[:len(prefix)] != prefix {
		return "", false
	}
	return ref[len(prefix):], true
}

func cloneVisiting(v map[string]bool) map[string]bool {
	out := make(map[string]bool, len(v)+1)
	for k, val := range v {
		out[k] = val
	}
	return out
}

// applyOverrides merges markers.ParamMeta onto the already-inlined schema's
// top-level properties, per spec.md §4.3's override precedence rules.
func applyOverrides(schema map[string]any, overrides map[string]markers.ParamMeta) {
	if len(overrides) == 0 {
		return
	}
	props, _ := schema["properties"].(Properties)
	if props == nil {
		return
	}

	required := map[string]bool{}
	for _, name := range stringSlice(schema["required"]) {
		required[name] = true
	}

	for name, meta := range overrides {
		if meta.SchemaOverride != "" {
			if replaced, ok := parseOverride(meta.SchemaOverride); ok {
				props.Set(name, replaced)
			}
			// Invalid JSON falls back silently to the generated subschema,
			// per spec.md §4.3.
		}
		if prop, ok := props.Get(name); ok {
			if m, ok := prop.(map[string]any); ok {
				if meta.Description != "" {
					m["description"] = meta.Description
				}
				if len(meta.Examples) > 0 {
					examples := make([]any, len(meta.Examples))
					for i, e := range meta.Examples {
						examples[i] = e
					}
					m["examples"] = examples
				}
			}
		}
		if meta.RequiredSet {
			if meta.Required {
				required[name] = true
			} else {
				delete(required, name)
			}
		}
	}

	if len(required) == 0 {
		delete(schema, "required")
		return
	}
	names := make([]string, 0, len(required))
	for name := range required {
		names = append(names, name)
	}
	sort.Strings(names)
	schema["required"] = names
}

func parseOverride(raw string) (map[string]any, bool) {
	var out map[string]any
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, false
	}
	return out, true
}

func sortRequired(schema map[string]any) {
	names := stringSlice(schema["required"])
	if len(names) == 0 {
		return
	}
	sort.Strings(names)
	schema["required"] = names
}

func stringSlice(v any) []string {
	s, _ := v.([]string)
	return s
}
