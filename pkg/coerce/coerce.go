// Package coerce implements the value coercion layer: given a raw
// map[string]any and the TypeShape of a method's args struct, it produces a
// populated instance of that struct, or a *core.CoercionError. That error's
// Name and Expected identify the args struct as a whole and its Value is nil;
// the offending field is named only in the text of the wrapped mapstructure
// error it carries as Cause. Struct-to-struct decoding is
// delegated to mapstructure, which is built for exactly the "map[string]any
// -> tagged struct, recursively" problem that product types present; this
// package supplies the DecodeHookFuncs that implement the coercion rules
// mapstructure does not already provide (bool string/int forms, enum
// case-insensitive matching, JSON-array/JSON-object string parsing).
package coerce

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/tidwall/gjson"

	"github.com/ksysoev/mcpkit/pkg/core"
	"github.com/ksysoev/mcpkit/pkg/typeshape"
)

// enumType mirrors typeshape's unexported interface of the same name, which
// this package cannot reference directly.
type enumType interface {
	Variants() []string
}

// truthy/falsy string tokens accepted beyond what strconv.ParseBool already
// recognizes.
var (
	truthyWords = map[string]bool{"yes": true, "on": true}
	falsyWords  = map[string]bool{"no": true, "off": true}
)

// Decode populates target (a pointer to the method's args struct) from raw,
// enforcing required-parameter presence per shape before attempting any
// type coercion, then running mapstructure with our coercion hooks.
func Decode(raw map[string]any, shape typeshape.Shape, target any) error {
	raw = withDefaults(raw, shape)

	if err := checkRequired(raw, shape); err != nil {
		return err
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			boolWordsHook,
			enumHook,
			jsonStringHook,
		),
	})
	if err != nil {
		return fmt.Errorf("mcpkit/coerce: build decoder: %w", err)
	}

	if err := decoder.Decode(raw); err != nil {
		return wrapDecodeError(shape, err)
	}
	return nil
}

// checkRequired walks shape's fields and fails with MissingParameterError
// for the first required field absent from raw, recursing into nested
// product fields whose own raw value is itself a map.
func checkRequired(raw map[string]any, shape typeshape.Shape) error {
	for _, f := range shape.Fields {
		value, present := lookup(raw, f.JSONName)
		required := f.IsRequiredByDefault()
		if !present || isNullSentinel(value) {
			if required {
				return &core.MissingParameterError{Name: f.JSONName}
			}
			continue
		}
		if f.Shape.Kind == typeshape.KindProduct {
			if nested, ok := value.(map[string]any); ok {
				if err := checkRequired(nested, f.Shape); err != nil {
					return err
				}
			}
		}
		if f.Shape.Kind == typeshape.KindOptional && f.Shape.Elem != nil && f.Shape.Elem.Kind == typeshape.KindProduct {
			if nested, ok := value.(map[string]any); ok {
				if err := checkRequired(nested, *f.Shape.Elem); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// withDefaults returns a shallow copy of raw with every absent-or-null
// defaulted field filled in from its declared default, so a caller omitting
// op in calculator(a, b, op="ADD") still sees "ADD" reach the handler, and
// with every Optional field whose value is a null sentinel removed, so it
// decodes to nil. raw itself is never mutated.
func withDefaults(raw map[string]any, shape typeshape.Shape) map[string]any {
	out := make(map[string]any, len(raw)+len(shape.Fields))
	for k, v := range raw {
		out[k] = v
	}
	for _, f := range shape.Fields {
		v, present := out[f.JSONName]
		if f.HasDefault {
			if !present || isNullSentinel(v) {
				out[f.JSONName] = f.DefaultRaw
			}
			continue
		}
		if present && f.Shape.Kind == typeshape.KindOptional && isNullSentinel(v) {
			delete(out, f.JSONName)
		}
	}
	return out
}

func lookup(raw map[string]any, key string) (any, bool) {
	v, ok := raw[key]
	return v, ok
}

// isNullSentinel matches a plain JSON null and the string "none" (compared
// case-insensitively).
func isNullSentinel(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok && strings.EqualFold(s, "none") {
		return true
	}
	return false
}

// boolWordsHook accepts the extra truthy/falsy string tokens beyond
// strconv.ParseBool's own vocabulary.
func boolWordsHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.Bool || from.Kind() != reflect.String {
		return data, nil
	}
	s := strings.ToLower(strings.TrimSpace(data.(string)))
	if truthyWords[s] {
		return true, nil
	}
	if falsyWords[s] {
		return false, nil
	}
	return data, nil
}

// enumHook matches a string value case-insensitively against a Sum type's
// declared variants, canonicalizing it to the declared spelling.
func enumHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.String {
		return data, nil
	}
	zero := reflect.Zero(to).Interface()
	e, ok := zero.(enumType)
	if !ok {
		if pe, ok := reflect.New(to).Interface().(enumType); ok {
			e = pe
		} else {
			return data, nil
		}
	}
	raw := data.(string)
	for _, variant := range e.Variants() {
		if strings.EqualFold(variant, raw) {
			return variant, nil
		}
	}
	return nil, fmt.Errorf("value %q is not one of %v", raw, e.Variants())
}

// jsonStringHook accepts a JSON-array string for a slice target, or a
// JSON-object string for a map target.
func jsonStringHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}
	s := strings.TrimSpace(data.(string))
	if s == "" {
		return data, nil
	}

	switch to.Kind() {
	case reflect.Slice, reflect.Array:
		if s[0] != '[' {
			return data, nil
		}
		result := gjson.Parse(s)
		if !result.IsArray() {
			return data, fmt.Errorf("value is not a JSON array: %s", s)
		}
		var out []any
		for _, elem := range result.Array() {
			out = append(out, elem.Value())
		}
		return out, nil
	case reflect.Map:
		if s[0] != '{' {
			return data, nil
		}
		result := gjson.Parse(s)
		if !result.IsObject() {
			return data, fmt.Errorf("value is not a JSON object: %s", s)
		}
		out := map[string]any{}
		result.ForEach(func(key, value gjson.Result) bool {
			out[key.String()] = value.Value()
			return true
		})
		return out, nil
	default:
		return data, nil
	}
}

func wrapDecodeError(shape typeshape.Shape, err error) error {
	return &core.CoercionError{
		Name:     shape.Name,
		Expected: "product:" + shape.Name,
		Value:    nil,
		Cause:    err,
	}
}

// ParseBoolToken exposes the extended boolean vocabulary for callers (e.g.
// the URI template engine's extracted-string arguments) that need it
// outside of a mapstructure decode.
func ParseBoolToken(s string) (bool, error) {
	lower := strings.ToLower(strings.TrimSpace(s))
	if truthyWords[lower] {
		return true, nil
	}
	if falsyWords[lower] {
		return false, nil
	}
	return strconv.ParseBool(s)
}
