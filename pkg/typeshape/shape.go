// Package typeshape computes a structural description — a TypeShape — of a
// Go type, purely from its reflect.Type. It is the Type Introspection
// component of the derivation pipeline (spec.md §4.2): the Schema Generator
// and the Value Coercion Layer both walk a TypeShape rather than reflecting
// on the original Go type a second time.
package typeshape

import (
	"reflect"

	"github.com/ksysoev/mcpkit/pkg/markers"
)

// Kind enumerates the TypeShape variants from spec.md §3.
type Kind int

const (
	KindPrimitiveString Kind = iota
	KindPrimitiveInteger
	KindPrimitiveNumber
	KindPrimitiveBoolean
	KindOptional
	KindList
	KindMap
	KindProduct
	KindSum
	KindOpaque
)

// Field describes one field of a Product shape, in declaration order.
type Field struct {
	Name        string // Go struct field name
	JSONName    string // name used in the argument map / schema property
	Shape       Shape
	Optional    bool
	Description string
	HasDefault  bool
	DefaultRaw  string // raw default value, set when HasDefault
	Index       []int  // reflect.Value.FieldByIndex path, precomputed once
}

// Shape is the structural description of one type. Exactly the fields
// relevant to Kind are populated; the rest are zero.
type Shape struct {
	Kind Kind

	// Optional/List: Elem is the inner shape.
	Elem *Shape

	// Map: Key and Elem are the key/value shapes. Keys are restricted to
	// string-convertible scalars by spec.md §4.2.
	Key *Shape

	// Product
	Name   string
	Fields []Field

	// Sum
	Variants []string

	// Opaque, and also Product (so callers such as pkg/scan's struct-tag
	// reader can reflect on the originating type again without
	// recomputing it).
	GoType reflect.Type
}

var (
	stringShape  = Shape{Kind: KindPrimitiveString}
	integerShape = Shape{Kind: KindPrimitiveInteger}
	numberShape  = Shape{Kind: KindPrimitiveNumber}
	boolShape    = Shape{Kind: KindPrimitiveBoolean}
)

// enumType is implemented by sum types whose nullary variants are declared
// as a named string type with an associated Variants() method, the Go
// substitute for a closed set of case objects (see DESIGN.md).
type enumType interface {
	Variants() []string
}

// Of computes the TypeShape of t. It caches nothing; callers that derive a
// shape once at registration time and reuse it are expected to hold onto
// the result themselves (see pkg/scan).
func Of(t reflect.Type) Shape {
	return of(t, map[reflect.Type]bool{})
}

func of(t reflect.Type, seen map[reflect.Type]bool) Shape {
	if t.Kind() == reflect.Ptr {
		inner := of(t.Elem(), seen)
		return Shape{Kind: KindOptional, Elem: &inner}
	}

	if isEnum(t) {
		return enumShape(t)
	}

	switch t.Kind() {
	case reflect.String:
		return stringShape
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return integerShape
	case reflect.Float32, reflect.Float64:
		return numberShape
	case reflect.Bool:
		return boolShape
	case reflect.Slice, reflect.Array:
		inner := of(t.Elem(), seen)
		return Shape{Kind: KindList, Elem: &inner}
	case reflect.Map:
		key := of(t.Key(), seen)
		val := of(t.Elem(), seen)
		return Shape{Kind: KindMap, Key: &key, Elem: &val}
	case reflect.Struct:
		if seen[t] {
			// Recursive product type: stop descending and fall back to
			// Opaque rather than looping forever.
			return Shape{Kind: KindOpaque, Name: t.Name(), GoType: t}
		}
		seen = cloneSeen(seen)
		seen[t] = true
		shape := productShape(t, seen)
		shape.GoType = t
		return shape
	default:
		return Shape{Kind: KindOpaque, Name: t.Name(), GoType: t}
	}
}

func cloneSeen(seen map[reflect.Type]bool) map[reflect.Type]bool {
	next := make(map[reflect.Type]bool, len(seen)+1)
	for k, v := range seen {
		next[k] = v
	}
	return next
}

func isEnum(t reflect.Type) bool {
	if t.Kind() != reflect.String {
		return false
	}
	_, ok := reflect.New(t).Elem().Interface().(enumType)
	if ok {
		return true
	}
	// Also accept a pointer-receiver Variants method.
	_, ok = reflect.New(t).Interface().(enumType)
	return ok
}

func enumShape(t reflect.Type) Shape {
	var variants []string
	if e, ok := reflect.New(t).Elem().Interface().(enumType); ok {
		variants = e.Variants()
	} else if e, ok := reflect.New(t).Interface().(enumType); ok {
		variants = e.Variants()
	}
	return Shape{Kind: KindSum, Name: t.Name(), Variants: variants}
}

func productShape(t reflect.Type, seen map[reflect.Type]bool) Shape {
	fields := make([]Field, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		jsonName, skip := jsonFieldName(sf)
		if skip {
			continue
		}

		fieldType := sf.Type
		optional := false
		if fieldType.Kind() == reflect.Ptr {
			optional = true
		}

		fs := of(fieldType, seen)
		meta := markers.ParseParamTag(sf.Tag.Get("mcp"))
		fields = append(fields, Field{
			Name:        sf.Name,
			JSONName:    jsonName,
			Shape:       fs,
			Optional:    optional,
			Description: meta.Description,
			HasDefault:  meta.Default != "",
			DefaultRaw:  meta.Default,
			Index:       append([]int{}, sf.Index...),
		})
	}
	return Shape{Kind: KindProduct, Name: t.Name(), Fields: fields}
}

func jsonFieldName(sf reflect.StructField) (name string, skip bool) {
	tag, ok := sf.Tag.Lookup("json")
	if !ok {
		return sf.Name, false
	}
	parts := splitComma(tag)
	if len(parts) == 0 || parts[0] == "" {
		return sf.Name, false
	}
	if parts[0] == "-" {
		return "", true
	}
	return parts[0], false
}

func splitComma(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == ',' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

// IsRequiredByDefault reports whether a field shape is required absent any
// explicit override: it is required unless it is Optional or has a default.
func (f Field) IsRequiredByDefault() bool {
	if f.Shape.Kind == KindOptional {
		return false
	}
	if f.HasDefault {
		return false
	}
	return true
}
