// Package dispatch implements spec.md's Dispatch Generator (§4.4): given a
// host method discovered by pkg/scan, it builds a fixed adapter that takes a
// raw argument map, coerces it into the method's declared args struct via
// pkg/coerce, injects a RequestContext when the method asks for one, and
// invokes the method through reflect.Value.Call.
package dispatch

import (
	"fmt"
	"reflect"

	"github.com/ksysoev/mcpkit/pkg/coerce"
	"github.com/ksysoev/mcpkit/pkg/core"
	"github.com/ksysoev/mcpkit/pkg/mcpctx"
	"github.com/ksysoev/mcpkit/pkg/typeshape"
)

// Func is a built adapter: call it with the caller-supplied argument map and
// the RequestContext to inject (ignored if the method declared none), and
// it returns whatever the underlying method returned in its first result.
type Func func(rc mcpctx.RequestContext, raw map[string]any) (any, error)

// Build inspects method (a bound reflect.Value, e.g. host.MethodByName(name))
// and returns a Func that coerces arguments into its declared args struct
// and calls it, plus the TypeShape of that args struct for schema
// generation. It fails if method's signature doesn't match one of the two
// shapes handler methods may take: func(ArgsT) (R, error) or
// func(RequestContext, ArgsT) (R, error).
func Build(methodName string, method reflect.Value) (Func, typeshape.Shape, error) {
	mt := method.Type()

	if mt.Kind() != reflect.Func {
		return nil, typeshape.Shape{}, fmt.Errorf("mcpkit/dispatch: %s is not a method", methodName)
	}
	if mt.NumOut() != 2 {
		return nil, typeshape.Shape{}, fmt.Errorf("mcpkit/dispatch: %s must return exactly (result, error)", methodName)
	}
	if !mt.Out(1).Implements(errorType) {
		return nil, typeshape.Shape{}, fmt.Errorf("mcpkit/dispatch: %s's second return value must be error", methodName)
	}

	wantsCtx := false
	argsIndex := 0
	switch mt.NumIn() {
	case 1:
		// func(ArgsT) (R, error)
	case 2:
		if !mcpctx.IsRequestContext(mt.In(0)) {
			return nil, typeshape.Shape{}, fmt.Errorf("mcpkit/dispatch: %s's first parameter must be mcpctx.RequestContext", methodName)
		}
		wantsCtx = true
		argsIndex = 1
	default:
		return nil, typeshape.Shape{}, fmt.Errorf("mcpkit/dispatch: %s must take (ArgsT) or (RequestContext, ArgsT)", methodName)
	}

	argsType := mt.In(argsIndex)
	ptrArgs := false
	if argsType.Kind() == reflect.Ptr {
		ptrArgs = true
		argsType = argsType.Elem()
	}
	if argsType.Kind() != reflect.Struct {
		return nil, typeshape.Shape{}, fmt.Errorf("mcpkit/dispatch: %s's args parameter must be a struct", methodName)
	}

	shape := typeshape.Of(argsType)

	fn := func(rc mcpctx.RequestContext, raw map[string]any) (any, error) {
		argsPtr := reflect.New(argsType)
		if err := coerce.Decode(raw, shape, argsPtr.Interface()); err != nil {
			return nil, err
		}

		in := make([]reflect.Value, 0, 2)
		if wantsCtx {
			in = append(in, reflect.ValueOf(rc))
		}
		if ptrArgs {
			in = append(in, argsPtr)
		} else {
			in = append(in, argsPtr.Elem())
		}

		out := method.Call(in)
		result := out[0].Interface()
		if errv := out[1].Interface(); errv != nil {
			err, _ := errv.(error)
			return result, &core.HandlerError{Name: methodName, Cause: err}
		}
		return result, nil
	}

	return fn, shape, nil
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()
