package typeinfo

import (
	"reflect"
	"sort"

	"go.uber.org/zap"

	"github.com/mirrorbind/mirror/errors"
	"github.com/mirrorbind/mirror/typename"
)

// FunctionInfo is the call record for one registered free function. It
// mirrors MethodInfo without a receiver.
type FunctionInfo struct {
	Name       string
	ReturnType string
	ParamTypes []string
	GoParams   []reflect.Type
	Invoker    func(args []Value) (Value, error)
}

// Arity returns the number of parameters the invoker expects.
func (f *FunctionInfo) Arity() int {
	return len(f.ParamTypes)
}

func unboxFuncArg[A any](name string, args []Value, i int) (A, error) {
	return unboxArg[A]("", name, args, i)
}

func checkFuncArity(name string, expected int, args []Value) error {
	if len(args) != expected {
		return errors.ArityMismatch(errors.PhaseInvoke, "", name, expected, len(args))
	}
	return nil
}

func (r *Registry) addFunction(f *FunctionInfo) {
	if _, loaded := r.funcs.LoadOrStore(f.Name, f); loaded {
		Logger().Warn("function registration replaced",
			zap.String("function", f.Name))
		r.funcs.Store(f.Name, f)
	}
}

// Func0 registers a niladic free function with a result in the default
// registry.
func Func0[R any](name string, fn func() R) {
	Func0In(defaultRegistry, name, fn)
}

// Func0In registers a niladic free function with a result in reg.
func Func0In[R any](reg *Registry, name string, fn func() R) {
	reg.addFunction(&FunctionInfo{
		Name:       name,
		ReturnType: typename.Of[R](),
		ParamTypes: []string{},
		GoParams:   []reflect.Type{},
		Invoker: func(args []Value) (Value, error) {
			if err := checkFuncArity(name, 0, args); err != nil {
				return Value{}, err
			}
			return Box(fn()), nil
		},
	})
}

// Func1 registers a one-parameter free function with a result in the
// default registry.
func Func1[A1, R any](name string, fn func(A1) R) {
	Func1In(defaultRegistry, name, fn)
}

// Func1In registers a one-parameter free function with a result in reg.
func Func1In[A1, R any](reg *Registry, name string, fn func(A1) R) {
	reg.addFunction(&FunctionInfo{
		Name:       name,
		ReturnType: typename.Of[R](),
		ParamTypes: []string{typename.Of[A1]()},
		GoParams:   []reflect.Type{goType[A1]()},
		Invoker: func(args []Value) (Value, error) {
			if err := checkFuncArity(name, 1, args); err != nil {
				return Value{}, err
			}
			a1, err := unboxFuncArg[A1](name, args, 0)
			if err != nil {
				return Value{}, err
			}
			return Box(fn(a1)), nil
		},
	})
}

// Func2 registers a two-parameter free function with a result in the
// default registry.
func Func2[A1, A2, R any](name string, fn func(A1, A2) R) {
	Func2In(defaultRegistry, name, fn)
}

// Func2In registers a two-parameter free function with a result in reg.
func Func2In[A1, A2, R any](reg *Registry, name string, fn func(A1, A2) R) {
	reg.addFunction(&FunctionInfo{
		Name:       name,
		ReturnType: typename.Of[R](),
		ParamTypes: []string{typename.Of[A1](), typename.Of[A2]()},
		GoParams:   []reflect.Type{goType[A1](), goType[A2]()},
		Invoker: func(args []Value) (Value, error) {
			if err := checkFuncArity(name, 2, args); err != nil {
				return Value{}, err
			}
			a1, err := unboxFuncArg[A1](name, args, 0)
			if err != nil {
				return Value{}, err
			}
			a2, err := unboxFuncArg[A2](name, args, 1)
			if err != nil {
				return Value{}, err
			}
			return Box(fn(a1, a2)), nil
		},
	})
}

// Func3 registers a three-parameter free function with a result in the
// default registry.
func Func3[A1, A2, A3, R any](name string, fn func(A1, A2, A3) R) {
	Func3In(defaultRegistry, name, fn)
}

// Func3In registers a three-parameter free function with a result in reg.
func Func3In[A1, A2, A3, R any](reg *Registry, name string, fn func(A1, A2, A3) R) {
	reg.addFunction(&FunctionInfo{
		Name:       name,
		ReturnType: typename.Of[R](),
		ParamTypes: []string{typename.Of[A1](), typename.Of[A2](), typename.Of[A3]()},
		GoParams:   []reflect.Type{goType[A1](), goType[A2](), goType[A3]()},
		Invoker: func(args []Value) (Value, error) {
			if err := checkFuncArity(name, 3, args); err != nil {
				return Value{}, err
			}
			a1, err := unboxFuncArg[A1](name, args, 0)
			if err != nil {
				return Value{}, err
			}
			a2, err := unboxFuncArg[A2](name, args, 1)
			if err != nil {
				return Value{}, err
			}
			a3, err := unboxFuncArg[A3](name, args, 2)
			if err != nil {
				return Value{}, err
			}
			return Box(fn(a1, a2, a3)), nil
		},
	})
}

// VoidFunc0 registers a niladic free function without a result in the
// default registry.
func VoidFunc0(name string, fn func()) {
	VoidFunc0In(defaultRegistry, name, fn)
}

// VoidFunc0In registers a niladic free function without a result in reg.
func VoidFunc0In(reg *Registry, name string, fn func()) {
	reg.addFunction(&FunctionInfo{
		Name:       name,
		ReturnType: "void",
		ParamTypes: []string{},
		GoParams:   []reflect.Type{},
		Invoker: func(args []Value) (Value, error) {
			if err := checkFuncArity(name, 0, args); err != nil {
				return Value{}, err
			}
			fn()
			return Nil(), nil
		},
	})
}

// VoidFunc1 registers a one-parameter free function without a result in the
// default registry.
func VoidFunc1[A1 any](name string, fn func(A1)) {
	VoidFunc1In(defaultRegistry, name, fn)
}

// VoidFunc1In registers a one-parameter free function without a result in
// reg.
func VoidFunc1In[A1 any](reg *Registry, name string, fn func(A1)) {
	reg.addFunction(&FunctionInfo{
		Name:       name,
		ReturnType: "void",
		ParamTypes: []string{typename.Of[A1]()},
		GoParams:   []reflect.Type{goType[A1]()},
		Invoker: func(args []Value) (Value, error) {
			if err := checkFuncArity(name, 1, args); err != nil {
				return Value{}, err
			}
			a1, err := unboxFuncArg[A1](name, args, 0)
			if err != nil {
				return Value{}, err
			}
			fn(a1)
			return Nil(), nil
		},
	})
}

// VoidFunc2 registers a two-parameter free function without a result in the
// default registry.
func VoidFunc2[A1, A2 any](name string, fn func(A1, A2)) {
	VoidFunc2In(defaultRegistry, name, fn)
}

// VoidFunc2In registers a two-parameter free function without a result in
// reg.
func VoidFunc2In[A1, A2 any](reg *Registry, name string, fn func(A1, A2)) {
	reg.addFunction(&FunctionInfo{
		Name:       name,
		ReturnType: "void",
		ParamTypes: []string{typename.Of[A1](), typename.Of[A2]()},
		GoParams:   []reflect.Type{goType[A1](), goType[A2]()},
		Invoker: func(args []Value) (Value, error) {
			if err := checkFuncArity(name, 2, args); err != nil {
				return Value{}, err
			}
			a1, err := unboxFuncArg[A1](name, args, 0)
			if err != nil {
				return Value{}, err
			}
			a2, err := unboxFuncArg[A2](name, args, 1)
			if err != nil {
				return Value{}, err
			}
			fn(a1, a2)
			return Nil(), nil
		},
	})
}

// FunctionByName returns the free-function record registered under name.
func (r *Registry) FunctionByName(name string) (*FunctionInfo, error) {
	f, ok := r.funcs.Load(name)
	if !ok {
		return nil, errors.FunctionNotFound(name)
	}
	return f.(*FunctionInfo), nil
}

// Call invokes the free function registered under name.
func (r *Registry) Call(name string, args ...Value) (Value, error) {
	f, err := r.FunctionByName(name)
	if err != nil {
		return Value{}, err
	}
	return f.Invoker(args)
}

// Functions returns every registered free-function record, sorted by name.
func (r *Registry) Functions() []*FunctionInfo {
	var out []*FunctionInfo
	r.funcs.Range(func(_, v any) bool {
		out = append(out, v.(*FunctionInfo))
		return true
	})
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}
