package typeinfo

import (
	"reflect"
	"strconv"

	"github.com/mirrorbind/mirror/errors"
	"github.com/mirrorbind/mirror/typename"
)

// Registrar populates the reflection table of exactly one class during its
// single registration pass. Go methods cannot carry their own type
// parameters, so the registration surface is generic free functions that
// take the registrar first and return it for chaining:
//
//	typeinfo.Constructor0(r, func() *Counter { return &Counter{} })
//	typeinfo.Field(r, "count", func(c *Counter) *int { return &c.Count })
//	typeinfo.Method1(r, "add", (*Counter).Add)
type Registrar[T any] struct {
	info *TypeInfo
}

// Table exposes the table under construction, for generators that register
// supplemental records.
func (r *Registrar[T]) Table() *TypeInfo {
	return r.info
}

// receiver casts the erased instance back to *T.
func receiver[T any](class string, recv any) (*T, error) {
	if recv == nil {
		return nil, errors.NilInstance(class)
	}
	obj, ok := recv.(*T)
	if !ok {
		return nil, errors.TypeMismatch(errors.PhaseInvoke, []string{"receiver"},
			typename.Resolve(reflect.TypeOf(recv)), class+"*")
	}
	if obj == nil {
		return nil, errors.NilInstance(class)
	}
	return obj, nil
}

// unboxArg unboxes args[i] as A, decorating a miss with the call site.
func unboxArg[A any](class, name string, args []Value, i int) (A, error) {
	a, err := Unbox[A](args[i])
	if err != nil {
		return a, errors.New(errors.PhaseInvoke, errors.KindTypeMismatch).
			Class(class).
			Name(name).
			Path("args", strconv.Itoa(i)).
			Cause(err).
			Detail("argument %d: have %s, want %s", i, args[i].TypeName(), typename.Of[A]()).
			Build()
	}
	return a, nil
}

func checkArity(class, name string, expected int, args []Value) error {
	if len(args) != expected {
		return errors.ArityMismatch(errors.PhaseInvoke, class, name, expected, len(args))
	}
	return nil
}

func goType[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Field registers a member backed by a struct field. The selector returns a
// pointer into the instance, giving the record both its getter and setter.
// The member's type name is resolved now, not at call time.
func Field[T, F any](r *Registrar[T], name string, sel func(*T) *F) *Registrar[T] {
	class := r.info.ClassName
	r.info.addMember(&MemberInfo{
		Name:     name,
		TypeName: typename.Of[F](),
		GoType:   goType[F](),
		Getter: func(recv any) (Value, error) {
			obj, err := receiver[T](class, recv)
			if err != nil {
				return Value{}, err
			}
			return Box(*sel(obj)), nil
		},
		Setter: func(recv any, v Value) error {
			obj, err := receiver[T](class, recv)
			if err != nil {
				return err
			}
			fv, err := Unbox[F](v)
			if err != nil {
				return errors.New(errors.PhaseInvoke, errors.KindTypeMismatch).
					Class(class).
					Name(name).
					Cause(err).
					Detail("have %s, want %s", v.TypeName(), typename.Of[F]()).
					Build()
			}
			*sel(obj) = fv
			return nil
		},
	})
	return r
}

// Accessor registers a virtual member backed by an explicit getter/setter
// pair. This is the opt-in replacement for inferring properties from
// get/set/is method-name patterns: a class that wants a computed property
// says so here, and generators never sniff names.
func Accessor[T, F any](r *Registrar[T], name string, get func(*T) F, set func(*T, F)) *Registrar[T] {
	class := r.info.ClassName
	r.info.addMember(&MemberInfo{
		Name:     name,
		TypeName: typename.Of[F](),
		GoType:   goType[F](),
		Getter: func(recv any) (Value, error) {
			obj, err := receiver[T](class, recv)
			if err != nil {
				return Value{}, err
			}
			return Box(get(obj)), nil
		},
		Setter: func(recv any, v Value) error {
			obj, err := receiver[T](class, recv)
			if err != nil {
				return err
			}
			fv, err := Unbox[F](v)
			if err != nil {
				return errors.New(errors.PhaseInvoke, errors.KindTypeMismatch).
					Class(class).
					Name(name).
					Cause(err).
					Detail("have %s, want %s", v.TypeName(), typename.Of[F]()).
					Build()
			}
			set(obj, fv)
			return nil
		},
	})
	return r
}

// Method0 registers a niladic method with a result.
func Method0[T, R any](r *Registrar[T], name string, fn func(*T) R) *Registrar[T] {
	class := r.info.ClassName
	r.info.addMethod(&MethodInfo{
		Name:       name,
		ReturnType: typename.Of[R](),
		ParamTypes: []string{},
		GoParams:   []reflect.Type{},
		Invoker: func(recv any, args []Value) (Value, error) {
			if err := checkArity(class, name, 0, args); err != nil {
				return Value{}, err
			}
			obj, err := receiver[T](class, recv)
			if err != nil {
				return Value{}, err
			}
			return Box(fn(obj)), nil
		},
	})
	return r
}

// Method1 registers a one-parameter method with a result.
func Method1[T, A1, R any](r *Registrar[T], name string, fn func(*T, A1) R) *Registrar[T] {
	class := r.info.ClassName
	r.info.addMethod(&MethodInfo{
		Name:       name,
		ReturnType: typename.Of[R](),
		ParamTypes: []string{typename.Of[A1]()},
		GoParams:   []reflect.Type{goType[A1]()},
		Invoker: func(recv any, args []Value) (Value, error) {
			if err := checkArity(class, name, 1, args); err != nil {
				return Value{}, err
			}
			obj, err := receiver[T](class, recv)
			if err != nil {
				return Value{}, err
			}
			a1, err := unboxArg[A1](class, name, args, 0)
			if err != nil {
				return Value{}, err
			}
			return Box(fn(obj, a1)), nil
		},
	})
	return r
}

// Method2 registers a two-parameter method with a result.
func Method2[T, A1, A2, R any](r *Registrar[T], name string, fn func(*T, A1, A2) R) *Registrar[T] {
	class := r.info.ClassName
	r.info.addMethod(&MethodInfo{
		Name:       name,
		ReturnType: typename.Of[R](),
		ParamTypes: []string{typename.Of[A1](), typename.Of[A2]()},
		GoParams:   []reflect.Type{goType[A1](), goType[A2]()},
		Invoker: func(recv any, args []Value) (Value, error) {
			if err := checkArity(class, name, 2, args); err != nil {
				return Value{}, err
			}
			obj, err := receiver[T](class, recv)
			if err != nil {
				return Value{}, err
			}
			a1, err := unboxArg[A1](class, name, args, 0)
			if err != nil {
				return Value{}, err
			}
			a2, err := unboxArg[A2](class, name, args, 1)
			if err != nil {
				return Value{}, err
			}
			return Box(fn(obj, a1, a2)), nil
		},
	})
	return r
}

// Method3 registers a three-parameter method with a result.
func Method3[T, A1, A2, A3, R any](r *Registrar[T], name string, fn func(*T, A1, A2, A3) R) *Registrar[T] {
	class := r.info.ClassName
	r.info.addMethod(&MethodInfo{
		Name:       name,
		ReturnType: typename.Of[R](),
		ParamTypes: []string{typename.Of[A1](), typename.Of[A2](), typename.Of[A3]()},
		GoParams:   []reflect.Type{goType[A1](), goType[A2](), goType[A3]()},
		Invoker: func(recv any, args []Value) (Value, error) {
			if err := checkArity(class, name, 3, args); err != nil {
				return Value{}, err
			}
			obj, err := receiver[T](class, recv)
			if err != nil {
				return Value{}, err
			}
			a1, err := unboxArg[A1](class, name, args, 0)
			if err != nil {
				return Value{}, err
			}
			a2, err := unboxArg[A2](class, name, args, 1)
			if err != nil {
				return Value{}, err
			}
			a3, err := unboxArg[A3](class, name, args, 2)
			if err != nil {
				return Value{}, err
			}
			return Box(fn(obj, a1, a2, a3)), nil
		},
	})
	return r
}

// Void0 registers a niladic method without a result.
func Void0[T any](r *Registrar[T], name string, fn func(*T)) *Registrar[T] {
	class := r.info.ClassName
	r.info.addMethod(&MethodInfo{
		Name:       name,
		ReturnType: "void",
		ParamTypes: []string{},
		GoParams:   []reflect.Type{},
		Invoker: func(recv any, args []Value) (Value, error) {
			if err := checkArity(class, name, 0, args); err != nil {
				return Value{}, err
			}
			obj, err := receiver[T](class, recv)
			if err != nil {
				return Value{}, err
			}
			fn(obj)
			return Nil(), nil
		},
	})
	return r
}

// Void1 registers a one-parameter method without a result.
func Void1[T, A1 any](r *Registrar[T], name string, fn func(*T, A1)) *Registrar[T] {
	class := r.info.ClassName
	r.info.addMethod(&MethodInfo{
		Name:       name,
		ReturnType: "void",
		ParamTypes: []string{typename.Of[A1]()},
		GoParams:   []reflect.Type{goType[A1]()},
		Invoker: func(recv any, args []Value) (Value, error) {
			if err := checkArity(class, name, 1, args); err != nil {
				return Value{}, err
			}
			obj, err := receiver[T](class, recv)
			if err != nil {
				return Value{}, err
			}
			a1, err := unboxArg[A1](class, name, args, 0)
			if err != nil {
				return Value{}, err
			}
			fn(obj, a1)
			return Nil(), nil
		},
	})
	return r
}

// Void2 registers a two-parameter method without a result.
func Void2[T, A1, A2 any](r *Registrar[T], name string, fn func(*T, A1, A2)) *Registrar[T] {
	class := r.info.ClassName
	r.info.addMethod(&MethodInfo{
		Name:       name,
		ReturnType: "void",
		ParamTypes: []string{typename.Of[A1](), typename.Of[A2]()},
		GoParams:   []reflect.Type{goType[A1](), goType[A2]()},
		Invoker: func(recv any, args []Value) (Value, error) {
			if err := checkArity(class, name, 2, args); err != nil {
				return Value{}, err
			}
			obj, err := receiver[T](class, recv)
			if err != nil {
				return Value{}, err
			}
			a1, err := unboxArg[A1](class, name, args, 0)
			if err != nil {
				return Value{}, err
			}
			a2, err := unboxArg[A2](class, name, args, 1)
			if err != nil {
				return Value{}, err
			}
			fn(obj, a1, a2)
			return Nil(), nil
		},
	})
	return r
}

// MethodRaw registers a method whose invoker works on boxed values directly.
// Escape hatch for arities or signatures the typed helpers do not cover; the
// declared paramTypes still gate arity before fn runs.
func MethodRaw[T any](r *Registrar[T], name, returnType string, paramTypes []string, fn func(*T, []Value) (Value, error)) *Registrar[T] {
	class := r.info.ClassName
	r.info.addMethod(&MethodInfo{
		Name:       name,
		ReturnType: returnType,
		ParamTypes: paramTypes,
		Invoker: func(recv any, args []Value) (Value, error) {
			if err := checkArity(class, name, len(paramTypes), args); err != nil {
				return Value{}, err
			}
			obj, err := receiver[T](class, recv)
			if err != nil {
				return Value{}, err
			}
			return fn(obj, args)
		},
	})
	return r
}

// ctorResult guards factories against nil instances: constructing nothing
// must fail fast, not surface later as a nil receiver.
func ctorResult[T any](class string, obj *T) (any, error) {
	if obj == nil {
		return nil, errors.NilInstance(class)
	}
	return obj, nil
}

// Constructor0 registers a niladic constructor.
func Constructor0[T any](r *Registrar[T], fn func() *T) *Registrar[T] {
	class := r.info.ClassName
	r.info.addConstructor(&ConstructorInfo{
		ParamTypes: []string{},
		GoParams:   []reflect.Type{},
		Factory: func(args []Value) (any, error) {
			if err := checkArity(class, "constructor", 0, args); err != nil {
				return nil, err
			}
			return ctorResult(class, fn())
		},
	})
	return r
}

// Constructor1 registers a one-argument constructor.
func Constructor1[T, A1 any](r *Registrar[T], fn func(A1) *T) *Registrar[T] {
	class := r.info.ClassName
	r.info.addConstructor(&ConstructorInfo{
		ParamTypes: []string{typename.Of[A1]()},
		GoParams:   []reflect.Type{goType[A1]()},
		Factory: func(args []Value) (any, error) {
			if err := checkArity(class, "constructor", 1, args); err != nil {
				return nil, err
			}
			a1, err := unboxArg[A1](class, "constructor", args, 0)
			if err != nil {
				return nil, err
			}
			return ctorResult(class, fn(a1))
		},
	})
	return r
}

// Constructor2 registers a two-argument constructor.
func Constructor2[T, A1, A2 any](r *Registrar[T], fn func(A1, A2) *T) *Registrar[T] {
	class := r.info.ClassName
	r.info.addConstructor(&ConstructorInfo{
		ParamTypes: []string{typename.Of[A1](), typename.Of[A2]()},
		GoParams:   []reflect.Type{goType[A1](), goType[A2]()},
		Factory: func(args []Value) (any, error) {
			if err := checkArity(class, "constructor", 2, args); err != nil {
				return nil, err
			}
			a1, err := unboxArg[A1](class, "constructor", args, 0)
			if err != nil {
				return nil, err
			}
			a2, err := unboxArg[A2](class, "constructor", args, 1)
			if err != nil {
				return nil, err
			}
			return ctorResult(class, fn(a1, a2))
		},
	})
	return r
}

// Constructor3 registers a three-argument constructor.
func Constructor3[T, A1, A2, A3 any](r *Registrar[T], fn func(A1, A2, A3) *T) *Registrar[T] {
	class := r.info.ClassName
	r.info.addConstructor(&ConstructorInfo{
		ParamTypes: []string{typename.Of[A1](), typename.Of[A2](), typename.Of[A3]()},
		GoParams:   []reflect.Type{goType[A1](), goType[A2](), goType[A3]()},
		Factory: func(args []Value) (any, error) {
			if err := checkArity(class, "constructor", 3, args); err != nil {
				return nil, err
			}
			a1, err := unboxArg[A1](class, "constructor", args, 0)
			if err != nil {
				return nil, err
			}
			a2, err := unboxArg[A2](class, "constructor", args, 1)
			if err != nil {
				return nil, err
			}
			a3, err := unboxArg[A3](class, "constructor", args, 2)
			if err != nil {
				return nil, err
			}
			return ctorResult(class, fn(a1, a2, a3))
		},
	})
	return r
}
