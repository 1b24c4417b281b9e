package typeinfo

import (
	"reflect"

	"github.com/mirrorbind/mirror/errors"
	"github.com/mirrorbind/mirror/typename"
)

// Kind is the coarse dynamic-type tag of a boxed Value.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindString
	KindList
	KindObject
)

var kindNames = [...]string{
	KindNil:    "nil",
	KindBool:   "bool",
	KindInt:    "int",
	KindUint:   "uint",
	KindFloat:  "float",
	KindString: "string",
	KindList:   "list",
	KindObject: "object",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsNumeric reports whether values of this kind carry a number.
func (k Kind) IsNumeric() bool {
	return k == KindInt || k == KindUint || k == KindFloat
}

// Value is the universal currency crossing into and out of call records: a
// dynamically-typed box holding exactly one concrete value of a resolvable
// type. Boxing copies the value in; unboxing copies it out. The zero Value
// is the nil box.
type Value struct {
	ref  any
	kind Kind
}

// Nil returns the empty box, used as the result of void invocations.
func Nil() Value {
	return Value{}
}

// Box wraps a concrete value. The type parameter keeps call sites typed; it
// otherwise behaves exactly like BoxAny.
func Box[T any](v T) Value {
	return BoxAny(v)
}

// BoxAny wraps an arbitrary value, deriving its kind tag from the dynamic
// type.
func BoxAny(v any) Value {
	if v == nil {
		return Value{}
	}
	return Value{ref: v, kind: kindOf(reflect.TypeOf(v))}
}

// Unbox extracts the boxed value as T. Unboxing a box of any other concrete
// type fails with a type_mismatch error; it can never corrupt memory or
// panic.
func Unbox[T any](v Value) (T, error) {
	out, ok := v.ref.(T)
	if !ok {
		var zero T
		return zero, errors.TypeMismatch(errors.PhaseInvoke, nil, v.TypeName(), typename.Of[T]())
	}
	return out, nil
}

// Kind returns the coarse dynamic-type tag.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNil reports whether the box is empty.
func (v Value) IsNil() bool {
	return v.ref == nil
}

// Interface returns the boxed value without unboxing it to a static type.
func (v Value) Interface() any {
	return v.ref
}

// TypeName resolves the canonical name of the boxed value's dynamic type.
func (v Value) TypeName() string {
	if v.ref == nil {
		return "nil"
	}
	return typename.Resolve(reflect.TypeOf(v.ref))
}

// Convert re-boxes the value as type t, applying numeric widening/narrowing
// where both sides are numeric. It exists for embedding generators, whose
// hosts have looser number models than Go; the core invoker path never
// converts, it unboxes strictly.
func (v Value) Convert(t reflect.Type) (Value, error) {
	if v.ref == nil {
		return Value{}, errors.TypeMismatch(errors.PhaseInvoke, nil, "nil", typename.Resolve(t))
	}
	rv := reflect.ValueOf(v.ref)
	if rv.Type() == t {
		return v, nil
	}

	srcKind := kindOf(rv.Type())
	dstKind := kindOf(t)
	convertible := rv.Type().ConvertibleTo(t) &&
		(srcKind == dstKind || (srcKind.IsNumeric() && dstKind.IsNumeric()))
	if !convertible {
		return Value{}, errors.TypeMismatch(errors.PhaseInvoke, nil, v.TypeName(), typename.Resolve(t))
	}
	return BoxAny(rv.Convert(t).Interface()), nil
}

func kindOf(t reflect.Type) Kind {
	if t == nil {
		return KindNil
	}
	switch t.Kind() {
	case reflect.Bool:
		return KindBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return KindInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindUint
	case reflect.Float32, reflect.Float64:
		return KindFloat
	case reflect.String:
		return KindString
	case reflect.Slice:
		return KindList
	default:
		return KindObject
	}
}
