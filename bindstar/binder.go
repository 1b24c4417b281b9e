package bindstar

import (
	"fmt"
	"reflect"

	"go.starlark.net/starlark"

	"github.com/mirrorbind/mirror/errors"
	"github.com/mirrorbind/mirror/typeinfo"
)

// Binder accumulates reflection tables into a predeclared environment for
// Starlark execution.
type Binder struct {
	reg     *typeinfo.Registry
	globals starlark.StringDict
}

// New returns a binder backed by reg.
func New(reg *typeinfo.Registry) *Binder {
	return &Binder{
		reg:     reg,
		globals: make(starlark.StringDict),
	}
}

// Globals returns the predeclared environment holding everything bound so
// far. Pass it to starlark.ExecFile.
func (b *Binder) Globals() starlark.StringDict {
	return b.globals
}

func (b *Binder) claim(name string) error {
	if _, ok := b.globals[name]; ok {
		return errors.DuplicateBinding("starlark", name)
	}
	return nil
}

// BindClass installs a constructor builtin for the class.
func (b *Binder) BindClass(info *typeinfo.TypeInfo) error {
	if err := b.claim(info.ClassName); err != nil {
		return err
	}

	b.globals[info.ClassName] = starlark.NewBuiltin(info.ClassName,
		func(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			if len(kwargs) > 0 {
				return nil, errors.InvalidInput(errors.PhaseInvoke,
					info.ClassName+" constructor takes no keyword arguments")
			}
			c, ok := info.ConstructorForArity(len(args))
			if !ok {
				return nil, errors.New(errors.PhaseInvoke, errors.KindArityMismatch).
					Class(info.ClassName).
					Name("constructor").
					Value(len(args)).
					Detail("no constructor takes %d argument(s)", len(args)).
					Build()
			}
			boxed, err := b.marshalArgs(args, c.GoParams)
			if err != nil {
				return nil, err
			}
			value, err := c.Factory(boxed)
			if err != nil {
				return nil, err
			}
			return &instance{binder: b, info: info, value: value}, nil
		})
	return nil
}

// BindEnum installs the enum as a frozen dict mapping value names to their
// numbers.
func (b *Binder) BindEnum(info *typeinfo.EnumInfo) error {
	if err := b.claim(info.Name); err != nil {
		return err
	}

	d := starlark.NewDict(len(info.Values()))
	for _, ev := range info.Values() {
		if err := d.SetKey(starlark.String(ev.Name), starlark.MakeInt64(ev.Value)); err != nil {
			return errors.Wrap(errors.PhaseBind, errors.KindInvalidInput, err,
				"enum "+info.Name+" value "+ev.Name)
		}
	}
	d.Freeze()
	b.globals[info.Name] = d
	return nil
}

// BindFunction installs the free function as a builtin.
func (b *Binder) BindFunction(info *typeinfo.FunctionInfo) error {
	if err := b.claim(info.Name); err != nil {
		return err
	}

	b.globals[info.Name] = starlark.NewBuiltin(info.Name,
		func(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			if len(kwargs) > 0 {
				return nil, errors.InvalidInput(errors.PhaseInvoke,
					info.Name+" takes no keyword arguments")
			}
			if len(args) != info.Arity() {
				return nil, errors.ArityMismatch(errors.PhaseInvoke,
					"", info.Name, info.Arity(), len(args))
			}
			boxed, err := b.marshalArgs(args, info.GoParams)
			if err != nil {
				return nil, err
			}
			out, err := info.Invoker(boxed)
			if err != nil {
				return nil, err
			}
			return b.unmarshal(out)
		})
	return nil
}

// instance is a live object inside the Starlark world: attribute reads hit
// member getters and produce bound methods, attribute writes hit member
// setters.
type instance struct {
	binder *Binder
	info   *typeinfo.TypeInfo
	value  any
}

var (
	_ starlark.Value       = (*instance)(nil)
	_ starlark.HasAttrs    = (*instance)(nil)
	_ starlark.HasSetField = (*instance)(nil)
)

func (i *instance) String() string {
	return fmt.Sprintf("<%s %p>", i.info.ClassName, i.value)
}

func (i *instance) Type() string          { return i.info.ClassName }
func (i *instance) Freeze()               {}
func (i *instance) Truth() starlark.Bool  { return starlark.True }
func (i *instance) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable type: %s", i.Type()) }

func (i *instance) Attr(name string) (starlark.Value, error) {
	if m, ok := i.info.Member(name); ok {
		v, err := m.Getter(i.value)
		if err != nil {
			return nil, err
		}
		return i.binder.unmarshal(v)
	}

	if m, ok := i.info.Method(name); ok {
		method := m
		return starlark.NewBuiltin(name,
			func(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
				if len(kwargs) > 0 {
					return nil, errors.InvalidInput(errors.PhaseInvoke,
						name+" takes no keyword arguments")
				}
				if len(args) != method.Arity() {
					return nil, errors.ArityMismatch(errors.PhaseInvoke,
						i.info.ClassName, method.Name, method.Arity(), len(args))
				}
				boxed, err := i.binder.marshalArgs(args, method.GoParams)
				if err != nil {
					return nil, err
				}
				out, err := method.Invoker(i.value, boxed)
				if err != nil {
					return nil, err
				}
				return i.binder.unmarshal(out)
			}), nil
	}

	// nil, nil signals "no such attribute" to the interpreter.
	return nil, nil
}

func (i *instance) AttrNames() []string {
	names := i.info.MemberNames()
	return append(names, i.info.MethodNames()...)
}

func (i *instance) SetField(name string, val starlark.Value) error {
	m, ok := i.info.Member(name)
	if !ok {
		return errors.MemberNotFound(i.info.ClassName, name)
	}
	v, err := i.binder.marshalOne(val, m.GoType)
	if err != nil {
		return err
	}
	return m.Setter(i.value, v)
}

// marshalArgs converts call arguments into boxed values, one per declared Go
// parameter type.
func (b *Binder) marshalArgs(args starlark.Tuple, params []reflect.Type) ([]typeinfo.Value, error) {
	out := make([]typeinfo.Value, len(args))
	for idx, a := range args {
		var want reflect.Type
		if idx < len(params) {
			want = params[idx]
		}
		v, err := b.marshalOne(a, want)
		if err != nil {
			return nil, err
		}
		out[idx] = v
	}
	return out, nil
}

// marshalOne converts one Starlark value to a boxed value of the wanted Go
// type.
func (b *Binder) marshalOne(sv starlark.Value, want reflect.Type) (typeinfo.Value, error) {
	switch v := sv.(type) {
	case starlark.NoneType:
		return typeinfo.Nil(), nil
	case starlark.Bool:
		return typeinfo.BoxAny(bool(v)), nil
	case starlark.String:
		return typeinfo.BoxAny(string(v)), nil
	case starlark.Int:
		n, ok := v.Int64()
		if !ok {
			return typeinfo.Value{}, errors.InvalidInput(errors.PhaseBind, "integer out of int64 range")
		}
		if want == nil {
			return typeinfo.BoxAny(n), nil
		}
		return convertNumeric(reflect.ValueOf(n), want)
	case starlark.Float:
		if want == nil {
			return typeinfo.BoxAny(float64(v)), nil
		}
		return convertNumeric(reflect.ValueOf(float64(v)), want)
	case *instance:
		if want == nil || reflect.TypeOf(v.value).AssignableTo(want) {
			return typeinfo.BoxAny(v.value), nil
		}
		return typeinfo.Value{}, errors.TypeMismatch(errors.PhaseBind, nil,
			reflect.TypeOf(v.value).String(), want.String())
	default:
		wantName := "value"
		if want != nil {
			wantName = want.String()
		}
		return typeinfo.Value{}, errors.TypeMismatch(errors.PhaseBind, nil, sv.Type(), wantName)
	}
}

func convertNumeric(rv reflect.Value, want reflect.Type) (typeinfo.Value, error) {
	switch want.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return typeinfo.BoxAny(rv.Convert(want).Interface()), nil
	}
	return typeinfo.Value{}, errors.TypeMismatch(errors.PhaseBind, nil,
		rv.Type().String(), want.String())
}

// unmarshal converts a boxed result back into a Starlark value. Results
// whose types are registered classes come back as bound instances.
func (b *Binder) unmarshal(v typeinfo.Value) (starlark.Value, error) {
	if v.IsNil() {
		return starlark.None, nil
	}
	value := v.Interface()

	t := reflect.TypeOf(value)
	if t.Kind() == reflect.Pointer {
		if ti, err := b.reg.Lookup(t); err == nil {
			return &instance{binder: b, info: ti, value: value}, nil
		}
	}

	rv := reflect.ValueOf(value)
	switch t.Kind() {
	case reflect.Bool:
		return starlark.Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return starlark.MakeInt64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return starlark.MakeUint64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return starlark.Float(rv.Float()), nil
	case reflect.String:
		return starlark.String(rv.String()), nil
	}

	return nil, errors.Unsupported(errors.PhaseBind,
		"cannot surface value of type "+t.String()+" into starlark")
}
