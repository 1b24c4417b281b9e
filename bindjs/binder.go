package bindjs

import (
	"reflect"

	"github.com/dop251/goja"

	"github.com/mirrorbind/mirror/errors"
	"github.com/mirrorbind/mirror/typeinfo"
)

// instanceKey is the hidden, non-enumerable property carrying the native Go
// instance on every bound JS object.
const instanceKey = "__mirrorInstance"

// Binder installs reflection tables into one goja runtime. Not safe for
// concurrent use; goja runtimes are single-goroutine.
type Binder struct {
	rt    *goja.Runtime
	reg   *typeinfo.Registry
	bound map[string]bool
}

// New returns a binder targeting rt. Method results whose types are
// registered in reg come back to the script as bound instances.
func New(rt *goja.Runtime, reg *typeinfo.Registry) *Binder {
	return &Binder{
		rt:    rt,
		reg:   reg,
		bound: make(map[string]bool),
	}
}

func (b *Binder) claim(name string) error {
	if b.bound[name] {
		return errors.DuplicateBinding("js", name)
	}
	b.bound[name] = true
	return nil
}

// throw surfaces a core error into the running script.
func (b *Binder) throw(err error) {
	panic(b.rt.NewGoError(err))
}

// BindClass installs a constructor function for the class as a global.
func (b *Binder) BindClass(info *typeinfo.TypeInfo) error {
	if err := b.claim(info.ClassName); err != nil {
		return err
	}

	ctor := func(call goja.ConstructorCall) *goja.Object {
		c, ok := info.ConstructorForArity(len(call.Arguments))
		if !ok {
			b.throw(errors.New(errors.PhaseInvoke, errors.KindArityMismatch).
				Class(info.ClassName).
				Name("constructor").
				Value(len(call.Arguments)).
				Detail("no constructor takes %d argument(s)", len(call.Arguments)).
				Build())
		}
		args, err := b.marshalArgs(call.Arguments, c.GoParams)
		if err != nil {
			b.throw(err)
		}
		instance, err := c.Factory(args)
		if err != nil {
			b.throw(err)
		}
		b.decorate(call.This, info, instance)
		return call.This
	}

	return b.rt.Set(info.ClassName, ctor)
}

// decorate turns obj into a live view of instance: accessor properties for
// members, function properties for methods, the instance itself hidden
// behind instanceKey.
func (b *Binder) decorate(obj *goja.Object, info *typeinfo.TypeInfo, instance any) {
	_ = obj.DefineDataProperty(instanceKey, b.rt.ToValue(instance),
		goja.FLAG_FALSE, goja.FLAG_FALSE, goja.FLAG_FALSE)

	for _, name := range info.MemberNames() {
		m, _ := info.Member(name)
		getter := b.rt.ToValue(func(goja.FunctionCall) goja.Value {
			v, err := m.Getter(instance)
			if err != nil {
				b.throw(err)
			}
			return b.unmarshal(v)
		})
		member := m
		setter := b.rt.ToValue(func(call goja.FunctionCall) goja.Value {
			boxed, err := b.marshalOne(call.Argument(0), member.GoType)
			if err != nil {
				b.throw(err)
			}
			if err := member.Setter(instance, boxed); err != nil {
				b.throw(err)
			}
			return goja.Undefined()
		})
		_ = obj.DefineAccessorProperty(name, getter, setter,
			goja.FLAG_FALSE, goja.FLAG_TRUE)
	}

	for _, name := range info.MethodNames() {
		m, _ := info.Method(name)
		method := m
		_ = obj.Set(name, func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) != method.Arity() {
				b.throw(errors.ArityMismatch(errors.PhaseInvoke,
					info.ClassName, method.Name, method.Arity(), len(call.Arguments)))
			}
			args, err := b.marshalArgs(call.Arguments, method.GoParams)
			if err != nil {
				b.throw(err)
			}
			out, err := method.Invoker(instance, args)
			if err != nil {
				b.throw(err)
			}
			return b.unmarshal(out)
		})
	}
}

// BindEnum installs the enum as a frozen global object mapping value names
// to their numbers.
func (b *Binder) BindEnum(info *typeinfo.EnumInfo) error {
	if err := b.claim(info.Name); err != nil {
		return err
	}

	obj := b.rt.NewObject()
	for _, ev := range info.Values() {
		if err := obj.DefineDataProperty(ev.Name, b.rt.ToValue(ev.Value),
			goja.FLAG_FALSE, goja.FLAG_FALSE, goja.FLAG_TRUE); err != nil {
			return errors.Wrap(errors.PhaseBind, errors.KindInvalidInput, err,
				"enum "+info.Name+" value "+ev.Name)
		}
	}
	return b.rt.Set(info.Name, obj)
}

// BindFunction installs the free function as a global.
func (b *Binder) BindFunction(info *typeinfo.FunctionInfo) error {
	if err := b.claim(info.Name); err != nil {
		return err
	}

	return b.rt.Set(info.Name, func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) != info.Arity() {
			b.throw(errors.ArityMismatch(errors.PhaseInvoke,
				"", info.Name, info.Arity(), len(call.Arguments)))
		}
		args, err := b.marshalArgs(call.Arguments, info.GoParams)
		if err != nil {
			b.throw(err)
		}
		out, err := info.Invoker(args)
		if err != nil {
			b.throw(err)
		}
		return b.unmarshal(out)
	})
}

// marshalArgs converts script arguments into boxed values, one per declared
// Go parameter type.
func (b *Binder) marshalArgs(args []goja.Value, params []reflect.Type) ([]typeinfo.Value, error) {
	out := make([]typeinfo.Value, len(args))
	for i, a := range args {
		var want reflect.Type
		if i < len(params) {
			want = params[i]
		}
		v, err := b.marshalOne(a, want)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// marshalOne converts one script value to a boxed value of the wanted Go
// type. Bound instances pass through as their native Go instance; everything
// else goes through goja's exporter.
func (b *Binder) marshalOne(v goja.Value, want reflect.Type) (typeinfo.Value, error) {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return typeinfo.Nil(), nil
	}

	if obj, ok := v.(*goja.Object); ok {
		if raw := obj.Get(instanceKey); raw != nil && !goja.IsUndefined(raw) {
			instance := raw.Export()
			if want == nil || reflect.TypeOf(instance).AssignableTo(want) {
				return typeinfo.BoxAny(instance), nil
			}
			return typeinfo.Value{}, errors.TypeMismatch(errors.PhaseBind, nil,
				reflect.TypeOf(instance).String(), want.String())
		}
	}

	if want == nil {
		return typeinfo.BoxAny(v.Export()), nil
	}

	target := reflect.New(want)
	if err := b.rt.ExportTo(v, target.Interface()); err != nil {
		return typeinfo.Value{}, errors.New(errors.PhaseBind, errors.KindTypeMismatch).
			TypeName(want.String()).
			Cause(err).
			Detail("cannot marshal script value").
			Build()
	}
	return typeinfo.BoxAny(target.Elem().Interface()), nil
}

// unmarshal converts a boxed result back into a script value. Results whose
// types are registered classes come back as bound instances.
func (b *Binder) unmarshal(v typeinfo.Value) goja.Value {
	if v.IsNil() {
		return goja.Undefined()
	}
	instance := v.Interface()

	t := reflect.TypeOf(instance)
	if t.Kind() == reflect.Pointer {
		if ti, err := b.reg.Lookup(t); err == nil {
			obj := b.rt.NewObject()
			b.decorate(obj, ti, instance)
			return obj
		}
	}
	return b.rt.ToValue(instance)
}
