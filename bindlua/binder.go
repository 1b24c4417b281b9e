package bindlua

import (
	"reflect"

	lua "github.com/yuin/gopher-lua"

	"github.com/mirrorbind/mirror/errors"
	"github.com/mirrorbind/mirror/typeinfo"
)

// Binder installs reflection tables into one Lua state. Not safe for
// concurrent use; lua states are single-goroutine.
type Binder struct {
	state *lua.LState
	reg   *typeinfo.Registry
	bound map[string]bool
}

// New returns a binder targeting state. Method results whose types are
// registered in reg come back to the script as userdata instances.
func New(state *lua.LState, reg *typeinfo.Registry) *Binder {
	return &Binder{
		state: state,
		reg:   reg,
		bound: make(map[string]bool),
	}
}

func (b *Binder) claim(name string) error {
	if b.bound[name] {
		return errors.DuplicateBinding("lua", name)
	}
	b.bound[name] = true
	return nil
}

// BindClass installs the class as a global table with a `new` constructor
// and a userdata metatable for its instances.
func (b *Binder) BindClass(info *typeinfo.TypeInfo) error {
	if err := b.claim(info.ClassName); err != nil {
		return err
	}

	mt := b.state.NewTypeMetatable(info.ClassName)
	b.state.SetField(mt, "__index", b.state.NewFunction(b.indexFn(info)))
	b.state.SetField(mt, "__newindex", b.state.NewFunction(b.newindexFn(info)))

	cls := b.state.NewTable()
	b.state.SetField(cls, "new", b.state.NewFunction(b.newFn(info)))
	b.state.SetGlobal(info.ClassName, cls)
	return nil
}

func (b *Binder) newFn(info *typeinfo.TypeInfo) lua.LGFunction {
	return func(L *lua.LState) int {
		n := L.GetTop()
		c, ok := info.ConstructorForArity(n)
		if !ok {
			L.RaiseError("%s", errors.New(errors.PhaseInvoke, errors.KindArityMismatch).
				Class(info.ClassName).
				Name("constructor").
				Value(n).
				Detail("no constructor takes %d argument(s)", n).
				Build().Error())
			return 0
		}
		args, err := b.marshalArgs(L, 1, n, c.GoParams)
		if err != nil {
			L.RaiseError("%s", err.Error())
			return 0
		}
		instance, err := c.Factory(args)
		if err != nil {
			L.RaiseError("%s", err.Error())
			return 0
		}
		L.Push(b.wrap(L, info.ClassName, instance))
		return 1
	}
}

func (b *Binder) indexFn(info *typeinfo.TypeInfo) lua.LGFunction {
	return func(L *lua.LState) int {
		ud := L.CheckUserData(1)
		key := L.CheckString(2)

		if m, ok := info.Member(key); ok {
			v, err := m.Getter(ud.Value)
			if err != nil {
				L.RaiseError("%s", err.Error())
				return 0
			}
			L.Push(b.unmarshal(L, v))
			return 1
		}

		if m, ok := info.Method(key); ok {
			L.Push(L.NewFunction(b.methodFn(info, m)))
			return 1
		}

		L.RaiseError("%s", errors.New(errors.PhaseInvoke, errors.KindMemberNotFound).
			Class(info.ClassName).
			Name(key).
			Detail("no member or method %q", key).
			Build().Error())
		return 0
	}
}

func (b *Binder) newindexFn(info *typeinfo.TypeInfo) lua.LGFunction {
	return func(L *lua.LState) int {
		ud := L.CheckUserData(1)
		key := L.CheckString(2)

		m, ok := info.Member(key)
		if !ok {
			L.RaiseError("%s", errors.MemberNotFound(info.ClassName, key).Error())
			return 0
		}
		v, err := b.marshalOne(L.Get(3), m.GoType)
		if err != nil {
			L.RaiseError("%s", err.Error())
			return 0
		}
		if err := m.Setter(ud.Value, v); err != nil {
			L.RaiseError("%s", err.Error())
			return 0
		}
		return 0
	}
}

func (b *Binder) methodFn(info *typeinfo.TypeInfo, m *typeinfo.MethodInfo) lua.LGFunction {
	return func(L *lua.LState) int {
		ud := L.CheckUserData(1)
		n := L.GetTop() - 1
		if n != m.Arity() {
			L.RaiseError("%s", errors.ArityMismatch(errors.PhaseInvoke,
				info.ClassName, m.Name, m.Arity(), n).Error())
			return 0
		}
		args, err := b.marshalArgs(L, 2, n, m.GoParams)
		if err != nil {
			L.RaiseError("%s", err.Error())
			return 0
		}
		out, err := m.Invoker(ud.Value, args)
		if err != nil {
			L.RaiseError("%s", err.Error())
			return 0
		}
		L.Push(b.unmarshal(L, out))
		return 1
	}
}

// BindEnum installs the enum as a read-only global table.
func (b *Binder) BindEnum(info *typeinfo.EnumInfo) error {
	if err := b.claim(info.Name); err != nil {
		return err
	}

	values := b.state.NewTable()
	for _, ev := range info.Values() {
		b.state.SetField(values, ev.Name, lua.LNumber(ev.Value))
	}

	// A proxy table keeps writes out: reads forward to the values table,
	// writes raise.
	proxy := b.state.NewTable()
	mt := b.state.NewTable()
	b.state.SetField(mt, "__index", values)
	enumName := info.Name
	b.state.SetField(mt, "__newindex", b.state.NewFunction(func(L *lua.LState) int {
		L.RaiseError("enum %s is read-only", enumName)
		return 0
	}))
	b.state.SetMetatable(proxy, mt)
	b.state.SetGlobal(info.Name, proxy)
	return nil
}

// BindFunction installs the free function as a global.
func (b *Binder) BindFunction(info *typeinfo.FunctionInfo) error {
	if err := b.claim(info.Name); err != nil {
		return err
	}

	b.state.SetGlobal(info.Name, b.state.NewFunction(func(L *lua.LState) int {
		n := L.GetTop()
		if n != info.Arity() {
			L.RaiseError("%s", errors.ArityMismatch(errors.PhaseInvoke,
				"", info.Name, info.Arity(), n).Error())
			return 0
		}
		args, err := b.marshalArgs(L, 1, n, info.GoParams)
		if err != nil {
			L.RaiseError("%s", err.Error())
			return 0
		}
		out, err := info.Invoker(args)
		if err != nil {
			L.RaiseError("%s", err.Error())
			return 0
		}
		L.Push(b.unmarshal(L, out))
		return 1
	}))
	return nil
}

// wrap boxes a Go instance as userdata carrying its class metatable.
func (b *Binder) wrap(L *lua.LState, class string, instance any) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = instance
	L.SetMetatable(ud, L.GetTypeMetatable(class))
	return ud
}

// marshalArgs converts stack values [from, from+n) into boxed values, one
// per declared Go parameter type.
func (b *Binder) marshalArgs(L *lua.LState, from, n int, params []reflect.Type) ([]typeinfo.Value, error) {
	out := make([]typeinfo.Value, n)
	for i := 0; i < n; i++ {
		var want reflect.Type
		if i < len(params) {
			want = params[i]
		}
		v, err := b.marshalOne(L.Get(from+i), want)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// marshalOne converts one Lua value to a boxed value of the wanted Go type.
// Lua numbers are float64; numeric targets get a reflect conversion.
func (b *Binder) marshalOne(lv lua.LValue, want reflect.Type) (typeinfo.Value, error) {
	switch v := lv.(type) {
	case *lua.LNilType:
		return typeinfo.Nil(), nil
	case lua.LBool:
		return typeinfo.BoxAny(bool(v)), nil
	case lua.LString:
		return typeinfo.BoxAny(string(v)), nil
	case lua.LNumber:
		f := float64(v)
		if want == nil {
			return typeinfo.BoxAny(f), nil
		}
		switch want.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
			return typeinfo.BoxAny(reflect.ValueOf(f).Convert(want).Interface()), nil
		}
		return typeinfo.Value{}, errors.TypeMismatch(errors.PhaseBind, nil, "number", want.String())
	case *lua.LUserData:
		instance := v.Value
		if instance == nil {
			return typeinfo.Nil(), nil
		}
		if want == nil || reflect.TypeOf(instance).AssignableTo(want) {
			return typeinfo.BoxAny(instance), nil
		}
		return typeinfo.Value{}, errors.TypeMismatch(errors.PhaseBind, nil,
			reflect.TypeOf(instance).String(), want.String())
	default:
		wantName := "value"
		if want != nil {
			wantName = want.String()
		}
		return typeinfo.Value{}, errors.TypeMismatch(errors.PhaseBind, nil, lv.Type().String(), wantName)
	}
}

// unmarshal converts a boxed result back into a Lua value. Results whose
// types are registered classes come back as userdata instances.
func (b *Binder) unmarshal(L *lua.LState, v typeinfo.Value) lua.LValue {
	if v.IsNil() {
		return lua.LNil
	}
	instance := v.Interface()

	t := reflect.TypeOf(instance)
	if t.Kind() == reflect.Pointer {
		if ti, err := b.reg.Lookup(t); err == nil {
			return b.wrap(L, ti.ClassName, instance)
		}
	}

	rv := reflect.ValueOf(instance)
	switch t.Kind() {
	case reflect.Bool:
		return lua.LBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return lua.LNumber(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return lua.LNumber(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return lua.LNumber(rv.Float())
	case reflect.String:
		return lua.LString(rv.String())
	}

	ud := L.NewUserData()
	ud.Value = instance
	return ud
}
