package bindwasm

import (
	"context"
	"reflect"
	"strconv"
	"strings"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/mirrorbind/mirror/errors"
	"github.com/mirrorbind/mirror/handles"
	"github.com/mirrorbind/mirror/typeinfo"
)

// hostExport is one pending host function: a handler plus its wasm
// signature.
type hostExport struct {
	name    string
	fn      api.GoModuleFunc
	params  []api.ValueType
	results []api.ValueType
}

// Binder accumulates host functions for one host module. Call the Bind
// methods (directly or through mirror.BindAll), then Instantiate to build
// the module into a wazero runtime.
type Binder struct {
	reg     *typeinfo.Registry
	table   *handles.Table
	exports []hostExport
	bound   map[string]bool
}

// New returns a binder drawing instance handles from table.
func New(reg *typeinfo.Registry, table *handles.Table) *Binder {
	return &Binder{
		reg:   reg,
		table: table,
		bound: make(map[string]bool),
	}
}

// Instantiate builds every accumulated export into a host module named
// moduleName inside rt.
func (b *Binder) Instantiate(ctx context.Context, rt wazero.Runtime, moduleName string) (api.Module, error) {
	builder := rt.NewHostModuleBuilder(moduleName)
	for _, exp := range b.exports {
		builder.NewFunctionBuilder().
			WithGoModuleFunction(exp.fn, exp.params, exp.results).
			Export(exp.name)
	}
	return builder.Instantiate(ctx)
}

func (b *Binder) claim(name string) error {
	if b.bound[name] {
		return errors.DuplicateBinding("wasm", name)
	}
	b.bound[name] = true
	return nil
}

// BindClass exports the class's constructors, member accessors, methods and
// a destructor. Any record whose signature cannot cross the wasm boundary
// fails the whole class; there are no silent skips.
func (b *Binder) BindClass(info *typeinfo.TypeInfo) error {
	if err := b.claim(info.ClassName); err != nil {
		return err
	}
	class := info.ClassName

	for _, c := range info.Constructors() {
		ctor := c
		params, err := b.valueTypes(class, "constructor", ctor.ParamTypes)
		if err != nil {
			return err
		}
		b.exports = append(b.exports, hostExport{
			name:    class + ".new" + strconv.Itoa(ctor.Arity()),
			params:  params,
			results: []api.ValueType{api.ValueTypeI32},
			fn: func(_ context.Context, _ api.Module, stack []uint64) {
				args, err := b.decodeArgs(stack, ctor.ParamTypes, ctor.GoParams)
				if err != nil {
					panic(err)
				}
				instance, err := ctor.Factory(args)
				if err != nil {
					panic(err)
				}
				h, err := b.table.Insert(class, instance)
				if err != nil {
					panic(err)
				}
				stack[0] = uint64(h)
			},
		})
	}

	for _, name := range info.MemberNames() {
		m, _ := info.Member(name)
		member := m
		vt, err := b.valueType(class, name, member.TypeName)
		if err != nil {
			return err
		}

		b.exports = append(b.exports, hostExport{
			name:    class + ".get_" + name,
			params:  []api.ValueType{api.ValueTypeI32},
			results: []api.ValueType{vt},
			fn: func(_ context.Context, _ api.Module, stack []uint64) {
				instance := b.instance(class, stack[0])
				v, err := member.Getter(instance)
				if err != nil {
					panic(err)
				}
				out, err := b.encode(v, member.TypeName)
				if err != nil {
					panic(err)
				}
				stack[0] = out
			},
		})

		b.exports = append(b.exports, hostExport{
			name:   class + ".set_" + name,
			params: []api.ValueType{api.ValueTypeI32, vt},
			fn: func(_ context.Context, _ api.Module, stack []uint64) {
				instance := b.instance(class, stack[0])
				v, err := b.decode(stack[1], member.TypeName, member.GoType)
				if err != nil {
					panic(err)
				}
				if err := member.Setter(instance, v); err != nil {
					panic(err)
				}
			},
		})
	}

	for _, name := range info.MethodNames() {
		m, _ := info.Method(name)
		method := m
		params, err := b.valueTypes(class, name, method.ParamTypes)
		if err != nil {
			return err
		}
		params = append([]api.ValueType{api.ValueTypeI32}, params...)

		var results []api.ValueType
		if method.ReturnType != "void" {
			rt, err := b.valueType(class, name, method.ReturnType)
			if err != nil {
				return err
			}
			results = []api.ValueType{rt}
		}

		b.exports = append(b.exports, hostExport{
			name:    class + "." + name,
			params:  params,
			results: results,
			fn: func(_ context.Context, _ api.Module, stack []uint64) {
				instance := b.instance(class, stack[0])
				args, err := b.decodeArgs(stack[1:], method.ParamTypes, method.GoParams)
				if err != nil {
					panic(err)
				}
				out, err := method.Invoker(instance, args)
				if err != nil {
					panic(err)
				}
				if method.ReturnType != "void" {
					encoded, err := b.encode(out, method.ReturnType)
					if err != nil {
						panic(err)
					}
					stack[0] = encoded
				}
			},
		})
	}

	b.exports = append(b.exports, hostExport{
		name:   class + ".drop",
		params: []api.ValueType{api.ValueTypeI32},
		fn: func(_ context.Context, _ api.Module, stack []uint64) {
			b.table.Remove(handles.Handle(uint32(stack[0])))
		},
	})

	return nil
}

// BindEnum exports each enum value as a niladic i64 getter named
// `<enum>.<name>`.
func (b *Binder) BindEnum(info *typeinfo.EnumInfo) error {
	if err := b.claim(info.Name); err != nil {
		return err
	}

	for _, ev := range info.Values() {
		value := ev.Value
		b.exports = append(b.exports, hostExport{
			name:    info.Name + "." + ev.Name,
			results: []api.ValueType{api.ValueTypeI64},
			fn: func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = uint64(value)
			},
		})
	}
	return nil
}

// BindFunction exports the free function under its registered name.
func (b *Binder) BindFunction(info *typeinfo.FunctionInfo) error {
	if err := b.claim(info.Name); err != nil {
		return err
	}

	params, err := b.valueTypes("", info.Name, info.ParamTypes)
	if err != nil {
		return err
	}
	var results []api.ValueType
	if info.ReturnType != "void" {
		rt, err := b.valueType("", info.Name, info.ReturnType)
		if err != nil {
			return err
		}
		results = []api.ValueType{rt}
	}

	fn := info
	b.exports = append(b.exports, hostExport{
		name:    info.Name,
		params:  params,
		results: results,
		fn: func(_ context.Context, _ api.Module, stack []uint64) {
			args, err := b.decodeArgs(stack, fn.ParamTypes, fn.GoParams)
			if err != nil {
				panic(err)
			}
			out, err := fn.Invoker(args)
			if err != nil {
				panic(err)
			}
			if fn.ReturnType != "void" {
				encoded, err := b.encode(out, fn.ReturnType)
				if err != nil {
					panic(err)
				}
				stack[0] = encoded
			}
		},
	})
	return nil
}

// instance resolves a guest handle to its live Go instance or panics the
// call out to the guest.
func (b *Binder) instance(class string, slot uint64) any {
	instance, ok := b.table.GetClass(handles.Handle(uint32(slot)), class)
	if !ok {
		panic(errors.New(errors.PhaseInvoke, errors.KindNilInstance).
			Class(class).
			Value(uint32(slot)).
			Detail("stale or foreign handle %d", uint32(slot)).
			Build())
	}
	return instance
}

// classFor resolves a canonical type name to a registered class table.
// Instance parameters and results are pointer-typed, so their names carry a
// trailing "*".
func (b *Binder) classFor(typeName string) (*typeinfo.TypeInfo, bool) {
	ti, err := b.reg.LookupName(strings.TrimSuffix(typeName, "*"))
	if err != nil {
		return nil, false
	}
	return ti, true
}

// valueType maps a canonical type name onto a core wasm value type.
// Registered classes cross as i32 handles, enums as their i64 value.
func (b *Binder) valueType(class, name, typeName string) (api.ValueType, error) {
	switch typeName {
	case "bool", "int8", "int16", "int32", "uint8", "uint16", "uint32":
		return api.ValueTypeI32, nil
	case "int", "int64", "uint", "uint64":
		return api.ValueTypeI64, nil
	case "float32":
		return api.ValueTypeF32, nil
	case "float64":
		return api.ValueTypeF64, nil
	}
	if _, ok := b.classFor(typeName); ok {
		return api.ValueTypeI32, nil
	}
	if _, err := b.reg.EnumByName(typeName); err == nil {
		return api.ValueTypeI64, nil
	}
	return 0, errors.New(errors.PhaseBind, errors.KindUnsupported).
		Class(class).
		Name(name).
		TypeName(typeName).
		Detail("type cannot cross the wasm boundary").
		Build()
}

func (b *Binder) valueTypes(class, name string, typeNames []string) ([]api.ValueType, error) {
	out := make([]api.ValueType, len(typeNames))
	for i, tn := range typeNames {
		vt, err := b.valueType(class, name, tn)
		if err != nil {
			return nil, err
		}
		out[i] = vt
	}
	return out, nil
}

func (b *Binder) decodeArgs(stack []uint64, typeNames []string, goParams []reflect.Type) ([]typeinfo.Value, error) {
	out := make([]typeinfo.Value, len(typeNames))
	for i, tn := range typeNames {
		var goType reflect.Type
		if i < len(goParams) {
			goType = goParams[i]
		}
		v, err := b.decode(stack[i], tn, goType)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// decode turns one stack slot into a boxed value of the record's Go type.
func (b *Binder) decode(slot uint64, typeName string, goType reflect.Type) (typeinfo.Value, error) {
	if typeName == "bool" {
		return typeinfo.BoxAny(slot != 0), nil
	}

	var numeric reflect.Value
	switch typeName {
	case "int8", "int16", "int32":
		numeric = reflect.ValueOf(int64(api.DecodeI32(slot)))
	case "uint8", "uint16", "uint32":
		numeric = reflect.ValueOf(uint64(api.DecodeU32(slot)))
	case "int", "int64":
		numeric = reflect.ValueOf(int64(slot))
	case "uint", "uint64":
		numeric = reflect.ValueOf(slot)
	case "float32":
		numeric = reflect.ValueOf(api.DecodeF32(slot))
	case "float64":
		numeric = reflect.ValueOf(api.DecodeF64(slot))
	default:
		if ti, ok := b.classFor(typeName); ok {
			instance, ok := b.table.GetClass(handles.Handle(uint32(slot)), ti.ClassName)
			if !ok {
				return typeinfo.Value{}, errors.New(errors.PhaseInvoke, errors.KindNilInstance).
					Class(ti.ClassName).
					Value(uint32(slot)).
					Detail("stale or foreign handle %d", uint32(slot)).
					Build()
			}
			return typeinfo.BoxAny(instance), nil
		}
		if _, err := b.reg.EnumByName(typeName); err == nil {
			numeric = reflect.ValueOf(int64(slot))
		} else {
			return typeinfo.Value{}, errors.Unsupported(errors.PhaseBind,
				"cannot decode wasm value as "+typeName)
		}
	}

	if goType != nil && numeric.Type() != goType {
		if !numeric.Type().ConvertibleTo(goType) {
			return typeinfo.Value{}, errors.TypeMismatch(errors.PhaseBind, nil,
				numeric.Type().String(), goType.String())
		}
		numeric = numeric.Convert(goType)
	}
	return typeinfo.BoxAny(numeric.Interface()), nil
}

// encode turns a boxed result into one stack slot. Instances of registered
// classes are inserted into the handle table.
func (b *Binder) encode(v typeinfo.Value, typeName string) (uint64, error) {
	if ti, ok := b.classFor(typeName); ok {
		h, err := b.table.Insert(ti.ClassName, v.Interface())
		if err != nil {
			return 0, err
		}
		return uint64(h), nil
	}

	rv := reflect.ValueOf(v.Interface())
	switch typeName {
	case "bool":
		if rv.Bool() {
			return 1, nil
		}
		return 0, nil
	case "int8", "int16", "int32":
		return api.EncodeI32(int32(rv.Int())), nil
	case "uint8", "uint16", "uint32":
		return uint64(uint32(rv.Uint())), nil
	case "int", "int64":
		return api.EncodeI64(rv.Int()), nil
	case "uint", "uint64":
		return rv.Uint(), nil
	case "float32":
		return api.EncodeF32(float32(rv.Float())), nil
	case "float64":
		return api.EncodeF64(rv.Float()), nil
	}

	if _, err := b.reg.EnumByName(typeName); err == nil {
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return api.EncodeI64(rv.Int()), nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return rv.Uint(), nil
		}
	}
	return 0, errors.Unsupported(errors.PhaseBind,
		"cannot encode value of type "+v.TypeName()+" for wasm")
}
