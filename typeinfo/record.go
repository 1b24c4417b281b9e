package typeinfo

import "reflect"

// MemberInfo is the call record for one registered member. The getter and
// setter close over the field selector or accessor pair captured at
// registration time; the type name is resolved at registration time, not at
// call time.
type MemberInfo struct {
	Name     string
	TypeName string
	GoType   reflect.Type
	Getter   func(recv any) (Value, error)
	Setter   func(recv any, v Value) error
}

// MethodInfo is the call record for one registered method. The invoker
// validates the boxed argument count before unboxing anything, then unboxes
// each argument strictly.
//
// ParamTypes and GoParams are parallel: ParamTypes is the cross-host name
// contract, GoParams the Go-native types generators marshal host values into.
type MethodInfo struct {
	Name       string
	ReturnType string
	ParamTypes []string
	GoParams   []reflect.Type
	Invoker    func(recv any, args []Value) (Value, error)
}

// Arity returns the number of parameters the invoker expects.
func (m *MethodInfo) Arity() int {
	return len(m.ParamTypes)
}

// ConstructorInfo is the call record for one registered constructor.
// Constructors form an overload set on their owning table, disambiguated
// only by arity.
type ConstructorInfo struct {
	ParamTypes []string
	GoParams   []reflect.Type
	Factory    func(args []Value) (any, error)
}

// Arity returns the number of arguments the factory expects.
func (c *ConstructorInfo) Arity() int {
	return len(c.ParamTypes)
}
