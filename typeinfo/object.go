package typeinfo

import (
	"reflect"

	"github.com/mirrorbind/mirror/errors"
)

// Object pairs an instance with its class's reflection table, exposing the
// string-addressed surface embedding generators drive: get and set members
// by name, call methods by name with boxed arguments.
type Object struct {
	recv any
	info *TypeInfo
}

// Wrap looks up the reflection table for instance's dynamic type in the
// default registry and pairs the two.
func Wrap(instance any) (*Object, error) {
	return WrapIn(defaultRegistry, instance)
}

// WrapIn is Wrap against an explicit registry.
func WrapIn(reg *Registry, instance any) (*Object, error) {
	if instance == nil {
		return nil, errors.NilInstance("")
	}
	ti, err := reg.Lookup(reflect.TypeOf(instance))
	if err != nil {
		return nil, err
	}
	return &Object{recv: instance, info: ti}, nil
}

// WrapInstance pairs an instance with an already-resolved table. Generators
// use it on factory results, where the table is known before the instance
// exists.
func WrapInstance(info *TypeInfo, instance any) *Object {
	return &Object{recv: instance, info: info}
}

// ClassName returns the registered class name.
func (o *Object) ClassName() string {
	return o.info.ClassName
}

// Instance returns the wrapped instance.
func (o *Object) Instance() any {
	return o.recv
}

// Table returns the class's reflection table.
func (o *Object) Table() *TypeInfo {
	return o.info
}

// Get reads the named member.
func (o *Object) Get(name string) (Value, error) {
	m, ok := o.info.Member(name)
	if !ok {
		return Value{}, errors.MemberNotFound(o.info.ClassName, name)
	}
	return m.Getter(o.recv)
}

// Set writes the named member.
func (o *Object) Set(name string, v Value) error {
	m, ok := o.info.Member(name)
	if !ok {
		return errors.MemberNotFound(o.info.ClassName, name)
	}
	return m.Setter(o.recv, v)
}

// Call invokes the named method with boxed arguments.
func (o *Object) Call(name string, args ...Value) (Value, error) {
	m, ok := o.info.Method(name)
	if !ok {
		return Value{}, errors.MethodNotFound(o.info.ClassName, name)
	}
	return m.Invoker(o.recv, args)
}

// HasMember reports whether the class declares the member. Never fails.
func (o *Object) HasMember(name string) bool {
	return o.info.HasMember(name)
}

// HasMethod reports whether the class declares the method. Never fails.
func (o *Object) HasMethod(name string) bool {
	return o.info.HasMethod(name)
}

// MemberNames returns the class's member names in declaration order.
func (o *Object) MemberNames() []string {
	return o.info.MemberNames()
}

// MethodNames returns the class's method names in declaration order.
func (o *Object) MethodNames() []string {
	return o.info.MethodNames()
}
