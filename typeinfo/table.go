package typeinfo

import (
	"reflect"
	"strings"

	"go.uber.org/zap"
)

// TypeInfo is the reflection table of one class: its registered members and
// methods keyed by name, and its constructor overload set. A table is built
// exactly once by the class's registration callback, sealed, and never
// mutated again; instances reference their class's singleton table but do
// not own it.
//
// Member and method enumeration follows declaration order.
type TypeInfo struct {
	ClassName string
	GoType    reflect.Type

	members     map[string]*MemberInfo
	methods     map[string]*MethodInfo
	memberOrder []string
	methodOrder []string
	ctors       []*ConstructorInfo
	sealed      bool
}

func newTypeInfo(className string, goType reflect.Type) *TypeInfo {
	return &TypeInfo{
		ClassName: className,
		GoType:    goType,
		members:   make(map[string]*MemberInfo),
		methods:   make(map[string]*MethodInfo),
	}
}

// addMember records a member. Registering a name twice replaces the previous
// record (last registration wins) and keeps the original declaration
// position; the replacement is logged because it is a known foot-gun.
func (ti *TypeInfo) addMember(m *MemberInfo) {
	ti.mustBeOpen("member", m.Name)
	if _, exists := ti.members[m.Name]; exists {
		Logger().Warn("member registration replaced",
			zap.String("class", ti.ClassName),
			zap.String("member", m.Name))
	} else {
		ti.memberOrder = append(ti.memberOrder, m.Name)
	}
	ti.members[m.Name] = m
}

// addMethod records a method, with the same last-wins replacement semantics
// as addMember. There is no true overloading: one record per name.
func (ti *TypeInfo) addMethod(m *MethodInfo) {
	ti.mustBeOpen("method", m.Name)
	if _, exists := ti.methods[m.Name]; exists {
		Logger().Warn("method registration replaced",
			zap.String("class", ti.ClassName),
			zap.String("method", m.Name))
	} else {
		ti.methodOrder = append(ti.methodOrder, m.Name)
	}
	ti.methods[m.Name] = m
}

// addConstructor appends to the overload set. Arity is the only dispatch
// key; the first constructor registered for an arity wins lookups.
func (ti *TypeInfo) addConstructor(c *ConstructorInfo) {
	ti.mustBeOpen("constructor", "")
	ti.ctors = append(ti.ctors, c)
}

func (ti *TypeInfo) seal() {
	ti.sealed = true
}

func (ti *TypeInfo) mustBeOpen(what, name string) {
	if ti.sealed {
		panic("typeinfo: " + what + " " + name + " registered on sealed table " + ti.ClassName)
	}
}

// Member returns the member record for name.
func (ti *TypeInfo) Member(name string) (*MemberInfo, bool) {
	m, ok := ti.members[name]
	return m, ok
}

// Method returns the method record for name.
func (ti *TypeInfo) Method(name string) (*MethodInfo, bool) {
	m, ok := ti.methods[name]
	return m, ok
}

// HasMember reports whether a member is registered. Never fails.
func (ti *TypeInfo) HasMember(name string) bool {
	_, ok := ti.members[name]
	return ok
}

// HasMethod reports whether a method is registered. Never fails.
func (ti *TypeInfo) HasMethod(name string) bool {
	_, ok := ti.methods[name]
	return ok
}

// MemberNames returns the registered member names in declaration order.
func (ti *TypeInfo) MemberNames() []string {
	out := make([]string, len(ti.memberOrder))
	copy(out, ti.memberOrder)
	return out
}

// MethodNames returns the registered method names in declaration order.
func (ti *TypeInfo) MethodNames() []string {
	out := make([]string, len(ti.methodOrder))
	copy(out, ti.methodOrder)
	return out
}

// Constructors returns the constructor overload set in registration order.
func (ti *TypeInfo) Constructors() []*ConstructorInfo {
	out := make([]*ConstructorInfo, len(ti.ctors))
	copy(out, ti.ctors)
	return out
}

// ConstructorForArity returns the first constructor expecting n arguments.
func (ti *TypeInfo) ConstructorForArity(n int) (*ConstructorInfo, bool) {
	for _, c := range ti.ctors {
		if c.Arity() == n {
			return c, true
		}
	}
	return nil, false
}

// Describe renders a human-readable listing of the table: each member as
// "type name", each method as "return name(params)". Debug output, not a
// wire format.
func (ti *TypeInfo) Describe() string {
	var b strings.Builder
	b.WriteString("class ")
	b.WriteString(ti.ClassName)
	b.WriteByte('\n')

	b.WriteString("members:\n")
	for _, name := range ti.memberOrder {
		m := ti.members[name]
		b.WriteString("  ")
		b.WriteString(m.TypeName)
		b.WriteByte(' ')
		b.WriteString(m.Name)
		b.WriteByte('\n')
	}

	b.WriteString("methods:\n")
	for _, name := range ti.methodOrder {
		m := ti.methods[name]
		b.WriteString("  ")
		b.WriteString(m.ReturnType)
		b.WriteByte(' ')
		b.WriteString(m.Name)
		b.WriteByte('(')
		b.WriteString(strings.Join(m.ParamTypes, ", "))
		b.WriteString(")\n")
	}

	for _, c := range ti.ctors {
		b.WriteString("constructor(")
		b.WriteString(strings.Join(c.ParamTypes, ", "))
		b.WriteString(")\n")
	}

	return b.String()
}
