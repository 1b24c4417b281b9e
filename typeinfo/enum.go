package typeinfo

import (
	"sort"

	"go.uber.org/zap"

	"github.com/mirrorbind/mirror/errors"
	"github.com/mirrorbind/mirror/typename"
)

// EnumValue is one name/value pair of an enumeration.
type EnumValue struct {
	Name  string
	Value int64
}

// EnumInfo is the registered table of one enumeration: its values in
// declaration order plus both lookup directions. Sealed after registration.
type EnumInfo struct {
	Name string

	values  []EnumValue
	byName  map[string]int64
	byValue map[int64]string
}

// Values returns the name/value pairs in declaration order.
func (e *EnumInfo) Values() []EnumValue {
	out := make([]EnumValue, len(e.values))
	copy(out, e.values)
	return out
}

// Has reports whether a value with the given name is declared.
func (e *EnumInfo) Has(name string) bool {
	_, ok := e.byName[name]
	return ok
}

// HasValue reports whether the numeric value is declared.
func (e *EnumInfo) HasValue(v int64) bool {
	_, ok := e.byValue[v]
	return ok
}

// ValueOf resolves a declared name to its numeric value.
func (e *EnumInfo) ValueOf(name string) (int64, error) {
	v, ok := e.byName[name]
	if !ok {
		return 0, errors.EnumValueNotFound(e.Name, name)
	}
	return v, nil
}

// NameOf resolves a declared numeric value to its name. When several names
// share a value, the first declared name wins.
func (e *EnumInfo) NameOf(v int64) (string, error) {
	name, ok := e.byValue[v]
	if !ok {
		return "", errors.EnumValueNotFound(e.Name, v)
	}
	return name, nil
}

// Integer constrains enum underlying types to the integer kinds a host can
// represent without loss.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32
}

// EnumRegistrar populates one enumeration's table.
type EnumRegistrar[E Integer] struct {
	info *EnumInfo
}

// Value declares one name/value pair. Declaring a name twice replaces its
// value and logs the replacement; the first declared name for a numeric
// value keeps the reverse mapping.
func (r *EnumRegistrar[E]) Value(name string, v E) *EnumRegistrar[E] {
	n := int64(v)
	if _, exists := r.info.byName[name]; exists {
		Logger().Warn("enum value registration replaced",
			zap.String("enum", r.info.Name),
			zap.String("value", name))
	} else {
		r.info.values = append(r.info.values, EnumValue{Name: name, Value: n})
	}
	r.info.byName[name] = n
	if _, exists := r.info.byValue[n]; !exists {
		r.info.byValue[n] = name
	}
	return r
}

// DescribeEnum registers enumeration E under name in the default registry.
// Unlike class registration it is eager: the callback runs immediately,
// since enum tables carry no callable records worth deferring.
func DescribeEnum[E Integer](name string, fn func(*EnumRegistrar[E])) {
	DescribeEnumIn(defaultRegistry, name, fn)
}

// DescribeEnumIn registers enumeration E under name in reg. The underlying
// Go type gets a type-name override so members and parameters typed E
// resolve to the enum's registered name.
func DescribeEnumIn[E Integer](reg *Registry, name string, fn func(*EnumRegistrar[E])) {
	typename.Register(goType[E](), name)

	info := &EnumInfo{
		Name:    name,
		byName:  make(map[string]int64),
		byValue: make(map[int64]string),
	}
	fn(&EnumRegistrar[E]{info: info})

	if _, loaded := reg.enums.LoadOrStore(name, info); loaded {
		Logger().Warn("duplicate enum registration ignored",
			zap.String("enum", name))
	}
}

// EnumByName returns the enum table registered under name in reg.
func (r *Registry) EnumByName(name string) (*EnumInfo, error) {
	e, ok := r.enums.Load(name)
	if !ok {
		return nil, errors.NotRegistered(errors.PhaseResolve, name)
	}
	return e.(*EnumInfo), nil
}

// EnumOf returns the enum table for E from the default registry, resolving
// through E's registered type name.
func EnumOf[E Integer]() (*EnumInfo, error) {
	return defaultRegistry.EnumByName(typename.Of[E]())
}

// Enums returns every registered enum table in reg, sorted by name.
func (r *Registry) Enums() []*EnumInfo {
	var out []*EnumInfo
	r.enums.Range(func(_, v any) bool {
		out = append(out, v.(*EnumInfo))
		return true
	})
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}
