package typeinfo

import (
	"reflect"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/mirrorbind/mirror/errors"
	"github.com/mirrorbind/mirror/typename"
)

// classEntry couples a registration callback with its lazily built table.
// The once latch guarantees the callback runs exactly once no matter how
// many goroutines race the first lookup.
type classEntry struct {
	once     sync.Once
	name     string
	goType   reflect.Type
	register func(*TypeInfo)
	info     *TypeInfo
}

func (e *classEntry) table() *TypeInfo {
	e.once.Do(func() {
		ti := newTypeInfo(e.name, e.goType)
		e.register(ti)
		ti.seal()
		e.info = ti
	})
	return e.info
}

// Registry maps Go types and class names to their reflection tables, and
// carries the enum and free-function side registries. A Registry is safe for
// concurrent use; registration is expected at process init, lookups at any
// time after.
//
// Most programs use the process-wide Default registry. Separate instances
// exist for tests and for embedders that keep independent class universes.
type Registry struct {
	classes sync.Map // reflect.Type -> *classEntry
	names   sync.Map // string -> *classEntry
	enums   sync.Map // string -> *EnumInfo
	funcs   sync.Map // string -> *FunctionInfo
}

var defaultRegistry = NewRegistry()

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Default returns the process-wide registry that package-level Describe and
// lookup helpers operate on.
func Default() *Registry {
	return defaultRegistry
}

// Describe registers class T under name in the default registry. The
// callback declares T's members, methods and constructors; it is deferred
// until the first lookup of T and runs at most once.
func Describe[T any](name string, fn func(*Registrar[T])) {
	DescribeIn(defaultRegistry, name, fn)
}

// DescribeIn registers class T under name in reg. Describing the same Go
// type twice leaves the first registration in place; the ignored duplicate
// is logged.
func DescribeIn[T any](reg *Registry, name string, fn func(*Registrar[T])) {
	t := goType[T]()
	typename.Register(t, name)

	entry := &classEntry{
		name:   name,
		goType: t,
		register: func(ti *TypeInfo) {
			fn(&Registrar[T]{info: ti})
		},
	}
	if _, loaded := reg.classes.LoadOrStore(t, entry); loaded {
		Logger().Warn("duplicate class registration ignored",
			zap.String("class", name),
			zap.String("goType", t.String()))
		return
	}
	if prev, loaded := reg.names.LoadOrStore(name, entry); loaded {
		Logger().Warn("class name already registered for another type",
			zap.String("class", name),
			zap.String("existing", prev.(*classEntry).goType.String()),
			zap.String("new", t.String()))
	}
}

// Lookup returns the reflection table for t, building it on first use.
// Pointer types are looked up by their element type, so *Counter and
// Counter resolve to the same table.
func (r *Registry) Lookup(t reflect.Type) (*TypeInfo, error) {
	if t == nil {
		return nil, errors.NotRegistered(errors.PhaseResolve, "nil")
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	e, ok := r.classes.Load(t)
	if !ok {
		return nil, errors.NotRegistered(errors.PhaseResolve, typename.Resolve(t))
	}
	return e.(*classEntry).table(), nil
}

// LookupName returns the reflection table registered under the class name.
func (r *Registry) LookupName(name string) (*TypeInfo, error) {
	e, ok := r.names.Load(name)
	if !ok {
		return nil, errors.ClassNotFound(name)
	}
	return e.(*classEntry).table(), nil
}

// Of returns the reflection table for T from the default registry.
func Of[T any]() (*TypeInfo, error) {
	return OfIn[T](defaultRegistry)
}

// OfIn returns the reflection table for T from reg.
func OfIn[T any](reg *Registry) (*TypeInfo, error) {
	return reg.Lookup(goType[T]())
}

// MustOf is Of for types known to be registered; it panics otherwise.
// Intended for generator setup paths where a miss is a programming error.
func MustOf[T any]() *TypeInfo {
	ti, err := Of[T]()
	if err != nil {
		panic(err)
	}
	return ti
}

// New constructs an instance of the named class, dispatching the
// constructor overload set on argument count, and wraps it.
func (r *Registry) New(name string, args ...Value) (*Object, error) {
	ti, err := r.LookupName(name)
	if err != nil {
		return nil, err
	}
	c, ok := ti.ConstructorForArity(len(args))
	if !ok {
		return nil, errors.New(errors.PhaseInvoke, errors.KindArityMismatch).
			Class(name).
			Name("constructor").
			Value(len(args)).
			Detail("no constructor takes %d argument(s)", len(args)).
			Build()
	}
	instance, err := c.Factory(args)
	if err != nil {
		return nil, err
	}
	return WrapInstance(ti, instance), nil
}

// Classes returns every registered reflection table, building any not yet
// built, sorted by class name.
func (r *Registry) Classes() []*TypeInfo {
	var out []*TypeInfo
	r.classes.Range(func(_, v any) bool {
		out = append(out, v.(*classEntry).table())
		return true
	})
	sort.Slice(out, func(i, j int) bool {
		return out[i].ClassName < out[j].ClassName
	})
	return out
}
