package typename

import (
	"reflect"
	"sync"

	"go.uber.org/zap"
)

// overrides maps reflect.Type -> string. sync.Map keeps the hot read path
// lock-free; writes happen during registration only.
var overrides sync.Map

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the package's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger configures the package's logger.
// This must be called before any resolution activity.
func SetLogger(l *zap.Logger) {
	logger = l
}

// Register associates a type with a canonical name, taking priority over
// every built-in resolution rule. Registration is idempotent per type: the
// first name wins and a conflicting re-registration is ignored.
func Register(t reflect.Type, name string) {
	if prev, loaded := overrides.LoadOrStore(t, name); loaded {
		if prev.(string) != name {
			Logger().Warn("conflicting type name registration ignored",
				zap.String("type", t.String()),
				zap.String("registered", prev.(string)),
				zap.String("rejected", name))
		}
	}
}

// RegisterFor registers a canonical name for the type parameter T.
func RegisterFor[T any](name string) {
	Register(reflect.TypeOf((*T)(nil)).Elem(), name)
}

// Registered returns the override name for a type, if any.
func Registered(t reflect.Type) (string, bool) {
	if name, ok := overrides.Load(t); ok {
		return name.(string), true
	}
	return "", false
}

// Of resolves the canonical name of the type parameter T.
func Of[T any]() string {
	return Resolve(reflect.TypeOf((*T)(nil)).Elem())
}

// Resolve maps a type to its canonical runtime name. Repeated calls for the
// same type within one process always return the same string.
func Resolve(t reflect.Type) string {
	if t == nil {
		return "nil"
	}

	// Overrides win unconditionally, even over built-in rules.
	if name, ok := overrides.Load(t); ok {
		return name.(string)
	}

	// A defined type is not a built-in primitive even when its kind is;
	// without an override it gets the degraded fallback name.
	if t.PkgPath() != "" {
		return fallbackName(t)
	}

	switch t.Kind() {
	case reflect.Bool:
		return "bool"
	case reflect.Int:
		return "int"
	case reflect.Int8:
		return "int8"
	case reflect.Int16:
		return "int16"
	case reflect.Int32:
		return "int32"
	case reflect.Int64:
		return "int64"
	case reflect.Uint:
		return "uint"
	case reflect.Uint8:
		return "uint8"
	case reflect.Uint16:
		return "uint16"
	case reflect.Uint32:
		return "uint32"
	case reflect.Uint64:
		return "uint64"
	case reflect.Float32:
		return "float32"
	case reflect.Float64:
		return "float64"
	case reflect.String:
		return "string"
	case reflect.Pointer:
		return Resolve(t.Elem()) + "*"
	case reflect.Slice:
		return "vector<" + Resolve(t.Elem()) + ">"
	}

	return fallbackName(t)
}

// fallbackName produces a degraded, process-stable identifier for types with
// no override and no built-in rule. It is not stable across runtimes.
func fallbackName(t reflect.Type) string {
	if pkg := t.PkgPath(); pkg != "" {
		return pkg + "." + t.Name()
	}
	return t.String()
}
