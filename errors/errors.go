package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseResolve  Phase = "resolve"  // type-name resolution
	PhaseRegister Phase = "register" // table/registry population
	PhaseInvoke   Phase = "invoke"   // erased-call execution
	PhaseBind     Phase = "bind"     // host environment binding
	PhaseDump     Phase = "dump"     // structured form generation
)

// Kind categorizes the error
type Kind string

const (
	KindMemberNotFound    Kind = "member_not_found"
	KindMethodNotFound    Kind = "method_not_found"
	KindFunctionNotFound  Kind = "function_not_found"
	KindEnumValueNotFound Kind = "enum_value_not_found"
	KindClassNotFound     Kind = "class_not_found"
	KindArityMismatch     Kind = "arity_mismatch"
	KindTypeMismatch      Kind = "type_mismatch"
	KindDuplicateBinding  Kind = "duplicate_binding"
	KindNilInstance       Kind = "nil_instance"
	KindNotRegistered     Kind = "not_registered"
	KindInvalidInput      Kind = "invalid_input"
	KindUnsupported       Kind = "unsupported"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	Class    string
	Name     string
	TypeName string
	Detail   string
	Path     []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Class != "" || e.Name != "" {
		b.WriteString(": ")
		if e.Class != "" && e.Name != "" {
			b.WriteString(e.Class)
			b.WriteByte('.')
			b.WriteString(e.Name)
		} else if e.Class != "" {
			b.WriteString(e.Class)
		} else {
			b.WriteString(e.Name)
		}
	}

	if e.TypeName != "" {
		b.WriteString(" (type ")
		b.WriteString(e.TypeName)
		b.WriteByte(')')
	}

	if e.Detail != "" {
		if e.Class != "" || e.Name != "" || e.TypeName != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Class sets the class name
func (b *Builder) Class(c string) *Builder {
	b.err.Class = c
	return b
}

// Name sets the member/method/function name
func (b *Builder) Name(n string) *Builder {
	b.err.Name = n
	return b
}

// TypeName sets the resolved type name
func (b *Builder) TypeName(t string) *Builder {
	b.err.TypeName = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// MemberNotFound creates a missing-member error
func MemberNotFound(class, member string) *Error {
	return &Error{
		Phase:  PhaseInvoke,
		Kind:   KindMemberNotFound,
		Class:  class,
		Name:   member,
		Detail: fmt.Sprintf("member %q not found", member),
	}
}

// MethodNotFound creates a missing-method error
func MethodNotFound(class, method string) *Error {
	return &Error{
		Phase:  PhaseInvoke,
		Kind:   KindMethodNotFound,
		Class:  class,
		Name:   method,
		Detail: fmt.Sprintf("method %q not found", method),
	}
}

// FunctionNotFound creates a missing free-function error
func FunctionNotFound(name string) *Error {
	return &Error{
		Phase:  PhaseInvoke,
		Kind:   KindFunctionNotFound,
		Name:   name,
		Detail: fmt.Sprintf("function %q not found", name),
	}
}

// EnumValueNotFound creates a missing enum value error.
// nameOrValue is the name or numeric value that missed.
func EnumValueNotFound(enum string, nameOrValue any) *Error {
	return &Error{
		Phase:  PhaseInvoke,
		Kind:   KindEnumValueNotFound,
		Class:  enum,
		Value:  nameOrValue,
		Detail: fmt.Sprintf("enum value %v not found in %q", nameOrValue, enum),
	}
}

// ClassNotFound creates a missing class error
func ClassNotFound(name string) *Error {
	return &Error{
		Phase:  PhaseInvoke,
		Kind:   KindClassNotFound,
		Class:  name,
		Detail: fmt.Sprintf("class %q not found", name),
	}
}

// ArityMismatch creates an argument-count error. It is raised before any
// argument is unboxed.
func ArityMismatch(phase Phase, class, name string, expected, actual int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindArityMismatch,
		Class:  class,
		Name:   name,
		Value:  actual,
		Detail: fmt.Sprintf("expected %d argument(s), got %d", expected, actual),
	}
}

// TypeMismatch creates a boxed-value type error
func TypeMismatch(phase Phase, path []string, got, want string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindTypeMismatch,
		Path:     path,
		TypeName: want,
		Detail:   fmt.Sprintf("have %s, want %s", got, want),
	}
}

// DuplicateBinding is raised by generators when a class/binding name is
// bound twice into one host environment.
func DuplicateBinding(host, name string) *Error {
	return &Error{
		Phase:  PhaseBind,
		Kind:   KindDuplicateBinding,
		Name:   name,
		Detail: fmt.Sprintf("%q already bound into %s environment", name, host),
	}
}

// NilInstance creates a nil receiver error
func NilInstance(class string) *Error {
	return &Error{
		Phase:  PhaseInvoke,
		Kind:   KindNilInstance,
		Class:  class,
		Detail: "nil instance",
	}
}

// NotRegistered creates an error for types with no reflection table
func NotRegistered(phase Phase, typeName string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindNotRegistered,
		TypeName: typeName,
		Detail:   "no registration callback for type",
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
