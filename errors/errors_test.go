package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:    PhaseInvoke,
				Kind:     KindTypeMismatch,
				Path:     []string{"args", "0"},
				Class:    "Counter",
				Name:     "increment",
				TypeName: "int",
				Detail:   "cannot convert",
			},
			contains: []string{"[invoke]", "type_mismatch", "args.0", "Counter.increment", "int", "cannot convert"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseRegister,
				Kind:  KindInvalidInput,
			},
			contains: []string{"[register]", "invalid_input"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseBind,
				Kind:   KindDuplicateBinding,
				Detail: "already bound",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[bind]", "duplicate_binding", "already bound", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseInvoke,
		Kind:  KindTypeMismatch,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseInvoke,
		Kind:  KindTypeMismatch,
		Path:  []string{"foo"},
	}

	// Same phase and kind
	if !err.Is(&Error{Phase: PhaseInvoke, Kind: KindTypeMismatch}) {
		t.Error("Is should match same phase and kind")
	}

	// Different phase
	if err.Is(&Error{Phase: PhaseBind, Kind: KindTypeMismatch}) {
		t.Error("Is should not match different phase")
	}

	// Different kind
	if err.Is(&Error{Phase: PhaseInvoke, Kind: KindArityMismatch}) {
		t.Error("Is should not match different kind")
	}

	target := &Error{Phase: PhaseInvoke, Kind: KindTypeMismatch}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseInvoke, KindTypeMismatch).
		Path("args", "1").
		Class("Vector3D").
		Name("scale").
		TypeName("float64").
		Value(42).
		Cause(cause).
		Detail("expected %s, got %s", "float64", "string").
		Build()

	if err.Phase != PhaseInvoke {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseInvoke)
	}
	if err.Kind != KindTypeMismatch {
		t.Errorf("Kind = %v, want %v", err.Kind, KindTypeMismatch)
	}
	if len(err.Path) != 2 || err.Path[0] != "args" || err.Path[1] != "1" {
		t.Errorf("Path = %v, want [args 1]", err.Path)
	}
	if err.Class != "Vector3D" {
		t.Errorf("Class = %v, want 'Vector3D'", err.Class)
	}
	if err.Name != "scale" {
		t.Errorf("Name = %v, want 'scale'", err.Name)
	}
	if err.TypeName != "float64" {
		t.Errorf("TypeName = %v, want 'float64'", err.TypeName)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected float64, got string" {
		t.Errorf("Detail = %v, want 'expected float64, got string'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("MemberNotFound", func(t *testing.T) {
		err := MemberNotFound("Counter", "total")
		if err.Kind != KindMemberNotFound {
			t.Errorf("Kind = %v, want %v", err.Kind, KindMemberNotFound)
		}
		if err.Class != "Counter" || err.Name != "total" {
			t.Errorf("Class=%v Name=%v", err.Class, err.Name)
		}
	})

	t.Run("MethodNotFound", func(t *testing.T) {
		err := MethodNotFound("Counter", "bump")
		if err.Kind != KindMethodNotFound {
			t.Errorf("Kind = %v, want %v", err.Kind, KindMethodNotFound)
		}
		if !strings.Contains(err.Detail, "bump") {
			t.Errorf("Detail = %v, should contain method name", err.Detail)
		}
	})

	t.Run("FunctionNotFound", func(t *testing.T) {
		err := FunctionNotFound("clamp")
		if err.Kind != KindFunctionNotFound {
			t.Errorf("Kind = %v, want %v", err.Kind, KindFunctionNotFound)
		}
	})

	t.Run("EnumValueNotFound by value", func(t *testing.T) {
		err := EnumValueNotFound("Status", int64(99))
		if err.Kind != KindEnumValueNotFound {
			t.Errorf("Kind = %v, want %v", err.Kind, KindEnumValueNotFound)
		}
		if !strings.Contains(err.Detail, "99") {
			t.Errorf("Detail = %v, should contain missed value", err.Detail)
		}
	})

	t.Run("ArityMismatch", func(t *testing.T) {
		err := ArityMismatch(PhaseInvoke, "Counter", "increment", 0, 1)
		if err.Kind != KindArityMismatch {
			t.Errorf("Kind = %v, want %v", err.Kind, KindArityMismatch)
		}
		if !strings.Contains(err.Detail, "expected 0") || !strings.Contains(err.Detail, "got 1") {
			t.Errorf("Detail = %v, should contain expected/actual counts", err.Detail)
		}
		if err.Value != 1 {
			t.Errorf("Value = %v, want 1", err.Value)
		}
	})

	t.Run("TypeMismatch", func(t *testing.T) {
		err := TypeMismatch(PhaseInvoke, []string{"args", "0"}, "string", "int")
		if err.Kind != KindTypeMismatch {
			t.Errorf("Kind = %v, want %v", err.Kind, KindTypeMismatch)
		}
		if err.TypeName != "int" {
			t.Errorf("TypeName = %v, want 'int'", err.TypeName)
		}
	})

	t.Run("DuplicateBinding", func(t *testing.T) {
		err := DuplicateBinding("js", "Counter")
		if err.Kind != KindDuplicateBinding {
			t.Errorf("Kind = %v, want %v", err.Kind, KindDuplicateBinding)
		}
		if err.Phase != PhaseBind {
			t.Errorf("Phase = %v, want %v", err.Phase, PhaseBind)
		}
	})

	t.Run("NilInstance", func(t *testing.T) {
		err := NilInstance("Person")
		if err.Kind != KindNilInstance {
			t.Errorf("Kind = %v, want %v", err.Kind, KindNilInstance)
		}
	})

	t.Run("NotRegistered", func(t *testing.T) {
		err := NotRegistered(PhaseInvoke, "mypkg.Widget")
		if err.Kind != KindNotRegistered {
			t.Errorf("Kind = %v, want %v", err.Kind, KindNotRegistered)
		}
		if err.TypeName != "mypkg.Widget" {
			t.Errorf("TypeName = %v, want 'mypkg.Widget'", err.TypeName)
		}
	})

	t.Run("Unsupported", func(t *testing.T) {
		err := Unsupported(PhaseBind, "non-numeric signature")
		if err.Kind != KindUnsupported {
			t.Errorf("Kind = %v, want %v", err.Kind, KindUnsupported)
		}
	})
}
