package typeinfo

import (
	"reflect"
	"testing"

	"github.com/mirrorbind/mirror/errors"
)

func TestBoxKinds(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want Kind
	}{
		{"nil", Nil(), KindNil},
		{"bool", Box(true), KindBool},
		{"int", Box(42), KindInt},
		{"int64", Box(int64(-7)), KindInt},
		{"uint", Box(uint32(9)), KindUint},
		{"float", Box(3.5), KindFloat},
		{"string", Box("hi"), KindString},
		{"slice", Box([]int{1, 2}), KindList},
		{"struct ptr", Box(&struct{ X int }{1}), KindObject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Kind(); got != tt.want {
				t.Errorf("Kind() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnboxRoundTrip(t *testing.T) {
	v := Box(42)
	got, err := Unbox[int](v)
	if err != nil {
		t.Fatalf("Unbox() error = %v", err)
	}
	if got != 42 {
		t.Errorf("Unbox() = %d, want 42", got)
	}

	s := Box("widget")
	gotS, err := Unbox[string](s)
	if err != nil {
		t.Fatalf("Unbox() error = %v", err)
	}
	if gotS != "widget" {
		t.Errorf("Unbox() = %q, want %q", gotS, "widget")
	}
}

func TestUnboxStrict(t *testing.T) {
	// int boxed, float requested: no implicit conversion on the core path.
	v := Box(42)
	_, err := Unbox[float64](v)
	if err == nil {
		t.Fatal("expected type mismatch error")
	}
	me, ok := err.(*errors.Error)
	if !ok {
		t.Fatalf("expected *errors.Error, got %T", err)
	}
	if me.Kind != errors.KindTypeMismatch {
		t.Errorf("Kind = %v, want %v", me.Kind, errors.KindTypeMismatch)
	}
}

func TestUnboxNil(t *testing.T) {
	_, err := Unbox[int](Nil())
	if err == nil {
		t.Fatal("expected error unboxing nil box")
	}
}

func TestValueIsNil(t *testing.T) {
	if !Nil().IsNil() {
		t.Error("Nil().IsNil() = false")
	}
	if Box(0).IsNil() {
		t.Error("Box(0).IsNil() = true")
	}
	if !BoxAny(nil).IsNil() {
		t.Error("BoxAny(nil).IsNil() = false")
	}
}

func TestValueTypeName(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"nil", Nil(), "nil"},
		{"int", Box(1), "int"},
		{"string", Box("x"), "string"},
		{"vector", Box([]float64{1}), "vector<float64>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.TypeName(); got != tt.want {
				t.Errorf("TypeName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConvertNumeric(t *testing.T) {
	v := Box(42)
	out, err := v.Convert(reflect.TypeOf(float64(0)))
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	f, err := Unbox[float64](out)
	if err != nil {
		t.Fatalf("Unbox() error = %v", err)
	}
	if f != 42.0 {
		t.Errorf("converted = %v, want 42.0", f)
	}
}

func TestConvertRejectsCrossKind(t *testing.T) {
	// string converts to []byte in reflect terms, but kinds differ.
	_, err := Box("abc").Convert(reflect.TypeOf([]byte(nil)))
	if err == nil {
		t.Fatal("expected cross-kind conversion to fail")
	}

	_, err = Box(1).Convert(reflect.TypeOf(""))
	if err == nil {
		t.Fatal("expected int->string conversion to fail")
	}
}

func TestConvertIdentity(t *testing.T) {
	v := Box(7)
	out, err := v.Convert(reflect.TypeOf(0))
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if out.Interface() != 7 {
		t.Errorf("identity conversion changed value: %v", out.Interface())
	}
}

func TestKindString(t *testing.T) {
	if KindFloat.String() != "float" {
		t.Errorf("KindFloat.String() = %q", KindFloat.String())
	}
	if Kind(200).String() != "unknown" {
		t.Errorf("out-of-range Kind.String() = %q", Kind(200).String())
	}
}
