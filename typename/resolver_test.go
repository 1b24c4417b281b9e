package typename

import (
	"reflect"
	"testing"
)

type widget struct {
	ID int
}

type gadget struct {
	Label string
}

func TestResolvePrimitives(t *testing.T) {
	tests := []struct {
		want string
		typ  reflect.Type
	}{
		{"bool", reflect.TypeOf(true)},
		{"int", reflect.TypeOf(int(0))},
		{"int8", reflect.TypeOf(int8(0))},
		{"int16", reflect.TypeOf(int16(0))},
		{"int32", reflect.TypeOf(int32(0))},
		{"int64", reflect.TypeOf(int64(0))},
		{"uint", reflect.TypeOf(uint(0))},
		{"uint8", reflect.TypeOf(uint8(0))},
		{"uint16", reflect.TypeOf(uint16(0))},
		{"uint32", reflect.TypeOf(uint32(0))},
		{"uint64", reflect.TypeOf(uint64(0))},
		{"float32", reflect.TypeOf(float32(0))},
		{"float64", reflect.TypeOf(float64(0))},
		{"string", reflect.TypeOf("")},
	}

	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			if got := Resolve(tc.typ); got != tc.want {
				t.Errorf("Resolve(%v) = %q, want %q", tc.typ, got, tc.want)
			}
		})
	}
}

func TestResolveComposition(t *testing.T) {
	RegisterFor[widget]("Widget")

	tests := []struct {
		name string
		want string
		typ  reflect.Type
	}{
		{"pointer to registered", "Widget*", reflect.TypeOf(&widget{})},
		{"slice of primitive", "vector<int>", reflect.TypeOf([]int{})},
		{"slice of float64", "vector<float64>", reflect.TypeOf([]float64{})},
		{"slice of registered", "vector<Widget>", reflect.TypeOf([]widget{})},
		{"slice of pointers", "vector<Widget*>", reflect.TypeOf([]*widget{})},
		{"pointer to slice", "vector<string>*", reflect.TypeOf(&[]string{})},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Resolve(tc.typ); got != tc.want {
				t.Errorf("Resolve = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestResolveOverridePriority(t *testing.T) {
	// An override wins even for a type that matches a built-in rule.
	type money int64
	Register(reflect.TypeOf(money(0)), "Money")

	if got := Resolve(reflect.TypeOf(money(0))); got != "Money" {
		t.Errorf("Resolve = %q, want Money", got)
	}
}

func TestRegisterIdempotent(t *testing.T) {
	Register(reflect.TypeOf(gadget{}), "Gadget")
	// First name wins; conflicting re-registration is ignored.
	Register(reflect.TypeOf(gadget{}), "Doohickey")

	if got := Resolve(reflect.TypeOf(gadget{})); got != "Gadget" {
		t.Errorf("Resolve = %q, want Gadget", got)
	}
}

func TestResolveFallback(t *testing.T) {
	type unregistered struct{ X int }

	got := Resolve(reflect.TypeOf(unregistered{}))
	if got == "" {
		t.Fatal("fallback name must not be empty")
	}
	// The fallback is package-qualified.
	if want := "github.com/mirrorbind/mirror/typename.unregistered"; got != want {
		t.Errorf("Resolve = %q, want %q", got, want)
	}
}

func TestNameStability(t *testing.T) {
	typ := reflect.TypeOf([]*widget{})
	first := Resolve(typ)
	for i := 0; i < 100; i++ {
		if got := Resolve(typ); got != first {
			t.Fatalf("Resolve returned %q after %q", got, first)
		}
	}
}

func TestDefinedTypeIsNotPrimitive(t *testing.T) {
	type status int
	got := Resolve(reflect.TypeOf(status(0)))
	if got == "int" {
		t.Error("defined type must not resolve to the built-in primitive name")
	}
}

func TestOf(t *testing.T) {
	if got := Of[int32](); got != "int32" {
		t.Errorf("Of[int32]() = %q, want int32", got)
	}
	if got := Of[[]string](); got != "vector<string>" {
		t.Errorf("Of[[]string]() = %q, want vector<string>", got)
	}
}
