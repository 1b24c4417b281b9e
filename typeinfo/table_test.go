package typeinfo

import (
	"strings"
	"testing"
)

func TestDeclarationOrder(t *testing.T) {
	type Widget struct {
		C, A, B int
	}
	reg := NewRegistry()
	DescribeIn(reg, "Widget", func(r *Registrar[Widget]) {
		Field(r, "c", func(w *Widget) *int { return &w.C })
		Field(r, "a", func(w *Widget) *int { return &w.A })
		Field(r, "b", func(w *Widget) *int { return &w.B })
		Void0(r, "reset", func(w *Widget) { *w = Widget{} })
		Method0(r, "sum", func(w *Widget) int { return w.A + w.B + w.C })
	})

	ti, _ := OfIn[Widget](reg)

	members := ti.MemberNames()
	wantMembers := []string{"c", "a", "b"}
	for i := range wantMembers {
		if members[i] != wantMembers[i] {
			t.Errorf("MemberNames()[%d] = %q, want %q", i, members[i], wantMembers[i])
		}
	}

	methods := ti.MethodNames()
	if len(methods) != 2 || methods[0] != "reset" || methods[1] != "sum" {
		t.Errorf("MethodNames() = %v, want [reset sum]", methods)
	}
}

func TestDuplicateMemberLastWins(t *testing.T) {
	type Pair struct {
		First, Second int
	}
	reg := NewRegistry()
	DescribeIn(reg, "Pair", func(r *Registrar[Pair]) {
		Field(r, "first", func(p *Pair) *int { return &p.First })
		Field(r, "second", func(p *Pair) *int { return &p.Second })
		// Re-registering "first" redirects it to the other field.
		Field(r, "first", func(p *Pair) *int { return &p.Second })
	})

	ti, _ := OfIn[Pair](reg)

	// The replacement keeps the original declaration position.
	names := ti.MemberNames()
	if len(names) != 2 || names[0] != "first" || names[1] != "second" {
		t.Fatalf("MemberNames() = %v", names)
	}

	p := &Pair{First: 1, Second: 2}
	m, _ := ti.Member("first")
	v, err := m.Getter(p)
	if err != nil {
		t.Fatalf("Getter() error = %v", err)
	}
	if n, _ := Unbox[int](v); n != 2 {
		t.Errorf("replaced getter read %d, want 2", n)
	}
}

func TestDuplicateMethodLastWins(t *testing.T) {
	type Gadget struct{}
	reg := NewRegistry()
	DescribeIn(reg, "Gadget", func(r *Registrar[Gadget]) {
		Method0(r, "version", func(*Gadget) int { return 1 })
		Method0(r, "version", func(*Gadget) int { return 2 })
	})

	ti, _ := OfIn[Gadget](reg)
	m, _ := ti.Method("version")
	v, err := m.Invoker(&Gadget{}, nil)
	if err != nil {
		t.Fatalf("Invoker() error = %v", err)
	}
	if n, _ := Unbox[int](v); n != 2 {
		t.Errorf("version = %d, want 2", n)
	}
}

func TestDescribeListing(t *testing.T) {
	reg := newVectorRegistry()
	ti, _ := OfIn[Vector3D](reg)

	out := ti.Describe()
	for _, want := range []string{
		"class Vector3D",
		"float64 x",
		"float64 y",
		"float64 z",
		"float64 dot(Vector3D*)",
		"void scale(float64)",
		"constructor()",
		"constructor(float64, float64, float64)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Describe() missing %q in:\n%s", want, out)
		}
	}
}

func TestConstructorsCopy(t *testing.T) {
	reg := newVectorRegistry()
	ti, _ := OfIn[Vector3D](reg)

	ctors := ti.Constructors()
	if len(ctors) != 2 {
		t.Fatalf("Constructors() returned %d", len(ctors))
	}
	ctors[0] = nil
	if ti.Constructors()[0] == nil {
		t.Error("Constructors() exposed internal slice")
	}
}
