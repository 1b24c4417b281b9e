package bindlua

import (
	"strings"
	"testing"

	lua "github.com/yuin/gopher-lua"

	"github.com/mirrorbind/mirror"
	"github.com/mirrorbind/mirror/typeinfo"
)

type counter struct {
	Count int
}

func (c *counter) Increment() int {
	c.Count++
	return c.Count
}

type vec struct {
	X, Y float64
}

func (v *vec) Dot(o *vec) float64 {
	return v.X*o.X + v.Y*o.Y
}

func (v *vec) Plus(o *vec) *vec {
	return &vec{X: v.X + o.X, Y: v.Y + o.Y}
}

type phase int

func newFixtureRegistry() *typeinfo.Registry {
	reg := typeinfo.NewRegistry()
	typeinfo.DescribeIn(reg, "Counter", func(r *typeinfo.Registrar[counter]) {
		typeinfo.Constructor0(r, func() *counter { return &counter{} })
		typeinfo.Constructor1(r, func(n int) *counter { return &counter{Count: n} })
		typeinfo.Field(r, "count", func(c *counter) *int { return &c.Count })
		typeinfo.Method0(r, "increment", (*counter).Increment)
	})
	typeinfo.DescribeIn(reg, "Vec", func(r *typeinfo.Registrar[vec]) {
		typeinfo.Constructor2(r, func(x, y float64) *vec { return &vec{X: x, Y: y} })
		typeinfo.Field(r, "x", func(v *vec) *float64 { return &v.X })
		typeinfo.Field(r, "y", func(v *vec) *float64 { return &v.Y })
		typeinfo.Method1(r, "dot", (*vec).Dot)
		typeinfo.Method1(r, "plus", (*vec).Plus)
	})
	typeinfo.DescribeEnumIn(reg, "Phase", func(r *typeinfo.EnumRegistrar[phase]) {
		r.Value("Solid", 0).Value("Liquid", 1).Value("Gas", 2)
	})
	typeinfo.Func2In(reg, "hypot2", func(a, b float64) float64 { return a*a + b*b })
	return reg
}

func newBoundState(t *testing.T) *lua.LState {
	t.Helper()
	L := lua.NewState()
	t.Cleanup(L.Close)
	reg := newFixtureRegistry()
	if err := mirror.BindAll(reg, New(L, reg)); err != nil {
		t.Fatalf("BindAll failed: %v", err)
	}
	return L
}

func numberGlobal(t *testing.T, L *lua.LState, name string) float64 {
	t.Helper()
	v := L.GetGlobal(name)
	n, ok := v.(lua.LNumber)
	if !ok {
		t.Fatalf("global %s = %v (%s), want number", name, v, v.Type())
	}
	return float64(n)
}

func TestCounterScript(t *testing.T) {
	L := newBoundState(t)

	err := L.DoString(`
		local c = Counter.new()
		first = c.count
		c:increment()
		c:increment()
		final = c.count
	`)
	if err != nil {
		t.Fatalf("script failed: %v", err)
	}
	if got := numberGlobal(t, L, "first"); got != 0 {
		t.Errorf("first = %v, want 0", got)
	}
	if got := numberGlobal(t, L, "final"); got != 2 {
		t.Errorf("final = %v, want 2", got)
	}
}

func TestConstructorArityDispatch(t *testing.T) {
	L := newBoundState(t)

	if err := L.DoString(`c = Counter.new(41).count`); err != nil {
		t.Fatalf("script failed: %v", err)
	}
	if got := numberGlobal(t, L, "c"); got != 41 {
		t.Errorf("count = %v, want 41", got)
	}

	err := L.DoString(`Counter.new(1, 2)`)
	if err == nil {
		t.Fatal("constructor with unmatched arity succeeded")
	}
	if !strings.Contains(err.Error(), "arity_mismatch") {
		t.Errorf("error = %v, want arity_mismatch", err)
	}
}

func TestMemberAssignment(t *testing.T) {
	L := newBoundState(t)

	err := L.DoString(`
		local c = Counter.new()
		c.count = 10
		result = c:increment()
	`)
	if err != nil {
		t.Fatalf("script failed: %v", err)
	}
	if got := numberGlobal(t, L, "result"); got != 11 {
		t.Errorf("result = %v, want 11", got)
	}
}

func TestInstanceArgumentAndResult(t *testing.T) {
	L := newBoundState(t)

	err := L.DoString(`
		local a = Vec.new(1, 2)
		local b = Vec.new(3, 4)
		dotResult = a:dot(b)
		sumDot = a:plus(b):dot(Vec.new(1, 1))
	`)
	if err != nil {
		t.Fatalf("script failed: %v", err)
	}
	if got := numberGlobal(t, L, "dotResult"); got != 11 {
		t.Errorf("dot = %v, want 11", got)
	}
	if got := numberGlobal(t, L, "sumDot"); got != 10 {
		t.Errorf("chained dot = %v, want 10", got)
	}
}

func TestUnknownMemberRaises(t *testing.T) {
	L := newBoundState(t)

	err := L.DoString(`local c = Counter.new(); return c.total`)
	if err == nil {
		t.Fatal("unknown member read succeeded")
	}
	if !strings.Contains(err.Error(), "member_not_found") {
		t.Errorf("error = %v, want member_not_found", err)
	}

	err = L.DoString(`local c = Counter.new(); c.total = 1`)
	if err == nil {
		t.Fatal("unknown member write succeeded")
	}
}

func TestMethodArityRaises(t *testing.T) {
	L := newBoundState(t)

	err := L.DoString(`Counter.new():increment(5)`)
	if err == nil {
		t.Fatal("arity miss succeeded")
	}
	if !strings.Contains(err.Error(), "arity_mismatch") {
		t.Errorf("error = %v, want arity_mismatch", err)
	}
}

func TestEnumBinding(t *testing.T) {
	L := newBoundState(t)

	if err := L.DoString(`v = Phase.Liquid`); err != nil {
		t.Fatalf("script failed: %v", err)
	}
	if got := numberGlobal(t, L, "v"); got != 1 {
		t.Errorf("Phase.Liquid = %v, want 1", got)
	}

	err := L.DoString(`Phase.Gas = 99`)
	if err == nil {
		t.Fatal("enum write succeeded")
	}
	if !strings.Contains(err.Error(), "read-only") {
		t.Errorf("error = %v, want read-only", err)
	}
}

func TestFunctionBinding(t *testing.T) {
	L := newBoundState(t)

	if err := L.DoString(`h = hypot2(3, 4)`); err != nil {
		t.Fatalf("script failed: %v", err)
	}
	if got := numberGlobal(t, L, "h"); got != 25 {
		t.Errorf("hypot2 = %v, want 25", got)
	}
}

func TestDuplicateBindingRejected(t *testing.T) {
	L := lua.NewState()
	t.Cleanup(L.Close)
	reg := newFixtureRegistry()
	b := New(L, reg)

	ti, err := typeinfo.OfIn[counter](reg)
	if err != nil {
		t.Fatalf("OfIn() error = %v", err)
	}
	if err := b.BindClass(ti); err != nil {
		t.Fatalf("first bind failed: %v", err)
	}
	if err := b.BindClass(ti); err == nil {
		t.Fatal("second bind of same name succeeded")
	}
}
