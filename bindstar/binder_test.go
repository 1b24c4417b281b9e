package bindstar

import (
	"strings"
	"testing"

	"go.starlark.net/starlark"

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

func exec(t *testing.T, src string) (starlark.StringDict, error) {
	t.Helper()
	reg := newFixtureRegistry()
	b := New(reg)
	if err := mirror.BindAll(reg, b); err != nil {
		t.Fatalf("BindAll failed: %v", err)
	}
	thread := &starlark.Thread{Name: "test"}
	return starlark.ExecFile(thread, "test.star", src, b.Globals())
}

func intGlobal(t *testing.T, globals starlark.StringDict, name string) int64 {
	t.Helper()
	v, ok := globals[name]
	if !ok {
		t.Fatalf("global %s not set", name)
	}
	i, ok := v.(starlark.Int)
	if !ok {
		t.Fatalf("global %s = %v (%s), want int", name, v, v.Type())
	}
	n, _ := i.Int64()
	return n
}

func floatGlobal(t *testing.T, globals starlark.StringDict, name string) float64 {
	t.Helper()
	v, ok := globals[name]
	if !ok {
		t.Fatalf("global %s not set", name)
	}
	f, ok := starlark.AsFloat(v)
	if !ok {
		t.Fatalf("global %s = %v (%s), want float", name, v, v.Type())
	}
	return f
}

func TestCounterScript(t *testing.T) {
	globals, err := exec(t, `
c = Counter()
first = c.count
c.increment()
c.increment()
final = c.count
`)
	if err != nil {
		t.Fatalf("script failed: %v", err)
	}
	if got := intGlobal(t, globals, "first"); got != 0 {
		t.Errorf("first = %d, want 0", got)
	}
	if got := intGlobal(t, globals, "final"); got != 2 {
		t.Errorf("final = %d, want 2", got)
	}
}

func TestConstructorArityDispatch(t *testing.T) {
	globals, err := exec(t, `n = Counter(41).count`)
	if err != nil {
		t.Fatalf("script failed: %v", err)
	}
	if got := intGlobal(t, globals, "n"); got != 41 {
		t.Errorf("n = %d, want 41", got)
	}

	_, err = exec(t, `Counter(1, 2)`)
	if err == nil {
		t.Fatal("constructor with unmatched arity succeeded")
	}
	if !strings.Contains(err.Error(), "arity_mismatch") {
		t.Errorf("error = %v, want arity_mismatch", err)
	}
}

func TestMemberAssignment(t *testing.T) {
	globals, err := exec(t, `
c = Counter()
c.count = 10
result = c.increment()
`)
	if err != nil {
		t.Fatalf("script failed: %v", err)
	}
	if got := intGlobal(t, globals, "result"); got != 11 {
		t.Errorf("result = %d, want 11", got)
	}
}

func TestInstanceArgumentAndResult(t *testing.T) {
	globals, err := exec(t, `
a = Vec(1.0, 2.0)
b = Vec(3.0, 4.0)
d = a.dot(b)
s = a.plus(b).dot(Vec(1.0, 1.0))
`)
	if err != nil {
		t.Fatalf("script failed: %v", err)
	}
	if got := floatGlobal(t, globals, "d"); got != 11 {
		t.Errorf("d = %v, want 11", got)
	}
	if got := floatGlobal(t, globals, "s"); got != 10 {
		t.Errorf("s = %v, want 10", got)
	}
}

func TestIntArgumentWidening(t *testing.T) {
	// Starlark ints flow into float64 parameters.
	globals, err := exec(t, `d = Vec(1, 2).dot(Vec(3, 4))`)
	if err != nil {
		t.Fatalf("script failed: %v", err)
	}
	if got := floatGlobal(t, globals, "d"); got != 11 {
		t.Errorf("d = %v, want 11", got)
	}
}

func TestUnknownAttribute(t *testing.T) {
	_, err := exec(t, `Counter().bump()`)
	if err == nil {
		t.Fatal("unknown method call succeeded")
	}

	_, err = exec(t, `x = Counter().total`)
	if err == nil {
		t.Fatal("unknown member read succeeded")
	}
}

func TestMethodArity(t *testing.T) {
	_, err := exec(t, `Counter().increment(5)`)
	if err == nil {
		t.Fatal("arity miss succeeded")
	}
	if !strings.Contains(err.Error(), "arity_mismatch") {
		t.Errorf("error = %v, want arity_mismatch", err)
	}
}

func TestEnumBinding(t *testing.T) {
	globals, err := exec(t, `v = Phase["Liquid"]`)
	if err != nil {
		t.Fatalf("script failed: %v", err)
	}
	if got := intGlobal(t, globals, "v"); got != 1 {
		t.Errorf("Phase[Liquid] = %d, want 1", got)
	}

	_, err = exec(t, `Phase["Gas"] = 99`)
	if err == nil {
		t.Fatal("write to frozen enum dict succeeded")
	}
}

func TestFunctionBinding(t *testing.T) {
	globals, err := exec(t, `h = hypot2(3.0, 4.0)`)
	if err != nil {
		t.Fatalf("script failed: %v", err)
	}
	if got := floatGlobal(t, globals, "h"); got != 25 {
		t.Errorf("hypot2 = %v, want 25", got)
	}
}

func TestDuplicateBindingRejected(t *testing.T) {
	reg := newFixtureRegistry()
	b := New(reg)

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
