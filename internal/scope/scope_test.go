package scope

import (
	"testing"

	"synthizer/internal/source"
)

func TestDefineVarAssignsStableSlots(t *testing.T) {
	interner := source.NewInterner()
	sc := New()

	x := interner.Intern("x")
	y := interner.Intern("y")

	if slot := sc.DefineVar(x); slot != 0 {
		t.Fatalf("first slot = %d, want 0", slot)
	}
	if slot := sc.DefineVar(y); slot != 1 {
		t.Fatalf("second slot = %d, want 1", slot)
	}
	// Re-declaration keeps the slot.
	if slot := sc.DefineVar(x); slot != 0 {
		t.Fatalf("re-declared slot = %d, want 0", slot)
	}

	if got := sc.VarName(1); got != y {
		t.Fatalf("VarName(1) = %v, want %v", got, y)
	}
	if got := sc.VarName(99); got != source.NoStringID {
		t.Fatalf("VarName out of range = %v, want NoStringID", got)
	}
}

func TestValueBinding(t *testing.T) {
	interner := source.NewInterner()
	sc := New()
	slot := sc.DefineVar(interner.Intern("x"))

	if _, ok := sc.Value(slot); ok {
		t.Fatal("unbound slot reported a value")
	}
	sc.SetValue(slot, 2.5)
	v, ok := sc.Value(slot)
	if !ok || v != 2.5 {
		t.Fatalf("Value = (%g, %t), want (2.5, true)", v, ok)
	}
	// Zero is a real binding, distinct from unset.
	sc.SetValue(slot, 0)
	v, ok = sc.Value(slot)
	if !ok || v != 0 {
		t.Fatalf("Value after zero binding = (%g, %t), want (0, true)", v, ok)
	}
}

func TestCloneIsolatesBindings(t *testing.T) {
	interner := source.NewInterner()
	sc := New()
	slot := sc.DefineVar(interner.Intern("x"))
	sc.SetValue(slot, 1)

	clone := sc.Clone()
	clone.SetValue(slot, 2)
	clone.DefineVar(interner.Intern("y"))

	if v, _ := sc.Value(slot); v != 1 {
		t.Fatalf("original binding = %g, want 1", v)
	}
	if _, ok := sc.VarSlot(interner.Intern("y")); ok {
		t.Fatal("variable declared on the clone leaked into the original")
	}
	if v, _ := clone.Value(slot); v != 2 {
		t.Fatalf("clone binding = %g, want 2", v)
	}
}

type stubFn struct{}

func (stubFn) Params() []source.StringID                          { return nil }
func (stubFn) Default(source.StringID) (float64, bool)            { return 0, false }
func (stubFn) Call(map[source.StringID]float64) (float64, error)  { return 42, nil }

func TestFunctionRegistry(t *testing.T) {
	interner := source.NewInterner()
	sc := New()
	f := interner.Intern("f")

	if _, ok := sc.Func(f); ok {
		t.Fatal("empty scope resolved a function")
	}
	sc.DefineFunc(f, stubFn{})
	if _, ok := sc.Func(f); !ok {
		t.Fatal("registered function not resolved")
	}

	// Clones share the registry contents at clone time but do not
	// propagate later registrations back.
	clone := sc.Clone()
	g := interner.Intern("g")
	clone.DefineFunc(g, stubFn{})
	if _, ok := sc.Func(g); ok {
		t.Fatal("function registered on the clone leaked into the original")
	}
}
