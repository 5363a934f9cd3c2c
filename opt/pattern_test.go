package opt

import (
	"testing"

	"github.com/npillmayer/redex/asm"
	"github.com/npillmayer/redex/sexp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func mustAssemble(t *testing.T, a *sexp.Arena, src string) sexp.Node {
	t.Helper()
	n, err := asm.Assemble(a, src)
	if err != nil {
		t.Fatalf("cannot assemble %q: %v", src, err)
	}
	return n
}

func TestMatchLiteral(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "redex.opt")
	defer teardown()
	//
	a := sexp.NewArena()
	pattern := mustAssemble(t, a, "(q . 3)")
	if _, ok := Match(a, pattern, mustAssemble(t, a, "(q . 3)"), nil); !ok {
		t.Errorf("identical trees should match")
	}
	if _, ok := Match(a, pattern, mustAssemble(t, a, "(q . 4)"), nil); ok {
		t.Errorf("differing atoms should not match")
	}
	if _, ok := Match(a, pattern, mustAssemble(t, a, "5"), nil); ok {
		t.Errorf("a pair pattern should not match an atom")
	}
}

func TestMatchCaptures(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "redex.opt")
	defer teardown()
	//
	a := sexp.NewArena()
	pattern := mustAssemble(t, a, "(c (: . first) (: . rest))")
	m, ok := Match(a, pattern, mustAssemble(t, a, "(c (+ 2 3) 11)"), nil)
	if !ok {
		t.Fatalf("expected a match")
	}
	if !a.IsPair(m["first"]) || !a.IsAtom(m["rest"]) {
		t.Errorf("captures bound to wrong subtrees")
	}
	if asm.Disassemble(a, m["first"]) != "(+ 2 3)" {
		t.Errorf("first bound to %s", asm.Disassemble(a, m["first"]))
	}
}

func TestMatchAtomCapture(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "redex.opt")
	defer teardown()
	//
	a := sexp.NewArena()
	pattern := mustAssemble(t, a, "(f ($ . atom))")
	if _, ok := Match(a, pattern, mustAssemble(t, a, "(f 2)"), nil); !ok {
		t.Errorf("atom capture should accept an atom")
	}
	// $ captures atoms only
	if _, ok := Match(a, pattern, mustAssemble(t, a, "(f (c 2 3))"), nil); ok {
		t.Errorf("atom capture must reject a pair")
	}
}

func TestMatchConsistentRebinding(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "redex.opt")
	defer teardown()
	//
	a := sexp.NewArena()
	pattern := mustAssemble(t, a, "(c (: . x) (: . x))")
	if _, ok := Match(a, pattern, mustAssemble(t, a, "(c (+ 2 3) (+ 2 3))"), nil); !ok {
		t.Errorf("equal subtrees should rebind consistently")
	}
	if _, ok := Match(a, pattern, mustAssemble(t, a, "(c (+ 2 3) (+ 2 4))"), nil); ok {
		t.Errorf("unequal subtrees must fail the rebinding")
	}
}

func TestMatchMarkerLiterals(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "redex.opt")
	defer teardown()
	//
	a := sexp.NewArena()
	// ($ . $) matches exactly the "$" atom
	pattern := a.NewPair(a.NewAtom([]byte("$")), a.NewAtom([]byte("$")))
	if _, ok := Match(a, pattern, a.NewAtom([]byte("$")), nil); !ok {
		t.Errorf("($ . $) should match the literal marker atom")
	}
	if _, ok := Match(a, pattern, a.NewAtom([]byte("x")), nil); ok {
		t.Errorf("($ . $) must not match other atoms")
	}
	pattern = a.NewPair(a.NewAtom([]byte(":")), a.NewAtom([]byte(":")))
	if _, ok := Match(a, pattern, a.NewAtom([]byte(":")), nil); !ok {
		t.Errorf("(: . :) should match the literal marker atom")
	}
}

func TestMatchKnownBindings(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "redex.opt")
	defer teardown()
	//
	a := sexp.NewArena()
	pattern := mustAssemble(t, a, "(: . x)")
	known := Bindings{"x": a.NewInt(7)}
	if _, ok := Match(a, pattern, a.NewInt(7), known); !ok {
		t.Errorf("capture should accept a value equal to the known binding")
	}
	if _, ok := Match(a, pattern, a.NewInt(8), known); ok {
		t.Errorf("capture must reject a value conflicting with the known binding")
	}
	// the caller's map is not mutated
	m, ok := Match(a, mustAssemble(t, a, "(: . y)"), a.NewInt(9), known)
	if !ok || len(known) != 1 {
		t.Errorf("known bindings were mutated")
	}
	if _, found := m["y"]; !found {
		t.Errorf("new binding missing from the result")
	}
}
