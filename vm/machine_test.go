package vm

import (
	"strings"
	"testing"

	"github.com/npillmayer/redex"
	"github.com/npillmayer/redex/asm"
	"github.com/npillmayer/redex/sexp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// evaluate assembles program and env and runs the program to completion.
func evaluate(t *testing.T, a *sexp.Arena, program, env string) (sexp.Node, error) {
	t.Helper()
	p, err := asm.Assemble(a, program)
	if err != nil {
		t.Fatalf("cannot assemble %q: %v", program, err)
	}
	e := sexp.Nil
	if env != "" {
		if e, err = asm.Assemble(a, env); err != nil {
			t.Fatalf("cannot assemble %q: %v", env, err)
		}
	}
	_, value, err := NewRunner().RunProgram(a, p, e, redex.NoCostLimit)
	return value, err
}

func expectValue(t *testing.T, a *sexp.Arena, program, env, expected string) {
	t.Helper()
	value, err := evaluate(t, a, program, env)
	if err != nil {
		t.Errorf("%q failed: %v", program, err)
		return
	}
	if s := asm.Disassemble(a, value); s != expected {
		t.Errorf("%q evaluated to %s, expected %s", program, s, expected)
	}
}

func TestPathTraversal(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "redex.vm")
	defer teardown()
	//
	a := sexp.NewArena()
	expectValue(t, a, "1", "(7 . 11)", "(7 . 11)")
	expectValue(t, a, "2", "(7 . 11)", "7")
	expectValue(t, a, "3", "(7 . 11)", "11")
	expectValue(t, a, "5", "((7 . 11) . (13 . 17))", "13")
	expectValue(t, a, "0", "(7 . 11)", "()")
	// a path into an atom fails
	if _, err := evaluate(t, a, "4", "(7 . 11)"); err == nil {
		t.Errorf("path into an atom should fail")
	}
}

func TestQuote(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "redex.vm")
	defer teardown()
	//
	a := sexp.NewArena()
	expectValue(t, a, "(q . 7)", "", "7")
	expectValue(t, a, "(q 1 2 3)", "", "(q 2 3)")
	expectValue(t, a, "(q . (+ 1 2))", "", "(+ 1 2)")
}

func TestApplyAndIf(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "redex.vm")
	defer teardown()
	//
	a := sexp.NewArena()
	expectValue(t, a, "(a (q . (+ 2 3)) (q . (7 . 11)))", "", "18")
	expectValue(t, a, "(i (q . 1) (q . 7) (q . 11))", "", "7")
	expectValue(t, a, "(i (q . ()) (q . 7) (q . 11))", "", "11")
	// both branches are evaluated before i selects; x in the selected
	// branch raises
	if _, err := evaluate(t, a, "(i (q . 1) (x) (q . 11))", ""); err == nil {
		t.Errorf("expected raise to abort the run")
	}
}

func TestListPrimitives(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "redex.vm")
	defer teardown()
	//
	a := sexp.NewArena()
	expectValue(t, a, "(c (q . 1) (q . (2 3)))", "", "(q 2 3)")
	expectValue(t, a, "(f (q . (7 11)))", "", "7")
	expectValue(t, a, "(r (q . (7 11)))", "", "(11)")
	expectValue(t, a, "(l (q . (7)))", "", "1")
	expectValue(t, a, "(l (q . 7))", "", "()")
	if _, err := evaluate(t, a, "(f (q . 7))", ""); err == nil {
		t.Errorf("first of an atom should fail")
	}
}

func TestArithmetic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "redex.vm")
	defer teardown()
	//
	a := sexp.NewArena()
	expectValue(t, a, "(+ (q . 2) (q . 5))", "", "7")
	expectValue(t, a, "(+)", "", "()")
	expectValue(t, a, "(- (q . 2) (q . 5))", "", "-3")
	expectValue(t, a, "(* (q . 3) (q . 4) (q . 5))", "", "60")
	expectValue(t, a, "(div (q . 7) (q . 2))", "", "3")
	expectValue(t, a, "(div (q . -7) (q . 2))", "", "-4") // floored
	expectValue(t, a, "(div (q . 7) (q . -2))", "", "-4")
	if _, err := evaluate(t, a, "(div (q . 7) (q . 0))", ""); err == nil {
		t.Errorf("division by zero should fail")
	}
}

func TestComparisons(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "redex.vm")
	defer teardown()
	//
	a := sexp.NewArena()
	expectValue(t, a, "(= (q . 7) (q . 7))", "", "1")
	expectValue(t, a, "(= (q . 7) (q . 8))", "", "()")
	expectValue(t, a, "(> (q . 8) (q . 7))", "", "1")
	expectValue(t, a, "(> (q . -1) (q . 0))", "", "()") // signed comparison
	expectValue(t, a, "(not (q . ()))", "", "1")
	expectValue(t, a, "(any (q . ()) (q . 1))", "", "1")
	expectValue(t, a, "(all (q . 1) (q . ()))", "", "()")
}

func TestStrings(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "redex.vm")
	defer teardown()
	//
	a := sexp.NewArena()
	expectValue(t, a, `(strlen (q . "hello"))`, "", "5")
	expectValue(t, a, `(concat (q . "he") (q . "llo"))`, "", `"hello"`)
	value, err := evaluate(t, a, `(sha256 (q . "hello"))`, "")
	if err != nil {
		t.Fatalf("sha256 failed: %v", err)
	}
	if len(a.Atom(value)) != 32 {
		t.Errorf("sha256 should yield 32 bytes, got %d", len(a.Atom(value)))
	}
}

func TestRaise(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "redex.vm")
	defer teardown()
	//
	a := sexp.NewArena()
	_, err := evaluate(t, a, "(x (q . 7))", "")
	if err == nil {
		t.Fatalf("x should abort the run")
	}
	if !strings.Contains(err.Error(), "raise") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestPairOperator(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "redex.vm")
	defer teardown()
	//
	a := sexp.NewArena()
	// the operator position may itself be an expression yielding an opcode
	expectValue(t, a, "((q . 4) (q . 7) (q . 11))", "", "(7 . 11)")
	if _, err := evaluate(t, a, "((q . (1 2)) (q . 7))", ""); err == nil {
		t.Errorf("operator expression must yield a one-byte opcode")
	}
}

func TestCostLimit(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "redex.vm")
	defer teardown()
	//
	a := sexp.NewArena()
	p, err := asm.Assemble(a, "(+ (q . 1) (q . 2) (q . 3) (q . 4))")
	if err != nil {
		t.Fatalf("cannot assemble: %v", err)
	}
	cost, _, err := NewRunner().RunProgram(a, p, sexp.Nil, redex.NoCostLimit)
	if err != nil {
		t.Fatalf("unbounded run failed: %v", err)
	}
	if cost == 0 {
		t.Fatalf("expected a positive cost")
	}
	if _, _, err := NewRunner().RunProgram(a, p, sexp.Nil, cost-1); err == nil {
		t.Errorf("expected the cost limit to abort the run")
	}
}

func TestCustomOperator(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "redex.vm")
	defer teardown()
	//
	a := sexp.NewArena()
	runner := NewRunner()
	runner.DefineOperator([]byte("twice"), opHandlerFunc(func(a *sexp.Arena, op, args sexp.Node, maxCost redex.Cost) (Reduction, error) {
		first, err := a.First(args)
		if err != nil {
			return Reduction{}, err
		}
		return Reduction{Cost: 1, Node: a.NewPair(first, first)}, nil
	}))
	p, err := asm.Assemble(a, `("twice" (q . 7))`)
	if err != nil {
		t.Fatalf("cannot assemble: %v", err)
	}
	_, value, err := runner.RunProgram(a, p, sexp.Nil, redex.NoCostLimit)
	if err != nil {
		t.Fatalf("custom operator failed: %v", err)
	}
	if s := asm.Disassemble(a, value); s != "(7 . 7)" {
		t.Errorf("custom operator yielded %s", s)
	}
}

// opHandlerFunc adapts a function to the OperatorHandler interface.
type opHandlerFunc func(a *sexp.Arena, op, args sexp.Node, maxCost redex.Cost) (Reduction, error)

func (f opHandlerFunc) Op(a *sexp.Arena, op, args sexp.Node, maxCost redex.Cost) (Reduction, error) {
	return f(a, op, args, maxCost)
}
