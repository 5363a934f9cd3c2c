package asm

import (
	"bytes"
	"testing"

	"github.com/npillmayer/redex/sexp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestAssembleAtoms(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "redex.asm")
	defer teardown()
	//
	a := sexp.NewArena()
	cases := []struct {
		src  string
		blob []byte
	}{
		{"0", []byte{}},
		{"()", nil}, // empty list is the nil atom
		{"1", []byte{0x01}},
		{"-1", []byte{0xff}},
		{"128", []byte{0x00, 0x80}},
		{"0x80", []byte{0x80}},
		{"0xdeadbeef", []byte{0xde, 0xad, 0xbe, 0xef}},
		{"0x1", []byte{0x01}}, // odd digit count is left-padded
		{`"opt"`, []byte("opt")},
		{"q", []byte{0x01}},
		{"sha256", []byte{0x0b}},
		{"@", []byte{0x01}},
		{"foo", []byte("foo")},
	}
	for _, c := range cases {
		n, err := Assemble(a, c.src)
		if err != nil {
			t.Fatalf("assembling %q failed: %v", c.src, err)
		}
		if !a.IsAtom(n) {
			t.Errorf("%q should assemble to an atom", c.src)
			continue
		}
		if !bytes.Equal(a.Atom(n), c.blob) {
			t.Errorf("%q assembled to % x, expected % x", c.src, a.Atom(n), c.blob)
		}
	}
}

func TestAssembleLists(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "redex.asm")
	defer teardown()
	//
	a := sexp.NewArena()
	n, err := Assemble(a, "(+ (q . 2) (q . 5))")
	if err != nil {
		t.Fatalf("assembling failed: %v", err)
	}
	items, ok := a.ProperList(n, true)
	if !ok || len(items) != 3 {
		t.Fatalf("expected a 3-element list")
	}
	if !a.IsOpcode(items[0], 16) {
		t.Errorf("head should be the + opcode")
	}
	if !a.IsPair(items[1]) || !a.IsOpcode(a.Car(items[1]), 1) {
		t.Errorf("operands should be quote applications")
	}
}

func TestAssembleDotted(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "redex.asm")
	defer teardown()
	//
	a := sexp.NewArena()
	n, err := Assemble(a, "(1 . 2)")
	if err != nil {
		t.Fatalf("assembling failed: %v", err)
	}
	if !a.IsPair(n) {
		t.Fatalf("expected a pair")
	}
	if a.Number(a.Car(n)).Int64() != 1 || a.Number(a.Cdr(n)).Int64() != 2 {
		t.Errorf("dotted pair mangled")
	}
}

func TestAssembleErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "redex.asm")
	defer teardown()
	//
	a := sexp.NewArena()
	for _, src := range []string{"", "(", ")", "(1 . 2", "(1 . )"} {
		if _, err := Assemble(a, src); err == nil {
			t.Errorf("assembling %q should fail", src)
		}
	}
}

func TestAssembleComments(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "redex.asm")
	defer teardown()
	//
	a := sexp.NewArena()
	n, err := Assemble(a, "(1 ; a comment\n 2)")
	if err != nil {
		t.Fatalf("assembling failed: %v", err)
	}
	if items, ok := a.ProperList(n, true); !ok || len(items) != 2 {
		t.Errorf("comment not skipped")
	}
}

func TestDisassemble(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "redex.asm")
	defer teardown()
	//
	a := sexp.NewArena()
	cases := []struct {
		src      string
		expected string
	}{
		{"()", "()"},
		{"1", "1"},
		{"-1", "-1"},
		{"(q . 3)", "(q . 3)"},
		{"(q)", "(q)"},
		{`(q . "opt")`, `(q . "opt")`},
		{"(c (q . 1) 2)", "(c (q . 1) 2)"},
		{`(a (q 1 . "opt") 1)`, `(a (q 1 . "opt") 1)`},
		{`(q 29041 ("unquote" ("macros")))`, `(q 29041 ("unquote" ("macros")))`},
		{"(+ 2 5)", "(+ 2 5)"},
		{"(f (c 2 3))", "(f (c 2 3))"},
		{"0xdeadbeef", "0xdeadbeef"},
		{"(1 . 2)", "(q . 2)"}, // head position renders opcode 1 as q
		{"(2 3 4)", "(a 3 4)"},
	}
	for _, c := range cases {
		n, err := Assemble(a, c.src)
		if err != nil {
			t.Fatalf("assembling %q failed: %v", c.src, err)
		}
		if s := Disassemble(a, n); s != c.expected {
			t.Errorf("%q disassembled to %q, expected %q", c.src, s, c.expected)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "redex.asm")
	defer teardown()
	//
	a := sexp.NewArena()
	sources := []string{
		"(a (q . (: . sexp)) (: . args))",
		"(c (: . first) (: . rest))",
		"(f ($ . atom))",
		"(i (f 1) (q . 7) (q . 11))",
	}
	for _, src := range sources {
		n, err := Assemble(a, src)
		if err != nil {
			t.Fatalf("assembling %q failed: %v", src, err)
		}
		back, err := Assemble(a, Disassemble(a, n))
		if err != nil {
			t.Fatalf("re-assembling %q failed: %v", Disassemble(a, n), err)
		}
		if !a.Equal(n, back) {
			t.Errorf("%q does not survive a round trip (got %q)", src, Disassemble(a, back))
		}
	}
}
