package sexp

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/

// Opcodes of the virtual machine which the tree representation itself is
// aware of. Quote marks literal data, Raise is the one operator that is
// never constant-foldable. The full opcode table lives in package vm.
const (
	OpQuote byte = 1
	OpApply byte = 2
	OpFirst byte = 5
	OpRest  byte = 6
	OpCons  byte = 4
	OpRaise byte = 8
)

// First returns the first child of a pair node, or an EvalError if n is
// an atom.
func (a *Arena) First(n Node) (Node, error) {
	if !a.IsPair(n) {
		return Nil, Errorf(n, "first of non-cons")
	}
	return a.Car(n), nil
}

// Rest returns the second child of a pair node, or an EvalError if n is
// an atom.
func (a *Arena) Rest(n Node) (Node, error) {
	if !a.IsPair(n) {
		return Nil, Errorf(n, "rest of non-cons")
	}
	return a.Cdr(n), nil
}

// ProperList walks the cdr spine of n and collects the list elements.
// With strict set, the spine must terminate in the nil atom, otherwise
// ok is false. Without strict, a non-nil terminating atom is simply
// dropped. An atom input yields an empty list (subject to the strict
// terminator check).
func (a *Arena) ProperList(n Node, strict bool) (items []Node, ok bool) {
	items = []Node{}
	for a.IsPair(n) {
		car, cdr := a.Pair(n)
		items = append(items, car)
		n = cdr
	}
	if strict && !a.IsNil(n) {
		return nil, false
	}
	return items, true
}

// Enlist builds a nil-terminated list from the given elements.
func (a *Arena) Enlist(items []Node) Node {
	list := Nil
	for i := len(items) - 1; i >= 0; i-- {
		list = a.NewPair(items[i], list)
	}
	return list
}

// Quote wraps a node in a quote application: n becomes (q . n).
func (a *Arena) Quote(n Node) Node {
	return a.NewPair(a.NewAtom([]byte{OpQuote}), n)
}
