package sexp

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"bytes"
)

// Node is an opaque handle to a node owned by an arena. Handles are cheap
// to copy and comparable by identity. The zero handle is the canonical
// nil atom of every arena.
type Node int32

// Nil is the handle of the canonical nil atom.
const Nil Node = 0

// Atom handles are encoded as non-positive numbers, pair handles as
// positive numbers. Clients never rely on this; they go through the
// arena's accessors.
type pairCell struct {
	car, cdr Node
}

// Arena owns expression nodes. It is append-only: nodes are immutable
// once created and are never freed before the arena itself becomes
// unreachable.
type Arena struct {
	atoms [][]byte
	pairs []pairCell
}

// NewArena creates an empty arena, containing just the nil atom.
func NewArena() *Arena {
	a := &Arena{}
	a.atoms = append(a.atoms, []byte{})
	return a
}

// NewAtom creates an atom node holding the given bytes. The bytes are
// copied; callers keep ownership of data.
func (a *Arena) NewAtom(data []byte) Node {
	if len(data) == 0 {
		return Nil
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	a.atoms = append(a.atoms, buf)
	return Node(-(len(a.atoms) - 1))
}

// NewPair creates a pair node from two existing nodes.
func (a *Arena) NewPair(car, cdr Node) Node {
	a.pairs = append(a.pairs, pairCell{car: car, cdr: cdr})
	return Node(len(a.pairs))
}

// IsPair returns true iff n is a pair node.
func (a *Arena) IsPair(n Node) bool {
	return n > 0
}

// IsAtom returns true iff n is an atom node.
func (a *Arena) IsAtom(n Node) bool {
	return n <= 0
}

// Atom returns the byte string of an atom node. For pair nodes it returns
// nil; callers are expected to check IsAtom first.
func (a *Arena) Atom(n Node) []byte {
	if n > 0 {
		return nil
	}
	return a.atoms[-n]
}

// Pair returns the two children of a pair node. For atom nodes it returns
// (Nil, Nil); callers are expected to check IsPair first.
func (a *Arena) Pair(n Node) (Node, Node) {
	if n <= 0 {
		return Nil, Nil
	}
	cell := a.pairs[n-1]
	return cell.car, cell.cdr
}

// Car returns the first child of a pair node.
func (a *Arena) Car(n Node) Node {
	car, _ := a.Pair(n)
	return car
}

// Cdr returns the second child of a pair node.
func (a *Arena) Cdr(n Node) Node {
	_, cdr := a.Pair(n)
	return cdr
}

// IsNil returns true iff n is the nil atom (the empty byte string).
func (a *Arena) IsNil(n Node) bool {
	return a.IsAtom(n) && len(a.Atom(n)) == 0
}

// NonNil returns true iff n is a pair or a non-empty atom.
func (a *Arena) NonNil(n Node) bool {
	return !a.IsNil(n)
}

// IsOpcode returns true iff n is a one-byte atom with the given value.
func (a *Arena) IsOpcode(n Node, op byte) bool {
	if !a.IsAtom(n) {
		return false
	}
	data := a.Atom(n)
	return len(data) == 1 && data[0] == op
}

// Equal compares two nodes by deep structural equality: equal atoms have
// identical bytes, equal pairs have (recursively) equal children.
func (a *Arena) Equal(x, y Node) bool {
	if x == y {
		return true
	}
	// iterative on the cdr spine, recursive on cars
	for {
		xp, yp := a.IsPair(x), a.IsPair(y)
		if xp != yp {
			return false
		}
		if !xp {
			return bytes.Equal(a.Atom(x), a.Atom(y))
		}
		xcar, xcdr := a.Pair(x)
		ycar, ycdr := a.Pair(y)
		if !a.Equal(xcar, ycar) {
			return false
		}
		x, y = xcdr, ycdr
	}
}
