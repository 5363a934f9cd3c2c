package dbg

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"crypto/sha256"

	"github.com/npillmayer/redex/sexp"
)

// TreeHash computes the canonical hash of a tree: atoms hash as
// sha256(1 ‖ bytes), pairs as sha256(2 ‖ hash(left) ‖ hash(right)).
// Structurally equal trees hash equally, which makes the hash usable as
// a function identity across program copies.
func TreeHash(a *sexp.Arena, n sexp.Node) []byte {
	h := sha256.New()
	if a.IsAtom(n) {
		h.Write([]byte{1})
		h.Write(a.Atom(n))
		return h.Sum(nil)
	}
	car, cdr := a.Pair(n)
	h.Write([]byte{2})
	h.Write(TreeHash(a, car))
	h.Write(TreeHash(a, cdr))
	return h.Sum(nil)
}
