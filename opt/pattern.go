package opt

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"bytes"

	"github.com/npillmayer/redex/sexp"
)

// Capture markers of the template notation.
var atomMarker = []byte("$")
var sexpMarker = []byte(":")

// Bindings maps capture names to the subtrees they matched. Names are
// unique within one match; entry order carries no meaning.
type Bindings map[string]sexp.Node

// Match matches a template tree against a subject tree.
//
// Templates look like this:
//
//	($ . $)  matches the literal "$" atom, binds nothing
//	(: . :)  matches the literal ":" atom, binds nothing
//	($ . A)  matches any atom, binding A to it
//	(: . A)  matches anything, binding A to it
//	(x . y)  matches (p . q) if x matches p and y matches q
//	         under one consistent binding set
//	x        matches y if x == y
//
// known may be nil. On success the returned bindings contain the known
// entries plus all new captures; a name bound twice must bind
// structurally equal subtrees, otherwise the whole match fails. There is
// no backtracking; the first failure aborts the match.
func Match(a *sexp.Arena, pattern, subject sexp.Node, known Bindings) (Bindings, bool) {
	if known == nil {
		known = Bindings{}
	}
	if a.IsAtom(pattern) {
		if a.IsPair(subject) {
			return nil, false
		}
		if bytes.Equal(a.Atom(pattern), a.Atom(subject)) {
			return known, true
		}
		return nil, false
	}
	left, right := a.Pair(pattern)
	if a.IsAtom(left) && a.IsAtom(right) {
		marker := a.Atom(left)
		if bytes.Equal(marker, atomMarker) {
			if a.IsPair(subject) {
				return nil, false
			}
			if bytes.Equal(a.Atom(right), atomMarker) {
				if bytes.Equal(a.Atom(subject), atomMarker) {
					return known, true
				}
				return nil, false
			}
			return unify(a, known, string(a.Atom(right)), subject)
		}
		if bytes.Equal(marker, sexpMarker) {
			if bytes.Equal(a.Atom(right), sexpMarker) {
				if a.IsAtom(subject) && bytes.Equal(a.Atom(subject), sexpMarker) {
					return known, true
				}
				return nil, false
			}
			return unify(a, known, string(a.Atom(right)), subject)
		}
	}
	if !a.IsPair(subject) {
		return nil, false
	}
	scar, scdr := a.Pair(subject)
	next, ok := Match(a, left, scar, known)
	if !ok {
		return nil, false
	}
	return Match(a, right, scdr, next)
}

// unify adds a binding, requiring consistency with an existing one.
func unify(a *sexp.Arena, known Bindings, name string, value sexp.Node) (Bindings, bool) {
	if prev, ok := known[name]; ok {
		if !a.Equal(prev, value) {
			return nil, false
		}
		return known, true
	}
	next := Bindings{}
	for k, v := range known {
		next[k] = v
	}
	next[name] = value
	return next, true
}
