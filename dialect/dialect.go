/*
Package dialect detects which language dialect a source program speaks.

Programs opt into a dialect by carrying an include form naming it, e.g.

	(include *standard-cl-21*)

anywhere in their top-level list structure. Detect walks the program and
reports the first such marker. Each known dialect additionally carries
replacement content for the include, used by front ends that expand
dialect includes in place.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package dialect

import (
	"sync"

	"github.com/npillmayer/redex/sexp"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'redex.dialect'.
func tracer() tracing.Trace {
	return tracing.Select("redex.dialect")
}

// Accepted describes the dialect a program was accepted as. A Stepping of
// 0 means no dialect marker was found and the program speaks the classic
// language.
type Accepted struct {
	Stepping int
}

// Modern returns true if a dialect marker was found.
func (acc Accepted) Modern() bool {
	return acc.Stepping > 0
}

// Description bundles the acceptance flags of a dialect with the content
// to insert where its include appears.
type Description struct {
	Accepted Accepted
	Content  string
}

var knownDialects map[string]Description
var dialectsOnce sync.Once

func initDialects() {
	knownDialects = map[string]Description{
		"*standard-cl-21*": {
			Accepted: Accepted{Stepping: 21},
			Content:  "(\n  (defconstant *language-version* 21)\n)",
		},
		"*standard-cl-22*": {
			Accepted: Accepted{Stepping: 22},
			Content:  "(\n  (defconstant *language-version* 22)\n)",
		},
	}
}

// Known returns the description of a dialect by its include name.
func Known(name string) (Description, bool) {
	dialectsOnce.Do(initDialects)
	d, ok := knownDialects[name]
	return d, ok
}

// includeDialect checks a 2-element list for the shape
// ("include" <known dialect name>).
func includeDialect(a *sexp.Arena, elems []sexp.Node) (Accepted, bool) {
	if !a.IsAtom(elems[0]) || !a.IsAtom(elems[1]) {
		return Accepted{}, false
	}
	if string(a.Atom(elems[0])) != "include" {
		return Accepted{}, false
	}
	if d, ok := Known(string(a.Atom(elems[1]))); ok {
		return d.Accepted, true
	}
	return Accepted{}, false
}

// Detect walks a program and returns the dialect of the first include
// marker found, searching depth-first through proper list structure.
// Programs without a marker yield the zero Accepted.
func Detect(a *sexp.Arena, program sexp.Node) Accepted {
	var result Accepted
	elems, ok := a.ProperList(program, true)
	if !ok {
		return result
	}
	for _, elt := range elems {
		if sub := Detect(a, elt); sub.Modern() {
			result = sub
			break
		}
		pair, ok := a.ProperList(elt, true)
		if !ok || len(pair) != 2 {
			continue
		}
		if acc, ok := includeDialect(a, pair); ok {
			tracer().Debugf("dialect marker found: stepping %d", acc.Stepping)
			result = acc
			break
		}
	}
	return result
}
