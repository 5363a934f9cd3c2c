/*
Package opt implements the redex peephole optimizer.

Given a compiled program tree R, the optimizer produces a tree R' such
that for every argument environment E, (a R E) and (a R' E) either both
fail or both yield structurally equal results. It is a purely local,
syntax-directed rewrite system: a fixed sequence of rules is applied to
the tree until none of them produces a change.

The rules are built on a small pattern-matching language over tree
templates, a bit-string addressing scheme for environment sub-trees, and
a constant-folding sub-evaluator which calls out to the vm package.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>


*/
package opt

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'redex.opt'.
func tracer() tracing.Trace {
	return tracing.Select("redex.opt")
}
