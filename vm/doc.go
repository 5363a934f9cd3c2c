/*
Package vm implements the redex evaluator.

Evaluation is organized as a small-step machine over explicit states:
an expression about to be evaluated, an operator waiting for operand
values, a value travelling back to its continuation, and a terminal
result. A driver loops the machine to completion; the stepwise states are
also consumed directly by package dbg for interactive tracing.

Semantics: an atom is a path into the argument environment (bit-encoded,
low bit first); (q . x) yields x unevaluated; any other pair evaluates its
operand list left to right and applies the operator. Every reduction
carries a cost, and a run may be bounded by a cost limit.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>


*/
package vm

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'redex.vm'.
func tracer() tracing.Trace {
	return tracing.Select("redex.vm")
}
