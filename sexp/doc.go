/*
Package sexp provides the expression arena for redex programs.

Programs are binary trees: a node is either an atom (an immutable byte
string) or a pair of two nodes. The arena owns all nodes and hands out
opaque handles. Nodes are immutable once created; rewriting always builds
new nodes. The arena is append-only, which makes sharing handles across
many optimization calls safe without synchronization.

The empty atom is the canonical nil/false value. Atoms are numerically
interpreted where used as opcodes or environment paths.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>


*/
package sexp

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'redex.sexp'.
func tracer() tracing.Trace {
	return tracing.Select("redex.sexp")
}
