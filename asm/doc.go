/*
Package asm implements the assembler and disassembler for the textual
S-expression notation of redex programs.

The notation knows lists "(a b c)", dotted pairs "(a . b)", decimal and
hex atoms, double-quoted strings, and bare symbols. Operator keywords
("q", "a", "f", …) assemble to their one-byte opcode atoms. Symbols which
are not keywords assemble to their ASCII bytes; this is how the optimizer's
pattern templates spell their ":" and "$" capture markers.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>


*/
package asm

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'redex.asm'.
func tracer() tracing.Trace {
	return tracing.Select("redex.asm")
}
