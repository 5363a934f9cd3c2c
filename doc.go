/*
Package redex is a small Lisp-like bytecode toolkit.

Programs are binary trees of atoms and pairs ("S-expressions"), evaluated
by an apply/quote virtual machine. Package structure is as follows:

■ sexp: Package sexp owns the expression arena. It hands out opaque node
handles and provides atom/pair construction, structural decomposition and
deep structural equality.

■ asm: Package asm implements the human-readable assembler and
disassembler for the S-expression notation, including the pattern-template
notation used by the optimizer.

■ vm: Package vm implements the evaluator, a small-step machine with cost
accounting.

■ opt: Package opt implements the peephole optimizer, a fixed-point
rewrite system over compiled programs.

■ dbg: Package dbg implements a stepwise program debugger on top of the
vm machine states.

■ dialect: Package dialect detects source dialect pragmas in parsed
program trees.

The base package contains data types which are used throughout all the
other packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package redex
