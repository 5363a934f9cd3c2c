package asm

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"encoding/hex"
	"strings"

	"github.com/npillmayer/redex/sexp"
)

// Keyword-allowance while walking a tree: the head position of a list
// may render one-byte atoms as operator keywords, other positions may not.
const (
	kwUnknown = iota - 1
	kwDeny
	kwAllow
)

// Disassemble renders a tree in the textual notation. The result
// re-assembles to a structurally equal tree. Disassembly is used for
// diagnostics (optimizer rewrite traces) and by the CLI; it never affects
// control flow.
func Disassemble(a *sexp.Arena, n sexp.Node) string {
	var sb strings.Builder
	writeNode(&sb, a, n, kwUnknown)
	return sb.String()
}

func writeNode(sb *strings.Builder, a *sexp.Arena, n sexp.Node, allow int) {
	if a.IsAtom(n) {
		writeAtom(sb, a, n, allow == kwAllow)
		return
	}
	car, cdr := a.Pair(n)
	ak := allow
	if a.IsPair(car) || ak == kwUnknown {
		ak = kwAllow
	}
	sb.WriteByte('(')
	writeNode(sb, a, car, ak)
	writeTail(sb, a, cdr)
	sb.WriteByte(')')
}

func writeTail(sb *strings.Builder, a *sexp.Arena, n sexp.Node) {
	for a.IsPair(n) {
		car, cdr := a.Pair(n)
		sb.WriteByte(' ')
		ak := kwDeny
		if a.IsPair(car) {
			ak = kwAllow
		}
		writeNode(sb, a, car, ak)
		n = cdr
	}
	if !a.IsNil(n) {
		sb.WriteString(" . ")
		writeAtom(sb, a, n, false)
	}
}

func writeAtom(sb *strings.Builder, a *sexp.Arena, n sexp.Node, allowKeyword bool) {
	data := a.Atom(n)
	if allowKeyword && len(data) == 1 {
		if name, ok := opcodeNames[data[0]]; ok {
			sb.WriteString(name)
			return
		}
	}
	switch {
	case len(data) == 0:
		sb.WriteString("()")
	case len(data) <= 2:
		sb.WriteString(sexp.NumberFromBytes(data).String())
	case printable(data):
		sb.WriteByte('"')
		sb.Write(data)
		sb.WriteByte('"')
	default:
		sb.WriteString("0x")
		sb.WriteString(hex.EncodeToString(data))
	}
}

func printable(data []byte) bool {
	for _, b := range data {
		if b < 0x20 || b > 0x7e || b == '"' {
			return false
		}
	}
	return true
}
