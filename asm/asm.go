package asm

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/npillmayer/redex/sexp"
	"github.com/timtadh/lexmachine"
)

// keywords maps operator names to their one-byte opcodes. "@" is the
// whole-environment reference.
var keywords = map[string]byte{
	"q": 1, "a": 2, "i": 3, "c": 4, "f": 5, "r": 6, "l": 7, "x": 8,
	"=": 9, "sha256": 11, "strlen": 13, "concat": 14,
	"+": 16, "-": 17, "*": 18, "div": 19, ">": 21,
	"not": 32, "any": 33, "all": 34,
	"@": 1,
}

// opcodeNames is the inverse of keywords, used by the disassembler for
// atoms in operator position. "@" never round-trips; quote wins for
// opcode 1.
var opcodeNames = map[byte]string{
	1: "q", 2: "a", 3: "i", 4: "c", 5: "f", 6: "r", 7: "l", 8: "x",
	9: "=", 11: "sha256", 13: "strlen", 14: "concat",
	16: "+", 17: "-", 18: "*", 19: "div", 21: ">",
	32: "not", 33: "any", 34: "all",
}

// Keyword returns the opcode for an operator name.
func Keyword(name string) (byte, bool) {
	op, ok := keywords[name]
	return op, ok
}

// Assemble reads the textual notation and builds the expression tree in
// the given arena. It is used both for programs and for the optimizer's
// pattern templates.
func Assemble(a *sexp.Arena, src string) (sexp.Node, error) {
	ts, err := newTokenStream(src)
	if err != nil {
		return sexp.Nil, err
	}
	tok, err := ts.next()
	if err != nil {
		return sexp.Nil, err
	}
	if tok == nil {
		return sexp.Nil, fmt.Errorf("empty S-expression input")
	}
	node, err := readSExpr(a, ts, tok)
	if err != nil {
		return sexp.Nil, err
	}
	tracer().Debugf("assembled %q", src)
	return node, nil
}

func readSExpr(a *sexp.Arena, ts *tokenStream, tok *lexmachine.Token) (sexp.Node, error) {
	switch tok.Type {
	case tokLParen:
		return readTail(a, ts)
	case tokRParen:
		return sexp.Nil, fmt.Errorf("unexpected ')'")
	case tokDot:
		return sexp.Nil, fmt.Errorf("unexpected '.'")
	default:
		return readAtom(a, tok)
	}
}

// readTail reads list elements up to the closing paren, with an optional
// dotted tail.
func readTail(a *sexp.Arena, ts *tokenStream) (sexp.Node, error) {
	tok, err := ts.next()
	if err != nil {
		return sexp.Nil, err
	}
	if tok == nil {
		return sexp.Nil, fmt.Errorf("missing ')'")
	}
	switch tok.Type {
	case tokRParen:
		return sexp.Nil, nil
	case tokDot:
		tail, err := ts.next()
		if err != nil {
			return sexp.Nil, err
		}
		if tail == nil {
			return sexp.Nil, fmt.Errorf("missing expression after '.'")
		}
		node, err := readSExpr(a, ts, tail)
		if err != nil {
			return sexp.Nil, err
		}
		closing, err := ts.next()
		if err != nil {
			return sexp.Nil, err
		}
		if closing == nil || closing.Type != tokRParen {
			return sexp.Nil, fmt.Errorf("missing ')' after dotted tail")
		}
		return node, nil
	}
	car, err := readSExpr(a, ts, tok)
	if err != nil {
		return sexp.Nil, err
	}
	cdr, err := readTail(a, ts)
	if err != nil {
		return sexp.Nil, err
	}
	return a.NewPair(car, cdr), nil
}

func readAtom(a *sexp.Arena, tok *lexmachine.Token) (sexp.Node, error) {
	lexeme := string(tok.Lexeme)
	switch tok.Type {
	case tokString:
		return a.NewAtom([]byte(lexeme[1 : len(lexeme)-1])), nil
	case tokHex:
		digits := lexeme[2:]
		if len(digits)%2 != 0 {
			digits = "0" + digits
		}
		data, err := hex.DecodeString(digits)
		if err != nil {
			return sexp.Nil, fmt.Errorf("bad hex atom %q", lexeme)
		}
		return a.NewAtom(data), nil
	case tokNum:
		v, ok := new(big.Int).SetString(lexeme, 10)
		if !ok {
			return sexp.Nil, fmt.Errorf("bad numeric atom %q", lexeme)
		}
		return a.NewNumber(v), nil
	case tokSym:
		if op, ok := keywords[lexeme]; ok {
			return a.NewAtom([]byte{op}), nil
		}
		return a.NewAtom([]byte(lexeme)), nil
	}
	return sexp.Nil, fmt.Errorf("unexpected token %q", lexeme)
}
