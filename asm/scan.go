package asm

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"sync"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// Token types of the S-expression notation.
const (
	tokLParen = iota + 1
	tokRParen
	tokDot
	tokString
	tokHex
	tokNum
	tokSym
)

var lexerOnce sync.Once // monitors one-time initialization
var lexer *lexmachine.Lexer
var lexerErr error

// Lexer returns the compiled lexmachine lexer for the notation. The DFA is
// compiled once and shared; lexmachine scanners created from it are
// independent.
func Lexer() (*lexmachine.Lexer, error) {
	lexerOnce.Do(func() {
		lexer = lexmachine.NewLexer()
		lexer.Add([]byte(`;[^\n]*\n?`), skip) // skip comments
		lexer.Add([]byte(`( |\t|\n|\r)+`), skip)
		lexer.Add([]byte(`\(`), makeToken(tokLParen))
		lexer.Add([]byte(`\)`), makeToken(tokRParen))
		lexer.Add([]byte(`\.`), makeToken(tokDot))
		lexer.Add([]byte(`"[^"]*"`), makeToken(tokString))
		lexer.Add([]byte(`0x([0-9]|[a-f]|[A-F])+`), makeToken(tokHex))
		lexer.Add([]byte(`(\+|\-)?[0-9]+`), makeToken(tokNum))
		lexer.Add([]byte(`[^ \t\n\r\(\)\."]+`), makeToken(tokSym))
		lexerErr = lexer.Compile()
		if lexerErr != nil {
			tracer().Errorf("Error compiling DFA: %v", lexerErr)
		}
	})
	return lexer, lexerErr
}

func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

func makeToken(id int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(id, string(m.Bytes), m), nil
	}
}

// tokenStream wraps a lexmachine scanner with one token of lookahead.
type tokenStream struct {
	scanner *lexmachine.Scanner
	ahead   *lexmachine.Token
	eof     bool
}

func newTokenStream(src string) (*tokenStream, error) {
	lx, err := Lexer()
	if err != nil {
		return nil, err
	}
	s, err := lx.Scanner([]byte(src))
	if err != nil {
		return nil, err
	}
	return &tokenStream{scanner: s}, nil
}

// next returns the next token, or nil at end of input.
func (ts *tokenStream) next() (*lexmachine.Token, error) {
	if ts.ahead != nil {
		tok := ts.ahead
		ts.ahead = nil
		return tok, nil
	}
	if ts.eof {
		return nil, nil
	}
	tok, err, eof := ts.scanner.Next()
	if eof {
		ts.eof = true
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("bad token in S-expression: %v", err)
	}
	return tok.(*lexmachine.Token), nil
}

// peek returns the next token without consuming it.
func (ts *tokenStream) peek() (*lexmachine.Token, error) {
	if ts.ahead != nil {
		return ts.ahead, nil
	}
	tok, err := ts.next()
	if err != nil {
		return nil, err
	}
	ts.ahead = tok
	return tok, nil
}
