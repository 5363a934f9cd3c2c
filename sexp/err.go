package sexp

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/

import "fmt"

// EvalError is the error type produced by the virtual machine and by tools
// operating on programs. It carries a location-like node handle together
// with a message. An EvalError from the evaluator aborts the enclosing
// operation; there is no partial result.
type EvalError struct {
	Node Node
	Msg  string
}

// Errorf creates an EvalError for a node.
func Errorf(n Node, format string, args ...interface{}) *EvalError {
	return &EvalError{Node: n, Msg: fmt.Sprintf(format, args...)}
}

func (e *EvalError) Error() string {
	return e.Msg
}
