package vm

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"github.com/npillmayer/redex"
	"github.com/npillmayer/redex/sexp"
)

// ProgramRunner is the default Runner implementation: it spins up a fresh
// machine per program. Custom primitives registered on the runner are
// handed down to every machine it creates.
type ProgramRunner struct {
	handlers map[string]OperatorHandler
}

var _ Runner = (*ProgramRunner)(nil)

// NewRunner creates a ProgramRunner without custom primitives.
func NewRunner() *ProgramRunner {
	return &ProgramRunner{handlers: make(map[string]OperatorHandler)}
}

// DefineOperator attaches a custom primitive under the given operator
// atom bytes, for all future runs.
func (r *ProgramRunner) DefineOperator(opname []byte, h OperatorHandler) {
	r.handlers[string(opname)] = h
}

// RunProgram evaluates program against the argument environment args and
// returns the total cost together with the result node. Any evaluation
// error aborts the run; there is no partial result.
func (r *ProgramRunner) RunProgram(a *sexp.Arena, program, args sexp.Node, maxCost redex.Cost) (redex.Cost, sexp.Node, error) {
	m := NewMachine(a, program, args, maxCost)
	for name, h := range r.handlers {
		m.DefineOperator([]byte(name), h)
	}
	value, err := m.Run()
	if err != nil {
		tracer().Debugf("program failed after cost %s: %v", m.Cost(), err)
		return m.Cost(), sexp.Nil, err
	}
	return m.Cost(), value, nil
}
