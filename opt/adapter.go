package opt

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"github.com/npillmayer/redex"
	"github.com/npillmayer/redex/sexp"
	"github.com/npillmayer/redex/vm"
)

// OperatorName is the atom under which the optimizer registers itself as
// a VM primitive.
var OperatorName = []byte("opt")

// Operator exposes the optimizer as a callable VM operation: it takes
// exactly one operand, the program to optimize, and reduces to the
// optimized program at unit cost. Evaluator errors during constant
// folding propagate verbatim.
type Operator struct {
	opt *Optimizer
}

var _ vm.OperatorHandler = (*Operator)(nil)

// NewOperator creates the "opt" primitive for programs of the given
// arena, folding constants through runner.
func NewOperator(a *sexp.Arena, runner vm.Runner) (*Operator, error) {
	o, err := NewOptimizer(a, runner)
	if err != nil {
		return nil, err
	}
	return &Operator{opt: o}, nil
}

// Op implements vm.OperatorHandler.
func (op *Operator) Op(a *sexp.Arena, opNode, args sexp.Node, maxCost redex.Cost) (vm.Reduction, error) {
	program, err := a.First(args)
	if err != nil {
		return vm.Reduction{}, err
	}
	optimized, err := op.opt.Optimize(program)
	if err != nil {
		return vm.Reduction{}, err
	}
	return vm.Reduction{Cost: 1, Node: optimized}, nil
}
