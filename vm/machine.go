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

// Opcodes of the virtual machine.
const (
	OpQuote  byte = 1
	OpApply  byte = 2
	OpIf     byte = 3
	OpCons   byte = 4
	OpFirst  byte = 5
	OpRest   byte = 6
	OpListp  byte = 7
	OpRaise  byte = 8
	OpEq     byte = 9
	OpSha256 byte = 11
	OpStrlen byte = 13
	OpConcat byte = 14
	OpAdd    byte = 16
	OpSub    byte = 17
	OpMul    byte = 18
	OpDiv    byte = 19
	OpGr     byte = 21
	OpNot    byte = 32
	OpAny    byte = 33
	OpAll    byte = 34
)

// Reduction is the outcome of a single operator application: the value
// node and the cost it charged.
type Reduction struct {
	Cost redex.Cost
	Node sexp.Node
}

// OperatorHandler extends the machine with a custom primitive. The op
// node is the operator atom as it appeared in the program, args is the
// list of already-evaluated operands.
type OperatorHandler interface {
	Op(a *sexp.Arena, op sexp.Node, args sexp.Node, maxCost redex.Cost) (Reduction, error)
}

// Runner abstracts "run a program to completion". The optimizer's
// constant folder depends on this contract only.
type Runner interface {
	RunProgram(a *sexp.Arena, program, args sexp.Node, maxCost redex.Cost) (redex.Cost, sexp.Node, error)
}

// --- Machine states ---------------------------------------------------------

// Step is a machine state. Concrete states are EvalStep, OpStep,
// ResultStep and DoneStep. States are never mutated after creation, so a
// debugger may hold on to any of them.
type Step interface {
	isStep()
}

// EvalStep is an expression about to be evaluated in an environment.
type EvalStep struct {
	Expr   sexp.Node
	Env    sexp.Node
	Parent Step // continuation, an *OpStep or nil
}

// OpStep is an operator application collecting its operand values.
// While OpPending is set, the operator position was itself an expression
// and its value has not arrived yet.
type OpStep struct {
	Op        sexp.Node   // operator atom
	OpPending bool        // operator value not yet delivered
	Env       sexp.Node   // environment of the application
	Remaining []sexp.Node // operand expressions not yet evaluated
	Values    []sexp.Node // operand values collected so far
	Parent    Step
}

// ResultStep is a value travelling back to its continuation.
type ResultStep struct {
	Value  sexp.Node
	Parent Step
}

// DoneStep is the terminal state.
type DoneStep struct {
	Value sexp.Node
}

func (*EvalStep) isStep()   {}
func (*OpStep) isStep()     {}
func (*ResultStep) isStep() {}
func (*DoneStep) isStep()   {}

// --- Machine ----------------------------------------------------------------

// Machine evaluates one program. It is single-threaded and synchronous;
// a machine either runs to completion or fails on the first unrecoverable
// error.
type Machine struct {
	arena    *sexp.Arena
	handlers map[string]OperatorHandler
	cur      Step
	cost     redex.Cost
	maxCost  redex.Cost
}

// NewMachine creates a machine for evaluating program with the given
// argument environment. A maxCost of redex.NoCostLimit leaves the run
// unbounded.
func NewMachine(a *sexp.Arena, program, env sexp.Node, maxCost redex.Cost) *Machine {
	return &Machine{
		arena:    a,
		handlers: make(map[string]OperatorHandler),
		cur:      &EvalStep{Expr: program, Env: env},
		maxCost:  maxCost,
	}
}

// DefineOperator attaches a custom primitive under the given operator
// atom bytes.
func (m *Machine) DefineOperator(opname []byte, h OperatorHandler) {
	m.handlers[string(opname)] = h
}

// Arena returns the arena this machine allocates into.
func (m *Machine) Arena() *sexp.Arena {
	return m.arena
}

// Cost returns the cost accumulated so far.
func (m *Machine) Cost() redex.Cost {
	return m.cost
}

// Current returns the current machine state.
func (m *Machine) Current() Step {
	return m.cur
}

// SetCurrent replaces the current machine state. Debuggers use this to
// override a step, e.g. to mock out a function application.
func (m *Machine) SetCurrent(s Step) {
	m.cur = s
}

// Done returns true when the machine reached its terminal state.
func (m *Machine) Done() bool {
	_, ok := m.cur.(*DoneStep)
	return ok
}

// Step advances the machine by one transition and returns the new state.
// After an error the machine is stuck; further calls return the same
// error.
func (m *Machine) Step() (Step, error) {
	next, cost, err := m.transition(m.cur)
	if err != nil {
		return m.cur, err
	}
	m.cost += cost
	if m.maxCost != redex.NoCostLimit && m.cost > m.maxCost {
		return m.cur, sexp.Errorf(sexp.Nil, "cost of %d exceeds limit %d", m.cost, m.maxCost)
	}
	m.cur = next
	return next, nil
}

// Run loops the machine to completion and returns the final value.
func (m *Machine) Run() (sexp.Node, error) {
	for !m.Done() {
		if _, err := m.Step(); err != nil {
			return sexp.Nil, err
		}
	}
	return m.cur.(*DoneStep).Value, nil
}

func (m *Machine) transition(s Step) (Step, redex.Cost, error) {
	a := m.arena
	switch step := s.(type) {
	case *EvalStep:
		if a.IsAtom(step.Expr) {
			value, err := traversePath(a, step.Env, a.Atom(step.Expr))
			if err != nil {
				return nil, 0, err
			}
			return &ResultStep{Value: value, Parent: step.Parent}, 1, nil
		}
		op, args := a.Pair(step.Expr)
		if a.IsOpcode(op, OpQuote) {
			return &ResultStep{Value: args, Parent: step.Parent}, 1, nil
		}
		operands, ok := a.ProperList(args, true)
		if !ok {
			return nil, 0, sexp.Errorf(step.Expr, "bad operand list")
		}
		if a.IsPair(op) {
			// the operator expression evaluates first, in the same env
			waiting := &OpStep{
				OpPending: true,
				Env:       step.Env,
				Remaining: operands,
				Parent:    step.Parent,
			}
			return &EvalStep{Expr: op, Env: step.Env, Parent: waiting}, 1, nil
		}
		next := &OpStep{Op: op, Env: step.Env, Remaining: operands, Parent: step.Parent}
		return next, 1, nil
	case *OpStep:
		if step.OpPending {
			return nil, 0, sexp.Errorf(step.Op, "operator application stepped before operator value arrived")
		}
		if len(step.Remaining) > 0 {
			rest := &OpStep{
				Op:        step.Op,
				Env:       step.Env,
				Remaining: step.Remaining[1:],
				Values:    step.Values,
				Parent:    step.Parent,
			}
			return &EvalStep{Expr: step.Remaining[0], Env: step.Env, Parent: rest}, 1, nil
		}
		return m.apply(step)
	case *ResultStep:
		if step.Parent == nil {
			return &DoneStep{Value: step.Value}, 0, nil
		}
		parent, ok := step.Parent.(*OpStep)
		if !ok {
			return nil, 0, sexp.Errorf(step.Value, "value delivered to non-operator continuation")
		}
		return deliver(a, parent, step.Value)
	case *DoneStep:
		return step, 0, nil
	}
	return nil, 0, sexp.Errorf(sexp.Nil, "invalid machine state")
}

// deliver hands a value to a waiting operator application. A pending
// operator slot is filled before any operand values.
func deliver(a *sexp.Arena, parent *OpStep, value sexp.Node) (Step, redex.Cost, error) {
	next := &OpStep{
		Op:        parent.Op,
		Env:       parent.Env,
		Remaining: parent.Remaining,
		Values:    parent.Values,
		Parent:    parent.Parent,
	}
	if parent.OpPending {
		if !a.IsAtom(value) || len(a.Atom(value)) != 1 {
			return nil, 0, sexp.Errorf(value, "operator expression did not yield an opcode")
		}
		next.Op = value
		return next, 0, nil
	}
	next.Values = append(append([]sexp.Node{}, parent.Values...), value)
	return next, 0, nil
}
