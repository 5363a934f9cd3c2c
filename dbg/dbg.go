package dbg

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/redex/asm"
	"github.com/npillmayer/redex/sexp"
	"github.com/npillmayer/redex/vm"
)

// Runnable lets consumers inject functionality into a stepped run: the
// replacement step is used instead of advancing the machine. Returning a
// nil step means "no override".
type Runnable interface {
	ReplaceStep(a *sexp.Arena, step vm.Step) (vm.Step, error)
}

// NoOverride is a Runnable that never overrides anything.
type NoOverride struct{}

// ReplaceStep is part of the Runnable interface.
func (NoOverride) ReplaceStep(*sexp.Arena, vm.Step) (vm.Step, error) {
	return nil, nil
}

// ReplacementFn computes the value an overridden program tree should
// produce, given the environment it would have been evaluated in.
type ReplacementFn func(a *sexp.Arena, env sexp.Node) (sexp.Node, error)

// HashOverride mocks out the evaluation of known program trees,
// identified by their TreeHash. Whenever the machine is about to
// evaluate a registered tree, the replacement value is delivered
// instead.
type HashOverride struct {
	replacements map[string]ReplacementFn
}

var _ Runnable = (*HashOverride)(nil)

// NewHashOverride creates an empty override set.
func NewHashOverride() *HashOverride {
	return &HashOverride{replacements: make(map[string]ReplacementFn)}
}

// Add registers a replacement for the program tree with the given hash.
func (ho *HashOverride) Add(hash []byte, fn ReplacementFn) {
	ho.replacements[string(hash)] = fn
}

// ReplaceStep is part of the Runnable interface.
func (ho *HashOverride) ReplaceStep(a *sexp.Arena, step vm.Step) (vm.Step, error) {
	ev, ok := step.(*vm.EvalStep)
	if !ok {
		return nil, nil
	}
	fn, ok := ho.replacements[string(TreeHash(a, ev.Expr))]
	if !ok {
		return nil, nil
	}
	tracer().Debugf("override for %x", TreeHash(a, ev.Expr))
	value, err := fn(a, ev.Env)
	if err != nil {
		return nil, err
	}
	return &vm.ResultStep{Value: value, Parent: ev.Parent}, nil
}

// priorResult remembers in which output row a value was produced, so
// later rows can back-reference it.
type priorResult struct {
	reference int
}

// Run steps a program and reports rows of information per reduction.
// The caller drives the run by calling Step until Ended; every call that
// completes a reduction returns an ordered key→value map describing it.
type Run struct {
	machine   *vm.Machine
	overrides Runnable

	ended       bool
	finalResult sexp.Node
	haveResult  bool
	toPrint     *treemap.Map
	inExpr      bool
	row         int

	outputsToStep map[string]priorResult
}

// NewRun creates a stepwise run of program against the argument
// environment env. Pass NoOverride{} as overrides when no injection is
// wanted.
func NewRun(m *vm.Machine, overrides Runnable) *Run {
	return &Run{
		machine:       m,
		overrides:     overrides,
		toPrint:       treemap.NewWith(utils.StringComparator),
		outputsToStep: make(map[string]priorResult),
	}
}

// Ended returns true when the run completed or failed.
func (run *Run) Ended() bool {
	return run.ended
}

// FinalResult returns the final value of a completed run.
func (run *Run) FinalResult() (sexp.Node, bool) {
	return run.finalResult, run.haveResult
}

// Step advances the run by one machine transition. It returns a non-nil
// row map whenever the transition completed a reduction (or ended the
// run); rows are ordered by key.
func (run *Run) Step() *treemap.Map {
	if run.ended {
		return nil
	}
	a := run.machine.Arena()
	next, err := run.overrides.ReplaceStep(a, run.machine.Current())
	if err == nil && next != nil {
		run.machine.SetCurrent(next)
	} else if err == nil {
		next, err = run.machine.Step()
	}
	if err != nil {
		run.toPrint.Put("Failure", err.Error())
		if ee, ok := err.(*sexp.EvalError); ok {
			run.toPrint.Put("Failure-Location", asm.Disassemble(a, ee.Node))
		}
		run.ended = true
		return run.produce()
	}

	switch step := next.(type) {
	case *vm.OpStep:
		if step.OpPending || len(step.Remaining) > 0 {
			return nil
		}
		run.toPrint.Put("Operator", asm.Disassemble(a, step.Op))
		run.toPrint.Put("Arguments", asm.Disassemble(a, a.Enlist(step.Values)))
		if a.IsOpcode(step.Op, vm.OpSha256) {
			run.toPrint.Put("Argument-Refs", run.argAssociations(a, step.Values))
		}
		run.inExpr = true
	case *vm.ResultStep:
		if run.inExpr {
			run.toPrint.Put("Value", asm.Disassemble(a, step.Value))
			run.toPrint.Put("Row", strconv.Itoa(run.row))
			run.outputsToStep[valueKey(a, step.Value)] = priorResult{reference: run.row}
			run.inExpr = false
			return run.produce()
		}
	case *vm.DoneStep:
		run.toPrint.Put("Final", asm.Disassemble(a, step.Value))
		run.ended = true
		run.finalResult = step.Value
		run.haveResult = true
		return run.produce()
	}
	return nil
}

// produce hands the collected rows out and resets the collection.
func (run *Run) produce() *treemap.Map {
	rows := run.toPrint
	run.toPrint = treemap.NewWith(utils.StringComparator)
	run.row++
	return rows
}

// argAssociations renders back-references to the rows which produced the
// given argument values.
func (run *Run) argAssociations(a *sexp.Arena, values []sexp.Node) string {
	refs := make([]string, 0, len(values))
	for _, v := range values {
		if prior, ok := run.outputsToStep[valueKey(a, v)]; ok {
			refs = append(refs, strconv.Itoa(prior.reference))
		}
	}
	return strings.Join(refs, ", ")
}

// valueKey keys produced values for back-referencing. Only atoms are
// tracked; pairs key by tree hash.
func valueKey(a *sexp.Arena, n sexp.Node) string {
	if a.IsAtom(n) {
		return "#" + hex.EncodeToString(a.Atom(n))
	}
	return hex.EncodeToString(TreeHash(a, n))
}
