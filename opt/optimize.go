package opt

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"math/big"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/npillmayer/redex"
	"github.com/npillmayer/redex/asm"
	"github.com/npillmayer/redex/sexp"
	"github.com/npillmayer/redex/vm"
)

// templates are the matcher templates of the rule set, compiled once per
// optimizer from their textual notation.
type templates struct {
	consQA    sexp.Node // (a (q . SEXP) ARGS)
	cons      sexp.Node // (c FIRST REST)
	consFirst sexp.Node // (f (c FIRST REST))
	consRest  sexp.Node // (r (c FIRST REST))
	firstAtom sexp.Node // (f N), N a literal atom
	restAtom  sexp.Node // (r N), N a literal atom
	quoteNil  sexp.Node // (q . nil)
	applyNil  sexp.Node // (a nil . REST)
}

func compileTemplates(a *sexp.Arena) (templates, error) {
	t := templates{}
	var err error
	compile := func(dst *sexp.Node, src string) {
		if err != nil {
			return
		}
		*dst, err = asm.Assemble(a, src)
	}
	compile(&t.consQA, "(a (q . (: . sexp)) (: . args))")
	compile(&t.cons, "(c (: . first) (: . rest))")
	compile(&t.consFirst, "(f (c (: . first) (: . rest)))")
	compile(&t.consRest, "(r (c (: . first) (: . rest)))")
	compile(&t.firstAtom, "(f ($ . atom))")
	compile(&t.restAtom, "(r ($ . atom))")
	compile(&t.quoteNil, "(q . 0)")
	compile(&t.applyNil, "(a 0 . (: . rest))")
	return t, err
}

// RewriteEvent records one accepted rewrite, for optional instrumentation.
type RewriteEvent struct {
	Rule   string
	Before sexp.Node
	After  sexp.Node
}

// rule is one local rewrite. Rules return their input unchanged when
// their precondition does not hold; the driver detects change by deep
// structural equality.
type rule struct {
	name    string
	rewrite func(*Optimizer, sexp.Node) (sexp.Node, error)
}

// Optimizer rewrites programs of one arena to a fixed point of its rule
// set. It is not safe for concurrent use; create one optimizer per
// goroutine (they may share an arena's existing nodes).
type Optimizer struct {
	arena  *sexp.Arena
	runner vm.Runner
	tmpl   templates
	rules  []rule
	trace  *arraylist.List // recorded RewriteEvents, nil when disabled
}

// NewOptimizer creates an optimizer allocating into arena and folding
// constants through runner.
func NewOptimizer(a *sexp.Arena, runner vm.Runner) (*Optimizer, error) {
	tmpl, err := compileTemplates(a)
	if err != nil {
		return nil, err
	}
	o := &Optimizer{arena: a, runner: runner, tmpl: tmpl}
	o.rules = []rule{
		{"cons_optimizer", (*Optimizer).consOptimizer},
		{"constant_optimizer", (*Optimizer).constantOptimizer},
		{"cons_q_a_optimizer", (*Optimizer).consQAOptimizer},
		{"var_change_optimizer_cons_eval", (*Optimizer).varChangeOptimizerConsEval},
		{"children_optimizer", (*Optimizer).childrenOptimizer},
		{"path_optimizer", (*Optimizer).pathOptimizer},
		{"quote_null_optimizer", (*Optimizer).quoteNullOptimizer},
		{"apply_null_optimizer", (*Optimizer).applyNullOptimizer},
	}
	return o, nil
}

// StartTrace begins recording accepted rewrites.
func (o *Optimizer) StartTrace() {
	o.trace = arraylist.New()
}

// TraceLog returns the rewrites recorded since StartTrace.
func (o *Optimizer) TraceLog() []RewriteEvent {
	if o.trace == nil {
		return nil
	}
	events := make([]RewriteEvent, 0, o.trace.Size())
	it := o.trace.Iterator()
	for it.Next() {
		events = append(events, it.Value().(RewriteEvent))
	}
	return events
}

// Optimize rewrites a program R to R', where (a R args) == (a R' args)
// for any args. It applies the rule set in fixed priority order; the
// first rule producing a change restarts the sequence, and a full pass
// without change terminates the loop. Atoms are returned unchanged.
func (o *Optimizer) Optimize(r sexp.Node) (sexp.Node, error) {
	a := o.arena
	for a.IsPair(r) {
		startR := r
		var name string
		for _, rl := range o.rules {
			name = rl.name
			res, err := rl.rewrite(o, r)
			if err != nil {
				return sexp.Nil, err
			}
			if !a.Equal(r, res) {
				r = res
				break
			}
		}
		if a.Equal(startR, r) {
			return r, nil
		}
		if o.trace != nil {
			o.trace.Add(RewriteEvent{Rule: name, Before: startR, After: r})
			tracer().Debugf("OPT-%s[%s] => %s", name,
				asm.Disassemble(a, startR), asm.Disassemble(a, r))
		}
	}
	return r, nil
}

// --- Constancy --------------------------------------------------------------

// seemsConstantTail checks that every element of a nil-terminated operand
// list seems constant.
func seemsConstantTail(a *sexp.Arena, n sexp.Node) bool {
	for {
		if a.IsAtom(n) {
			return a.IsNil(n)
		}
		car, cdr := a.Pair(n)
		if !seemsConstant(a, car) {
			return false
		}
		n = cdr
	}
}

// seemsConstant decides whether a tree's value is independent of the
// runtime argument environment. This is a sound syntactic approximation:
// quote applications are constant, anything mentioning the raise opcode
// is not, and otherwise all operands (and a compound operator) must be
// constant in turn. Atoms other than nil are environment paths and
// therefore not constant.
func seemsConstant(a *sexp.Arena, n sexp.Node) bool {
	if a.IsAtom(n) {
		return a.IsNil(n)
	}
	op, args := a.Pair(n)
	if a.IsAtom(op) {
		if a.IsOpcode(op, vm.OpQuote) {
			return true
		}
		if a.IsOpcode(op, vm.OpRaise) {
			return false
		}
	} else if !seemsConstant(a, op) {
		return false
	}
	return seemsConstantTail(a, args)
}

// --- Rules, in priority order -----------------------------------------------

// consOptimizer applies (f (c A B)) => A and (r (c A B)) => B.
func (o *Optimizer) consOptimizer(r sexp.Node) (sexp.Node, error) {
	if m, ok := Match(o.arena, o.tmpl.consFirst, r, nil); ok {
		return m["first"], nil
	}
	if m, ok := Match(o.arena, o.tmpl.consRest, r, nil); ok {
		return m["rest"], nil
	}
	return r, nil
}

// constantOptimizer evaluates an environment-independent tree with a null
// environment and quotes the result. An evaluator error propagates; a
// fold either succeeds or fails, it never guesses.
func (o *Optimizer) constantOptimizer(r sexp.Node) (sexp.Node, error) {
	a := o.arena
	if !seemsConstant(a, r) || !a.NonNil(r) {
		return r, nil
	}
	_, value, err := o.runner.RunProgram(a, r, sexp.Nil, redex.NoCostLimit)
	if err != nil {
		return sexp.Nil, err
	}
	return a.Quote(value), nil
}

// consQAOptimizer applies (a (q . SEXP) @) => SEXP, where @ is literally
// the whole-environment reference.
func (o *Optimizer) consQAOptimizer(r sexp.Node) (sexp.Node, error) {
	a := o.arena
	m, ok := Match(a, o.tmpl.consQA, r, nil)
	if !ok {
		return r, nil
	}
	if a.IsOpcode(m["args"], 1) {
		return m["sexp"], nil
	}
	return r, nil
}

// consF wraps args in a first accessor, short-cutting over an explicit
// cons.
func (o *Optimizer) consF(args sexp.Node) sexp.Node {
	a := o.arena
	if m, ok := Match(a, o.tmpl.cons, args, nil); ok {
		return m["first"]
	}
	return a.Enlist([]sexp.Node{a.NewAtom([]byte{vm.OpFirst}), args})
}

// consR wraps args in a rest accessor, short-cutting over an explicit
// cons.
func (o *Optimizer) consR(args sexp.Node) sexp.Node {
	a := o.arena
	if m, ok := Match(a, o.tmpl.cons, args, nil); ok {
		return m["rest"]
	}
	return a.Enlist([]sexp.Node{a.NewAtom([]byte{vm.OpRest}), args})
}

// pathFromArgs rewrites a path atom into a chain of first/rest accessors
// over newArgs, low path bit innermost.
func (o *Optimizer) pathFromArgs(n sexp.Node, newArgs sexp.Node) sexp.Node {
	a := o.arena
	if !a.IsAtom(n) {
		return newArgs
	}
	v := a.Number(n)
	if v.Cmp(big.NewInt(1)) <= 0 {
		return newArgs
	}
	next := a.NewNumber(new(big.Int).Rsh(v, 1))
	if v.Bit(0) != 0 {
		return o.pathFromArgs(next, o.consR(newArgs))
	}
	return o.pathFromArgs(next, o.consF(newArgs))
}

// subArgs substitutes the argument environment throughout a program body:
// every environment path becomes the corresponding accessor chain over
// newArgs. Quote-headed trees are left untouched; a compound operator is
// substituted recursively.
func (o *Optimizer) subArgs(n sexp.Node, newArgs sexp.Node) sexp.Node {
	a := o.arena
	if a.IsAtom(n) {
		return o.pathFromArgs(n, newArgs)
	}
	first, rest := a.Pair(n)
	if a.IsPair(first) {
		first = o.subArgs(first, newArgs)
	} else if a.IsOpcode(first, vm.OpQuote) {
		return n
	}
	items := []sexp.Node{first}
	tail := rest
	for a.IsPair(tail) {
		car, cdr := a.Pair(tail)
		items = append(items, o.subArgs(car, newArgs))
		tail = cdr
	}
	// a non-nil tail survives and disqualifies the caller's rewrite
	list := tail
	for i := len(items) - 1; i >= 0; i-- {
		list = a.NewPair(items[i], list)
	}
	return list
}

// varChangeOptimizerConsEval applies the transform
//
//	(a (q . (op SEXP1…)) ARGS) => (op SEXP1'…)   where ARGS != @
//
// by substituting ARGS into the body and optimizing each resulting
// operand independently. Distributing ARGS into every operand can
// multiply code size, so the rewrite is kept only if no operand remains
// non-constant afterwards; otherwise the input is returned unchanged.
func (o *Optimizer) varChangeOptimizerConsEval(r sexp.Node) (sexp.Node, error) {
	a := o.arena
	m, ok := Match(a, o.tmpl.consQA, r, nil)
	if !ok {
		return r, nil
	}
	newBody := o.subArgs(m["sexp"], m["args"])
	// do not iterate into a quoted value as if it were a list
	if seemsConstant(a, newBody) {
		return o.Optimize(newBody)
	}
	operands, ok := a.ProperList(newBody, true)
	if !ok {
		return r, nil
	}
	optimized := make([]sexp.Node, len(operands))
	for i, operand := range operands {
		node, err := o.Optimize(operand)
		if err != nil {
			return sexp.Nil, err
		}
		optimized[i] = node
	}
	nonConstant := 0
	for _, node := range optimized {
		if countsAsNonConstant(a, node) {
			nonConstant++
		}
	}
	if nonConstant < 1 {
		return a.Enlist(optimized), nil
	}
	return r, nil
}

// countsAsNonConstant is the acceptance metric of the variable-reindexing
// rule: atoms and quote applications count as constant, any other pair
// does not.
func countsAsNonConstant(a *sexp.Arena, n sexp.Node) bool {
	if a.IsAtom(n) {
		return false
	}
	op, _ := a.Pair(n)
	if a.IsAtom(op) {
		return !a.IsOpcode(op, vm.OpQuote)
	}
	return true
}

// childrenOptimizer recursively optimizes all elements of an operator
// application, skipping quote applications entirely.
func (o *Optimizer) childrenOptimizer(r sexp.Node) (sexp.Node, error) {
	a := o.arena
	list, ok := a.ProperList(r, true)
	if !ok || len(list) == 0 {
		return r, nil
	}
	if a.IsOpcode(list[0], vm.OpQuote) {
		return r, nil
	}
	optimized := make([]sexp.Node, len(list))
	for i, child := range list {
		node, err := o.Optimize(child)
		if err != nil {
			return sexp.Nil, err
		}
		optimized[i] = node
	}
	return a.Enlist(optimized), nil
}

// pathOptimizer collapses (f N) and (r N), N a literal path atom, into a
// single composed path atom.
func (o *Optimizer) pathOptimizer(r sexp.Node) (sexp.Node, error) {
	a := o.arena
	if m, ok := Match(a, o.tmpl.firstAtom, r, nil); ok {
		path := NewPath(a.Number(m["atom"])).Add(TopPath().First())
		return a.NewAtom(path.AsAtom()), nil
	}
	if m, ok := Match(a, o.tmpl.restAtom, r, nil); ok {
		path := NewPath(a.Number(m["atom"])).Add(TopPath().Rest())
		return a.NewAtom(path.AsAtom()), nil
	}
	return r, nil
}

// quoteNullOptimizer applies (q . 0) => 0.
func (o *Optimizer) quoteNullOptimizer(r sexp.Node) (sexp.Node, error) {
	if _, ok := Match(o.arena, o.tmpl.quoteNil, r, nil); ok {
		return sexp.Nil, nil
	}
	return r, nil
}

// applyNullOptimizer applies (a 0 ARGS) => 0.
func (o *Optimizer) applyNullOptimizer(r sexp.Node) (sexp.Node, error) {
	if _, ok := Match(o.arena, o.tmpl.applyNil, r, nil); ok {
		return sexp.Nil, nil
	}
	return r, nil
}
