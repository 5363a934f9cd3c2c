package vm

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"crypto/sha256"
	"math/big"

	"github.com/npillmayer/redex"
	"github.com/npillmayer/redex/sexp"
)

// traversePath walks an environment tree along a bit-encoded path atom.
// Bits are read least significant first; 0 selects the first child, 1 the
// rest. The zero path yields nil.
func traversePath(a *sexp.Arena, env sexp.Node, path []byte) (sexp.Node, error) {
	v := sexp.UnsignedNumberFromBytes(path)
	if v.Sign() == 0 {
		return sexp.Nil, nil
	}
	node := env
	for v.BitLen() > 1 {
		if !a.IsPair(node) {
			return sexp.Nil, sexp.Errorf(node, "path into atom")
		}
		car, cdr := a.Pair(node)
		if v.Bit(0) == 0 {
			node = car
		} else {
			node = cdr
		}
		v.Rsh(v, 1)
	}
	return node, nil
}

// apply dispatches a fully collected operator application.
func (m *Machine) apply(step *OpStep) (Step, redex.Cost, error) {
	a := m.arena
	opData := a.Atom(step.Op)
	if len(opData) == 1 {
		switch opData[0] {
		case OpApply:
			if len(step.Values) != 2 {
				return nil, 0, sexp.Errorf(step.Op, "apply takes exactly 2 arguments")
			}
			return &EvalStep{Expr: step.Values[0], Env: step.Values[1], Parent: step.Parent}, 1, nil
		case OpIf:
			if len(step.Values) != 3 {
				return nil, 0, sexp.Errorf(step.Op, "i takes exactly 3 arguments")
			}
			value := step.Values[2]
			if a.NonNil(step.Values[0]) {
				value = step.Values[1]
			}
			return &ResultStep{Value: value, Parent: step.Parent}, 1, nil
		}
		if prim, ok := primitives[opData[0]]; ok {
			value, cost, err := prim(a, step.Op, step.Values)
			if err != nil {
				return nil, 0, err
			}
			return &ResultStep{Value: value, Parent: step.Parent}, cost, nil
		}
	}
	if handler, ok := m.handlers[string(opData)]; ok {
		left := redex.NoCostLimit
		if m.maxCost != redex.NoCostLimit {
			left = m.maxCost - m.cost
		}
		red, err := handler.Op(a, step.Op, a.Enlist(step.Values), left)
		if err != nil {
			return nil, 0, err
		}
		return &ResultStep{Value: red.Node, Parent: step.Parent}, red.Cost, nil
	}
	return nil, 0, sexp.Errorf(step.Op, "unimplemented operator")
}

// primitive is a strict operator over evaluated operands.
type primitive func(a *sexp.Arena, op sexp.Node, args []sexp.Node) (sexp.Node, redex.Cost, error)

var primitives map[byte]primitive

func init() {
	primitives = map[byte]primitive{
		OpCons:   primCons,
		OpFirst:  primFirst,
		OpRest:   primRest,
		OpListp:  primListp,
		OpRaise:  primRaise,
		OpEq:     primEq,
		OpSha256: primSha256,
		OpStrlen: primStrlen,
		OpConcat: primConcat,
		OpAdd:    arith(func(acc, v *big.Int) { acc.Add(acc, v) }),
		OpSub:    primSub,
		OpMul:    arith(func(acc, v *big.Int) { acc.Mul(acc, v) }),
		OpDiv:    primDiv,
		OpGr:     primGr,
		OpNot:    primNot,
		OpAny:    primAny,
		OpAll:    primAll,
	}
}

func wantArgs(op sexp.Node, args []sexp.Node, n int, name string) error {
	if len(args) != n {
		return sexp.Errorf(op, "%s takes exactly %d arguments", name, n)
	}
	return nil
}

func atomArg(a *sexp.Arena, op sexp.Node, n sexp.Node, name string) ([]byte, error) {
	if !a.IsAtom(n) {
		return nil, sexp.Errorf(n, "%s on list", name)
	}
	return a.Atom(n), nil
}

func boolNode(a *sexp.Arena, b bool) sexp.Node {
	if b {
		return a.NewAtom([]byte{1})
	}
	return sexp.Nil
}

func primCons(a *sexp.Arena, op sexp.Node, args []sexp.Node) (sexp.Node, redex.Cost, error) {
	if err := wantArgs(op, args, 2, "c"); err != nil {
		return sexp.Nil, 0, err
	}
	return a.NewPair(args[0], args[1]), 1, nil
}

func primFirst(a *sexp.Arena, op sexp.Node, args []sexp.Node) (sexp.Node, redex.Cost, error) {
	if err := wantArgs(op, args, 1, "f"); err != nil {
		return sexp.Nil, 0, err
	}
	node, err := a.First(args[0])
	return node, 1, err
}

func primRest(a *sexp.Arena, op sexp.Node, args []sexp.Node) (sexp.Node, redex.Cost, error) {
	if err := wantArgs(op, args, 1, "r"); err != nil {
		return sexp.Nil, 0, err
	}
	node, err := a.Rest(args[0])
	return node, 1, err
}

func primListp(a *sexp.Arena, op sexp.Node, args []sexp.Node) (sexp.Node, redex.Cost, error) {
	if err := wantArgs(op, args, 1, "l"); err != nil {
		return sexp.Nil, 0, err
	}
	return boolNode(a, a.IsPair(args[0])), 1, nil
}

func primRaise(a *sexp.Arena, op sexp.Node, args []sexp.Node) (sexp.Node, redex.Cost, error) {
	return sexp.Nil, 0, sexp.Errorf(a.Enlist(args), "raise")
}

func primEq(a *sexp.Arena, op sexp.Node, args []sexp.Node) (sexp.Node, redex.Cost, error) {
	if err := wantArgs(op, args, 2, "="); err != nil {
		return sexp.Nil, 0, err
	}
	x, err := atomArg(a, op, args[0], "=")
	if err != nil {
		return sexp.Nil, 0, err
	}
	y, err := atomArg(a, op, args[1], "=")
	if err != nil {
		return sexp.Nil, 0, err
	}
	return boolNode(a, string(x) == string(y)), 1, nil
}

func primSha256(a *sexp.Arena, op sexp.Node, args []sexp.Node) (sexp.Node, redex.Cost, error) {
	h := sha256.New()
	for _, arg := range args {
		data, err := atomArg(a, op, arg, "sha256")
		if err != nil {
			return sexp.Nil, 0, err
		}
		h.Write(data)
	}
	return a.NewAtom(h.Sum(nil)), redex.Cost(1 + len(args)), nil
}

func primStrlen(a *sexp.Arena, op sexp.Node, args []sexp.Node) (sexp.Node, redex.Cost, error) {
	if err := wantArgs(op, args, 1, "strlen"); err != nil {
		return sexp.Nil, 0, err
	}
	data, err := atomArg(a, op, args[0], "strlen")
	if err != nil {
		return sexp.Nil, 0, err
	}
	return a.NewInt(int64(len(data))), 1, nil
}

func primConcat(a *sexp.Arena, op sexp.Node, args []sexp.Node) (sexp.Node, redex.Cost, error) {
	var buf []byte
	for _, arg := range args {
		data, err := atomArg(a, op, arg, "concat")
		if err != nil {
			return sexp.Nil, 0, err
		}
		buf = append(buf, data...)
	}
	return a.NewAtom(buf), redex.Cost(1 + len(args)), nil
}

// arith folds a signed big-integer operation over all operands.
func arith(fold func(acc, v *big.Int)) primitive {
	return func(a *sexp.Arena, op sexp.Node, args []sexp.Node) (sexp.Node, redex.Cost, error) {
		acc := new(big.Int)
		for i, arg := range args {
			data, err := atomArg(a, op, arg, "arith")
			if err != nil {
				return sexp.Nil, 0, err
			}
			v := sexp.NumberFromBytes(data)
			if i == 0 {
				acc.Set(v)
			} else {
				fold(acc, v)
			}
		}
		return a.NewNumber(acc), redex.Cost(1 + len(args)), nil
	}
}

func primSub(a *sexp.Arena, op sexp.Node, args []sexp.Node) (sexp.Node, redex.Cost, error) {
	if len(args) == 0 {
		return sexp.Nil, 1, nil
	}
	acc := new(big.Int)
	for i, arg := range args {
		data, err := atomArg(a, op, arg, "-")
		if err != nil {
			return sexp.Nil, 0, err
		}
		v := sexp.NumberFromBytes(data)
		if i == 0 {
			acc.Set(v)
		} else {
			acc.Sub(acc, v)
		}
	}
	return a.NewNumber(acc), redex.Cost(1 + len(args)), nil
}

func primDiv(a *sexp.Arena, op sexp.Node, args []sexp.Node) (sexp.Node, redex.Cost, error) {
	if err := wantArgs(op, args, 2, "div"); err != nil {
		return sexp.Nil, 0, err
	}
	x, err := atomArg(a, op, args[0], "div")
	if err != nil {
		return sexp.Nil, 0, err
	}
	y, err := atomArg(a, op, args[1], "div")
	if err != nil {
		return sexp.Nil, 0, err
	}
	divisor := sexp.NumberFromBytes(y)
	if divisor.Sign() == 0 {
		return sexp.Nil, 0, sexp.Errorf(op, "div with 0")
	}
	q := new(big.Int)
	m := new(big.Int)
	q.DivMod(sexp.NumberFromBytes(x), divisor, m) // floored for positive divisors
	if divisor.Sign() < 0 && m.Sign() != 0 {
		q.Sub(q, big.NewInt(1))
	}
	return a.NewNumber(q), 1, nil
}

func primGr(a *sexp.Arena, op sexp.Node, args []sexp.Node) (sexp.Node, redex.Cost, error) {
	if err := wantArgs(op, args, 2, ">"); err != nil {
		return sexp.Nil, 0, err
	}
	x, err := atomArg(a, op, args[0], ">")
	if err != nil {
		return sexp.Nil, 0, err
	}
	y, err := atomArg(a, op, args[1], ">")
	if err != nil {
		return sexp.Nil, 0, err
	}
	cmp := sexp.NumberFromBytes(x).Cmp(sexp.NumberFromBytes(y))
	return boolNode(a, cmp > 0), 1, nil
}

func primNot(a *sexp.Arena, op sexp.Node, args []sexp.Node) (sexp.Node, redex.Cost, error) {
	if err := wantArgs(op, args, 1, "not"); err != nil {
		return sexp.Nil, 0, err
	}
	return boolNode(a, a.IsNil(args[0])), 1, nil
}

func primAny(a *sexp.Arena, op sexp.Node, args []sexp.Node) (sexp.Node, redex.Cost, error) {
	for _, arg := range args {
		if a.NonNil(arg) {
			return boolNode(a, true), 1, nil
		}
	}
	return sexp.Nil, 1, nil
}

func primAll(a *sexp.Arena, op sexp.Node, args []sexp.Node) (sexp.Node, redex.Cost, error) {
	for _, arg := range args {
		if a.IsNil(arg) {
			return sexp.Nil, 1, nil
		}
	}
	return boolNode(a, true), 1, nil
}
