package opt

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"math/big"

	"github.com/npillmayer/redex/sexp"
)

// NodePath names a position inside an argument environment reachable by a
// sequence of first/rest steps. The binary representation is a leading
// 1-bit sentinel followed by the step bits, where 0 is "first" and 1 is
// "rest"; steps apply low bit first. The root of the environment is path
// 1, its first child path 2, its rest path 3, and so on, analogous to a
// heap-array index scheme with an explicit sentinel.
type NodePath struct {
	index *big.Int
}

var pathOne = big.NewInt(1)
var pathLeft = big.NewInt(2)
var pathRight = big.NewInt(3)

// TopPath is the path of the whole environment.
func TopPath() NodePath {
	return NodePath{index: new(big.Int).Set(pathOne)}
}

// NewPath creates a path from an index value. A negative index is
// reinterpreted through the unsigned reading of its signed byte encoding.
func NewPath(index *big.Int) NodePath {
	if index == nil {
		return TopPath()
	}
	if index.Sign() < 0 {
		blob := sexp.BytesFromNumber(index)
		return NodePath{index: sexp.UnsignedNumberFromBytes(blob)}
	}
	return NodePath{index: new(big.Int).Set(index)}
}

// composePaths combines two paths: the step bits of p0 run first, then
// the steps of p1 continue from wherever p0 arrived. p1 is shifted left
// past p0's step bits; p0's sentinel is dropped.
func composePaths(p0, p1 *big.Int) *big.Int {
	if p0.BitLen() == 0 {
		return new(big.Int).Set(p1)
	}
	steps := uint(p0.BitLen() - 1)
	mask := new(big.Int).Lsh(pathOne, steps)
	mask.Sub(mask, pathOne)
	path := new(big.Int).Lsh(p1, steps)
	rest := new(big.Int).And(p0, mask)
	return path.Or(path, rest)
}

// Add composes this path with another: first p's steps, then other's.
func (p NodePath) Add(other NodePath) NodePath {
	return NodePath{index: composePaths(p.index, other.index)}
}

// First appends a "first" step.
func (p NodePath) First() NodePath {
	return p.Add(NodePath{index: pathLeft})
}

// Rest appends a "rest" step.
func (p NodePath) Rest() NodePath {
	return p.Add(NodePath{index: pathRight})
}

// AsAtom serializes the path to its canonical atom encoding: minimal
// big-endian unsigned bytes of the sentinel-prefixed bit string.
func (p NodePath) AsAtom() []byte {
	return sexp.UnsignedBytesFromNumber(p.index)
}

// Index returns the path's index value.
func (p NodePath) Index() *big.Int {
	return new(big.Int).Set(p.index)
}
