package sexp

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"math/big"
)

// Atoms are numerically interpreted as signed big-endian two's complement
// integers; the empty atom is zero. Serializations are minimal: redundant
// leading 0x00/0xff bytes are stripped.

// NumberFromBytes interprets an atom's bytes as a signed integer.
func NumberFromBytes(data []byte) *big.Int {
	n := new(big.Int)
	if len(data) == 0 {
		return n
	}
	n.SetBytes(data)
	if data[0]&0x80 != 0 {
		// negative: subtract 2^(8*len)
		shift := new(big.Int).Lsh(big.NewInt(1), uint(len(data))*8)
		n.Sub(n, shift)
	}
	return n
}

// BytesFromNumber yields the minimal signed big-endian encoding of v.
// Zero encodes as the empty byte string.
func BytesFromNumber(v *big.Int) []byte {
	sign := v.Sign()
	if sign == 0 {
		return []byte{}
	}
	if sign > 0 {
		data := v.Bytes()
		if data[0]&0x80 != 0 {
			data = append([]byte{0}, data...)
		}
		return data
	}
	// two's complement with minimal width
	bits := v.BitLen() + 1
	width := (bits + 7) / 8
	shift := new(big.Int).Lsh(big.NewInt(1), uint(width)*8)
	tc := new(big.Int).Add(v, shift)
	data := tc.Bytes()
	for len(data) < width {
		data = append([]byte{0xff}, data...)
	}
	for len(data) > 1 && data[0] == 0xff && data[1]&0x80 != 0 {
		data = data[1:]
	}
	return data
}

// UnsignedBytesFromNumber yields the minimal unsigned big-endian encoding
// of a non-negative v. Used for node-path serialization, where the leading
// 1-bit sentinel makes a sign bit meaningless.
func UnsignedBytesFromNumber(v *big.Int) []byte {
	if v.Sign() == 0 {
		return []byte{}
	}
	return v.Bytes()
}

// UnsignedNumberFromBytes interprets an atom's bytes as an unsigned
// integer.
func UnsignedNumberFromBytes(data []byte) *big.Int {
	return new(big.Int).SetBytes(data)
}

// Number is a convenience for reading an atom node as a signed integer.
func (a *Arena) Number(n Node) *big.Int {
	return NumberFromBytes(a.Atom(n))
}

// NewNumber creates an atom node holding the minimal signed encoding of v.
func (a *Arena) NewNumber(v *big.Int) Node {
	return a.NewAtom(BytesFromNumber(v))
}

// NewInt creates an atom node for a small signed integer.
func (a *Arena) NewInt(v int64) Node {
	return a.NewNumber(big.NewInt(v))
}
