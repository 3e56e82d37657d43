// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package arith

import (
	"math/big"

	"github.com/consensys/bigmod/bytetree"
)

// Bytes returns the minimal big-endian two's-complement encoding of z.
// Zero encodes as a single 0x00 byte; the top bit of the first byte is the
// sign bit.
func (z *Int) Bytes() []byte {
	if z.v.Sign() >= 0 {
		// one spare bit for the sign
		n := z.v.BitLen()/8 + 1
		b := make([]byte, n)
		z.v.FillBytes(b)
		return b
	}
	// minimal n with z >= -2^(8n-1), i.e. BitLen(-z-1) <= 8n-1
	t := new(big.Int).Neg(&z.v)
	t.Sub(t, bigOne)
	n := t.BitLen()/8 + 1
	// two's complement: 2^(8n) + z
	t.Lsh(bigOne, uint(8*n))
	t.Add(t, &z.v)
	b := make([]byte, n)
	t.FillBytes(b)
	return b
}

// FromBytes decodes a big-endian two's-complement integer. The empty slice
// decodes to zero.
func FromBytes(b []byte) *Int {
	var z Int
	if len(b) == 0 {
		return &z
	}
	z.v.SetBytes(b)
	if b[0]&0x80 != 0 {
		t := new(big.Int).Lsh(bigOne, uint(8*len(b)))
		z.v.Sub(&z.v, t)
	}
	return &z
}

// FixedBytes returns z as an unsigned big-endian value padded to exactly n
// bytes. It returns a FormatError if z is negative or does not fit.
func (z *Int) FixedBytes(n int) ([]byte, error) {
	if z.v.Sign() < 0 {
		return nil, bytetree.NewFormatError("arith: %s cannot be encoded unsigned", z.v.String())
	}
	if z.v.BitLen() > 8*n {
		return nil, bytetree.NewFormatError("arith: %s does not fit in %d bytes", z.v.String(), n)
	}
	b := make([]byte, n)
	z.v.FillBytes(b)
	return b, nil
}

// ToByteTree returns z as a byte-tree leaf holding its minimal
// two's-complement encoding.
func (z *Int) ToByteTree() *bytetree.Tree {
	return bytetree.NewLeaf(z.Bytes())
}

// ToFixedByteTree returns z as a byte-tree leaf of exactly n bytes,
// unsigned big-endian. It fails with a FormatError if z is negative or does
// not fit.
func (z *Int) ToFixedByteTree(n int) (*bytetree.Tree, error) {
	b, err := z.FixedBytes(n)
	if err != nil {
		return nil, err
	}
	return bytetree.NewLeaf(b), nil
}

// FromByteTree decodes an Int from a byte-tree leaf holding a minimal
// two's-complement encoding. Inner nodes, empty leaves and non-minimal
// (overlong) encodings yield a FormatError.
func FromByteTree(t *bytetree.Tree) (*Int, error) {
	if !t.IsLeaf() {
		return nil, bytetree.NewFormatError("arith: expected a leaf, got a node of %d children", t.NumChildren())
	}
	b := t.Data()
	if len(b) == 0 {
		return nil, bytetree.NewFormatError("arith: empty integer encoding")
	}
	if len(b) > 1 && (b[0] == 0x00 && b[1]&0x80 == 0 || b[0] == 0xff && b[1]&0x80 != 0) {
		return nil, bytetree.NewFormatError("arith: overlong integer encoding")
	}
	return FromBytes(b), nil
}

// BoundedFromByteTree decodes an Int from a byte-tree leaf and checks that
// it lies in [lower, upper), returning a FormatError otherwise.
func BoundedFromByteTree(t *bytetree.Tree, lower, upper *Int) (*Int, error) {
	z, err := FromByteTree(t)
	if err != nil {
		return nil, err
	}
	if z.Cmp(lower) < 0 || z.Cmp(upper) >= 0 {
		return nil, bytetree.NewFormatError("arith: %s outside [%s, %s)", z, lower, upper)
	}
	return z, nil
}

// UnsafeFromByteTree decodes an Int from a byte-tree leaf without the
// minimality check. Only safe on trusted input.
func UnsafeFromByteTree(t *bytetree.Tree) (*Int, error) {
	if !t.IsLeaf() {
		return nil, bytetree.NewFormatError("arith: expected a leaf, got a node of %d children", t.NumChildren())
	}
	return FromBytes(t.Data()), nil
}

var bigOne = big.NewInt(1)
