// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package arith

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJacobiZeroZero(t *testing.T) {
	assert.Equal(t, 0, New(0).Jacobi(New(0)))
}

func TestJacobiMatchesReferenceForOddModuli(t *testing.T) {
	for n := int64(1); n < 200; n += 2 {
		for a := int64(-50); a < 50; a++ {
			got := New(a).Jacobi(New(n))
			want := big.Jacobi(big.NewInt(a), big.NewInt(n))
			assert.Equal(t, want, got, "(%d/%d)", a, n)
		}
	}
}

func TestJacobiKnownValues(t *testing.T) {
	cases := []struct {
		a, n int64
		want int
	}{
		{0, 1, 1},   // (0/1) = 1 by convention
		{1, 0, 1},   // (±1/0) = 1
		{-1, 0, 1},
		{2, 0, 0},
		{0, 3, 0},
		{1, 3, 1},
		{2, 3, -1},
		{2, 7, 1},   // 2 is a QR mod 7 (3^2 = 2)
		{3, 5, -1},
		{4, 5, 1},
		{6, 9, 0},   // shared factor 3
		{2, 2, 0},   // both even
		{1, 2, 1},   // Kronecker: 1 odd, 1 mod 8
		{3, 2, -1},  // Kronecker: 3 mod 8
		{7, 2, 1},   // Kronecker: 7 mod 8
		{1, -1, 1},
		{-1, -1, -1},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, New(tc.a).Jacobi(New(tc.n)), "(%d/%d)", tc.a, tc.n)
	}
}

func TestJacobiMultiplicative(t *testing.T) {
	// (a/n)(b/n) == (ab/n) for odd n
	for n := int64(3); n < 60; n += 2 {
		for a := int64(0); a < 20; a++ {
			for b := int64(0); b < 20; b++ {
				left := New(a).Jacobi(New(n)) * New(b).Jacobi(New(n))
				right := New(a * b).Jacobi(New(n))
				assert.Equal(t, right, left, "a=%d b=%d n=%d", a, b, n)
			}
		}
	}
}
