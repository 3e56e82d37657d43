// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package arith

import "math/big"

// Jacobi returns the Jacobi symbol (z/n), extended to arbitrary n by the
// Kronecker symbol convention: (z/0) is 1 when z is ±1 and 0 otherwise
// (in particular Jacobi(0, 0) == 0), (z/2) is 0 for even z and ±1
// depending on z mod 8, and a negative n contributes the sign of z.
// For odd positive n this is the usual Jacobi symbol.
func (z *Int) Jacobi(n *Int) int {
	a := new(big.Int).Set(&z.v)
	b := new(big.Int).Set(&n.v)

	if b.Sign() == 0 {
		if a.CmpAbs(bigOne) == 0 {
			return 1
		}
		return 0
	}
	if a.Bit(0) == 0 && b.Bit(0) == 0 {
		return 0
	}

	s := 1

	// strip the factors of two from b; each contributes (a/2)
	e := 0
	for b.Bit(0) == 0 {
		b.Rsh(b, 1)
		e++
	}
	if e%2 == 1 {
		// And with a negative a follows two's-complement semantics, so
		// this is a mod 8 in [0, 7]
		switch new(big.Int).And(a, big.NewInt(7)).Int64() {
		case 3, 5:
			s = -s
		}
	}

	if b.Sign() < 0 {
		b.Neg(b)
		if a.Sign() < 0 {
			s = -s
		}
	}
	if b.Cmp(bigOne) == 0 {
		return s
	}
	return s * big.Jacobi(a, b)
}
