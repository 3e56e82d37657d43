// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package arith implements the modular big-integer arithmetic engine:
// arbitrary-precision integers (Int), fixed-length integer sequences with
// bulk modular operations (Array) and permutations (Permutation), with an
// in-memory and a file-paged storage backend selected per instance through
// a Backend context.
package arith

import (
	"math/big"

	"github.com/consensys/bigmod/bytetree"
)

// Int is an immutable arbitrary-precision signed integer. Every operation
// returns a fresh value; an Int is never modified after construction, so
// values can be shared freely.
//
// Operations taking a modulus require it to be positive; a non-positive
// modulus is a caller bug and panics with an ArithmeticFault.
type Int struct {
	v big.Int
}

// New returns the Int with value x.
func New(x int64) *Int {
	var z Int
	z.v.SetInt64(x)
	return &z
}

// FromBig returns the Int with the value of x. x is copied.
func FromBig(x *big.Int) *Int {
	var z Int
	z.v.Set(x)
	return &z
}

// Random returns a uniformly random non-negative integer of at most bits
// bits.
func Random(bits int, source RandomSource) *Int {
	var z Int
	z.v.Set(randomBits(bits, source))
	return &z
}

// RandomMod returns an integer statistically close to uniform in [0, m).
func RandomMod(m *Int, source RandomSource) *Int {
	checkModulus(m)
	var z Int
	z.v.Set(randomMod(&m.v, source))
	return &z
}

// FromString parses s in the given base (2 to 62, or 0 for automatic
// detection as in the Go standard library). Invalid digits for the base
// yield a FormatError.
func FromString(s string, base int) (*Int, error) {
	var z Int
	if _, ok := z.v.SetString(s, base); !ok {
		return nil, bytetree.NewFormatError("arith: %q is not a valid base %d integer", s, base)
	}
	return &z, nil
}

// big returns the underlying value. The result must not be mutated.
func (z *Int) big() *big.Int {
	return &z.v
}

// BigInt returns a copy of z as a math/big integer.
func (z *Int) BigInt() *big.Int {
	return new(big.Int).Set(&z.v)
}

// Sign returns -1, 0 or 1 depending on the sign of z.
func (z *Int) Sign() int {
	return z.v.Sign()
}

// BitLen returns the length of the absolute value of z in bits.
func (z *Int) BitLen() int {
	return z.v.BitLen()
}

// Bit returns the i-th bit of the absolute value of z.
func (z *Int) Bit(i int) uint {
	return z.v.Bit(i)
}

// Cmp compares z and o numerically and returns -1, 0 or 1.
func (z *Int) Cmp(o *Int) int {
	return z.v.Cmp(&o.v)
}

// Equal reports whether z and o have the same numeric value.
func (z *Int) Equal(o *Int) bool {
	return z.v.Cmp(&o.v) == 0
}

// Int64 returns the value of z; the result is undefined if z does not fit
// in an int64.
func (z *Int) Int64() int64 {
	return z.v.Int64()
}

func (z *Int) String() string {
	return z.v.String()
}

// Add returns z + o.
func (z *Int) Add(o *Int) *Int {
	var r Int
	r.v.Add(&z.v, &o.v)
	return &r
}

// Sub returns z - o.
func (z *Int) Sub(o *Int) *Int {
	var r Int
	r.v.Sub(&z.v, &o.v)
	return &r
}

// Mul returns z * o.
func (z *Int) Mul(o *Int) *Int {
	var r Int
	r.v.Mul(&z.v, &o.v)
	return &r
}

// Div returns the quotient of z by o, truncated towards zero.
func (z *Int) Div(o *Int) *Int {
	if o.v.Sign() == 0 {
		panic(arithmeticFaultf("division by zero"))
	}
	var r Int
	r.v.Quo(&z.v, &o.v)
	return &r
}

// Mod returns the Euclidean remainder of z modulo m, in [0, m).
func (z *Int) Mod(m *Int) *Int {
	checkModulus(m)
	var r Int
	r.v.Mod(&z.v, &m.v)
	return &r
}

// Neg returns -z.
func (z *Int) Neg() *Int {
	var r Int
	r.v.Neg(&z.v)
	return &r
}

// Abs returns the absolute value of z.
func (z *Int) Abs() *Int {
	var r Int
	r.v.Abs(&z.v)
	return &r
}

// Lsh returns z shifted left by n bits.
func (z *Int) Lsh(n uint) *Int {
	var r Int
	r.v.Lsh(&z.v, n)
	return &r
}

// ModAdd returns (z + o) mod m.
func (z *Int) ModAdd(o, m *Int) *Int {
	checkModulus(m)
	var r Int
	r.v.Add(&z.v, &o.v)
	r.v.Mod(&r.v, &m.v)
	return &r
}

// ModSub returns (z - o) mod m.
func (z *Int) ModSub(o, m *Int) *Int {
	checkModulus(m)
	var r Int
	r.v.Sub(&z.v, &o.v)
	r.v.Mod(&r.v, &m.v)
	return &r
}

// ModMul returns (z * o) mod m.
func (z *Int) ModMul(o, m *Int) *Int {
	checkModulus(m)
	var r Int
	r.v.Mul(&z.v, &o.v)
	r.v.Mod(&r.v, &m.v)
	return &r
}

// ModNeg returns -z mod m.
func (z *Int) ModNeg(m *Int) *Int {
	checkModulus(m)
	var r Int
	r.v.Neg(&z.v)
	r.v.Mod(&r.v, &m.v)
	return &r
}

// ModPow returns z^e mod m. A negative exponent is handled through the
// modular inverse of z; if that inverse does not exist the call panics with
// an ArithmeticFault.
func (z *Int) ModPow(e, m *Int) *Int {
	checkModulus(m)
	base := &z.v
	exp := &e.v
	if e.v.Sign() < 0 {
		inv := new(big.Int).ModInverse(&z.v, &m.v)
		if inv == nil {
			panic(arithmeticFaultf("negative exponent of a non-invertible base"))
		}
		base = inv
		exp = new(big.Int).Neg(&e.v)
	}
	var r Int
	r.v.Exp(base, exp, &m.v)
	return &r
}

// ModInverse returns the multiplicative inverse of z modulo m, or
// ErrNonInvertible if z and m share a common factor.
func (z *Int) ModInverse(m *Int) (*Int, error) {
	checkModulus(m)
	var r Int
	if r.v.ModInverse(&z.v, &m.v) == nil {
		return nil, ErrNonInvertible
	}
	return &r, nil
}

func checkModulus(m *Int) {
	if m.v.Sign() <= 0 {
		panic(arithmeticFaultf("non-positive modulus %s", m.v.String()))
	}
}
