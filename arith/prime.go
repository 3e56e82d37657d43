// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package arith

import (
	"math/big"

	"github.com/consensys/bigmod/logger"
)

// ProbablyPrime runs confidence rounds of the Miller-Rabin test with
// witnesses drawn from source. The probability that a composite passes is
// at most 4^-confidence.
func (z *Int) ProbablyPrime(source RandomSource, confidence int) bool {
	if z.v.Sign() <= 0 {
		return false
	}
	if z.v.BitLen() <= 2 {
		v := z.v.Int64()
		return v == 2 || v == 3
	}
	if z.v.Bit(0) == 0 {
		return false
	}

	// n-1 = d * 2^s with d odd
	nMinusOne := new(big.Int).Sub(&z.v, bigOne)
	d := new(big.Int).Set(nMinusOne)
	s := 0
	for d.Bit(0) == 0 {
		d.Rsh(d, 1)
		s++
	}

	nMinusThree := new(big.Int).Sub(&z.v, big.NewInt(3))
	x := new(big.Int)
	for round := 0; round < confidence; round++ {
		// witness uniform in [2, n-2]
		a := randomMod(nMinusThree, source)
		a.Add(a, big.NewInt(2))

		x.Exp(a, d, &z.v)
		if x.Cmp(bigOne) == 0 || x.Cmp(nMinusOne) == 0 {
			continue
		}
		composite := true
		for i := 0; i < s-1; i++ {
			x.Mul(x, x)
			x.Mod(x, &z.v)
			if x.Cmp(nMinusOne) == 0 {
				composite = false
				break
			}
		}
		if composite {
			return false
		}
	}
	return true
}

// IsSafePrime reports whether z is a safe prime, i.e. z and (z-1)/2 are
// both prime.
func (z *Int) IsSafePrime(source RandomSource, confidence int) bool {
	if !z.ProbablyPrime(source, confidence) {
		return false
	}
	var half Int
	half.v.Sub(&z.v, bigOne)
	half.v.Rsh(&half.v, 1)
	return half.ProbablyPrime(source, confidence)
}

// NextPrime returns the smallest probable prime strictly greater than z.
func (z *Int) NextPrime(source RandomSource, confidence int) *Int {
	var c Int
	c.v.Add(&z.v, bigOne)
	if c.v.Cmp(big.NewInt(2)) <= 0 {
		return New(2)
	}
	if c.v.Bit(0) == 0 {
		c.v.Add(&c.v, bigOne)
	}
	two := big.NewInt(2)
	for !c.ProbablyPrime(source, confidence) {
		c.v.Add(&c.v, two)
	}
	return &c
}

// NextSafePrime returns the smallest probable safe prime strictly greater
// than z.
func (z *Int) NextSafePrime(source RandomSource, confidence int) *Int {
	var c Int
	c.v.Add(&z.v, bigOne)
	if c.v.Cmp(big.NewInt(5)) < 0 {
		c.v.SetInt64(5)
	}
	if c.v.Bit(0) == 0 {
		c.v.Add(&c.v, bigOne)
	}
	two := big.NewInt(2)
	for !c.IsSafePrime(source, confidence) {
		c.v.Add(&c.v, two)
	}
	return &c
}

// RandomSafePrime returns a random probable safe prime of exactly bits
// bits. bits must be at least 3.
func RandomSafePrime(bits int, source RandomSource, confidence int) *Int {
	if bits < 3 {
		panic(arithmeticFaultf("safe prime needs at least 3 bits, got %d", bits))
	}
	log := logger.Logger().With().Str("component", "prime").Logger()

	q := new(big.Int)
	p := new(big.Int)
	for attempt := 1; ; attempt++ {
		// p = 2q+1 has exactly `bits` bits when q has bits-1 bits with the
		// top bit set; force q odd so p = 3 mod 4
		q.Set(randomBits(bits-1, source))
		q.SetBit(q, bits-2, 1)
		q.SetBit(q, 0, 1)

		p.Lsh(q, 1)
		p.Add(p, bigOne)

		pi := FromBig(p)
		if pi.IsSafePrime(source, confidence) {
			log.Debug().Int("bits", bits).Int("attempts", attempt).Msg("safe prime found")
			return pi
		}
	}
}
