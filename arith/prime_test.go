// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package arith

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfidence = 20

func TestProbablyPrimeMatchesReference(t *testing.T) {
	source := testSource()
	for n := int64(-3); n < 2000; n++ {
		got := New(n).ProbablyPrime(source, testConfidence)
		want := n > 0 && big.NewInt(n).ProbablyPrime(testConfidence)
		assert.Equal(t, want, got, "n = %d", n)
	}
}

func TestProbablyPrimeLarge(t *testing.T) {
	source := testSource()

	// 2^127 - 1 is a Mersenne prime
	p := new(big.Int).Lsh(big.NewInt(1), 127)
	p.Sub(p, big.NewInt(1))
	assert.True(t, FromBig(p).ProbablyPrime(source, testConfidence))

	// a Carmichael number fools Fermat but not Miller-Rabin
	assert.False(t, New(561).ProbablyPrime(source, testConfidence))
	assert.False(t, New(41041).ProbablyPrime(source, testConfidence))
}

func TestIsSafePrime(t *testing.T) {
	source := testSource()
	cases := map[int64]bool{
		2:  false,
		5:  true,
		7:  true,
		9:  false,
		11: true,
		13: false, // (13-1)/2 = 6 is composite
		23: true,
	}
	for n, want := range cases {
		assert.Equal(t, want, New(n).IsSafePrime(source, testConfidence), "n = %d", n)
	}
}

func TestNextPrime(t *testing.T) {
	source := testSource()
	cases := map[int64]int64{
		-5: 2,
		0:  2,
		1:  2,
		2:  3,
		3:  5,
		13: 17,
		89: 97,
	}
	for n, want := range cases {
		assert.Equal(t, want, New(n).NextPrime(source, testConfidence).Int64(), "n = %d", n)
	}
}

func TestNextSafePrime(t *testing.T) {
	source := testSource()
	cases := map[int64]int64{
		0:  5,
		5:  7,
		7:  11,
		11: 23,
	}
	for n, want := range cases {
		assert.Equal(t, want, New(n).NextSafePrime(source, testConfidence).Int64(), "n = %d", n)
	}
}

func TestRandomSafePrime(t *testing.T) {
	source := testSource()
	for _, bits := range []int{3, 8, 32} {
		p := RandomSafePrime(bits, source, testConfidence)
		require.Equal(t, bits, p.BitLen(), "bits = %d", bits)
		assert.True(t, p.IsSafePrime(source, testConfidence))
	}

	assert.Panics(t, func() { RandomSafePrime(2, source, testConfidence) })
}
