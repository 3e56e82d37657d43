// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package arith

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModPowProductMatchesSequential(t *testing.T) {
	source := testSource()
	m := RandomSafePrime(48, source, testConfidence)

	for name, b := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			for n := 1; n <= 40; n++ {
				bases := b.RandomArrayMod(n, m, source)
				exps := b.RandomArray(n, 48, source)

				got := bases.ModPowProduct(exps, m)

				want := modPowProductSequential(bases.chunkBig(0, n), exps.chunkBig(0, n), m.big())
				require.Equal(t, 0, got.BigInt().Cmp(want), "n = %d", n)

				bases.Free()
				exps.Free()
			}
		})
	}
}

func TestModPowProductChunkMatchesSequential(t *testing.T) {
	source := testSource()
	m := RandomSafePrime(32, source, testConfidence)

	for n := 1; n <= 20; n++ {
		bases := make([]*big.Int, n)
		exps := make([]*big.Int, n)
		for i := range bases {
			bases[i] = randomMod(m.big(), source)
			exps[i] = randomBits(32, source)
		}
		fast := modPowProductChunk(bases, exps, m.big())
		slow := modPowProductSequential(bases, exps, m.big())
		require.Equal(t, 0, fast.Cmp(slow), "n = %d", n)
	}
}

func TestModPowProductParallelMatchesSequential(t *testing.T) {
	t.Cleanup(func() { SetExpParallelThreshold(32) })

	source := testSource()
	m := RandomSafePrime(48, source, testConfidence)
	b := NewMemoryBackend()
	bases := b.RandomArrayMod(300, m, source)
	defer bases.Free()
	exps := b.RandomArray(300, 48, source)
	defer exps.Free()

	SetExpParallelThreshold(0) // disable
	sequential := bases.ModPowProduct(exps, m)

	SetExpParallelThreshold(2)
	parallel := bases.ModPowProduct(exps, m)

	assert.True(t, sequential.Equal(parallel))
}

func TestModPowProductChunkSplitCoversAllSizes(t *testing.T) {
	source := testSource()
	m := RandomSafePrime(32, source, testConfidence)
	b := NewMemoryBackend()

	// every (size, chunk count) pair must yield non-empty in-range chunks,
	// including counts close to the size (one worker per element or nearly)
	for n := 1; n <= 40; n++ {
		bases := b.RandomArrayMod(n, m, source)
		exps := b.RandomArray(n, 32, source)

		want := modPowProductSequential(bases.chunkBig(0, n), exps.chunkBig(0, n), m.big())
		for _, nbChunks := range []int{1, 2, 3, n - 1, n, 32} {
			if nbChunks < 1 || nbChunks > n {
				continue
			}
			got := bases.modPowProductChunks(exps, m.big(), nbChunks)
			require.Equal(t, 0, got.Cmp(want), "n = %d, nbChunks = %d", n, nbChunks)
		}

		bases.Free()
		exps.Free()
	}
}

func TestModPowProductParallelFaultReachesCaller(t *testing.T) {
	t.Cleanup(func() { SetExpParallelThreshold(32) })
	SetExpParallelThreshold(2)

	m := New(101)
	b := NewMemoryBackend()
	bases := b.NewArray(intSlice(0, 7, 11))
	defer bases.Free()
	exps := b.NewArray(intSlice(-5, 4, 9))
	defer exps.Free()

	defer func() {
		r := recover()
		require.NotNil(t, r)
		_, isFault := r.(ArithmeticFault)
		assert.True(t, isFault, "expected an ArithmeticFault, got %T", r)
	}()
	bases.ModPowProduct(exps, m)
}

func TestModPowProductNegativeExponents(t *testing.T) {
	m := New(101)
	b := NewMemoryBackend()

	bases := b.NewArray(intSlice(3, 7, 11))
	defer bases.Free()
	exps := b.NewArray(intSlice(5, -4, 9))
	defer exps.Free()

	got := bases.ModPowProduct(exps, m)

	inv7, err := New(7).ModInverse(m)
	require.NoError(t, err)
	want := New(3).ModPow(New(5), m).
		ModMul(inv7.ModPow(New(4), m), m).
		ModMul(New(11).ModPow(New(9), m), m)
	assert.True(t, got.Equal(want))

	// non-invertible base with a negative exponent faults
	zeros := b.NewArray(intSlice(0, 7, 11))
	defer zeros.Free()
	negExps := b.NewArray(intSlice(-5, 4, 9))
	defer negExps.Free()
	assert.Panics(t, func() { zeros.ModPowProduct(negExps, m) })
}

func TestModPowProductKnownValue(t *testing.T) {
	m := New(1000)
	b := NewMemoryBackend()
	bases := b.NewArray(intSlice(2, 3, 5))
	defer bases.Free()
	exps := b.NewArray(intSlice(10, 4, 3))
	defer exps.Free()

	// 2^10 * 3^4 * 5^3 = 1024 * 81 * 125 = 10368000
	got := bases.ModPowProduct(exps, m)
	assert.Equal(t, int64(10368000%1000), got.Int64())
}
