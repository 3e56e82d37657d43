// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package arith

import (
	"math/big"
	"runtime"

	"github.com/consensys/gnark-crypto/field/pool"
	"golang.org/x/sync/errgroup"
)

// powProdBlockWidth is the number of bases grouped per precomputed table in
// the simultaneous exponentiation; each block costs 2^width table entries.
const powProdBlockWidth = 6

// ModPowProduct returns the power product a[0]^exps[0] * ... * a[n-1]^exps[n-1]
// modulo m, using simultaneous (Straus) exponentiation. Negative exponents
// are handled through modular inverses of the corresponding bases. The
// empty product is 1 mod m.
//
// In-memory sequences of at least the exponentiation threshold are split
// across worker goroutines; the result is identical to the sequential path.
func (a *Array) ModPowProduct(exps *Array, m *Int) *Int {
	a.checkUsable()
	exps.checkUsable()
	checkSameBackend(a.backend, exps.backend)
	a.checkSameLen(exps)
	checkModulus(m)

	n := a.store.len()
	if n == 0 {
		return New(1).Mod(m)
	}

	if a.backend.policy == Memory && int64(n) >= expParallelThreshold.Load() {
		return FromBig(a.modPowProductParallel(exps, m.big()))
	}

	// sequential, chunked so the file-backed policy keeps one batch
	// resident at a time
	chunk := a.backend.batchSize
	if chunk <= 0 {
		chunk = n
	}
	acc := big.NewInt(1)
	acc.Mod(acc, m.big())
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		bases, es := a.chunkBig(start, end), exps.chunkBig(start, end)
		p := modPowProductChunk(bases, es, m.big())
		acc.Mul(acc, p)
		acc.Mod(acc, m.big())
	}
	return FromBig(acc)
}

func (a *Array) modPowProductParallel(exps *Array, m *big.Int) *big.Int {
	n := a.store.len()
	nbChunks := runtime.NumCPU()
	if nbChunks > n {
		nbChunks = n
	}
	return a.modPowProductChunks(exps, m, nbChunks)
}

// modPowProductChunks splits [0, n) into nbChunks contiguous chunks, the
// remainder spread one iteration at a time over the leading chunks, so
// every chunk is non-empty for any 1 <= nbChunks <= n.
func (a *Array) modPowProductChunks(exps *Array, m *big.Int, nbChunks int) *big.Int {
	n := a.store.len()
	partials := make([]*big.Int, nbChunks)
	chunkSize := n / nbChunks
	extra := n - nbChunks*chunkSize

	var g errgroup.Group
	start := 0
	for c := 0; c < nbChunks; c++ {
		end := start + chunkSize
		if c < extra {
			end++
		}
		c, cStart, cEnd := c, start, end
		start = end
		g.Go(func() (err error) {
			// faults must reach the calling goroutine, not kill the process
			defer func() {
				if r := recover(); r != nil {
					if e, ok := r.(error); ok {
						err = e
						return
					}
					err = arithmeticFaultf("%v", r)
				}
			}()
			partials[c] = modPowProductChunk(a.chunkBig(cStart, cEnd), exps.chunkBig(cStart, cEnd), m)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		panic(err)
	}

	acc := big.NewInt(1)
	acc.Mod(acc, m)
	for _, p := range partials {
		acc.Mul(acc, p)
		acc.Mod(acc, m)
	}
	return acc
}

// chunkBig returns the underlying big values of indices [start, end). The
// results must not be mutated.
func (a *Array) chunkBig(start, end int) []*big.Int {
	out := make([]*big.Int, end-start)
	for i := range out {
		out[i] = a.store.get(start + i).big()
	}
	return out
}

// modPowProductChunk computes the power product of one chunk by Straus's
// algorithm: bases are grouped in blocks, all subset products of a block
// are precomputed, and one squaring per exponent bit is shared by every
// base.
func modPowProductChunk(bases, exps []*big.Int, m *big.Int) *big.Int {
	n := len(bases)
	if n == 0 {
		r := big.NewInt(1)
		return r.Mod(r, m)
	}
	if n == 1 {
		return modPowProductSequential(bases, exps, m)
	}

	// normalize: reduce bases, flip negative exponents through inverses
	nb := make([]*big.Int, n)
	ne := make([]*big.Int, n)
	maxBits := 0
	for i := range bases {
		b := new(big.Int).Mod(bases[i], m)
		e := exps[i]
		if e.Sign() < 0 {
			if b.ModInverse(b, m) == nil {
				panic(arithmeticFaultf("negative exponent of a non-invertible base"))
			}
			e = new(big.Int).Neg(e)
		}
		nb[i], ne[i] = b, e
		if bl := e.BitLen(); bl > maxBits {
			maxBits = bl
		}
	}

	// subset product tables, one per block of bases
	nbBlocks := (n + powProdBlockWidth - 1) / powProdBlockWidth
	tables := make([][]*big.Int, nbBlocks)
	for b := range tables {
		start := b * powProdBlockWidth
		width := min(powProdBlockWidth, n-start)
		table := make([]*big.Int, 1<<width)
		table[0] = big.NewInt(1)
		for j := 0; j < width; j++ {
			bit := 1 << j
			for k := 0; k < bit; k++ {
				t := new(big.Int).Mul(table[k], nb[start+j])
				table[k|bit] = t.Mod(t, m)
			}
		}
		tables[b] = table
	}

	acc := big.NewInt(1)
	acc.Mod(acc, m)
	for bit := maxBits - 1; bit >= 0; bit-- {
		acc.Mul(acc, acc)
		acc.Mod(acc, m)
		for b := range tables {
			start := b * powProdBlockWidth
			width := min(powProdBlockWidth, n-start)
			idx := 0
			for j := 0; j < width; j++ {
				idx |= int(ne[start+j].Bit(bit)) << j
			}
			if idx != 0 {
				acc.Mul(acc, tables[b][idx])
				acc.Mod(acc, m)
			}
		}
	}
	return acc
}

// modPowProductSequential is the reference multiply-accumulate fallback. It
// must produce bit-for-bit the same result as modPowProductChunk.
func modPowProductSequential(bases, exps []*big.Int, m *big.Int) *big.Int {
	acc := big.NewInt(1)
	acc.Mod(acc, m)
	t := pool.BigInt.Get()
	defer pool.BigInt.Put(t)
	for i := range bases {
		modPowBig(t, bases[i], exps[i], m)
		acc.Mul(acc, t)
		acc.Mod(acc, m)
	}
	return acc
}
