// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package arith

import (
	"math/big"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/gnark-crypto/field/pool"

	"github.com/consensys/bigmod/bytetree"
	"github.com/consensys/bigmod/internal/utils"
)

// Array is an ordered, fixed-length sequence of Int. Arrays are created
// through the factories of a Backend, which decides whether the elements
// live in memory or are paged to a temporary file.
//
// An Array is exclusively owned by its creator and is not safe for
// concurrent use. Every Array must eventually be released with Free;
// releasing twice (or releasing a nil Array) is a no-op. Operations
// deriving a new Array return a fresh owned value that must be freed
// independently of its inputs.
//
// Binary operations require equal lengths and operands created under the
// same storage policy; violations panic with an ArithmeticFault or a
// BackendMismatchFault respectively. Read-only comparisons (Equal,
// EqualsAll, Cmp) work across policies.
type Array struct {
	backend *Backend
	store   store
}

// store is the storage strategy behind an Array.
type store interface {
	len() int
	get(i int) *Int
	free()
	isFreed() bool
}

// builder accumulates the elements of a new Array in index order.
type builder interface {
	append(v *Int)
	finish() store
}

func (b *Backend) newBuilder(n int) builder {
	if b.policy == FileBacked {
		return newFileBuilder(b, n)
	}
	return &memBuilder{elems: make([]*Int, 0, n)}
}

// NewArray returns an Array holding the given values. The slice is copied;
// the (immutable) elements are shared.
func (b *Backend) NewArray(values []*Int) *Array {
	bd := b.newBuilder(len(values))
	for _, v := range values {
		bd.append(v)
	}
	return &Array{backend: b, store: bd.finish()}
}

// Fill returns an Array of n copies of v.
func (b *Backend) Fill(n int, v *Int) *Array {
	bd := b.newBuilder(n)
	for i := 0; i < n; i++ {
		bd.append(v)
	}
	return &Array{backend: b, store: bd.finish()}
}

// Concat returns the concatenation of the given arrays, preserving order.
func (b *Backend) Concat(arrays ...*Array) *Array {
	n := 0
	for _, a := range arrays {
		a.checkUsable()
		n += a.Len()
	}
	bd := b.newBuilder(n)
	for _, a := range arrays {
		for i := 0; i < a.Len(); i++ {
			bd.append(a.Get(i))
		}
	}
	return &Array{backend: b, store: bd.finish()}
}

// RandomArray returns an Array of n uniformly random non-negative integers
// of at most bits bits.
func (b *Backend) RandomArray(n, bits int, source RandomSource) *Array {
	bd := b.newBuilder(n)
	for i := 0; i < n; i++ {
		bd.append(Random(bits, source))
	}
	return &Array{backend: b, store: bd.finish()}
}

// RandomArrayMod returns an Array of n integers statistically close to
// uniform in [0, m).
func (b *Backend) RandomArrayMod(n int, m *Int, source RandomSource) *Array {
	checkModulus(m)
	bd := b.newBuilder(n)
	for i := 0; i < n; i++ {
		bd.append(RandomMod(m, source))
	}
	return &Array{backend: b, store: bd.finish()}
}

// ArrayFromByteTree decodes an Array from a byte-tree node of exactly n
// leaves, each a minimal two's-complement integer in [lower, upper). Any
// violation yields a FormatError. This is the entry point for untrusted
// data.
func (b *Backend) ArrayFromByteTree(t *bytetree.Tree, n int, lower, upper *Int) (*Array, error) {
	if t.IsLeaf() {
		return nil, bytetree.NewFormatError("arith: expected a node, got a leaf")
	}
	if t.NumChildren() != n {
		return nil, bytetree.NewFormatError("arith: expected %d elements, got %d", n, t.NumChildren())
	}
	bd := b.newBuilder(n)
	for i := 0; i < n; i++ {
		v, err := BoundedFromByteTree(t.Child(i), lower, upper)
		if err != nil {
			return nil, err
		}
		bd.append(v)
	}
	return &Array{backend: b, store: bd.finish()}, nil
}

// UnsafeArrayFromByteTree decodes an Array from a byte-tree node of exactly
// n leaves, skipping the range and minimality checks. Only safe on trusted
// input.
func (b *Backend) UnsafeArrayFromByteTree(t *bytetree.Tree, n int) (*Array, error) {
	if t.IsLeaf() {
		return nil, bytetree.NewFormatError("arith: expected a node, got a leaf")
	}
	if t.NumChildren() != n {
		return nil, bytetree.NewFormatError("arith: expected %d elements, got %d", n, t.NumChildren())
	}
	bd := b.newBuilder(n)
	for i := 0; i < n; i++ {
		v, err := UnsafeFromByteTree(t.Child(i))
		if err != nil {
			return nil, err
		}
		bd.append(v)
	}
	return &Array{backend: b, store: bd.finish()}, nil
}

// Len returns the number of elements.
func (a *Array) Len() int {
	a.checkUsable()
	return a.store.len()
}

// Get returns the i-th element. For the file-backed policy the containing
// batch is paged in and stays resident, so sequential access reads each
// batch once.
func (a *Array) Get(i int) *Int {
	a.checkUsable()
	if i < 0 || i >= a.store.len() {
		panic(arithmeticFaultf("index %d out of range [0, %d)", i, a.store.len()))
	}
	return a.store.get(i)
}

// Free releases the resources behind the Array. For the file-backed policy
// this closes and removes the temporary file. Free is idempotent and may be
// called on a nil Array.
func (a *Array) Free() {
	if a == nil || a.store == nil || a.store.isFreed() {
		return
	}
	a.store.free()
}

func (a *Array) checkUsable() {
	if a.store == nil || a.store.isFreed() {
		panic(arithmeticFaultf("use of a freed array"))
	}
}

func (a *Array) checkSameLen(o *Array) {
	if a.store.len() != o.store.len() {
		panic(arithmeticFaultf("length mismatch: %d != %d", a.store.len(), o.store.len()))
	}
}

// mapIndexed builds a new Array under a's backend, element i computed by f
// into a fresh big.Int. In-memory arrays of at least threshold elements are
// processed in parallel; f must therefore be safe to call concurrently for
// distinct indices.
func (a *Array) mapIndexed(threshold int64, f func(i int, r *big.Int)) *Array {
	n := a.store.len()
	if a.backend.policy == Memory && int64(n) >= threshold {
		elems := make([]*Int, n)
		utils.Parallelize(n, func(start, end int) {
			for i := start; i < end; i++ {
				var r Int
				f(i, &r.v)
				elems[i] = &r
			}
		})
		return &Array{backend: a.backend, store: &memStore{elems: elems}}
	}
	bd := a.backend.newBuilder(n)
	for i := 0; i < n; i++ {
		var r Int
		f(i, &r.v)
		bd.append(&r)
	}
	return &Array{backend: a.backend, store: bd.finish()}
}

// ModAdd returns the element-wise sum of a and o modulo m.
func (a *Array) ModAdd(o *Array, m *Int) *Array {
	a.checkUsable()
	o.checkUsable()
	checkSameBackend(a.backend, o.backend)
	a.checkSameLen(o)
	checkModulus(m)
	return a.mapIndexed(mulParallelThreshold.Load(), func(i int, r *big.Int) {
		r.Add(a.store.get(i).big(), o.store.get(i).big())
		r.Mod(r, m.big())
	})
}

// ModMul returns the element-wise product of a and o modulo m.
func (a *Array) ModMul(o *Array, m *Int) *Array {
	a.checkUsable()
	o.checkUsable()
	checkSameBackend(a.backend, o.backend)
	a.checkSameLen(o)
	checkModulus(m)
	return a.mapIndexed(mulParallelThreshold.Load(), func(i int, r *big.Int) {
		r.Mul(a.store.get(i).big(), o.store.get(i).big())
		r.Mod(r, m.big())
	})
}

// ModNeg returns the element-wise negation of a modulo m.
func (a *Array) ModNeg(m *Int) *Array {
	a.checkUsable()
	checkModulus(m)
	return a.mapIndexed(mulParallelThreshold.Load(), func(i int, r *big.Int) {
		r.Neg(a.store.get(i).big())
		r.Mod(r, m.big())
	})
}

// ModInverse returns the element-wise multiplicative inverse of a modulo m.
// An element sharing a common factor with m panics with an ArithmeticFault.
func (a *Array) ModInverse(m *Int) *Array {
	a.checkUsable()
	checkModulus(m)
	return a.mapIndexed(expParallelThreshold.Load(), func(i int, r *big.Int) {
		if r.ModInverse(a.store.get(i).big(), m.big()) == nil {
			panic(arithmeticFaultf("element %d is not invertible", i))
		}
	})
}

// ModPow returns the element-wise power a[i]^exps[i] mod m. Negative
// exponents are handled through modular inverses.
func (a *Array) ModPow(exps *Array, m *Int) *Array {
	a.checkUsable()
	exps.checkUsable()
	checkSameBackend(a.backend, exps.backend)
	a.checkSameLen(exps)
	checkModulus(m)
	return a.mapIndexed(expParallelThreshold.Load(), func(i int, r *big.Int) {
		modPowBig(r, a.store.get(i).big(), exps.store.get(i).big(), m.big())
	})
}

// ModPowScalar returns the element-wise power a[i]^e mod m.
func (a *Array) ModPowScalar(e, m *Int) *Array {
	a.checkUsable()
	checkModulus(m)
	return a.mapIndexed(expParallelThreshold.Load(), func(i int, r *big.Int) {
		modPowBig(r, a.store.get(i).big(), e.big(), m.big())
	})
}

// modPowBig sets r to base^e mod m, routing negative exponents through the
// modular inverse of the base.
func modPowBig(r, base, e, m *big.Int) {
	if e.Sign() < 0 {
		inv := pool.BigInt.Get()
		defer pool.BigInt.Put(inv)
		if inv.ModInverse(base, m) == nil {
			panic(arithmeticFaultf("negative exponent of a non-invertible base"))
		}
		negE := pool.BigInt.Get()
		defer pool.BigInt.Put(negE)
		negE.Neg(e)
		r.Exp(inv, negE, m)
		return
	}
	r.Exp(base, e, m)
}

// Sum returns the sum of all elements (no reduction).
func (a *Array) Sum() *Int {
	a.checkUsable()
	var r Int
	for i := 0; i < a.store.len(); i++ {
		r.v.Add(&r.v, a.store.get(i).big())
	}
	return &r
}

// Product returns the product of all elements (no reduction). The empty
// product is 1.
func (a *Array) Product() *Int {
	a.checkUsable()
	var r Int
	r.v.SetInt64(1)
	for i := 0; i < a.store.len(); i++ {
		r.v.Mul(&r.v, a.store.get(i).big())
	}
	return &r
}

// ModSum returns the sum of all elements modulo m.
func (a *Array) ModSum(m *Int) *Int {
	a.checkUsable()
	checkModulus(m)
	acc := pool.BigInt.Get()
	defer pool.BigInt.Put(acc)
	acc.SetInt64(0)
	for i := 0; i < a.store.len(); i++ {
		acc.Add(acc, a.store.get(i).big())
		acc.Mod(acc, m.big())
	}
	return FromBig(acc)
}

// ModProduct returns the product of all elements modulo m. The empty
// product is 1 mod m.
func (a *Array) ModProduct(m *Int) *Int {
	a.checkUsable()
	checkModulus(m)
	acc := pool.BigInt.Get()
	defer pool.BigInt.Put(acc)
	acc.SetInt64(1)
	acc.Mod(acc, m.big())
	for i := 0; i < a.store.len(); i++ {
		acc.Mul(acc, a.store.get(i).big())
		acc.Mod(acc, m.big())
	}
	return FromBig(acc)
}

// ModProducts returns the running prefix products modulo m:
// out[i] = a[0]*...*a[i] mod m.
func (a *Array) ModProducts(m *Int) *Array {
	a.checkUsable()
	checkModulus(m)
	n := a.store.len()
	acc := pool.BigInt.Get()
	defer pool.BigInt.Put(acc)
	acc.SetInt64(1)
	bd := a.backend.newBuilder(n)
	for i := 0; i < n; i++ {
		acc.Mul(acc, a.store.get(i).big())
		acc.Mod(acc, m.big())
		bd.append(FromBig(acc))
	}
	return &Array{backend: a.backend, store: bd.finish()}
}

// ModInnerProduct returns the inner product sum(a[i]*o[i]) modulo m.
func (a *Array) ModInnerProduct(o *Array, m *Int) *Int {
	a.checkUsable()
	o.checkUsable()
	checkSameBackend(a.backend, o.backend)
	a.checkSameLen(o)
	checkModulus(m)
	acc := pool.BigInt.Get()
	defer pool.BigInt.Put(acc)
	t := pool.BigInt.Get()
	defer pool.BigInt.Put(t)
	acc.SetInt64(0)
	for i := 0; i < a.store.len(); i++ {
		t.Mul(a.store.get(i).big(), o.store.get(i).big())
		acc.Add(acc, t)
		acc.Mod(acc, m.big())
	}
	return FromBig(acc)
}

// Extract returns the elements whose index is set in mask, preserving
// relative order.
func (a *Array) Extract(mask *bitset.BitSet) *Array {
	a.checkUsable()
	n := a.store.len()
	bd := a.backend.newBuilder(int(mask.Count()))
	for i := 0; i < n; i++ {
		if mask.Test(uint(i)) {
			bd.append(a.store.get(i))
		}
	}
	return &Array{backend: a.backend, store: bd.finish()}
}

// CopyOfRange returns the sub-array of indices [start, end).
func (a *Array) CopyOfRange(start, end int) *Array {
	a.checkUsable()
	if start < 0 || end < start || end > a.store.len() {
		panic(arithmeticFaultf("invalid range [%d, %d) of %d elements", start, end, a.store.len()))
	}
	bd := a.backend.newBuilder(end - start)
	for i := start; i < end; i++ {
		bd.append(a.store.get(i))
	}
	return &Array{backend: a.backend, store: bd.finish()}
}

// ShiftPush drops the last element and inserts v at the front:
// out = [v, a[0], ..., a[n-2]].
func (a *Array) ShiftPush(v *Int) *Array {
	a.checkUsable()
	n := a.store.len()
	bd := a.backend.newBuilder(n)
	if n > 0 {
		bd.append(v)
		for i := 0; i < n-1; i++ {
			bd.append(a.store.get(i))
		}
	}
	return &Array{backend: a.backend, store: bd.finish()}
}

// EqualsAll returns the element-wise comparison of a and o as a bit set:
// bit i is set when a[i] == o[i].
func (a *Array) EqualsAll(o *Array) *bitset.BitSet {
	a.checkUsable()
	o.checkUsable()
	a.checkSameLen(o)
	n := a.store.len()
	bs := bitset.New(uint(n))
	for i := 0; i < n; i++ {
		bs.SetTo(uint(i), a.store.get(i).Equal(o.store.get(i)))
	}
	return bs
}

// Equal reports whether a and o hold the same elements in the same order.
// Arrays of different lengths are unequal. Works across storage policies.
func (a *Array) Equal(o *Array) bool {
	a.checkUsable()
	o.checkUsable()
	if a.store.len() != o.store.len() {
		return false
	}
	for i := 0; i < a.store.len(); i++ {
		if !a.store.get(i).Equal(o.store.get(i)) {
			return false
		}
	}
	return true
}

// Cmp compares a and o lexicographically. Both arrays must have the same
// length.
func (a *Array) Cmp(o *Array) int {
	a.checkUsable()
	o.checkUsable()
	a.checkSameLen(o)
	for i := 0; i < a.store.len(); i++ {
		if c := a.store.get(i).Cmp(o.store.get(i)); c != 0 {
			return c
		}
	}
	return 0
}

// Permute returns the Array b with b[p(i)] = a[i].
//
// Destinations are scattered, so under the file-backed policy the result is
// staged in memory before it is written back out in batches: permuting is
// O(n) resident elements, unlike the element-wise operations.
func (a *Array) Permute(p *Permutation) *Array {
	return a.permute(p, false)
}

// PermuteInverse returns the Array b with b[i] = a[p(i)], i.e. Permute with
// the inverse of p. Permute followed by PermuteInverse with the same
// permutation reproduces the original array.
func (a *Array) PermuteInverse(p *Permutation) *Array {
	return a.permute(p, true)
}

func (a *Array) permute(p *Permutation, inverse bool) *Array {
	a.checkUsable()
	p.checkUsable()
	checkSameBackend(a.backend, p.backend)
	n := a.store.len()
	if p.Len() != n {
		panic(arithmeticFaultf("permutation of size %d applied to %d elements", p.Len(), n))
	}
	table := p.table.slice()
	elems := make([]*Int, n)
	if inverse {
		for i := 0; i < n; i++ {
			elems[i] = a.store.get(int(table[i]))
		}
	} else {
		// scan a in index order so the file-backed policy pages each
		// batch in exactly once
		for i := 0; i < n; i++ {
			elems[table[i]] = a.store.get(i)
		}
	}
	bd := a.backend.newBuilder(n)
	for _, v := range elems {
		bd.append(v)
	}
	return &Array{backend: a.backend, store: bd.finish()}
}

// ToByteTree returns the Array as a byte-tree node with one leaf per
// element, each holding the minimal two's-complement encoding.
func (a *Array) ToByteTree() *bytetree.Tree {
	a.checkUsable()
	n := a.store.len()
	children := make([]*bytetree.Tree, n)
	for i := 0; i < n; i++ {
		children[i] = a.store.get(i).ToByteTree()
	}
	return bytetree.NewNode(children...)
}
