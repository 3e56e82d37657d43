// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package arith

import (
	"encoding/binary"
	"math/big"
	"sort"

	"github.com/consensys/bigmod/bytetree"
)

// Permutation is a bijection on [0, n). Like Array, a Permutation is
// created through the factories of a Backend, owns its backing resources
// exclusively, and must be released with Free (idempotent, nil-safe).
// Equality is defined over the mapped indices, not the storage policy or
// encoding.
type Permutation struct {
	backend *Backend
	table   permTable
}

// permTable is the storage strategy behind a Permutation.
type permTable interface {
	len() int
	// slice returns the full forward table; for the file-backed policy
	// this pages the table in. The result must not be mutated.
	slice() []uint64
	free()
	isFreed() bool
}

func (b *Backend) newPermutation(table []uint64) *Permutation {
	if b.policy == FileBacked {
		return &Permutation{backend: b, table: newFileTable(b, table)}
	}
	return &Permutation{backend: b, table: &memTable{table: table}}
}

// Identity returns the identity permutation on [0, n).
func (b *Backend) Identity(n int) *Permutation {
	table := make([]uint64, n)
	for i := range table {
		table[i] = uint64(i)
	}
	return b.newPermutation(table)
}

// RandomPermutation returns a permutation of [0, n) statistically close to
// uniform. statDistParam is the statistical distance parameter in bits used
// when sampling each swap index.
func (b *Backend) RandomPermutation(n int, source RandomSource, statDistParam int) *Permutation {
	table := make([]uint64, n)
	for i := range table {
		table[i] = uint64(i)
	}
	// Fisher-Yates with rejection-free sampling: j statistically close to
	// uniform in [0, i+1)
	bound := new(big.Int)
	for i := n - 1; i > 0; i-- {
		bound.SetInt64(int64(i + 1))
		j := randomIndex(bound, source, statDistParam)
		table[i], table[j] = table[j], table[i]
	}
	return b.newPermutation(table)
}

func randomIndex(bound *big.Int, source RandomSource, statDistParam int) int {
	r := randomBits(bound.BitLen()+statDistParam, source)
	r.Mod(r, bound)
	return int(r.Int64())
}

// PermutationFromByteTree decodes a Permutation from a byte-tree node of
// 8-byte big-endian index leaves. A table that is not a bijection on
// [0, n) yields a FormatError.
func (b *Backend) PermutationFromByteTree(t *bytetree.Tree) (*Permutation, error) {
	if t.IsLeaf() {
		return nil, bytetree.NewFormatError("arith: expected a node, got a leaf")
	}
	n := t.NumChildren()
	table := make([]uint64, n)
	seen := make([]bool, n)
	for i := range table {
		c := t.Child(i)
		if !c.IsLeaf() || len(c.Data()) != 8 {
			return nil, bytetree.NewFormatError("arith: index %d is not an 8-byte leaf", i)
		}
		v := binary.BigEndian.Uint64(c.Data())
		if v >= uint64(n) || seen[v] {
			return nil, bytetree.NewFormatError("arith: table is not a bijection on [0, %d)", n)
		}
		seen[v] = true
		table[i] = v
	}
	return b.newPermutation(table), nil
}

// Len returns the size of the domain.
func (p *Permutation) Len() int {
	p.checkUsable()
	return p.table.len()
}

// Map returns the image of i.
func (p *Permutation) Map(i int) int {
	p.checkUsable()
	if i < 0 || i >= p.table.len() {
		panic(arithmeticFaultf("index %d out of range [0, %d)", i, p.table.len()))
	}
	return int(p.table.slice()[i])
}

// Inverse returns the inverse permutation as a new owned instance.
func (p *Permutation) Inverse() *Permutation {
	p.checkUsable()
	table := p.table.slice()
	inv := make([]uint64, len(table))
	for i, v := range table {
		inv[v] = uint64(i)
	}
	return p.backend.newPermutation(inv)
}

// Shrink returns the permutation on [0, k) induced by the first k
// pre-images: element i maps to the rank of its image among the images of
// 0..k-1. Shrinking keeps a truncated array and a truncated permutation
// consistent.
func (p *Permutation) Shrink(k int) *Permutation {
	p.checkUsable()
	if k < 0 || k > p.table.len() {
		panic(arithmeticFaultf("shrink size %d out of range [0, %d]", k, p.table.len()))
	}
	table := p.table.slice()
	byImage := make([]int, k)
	for i := range byImage {
		byImage[i] = i
	}
	sort.Slice(byImage, func(a, b int) bool {
		return table[byImage[a]] < table[byImage[b]]
	})
	shrunk := make([]uint64, k)
	for rank, i := range byImage {
		shrunk[i] = uint64(rank)
	}
	return p.backend.newPermutation(shrunk)
}

// Equal reports whether p and o map every index identically. Works across
// storage policies.
func (p *Permutation) Equal(o *Permutation) bool {
	p.checkUsable()
	o.checkUsable()
	if p.table.len() != o.table.len() {
		return false
	}
	pt, ot := p.table.slice(), o.table.slice()
	for i := range pt {
		if pt[i] != ot[i] {
			return false
		}
	}
	return true
}

// ToByteTree returns the permutation as a byte-tree node of 8-byte
// big-endian index leaves.
func (p *Permutation) ToByteTree() *bytetree.Tree {
	p.checkUsable()
	table := p.table.slice()
	children := make([]*bytetree.Tree, len(table))
	for i, v := range table {
		leaf := make([]byte, 8)
		binary.BigEndian.PutUint64(leaf, v)
		children[i] = bytetree.NewLeaf(leaf)
	}
	return bytetree.NewNode(children...)
}

// Free releases the resources behind the Permutation. Idempotent, nil-safe.
func (p *Permutation) Free() {
	if p == nil || p.table == nil || p.table.isFreed() {
		return
	}
	p.table.free()
}

func (p *Permutation) checkUsable() {
	if p.table == nil || p.table.isFreed() {
		panic(arithmeticFaultf("use of a freed permutation"))
	}
}

// memTable keeps the forward table in memory.
type memTable struct {
	table []uint64
	gone  bool
}

func (t *memTable) len() int        { return len(t.table) }
func (t *memTable) slice() []uint64 { return t.table }
func (t *memTable) isFreed() bool   { return t.gone }

func (t *memTable) free() {
	t.table = nil
	t.gone = true
}
