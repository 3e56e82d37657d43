// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package arith

import (
	"bufio"
	"io"
	"os"

	"github.com/consensys/bigmod/bytetree"
)

// Iterator is a forward-only, single-pass cursor over the elements of an
// Array, in index order. It does not own the Array; Close releases any open
// reader and must be called when done. Next returns nil once the sequence
// is exhausted; corrupted underlying data panics with an ArithmeticFault.
type Iterator interface {
	HasNext() bool
	Next() *Int
	Close() error
}

// Iterator returns a cursor over the elements of a. For the file-backed
// policy the cursor streams the on-disk byte-tree representation through
// its own file handle, without materializing the array.
func (a *Array) Iterator() Iterator {
	a.checkUsable()
	switch s := a.store.(type) {
	case *fileStore:
		return newFileIterator(s.path)
	case *memStore:
		return &memIterator{elems: s.elems}
	default:
		panic(arithmeticFaultf("unknown store %T", a.store))
	}
}

type memIterator struct {
	elems []*Int
	idx   int
}

func (it *memIterator) HasNext() bool {
	return it.idx < len(it.elems)
}

func (it *memIterator) Next() *Int {
	if it.idx >= len(it.elems) {
		return nil
	}
	v := it.elems[it.idx]
	it.idx++
	return v
}

func (it *memIterator) Close() error {
	it.elems = nil
	return nil
}

type fileIterator struct {
	f      *os.File
	r      *bufio.Reader
	n      int
	idx    int
	batch  []*Int
	pos    int
	closed bool
}

func newFileIterator(path string) *fileIterator {
	f, err := os.Open(path)
	if err != nil {
		panic(arithmeticFaultf("opening array file: %v", err))
	}
	h, err := readArrayHeader(f)
	if err != nil {
		f.Close() //nolint:errcheck
		panic(arithmeticFaultf("reading array header: %v", err))
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close() //nolint:errcheck
		panic(arithmeticFaultf("rewinding array file: %v", err))
	}
	return &fileIterator{
		f: f,
		r: bufio.NewReader(f),
		n: int(h.N),
	}
}

func (it *fileIterator) HasNext() bool {
	return !it.closed && it.idx < it.n
}

func (it *fileIterator) Next() *Int {
	if !it.HasNext() {
		return nil
	}
	if it.pos >= len(it.batch) {
		it.readBatch()
	}
	v := it.batch[it.pos]
	it.pos++
	it.idx++
	return v
}

func (it *fileIterator) readBatch() {
	t, _, err := bytetree.UnsafeReadFrom(it.r)
	if err != nil {
		panic(arithmeticFaultf("reading array batch: %v", err))
	}
	if t.IsLeaf() || t.NumChildren() == 0 {
		panic(arithmeticFaultf("malformed array batch"))
	}
	batch := make([]*Int, t.NumChildren())
	for i := range batch {
		if batch[i], err = UnsafeFromByteTree(t.Child(i)); err != nil {
			panic(arithmeticFaultf("decoding array element: %v", err))
		}
	}
	it.batch = batch
	it.pos = 0
}

func (it *fileIterator) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	it.batch = nil
	return it.f.Close()
}
