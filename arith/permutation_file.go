// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package arith

import (
	"bufio"
	"os"

	"github.com/consensys/bigmod/internal/ioutils"
	"github.com/consensys/bigmod/internal/utils"
)

// fileTable keeps the forward table of a permutation in a temporary file,
// integer-compressed. The on-disk layout is one width byte (4 or 8)
// followed by the compressed index stream; indices that fit in 32 bits use
// the narrower stream. Lookups page the whole table in: a table is one
// machine word per index, a small fraction of the bignum payloads the
// batched array storage is sized for.
type fileTable struct {
	backend *Backend
	path    string
	n       int

	cache []uint64 // paged-in table, dropped on free
	gone  bool
}

func newFileTable(b *Backend, table []uint64) *fileTable {
	f, err := b.tempFile("perm")
	if err != nil {
		panic(arithmeticFaultf("creating permutation file: %v", err))
	}
	w := bufio.NewWriter(f)

	wide := false
	for _, v := range table {
		if v > 1<<32-1 {
			wide = true
			break
		}
	}
	if wide {
		if _, err := w.Write([]byte{8}); err != nil {
			panic(arithmeticFaultf("writing permutation file: %v", err))
		}
		err = ioutils.CompressAndWriteUints64(w, table)
	} else {
		if _, err := w.Write([]byte{4}); err != nil {
			panic(arithmeticFaultf("writing permutation file: %v", err))
		}
		_, err = ioutils.CompressAndWriteUints32(w, utils.ConvertSlice[uint32](table), nil)
	}
	if err != nil {
		panic(arithmeticFaultf("writing permutation file: %v", err))
	}
	if err := w.Flush(); err != nil {
		panic(arithmeticFaultf("flushing permutation file: %v", err))
	}
	if err := f.Close(); err != nil {
		panic(arithmeticFaultf("closing permutation file: %v", err))
	}
	b.log.Debug().Str("path", f.Name()).Int("n", len(table)).Msg("spilling permutation to disk")

	return &fileTable{backend: b, path: f.Name(), n: len(table)}
}

func (t *fileTable) len() int {
	return t.n
}

func (t *fileTable) slice() []uint64 {
	if t.cache != nil {
		return t.cache
	}
	f, err := os.Open(t.path)
	if err != nil {
		panic(arithmeticFaultf("opening permutation file: %v", err))
	}
	defer f.Close() //nolint:errcheck // read-only handle
	r := bufio.NewReader(f)

	width, err := r.ReadByte()
	if err != nil {
		panic(arithmeticFaultf("reading permutation file: %v", err))
	}
	switch width {
	case 8:
		_, table, err := ioutils.ReadAndDecompressUints64(r)
		if err != nil {
			panic(arithmeticFaultf("reading permutation file: %v", err))
		}
		t.cache = table
	case 4:
		_, narrow, err := ioutils.ReadAndDecompressUints32(r)
		if err != nil {
			panic(arithmeticFaultf("reading permutation file: %v", err))
		}
		t.cache = utils.ConvertSlice[uint64](narrow)
	default:
		panic(arithmeticFaultf("permutation file has invalid width %d", width))
	}
	if len(t.cache) != t.n {
		panic(arithmeticFaultf("permutation file has %d indices, want %d", len(t.cache), t.n))
	}
	return t.cache
}

func (t *fileTable) free() {
	t.gone = true
	t.cache = nil
	if err := os.Remove(t.path); err != nil {
		t.backend.log.Warn().Err(err).Str("path", t.path).Msg("removing permutation file")
		return
	}
	t.backend.log.Debug().Str("path", t.path).Msg("permutation file released")
}

func (t *fileTable) isFreed() bool {
	return t.gone
}
