// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package arith

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/fxamacker/cbor/v2"

	"github.com/consensys/bigmod/bytetree"
)

// On-disk layout of a file-backed array:
//
//	[batch 0][batch 1]...[batch k-1][CBOR header][8-byte BE header offset]
//
// where each batch is the byte-tree node of up to batchSize element leaves.
// The header is written last, once all batch offsets are known, and located
// through the fixed-size trailer, zip-directory style.

const arrayFormatVersion = 1

type arrayHeader struct {
	Version   uint32   `cbor:"1,keyasint"`
	N         uint64   `cbor:"2,keyasint"`
	BatchSize uint32   `cbor:"3,keyasint"`
	Offsets   []uint64 `cbor:"4,keyasint"`
}

// fileStore pages the sequence to a temporary file in batches. At most one
// batch is resident at a time.
type fileStore struct {
	backend   *Backend
	path      string
	f         *os.File
	n         int
	batchSize int
	offsets   []uint64

	cache    []*Int // resident batch
	cacheIdx int
	gone     bool
}

func (s *fileStore) len() int {
	return s.n
}

func (s *fileStore) get(i int) *Int {
	b := i / s.batchSize
	if b != s.cacheIdx {
		s.loadBatch(b)
	}
	return s.cache[i%s.batchSize]
}

func (s *fileStore) loadBatch(b int) {
	if _, err := s.f.Seek(int64(s.offsets[b]), io.SeekStart); err != nil {
		panic(arithmeticFaultf("seeking array batch %d: %v", b, err))
	}
	t, _, err := bytetree.UnsafeReadFrom(bufio.NewReader(s.f))
	if err != nil {
		panic(arithmeticFaultf("reading array batch %d: %v", b, err))
	}
	cache := make([]*Int, t.NumChildren())
	for i := range cache {
		if cache[i], err = UnsafeFromByteTree(t.Child(i)); err != nil {
			panic(arithmeticFaultf("decoding array batch %d: %v", b, err))
		}
	}
	s.cache = cache
	s.cacheIdx = b
}

func (s *fileStore) free() {
	s.gone = true
	s.cache = nil
	s.f.Close() //nolint:errcheck // file is about to be removed
	if err := os.Remove(s.path); err != nil {
		s.backend.log.Warn().Err(err).Str("path", s.path).Msg("removing array file")
		return
	}
	s.backend.log.Debug().Str("path", s.path).Msg("array file released")
}

func (s *fileStore) isFreed() bool {
	return s.gone
}

// fileBuilder streams element batches to a temp file as they arrive.
type fileBuilder struct {
	backend   *Backend
	f         *os.File
	w         *bufio.Writer
	batchSize int

	pending []*Int
	offsets []uint64
	written uint64
	count   int
}

func newFileBuilder(b *Backend, n int) *fileBuilder {
	f, err := b.tempFile("array")
	if err != nil {
		panic(arithmeticFaultf("creating array file: %v", err))
	}
	b.log.Debug().Str("path", f.Name()).Int("n", n).Msg("spilling array to disk")
	return &fileBuilder{
		backend:   b,
		f:         f,
		w:         bufio.NewWriter(f),
		batchSize: b.batchSize,
		pending:   make([]*Int, 0, min(n, b.batchSize)),
	}
}

func (bd *fileBuilder) append(v *Int) {
	bd.pending = append(bd.pending, v)
	bd.count++
	if len(bd.pending) == bd.batchSize {
		bd.flush()
	}
}

func (bd *fileBuilder) flush() {
	if len(bd.pending) == 0 {
		return
	}
	children := make([]*bytetree.Tree, len(bd.pending))
	for i, v := range bd.pending {
		children[i] = v.ToByteTree()
	}
	bd.offsets = append(bd.offsets, bd.written)
	n, err := bytetree.NewNode(children...).WriteTo(bd.w)
	if err != nil {
		panic(arithmeticFaultf("writing array batch: %v", err))
	}
	bd.written += uint64(n)
	bd.pending = bd.pending[:0]
}

func (bd *fileBuilder) finish() store {
	bd.flush()

	enc, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err) // static encoder options
	}
	header, err := enc.Marshal(arrayHeader{
		Version:   arrayFormatVersion,
		N:         uint64(bd.count),
		BatchSize: uint32(bd.batchSize),
		Offsets:   bd.offsets,
	})
	if err != nil {
		panic(arithmeticFaultf("encoding array header: %v", err))
	}
	if _, err := bd.w.Write(header); err != nil {
		panic(arithmeticFaultf("writing array header: %v", err))
	}
	var trailer [8]byte
	binary.BigEndian.PutUint64(trailer[:], bd.written)
	if _, err := bd.w.Write(trailer[:]); err != nil {
		panic(arithmeticFaultf("writing array trailer: %v", err))
	}
	if err := bd.w.Flush(); err != nil {
		panic(arithmeticFaultf("flushing array file: %v", err))
	}

	return &fileStore{
		backend:   bd.backend,
		path:      bd.f.Name(),
		f:         bd.f,
		n:         bd.count,
		batchSize: bd.batchSize,
		offsets:   bd.offsets,
		cacheIdx:  -1,
	}
}

// readHeader decodes the header of a file-backed array file, for readers
// that open the file independently of the owning store.
func readArrayHeader(f *os.File) (arrayHeader, error) {
	var h arrayHeader
	end, err := f.Seek(-8, io.SeekEnd)
	if err != nil {
		return h, err
	}
	var trailer [8]byte
	if _, err := io.ReadFull(f, trailer[:]); err != nil {
		return h, err
	}
	start := int64(binary.BigEndian.Uint64(trailer[:]))
	if start < 0 || start > end {
		return h, bytetree.NewFormatError("arith: array header offset %d out of bounds", start)
	}
	raw := make([]byte, end-start)
	if _, err := f.ReadAt(raw, start); err != nil {
		return h, err
	}
	if err := cbor.Unmarshal(raw, &h); err != nil {
		return h, err
	}
	return h, nil
}
