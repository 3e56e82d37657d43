// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package bytetree

import (
	"encoding/binary"
	"io"
)

// maxDepth bounds recursion when decoding; deeper trees are rejected as
// malformed rather than exhausting the stack.
const maxDepth = 1 << 10

// FromBytes decodes a tree from data. Every length field is validated
// against the remaining input and the whole input must be consumed; any
// violation is a FormatError. This is the entry point for untrusted data.
func FromBytes(data []byte) (*Tree, error) {
	t, n, err := parse(data, 0, true)
	if err != nil {
		return nil, err
	}
	if n != len(data) {
		return nil, formatErrorf("bytetree: %d trailing bytes after tree", len(data)-n)
	}
	return t, nil
}

// UnsafeFromBytes decodes a tree from data without validating length fields
// beyond hard truncation, and ignores trailing bytes. Only safe on trusted
// input.
func UnsafeFromBytes(data []byte) (*Tree, error) {
	t, _, err := parse(data, 0, false)
	return t, err
}

func parse(data []byte, depth int, strict bool) (*Tree, int, error) {
	if depth > maxDepth {
		return nil, 0, formatErrorf("bytetree: tree deeper than %d", maxDepth)
	}
	if len(data) < headerSize {
		return nil, 0, formatErrorf("bytetree: truncated header: %d bytes", len(data))
	}
	tag := data[0]
	count := binary.BigEndian.Uint32(data[1:headerSize])

	switch tag {
	case tagLeaf:
		if strict && int64(count) > int64(len(data)-headerSize) {
			return nil, 0, formatErrorf("bytetree: leaf length %d exceeds remaining %d", count, len(data)-headerSize)
		}
		end := headerSize + int(count)
		if end > len(data) {
			return nil, 0, formatErrorf("bytetree: truncated leaf: need %d bytes, have %d", count, len(data)-headerSize)
		}
		return NewLeaf(data[headerSize:end:end]), end, nil

	case tagNode:
		// each child occupies at least headerSize bytes
		if strict && int64(count)*headerSize > int64(len(data)-headerSize) {
			return nil, 0, formatErrorf("bytetree: node count %d exceeds remaining %d bytes", count, len(data)-headerSize)
		}
		children := make([]*Tree, count)
		offset := headerSize
		for i := range children {
			child, n, err := parse(data[offset:], depth+1, strict)
			if err != nil {
				return nil, 0, err
			}
			children[i] = child
			offset += n
		}
		return NewNode(children...), offset, nil

	default:
		return nil, 0, formatErrorf("bytetree: invalid tag %#x", tag)
	}
}

// UnsafeReadFrom decodes a tree from r, trusting the embedded length
// fields. It returns the tree and the number of bytes consumed. Truncated
// input surfaces as io.ErrUnexpectedEOF (or io.EOF when nothing was read).
// Only safe on data the process wrote itself, such as its own temp files.
func UnsafeReadFrom(r io.Reader) (*Tree, int64, error) {
	return readFrom(r, 0)
}

func readFrom(r io.Reader, depth int) (*Tree, int64, error) {
	if depth > maxDepth {
		return nil, 0, formatErrorf("bytetree: tree deeper than %d", maxDepth)
	}
	var header [headerSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, 0, err
	}
	count := binary.BigEndian.Uint32(header[1:])

	switch header[0] {
	case tagLeaf:
		data := make([]byte, count)
		if _, err := io.ReadFull(r, data); err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return nil, headerSize, err
		}
		return NewLeaf(data), headerSize + int64(count), nil

	case tagNode:
		children := make([]*Tree, count)
		read := int64(headerSize)
		for i := range children {
			child, n, err := readFrom(r, depth+1)
			read += n
			if err != nil {
				if err == io.EOF {
					err = io.ErrUnexpectedEOF
				}
				return nil, read, err
			}
			children[i] = child
		}
		return NewNode(children...), read, nil

	default:
		return nil, headerSize, formatErrorf("bytetree: invalid tag %#x", header[0])
	}
}
