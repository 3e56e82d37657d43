// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package bytetree implements the recursive tagged binary format used to
// persist and exchange bigmod values.
//
// A tree is either a leaf carrying raw bytes or a node carrying an ordered
// sequence of child trees. On the wire a leaf is encoded as the tag byte 1,
// a big-endian uint32 payload length and the payload; a node is encoded as
// the tag byte 0, a big-endian uint32 child count and the encoded children.
//
// Two decoding entry points are provided. FromBytes validates every length
// field against the remaining input and must be used on untrusted data.
// UnsafeFromBytes and UnsafeReadFrom trust the embedded length fields and
// trade those checks for speed; they are only safe on data the process
// wrote itself.
package bytetree

import (
	"bytes"
	"encoding/binary"
	"io"
)

const (
	tagNode byte = 0
	tagLeaf byte = 1

	headerSize = 5 // tag + uint32 length or count
)

// Tree is a node of the byte-tree format: either a leaf holding raw bytes
// or an inner node holding an ordered sequence of children.
type Tree struct {
	data     []byte
	children []*Tree
	leaf     bool
}

// NewLeaf returns a leaf holding data. The slice is retained, not copied.
func NewLeaf(data []byte) *Tree {
	return &Tree{data: data, leaf: true}
}

// NewNode returns an inner node with the given children.
func NewNode(children ...*Tree) *Tree {
	return &Tree{children: children}
}

// IsLeaf reports whether t is a leaf.
func (t *Tree) IsLeaf() bool {
	return t.leaf
}

// Data returns the payload of a leaf, or nil for an inner node.
func (t *Tree) Data() []byte {
	return t.data
}

// NumChildren returns the number of children of an inner node, 0 for a leaf.
func (t *Tree) NumChildren() int {
	return len(t.children)
}

// Child returns the i-th child of an inner node.
func (t *Tree) Child(i int) *Tree {
	return t.children[i]
}

// Children returns the children of an inner node, nil for a leaf.
func (t *Tree) Children() []*Tree {
	return t.children
}

// Size returns the encoded size of t in bytes.
func (t *Tree) Size() int64 {
	size := int64(headerSize)
	if t.leaf {
		return size + int64(len(t.data))
	}
	for _, c := range t.children {
		size += c.Size()
	}
	return size
}

// WriteTo writes the encoding of t to w.
func (t *Tree) WriteTo(w io.Writer) (int64, error) {
	var header [headerSize]byte
	if t.leaf {
		header[0] = tagLeaf
		binary.BigEndian.PutUint32(header[1:], uint32(len(t.data)))
		if _, err := w.Write(header[:]); err != nil {
			return 0, err
		}
		n, err := w.Write(t.data)
		return int64(headerSize + n), err
	}

	header[0] = tagNode
	binary.BigEndian.PutUint32(header[1:], uint32(len(t.children)))
	if _, err := w.Write(header[:]); err != nil {
		return 0, err
	}
	written := int64(headerSize)
	for _, c := range t.children {
		n, err := c.WriteTo(w)
		written += n
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// Bytes returns the encoding of t.
func (t *Tree) Bytes() []byte {
	var buf bytes.Buffer
	buf.Grow(int(t.Size()))
	t.WriteTo(&buf) //nolint:errcheck // bytes.Buffer does not fail
	return buf.Bytes()
}

// Equal reports whether t and other encode the same tree.
func (t *Tree) Equal(other *Tree) bool {
	if t.leaf != other.leaf {
		return false
	}
	if t.leaf {
		return bytes.Equal(t.data, other.data)
	}
	if len(t.children) != len(other.children) {
		return false
	}
	for i := range t.children {
		if !t.children[i].Equal(other.children[i]) {
			return false
		}
	}
	return true
}
