// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package bytetree

import (
	"bytes"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeafRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)
	properties.Property("FromBytes(Bytes(leaf)) == leaf", prop.ForAll(
		func(data []byte) bool {
			leaf := NewLeaf(data)
			decoded, err := FromBytes(leaf.Bytes())
			return err == nil && decoded.Equal(leaf)
		},
		gen.SliceOf(gen.UInt8()),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestNodeRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)
	properties.Property("FromBytes(Bytes(node)) == node", prop.ForAll(
		func(payloads [][]byte) bool {
			children := make([]*Tree, len(payloads))
			for i, p := range payloads {
				children[i] = NewLeaf(p)
			}
			node := NewNode(NewNode(children...), NewLeaf([]byte{42}))
			decoded, err := FromBytes(node.Bytes())
			return err == nil && decoded.Equal(node)
		},
		gen.SliceOf(gen.SliceOf(gen.UInt8())),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestSize(t *testing.T) {
	node := NewNode(NewLeaf([]byte{1, 2, 3}), NewNode(), NewLeaf(nil))
	assert.Equal(t, int64(len(node.Bytes())), node.Size())
}

func TestFromBytesRejectsMalformed(t *testing.T) {
	cases := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"truncated header", []byte{1, 0, 0}},
		{"invalid tag", []byte{7, 0, 0, 0, 0}},
		{"leaf length beyond input", []byte{1, 0, 0, 0, 9, 1, 2}},
		{"node count beyond input", []byte{0, 0, 0, 0, 3, 1, 0, 0, 0, 0}},
		{"trailing bytes", append(NewLeaf([]byte{5}).Bytes(), 0xff)},
		{"huge leaf length", []byte{1, 0xff, 0xff, 0xff, 0xff}},
		{"huge node count", []byte{0, 0xff, 0xff, 0xff, 0xff}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromBytes(tc.data)
			require.Error(t, err)
			var fe *FormatError
			require.ErrorAs(t, err, &fe)
		})
	}
}

func TestUnsafeFromBytesSkipsTrailingCheck(t *testing.T) {
	data := append(NewLeaf([]byte{5}).Bytes(), 0xff, 0xee)
	_, err := FromBytes(data)
	require.Error(t, err)

	tree, err := UnsafeFromBytes(data)
	require.NoError(t, err)
	assert.True(t, tree.IsLeaf())
	assert.Equal(t, []byte{5}, tree.Data())
}

func TestUnsafeReadFrom(t *testing.T) {
	node := NewNode(NewLeaf([]byte{1}), NewNode(NewLeaf([]byte{2, 3})))
	encoded := node.Bytes()

	tree, n, err := UnsafeReadFrom(bytes.NewReader(encoded))
	require.NoError(t, err)
	assert.Equal(t, int64(len(encoded)), n)
	assert.True(t, tree.Equal(node))

	// truncated input surfaces as an error, never as a wrong tree
	_, _, err = UnsafeReadFrom(bytes.NewReader(encoded[:len(encoded)-1]))
	require.Error(t, err)
}

func TestEmptyLeafAndEmptyNodeAreDistinct(t *testing.T) {
	leaf := NewLeaf(nil)
	node := NewNode()
	assert.False(t, leaf.Equal(node))

	decodedLeaf, err := FromBytes(leaf.Bytes())
	require.NoError(t, err)
	decodedNode, err := FromBytes(node.Bytes())
	require.NoError(t, err)
	assert.True(t, decodedLeaf.IsLeaf())
	assert.False(t, decodedNode.IsLeaf())
}
