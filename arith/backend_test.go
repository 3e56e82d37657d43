// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package arith

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackendPolicies(t *testing.T) {
	mem := NewMemoryBackend()
	assert.Equal(t, Memory, mem.Policy())
	assert.Equal(t, 0, mem.BatchSize())

	fb, err := NewFileBackend(t.TempDir(), 0)
	require.NoError(t, err)
	assert.Equal(t, FileBacked, fb.Policy())
	assert.Equal(t, DefaultBatchSize, fb.BatchSize())

	assert.Equal(t, "memory", Memory.String())
	assert.Equal(t, "file", FileBacked.String())
}

func TestDefaultBackendIsMemory(t *testing.T) {
	assert.Equal(t, Memory, DefaultBackend().Policy())

	a := DefaultBackend().NewArray(intSlice(1, 2, 3))
	defer a.Free()
	assert.Equal(t, 3, a.Len())
}

func TestBackendsWorkSideBySide(t *testing.T) {
	// both policies in one process, no global mode to save and restore
	fb, err := NewFileBackend(t.TempDir(), 2)
	require.NoError(t, err)
	mem := NewMemoryBackend()

	m := New(97)
	source := testSource()

	onFile := fb.RandomArrayMod(9, m, source)
	defer onFile.Free()
	inMem := mem.RandomArrayMod(9, m, source)
	defer inMem.Free()

	// identical pipelines under each policy give identical results
	fileRes := onFile.ModPowScalar(New(5), m)
	defer fileRes.Free()

	mirrored := mem.Concat(onFile) // read file-backed, store in memory
	defer mirrored.Free()
	assert.True(t, mirrored.Equal(onFile))

	memRes := mirrored.ModPowScalar(New(5), m)
	defer memRes.Free()
	assert.True(t, fileRes.Equal(memRes))
}
