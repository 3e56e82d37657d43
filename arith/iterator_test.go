// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package arith

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIteratorYieldsIndexOrder(t *testing.T) {
	source := testSource()
	m := New(7919)
	for name, b := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			a := b.RandomArrayMod(10, m, source)
			defer a.Free()

			it := a.Iterator()
			defer it.Close() //nolint:errcheck

			for i := 0; i < 10; i++ {
				require.True(t, it.HasNext(), "index %d", i)
				assert.True(t, it.Next().Equal(a.Get(i)), "index %d", i)
			}
			assert.False(t, it.HasNext())
		})
	}
}

func TestIteratorExhaustionReturnsNil(t *testing.T) {
	for name, b := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			a := b.NewArray(intSlice(1, 2))
			defer a.Free()

			it := a.Iterator()
			defer it.Close() //nolint:errcheck
			it.Next()
			it.Next()

			// exhaustion is not an error, repeatedly
			assert.Nil(t, it.Next())
			assert.Nil(t, it.Next())
			assert.False(t, it.HasNext())
		})
	}
}

func TestIteratorEmptyArray(t *testing.T) {
	for name, b := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			a := b.NewArray(nil)
			defer a.Free()

			it := a.Iterator()
			assert.False(t, it.HasNext())
			assert.Nil(t, it.Next())
			require.NoError(t, it.Close())
			require.NoError(t, it.Close()) // close is idempotent
		})
	}
}

func TestIteratorStreamsWithoutOwningTheArray(t *testing.T) {
	fb, err := NewFileBackend(t.TempDir(), 4)
	require.NoError(t, err)
	a := fb.RandomArray(11, 64, testSource())

	// two independent cursors over the same array
	it1 := a.Iterator()
	it2 := a.Iterator()
	for i := 0; i < 11; i++ {
		assert.True(t, it1.Next().Equal(it2.Next()))
	}
	require.NoError(t, it1.Close())
	require.NoError(t, it2.Close())
	a.Free()
}

func TestIteratorFaultsOnCorruptedFile(t *testing.T) {
	fb, err := NewFileBackend(t.TempDir(), 2)
	require.NoError(t, err)
	a := fb.NewArray(intSlice(1, 2, 3, 4, 5))
	defer a.Free()

	fs, ok := a.store.(*fileStore)
	require.True(t, ok)

	// clobber the first batch on disk
	f, err := os.OpenFile(fs.path, os.O_WRONLY, 0)
	require.NoError(t, err)
	_, err = f.WriteAt([]byte{0xba, 0xad}, 0)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	it := a.Iterator()
	defer it.Close() //nolint:errcheck
	defer func() {
		r := recover()
		require.NotNil(t, r)
		_, isFault := r.(ArithmeticFault)
		assert.True(t, isFault, "expected an ArithmeticFault, got %T", r)
	}()
	it.Next()
}
