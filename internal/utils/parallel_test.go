// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package utils

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParallelizeCoversAllIterations(t *testing.T) {
	for _, n := range []int{1, 2, 7, 100, 1000} {
		hits := make([]int32, n)
		Parallelize(n, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
		})
		for i, h := range hits {
			assert.Equal(t, int32(1), h, "n = %d, index %d", n, i)
		}
	}
}

func TestParallelizePropagatesWorkerPanic(t *testing.T) {
	assert.PanicsWithValue(t, "boom", func() {
		Parallelize(100, func(start, end int) {
			for i := start; i < end; i++ {
				if i == 57 {
					panic("boom")
				}
			}
		})
	})
}
