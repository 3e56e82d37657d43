// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package arith

import "sync/atomic"

// Parallelization thresholds. Batched operations on in-memory sequences of
// at least this many elements are split across worker goroutines; parallel
// and sequential paths produce identical results. The file-backed policy
// always runs sequentially, its cost being dominated by I/O.

var (
	expParallelThreshold atomic.Int64
	mulParallelThreshold atomic.Int64
)

func init() {
	expParallelThreshold.Store(32)
	mulParallelThreshold.Store(1024)
}

// SetExpParallelThreshold sets the minimum number of elements for which
// batched modular exponentiations run in parallel. Non-positive disables
// parallel exponentiation.
func SetExpParallelThreshold(n int) {
	if n <= 0 {
		n = 1<<63 - 1
	}
	expParallelThreshold.Store(int64(n))
}

// SetMulParallelThreshold sets the minimum number of elements for which
// batched modular multiplications and additions run in parallel.
// Non-positive disables parallel multiplication.
func SetMulParallelThreshold(n int) {
	if n <= 0 {
		n = 1<<63 - 1
	}
	mulParallelThreshold.Store(int64(n))
}
