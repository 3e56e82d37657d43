// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package bigmod provides a modular big-integer arithmetic engine with
// pluggable storage backends for large homogeneous sequences.
//
// The engine is organized in three layers:
//   - arith: arbitrary-precision integers (arith.Int), fixed-length integer
//     sequences with bulk modular operations (arith.Array), and permutations
//     (arith.Permutation). Sequences and permutations support an in-memory
//     backend and a file-paged backend, selected per instance through an
//     arith.Backend context.
//   - bytetree: the recursive tagged binary format used to persist and
//     exchange every value above.
//   - logger: the configurable logger shared by all components.
package bigmod

import (
	"github.com/blang/semver/v4"
)

// Version of the bigmod module.
var Version = semver.MustParse("0.1.0")
