// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package arith

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/consensys/bigmod/logger"
)

// StoragePolicy selects where an Array or Permutation keeps its elements.
type StoragePolicy uint8

const (
	// Memory keeps the whole sequence in addressable memory.
	Memory StoragePolicy = iota
	// FileBacked pages the sequence to a temporary file in fixed-size
	// batches; at most one batch is resident at a time.
	FileBacked
)

func (p StoragePolicy) String() string {
	switch p {
	case Memory:
		return "memory"
	case FileBacked:
		return "file"
	default:
		return fmt.Sprintf("StoragePolicy(%d)", uint8(p))
	}
}

// DefaultBatchSize is the number of elements per on-disk batch when the
// caller does not choose one.
const DefaultBatchSize = 4096

// Backend is a storage-policy context. Array and Permutation factories hang
// off a Backend, so both policies can be used side by side in one process;
// there is no mutable process-wide mode to save and restore.
//
// Values created under different policies must not be combined: doing so
// panics with a BackendMismatchFault.
type Backend struct {
	policy    StoragePolicy
	batchSize int
	dir       string
	log       zerolog.Logger
}

// NewMemoryBackend returns a Backend keeping all sequences in memory.
func NewMemoryBackend() *Backend {
	return &Backend{
		policy: Memory,
		log:    logger.Logger().With().Str("backend", Memory.String()).Logger(),
	}
}

// NewFileBackend returns a Backend paging sequences to temporary files
// under dir, batchSize elements per batch. An empty dir uses a fresh
// directory under the system temp directory; a non-positive batchSize uses
// DefaultBatchSize.
func NewFileBackend(dir string, batchSize int) (*Backend, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if dir == "" {
		var err error
		if dir, err = os.MkdirTemp("", "bigmod-"); err != nil {
			return nil, fmt.Errorf("creating backend temp directory: %w", err)
		}
	}
	b := &Backend{
		policy:    FileBacked,
		batchSize: batchSize,
		dir:       dir,
		log: logger.Logger().With().
			Str("backend", FileBacked.String()).
			Str("dir", dir).
			Logger(),
	}
	b.log.Debug().Int("batchSize", batchSize).Msg("file backend ready")
	return b, nil
}

// Policy returns the storage policy of the backend.
func (b *Backend) Policy() StoragePolicy {
	return b.policy
}

// BatchSize returns the number of elements per on-disk batch, 0 for the
// memory policy.
func (b *Backend) BatchSize() int {
	return b.batchSize
}

func (b *Backend) tempFile(kind string) (*os.File, error) {
	return os.CreateTemp(b.dir, "bigmod-"+kind+"-*.bt")
}

var defaultBackend = NewMemoryBackend()

// DefaultBackend returns the shared in-memory backend.
func DefaultBackend() *Backend {
	return defaultBackend
}

func checkSameBackend(a, b *Backend) {
	if a.policy != b.policy {
		panic(backendMismatchFaultf("combining %s-backed and %s-backed values", a.policy, b.policy))
	}
}
