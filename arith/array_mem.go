// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package arith

// memStore keeps the whole sequence in memory.
type memStore struct {
	elems []*Int
	gone  bool
}

func (s *memStore) len() int {
	return len(s.elems)
}

func (s *memStore) get(i int) *Int {
	return s.elems[i]
}

func (s *memStore) free() {
	s.elems = nil
	s.gone = true
}

func (s *memStore) isFreed() bool {
	return s.gone
}

type memBuilder struct {
	elems []*Int
}

func (b *memBuilder) append(v *Int) {
	b.elems = append(b.elems, v)
}

func (b *memBuilder) finish() store {
	return &memStore{elems: b.elems}
}
