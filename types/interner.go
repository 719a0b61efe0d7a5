// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package types

import (
	"sync"
)

// Interner maps structurally identical types to a
// single representative value, so that interned
// types can be compared by identity. An Interner
// is safe for concurrent use.
//
// The zero Interner is ready to use.
type Interner struct {
	mu      sync.Mutex
	buckets map[Hash][]Type
	n       int
}

// Intern returns the representative for t. The first
// type interned in each equivalence class becomes its
// representative.
func (in *Interner) Intern(t Type) Type {
	hash := HashOf(t)

	in.mu.Lock()
	defer in.mu.Unlock()

	for _, existing := range in.buckets[hash] {
		if Identical(existing, t) {
			return existing
		}
	}

	if in.buckets == nil {
		in.buckets = make(map[Hash][]Type)
	}

	in.buckets[hash] = append(in.buckets[hash], t)
	in.n++

	return t
}

// Len returns the number of distinct types interned.
func (in *Interner) Len() int {
	in.mu.Lock()
	defer in.mu.Unlock()

	return in.n
}
