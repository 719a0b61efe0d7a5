// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package types

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Hash is a 32-byte BLAKE3 digest of a type's canonical
// form. Structurally identical types have equal hashes,
// so a Hash can be used as a map key for a type.
type Hash [32]byte

func (h Hash) String() string { return hex.EncodeToString(h[:]) }

// canonicalDomainKey is the BLAKE3 key for type hashes,
// the ASCII domain name zero-padded to 32 bytes.
var canonicalDomainKey = [32]byte{
	'l', 'e', 'o', '.', 't', 'y', 'p', 'e', 's', '.', 'c', 'a', 'n', 'o', 'n', 'i',
	'c', 'a', 'l', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// HashOf returns the structural hash of t. HashOf
// panics if t is nil or not one of the types in this
// package.
func HashOf(t Type) Hash {
	data, err := MarshalType(t)
	if err != nil {
		panic(err.Error())
	}

	hasher, err := blake3.NewKeyed(canonicalDomainKey[:])
	if err != nil {
		panic("types: BLAKE3 keyed hash initialization failed: " + err.Error())
	}

	hasher.Write(data)
	var hash Hash
	copy(hash[:], hasher.Sum(nil))

	return hash
}
