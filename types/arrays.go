// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package types

import (
	"fmt"
	"math/bits"

	"golang.org/x/crypto/cryptobyte"
)

// Array represents a Leo array type, which has an
// element type and a positive length. The element
// type may itself be an array.
type Array struct {
	element Type
	length  PositiveNumber
}

var _ Type = (*Array)(nil)

// NewArray returns a new array type with the given
// element type and length.
func NewArray(element Type, length PositiveNumber) *Array {
	return &Array{
		element: element,
		length:  length,
	}
}

// Element returns the array's immediate element type.
func (a *Array) Element() Type { return a.element }

// Length returns the array's length.
func (a *Array) Length() uint { return a.length.Uint() }

// PositiveLength returns the array's length as stored.
func (a *Array) PositiveLength() PositiveNumber { return a.length }

// BaseElement returns the innermost element type,
// skipping over every level of nested array types.
// For [[[u8; 2]; 3]; 4], this is u8.
func (a *Array) BaseElement() Type {
	switch elem := a.element.(type) {
	case *Array:
		return elem.BaseElement()
	default:
		return elem
	}
}

// Depth returns the number of nested array types,
// including a. [bool; 5] has depth 1.
func (a *Array) Depth() int {
	depth := 1
	for elem, ok := a.element.(*Array); ok; elem, ok = elem.element.(*Array) {
		depth++
	}

	return depth
}

// Dimensions returns the length of each nested array
// type, outermost first.
func (a *Array) Dimensions() []uint {
	dims := make([]uint, 0, a.Depth())
	for t := a; t != nil; t, _ = t.element.(*Array) {
		dims = append(dims, t.Length())
	}

	return dims
}

// ElementCount returns the total number of base
// elements in the array, which is the product of
// the lengths at each level. ElementCount returns
// false if the product overflows a uint64.
func (a *Array) ElementCount() (count uint64, ok bool) {
	count = 1
	for t := a; t != nil; t, _ = t.element.(*Array) {
		hi, lo := bits.Mul64(count, t.length.Uint64())
		if hi != 0 {
			return 0, false
		}

		count = lo
	}

	return count, true
}

// Equal reports whether a and b are structurally
// identical.
func (a *Array) Equal(b *Array) bool { return Identical(a, b) }

// Hash returns the structural hash of a.
func (a *Array) Hash() Hash { return HashOf(a) }

// MarshalBinary returns the canonical form of a.
func (a *Array) MarshalBinary() ([]byte, error) {
	return MarshalType(a)
}

// UnmarshalBinary sets a to the array type in the
// canonical form data. It is intended for decoding
// into a zero Array.
func (a *Array) UnmarshalBinary(data []byte) error {
	s := cryptobyte.String(data)
	t, err := readCanonical(&s)
	if err != nil {
		return err
	}

	if !s.Empty() {
		return fmt.Errorf("types: invalid canonical form: %d trailing bytes", len(s))
	}

	array, ok := t.(*Array)
	if !ok {
		return fmt.Errorf("types: invalid canonical form: got %s, want array type", t)
	}

	*a = *array

	return nil
}

func (a *Array) Underlying() Type { return a }
func (a *Array) String() string   { return fmt.Sprintf("[%s; %s]", a.element, a.length) }

// Flatten returns the single-level array type with
// the same base element and total element count as
// a. For [[u8; 2]; 3], this is [u8; 6].
func Flatten(a *Array) (*Array, error) {
	count, ok := a.ElementCount()
	if !ok {
		return nil, fmt.Errorf("%w: array of depth %d has more than %d elements", ErrLengthRange, a.Depth(), uint64(1<<64-1))
	}

	length, err := NewPositiveNumber(count)
	if err != nil {
		return nil, fmt.Errorf("failed to flatten array: %w", err)
	}

	return NewArray(a.BaseElement(), length), nil
}
