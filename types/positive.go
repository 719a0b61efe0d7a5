// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package types

import (
	"fmt"
	"strconv"
)

// PositiveNumber is a strictly positive integer, such
// as the length of an array. The zero PositiveNumber is
// not valid; use NewPositiveNumber or ParsePositiveNumber.
type PositiveNumber struct {
	value uint64
}

// NewPositiveNumber returns v as a PositiveNumber. The
// value must be non-zero and fit in a uint.
func NewPositiveNumber(v uint64) (PositiveNumber, error) {
	if v == 0 {
		return PositiveNumber{}, ErrZeroLength
	}

	if uint64(uint(v)) != v {
		return PositiveNumber{}, fmt.Errorf("%w: %d does not fit in a uint", ErrLengthRange, v)
	}

	return PositiveNumber{value: v}, nil
}

// ParsePositiveNumber parses the decimal text s as a
// PositiveNumber.
func ParsePositiveNumber(s string) (PositiveNumber, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return PositiveNumber{}, fmt.Errorf("%w: %q", ErrLengthRange, s)
		}

		return PositiveNumber{}, fmt.Errorf("types: invalid positive number %q", s)
	}

	return NewPositiveNumber(v)
}

// MustPositiveNumber is like NewPositiveNumber, but
// panics if v is invalid.
func MustPositiveNumber(v uint64) PositiveNumber {
	n, err := NewPositiveNumber(v)
	if err != nil {
		panic(err)
	}

	return n
}

// Uint returns the number as a machine-sized unsigned
// integer.
func (n PositiveNumber) Uint() uint { return uint(n.value) }

// Uint64 returns the number as a 64-bit unsigned integer.
func (n PositiveNumber) Uint64() uint64 { return n.value }

func (n PositiveNumber) String() string { return strconv.FormatUint(n.value, 10) }
