// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

// Package types implements the representation of Leo
// types used by the AST and the type checking passes.
//
// A type is one of a closed set of variants: [Basic],
// [Array], [Composite], and [Tuple]. Types are immutable
// once constructed and are compared structurally, using
// [Identical], rather than by identity. Structurally
// identical types always have the same canonical form
// (see [MarshalType]) and so the same [Hash].
package types

import (
	"errors"
	"strings"
)

var (
	ErrZeroLength  = errors.New("types: array length must be positive")
	ErrLengthRange = errors.New("types: array length out of range")
	ErrNilType     = errors.New("types: nil type")
)

// Type represents a type in the Leo type system.
type Type interface {
	Underlying() Type // All current types return themselves.
	String() string   // Returns the type's canonical rendering.
}

// Underlying returns the base type.
func Underlying(t Type) Type {
	for t != nil {
		next := t.Underlying()
		if next == t {
			return t
		}

		t = next
	}

	return nil
}

// typesList returns the string representation for
// a list of types in Leo form.
func typesList(types []Type) string {
	var b strings.Builder
	b.WriteByte('(')
	for i, typ := range types {
		if i > 0 {
			b.WriteString(", ")
		}

		b.WriteString(typ.String())
	}

	b.WriteByte(')')

	return b.String()
}
