// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package types

// BasicKind describes the kind of basic type.
type BasicKind int

const (
	KindInvalid BasicKind = iota // type is invalid

	// predeclared types
	KindAddress
	KindBool
	KindField
	KindGroup
	KindScalar
	KindSignature
	KindString
	KindI8
	KindI16
	KindI32
	KindI64
	KindI128
	KindU8
	KindU16
	KindU32
	KindU64
	KindU128

	// the unit type, ()
	KindUnit
)

// BasicInfo is a set of flags describing properties of a basic type.
type BasicInfo int

// Properties of basic types.
const (
	IsBoolean BasicInfo = 1 << iota
	IsInteger
	IsUnsigned
	IsString
	IsField // field, group, and scalar elements.

	IsNumeric = IsInteger | IsField
)

// A Basic represents a basic type.
type Basic struct {
	kind BasicKind
	info BasicInfo
	name string
}

var _ Type = (*Basic)(nil)

// Kind returns the kind of basic type b.
func (b *Basic) Kind() BasicKind { return b.kind }

// Info returns information about properties of basic type b.
func (b *Basic) Info() BasicInfo { return b.info }

// Name returns the name of basic type b.
func (b *Basic) Name() string { return b.name }

func (b *Basic) Underlying() Type { return b }
func (b *Basic) String() string   { return b.name }
