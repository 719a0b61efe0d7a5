// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

// Package typetab provides helpers to encode and decode
// type tables. A type table records a set of named Leo
// types so that an AST's types can be persisted and
// reloaded exactly.
//
// The type table format consists of a header, followed
// by a series of sections:
//
//   - The types section contains each distinct type,
//     with nested types referenced by offset.
//   - The names section binds names to types.
//   - The strings section contains length-prefixed
//     string data used by other sections.
//
// After the sections is a cryptographic checksum.
//
// All integers are stored in big-endian form. Each section
// must have a length that is an exact multiple of 32 bits.
//
// # Header
//
// The header structure is described with the following
// pseudocode:
//
//	type Header struct {
//		Magic           uint32   // The magic value that identifies a type table. (value: "ltyp")
//		Version         uint8    // The type table format version. (value: typetab.version)
//		Reserved        [3]byte  // Zero.
//		TypesOffset     uint32   // The offset into the file where the types section begins.
//		NamesOffset     uint32   // The offset into the file where the names section begins.
//		StringsOffset   uint32   // The offset into the file where the strings section begins.
//		ChecksumOffset  uint32   // The offset into the file where the checksum begins.
//	}
//
// The sections must begin immediately after the header
// and must be contiguous, in the given order.
//
// # Types section
//
// The types section contains type definitions. Each type
// definition is described with the following pseudocode
// (see [TypeKind] and [BasicKind] separately):
//
//	type Type struct {
//		Kind              TypeKind    // The type kind (defined below).
//		Length            uint24      // The length in bytes of the type definition.
//		switch Type.Kind {
//		case TypeKindNone:
//			// No further data.
//		case TypeKindBasic:
//			Basic         BasicKind   // The specific basic type.
//		case TypeKindArray:
//			Element       uint64      // The offset into the types section where the element type begins.
//			Length        uint64      // The array length, which must be at least 1.
//		case TypeKindComposite:
//			Name          uint64      // The offset into the strings section where the composite name begins.
//		case TypeKindTuple:
//			Elements      [...]uint64 // The offsets into the types section where each element type begins.
//		}
//	}
//
// Every type definition has a length that is a multiple of
// four, so no padding is used. A type may only refer to
// types that begin before it in the types section, so the
// types always form a tree. The first type has length zero
// so that references to it can be used to represent the nil
// type. Identical types are stored once.
//
// # Names section
//
// The names section consists of a sequence of names, each
// described with the following pseudocode:
//
//	type Name struct {
//		Name  uint64  // The offset into the strings section where the name begins.
//		Type  uint64  // The offset into the types section where the named type begins.
//	}
//
// # Strings section
//
// The strings section consists of a sequence of contiguous
// strings, where each string is described with the following
// pseudocode:
//
//	type String struct {
//		Length  uint32     // The length in bytes of the string.
//		Data    [...]byte  // The string's contents. Strings are not null-terminated.
//	}
//
// The first string has length zero so that references to
// it can be used to represent the empty string. Strings whose
// length is not a multiple of four are followed by up to three
// bytes of padding to ensure that each `String` has 32-bit
// alignment.
//
// # Crypographic checksum
//
// Immediately after the strings section is a 32-byte SHA-256
// checksum of the rest of the file. There must be no trailing
// data after the checksum.
package typetab

import (
	"crypto/sha256"
	"fmt"
)

const (
	magic   uint32 = 0x6c747970 // "ltyp"
	version uint8  = 1

	// ChecksumLength is the length in bytes of the
	// checksum section.
	ChecksumLength = sha256.Size
)

type header struct {
	Magic   uint32 // The magic value that identifies a type table. (value: "ltyp")
	Version uint8  // The type table format version. (value: typetab.version)

	// Location of the types section.
	TypesOffset uint32 // The offset into the file where the types section begins.
	TypesLength uint32 // The length in bytes of the types section.

	// Location of the names section.
	NamesOffset uint32 // The offset into the file where the names section begins.
	NamesLength uint32 // The length in bytes of the names section.

	// Location of the strings section.
	StringsOffset uint32 // The offset into the file where the strings section begins.
	StringsLength uint32 // The length in bytes of the strings section.

	// Location of the checksum.
	ChecksumOffset uint32 // The offset into the file where the checksum begins.
	ChecksumLength uint32 // The length in bytes of the checksum.
}

const headerSize = 4 + // 32-bit magic.
	1 + // 8-bit version.
	3 + // Reserved.
	4 + // 32-bit types section offset.
	4 + // 32-bit names section offset.
	4 + // 32-bit strings section offset.
	4 // 32-bit checksum offset.

// Header contains the information from a type table
// header.
type Header struct {
	Magic    uint32 // The magic value that identifies a type table. (value: "ltyp")
	Version  uint8  // The type table format version. (value: typetab.version)
	Checksum []byte // The type table checksum.

	// Location of the types section.
	TypesOffset uint32 // The offset into the file where the types section begins.
	TypesLength uint32 // The length in bytes of the types section.

	// Location of the names section.
	NamesOffset uint32 // The offset into the file where the names section begins.
	NamesLength uint32 // The length in bytes of the names section.

	// Location of the strings section.
	StringsOffset uint32 // The offset into the file where the strings section begins.
	StringsLength uint32 // The length in bytes of the strings section.

	// Location of the checksum.
	ChecksumOffset uint32 // The offset into the file where the checksum begins.
	ChecksumLength uint32 // The length in bytes of the checksum.
}

// TypeKind categorises types.
type TypeKind uint8

const (
	TypeKindInvalid   TypeKind = 0x00
	TypeKindNone      TypeKind = 0x01 // No type.
	TypeKindBasic     TypeKind = 0x02 // A basic type (bool, u8, etc).
	TypeKindArray     TypeKind = 0x03 // An array type.
	TypeKindComposite TypeKind = 0x04 // A reference to a named composite type.
	TypeKindTuple     TypeKind = 0x05 // A tuple type.
)

func (k TypeKind) String() string {
	switch k {
	case TypeKindInvalid:
		return "invalid"
	case TypeKindNone:
		return "none"
	case TypeKindBasic:
		return "basic"
	case TypeKindArray:
		return "array"
	case TypeKindComposite:
		return "composite"
	case TypeKindTuple:
		return "tuple"
	default:
		return fmt.Sprintf("TypeKind(%d)", k)
	}
}

// BasicKind categorises basic types.
type BasicKind uint8

const (
	BasicKindInvalid   BasicKind = 0x00
	BasicKindAddress   BasicKind = 0x01 // Basic address.
	BasicKindBool      BasicKind = 0x02 // Basic bool.
	BasicKindField     BasicKind = 0x03 // Basic field.
	BasicKindGroup     BasicKind = 0x04 // Basic group.
	BasicKindScalar    BasicKind = 0x05 // Basic scalar.
	BasicKindSignature BasicKind = 0x06 // Basic signature.
	BasicKindString    BasicKind = 0x07 // Basic string.
	BasicKindI8        BasicKind = 0x08 // Basic i8.
	BasicKindI16       BasicKind = 0x09 // Basic i16.
	BasicKindI32       BasicKind = 0x0a // Basic i32.
	BasicKindI64       BasicKind = 0x0b // Basic i64.
	BasicKindI128      BasicKind = 0x0c // Basic i128.
	BasicKindU8        BasicKind = 0x0d // Basic u8.
	BasicKindU16       BasicKind = 0x0e // Basic u16.
	BasicKindU32       BasicKind = 0x0f // Basic u32.
	BasicKindU64       BasicKind = 0x10 // Basic u64.
	BasicKindU128      BasicKind = 0x11 // Basic u128.
	BasicKindUnit      BasicKind = 0x12 // The unit type.
)

func (k BasicKind) String() string {
	switch k {
	case BasicKindInvalid:
		return "invalid"
	case BasicKindAddress:
		return "address"
	case BasicKindBool:
		return "bool"
	case BasicKindField:
		return "field"
	case BasicKindGroup:
		return "group"
	case BasicKindScalar:
		return "scalar"
	case BasicKindSignature:
		return "signature"
	case BasicKindString:
		return "string"
	case BasicKindI8:
		return "i8"
	case BasicKindI16:
		return "i16"
	case BasicKindI32:
		return "i32"
	case BasicKindI64:
		return "i64"
	case BasicKindI128:
		return "i128"
	case BasicKindU8:
		return "u8"
	case BasicKindU16:
		return "u16"
	case BasicKindU32:
		return "u32"
	case BasicKindU64:
		return "u64"
	case BasicKindU128:
		return "u128"
	case BasicKindUnit:
		return "unit"
	default:
		return fmt.Sprintf("BasicKind(%d)", k)
	}
}

// typeSplat is an expansion of the
// Type type, containing all fields.
//
// This is mainly used for testing.
type typeSplat struct {
	// Generic fields.
	Kind   TypeKind // The type kind.
	Length uint32   // The length in bytes of the type definition (uint24).

	// Basic fields.
	Basic BasicKind // The specific basic type.

	// Array fields.
	Element     uint64 // The offset into the types section where the element type begins.
	ArrayLength uint64 // The array length.

	// Composite fields.
	Name uint64 // The offset into the strings section where the composite name begins.

	// Tuple fields.
	Elements []uint64 // The offsets into the types section where each element type begins.
}

// name binds a name to a type.
type name struct {
	Name uint64 // The offset into the strings section where the name begins.
	Type uint64 // The offset into the types section where the named type begins.
}

const nameSize = 8 + // 64-bit name string offset.
	8 // 64-bit type offset.
