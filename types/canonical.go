// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package types

import (
	"fmt"
	"io"

	"golang.org/x/crypto/cryptobyte"
)

// The canonical form of a type is a self-contained
// binary encoding, described with the following
// pseudocode:
//
//	type Canonical struct {
//		Kind    uint8   // One of the canonical kinds below.
//		Length  uint32  // The length in bytes of the body.
//		switch Canonical.Kind {
//		case canonicalBasic:
//			Basic     uint32       // The BasicKind.
//		case canonicalArray:
//			Element   Canonical    // The element type.
//			Length    uint64       // The array length (at least 1).
//		case canonicalComposite:
//			Name      []byte       // A 32-bit length-prefixed name.
//		case canonicalTuple:
//			Elements  [...]Canonical
//		}
//	}
//
// All integers are big-endian. Structurally identical
// types have identical canonical forms.
const (
	canonicalBasic     uint8 = 0x01
	canonicalArray     uint8 = 0x02
	canonicalComposite uint8 = 0x03
	canonicalTuple     uint8 = 0x04
)

// AppendCanonical appends the canonical form of t to
// b. If t is not a supported type, the error is set
// on b.
func AppendCanonical(b *cryptobyte.Builder, t Type) {
	switch t := t.(type) {
	case *Basic:
		b.AddUint8(canonicalBasic)
		b.AddUint32LengthPrefixed(func(b *cryptobyte.Builder) {
			b.AddUint32(uint32(t.kind))
		})
	case *Array:
		if t.length.Uint64() == 0 {
			b.SetError(fmt.Errorf("types: cannot encode array type: %w", ErrZeroLength))
			return
		}

		b.AddUint8(canonicalArray)
		b.AddUint32LengthPrefixed(func(b *cryptobyte.Builder) {
			AppendCanonical(b, t.element)
			b.AddUint64(t.length.Uint64())
		})
	case *Composite:
		b.AddUint8(canonicalComposite)
		b.AddUint32LengthPrefixed(func(b *cryptobyte.Builder) {
			b.AddUint32LengthPrefixed(func(b *cryptobyte.Builder) {
				b.AddBytes([]byte(t.name))
			})
		})
	case *Tuple:
		b.AddUint8(canonicalTuple)
		b.AddUint32LengthPrefixed(func(b *cryptobyte.Builder) {
			for _, elem := range t.elements {
				AppendCanonical(b, elem)
			}
		})
	case nil:
		b.SetError(ErrNilType)
	default:
		b.SetError(fmt.Errorf("types: type %T not supported", t))
	}
}

// MarshalType returns the canonical form of t.
func MarshalType(t Type) ([]byte, error) {
	b := cryptobyte.NewBuilder(nil)
	AppendCanonical(b, t)

	return b.Bytes()
}

// UnmarshalType parses the canonical form of a type.
func UnmarshalType(data []byte) (Type, error) {
	s := cryptobyte.String(data)
	t, err := readCanonical(&s)
	if err != nil {
		return nil, err
	}

	if !s.Empty() {
		return nil, fmt.Errorf("types: invalid canonical form: %d trailing bytes", len(s))
	}

	return t, nil
}

// readCanonical reads one type in canonical form
// from s.
func readCanonical(s *cryptobyte.String) (Type, error) {
	var kind uint8
	var body cryptobyte.String
	if !s.ReadUint8(&kind) ||
		!readUint32LengthPrefixed(s, &body) {
		return nil, fmt.Errorf("types: failed to read canonical form: %w", io.ErrUnexpectedEOF)
	}

	var t Type
	switch kind {
	case canonicalBasic:
		var basic uint32
		if !body.ReadUint32(&basic) {
			return nil, fmt.Errorf("types: failed to read basic type: %w", io.ErrUnexpectedEOF)
		}

		if basic == uint32(KindInvalid) || basic >= uint32(len(BasicTypes)) {
			return nil, fmt.Errorf("types: invalid canonical form: unrecognised basic kind %d", basic)
		}

		t = BasicTypes[basic]
	case canonicalArray:
		elem, err := readCanonical(&body)
		if err != nil {
			return nil, err
		}

		var length uint64
		if !body.ReadUint64(&length) {
			return nil, fmt.Errorf("types: failed to read array length: %w", io.ErrUnexpectedEOF)
		}

		n, err := NewPositiveNumber(length)
		if err != nil {
			return nil, fmt.Errorf("types: invalid canonical form: %w", err)
		}

		t = NewArray(elem, n)
	case canonicalComposite:
		var name cryptobyte.String
		if !readUint32LengthPrefixed(&body, &name) {
			return nil, fmt.Errorf("types: failed to read composite name: %w", io.ErrUnexpectedEOF)
		}

		t = NewComposite(string(name))
	case canonicalTuple:
		var elems []Type
		for !body.Empty() {
			elem, err := readCanonical(&body)
			if err != nil {
				return nil, err
			}

			elems = append(elems, elem)
		}

		t = NewTuple(elems...)
	default:
		return nil, fmt.Errorf("types: invalid canonical form: unrecognised kind %d", kind)
	}

	if !body.Empty() {
		return nil, fmt.Errorf("types: invalid canonical form: kind %d has %d bytes of further data", kind, len(body))
	}

	return t, nil
}

// readUint32LengthPrefixed reads a 32-bit length
// prefix and that many bytes from s into out.
func readUint32LengthPrefixed(s *cryptobyte.String, out *cryptobyte.String) bool {
	var length uint32
	var data []byte
	if !s.ReadUint32(&length) || !s.ReadBytes(&data, int(length)) {
		return false
	}

	*out = data

	return true
}
