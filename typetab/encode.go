// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package typetab

import (
	"crypto/sha256"
	"fmt"
	"io"
	"math"

	"golang.org/x/crypto/cryptobyte"

	"github.com/Adamsnoni/leo/types"
)

// encoder is used to encode a set of named
// types into a type table.
type encoder struct {
	header header

	// Used to build the types section
	// efficiently. This state is managed
	// by AddType.
	types        [][]byte
	typesOffset  uint64
	typesOffsets map[string]uint64

	names []*name

	// Used to build the strings section
	// efficiently. This state is managed
	// by AddString.
	strings       []string
	stringOffset  uint64
	stringOffsets map[string]uint64
}

// AddHeader builds the type table header.
func (e *encoder) AddHeader() error {
	checksumOffset := headerSize +
		e.typesOffset +
		nameSize*uint64(len(e.names)) +
		e.stringOffset
	if checksumOffset > math.MaxUint32 {
		return fmt.Errorf("type table too large: checksum offset %d overflows uint32", checksumOffset)
	}

	e.header.Magic = magic
	e.header.Version = version
	e.header.TypesOffset = headerSize
	e.header.TypesLength = uint32(e.typesOffset)
	e.header.NamesOffset = e.header.TypesOffset + e.header.TypesLength
	e.header.NamesLength = nameSize * uint32(len(e.names))
	e.header.StringsOffset = e.header.NamesOffset + e.header.NamesLength
	e.header.StringsLength = uint32(e.stringOffset)
	e.header.ChecksumOffset = e.header.StringsOffset + e.header.StringsLength
	e.header.ChecksumLength = ChecksumLength

	return nil
}

// AddType appends the type to the type
// section, along with any types it refers
// to. The type's offset into the types
// section is returned.
func (e *encoder) AddType(t types.Type) (uint64, error) {
	b := cryptobyte.NewBuilder(nil)
	e.appendType(b, t)
	data, err := b.Bytes()
	if err != nil {
		return 0, err
	}

	offset, ok := e.typesOffsets[string(data)]
	if ok {
		return offset, nil
	}

	offset = e.typesOffset
	e.types = append(e.types, data)
	e.typesOffset += uint64(len(data))
	e.typesOffsets[string(data)] = offset

	return offset, nil
}

// addTypeRef adds t to the types section
// and writes its offset to b.
func (e *encoder) addTypeRef(b *cryptobyte.Builder, t types.Type) {
	offset, err := e.AddType(t)
	if err != nil {
		b.SetError(err)
		return
	}

	b.AddUint64(offset)
}

func (e *encoder) appendType(b *cryptobyte.Builder, t types.Type) {
	switch t := t.(type) {
	case nil:
		// Used to add the nil type.
		b.AddUint8(uint8(TypeKindNone))
		b.AddUint24LengthPrefixed(func(b *cryptobyte.Builder) {})
	case *types.Basic:
		var kind BasicKind
		switch t.Kind() {
		case types.KindAddress:
			kind = BasicKindAddress
		case types.KindBool:
			kind = BasicKindBool
		case types.KindField:
			kind = BasicKindField
		case types.KindGroup:
			kind = BasicKindGroup
		case types.KindScalar:
			kind = BasicKindScalar
		case types.KindSignature:
			kind = BasicKindSignature
		case types.KindString:
			kind = BasicKindString
		case types.KindI8:
			kind = BasicKindI8
		case types.KindI16:
			kind = BasicKindI16
		case types.KindI32:
			kind = BasicKindI32
		case types.KindI64:
			kind = BasicKindI64
		case types.KindI128:
			kind = BasicKindI128
		case types.KindU8:
			kind = BasicKindU8
		case types.KindU16:
			kind = BasicKindU16
		case types.KindU32:
			kind = BasicKindU32
		case types.KindU64:
			kind = BasicKindU64
		case types.KindU128:
			kind = BasicKindU128
		case types.KindUnit:
			kind = BasicKindUnit
		default:
			b.SetError(fmt.Errorf("unrecognised basic type kind %v", t.Kind()))
			return
		}

		b.AddUint8(uint8(TypeKindBasic))
		b.AddUint24LengthPrefixed(func(b *cryptobyte.Builder) {
			b.AddUint32(uint32(kind))
		})
	case *types.Array:
		if t.Element() == nil {
			b.SetError(fmt.Errorf("cannot encode array type with nil element type"))
			return
		}

		if t.PositiveLength().Uint64() == 0 {
			b.SetError(fmt.Errorf("cannot encode array type %s: %w", t, types.ErrZeroLength))
			return
		}

		b.AddUint8(uint8(TypeKindArray))
		b.AddUint24LengthPrefixed(func(b *cryptobyte.Builder) {
			e.addTypeRef(b, t.Element())
			b.AddUint64(t.PositiveLength().Uint64())
		})
	case *types.Composite:
		b.AddUint8(uint8(TypeKindComposite))
		b.AddUint24LengthPrefixed(func(b *cryptobyte.Builder) {
			b.AddUint64(e.AddString(t.Name()))
		})
	case *types.Tuple:
		b.AddUint8(uint8(TypeKindTuple))
		b.AddUint24LengthPrefixed(func(b *cryptobyte.Builder) {
			for _, elem := range t.Elements() {
				if elem == nil {
					b.SetError(fmt.Errorf("cannot encode tuple type with nil element type"))
					return
				}

				e.addTypeRef(b, elem)
			}
		})
	default:
		b.SetError(fmt.Errorf("AddType(%T): type not supported", t))
	}
}

// AddName adds the type name to the names
// section.
func (e *encoder) AddName(tn *types.TypeName) error {
	typ, err := e.AddType(tn.Type())
	if err != nil {
		return fmt.Errorf("failed to encode type %s: %v", tn.Name(), err)
	}

	e.names = append(e.names, &name{
		Name: e.AddString(tn.Name()),
		Type: typ,
	})

	return nil
}

// AddString includes `s` in the strings
// section, returning its offset.
func (e *encoder) AddString(s string) uint64 {
	offset, ok := e.stringOffsets[s]
	if ok {
		return offset
	}

	if len(s) > math.MaxUint32 {
		panic("string too large: length overflows uint32")
	}

	offset = e.stringOffset
	e.strings = append(e.strings, s)
	e.stringOffset += 4 + uint64(len(s))
	if e.stringOffset%4 != 0 {
		e.stringOffset += 4 - (e.stringOffset % 4)
	}
	e.stringOffsets[s] = offset

	return offset
}

func (h *header) Marshal(b *cryptobyte.Builder) error {
	b.AddUint32(h.Magic)
	b.AddUint8(h.Version)
	b.AddUint24(0) // Reserved.
	b.AddUint32(h.TypesOffset)
	b.AddUint32(h.NamesOffset)
	b.AddUint32(h.StringsOffset)
	b.AddUint32(h.ChecksumOffset)

	return nil
}

func (n *name) Marshal(b *cryptobyte.Builder) error {
	b.AddUint64(n.Name)
	b.AddUint64(n.Type)

	return nil
}

// WriteTo encodes the type table to w.
func (e *encoder) WriteTo(w io.Writer) (n int64, err error) {
	b := cryptobyte.NewFixedBuilder(make([]byte, 0, e.header.ChecksumOffset+e.header.ChecksumLength))
	b.AddValue(&e.header)

	for _, typ := range e.types {
		b.AddBytes(typ)
	}

	for _, name := range e.names {
		b.AddValue(name)
	}

	for _, s := range e.strings {
		b.AddUint32(uint32(len(s)))
		b.AddBytes([]byte(s))
		switch len(s) % 4 {
		case 1:
			b.AddUint24(0)
		case 2:
			b.AddUint16(0)
		case 3:
			b.AddUint8(0)
		}
	}

	// Add the checksum.
	buf, err := b.Bytes()
	if err != nil {
		return 0, fmt.Errorf("typetab: internal error: %v", err)
	}

	if uint64(len(buf)) != uint64(e.header.ChecksumOffset) {
		return 0, fmt.Errorf("typetab: internal error: encoded type table has length %d before the checksum, expected %d", len(buf), e.header.ChecksumOffset)
	}

	sum := sha256.Sum256(buf)
	buf = append(buf, sum[:]...)

	m, err := w.Write(buf)
	return int64(m), err
}

// Encode writes a type table containing the
// given type names to w.
func Encode(w io.Writer, names []*types.TypeName) error {
	// We build the sections individually, using
	// the cryptobyte package to ensure a correct
	// encoding.
	e := &encoder{
		typesOffsets:  make(map[string]uint64),
		stringOffsets: make(map[string]uint64),
	}

	// The nil type and the empty string are
	// always at offset 0.
	if _, err := e.AddType(nil); err != nil {
		return fmt.Errorf("typetab: internal error: %v", err)
	}

	e.AddString("")

	for _, tn := range names {
		err := e.AddName(tn)
		if err != nil {
			return err
		}
	}

	err := e.AddHeader()
	if err != nil {
		return err
	}

	_, err = e.WriteTo(w)
	if err != nil {
		return err
	}

	return nil
}
