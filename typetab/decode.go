// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package typetab

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/cryptobyte"

	"github.com/Adamsnoni/leo/types"
)

// decodeHeader performs the first phase of
// decoding a type table; reading the header
// and checking its offsets.
func decodeHeader(h *header, b []byte) error {
	if len(b) < headerSize {
		return fmt.Errorf("invalid type table header: %w", io.ErrUnexpectedEOF)
	}

	s := cryptobyte.String(b[:headerSize])

	var reserved uint32
	if !s.ReadUint32(&h.Magic) ||
		!s.ReadUint8(&h.Version) ||
		!s.ReadUint24(&reserved) ||
		!s.ReadUint32(&h.TypesOffset) ||
		!s.ReadUint32(&h.NamesOffset) ||
		!s.ReadUint32(&h.StringsOffset) ||
		!s.ReadUint32(&h.ChecksumOffset) {
		return fmt.Errorf("typetab: internal error: failed to read type table header: %w", io.ErrUnexpectedEOF)
	}

	// Sanity-check the header.
	if h.Magic != magic {
		return fmt.Errorf("invalid type table header: got magic %x, want %x", h.Magic, magic)
	}
	if h.Version != version {
		return fmt.Errorf("unsupported type table header: got version %d, but only %d is supported", h.Version, version)
	}
	if reserved != 0 {
		return fmt.Errorf("invalid type table header: got reserved bytes %06x, want zero", reserved)
	}
	if h.TypesOffset != headerSize {
		return fmt.Errorf("invalid type table header: got types offset %d, want %d", h.TypesOffset, headerSize)
	}
	if h.NamesOffset < h.TypesOffset || h.NamesOffset%4 != 0 {
		return fmt.Errorf("invalid type table header: got invalid names offset %d", h.NamesOffset)
	}
	if h.StringsOffset < h.NamesOffset || h.StringsOffset%4 != 0 {
		return fmt.Errorf("invalid type table header: got invalid strings offset %d", h.StringsOffset)
	}
	if h.ChecksumOffset < h.StringsOffset || h.ChecksumOffset%4 != 0 {
		return fmt.Errorf("invalid type table header: got invalid checksum offset %d", h.ChecksumOffset)
	}

	h.TypesLength = h.NamesOffset - h.TypesOffset
	h.NamesLength = h.StringsOffset - h.NamesOffset
	h.StringsLength = h.ChecksumOffset - h.StringsOffset
	h.ChecksumLength = ChecksumLength

	if h.NamesLength%nameSize != 0 {
		return fmt.Errorf("invalid type table header: got invalid names length %d", h.NamesLength)
	}

	return nil
}

// verifyChecksum checks that b ends with the
// checksum described in h.
func verifyChecksum(h *header, b []byte) error {
	if uint64(h.ChecksumOffset)+uint64(h.ChecksumLength) != uint64(len(b)) {
		return fmt.Errorf("invalid type table header: got file ending %d, found %d bytes", uint64(h.ChecksumOffset)+uint64(h.ChecksumLength), len(b))
	}

	checksum := b[len(b)-ChecksumLength:]
	want := ([ChecksumLength]byte)(checksum)
	got := sha256.Sum256(b[:len(b)-ChecksumLength])
	if got != want {
		return fmt.Errorf("invalid type table: checksum mismatch")
	}

	return nil
}

// This set of functionality is only used for testing
// the encoding process and for debugging. It just
// decodes into a structured representation of the
// encoded form.
//
// By contrast, the proper decoding code transforms
// the result to richer, more complex data types.

// decoded contains structured contents of a
// type table.
type decoded struct {
	header  header
	types   map[uint64]typeSplat
	names   []name
	strings map[uint64]string
}

// decodeSimple pulls out the different sections
// of a type table and verifies the checksum.
func decodeSimple(b []byte) (*decoded, error) {
	var d decoded
	err := decodeHeader(&d.header, b)
	if err != nil {
		return nil, err
	}

	err = verifyChecksum(&d.header, b)
	if err != nil {
		return nil, err
	}

	// Read the types section.
	s := cryptobyte.String(b[d.header.TypesOffset:d.header.NamesOffset])
	d.types, err = d.decodeTypes(s)
	if err != nil {
		return nil, err
	}

	// Read the names section.
	s = cryptobyte.String(b[d.header.NamesOffset:d.header.StringsOffset])
	d.names = make([]name, d.header.NamesLength/nameSize)
	for i := range d.names {
		if !s.ReadUint64(&d.names[i].Name) ||
			!s.ReadUint64(&d.names[i].Type) {
			return nil, fmt.Errorf("failed to decode name %d: %w", i, io.ErrUnexpectedEOF)
		}
	}

	// Read the strings section.
	s = cryptobyte.String(b[d.header.StringsOffset:d.header.ChecksumOffset])
	d.strings, err = decodeStrings(s)
	if err != nil {
		return nil, err
	}

	return &d, nil
}

// decodeTypes reads the types from `s`,
// checking that each is valid.
func (d *decoded) decodeTypes(s cryptobyte.String) (types map[uint64]typeSplat, err error) {
	var offset uint64
	types = make(map[uint64]typeSplat)
	for !s.Empty() {
		here := offset
		var kind uint8
		var rest cryptobyte.String
		if !s.ReadUint8(&kind) ||
			!s.ReadUint24LengthPrefixed(&rest) {
			return nil, fmt.Errorf("failed to read type: %w", io.ErrUnexpectedEOF)
		}

		length := len(rest)
		offset += 1 + 3 + uint64(length)

		splat := typeSplat{
			Kind:   TypeKind(kind),
			Length: uint32(length),
		}

		switch TypeKind(kind) {
		case TypeKindNone:
		case TypeKindBasic:
			var basic uint32
			if !rest.ReadUint32(&basic) {
				return nil, fmt.Errorf("invalid type: failed to read %s type kind: %w", TypeKind(kind), io.ErrUnexpectedEOF)
			}

			splat.Basic = BasicKind(basic)
		case TypeKindArray:
			if !rest.ReadUint64(&splat.Element) ||
				!rest.ReadUint64(&splat.ArrayLength) {
				return nil, fmt.Errorf("invalid type: failed to read %s type kind: %w", TypeKind(kind), io.ErrUnexpectedEOF)
			}
		case TypeKindComposite:
			if !rest.ReadUint64(&splat.Name) {
				return nil, fmt.Errorf("invalid type: failed to read %s type kind: %w", TypeKind(kind), io.ErrUnexpectedEOF)
			}
		case TypeKindTuple:
			for !rest.Empty() {
				var elem uint64
				if !rest.ReadUint64(&elem) {
					return nil, fmt.Errorf("invalid type: failed to read %s type kind element: %w", TypeKind(kind), io.ErrUnexpectedEOF)
				}

				splat.Elements = append(splat.Elements, elem)
			}
		default:
			return nil, fmt.Errorf("invalid type: got unrecognised type kind %d", kind)
		}

		if !rest.Empty() {
			return nil, fmt.Errorf("invalid type: got type kind %s with %d bytes of further data", TypeKind(kind), len(rest))
		}

		types[here] = splat
	}

	return types, nil
}

// decodeStrings reads every string in the
// strings section `s`, indexed by offset.
func decodeStrings(s cryptobyte.String) (strings map[uint64]string, err error) {
	var offset uint64
	strings = make(map[uint64]string)
	for !s.Empty() {
		here := offset
		str, err := readString(&s)
		if err != nil {
			return nil, err
		}

		offset += 4 + uint64(len(str))
		if offset%4 != 0 {
			offset += 4 - (offset % 4)
		}

		strings[here] = str
	}

	return strings, nil
}

// readString reads one length-prefixed string
// and its padding from `s`.
func readString(s *cryptobyte.String) (string, error) {
	var data []byte
	var length uint32
	if !s.ReadUint32(&length) ||
		!s.ReadBytes(&data, int(length)) {
		return "", fmt.Errorf("invalid strings section: %w", io.ErrUnexpectedEOF)
	}

	switch length % 4 {
	case 1:
		var padding uint32
		if !s.ReadUint24(&padding) {
			return "", fmt.Errorf("invalid strings section: %w", io.ErrUnexpectedEOF)
		}
		if padding != 0 {
			return "", fmt.Errorf("invalid strings section: invalid padding %06x", padding)
		}
	case 2:
		var padding uint16
		if !s.ReadUint16(&padding) {
			return "", fmt.Errorf("invalid strings section: %w", io.ErrUnexpectedEOF)
		}
		if padding != 0 {
			return "", fmt.Errorf("invalid strings section: invalid padding %04x", padding)
		}
	case 3:
		var padding uint8
		if !s.ReadUint8(&padding) {
			return "", fmt.Errorf("invalid strings section: %w", io.ErrUnexpectedEOF)
		}
		if padding != 0 {
			return "", fmt.Errorf("invalid strings section: invalid padding %02x", padding)
		}
	}

	return string(data), nil
}

// This is the proper decoding code, which returns
// richer, more complex data representations. For
// example, rather than returning a type offset,
// we fetch the type at that offset and return
// the type.

// Decoder is a helper type for decoding a type
// table.
type Decoder struct {
	b []byte

	header header

	allTypes     []types.Type          // Cached result from Types.
	types        map[uint64]types.Type // Cached lookup of each type.
	allTypeNames []*types.TypeName     // Cached result from TypeNames.
	strings      map[uint64]string     // Cached lookup of each string.
}

// NewDecoder helps parse a type table.
func NewDecoder(b []byte) (*Decoder, error) {
	d := &Decoder{
		b:       b,
		types:   make(map[uint64]types.Type),
		strings: make(map[uint64]string),
	}

	err := decodeHeader(&d.header, b)
	if err != nil {
		return nil, err
	}

	err = verifyChecksum(&d.header, b)
	if err != nil {
		return nil, err
	}

	return d, nil
}

// Header returns the decoded type table header.
func (d *Decoder) Header() *Header {
	h := &Header{
		Magic:    d.header.Magic,
		Version:  d.header.Version,
		Checksum: bytes.Clone(d.b[d.header.ChecksumOffset : d.header.ChecksumOffset+d.header.ChecksumLength]),

		TypesOffset: d.header.TypesOffset,
		TypesLength: d.header.TypesLength,

		NamesOffset: d.header.NamesOffset,
		NamesLength: d.header.NamesLength,

		StringsOffset: d.header.StringsOffset,
		StringsLength: d.header.StringsLength,

		ChecksumOffset: d.header.ChecksumOffset,
		ChecksumLength: d.header.ChecksumLength,
	}

	return h
}

// Types reads all types in the type table,
// caching them in the decoder. The first
// type is always the nil type.
func (d *Decoder) Types() ([]types.Type, error) {
	if d.allTypes != nil {
		return d.allTypes, nil
	}

	var offset uint64
	s := cryptobyte.String(d.b[d.header.TypesOffset:d.header.NamesOffset])
	remaining := len(s)
	var result []types.Type
	for !s.Empty() {
		typ, err := d.getTypeFrom(offset, &s)
		if err != nil {
			return nil, err
		}

		if offset == 0 && typ != nil {
			return nil, fmt.Errorf("invalid types section: first type is %s, want none", typ)
		}

		d.types[offset] = typ
		offset += uint64(remaining - len(s))
		remaining = len(s)
		result = append(result, typ)
	}

	if len(result) == 0 {
		return nil, fmt.Errorf("invalid types section: missing nil type")
	}

	d.allTypes = result

	return result, nil
}

// getType returns the type at the given offset,
// which must already have been decoded.
func (d *Decoder) getType(offset uint64) (types.Type, error) {
	typ, ok := d.types[offset]
	if !ok {
		return nil, fmt.Errorf("no type information at offset %d", offset)
	}

	return typ, nil
}

// getElement returns the non-nil type at the given
// offset, which must precede the referring type at
// offset here.
func (d *Decoder) getElement(here, offset uint64) (types.Type, error) {
	if offset >= here {
		return nil, fmt.Errorf("element type at offset %d does not precede type at offset %d", offset, here)
	}

	typ, err := d.getType(offset)
	if err != nil {
		return nil, err
	}

	if typ == nil {
		return nil, fmt.Errorf("element type at offset %d is the nil type", offset)
	}

	return typ, nil
}

// getTypeFrom reads the type at offset `here`
// from the given string.
func (d *Decoder) getTypeFrom(here uint64, s *cryptobyte.String) (types.Type, error) {
	var kind uint8
	var rest cryptobyte.String
	if !s.ReadUint8(&kind) ||
		!s.ReadUint24LengthPrefixed(&rest) {
		return nil, fmt.Errorf("failed to read type: %w", io.ErrUnexpectedEOF)
	}

	var typ types.Type
	switch TypeKind(kind) {
	case TypeKindNone:
		if here != 0 {
			return nil, fmt.Errorf("invalid type: got type kind %s at offset %d", TypeKind(kind), here)
		}
	case TypeKindBasic:
		var basic uint32
		if !rest.ReadUint32(&basic) {
			return nil, fmt.Errorf("invalid type: failed to read %s type kind: %w", TypeKind(kind), io.ErrUnexpectedEOF)
		}

		switch BasicKind(basic) {
		case BasicKindAddress:
			typ = types.Address
		case BasicKindBool:
			typ = types.Bool
		case BasicKindField:
			typ = types.Field
		case BasicKindGroup:
			typ = types.Group
		case BasicKindScalar:
			typ = types.Scalar
		case BasicKindSignature:
			typ = types.Signature
		case BasicKindString:
			typ = types.String
		case BasicKindI8:
			typ = types.I8
		case BasicKindI16:
			typ = types.I16
		case BasicKindI32:
			typ = types.I32
		case BasicKindI64:
			typ = types.I64
		case BasicKindI128:
			typ = types.I128
		case BasicKindU8:
			typ = types.U8
		case BasicKindU16:
			typ = types.U16
		case BasicKindU32:
			typ = types.U32
		case BasicKindU64:
			typ = types.U64
		case BasicKindU128:
			typ = types.U128
		case BasicKindUnit:
			typ = types.Unit
		default:
			return nil, fmt.Errorf("invalid type: got type kind %s with unrecognised basic kind %d", TypeKind(kind), basic)
		}
	case TypeKindArray:
		var elemOffset, length uint64
		if !rest.ReadUint64(&elemOffset) ||
			!rest.ReadUint64(&length) {
			return nil, fmt.Errorf("invalid type: failed to read %s type kind: %w", TypeKind(kind), io.ErrUnexpectedEOF)
		}

		elem, err := d.getElement(here, elemOffset)
		if err != nil {
			return nil, fmt.Errorf("invalid type: failed to read %s type kind element: %v", TypeKind(kind), err)
		}

		n, err := types.NewPositiveNumber(length)
		if err != nil {
			return nil, fmt.Errorf("invalid type: %s type kind: %w", TypeKind(kind), err)
		}

		typ = types.NewArray(elem, n)
	case TypeKindComposite:
		var nameOffset uint64
		if !rest.ReadUint64(&nameOffset) {
			return nil, fmt.Errorf("invalid type: failed to read %s type kind: %w", TypeKind(kind), io.ErrUnexpectedEOF)
		}

		name, err := d.getString(nameOffset)
		if err != nil {
			return nil, fmt.Errorf("invalid type: failed to read %s type kind name: %v", TypeKind(kind), err)
		}

		typ = types.NewComposite(name)
	case TypeKindTuple:
		var elems []types.Type
		for !rest.Empty() {
			var elemOffset uint64
			if !rest.ReadUint64(&elemOffset) {
				return nil, fmt.Errorf("invalid type: failed to read %s type kind element: %w", TypeKind(kind), io.ErrUnexpectedEOF)
			}

			elem, err := d.getElement(here, elemOffset)
			if err != nil {
				return nil, fmt.Errorf("invalid type: failed to read %s type kind element: %v", TypeKind(kind), err)
			}

			elems = append(elems, elem)
		}

		typ = types.NewTuple(elems...)
	default:
		return nil, fmt.Errorf("invalid type: got unrecognised type kind %d", kind)
	}

	if !rest.Empty() {
		return nil, fmt.Errorf("invalid type: got type kind %s with %d bytes of further data", TypeKind(kind), len(rest))
	}

	return typ, nil
}

// TypeNames reads all type names in the type
// table, caching them in the decoder.
func (d *Decoder) TypeNames() ([]*types.TypeName, error) {
	if d.allTypeNames != nil {
		return d.allTypeNames, nil
	}

	// Names refer to types, so we
	// must decode them first.
	_, err := d.Types()
	if err != nil {
		return nil, err
	}

	s := cryptobyte.String(d.b[d.header.NamesOffset:d.header.StringsOffset])
	result := make([]*types.TypeName, 0, d.header.NamesLength/nameSize)
	for !s.Empty() {
		var n name
		if !s.ReadUint64(&n.Name) ||
			!s.ReadUint64(&n.Type) {
			return nil, fmt.Errorf("invalid names section: %w", io.ErrUnexpectedEOF)
		}

		str, err := d.getString(n.Name)
		if err != nil {
			return nil, fmt.Errorf("invalid name %d: %v", len(result), err)
		}

		typ, err := d.getType(n.Type)
		if err != nil {
			return nil, fmt.Errorf("invalid name %q: %v", str, err)
		}

		if typ == nil {
			return nil, fmt.Errorf("invalid name %q: refers to the nil type", str)
		}

		result = append(result, types.NewTypeName(str, typ))
	}

	d.allTypeNames = result

	return result, nil
}

// getString reads the string at the given offset,
// caching the result.
func (d *Decoder) getString(offset uint64) (string, error) {
	if offset >= uint64(d.header.StringsLength) {
		return "", fmt.Errorf("invalid string offset: %d is beyond strings section", offset)
	}
	if offset%4 != 0 {
		return "", fmt.Errorf("invalid string offset: %d is not 32-bit aligned", offset)
	}

	str, ok := d.strings[offset]
	if ok {
		return str, nil
	}

	s := cryptobyte.String(d.b[uint64(d.header.StringsOffset)+offset : d.header.ChecksumOffset])
	str, err := readString(&s)
	if err != nil {
		return "", err
	}

	d.strings[offset] = str

	return str, nil
}

// Decode parses a type table, returning the
// type names it contains.
func Decode(b []byte) ([]*types.TypeName, error) {
	d, err := NewDecoder(b)
	if err != nil {
		return nil, err
	}

	return d.TypeNames()
}
