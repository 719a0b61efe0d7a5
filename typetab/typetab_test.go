// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package typetab

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"io"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Adamsnoni/leo/internal/typegen"
	"github.com/Adamsnoni/leo/types"
)

func n(v uint64) types.PositiveNumber { return types.MustPositiveNumber(v) }

var point = types.NewComposite("Point")

var tests = []struct {
	Name    string
	Names   []*types.TypeName
	Raw     []byte
	Decoded *decoded
}{
	{
		Name:  "empty",
		Names: nil,
		Raw: []byte{
			// Header.
			0x6c, 0x74, 0x79, 0x70, // Magic.
			1,       // Version: 1.
			0, 0, 0, // Reserved.
			0, 0, 0, 24, // TypesOffset: 24.
			0, 0, 0, 28, // NamesOffset: 28.
			0, 0, 0, 28, // StringsOffset: 28.
			0, 0, 0, 32, // ChecksumOffset: 32.
			// Types.
			// - The nil type.
			1,       // Kind: none.
			0, 0, 0, // Length: 0.
			// Names.
			// Strings.
			// - The empty string.
			0, 0, 0, 0, // Length: 0.
			// Checksum.
			0x39, 0xc8, 0x26, 0xe7, 0x61, 0xdc, 0x5b, 0x6b,
			0xe0, 0x5e, 0x83, 0xa7, 0x8a, 0xae, 0xca, 0x85,
			0x64, 0x6b, 0xb8, 0xc2, 0x39, 0x69, 0xfe, 0x04,
			0xe5, 0x56, 0x2c, 0x65, 0x04, 0x1b, 0x7b, 0x5e,
		},
		Decoded: &decoded{
			header: header{
				Magic:          magic,
				Version:        1,
				TypesOffset:    24,
				TypesLength:    4,
				NamesOffset:    28,
				NamesLength:    0,
				StringsOffset:  28,
				StringsLength:  4,
				ChecksumOffset: 32,
				ChecksumLength: 32,
			},
			types: map[uint64]typeSplat{
				0: {
					Kind:   TypeKindNone,
					Length: 0,
				},
			},
			names: []name{},
			strings: map[uint64]string{
				0: "",
			},
		},
	},
	{
		Name: "arrays",
		Names: []*types.TypeName{
			types.NewTypeName("Board", types.NewArray(types.NewArray(types.U8, n(2)), n(3))),
			types.NewTypeName("Flag", types.Bool),
			types.NewTypeName("Pair", types.NewTuple(point, types.NewArray(types.U8, n(2)))),
		},
		Raw: []byte{
			// Header.
			0x6c, 0x74, 0x79, 0x70, // Magic.
			1,       // Version: 1.
			0, 0, 0, // Reserved.
			0, 0, 0, 24, // TypesOffset: 24.
			0, 0, 0, 116, // NamesOffset: 116.
			0, 0, 0, 164, // StringsOffset: 164.
			0, 0, 0, 208, // ChecksumOffset: 208.
			// Types.
			// - The nil type.
			1,       // Kind: none.
			0, 0, 0, // Length: 0.
			// - u8.
			2,        // Kind: basic.
			0, 0, 4, // Length: 4.
			0, 0, 0, 0x0d, // Basic: u8.
			// - [u8; 2].
			3,         // Kind: array.
			0, 0, 16, // Length: 16.
			0, 0, 0, 0, 0, 0, 0, 4, // Element: u8.
			0, 0, 0, 0, 0, 0, 0, 2, // Length: 2.
			// - [[u8; 2]; 3].
			3,         // Kind: array.
			0, 0, 16, // Length: 16.
			0, 0, 0, 0, 0, 0, 0, 12, // Element: [u8; 2].
			0, 0, 0, 0, 0, 0, 0, 3, // Length: 3.
			// - bool.
			2,        // Kind: basic.
			0, 0, 4, // Length: 4.
			0, 0, 0, 0x02, // Basic: bool.
			// - Point.
			4,        // Kind: composite.
			0, 0, 8, // Length: 8.
			0, 0, 0, 0, 0, 0, 0, 24, // Name: "Point".
			// - (Point, [u8; 2]).
			5,         // Kind: tuple.
			0, 0, 16, // Length: 16.
			0, 0, 0, 0, 0, 0, 0, 60, // Element: Point.
			0, 0, 0, 0, 0, 0, 0, 12, // Element: [u8; 2].
			// Names.
			// - Board.
			0, 0, 0, 0, 0, 0, 0, 4, // Name: "Board".
			0, 0, 0, 0, 0, 0, 0, 32, // Type: [[u8; 2]; 3].
			// - Flag.
			0, 0, 0, 0, 0, 0, 0, 16, // Name: "Flag".
			0, 0, 0, 0, 0, 0, 0, 52, // Type: bool.
			// - Pair.
			0, 0, 0, 0, 0, 0, 0, 36, // Name: "Pair".
			0, 0, 0, 0, 0, 0, 0, 72, // Type: (Point, [u8; 2]).
			// Strings.
			// - The empty string.
			0, 0, 0, 0, // Length: 0.
			// - "Board".
			0, 0, 0, 5, // Length: 5.
			'B', 'o', 'a', 'r', 'd', // Text.
			0, 0, 0, // Padding.
			// - "Flag".
			0, 0, 0, 4, // Length: 4.
			'F', 'l', 'a', 'g', // Text.
			// - "Point".
			0, 0, 0, 5, // Length: 5.
			'P', 'o', 'i', 'n', 't', // Text.
			0, 0, 0, // Padding.
			// - "Pair".
			0, 0, 0, 4, // Length: 4.
			'P', 'a', 'i', 'r', // Text.
			// Checksum.
			0x70, 0xdf, 0xa7, 0xd3, 0x3a, 0xb7, 0x8f, 0x66,
			0x9a, 0xb4, 0xd7, 0xf4, 0xca, 0x6e, 0xee, 0x7e,
			0x90, 0x78, 0x19, 0xae, 0xab, 0x5c, 0x82, 0xc3,
			0xf1, 0xb4, 0xc7, 0xcc, 0x27, 0xf5, 0x68, 0x9f,
		},
		Decoded: &decoded{
			header: header{
				Magic:          magic,
				Version:        1,
				TypesOffset:    24,
				TypesLength:    92,
				NamesOffset:    116,
				NamesLength:    48,
				StringsOffset:  164,
				StringsLength:  44,
				ChecksumOffset: 208,
				ChecksumLength: 32,
			},
			types: map[uint64]typeSplat{
				0: {
					Kind:   TypeKindNone,
					Length: 0,
				},
				4: {
					Kind:   TypeKindBasic,
					Length: 4,
					Basic:  BasicKindU8,
				},
				12: {
					Kind:        TypeKindArray,
					Length:      16,
					Element:     4,
					ArrayLength: 2,
				},
				32: {
					Kind:        TypeKindArray,
					Length:      16,
					Element:     12,
					ArrayLength: 3,
				},
				52: {
					Kind:   TypeKindBasic,
					Length: 4,
					Basic:  BasicKindBool,
				},
				60: {
					Kind:   TypeKindComposite,
					Length: 8,
					Name:   24,
				},
				72: {
					Kind:     TypeKindTuple,
					Length:   16,
					Elements: []uint64{60, 12},
				},
			},
			names: []name{
				{Name: 4, Type: 32},
				{Name: 16, Type: 52},
				{Name: 36, Type: 72},
			},
			strings: map[uint64]string{
				0:  "",
				4:  "Board",
				16: "Flag",
				24: "Point",
				36: "Pair",
			},
		},
	},
}

func TestEncode(t *testing.T) {
	opts := []cmp.Option{
		cmp.AllowUnexported(
			decoded{},
		),
	}

	var buf bytes.Buffer
	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			buf.Reset()
			err := Encode(&buf, test.Names)
			if err != nil {
				t.Fatalf("failed to encode type table: %v", err)
			}

			if !bytes.Equal(buf.Bytes(), test.Raw) {
				diff := cmp.Diff(test.Raw, buf.Bytes())
				t.Fatalf("encoding mismatch: (-want, +got)\n%s", diff)
			}

			got, err := decodeSimple(buf.Bytes())
			if err != nil {
				t.Fatalf("failed to decode type table: %v", err)
			}

			if diff := cmp.Diff(test.Decoded, got, opts...); diff != "" {
				t.Fatalf("Decode(): (-want, +got)\n%s", diff)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			got, err := Decode(test.Raw)
			if err != nil {
				t.Fatalf("failed to decode type table: %v", err)
			}

			if len(got) != len(test.Names) {
				t.Fatalf("Decode(): got %d names, want %d", len(got), len(test.Names))
			}

			for i, want := range test.Names {
				if got[i].Name() != want.Name() {
					t.Errorf("name %d: got %q, want %q", i, got[i].Name(), want.Name())
				}

				if !types.Identical(got[i].Type(), want.Type()) {
					t.Errorf("name %q: got type %s, want %s", want.Name(), got[i].Type(), want.Type())
				}
			}
		})
	}
}

func TestDecoderHeader(t *testing.T) {
	raw := tests[1].Raw
	d, err := NewDecoder(raw)
	if err != nil {
		t.Fatalf("NewDecoder(): %v", err)
	}

	want := &Header{
		Magic:          magic,
		Version:        1,
		Checksum:       raw[208:],
		TypesOffset:    24,
		TypesLength:    92,
		NamesOffset:    116,
		NamesLength:    48,
		StringsOffset:  164,
		StringsLength:  44,
		ChecksumOffset: 208,
		ChecksumLength: 32,
	}

	if diff := cmp.Diff(want, d.Header()); diff != "" {
		t.Fatalf("Header(): (-want, +got)\n%s", diff)
	}

	all, err := d.Types()
	if err != nil {
		t.Fatalf("Types(): %v", err)
	}

	if len(all) != 7 || all[0] != nil {
		t.Fatalf("Types(): got %v, want the nil type and 6 others", all)
	}

	// Identical types are stored once, so the
	// [u8; 2] in Board and Pair is shared.
	names, err := d.TypeNames()
	if err != nil {
		t.Fatalf("TypeNames(): %v", err)
	}

	board := names[0].Type().(*types.Array)
	pair := names[2].Type().(*types.Tuple)
	if board.Element() != pair.At(1) {
		t.Fatalf("TypeNames(): %s and %s do not share [u8; 2]", board, pair)
	}
}

// reseal replaces the checksum at the end
// of b, so that tests can check for errors
// after the checksum is verified.
func reseal(b []byte) []byte {
	sum := sha256.Sum256(b[:len(b)-ChecksumLength])
	copy(b[len(b)-ChecksumLength:], sum[:])
	return b
}

func TestDecodeErrors(t *testing.T) {
	// Offsets into the "arrays" test's raw data.
	const (
		typesStart   = 24
		arrayOffset  = typesStart + 12 // [u8; 2].
		tupleOffset  = typesStart + 72 // (Point, [u8; 2]).
		namesStart   = 116
		stringsStart = 164
	)

	edit := func(f func(b []byte)) []byte {
		b := bytes.Clone(tests[1].Raw)
		f(b)
		return b
	}

	errorTests := []struct {
		Name string
		Data []byte
		Err  error
	}{
		{
			Name: "truncated header",
			Data: tests[1].Raw[:10],
			Err:  io.ErrUnexpectedEOF,
		},
		{
			Name: "truncated file",
			Data: tests[1].Raw[:len(tests[1].Raw)-1],
		},
		{
			Name: "bad magic",
			Data: edit(func(b []byte) { b[0] = 'x' }),
		},
		{
			Name: "bad version",
			Data: edit(func(b []byte) { b[4] = 2 }),
		},
		{
			Name: "nonzero reserved",
			Data: edit(func(b []byte) { b[6] = 1 }),
		},
		{
			Name: "checksum mismatch",
			Data: edit(func(b []byte) { b[stringsStart+8] = 'b' }),
		},
		{
			Name: "misaligned names offset",
			Data: edit(func(b []byte) {
				binary.BigEndian.PutUint32(b[12:], namesStart+2)
				reseal(b)
			}),
		},
		{
			Name: "zero array length",
			Data: edit(func(b []byte) {
				binary.BigEndian.PutUint64(b[arrayOffset+12:], 0)
				reseal(b)
			}),
			Err: types.ErrZeroLength,
		},
		{
			Name: "self reference",
			Data: edit(func(b []byte) {
				binary.BigEndian.PutUint64(b[arrayOffset+4:], 12)
				reseal(b)
			}),
		},
		{
			Name: "forward reference",
			Data: edit(func(b []byte) {
				binary.BigEndian.PutUint64(b[tupleOffset+4:], 72+16)
				reseal(b)
			}),
		},
		{
			Name: "nil element",
			Data: edit(func(b []byte) {
				binary.BigEndian.PutUint64(b[arrayOffset+4:], 0)
				reseal(b)
			}),
		},
		{
			Name: "unknown basic kind",
			Data: edit(func(b []byte) {
				binary.BigEndian.PutUint32(b[typesStart+8:], 0x7f)
				reseal(b)
			}),
		},
		{
			Name: "unknown type kind",
			Data: edit(func(b []byte) {
				b[typesStart+4] = 0x7f
				reseal(b)
			}),
		},
		{
			Name: "name of nil type",
			Data: edit(func(b []byte) {
				binary.BigEndian.PutUint64(b[namesStart+8:], 0)
				reseal(b)
			}),
		},
		{
			Name: "name of mid-type offset",
			Data: edit(func(b []byte) {
				binary.BigEndian.PutUint64(b[namesStart+8:], 8)
				reseal(b)
			}),
		},
		{
			Name: "misaligned string",
			Data: edit(func(b []byte) {
				binary.BigEndian.PutUint64(b[namesStart:], 6)
				reseal(b)
			}),
		},
		{
			Name: "bad string padding",
			Data: edit(func(b []byte) {
				b[stringsStart+4+4+5] = 1
				reseal(b)
			}),
		},
	}

	for _, test := range errorTests {
		t.Run(test.Name, func(t *testing.T) {
			got, err := Decode(test.Data)
			if err == nil {
				t.Fatalf("Decode(): got %v, want error", got)
			}

			if test.Err != nil && !errors.Is(err, test.Err) {
				t.Fatalf("Decode(): got error %v, want %v", err, test.Err)
			}
		})
	}
}

func TestEncodeErrors(t *testing.T) {
	var buf bytes.Buffer
	bad := []*types.TypeName{
		types.NewTypeName("Nil", types.NewArray(nil, n(2))),
		types.NewTypeName("Zero", types.NewArray(types.U8, types.PositiveNumber{})),
		types.NewTypeName("Tuple", types.NewTuple(types.U8, nil)),
	}

	for _, tn := range bad {
		buf.Reset()
		err := Encode(&buf, []*types.TypeName{tn})
		if err == nil {
			t.Errorf("Encode(%s): unexpected success", tn.Name())
		}
	}
}

func TestRoundTripping(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	var first, second bytes.Buffer
	for i := 0; i < 50; i++ {
		names := make([]*types.TypeName, 1+r.Intn(10))
		for j := range names {
			names[j] = types.NewTypeName(string(rune('A'+j)), typegen.Random(r, 5))
		}

		first.Reset()
		err := Encode(&first, names)
		if err != nil {
			t.Fatalf("failed to encode type table: %v", err)
		}

		got, err := Decode(first.Bytes())
		if err != nil {
			t.Fatalf("failed to decode type table: %v", err)
		}

		for j, want := range names {
			if got[j].Name() != want.Name() || !types.Identical(got[j].Type(), want.Type()) {
				t.Fatalf("round trip: got %s, want %s", got[j], want)
			}
		}

		// Re-encoding the decoded names must
		// produce the same bytes.
		second.Reset()
		err = Encode(&second, got)
		if err != nil {
			t.Fatalf("failed to re-encode type table: %v", err)
		}

		if !bytes.Equal(first.Bytes(), second.Bytes()) {
			t.Fatalf("re-encoding mismatch:\n%s", cmp.Diff(first.Bytes(), second.Bytes()))
		}
	}
}

func TestDeepNesting(t *testing.T) {
	const depth = 10000
	var typ types.Type = types.Field
	for i := 0; i < depth; i++ {
		typ = types.NewArray(typ, n(uint64(1+i%3)))
	}

	names := []*types.TypeName{types.NewTypeName("Deep", typ)}
	var buf bytes.Buffer
	err := Encode(&buf, names)
	if err != nil {
		t.Fatalf("failed to encode type table: %v", err)
	}

	got, err := Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("failed to decode type table: %v", err)
	}

	if len(got) != 1 || !types.Identical(got[0].Type(), typ) {
		t.Fatalf("Decode(): got a different type at depth %d", depth)
	}

	if d := got[0].Type().(*types.Array).Depth(); d != depth {
		t.Fatalf("Decode(): got depth %d, want %d", d, depth)
	}
}
