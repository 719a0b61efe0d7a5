// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package types_test

import (
	"errors"
	"io"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Adamsnoni/leo/internal/typegen"
	"github.com/Adamsnoni/leo/types"
)

func TestMarshalType(t *testing.T) {
	tests := []struct {
		Name string
		Type types.Type
		Want []byte
	}{
		{
			Name: "basic",
			Type: types.U8,
			Want: []byte{
				0x01,                   // Basic.
				0x00, 0x00, 0x00, 0x04, // Body length.
				0x00, 0x00, 0x00, byte(types.KindU8),
			},
		},
		{
			Name: "array",
			Type: types.NewArray(types.Bool, n(5)),
			Want: []byte{
				0x02,                   // Array.
				0x00, 0x00, 0x00, 0x11, // Body length.
				0x01,                   // Element: basic.
				0x00, 0x00, 0x00, 0x04, // Element body length.
				0x00, 0x00, 0x00, byte(types.KindBool),
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x05, // Length.
			},
		},
		{
			Name: "composite",
			Type: types.NewComposite("Pt"),
			Want: []byte{
				0x03,                   // Composite.
				0x00, 0x00, 0x00, 0x06, // Body length.
				0x00, 0x00, 0x00, 0x02, // Name length.
				'P', 't',
			},
		},
		{
			Name: "empty tuple",
			Type: types.NewTuple(),
			Want: []byte{
				0x04,                   // Tuple.
				0x00, 0x00, 0x00, 0x00, // Body length.
			},
		},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			got, err := types.MarshalType(test.Type)
			if err != nil {
				t.Fatalf("MarshalType(%s): %v", test.Type, err)
			}

			if diff := cmp.Diff(test.Want, got); diff != "" {
				t.Fatalf("MarshalType(%s): (-want, +got)\n%s", test.Type, diff)
			}

			decoded, err := types.UnmarshalType(got)
			if err != nil {
				t.Fatalf("UnmarshalType(%s): %v", test.Type, err)
			}

			if !types.Identical(decoded, test.Type) {
				t.Fatalf("UnmarshalType(): got %s, want %s", decoded, test.Type)
			}
		})
	}
}

func TestMarshalTypeErrors(t *testing.T) {
	if _, err := types.MarshalType(nil); !errors.Is(err, types.ErrNilType) {
		t.Errorf("MarshalType(nil): got error %v, want %v", err, types.ErrNilType)
	}

	if _, err := types.MarshalType(types.NewArray(nil, n(2))); !errors.Is(err, types.ErrNilType) {
		t.Errorf("MarshalType([nil; 2]): got error %v, want %v", err, types.ErrNilType)
	}

	zero := types.NewArray(types.U8, types.PositiveNumber{})
	if _, err := types.MarshalType(zero); !errors.Is(err, types.ErrZeroLength) {
		t.Errorf("MarshalType([u8; 0]): got error %v, want %v", err, types.ErrZeroLength)
	}

	if _, err := zero.MarshalBinary(); !errors.Is(err, types.ErrZeroLength) {
		t.Errorf("MarshalBinary([u8; 0]): got error %v, want %v", err, types.ErrZeroLength)
	}

	nested := types.NewArray(types.NewArray(types.U8, types.PositiveNumber{}), n(2))
	if _, err := types.MarshalType(nested); !errors.Is(err, types.ErrZeroLength) {
		t.Errorf("MarshalType([[u8; 0]; 2]): got error %v, want %v", err, types.ErrZeroLength)
	}
}

func TestUnmarshalTypeErrors(t *testing.T) {
	tests := []struct {
		Name string
		Data []byte
		Err  error
	}{
		{
			Name: "empty",
			Data: nil,
			Err:  io.ErrUnexpectedEOF,
		},
		{
			Name: "truncated body",
			Data: []byte{0x01, 0x00, 0x00, 0x00, 0x04, 0x00, 0x00},
			Err:  io.ErrUnexpectedEOF,
		},
		{
			Name: "zero length array",
			Data: []byte{
				0x02, 0x00, 0x00, 0x00, 0x11,
				0x01, 0x00, 0x00, 0x00, 0x04, 0x00, 0x00, 0x00, byte(types.KindBool),
				0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
			},
			Err: types.ErrZeroLength,
		},
		{
			Name: "truncated body length",
			Data: []byte{0x01, 0x00, 0x00},
			Err:  io.ErrUnexpectedEOF,
		},
		{
			Name: "truncated composite name",
			Data: []byte{
				0x03, 0x00, 0x00, 0x00, 0x06,
				0x00, 0x00, 0x00, 0x05, 'P', 't',
			},
			Err: io.ErrUnexpectedEOF,
		},
		{
			Name: "invalid basic kind",
			Data: []byte{0x01, 0x00, 0x00, 0x00, 0x04, 0x00, 0x00, 0x00, 0x00},
		},
		{
			Name: "unknown kind",
			Data: []byte{0x7f, 0x00, 0x00, 0x00, 0x00},
		},
		{
			Name: "trailing data",
			Data: []byte{0x04, 0x00, 0x00, 0x00, 0x00, 0xff},
		},
		{
			Name: "extra body data",
			Data: []byte{0x01, 0x00, 0x00, 0x00, 0x05, 0x00, 0x00, 0x00, 0x02, 0xff},
		},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			got, err := types.UnmarshalType(test.Data)
			if err == nil {
				t.Fatalf("UnmarshalType(): got %s, want error", got)
			}

			if test.Err != nil && !errors.Is(err, test.Err) {
				t.Fatalf("UnmarshalType(): got error %v, want %v", err, test.Err)
			}
		})
	}
}

func TestCanonicalFormIsStructural(t *testing.T) {
	r := rand.New(rand.NewSource(6))
	for i := 0; i < 200; i++ {
		typ := typegen.Random(r, 5)
		a, err := types.MarshalType(typ)
		if err != nil {
			t.Fatalf("MarshalType(%s): %v", typ, err)
		}

		b, err := types.MarshalType(typegen.Clone(typ))
		if err != nil {
			t.Fatalf("MarshalType(%s): %v", typ, err)
		}

		if diff := cmp.Diff(a, b); diff != "" {
			t.Fatalf("MarshalType(%s): clones differ (-first, +second)\n%s", typ, diff)
		}

		if types.HashOf(typ) != types.HashOf(typegen.Clone(typ)) {
			t.Fatalf("HashOf(%s): clones have different hashes", typ)
		}
	}
}
