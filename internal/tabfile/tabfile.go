// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

// Package tabfile reads and writes type table files,
// which may be compressed with zstd.
package tabfile

import (
	"bytes"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/Adamsnoni/leo/typetab"
	"github.com/Adamsnoni/leo/types"
)

// zstdMagic is the magic number at the start of
// each zstd frame.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// zstdEncoder and zstdDecoder are safe for concurrent
// use and are shared by all calls.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
	)
	if err != nil {
		panic("tabfile: zstd encoder initialization failed: " + err.Error())
	}

	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("tabfile: zstd decoder initialization failed: " + err.Error())
	}
}

// IsCompressed reports whether data starts with a
// zstd frame.
func IsCompressed(data []byte) bool {
	return bytes.HasPrefix(data, zstdMagic)
}

// Encode returns the type table containing names,
// compressed if compress is true.
func Encode(names []*types.TypeName, compress bool) ([]byte, error) {
	var buf bytes.Buffer
	err := typetab.Encode(&buf, names)
	if err != nil {
		return nil, err
	}

	if !compress {
		return buf.Bytes(), nil
	}

	return zstdEncoder.EncodeAll(buf.Bytes(), nil), nil
}

// Decompress returns the uncompressed type table in
// data. If data is not compressed, it is returned
// unchanged.
func Decompress(data []byte) ([]byte, error) {
	if !IsCompressed(data) {
		return data, nil
	}

	table, err := zstdDecoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}

	return table, nil
}

// Write writes the type table containing names to
// the named file.
func Write(name string, names []*types.TypeName, compress bool) error {
	data, err := Encode(names, compress)
	if err != nil {
		return err
	}

	err = os.WriteFile(name, data, 0644)
	if err != nil {
		return fmt.Errorf("failed to write type table: %v", err)
	}

	return nil
}

// Open reads the named type table file, returning
// a decoder for its contents.
func Open(name string) (*typetab.Decoder, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read type table: %v", err)
	}

	table, err := Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", name, err)
	}

	d, err := typetab.NewDecoder(table)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", name, err)
	}

	return d, nil
}

// Read reads the named type table file, returning
// the type names it contains.
func Read(name string) ([]*types.TypeName, error) {
	d, err := Open(name)
	if err != nil {
		return nil, err
	}

	names, err := d.TypeNames()
	if err != nil {
		return nil, fmt.Errorf("%s: %v", name, err)
	}

	return names, nil
}
