// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package codec

import (
	"fmt"

	"github.com/Adamsnoni/leo/types"
)

// File is a declaration file, which names a
// sequence of types.
type File struct {
	Types []Decl `cbor:"types" json:"types" yaml:"types" toml:"types"`
}

// Decl binds a name to a type.
type Decl struct {
	Name string `cbor:"name" json:"name" yaml:"name" toml:"name"`
	Type *Node  `cbor:"type" json:"type" yaml:"type" toml:"type"`
}

// ParseFile parses the declaration file with the
// given name and contents. The file's format is
// determined by its extension.
//
// Each name must be unique within the file.
func ParseFile(name string, data []byte) ([]*types.TypeName, error) {
	f, err := FormatFor(name)
	if err != nil {
		return nil, err
	}

	var file File
	err = decode(f, data, &file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	seen := make(map[string]bool)
	names := make([]*types.TypeName, 0, len(file.Types))
	for i, decl := range file.Types {
		if decl.Name == "" {
			return nil, fmt.Errorf("%s: declaration %d has no name", name, i)
		}

		if seen[decl.Name] {
			return nil, fmt.Errorf("%s: %s declared more than once", name, decl.Name)
		}

		seen[decl.Name] = true
		typ, err := decl.Type.Type()
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", name, decl.Name, err)
		}

		names = append(names, types.NewTypeName(decl.Name, typ))
	}

	return names, nil
}

// FormatFile returns the declaration file for
// names in the format f.
func FormatFile(f Format, names []*types.TypeName) ([]byte, error) {
	file := File{Types: make([]Decl, len(names))}
	for i, tn := range names {
		file.Types[i] = Decl{Name: tn.Name(), Type: NodeOf(tn.Type())}
	}

	data, err := encode(f, &file)
	if err != nil {
		return nil, fmt.Errorf("codec: failed to encode declarations as %s: %w", f, err)
	}

	return data, nil
}
