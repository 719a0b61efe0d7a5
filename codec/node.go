// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package codec

import (
	"errors"
	"fmt"

	"github.com/Adamsnoni/leo/types"
)

// Node kinds.
const (
	KindBasic     = "basic"
	KindArray     = "array"
	KindComposite = "composite"
	KindTuple     = "tuple"
)

// Node is the structured data representation of
// a type.
//
// Basic types and composites use Name, arrays
// use Element and Length, and tuples use
// Elements.
type Node struct {
	Kind     string  `cbor:"kind" json:"kind" yaml:"kind" toml:"kind"`
	Name     string  `cbor:"name,omitempty" json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Element  *Node   `cbor:"element,omitempty" json:"element,omitempty" yaml:"element,omitempty" toml:"element,omitempty"`
	Length   uint64  `cbor:"length,omitempty" json:"length,omitempty" yaml:"length,omitempty" toml:"length,omitempty"`
	Elements []*Node `cbor:"elements,omitempty" json:"elements,omitempty" yaml:"elements,omitempty" toml:"elements,omitempty"`
}

// NodeOf returns the node representing t. NodeOf
// returns nil if t is nil.
func NodeOf(t types.Type) *Node {
	switch t := t.(type) {
	case nil:
		return nil
	case *types.Basic:
		return &Node{Kind: KindBasic, Name: t.Name()}
	case *types.Array:
		return &Node{Kind: KindArray, Element: NodeOf(t.Element()), Length: t.PositiveLength().Uint64()}
	case *types.Composite:
		return &Node{Kind: KindComposite, Name: t.Name()}
	case *types.Tuple:
		elems := make([]*Node, t.Len())
		for i := range elems {
			elems[i] = NodeOf(t.At(i))
		}

		return &Node{Kind: KindTuple, Elements: elems}
	default:
		panic(fmt.Sprintf("NodeOf(%T): type not supported", t))
	}
}

// Type returns the type n represents.
func (n *Node) Type() (types.Type, error) {
	if n == nil {
		return nil, errors.New("codec: missing type")
	}

	switch n.Kind {
	case KindBasic:
		basic, ok := types.LookupBasic(n.Name)
		if !ok {
			return nil, fmt.Errorf("codec: unrecognised basic type %q", n.Name)
		}

		return basic, nil
	case KindArray:
		if n.Element == nil {
			return nil, errors.New("codec: array type has no element type")
		}

		length, err := types.NewPositiveNumber(n.Length)
		if err != nil {
			return nil, fmt.Errorf("codec: invalid array type: %w", err)
		}

		elem, err := n.Element.Type()
		if err != nil {
			return nil, err
		}

		return types.NewArray(elem, length), nil
	case KindComposite:
		if n.Name == "" {
			return nil, errors.New("codec: composite type has no name")
		}

		return types.NewComposite(n.Name), nil
	case KindTuple:
		elems := make([]types.Type, len(n.Elements))
		for i, elem := range n.Elements {
			typ, err := elem.Type()
			if err != nil {
				return nil, err
			}

			elems[i] = typ
		}

		return types.NewTuple(elems...), nil
	case "":
		return nil, errors.New("codec: type has no kind")
	default:
		return nil, fmt.Errorf("codec: unrecognised type kind %q", n.Kind)
	}
}

// Marshal encodes t in the format f.
func Marshal(f Format, t types.Type) ([]byte, error) {
	if t == nil {
		return nil, types.ErrNilType
	}

	node := NodeOf(t)
	data, err := encode(f, node)
	if err != nil {
		return nil, fmt.Errorf("codec: failed to encode %s type as %s: %w", node.Kind, f, err)
	}

	return data, nil
}

// Unmarshal decodes a type from data in the
// format f.
func Unmarshal(f Format, data []byte) (types.Type, error) {
	var n Node
	err := decode(f, data, &n)
	if err != nil {
		return nil, fmt.Errorf("codec: failed to decode %s: %w", f, err)
	}

	return n.Type()
}
