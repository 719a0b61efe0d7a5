// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

// Package typegen generates random types for tests.
package typegen

import (
	"fmt"
	"math/rand"

	"github.com/Adamsnoni/leo/types"
)

// Random returns a random type, with nesting of at
// most maxDepth levels.
func Random(r *rand.Rand, maxDepth int) types.Type {
	if maxDepth <= 0 {
		return randomBasic(r)
	}

	switch r.Intn(6) {
	case 0, 1, 2:
		length := types.MustPositiveNumber(uint64(1 + r.Intn(64)))
		return types.NewArray(Random(r, maxDepth-1), length)
	case 3:
		return types.NewComposite(fmt.Sprintf("Struct%d", r.Intn(8)))
	case 4:
		elems := make([]types.Type, 2+r.Intn(3))
		for i := range elems {
			elems[i] = Random(r, maxDepth-1)
		}

		return types.NewTuple(elems...)
	default:
		return randomBasic(r)
	}
}

// RandomArray returns a random array type, with
// nesting of at most maxDepth levels.
func RandomArray(r *rand.Rand, maxDepth int) *types.Array {
	length := types.MustPositiveNumber(uint64(1 + r.Intn(64)))
	return types.NewArray(Random(r, maxDepth-1), length)
}

func randomBasic(r *rand.Rand) types.Type {
	// Skip KindInvalid.
	return types.BasicTypes[1+r.Intn(len(types.BasicTypes)-1)]
}

// Clone returns a deep copy of t that shares no
// composite values with t.
func Clone(t types.Type) types.Type {
	switch t := t.(type) {
	case *types.Basic:
		return t
	case *types.Array:
		return types.NewArray(Clone(t.Element()), t.PositiveLength())
	case *types.Composite:
		return types.NewComposite(t.Name())
	case *types.Tuple:
		elems := t.Elements()
		for i, elem := range elems {
			elems[i] = Clone(elem)
		}

		return types.NewTuple(elems...)
	default:
		panic(fmt.Sprintf("Clone(%T): type not supported", t))
	}
}
