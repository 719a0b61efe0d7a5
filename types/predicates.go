// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package types

// Identical reports whether x and y are structurally
// identical types.
func Identical(x, y Type) bool {
	if x == y {
		return true
	}

	if x == nil || y == nil {
		return false
	}

	switch x := x.(type) {
	case *Basic:
		if y, ok := y.(*Basic); ok {
			return x.kind == y.kind
		}
	case *Array:
		if y, ok := y.(*Array); ok {
			return x.length == y.length && Identical(x.element, y.element)
		}
	case *Composite:
		if y, ok := y.(*Composite); ok {
			return x.name == y.name
		}
	case *Tuple:
		if y, ok := y.(*Tuple); ok {
			return identicalLists(x.elements, y.elements)
		}
	}

	return false
}

func identicalLists(x, y []Type) bool {
	if len(x) != len(y) {
		return false
	}

	for i := range x {
		if !Identical(x[i], y[i]) {
			return false
		}
	}

	return true
}
