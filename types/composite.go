// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package types

// Composite represents a reference to a named
// struct or record type.
type Composite struct {
	name string
}

var _ Type = (*Composite)(nil)

// NewComposite returns a reference to the composite
// type with the given name.
func NewComposite(name string) *Composite {
	return &Composite{name: name}
}

// Name returns the composite type's name.
func (c *Composite) Name() string { return c.name }

func (c *Composite) Underlying() Type { return c }
func (c *Composite) String() string   { return c.name }

// Tuple represents an ordered, fixed-length
// sequence of element types.
type Tuple struct {
	elements []Type
}

var _ Type = (*Tuple)(nil)

// NewTuple returns a new tuple type with the
// given element types.
func NewTuple(elements ...Type) *Tuple {
	return &Tuple{elements: append([]Type(nil), elements...)}
}

// Len returns the number of elements in the tuple.
func (t *Tuple) Len() int { return len(t.elements) }

// At returns the i'th element type.
func (t *Tuple) At(i int) Type { return t.elements[i] }

// Elements returns a copy of the tuple's element
// types.
func (t *Tuple) Elements() []Type { return append([]Type(nil), t.elements...) }

func (t *Tuple) Underlying() Type { return t }
func (t *Tuple) String() string   { return typesList(t.elements) }
