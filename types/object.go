// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package types

import (
	"fmt"
)

// TypeName represents a name bound to a type, such
// as a type declaration.
type TypeName struct {
	name string
	typ  Type
}

func NewTypeName(name string, typ Type) *TypeName {
	return &TypeName{
		name: name,
		typ:  typ,
	}
}

func (n *TypeName) Name() string { return n.name }
func (n *TypeName) Type() Type   { return n.typ }

func (n *TypeName) String() string {
	return fmt.Sprintf("type %s (%s)", n.name, n.typ)
}
