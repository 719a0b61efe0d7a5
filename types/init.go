// Copyright 2023 The Firefly Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

package types

var (
	Address   Type
	Bool      Type
	Field     Type
	Group     Type
	Scalar    Type
	Signature Type
	String    Type
	I8        Type
	I16       Type
	I32       Type
	I64       Type
	I128      Type
	U8        Type
	U16       Type
	U32       Type
	U64       Type
	U128      Type
	Unit      Type

	basicNames = make(map[string]*Basic)
)

// BasicTypes contains the predeclared *Basic types indexed by
// their corresponding BasicKind.
var BasicTypes = []*Basic{
	KindInvalid: {KindInvalid, 0, "invalid type"},

	KindAddress:   {KindAddress, 0, "address"},
	KindBool:      {KindBool, IsBoolean, "bool"},
	KindField:     {KindField, IsField, "field"},
	KindGroup:     {KindGroup, IsField, "group"},
	KindScalar:    {KindScalar, IsField, "scalar"},
	KindSignature: {KindSignature, 0, "signature"},
	KindString:    {KindString, IsString, "string"},
	KindI8:        {KindI8, IsInteger, "i8"},
	KindI16:       {KindI16, IsInteger, "i16"},
	KindI32:       {KindI32, IsInteger, "i32"},
	KindI64:       {KindI64, IsInteger, "i64"},
	KindI128:      {KindI128, IsInteger, "i128"},
	KindU8:        {KindU8, IsInteger | IsUnsigned, "u8"},
	KindU16:       {KindU16, IsInteger | IsUnsigned, "u16"},
	KindU32:       {KindU32, IsInteger | IsUnsigned, "u32"},
	KindU64:       {KindU64, IsInteger | IsUnsigned, "u64"},
	KindU128:      {KindU128, IsInteger | IsUnsigned, "u128"},

	KindUnit: {KindUnit, 0, "()"},
}

// LookupBasic returns the predeclared basic type
// with the given name, such as "u8" or "field".
func LookupBasic(name string) (*Basic, bool) {
	b, ok := basicNames[name]
	return b, ok
}

func init() {
	Address = BasicTypes[KindAddress]
	Bool = BasicTypes[KindBool]
	Field = BasicTypes[KindField]
	Group = BasicTypes[KindGroup]
	Scalar = BasicTypes[KindScalar]
	Signature = BasicTypes[KindSignature]
	String = BasicTypes[KindString]
	I8 = BasicTypes[KindI8]
	I16 = BasicTypes[KindI16]
	I32 = BasicTypes[KindI32]
	I64 = BasicTypes[KindI64]
	I128 = BasicTypes[KindI128]
	U8 = BasicTypes[KindU8]
	U16 = BasicTypes[KindU16]
	U32 = BasicTypes[KindU32]
	U64 = BasicTypes[KindU64]
	U128 = BasicTypes[KindU128]
	Unit = BasicTypes[KindUnit]

	for _, t := range BasicTypes {
		if t.kind == KindInvalid {
			continue
		}

		if basicNames[t.name] != nil {
			panic("double declaration of predeclared type " + t.name)
		}

		basicNames[t.name] = t
	}
}
