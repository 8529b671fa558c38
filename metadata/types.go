// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metadata

import "strings"

// TypeDefKind identifies the shape of a registry type
type TypeDefKind uint8

const (
	TypeDefComposite TypeDefKind = iota
	TypeDefVariant
	TypeDefSequence
	TypeDefArray
	TypeDefTuple
	TypeDefPrimitive
	TypeDefCompact
	TypeDefBitSequence
)

// Primitive identifies a primitive type
type Primitive uint8

const (
	PrimitiveBool Primitive = iota
	PrimitiveChar
	PrimitiveStr
	PrimitiveU8
	PrimitiveU16
	PrimitiveU32
	PrimitiveU64
	PrimitiveU128
	PrimitiveU256
	PrimitiveI8
	PrimitiveI16
	PrimitiveI32
	PrimitiveI64
	PrimitiveI128
	PrimitiveI256
)

// Size returns the encoded size of fixed-width primitives, or 0 for str
func (p Primitive) Size() int {
	switch p {
	case PrimitiveBool, PrimitiveU8, PrimitiveI8:
		return 1
	case PrimitiveU16, PrimitiveI16:
		return 2
	case PrimitiveChar, PrimitiveU32, PrimitiveI32:
		return 4
	case PrimitiveU64, PrimitiveI64:
		return 8
	case PrimitiveU128, PrimitiveI128:
		return 16
	case PrimitiveU256, PrimitiveI256:
		return 32
	default:
		return 0
	}
}

// Field is a named or positional field of a composite type or enum variant
type Field struct {
	Name     string
	Type     uint32
	TypeName string
}

// Variant is a single variant of an enum type
type Variant struct {
	Name   string
	Index  uint8
	Fields []Field
}

// Type is an entry in the metadata type registry. Which fields are used
// depends on Def
type Type struct {
	Id   uint32
	Path []string
	Def  TypeDefKind
	// TypeDefComposite
	Fields []Field
	// TypeDefVariant
	Variants []Variant
	// Element type for TypeDefSequence, TypeDefArray and TypeDefCompact
	Elem uint32
	// TypeDefArray
	Len uint32
	// TypeDefTuple
	Tuple []uint32
	// TypeDefPrimitive
	Primitive Primitive
}

// VariantByIndex returns the variant with the given index, or nil
func (t *Type) VariantByIndex(index uint8) *Variant {
	for i := range t.Variants {
		if t.Variants[i].Index == index {
			return &t.Variants[i]
		}
	}
	return nil
}

// VariantByName returns the variant with the given name, or nil
func (t *Type) VariantByName(name string) *Variant {
	for i := range t.Variants {
		if t.Variants[i].Name == name {
			return &t.Variants[i]
		}
	}
	return nil
}

// PathString returns the type path joined with "::"
func (t *Type) PathString() string {
	return strings.Join(t.Path, "::")
}
