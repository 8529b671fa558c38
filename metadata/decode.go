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

import (
	"errors"
	"fmt"
	"math/big"
	"unicode/utf8"

	"github.com/blinklabs-io/gosubstrate/scale"
	"github.com/holiman/uint256"
)

// Registry types nest, but never this deeply in a sane runtime
const maxDecodeDepth = 128

// Upper bound on the length of a sequence whose items take no bytes
const maxZeroSizedItems = 1 << 16

// DecodeWithMetadata is implemented by types that decode themselves with the
// help of the metadata type registry
type DecodeWithMetadata interface {
	DecodeWithMetadata(d *scale.Decoder, typeId uint32, m *Metadata) error
}

// NamedValue is a single decoded field
type NamedValue struct {
	Name  string
	Value any
}

// Composite is a decoded struct or the fields of an enum variant. Positional
// fields have an empty name
type Composite []NamedValue

// Field returns the value of the named field
func (c Composite) Field(name string) (any, bool) {
	for _, f := range c {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// VariantValue is a decoded enum value
type VariantValue struct {
	Name   string
	Index  uint8
	Fields Composite
}

// BitSequence is a decoded bit vector
type BitSequence []bool

// Decode decodes a value of the registry type typeId into a T. T may implement
// DecodeWithMetadata or scale.Unmarshaler, or be one of any, []byte, bool,
// string, uint8, uint16, uint32, uint64 or *uint256.Int, in which case the
// value is decoded dynamically and converted. On failure the cursor is left
// where it was and the error matches ErrDecode
func Decode[T any](d *scale.Decoder, typeId uint32, m *Metadata) (T, error) {
	var ret T
	start := d.Offset()
	err := decodeInto(any(&ret), d, typeId, m)
	if err != nil {
		_ = d.Seek(start)
		var zero T
		var decErr *DecodeError
		if errors.As(err, &decErr) {
			return zero, err
		}
		return zero, &DecodeError{TypeId: typeId, Err: err}
	}
	return ret, nil
}

func decodeInto(dest any, d *scale.Decoder, typeId uint32, m *Metadata) error {
	switch dest := dest.(type) {
	case DecodeWithMetadata:
		return dest.DecodeWithMetadata(d, typeId, m)
	case scale.Unmarshaler:
		return dest.UnmarshalSCALE(d)
	case *[]byte:
		// The raw encoding of the value
		start := d.Offset()
		if err := SkipValue(d, typeId, m); err != nil {
			return err
		}
		*dest = append([]byte(nil), d.Since(start)...)
		return nil
	}
	val, err := DecodeValue(d, typeId, m)
	if err != nil {
		return err
	}
	switch dest := dest.(type) {
	case *any:
		*dest = val
		return nil
	case *bool:
		v, ok := val.(bool)
		if !ok {
			return fmt.Errorf("cannot convert %T to bool", val)
		}
		*dest = v
		return nil
	case *string:
		v, ok := val.(string)
		if !ok {
			return fmt.Errorf("cannot convert %T to string", val)
		}
		*dest = v
		return nil
	case *uint8:
		v, err := toUint64(val, 8)
		*dest = uint8(v)
		return err
	case *uint16:
		v, err := toUint64(val, 16)
		*dest = uint16(v)
		return err
	case *uint32:
		v, err := toUint64(val, 32)
		*dest = uint32(v)
		return err
	case *uint64:
		v, err := toUint64(val, 64)
		*dest = v
		return err
	case **uint256.Int:
		switch v := val.(type) {
		case *uint256.Int:
			*dest = v
		case uint64:
			*dest = uint256.NewInt(v)
		default:
			return fmt.Errorf("cannot convert %T to *uint256.Int", val)
		}
		return nil
	default:
		return fmt.Errorf("unsupported decode target %T", dest)
	}
}

func toUint64(val any, bits int) (uint64, error) {
	var v uint64
	switch tmp := val.(type) {
	case uint64:
		v = tmp
	case *uint256.Int:
		if !tmp.IsUint64() {
			return 0, fmt.Errorf("value %s does not fit in %d bits", tmp.Dec(), bits)
		}
		v = tmp.Uint64()
	default:
		return 0, fmt.Errorf("cannot convert %T to uint%d", val, bits)
	}
	if bits < 64 && v >= 1<<bits {
		return 0, fmt.Errorf("value %d does not fit in %d bits", v, bits)
	}
	return v, nil
}

// DecodeValue dynamically decodes a value of the registry type typeId. The
// result is one of Composite, VariantValue, []any, []byte, BitSequence, bool,
// string, uint64, int64, *uint256.Int or *big.Int
func DecodeValue(d *scale.Decoder, typeId uint32, m *Metadata) (any, error) {
	start := d.Offset()
	val, err := decodeValue(d, typeId, m, 0)
	if err != nil {
		_ = d.Seek(start)
		return nil, &DecodeError{TypeId: typeId, Err: err}
	}
	return val, nil
}

// SkipValue advances the cursor past a value of the registry type typeId
func SkipValue(d *scale.Decoder, typeId uint32, m *Metadata) error {
	_, err := DecodeValue(d, typeId, m)
	return err
}

func decodeValue(d *scale.Decoder, typeId uint32, m *Metadata, depth int) (any, error) {
	if depth > maxDecodeDepth {
		return nil, fmt.Errorf("type %d: nesting too deep", typeId)
	}
	t := m.Type(typeId)
	if t == nil {
		return nil, fmt.Errorf("%w: %d", ErrTypeNotFound, typeId)
	}
	switch t.Def {
	case TypeDefComposite:
		return decodeFields(d, t.Fields, m, depth)
	case TypeDefVariant:
		index, err := d.ReadU8()
		if err != nil {
			return nil, err
		}
		v := t.VariantByIndex(index)
		if v == nil {
			return nil, fmt.Errorf("type %d: unknown variant index %d", typeId, index)
		}
		fields, err := decodeFields(d, v.Fields, m, depth)
		if err != nil {
			return nil, err
		}
		return VariantValue{Name: v.Name, Index: v.Index, Fields: fields}, nil
	case TypeDefSequence:
		n, err := d.ReadLength(0)
		if err != nil {
			return nil, err
		}
		return decodeItems(d, t.Elem, n, m, depth)
	case TypeDefArray:
		return decodeItems(d, t.Elem, int(t.Len), m, depth)
	case TypeDefTuple:
		ret := make([]any, 0, len(t.Tuple))
		for _, elem := range t.Tuple {
			val, err := decodeValue(d, elem, m, depth+1)
			if err != nil {
				return nil, err
			}
			ret = append(ret, val)
		}
		return ret, nil
	case TypeDefPrimitive:
		return decodePrimitive(d, t.Primitive)
	case TypeDefCompact:
		return decodeCompact(d, t.Elem, m, depth)
	case TypeDefBitSequence:
		return decodeBitSequence(d)
	default:
		return nil, fmt.Errorf("type %d: unknown definition kind %d", typeId, t.Def)
	}
}

func decodeFields(d *scale.Decoder, fields []Field, m *Metadata, depth int) (Composite, error) {
	ret := make(Composite, 0, len(fields))
	for _, f := range fields {
		val, err := decodeValue(d, f.Type, m, depth+1)
		if err != nil {
			return nil, err
		}
		ret = append(ret, NamedValue{Name: f.Name, Value: val})
	}
	return ret, nil
}

func decodeItems(d *scale.Decoder, elem uint32, n int, m *Metadata, depth int) (any, error) {
	elemType := m.Type(elem)
	if elemType == nil {
		return nil, fmt.Errorf("%w: %d", ErrTypeNotFound, elem)
	}
	// Byte vectors and arrays come back as []byte rather than []any
	if elemType.Def == TypeDefPrimitive && elemType.Primitive == PrimitiveU8 {
		buf, err := d.ReadBytes(n)
		if err != nil {
			return nil, err
		}
		return append([]byte(nil), buf...), nil
	}
	if n > d.Remaining() {
		if !zeroSized(elemType, m, map[uint32]bool{}) {
			return nil, &scale.ShortReadError{Offset: d.Offset(), Wanted: n, Available: d.Remaining()}
		}
		if n > maxZeroSizedItems {
			return nil, fmt.Errorf("type %d: %d zero-sized items exceeds limit of %d", elem, n, maxZeroSizedItems)
		}
	}
	ret := make([]any, 0, min(n, d.Remaining()+1))
	for range n {
		val, err := decodeValue(d, elem, m, depth+1)
		if err != nil {
			return nil, err
		}
		ret = append(ret, val)
	}
	return ret, nil
}

// zeroSized reports whether values of t take no bytes. A type that contains
// itself is never zero-sized
func zeroSized(t *Type, m *Metadata, visiting map[uint32]bool) bool {
	if visiting[t.Id] {
		return false
	}
	visiting[t.Id] = true
	defer delete(visiting, t.Id)
	var children []uint32
	switch t.Def {
	case TypeDefComposite:
		for _, f := range t.Fields {
			children = append(children, f.Type)
		}
	case TypeDefTuple:
		children = t.Tuple
	case TypeDefArray:
		if t.Len == 0 {
			return true
		}
		children = []uint32{t.Elem}
	default:
		return false
	}
	for _, id := range children {
		if ct := m.Type(id); ct == nil || !zeroSized(ct, m, visiting) {
			return false
		}
	}
	return true
}

func decodePrimitive(d *scale.Decoder, p Primitive) (any, error) {
	switch p {
	case PrimitiveBool:
		return d.ReadBool()
	case PrimitiveChar:
		v, err := d.ReadU32()
		if err != nil {
			return nil, err
		}
		if !utf8.ValidRune(rune(v)) {
			return nil, fmt.Errorf("invalid char 0x%x", v)
		}
		return string(rune(v)), nil
	case PrimitiveStr:
		s, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		if !utf8.ValidString(s) {
			return nil, errors.New("invalid UTF-8 string")
		}
		return s, nil
	case PrimitiveU8:
		v, err := d.ReadU8()
		return uint64(v), err
	case PrimitiveU16:
		v, err := d.ReadU16()
		return uint64(v), err
	case PrimitiveU32:
		v, err := d.ReadU32()
		return uint64(v), err
	case PrimitiveU64:
		return d.ReadU64()
	case PrimitiveU128, PrimitiveU256:
		return d.ReadUint(p.Size())
	case PrimitiveI8:
		v, err := d.ReadU8()
		return int64(int8(v)), err
	case PrimitiveI16:
		v, err := d.ReadU16()
		return int64(int16(v)), err
	case PrimitiveI32:
		v, err := d.ReadU32()
		return int64(int32(v)), err
	case PrimitiveI64:
		v, err := d.ReadU64()
		return int64(v), err
	case PrimitiveI128, PrimitiveI256:
		u, err := d.ReadUint(p.Size())
		if err != nil {
			return nil, err
		}
		// Two's complement
		ret := u.ToBig()
		bits := uint(p.Size() * 8)
		if ret.Bit(int(bits-1)) == 1 {
			ret.Sub(ret, new(big.Int).Lsh(big.NewInt(1), bits))
		}
		return ret, nil
	default:
		return nil, fmt.Errorf("unknown primitive %d", p)
	}
}

func decodeCompact(d *scale.Decoder, elem uint32, m *Metadata, depth int) (any, error) {
	t := m.Type(elem)
	if t == nil {
		return nil, fmt.Errorf("%w: %d", ErrTypeNotFound, elem)
	}
	switch t.Def {
	case TypeDefPrimitive:
		v, err := d.ReadCompactBig()
		if err != nil {
			return nil, err
		}
		if v.IsUint64() && t.Primitive.Size() <= 8 {
			return v.Uint64(), nil
		}
		return v, nil
	case TypeDefComposite:
		// Compact<()> or a single-field wrapper such as Compact<Perbill>
		switch len(t.Fields) {
		case 0:
			return Composite{}, nil
		case 1:
			val, err := decodeCompact(d, t.Fields[0].Type, m, depth+1)
			if err != nil {
				return nil, err
			}
			return Composite{{Name: t.Fields[0].Name, Value: val}}, nil
		}
	case TypeDefTuple:
		if len(t.Tuple) == 0 {
			return []any{}, nil
		}
	}
	return nil, fmt.Errorf("type %d cannot be compact encoded", elem)
}

func decodeBitSequence(d *scale.Decoder) (BitSequence, error) {
	n, err := d.ReadCompact()
	if err != nil {
		return nil, err
	}
	if n > uint64(d.Remaining())*8 {
		return nil, &scale.ShortReadError{Offset: d.Offset(), Wanted: int((n + 7) / 8), Available: d.Remaining()}
	}
	buf, err := d.ReadBytes(int((n + 7) / 8))
	if err != nil {
		return nil, err
	}
	ret := make(BitSequence, n)
	for i := range ret {
		// Lsb0 ordering over u8 storage
		ret[i] = buf[i/8]&(1<<(i%8)) != 0
	}
	return ret, nil
}
