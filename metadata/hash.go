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
	"github.com/blinklabs-io/gosubstrate/hashing"
	"github.com/blinklabs-io/gosubstrate/scale"
)

// Tags mixed into the hash input so that different shapes with the same
// children never collide
const (
	hashTagComposite byte = iota + 1
	hashTagVariant
	hashTagSequence
	hashTagArray
	hashTagTuple
	hashTagPrimitive
	hashTagCompact
	hashTagBitSequence
	hashTagRecursive
	hashTagStorageEntry
)

// The hash of a type only depends on its shape and field names, never on its
// registry ID, so that the same layout hashes identically across runtimes that
// number their types differently
func (m *Metadata) typeHash(id uint32) [32]byte {
	hash, _ := m.walkTypeHash(id, map[uint32]bool{})
	return hash
}

// walkTypeHash also reports whether the walk below id reached a type already
// on the stack. Only hashes of types with no recursion below them are cached,
// since a recursive type hashes differently depending on where the walk
// entered the cycle
func (m *Metadata) walkTypeHash(id uint32, visiting map[uint32]bool) ([32]byte, bool) {
	if hash, ok := m.typeHashCache[id]; ok {
		return hash, false
	}
	if visiting[id] {
		return hashing.Blake2_256([]byte{hashTagRecursive}), true
	}
	visiting[id] = true
	defer delete(visiting, id)
	recursive := false
	child := func(buf []byte, childId uint32) []byte {
		h, r := m.walkTypeHash(childId, visiting)
		recursive = recursive || r
		return append(buf, h[:]...)
	}
	t := m.Type(id)
	var buf []byte
	switch t.Def {
	case TypeDefComposite:
		buf = append(buf, hashTagComposite)
		buf = appendFieldsHash(buf, t.Fields, child)
	case TypeDefVariant:
		buf = append(buf, hashTagVariant)
		buf = scale.AppendCompact(buf, uint64(len(t.Variants)))
		for _, v := range t.Variants {
			buf = scale.AppendString(buf, v.Name)
			buf = append(buf, v.Index)
			buf = appendFieldsHash(buf, v.Fields, child)
		}
	case TypeDefSequence:
		buf = append(buf, hashTagSequence)
		buf = child(buf, t.Elem)
	case TypeDefArray:
		buf = append(buf, hashTagArray)
		buf = scale.AppendU32(buf, t.Len)
		buf = child(buf, t.Elem)
	case TypeDefTuple:
		buf = append(buf, hashTagTuple)
		buf = scale.AppendCompact(buf, uint64(len(t.Tuple)))
		for _, elemId := range t.Tuple {
			buf = child(buf, elemId)
		}
	case TypeDefPrimitive:
		buf = append(buf, hashTagPrimitive, byte(t.Primitive))
	case TypeDefCompact:
		buf = append(buf, hashTagCompact)
		buf = child(buf, t.Elem)
	case TypeDefBitSequence:
		buf = append(buf, hashTagBitSequence)
	}
	hash := hashing.Blake2_256(buf)
	if !recursive {
		m.typeHashCache[id] = hash
	}
	return hash, recursive
}

func appendFieldsHash(buf []byte, fields []Field, child func([]byte, uint32) []byte) []byte {
	buf = scale.AppendCompact(buf, uint64(len(fields)))
	for _, f := range fields {
		buf = scale.AppendString(buf, f.Name)
		buf = child(buf, f.Type)
	}
	return buf
}

func (m *Metadata) storageEntryHash(entry *StorageEntry) [32]byte {
	buf := []byte{hashTagStorageEntry}
	buf = scale.AppendString(buf, entry.Name)
	buf = append(buf, byte(entry.Modifier))
	buf = scale.AppendCompact(buf, uint64(len(entry.Hashers)))
	for i, hasher := range entry.Hashers {
		buf = append(buf, byte(hasher))
		keyHash := m.typeHash(entry.KeyTypes[i])
		buf = append(buf, keyHash[:]...)
	}
	valueHash := m.typeHash(entry.ValueType)
	buf = append(buf, valueHash[:]...)
	return hashing.Blake2_256(buf)
}
