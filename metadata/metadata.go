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
	"fmt"

	"github.com/blinklabs-io/gosubstrate/cbor"
	"github.com/blinklabs-io/gosubstrate/hashing"
)

// StorageEntryModifier tells whether an absent storage value reads as None or
// as the entry's default value
type StorageEntryModifier uint8

const (
	StorageEntryModifierOptional StorageEntryModifier = 0
	StorageEntryModifierDefault  StorageEntryModifier = 1
)

// StorageEntry describes a single storage item within a pallet
type StorageEntry struct {
	Name     string
	Modifier StorageEntryModifier
	// One hasher per map key. Plain (non-map) entries have none
	Hashers []hashing.Hasher
	// Type of each map key, in the same order as Hashers
	KeyTypes  []uint32
	ValueType uint32
	Default   []byte
	Docs      []string
}

// Arity returns the number of map keys needed to address a single value
func (e *StorageEntry) Arity() int {
	return len(e.Hashers)
}

// StorageSection is the storage part of a pallet
type StorageSection struct {
	Prefix  string
	Entries []StorageEntry

	entriesByName map[string]int
}

// EntryByName returns the storage entry with the given name, or nil if there
// is no such entry
func (s *StorageSection) EntryByName(name string) *StorageEntry {
	idx, ok := s.entriesByName[name]
	if !ok {
		return nil
	}
	return &s.Entries[idx]
}

// Pallet describes a single pallet (module) of the runtime
type Pallet struct {
	Name    string
	Index   uint8
	Storage *StorageSection
	// Type ID of the pallet's event enum, if it emits events
	EventType *uint32

	storageHashes map[string][32]byte
}

// StorageHash returns the layout hash of the named storage entry. The hash
// covers the entry's modifier, hashers, key types and value type, resolved
// recursively through the type registry
func (p *Pallet) StorageHash(entryName string) ([32]byte, bool) {
	hash, ok := p.storageHashes[entryName]
	return hash, ok
}

// Metadata is a read-only description of a runtime's pallets and types. Build
// it with New or Decode; it must not be modified afterwards
type Metadata struct {
	Types   []Type
	Pallets []Pallet

	typesById      map[uint32]int
	palletsByName  map[string]int
	palletsByIndex map[uint8]int
	typeHashCache  map[uint32][32]byte
}

// New builds a Metadata object from a type registry and list of pallets. The
// input is validated and storage hashes are computed for every storage entry
func New(types []Type, pallets []Pallet) (*Metadata, error) {
	m := &Metadata{
		Types:   types,
		Pallets: pallets,
	}
	if err := m.init(); err != nil {
		return nil, err
	}
	return m, nil
}

// Type returns the registry type with the given ID, or nil if unknown
func (m *Metadata) Type(id uint32) *Type {
	idx, ok := m.typesById[id]
	if !ok {
		return nil
	}
	return &m.Types[idx]
}

// PalletByName returns the pallet with the given name, or nil if unknown
func (m *Metadata) PalletByName(name string) *Pallet {
	idx, ok := m.palletsByName[name]
	if !ok {
		return nil
	}
	return &m.Pallets[idx]
}

// PalletByIndex returns the pallet with the given index, or nil if unknown
func (m *Metadata) PalletByIndex(index uint8) *Pallet {
	idx, ok := m.palletsByIndex[index]
	if !ok {
		return nil
	}
	return &m.Pallets[idx]
}

// StorageEntry resolves a pallet and storage entry by name
func (m *Metadata) StorageEntry(palletName string, entryName string) (*Pallet, *StorageEntry, error) {
	pallet := m.PalletByName(palletName)
	if pallet == nil {
		return nil, nil, &PalletNotFoundError{Name: palletName}
	}
	if pallet.Storage == nil {
		return nil, nil, &StorageNotInPalletError{Pallet: palletName}
	}
	entry := pallet.Storage.EntryByName(entryName)
	if entry == nil {
		return nil, nil, &StorageEntryNotFoundError{Pallet: palletName, Entry: entryName}
	}
	return pallet, entry, nil
}

// StorageEntryHash returns the layout hash for a storage entry. Code generators
// embed this value in static storage addresses
func StorageEntryHash(m *Metadata, palletName string, entryName string) ([32]byte, error) {
	pallet, _, err := m.StorageEntry(palletName, entryName)
	if err != nil {
		return [32]byte{}, err
	}
	hash, _ := pallet.StorageHash(entryName)
	return hash, nil
}

func (m *Metadata) init() error {
	m.typesById = make(map[uint32]int, len(m.Types))
	for i, t := range m.Types {
		if _, ok := m.typesById[t.Id]; ok {
			return invalidf("duplicate type ID %d", t.Id)
		}
		m.typesById[t.Id] = i
	}
	for _, t := range m.Types {
		if err := m.validateType(&t); err != nil {
			return err
		}
	}
	m.palletsByName = make(map[string]int, len(m.Pallets))
	m.palletsByIndex = make(map[uint8]int, len(m.Pallets))
	for i := range m.Pallets {
		pallet := &m.Pallets[i]
		if _, ok := m.palletsByName[pallet.Name]; ok {
			return invalidf("duplicate pallet name %q", pallet.Name)
		}
		if _, ok := m.palletsByIndex[pallet.Index]; ok {
			return invalidf("duplicate pallet index %d", pallet.Index)
		}
		m.palletsByName[pallet.Name] = i
		m.palletsByIndex[pallet.Index] = i
		if pallet.EventType != nil {
			t := m.Type(*pallet.EventType)
			if t == nil || t.Def != TypeDefVariant {
				return invalidf("pallet %q: event type %d is not a variant", pallet.Name, *pallet.EventType)
			}
		}
		if err := m.initStorage(pallet); err != nil {
			return err
		}
	}
	m.typeHashCache = make(map[uint32][32]byte)
	for i := range m.Pallets {
		pallet := &m.Pallets[i]
		pallet.storageHashes = make(map[string][32]byte)
		if pallet.Storage == nil {
			continue
		}
		for j := range pallet.Storage.Entries {
			entry := &pallet.Storage.Entries[j]
			pallet.storageHashes[entry.Name] = m.storageEntryHash(entry)
		}
	}
	return nil
}

func (m *Metadata) initStorage(pallet *Pallet) error {
	if pallet.Storage == nil {
		return nil
	}
	section := pallet.Storage
	section.entriesByName = make(map[string]int, len(section.Entries))
	for i, entry := range section.Entries {
		if _, ok := section.entriesByName[entry.Name]; ok {
			return invalidf("pallet %q: duplicate storage entry %q", pallet.Name, entry.Name)
		}
		section.entriesByName[entry.Name] = i
		if len(entry.Hashers) != len(entry.KeyTypes) {
			return invalidf(
				"storage %s.%s: %d hashers for %d key types",
				pallet.Name,
				entry.Name,
				len(entry.Hashers),
				len(entry.KeyTypes),
			)
		}
		for _, hasher := range entry.Hashers {
			if !hasher.Valid() {
				return invalidf("storage %s.%s: unknown hasher %d", pallet.Name, entry.Name, uint8(hasher))
			}
		}
		for _, id := range append([]uint32{entry.ValueType}, entry.KeyTypes...) {
			if m.Type(id) == nil {
				return invalidf("storage %s.%s: unknown type %d", pallet.Name, entry.Name, id)
			}
		}
	}
	return nil
}

func (m *Metadata) validateType(t *Type) error {
	refs := []uint32{}
	switch t.Def {
	case TypeDefComposite:
		for _, f := range t.Fields {
			refs = append(refs, f.Type)
		}
	case TypeDefVariant:
		seen := map[uint8]bool{}
		for _, v := range t.Variants {
			if seen[v.Index] {
				return invalidf("type %d: duplicate variant index %d", t.Id, v.Index)
			}
			seen[v.Index] = true
			for _, f := range v.Fields {
				refs = append(refs, f.Type)
			}
		}
	case TypeDefSequence, TypeDefArray, TypeDefCompact:
		refs = append(refs, t.Elem)
	case TypeDefTuple:
		refs = append(refs, t.Tuple...)
	case TypeDefPrimitive:
		if t.Primitive > PrimitiveI256 {
			return invalidf("type %d: unknown primitive %d", t.Id, t.Primitive)
		}
	case TypeDefBitSequence:
	default:
		return invalidf("type %d: unknown definition kind %d", t.Id, t.Def)
	}
	for _, ref := range refs {
		if m.Type(ref) == nil {
			return invalidf("type %d: references unknown type %d", t.Id, ref)
		}
	}
	return nil
}

// MarshalCBOR encodes the metadata's exported definition. Indexes and hashes
// are derived again on decode
func (m *Metadata) MarshalCBOR() ([]byte, error) {
	return cbor.EncodeGeneric(m)
}

// UnmarshalCBOR decodes a metadata snapshot and rebuilds its indexes
func (m *Metadata) UnmarshalCBOR(data []byte) error {
	if err := cbor.DecodeGeneric(data, m); err != nil {
		return fmt.Errorf("decode metadata snapshot: %w", err)
	}
	return m.init()
}
