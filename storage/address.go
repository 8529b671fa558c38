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

// Package storage builds storage keys, validates compiled-in expectations of
// storage entries against the node's metadata and decodes storage values
package storage

import (
	"github.com/blinklabs-io/gosubstrate/metadata"
	"github.com/blinklabs-io/gosubstrate/scale"
)

// Address describes a storage query
type Address interface {
	PalletName() string
	EntryName() string
	// AppendEntryBytes appends the encoded map keys, if any, to dst
	AppendEntryBytes(m *metadata.Metadata, dst []byte) ([]byte, error)
	// ValidationHash returns the expected storage entry hash, if the address
	// carries one
	ValidationHash() ([32]byte, bool)
}

// Key is a single SCALE encoded map key part
type Key []byte

func KeyU32(v uint32) Key {
	return scale.AppendU32(nil, v)
}

func KeyU64(v uint64) Key {
	return scale.AppendU64(nil, v)
}

// KeyAccountID returns a key part for an AccountId32, which encodes as its
// raw 32 bytes
func KeyAccountID(id [32]byte) Key {
	return append(Key(nil), id[:]...)
}

// KeyBytes returns a key part for a Vec<u8>
func KeyBytes(b []byte) Key {
	return scale.AppendByteSlice(nil, b)
}

// EntryAddress addresses a storage entry by name, with one key part per map key
type EntryAddress struct {
	pallet string
	entry  string
	keys   []Key
	hash   *[32]byte
}

// NewAddress returns an address without a validation hash. It is checked
// against the metadata only by name
func NewAddress(pallet string, entry string, keys ...Key) *EntryAddress {
	return &EntryAddress{
		pallet: pallet,
		entry:  entry,
		keys:   keys,
	}
}

// NewStaticAddress returns an address carrying the storage entry hash that the
// caller was compiled against
func NewStaticAddress(pallet string, entry string, hash [32]byte, keys ...Key) *EntryAddress {
	return &EntryAddress{
		pallet: pallet,
		entry:  entry,
		keys:   keys,
		hash:   &hash,
	}
}

func (a *EntryAddress) PalletName() string {
	return a.pallet
}

func (a *EntryAddress) EntryName() string {
	return a.entry
}

func (a *EntryAddress) Keys() []Key {
	return a.keys
}

func (a *EntryAddress) ValidationHash() ([32]byte, bool) {
	if a.hash == nil {
		return [32]byte{}, false
	}
	return *a.hash, true
}

// AppendEntryBytes hashes each key part with the hasher the entry declares for
// it. The number of key parts must match the entry's arity
func (a *EntryAddress) AppendEntryBytes(m *metadata.Metadata, dst []byte) ([]byte, error) {
	_, entry, err := LookupEntry(a.pallet, a.entry, m)
	if err != nil {
		return nil, &KeyEncodingError{Pallet: a.pallet, Entry: a.entry, Err: err}
	}
	if len(a.keys) != entry.Arity() {
		return nil, &KeyEncodingError{
			Pallet:   a.pallet,
			Entry:    a.entry,
			Expected: entry.Arity(),
			Actual:   len(a.keys),
		}
	}
	for i, key := range a.keys {
		dst = entry.Hashers[i].Append(dst, key)
	}
	return dst, nil
}
