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

package storage

import (
	"github.com/blinklabs-io/gosubstrate/hashing"
	"github.com/blinklabs-io/gosubstrate/metadata"
	"github.com/blinklabs-io/gosubstrate/scale"
)

// RootBytesLen is the length of the pallet and entry prefix of every key
const RootBytesLen = 32

// WriteRootBytes appends twox128(pallet) ++ twox128(entry) to dst
func WriteRootBytes(addr Address, dst []byte) []byte {
	palletHash := hashing.Twox128([]byte(addr.PalletName()))
	entryHash := hashing.Twox128([]byte(addr.EntryName()))
	dst = append(dst, palletHash[:]...)
	return append(dst, entryHash[:]...)
}

// RootBytes returns the pallet and entry prefix of the address
func RootBytes(addr Address) []byte {
	return WriteRootBytes(addr, make([]byte, 0, RootBytesLen))
}

// AddressBytes returns the full storage key: the root bytes followed by the
// address's encoded map keys
func AddressBytes(addr Address, m *metadata.Metadata) ([]byte, error) {
	key := RootBytes(addr)
	return addr.AppendEntryBytes(m, key)
}

// LookupEntry resolves a pallet and one of its storage entries by exact name
func LookupEntry(palletName string, entryName string, m *metadata.Metadata) (*metadata.Pallet, *metadata.StorageEntry, error) {
	return m.StorageEntry(palletName, entryName)
}

// ValidateAddress checks the address's validation hash, if it has one, against
// the pallet's metadata
func ValidateAddress(addr Address, pallet *metadata.Pallet) error {
	hash, ok := addr.ValidationHash()
	if !ok {
		return nil
	}
	return Validate(pallet, addr.EntryName(), hash)
}

// Validate compares an expected storage entry hash with the one derived from
// the pallet's metadata
func Validate(pallet *metadata.Pallet, entryName string, hash [32]byte) error {
	expected, ok := pallet.StorageHash(entryName)
	if !ok || expected != hash {
		return &metadata.IncompatibleSchemaError{Pallet: pallet.Name, Entry: entryName}
	}
	return nil
}

// ResolveKey resolves the address's entry, validates the address against it
// and builds the full storage key
func ResolveKey(addr Address, m *metadata.Metadata) ([]byte, *metadata.StorageEntry, error) {
	pallet, entry, err := LookupEntry(addr.PalletName(), addr.EntryName(), m)
	if err != nil {
		return nil, nil, err
	}
	if err := ValidateAddress(addr, pallet); err != nil {
		return nil, nil, err
	}
	key, err := AddressBytes(addr, m)
	if err != nil {
		return nil, nil, err
	}
	return key, entry, nil
}

// DecodeStorage decodes a value of the entry's declared type from the cursor.
// Trailing bytes are left for the caller
func DecodeStorage[T any](d *scale.Decoder, m *metadata.Metadata, entry *metadata.StorageEntry) (T, error) {
	return metadata.Decode[T](d, entry.ValueType, m)
}
