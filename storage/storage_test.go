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

package storage_test

import (
	"testing"

	"github.com/blinklabs-io/gosubstrate/internal/test"
	"github.com/blinklabs-io/gosubstrate/metadata"
	"github.com/blinklabs-io/gosubstrate/scale"
	"github.com/blinklabs-io/gosubstrate/storage"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootBytesTotalIssuance(t *testing.T) {
	addr := storage.NewAddress("Balances", "TotalIssuance")
	expected := test.DecodeHexString(
		"c2261276cc9d1f8598ea4b6a74b15c2f57c875e4cff74148e4628f264b974c80",
	)
	root := storage.RootBytes(addr)
	assert.Len(t, root, 32)
	assert.Equal(t, expected, root)
	// Order-stable and independent of earlier calls
	_ = storage.RootBytes(storage.NewAddress("System", "Events"))
	assert.Equal(t, expected, storage.RootBytes(addr))
	// Appends to an existing buffer
	prefix := []byte{0x01, 0x02}
	assert.Equal(t, append([]byte{0x01, 0x02}, expected...), storage.WriteRootBytes(addr, prefix))
	// A plain entry has no key suffix
	full, err := storage.AddressBytes(addr, test.Metadata())
	require.NoError(t, err)
	assert.Equal(t, expected, full)
}

func TestAddressBytesMapKeys(t *testing.T) {
	m := test.Metadata()
	addr := storage.NewAddress("System", "Account", storage.KeyAccountID(test.AliceAccountId))
	key, err := storage.AddressBytes(addr, m)
	require.NoError(t, err)
	expected := test.DecodeHexString(
		// twox128("System") ++ twox128("Account")
		"26aa394eea5630e07c48ae0c9558cef7b99d880ec681799c0cf30e8886371da9" +
			// blake2_128(alice) ++ alice
			"de1e86a9a8c739864cf3cc5ec2bea59f" +
			"d43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d",
	)
	assert.Equal(t, expected, key)

	// Twox64Concat keeps the encoded key after the digest
	addr = storage.NewAddress("Staking", "ErasStakers", storage.KeyU32(7), storage.KeyAccountID(test.BobAccountId))
	key, err = storage.AddressBytes(addr, m)
	require.NoError(t, err)
	assert.Len(t, key, 32+8+4+8+32)
	assert.Equal(t, []byte{7, 0, 0, 0}, key[40:44])
	assert.Equal(t, test.BobAccountId[:], key[52:])
}

func TestAddressBytesArity(t *testing.T) {
	m := test.Metadata()
	testDefs := []struct {
		addr     *storage.EntryAddress
		expected int
		actual   int
	}{
		{addr: storage.NewAddress("System", "Account"), expected: 1, actual: 0},
		{addr: storage.NewAddress("Balances", "TotalIssuance", storage.KeyU32(1)), expected: 0, actual: 1},
		{addr: storage.NewAddress("Staking", "ErasStakers", storage.KeyU32(1)), expected: 2, actual: 1},
	}
	for _, testDef := range testDefs {
		_, err := storage.AddressBytes(testDef.addr, m)
		require.ErrorIs(t, err, storage.ErrKeyEncoding)
		var keyErr *storage.KeyEncodingError
		require.ErrorAs(t, err, &keyErr)
		assert.Equal(t, testDef.expected, keyErr.Expected)
		assert.Equal(t, testDef.actual, keyErr.Actual)
	}
	// Unresolvable entries are key encoding errors too, and keep their cause
	_, err := storage.AddressBytes(storage.NewAddress("System", "Missing"), m)
	require.ErrorIs(t, err, storage.ErrKeyEncoding)
	require.ErrorIs(t, err, metadata.ErrStorageEntryNotFound)
}

func TestKeyHelpers(t *testing.T) {
	assert.Equal(t, storage.Key{1, 0, 0, 0}, storage.KeyU32(1))
	assert.Equal(t, storage.Key{2, 0, 0, 0, 0, 0, 0, 0}, storage.KeyU64(2))
	assert.Equal(t, storage.Key{0x08, 0xaa, 0xbb}, storage.KeyBytes([]byte{0xaa, 0xbb}))
	assert.Len(t, storage.KeyAccountID(test.AliceAccountId), 32)
}

func TestLookupEntry(t *testing.T) {
	m := test.Metadata()
	pallet, entry, err := storage.LookupEntry("System", "Account", m)
	require.NoError(t, err)
	assert.Equal(t, "System", pallet.Name)
	assert.Equal(t, "Account", entry.Name)
	_, _, err = storage.LookupEntry("Sys", "Account", m)
	require.ErrorIs(t, err, metadata.ErrPalletNotFound)
	_, _, err = storage.LookupEntry("Timestamp", "Now", m)
	require.ErrorIs(t, err, metadata.ErrStorageNotInPallet)
	_, _, err = storage.LookupEntry("System", "account", m)
	require.ErrorIs(t, err, metadata.ErrStorageEntryNotFound)
}

func TestValidate(t *testing.T) {
	m := test.Metadata()
	pallet := m.PalletByName("System")
	hash, err := metadata.StorageEntryHash(m, "System", "Account")
	require.NoError(t, err)

	// Matching hash, idempotent
	addr := storage.NewStaticAddress("System", "Account", hash, storage.KeyAccountID(test.AliceAccountId))
	require.NoError(t, storage.ValidateAddress(addr, pallet))
	require.NoError(t, storage.ValidateAddress(addr, pallet))

	// Mismatched hash, even though the entry exists
	bad := hash
	bad[0] ^= 0xff
	addr = storage.NewStaticAddress("System", "Account", bad)
	for range 2 {
		err = storage.ValidateAddress(addr, pallet)
		require.ErrorIs(t, err, metadata.ErrIncompatibleSchema)
	}

	// Missing entry in the pallet's hashes
	err = storage.Validate(pallet, "Missing", hash)
	require.ErrorIs(t, err, metadata.ErrIncompatibleSchema)

	// No hash always validates, whatever the metadata says
	for _, p := range m.Pallets {
		require.NoError(t, storage.ValidateAddress(storage.NewAddress("Whatever", "Entry"), &p))
	}
}

func TestResolveKey(t *testing.T) {
	m := test.Metadata()
	hash, err := metadata.StorageEntryHash(m, "Balances", "TotalIssuance")
	require.NoError(t, err)
	key, entry, err := storage.ResolveKey(storage.NewStaticAddress("Balances", "TotalIssuance", hash), m)
	require.NoError(t, err)
	assert.Equal(t, storage.RootBytes(storage.NewAddress("Balances", "TotalIssuance")), key)
	assert.Equal(t, test.TypeU128, entry.ValueType)
	_, _, err = storage.ResolveKey(storage.NewStaticAddress("Balances", "TotalIssuance", [32]byte{}), m)
	require.ErrorIs(t, err, metadata.ErrIncompatibleSchema)
}

func TestDecodeStorage(t *testing.T) {
	m := test.Metadata()
	_, entry, err := storage.LookupEntry("Balances", "TotalIssuance", m)
	require.NoError(t, err)
	data := scale.AppendU128(nil, uint256.NewInt(123456))
	// Trailing bytes are left on the cursor
	d := scale.NewDecoder(append(data, 0x01))
	val, err := storage.DecodeStorage[*uint256.Int](d, m, entry)
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(123456), val)
	assert.Equal(t, 1, d.Remaining())
	// Short input
	_, err = storage.DecodeStorage[*uint256.Int](scale.NewDecoder(data[:8]), m, entry)
	require.ErrorIs(t, err, metadata.ErrDecode)
}
