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
	"context"
	"errors"
	"testing"

	"github.com/blinklabs-io/gosubstrate/internal/test"
	"github.com/blinklabs-io/gosubstrate/metadata"
	"github.com/blinklabs-io/gosubstrate/storage"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapFetcher struct {
	values map[string][]byte
	calls  int
	err    error
}

func (f *mapFetcher) StorageAt(_ context.Context, key []byte, _ *common.Hash) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.values[string(key)], nil
}

func TestClientFetch(t *testing.T) {
	m := test.Metadata()
	addr := storage.NewAddress("System", "Account", storage.KeyAccountID(test.AliceAccountId))
	key, err := storage.AddressBytes(addr, m)
	require.NoError(t, err)
	fetcher := &mapFetcher{values: map[string][]byte{string(key): test.AccountInfo(4, 99)}}
	client := storage.NewClient(fetcher, m, nil)

	val, ok, err := storage.Fetch[any](context.Background(), client, addr, nil)
	require.NoError(t, err)
	require.True(t, ok)
	data, _ := val.(metadata.Composite).Field("data")
	free, _ := data.(metadata.Composite).Field("free")
	assert.Equal(t, uint256.NewInt(99), free)

	// Absent values are not decoded
	bob := storage.NewAddress("System", "Account", storage.KeyAccountID(test.BobAccountId))
	_, ok, err = storage.Fetch[any](context.Background(), client, bob, nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClientFetchOrDefault(t *testing.T) {
	m := test.Metadata()
	client := storage.NewClient(&mapFetcher{}, m, nil)
	issuance, err := storage.FetchOrDefault[*uint256.Int](
		context.Background(),
		client,
		storage.NewAddress("Balances", "TotalIssuance"),
		nil,
	)
	require.NoError(t, err)
	assert.True(t, issuance.IsZero())

	_, err = storage.FetchOrDefault[string](
		context.Background(),
		client,
		storage.NewAddress("System", "LastRuntimeUpgrade"),
		nil,
	)
	require.ErrorIs(t, err, storage.ErrNoDefault)
}

func TestClientFetchErrors(t *testing.T) {
	m := test.Metadata()
	fetcher := &mapFetcher{err: errors.New("connection reset")}
	client := storage.NewClient(fetcher, m, nil)

	// Schema errors never reach the fetcher
	_, _, err := storage.Fetch[any](
		context.Background(),
		client,
		storage.NewStaticAddress("Balances", "TotalIssuance", [32]byte{1}),
		nil,
	)
	require.ErrorIs(t, err, metadata.ErrIncompatibleSchema)
	assert.Equal(t, 0, fetcher.calls)

	_, _, err = storage.Fetch[any](context.Background(), client, storage.NewAddress("Balances", "TotalIssuance"), nil)
	require.ErrorIs(t, err, fetcher.err)
	assert.Equal(t, 1, fetcher.calls)
}
