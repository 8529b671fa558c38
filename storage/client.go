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
	"context"
	"fmt"
	"log/slog"

	"github.com/blinklabs-io/gosubstrate/metadata"
	"github.com/blinklabs-io/gosubstrate/scale"
	"github.com/ethereum/go-ethereum/common"
)

// RawFetcher reads a raw storage value, at the given block or at the best
// block when at is nil. A nil result with a nil error means the key has no
// value
type RawFetcher interface {
	StorageAt(ctx context.Context, key []byte, at *common.Hash) ([]byte, error)
}

// Client queries storage over plain request/response calls
type Client struct {
	fetcher  RawFetcher
	metadata *metadata.Metadata
	logger   *slog.Logger
}

// NewClient returns a storage client. A nil logger uses slog.Default()
func NewClient(fetcher RawFetcher, m *metadata.Metadata, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		fetcher:  fetcher,
		metadata: m,
		logger:   logger,
	}
}

func (c *Client) Metadata() *metadata.Metadata {
	return c.metadata
}

// FetchRaw returns the raw value stored under the address
func (c *Client) FetchRaw(ctx context.Context, addr Address, at *common.Hash) ([]byte, *metadata.StorageEntry, error) {
	c.logger.Debug(
		"calling FetchRaw()",
		"component", "storage",
		"pallet", addr.PalletName(),
		"entry", addr.EntryName(),
	)
	key, entry, err := ResolveKey(addr, c.metadata)
	if err != nil {
		return nil, nil, err
	}
	data, err := c.fetcher.StorageAt(ctx, key, at)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch storage %s.%s: %w", addr.PalletName(), addr.EntryName(), err)
	}
	return data, entry, nil
}

// Fetch returns the decoded value stored under the address. The boolean result
// is false when the key has no value
func Fetch[T any](ctx context.Context, c *Client, addr Address, at *common.Hash) (T, bool, error) {
	var zero T
	data, entry, err := c.FetchRaw(ctx, addr, at)
	if err != nil || data == nil {
		return zero, false, err
	}
	ret, err := DecodeStorage[T](scale.NewDecoder(data), c.metadata, entry)
	if err != nil {
		return zero, false, err
	}
	return ret, true, nil
}

// FetchOrDefault is like Fetch, but decodes the entry's default value when the
// key has no value. Entries with the Optional modifier have no default, and
// return ErrNoDefault instead
func FetchOrDefault[T any](ctx context.Context, c *Client, addr Address, at *common.Hash) (T, error) {
	var zero T
	data, entry, err := c.FetchRaw(ctx, addr, at)
	if err != nil {
		return zero, err
	}
	if data == nil {
		if entry.Modifier != metadata.StorageEntryModifierDefault {
			return zero, fmt.Errorf("%w: %s.%s", ErrNoDefault, addr.PalletName(), addr.EntryName())
		}
		data = entry.Default
	}
	return DecodeStorage[T](scale.NewDecoder(data), c.metadata, entry)
}
