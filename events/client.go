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

package events

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/blinklabs-io/gosubstrate/metadata"
	"github.com/blinklabs-io/gosubstrate/storage"
	"github.com/ethereum/go-ethereum/common"
)

var systemEventsAddress = storage.NewAddress("System", "Events")

// SystemEventsKey returns the storage key of System.Events
func SystemEventsKey() []byte {
	return storage.RootBytes(systemEventsAddress)
}

// StorageFetcher reads a raw storage value at a block. A nil result with a nil
// error means the key has no value
type StorageFetcher interface {
	StorageAt(ctx context.Context, key []byte, at *common.Hash) ([]byte, error)
}

// Client fetches the events of a block
type Client struct {
	fetcher  StorageFetcher
	metadata *metadata.Metadata
	logger   *slog.Logger
}

// NewClient returns an events client. A nil logger uses slog.Default()
func NewClient(fetcher StorageFetcher, m *metadata.Metadata, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		fetcher:  fetcher,
		metadata: m,
		logger:   logger,
	}
}

// At returns the events of the given block. A block without a System.Events
// value has no events
func (c *Client) At(ctx context.Context, blockHash common.Hash) (*Events, error) {
	c.logger.Debug(
		"calling At()",
		"component", "events",
		"block_hash", blockHash.Hex(),
	)
	data, err := c.fetcher.StorageAt(ctx, SystemEventsKey(), &blockHash)
	if err != nil {
		return nil, fmt.Errorf("fetch events at %s: %w", blockHash.Hex(), err)
	}
	if data == nil {
		return Empty(c.metadata), nil
	}
	return NewEvents(c.metadata, data)
}
