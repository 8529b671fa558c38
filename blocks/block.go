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

package blocks

import (
	"context"
	"fmt"

	"github.com/blinklabs-io/gosubstrate/chain"
	"github.com/blinklabs-io/gosubstrate/events"
	"github.com/ethereum/go-ethereum/common"
)

// Block is a block fetched through the request/response methods. Its events
// are fetched at most once and shared with its body and extrinsics
type Block struct {
	client *Client
	hash   common.Hash
	header *chain.Header
	cache  *eventCache
}

func newBlock(client *Client, hash common.Hash, header *chain.Header) *Block {
	return &Block{
		client: client,
		hash:   hash,
		header: header,
		cache:  newEventCache(),
	}
}

func (b *Block) Hash() common.Hash {
	return b.hash
}

func (b *Block) Number() uint64 {
	return b.header.Number
}

func (b *Block) Header() *chain.Header {
	return b.header
}

// Events returns the events emitted in the block
func (b *Block) Events(ctx context.Context) (*events.Events, error) {
	return b.cache.get(ctx, func(ctx context.Context) (*events.Events, error) {
		return b.client.events.At(ctx, b.hash)
	})
}

// Body fetches the block's extrinsics
func (b *Block) Body(ctx context.Context) (*BlockBody, error) {
	b.client.logger.Debug(
		"calling Body()",
		"component", "blocks",
		"block_hash", b.hash.Hex(),
	)
	block, err := b.client.rpc.ChainGetBlock(ctx, &b.hash)
	if err != nil {
		return nil, fmt.Errorf("fetch block %s: %w", b.hash.Hex(), err)
	}
	if block == nil {
		return nil, &BlockHashNotFoundError{Hash: b.hash}
	}
	return newBlockBody(b, block.Block.Extrinsics), nil
}
