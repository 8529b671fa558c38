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

// Package blocks provides access to blocks, both through the chainHead
// follow subscription and through the legacy request/response methods
package blocks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/blinklabs-io/gosubstrate/events"
	"github.com/blinklabs-io/gosubstrate/metadata"
	"github.com/ethereum/go-ethereum/common"
)

// Client hands out blocks. Every block it returns decodes against the
// metadata it was created with
type Client struct {
	rpc      RPC
	metadata *metadata.Metadata
	logger   *slog.Logger
	events   *events.Client
}

func NewClient(rpc RPC, m *metadata.Metadata, options ...ClientOptionFunc) *Client {
	c := &Client{
		rpc:      rpc,
		metadata: m,
	}
	// Apply provided options functions
	for _, option := range options {
		option(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.events = events.NewClient(rpc, m, c.logger)
	return c
}

func (c *Client) Metadata() *metadata.Metadata {
	return c.metadata
}

// At returns the block with the given hash
func (c *Client) At(ctx context.Context, hash common.Hash) (*Block, error) {
	c.logger.Debug(
		"calling At()",
		"component", "blocks",
		"block_hash", hash.Hex(),
	)
	header, err := c.rpc.ChainGetHeader(ctx, &hash)
	if err != nil {
		return nil, fmt.Errorf("fetch header %s: %w", hash.Hex(), err)
	}
	if header == nil {
		return nil, &BlockHashNotFoundError{Hash: hash}
	}
	return newBlock(c, hash, header), nil
}

// AtLatest returns the node's best block
func (c *Client) AtLatest(ctx context.Context) (*Block, error) {
	c.logger.Debug(
		"calling AtLatest()",
		"component", "blocks",
	)
	header, err := c.rpc.ChainGetHeader(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch best header: %w", err)
	}
	if header == nil {
		return nil, fmt.Errorf("%w: node returned no best block", ErrBlockHashNotFound)
	}
	return newBlock(c, header.Hash(), header), nil
}

// ChainHeadBlock returns a handle for a block pinned by the given follow
// subscription
func (c *Client) ChainHeadBlock(followSubscription string, hash common.Hash) *ChainHeadBlock {
	return &ChainHeadBlock{
		rpc:            c.rpc,
		metadata:       c.metadata,
		logger:         c.logger,
		hash:           hash,
		subscriptionId: followSubscription,
	}
}

// Follow starts a chainHead follow subscription
func (c *Client) Follow(ctx context.Context, withRuntime bool) (*FollowSubscription, error) {
	c.logger.Debug(
		"calling Follow()",
		"component", "blocks",
		"with_runtime", withRuntime,
	)
	sub, err := c.rpc.ChainHeadFollow(ctx, withRuntime)
	if err != nil {
		return nil, fmt.Errorf("follow: %w", err)
	}
	return &FollowSubscription{client: c, sub: sub}, nil
}
