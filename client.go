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

// Package substrate provides a client for Substrate-based chains. It wires the
// RPC transport together with metadata-checked storage access, events and
// blocks
package substrate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/blinklabs-io/gosubstrate/blocks"
	"github.com/blinklabs-io/gosubstrate/events"
	"github.com/blinklabs-io/gosubstrate/metadata"
	"github.com/blinklabs-io/gosubstrate/rpc"
	"github.com/blinklabs-io/gosubstrate/storage"
)

// Client is a client for a single node
type Client struct {
	endpoint       string
	network        Network
	rpcClient      *rpc.Client
	methods        *rpc.Methods
	metadata       *metadata.Metadata
	metadataFile   string
	logger         *slog.Logger
	errorChan      chan error
	requestTimeout time.Duration
	blocks         *blocks.Client
	storage        *storage.Client
	events         *events.Client
}

// NewClient returns a new Client with the specified options. Metadata must be
// provided with WithMetadata or WithMetadataFile. Unless an RPC client is
// provided with WithRPCClient, Dial must be called before use
func NewClient(options ...ClientOptionFunc) (*Client, error) {
	c := &Client{
		network: NetworkInvalid,
	}
	// Apply provided options functions
	for _, option := range options {
		option(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.errorChan == nil {
		c.errorChan = make(chan error, 10)
	}
	if c.endpoint == "" {
		c.endpoint = c.network.Endpoint
	}
	if c.metadata == nil && c.metadataFile != "" {
		m, err := metadata.LoadFile(c.metadataFile)
		if err != nil {
			return nil, err
		}
		c.metadata = m
	}
	if c.metadata == nil {
		return nil, ErrNoMetadata
	}
	if c.rpcClient == nil {
		rpcClient, err := rpc.NewClient(
			rpc.WithLogger(c.logger),
			rpc.WithErrorChan(c.errorChan),
		)
		if err != nil {
			return nil, err
		}
		c.rpcClient = rpcClient
	}
	c.methods = rpc.NewMethods(c.rpcClient)
	nodeRPC := withRequestTimeout(c.methods, c.requestTimeout)
	c.storage = storage.NewClient(nodeRPC, c.metadata, c.logger)
	c.events = events.NewClient(nodeRPC, c.metadata, c.logger)
	c.blocks = blocks.NewClient(nodeRPC, c.metadata, blocks.WithLogger(c.logger))
	return c, nil
}

// Dial connects to the configured endpoint
func (c *Client) Dial(ctx context.Context) error {
	if c.endpoint == "" {
		return ErrNoEndpoint
	}
	c.logger.Debug(
		"calling Dial()",
		"component", "substrate",
		"endpoint", c.endpoint,
	)
	if err := c.rpcClient.Dial(ctx, c.endpoint); err != nil {
		return fmt.Errorf("connect to %s: %w", c.endpoint, err)
	}
	return nil
}

// Close shuts down the RPC connection
func (c *Client) Close() error {
	return c.rpcClient.Close()
}

// ErrorChan returns the channel for asynchronous transport errors. It is
// only fed by an RPC client created by NewClient
func (c *Client) ErrorChan() chan error {
	return c.errorChan
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

func (c *Client) Network() Network {
	return c.network
}

func (c *Client) Metadata() *metadata.Metadata {
	return c.metadata
}

// RPC returns the typed node methods
func (c *Client) RPC() *rpc.Methods {
	return c.methods
}

// Blocks returns the blocks client
func (c *Client) Blocks() *blocks.Client {
	return c.blocks
}

// Storage returns the request/response storage client
func (c *Client) Storage() *storage.Client {
	return c.storage
}

// Events returns the events client
func (c *Client) Events() *events.Client {
	return c.events
}
