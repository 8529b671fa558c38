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

package substrate

import (
	"log/slog"
	"time"

	"github.com/blinklabs-io/gosubstrate/metadata"
	"github.com/blinklabs-io/gosubstrate/rpc"
)

// ClientOptionFunc is a type that represents functions that modify the Client config
type ClientOptionFunc func(*Client)

// WithEndpoint specifies the websocket endpoint to dial. It overrides the
// network's endpoint
func WithEndpoint(endpoint string) ClientOptionFunc {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithNetwork specifies the network
func WithNetwork(network Network) ClientOptionFunc {
	return func(c *Client) {
		c.network = network
	}
}

// WithRPCClient specifies an existing RPC client to use. If none is provided,
// the Dial() function can be used to connect one later
func WithRPCClient(rpcClient *rpc.Client) ClientOptionFunc {
	return func(c *Client) {
		c.rpcClient = rpcClient
	}
}

// WithMetadata specifies the metadata that storage keys and values are checked
// and decoded against
func WithMetadata(m *metadata.Metadata) ClientOptionFunc {
	return func(c *Client) {
		c.metadata = m
	}
}

// WithMetadataFile specifies a metadata snapshot file to load. It is ignored
// when WithMetadata is also given
func WithMetadataFile(path string) ClientOptionFunc {
	return func(c *Client) {
		c.metadataFile = path
	}
}

// WithLogger specifies the logger to use. If not specified, slog.Default() is used
func WithLogger(logger *slog.Logger) ClientOptionFunc {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithErrorChan specifies the error channel to use. If none is provided, one will be created
func WithErrorChan(errorChan chan error) ClientOptionFunc {
	return func(c *Client) {
		c.errorChan = errorChan
	}
}

// WithRequestTimeout specifies a timeout applied to every request sent to the
// node. Reading subscription events is not affected
func WithRequestTimeout(timeout time.Duration) ClientOptionFunc {
	return func(c *Client) {
		c.requestTimeout = timeout
	}
}
