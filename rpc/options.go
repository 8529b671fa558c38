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

package rpc

import (
	"log/slog"

	"github.com/gorilla/websocket"
)

// ClientOptionFunc is a type that represents functions that modify the Client config
type ClientOptionFunc func(*Client)

// WithConn specifies an existing websocket connection to use
func WithConn(conn *websocket.Conn) ClientOptionFunc {
	return func(c *Client) {
		c.conn = conn
	}
}

// WithDialer specifies the websocket dialer used by Dial
func WithDialer(dialer *websocket.Dialer) ClientOptionFunc {
	return func(c *Client) {
		c.dialer = dialer
	}
}

// WithErrorChan specifies the error channel to use. If not specified, one will be created
func WithErrorChan(errorChan chan error) ClientOptionFunc {
	return func(c *Client) {
		c.errorChan = errorChan
	}
}

// WithLogger specifies the logger to use. If not specified, slog.Default() is used
func WithLogger(logger *slog.Logger) ClientOptionFunc {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithSubscriptionBuffer specifies how many undelivered notifications a
// subscription may hold before it is closed
func WithSubscriptionBuffer(size int) ClientOptionFunc {
	return func(c *Client) {
		c.subscriptionBuffer = size
	}
}
