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

// Package rpc implements a JSON-RPC 2.0 client over a single websocket, with
// support for the node's push subscriptions
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
)

const (
	jsonrpcVersion            = "2.0"
	defaultSubscriptionBuffer = 1024
)

type request struct {
	Jsonrpc string `json:"jsonrpc"`
	Id      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

// Responses and notifications share a shape on the wire
type message struct {
	Id     *uint64             `json:"id,omitempty"`
	Result json.RawMessage     `json:"result,omitempty"`
	Error  *ResponseError      `json:"error,omitempty"`
	Method string              `json:"method,omitempty"`
	Params *notificationParams `json:"params,omitempty"`
}

type notificationParams struct {
	Subscription json.RawMessage `json:"subscription"`
	Result       json.RawMessage `json:"result"`
}

type response struct {
	result       json.RawMessage
	subscription *Subscription
	err          error
}

type pendingCall struct {
	respChan          chan *response
	unsubscribeMethod string
	// Set when the caller stops waiting. Guarded by Client.mutex
	abandoned bool
}

// Client is a JSON-RPC client. It is safe for concurrent use
type Client struct {
	conn               *websocket.Conn
	dialer             *websocket.Dialer
	logger             *slog.Logger
	subscriptionBuffer int
	errorChan          chan error
	doneChan           chan struct{}
	onceClose          sync.Once
	onceErrorChan      sync.Once
	waitGroup          sync.WaitGroup
	sendMutex          sync.Mutex
	nextId             atomic.Uint64
	mutex              sync.Mutex
	pending            map[uint64]*pendingCall
	subscriptions      map[string]*Subscription
	closeErr           error
}

// NewClient returns a new Client. If a connection is provided with WithConn,
// the client starts using it immediately; otherwise call Dial
func NewClient(options ...ClientOptionFunc) (*Client, error) {
	c := &Client{
		doneChan:      make(chan struct{}),
		pending:       make(map[uint64]*pendingCall),
		subscriptions: make(map[string]*Subscription),
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
	if c.dialer == nil {
		c.dialer = websocket.DefaultDialer
	}
	if c.subscriptionBuffer <= 0 {
		c.subscriptionBuffer = defaultSubscriptionBuffer
	}
	if c.conn != nil {
		c.start()
	}
	return c, nil
}

// Dial connects to the node's websocket endpoint
func (c *Client) Dial(ctx context.Context, endpoint string) error {
	if c.conn != nil {
		return errors.New("a connection was already established")
	}
	conn, _, err := c.dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", endpoint, err)
	}
	c.conn = conn
	c.start()
	return nil
}

// ErrorChan returns a channel that receives asynchronous transport errors
func (c *Client) ErrorChan() chan error {
	return c.errorChan
}

// Close shuts down the connection. Pending calls fail with ErrClientClosed and
// open subscriptions end
func (c *Client) Close() error {
	c.shutdown(ErrClientClosed)
	// Wait for the read loop to finish before closing the error channel
	c.waitGroup.Wait()
	c.onceErrorChan.Do(func() {
		close(c.errorChan)
	})
	return nil
}

// Call invokes a method and decodes its result into result, which may be nil
// to discard it. A null result leaves pointer targets nil
func (c *Client) Call(ctx context.Context, method string, params []any, result any) error {
	resp, err := c.request(ctx, method, params, "")
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(resp.result, result); err != nil {
		return fmt.Errorf("%s: decode result: %w", method, err)
	}
	return nil
}

// Subscribe invokes a subscription method. The returned subscription receives
// every notification sent for it until it is unsubscribed or the client closes
func (c *Client) Subscribe(ctx context.Context, method string, params []any, unsubscribeMethod string) (*Subscription, error) {
	resp, err := c.request(ctx, method, params, unsubscribeMethod)
	if err != nil {
		return nil, err
	}
	return resp.subscription, nil
}

func (c *Client) request(ctx context.Context, method string, params []any, unsubscribeMethod string) (*response, error) {
	if c.conn == nil {
		return nil, ErrNotConnected
	}
	select {
	case <-c.doneChan:
		return nil, c.err()
	default:
	}
	if params == nil {
		params = []any{}
	}
	id := c.nextId.Add(1)
	call := &pendingCall{
		respChan:          make(chan *response, 1),
		unsubscribeMethod: unsubscribeMethod,
	}
	c.mutex.Lock()
	c.pending[id] = call
	c.mutex.Unlock()
	req := &request{
		Jsonrpc: jsonrpcVersion,
		Id:      id,
		Method:  method,
		Params:  params,
	}
	if err := c.send(req); err != nil {
		c.mutex.Lock()
		delete(c.pending, id)
		c.mutex.Unlock()
		return nil, err
	}
	select {
	case resp := <-call.respChan:
		if resp.err != nil {
			return nil, fmt.Errorf("%s: %w", method, resp.err)
		}
		return resp, nil
	case <-ctx.Done():
		c.abandon(id, call)
		return nil, ctx.Err()
	case <-c.doneChan:
		return nil, c.err()
	}
}

// abandon forgets a call whose caller has gone away. A subscription that was
// already created is torn down. Subscribe calls stay pending so that a late
// response can be unsubscribed when it arrives
func (c *Client) abandon(id uint64, call *pendingCall) {
	var sub *Subscription
	c.mutex.Lock()
	call.abandoned = true
	if call.unsubscribeMethod == "" {
		delete(c.pending, id)
	}
	select {
	case resp := <-call.respChan:
		sub = resp.subscription
	default:
	}
	c.mutex.Unlock()
	if sub != nil {
		sub.closeLocal(ErrSubscriptionClosed)
		c.notify(call.unsubscribeMethod, []any{sub.id})
	}
}

// notify sends a request without waiting for its response
func (c *Client) notify(method string, params []any) {
	req := &request{
		Jsonrpc: jsonrpcVersion,
		Id:      c.nextId.Add(1),
		Method:  method,
		Params:  params,
	}
	if err := c.send(req); err != nil {
		c.logger.Debug(
			fmt.Sprintf("failed to send %s: %s", method, err),
			"component", "rpc",
		)
	}
}

func (c *Client) send(req *request) error {
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("%s: encode request: %w", req.Method, err)
	}
	// Only one writer is allowed on a websocket at a time
	c.sendMutex.Lock()
	defer c.sendMutex.Unlock()
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("%s: send request: %w", req.Method, err)
	}
	return nil
}

func (c *Client) start() {
	c.waitGroup.Add(1)
	go c.readLoop()
}

func (c *Client) readLoop() {
	defer c.waitGroup.Done()
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			// Break out of read loop if we're shutting down
			select {
			case <-c.doneChan:
				return
			default:
			}
			c.sendError(err)
			return
		}
		c.handleMessage(data)
	}
}

func (c *Client) sendError(err error) {
	c.logger.Error(
		fmt.Sprintf("connection error: %s", err),
		"component", "rpc",
	)
	select {
	case c.errorChan <- err:
	default:
		c.logger.Warn(
			"error channel is full, dropping error",
			"component", "rpc",
		)
	}
	// Close connection on read errors
	c.shutdown(fmt.Errorf("%w: %w", ErrClientClosed, err))
}

func (c *Client) shutdown(cause error) {
	c.onceClose.Do(func() {
		c.mutex.Lock()
		c.closeErr = cause
		pending := c.pending
		c.pending = make(map[uint64]*pendingCall)
		subs := c.subscriptions
		c.subscriptions = make(map[string]*Subscription)
		c.mutex.Unlock()
		// Close doneChan to signify that we're shutting down
		close(c.doneChan)
		if c.conn != nil {
			_ = c.conn.Close()
		}
		for _, call := range pending {
			call.respChan <- &response{err: cause}
		}
		for _, sub := range subs {
			sub.closeLocal(fmt.Errorf("%w: %w", ErrSubscriptionClosed, cause))
		}
	})
}

func (c *Client) err() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.closeErr == nil {
		return ErrClientClosed
	}
	return c.closeErr
}

func (c *Client) handleMessage(data []byte) {
	var msg message
	if err := json.Unmarshal(data, &msg); err != nil {
		c.logger.Warn(
			fmt.Sprintf("ignoring malformed message: %s", err),
			"component", "rpc",
		)
		return
	}
	if msg.Id != nil {
		c.handleResponse(*msg.Id, &msg)
		return
	}
	if msg.Params != nil {
		c.handleNotification(&msg)
		return
	}
	c.logger.Debug(
		"ignoring message with no id or params",
		"component", "rpc",
	)
}

func (c *Client) handleResponse(id uint64, msg *message) {
	c.mutex.Lock()
	call, ok := c.pending[id]
	delete(c.pending, id)
	c.mutex.Unlock()
	if !ok {
		c.logger.Debug(
			fmt.Sprintf("ignoring response for unknown request %d", id),
			"component", "rpc",
		)
		return
	}
	if msg.Error != nil {
		call.respChan <- &response{err: msg.Error}
		return
	}
	if call.unsubscribeMethod == "" {
		call.respChan <- &response{result: msg.Result}
		return
	}
	// Register the subscription before reading any further messages, so that
	// no notification for it can arrive first
	subId, err := subscriptionId(msg.Result)
	if err != nil {
		call.respChan <- &response{err: err}
		return
	}
	sub := newSubscription(c, subId, call.unsubscribeMethod, c.subscriptionBuffer)
	// Checking for abandonment and handing over the subscription happen under
	// one lock, so exactly one of abandon and this function tears it down
	c.mutex.Lock()
	abandoned := call.abandoned
	if !abandoned {
		c.subscriptions[subId] = sub
		call.respChan <- &response{subscription: sub}
	}
	c.mutex.Unlock()
	if abandoned {
		c.logger.Debug(
			"stopping subscription of abandoned request",
			"component", "rpc",
			"subscription_id", subId,
		)
		c.notify(call.unsubscribeMethod, []any{subId})
		return
	}
	select {
	case <-c.doneChan:
		// Raced with shutdown
		sub.closeLocal(c.err())
	default:
	}
}

func (c *Client) handleNotification(msg *message) {
	subId, err := subscriptionId(msg.Params.Subscription)
	if err != nil {
		c.logger.Warn(
			fmt.Sprintf("ignoring notification: %s", err),
			"component", "rpc",
			"method", msg.Method,
		)
		return
	}
	c.mutex.Lock()
	sub, ok := c.subscriptions[subId]
	c.mutex.Unlock()
	if !ok {
		c.logger.Debug(
			"ignoring notification for unknown subscription",
			"component", "rpc",
			"method", msg.Method,
			"subscription_id", subId,
		)
		return
	}
	if !sub.deliver(msg.Params.Result) {
		c.logger.Warn(
			"subscription buffer overflow, closing subscription",
			"component", "rpc",
			"method", msg.Method,
			"subscription_id", subId,
		)
		c.forget(subId)
	}
}

func (c *Client) forget(subId string) {
	c.mutex.Lock()
	delete(c.subscriptions, subId)
	c.mutex.Unlock()
}

// Nodes send subscription IDs as strings, but numbers are valid JSON-RPC too
func subscriptionId(raw json.RawMessage) (string, error) {
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str, nil
	}
	var num uint64
	if err := json.Unmarshal(raw, &num); err == nil {
		return strconv.FormatUint(num, 10), nil
	}
	return "", fmt.Errorf("invalid subscription ID: %s", string(raw))
}
