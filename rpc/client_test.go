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

package rpc_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/blinklabs-io/gosubstrate/internal/test"
	"github.com/blinklabs-io/gosubstrate/rpc"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type serverRequest struct {
	Id     uint64            `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

type serverConn struct {
	conn  *websocket.Conn
	mutex sync.Mutex
}

func (c *serverConn) write(t *testing.T, v any) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if err := c.conn.WriteJSON(v); err != nil {
		t.Logf("server write failed: %s", err)
	}
}

func (c *serverConn) respond(t *testing.T, id uint64, result any) {
	c.write(t, map[string]any{"jsonrpc": "2.0", "id": id, "result": result})
}

func (c *serverConn) notify(t *testing.T, method string, subId string, result any) {
	c.write(t, map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  map[string]any{"subscription": subId, "result": result},
	})
}

type handlerFunc func(t *testing.T, c *serverConn, req *serverRequest)

func newTestServer(t *testing.T, handler handlerFunc) *httptest.Server {
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Logf("upgrade failed: %s", err)
			return
		}
		defer conn.Close()
		sc := &serverConn{conn: conn}
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var req serverRequest
			if err := json.Unmarshal(data, &req); err != nil {
				t.Errorf("bad request: %s", err)
				return
			}
			handler(t, sc, &req)
		}
	}))
}

func dialTestServer(t *testing.T, server *httptest.Server, options ...rpc.ClientOptionFunc) *rpc.Client {
	client, err := rpc.NewClient(options...)
	require.NoError(t, err)
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	require.NoError(t, client.Dial(context.Background(), url))
	return client
}

func TestCall(t *testing.T) {
	defer goleak.VerifyNone(t)
	server := newTestServer(t, func(t *testing.T, c *serverConn, req *serverRequest) {
		switch req.Method {
		case "system_chain":
			c.respond(t, req.Id, "Westend")
		default:
			c.write(t, map[string]any{
				"jsonrpc": "2.0",
				"id":      req.Id,
				"error":   map[string]any{"code": -32601, "message": "Method not found"},
			})
		}
	})
	defer server.Close()
	client := dialTestServer(t, server)
	defer client.Close()
	methods := rpc.NewMethods(client)

	name, err := methods.SystemChain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Westend", name)

	err = client.Call(context.Background(), "nope", nil, nil)
	var respErr *rpc.ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, -32601, respErr.Code)
}

func TestCallNullResults(t *testing.T) {
	defer goleak.VerifyNone(t)
	server := newTestServer(t, func(t *testing.T, c *serverConn, req *serverRequest) {
		switch req.Method {
		case "state_getStorage":
			var key string
			require.NoError(t, json.Unmarshal(req.Params[0], &key))
			if key == "0x0102" {
				c.respond(t, req.Id, "0xaabb")
				return
			}
			c.respond(t, req.Id, nil)
		default:
			c.respond(t, req.Id, nil)
		}
	})
	defer server.Close()
	client := dialTestServer(t, server)
	defer client.Close()
	methods := rpc.NewMethods(client)

	data, err := methods.StateGetStorage(context.Background(), []byte{1, 2}, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xaa, 0xbb}, data)
	data, err = methods.StorageAt(context.Background(), []byte{3}, nil)
	require.NoError(t, err)
	assert.Nil(t, data)
	header, err := methods.ChainGetHeader(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, header)
	hash := test.HashFromByte(1)
	block, err := methods.ChainGetBlock(context.Background(), &hash)
	require.NoError(t, err)
	assert.Nil(t, block)
}

func TestSubscription(t *testing.T) {
	defer goleak.VerifyNone(t)
	stopped := make(chan []json.RawMessage, 1)
	server := newTestServer(t, func(t *testing.T, c *serverConn, req *serverRequest) {
		switch req.Method {
		case "chainHead_unstable_body":
			// Noise for a subscription the client doesn't know
			c.notify(t, "chainHead_unstable_bodyEvent", "unknown", map[string]any{"event": "done", "result": "0x01"})
			c.respond(t, req.Id, "body-1")
			// Sent right behind the response
			c.notify(t, "chainHead_unstable_bodyEvent", "body-1", map[string]any{"event": "done", "result": "0x00"})
		case "chainHead_unstable_stopBody":
			stopped <- req.Params
			c.respond(t, req.Id, nil)
		}
	})
	defer server.Close()
	client := dialTestServer(t, server)
	defer client.Close()
	methods := rpc.NewMethods(client)

	sub, err := methods.ChainHeadBody(context.Background(), "follow-1", test.HashFromByte(2))
	require.NoError(t, err)
	assert.Equal(t, "body-1", sub.ID())
	ev, err := sub.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, rpc.ChainHeadEventDone, ev.Kind)
	assert.Equal(t, "0x00", ev.Result)

	require.NoError(t, sub.Unsubscribe(context.Background()))
	params := <-stopped
	require.Len(t, params, 1)
	assert.JSONEq(t, `"body-1"`, string(params[0]))
	_, err = sub.Next(context.Background())
	require.ErrorIs(t, err, rpc.ErrSubscriptionClosed)
	// A second unsubscribe is a no-op
	require.NoError(t, sub.Unsubscribe(context.Background()))
}

func TestSubscriptionOverflow(t *testing.T) {
	defer goleak.VerifyNone(t)
	server := newTestServer(t, func(t *testing.T, c *serverConn, req *serverRequest) {
		if req.Method == "chainHead_unstable_follow" {
			c.respond(t, req.Id, "follow-1")
			for range 3 {
				c.notify(t, "chainHead_unstable_followEvent", "follow-1", map[string]any{"event": "bestBlockChanged", "bestBlockHash": test.HashFromByte(3)})
			}
			return
		}
		c.respond(t, req.Id, nil)
	})
	defer server.Close()
	client := dialTestServer(t, server, rpc.WithSubscriptionBuffer(2))
	defer client.Close()

	sub, err := rpc.NewMethods(client).ChainHeadFollow(context.Background(), false)
	require.NoError(t, err)
	// Responses are handled in order, so all notifications have arrived once
	// this returns
	require.NoError(t, client.Call(context.Background(), "system_health", nil, nil))
	// The queue holds two events, the third closes the subscription
	var received int
	for {
		ev, err := sub.Next(context.Background())
		if err != nil {
			require.ErrorIs(t, err, rpc.ErrSubscriptionClosed)
			break
		}
		assert.Equal(t, rpc.FollowEventBestBlockChanged, ev.Event)
		assert.Equal(t, test.HashFromByte(3), ev.BestBlockHash)
		received++
	}
	assert.Equal(t, 2, received)
}

func TestUnsubscribeReplies(t *testing.T) {
	defer goleak.VerifyNone(t)
	server := newTestServer(t, func(t *testing.T, c *serverConn, req *serverRequest) {
		switch req.Method {
		case "chainHead_unstable_follow":
			c.respond(t, req.Id, "follow-1")
		case "chainHead_unstable_unfollow":
			c.respond(t, req.Id, nil)
		case "chain_subscribeNewHeads":
			c.respond(t, req.Id, "heads-1")
		case "chain_unsubscribeNewHeads":
			c.respond(t, req.Id, false)
		}
	})
	defer server.Close()
	client := dialTestServer(t, server)
	defer client.Close()

	follow, err := client.Subscribe(context.Background(), "chainHead_unstable_follow", []any{true}, "chainHead_unstable_unfollow")
	require.NoError(t, err)
	require.NoError(t, follow.Unsubscribe(context.Background()))

	heads, err := client.Subscribe(context.Background(), "chain_subscribeNewHeads", nil, "chain_unsubscribeNewHeads")
	require.NoError(t, err)
	err = heads.Unsubscribe(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not know subscription heads-1")
}

func TestAbandonedSubscribe(t *testing.T) {
	defer goleak.VerifyNone(t)
	release := make(chan struct{})
	stopped := make(chan []json.RawMessage, 1)
	var respondWait sync.WaitGroup
	server := newTestServer(t, func(t *testing.T, c *serverConn, req *serverRequest) {
		switch req.Method {
		case "chainHead_unstable_follow":
			respondWait.Add(1)
			go func() {
				defer respondWait.Done()
				<-release
				c.respond(t, req.Id, "follow-late")
			}()
		case "chainHead_unstable_unfollow":
			stopped <- req.Params
			c.respond(t, req.Id, nil)
		}
	})
	defer server.Close()
	client := dialTestServer(t, server)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := client.Subscribe(ctx, "chainHead_unstable_follow", []any{true}, "chainHead_unstable_unfollow")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	// The node only answers after the caller gave up
	close(release)
	respondWait.Wait()
	select {
	case params := <-stopped:
		require.Len(t, params, 1)
		assert.JSONEq(t, `"follow-late"`, string(params[0]))
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the late subscription to be stopped")
	}
}

func TestNextHonorsContext(t *testing.T) {
	defer goleak.VerifyNone(t)
	server := newTestServer(t, func(t *testing.T, c *serverConn, req *serverRequest) {
		c.respond(t, req.Id, "sub-1")
	})
	defer server.Close()
	client := dialTestServer(t, server)
	defer client.Close()

	sub, err := client.Subscribe(context.Background(), "chainHead_unstable_follow", []any{true}, "chainHead_unstable_unfollow")
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = sub.Next(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClientClose(t *testing.T) {
	defer goleak.VerifyNone(t)
	requests := make(chan string, 10)
	server := newTestServer(t, func(t *testing.T, c *serverConn, req *serverRequest) {
		requests <- req.Method
		if req.Method == "chainHead_unstable_follow" {
			c.respond(t, req.Id, "follow-1")
		}
		// Everything else is left unanswered
	})
	defer server.Close()
	client := dialTestServer(t, server)

	sub, err := client.Subscribe(context.Background(), "chainHead_unstable_follow", []any{true}, "chainHead_unstable_unfollow")
	require.NoError(t, err)
	callErr := make(chan error, 1)
	go func() {
		callErr <- client.Call(context.Background(), "chain_getHeader", nil, nil)
	}()
	// Wait for the call to reach the server
	for method := range requests {
		if method == "chain_getHeader" {
			break
		}
	}
	require.NoError(t, client.Close())
	require.ErrorIs(t, <-callErr, rpc.ErrClientClosed)
	_, err = sub.Next(context.Background())
	require.ErrorIs(t, err, rpc.ErrSubscriptionClosed)
	require.ErrorIs(t, client.Call(context.Background(), "system_chain", nil, nil), rpc.ErrClientClosed)
	// The error channel is closed
	_, ok := <-client.ErrorChan()
	assert.False(t, ok)
}

func TestConnectionLost(t *testing.T) {
	defer goleak.VerifyNone(t)
	server := newTestServer(t, func(t *testing.T, c *serverConn, req *serverRequest) {
		// Drop the connection on the first request
		_ = c.conn.Close()
	})
	defer server.Close()
	client := dialTestServer(t, server)
	defer client.Close()

	err := client.Call(context.Background(), "system_chain", nil, nil)
	require.ErrorIs(t, err, rpc.ErrClientClosed)
	select {
	case err := <-client.ErrorChan():
		require.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for connection error")
	}
}

func TestNotConnected(t *testing.T) {
	client, err := rpc.NewClient()
	require.NoError(t, err)
	require.ErrorIs(t, client.Call(context.Background(), "system_chain", nil, nil), rpc.ErrNotConnected)
	require.NoError(t, client.Close())
}

func TestChainHeadEventJSON(t *testing.T) {
	testDefs := []struct {
		json     string
		expected rpc.ChainHeadEvent[*string]
	}{
		{json: `{"event":"done","result":null}`, expected: rpc.ChainHeadEvent[*string]{Kind: rpc.ChainHeadEventDone}},
		{json: `{"event":"inaccessible"}`, expected: rpc.ChainHeadEvent[*string]{Kind: rpc.ChainHeadEventInaccessible}},
		{json: `{"event":"error","error":"boom"}`, expected: rpc.ChainHeadEvent[*string]{Kind: rpc.ChainHeadEventError, Error: "boom"}},
		{json: `{"event":"disjoint"}`, expected: rpc.ChainHeadEvent[*string]{Kind: rpc.ChainHeadEventDisjoint}},
	}
	for _, testDef := range testDefs {
		var ev rpc.ChainHeadEvent[*string]
		require.NoError(t, json.Unmarshal([]byte(testDef.json), &ev))
		assert.Equal(t, testDef.expected, ev)
	}
	var ev rpc.ChainHeadEvent[*string]
	require.NoError(t, json.Unmarshal([]byte(`{"event":"done","result":"0x01"}`), &ev))
	require.NotNil(t, ev.Result)
	assert.Equal(t, "0x01", *ev.Result)
	require.Error(t, json.Unmarshal([]byte(`{"result":"0x01"}`), &ev))
	require.Error(t, json.Unmarshal([]byte(`{"event":"done","result":5}`), &ev))

	out, err := json.Marshal(rpc.ChainHeadEvent[string]{Kind: rpc.ChainHeadEventDone, Result: "0x00"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"done","result":"0x00"}`, string(out))
}
