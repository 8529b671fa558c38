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

// Package fakenode provides an in-memory node implementing the RPC surface
// used by the blocks package
package fakenode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/blinklabs-io/gosubstrate/chain"
	"github.com/blinklabs-io/gosubstrate/rpc"
	"github.com/blinklabs-io/gosubstrate/scale"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Method names used for call counters and scripts
const (
	MethodChainGetHeader   = "chain_getHeader"
	MethodChainGetBlock    = "chain_getBlock"
	MethodStorageAt        = "state_getStorage"
	MethodChainHeadFollow  = "chainHead_unstable_follow"
	MethodChainHeadBody    = "chainHead_unstable_body"
	MethodChainHeadStorage = "chainHead_unstable_storage"
	MethodChainHeadCall    = "chainHead_unstable_call"
	MethodChainHeadHeader  = "chainHead_unstable_header"
	MethodChainHeadUnpin   = "chainHead_unstable_unpin"
)

// DefaultFollowID is the subscription ID handed out by ChainHeadFollow
const DefaultFollowID = "follow-1"

// Node is a fake node holding blocks and storage in memory. It is safe for
// concurrent use
type Node struct {
	mutex        sync.Mutex
	headers      map[common.Hash]*chain.Header
	blocks       map[common.Hash]*chain.SignedBlock
	best         common.Hash
	storage      map[common.Hash]map[string][]byte
	callResults  map[string][]byte
	scripts      map[string][]json.RawMessage
	followId     string
	followEvents []json.RawMessage
	storageGate  chan struct{}
	calls        map[string]int
	unsubscribed map[string]int
	unpinned     []common.Hash
	nextSub      int
}

func New() *Node {
	return &Node{
		headers:      make(map[common.Hash]*chain.Header),
		blocks:       make(map[common.Hash]*chain.SignedBlock),
		storage:      make(map[common.Hash]map[string][]byte),
		callResults:  make(map[string][]byte),
		scripts:      make(map[string][]json.RawMessage),
		followId:     DefaultFollowID,
		calls:        make(map[string]int),
		unsubscribed: make(map[string]int),
	}
}

// AddBlock stores a block and makes it the best block. It returns the block
// hash
func (n *Node) AddBlock(header *chain.Header, extrinsics [][]byte) common.Hash {
	hash := header.Hash()
	block := &chain.SignedBlock{
		Block: chain.Block{
			Header:     *header,
			Extrinsics: make([]hexutil.Bytes, 0, len(extrinsics)),
		},
	}
	for _, ext := range extrinsics {
		block.Block.Extrinsics = append(block.Block.Extrinsics, hexutil.Bytes(ext))
	}
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.headers[hash] = header
	n.blocks[hash] = block
	n.best = hash
	return hash
}

// PruneBody forgets the body of a block while keeping its header
func (n *Node) PruneBody(hash common.Hash) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	delete(n.blocks, hash)
}

// SetStorage stores a value under key at the given block
func (n *Node) SetStorage(at common.Hash, key []byte, value []byte) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	values, ok := n.storage[at]
	if !ok {
		values = make(map[string][]byte)
		n.storage[at] = values
	}
	values[string(key)] = value
}

// SetCallResult sets the result of a runtime API call
func (n *Node) SetCallResult(function string, result []byte) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.callResults[function] = result
}

// Script replaces the events of every following subscription to a chainHead
// operation method with the given raw JSON events. No events makes the
// subscription end without yielding anything
func (n *Node) Script(method string, events ...string) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	raw := make([]json.RawMessage, 0, len(events))
	for _, ev := range events {
		raw = append(raw, json.RawMessage(ev))
	}
	n.scripts[method] = raw
}

// PushFollowEvent queues a follow event for the next follow subscription
func (n *Node) PushFollowEvent(ev rpc.FollowEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		panic(fmt.Sprintf("error encoding follow event: %s", err))
	}
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.followEvents = append(n.followEvents, data)
}

// GateStorage makes StorageAt block until the returned function is called
// or the caller's context is done
func (n *Node) GateStorage() func() {
	gate := make(chan struct{})
	n.mutex.Lock()
	n.storageGate = gate
	n.mutex.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			close(gate)
		})
	}
}

// Calls returns how many times a method was invoked
func (n *Node) Calls(method string) int {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	return n.calls[method]
}

// Unsubscribed returns how many subscriptions to a method were unsubscribed
func (n *Node) Unsubscribed(method string) int {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	return n.unsubscribed[method]
}

// Unpinned returns the hashes passed to ChainHeadUnpin, in order
func (n *Node) Unpinned() []common.Hash {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	return append([]common.Hash(nil), n.unpinned...)
}

func (n *Node) count(method string) {
	n.mutex.Lock()
	n.calls[method]++
	n.mutex.Unlock()
}

func (n *Node) resolve(hash *common.Hash) common.Hash {
	if hash == nil {
		return n.best
	}
	return *hash
}

func (n *Node) ChainGetHeader(_ context.Context, hash *common.Hash) (*chain.Header, error) {
	n.count(MethodChainGetHeader)
	n.mutex.Lock()
	defer n.mutex.Unlock()
	return n.headers[n.resolve(hash)], nil
}

func (n *Node) ChainGetBlock(_ context.Context, hash *common.Hash) (*chain.SignedBlock, error) {
	n.count(MethodChainGetBlock)
	n.mutex.Lock()
	defer n.mutex.Unlock()
	return n.blocks[n.resolve(hash)], nil
}

func (n *Node) StorageAt(ctx context.Context, key []byte, at *common.Hash) ([]byte, error) {
	n.count(MethodStorageAt)
	n.mutex.Lock()
	gate := n.storageGate
	n.mutex.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	n.mutex.Lock()
	defer n.mutex.Unlock()
	return n.storage[n.resolve(at)][string(key)], nil
}

func (n *Node) ChainHeadFollow(_ context.Context, _ bool) (*rpc.EventSubscription[rpc.FollowEvent], error) {
	n.count(MethodChainHeadFollow)
	n.mutex.Lock()
	defer n.mutex.Unlock()
	sub := n.newSubscription(n.followId, MethodChainHeadFollow, n.followEvents, true)
	n.followEvents = nil
	return rpc.NewEventSubscription[rpc.FollowEvent](sub), nil
}

func (n *Node) ChainHeadBody(_ context.Context, followSubscription string, hash common.Hash) (*rpc.EventSubscription[rpc.ChainHeadEvent[string]], error) {
	n.count(MethodChainHeadBody)
	n.mutex.Lock()
	defer n.mutex.Unlock()
	sub := n.operation(MethodChainHeadBody, followSubscription, func() json.RawMessage {
		block, ok := n.blocks[hash]
		if !ok {
			return json.RawMessage(`{"event":"inaccessible"}`)
		}
		items := make([][]byte, 0, len(block.Block.Extrinsics))
		for _, ext := range block.Block.Extrinsics {
			items = append(items, ext)
		}
		return done(hexutil.Encode(scale.EncodeByteSlices(items)))
	})
	return rpc.NewEventSubscription[rpc.ChainHeadEvent[string]](sub), nil
}

func (n *Node) ChainHeadStorage(_ context.Context, followSubscription string, hash common.Hash, key []byte, _ []byte) (*rpc.EventSubscription[rpc.ChainHeadEvent[*string]], error) {
	n.count(MethodChainHeadStorage)
	n.mutex.Lock()
	defer n.mutex.Unlock()
	sub := n.operation(MethodChainHeadStorage, followSubscription, func() json.RawMessage {
		value, ok := n.storage[hash][string(key)]
		if !ok {
			return json.RawMessage(`{"event":"done","result":null}`)
		}
		return done(hexutil.Encode(value))
	})
	return rpc.NewEventSubscription[rpc.ChainHeadEvent[*string]](sub), nil
}

func (n *Node) ChainHeadCall(_ context.Context, followSubscription string, _ common.Hash, function string, _ []byte) (*rpc.EventSubscription[rpc.ChainHeadEvent[string]], error) {
	n.count(MethodChainHeadCall)
	n.mutex.Lock()
	defer n.mutex.Unlock()
	sub := n.operation(MethodChainHeadCall, followSubscription, func() json.RawMessage {
		result, ok := n.callResults[function]
		if !ok {
			return json.RawMessage(fmt.Sprintf(`{"event":"error","error":"unknown function %s"}`, function))
		}
		return done(hexutil.Encode(result))
	})
	return rpc.NewEventSubscription[rpc.ChainHeadEvent[string]](sub), nil
}

func (n *Node) ChainHeadHeader(_ context.Context, followSubscription string, hash common.Hash) (*string, error) {
	n.count(MethodChainHeadHeader)
	n.mutex.Lock()
	defer n.mutex.Unlock()
	if followSubscription != n.followId {
		return nil, errors.New("invalid follow subscription")
	}
	header, ok := n.headers[hash]
	if !ok {
		return nil, nil
	}
	ret := hexutil.Encode(header.AppendSCALE(nil))
	return &ret, nil
}

func (n *Node) ChainHeadUnpin(_ context.Context, _ string, hash common.Hash) error {
	n.count(MethodChainHeadUnpin)
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.unpinned = append(n.unpinned, hash)
	return nil
}

func done(result string) json.RawMessage {
	ret, _ := json.Marshal(map[string]string{"event": "done", "result": result})
	return ret
}

// operation builds a one-shot operation subscription. A scripted method
// yields its script, an unknown follow subscription yields Disjoint and
// anything else yields the result of respond. Must be called with the
// mutex held
func (n *Node) operation(method string, followSubscription string, respond func() json.RawMessage) *subscription {
	var events []json.RawMessage
	if script, ok := n.scripts[method]; ok {
		events = script
	} else if followSubscription != n.followId {
		events = []json.RawMessage{json.RawMessage(`{"event":"disjoint"}`)}
	} else {
		events = []json.RawMessage{respond()}
	}
	n.nextSub++
	return n.newSubscription(fmt.Sprintf("op-%d", n.nextSub), method, events, false)
}

func (n *Node) newSubscription(id string, method string, events []json.RawMessage, stayOpen bool) *subscription {
	return &subscription{
		node:     n,
		id:       id,
		method:   method,
		queue:    append([]json.RawMessage(nil), events...),
		stayOpen: stayOpen,
		doneChan: make(chan struct{}),
	}
}

// subscription is a scripted rpc.RawSubscription
type subscription struct {
	node     *Node
	id       string
	method   string
	mutex    sync.Mutex
	queue    []json.RawMessage
	stayOpen bool
	closed   bool
	doneChan chan struct{}
}

func (s *subscription) ID() string {
	return s.id
}

func (s *subscription) Next(ctx context.Context) (json.RawMessage, error) {
	s.mutex.Lock()
	if s.closed {
		s.mutex.Unlock()
		return nil, rpc.ErrSubscriptionClosed
	}
	if len(s.queue) > 0 {
		ret := s.queue[0]
		s.queue = s.queue[1:]
		s.mutex.Unlock()
		return ret, nil
	}
	s.mutex.Unlock()
	if !s.stayOpen {
		return nil, rpc.ErrSubscriptionClosed
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.doneChan:
		return nil, rpc.ErrSubscriptionClosed
	}
}

func (s *subscription) Unsubscribe(_ context.Context) error {
	s.mutex.Lock()
	if s.closed {
		s.mutex.Unlock()
		return nil
	}
	s.closed = true
	close(s.doneChan)
	s.mutex.Unlock()
	s.node.mutex.Lock()
	s.node.unsubscribed[s.method]++
	s.node.mutex.Unlock()
	return nil
}
