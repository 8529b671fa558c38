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
	"context"

	"github.com/blinklabs-io/gosubstrate/chain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Methods provides typed access to the node's chain, state and chainHead
// methods
type Methods struct {
	client *Client
}

func NewMethods(client *Client) *Methods {
	return &Methods{client: client}
}

func (m *Methods) Client() *Client {
	return m.client
}

func blockParams(hash *common.Hash) []any {
	if hash == nil {
		return []any{}
	}
	return []any{*hash}
}

// SystemChain returns the chain name
func (m *Methods) SystemChain(ctx context.Context) (string, error) {
	var ret string
	err := m.client.Call(ctx, "system_chain", nil, &ret)
	return ret, err
}

// ChainGetHeader returns the header of the given block, or of the best block
// when hash is nil. It returns nil when the block is unknown
func (m *Methods) ChainGetHeader(ctx context.Context, hash *common.Hash) (*chain.Header, error) {
	var ret *chain.Header
	if err := m.client.Call(ctx, "chain_getHeader", blockParams(hash), &ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// ChainGetBlock returns the given block, or the best block when hash is nil.
// It returns nil when the block is unknown
func (m *Methods) ChainGetBlock(ctx context.Context, hash *common.Hash) (*chain.SignedBlock, error) {
	var ret *chain.SignedBlock
	if err := m.client.Call(ctx, "chain_getBlock", blockParams(hash), &ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// ChainGetBlockHash returns the hash of the block with the given number, or of
// the best block when number is nil. It returns nil when there is no such block
func (m *Methods) ChainGetBlockHash(ctx context.Context, number *uint64) (*common.Hash, error) {
	params := []any{}
	if number != nil {
		params = append(params, *number)
	}
	var ret *common.Hash
	if err := m.client.Call(ctx, "chain_getBlockHash", params, &ret); err != nil {
		return nil, err
	}
	return ret, nil
}

func (m *Methods) ChainGetFinalizedHead(ctx context.Context) (common.Hash, error) {
	var ret common.Hash
	err := m.client.Call(ctx, "chain_getFinalizedHead", nil, &ret)
	return ret, err
}

// StateGetStorage returns the raw value under key at the given block, or at
// the best block when at is nil. It returns nil when the key has no value
func (m *Methods) StateGetStorage(ctx context.Context, key []byte, at *common.Hash) ([]byte, error) {
	params := []any{hexutil.Bytes(key)}
	if at != nil {
		params = append(params, *at)
	}
	var ret *hexutil.Bytes
	if err := m.client.Call(ctx, "state_getStorage", params, &ret); err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, nil
	}
	return *ret, nil
}

// StorageAt is an alias of StateGetStorage
func (m *Methods) StorageAt(ctx context.Context, key []byte, at *common.Hash) ([]byte, error) {
	return m.StateGetStorage(ctx, key, at)
}

// ChainHeadFollow starts following the chain. The subscription ID is needed
// by every other chainHead method
func (m *Methods) ChainHeadFollow(ctx context.Context, withRuntime bool) (*EventSubscription[FollowEvent], error) {
	return SubscribeEvents[FollowEvent](
		ctx,
		m.client,
		"chainHead_unstable_follow",
		[]any{withRuntime},
		"chainHead_unstable_unfollow",
	)
}

func (m *Methods) ChainHeadUnfollow(ctx context.Context, followSubscription string) error {
	return m.client.Call(ctx, "chainHead_unstable_unfollow", []any{followSubscription}, nil)
}

// ChainHeadBody fetches the body of a pinned block. The Done result is the hex
// encoded list of extrinsics
func (m *Methods) ChainHeadBody(ctx context.Context, followSubscription string, hash common.Hash) (*EventSubscription[ChainHeadEvent[string]], error) {
	return SubscribeEvents[ChainHeadEvent[string]](
		ctx,
		m.client,
		"chainHead_unstable_body",
		[]any{followSubscription, hash},
		"chainHead_unstable_stopBody",
	)
}

// ChainHeadStorage fetches a storage value of a pinned block. The Done result
// is nil when the key has no value
func (m *Methods) ChainHeadStorage(ctx context.Context, followSubscription string, hash common.Hash, key []byte, childKey []byte) (*EventSubscription[ChainHeadEvent[*string]], error) {
	params := []any{followSubscription, hash, hexutil.Bytes(key)}
	if childKey != nil {
		params = append(params, hexutil.Bytes(childKey))
	}
	return SubscribeEvents[ChainHeadEvent[*string]](
		ctx,
		m.client,
		"chainHead_unstable_storage",
		params,
		"chainHead_unstable_stopStorage",
	)
}

// ChainHeadCall runs a runtime API call against a pinned block
func (m *Methods) ChainHeadCall(ctx context.Context, followSubscription string, hash common.Hash, function string, callParameters []byte) (*EventSubscription[ChainHeadEvent[string]], error) {
	return SubscribeEvents[ChainHeadEvent[string]](
		ctx,
		m.client,
		"chainHead_unstable_call",
		[]any{followSubscription, hash, function, hexutil.Bytes(callParameters)},
		"chainHead_unstable_stopCall",
	)
}

// ChainHeadHeader returns the hex encoded header of a pinned block, or nil if
// the node doesn't have it
func (m *Methods) ChainHeadHeader(ctx context.Context, followSubscription string, hash common.Hash) (*string, error) {
	var ret *string
	if err := m.client.Call(ctx, "chainHead_unstable_header", []any{followSubscription, hash}, &ret); err != nil {
		return nil, err
	}
	return ret, nil
}

func (m *Methods) ChainHeadUnpin(ctx context.Context, followSubscription string, hash common.Hash) error {
	return m.client.Call(ctx, "chainHead_unstable_unpin", []any{followSubscription, hash}, nil)
}
