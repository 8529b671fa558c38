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

package blocks_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/blinklabs-io/gosubstrate/blocks"
	"github.com/blinklabs-io/gosubstrate/internal/test"
	"github.com/blinklabs-io/gosubstrate/internal/test/fakenode"
	"github.com/blinklabs-io/gosubstrate/metadata"
	"github.com/blinklabs-io/gosubstrate/rpc"
	"github.com/blinklabs-io/gosubstrate/scale"
	"github.com/blinklabs-io/gosubstrate/storage"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChainHeadBlock(eventData []byte) (*fakenode.Node, *blocks.ChainHeadBlock) {
	node, hash := newTestNode(eventData)
	client := blocks.NewClient(node, test.Metadata())
	return node, client.ChainHeadBlock(fakenode.DefaultFollowID, hash)
}

func TestChainHeadBody(t *testing.T) {
	node, block := newChainHeadBlock(nil)
	body, err := block.Body(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testExtrinsics, body)
	// The operation subscription is stopped before returning
	assert.Equal(t, 1, node.Unsubscribed(fakenode.MethodChainHeadBody))
}

func TestChainHeadBodyEmpty(t *testing.T) {
	node, block := newChainHeadBlock(nil)
	node.Script(fakenode.MethodChainHeadBody, `{"event":"done","result":"0x00"}`)
	body, err := block.Body(context.Background())
	require.NoError(t, err)
	assert.Empty(t, body)
}

func TestChainHeadEventKinds(t *testing.T) {
	testDefs := []struct {
		name      string
		event     string
		kind      error
		retryable bool
		contains  string
	}{
		{
			name:      "inaccessible",
			event:     `{"event":"inaccessible","error":"node is syncing"}`,
			kind:      blocks.ErrInaccessible,
			retryable: true,
			contains:  "node is syncing",
		},
		{
			name:     "error",
			event:    `{"event":"error","error":"wasm trap"}`,
			kind:     blocks.ErrChainHead,
			contains: "wasm trap",
		},
		{
			name:  "disjoint",
			event: `{"event":"disjoint"}`,
			kind:  blocks.ErrDisjoint,
		},
		{
			name:     "unknown kind",
			event:    `{"event":"operationWaitingForContinue"}`,
			kind:     blocks.ErrOther,
			contains: "operationWaitingForContinue",
		},
		{
			name:  "malformed hex",
			event: `{"event":"done","result":"0xzz"}`,
			kind:  blocks.ErrOther,
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			node, block := newChainHeadBlock(nil)
			node.Script(fakenode.MethodChainHeadCall, testDef.event)
			_, err := block.Call(context.Background(), "Core_version", nil)
			require.ErrorIs(t, err, testDef.kind)
			assert.Equal(t, testDef.retryable, blocks.IsRetryable(err))
			var chainHeadErr *blocks.ChainHeadError
			require.ErrorAs(t, err, &chainHeadErr)
			assert.Equal(t, testDef.kind, chainHeadErr.Kind)
			if testDef.contains != "" {
				assert.Contains(t, err.Error(), testDef.contains)
			}
			assert.Equal(t, 1, node.Unsubscribed(fakenode.MethodChainHeadCall))
		})
	}
}

func TestChainHeadHexPrefix(t *testing.T) {
	for _, result := range []string{"0x0102", "0X0102", "0102"} {
		node, block := newChainHeadBlock(nil)
		node.Script(fakenode.MethodChainHeadCall, fmt.Sprintf(`{"event":"done","result":%q}`, result))
		data, err := block.Call(context.Background(), "Core_version", nil)
		require.NoError(t, err, result)
		assert.Equal(t, []byte{1, 2}, data, result)
	}
}

func TestChainHeadMalformedBody(t *testing.T) {
	node, block := newChainHeadBlock(nil)
	// Valid hex, but not a list of byte vectors
	node.Script(fakenode.MethodChainHeadBody, `{"event":"done","result":"0x0801"}`)
	_, err := block.Body(context.Background())
	require.ErrorIs(t, err, blocks.ErrOther)
	require.ErrorIs(t, err, scale.ErrShortRead)
}

func TestChainHeadOperationIncomplete(t *testing.T) {
	node, block := newChainHeadBlock(nil)
	node.Script(fakenode.MethodChainHeadStorage)
	_, _, err := block.StorageRaw(context.Background(), []byte{1})
	require.ErrorIs(t, err, blocks.ErrOperationIncomplete)
	assert.Contains(t, err.Error(), "failed to fetch the block storage")
	assert.False(t, blocks.IsRetryable(err))
}

func TestChainHeadCall(t *testing.T) {
	node, block := newChainHeadBlock(nil)
	node.SetCallResult("Core_version", []byte{0x01, 0x02})
	result, err := block.Call(context.Background(), "Core_version", nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02}, result)
}

func TestChainHeadHeader(t *testing.T) {
	node, hash := newTestNode(nil)
	client := blocks.NewClient(node, test.Metadata())
	header, err := client.ChainHeadBlock(fakenode.DefaultFollowID, hash).Header(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(42), header.Number)
	assert.Equal(t, hash, header.Hash())

	_, err = client.ChainHeadBlock(fakenode.DefaultFollowID, test.HashFromByte(0xee)).Header(context.Background())
	require.ErrorIs(t, err, blocks.ErrResourceNonExistent)
}

func TestChainHeadStorage(t *testing.T) {
	node, block := newChainHeadBlock(nil)
	addr := storage.NewAddress("Balances", "TotalIssuance")
	node.SetStorage(block.Hash(), storage.RootBytes(addr), scale.AppendU128(nil, uint256.NewInt(1000)))

	value, ok, err := blocks.Storage[*uint256.Int](context.Background(), block, addr)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint256.NewInt(1000), value)

	// Absent values are not decoded
	account := storage.NewAddress("System", "Account", storage.KeyAccountID(test.BobAccountId))
	info, ok, err := blocks.Storage[any](context.Background(), block, account)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, info)

	raw, ok, err := block.StorageRaw(context.Background(), []byte{0xde, 0xad})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, raw)
}

func TestChainHeadStorageAccount(t *testing.T) {
	node, block := newChainHeadBlock(nil)
	addr := storage.NewAddress("System", "Account", storage.KeyAccountID(test.AliceAccountId))
	key, err := storage.AddressBytes(addr, test.Metadata())
	require.NoError(t, err)
	node.SetStorage(block.Hash(), key, test.AccountInfo(7, 500))

	value, ok, err := blocks.Storage[any](context.Background(), block, addr)
	require.NoError(t, err)
	require.True(t, ok)
	info, isComposite := value.(metadata.Composite)
	require.True(t, isComposite)
	nonce, _ := info.Field("nonce")
	assert.Equal(t, uint64(7), nonce)
}

func TestChainHeadStorageDisjoint(t *testing.T) {
	node, hash := newTestNode(nil)
	client := blocks.NewClient(node, test.Metadata())
	stale := client.ChainHeadBlock("stale-subscription", hash)
	assert.Equal(t, "stale-subscription", stale.SubscriptionID())

	_, ok, err := blocks.Storage[*uint256.Int](context.Background(), stale, storage.NewAddress("Balances", "TotalIssuance"))
	require.ErrorIs(t, err, blocks.ErrDisjoint)
	assert.False(t, ok)
	assert.False(t, blocks.IsRetryable(err))
}

func TestChainHeadStorageSchemaMismatch(t *testing.T) {
	node, block := newChainHeadBlock(nil)
	addr := storage.NewStaticAddress("Balances", "TotalIssuance", [32]byte{1})
	_, _, err := blocks.Storage[*uint256.Int](context.Background(), block, addr)
	require.ErrorIs(t, err, metadata.ErrIncompatibleSchema)
	// Nothing is fetched for an incompatible address
	assert.Equal(t, 0, node.Calls(fakenode.MethodChainHeadStorage))

	_, _, err = blocks.Storage[*uint256.Int](context.Background(), block, storage.NewAddress("Nope", "TotalIssuance"))
	require.ErrorIs(t, err, metadata.ErrPalletNotFound)
}

func TestChainHeadEvents(t *testing.T) {
	_, block := newChainHeadBlock(blockEvents())
	evs, err := block.Events(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, evs.Len())

	_, empty := newChainHeadBlock(nil)
	_, err = empty.Events(context.Background())
	require.ErrorIs(t, err, blocks.ErrOther)
	assert.Contains(t, err.Error(), "failed to fetch System::Events storage")
}

func TestChainHeadUnpin(t *testing.T) {
	node, block := newChainHeadBlock(nil)
	require.NoError(t, block.Unpin(context.Background()))
	assert.Equal(t, []common.Hash{block.Hash()}, node.Unpinned())
}

func TestFollow(t *testing.T) {
	node, hash := newTestNode(nil)
	node.PushFollowEvent(rpc.FollowEvent{
		Event:              rpc.FollowEventInitialized,
		FinalizedBlockHash: test.HashFromByte(0x01),
	})
	node.PushFollowEvent(rpc.FollowEvent{
		Event:           rpc.FollowEventNewBlock,
		BlockHash:       hash,
		ParentBlockHash: test.HashFromByte(0x01),
	})
	node.PushFollowEvent(rpc.FollowEvent{
		Event:         rpc.FollowEventBestBlockChanged,
		BestBlockHash: hash,
	})
	client := blocks.NewClient(node, test.Metadata())
	sub, err := client.Follow(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, fakenode.DefaultFollowID, sub.ID())

	ev, err := sub.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, rpc.FollowEventInitialized, ev.Event)
	require.NotNil(t, ev.Block)
	assert.Equal(t, test.HashFromByte(0x01), ev.Block.Hash())

	ev, err = sub.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, rpc.FollowEventNewBlock, ev.Event)
	require.NotNil(t, ev.Block)
	assert.Equal(t, fakenode.DefaultFollowID, ev.Block.SubscriptionID())
	// Blocks announced by the subscription can be used right away
	body, err := ev.Block.Body(context.Background())
	require.NoError(t, err)
	assert.Len(t, body, 2)

	ev, err = sub.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, rpc.FollowEventBestBlockChanged, ev.Event)
	assert.Nil(t, ev.Block)
	assert.Equal(t, hash, ev.BestBlockHash)

	require.NoError(t, sub.Unfollow(context.Background()))
	assert.Equal(t, 1, node.Unsubscribed(fakenode.MethodChainHeadFollow))
	_, err = sub.Next(context.Background())
	require.ErrorIs(t, err, rpc.ErrSubscriptionClosed)
}

func TestChainHeadErrorMessage(t *testing.T) {
	err := &blocks.ChainHeadError{Kind: blocks.ErrChainHead, Reason: "wasm trap"}
	assert.Equal(t, "chainHead operation failed: wasm trap", err.Error())
}
