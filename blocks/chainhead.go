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
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/blinklabs-io/gosubstrate/chain"
	"github.com/blinklabs-io/gosubstrate/events"
	"github.com/blinklabs-io/gosubstrate/metadata"
	"github.com/blinklabs-io/gosubstrate/rpc"
	"github.com/blinklabs-io/gosubstrate/scale"
	"github.com/blinklabs-io/gosubstrate/storage"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Upper bound on the best-effort unsubscribe after an operation completes
const stopOperationTimeout = 5 * time.Second

// ChainHeadBlock is a block pinned by a chainHead follow subscription. The
// block stays pinned until Unpin is called
type ChainHeadBlock struct {
	rpc            RPC
	metadata       *metadata.Metadata
	logger         *slog.Logger
	hash           common.Hash
	subscriptionId string
}

func (b *ChainHeadBlock) Hash() common.Hash {
	return b.hash
}

// SubscriptionID returns the ID of the follow subscription that pinned the block
func (b *ChainHeadBlock) SubscriptionID() string {
	return b.subscriptionId
}

func (b *ChainHeadBlock) debug(op string) {
	b.logger.Debug(
		fmt.Sprintf("calling %s()", op),
		"component", "chainhead",
		"block_hash", b.hash.Hex(),
		"subscription_id", b.subscriptionId,
	)
}

// Body returns the block's extrinsics in on-chain order
func (b *ChainHeadBlock) Body(ctx context.Context) ([][]byte, error) {
	b.debug("Body")
	sub, err := b.rpc.ChainHeadBody(ctx, b.subscriptionId, b.hash)
	if err != nil {
		return nil, otherError("subscribe to body", err)
	}
	result, err := firstEvent(ctx, b, "body", sub)
	if err != nil {
		return nil, err
	}
	data, err := decodeHex(result)
	if err != nil {
		return nil, err
	}
	ret, err := scale.DecodeByteSlices(data)
	if err != nil {
		return nil, otherError("decode body", err)
	}
	return ret, nil
}

// Header returns the block header. It fails with ErrResourceNonExistent when
// the node doesn't have it
func (b *ChainHeadBlock) Header(ctx context.Context) (*chain.Header, error) {
	b.debug("Header")
	result, err := b.rpc.ChainHeadHeader(ctx, b.subscriptionId, b.hash)
	if err != nil {
		return nil, otherError("fetch header", err)
	}
	if result == nil {
		return nil, &ChainHeadError{
			Kind:   ErrResourceNonExistent,
			Reason: fmt.Sprintf("no header for block %s", b.hash.Hex()),
		}
	}
	data, err := decodeHex(*result)
	if err != nil {
		return nil, err
	}
	header, err := chain.DecodeHeader(data)
	if err != nil {
		return nil, otherError("decode header", err)
	}
	return header, nil
}

// StorageRaw returns the raw value under key. The boolean is false when the
// key has no value
func (b *ChainHeadBlock) StorageRaw(ctx context.Context, key []byte) ([]byte, bool, error) {
	b.debug("StorageRaw")
	sub, err := b.rpc.ChainHeadStorage(ctx, b.subscriptionId, b.hash, key, nil)
	if err != nil {
		return nil, false, otherError("subscribe to storage", err)
	}
	result, err := firstEvent(ctx, b, "storage", sub)
	if err != nil {
		return nil, false, err
	}
	if result == nil {
		return nil, false, nil
	}
	data, err := decodeHex(*result)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Storage fetches and decodes the value at addr. The boolean is false when
// the key has no value
func Storage[T any](ctx context.Context, b *ChainHeadBlock, addr storage.Address) (T, bool, error) {
	var zero T
	key, entry, err := storage.ResolveKey(addr, b.metadata)
	if err != nil {
		return zero, false, err
	}
	data, ok, err := b.StorageRaw(ctx, key)
	if err != nil || !ok {
		return zero, false, err
	}
	ret, err := storage.DecodeStorage[T](scale.NewDecoder(data), b.metadata, entry)
	if err != nil {
		return zero, false, err
	}
	return ret, true, nil
}

// Call runs a runtime API function against the block's state and returns the
// SCALE encoded result
func (b *ChainHeadBlock) Call(ctx context.Context, function string, callParameters []byte) ([]byte, error) {
	b.debug("Call")
	sub, err := b.rpc.ChainHeadCall(ctx, b.subscriptionId, b.hash, function, callParameters)
	if err != nil {
		return nil, otherError("subscribe to call", err)
	}
	result, err := firstEvent(ctx, b, "call", sub)
	if err != nil {
		return nil, err
	}
	return decodeHex(result)
}

// Events returns the events emitted in the block
func (b *ChainHeadBlock) Events(ctx context.Context) (*events.Events, error) {
	b.debug("Events")
	data, ok, err := b.StorageRaw(ctx, events.SystemEventsKey())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, otherError("failed to fetch System::Events storage", nil)
	}
	ret, err := events.NewEvents(b.metadata, data)
	if err != nil {
		return nil, otherError("decode events", err)
	}
	return ret, nil
}

// Unpin releases the block on the node. The handle must not be used afterwards
func (b *ChainHeadBlock) Unpin(ctx context.Context) error {
	b.debug("Unpin")
	if err := b.rpc.ChainHeadUnpin(ctx, b.subscriptionId, b.hash); err != nil {
		return otherError("unpin", err)
	}
	return nil
}

// firstEvent reads the single event of an operation subscription and stops
// the subscription
func firstEvent[T any](ctx context.Context, b *ChainHeadBlock, what string, sub *rpc.EventSubscription[rpc.ChainHeadEvent[T]]) (T, error) {
	var zero T
	ev, err := sub.Next(ctx)
	b.stopOperation(ctx, sub)
	if err != nil {
		if errors.Is(err, rpc.ErrSubscriptionClosed) {
			return zero, &ChainHeadError{
				Kind:   ErrOperationIncomplete,
				Reason: "failed to fetch the block " + what,
			}
		}
		return zero, otherError("read "+what+" event", err)
	}
	return convertEvent(ev)
}

type stopper interface {
	ID() string
	Unsubscribe(ctx context.Context) error
}

func (b *ChainHeadBlock) stopOperation(ctx context.Context, sub stopper) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), stopOperationTimeout)
	defer cancel()
	if err := sub.Unsubscribe(ctx); err != nil {
		b.logger.Debug(
			fmt.Sprintf("failed to stop operation: %s", err),
			"component", "chainhead",
			"operation_id", sub.ID(),
		)
	}
}

func convertEvent[T any](ev rpc.ChainHeadEvent[T]) (T, error) {
	var zero T
	switch ev.Kind {
	case rpc.ChainHeadEventDone:
		return ev.Result, nil
	case rpc.ChainHeadEventInaccessible:
		return zero, &ChainHeadError{Kind: ErrInaccessible, Reason: ev.Error}
	case rpc.ChainHeadEventError:
		return zero, &ChainHeadError{Kind: ErrChainHead, Reason: ev.Error}
	case rpc.ChainHeadEventDisjoint:
		return zero, &ChainHeadError{Kind: ErrDisjoint}
	default:
		return zero, otherError(fmt.Sprintf("unexpected event %q", ev.Kind), nil)
	}
}

func decodeHex(s string) ([]byte, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
	}
	ret, err := hexutil.Decode("0x" + s)
	if err != nil {
		return nil, otherError("decode hex", err)
	}
	return ret, nil
}
