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
	"context"
	"time"

	"github.com/blinklabs-io/gosubstrate/blocks"
	"github.com/blinklabs-io/gosubstrate/chain"
	"github.com/blinklabs-io/gosubstrate/rpc"
	"github.com/ethereum/go-ethereum/common"
)

// timeoutRPC bounds every request made through the wrapped RPC
type timeoutRPC struct {
	blocks.RPC
	timeout time.Duration
}

func withRequestTimeout(r blocks.RPC, timeout time.Duration) blocks.RPC {
	if timeout <= 0 {
		return r
	}
	return &timeoutRPC{RPC: r, timeout: timeout}
}

func (t *timeoutRPC) ChainGetHeader(ctx context.Context, hash *common.Hash) (*chain.Header, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.RPC.ChainGetHeader(ctx, hash)
}

func (t *timeoutRPC) ChainGetBlock(ctx context.Context, hash *common.Hash) (*chain.SignedBlock, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.RPC.ChainGetBlock(ctx, hash)
}

func (t *timeoutRPC) StorageAt(ctx context.Context, key []byte, at *common.Hash) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.RPC.StorageAt(ctx, key, at)
}

func (t *timeoutRPC) ChainHeadFollow(ctx context.Context, withRuntime bool) (*rpc.EventSubscription[rpc.FollowEvent], error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.RPC.ChainHeadFollow(ctx, withRuntime)
}

func (t *timeoutRPC) ChainHeadBody(ctx context.Context, followSubscription string, hash common.Hash) (*rpc.EventSubscription[rpc.ChainHeadEvent[string]], error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.RPC.ChainHeadBody(ctx, followSubscription, hash)
}

func (t *timeoutRPC) ChainHeadStorage(ctx context.Context, followSubscription string, hash common.Hash, key []byte, childKey []byte) (*rpc.EventSubscription[rpc.ChainHeadEvent[*string]], error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.RPC.ChainHeadStorage(ctx, followSubscription, hash, key, childKey)
}

func (t *timeoutRPC) ChainHeadCall(ctx context.Context, followSubscription string, hash common.Hash, function string, callParameters []byte) (*rpc.EventSubscription[rpc.ChainHeadEvent[string]], error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.RPC.ChainHeadCall(ctx, followSubscription, hash, function, callParameters)
}

func (t *timeoutRPC) ChainHeadHeader(ctx context.Context, followSubscription string, hash common.Hash) (*string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.RPC.ChainHeadHeader(ctx, followSubscription, hash)
}

func (t *timeoutRPC) ChainHeadUnpin(ctx context.Context, followSubscription string, hash common.Hash) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.RPC.ChainHeadUnpin(ctx, followSubscription, hash)
}
