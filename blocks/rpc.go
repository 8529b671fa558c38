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

	"github.com/blinklabs-io/gosubstrate/chain"
	"github.com/blinklabs-io/gosubstrate/rpc"
	"github.com/ethereum/go-ethereum/common"
)

// RPC is the node surface used by this package. It is implemented by
// *rpc.Methods
type RPC interface {
	ChainGetHeader(ctx context.Context, hash *common.Hash) (*chain.Header, error)
	ChainGetBlock(ctx context.Context, hash *common.Hash) (*chain.SignedBlock, error)
	StorageAt(ctx context.Context, key []byte, at *common.Hash) ([]byte, error)
	ChainHeadFollow(ctx context.Context, withRuntime bool) (*rpc.EventSubscription[rpc.FollowEvent], error)
	ChainHeadBody(ctx context.Context, followSubscription string, hash common.Hash) (*rpc.EventSubscription[rpc.ChainHeadEvent[string]], error)
	ChainHeadStorage(ctx context.Context, followSubscription string, hash common.Hash, key []byte, childKey []byte) (*rpc.EventSubscription[rpc.ChainHeadEvent[*string]], error)
	ChainHeadCall(ctx context.Context, followSubscription string, hash common.Hash, function string, callParameters []byte) (*rpc.EventSubscription[rpc.ChainHeadEvent[string]], error)
	ChainHeadHeader(ctx context.Context, followSubscription string, hash common.Hash) (*string, error)
	ChainHeadUnpin(ctx context.Context, followSubscription string, hash common.Hash) error
}

var _ RPC = (*rpc.Methods)(nil)
