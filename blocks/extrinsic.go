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

	"github.com/blinklabs-io/gosubstrate/hashing"
	"github.com/ethereum/go-ethereum/common"
)

type Extrinsic struct {
	block *Block
	index uint32
	bytes []byte
}

// Index returns the position of the extrinsic in its block
func (e *Extrinsic) Index() uint32 {
	return e.index
}

// Bytes returns the encoded extrinsic. The slice shares the body's buffer and
// must not be modified
func (e *Extrinsic) Bytes() []byte {
	return e.bytes
}

// Hash returns the blake2-256 hash of the encoded extrinsic
func (e *Extrinsic) Hash() common.Hash {
	return common.Hash(hashing.Blake2_256(e.bytes))
}

// Events returns the events emitted while applying the extrinsic
func (e *Extrinsic) Events(ctx context.Context) (*ExtrinsicEvents, error) {
	evs, err := e.block.Events(ctx)
	if err != nil {
		return nil, err
	}
	return &ExtrinsicEvents{
		extrinsicHash: e.Hash(),
		index:         e.index,
		blockHash:     e.block.hash,
		events:        evs,
	}, nil
}
