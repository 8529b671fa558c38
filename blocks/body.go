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
	"iter"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// BlockBody holds the extrinsics of a block in a single buffer
type BlockBody struct {
	block *Block
	data  []byte
	// Extrinsic i spans data[offsets[i]:offsets[i+1]]
	offsets []int
}

func newBlockBody(block *Block, extrinsics []hexutil.Bytes) *BlockBody {
	size := 0
	for _, ext := range extrinsics {
		size += len(ext)
	}
	body := &BlockBody{
		block:   block,
		data:    make([]byte, 0, size),
		offsets: make([]int, 1, len(extrinsics)+1),
	}
	for _, ext := range extrinsics {
		body.data = append(body.data, ext...)
		body.offsets = append(body.offsets, len(body.data))
	}
	return body
}

func (b *BlockBody) Block() *Block {
	return b.block
}

// Len returns the number of extrinsics
func (b *BlockBody) Len() int {
	return len(b.offsets) - 1
}

// Extrinsic returns the extrinsic at index
func (b *BlockBody) Extrinsic(index int) (*Extrinsic, bool) {
	if index < 0 || index >= b.Len() {
		return nil, false
	}
	start, end := b.offsets[index], b.offsets[index+1]
	return &Extrinsic{
		block: b.block,
		index: uint32(index),
		bytes: b.data[start:end:end],
	}, true
}

// Extrinsics returns a sequence over the extrinsics in on-chain order
func (b *BlockBody) Extrinsics() iter.Seq[*Extrinsic] {
	return func(yield func(*Extrinsic) bool) {
		for i := range b.Len() {
			ext, _ := b.Extrinsic(i)
			if !yield(ext) {
				return
			}
		}
	}
}
