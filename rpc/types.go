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
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// ChainHeadEventKind is the kind of the single event a chainHead operation
// subscription yields
type ChainHeadEventKind string

const (
	ChainHeadEventDone         ChainHeadEventKind = "done"
	ChainHeadEventInaccessible ChainHeadEventKind = "inaccessible"
	ChainHeadEventError        ChainHeadEventKind = "error"
	ChainHeadEventDisjoint     ChainHeadEventKind = "disjoint"
)

// ChainHeadEvent is the outcome of a chainHead body, storage or call
// operation. Result is only set for Done and Error only for Error
type ChainHeadEvent[T any] struct {
	Kind   ChainHeadEventKind
	Result T
	Error  string
}

type chainHeadEventJson struct {
	Event  ChainHeadEventKind `json:"event"`
	Result json.RawMessage    `json:"result,omitempty"`
	Error  string             `json:"error,omitempty"`
}

func (e *ChainHeadEvent[T]) UnmarshalJSON(data []byte) error {
	var tmp chainHeadEventJson
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	if tmp.Event == "" {
		return fmt.Errorf("chainHead event has no kind: %s", string(data))
	}
	e.Kind = tmp.Event
	e.Error = tmp.Error
	if tmp.Event == ChainHeadEventDone && len(tmp.Result) > 0 {
		if err := json.Unmarshal(tmp.Result, &e.Result); err != nil {
			return fmt.Errorf("chainHead done event: %w", err)
		}
	}
	return nil
}

func (e ChainHeadEvent[T]) MarshalJSON() ([]byte, error) {
	tmp := chainHeadEventJson{
		Event: e.Kind,
		Error: e.Error,
	}
	if e.Kind == ChainHeadEventDone {
		result, err := json.Marshal(e.Result)
		if err != nil {
			return nil, err
		}
		tmp.Result = result
	}
	return json.Marshal(&tmp)
}

// FollowEventKind is the kind of a chainHead follow notification
type FollowEventKind string

const (
	FollowEventInitialized      FollowEventKind = "initialized"
	FollowEventNewBlock         FollowEventKind = "newBlock"
	FollowEventBestBlockChanged FollowEventKind = "bestBlockChanged"
	FollowEventFinalized        FollowEventKind = "finalized"
	FollowEventStop             FollowEventKind = "stop"
)

// FollowEvent is a chainHead follow notification. Which fields are set
// depends on Event
type FollowEvent struct {
	Event FollowEventKind `json:"event"`
	// initialized
	FinalizedBlockHash common.Hash     `json:"finalizedBlockHash,omitzero"`
	FinalizedRuntime   json.RawMessage `json:"finalizedBlockRuntime,omitempty"`
	// newBlock
	BlockHash       common.Hash     `json:"blockHash,omitzero"`
	ParentBlockHash common.Hash     `json:"parentBlockHash,omitzero"`
	NewRuntime      json.RawMessage `json:"newRuntime,omitempty"`
	// bestBlockChanged
	BestBlockHash common.Hash `json:"bestBlockHash,omitzero"`
	// finalized
	FinalizedBlockHashes []common.Hash `json:"finalizedBlockHashes,omitempty"`
	PrunedBlockHashes    []common.Hash `json:"prunedBlockHashes,omitempty"`
}
