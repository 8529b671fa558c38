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

	"github.com/blinklabs-io/gosubstrate/events"
	"github.com/ethereum/go-ethereum/common"
)

// ExtrinsicEvents is the view of a block's events that belong to one
// extrinsic
type ExtrinsicEvents struct {
	extrinsicHash common.Hash
	index         uint32
	blockHash     common.Hash
	events        *events.Events
}

func (e *ExtrinsicEvents) BlockHash() common.Hash {
	return e.blockHash
}

func (e *ExtrinsicEvents) ExtrinsicIndex() uint32 {
	return e.index
}

func (e *ExtrinsicEvents) ExtrinsicHash() common.Hash {
	return e.extrinsicHash
}

// AllEventsInBlock returns every event of the block
func (e *ExtrinsicEvents) AllEventsInBlock() *events.Events {
	return e.events
}

// All returns a sequence over the events emitted while applying the
// extrinsic. Decode errors are always yielded, since the record that failed
// may have belonged to it
func (e *ExtrinsicEvents) All() iter.Seq2[*events.EventDetails, error] {
	return func(yield func(*events.EventDetails, error) bool) {
		for ev, err := range e.events.All() {
			if err != nil {
				if !yield(nil, err) {
					return
				}
				continue
			}
			if !ev.Phase().AppliesExtrinsic(e.index) {
				continue
			}
			if !yield(ev, nil) {
				return
			}
		}
	}
}

// FindExtrinsicEvent yields every event of type E emitted by the extrinsic
func FindExtrinsicEvent[E any, P interface {
	*E
	events.StaticEvent
}](e *ExtrinsicEvents) iter.Seq2[*E, error] {
	return events.Find[E, P](e)
}

// FindFirstExtrinsicEvent returns the first event of type E emitted by the
// extrinsic, or nil if there is none
func FindFirstExtrinsicEvent[E any, P interface {
	*E
	events.StaticEvent
}](e *ExtrinsicEvents) (*E, error) {
	return events.FindFirst[E, P](e)
}

func HasExtrinsicEvent[E any, P interface {
	*E
	events.StaticEvent
}](e *ExtrinsicEvents) (bool, error) {
	return events.Has[E, P](e)
}
