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

package events

import (
	"fmt"
	"iter"

	"github.com/blinklabs-io/gosubstrate/scale"
)

// StaticEvent is implemented by pointers to typed events. UnmarshalSCALE
// receives the event fields only
type StaticEvent interface {
	scale.Unmarshaler
	PalletName() string
	EventName() string
}

// Source is anything that can iterate event records, such as *Events or the
// per-extrinsic views built on top of it
type Source interface {
	All() iter.Seq2[*EventDetails, error]
}

// As decodes the record as the typed event E. It returns nil without an error
// when the record is a different event
func As[E any, P interface {
	*E
	StaticEvent
}](ev *EventDetails) (*E, error) {
	ret := new(E)
	p := P(ret)
	if ev.PalletName() != p.PalletName() || ev.VariantName() != p.EventName() {
		return nil, nil
	}
	if err := scale.Unmarshal(ev.FieldBytes(), p); err != nil {
		return nil, fmt.Errorf("decode event %s.%s: %w", ev.PalletName(), ev.VariantName(), err)
	}
	return ret, nil
}

// Find yields every event of type E. Errors from the source or from decoding
// a matching record are yielded as they occur
func Find[E any, P interface {
	*E
	StaticEvent
}](src Source) iter.Seq2[*E, error] {
	return func(yield func(*E, error) bool) {
		for ev, err := range src.All() {
			if err != nil {
				if !yield(nil, err) {
					return
				}
				continue
			}
			match, err := As[E, P](ev)
			if err != nil {
				if !yield(nil, err) {
					return
				}
				continue
			}
			if match == nil {
				continue
			}
			if !yield(match, nil) {
				return
			}
		}
	}
}

// FindFirst returns the first event of type E, or nil if there is none
func FindFirst[E any, P interface {
	*E
	StaticEvent
}](src Source) (*E, error) {
	for ev, err := range Find[E, P](src) {
		if err != nil {
			return nil, err
		}
		return ev, nil
	}
	return nil, nil
}

// Has reports whether an event of type E is present
func Has[E any, P interface {
	*E
	StaticEvent
}](src Source) (bool, error) {
	ev, err := FindFirst[E, P](src)
	if err != nil {
		return false, err
	}
	return ev != nil, nil
}
