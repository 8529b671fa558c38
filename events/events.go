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

// Package events provides a view over the raw System.Events value of a block
package events

import (
	"fmt"
	"iter"
	"math"

	"github.com/blinklabs-io/gosubstrate/metadata"
	"github.com/blinklabs-io/gosubstrate/scale"
	"github.com/ethereum/go-ethereum/common"
)

// Events is an immutable, lazily decoded list of event records. It is safe for
// concurrent use
type Events struct {
	metadata *metadata.Metadata
	data     []byte
	count    uint32
	// Offset of the first record
	start int
}

// NewEvents wraps the raw bytes of a System.Events value. Only the record
// count is decoded up front
func NewEvents(m *metadata.Metadata, data []byte) (*Events, error) {
	d := scale.NewDecoder(data)
	count, err := d.ReadCompact()
	if err != nil {
		return nil, fmt.Errorf("decode event count: %w", err)
	}
	if count > math.MaxUint32 {
		return nil, fmt.Errorf("decode event count: %d is out of range", count)
	}
	return &Events{
		metadata: m,
		data:     data,
		count:    uint32(count),
		start:    d.Offset(),
	}, nil
}

// Empty returns an event list with no records
func Empty(m *metadata.Metadata) *Events {
	return &Events{
		metadata: m,
		data:     []byte{0},
		start:    1,
	}
}

// Len returns the number of records announced by the encoding
func (e *Events) Len() int {
	return int(e.count)
}

// Bytes returns the raw encoding
func (e *Events) Bytes() []byte {
	return e.data
}

func (e *Events) Metadata() *metadata.Metadata {
	return e.metadata
}

// All returns a sequence over every record in order. A record that fails to
// decode is yielded as an error and ends the sequence
func (e *Events) All() iter.Seq2[*EventDetails, error] {
	return func(yield func(*EventDetails, error) bool) {
		d := scale.NewDecoder(e.data)
		if err := d.Seek(e.start); err != nil {
			yield(nil, err)
			return
		}
		for idx := range e.count {
			ev, err := decodeEventDetails(d, e.metadata, idx)
			if err != nil {
				yield(nil, &EventDecodeError{Index: idx, Err: err})
				return
			}
			if !yield(ev, nil) {
				return
			}
		}
	}
}

// EventDetails is a single decoded event record
type EventDetails struct {
	index    uint32
	phase    Phase
	pallet   *metadata.Pallet
	variant  *metadata.Variant
	metadata *metadata.Metadata
	// Record bytes and the span of the event fields within them
	raw        []byte
	fieldStart int
	fieldEnd   int
	topics     []common.Hash
}

func decodeEventDetails(d *scale.Decoder, m *metadata.Metadata, index uint32) (*EventDetails, error) {
	start := d.Offset()
	ev := &EventDetails{
		index:    index,
		metadata: m,
	}
	if err := ev.phase.UnmarshalSCALE(d); err != nil {
		return nil, err
	}
	palletIdx, err := d.ReadU8()
	if err != nil {
		return nil, err
	}
	ev.pallet = m.PalletByIndex(palletIdx)
	if ev.pallet == nil {
		return nil, fmt.Errorf("%w: no pallet with index %d", metadata.ErrPalletNotFound, palletIdx)
	}
	if ev.pallet.EventType == nil {
		return nil, fmt.Errorf("pallet %q has no events", ev.pallet.Name)
	}
	eventType := m.Type(*ev.pallet.EventType)
	variantIdx, err := d.ReadU8()
	if err != nil {
		return nil, err
	}
	ev.variant = eventType.VariantByIndex(variantIdx)
	if ev.variant == nil {
		return nil, fmt.Errorf("pallet %q has no event with index %d", ev.pallet.Name, variantIdx)
	}
	fieldStart := d.Offset()
	for _, field := range ev.variant.Fields {
		if err := metadata.SkipValue(d, field.Type, m); err != nil {
			return nil, fmt.Errorf("event %s.%s: %w", ev.pallet.Name, ev.variant.Name, err)
		}
	}
	fieldEnd := d.Offset()
	numTopics, err := d.ReadLength(common.HashLength)
	if err != nil {
		return nil, err
	}
	ev.topics = make([]common.Hash, numTopics)
	for i := range ev.topics {
		buf, err := d.ReadBytes(common.HashLength)
		if err != nil {
			return nil, err
		}
		copy(ev.topics[i][:], buf)
	}
	ev.raw = d.Since(start)
	ev.fieldStart = fieldStart - start
	ev.fieldEnd = fieldEnd - start
	return ev, nil
}

// Index returns the position of the record in the block's event list
func (e *EventDetails) Index() uint32 {
	return e.index
}

func (e *EventDetails) Phase() Phase {
	return e.phase
}

func (e *EventDetails) PalletName() string {
	return e.pallet.Name
}

func (e *EventDetails) PalletIndex() uint8 {
	return e.pallet.Index
}

func (e *EventDetails) VariantName() string {
	return e.variant.Name
}

func (e *EventDetails) VariantIndex() uint8 {
	return e.variant.Index
}

// FieldBytes returns the SCALE encoded event fields
func (e *EventDetails) FieldBytes() []byte {
	return e.raw[e.fieldStart:e.fieldEnd]
}

// FieldValues decodes the event fields dynamically
func (e *EventDetails) FieldValues() (metadata.Composite, error) {
	d := scale.NewDecoder(e.FieldBytes())
	ret := make(metadata.Composite, 0, len(e.variant.Fields))
	for _, field := range e.variant.Fields {
		val, err := metadata.DecodeValue(d, field.Type, e.metadata)
		if err != nil {
			return nil, err
		}
		ret = append(ret, metadata.NamedValue{Name: field.Name, Value: val})
	}
	return ret, nil
}

func (e *EventDetails) Topics() []common.Hash {
	return e.topics
}

// Bytes returns the whole encoded record, including phase and topics
func (e *EventDetails) Bytes() []byte {
	return e.raw
}
