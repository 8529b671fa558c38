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

package chain

import (
	"fmt"

	"github.com/blinklabs-io/gosubstrate/scale"
)

type DigestItemKind uint8

const (
	DigestItemOther                     DigestItemKind = 0
	DigestItemConsensus                 DigestItemKind = 4
	DigestItemSeal                      DigestItemKind = 5
	DigestItemPreRuntime                DigestItemKind = 6
	DigestItemRuntimeEnvironmentUpdated DigestItemKind = 8
)

func (k DigestItemKind) String() string {
	switch k {
	case DigestItemOther:
		return "Other"
	case DigestItemConsensus:
		return "Consensus"
	case DigestItemSeal:
		return "Seal"
	case DigestItemPreRuntime:
		return "PreRuntime"
	case DigestItemRuntimeEnvironmentUpdated:
		return "RuntimeEnvironmentUpdated"
	default:
		return fmt.Sprintf("DigestItemKind(%d)", uint8(k))
	}
}

// DigestItem is a single header digest log. Engine is only set for the
// Consensus, Seal and PreRuntime kinds
type DigestItem struct {
	Kind   DigestItemKind
	Engine [4]byte
	Data   []byte
}

func (i *DigestItem) hasEngine() bool {
	switch i.Kind {
	case DigestItemConsensus, DigestItemSeal, DigestItemPreRuntime:
		return true
	}
	return false
}

func (i *DigestItem) UnmarshalSCALE(d *scale.Decoder) error {
	start := d.Offset()
	kind, err := d.ReadU8()
	if err != nil {
		return err
	}
	i.Kind = DigestItemKind(kind)
	switch i.Kind {
	case DigestItemRuntimeEnvironmentUpdated:
		i.Data = nil
		return nil
	case DigestItemOther, DigestItemConsensus, DigestItemSeal, DigestItemPreRuntime:
	default:
		_ = d.Seek(start)
		return fmt.Errorf("%w: unknown digest item kind %d", scale.ErrInvalidValue, kind)
	}
	if i.hasEngine() {
		engine, err := d.ReadBytes(4)
		if err != nil {
			_ = d.Seek(start)
			return err
		}
		copy(i.Engine[:], engine)
	}
	data, err := d.ReadByteSlice()
	if err != nil {
		_ = d.Seek(start)
		return err
	}
	i.Data = append([]byte(nil), data...)
	return nil
}

func (i *DigestItem) AppendSCALE(dst []byte) []byte {
	dst = append(dst, byte(i.Kind))
	if i.Kind == DigestItemRuntimeEnvironmentUpdated {
		return dst
	}
	if i.hasEngine() {
		dst = append(dst, i.Engine[:]...)
	}
	return scale.AppendByteSlice(dst, i.Data)
}

type Digest struct {
	Logs []DigestItem
}

func (g *Digest) UnmarshalSCALE(d *scale.Decoder) error {
	start := d.Offset()
	// Every item is at least one byte
	n, err := d.ReadLength(1)
	if err != nil {
		return err
	}
	g.Logs = make([]DigestItem, n)
	for idx := range g.Logs {
		if err := g.Logs[idx].UnmarshalSCALE(d); err != nil {
			_ = d.Seek(start)
			return fmt.Errorf("digest log %d: %w", idx, err)
		}
	}
	return nil
}

func (g *Digest) AppendSCALE(dst []byte) []byte {
	dst = scale.AppendCompact(dst, uint64(len(g.Logs)))
	for idx := range g.Logs {
		dst = g.Logs[idx].AppendSCALE(dst)
	}
	return dst
}
