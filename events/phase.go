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

	"github.com/blinklabs-io/gosubstrate/scale"
)

// PhaseKind is the stage of block execution in which an event was emitted
type PhaseKind uint8

const (
	PhaseApplyExtrinsic PhaseKind = 0
	PhaseFinalization   PhaseKind = 1
	PhaseInitialization PhaseKind = 2
)

type Phase struct {
	Kind PhaseKind
	// Only meaningful for PhaseApplyExtrinsic
	ExtrinsicIndex uint32
}

// AppliesExtrinsic reports whether the event was emitted while applying the
// extrinsic at the given index
func (p Phase) AppliesExtrinsic(index uint32) bool {
	return p.Kind == PhaseApplyExtrinsic && p.ExtrinsicIndex == index
}

func (p Phase) String() string {
	switch p.Kind {
	case PhaseApplyExtrinsic:
		return fmt.Sprintf("ApplyExtrinsic(%d)", p.ExtrinsicIndex)
	case PhaseFinalization:
		return "Finalization"
	case PhaseInitialization:
		return "Initialization"
	default:
		return fmt.Sprintf("Phase(%d)", p.Kind)
	}
}

func (p *Phase) UnmarshalSCALE(d *scale.Decoder) error {
	start := d.Offset()
	kind, err := d.ReadU8()
	if err != nil {
		return err
	}
	switch PhaseKind(kind) {
	case PhaseApplyExtrinsic:
		idx, err := d.ReadU32()
		if err != nil {
			_ = d.Seek(start)
			return err
		}
		p.Kind = PhaseApplyExtrinsic
		p.ExtrinsicIndex = idx
	case PhaseFinalization, PhaseInitialization:
		p.Kind = PhaseKind(kind)
		p.ExtrinsicIndex = 0
	default:
		_ = d.Seek(start)
		return fmt.Errorf("%w: unknown phase %d", scale.ErrInvalidValue, kind)
	}
	return nil
}

// AppendSCALE appends the SCALE encoding of the phase to dst
func (p Phase) AppendSCALE(dst []byte) []byte {
	dst = append(dst, byte(p.Kind))
	if p.Kind == PhaseApplyExtrinsic {
		dst = scale.AppendU32(dst, p.ExtrinsicIndex)
	}
	return dst
}
