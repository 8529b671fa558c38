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
	"errors"
	"fmt"
)

var ErrEventDecode = errors.New("failed to decode event")

// EventDecodeError is returned while iterating an event list when a record
// cannot be decoded. Iteration stops after it, since the position of the next
// record is unknown
type EventDecodeError struct {
	Index uint32
	Err   error
}

func (e *EventDecodeError) Error() string {
	return fmt.Sprintf("failed to decode event %d: %v", e.Index, e.Err)
}

func (e *EventDecodeError) Unwrap() error { return e.Err }

func (*EventDecodeError) Is(target error) bool {
	return target == ErrEventDecode
}
