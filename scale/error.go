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

package scale

import (
	"errors"
	"fmt"
)

var (
	ErrShortRead    = errors.New("scale: not enough input")
	ErrInvalidValue = errors.New("scale: invalid value")
	ErrOutOfRange   = errors.New("scale: value out of range")
)

// ShortReadError indicates that the input ended before a value was complete
type ShortReadError struct {
	Offset    int
	Wanted    int
	Available int
}

func (e *ShortReadError) Error() string {
	return fmt.Sprintf(
		"scale: not enough input at offset %d: wanted %d bytes, %d available",
		e.Offset,
		e.Wanted,
		e.Available,
	)
}

func (*ShortReadError) Is(target error) bool {
	return target == ErrShortRead
}
