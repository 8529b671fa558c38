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

package storage

import (
	"errors"
	"fmt"
)

var (
	ErrKeyEncoding = errors.New("failed to encode storage key")
	ErrNoDefault   = errors.New("storage entry has no value and no default")
)

// KeyEncodingError indicates that an address cannot describe itself against
// the metadata. Err is set when the entry could not be resolved; otherwise the
// number of key parts did not match the entry's arity
type KeyEncodingError struct {
	Pallet   string
	Entry    string
	Expected int
	Actual   int
	Err      error
}

func (e *KeyEncodingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to encode storage key for %s.%s: %v", e.Pallet, e.Entry, e.Err)
	}
	return fmt.Sprintf(
		"failed to encode storage key for %s.%s: expected %d key parts, got %d",
		e.Pallet,
		e.Entry,
		e.Expected,
		e.Actual,
	)
}

func (e *KeyEncodingError) Unwrap() error { return e.Err }

func (*KeyEncodingError) Is(target error) bool {
	return target == ErrKeyEncoding
}
