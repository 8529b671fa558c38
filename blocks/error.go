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
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrInaccessible means the node could not serve the data right now. The
	// same request may succeed later
	ErrInaccessible = errors.New("block data is inaccessible")
	// ErrChainHead means the node answered the operation with a definitive error
	ErrChainHead = errors.New("chainHead operation failed")
	// ErrDisjoint means the follow subscription is no longer valid
	ErrDisjoint = errors.New("chainHead follow subscription is disjoint")
	// ErrResourceNonExistent means the node doesn't know the requested block
	ErrResourceNonExistent = errors.New("resource does not exist")
	// ErrOperationIncomplete means the operation subscription ended without an
	// event
	ErrOperationIncomplete = errors.New("chainHead operation did not complete")
	// ErrOther covers malformed responses, transport and codec failures
	ErrOther = errors.New("chainHead operation error")

	ErrBlockHashNotFound = errors.New("block hash not found")
)

// ChainHeadError is returned by ChainHeadBlock operations. Kind is one of the
// package sentinels
type ChainHeadError struct {
	Kind   error
	Reason string
	Err    error
}

func (e *ChainHeadError) Error() string {
	msg := e.Kind.Error()
	if e.Reason != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Reason)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s", msg, e.Err)
	}
	return msg
}

func (e *ChainHeadError) Unwrap() error { return e.Err }

func (e *ChainHeadError) Is(target error) bool {
	return target == e.Kind
}

func otherError(reason string, err error) error {
	return &ChainHeadError{Kind: ErrOther, Reason: reason, Err: err}
}

// IsRetryable reports whether err means the request may succeed if retried
func IsRetryable(err error) bool {
	return errors.Is(err, ErrInaccessible)
}

type BlockHashNotFoundError struct {
	Hash common.Hash
}

func (e *BlockHashNotFoundError) Error() string {
	return fmt.Sprintf("block hash not found: %s", e.Hash.Hex())
}

func (*BlockHashNotFoundError) Is(target error) bool {
	return target == ErrBlockHashNotFound
}
