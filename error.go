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

package substrate

import (
	"errors"
	"fmt"
)

var (
	ErrNoMetadata      = errors.New("no metadata provided")
	ErrNoEndpoint      = errors.New("no endpoint provided")
	ErrNetworkMismatch = errors.New("address belongs to a different network")
)

// NetworkMismatchError is returned when an address carries the prefix of a
// different network
type NetworkMismatchError struct {
	Network Network
	Prefix  uint16
}

func (e *NetworkMismatchError) Error() string {
	return fmt.Sprintf(
		"address prefix %d does not match network %s (prefix %d)",
		e.Prefix,
		e.Network.Name,
		e.Network.SS58Prefix,
	)
}

func (*NetworkMismatchError) Is(target error) bool {
	return target == ErrNetworkMismatch
}
