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

package hashing

import "fmt"

// Hasher identifies how a storage map key is hashed before being appended to
// the storage key. The numeric values match the metadata encoding
type Hasher uint8

const (
	HasherBlake2_128       Hasher = 0
	HasherBlake2_256       Hasher = 1
	HasherBlake2_128Concat Hasher = 2
	HasherTwox128          Hasher = 3
	HasherTwox256          Hasher = 4
	HasherTwox64Concat     Hasher = 5
	HasherIdentity         Hasher = 6
)

var hasherNames = map[Hasher]string{
	HasherBlake2_128:       "Blake2_128",
	HasherBlake2_256:       "Blake2_256",
	HasherBlake2_128Concat: "Blake2_128Concat",
	HasherTwox128:          "Twox128",
	HasherTwox256:          "Twox256",
	HasherTwox64Concat:     "Twox64Concat",
	HasherIdentity:         "Identity",
}

func (h Hasher) String() string {
	if name, ok := hasherNames[h]; ok {
		return name
	}
	return fmt.Sprintf("Hasher(%d)", uint8(h))
}

// Valid reports whether h is a known hasher
func (h Hasher) Valid() bool {
	_, ok := hasherNames[h]
	return ok
}

// Append hashes the encoded key with h and appends the result to dst. The
// concat hashers append the plain key after its digest so that the key can be
// recovered from the storage key
func (h Hasher) Append(dst []byte, key []byte) []byte {
	switch h {
	case HasherBlake2_128:
		sum := Blake2_128(key)
		return append(dst, sum[:]...)
	case HasherBlake2_256:
		sum := Blake2_256(key)
		return append(dst, sum[:]...)
	case HasherBlake2_128Concat:
		sum := Blake2_128(key)
		dst = append(dst, sum[:]...)
		return append(dst, key...)
	case HasherTwox128:
		sum := Twox128(key)
		return append(dst, sum[:]...)
	case HasherTwox256:
		sum := Twox256(key)
		return append(dst, sum[:]...)
	case HasherTwox64Concat:
		sum := Twox64(key)
		dst = append(dst, sum[:]...)
		return append(dst, key...)
	default:
		return append(dst, key...)
	}
}

// Hash returns the hashed form of key
func (h Hasher) Hash(key []byte) []byte {
	return h.Append(nil, key)
}

// DigestSize returns the number of digest bytes h places before any
// concatenated key
func (h Hasher) DigestSize() int {
	switch h {
	case HasherBlake2_128, HasherBlake2_128Concat, HasherTwox128:
		return 16
	case HasherBlake2_256, HasherTwox256:
		return 32
	case HasherTwox64Concat:
		return 8
	default:
		return 0
	}
}
