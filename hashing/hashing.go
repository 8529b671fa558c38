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

// Package hashing implements the hash functions used to build storage keys
// and identify blocks and extrinsics.
//
// The twox family is xxHash64 run with consecutive seeds, each 8-byte digest
// written little-endian. The blake2 family is blake2b truncated to the
// requested size.
package hashing

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/crypto/blake2b"
)

// Twox64 returns the 8-byte twox digest of data
func Twox64(data []byte) [8]byte {
	var ret [8]byte
	twox(data, ret[:])
	return ret
}

// Twox128 returns the 16-byte twox digest of data. This is used for the
// pallet and entry segments of every storage key
func Twox128(data []byte) [16]byte {
	var ret [16]byte
	twox(data, ret[:])
	return ret
}

// Twox256 returns the 32-byte twox digest of data
func Twox256(data []byte) [32]byte {
	var ret [32]byte
	twox(data, ret[:])
	return ret
}

func twox(data []byte, out []byte) {
	for seed := range uint64(len(out) / 8) {
		d := xxhash.NewWithSeed(seed)
		// Digest.Write never returns an error
		_, _ = d.Write(data)
		binary.LittleEndian.PutUint64(out[seed*8:], d.Sum64())
	}
}

// Blake2_128 returns the 16-byte blake2b digest of data
func Blake2_128(data []byte) [16]byte {
	var ret [16]byte
	// Only fails for invalid sizes or oversized keys
	h, _ := blake2b.New(16, nil)
	_, _ = h.Write(data)
	copy(ret[:], h.Sum(nil))
	return ret
}

// Blake2_256 returns the 32-byte blake2b digest of data
func Blake2_256(data []byte) [32]byte {
	return blake2b.Sum256(data)
}

// Blake2_512 returns the 64-byte blake2b digest of data
func Blake2_512(data []byte) [64]byte {
	return blake2b.Sum512(data)
}
