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

package hashing_test

import (
	"encoding/hex"
	"testing"

	"github.com/blinklabs-io/gosubstrate/hashing"
	"github.com/blinklabs-io/gosubstrate/internal/test"
	"github.com/stretchr/testify/assert"
)

func TestTwox128(t *testing.T) {
	testDefs := []struct {
		input    string
		expected string
	}{
		{input: "System", expected: "26aa394eea5630e07c48ae0c9558cef7"},
		{input: "Events", expected: "80d41e5e16056765bc8461851072c9d7"},
		{input: "Balances", expected: "c2261276cc9d1f8598ea4b6a74b15c2f"},
		{input: "TotalIssuance", expected: "57c875e4cff74148e4628f264b974c80"},
		{input: "Account", expected: "b99d880ec681799c0cf30e8886371da9"},
	}
	for _, testDef := range testDefs {
		sum := hashing.Twox128([]byte(testDef.input))
		assert.Equal(t, testDef.expected, hex.EncodeToString(sum[:]), testDef.input)
	}
}

func TestTwoxPrefixes(t *testing.T) {
	// Each twox digest is a prefix of the longer ones since the seeds are shared
	data := []byte("Timestamp")
	t64 := hashing.Twox64(data)
	t128 := hashing.Twox128(data)
	t256 := hashing.Twox256(data)
	assert.Equal(t, t64[:], t128[:8])
	assert.Equal(t, t128[:], t256[:16])
}

func TestBlake2_128Concat(t *testing.T) {
	alice := test.DecodeHexString(
		"d43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d",
	)
	hashed := hashing.HasherBlake2_128Concat.Hash(alice)
	assert.Len(t, hashed, 48)
	assert.Equal(
		t,
		"de1e86a9a8c739864cf3cc5ec2bea59f",
		hex.EncodeToString(hashed[:16]),
	)
	assert.Equal(t, alice, hashed[16:])
}

func TestHasherSizes(t *testing.T) {
	key := []byte{1, 2, 3, 4}
	testDefs := []struct {
		hasher   hashing.Hasher
		expected int
	}{
		{hasher: hashing.HasherBlake2_128, expected: 16},
		{hasher: hashing.HasherBlake2_256, expected: 32},
		{hasher: hashing.HasherBlake2_128Concat, expected: 20},
		{hasher: hashing.HasherTwox128, expected: 16},
		{hasher: hashing.HasherTwox256, expected: 32},
		{hasher: hashing.HasherTwox64Concat, expected: 12},
		{hasher: hashing.HasherIdentity, expected: 4},
	}
	for _, testDef := range testDefs {
		out := testDef.hasher.Hash(key)
		assert.Len(t, out, testDef.expected, testDef.hasher.String())
		if testDef.expected > testDef.hasher.DigestSize() {
			// Concat hashers and Identity keep the plain key at the end
			assert.Equal(t, key, out[testDef.hasher.DigestSize():], testDef.hasher.String())
		}
	}
}

func TestHasherString(t *testing.T) {
	assert.Equal(t, "Twox64Concat", hashing.HasherTwox64Concat.String())
	assert.Equal(t, "Hasher(42)", hashing.Hasher(42).String())
	assert.False(t, hashing.Hasher(42).Valid())
}
