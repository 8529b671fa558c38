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

package chain_test

import (
	"encoding/json"
	"testing"

	"github.com/blinklabs-io/gosubstrate/chain"
	"github.com/blinklabs-io/gosubstrate/hashing"
	"github.com/blinklabs-io/gosubstrate/internal/test"
	"github.com/blinklabs-io/gosubstrate/scale"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const headerJson = `{
	"parentHash": "0x1111111111111111111111111111111111111111111111111111111111111111",
	"number": "0x1b",
	"stateRoot": "0x2222222222222222222222222222222222222222222222222222222222222222",
	"extrinsicsRoot": "0x3333333333333333333333333333333333333333333333333333333333333333",
	"digest": {
		"logs": [
			"0x06424142451001020304",
			"0x054241424508aabb",
			"0x08"
		]
	}
}`

func TestHeaderUnmarshalJSON(t *testing.T) {
	var h chain.Header
	require.NoError(t, json.Unmarshal([]byte(headerJson), &h))
	assert.Equal(t, uint64(27), h.Number)
	assert.Equal(t, common.HexToHash("0x1111111111111111111111111111111111111111111111111111111111111111"), h.ParentHash)
	assert.Equal(t, common.HexToHash("0x3333333333333333333333333333333333333333333333333333333333333333"), h.ExtrinsicsRoot)
	require.Len(t, h.Digest.Logs, 3)
	assert.Equal(t, chain.DigestItemPreRuntime, h.Digest.Logs[0].Kind)
	assert.Equal(t, [4]byte{'B', 'A', 'B', 'E'}, h.Digest.Logs[0].Engine)
	assert.Equal(t, []byte{1, 2, 3, 4}, h.Digest.Logs[0].Data)
	assert.Equal(t, chain.DigestItemSeal, h.Digest.Logs[1].Kind)
	assert.Equal(t, []byte{0xaa, 0xbb}, h.Digest.Logs[1].Data)
	assert.Equal(t, chain.DigestItemRuntimeEnvironmentUpdated, h.Digest.Logs[2].Kind)
}

func TestHeaderJSONAndSCALEAgree(t *testing.T) {
	var h chain.Header
	require.NoError(t, json.Unmarshal([]byte(headerJson), &h))
	encoded := h.AppendSCALE(nil)
	decoded, err := chain.DecodeHeader(encoded)
	require.NoError(t, err)
	assert.Equal(t, &h, decoded)
	out, err := json.Marshal(&h)
	require.NoError(t, err)
	assert.JSONEq(t, headerJson, string(out))
}

func TestHeaderHash(t *testing.T) {
	h := &chain.Header{
		ParentHash: common.Hash{0x01},
		Number:     1,
	}
	expected := common.Hash(hashing.Blake2_256(h.AppendSCALE(nil)))
	assert.Equal(t, expected, h.Hash())
	other := *h
	other.Number = 2
	assert.NotEqual(t, h.Hash(), other.Hash())
}

func TestDecodeHeaderErrors(t *testing.T) {
	h := &chain.Header{Number: 5}
	encoded := h.AppendSCALE(nil)
	_, err := chain.DecodeHeader(encoded[:40])
	require.ErrorIs(t, err, scale.ErrShortRead)
	_, err = chain.DecodeHeader(append(encoded, 0x00))
	require.Error(t, err)
	// Unknown digest item kind
	bad := append(encoded[:len(encoded)-1], 0x04, 0x03)
	_, err = chain.DecodeHeader(bad)
	require.ErrorIs(t, err, scale.ErrInvalidValue)
}

func TestDigestItemOther(t *testing.T) {
	var item chain.DigestItem
	require.NoError(t, scale.Unmarshal(test.DecodeHexString("0x000cdeadbe"), &item))
	assert.Equal(t, chain.DigestItemOther, item.Kind)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe}, item.Data)
	assert.Equal(t, "Other", item.Kind.String())
	assert.Equal(t, "DigestItemKind(9)", chain.DigestItemKind(9).String())
}
