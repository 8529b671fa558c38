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

package scale_test

import (
	"errors"
	"testing"

	"github.com/blinklabs-io/gosubstrate/internal/test"
	"github.com/blinklabs-io/gosubstrate/scale"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompact(t *testing.T) {
	testDefs := []struct {
		value   uint64
		encoded string
	}{
		{value: 0, encoded: "00"},
		{value: 1, encoded: "04"},
		{value: 63, encoded: "fc"},
		{value: 64, encoded: "0101"},
		{value: 16383, encoded: "fdff"},
		{value: 16384, encoded: "02000100"},
		{value: 1073741823, encoded: "feffffff"},
		{value: 1073741824, encoded: "0300000040"},
		{value: 1 << 32, encoded: "070000000001"},
	}
	for _, testDef := range testDefs {
		encoded := scale.AppendCompact(nil, testDef.value)
		assert.Equal(t, test.DecodeHexString(testDef.encoded), encoded, "encoding %d", testDef.value)
		d := scale.NewDecoder(encoded)
		decoded, err := d.ReadCompact()
		require.NoError(t, err)
		assert.Equal(t, testDef.value, decoded)
		assert.Equal(t, 0, d.Remaining())
	}
}

func TestCompactBig(t *testing.T) {
	v, err := uint256.FromDecimal("340282366920938463463374607431768211455")
	require.NoError(t, err)
	encoded := scale.AppendCompactBig(nil, v)
	assert.Len(t, encoded, 17)
	decoded, err := scale.NewDecoder(encoded).ReadCompactBig()
	require.NoError(t, err)
	assert.True(t, v.Eq(decoded))
	_, err = scale.NewDecoder(encoded).ReadCompact()
	assert.ErrorIs(t, err, scale.ErrOutOfRange)
}

func TestCompactNonCanonical(t *testing.T) {
	// 1 encoded in two-byte mode
	_, err := scale.NewDecoder([]byte{0x05, 0x00}).ReadCompact()
	assert.ErrorIs(t, err, scale.ErrInvalidValue)
}

func TestFailedReadKeepsPosition(t *testing.T) {
	d := scale.NewDecoder([]byte{0x01, 0x02})
	_, err := d.ReadU32()
	require.Error(t, err)
	assert.True(t, errors.Is(err, scale.ErrShortRead))
	var shortErr *scale.ShortReadError
	require.ErrorAs(t, err, &shortErr)
	assert.Equal(t, 4, shortErr.Wanted)
	assert.Equal(t, 0, d.Offset())
	v, err := d.ReadU16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0201), v)
}

func TestByteSlices(t *testing.T) {
	items := [][]byte{{0xde, 0xad}, {}, {0xbe, 0xef, 0x01}}
	encoded := scale.EncodeByteSlices(items)
	assert.Equal(t, test.DecodeHexString("0c08dead000cbeef01"), encoded)
	decoded, err := scale.DecodeByteSlices(encoded)
	require.NoError(t, err)
	require.Len(t, decoded, 3)
	assert.Equal(t, items[0], decoded[0])
	assert.Empty(t, decoded[1])
	assert.Equal(t, items[2], decoded[2])
}

func TestByteSlicesEmpty(t *testing.T) {
	decoded, err := scale.DecodeByteSlices([]byte{0x00})
	require.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestByteSlicesTruncated(t *testing.T) {
	// Claims two items but only carries one
	_, err := scale.DecodeByteSlices(test.DecodeHexString("0808dead"))
	assert.ErrorIs(t, err, scale.ErrShortRead)
}

func TestPrimitives(t *testing.T) {
	var buf []byte
	buf = scale.AppendBool(buf, true)
	buf = scale.AppendU16(buf, 0x1234)
	buf = scale.AppendU32(buf, 0xdeadbeef)
	buf = scale.AppendU64(buf, 42)
	buf = scale.AppendU128(buf, uint256.NewInt(1000))
	buf = scale.AppendString(buf, "hello")
	d := scale.NewDecoder(buf)
	b, err := d.ReadBool()
	require.NoError(t, err)
	assert.True(t, b)
	u16, err := d.ReadU16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), u16)
	u32, err := d.ReadU32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0xdeadbeef), u32)
	u64, err := d.ReadU64()
	require.NoError(t, err)
	assert.Equal(t, uint64(42), u64)
	u128, err := d.ReadU128()
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), u128.Uint64())
	s, err := d.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "hello", s)
	assert.Equal(t, 0, d.Remaining())
}

func TestInvalidBool(t *testing.T) {
	_, err := scale.NewDecoder([]byte{0x02}).ReadBool()
	assert.ErrorIs(t, err, scale.ErrInvalidValue)
}
