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
	"encoding/binary"

	"github.com/holiman/uint256"
)

// AppendCompact appends the compact encoding of v to dst
func AppendCompact(dst []byte, v uint64) []byte {
	switch {
	case v < 1<<6:
		return append(dst, byte(v<<2))
	case v < 1<<14:
		return binary.LittleEndian.AppendUint16(dst, uint16(v<<2)|0x01)
	case v < 1<<30:
		return binary.LittleEndian.AppendUint32(dst, uint32(v<<2)|0x02)
	default:
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], v)
		size := 8
		for size > 4 && buf[size-1] == 0 {
			size--
		}
		dst = append(dst, byte((size-4)<<2)|0x03)
		return append(dst, buf[:size]...)
	}
}

// AppendCompactBig appends the compact encoding of a value of up to 256 bits
func AppendCompactBig(dst []byte, v *uint256.Int) []byte {
	if v.IsUint64() {
		return AppendCompact(dst, v.Uint64())
	}
	be := v.Bytes()
	dst = append(dst, byte((len(be)-4)<<2)|0x03)
	for i := len(be) - 1; i >= 0; i-- {
		dst = append(dst, be[i])
	}
	return dst
}

// AppendByteSlice appends a length-prefixed byte vector
func AppendByteSlice(dst []byte, data []byte) []byte {
	dst = AppendCompact(dst, uint64(len(data)))
	return append(dst, data...)
}

// AppendString appends a length-prefixed UTF-8 string
func AppendString(dst []byte, s string) []byte {
	dst = AppendCompact(dst, uint64(len(s)))
	return append(dst, s...)
}

func AppendU8(dst []byte, v uint8) []byte {
	return append(dst, v)
}

func AppendBool(dst []byte, v bool) []byte {
	if v {
		return append(dst, 1)
	}
	return append(dst, 0)
}

func AppendU16(dst []byte, v uint16) []byte {
	return binary.LittleEndian.AppendUint16(dst, v)
}

func AppendU32(dst []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(dst, v)
}

func AppendU64(dst []byte, v uint64) []byte {
	return binary.LittleEndian.AppendUint64(dst, v)
}

// AppendU128 appends v as a 16-byte little-endian integer. Higher bits are
// dropped
func AppendU128(dst []byte, v *uint256.Int) []byte {
	b32 := v.Bytes32()
	for i := 31; i >= 16; i-- {
		dst = append(dst, b32[i])
	}
	return dst
}

// EncodeByteSlices encodes a Vec<Vec<u8>>
func EncodeByteSlices(items [][]byte) []byte {
	ret := AppendCompact(nil, uint64(len(items)))
	for _, item := range items {
		ret = AppendByteSlice(ret, item)
	}
	return ret
}
