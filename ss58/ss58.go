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

// Package ss58 encodes and decodes SS58 account addresses
package ss58

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"
)

// MaxPrefix is the largest network prefix an address can carry
const MaxPrefix = 16383

var checksumPreimage = []byte("SS58PRE")

var (
	ErrInvalidAddress = errors.New("invalid SS58 address")
	ErrInvalidPrefix  = errors.New("invalid SS58 prefix")
	ErrChecksum       = errors.New("SS58 checksum mismatch")
)

// Encode returns the address of payload, usually a 32-byte public key, on the
// network with the given prefix
func Encode(payload []byte, prefix uint16) (string, error) {
	if prefix > MaxPrefix {
		return "", fmt.Errorf("%w: %d", ErrInvalidPrefix, prefix)
	}
	checksumLen, ok := checksumLength(len(payload))
	if !ok {
		return "", fmt.Errorf("%w: unsupported payload length %d", ErrInvalidAddress, len(payload))
	}
	data := appendPrefix(make([]byte, 0, 2+len(payload)+checksumLen), prefix)
	data = append(data, payload...)
	sum := checksum(data)
	data = append(data, sum[:checksumLen]...)
	return base58.Encode(data), nil
}

// EncodeAccountID returns the address of a 32-byte account ID
func EncodeAccountID(id [32]byte, prefix uint16) string {
	// Account IDs are always a valid payload
	ret, _ := Encode(id[:], prefix)
	return ret
}

// Decode returns the payload and network prefix of an address
func Decode(address string) ([]byte, uint16, error) {
	data, err := base58.Decode(address)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	if len(data) < 2 {
		return nil, 0, fmt.Errorf("%w: too short", ErrInvalidAddress)
	}
	var prefix uint16
	var prefixLen int
	switch {
	case data[0] < 64:
		prefix = uint16(data[0])
		prefixLen = 1
	case data[0] < 128:
		lower := (data[0] << 2) | (data[1] >> 6)
		upper := data[1] & 0x3f
		prefix = uint16(lower) | uint16(upper)<<8
		prefixLen = 2
	default:
		return nil, 0, fmt.Errorf("%w: first byte 0x%02x", ErrInvalidPrefix, data[0])
	}
	payloadLen, checksumLen, ok := splitBody(len(data) - prefixLen)
	if !ok {
		return nil, 0, fmt.Errorf("%w: unsupported length %d", ErrInvalidAddress, len(data))
	}
	body := data[:prefixLen+payloadLen]
	sum := checksum(body)
	if !bytes.Equal(sum[:checksumLen], data[prefixLen+payloadLen:]) {
		return nil, 0, ErrChecksum
	}
	return body[prefixLen:], prefix, nil
}

// DecodeAccountID decodes an address carrying a 32-byte account ID
func DecodeAccountID(address string) ([32]byte, uint16, error) {
	var ret [32]byte
	payload, prefix, err := Decode(address)
	if err != nil {
		return ret, 0, err
	}
	if len(payload) != len(ret) {
		return ret, 0, fmt.Errorf("%w: payload is %d bytes, not an account ID", ErrInvalidAddress, len(payload))
	}
	copy(ret[:], payload)
	return ret, prefix, nil
}

func appendPrefix(dst []byte, prefix uint16) []byte {
	if prefix < 64 {
		return append(dst, byte(prefix))
	}
	first := byte((prefix&0xfc)>>2) | 0x40
	second := byte(prefix>>8) | byte((prefix&0x03)<<6)
	return append(dst, first, second)
}

func checksum(data []byte) [64]byte {
	h, _ := blake2b.New512(nil)
	_, _ = h.Write(checksumPreimage)
	_, _ = h.Write(data)
	var ret [64]byte
	copy(ret[:], h.Sum(nil))
	return ret
}

func checksumLength(payloadLen int) (int, bool) {
	switch payloadLen {
	case 1, 2, 4, 8:
		return 1, true
	case 32, 33:
		return 2, true
	default:
		return 0, false
	}
}

// splitBody splits the length after the prefix into payload and checksum
// lengths
func splitBody(n int) (int, int, bool) {
	switch n {
	case 2, 3, 5, 9:
		return n - 1, 1, true
	case 34, 35:
		return n - 2, 2, true
	default:
		return 0, 0, false
	}
}
