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
	"fmt"
	"math"

	"github.com/holiman/uint256"
)

// Unmarshaler is implemented by types that know how to decode themselves from
// a SCALE stream
type Unmarshaler interface {
	UnmarshalSCALE(d *Decoder) error
}

// Decoder is a cursor over SCALE encoded bytes. Every read advances the
// cursor; a failed read leaves it where it was
type Decoder struct {
	data []byte
	pos  int
}

// NewDecoder returns a Decoder positioned at the start of data
func NewDecoder(data []byte) *Decoder {
	return &Decoder{data: data}
}

// Offset returns the number of bytes consumed so far
func (d *Decoder) Offset() int {
	return d.pos
}

// Remaining returns the number of unread bytes
func (d *Decoder) Remaining() int {
	return len(d.data) - d.pos
}

// Rest returns the unread bytes without consuming them
func (d *Decoder) Rest() []byte {
	return d.data[d.pos:]
}

// Since returns the bytes consumed between offset and the current position
func (d *Decoder) Since(offset int) []byte {
	return d.data[offset:d.pos]
}

// Seek moves the cursor to an absolute offset
func (d *Decoder) Seek(offset int) error {
	if offset < 0 || offset > len(d.data) {
		return fmt.Errorf("%w: seek to %d of %d", ErrOutOfRange, offset, len(d.data))
	}
	d.pos = offset
	return nil
}

// ReadBytes returns the next n bytes. The returned slice aliases the
// underlying data
func (d *Decoder) ReadBytes(n int) ([]byte, error) {
	if n < 0 || n > d.Remaining() {
		return nil, &ShortReadError{Offset: d.pos, Wanted: n, Available: d.Remaining()}
	}
	ret := d.data[d.pos : d.pos+n]
	d.pos += n
	return ret, nil
}

// Skip advances the cursor by n bytes
func (d *Decoder) Skip(n int) error {
	_, err := d.ReadBytes(n)
	return err
}

func (d *Decoder) ReadU8() (uint8, error) {
	buf, err := d.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (d *Decoder) ReadBool() (bool, error) {
	start := d.pos
	b, err := d.ReadU8()
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		d.pos = start
		return false, fmt.Errorf("%w: invalid bool byte 0x%02x", ErrInvalidValue, b)
	}
}

func (d *Decoder) ReadU16() (uint16, error) {
	buf, err := d.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf), nil
}

func (d *Decoder) ReadU32() (uint32, error) {
	buf, err := d.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf), nil
}

func (d *Decoder) ReadU64() (uint64, error) {
	buf, err := d.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf), nil
}

// ReadUint reads a little-endian unsigned integer of size bytes (up to 32)
func (d *Decoder) ReadUint(size int) (*uint256.Int, error) {
	if size > 32 {
		return nil, fmt.Errorf("%w: %d byte integer", ErrOutOfRange, size)
	}
	buf, err := d.ReadBytes(size)
	if err != nil {
		return nil, err
	}
	return leToUint256(buf), nil
}

// ReadU128 reads a 16-byte little-endian unsigned integer
func (d *Decoder) ReadU128() (*uint256.Int, error) {
	return d.ReadUint(16)
}

// ReadCompact reads a compact encoded integer that fits in a uint64
func (d *Decoder) ReadCompact() (uint64, error) {
	start := d.pos
	v, err := d.ReadCompactBig()
	if err != nil {
		return 0, err
	}
	if !v.IsUint64() {
		d.pos = start
		return 0, fmt.Errorf("%w: compact value %s exceeds 64 bits", ErrOutOfRange, v.Dec())
	}
	return v.Uint64(), nil
}

// ReadCompactBig reads a compact encoded integer of up to 256 bits
func (d *Decoder) ReadCompactBig() (*uint256.Int, error) {
	start := d.pos
	first, err := d.ReadU8()
	if err != nil {
		return nil, err
	}
	switch first & 0x03 {
	case 0x00:
		return uint256.NewInt(uint64(first >> 2)), nil
	case 0x01:
		second, err := d.ReadU8()
		if err != nil {
			d.pos = start
			return nil, err
		}
		v := uint64(binary.LittleEndian.Uint16([]byte{first, second}) >> 2)
		if v <= 0x3f {
			d.pos = start
			return nil, fmt.Errorf("%w: non-canonical compact", ErrInvalidValue)
		}
		return uint256.NewInt(v), nil
	case 0x02:
		rest, err := d.ReadBytes(3)
		if err != nil {
			d.pos = start
			return nil, err
		}
		v := uint64(binary.LittleEndian.Uint32(append([]byte{first}, rest...)) >> 2)
		if v <= 0x3fff {
			d.pos = start
			return nil, fmt.Errorf("%w: non-canonical compact", ErrInvalidValue)
		}
		return uint256.NewInt(v), nil
	default:
		size := int(first>>2) + 4
		if size > 32 {
			d.pos = start
			return nil, fmt.Errorf("%w: %d byte compact", ErrOutOfRange, size)
		}
		buf, err := d.ReadBytes(size)
		if err != nil {
			d.pos = start
			return nil, err
		}
		if buf[size-1] == 0 {
			d.pos = start
			return nil, fmt.Errorf("%w: non-canonical compact", ErrInvalidValue)
		}
		return leToUint256(buf), nil
	}
}

// ReadLength reads a compact length prefix and checks that it is plausible for
// the remaining input, assuming each item takes at least minItemSize bytes
func (d *Decoder) ReadLength(minItemSize int) (int, error) {
	start := d.pos
	n, err := d.ReadCompact()
	if err != nil {
		return 0, err
	}
	if n > math.MaxInt32 || (minItemSize > 0 && n*uint64(minItemSize) > uint64(d.Remaining())) {
		d.pos = start
		return 0, &ShortReadError{Offset: d.pos, Wanted: int(min(n, math.MaxInt32)), Available: d.Remaining()}
	}
	return int(n), nil
}

// ReadByteSlice reads a length-prefixed byte vector. The returned slice aliases
// the underlying data
func (d *Decoder) ReadByteSlice() ([]byte, error) {
	start := d.pos
	n, err := d.ReadLength(1)
	if err != nil {
		return nil, err
	}
	ret, err := d.ReadBytes(n)
	if err != nil {
		d.pos = start
		return nil, err
	}
	return ret, nil
}

// ReadString reads a length-prefixed UTF-8 string
func (d *Decoder) ReadString() (string, error) {
	buf, err := d.ReadByteSlice()
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// ReadOption reads the presence byte of an Option
func (d *Decoder) ReadOption() (bool, error) {
	start := d.pos
	b, err := d.ReadU8()
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		d.pos = start
		return false, fmt.Errorf("%w: invalid option byte 0x%02x", ErrInvalidValue, b)
	}
}

// Decode decodes into dest, which must implement Unmarshaler
func (d *Decoder) Decode(dest Unmarshaler) error {
	return dest.UnmarshalSCALE(d)
}

// Unmarshal decodes data into dest. Trailing bytes are not an error
func Unmarshal(data []byte, dest Unmarshaler) error {
	return dest.UnmarshalSCALE(NewDecoder(data))
}

// DecodeByteSlices decodes a Vec<Vec<u8>>, which is how block bodies are sent
// over chainHead. The returned slices alias data
func DecodeByteSlices(data []byte) ([][]byte, error) {
	d := NewDecoder(data)
	n, err := d.ReadLength(1)
	if err != nil {
		return nil, err
	}
	ret := make([][]byte, 0, n)
	for range n {
		item, err := d.ReadByteSlice()
		if err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, nil
}

func leToUint256(buf []byte) *uint256.Int {
	be := make([]byte, len(buf))
	for i, b := range buf {
		be[len(buf)-1-i] = b
	}
	return new(uint256.Int).SetBytes(be)
}
