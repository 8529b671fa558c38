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

// Package chain contains the block header and block types exchanged with a
// node, in both their SCALE and JSON forms
package chain

import (
	"encoding/json"
	"fmt"

	"github.com/blinklabs-io/gosubstrate/hashing"
	"github.com/blinklabs-io/gosubstrate/scale"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

type Header struct {
	ParentHash     common.Hash
	Number         uint64
	StateRoot      common.Hash
	ExtrinsicsRoot common.Hash
	Digest         Digest
}

func (h *Header) UnmarshalSCALE(d *scale.Decoder) error {
	start := d.Offset()
	if err := h.unmarshalSCALE(d); err != nil {
		_ = d.Seek(start)
		return fmt.Errorf("decode header: %w", err)
	}
	return nil
}

func (h *Header) unmarshalSCALE(d *scale.Decoder) error {
	if err := readHash(d, &h.ParentHash); err != nil {
		return err
	}
	number, err := d.ReadCompact()
	if err != nil {
		return err
	}
	h.Number = number
	if err := readHash(d, &h.StateRoot); err != nil {
		return err
	}
	if err := readHash(d, &h.ExtrinsicsRoot); err != nil {
		return err
	}
	return h.Digest.UnmarshalSCALE(d)
}

// AppendSCALE appends the SCALE encoding of the header to dst
func (h *Header) AppendSCALE(dst []byte) []byte {
	dst = append(dst, h.ParentHash[:]...)
	dst = scale.AppendCompact(dst, h.Number)
	dst = append(dst, h.StateRoot[:]...)
	dst = append(dst, h.ExtrinsicsRoot[:]...)
	return h.Digest.AppendSCALE(dst)
}

// Hash returns the block hash, which is the blake2-256 hash of the SCALE
// encoded header
func (h *Header) Hash() common.Hash {
	return common.Hash(hashing.Blake2_256(h.AppendSCALE(nil)))
}

// DecodeHeader decodes a SCALE encoded header. Trailing bytes are an error
func DecodeHeader(data []byte) (*Header, error) {
	var h Header
	d := scale.NewDecoder(data)
	if err := d.Decode(&h); err != nil {
		return nil, err
	}
	if d.Remaining() > 0 {
		return nil, fmt.Errorf("decode header: %d trailing bytes", d.Remaining())
	}
	return &h, nil
}

type headerJson struct {
	ParentHash     common.Hash    `json:"parentHash"`
	Number         hexutil.Uint64 `json:"number"`
	StateRoot      common.Hash    `json:"stateRoot"`
	ExtrinsicsRoot common.Hash    `json:"extrinsicsRoot"`
	Digest         struct {
		Logs []hexutil.Bytes `json:"logs"`
	} `json:"digest"`
}

func (h *Header) UnmarshalJSON(data []byte) error {
	var tmp headerJson
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	h.ParentHash = tmp.ParentHash
	h.Number = uint64(tmp.Number)
	h.StateRoot = tmp.StateRoot
	h.ExtrinsicsRoot = tmp.ExtrinsicsRoot
	h.Digest.Logs = make([]DigestItem, 0, len(tmp.Digest.Logs))
	for i, logBytes := range tmp.Digest.Logs {
		var item DigestItem
		if err := scale.Unmarshal(logBytes, &item); err != nil {
			return fmt.Errorf("digest log %d: %w", i, err)
		}
		h.Digest.Logs = append(h.Digest.Logs, item)
	}
	return nil
}

func (h *Header) MarshalJSON() ([]byte, error) {
	tmp := headerJson{
		ParentHash:     h.ParentHash,
		Number:         hexutil.Uint64(h.Number),
		StateRoot:      h.StateRoot,
		ExtrinsicsRoot: h.ExtrinsicsRoot,
	}
	tmp.Digest.Logs = make([]hexutil.Bytes, 0, len(h.Digest.Logs))
	for _, item := range h.Digest.Logs {
		tmp.Digest.Logs = append(tmp.Digest.Logs, item.AppendSCALE(nil))
	}
	return json.Marshal(&tmp)
}

func readHash(d *scale.Decoder, dest *common.Hash) error {
	buf, err := d.ReadBytes(common.HashLength)
	if err != nil {
		return err
	}
	copy(dest[:], buf)
	return nil
}
