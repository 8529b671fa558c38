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

package metadata

import (
	"fmt"
	"os"

	"github.com/blinklabs-io/gosubstrate/cbor"
)

// SnapshotVersion is the snapshot format written by EncodeSnapshot
const SnapshotVersion = 1

type snapshot struct {
	cbor.StructAsArray
	Version  uint
	Metadata cbor.RawMessage
}

// EncodeSnapshot serializes the metadata into a versioned CBOR snapshot
func EncodeSnapshot(m *Metadata) ([]byte, error) {
	raw, err := cbor.Encode(m)
	if err != nil {
		return nil, err
	}
	return cbor.Encode(&snapshot{Version: SnapshotVersion, Metadata: raw})
}

// DecodeSnapshot parses a CBOR snapshot produced by EncodeSnapshot
func DecodeSnapshot(data []byte) (*Metadata, error) {
	var s snapshot
	if _, err := cbor.Decode(data, &s); err != nil {
		return nil, fmt.Errorf("decode metadata snapshot: %w", err)
	}
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported metadata snapshot version %d", s.Version)
	}
	var m Metadata
	if _, err := cbor.Decode(s.Metadata, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadFile reads a CBOR snapshot from disk
func LoadFile(path string) (*Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read metadata snapshot: %w", err)
	}
	return DecodeSnapshot(data)
}

// WriteFile writes a CBOR snapshot to disk
func WriteFile(path string, m *Metadata) error {
	data, err := EncodeSnapshot(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
