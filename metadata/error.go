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
	"errors"
	"fmt"
)

var (
	ErrPalletNotFound       = errors.New("pallet not found")
	ErrStorageNotInPallet   = errors.New("pallet has no storage")
	ErrStorageEntryNotFound = errors.New("storage entry not found")
	ErrIncompatibleSchema   = errors.New("incompatible schema: metadata hash mismatch")
	ErrTypeNotFound         = errors.New("type not found in metadata")
	ErrDecode               = errors.New("failed to decode value")
	ErrInvalidMetadata      = errors.New("invalid metadata")
)

// PalletNotFoundError indicates that no pallet with the given name exists
type PalletNotFoundError struct {
	Name string
}

func (e *PalletNotFoundError) Error() string {
	return fmt.Sprintf("pallet %q not found", e.Name)
}

func (*PalletNotFoundError) Is(target error) bool {
	return target == ErrPalletNotFound
}

// StorageNotInPalletError indicates that the pallet exposes no storage
type StorageNotInPalletError struct {
	Pallet string
}

func (e *StorageNotInPalletError) Error() string {
	return fmt.Sprintf("pallet %q has no storage", e.Pallet)
}

func (*StorageNotInPalletError) Is(target error) bool {
	return target == ErrStorageNotInPallet
}

// StorageEntryNotFoundError indicates that the pallet's storage has no entry
// with the given name
type StorageEntryNotFoundError struct {
	Pallet string
	Entry  string
}

func (e *StorageEntryNotFoundError) Error() string {
	return fmt.Sprintf("storage entry %q not found in pallet %q", e.Entry, e.Pallet)
}

func (*StorageEntryNotFoundError) Is(target error) bool {
	return target == ErrStorageEntryNotFound
}

// IncompatibleSchemaError indicates that a compiled-in expectation of a
// storage entry no longer matches the node's metadata
type IncompatibleSchemaError struct {
	Pallet string
	Entry  string
}

func (e *IncompatibleSchemaError) Error() string {
	return fmt.Sprintf(
		"incompatible schema for storage %s.%s: metadata hash mismatch",
		e.Pallet,
		e.Entry,
	)
}

func (*IncompatibleSchemaError) Is(target error) bool {
	return target == ErrIncompatibleSchema
}

// DecodeError wraps a codec failure while decoding a value of a registry type
type DecodeError struct {
	TypeId uint32
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode value of type %d: %v", e.TypeId, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (*DecodeError) Is(target error) bool {
	return target == ErrDecode
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidMetadata, fmt.Sprintf(format, args...))
}
