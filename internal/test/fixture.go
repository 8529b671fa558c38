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

package test

import (
	"fmt"

	"github.com/blinklabs-io/gosubstrate/events"
	"github.com/blinklabs-io/gosubstrate/hashing"
	"github.com/blinklabs-io/gosubstrate/metadata"
	"github.com/blinklabs-io/gosubstrate/scale"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Type IDs of the fixture type registry
const (
	TypeU8 uint32 = iota
	TypeU32
	TypeU64
	TypeU128
	TypeH256
	TypeAccountId32
	TypeAccountData
	TypeAccountInfo
	TypePhase
	TypeDispatchInfo
	TypeSystemEvent
	TypeBalancesEvent
	TypeRuntimeEvent
	TypeTopics
	TypeEventRecord
	TypeEventRecords
	TypeStr
	TypeCompactU128
	TypeBool
	TypeBytes
	TypeTupleU32Bool
	TypeOptionU32
	TypeI16
	TypeBits
)

// Pallet indexes of the fixture metadata
const (
	PalletIndexSystem    uint8 = 0
	PalletIndexTimestamp uint8 = 3
	PalletIndexBalances  uint8 = 5
	PalletIndexStaking   uint8 = 7
)

// Event variant indexes of the fixture metadata
const (
	EventExtrinsicSuccess uint8 = 0
	EventExtrinsicFailed  uint8 = 1
	EventNewAccount       uint8 = 3
	EventEndowed          uint8 = 0
	EventTransfer         uint8 = 2
	EventDeposit          uint8 = 7
)

var (
	// Well-known dev account public keys
	AliceAccountId = [32]byte(DecodeHexString("d43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d"))
	BobAccountId   = [32]byte(DecodeHexString("8eaf04151687736326c9fea17e25fc5287613693c912909cb226aa4794f26a48"))
)

func primitive(id uint32, p metadata.Primitive) metadata.Type {
	return metadata.Type{Id: id, Def: metadata.TypeDefPrimitive, Primitive: p}
}

func composite(id uint32, path []string, fields ...metadata.Field) metadata.Type {
	return metadata.Type{Id: id, Path: path, Def: metadata.TypeDefComposite, Fields: fields}
}

func field(name string, typeId uint32) metadata.Field {
	return metadata.Field{Name: name, Type: typeId}
}

func FixtureTypes() []metadata.Type {
	return []metadata.Type{
		primitive(TypeU8, metadata.PrimitiveU8),
		primitive(TypeU32, metadata.PrimitiveU32),
		primitive(TypeU64, metadata.PrimitiveU64),
		primitive(TypeU128, metadata.PrimitiveU128),
		{Id: TypeH256, Path: []string{"primitive_types", "H256"}, Def: metadata.TypeDefArray, Elem: TypeU8, Len: 32},
		composite(TypeAccountId32, []string{"sp_core", "crypto", "AccountId32"}, field("", TypeH256)),
		composite(
			TypeAccountData,
			[]string{"pallet_balances", "types", "AccountData"},
			field("free", TypeU128),
			field("reserved", TypeU128),
			field("frozen", TypeU128),
			field("flags", TypeU128),
		),
		composite(
			TypeAccountInfo,
			[]string{"frame_system", "AccountInfo"},
			field("nonce", TypeU32),
			field("consumers", TypeU32),
			field("providers", TypeU32),
			field("sufficients", TypeU32),
			field("data", TypeAccountData),
		),
		{
			Id:   TypePhase,
			Path: []string{"frame_system", "Phase"},
			Def:  metadata.TypeDefVariant,
			Variants: []metadata.Variant{
				{Name: "ApplyExtrinsic", Index: 0, Fields: []metadata.Field{field("", TypeU32)}},
				{Name: "Finalization", Index: 1},
				{Name: "Initialization", Index: 2},
			},
		},
		composite(
			TypeDispatchInfo,
			[]string{"frame_support", "dispatch", "DispatchInfo"},
			field("weight", TypeU64),
			field("class", TypeU8),
			field("pays_fee", TypeU8),
		),
		{
			Id:   TypeSystemEvent,
			Path: []string{"frame_system", "pallet", "Event"},
			Def:  metadata.TypeDefVariant,
			Variants: []metadata.Variant{
				{Name: "ExtrinsicSuccess", Index: EventExtrinsicSuccess, Fields: []metadata.Field{field("dispatch_info", TypeDispatchInfo)}},
				{Name: "ExtrinsicFailed", Index: EventExtrinsicFailed, Fields: []metadata.Field{field("dispatch_error", TypeU8), field("dispatch_info", TypeDispatchInfo)}},
				{Name: "NewAccount", Index: EventNewAccount, Fields: []metadata.Field{field("account", TypeAccountId32)}},
			},
		},
		{
			Id:   TypeBalancesEvent,
			Path: []string{"pallet_balances", "pallet", "Event"},
			Def:  metadata.TypeDefVariant,
			Variants: []metadata.Variant{
				{Name: "Endowed", Index: EventEndowed, Fields: []metadata.Field{field("account", TypeAccountId32), field("free_balance", TypeU128)}},
				{Name: "Transfer", Index: EventTransfer, Fields: []metadata.Field{field("from", TypeAccountId32), field("to", TypeAccountId32), field("amount", TypeU128)}},
				{Name: "Deposit", Index: EventDeposit, Fields: []metadata.Field{field("who", TypeAccountId32), field("amount", TypeU128)}},
			},
		},
		{
			Id:   TypeRuntimeEvent,
			Path: []string{"node_runtime", "RuntimeEvent"},
			Def:  metadata.TypeDefVariant,
			Variants: []metadata.Variant{
				{Name: "System", Index: PalletIndexSystem, Fields: []metadata.Field{field("", TypeSystemEvent)}},
				{Name: "Balances", Index: PalletIndexBalances, Fields: []metadata.Field{field("", TypeBalancesEvent)}},
			},
		},
		{Id: TypeTopics, Def: metadata.TypeDefSequence, Elem: TypeH256},
		composite(
			TypeEventRecord,
			[]string{"frame_system", "EventRecord"},
			field("phase", TypePhase),
			field("event", TypeRuntimeEvent),
			field("topics", TypeTopics),
		),
		{Id: TypeEventRecords, Def: metadata.TypeDefSequence, Elem: TypeEventRecord},
		primitive(TypeStr, metadata.PrimitiveStr),
		{Id: TypeCompactU128, Def: metadata.TypeDefCompact, Elem: TypeU128},
		primitive(TypeBool, metadata.PrimitiveBool),
		{Id: TypeBytes, Def: metadata.TypeDefSequence, Elem: TypeU8},
		{Id: TypeTupleU32Bool, Def: metadata.TypeDefTuple, Tuple: []uint32{TypeU32, TypeBool}},
		{
			Id:   TypeOptionU32,
			Path: []string{"Option"},
			Def:  metadata.TypeDefVariant,
			Variants: []metadata.Variant{
				{Name: "None", Index: 0},
				{Name: "Some", Index: 1, Fields: []metadata.Field{field("", TypeU32)}},
			},
		},
		primitive(TypeI16, metadata.PrimitiveI16),
		{Id: TypeBits, Def: metadata.TypeDefBitSequence},
	}
}

func FixturePallets() []metadata.Pallet {
	systemEvent := TypeSystemEvent
	balancesEvent := TypeBalancesEvent
	return []metadata.Pallet{
		{
			Name:  "System",
			Index: PalletIndexSystem,
			Storage: &metadata.StorageSection{
				Prefix: "System",
				Entries: []metadata.StorageEntry{
					{
						Name:      "Account",
						Modifier:  metadata.StorageEntryModifierDefault,
						Hashers:   []hashing.Hasher{hashing.HasherBlake2_128Concat},
						KeyTypes:  []uint32{TypeAccountId32},
						ValueType: TypeAccountInfo,
						Default:   make([]byte, 4*4+4*16),
					},
					{
						Name:      "Number",
						Modifier:  metadata.StorageEntryModifierDefault,
						ValueType: TypeU32,
						Default:   make([]byte, 4),
					},
					{
						Name:      "Events",
						Modifier:  metadata.StorageEntryModifierDefault,
						ValueType: TypeEventRecords,
						Default:   []byte{0},
					},
					{
						Name:      "BlockHash",
						Modifier:  metadata.StorageEntryModifierDefault,
						Hashers:   []hashing.Hasher{hashing.HasherTwox64Concat},
						KeyTypes:  []uint32{TypeU32},
						ValueType: TypeH256,
						Default:   make([]byte, 32),
					},
					{
						Name:      "LastRuntimeUpgrade",
						Modifier:  metadata.StorageEntryModifierOptional,
						ValueType: TypeStr,
					},
				},
			},
			EventType: &systemEvent,
		},
		{
			Name:  "Timestamp",
			Index: PalletIndexTimestamp,
		},
		{
			Name:  "Balances",
			Index: PalletIndexBalances,
			Storage: &metadata.StorageSection{
				Prefix: "Balances",
				Entries: []metadata.StorageEntry{
					{
						Name:      "TotalIssuance",
						Modifier:  metadata.StorageEntryModifierDefault,
						ValueType: TypeU128,
						Default:   make([]byte, 16),
					},
				},
			},
			EventType: &balancesEvent,
		},
		{
			Name:  "Staking",
			Index: PalletIndexStaking,
			Storage: &metadata.StorageSection{
				Prefix: "Staking",
				Entries: []metadata.StorageEntry{
					{
						Name:      "ErasStakers",
						Modifier:  metadata.StorageEntryModifierDefault,
						Hashers:   []hashing.Hasher{hashing.HasherTwox64Concat, hashing.HasherTwox64Concat},
						KeyTypes:  []uint32{TypeU32, TypeAccountId32},
						ValueType: TypeAccountData,
						Default:   make([]byte, 4*16),
					},
				},
			},
		},
	}
}

// Metadata returns a freshly built copy of the fixture metadata
func Metadata() *metadata.Metadata {
	m, err := metadata.New(FixtureTypes(), FixturePallets())
	if err != nil {
		panic(fmt.Sprintf("error building fixture metadata: %s", err))
	}
	return m
}

// ExtrinsicSuccessFields encodes the fields of System.ExtrinsicSuccess
func ExtrinsicSuccessFields(weight uint64) []byte {
	ret := scale.AppendU64(nil, weight)
	return append(ret, 0, 0)
}

// ExtrinsicFailedFields encodes the fields of System.ExtrinsicFailed
func ExtrinsicFailedFields(dispatchError uint8, weight uint64) []byte {
	ret := []byte{dispatchError}
	ret = scale.AppendU64(ret, weight)
	return append(ret, 0, 0)
}

// TransferFields encodes the fields of Balances.Transfer
func TransferFields(from [32]byte, to [32]byte, amount uint64) []byte {
	ret := append([]byte(nil), from[:]...)
	ret = append(ret, to[:]...)
	return scale.AppendU128(ret, uint256.NewInt(amount))
}

// EventRecord encodes a single frame_system::EventRecord
func EventRecord(phase events.Phase, palletIndex uint8, variantIndex uint8, fields []byte, topics ...common.Hash) []byte {
	ret := phase.AppendSCALE(nil)
	ret = append(ret, palletIndex, variantIndex)
	ret = append(ret, fields...)
	ret = scale.AppendCompact(ret, uint64(len(topics)))
	for _, topic := range topics {
		ret = append(ret, topic[:]...)
	}
	return ret
}

// EventRecords encodes a System.Events value from encoded records
func EventRecords(records ...[]byte) []byte {
	ret := scale.AppendCompact(nil, uint64(len(records)))
	for _, record := range records {
		ret = append(ret, record...)
	}
	return ret
}

func ApplyExtrinsic(index uint32) events.Phase {
	return events.Phase{Kind: events.PhaseApplyExtrinsic, ExtrinsicIndex: index}
}

// AccountInfo encodes a frame_system::AccountInfo with the given nonce and
// free balance
func AccountInfo(nonce uint32, free uint64) []byte {
	ret := scale.AppendU32(nil, nonce)
	ret = append(ret, make([]byte, 12)...)
	ret = scale.AppendU128(ret, uint256.NewInt(free))
	return append(ret, make([]byte, 3*16)...)
}
