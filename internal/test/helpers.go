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
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// DecodeHexString is a helper function for tests that decodes hex strings. The
// 0x prefix is optional. It doesn't return an error value, which makes it
// usable inline.
func DecodeHexString(hexData string) []byte {
	// Strip off any leading/trailing whitespace in hex string
	hexData = strings.TrimSpace(hexData)
	if !strings.HasPrefix(hexData, "0x") {
		hexData = "0x" + hexData
	}
	decoded, err := hexutil.Decode(hexData)
	if err != nil {
		panic(fmt.Sprintf("error decoding hex: %s", err))
	}
	return decoded
}

// HashFromByte returns a block hash filled with the given byte, which is
// handy for telling fixture blocks apart
func HashFromByte(b byte) common.Hash {
	var ret common.Hash
	for i := range ret {
		ret[i] = b
	}
	return ret
}
