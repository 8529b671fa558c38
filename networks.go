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

package substrate

import "github.com/blinklabs-io/gosubstrate/ss58"

// Network definitions
var (
	NetworkPolkadot = Network{
		Name:       "polkadot",
		SS58Prefix: 0,
		Endpoint:   "wss://rpc.polkadot.io",
	}
	NetworkKusama = Network{
		Name:       "kusama",
		SS58Prefix: 2,
		Endpoint:   "wss://kusama-rpc.polkadot.io",
	}
	NetworkWestend = Network{
		Name:       "westend",
		SS58Prefix: 42,
		Endpoint:   "wss://westend-rpc.polkadot.io",
	}
	NetworkLocal = Network{
		Name:       "local",
		SS58Prefix: 42,
		Endpoint:   "ws://127.0.0.1:9944",
	}

	NetworkInvalid = Network{
		Name: "invalid",
	} // NetworkInvalid is used as a return value for lookup functions when a network isn't found
)

// List of valid networks for use in lookup functions
var networks = []Network{
	NetworkPolkadot,
	NetworkKusama,
	NetworkWestend,
	NetworkLocal,
}

// NetworkByName returns a predefined network by name
func NetworkByName(name string) Network {
	for _, network := range networks {
		if network.Name == name {
			return network
		}
	}
	return NetworkInvalid
}

// Network represents a Substrate-based chain
type Network struct {
	Name       string
	SS58Prefix uint16 // network prefix used for addresses
	Endpoint   string // public RPC endpoint
}

func (n Network) String() string {
	return n.Name
}

// Address returns the SS58 address of an account ID on the network
func (n Network) Address(accountId [32]byte) string {
	return ss58.EncodeAccountID(accountId, n.SS58Prefix)
}

// AccountID decodes an SS58 address. Addresses of other networks are rejected
func (n Network) AccountID(address string) ([32]byte, error) {
	id, prefix, err := ss58.DecodeAccountID(address)
	if err != nil {
		return id, err
	}
	if prefix != n.SS58Prefix {
		return [32]byte{}, &NetworkMismatchError{Network: n, Prefix: prefix}
	}
	return id, nil
}
