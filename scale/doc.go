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


// Package scale implements the SCALE primitives needed to read node
// responses: fixed-width little-endian integers, compact integers, booleans,
// options and length-prefixed byte vectors.
//
// Decoding works on a Decoder cursor so that callers can decode a value and
// leave trailing bytes for whoever comes next. Composite values are decoded
// either by types implementing Unmarshaler or, when their shape is only known
// from chain metadata, by the metadata package.
package scale
