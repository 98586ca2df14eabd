// Copyright 2023 Cypress
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package models

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Field codec helpers. Decoded scalars pass through big.Int.SetBytes so that
// non-minimal wire encodings from other implementations are normalized; the
// in-memory representation is always canonical-minimal.

// checkTag strips the leading type tag, rejecting input whose tag does not
// match the invoked variant.
func checkTag(raw []byte, want TxType) ([]byte, error) {
	if len(raw) == 0 {
		return nil, errEmptyTypedTx
	}
	if TxType(raw[0]) != want {
		return nil, fmt.Errorf("%w: tag 0x%02x, want 0x%02x (%s)", ErrUnsupportedTxType, raw[0], byte(want), want)
	}
	return raw[1:], nil
}

// bigFromWire normalizes a decoded integer field, stripping any leading
// zero bytes the wire may carry.
func bigFromWire(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}

// addressFromWire rejects anything but a 20-byte value.
func addressFromWire(b []byte, field string) (*common.Address, error) {
	if len(b) != common.AddressLength {
		return nil, fmt.Errorf("%w: %s is %d bytes, want %d", ErrInvalidFieldFormat, field, len(b), common.AddressLength)
	}
	a := common.BytesToAddress(b)
	return &a, nil
}

func bigCopy(x *big.Int) *big.Int {
	if x == nil {
		return nil
	}
	return new(big.Int).Set(x)
}

func copyAddressPtr(a *common.Address) *common.Address {
	if a == nil {
		return nil
	}
	cpy := *a
	return &cpy
}

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	cpy := make([]byte, len(b))
	copy(cpy, b)
	return cpy
}
