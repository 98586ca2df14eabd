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

import "strconv"

// TxType is the leading tag byte of every encoded transaction. Decoding
// dispatches on it before any payload byte is looked at.
type TxType byte

const (
	TxTypeValueTransfer                  TxType = 0x08
	TxTypeFeeDelegatedValueTransfer      TxType = 0x09
	TxTypeValueTransferMemo              TxType = 0x10
	TxTypeFeeDelegatedValueTransferMemo  TxType = 0x11
	TxTypeChainDataAnchoring             TxType = 0x48
	TxTypeFeeDelegatedChainDataAnchoring TxType = 0x49
)

// V = recid + chainId*2 + VOffset for every signature produced here.
const VOffset = 35

// recoveredKeyCacheSize bounds the public key recovery cache. Recovery is
// the most expensive operation on the combine/verify paths, and the same
// (hash, signature) pair tends to be asked for repeatedly.
const recoveredKeyCacheSize = 4096

func (t TxType) IsFeeDelegated() bool {
	switch t {
	case TxTypeFeeDelegatedValueTransfer,
		TxTypeFeeDelegatedValueTransferMemo,
		TxTypeFeeDelegatedChainDataAnchoring:
		return true
	}
	return false
}

func (t TxType) Supported() bool {
	switch t {
	case TxTypeValueTransfer, TxTypeFeeDelegatedValueTransfer,
		TxTypeValueTransferMemo, TxTypeFeeDelegatedValueTransferMemo,
		TxTypeChainDataAnchoring, TxTypeFeeDelegatedChainDataAnchoring:
		return true
	}
	return false
}

func (t TxType) String() string {
	switch t {
	case TxTypeValueTransfer:
		return "ValueTransfer"
	case TxTypeFeeDelegatedValueTransfer:
		return "FeeDelegatedValueTransfer"
	case TxTypeValueTransferMemo:
		return "ValueTransferMemo"
	case TxTypeFeeDelegatedValueTransferMemo:
		return "FeeDelegatedValueTransferMemo"
	case TxTypeChainDataAnchoring:
		return "ChainDataAnchoring"
	case TxTypeFeeDelegatedChainDataAnchoring:
		return "FeeDelegatedChainDataAnchoring"
	default:
		return "TxType-0x" + strconv.FormatUint(uint64(t), 16)
	}
}
