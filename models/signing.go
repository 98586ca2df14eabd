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
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	lru "github.com/hashicorp/golang-lru"
)

var big2 = big.NewInt(2)

// recoveredKeys caches (signing hash, triple) -> public key. Recovery hits
// secp256k1 every time otherwise, and combine/verify flows ask for the same
// pair repeatedly.
var recoveredKeys *lru.Cache

func init() {
	recoveredKeys, _ = lru.New(recoveredKeyCacheSize)
}

// encodeV folds the recovery id and the chain id into the V component:
// V = recid + chainId*2 + VOffset.
func encodeV(recid byte, chainID *big.Int) *big.Int {
	v := big.NewInt(int64(recid) + VOffset)
	return v.Add(v, new(big.Int).Mul(chainID, big2))
}

// deriveChainId derives the chain id from the given v parameter.
func deriveChainId(v *big.Int) *big.Int {
	if v.BitLen() <= 64 {
		vv := v.Uint64()
		if vv < VOffset {
			return new(big.Int)
		}
		return new(big.Int).SetUint64((vv - VOffset) / 2)
	}
	v = new(big.Int).Sub(v, big.NewInt(VOffset))
	return v.Div(v, big2)
}

// recoveryID unpacks V, checking that the chain id folded into it matches
// the transaction's.
func recoveryID(sig *TxSignature, chainID *big.Int) (byte, error) {
	if err := sig.validate(); err != nil {
		return 0, err
	}
	if sig.V.BitLen() > 64 {
		return 0, fmt.Errorf("%w: oversized V", ErrInvalidSig)
	}
	derived := deriveChainId(sig.V)
	if chainID != nil && derived.Cmp(chainID) != 0 {
		return 0, fmt.Errorf("%w: chain id %s in V, want %s", ErrInvalidSig, derived, chainID)
	}
	recid := new(big.Int).Sub(sig.V, new(big.Int).Mul(derived, big2))
	recid.Sub(recid, big.NewInt(VOffset))
	if recid.Sign() < 0 || recid.Cmp(big.NewInt(1)) > 0 {
		return 0, fmt.Errorf("%w: recovery id %s", ErrInvalidSig, recid)
	}
	return byte(recid.Uint64()), nil
}

// recoverPublicKey recovers the key that produced sig over sighash. The
// result is cached; a cryptographically invalid triple yields ErrInvalidSig.
func recoverPublicKey(sighash common.Hash, sig *TxSignature, chainID *big.Int) (*ecdsa.PublicKey, error) {
	cacheKey := string(sighash[:]) + sig.key()
	if cached, ok := recoveredKeys.Get(cacheKey); ok {
		return cached.(*ecdsa.PublicKey), nil
	}
	recid, err := recoveryID(sig, chainID)
	if err != nil {
		return nil, err
	}
	if !crypto.ValidateSignatureValues(recid, sig.R, sig.S, true) {
		return nil, ErrInvalidSig
	}
	// encode the signature in uncompressed format
	r, s := sig.R.Bytes(), sig.S.Bytes()
	raw := make([]byte, crypto.SignatureLength)
	copy(raw[32-len(r):32], r)
	copy(raw[64-len(s):64], s)
	raw[64] = recid
	pub, err := crypto.SigToPub(sighash[:], raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSig, err)
	}
	recoveredKeys.Add(cacheKey, pub)
	return pub, nil
}

// chainIDFromSignatures recovers the chain id embedded in the V of the
// first usable signature. Decoded transactions carry no explicit chain id
// field; this is the only place it survives on the wire.
func chainIDFromSignatures(lists ...TxSignatures) *big.Int {
	for _, ss := range lists {
		for _, sig := range ss {
			if sig != nil && sig.V != nil && sig.V.Cmp(big.NewInt(VOffset)) >= 0 {
				return deriveChainId(sig.V)
			}
		}
	}
	return nil
}
