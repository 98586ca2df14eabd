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

	mapset "github.com/deckarep/golang-set"
	"github.com/ethereum/go-ethereum/crypto"
)

// TxSignature is one (V, R, S) triple over a signing hash. V carries the
// recovery id and the chain id (V = recid + chainId*2 + VOffset).
type TxSignature struct {
	V *big.Int
	R *big.Int
	S *big.Int
}

// NewTxSignature is the canonical constructor. All legacy input shapes are
// handled by the adapter functions below, never by the type itself.
func NewTxSignature(v, r, s *big.Int) (*TxSignature, error) {
	sig := &TxSignature{V: v, R: r, S: s}
	if err := sig.validate(); err != nil {
		return nil, err
	}
	return sig.Copy(), nil
}

// SignatureFromBytes adapts a 65-byte r||s||recid signature, as produced by
// the secp256k1 signing primitive, folding the chain id into V.
func SignatureFromBytes(sig []byte, chainID *big.Int) (*TxSignature, error) {
	if len(sig) != crypto.SignatureLength {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidSignatureFormat, len(sig), crypto.SignatureLength)
	}
	if chainID == nil {
		return nil, fmt.Errorf("%w: chainId", ErrMissingField)
	}
	r := new(big.Int).SetBytes(sig[:32])
	s := new(big.Int).SetBytes(sig[32:64])
	v := encodeV(sig[64], chainID)
	return &TxSignature{V: v, R: r, S: s}, nil
}

func (sig *TxSignature) validate() error {
	if sig == nil || sig.V == nil || sig.R == nil || sig.S == nil {
		return fmt.Errorf("%w: nil signature component", ErrInvalidSignatureFormat)
	}
	if sig.V.Sign() < 0 || sig.R.Sign() < 0 || sig.S.Sign() < 0 {
		return fmt.Errorf("%w: negative signature component", ErrInvalidSignatureFormat)
	}
	return nil
}

func (sig *TxSignature) Copy() *TxSignature {
	if sig == nil {
		return nil
	}
	cpy := &TxSignature{V: new(big.Int), R: new(big.Int), S: new(big.Int)}
	if sig.V != nil {
		cpy.V.Set(sig.V)
	}
	if sig.R != nil {
		cpy.R.Set(sig.R)
	}
	if sig.S != nil {
		cpy.S.Set(sig.S)
	}
	return cpy
}

func (sig *TxSignature) Equal(o *TxSignature) bool {
	if sig == nil || o == nil {
		return sig == o
	}
	return sig.key() == o.key()
}

// key is the exact-triple identity used for deduplication during combine.
func (sig *TxSignature) key() string {
	v, r, s := "", "", ""
	if sig.V != nil {
		v = sig.V.Text(16)
	}
	if sig.R != nil {
		r = sig.R.Text(16)
	}
	if sig.S != nil {
		s = sig.S.Text(16)
	}
	return v + "|" + r + "|" + s
}

func (sig *TxSignature) String() string {
	if sig == nil {
		return "Sig<nil>"
	}
	return fmt.Sprintf("Sig{V:%s R:%x S:%x}", sig.V, sig.R, sig.S)
}

// TxSignatures is an ordered signature list. Insertion order is preserved
// end to end: it is part of the canonical encoding.
type TxSignatures []*TxSignature

// NewTxSignatures validates every triple and returns them as a list, in the
// order given.
func NewTxSignatures(sigs ...*TxSignature) (TxSignatures, error) {
	out := make(TxSignatures, 0, len(sigs))
	for i, sig := range sigs {
		if err := sig.validate(); err != nil {
			return nil, fmt.Errorf("signature %d: %w", i, err)
		}
		out = append(out, sig.Copy())
	}
	return out, nil
}

// SignaturesFromCompact adapts a batch of 65-byte compact signatures.
func SignaturesFromCompact(chainID *big.Int, sigs ...[]byte) (TxSignatures, error) {
	out := make(TxSignatures, 0, len(sigs))
	for i, raw := range sigs {
		sig, err := SignatureFromBytes(raw, chainID)
		if err != nil {
			return nil, fmt.Errorf("signature %d: %w", i, err)
		}
		out = append(out, sig)
	}
	return out, nil
}

// SignaturesFromVRSLists adapts the list-of-[V,R,S]-lists shape used by
// JSON-RPC payloads.
func SignaturesFromVRSLists(lists [][]*big.Int) (TxSignatures, error) {
	out := make(TxSignatures, 0, len(lists))
	for i, l := range lists {
		if len(l) != 3 {
			return nil, fmt.Errorf("%w: signature %d has %d components, want 3", ErrInvalidSignatureFormat, i, len(l))
		}
		sig, err := NewTxSignature(l[0], l[1], l[2])
		if err != nil {
			return nil, fmt.Errorf("signature %d: %w", i, err)
		}
		out = append(out, sig)
	}
	return out, nil
}

func (ss TxSignatures) Copy() TxSignatures {
	if ss == nil {
		return nil
	}
	cpy := make(TxSignatures, len(ss))
	for i, sig := range ss {
		cpy[i] = sig.Copy()
	}
	return cpy
}

// merge appends every signature of other not already recorded in seen,
// preserving the order of first appearance. seen is shared across all raw
// inputs of one combine call.
func (ss TxSignatures) merge(other TxSignatures, seen mapset.Set) TxSignatures {
	out := ss
	for _, sig := range other {
		if sig == nil {
			continue
		}
		if seen.Add(sig.key()) {
			out = append(out, sig.Copy())
		}
	}
	return out
}

// seed records the triples already present so that merge skips them.
func (ss TxSignatures) seed(seen mapset.Set) {
	for _, sig := range ss {
		if sig != nil {
			seen.Add(sig.key())
		}
	}
}

func (ss TxSignatures) String() string {
	if len(ss) == 0 {
		return "[]"
	}
	s := "["
	for i, sig := range ss {
		if i > 0 {
			s += " "
		}
		s += sig.String()
	}
	return s + "]"
}

// wireSignature is the decode-side image of a triple. Components are kept as
// raw byte strings so that non-minimal integer encodings produced by other
// implementations are accepted and then normalized by big.Int.SetBytes.
type wireSignature struct {
	V []byte
	R []byte
	S []byte
}

func signaturesFromWire(ws []*wireSignature) TxSignatures {
	if len(ws) == 0 {
		return TxSignatures{}
	}
	out := make(TxSignatures, len(ws))
	for i, w := range ws {
		out[i] = &TxSignature{
			V: new(big.Int).SetBytes(w.V),
			R: new(big.Int).SetBytes(w.R),
			S: new(big.Int).SetBytes(w.S),
		}
	}
	return out
}
