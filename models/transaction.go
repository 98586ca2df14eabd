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
	"bytes"
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"sync/atomic"
	"time"

	mapset "github.com/deckarep/golang-set"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/cypress-chain/go-cypress/log"
)

// Transaction is the typed envelope around one variant payload. It owns the
// signing and decoding protocol shared by all variants and delegates the
// canonical field order to the TxData inside.
//
// A Transaction is not safe for concurrent mutation: overlapping Sign or
// Append calls are resolved last-append-wins with no locking. Only the
// derived-value caches are atomic.
type Transaction struct {
	inner TxData    // Consensus contents of the transaction
	time  time.Time // Time first seen locally

	// caches, cleared on every mutation
	hash       atomic.Value
	senderHash atomic.Value
	size       atomic.Value
}

// TxResolver supplies network defaults for fields the caller left unset.
// rpc.Client implements it; tests inject fakes.
type TxResolver interface {
	ChainID(ctx context.Context) (*big.Int, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, addr common.Address) (uint64, error)
}

// NewTransaction wraps a variant payload. The payload is deep-copied; the
// envelope owns its copy.
func NewTransaction(inner TxData) *Transaction {
	tx := new(Transaction)
	tx.setDecoded(inner.copy(), 0)
	return tx
}

// DecodeTransaction recovers a fully-typed transaction from its canonical
// encoding, dispatching purely on the leading tag byte.
func DecodeTransaction(raw []byte) (*Transaction, error) {
	if len(raw) == 0 {
		return nil, errEmptyTypedTx
	}
	var (
		inner TxData
		err   error
	)
	switch TxType(raw[0]) {
	case TxTypeValueTransfer:
		inner, err = DecodeValueTransfer(raw)
	case TxTypeFeeDelegatedValueTransfer:
		inner, err = DecodeFeeDelegatedValueTransfer(raw)
	case TxTypeValueTransferMemo:
		inner, err = DecodeValueTransferMemo(raw)
	case TxTypeFeeDelegatedValueTransferMemo:
		inner, err = DecodeFeeDelegatedValueTransferMemo(raw)
	case TxTypeChainDataAnchoring:
		inner, err = DecodeChainDataAnchoring(raw)
	case TxTypeFeeDelegatedChainDataAnchoring:
		inner, err = DecodeFeeDelegatedChainDataAnchoring(raw)
	default:
		return nil, fmt.Errorf("%w: tag 0x%02x", ErrUnsupportedTxType, raw[0])
	}
	if err != nil {
		return nil, err
	}
	tx := new(Transaction)
	tx.setDecoded(inner, len(raw))
	return tx, nil
}

// DecodeTransactionHex decodes the 0x-prefixed hex wire form.
func DecodeTransactionHex(raw string) (*Transaction, error) {
	b, err := hexutil.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFieldFormat, err)
	}
	return DecodeTransaction(b)
}

// setDecoded sets the inner transaction and size after decoding.
func (tx *Transaction) setDecoded(inner TxData, size int) {
	tx.inner = inner
	tx.time = time.Now()
	if size > 0 {
		tx.size.Store(uint64(size))
	}
}

// invalidate clears the derived-value caches after a mutation.
func (tx *Transaction) invalidate() {
	tx.hash = atomic.Value{}
	tx.senderHash = atomic.Value{}
	tx.size = atomic.Value{}
}

// Type returns the variant tag byte.
func (tx *Transaction) Type() TxType { return tx.inner.txType() }

func (tx *Transaction) ChainID() *big.Int  { return bigCopy(tx.inner.chainID()) }
func (tx *Transaction) Nonce() *big.Int    { return bigCopy(tx.inner.nonce()) }
func (tx *Transaction) GasPrice() *big.Int { return bigCopy(tx.inner.gasPrice()) }
func (tx *Transaction) Gas() *big.Int      { return bigCopy(tx.inner.gas()) }
func (tx *Transaction) Value() *big.Int    { return bigCopy(tx.inner.value()) }
func (tx *Transaction) Data() []byte       { return copyBytes(tx.inner.data()) }

func (tx *Transaction) From() *common.Address     { return copyAddressPtr(tx.inner.from()) }
func (tx *Transaction) To() *common.Address       { return copyAddressPtr(tx.inner.to()) }
func (tx *Transaction) FeePayer() *common.Address { return copyAddressPtr(tx.inner.feePayer()) }

// Signatures returns the sender signature list in insertion order.
func (tx *Transaction) Signatures() TxSignatures { return tx.inner.rawSignatures().Copy() }

// FeePayerSignatures returns the fee payer signature list; nil for
// non-fee-delegated variants.
func (tx *Transaction) FeePayerSignatures() TxSignatures {
	return tx.inner.rawFeePayerSignatures().Copy()
}

// ValidateFields reports the first unset required field. Every encode and
// sign path runs it first.
func (tx *Transaction) ValidateFields() error { return tx.inner.validateFields() }

// encodeTagged produces tag ++ RLP(fields).
func encodeTagged(t TxType, fields []interface{}) ([]byte, error) {
	enc, err := rlp.EncodeToBytes(fields)
	if err != nil {
		return nil, err
	}
	return append([]byte{byte(t)}, enc...), nil
}

// SigningBytes returns the byte string hashed and signed for the sender
// role: tag ++ RLP([fields..., chainId, 0, 0]). The two zero placeholders
// keep the signing payload the same shape whether or not signatures exist.
func (tx *Transaction) SigningBytes() ([]byte, error) {
	if err := tx.inner.validateFields(); err != nil {
		return nil, err
	}
	fields := append(tx.inner.consensusFields(), tx.inner.chainID(), uint(0), uint(0))
	return encodeTagged(tx.Type(), fields)
}

// SigningHash is the keccak256 of SigningBytes: the value actually signed.
func (tx *Transaction) SigningHash() (common.Hash, error) {
	b, err := tx.SigningBytes()
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(b), nil
}

// FeePayerSigningBytes returns the byte string signed by the fee payer:
// tag ++ RLP([fields..., feePayer, chainId, 0, 0]). The fee payer address is
// part of the signed material so the two roles never sign identical bytes.
func (tx *Transaction) FeePayerSigningBytes() ([]byte, error) {
	if !tx.Type().IsFeeDelegated() {
		return nil, fmt.Errorf("%w: %s has no fee payer role", ErrUnsupportedTxType, tx.Type())
	}
	if err := tx.inner.validateFields(); err != nil {
		return nil, err
	}
	fields := append(tx.inner.consensusFields(), *tx.inner.feePayer(), tx.inner.chainID(), uint(0), uint(0))
	return encodeTagged(tx.Type(), fields)
}

func (tx *Transaction) FeePayerSigningHash() (common.Hash, error) {
	b, err := tx.FeePayerSigningBytes()
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(b), nil
}

// SignWithKey signs for the sender role and appends the resulting triple to
// the signature list. It may be called repeatedly for multi-signature
// accounts; existing entries are never removed.
func (tx *Transaction) SignWithKey(prv *ecdsa.PrivateKey) error {
	return tx.SignWithKeyAt(prv, len(tx.inner.rawSignatures()))
}

// SignWithKeyAt signs for the sender role and places the triple at index,
// overwriting the entry there; index == len appends.
func (tx *Transaction) SignWithKeyAt(prv *ecdsa.PrivateKey, index int) error {
	h, err := tx.SigningHash()
	if err != nil {
		return err
	}
	sig, err := signHash(h, prv, tx.inner.chainID())
	if err != nil {
		return err
	}
	sigs, err := placeSignature(tx.inner.rawSignatures(), sig, index)
	if err != nil {
		return err
	}
	tx.inner.setSignatures(sigs)
	tx.invalidate()
	return nil
}

// SignAsFeePayer signs for the fee payer role and appends to the fee payer
// signature list.
func (tx *Transaction) SignAsFeePayer(prv *ecdsa.PrivateKey) error {
	return tx.SignAsFeePayerAt(prv, len(tx.inner.rawFeePayerSignatures()))
}

func (tx *Transaction) SignAsFeePayerAt(prv *ecdsa.PrivateKey, index int) error {
	h, err := tx.FeePayerSigningHash()
	if err != nil {
		return err
	}
	sig, err := signHash(h, prv, tx.inner.chainID())
	if err != nil {
		return err
	}
	sigs, err := placeSignature(tx.inner.rawFeePayerSignatures(), sig, index)
	if err != nil {
		return err
	}
	tx.inner.setFeePayerSignatures(sigs)
	tx.invalidate()
	return nil
}

func signHash(h common.Hash, prv *ecdsa.PrivateKey, chainID *big.Int) (*TxSignature, error) {
	raw, err := crypto.Sign(h[:], prv)
	if err != nil {
		return nil, err
	}
	return SignatureFromBytes(raw, chainID)
}

func placeSignature(sigs TxSignatures, sig *TxSignature, index int) (TxSignatures, error) {
	switch {
	case index < 0 || index > len(sigs):
		return nil, fmt.Errorf("%w: signature index %d out of range [0, %d]", ErrInvalidSignatureFormat, index, len(sigs))
	case index == len(sigs):
		return append(sigs, sig), nil
	default:
		sigs[index] = sig
		return sigs, nil
	}
}

// AppendSignatures appends already-built triples to the sender list,
// preserving the order given.
func (tx *Transaction) AppendSignatures(sigs ...*TxSignature) error {
	list, err := NewTxSignatures(sigs...)
	if err != nil {
		return err
	}
	tx.inner.setSignatures(append(tx.inner.rawSignatures(), list...))
	tx.invalidate()
	return nil
}

// AppendFeePayerSignatures appends triples to the fee payer list.
func (tx *Transaction) AppendFeePayerSignatures(sigs ...*TxSignature) error {
	if !tx.Type().IsFeeDelegated() {
		return fmt.Errorf("%w: %s has no fee payer role", ErrUnsupportedTxType, tx.Type())
	}
	list, err := NewTxSignatures(sigs...)
	if err != nil {
		return err
	}
	tx.inner.setFeePayerSignatures(append(tx.inner.rawFeePayerSignatures(), list...))
	tx.invalidate()
	return nil
}

// MarshalBinary produces the final canonical broadcast form:
// tag ++ RLP([fields..., senderSigs]) for plain variants,
// tag ++ RLP([fields..., senderSigs, feePayer, feePayerSigs]) for
// fee-delegated ones. It fails on unset required fields and on an empty
// sender signature list.
func (tx *Transaction) MarshalBinary() ([]byte, error) {
	if err := tx.inner.validateFields(); err != nil {
		return nil, err
	}
	sigs := tx.inner.rawSignatures()
	if len(sigs) == 0 {
		return nil, ErrEmptySignatures
	}
	fields := append(tx.inner.consensusFields(), sigs)
	if tx.Type().IsFeeDelegated() {
		fpSigs := tx.inner.rawFeePayerSignatures()
		if fpSigs == nil {
			fpSigs = TxSignatures{}
		}
		fields = append(fields, *tx.inner.feePayer(), fpSigs)
	}
	return encodeTagged(tx.Type(), fields)
}

// RawTransaction is the wire form: 0x-prefixed hex of MarshalBinary.
func (tx *Transaction) RawTransaction() (string, error) {
	b, err := tx.MarshalBinary()
	if err != nil {
		return "", err
	}
	return hexutil.Encode(b), nil
}

// Hash is the network-visible transaction identifier: keccak256 of the
// final encoding. Cached until the next mutation.
func (tx *Transaction) Hash() (common.Hash, error) {
	if h := tx.hash.Load(); h != nil {
		return h.(common.Hash), nil
	}
	b, err := tx.MarshalBinary()
	if err != nil {
		return common.Hash{}, err
	}
	v := crypto.Keccak256Hash(b)
	tx.hash.Store(v)
	tx.size.Store(uint64(len(b)))
	return v, nil
}

// SenderTxHash hashes the encoding without fee payer material:
// tag ++ RLP([fields..., senderSigs]). For plain variants it equals Hash.
func (tx *Transaction) SenderTxHash() (common.Hash, error) {
	if !tx.Type().IsFeeDelegated() {
		return tx.Hash()
	}
	if h := tx.senderHash.Load(); h != nil {
		return h.(common.Hash), nil
	}
	if err := tx.inner.validateFields(); err != nil {
		return common.Hash{}, err
	}
	sigs := tx.inner.rawSignatures()
	if len(sigs) == 0 {
		return common.Hash{}, ErrEmptySignatures
	}
	b, err := encodeTagged(tx.Type(), append(tx.inner.consensusFields(), sigs))
	if err != nil {
		return common.Hash{}, err
	}
	v := crypto.Keccak256Hash(b)
	tx.senderHash.Store(v)
	return v, nil
}

// Size returns the length in bytes of the final encoding, cached from the
// last encode.
func (tx *Transaction) Size() (uint64, error) {
	if s := tx.size.Load(); s != nil {
		return s.(uint64), nil
	}
	b, err := tx.MarshalBinary()
	if err != nil {
		return 0, err
	}
	tx.size.Store(uint64(len(b)))
	return uint64(len(b)), nil
}

// RecoverPublicKeys recovers the public key behind every sender signature,
// in list order.
func (tx *Transaction) RecoverPublicKeys() ([]*ecdsa.PublicKey, error) {
	h, err := tx.SigningHash()
	if err != nil {
		return nil, err
	}
	return recoverAll(h, tx.inner.rawSignatures(), tx.inner.chainID())
}

// RecoverFeePayerPublicKeys recovers the public key behind every fee payer
// signature, in list order.
func (tx *Transaction) RecoverFeePayerPublicKeys() ([]*ecdsa.PublicKey, error) {
	h, err := tx.FeePayerSigningHash()
	if err != nil {
		return nil, err
	}
	return recoverAll(h, tx.inner.rawFeePayerSignatures(), tx.inner.chainID())
}

func recoverAll(h common.Hash, sigs TxSignatures, chainID *big.Int) ([]*ecdsa.PublicKey, error) {
	keys := make([]*ecdsa.PublicKey, len(sigs))
	for i, sig := range sigs {
		pub, err := recoverPublicKey(h, sig, chainID)
		if err != nil {
			return nil, fmt.Errorf("signature %d: %w", i, err)
		}
		keys[i] = pub
	}
	return keys, nil
}

// FillTransaction resolves any still-unset optional field (chain id, gas
// price, sender nonce) through the resolver. Fields already set are left
// untouched. Gas has no network default and stays caller-supplied.
func (tx *Transaction) FillTransaction(ctx context.Context, r TxResolver) error {
	if tx.inner.chainID() == nil {
		id, err := r.ChainID(ctx)
		if err != nil {
			return err
		}
		tx.inner.setChainID(id)
	}
	if tx.inner.gasPrice() == nil {
		price, err := r.SuggestGasPrice(ctx)
		if err != nil {
			return err
		}
		tx.inner.setGasPrice(price)
	}
	if tx.inner.nonce() == nil {
		from := tx.inner.from()
		if from == nil {
			return fmt.Errorf("%w: from", ErrMissingField)
		}
		nonce, err := r.PendingNonceAt(ctx, *from)
		if err != nil {
			return err
		}
		tx.inner.setNonce(new(big.Int).SetUint64(nonce))
	}
	tx.invalidate()
	log.WithField("L", "TX").Debugf("filled %s: nonce=%s gasPrice=%s chainId=%s",
		tx.Type(), tx.inner.nonce(), tx.inner.gasPrice(), tx.inner.chainID())
	return nil
}

// CombineSignedRawTransactions merges the signature lists of several raw
// encodings of the same logical transaction into this one and returns the
// re-encoded result. Non-signature fields must be bitwise identical across
// all inputs; signatures are appended in order of first appearance, with
// exact duplicates dropped.
func (tx *Transaction) CombineSignedRawTransactions(raws ...[]byte) ([]byte, error) {
	if err := tx.inner.validateFields(); err != nil {
		return nil, err
	}
	var (
		seen     = mapset.NewThreadUnsafeSet()
		seenFP   = mapset.NewThreadUnsafeSet()
		sigs     = tx.inner.rawSignatures().Copy()
		fpSigs   = tx.inner.rawFeePayerSignatures().Copy()
		delegate = tx.Type().IsFeeDelegated()
	)
	sigs.seed(seen)
	fpSigs.seed(seenFP)
	for i, raw := range raws {
		dec, err := DecodeTransaction(raw)
		if err != nil {
			return nil, fmt.Errorf("raw %d: %w", i, err)
		}
		if field, ok := txFieldsEqual(tx.inner, dec.inner); !ok {
			return nil, fmt.Errorf("%w: %s (raw %d)", ErrTxMismatch, field, i)
		}
		sigs = sigs.merge(dec.inner.rawSignatures(), seen)
		if delegate {
			fpSigs = fpSigs.merge(dec.inner.rawFeePayerSignatures(), seenFP)
		}
	}
	tx.inner.setSignatures(sigs)
	if delegate {
		tx.inner.setFeePayerSignatures(fpSigs)
	}
	tx.invalidate()
	return tx.MarshalBinary()
}

// txFieldsEqual compares every non-signature field of two payloads and
// names the first one that differs. Fields are compared through their RLP
// encodings, i.e. bitwise on the wire.
func txFieldsEqual(a, b TxData) (string, bool) {
	if a.txType() != b.txType() {
		return "type", false
	}
	names := a.fieldNames()
	af, bf := a.consensusFields(), b.consensusFields()
	for i := range af {
		ae, err1 := rlp.EncodeToBytes(af[i])
		be, err2 := rlp.EncodeToBytes(bf[i])
		if err1 != nil || err2 != nil || !bytes.Equal(ae, be) {
			return names[i], false
		}
	}
	// The chain id never appears in the broadcast fields; a decoded payload
	// only knows it through signature V values, so compare when both sides
	// know it.
	if aid, bid := a.chainID(), b.chainID(); aid != nil && bid != nil && aid.Cmp(bid) != 0 {
		return "chainId", false
	}
	if a.txType().IsFeeDelegated() {
		ap, bp := a.feePayer(), b.feePayer()
		if (ap == nil) != (bp == nil) || (ap != nil && *ap != *bp) {
			return "feePayer", false
		}
	}
	return "", true
}

func (tx *Transaction) String() string {
	return fmt.Sprintf("Tx.%s{nonce:%s gasPrice:%s gas:%s from:%s sigs:%d feePayerSigs:%d}",
		tx.Type(), tx.inner.nonce(), tx.inner.gasPrice(), tx.inner.gas(),
		tx.inner.from(), len(tx.inner.rawSignatures()), len(tx.inner.rawFeePayerSignatures()))
}
