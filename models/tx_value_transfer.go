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
	"github.com/ethereum/go-ethereum/rlp"
)

// ValueTransferTx moves value from the sender to one recipient.
// Canonical field order: nonce, gasPrice, gas, to, value, from.
type ValueTransferTx struct {
	txCommon
	Recipient *common.Address
	Amount    *big.Int
}

func (tx *ValueTransferTx) txType() TxType       { return TxTypeValueTransfer }
func (tx *ValueTransferTx) to() *common.Address  { return tx.Recipient }
func (tx *ValueTransferTx) value() *big.Int      { return tx.Amount }

// copy creates a deep copy of the transaction data and initializes all fields.
func (tx *ValueTransferTx) copy() TxData {
	return &ValueTransferTx{
		txCommon:  tx.copyCommon(),
		Recipient: copyAddressPtr(tx.Recipient),
		Amount:    bigCopy(tx.Amount),
	}
}

func (tx *ValueTransferTx) validateFields() error {
	if err := tx.validateCommon(); err != nil {
		return err
	}
	if tx.Recipient == nil {
		return fmt.Errorf("%w: to", ErrMissingField)
	}
	if tx.Amount == nil {
		return fmt.Errorf("%w: value", ErrMissingField)
	}
	return nil
}

func (tx *ValueTransferTx) consensusFields() []interface{} {
	return []interface{}{tx.AccountNonce, tx.Price, tx.GasLimit, *tx.Recipient, tx.Amount, *tx.From}
}

func (tx *ValueTransferTx) fieldNames() []string {
	return []string{"nonce", "gasPrice", "gas", "to", "value", "from"}
}

// valueTransferWire mirrors the broadcast list. Scalars stay raw bytes so
// non-minimal encodings are accepted and normalized.
type valueTransferWire struct {
	Nonce    []byte
	GasPrice []byte
	Gas      []byte
	To       []byte
	Value    []byte
	From     []byte
	Sigs     []*wireSignature
}

func (w *valueTransferWire) build() (*ValueTransferTx, error) {
	to, err := addressFromWire(w.To, "to")
	if err != nil {
		return nil, err
	}
	from, err := addressFromWire(w.From, "from")
	if err != nil {
		return nil, err
	}
	sigs := signaturesFromWire(w.Sigs)
	return &ValueTransferTx{
		txCommon: txCommon{
			AccountNonce: bigFromWire(w.Nonce),
			Price:        bigFromWire(w.GasPrice),
			GasLimit:     bigFromWire(w.Gas),
			ChainID:      chainIDFromSignatures(sigs),
			From:         from,
			TxSigs:       sigs,
		},
		Recipient: to,
		Amount:    bigFromWire(w.Value),
	}, nil
}

// DecodeValueTransfer decodes the canonical 0x08 encoding.
func DecodeValueTransfer(raw []byte) (*ValueTransferTx, error) {
	payload, err := checkTag(raw, TxTypeValueTransfer)
	if err != nil {
		return nil, err
	}
	var w valueTransferWire
	if err := rlp.DecodeBytes(payload, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFieldFormat, err)
	}
	return w.build()
}

// FeeDelegatedValueTransferTx is ValueTransferTx with a fee payer who
// covers the gas cost and co-signs the envelope.
type FeeDelegatedValueTransferTx struct {
	ValueTransferTx
	feeDelegate
}

func (tx *FeeDelegatedValueTransferTx) txType() TxType { return TxTypeFeeDelegatedValueTransfer }

func (tx *FeeDelegatedValueTransferTx) copy() TxData {
	return &FeeDelegatedValueTransferTx{
		ValueTransferTx: *(tx.ValueTransferTx.copy().(*ValueTransferTx)),
		feeDelegate:     tx.copyFeeDelegate(),
	}
}

func (tx *FeeDelegatedValueTransferTx) validateFields() error {
	if err := tx.ValueTransferTx.validateFields(); err != nil {
		return err
	}
	return tx.validateFeePayer()
}

type feeDelegatedValueTransferWire struct {
	Nonce        []byte
	GasPrice     []byte
	Gas          []byte
	To           []byte
	Value        []byte
	From         []byte
	Sigs         []*wireSignature
	FeePayer     []byte
	FeePayerSigs []*wireSignature
}

// DecodeFeeDelegatedValueTransfer decodes the canonical 0x09 encoding.
func DecodeFeeDelegatedValueTransfer(raw []byte) (*FeeDelegatedValueTransferTx, error) {
	payload, err := checkTag(raw, TxTypeFeeDelegatedValueTransfer)
	if err != nil {
		return nil, err
	}
	var w feeDelegatedValueTransferWire
	if err := rlp.DecodeBytes(payload, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFieldFormat, err)
	}
	plain, err := (&valueTransferWire{
		Nonce: w.Nonce, GasPrice: w.GasPrice, Gas: w.Gas,
		To: w.To, Value: w.Value, From: w.From, Sigs: w.Sigs,
	}).build()
	if err != nil {
		return nil, err
	}
	payer, err := addressFromWire(w.FeePayer, "feePayer")
	if err != nil {
		return nil, err
	}
	fpSigs := signaturesFromWire(w.FeePayerSigs)
	if plain.ChainID == nil {
		plain.ChainID = chainIDFromSignatures(fpSigs)
	}
	return &FeeDelegatedValueTransferTx{
		ValueTransferTx: *plain,
		feeDelegate:     feeDelegate{Payer: payer, PayerSigs: fpSigs},
	}, nil
}
