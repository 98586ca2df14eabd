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

// ValueTransferMemoTx is a value transfer carrying an arbitrary memo.
// Canonical field order: nonce, gasPrice, gas, to, value, from, input.
type ValueTransferMemoTx struct {
	txCommon
	Recipient *common.Address
	Amount    *big.Int
	Payload   []byte
}

func (tx *ValueTransferMemoTx) txType() TxType      { return TxTypeValueTransferMemo }
func (tx *ValueTransferMemoTx) to() *common.Address { return tx.Recipient }
func (tx *ValueTransferMemoTx) value() *big.Int     { return tx.Amount }
func (tx *ValueTransferMemoTx) data() []byte        { return tx.Payload }

// copy creates a deep copy of the transaction data and initializes all fields.
func (tx *ValueTransferMemoTx) copy() TxData {
	return &ValueTransferMemoTx{
		txCommon:  tx.copyCommon(),
		Recipient: copyAddressPtr(tx.Recipient),
		Amount:    bigCopy(tx.Amount),
		Payload:   copyBytes(tx.Payload),
	}
}

func (tx *ValueTransferMemoTx) validateFields() error {
	if err := tx.validateCommon(); err != nil {
		return err
	}
	if tx.Recipient == nil {
		return fmt.Errorf("%w: to", ErrMissingField)
	}
	if tx.Amount == nil {
		return fmt.Errorf("%w: value", ErrMissingField)
	}
	if tx.Payload == nil {
		return fmt.Errorf("%w: input", ErrMissingField)
	}
	return nil
}

func (tx *ValueTransferMemoTx) consensusFields() []interface{} {
	return []interface{}{tx.AccountNonce, tx.Price, tx.GasLimit, *tx.Recipient, tx.Amount, *tx.From, tx.Payload}
}

func (tx *ValueTransferMemoTx) fieldNames() []string {
	return []string{"nonce", "gasPrice", "gas", "to", "value", "from", "input"}
}

type valueTransferMemoWire struct {
	Nonce    []byte
	GasPrice []byte
	Gas      []byte
	To       []byte
	Value    []byte
	From     []byte
	Payload  []byte
	Sigs     []*wireSignature
}

func (w *valueTransferMemoWire) build() (*ValueTransferMemoTx, error) {
	to, err := addressFromWire(w.To, "to")
	if err != nil {
		return nil, err
	}
	from, err := addressFromWire(w.From, "from")
	if err != nil {
		return nil, err
	}
	sigs := signaturesFromWire(w.Sigs)
	return &ValueTransferMemoTx{
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
		Payload:   copyBytes(w.Payload),
	}, nil
}

// DecodeValueTransferMemo decodes the canonical 0x10 encoding.
func DecodeValueTransferMemo(raw []byte) (*ValueTransferMemoTx, error) {
	payload, err := checkTag(raw, TxTypeValueTransferMemo)
	if err != nil {
		return nil, err
	}
	var w valueTransferMemoWire
	if err := rlp.DecodeBytes(payload, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFieldFormat, err)
	}
	return w.build()
}

// FeeDelegatedValueTransferMemoTx is ValueTransferMemoTx with a fee payer.
type FeeDelegatedValueTransferMemoTx struct {
	ValueTransferMemoTx
	feeDelegate
}

func (tx *FeeDelegatedValueTransferMemoTx) txType() TxType {
	return TxTypeFeeDelegatedValueTransferMemo
}

func (tx *FeeDelegatedValueTransferMemoTx) copy() TxData {
	return &FeeDelegatedValueTransferMemoTx{
		ValueTransferMemoTx: *(tx.ValueTransferMemoTx.copy().(*ValueTransferMemoTx)),
		feeDelegate:         tx.copyFeeDelegate(),
	}
}

func (tx *FeeDelegatedValueTransferMemoTx) validateFields() error {
	if err := tx.ValueTransferMemoTx.validateFields(); err != nil {
		return err
	}
	return tx.validateFeePayer()
}

type feeDelegatedValueTransferMemoWire struct {
	Nonce        []byte
	GasPrice     []byte
	Gas          []byte
	To           []byte
	Value        []byte
	From         []byte
	Payload      []byte
	Sigs         []*wireSignature
	FeePayer     []byte
	FeePayerSigs []*wireSignature
}

// DecodeFeeDelegatedValueTransferMemo decodes the canonical 0x11 encoding.
func DecodeFeeDelegatedValueTransferMemo(raw []byte) (*FeeDelegatedValueTransferMemoTx, error) {
	payload, err := checkTag(raw, TxTypeFeeDelegatedValueTransferMemo)
	if err != nil {
		return nil, err
	}
	var w feeDelegatedValueTransferMemoWire
	if err := rlp.DecodeBytes(payload, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFieldFormat, err)
	}
	plain, err := (&valueTransferMemoWire{
		Nonce: w.Nonce, GasPrice: w.GasPrice, Gas: w.Gas,
		To: w.To, Value: w.Value, From: w.From, Payload: w.Payload, Sigs: w.Sigs,
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
	return &FeeDelegatedValueTransferMemoTx{
		ValueTransferMemoTx: *plain,
		feeDelegate:         feeDelegate{Payer: payer, PayerSigs: fpSigs},
	}, nil
}
