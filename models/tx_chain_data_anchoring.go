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

	"github.com/ethereum/go-ethereum/rlp"
)

// ChainDataAnchoringTx anchors serialized child-chain data onto the parent
// chain. Canonical field order: nonce, gasPrice, gas, from, input.
type ChainDataAnchoringTx struct {
	txCommon
	AnchoredData []byte
}

func (tx *ChainDataAnchoringTx) txType() TxType { return TxTypeChainDataAnchoring }
func (tx *ChainDataAnchoringTx) data() []byte   { return tx.AnchoredData }

// copy creates a deep copy of the transaction data and initializes all fields.
func (tx *ChainDataAnchoringTx) copy() TxData {
	return &ChainDataAnchoringTx{
		txCommon:     tx.copyCommon(),
		AnchoredData: copyBytes(tx.AnchoredData),
	}
}

func (tx *ChainDataAnchoringTx) validateFields() error {
	if err := tx.validateCommon(); err != nil {
		return err
	}
	if tx.AnchoredData == nil {
		return fmt.Errorf("%w: input", ErrMissingField)
	}
	return nil
}

func (tx *ChainDataAnchoringTx) consensusFields() []interface{} {
	return []interface{}{tx.AccountNonce, tx.Price, tx.GasLimit, *tx.From, tx.AnchoredData}
}

func (tx *ChainDataAnchoringTx) fieldNames() []string {
	return []string{"nonce", "gasPrice", "gas", "from", "input"}
}

type chainDataAnchoringWire struct {
	Nonce    []byte
	GasPrice []byte
	Gas      []byte
	From     []byte
	Payload  []byte
	Sigs     []*wireSignature
}

func (w *chainDataAnchoringWire) build() (*ChainDataAnchoringTx, error) {
	from, err := addressFromWire(w.From, "from")
	if err != nil {
		return nil, err
	}
	sigs := signaturesFromWire(w.Sigs)
	return &ChainDataAnchoringTx{
		txCommon: txCommon{
			AccountNonce: bigFromWire(w.Nonce),
			Price:        bigFromWire(w.GasPrice),
			GasLimit:     bigFromWire(w.Gas),
			ChainID:      chainIDFromSignatures(sigs),
			From:         from,
			TxSigs:       sigs,
		},
		AnchoredData: copyBytes(w.Payload),
	}, nil
}

// DecodeChainDataAnchoring decodes the canonical 0x48 encoding.
func DecodeChainDataAnchoring(raw []byte) (*ChainDataAnchoringTx, error) {
	payload, err := checkTag(raw, TxTypeChainDataAnchoring)
	if err != nil {
		return nil, err
	}
	var w chainDataAnchoringWire
	if err := rlp.DecodeBytes(payload, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFieldFormat, err)
	}
	return w.build()
}

// FeeDelegatedChainDataAnchoringTx is ChainDataAnchoringTx with a fee payer.
type FeeDelegatedChainDataAnchoringTx struct {
	ChainDataAnchoringTx
	feeDelegate
}

func (tx *FeeDelegatedChainDataAnchoringTx) txType() TxType {
	return TxTypeFeeDelegatedChainDataAnchoring
}

func (tx *FeeDelegatedChainDataAnchoringTx) copy() TxData {
	return &FeeDelegatedChainDataAnchoringTx{
		ChainDataAnchoringTx: *(tx.ChainDataAnchoringTx.copy().(*ChainDataAnchoringTx)),
		feeDelegate:          tx.copyFeeDelegate(),
	}
}

func (tx *FeeDelegatedChainDataAnchoringTx) validateFields() error {
	if err := tx.ChainDataAnchoringTx.validateFields(); err != nil {
		return err
	}
	return tx.validateFeePayer()
}

type feeDelegatedChainDataAnchoringWire struct {
	Nonce        []byte
	GasPrice     []byte
	Gas          []byte
	From         []byte
	Payload      []byte
	Sigs         []*wireSignature
	FeePayer     []byte
	FeePayerSigs []*wireSignature
}

// DecodeFeeDelegatedChainDataAnchoring decodes the canonical 0x49 encoding.
func DecodeFeeDelegatedChainDataAnchoring(raw []byte) (*FeeDelegatedChainDataAnchoringTx, error) {
	payload, err := checkTag(raw, TxTypeFeeDelegatedChainDataAnchoring)
	if err != nil {
		return nil, err
	}
	var w feeDelegatedChainDataAnchoringWire
	if err := rlp.DecodeBytes(payload, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFieldFormat, err)
	}
	plain, err := (&chainDataAnchoringWire{
		Nonce: w.Nonce, GasPrice: w.GasPrice, Gas: w.Gas,
		From: w.From, Payload: w.Payload, Sigs: w.Sigs,
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
	return &FeeDelegatedChainDataAnchoringTx{
		ChainDataAnchoringTx: *plain,
		feeDelegate:          feeDelegate{Payer: payer, PayerSigs: fpSigs},
	}, nil
}
