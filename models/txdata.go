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

// TxData is implemented by every transaction variant. The envelope owns the
// signing and decoding protocol; the variant contributes its type tag, its
// payload fields and their canonical order.
type TxData interface {
	txType() TxType
	copy() TxData // creates a deep copy and initializes all fields

	chainID() *big.Int
	nonce() *big.Int
	gasPrice() *big.Int
	gas() *big.Int
	from() *common.Address
	to() *common.Address
	value() *big.Int
	data() []byte

	setChainID(*big.Int)
	setNonce(*big.Int)
	setGasPrice(*big.Int)

	rawSignatures() TxSignatures
	setSignatures(TxSignatures)

	feePayer() *common.Address
	rawFeePayerSignatures() TxSignatures
	setFeePayerSignatures(TxSignatures)

	// consensusFields returns the canonical broadcast field list excluding
	// signature and fee payer material; fieldNames runs parallel to it.
	// validateFields must have succeeded before consensusFields is called.
	consensusFields() []interface{}
	fieldNames() []string

	// validateFields reports the first unset required field.
	validateFields() error
}

// txCommon holds the fields shared by every variant. The four scalars are
// *big.Int so that an unset (Draft) field is distinguishable from zero
// until FillTransaction or the caller resolves it.
type txCommon struct {
	AccountNonce *big.Int
	Price        *big.Int
	GasLimit     *big.Int
	ChainID      *big.Int
	From         *common.Address
	TxSigs       TxSignatures
}

func (tc *txCommon) chainID() *big.Int      { return tc.ChainID }
func (tc *txCommon) nonce() *big.Int        { return tc.AccountNonce }
func (tc *txCommon) gasPrice() *big.Int     { return tc.Price }
func (tc *txCommon) gas() *big.Int          { return tc.GasLimit }
func (tc *txCommon) from() *common.Address  { return tc.From }
func (tc *txCommon) to() *common.Address    { return nil }
func (tc *txCommon) value() *big.Int        { return nil }
func (tc *txCommon) data() []byte           { return nil }
func (tc *txCommon) setChainID(id *big.Int) { tc.ChainID = id }
func (tc *txCommon) setNonce(n *big.Int)    { tc.AccountNonce = n }
func (tc *txCommon) setGasPrice(p *big.Int) { tc.Price = p }

func (tc *txCommon) rawSignatures() TxSignatures     { return tc.TxSigs }
func (tc *txCommon) setSignatures(sigs TxSignatures) { tc.TxSigs = sigs }

// Fee payer defaults for non-fee-delegated variants; the feeDelegate embed
// shadows these on fee-delegated ones.
func (tc *txCommon) feePayer() *common.Address           { return nil }
func (tc *txCommon) rawFeePayerSignatures() TxSignatures { return nil }
func (tc *txCommon) setFeePayerSignatures(TxSignatures)  {}

// validateCommon reports the first unset field in the documented order:
// nonce, gas, gasPrice, chainId, then the sender address.
func (tc *txCommon) validateCommon() error {
	switch {
	case tc.AccountNonce == nil:
		return fmt.Errorf("%w: nonce", ErrMissingField)
	case tc.GasLimit == nil:
		return fmt.Errorf("%w: gas", ErrMissingField)
	case tc.Price == nil:
		return fmt.Errorf("%w: gasPrice", ErrMissingField)
	case tc.ChainID == nil:
		return fmt.Errorf("%w: chainId", ErrMissingField)
	case tc.From == nil:
		return fmt.Errorf("%w: from", ErrMissingField)
	}
	return nil
}

func (tc *txCommon) copyCommon() txCommon {
	return txCommon{
		AccountNonce: bigCopy(tc.AccountNonce),
		Price:        bigCopy(tc.Price),
		GasLimit:     bigCopy(tc.GasLimit),
		ChainID:      bigCopy(tc.ChainID),
		From:         copyAddressPtr(tc.From),
		TxSigs:       tc.TxSigs.Copy(),
	}
}

// feeDelegate carries the fee payer address and its parallel signature
// list. Only fee-delegated variants embed it.
type feeDelegate struct {
	Payer     *common.Address
	PayerSigs TxSignatures
}

func (fd *feeDelegate) feePayer() *common.Address           { return fd.Payer }
func (fd *feeDelegate) rawFeePayerSignatures() TxSignatures { return fd.PayerSigs }
func (fd *feeDelegate) setFeePayerSignatures(sigs TxSignatures) {
	fd.PayerSigs = sigs
}

func (fd *feeDelegate) validateFeePayer() error {
	if fd.Payer == nil {
		return fmt.Errorf("%w: feePayer", ErrMissingField)
	}
	return nil
}

func (fd *feeDelegate) copyFeeDelegate() feeDelegate {
	return feeDelegate{
		Payer:     copyAddressPtr(fd.Payer),
		PayerSigs: fd.PayerSigs.Copy(),
	}
}
