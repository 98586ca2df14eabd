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
	"encoding/json"
	"errors"
	"math/big"
	"testing"
)

func TestArgsRejectDataInputConflict(t *testing.T) {
	sender := addrOf(key1(t))
	args := vtArgs(sender)
	args.Data = hbytes([]byte{0x01})
	args.Input = hbytes([]byte{0x01}) // same bytes, still a conflict

	if _, err := NewValueTransferMemo(args); !errors.Is(err, ErrConflictingField) {
		t.Errorf("memo: got %v, want ErrConflictingField", err)
	}
	if _, err := NewChainDataAnchoring(args); !errors.Is(err, ErrConflictingField) {
		t.Errorf("anchoring: got %v, want ErrConflictingField", err)
	}
}

func TestArgsValueTransferRejectsPayload(t *testing.T) {
	args := vtArgs(addrOf(key1(t)))
	args.Input = hbytes([]byte{0x01})
	if _, err := NewValueTransfer(args); !errors.Is(err, ErrInvalidFieldFormat) {
		t.Errorf("plain: got %v, want ErrInvalidFieldFormat", err)
	}
	if _, err := NewFeeDelegatedValueTransfer(args); !errors.Is(err, ErrInvalidFieldFormat) {
		t.Errorf("fee delegated: got %v, want ErrInvalidFieldFormat", err)
	}
}

func TestArgsDataAndInputAreInterchangeable(t *testing.T) {
	sender := addrOf(key1(t))
	payload := []byte("memo bytes")

	viaData := vtArgs(sender)
	viaData.Data = hbytes(payload)
	viaInput := vtArgs(sender)
	viaInput.Input = hbytes(payload)

	tx1, err := NewValueTransferMemo(viaData)
	if err != nil {
		t.Fatalf("via data: %v", err)
	}
	tx2, err := NewValueTransferMemo(viaInput)
	if err != nil {
		t.Fatalf("via input: %v", err)
	}
	if string(tx1.Data()) != string(payload) || string(tx2.Data()) != string(payload) {
		t.Errorf("payload lost: %q / %q", tx1.Data(), tx2.Data())
	}
}

func TestArgsJSONConstruction(t *testing.T) {
	blob := `{
		"from": "0xa94f5374fce5edbc8e2a8697c15331677e6ebf0b",
		"to": "0x7b65b75d204abed71587c9e519a89277766ee1d0",
		"value": "0xde0b6b3a7640000",
		"gas": "0x5208",
		"gasPrice": "0x5d21dba00",
		"nonce": "0x19",
		"chainId": "0x7e3"
	}`
	var args TxArgs
	if err := json.Unmarshal([]byte(blob), &args); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	tx, err := NewValueTransfer(args)
	if err != nil {
		t.Fatalf("NewValueTransfer: %v", err)
	}
	if err := tx.ValidateFields(); err != nil {
		t.Fatalf("ValidateFields: %v", err)
	}
	if tx.Nonce().Cmp(big.NewInt(0x19)) != 0 {
		t.Errorf("nonce = %s, want 25", tx.Nonce())
	}
	if tx.ChainID().Cmp(big.NewInt(0x7e3)) != 0 {
		t.Errorf("chainId = %s, want 2019", tx.ChainID())
	}
}

func TestArgsBuildEveryVariant(t *testing.T) {
	sender := addrOf(key1(t))
	payer := addrOf(key2(t))
	args := vtArgs(sender)
	args.FeePayer = &payer

	withPayload := args
	withPayload.Input = hbytes([]byte{0x01})

	cases := []struct {
		name string
		tag  TxType
		tx   func() (*Transaction, error)
	}{
		{"value transfer", TxTypeValueTransfer, func() (*Transaction, error) { return NewValueTransfer(args) }},
		{"fd value transfer", TxTypeFeeDelegatedValueTransfer, func() (*Transaction, error) { return NewFeeDelegatedValueTransfer(args) }},
		{"memo", TxTypeValueTransferMemo, func() (*Transaction, error) { return NewValueTransferMemo(withPayload) }},
		{"fd memo", TxTypeFeeDelegatedValueTransferMemo, func() (*Transaction, error) { return NewFeeDelegatedValueTransferMemo(withPayload) }},
		{"anchoring", TxTypeChainDataAnchoring, func() (*Transaction, error) { return NewChainDataAnchoring(withPayload) }},
		{"fd anchoring", TxTypeFeeDelegatedChainDataAnchoring, func() (*Transaction, error) { return NewFeeDelegatedChainDataAnchoring(withPayload) }},
	}
	for _, c := range cases {
		tx, err := c.tx()
		if err != nil {
			t.Errorf("%s: %v", c.name, err)
			continue
		}
		if tx.Type() != c.tag {
			t.Errorf("%s: tag = 0x%02x, want 0x%02x", c.name, byte(tx.Type()), byte(c.tag))
		}
		if c.tag.IsFeeDelegated() && (tx.FeePayer() == nil || *tx.FeePayer() != payer) {
			t.Errorf("%s: fee payer not carried over", c.name)
		}
	}
}
