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
	"errors"
	"math/big"
	"testing"

	mapset "github.com/deckarep/golang-set"
)

func mustSig(t *testing.T, v, r, s int64) *TxSignature {
	t.Helper()
	sig, err := NewTxSignature(big.NewInt(v), big.NewInt(r), big.NewInt(s))
	if err != nil {
		t.Fatalf("NewTxSignature: %v", err)
	}
	return sig
}

func TestNewTxSignatureRejectsNilComponents(t *testing.T) {
	if _, err := NewTxSignature(nil, big.NewInt(1), big.NewInt(2)); !errors.Is(err, ErrInvalidSignatureFormat) {
		t.Errorf("nil V: got %v, want ErrInvalidSignatureFormat", err)
	}
	if _, err := NewTxSignature(big.NewInt(1), big.NewInt(-1), big.NewInt(2)); !errors.Is(err, ErrInvalidSignatureFormat) {
		t.Errorf("negative R: got %v, want ErrInvalidSignatureFormat", err)
	}
}

func TestSignatureFromBytesFoldsChainID(t *testing.T) {
	raw := make([]byte, 65)
	raw[31] = 0x01 // R = 1
	raw[63] = 0x02 // S = 2
	raw[64] = 1    // recovery id

	sig, err := SignatureFromBytes(raw, big.NewInt(2019))
	if err != nil {
		t.Fatalf("SignatureFromBytes: %v", err)
	}
	// V = recid + chainId*2 + 35
	if want := big.NewInt(1 + 2019*2 + 35); sig.V.Cmp(want) != 0 {
		t.Errorf("V = %s, want %s", sig.V, want)
	}
	if sig.R.Cmp(big.NewInt(1)) != 0 || sig.S.Cmp(big.NewInt(2)) != 0 {
		t.Errorf("R,S = %s,%s, want 1,2", sig.R, sig.S)
	}
	if derived := deriveChainId(sig.V); derived.Cmp(big.NewInt(2019)) != 0 {
		t.Errorf("derived chain id %s, want 2019", derived)
	}
}

func TestSignatureFromBytesShapeErrors(t *testing.T) {
	if _, err := SignatureFromBytes(make([]byte, 64), big.NewInt(1)); !errors.Is(err, ErrInvalidSignatureFormat) {
		t.Errorf("short input: got %v, want ErrInvalidSignatureFormat", err)
	}
	if _, err := SignatureFromBytes(make([]byte, 65), nil); !errors.Is(err, ErrMissingField) {
		t.Errorf("nil chain id: got %v, want ErrMissingField", err)
	}
}

func TestSignaturesFromVRSLists(t *testing.T) {
	lists := [][]*big.Int{
		{big.NewInt(4073), big.NewInt(10), big.NewInt(20)},
		{big.NewInt(4074), big.NewInt(30), big.NewInt(40)},
	}
	sigs, err := SignaturesFromVRSLists(lists)
	if err != nil {
		t.Fatalf("SignaturesFromVRSLists: %v", err)
	}
	if len(sigs) != 2 {
		t.Fatalf("got %d signatures, want 2", len(sigs))
	}
	if sigs[1].R.Cmp(big.NewInt(30)) != 0 {
		t.Errorf("sigs[1].R = %s, want 30", sigs[1].R)
	}

	if _, err := SignaturesFromVRSLists([][]*big.Int{{big.NewInt(1), big.NewInt(2)}}); !errors.Is(err, ErrInvalidSignatureFormat) {
		t.Errorf("2-element list: got %v, want ErrInvalidSignatureFormat", err)
	}
}

func TestSignatureEqualIgnoresRepresentation(t *testing.T) {
	a := mustSig(t, 4073, 100, 200)
	b := mustSig(t, 4073, 100, 200)
	c := mustSig(t, 4074, 100, 200)
	if !a.Equal(b) {
		t.Error("identical triples not equal")
	}
	if a.Equal(c) {
		t.Error("different V reported equal")
	}
}

func TestMergePreservesFirstAppearanceOrder(t *testing.T) {
	s1 := mustSig(t, 4073, 1, 1)
	s2 := mustSig(t, 4073, 2, 2)
	s3 := mustSig(t, 4074, 3, 3)

	seen := mapset.NewThreadUnsafeSet()
	base := TxSignatures{s1, s2}
	base.seed(seen)

	merged := base.merge(TxSignatures{s2, s3, s1}, seen)
	if len(merged) != 3 {
		t.Fatalf("got %d signatures, want 3", len(merged))
	}
	for i, want := range []*TxSignature{s1, s2, s3} {
		if !merged[i].Equal(want) {
			t.Errorf("merged[%d] = %s, want %s", i, merged[i], want)
		}
	}
}

func TestCopyIsDeep(t *testing.T) {
	orig := mustSig(t, 4073, 7, 9)
	cpy := orig.Copy()
	cpy.R.SetInt64(99)
	if orig.R.Cmp(big.NewInt(7)) != 0 {
		t.Error("mutating the copy changed the original")
	}
}
