package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

// fakeNode answers the three methods a resolver needs with fixed values.
func fakeNode(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage   `json:"id"`
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		var result string
		switch req.Method {
		case "eth_chainId":
			result = "0x7e3"
		case "eth_gasPrice":
			result = "0x5d21dba00"
		case "eth_getTransactionCount":
			if len(req.Params) != 2 || string(req.Params[1]) != `"pending"` {
				t.Errorf("eth_getTransactionCount params = %s, want [addr, \"pending\"]", req.Params)
			}
			result = "0x2a"
		default:
			t.Errorf("unexpected method %s", req.Method)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%s,"result":"%s"}`, req.ID, result)
	}))
}

func TestClientResolverQueries(t *testing.T) {
	srv := fakeNode(t)
	defer srv.Close()

	c, err := Dial(srv.URL)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer c.Close()

	ctx := context.Background()

	id, err := c.ChainID(ctx)
	if err != nil {
		t.Fatalf("ChainID: %v", err)
	}
	if id.Cmp(big.NewInt(2019)) != 0 {
		t.Errorf("chain id = %s, want 2019", id)
	}

	price, err := c.SuggestGasPrice(ctx)
	if err != nil {
		t.Fatalf("SuggestGasPrice: %v", err)
	}
	if price.Cmp(big.NewInt(25000000000)) != 0 {
		t.Errorf("gas price = %s, want 25000000000", price)
	}

	nonce, err := c.PendingNonceAt(ctx, common.HexToAddress("0xa94f5374fce5edbc8e2a8697c15331677e6ebf0b"))
	if err != nil {
		t.Fatalf("PendingNonceAt: %v", err)
	}
	if nonce != 42 {
		t.Errorf("nonce = %d, want 42", nonce)
	}
}

func TestDialFailure(t *testing.T) {
	if _, err := Dial("://not-a-url"); err == nil {
		t.Error("expected error for malformed URL")
	}
}
