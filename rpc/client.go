package rpc

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethrpc "github.com/ethereum/go-ethereum/rpc"
	"github.com/sirupsen/logrus"

	"github.com/cypress-chain/go-cypress/log"
	"github.com/cypress-chain/go-cypress/models"
)

// Client answers the chain queries needed to complete a draft transaction:
// chain id, suggested gas price and the pending nonce of an account.
type Client struct {
	c      *ethrpc.Client
	logger logrus.FieldLogger
}

var _ models.TxResolver = (*Client)(nil)

// Dial connects a client to the given URL.
func Dial(rawurl string) (*Client, error) {
	return DialContext(context.Background(), rawurl)
}

// DialContext connects a client to the given URL, honoring ctx for the
// initial connection.
func DialContext(ctx context.Context, rawurl string) (*Client, error) {
	c, err := ethrpc.DialContext(ctx, rawurl)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", rawurl, err)
	}
	return NewClient(c), nil
}

// NewClient wraps an existing RPC connection.
func NewClient(c *ethrpc.Client) *Client {
	return &Client{c: c, logger: log.WithField("L", "RPC")}
}

func (c *Client) Close() {
	c.c.Close()
}

// ChainID retrieves the chain id of the connected network.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	var result hexutil.Big
	if err := c.c.CallContext(ctx, &result, "eth_chainId"); err != nil {
		c.logger.Warnf("eth_chainId failed: %v", err)
		return nil, err
	}
	return (*big.Int)(&result), nil
}

// SuggestGasPrice retrieves the currently suggested gas price.
func (c *Client) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	var result hexutil.Big
	if err := c.c.CallContext(ctx, &result, "eth_gasPrice"); err != nil {
		c.logger.Warnf("eth_gasPrice failed: %v", err)
		return nil, err
	}
	return (*big.Int)(&result), nil
}

// PendingNonceAt returns the account nonce of addr in the pending state,
// which is the nonce a new transaction from addr should use.
func (c *Client) PendingNonceAt(ctx context.Context, addr common.Address) (uint64, error) {
	var result hexutil.Uint64
	if err := c.c.CallContext(ctx, &result, "eth_getTransactionCount", addr, "pending"); err != nil {
		c.logger.Warnf("eth_getTransactionCount failed: %v", err)
		return 0, err
	}
	return uint64(result), nil
}
