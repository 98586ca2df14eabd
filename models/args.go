package models

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// TxArgs is the user-facing construction shape for every transaction
// variant. Fields left nil stay unset on the resulting transaction, so a
// draft built from partial args can be completed later by FillTransaction.
type TxArgs struct {
	From     *common.Address `json:"from"`
	To       *common.Address `json:"to"`
	FeePayer *common.Address `json:"feePayer"`
	Nonce    *hexutil.Big    `json:"nonce"`
	GasPrice *hexutil.Big    `json:"gasPrice"`
	Gas      *hexutil.Big    `json:"gas"`
	Value    *hexutil.Big    `json:"value"`
	ChainID  *hexutil.Big    `json:"chainId"`

	// Data and Input are two names for the same payload. Setting both is
	// rejected even when the bytes agree.
	Data  *hexutil.Bytes `json:"data"`
	Input *hexutil.Bytes `json:"input"`
}

// payload resolves the Data/Input pair into a single byte slice.
func (args *TxArgs) payload() ([]byte, error) {
	if args.Data != nil && args.Input != nil {
		return nil, fmt.Errorf("%w: both data and input set", ErrConflictingField)
	}
	if args.Input != nil {
		return copyBytes(*args.Input), nil
	}
	if args.Data != nil {
		return copyBytes(*args.Data), nil
	}
	return nil, nil
}

func (args *TxArgs) common() txCommon {
	return txCommon{
		AccountNonce: (*big.Int)(args.Nonce),
		Price:        (*big.Int)(args.GasPrice),
		GasLimit:     (*big.Int)(args.Gas),
		ChainID:      (*big.Int)(args.ChainID),
		From:         copyAddressPtr(args.From),
	}
}

func (args *TxArgs) delegate() feeDelegate {
	return feeDelegate{Payer: copyAddressPtr(args.FeePayer)}
}

func (args *TxArgs) valueTransfer() (ValueTransferTx, error) {
	if args.Data != nil || args.Input != nil {
		return ValueTransferTx{}, fmt.Errorf("%w: value transfer carries no input", ErrInvalidFieldFormat)
	}
	return ValueTransferTx{
		txCommon:  args.common(),
		Recipient: copyAddressPtr(args.To),
		Amount:    (*big.Int)(args.Value),
	}, nil
}

func (args *TxArgs) valueTransferMemo() (ValueTransferMemoTx, error) {
	payload, err := args.payload()
	if err != nil {
		return ValueTransferMemoTx{}, err
	}
	return ValueTransferMemoTx{
		txCommon:  args.common(),
		Recipient: copyAddressPtr(args.To),
		Amount:    (*big.Int)(args.Value),
		Payload:   payload,
	}, nil
}

func (args *TxArgs) chainDataAnchoring() (ChainDataAnchoringTx, error) {
	payload, err := args.payload()
	if err != nil {
		return ChainDataAnchoringTx{}, err
	}
	return ChainDataAnchoringTx{
		txCommon:     args.common(),
		AnchoredData: payload,
	}, nil
}

// NewValueTransfer builds a 0x08 draft from args.
func NewValueTransfer(args TxArgs) (*Transaction, error) {
	inner, err := args.valueTransfer()
	if err != nil {
		return nil, err
	}
	return NewTransaction(&inner), nil
}

// NewFeeDelegatedValueTransfer builds a 0x09 draft from args.
func NewFeeDelegatedValueTransfer(args TxArgs) (*Transaction, error) {
	inner, err := args.valueTransfer()
	if err != nil {
		return nil, err
	}
	return NewTransaction(&FeeDelegatedValueTransferTx{
		ValueTransferTx: inner,
		feeDelegate:     args.delegate(),
	}), nil
}

// NewValueTransferMemo builds a 0x10 draft from args.
func NewValueTransferMemo(args TxArgs) (*Transaction, error) {
	inner, err := args.valueTransferMemo()
	if err != nil {
		return nil, err
	}
	return NewTransaction(&inner), nil
}

// NewFeeDelegatedValueTransferMemo builds a 0x11 draft from args.
func NewFeeDelegatedValueTransferMemo(args TxArgs) (*Transaction, error) {
	inner, err := args.valueTransferMemo()
	if err != nil {
		return nil, err
	}
	return NewTransaction(&FeeDelegatedValueTransferMemoTx{
		ValueTransferMemoTx: inner,
		feeDelegate:         args.delegate(),
	}), nil
}

// NewChainDataAnchoring builds a 0x48 draft from args.
func NewChainDataAnchoring(args TxArgs) (*Transaction, error) {
	inner, err := args.chainDataAnchoring()
	if err != nil {
		return nil, err
	}
	return NewTransaction(&inner), nil
}

// NewFeeDelegatedChainDataAnchoring builds a 0x49 draft from args.
func NewFeeDelegatedChainDataAnchoring(args TxArgs) (*Transaction, error) {
	inner, err := args.chainDataAnchoring()
	if err != nil {
		return nil, err
	}
	return NewTransaction(&FeeDelegatedChainDataAnchoringTx{
		ChainDataAnchoringTx: inner,
		feeDelegate:          args.delegate(),
	}), nil
}
