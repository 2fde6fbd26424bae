package common

import (
	"math/big"

	"github.com/ethereum/go-ethereum/core/types"
)

const (
	TxStatusError    = "error"
	TxStatusNotFound = "notfound"
	TxStatusPending  = "pending"
	TxStatusDone     = "done"
	TxStatusReverted = "reverted"
	TxStatusLost     = "lost"
)

type TxInfo struct {
	Status      string
	Tx          *types.Transaction
	Receipt     *types.Receipt
	BlockHeader *types.Header
}

// IsFinal reports whether the status can no longer change.
func (ti *TxInfo) IsFinal() bool {
	switch ti.Status {
	case TxStatusDone, TxStatusReverted, TxStatusLost:
		return true
	}
	return false
}

// GasCost is the fee actually paid, gas used times effective gas price.
func (ti *TxInfo) GasCost() *big.Int {
	if ti.Receipt == nil {
		return big.NewInt(0)
	}
	price := ti.Receipt.EffectiveGasPrice
	if price == nil && ti.Tx != nil {
		price = ti.Tx.GasPrice()
	}
	if price == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Mul(new(big.Int).SetUint64(ti.Receipt.GasUsed), price)
}
