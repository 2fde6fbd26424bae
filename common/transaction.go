package common

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// TxParams carries everything needed to build an unsigned transaction.
// A nil To builds a contract creation. A nil GasTipCap builds a legacy
// transaction priced at GasPrice, otherwise a dynamic fee transaction with
// GasPrice used as the fee cap.
type TxParams struct {
	ChainID   *big.Int
	Nonce     uint64
	To        *common.Address
	Value     *big.Int
	GasLimit  uint64
	GasPrice  *big.Int
	GasTipCap *big.Int
	Data      []byte
}

func BuildTx(p TxParams) *types.Transaction {
	value := p.Value
	if value == nil {
		value = big.NewInt(0)
	}
	if p.GasTipCap != nil {
		return types.NewTx(&types.DynamicFeeTx{
			ChainID:   p.ChainID,
			Nonce:     p.Nonce,
			GasTipCap: p.GasTipCap,
			GasFeeCap: p.GasPrice,
			Gas:       p.GasLimit,
			To:        p.To,
			Value:     value,
			Data:      p.Data,
		})
	}
	return types.NewTx(&types.LegacyTx{
		Nonce:    p.Nonce,
		GasPrice: p.GasPrice,
		Gas:      p.GasLimit,
		To:       p.To,
		Value:    value,
		Data:     p.Data,
	})
}
