package networks

import (
	"math/big"
	"time"
)

type Network interface {
	GetName() string
	GetChainID() uint64
	GetAlternativeNames() []string
	GetNativeTokenSymbol() string
	GetNativeTokenDecimal() uint64
	GetBlockTime() time.Duration

	GetNodeVariableName() string
	GetDefaultNodes() map[string]string

	// GetGasPrice returns the fixed gas price in wei the network is
	// configured with, nil means the price is suggested by the nodes.
	GetGasPrice() *big.Int
	// GetAccountVariableNames returns the env variables holding the
	// private keys of the signers used on this network.
	GetAccountVariableNames() []string

	MarshalJSON() ([]byte, error)
}
