package reader

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Client is the part of the node API the reader needs. Both
// *ethclient.Client and the simulated backend's client implement it.
type Client interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
	NonceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (uint64, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	TransactionByHash(ctx context.Context, hash common.Hash) (tx *types.Transaction, isPending bool, err error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
}

type EthereumNode interface {
	NodeName() string
	NodeURL() string
	ChainID(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (gas uint64, err error)
	GetCode(ctx context.Context, address common.Address) (code []byte, err error)
	GetBalance(ctx context.Context, address common.Address) (balance *big.Int, err error)
	GetMinedNonce(ctx context.Context, address common.Address) (nonce uint64, err error)
	GetPendingNonce(ctx context.Context, address common.Address) (nonce uint64, err error)
	SuggestedGasPrice(ctx context.Context) (*big.Int, error)
	SuggestedGasTipCap(ctx context.Context) (*big.Int, error)
	// HeaderByNumber returns the latest header when number is negative.
	HeaderByNumber(ctx context.Context, number int64) (*types.Header, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, atBlock int64) ([]byte, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (receipt *types.Receipt, err error)
	TransactionByHash(ctx context.Context, txHash common.Hash) (tx *types.Transaction, isPending bool, err error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
}
