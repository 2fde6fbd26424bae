package reader

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

const TIMEOUT time.Duration = 4 * time.Second

type OneNodeReader struct {
	nodeName string
	nodeURL  string
	client   Client
	mu       sync.Mutex
}

func NewOneNodeReader(name, url string) *OneNodeReader {
	return &OneNodeReader{
		nodeName: name,
		nodeURL:  url,
	}
}

// NewOneNodeReaderWithClient wraps an already connected client.
func NewOneNodeReaderWithClient(name string, client Client) *OneNodeReader {
	return &OneNodeReader{
		nodeName: name,
		client:   client,
	}
}

func (onr *OneNodeReader) NodeName() string {
	return onr.nodeName
}

func (onr *OneNodeReader) NodeURL() string {
	return onr.nodeURL
}

func (onr *OneNodeReader) Client(ctx context.Context) (Client, error) {
	onr.mu.Lock()
	defer onr.mu.Unlock()
	if onr.client != nil {
		return onr.client, nil
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	client, err := ethclient.DialContext(timeout, onr.nodeURL)
	if err != nil {
		return nil, fmt.Errorf("couldn't connect to %s: %w", onr.nodeName, err)
	}
	onr.client = client
	return onr.client, nil
}

func blockNumber(atBlock int64) *big.Int {
	if atBlock < 0 {
		return nil
	}
	return big.NewInt(atBlock)
}

func (onr *OneNodeReader) ChainID(ctx context.Context) (*big.Int, error) {
	cli, err := onr.Client(ctx)
	if err != nil {
		return nil, err
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	return cli.ChainID(timeout)
}

func (onr *OneNodeReader) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	cli, err := onr.Client(ctx)
	if err != nil {
		return 0, err
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	return cli.EstimateGas(timeout, msg)
}

func (onr *OneNodeReader) GetCode(ctx context.Context, address common.Address) ([]byte, error) {
	cli, err := onr.Client(ctx)
	if err != nil {
		return nil, err
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	return cli.CodeAt(timeout, address, nil)
}

func (onr *OneNodeReader) GetBalance(ctx context.Context, address common.Address) (*big.Int, error) {
	cli, err := onr.Client(ctx)
	if err != nil {
		return nil, err
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	return cli.BalanceAt(timeout, address, nil)
}

func (onr *OneNodeReader) GetMinedNonce(ctx context.Context, address common.Address) (uint64, error) {
	cli, err := onr.Client(ctx)
	if err != nil {
		return 0, err
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	return cli.NonceAt(timeout, address, nil)
}

func (onr *OneNodeReader) GetPendingNonce(ctx context.Context, address common.Address) (uint64, error) {
	cli, err := onr.Client(ctx)
	if err != nil {
		return 0, err
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	return cli.PendingNonceAt(timeout, address)
}

func (onr *OneNodeReader) SuggestedGasPrice(ctx context.Context) (*big.Int, error) {
	cli, err := onr.Client(ctx)
	if err != nil {
		return nil, err
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	return cli.SuggestGasPrice(timeout)
}

func (onr *OneNodeReader) SuggestedGasTipCap(ctx context.Context) (*big.Int, error) {
	cli, err := onr.Client(ctx)
	if err != nil {
		return nil, err
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	return cli.SuggestGasTipCap(timeout)
}

func (onr *OneNodeReader) HeaderByNumber(ctx context.Context, number int64) (*types.Header, error) {
	cli, err := onr.Client(ctx)
	if err != nil {
		return nil, err
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	return cli.HeaderByNumber(timeout, blockNumber(number))
}

func (onr *OneNodeReader) CallContract(ctx context.Context, msg ethereum.CallMsg, atBlock int64) ([]byte, error) {
	cli, err := onr.Client(ctx)
	if err != nil {
		return nil, err
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	return cli.CallContract(timeout, msg, blockNumber(atBlock))
}

func (onr *OneNodeReader) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	cli, err := onr.Client(ctx)
	if err != nil {
		return nil, err
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	return cli.TransactionReceipt(timeout, txHash)
}

func (onr *OneNodeReader) TransactionByHash(ctx context.Context, txHash common.Hash) (*types.Transaction, bool, error) {
	cli, err := onr.Client(ctx)
	if err != nil {
		return nil, false, err
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	return cli.TransactionByHash(timeout, txHash)
}

func (onr *OneNodeReader) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	cli, err := onr.Client(ctx)
	if err != nil {
		return err
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	return cli.SendTransaction(timeout, tx)
}
