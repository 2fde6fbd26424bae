package reader

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	nbcommon "github.com/realmhunter/nbctl/common"
)

// EthReader reads from every node of a network at once and keeps the
// first successful answer.
type EthReader struct {
	nodes map[string]EthereumNode
}

func NewEthReaderGeneric(nodes map[string]string) *EthReader {
	ns := map[string]EthereumNode{}
	for name, url := range nodes {
		ns[name] = NewOneNodeReader(name, url)
	}
	return &EthReader{
		nodes: ns,
	}
}

func NewEthReaderWithNodes(nodes ...EthereumNode) *EthReader {
	ns := map[string]EthereumNode{}
	for _, n := range nodes {
		ns[n.NodeName()] = n
	}
	return &EthReader{
		nodes: ns,
	}
}

// Nodes returns the reader's nodes ordered by name.
func (er *EthReader) Nodes() []EthereumNode {
	result := make([]EthereumNode, 0, len(er.nodes))
	for _, n := range er.nodes {
		result = append(result, n)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].NodeName() < result[j].NodeName()
	})
	return result
}

func wrapError(e error, name string) error {
	if e == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", name, e)
}

type nodeResult[T any] struct {
	Value T
	Error error
}

func readFromAnyNode[T any](
	ctx context.Context,
	er *EthReader,
	read func(ctx context.Context, n EthereumNode) (T, error),
) (T, error) {
	var zero T
	if len(er.nodes) == 0 {
		return zero, fmt.Errorf("no nodes configured")
	}
	// cancels the slower nodes once one of them answered
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	resCh := make(chan nodeResult[T], len(er.nodes))
	for i := range er.nodes {
		n := er.nodes[i]
		go func() {
			v, err := read(ctx, n)
			resCh <- nodeResult[T]{
				Value: v,
				Error: wrapError(err, n.NodeName()),
			}
		}()
	}
	errs := []error{}
	for i := 0; i < len(er.nodes); i++ {
		result := <-resCh
		if result.Error == nil {
			return result.Value, nil
		}
		errs = append(errs, result.Error)
	}
	return zero, fmt.Errorf("couldn't read from any nodes: %w", errors.Join(errs...))
}

func (er *EthReader) ChainID(ctx context.Context) (*big.Int, error) {
	return readFromAnyNode(ctx, er, func(ctx context.Context, n EthereumNode) (*big.Int, error) {
		return n.ChainID(ctx)
	})
}

func (er *EthReader) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	return readFromAnyNode(ctx, er, func(ctx context.Context, n EthereumNode) (uint64, error) {
		return n.EstimateGas(ctx, msg)
	})
}

func (er *EthReader) GetCode(ctx context.Context, address common.Address) ([]byte, error) {
	return readFromAnyNode(ctx, er, func(ctx context.Context, n EthereumNode) ([]byte, error) {
		return n.GetCode(ctx, address)
	})
}

func (er *EthReader) GetBalance(ctx context.Context, address common.Address) (*big.Int, error) {
	return readFromAnyNode(ctx, er, func(ctx context.Context, n EthereumNode) (*big.Int, error) {
		return n.GetBalance(ctx, address)
	})
}

func (er *EthReader) GetMinedNonce(ctx context.Context, address common.Address) (uint64, error) {
	return readFromAnyNode(ctx, er, func(ctx context.Context, n EthereumNode) (uint64, error) {
		return n.GetMinedNonce(ctx, address)
	})
}

func (er *EthReader) GetPendingNonce(ctx context.Context, address common.Address) (uint64, error) {
	return readFromAnyNode(ctx, er, func(ctx context.Context, n EthereumNode) (uint64, error) {
		return n.GetPendingNonce(ctx, address)
	})
}

func (er *EthReader) SuggestedGasPrice(ctx context.Context) (*big.Int, error) {
	return readFromAnyNode(ctx, er, func(ctx context.Context, n EthereumNode) (*big.Int, error) {
		return n.SuggestedGasPrice(ctx)
	})
}

func (er *EthReader) SuggestedGasTipCap(ctx context.Context) (*big.Int, error) {
	return readFromAnyNode(ctx, er, func(ctx context.Context, n EthereumNode) (*big.Int, error) {
		return n.SuggestedGasTipCap(ctx)
	})
}

// HeaderByNumber returns the latest header when number is negative.
func (er *EthReader) HeaderByNumber(ctx context.Context, number int64) (*types.Header, error) {
	return readFromAnyNode(ctx, er, func(ctx context.Context, n EthereumNode) (*types.Header, error) {
		return n.HeaderByNumber(ctx, number)
	})
}

// CallContract runs msg against the latest block when atBlock is negative.
func (er *EthReader) CallContract(ctx context.Context, msg ethereum.CallMsg, atBlock int64) ([]byte, error) {
	return readFromAnyNode(ctx, er, func(ctx context.Context, n EthereumNode) ([]byte, error) {
		return n.CallContract(ctx, msg, atBlock)
	})
}

func (er *EthReader) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	return readFromAnyNode(ctx, er, func(ctx context.Context, n EthereumNode) (*types.Receipt, error) {
		return n.TransactionReceipt(ctx, txHash)
	})
}

type txByHash struct {
	tx        *types.Transaction
	isPending bool
}

func (er *EthReader) TransactionByHash(ctx context.Context, txHash common.Hash) (*types.Transaction, bool, error) {
	res, err := readFromAnyNode(ctx, er, func(ctx context.Context, n EthereumNode) (txByHash, error) {
		tx, isPending, err := n.TransactionByHash(ctx, txHash)
		return txByHash{tx, isPending}, err
	})
	return res.tx, res.isPending, err
}

// TxInfoFromHash classifies a transaction as notfound, pending, done or
// reverted. A transaction no node knows about is not an error.
func (er *EthReader) TxInfoFromHash(ctx context.Context, txHash common.Hash) (nbcommon.TxInfo, error) {
	txObj, isPending, err := er.TransactionByHash(ctx, txHash)
	if errors.Is(err, ethereum.NotFound) || (err == nil && txObj == nil) {
		return nbcommon.TxInfo{Status: nbcommon.TxStatusNotFound}, nil
	}
	if err != nil {
		return nbcommon.TxInfo{Status: nbcommon.TxStatusError}, err
	}
	if isPending {
		return nbcommon.TxInfo{Status: nbcommon.TxStatusPending, Tx: txObj}, nil
	}

	receipt, err := er.TransactionReceipt(ctx, txHash)
	if receipt == nil {
		if errors.Is(err, ethereum.NotFound) {
			err = nil
		}
		return nbcommon.TxInfo{Status: nbcommon.TxStatusPending, Tx: txObj}, err
	}

	info := nbcommon.TxInfo{
		Status:  nbcommon.TxStatusDone,
		Tx:      txObj,
		Receipt: receipt,
	}
	if receipt.BlockNumber != nil {
		if header, herr := er.HeaderByNumber(ctx, receipt.BlockNumber.Int64()); herr == nil {
			info.BlockHeader = header
		}
	}
	// pre-byzantium receipts carry a post state root instead of a status
	if len(receipt.PostState) == len(common.Hash{}) {
		return info, nil
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		info.Status = nbcommon.TxStatusReverted
	}
	return info, nil
}
