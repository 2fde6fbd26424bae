package contract

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/realmhunter/nbctl/common"
	"github.com/realmhunter/nbctl/networks"
	"github.com/realmhunter/nbctl/util/account"
)

var (
	ErrReverted       = errors.New("execution reverted")
	ErrNoSigner       = errors.New("no signer available to send transactions")
	ErrNotDeployable  = errors.New("contract has no deployable bytecode")
	ErrMethodNotFound = errors.New("method not found")
	ErrNoCode         = errors.New("no contract code at address")
)

// Reader is the node access a contract needs. *reader.EthReader
// implements it.
type Reader interface {
	GetPendingNonce(ctx context.Context, address ethcommon.Address) (uint64, error)
	GetCode(ctx context.Context, address ethcommon.Address) ([]byte, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, atBlock int64) ([]byte, error)
	HeaderByNumber(ctx context.Context, number int64) (*types.Header, error)
	SuggestedGasPrice(ctx context.Context) (*big.Int, error)
	SuggestedGasTipCap(ctx context.Context) (*big.Int, error)
}

type Broadcaster interface {
	BroadcastTx(ctx context.Context, tx *types.Transaction) (string, bool, error)
}

// Backend binds contracts to one network.
type Backend struct {
	Network     networks.Network
	Reader      Reader
	Broadcaster Broadcaster
}

// TxOptions override what would otherwise be asked from the nodes.
type TxOptions struct {
	Value *big.Int
	// GasLimit skips estimation when non zero.
	GasLimit      uint64
	ExtraGasLimit uint64
	// GasPrice forces a legacy transaction at this price.
	GasPrice *big.Int
}

func (o TxOptions) value() *big.Int {
	if o.Value == nil {
		return big.NewInt(0)
	}
	return o.Value
}

// fees returns the gas price (fee cap for dynamic fee txs) and the tip.
// A nil tip means a legacy transaction.
func (b *Backend) fees(ctx context.Context, opts TxOptions) (gasPrice, tip *big.Int, err error) {
	if opts.GasPrice != nil {
		return opts.GasPrice, nil, nil
	}
	if fixed := b.Network.GetGasPrice(); fixed != nil {
		return fixed, nil, nil
	}
	header, err := b.Reader.HeaderByNumber(ctx, -1)
	if err != nil {
		return nil, nil, fmt.Errorf("couldn't get latest block: %w", err)
	}
	if header.BaseFee == nil {
		gasPrice, err = b.Reader.SuggestedGasPrice(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("couldn't get gas price: %w", err)
		}
		return gasPrice, nil, nil
	}
	tip, err = b.Reader.SuggestedGasTipCap(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("couldn't get gas tip: %w", err)
	}
	feeCap := new(big.Int).Mul(header.BaseFee, big.NewInt(2))
	feeCap.Add(feeCap, tip)
	return feeCap, tip, nil
}

// send builds, signs and broadcasts one transaction. A nil to creates
// a contract.
func (b *Backend) send(
	ctx context.Context,
	acc *account.Account,
	opts TxOptions,
	to *ethcommon.Address,
	data []byte,
) (*types.Transaction, error) {
	if acc == nil {
		return nil, ErrNoSigner
	}
	from := acc.Address()
	nonce, err := b.Reader.GetPendingNonce(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("couldn't get nonce of %s: %w", from.Hex(), err)
	}
	gasLimit := opts.GasLimit
	if gasLimit == 0 {
		gasLimit, err = b.Reader.EstimateGas(ctx, ethereum.CallMsg{
			From:  from,
			To:    to,
			Value: opts.value(),
			Data:  data,
		})
		if err != nil {
			return nil, fmt.Errorf("couldn't estimate gas: %w", revertError(err))
		}
	}
	gasLimit += opts.ExtraGasLimit

	gasPrice, tip, err := b.fees(ctx, opts)
	if err != nil {
		return nil, err
	}
	chainID := new(big.Int).SetUint64(b.Network.GetChainID())
	tx := common.BuildTx(common.TxParams{
		ChainID:   chainID,
		Nonce:     nonce,
		To:        to,
		Value:     opts.value(),
		GasLimit:  gasLimit,
		GasPrice:  gasPrice,
		GasTipCap: tip,
		Data:      data,
	})
	signedTx, err := acc.SignTx(tx, chainID)
	if err != nil {
		return nil, err
	}
	common.Logger().Debug().
		Str("from", from.Hex()).
		Uint64("nonce", nonce).
		Uint64("gas", gasLimit).
		Str("gas_price", gasPrice.String()).
		Msg("broadcasting tx")
	_, broadcasted, err := b.Broadcaster.BroadcastTx(ctx, signedTx)
	if !broadcasted {
		return signedTx, err
	}
	return signedTx, nil
}
