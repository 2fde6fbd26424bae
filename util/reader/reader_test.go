package reader

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/stretchr/testify/require"

	nbcommon "github.com/realmhunter/nbctl/common"
)

const testKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func newSimulated(t *testing.T) (*simulated.Backend, common.Address) {
	t.Helper()
	key, err := crypto.HexToECDSA(testKey)
	require.NoError(t, err)
	addr := crypto.PubkeyToAddress(key.PublicKey)
	backend := simulated.NewBackend(types.GenesisAlloc{
		addr: {Balance: ethers(100)},
	})
	t.Cleanup(func() { backend.Close() })
	return backend, addr
}

func ethers(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
}

func TestReaderBasics(t *testing.T) {
	backend, addr := newSimulated(t)
	r := NewEthReaderWithNodes(NewOneNodeReaderWithClient("sim", backend.Client()))
	ctx := context.Background()

	chainID, err := r.ChainID(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1337), chainID.Int64())

	balance, err := r.GetBalance(ctx, addr)
	require.NoError(t, err)
	require.Equal(t, ethers(100), balance)

	nonce, err := r.GetMinedNonce(ctx, addr)
	require.NoError(t, err)
	require.Equal(t, uint64(0), nonce)

	header, err := r.HeaderByNumber(ctx, -1)
	require.NoError(t, err)
	require.NotNil(t, header.BaseFee)
}

func TestReaderFirstSuccessWins(t *testing.T) {
	backend, addr := newSimulated(t)
	r := NewEthReaderWithNodes(
		NewOneNodeReader("dead", "http://127.0.0.1:1"),
		NewOneNodeReaderWithClient("sim", backend.Client()),
	)
	balance, err := r.GetBalance(context.Background(), addr)
	require.NoError(t, err)
	require.Equal(t, ethers(100), balance)
	require.Len(t, r.Nodes(), 2)
	require.Equal(t, "dead", r.Nodes()[0].NodeName())
}

func TestReaderAllNodesFail(t *testing.T) {
	r := NewEthReaderGeneric(map[string]string{
		"dead-1": "http://127.0.0.1:1",
		"dead-2": "http://127.0.0.1:2",
	})
	_, err := r.GetBalance(context.Background(), common.Address{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "couldn't read from any nodes")
	require.Contains(t, err.Error(), "dead-1")
	require.Contains(t, err.Error(), "dead-2")
}

func TestReaderNoNodes(t *testing.T) {
	_, err := NewEthReaderGeneric(nil).ChainID(context.Background())
	require.Error(t, err)
}

func TestTxInfoFromHash(t *testing.T) {
	backend, _ := newSimulated(t)
	r := NewEthReaderWithNodes(NewOneNodeReaderWithClient("sim", backend.Client()))
	ctx := context.Background()

	info, err := r.TxInfoFromHash(ctx, common.HexToHash("0x01"))
	require.NoError(t, err)
	require.Equal(t, nbcommon.TxStatusNotFound, info.Status)

	header, err := r.HeaderByNumber(ctx, -1)
	require.NoError(t, err)
	tip := big.NewInt(1_000_000_000)
	to := common.HexToAddress("0x000000000000000000000000000000000000dEaD")
	tx := nbcommon.BuildTx(nbcommon.TxParams{
		ChainID:   big.NewInt(1337),
		Nonce:     0,
		To:        &to,
		Value:     big.NewInt(12345),
		GasLimit:  21000,
		GasPrice:  new(big.Int).Add(new(big.Int).Mul(header.BaseFee, big.NewInt(2)), tip),
		GasTipCap: tip,
	})
	key, err := crypto.HexToECDSA(testKey)
	require.NoError(t, err)
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(big.NewInt(1337)), key)
	require.NoError(t, err)
	require.NoError(t, r.Nodes()[0].SendTransaction(ctx, signed))
	backend.Commit()

	info, err = r.TxInfoFromHash(ctx, signed.Hash())
	require.NoError(t, err)
	require.Equal(t, nbcommon.TxStatusDone, info.Status)
	require.True(t, info.IsFinal())
	require.Equal(t, uint64(21000), info.Receipt.GasUsed)
	require.NotNil(t, info.BlockHeader)
	require.Equal(t, 1, info.GasCost().Sign())

	balance, err := r.GetBalance(ctx, to)
	require.NoError(t, err)
	require.Equal(t, int64(12345), balance.Int64())

	_, err = r.TransactionReceipt(ctx, common.HexToHash("0x02"))
	require.ErrorIs(t, err, ethereum.NotFound)
}
