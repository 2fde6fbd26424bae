package contract

import (
	"context"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/stretchr/testify/require"

	"github.com/realmhunter/nbctl/artifacts"
	"github.com/realmhunter/nbctl/networks"
	"github.com/realmhunter/nbctl/util/account"
	"github.com/realmhunter/nbctl/util/broadcaster"
	"github.com/realmhunter/nbctl/util/reader"
)

const (
	testKeyHex = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

	answerABI = `[
  {"inputs":[{"internalType":"uint256","name":"seed","type":"uint256"}],"stateMutability":"nonpayable","type":"constructor"},
  {"inputs":[],"name":"answer","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
  {"inputs":[{"internalType":"address","name":"to","type":"address"},{"internalType":"uint256","name":"amount","type":"uint256"}],"name":"mint","outputs":[],"stateMutability":"nonpayable","type":"function"},
  {"inputs":[],"name":"buy","outputs":[],"stateMutability":"payable","type":"function"}
]`
	// returns 42 for any call
	answerBytecode = "0x600a600c600039600a6000f3602a60005260206000f3"
	// reverts on any call
	revertBytecode = "0x6005600c60003960056000f360006000fd"
)

type testEnv struct {
	sim     *simulated.Backend
	backend *Backend
	reader  *reader.EthReader
	account *account.Account
}

func newTestEnv(t *testing.T, gasPrice uint64) *testEnv {
	t.Helper()
	acc, err := account.NewPrivateKeyAccount(testKeyHex)
	require.NoError(t, err)
	sim := simulated.NewBackend(types.GenesisAlloc{
		acc.Address(): {Balance: new(big.Int).Mul(big.NewInt(100), big.NewInt(1e18))},
	})
	t.Cleanup(func() { sim.Close() })

	node := reader.NewOneNodeReaderWithClient("simulated", sim.Client())
	r := reader.NewEthReaderWithNodes(node)
	return &testEnv{
		sim: sim,
		backend: &Backend{
			Network: networks.NewGenericNetwork(networks.GenericNetworkConfig{
				Name:     "simulated",
				ChainID:  1337,
				GasPrice: gasPrice,
			}),
			Reader:      r,
			Broadcaster: broadcaster.NewBroadcasterWithNodes(node),
		},
		reader:  r,
		account: acc,
	}
}

func testArtifact(t *testing.T, bytecode string) *artifacts.Artifact {
	t.Helper()
	a, err := abi.JSON(strings.NewReader(answerABI))
	require.NoError(t, err)
	code, err := hexutil.Decode(bytecode)
	require.NoError(t, err)
	return &artifacts.Artifact{
		ContractName: "Answer",
		SourceName:   "contracts/Answer.sol",
		ABI:          a,
		Bytecode:     code,
	}
}

func (env *testEnv) deploy(t *testing.T, bytecode string) *Contract {
	t.Helper()
	factory := NewFactory(testArtifact(t, bytecode), env.backend, env.account)
	c, tx, err := factory.Deploy(context.Background(), TxOptions{}, big.NewInt(7))
	require.NoError(t, err)
	env.sim.Commit()
	receipt, err := env.reader.TransactionReceipt(context.Background(), tx.Hash())
	require.NoError(t, err)
	require.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)
	require.Equal(t, receipt.ContractAddress, c.Address)
	return c
}

func TestDeployAndCall(t *testing.T) {
	env := newTestEnv(t, 0)
	c := env.deploy(t, answerBytecode)
	require.Equal(t, crypto.CreateAddress(env.account.Address(), 0), c.Address)

	out, err := c.Call(context.Background(), "answer")
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, int64(42), out[0].(*big.Int).Int64())

	out, err = c.Call(context.Background(), "answer()")
	require.NoError(t, err)
	require.Len(t, out, 1)
}

func TestTransactDynamicFee(t *testing.T) {
	env := newTestEnv(t, 0)
	c := env.deploy(t, answerBytecode)

	to := ethcommon.HexToAddress("0x000000000000000000000000000000000000dEaD")
	tx, err := c.Transact(context.Background(), TxOptions{}, "mint", to, big.NewInt(1))
	require.NoError(t, err)
	require.Equal(t, uint8(types.DynamicFeeTxType), tx.Type())
	require.Equal(t, uint64(1), tx.Nonce())
	env.sim.Commit()

	receipt, err := env.reader.TransactionReceipt(context.Background(), tx.Hash())
	require.NoError(t, err)
	require.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)
}

func TestTransactFixedGasPriceIsLegacy(t *testing.T) {
	env := newTestEnv(t, 20_000_000_000)
	c := env.deploy(t, answerBytecode)

	tx, err := c.Transact(context.Background(), TxOptions{GasLimit: 50_000}, "mint", ethcommon.Address{}, big.NewInt(1))
	require.NoError(t, err)
	require.Equal(t, uint8(types.LegacyTxType), tx.Type())
	require.Equal(t, int64(20_000_000_000), tx.GasPrice().Int64())
	require.Equal(t, uint64(50_000), tx.Gas())
}

func TestCallReverted(t *testing.T) {
	env := newTestEnv(t, 0)
	c := env.deploy(t, revertBytecode)
	_, err := c.Call(context.Background(), "answer")
	require.ErrorIs(t, err, ErrReverted)

	// no code at the address, so the call returns nothing
	empty := NewFactory(testArtifact(t, answerBytecode), env.backend, nil).
		Attach(ethcommon.HexToAddress("0x00000000000000000000000000000000000000aa"))
	_, err = empty.Call(context.Background(), "answer")
	require.ErrorIs(t, err, ErrReverted)
}

func TestTransactErrors(t *testing.T) {
	env := newTestEnv(t, 0)
	c := env.deploy(t, answerBytecode)

	readOnly := NewContract(c.Name, c.Address, c.ABI, env.backend, nil)
	_, err := readOnly.Transact(context.Background(), TxOptions{}, "mint", ethcommon.Address{}, big.NewInt(1))
	require.ErrorIs(t, err, ErrNoSigner)

	_, err = c.Transact(context.Background(), TxOptions{}, "burn")
	require.ErrorIs(t, err, ErrMethodNotFound)
	require.Contains(t, err.Error(), "available: answer, buy, mint")

	_, err = c.Transact(context.Background(), TxOptions{Value: big.NewInt(1)}, "mint", ethcommon.Address{}, big.NewInt(1))
	require.Error(t, err)
	require.Contains(t, err.Error(), "not payable")
}

func TestDeployNotDeployable(t *testing.T) {
	env := newTestEnv(t, 0)
	artifact := testArtifact(t, answerBytecode)
	artifact.Bytecode = nil
	_, _, err := NewFactory(artifact, env.backend, env.account).Deploy(context.Background(), TxOptions{}, big.NewInt(1))
	require.ErrorIs(t, err, ErrNotDeployable)

	_, _, err = NewFactory(testArtifact(t, answerBytecode), env.backend, nil).Deploy(context.Background(), TxOptions{}, big.NewInt(1))
	require.ErrorIs(t, err, ErrNoSigner)
}

func TestIsReadOnly(t *testing.T) {
	a := testArtifact(t, answerBytecode)
	require.True(t, IsReadOnly(a.ABI.Methods["answer"]))
	require.False(t, IsReadOnly(a.ABI.Methods["mint"]))
	require.False(t, IsReadOnly(a.ABI.Methods["buy"]))
}
