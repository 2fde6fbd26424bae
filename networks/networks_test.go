package networks

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuiltinNetworks(t *testing.T) {
	n, err := GetNetwork("polygon-testnet")
	require.NoError(t, err)
	require.Equal(t, uint64(80001), n.GetChainID())

	n, err = GetNetwork("mumbai")
	require.NoError(t, err)
	require.Equal(t, "polygon-testnet", n.GetName())

	n, err = GetNetworkByID(97)
	require.NoError(t, err)
	require.Equal(t, "bsc-test", n.GetName())
	require.Equal(t, "20000000000", n.GetGasPrice().String())

	n, err = GetNetwork("ganache")
	require.NoError(t, err)
	require.Nil(t, n.GetGasPrice())
	require.Equal(t, []string{DefaultAccountVariable}, n.GetAccountVariableNames())
}

func TestGetNetworkNotFound(t *testing.T) {
	_, err := GetNetwork("nowhere")
	require.True(t, errors.Is(err, ErrNetworkNotFound))

	_, err = GetNetworkByID(424242)
	require.True(t, errors.Is(err, ErrNetworkNotFound))
}

func TestAddOrReplace(t *testing.T) {
	registry := newSupportedNetworks(NewGanache(), NewBSCTestnet())

	custom := NewGenericNetwork(GenericNetworkConfig{
		Name:         "ganache",
		ChainID:      5777,
		DefaultNodes: map[string]string{"local": "http://127.0.0.1:8545"},
	})
	registry.addOrReplace(custom)

	n, err := registry.getNetwork("ganache")
	require.NoError(t, err)
	require.Equal(t, uint64(5777), n.GetChainID())

	// the alternative name of the replaced built-in is gone with it
	_, err = registry.getNetwork("local")
	require.ErrorIs(t, err, ErrNetworkNotFound)
	_, err = registry.getNetworkByID(1337)
	require.ErrorIs(t, err, ErrNetworkNotFound)

	require.Len(t, registry.getSupportedNetworks(), 2)
}

func TestDuplicateBuiltinPanics(t *testing.T) {
	require.Panics(t, func() {
		newSupportedNetworks(NewGanache(), NewGanache())
	})
}

func TestNewNetworkFromConfig(t *testing.T) {
	_, err := NewNetworkFromConfig(GenericNetworkConfig{ChainID: 1})
	require.Error(t, err)
	_, err = NewNetworkFromConfig(GenericNetworkConfig{Name: "x"})
	require.Error(t, err)

	n, err := NewNetworkFromConfig(GenericNetworkConfig{Name: "x", ChainID: 31337})
	require.NoError(t, err)
	require.Equal(t, "ETH", n.GetNativeTokenSymbol())
	require.Equal(t, uint64(18), n.GetNativeTokenDecimal())
}

func TestGetNodes(t *testing.T) {
	t.Setenv("GANACHE_NODE", "http://10.0.0.2:8545")
	nodes, err := GetNodes(NewGanache())
	require.NoError(t, err)
	require.Equal(t, "http://127.0.0.1:7545", nodes["ganache"])
	require.Equal(t, "http://10.0.0.2:8545", nodes["custom-node"])

	t.Setenv(MoralisNodeVariable, "")
	t.Setenv("ETHEREUM_RINKEBY_NODE", "")
	_, err = GetNodes(NewRinkeby())
	require.Error(t, err)

	t.Setenv(MoralisNodeVariable, "abc123")
	nodes, err = GetNodes(NewRinkeby())
	require.NoError(t, err)
	require.Equal(t, "https://speedy-nodes-nyc.moralis.io/abc123/eth/rinkeby", nodes["moralis"])
}
