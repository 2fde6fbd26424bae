package accounts

import (
	"path/filepath"
	"testing"

	gethkeystore "github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/stretchr/testify/require"

	"github.com/realmhunter/nbctl/networks"
	"github.com/realmhunter/nbctl/util/account"
)

const (
	testKeyHex  = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testAddress = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	// hardhat dev key #1
	otherKeyHex  = "59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d"
	otherAddress = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
)

func setup(t *testing.T) networks.Network {
	t.Setenv(HomeVariable, t.TempDir())
	scryptN, scryptP = gethkeystore.LightScryptN, gethkeystore.LightScryptP
	return networks.NewGenericNetwork(networks.GenericNetworkConfig{
		Name:                 "local-test",
		ChainID:              31337,
		AccountVariableNames: []string{"NBCTL_TEST_DEPLOYER", "NBCTL_TEST_MISSING"},
	})
}

func TestKeystoreRoundTrip(t *testing.T) {
	network := setup(t)
	path, err := StorePrivateKeyWithKeystore("0x"+otherKeyHex, "secret")
	require.NoError(t, err)
	require.Equal(t, otherAddress+".json", filepath.Base(path))

	address, err := VerifyKeystore(path)
	require.NoError(t, err)
	require.Equal(t, otherAddress, address)

	require.NoError(t, StoreAccountRecord(AccDesc{
		Address: address,
		Kind:    KindKeystore,
		Keypath: path,
		Desc:    "marketplace admin",
	}))
	stored, err := GetAccounts()
	require.NoError(t, err)
	require.Len(t, stored, 1)

	found, err := FindAccount("admin", network)
	require.NoError(t, err)
	require.Equal(t, otherAddress, found.Address)

	acc, err := UnlockAccount(found, func(string) string { return "secret" })
	require.NoError(t, err)
	require.Equal(t, otherAddress, acc.AddressHex())

	_, err = UnlockAccount(found, func(string) string { return "wrong" })
	require.Error(t, err)

	t.Setenv(PasswordVariable, "secret")
	acc, err = UnlockAccount(found, nil)
	require.NoError(t, err)
	require.Equal(t, otherAddress, acc.AddressHex())
}

func TestNetworkEnvAccounts(t *testing.T) {
	network := setup(t)
	t.Setenv("NBCTL_TEST_DEPLOYER", testKeyHex)
	t.Setenv("NBCTL_TEST_MISSING", "")

	descs, errs := GetNetworkAccounts(network)
	require.Len(t, descs, 1)
	require.Len(t, errs, 1)
	require.ErrorIs(t, errs[0], account.ErrMissingCredential)
	require.Equal(t, testAddress, descs[0].Address)

	found, err := FindAccount("NBCTL_TEST_DEPLOYER", network)
	require.NoError(t, err)
	require.Equal(t, KindEnv, found.Kind)

	found, err = FindAccount("0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266", network)
	require.NoError(t, err)
	acc, err := UnlockAccount(found, nil)
	require.NoError(t, err)
	require.Equal(t, testAddress, acc.AddressHex())

	_, err = FindAccount("zzzz", network)
	require.ErrorIs(t, err, account.ErrMissingCredential)
}

func TestFindAccountWithoutAny(t *testing.T) {
	network := setup(t)
	t.Setenv("NBCTL_TEST_DEPLOYER", "")
	t.Setenv("NBCTL_TEST_MISSING", "")
	_, err := FindAccount("anything", network)
	require.ErrorIs(t, err, account.ErrMissingCredential)
}

func TestLookupAccountIsExact(t *testing.T) {
	network := setup(t)
	t.Setenv("NBCTL_TEST_DEPLOYER", testKeyHex)
	t.Setenv("NBCTL_TEST_MISSING", "")

	found, err := LookupAccount("NBCTL_TEST_DEPLOYER", network)
	require.NoError(t, err)
	require.Equal(t, testAddress, found.Address)

	found, err = LookupAccount(" 0xF39FD6E51AAD88F6F4CE6AB8827279CFFFB92266 ", network)
	require.NoError(t, err)
	require.Equal(t, KindEnv, found.Kind)

	for _, hint := range []string{"deployer", "test", "local-test", "NBCTL", "0xf39f"} {
		_, err = LookupAccount(hint, network)
		require.ErrorIs(t, err, account.ErrMissingCredential, hint)
	}
}
