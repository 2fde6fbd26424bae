package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/realmhunter/nbctl/accounts"
	"github.com/realmhunter/nbctl/config"
)

const (
	adminKey     = "59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d"
	adminAddress = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
)

func writeKeystore(t *testing.T, passphrase string) string {
	t.Helper()
	priv, err := crypto.HexToECDSA(adminKey)
	require.NoError(t, err)
	key := &keystore.Key{
		Id:         uuid.New(),
		Address:    crypto.PubkeyToAddress(priv.PublicKey),
		PrivateKey: priv,
	}
	content, err := keystore.EncryptKey(key, passphrase, keystore.LightScryptN, keystore.LightScryptP)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "admin.json")
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

func TestAddAndUseKeystoreWallet(t *testing.T) {
	env := newCmdEnv(t, "marketplace admin")
	path := writeKeystore(t, "hunter2")

	require.NoError(t, env.run(t, runAddWallet, path))
	require.True(t, env.ui.HasMessage("This keystore is with "+adminAddress))

	stored, err := accounts.GetAccounts()
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, "marketplace admin", stored[0].Desc)
	require.Equal(t, path, stored[0].Keypath)

	require.NoError(t, env.run(t, runListWallets))
	require.Contains(t, env.ui.Messages("TableRow"), "1 | "+adminAddress+" | marketplace admin | "+path)

	t.Setenv(accounts.PasswordVariable, "hunter2")
	config.From = "marketplace"
	env.cc.Account = nil
	signer, err := env.cc.Signer()
	require.NoError(t, err)
	require.Equal(t, adminAddress, signer.AddressHex())
}

func TestAddWalletRejectsNonKeystore(t *testing.T) {
	env := newCmdEnv(t)
	path := filepath.Join(t.TempDir(), "notes.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"hello":"world"}`), 0o600))
	err := env.run(t, runAddWallet, path)
	require.ErrorContains(t, err, "keystore verification failed")
}
