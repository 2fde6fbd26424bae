package accounts

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gethkeystore "github.com/ethereum/go-ethereum/accounts/keystore"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/sahilm/fuzzy"

	"github.com/realmhunter/nbctl/common"
	"github.com/realmhunter/nbctl/networks"
	"github.com/realmhunter/nbctl/util/account"
)

const (
	KindEnv      = "env"
	KindKeystore = "keystore"

	HomeVariable     = "NBCTL_HOME"
	PasswordVariable = "NBCTL_KEYSTORE_PASSWORD"
)

// AccDesc describes a signer without unlocking it. Env accounts live in
// an env variable, keystore accounts are registered under the home dir.
type AccDesc struct {
	Address string `json:"address"`
	Kind    string `json:"kind"`
	EnvVar  string `json:"env,omitempty"`
	Keypath string `json:"keypath,omitempty"`
	Desc    string `json:"desc"`
}

var (
	scryptN = gethkeystore.StandardScryptN
	scryptP = gethkeystore.StandardScryptP
)

// HomeDir is $NBCTL_HOME, or ~/.nbctl.
func HomeDir() (string, error) {
	if dir := os.Getenv(HomeVariable); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".nbctl"), nil
}

type keystoreFile struct {
	Address string `json:"address"`
}

// StorePrivateKeyWithKeystore encrypts privateKey with passphrase into
// <home>/keystores/<address>.json and returns that path.
func StorePrivateKeyWithKeystore(privateKey string, passphrase string) (string, error) {
	_, priv, err := account.PrivateKeyFromHex(privateKey)
	if err != nil {
		return "", fmt.Errorf("invalid private key: %w", err)
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	key := &gethkeystore.Key{
		Id:         id,
		Address:    ethcommon.HexToAddress(account.AddressFromPrivateKey(priv)),
		PrivateKey: priv,
	}
	content, err := gethkeystore.EncryptKey(key, passphrase, scryptN, scryptP)
	if err != nil {
		return "", fmt.Errorf("couldn't encrypt the key: %w", err)
	}
	home, err := HomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, "keystores")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("%s.json", key.Address.Hex()))
	return path, os.WriteFile(path, content, 0o600)
}

// VerifyKeystore returns the address a keystore file holds.
func VerifyKeystore(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	k := keystoreFile{}
	if err := json.Unmarshal(content, &k); err != nil {
		return "", fmt.Errorf("%s is not a keystore: %w", path, err)
	}
	if !ethcommon.IsHexAddress(k.Address) {
		return "", fmt.Errorf("%s is not a keystore: no address", path)
	}
	return ethcommon.HexToAddress(k.Address).Hex(), nil
}

func StoreAccountRecord(accDesc AccDesc) error {
	home, err := HomeDir()
	if err != nil {
		return err
	}
	dir := filepath.Join(home, "accounts")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	content, err := json.MarshalIndent(accDesc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, fmt.Sprintf("%s.json", accDesc.Address)), content, 0o600)
}

// GetAccounts returns the registered keystore accounts ordered by
// address. Unreadable records are logged and skipped.
func GetAccounts() ([]AccDesc, error) {
	home, err := HomeDir()
	if err != nil {
		return nil, err
	}
	paths, err := filepath.Glob(filepath.Join(home, "accounts", "*.json"))
	if err != nil {
		return nil, err
	}
	result := []AccDesc{}
	for _, p := range paths {
		desc := AccDesc{}
		content, err := os.ReadFile(p)
		if err == nil {
			err = json.Unmarshal(content, &desc)
		}
		if err != nil {
			common.Logger().Warn().Err(err).Str("file", p).Msg("ignoring account record")
			continue
		}
		result = append(result, desc)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Address < result[j].Address
	})
	return result, nil
}

// GetNetworkAccounts describes the env accounts of network. Variables
// that are unset or hold an invalid key are reported in the errors.
func GetNetworkAccounts(network networks.Network) ([]AccDesc, []error) {
	result := []AccDesc{}
	errs := []error{}
	for _, name := range network.GetAccountVariableNames() {
		acc, err := account.NewAccountFromEnv(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		result = append(result, AccDesc{
			Address: acc.AddressHex(),
			Kind:    KindEnv,
			EnvVar:  name,
			Desc:    fmt.Sprintf("%s %s", network.GetName(), name),
		})
	}
	return result, errs
}

// AllAccounts lists env accounts of network first, then keystores.
func AllAccounts(network networks.Network) []AccDesc {
	result, errs := GetNetworkAccounts(network)
	for _, err := range errs {
		common.DebugPrintf("skipping env account: %s", err)
	}
	stored, err := GetAccounts()
	if err != nil {
		common.DebugPrintf("couldn't read keystore accounts: %s", err)
	}
	return append(result, stored...)
}

func exactAccount(input string, all []AccDesc) (AccDesc, bool) {
	for _, acc := range all {
		if strings.EqualFold(acc.Address, input) || (acc.EnvVar != "" && acc.EnvVar == input) {
			return acc, true
		}
	}
	return AccDesc{}, false
}

// LookupAccount picks the account whose address or env variable name
// equals input. Unlike FindAccount it never guesses.
func LookupAccount(input string, network networks.Network) (AccDesc, error) {
	input = strings.TrimSpace(input)
	if acc, found := exactAccount(input, AllAccounts(network)); found {
		return acc, nil
	}
	return AccDesc{}, fmt.Errorf("no account with address or variable '%s': %w", input, account.ErrMissingCredential)
}

// FindAccount picks the account whose address or env variable name
// equals input, or the best fuzzy match on address and description.
func FindAccount(input string, network networks.Network) (AccDesc, error) {
	source := FuzzySource(AllAccounts(network))
	if len(source) == 0 {
		return AccDesc{}, fmt.Errorf("no account configured: %w", account.ErrMissingCredential)
	}
	if acc, found := exactAccount(input, source); found {
		return acc, nil
	}
	matches := fuzzy.FindFrom(strings.ReplaceAll(input, " ", "_"), source)
	if len(matches) == 0 {
		return AccDesc{}, fmt.Errorf("no account is found with '%s': %w", input, account.ErrMissingCredential)
	}
	return source[matches[0].Index], nil
}

// UnlockAccount turns a description into a signing account. Keystores
// take their passphrase from NBCTL_KEYSTORE_PASSWORD, or from password
// when that is unset.
func UnlockAccount(ad AccDesc, password func(prompt string) string) (*account.Account, error) {
	switch ad.Kind {
	case KindEnv:
		return account.NewAccountFromEnv(ad.EnvVar)
	case KindKeystore:
		pwd, found := os.LookupEnv(PasswordVariable)
		if !found {
			if password == nil {
				return nil, fmt.Errorf("%s is locked and no passphrase is available: %w", ad.Keypath, account.ErrMissingCredential)
			}
			pwd = password(fmt.Sprintf("Passphrase for %s:", ad.Address))
		}
		acc, err := account.NewKeystoreAccount(ad.Keypath, pwd)
		if err != nil {
			return nil, fmt.Errorf("unlocking keystore %s failed: %w", ad.Keypath, err)
		}
		if !strings.EqualFold(acc.AddressHex(), ad.Address) {
			return nil, errors.New("keystore address doesn't match the account record")
		}
		return acc, nil
	}
	return nil, fmt.Errorf("unsupported account kind %q", ad.Kind)
}
