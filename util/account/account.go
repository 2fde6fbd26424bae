package account

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/realmhunter/nbctl/networks"
)

var ErrMissingCredential = errors.New("missing signer credential")

type Account struct {
	signer  Signer
	address common.Address
}

func NewKeystoreAccount(file string, password string) (*Account, error) {
	_, key, err := PrivateKeyFromKeystore(file, password)
	if err != nil {
		return nil, err
	}
	return &Account{
		NewKeySigner(key),
		crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

func NewPrivateKeyAccount(hex string) (*Account, error) {
	_, key, err := PrivateKeyFromHex(hex)
	if err != nil {
		return nil, err
	}
	return &Account{
		NewKeySigner(key),
		crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

// NewAccountFromEnv builds an account from the hex private key stored in
// the env variable varName.
func NewAccountFromEnv(varName string) (*Account, error) {
	hex := strings.TrimSpace(os.Getenv(varName))
	if hex == "" {
		return nil, fmt.Errorf("%s is not set: %w", varName, ErrMissingCredential)
	}
	acc, err := NewPrivateKeyAccount(hex)
	if err != nil {
		return nil, fmt.Errorf("%s doesn't hold a valid private key: %w", varName, err)
	}
	return acc, nil
}

func (a *Account) Address() common.Address {
	return a.address
}

func (a *Account) AddressHex() string {
	return a.address.Hex()
}

func (a *Account) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	signedTx, err := a.signer.SignTx(tx, chainID)
	if err != nil {
		return tx, fmt.Errorf("couldn't sign the tx: %w", err)
	}
	return signedTx, nil
}

// NetworkAccounts builds one account per env variable the network signs
// with. Every variable must be set.
func NetworkAccounts(network networks.Network) ([]*Account, error) {
	names := network.GetAccountVariableNames()
	if len(names) == 0 {
		return nil, fmt.Errorf("%s has no signer configured: %w", network.GetName(), ErrMissingCredential)
	}
	result := []*Account{}
	for _, name := range names {
		acc, err := NewAccountFromEnv(name)
		if err != nil {
			return nil, err
		}
		result = append(result, acc)
	}
	return result, nil
}
