package contract

import (
	"context"
	"fmt"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/realmhunter/nbctl/artifacts"
	"github.com/realmhunter/nbctl/util/account"
)

// Factory deploys new instances of an artifact or attaches to
// existing ones.
type Factory struct {
	artifact *artifacts.Artifact
	backend  *Backend
	account  *account.Account
}

func NewFactory(artifact *artifacts.Artifact, backend *Backend, acc *account.Account) *Factory {
	return &Factory{
		artifact: artifact,
		backend:  backend,
		account:  acc,
	}
}

// Deploy broadcasts the creation transaction and returns the handle at
// the address the contract will live at once the tx is mined.
func (f *Factory) Deploy(ctx context.Context, opts TxOptions, args ...interface{}) (*Contract, *types.Transaction, error) {
	if !f.artifact.Deployable() {
		return nil, nil, fmt.Errorf("%s: %w", f.artifact.FullyQualifiedName(), ErrNotDeployable)
	}
	if f.account == nil {
		return nil, nil, ErrNoSigner
	}
	if opts.value().Sign() > 0 && !f.artifact.ABI.Constructor.Payable {
		return nil, nil, fmt.Errorf("constructor of %s is not payable", f.artifact.ContractName)
	}
	input, err := f.artifact.ABI.Pack("", args...)
	if err != nil {
		return nil, nil, fmt.Errorf("couldn't pack constructor arguments of %s: %w", f.artifact.ContractName, err)
	}
	data := make([]byte, 0, len(f.artifact.Bytecode)+len(input))
	data = append(data, f.artifact.Bytecode...)
	data = append(data, input...)

	tx, err := f.backend.send(ctx, f.account, opts, nil, data)
	if err != nil {
		return nil, tx, fmt.Errorf("deploying %s: %w", f.artifact.ContractName, err)
	}
	address := crypto.CreateAddress(f.account.Address(), tx.Nonce())
	return f.Attach(address), tx, nil
}

// Attach binds the artifact's interface to address without any network
// round trip.
func (f *Factory) Attach(address ethcommon.Address) *Contract {
	return NewContract(f.artifact.ContractName, address, f.artifact.ABI, f.backend, f.account)
}
