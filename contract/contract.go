package contract

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/realmhunter/nbctl/util/account"
)

// Contract is a deployed contract bound to a backend and, optionally,
// to the account that signs its transactions.
type Contract struct {
	Name    string
	Address ethcommon.Address
	ABI     abi.ABI
	backend *Backend
	account *account.Account
}

func NewContract(name string, address ethcommon.Address, a abi.ABI, backend *Backend, acc *account.Account) *Contract {
	return &Contract{
		Name:    name,
		Address: address,
		ABI:     a,
		backend: backend,
		account: acc,
	}
}

// CheckCode fails with ErrNoCode when nothing is deployed at the
// contract's address, e.g. a wallet address given by mistake.
func (c *Contract) CheckCode(ctx context.Context) error {
	code, err := c.backend.Reader.GetCode(ctx, c.Address)
	if err != nil {
		return fmt.Errorf("couldn't get code of %s: %w", c.Address.Hex(), err)
	}
	if len(code) == 0 {
		return fmt.Errorf("%w: %s is not a deployed %s", ErrNoCode, c.Address.Hex(), c.Name)
	}
	return nil
}

// Method looks a method up by name or by signature, e.g. "mint(address,uint256)".
func (c *Contract) Method(name string) (abi.Method, error) {
	if m, found := c.ABI.Methods[name]; found {
		return m, nil
	}
	for _, m := range c.ABI.Methods {
		if m.Sig == name {
			return m, nil
		}
	}
	names := []string{}
	for n := range c.ABI.Methods {
		names = append(names, n)
	}
	sort.Strings(names)
	return abi.Method{}, fmt.Errorf("%w: %s has no method %s (available: %s)",
		ErrMethodNotFound, c.Name, name, strings.Join(names, ", "))
}

// IsReadOnly reports whether calling method cannot change state.
func IsReadOnly(method abi.Method) bool {
	return method.IsConstant()
}

// Call executes a read only method against the latest block and returns
// its unpacked outputs.
func (c *Contract) Call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	m, err := c.Method(method)
	if err != nil {
		return nil, err
	}
	data, err := c.ABI.Pack(m.Name, args...)
	if err != nil {
		return nil, fmt.Errorf("couldn't pack arguments for %s: %w", m.Sig, err)
	}
	msg := ethereum.CallMsg{
		To:   &c.Address,
		Data: data,
	}
	if c.account != nil {
		msg.From = c.account.Address()
	}
	out, err := c.backend.Reader.CallContract(ctx, msg, -1)
	if err != nil {
		return nil, fmt.Errorf("calling %s on %s: %w", m.Sig, c.Address.Hex(), revertError(err))
	}
	if len(out) == 0 && len(m.Outputs) > 0 {
		return nil, fmt.Errorf("calling %s on %s returned no data: %w", m.Sig, c.Address.Hex(), ErrReverted)
	}
	values, err := m.Outputs.Unpack(out)
	if err != nil {
		return nil, fmt.Errorf("couldn't unpack result of %s: %w", m.Sig, err)
	}
	return values, nil
}

// Transact signs and broadcasts a call to method. It does not wait for
// the transaction to be mined.
func (c *Contract) Transact(ctx context.Context, opts TxOptions, method string, args ...interface{}) (*types.Transaction, error) {
	if c.account == nil {
		return nil, ErrNoSigner
	}
	m, err := c.Method(method)
	if err != nil {
		return nil, err
	}
	if opts.value().Sign() > 0 && !m.Payable {
		return nil, fmt.Errorf("%s is not payable, it can't receive value", m.Sig)
	}
	data, err := c.ABI.Pack(m.Name, args...)
	if err != nil {
		return nil, fmt.Errorf("couldn't pack arguments for %s: %w", m.Sig, err)
	}
	tx, err := c.backend.send(ctx, c.account, opts, &c.Address, data)
	if err != nil {
		return tx, fmt.Errorf("%s: %w", m.Sig, err)
	}
	return tx, nil
}

type revertedError struct {
	err error
}

func (e *revertedError) Error() string {
	return e.err.Error()
}

func (e *revertedError) Unwrap() []error {
	return []error{ErrReverted, e.err}
}

// revertError marks node errors caused by a revert so callers can match
// them with errors.Is(err, ErrReverted).
func revertError(err error) error {
	if err == nil || !strings.Contains(strings.ToLower(err.Error()), "revert") {
		return err
	}
	return &revertedError{err}
}
