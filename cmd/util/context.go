package util

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/url"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/realmhunter/nbctl/accounts"
	"github.com/realmhunter/nbctl/artifacts"
	"github.com/realmhunter/nbctl/common"
	"github.com/realmhunter/nbctl/config"
	"github.com/realmhunter/nbctl/contract"
	"github.com/realmhunter/nbctl/deployments"
	"github.com/realmhunter/nbctl/networks"
	"github.com/realmhunter/nbctl/ui"
	"github.com/realmhunter/nbctl/util/account"
	"github.com/realmhunter/nbctl/util/broadcaster"
	"github.com/realmhunter/nbctl/util/monitor"
	"github.com/realmhunter/nbctl/util/reader"
)

// CmdContext holds everything a command needs, resolved once by the
// pre-run hook. Commands retrieve it via CmdContextFrom instead of
// building readers and books themselves.
type CmdContext struct {
	Network     networks.Network
	UI          ui.UI
	Reader      *reader.EthReader // nil when the network has no node
	Broadcaster *broadcaster.Broadcaster
	Monitor     *monitor.TxMonitor
	Artifacts   *artifacts.Store
	Book        *deployments.Book

	// Account is the unlocked signer. It is resolved from config.From on
	// first use when left nil.
	Account *account.Account

	nodesErr     error
	chainChecked bool
}

var ErrWrongChain = errors.New("node is on another chain")

type cmdContextKey struct{}

// WithCmdContext attaches cc to ctx and returns the new context.
func WithCmdContext(ctx context.Context, cc *CmdContext) context.Context {
	return context.WithValue(ctx, cmdContextKey{}, cc)
}

// CmdContextFrom retrieves the CmdContext attached to cmd by the pre-run
// hook.
func CmdContextFrom(cmd *cobra.Command) (*CmdContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.New("command has no context")
	}
	cc, ok := ctx.Value(cmdContextKey{}).(*CmdContext)
	if !ok {
		return nil, errors.New("command context is not initialized")
	}
	return cc, nil
}

// NewCmdContext wires the node access, the artifacts store and the
// deployment book of the current project for network. Nodes are dialed
// lazily so commands that never touch the chain work offline.
func NewCmdContext(network networks.Network, u ui.UI) *CmdContext {
	project := config.Project()
	cc := &CmdContext{
		Network:   network,
		UI:        u,
		Artifacts: artifacts.NewStore(project.ArtifactsDir()),
		Book:      deployments.Open(project.DeploymentsFile()),
	}
	nodes, err := networks.GetNodes(network)
	if err != nil {
		cc.nodesErr = err
		return cc
	}
	cc.Reader = reader.NewEthReaderGeneric(nodes)
	cc.Broadcaster = broadcaster.NewGenericBroadcaster(nodes)
	cc.Monitor = newMonitor(network, cc.Reader)
	for _, n := range cc.Reader.Nodes() {
		// the path of hosted node urls carries the api key
		host := n.NodeURL()
		if u, err := url.Parse(host); err == nil && u.Host != "" {
			host = u.Host
		}
		common.DebugPrintf("node %s: %s", n.NodeName(), host)
	}
	return cc
}

// newMonitor polls once per block of network.
func newMonitor(network networks.Network, r *reader.EthReader) *monitor.TxMonitor {
	m := monitor.NewGenericTxMonitor(r)
	if blockTime := network.GetBlockTime(); blockTime > 0 {
		m.Interval = blockTime
	}
	return m
}

// NewCmdContextWithNodes is NewCmdContext with explicit nodes. Each node
// both reads and broadcasts.
func NewCmdContextWithNodes(network networks.Network, u ui.UI, nodes ...*reader.OneNodeReader) *CmdContext {
	project := config.Project()
	readers := []reader.EthereumNode{}
	senders := []broadcaster.Sender{}
	for _, n := range nodes {
		readers = append(readers, n)
		senders = append(senders, n)
	}
	r := reader.NewEthReaderWithNodes(readers...)
	return &CmdContext{
		Network:     network,
		UI:          u,
		Reader:      r,
		Broadcaster: broadcaster.NewBroadcasterWithNodes(senders...),
		Monitor:     newMonitor(network, r),
		Artifacts:   artifacts.NewStore(project.ArtifactsDir()),
		Book:        deployments.Open(project.DeploymentsFile()),
	}
}

// RequireNodes fails when the network has no node to talk to.
func (cc *CmdContext) RequireNodes() error {
	if cc.Reader == nil {
		if cc.nodesErr != nil {
			return cc.nodesErr
		}
		return fmt.Errorf("no node configured for %s", cc.Network.GetName())
	}
	return nil
}

func (cc *CmdContext) ChainID() uint64 {
	return cc.Network.GetChainID()
}

// CheckChainID fails when the nodes serve another chain than the
// selected network, so nothing gets signed for the wrong chain.
func (cc *CmdContext) CheckChainID(ctx context.Context) error {
	if err := cc.RequireNodes(); err != nil {
		return err
	}
	if cc.chainChecked {
		return nil
	}
	id, err := cc.Reader.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("couldn't get chain id: %w", err)
	}
	if !id.IsUint64() || id.Uint64() != cc.ChainID() {
		served := id.String()
		if id.IsUint64() {
			if n, err := networks.GetNetworkByID(id.Uint64()); err == nil {
				served = fmt.Sprintf("%s (%s)", id, n.GetName())
			}
		}
		return fmt.Errorf("%w: %s expects chain %d but the node serves chain %s",
			ErrWrongChain, cc.Network.GetName(), cc.ChainID(), served)
	}
	cc.chainChecked = true
	return nil
}

// Backend binds contracts to the network of the run.
func (cc *CmdContext) Backend(ctx context.Context) (*contract.Backend, error) {
	if err := cc.CheckChainID(ctx); err != nil {
		return nil, err
	}
	return &contract.Backend{
		Network:     cc.Network,
		Reader:      cc.Reader,
		Broadcaster: cc.Broadcaster,
	}, nil
}

// SignerDesc picks the account described by config.From, or the first
// account configured for the network.
func (cc *CmdContext) SignerDesc() (accounts.AccDesc, error) {
	if config.From != "" {
		return accounts.FindAccount(config.From, cc.Network)
	}
	all := accounts.AllAccounts(cc.Network)
	if len(all) == 0 {
		return accounts.AccDesc{}, fmt.Errorf(
			"no signer for %s, set %v or add a wallet: %w",
			cc.Network.GetName(),
			cc.Network.GetAccountVariableNames(),
			account.ErrMissingCredential,
		)
	}
	return all[0], nil
}

// Signer unlocks the signing account, asking the passphrase of keystores
// through the UI.
func (cc *CmdContext) Signer() (*account.Account, error) {
	if cc.Account != nil {
		return cc.Account, nil
	}
	desc, err := cc.SignerDesc()
	if err != nil {
		return nil, err
	}
	acc, err := accounts.UnlockAccount(desc, cc.UI.Password)
	if err != nil {
		return nil, err
	}
	common.DebugPrintf("using signer %s (%s)", acc.AddressHex(), desc.Kind)
	cc.Account = acc
	return acc, nil
}

// ResolveContract accepts a hex address or the exact name of a
// deployment of the current network.
func (cc *CmdContext) ResolveContract(input string) (ethcommon.Address, error) {
	return cc.Book.Resolve(cc.ChainID(), input)
}

// ResolveAddress is ResolveContract that also accepts the env variable
// name of one of the network's accounts.
func (cc *CmdContext) ResolveAddress(input string) (ethcommon.Address, error) {
	addr, err := cc.ResolveContract(input)
	if err == nil {
		return addr, nil
	}
	if !errors.Is(err, deployments.ErrDeploymentNotFound) {
		return ethcommon.Address{}, err
	}
	desc, accErr := accounts.LookupAccount(input, cc.Network)
	if accErr != nil {
		return ethcommon.Address{}, err
	}
	return ethcommon.HexToAddress(desc.Address), nil
}

// ArgParser parses method arguments with deployment names accepted for
// addresses.
func (cc *CmdContext) ArgParser() *contract.ArgParser {
	return &contract.ArgParser{
		Network:  cc.Network,
		Resolver: cc.ResolveAddress,
	}
}

// TxOptions reads the transaction flags.
func (cc *CmdContext) TxOptions() (contract.TxOptions, error) {
	opts := contract.TxOptions{
		GasLimit:      config.GasLimit,
		ExtraGasLimit: config.ExtraGasLimit,
	}
	if config.RawValue != "" {
		value, err := common.FloatStringToBig(config.RawValue, cc.Network.GetNativeTokenDecimal())
		if err != nil {
			return opts, fmt.Errorf("couldn't parse --value: %w", err)
		}
		if value.Cmp(big.NewInt(0)) < 0 {
			return opts, errors.New("--value can't be negative")
		}
		opts.Value = value
	}
	if config.RawGasPrice != "" {
		price, err := common.GweiToWei(config.RawGasPrice)
		if err != nil {
			return opts, fmt.Errorf("couldn't parse --gas-price: %w", err)
		}
		if price.Sign() < 0 {
			return opts, errors.New("--gas-price can't be negative")
		}
		opts.GasPrice = price
	}
	return opts, nil
}

// FormatAmount renders wei as "<amount> <symbol>" of the network.
func (cc *CmdContext) FormatAmount(wei *big.Int) string {
	return fmt.Sprintf(
		"%s %s",
		common.BigToFloatString(wei, cc.Network.GetNativeTokenDecimal()),
		cc.Network.GetNativeTokenSymbol(),
	)
}
