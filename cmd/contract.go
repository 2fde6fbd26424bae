package cmd

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/spf13/cobra"

	cmdutil "github.com/realmhunter/nbctl/cmd/util"
	"github.com/realmhunter/nbctl/common"
	"github.com/realmhunter/nbctl/config"
	"github.com/realmhunter/nbctl/contract"
	"github.com/realmhunter/nbctl/util/account"
)

// methodCall is a contract handle with the method and parsed arguments
// named on the command line: <Contract> <address|deployment> <method> [args...]
type methodCall struct {
	contract *contract.Contract
	method   abi.Method
	params   []interface{}
}

// prepareMethodCall fails unless the target resolves to code, so a wallet
// address never gets a contract call.
func prepareMethodCall(ctx context.Context, cc *cmdutil.CmdContext, signer *account.Account, args []string) (*methodCall, error) {
	artifact, err := cc.Artifacts.Get(args[0])
	if err != nil {
		return nil, err
	}
	backend, err := cc.Backend(ctx)
	if err != nil {
		return nil, err
	}
	address, err := cc.ResolveContract(args[1])
	if err != nil {
		return nil, err
	}
	c := contract.NewFactory(artifact, backend, signer).Attach(address)
	if err := c.CheckCode(ctx); err != nil {
		return nil, err
	}
	m, err := c.Method(args[2])
	if err != nil {
		return nil, err
	}
	params, err := cc.ArgParser().Parse(m.Inputs, args[3:])
	if err != nil {
		return nil, err
	}
	return &methodCall{contract: c, method: m, params: params}, nil
}

// txRows describes a method tx for confirmation.
func txRows(cc *cmdutil.CmdContext, signer *account.Account, mc *methodCall, opts contract.TxOptions) [][2]string {
	rows := [][2]string{
		{"From", signer.AddressHex()},
		{"To", fmt.Sprintf("%s (%s)", mc.contract.Address.Hex(), mc.contract.Name)},
		{"Method", mc.method.Sig},
	}
	for i, arg := range mc.method.Inputs {
		rows = append(rows, [2]string{"  " + outputName(arg, i), contract.FormatValue(mc.params[i])})
	}
	if opts.Value != nil {
		rows = append(rows, [2]string{"Value", cc.FormatAmount(opts.Value)})
	}
	return rows
}

func outputName(arg abi.Argument, i int) string {
	if arg.Name != "" {
		return arg.Name
	}
	return fmt.Sprintf("#%d", i)
}

func runCall(cmd *cobra.Command, args []string) error {
	cc, err := cmdutil.CmdContextFrom(cmd)
	if err != nil {
		return err
	}
	mc, err := prepareMethodCall(cmd.Context(), cc, nil, args)
	if err != nil {
		return err
	}
	if !contract.IsReadOnly(mc.method) {
		cc.UI.Warn("%s changes state, the result is simulated and nothing is sent. Use nbctl send to execute it.", mc.method.Sig)
	}
	values, err := mc.contract.Call(cmd.Context(), mc.method.Sig, mc.params...)
	if err != nil {
		return err
	}

	if config.JSONOutput {
		result := map[string]interface{}{}
		for i, arg := range mc.method.Outputs {
			result[outputName(arg, i)] = contract.JSONValue(values[i])
		}
		return cc.UI.JSON(result)
	}
	rows := [][]string{}
	for i, arg := range mc.method.Outputs {
		rows = append(rows, []string{outputName(arg, i), arg.Type.String(), contract.FormatValue(values[i])})
	}
	if len(rows) == 0 {
		cc.UI.Info("%s returned nothing", mc.method.Sig)
		return nil
	}
	cc.UI.Table([]string{"Output", "Type", "Value"}, rows)
	return nil
}

func runSend(cmd *cobra.Command, args []string) error {
	cc, err := cmdutil.CmdContextFrom(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	signer, err := cc.Signer()
	if err != nil {
		return err
	}
	mc, err := prepareMethodCall(ctx, cc, signer, args)
	if err != nil {
		return err
	}
	opts, err := cc.TxOptions()
	if err != nil {
		return err
	}
	if contract.IsReadOnly(mc.method) {
		cc.UI.Warn("%s is read only, sending it only costs gas", mc.method.Sig)
	}

	if err := cc.ConfirmTx(txRows(cc, signer, mc, opts)); err != nil {
		return err
	}
	tx, err := mc.contract.Transact(ctx, opts, mc.method.Sig, mc.params...)
	if err != nil {
		return err
	}
	cc.UI.Critical("Tx %s broadcasted", tx.Hash().Hex())
	result := map[string]interface{}{
		"tx_hash": tx.Hash().Hex(),
		"status":  common.TxStatusPending,
	}
	if !config.DontWaitToBeMined {
		info, err := cc.WaitMined(ctx, tx)
		if err != nil {
			return err
		}
		result["status"] = info.Status
		result["gas_used"] = info.Receipt.GasUsed
		if !config.JSONOutput {
			cc.ReportMined(info)
		}
	}
	if config.JSONOutput {
		return cc.UI.JSON(result)
	}
	cc.UI.Success("%s done", mc.method.Sig)
	return nil
}

type mintResult struct {
	Index   uint64 `json:"index"`
	TxHash  string `json:"tx_hash,omitempty"`
	GasUsed uint64 `json:"gas_used"`
	Error   string `json:"error,omitempty"`
}

var errSomeMintsFailed = errors.New("some transactions failed")

// runMint sends the same write method config.Count times, one after the
// other, and reports the gas each one used. A failed tx is reported and
// the loop goes on.
func runMint(cmd *cobra.Command, args []string) error {
	cc, err := cmdutil.CmdContextFrom(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if config.Count == 0 {
		return errors.New("--count must be at least 1")
	}
	signer, err := cc.Signer()
	if err != nil {
		return err
	}
	mc, err := prepareMethodCall(ctx, cc, signer, args)
	if err != nil {
		return err
	}
	opts, err := cc.TxOptions()
	if err != nil {
		return err
	}
	rows := append(txRows(cc, signer, mc, opts), [2]string{"Count", fmt.Sprintf("%d", config.Count)})
	if err := cc.ConfirmTx(rows); err != nil {
		return err
	}

	results := []mintResult{}
	totalGas := uint64(0)
	totalFee := big.NewInt(0)
	failed := 0
	for i := uint64(1); i <= config.Count; i++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		r := mintResult{Index: i}
		tx, err := mc.contract.Transact(ctx, opts, mc.method.Sig, mc.params...)
		if err == nil {
			r.TxHash = tx.Hash().Hex()
			info, waitErr := cc.WaitMined(ctx, tx)
			if info.Receipt != nil {
				r.GasUsed = info.Receipt.GasUsed
				totalGas += r.GasUsed
				totalFee.Add(totalFee, info.GasCost())
			}
			err = waitErr
		}
		if err != nil {
			failed++
			r.Error = err.Error()
			cc.UI.Error("%d/%d: %s", i, config.Count, err)
		} else if !config.JSONOutput {
			cc.UI.Info("%d/%d: %s used %s gas", i, config.Count, r.TxHash, common.ReadableNumber(fmt.Sprintf("%d", r.GasUsed)))
		}
		results = append(results, r)
	}

	if config.JSONOutput {
		if err := cc.UI.JSON(map[string]interface{}{
			"method":    mc.method.Sig,
			"txs":       results,
			"total_gas": totalGas,
			"total_fee": totalFee.String(),
			"failed":    failed,
		}); err != nil {
			return err
		}
	} else {
		rows := [][]string{}
		for _, r := range results {
			gas := common.ReadableNumber(fmt.Sprintf("%d", r.GasUsed))
			if r.Error != "" {
				gas = "failed"
			}
			rows = append(rows, []string{fmt.Sprintf("%d", r.Index), r.TxHash, gas})
		}
		cc.UI.Table([]string{"#", "Tx", "Gas used"}, rows)
		cc.UI.KeyValue([][2]string{
			{"Total gas", common.ReadableNumber(fmt.Sprintf("%d", totalGas))},
			{"Total fee", cc.FormatAmount(totalFee)},
		})
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d: %w", failed, config.Count, errSomeMintsFailed)
	}
	return nil
}

var callCmd = &cobra.Command{
	Use:   "call <Contract> <address|deployment> <method> [args...]",
	Short: "Read a contract method and print its outputs",
	Long: `Calls a method against the latest block. The method is a name or a full
signature like mint(address,uint256) when the name is overloaded.`,
	Args: cobra.MinimumNArgs(3),
	RunE: runCall,
}

var sendCmd = &cobra.Command{
	Use:   "send <Contract> <address|deployment> <method> [args...]",
	Short: "Send a transaction calling a contract method",
	Args:  cobra.MinimumNArgs(3),
	RunE:  runSend,
}

var mintCmd = &cobra.Command{
	Use:   "mint <Contract> <address|deployment> <method> [args...]",
	Short: "Send a write method --count times and report the gas of every tx",
	Long: `Runs the method sequentially, waiting for each tx to be mined, and prints
the gas used per tx and in total. A failed tx does not stop the run, the
command fails at the end when any tx failed.`,
	Args: cobra.MinimumNArgs(3),
	RunE: runMint,
}

func init() {
	AddCommonFlagsToTransactionalCmds(sendCmd)
	AddValueFlag(sendCmd)
	addGasFlags(mintCmd)
	AddValueFlag(mintCmd)
	mintCmd.Flags().Uint64VarP(&config.Count, "count", "c", 1, "number of txs to send")

	rootCmd.AddCommand(callCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(mintCmd)
}
