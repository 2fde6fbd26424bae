package cmd

import (
	"time"

	"github.com/spf13/cobra"

	cmdutil "github.com/realmhunter/nbctl/cmd/util"
	"github.com/realmhunter/nbctl/config"
	"github.com/realmhunter/nbctl/contract"
	"github.com/realmhunter/nbctl/deployments"
)

type deployResult struct {
	Contract string `json:"contract"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	TxHash   string `json:"tx_hash"`
	Deployer string `json:"deployer"`
	Status   string `json:"status"`
	Recorded bool   `json:"recorded"`
}

func runDeploy(cmd *cobra.Command, args []string) error {
	cc, err := cmdutil.CmdContextFrom(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	artifact, err := cc.Artifacts.Get(args[0])
	if err != nil {
		return err
	}
	backend, err := cc.Backend(ctx)
	if err != nil {
		return err
	}
	signer, err := cc.Signer()
	if err != nil {
		return err
	}
	opts, err := cc.TxOptions()
	if err != nil {
		return err
	}
	params, err := cc.ArgParser().Parse(artifact.ABI.Constructor.Inputs, args[1:])
	if err != nil {
		return err
	}

	balance, err := cc.Reader.GetBalance(ctx, signer.Address())
	if err != nil {
		return err
	}
	rows := [][2]string{
		{"Deploying", artifact.FullyQualifiedName()},
		{"Network", cc.Network.GetName()},
		{"Deployer", signer.AddressHex()},
		{"Balance", cc.FormatAmount(balance)},
	}
	if opts.Value != nil {
		rows = append(rows, [2]string{"Value", cc.FormatAmount(opts.Value)})
	}
	if err := cc.ConfirmTx(rows); err != nil {
		return err
	}

	factory := contract.NewFactory(artifact, backend, signer)
	deployed, tx, err := factory.Deploy(ctx, opts, params...)
	if err != nil {
		return err
	}
	cc.UI.Critical("Tx %s broadcasted", tx.Hash().Hex())

	name := config.DeploymentName
	if name == "" {
		name = artifact.ContractName
	}
	result := deployResult{
		Contract: artifact.FullyQualifiedName(),
		Name:     name,
		Address:  deployed.Address.Hex(),
		TxHash:   tx.Hash().Hex(),
		Deployer: signer.AddressHex(),
		Status:   "broadcasted",
	}

	if !config.DontWaitToBeMined {
		info, err := cc.WaitMined(ctx, tx)
		if err != nil {
			return err
		}
		result.Status = info.Status
		cc.ReportMined(info)
	}

	if !config.NoRecord {
		err = cc.Book.Record(deployments.Record{
			ChainID:   cc.ChainID(),
			Name:      name,
			Contract:  artifact.FullyQualifiedName(),
			Address:   result.Address,
			TxHash:    result.TxHash,
			Deployer:  result.Deployer,
			Timestamp: time.Now().UTC(),
		})
		if err != nil {
			return err
		}
		result.Recorded = true
	}

	if config.JSONOutput {
		return cc.UI.JSON(result)
	}
	cc.UI.Success("%s deployed to %s", artifact.ContractName, result.Address)
	if result.Recorded {
		cc.UI.Info("Recorded as %s in %s", name, cc.Book.Path())
	}
	return nil
}

var deployCmd = &cobra.Command{
	Use:   "deploy <Contract> [constructor args...]",
	Short: "Deploy a compiled contract and record it in the deployment book",
	Long: `Deploys the contract named after its artifact (or Source.sol:Name when the
name is ambiguous) with the given constructor arguments, waits for it to be
mined and records the address under --as, the contract name by default.

Arguments are typed after the constructor: arrays and tuples are written as
[a, b] and (a, b), native amounts as "1.5 MATIC" and addresses may be
deployment names.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDeploy,
}

func init() {
	AddCommonFlagsToTransactionalCmds(deployCmd)
	AddValueFlag(deployCmd)
	deployCmd.Flags().StringVar(&config.DeploymentName, "as", "", "name to record the deployment under")
	deployCmd.Flags().BoolVar(&config.NoRecord, "no-record", false, "don't record the deployment")
	rootCmd.AddCommand(deployCmd)
}
