package cmd

import (
	"time"

	"github.com/spf13/cobra"

	cmdutil "github.com/realmhunter/nbctl/cmd/util"
	"github.com/realmhunter/nbctl/config"
)

func runContracts(cmd *cobra.Command, args []string) error {
	cc, err := cmdutil.CmdContextFrom(cmd)
	if err != nil {
		return err
	}
	all, err := cc.Artifacts.List()
	if err != nil {
		return err
	}
	if config.JSONOutput {
		type view struct {
			Name       string `json:"name"`
			Source     string `json:"source"`
			Deployable bool   `json:"deployable"`
			Path       string `json:"path"`
		}
		views := []view{}
		for _, a := range all {
			views = append(views, view{a.ContractName, a.SourceName, a.Deployable(), a.Path})
		}
		return cc.UI.JSON(views)
	}
	if len(all) == 0 {
		cc.UI.Warn("No artifact in %s", cc.Artifacts.Dir())
		return nil
	}
	rows := [][]string{}
	for _, a := range all {
		kind := "deployable"
		switch {
		case a.Unlinked:
			kind = "needs linking"
		case !a.Deployable():
			kind = "interface"
		}
		rows = append(rows, []string{a.ContractName, a.SourceName, kind})
	}
	cc.UI.Table([]string{"Contract", "Source", "Kind"}, rows)
	return nil
}

func runDeployments(cmd *cobra.Command, args []string) error {
	cc, err := cmdutil.CmdContextFrom(cmd)
	if err != nil {
		return err
	}
	records, err := cc.Book.List(cc.ChainID())
	if err != nil {
		return err
	}
	if config.JSONOutput {
		return cc.UI.JSON(records)
	}
	if len(records) == 0 {
		cc.UI.Warn("Nothing deployed on %s yet", cc.Network.GetName())
		return nil
	}
	rows := [][]string{}
	for _, r := range records {
		rows = append(rows, []string{r.Name, r.Contract, r.Address, r.Timestamp.Local().Format(time.DateTime)})
	}
	cc.UI.Table([]string{"Name", "Contract", "Address", "Deployed at"}, rows)
	return nil
}

var contractsCmd = &cobra.Command{
	Use:   "contracts",
	Short: "List the compiled contracts",
	Args:  cobra.NoArgs,
	RunE:  runContracts,
}

var deploymentsCmd = &cobra.Command{
	Use:   "deployments",
	Short: "List the deployments recorded for the network",
	Args:  cobra.NoArgs,
	RunE:  runDeployments,
}

func init() {
	rootCmd.AddCommand(contractsCmd)
	rootCmd.AddCommand(deploymentsCmd)
}
