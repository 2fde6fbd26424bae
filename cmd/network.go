package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	cmdutil "github.com/realmhunter/nbctl/cmd/util"
	"github.com/realmhunter/nbctl/config"
	"github.com/realmhunter/nbctl/networks"
)

type networkView struct {
	Name      string            `json:"name"`
	Aliases   []string          `json:"aliases,omitempty"`
	ChainID   uint64            `json:"chain_id"`
	Symbol    string            `json:"native_token_symbol"`
	GasPrice  string            `json:"gas_price,omitempty"`
	Accounts  []string          `json:"account_variables"`
	Nodes     map[string]string `json:"nodes"`
	NodeError string            `json:"node_error,omitempty"`
	Current   bool              `json:"current"`
}

func runListNetworks(cmd *cobra.Command, args []string) error {
	cc, err := cmdutil.CmdContextFrom(cmd)
	if err != nil {
		return err
	}
	views := []networkView{}
	for _, n := range networks.GetSupportedNetworks() {
		view := networkView{
			Name:     n.GetName(),
			Aliases:  n.GetAlternativeNames(),
			ChainID:  n.GetChainID(),
			Symbol:   n.GetNativeTokenSymbol(),
			Accounts: n.GetAccountVariableNames(),
			Current:  n.GetName() == cc.Network.GetName(),
		}
		if price := n.GetGasPrice(); price != nil {
			view.GasPrice = price.String()
		}
		nodes, err := networks.GetNodes(n)
		if err != nil {
			view.NodeError = err.Error()
		}
		view.Nodes = nodes
		views = append(views, view)
	}
	if config.JSONOutput {
		return cc.UI.JSON(views)
	}

	rows := [][]string{}
	for _, v := range views {
		name := v.Name
		if v.Current {
			name = "* " + name
		}
		nodeNames := []string{}
		for key := range v.Nodes {
			nodeNames = append(nodeNames, key)
		}
		sort.Strings(nodeNames)
		nodes := strings.Join(nodeNames, ", ")
		if v.NodeError != "" {
			nodes = "none"
		}
		rows = append(rows, []string{
			name,
			fmt.Sprintf("%d", v.ChainID),
			v.Symbol,
			strings.Join(v.Accounts, ", "),
			nodes,
		})
	}
	cc.UI.Table([]string{"Network", "Chain ID", "Symbol", "Signers", "Nodes"}, rows)
	cc.UI.Info("Add networks in the networks section of %s. Override nodes with <NETWORK>_NODE.", config.DefaultProjectFile)
	return nil
}

var listNetworkCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all of supported networks",
	Long:  ``,
	RunE:  runListNetworks,
}

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Show the networks nbctl can work with",
	Long:  ``,
}

func init() {
	networkCmd.AddCommand(listNetworkCmd)
	rootCmd.AddCommand(networkCmd)
}
