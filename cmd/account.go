package cmd

import (
	"fmt"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/realmhunter/nbctl/accounts"
	cmdutil "github.com/realmhunter/nbctl/cmd/util"
	"github.com/realmhunter/nbctl/config"
)

func runAccounts(cmd *cobra.Command, args []string) error {
	cc, err := cmdutil.CmdContextFrom(cmd)
	if err != nil {
		return err
	}
	envAccounts, errs := accounts.GetNetworkAccounts(cc.Network)
	for _, err := range errs {
		cc.UI.Warn("%s", err)
	}
	stored, err := accounts.GetAccounts()
	if err != nil {
		cc.UI.Warn("couldn't read keystore accounts: %s", err)
	}
	all := append(envAccounts, stored...)

	if config.JSONOutput {
		return cc.UI.JSON(all)
	}
	if len(all) == 0 {
		cc.UI.Warn("No signer for %s. Set %v or add a keystore with: nbctl wallet add", cc.Network.GetName(), cc.Network.GetAccountVariableNames())
		return nil
	}
	rows := [][]string{}
	for i, acc := range all {
		source := acc.EnvVar
		if acc.Kind == accounts.KindKeystore {
			source = acc.Keypath
		}
		rows = append(rows, []string{fmt.Sprintf("%d", i), acc.Address, acc.Kind, source, acc.Desc})
	}
	cc.UI.Table([]string{"#", "Address", "Kind", "Source", "Description"}, rows)
	return nil
}

// addressArg resolves the optional address argument of balance and
// nonce, defaulting to the signer.
func addressArg(cc *cmdutil.CmdContext, args []string) (ethcommon.Address, error) {
	if len(args) == 0 {
		desc, err := cc.SignerDesc()
		if err != nil {
			return ethcommon.Address{}, err
		}
		return ethcommon.HexToAddress(desc.Address), nil
	}
	return cc.ResolveAddress(args[0])
}

func runBalance(cmd *cobra.Command, args []string) error {
	cc, err := cmdutil.CmdContextFrom(cmd)
	if err != nil {
		return err
	}
	if err := cc.RequireNodes(); err != nil {
		return err
	}
	addr, err := addressArg(cc, args)
	if err != nil {
		return err
	}
	balance, err := cc.Reader.GetBalance(cmd.Context(), addr)
	if err != nil {
		return err
	}
	if config.JSONOutput {
		return cc.UI.JSON(map[string]string{
			"address": addr.Hex(),
			"wei":     balance.String(),
			"amount":  cc.FormatAmount(balance),
		})
	}
	cc.UI.KeyValue([][2]string{
		{"Address", addr.Hex()},
		{"Balance", cc.FormatAmount(balance)},
		{"Wei", balance.String()},
	})
	return nil
}

func runNonce(cmd *cobra.Command, args []string) error {
	cc, err := cmdutil.CmdContextFrom(cmd)
	if err != nil {
		return err
	}
	if err := cc.RequireNodes(); err != nil {
		return err
	}
	addr, err := addressArg(cc, args)
	if err != nil {
		return err
	}
	mined, err := cc.Reader.GetMinedNonce(cmd.Context(), addr)
	if err != nil {
		return err
	}
	pending, err := cc.Reader.GetPendingNonce(cmd.Context(), addr)
	if err != nil {
		return err
	}
	if config.JSONOutput {
		return cc.UI.JSON(map[string]interface{}{
			"address": addr.Hex(),
			"mined":   mined,
			"pending": pending,
		})
	}
	cc.UI.KeyValue([][2]string{
		{"Address", addr.Hex()},
		{"Mined nonce", fmt.Sprintf("%d", mined)},
		{"Pending nonce", fmt.Sprintf("%d", pending)},
	})
	if pending > mined {
		cc.UI.Warn("%d tx(s) still pending", pending-mined)
	}
	return nil
}

var accountsCmd = &cobra.Command{
	Use:     "accounts",
	Aliases: []string{"acc"},
	Short:   "Show the signers configured for the network",
	Long:    `Lists the private keys of the network's env variables first, then the keystores added with nbctl wallet. The first one is the default signer.`,
	Args:    cobra.NoArgs,
	RunE:    runAccounts,
}

var balanceCmd = &cobra.Command{
	Use:   "balance [address|deployment|account]",
	Short: "Show the native token balance of an address, the signer by default",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBalance,
}

var nonceCmd = &cobra.Command{
	Use:   "nonce [address|account]",
	Short: "Show mined and pending nonce of an address, the signer by default",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runNonce,
}

func init() {
	balanceCmd.Flags().StringVarP(&config.From, "from", "f", "", "account to show when no address is given")
	nonceCmd.Flags().StringVarP(&config.From, "from", "f", "", "account to show when no address is given")
	rootCmd.AddCommand(accountsCmd)
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(nonceCmd)
}
