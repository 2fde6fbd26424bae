package cmd

import (
	"github.com/spf13/cobra"

	"github.com/realmhunter/nbctl/config"
)

func AddCommonFlagsToTransactionalCmds(c *cobra.Command) {
	addGasFlags(c)
	c.PersistentFlags().
		BoolVarP(&config.DontWaitToBeMined, "no-wait", "F", false, "Will not wait the tx to be mined.")
}

// addGasFlags adds everything of a transactional command but --no-wait.
func addGasFlags(c *cobra.Command) {
	c.PersistentFlags().
		StringVarP(&config.RawGasPrice, "gas-price", "p", "", "Gas price in gwei. Forces a legacy tx. If not set, the network's fixed price is used, otherwise the fee is derived from the latest block")
	c.PersistentFlags().
		Uint64VarP(&config.GasLimit, "gas-limit", "g", 0, "Base gas limit for the tx. If default value is used, we will use the nodes to estimate the gas limit. The gas limit to be used in the tx is gas limit + extra gas limit")
	c.PersistentFlags().
		Uint64VarP(&config.ExtraGasLimit, "extragas", "G", 0, "Extra gas limit for the tx. The gas limit to be used in the tx is gas limit + extra gas limit")
	c.PersistentFlags().
		StringVarP(&config.From, "from", "f", "", "Account to send the tx with. It can be an address, an env variable name or a hint to look it up in the accounts. See nbctl accounts")
	c.PersistentFlags().
		BoolVarP(&config.YesToAllPrompt, "yes", "y", false, "Don't ask for confirmation before signing, for scripts")
}

func AddValueFlag(c *cobra.Command) {
	c.PersistentFlags().
		StringVarP(&config.RawValue, "value", "V", "", "Amount of native token to send with the tx, in whole units (eg. 0.5)")
}
