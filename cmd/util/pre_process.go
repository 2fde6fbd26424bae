package util

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/realmhunter/nbctl/common"
	"github.com/realmhunter/nbctl/config"
	"github.com/realmhunter/nbctl/ui"
)

// CommonPreprocess loads the environment and the project file, selects
// the network and attaches a CmdContext to cmd. A context attached
// beforehand, as tests do, is kept.
func CommonPreprocess(u ui.UI) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		common.SetupLogger(os.Stderr, config.Verbose)

		if _, err := CmdContextFrom(cmd); err == nil {
			return nil
		}

		envFiles := []string{}
		for _, f := range config.EnvFiles {
			if f = strings.TrimSpace(f); f != "" {
				envFiles = append(envFiles, f)
			}
		}
		if err := config.LoadEnv(envFiles...); err != nil {
			return err
		}
		if _, err := config.LoadProject(config.ProjectFile); err != nil {
			return err
		}
		if err := config.SetNetwork(config.NetworkString); err != nil {
			return err
		}
		network := config.Network()
		common.DebugPrintf("network %s (chain %d)", network.GetName(), network.GetChainID())

		cc := NewCmdContext(network, u)
		cmd.SetContext(WithCmdContext(cmd.Context(), cc))
		return nil
	}
}
