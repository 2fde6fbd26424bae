package cmd

import (
	"github.com/spf13/cobra"
)

const (
	VERSION string = "0.3.0"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show nbctl version",
	Long:  ``,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		appUI.Info("Version: %s", VERSION)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
