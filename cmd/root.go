// Copyright © 2018 Victor Tran
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	cmdutil "github.com/realmhunter/nbctl/cmd/util"
	"github.com/realmhunter/nbctl/config"
	"github.com/realmhunter/nbctl/networks"
	"github.com/realmhunter/nbctl/pinning"
	"github.com/realmhunter/nbctl/ui"
)

var appUI ui.UI = ui.NewTerminalUI()

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "nbctl",
	Short: "Deploy and operate the NFT contracts of the game",
	Long: fmt.Sprintf(`nbctl deploys compiled contracts, reads and writes them and
keeps a book of where everything was deployed.

Contracts are looked up by name in the compiled artifacts directory
(./artifacts by default, see nbctl.yaml). Deployed contracts can be
referred to by the name they were recorded under in the deployment book.

Signers come from private keys in the environment (%s by default) or
from keystores added with "nbctl wallet". A .env file in the working
directory is loaded on start.

Networks are configured in nbctl.yaml, the built in ones can use custom
nodes by setting <NETWORK>_NODE. Rinkeby uses Moralis when %s is set.
Pinning token metadata needs %s.`,
		networks.DefaultAccountVariable,
		networks.MoralisNodeVariable,
		pinning.TokenVariable,
	),
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd.PersistentFlags().StringVarP(&config.NetworkString, "network", "k", "", "network to use by name or alternative name, defaults to the project's default network. See nbctl network list for the built-in networks and the ones of the project file")
	rootCmd.PersistentFlags().StringSliceVar(&config.EnvFiles, "env-file", nil, "dotenv files to load instead of ./.env")
	rootCmd.PersistentFlags().StringVar(&config.ProjectFile, "config", "", "project file, defaults to ./nbctl.yaml when present")
	rootCmd.PersistentFlags().BoolVarP(&config.Verbose, "verbose", "v", false, "print debug logs to stderr")
	rootCmd.PersistentFlags().BoolVar(&config.JSONOutput, "json", false, "print results as json")
	rootCmd.PersistentPreRunE = cmdutil.CommonPreprocess(appUI)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		stop()
		os.Exit(1)
	}
}
