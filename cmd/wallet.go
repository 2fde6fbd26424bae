package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/realmhunter/nbctl/accounts"
	cmdutil "github.com/realmhunter/nbctl/cmd/util"
	"github.com/realmhunter/nbctl/config"
	"github.com/realmhunter/nbctl/ui"
)

func askDescription(u ui.UI) string {
	u.Info("Please enter description of this wallet, it is used to find the wallet with --from later")
	return u.Ask(func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New("description can't be empty")
		}
		return nil
	})
}

func addKeystoreGivenPath(u ui.UI, keystorePath string) (accounts.AccDesc, error) {
	address, err := accounts.VerifyKeystore(keystorePath)
	if err != nil {
		return accounts.AccDesc{}, fmt.Errorf("keystore verification failed: %w", err)
	}
	u.Info("This keystore is with %s", address)
	accDesc := accounts.AccDesc{
		Address: address,
		Kind:    accounts.KindKeystore,
		Keypath: keystorePath,
		Desc:    strings.TrimSpace(askDescription(u)),
	}
	if err = accounts.StoreAccountRecord(accDesc); err != nil {
		return accounts.AccDesc{}, fmt.Errorf("couldn't store the wallet record: %w", err)
	}
	u.Success("Wallet %s added. Don't move the keystore file, the record points to it.", address)
	return accDesc, nil
}

func runAddWallet(cmd *cobra.Command, args []string) error {
	cc, err := cmdutil.CmdContextFrom(cmd)
	if err != nil {
		return err
	}
	var keystorePath string
	if len(args) > 0 {
		keystorePath = args[0]
	} else {
		cc.UI.Info("Please enter the path to your keystore file")
		keystorePath = cc.UI.Ask(func(s string) error {
			_, err := os.Stat(strings.TrimSpace(s))
			return err
		})
	}
	_, err = addKeystoreGivenPath(cc.UI, strings.TrimSpace(keystorePath))
	return err
}

func runImportWallet(cmd *cobra.Command, args []string) error {
	cc, err := cmdutil.CmdContextFrom(cmd)
	if err != nil {
		return err
	}
	cc.UI.Warn("Storing plain private key is NOT secure. It is encrypted to a keystore.")
	privHex := strings.TrimSpace(cc.UI.Password("Paste your private key in hex, it is not displayed:"))
	passphrase := cc.UI.Password("Enter the passphrase to encrypt the private key:")
	if passphrase != cc.UI.Password("Repeat the passphrase:") {
		return errors.New("passphrases don't match")
	}
	path, err := accounts.StorePrivateKeyWithKeystore(privHex, passphrase)
	if err != nil {
		return fmt.Errorf("private key encryption failed: %w", err)
	}
	cc.UI.Success("Stored encrypted private key at %s", path)
	_, err = addKeystoreGivenPath(cc.UI, path)
	return err
}

func runListWallets(cmd *cobra.Command, args []string) error {
	cc, err := cmdutil.CmdContextFrom(cmd)
	if err != nil {
		return err
	}
	accs, err := accounts.GetAccounts()
	if err != nil {
		return err
	}
	if config.JSONOutput {
		return cc.UI.JSON(accs)
	}
	cc.UI.Info("You have %d wallets:", len(accs))
	rows := [][]string{}
	for i, acc := range accs {
		rows = append(rows, []string{fmt.Sprintf("%d", i+1), acc.Address, acc.Desc, acc.Keypath})
	}
	if len(rows) > 0 {
		cc.UI.Table([]string{"#", "Address", "Description", "Keystore"}, rows)
	}
	cc.UI.Info("If you want to add more wallets to the list, use: nbctl wallet add or nbctl wallet import")
	return nil
}

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage your keystore wallets",
	Long:  ``,
}

var addWalletCmd = &cobra.Command{
	Use:   "add [keystore path]",
	Short: "Add an existing keystore file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAddWallet,
}

var importWalletCmd = &cobra.Command{
	Use:   "import",
	Short: "Encrypt a private key to a keystore and add it",
	Args:  cobra.NoArgs,
	RunE:  runImportWallet,
}

var listWalletCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all of your wallets",
	Args:  cobra.NoArgs,
	RunE:  runListWallets,
}

func init() {
	walletCmd.AddCommand(listWalletCmd)
	walletCmd.AddCommand(addWalletCmd)
	walletCmd.AddCommand(importWalletCmd)
	rootCmd.AddCommand(walletCmd)
}
