package cmd

import (
	"fmt"
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/spf13/cobra"

	cmdutil "github.com/realmhunter/nbctl/cmd/util"
	"github.com/realmhunter/nbctl/common"
	"github.com/realmhunter/nbctl/config"
	"github.com/realmhunter/nbctl/ui"
)

type txView struct {
	Hash     string `json:"hash"`
	Status   string `json:"status"`
	From     string `json:"from,omitempty"`
	To       string `json:"to,omitempty"`
	Contract string `json:"created_contract,omitempty"`
	Value    string `json:"value,omitempty"`
	Nonce    uint64 `json:"nonce"`
	Block    string `json:"block,omitempty"`
	GasUsed  uint64 `json:"gas_used,omitempty"`
	Fee      string `json:"fee,omitempty"`
	Logs     int    `json:"logs"`
}

func newTxView(cc *cmdutil.CmdContext, hash ethcommon.Hash, info common.TxInfo) txView {
	view := txView{Hash: hash.Hex(), Status: info.Status}
	if info.Tx == nil {
		return view
	}
	view.Nonce = info.Tx.Nonce()
	view.Value = info.Tx.Value().String()
	if info.Tx.To() != nil {
		view.To = info.Tx.To().Hex()
	}
	signer := types.LatestSignerForChainID(new(big.Int).SetUint64(cc.ChainID()))
	if from, err := types.Sender(signer, info.Tx); err == nil {
		view.From = from.Hex()
	} else {
		common.DebugPrintf("couldn't recover sender of %s: %s", hash.Hex(), err)
	}
	if info.Receipt != nil {
		view.Block = info.Receipt.BlockNumber.String()
		view.GasUsed = info.Receipt.GasUsed
		view.Fee = info.GasCost().String()
		view.Logs = len(info.Receipt.Logs)
		if info.Receipt.ContractAddress != (ethcommon.Address{}) {
			view.Contract = info.Receipt.ContractAddress.Hex()
		}
	}
	return view
}

func statusSeverity(status string) ui.Severity {
	switch status {
	case common.TxStatusDone:
		return ui.SeveritySuccess
	case common.TxStatusPending:
		return ui.SeverityWarn
	}
	return ui.SeverityError
}

func runTx(cmd *cobra.Command, args []string) error {
	cc, err := cmdutil.CmdContextFrom(cmd)
	if err != nil {
		return err
	}
	if err := cc.RequireNodes(); err != nil {
		return err
	}
	input := args[0]
	if len(ethcommon.FromHex(input)) != ethcommon.HashLength {
		return fmt.Errorf("%q is not a tx hash", input)
	}
	hash := ethcommon.HexToHash(input)
	info, err := cc.Reader.TxInfoFromHash(cmd.Context(), hash)
	if err != nil {
		return err
	}
	view := newTxView(cc, hash, info)
	if config.JSONOutput {
		return cc.UI.JSON(view)
	}
	if info.Tx == nil {
		cc.UI.Warn("%s is not found on %s", hash.Hex(), cc.Network.GetName())
		return nil
	}
	rows := [][2]string{
		{"Tx", view.Hash},
		{"Status", cc.UI.Style(ui.StyledText{Text: view.Status, Severity: statusSeverity(view.Status)})},
		{"From", view.From},
	}
	if view.Contract != "" {
		rows = append(rows, [2]string{"Created", view.Contract})
	} else {
		rows = append(rows, [2]string{"To", view.To})
	}
	rows = append(rows,
		[2]string{"Value", cc.FormatAmount(info.Tx.Value())},
		[2]string{"Nonce", fmt.Sprintf("%d", view.Nonce)},
	)
	if info.Receipt != nil {
		rows = append(rows,
			[2]string{"Block", view.Block},
			[2]string{"Gas used", common.ReadableNumber(fmt.Sprintf("%d", view.GasUsed))},
			[2]string{"Fee", cc.FormatAmount(info.GasCost())},
			[2]string{"Logs", fmt.Sprintf("%d", view.Logs)},
		)
	}
	cc.UI.KeyValue(rows)
	return nil
}

var txCmd = &cobra.Command{
	Use:   "tx <hash>",
	Short: "Show status, sender, value and receipt of a transaction",
	Args:  cobra.ExactArgs(1),
	RunE:  runTx,
}

func init() {
	rootCmd.AddCommand(txCmd)
}
