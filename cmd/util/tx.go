package util

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/core/types"

	"github.com/realmhunter/nbctl/common"
	"github.com/realmhunter/nbctl/config"
	"github.com/realmhunter/nbctl/contract"
)

var (
	ErrTxLost  = errors.New("transaction was dropped by the network")
	ErrAborted = errors.New("user aborted")
)

// ConfirmTx shows what is about to be signed and asks to go on, unless
// --yes was given.
func (cc *CmdContext) ConfirmTx(rows [][2]string) error {
	cc.UI.Section("Confirm tx data before signing")
	cc.UI.KeyValue(rows)
	if !config.YesToAllPrompt && !cc.UI.Confirm("Confirm?", true) {
		return ErrAborted
	}
	return nil
}

// WaitMined blocks until tx is mined, showing a spinner meanwhile. A
// reverted tx returns its info together with an error matching
// contract.ErrReverted.
func (cc *CmdContext) WaitMined(ctx context.Context, tx *types.Transaction) (common.TxInfo, error) {
	stop := cc.UI.Spinner(fmt.Sprintf("waiting for %s to be mined", tx.Hash().Hex()))
	info, err := cc.Monitor.Wait(ctx, tx.Hash())
	stop()
	if err != nil {
		return info, fmt.Errorf("waiting for %s: %w", tx.Hash().Hex(), err)
	}
	switch info.Status {
	case common.TxStatusReverted:
		return info, fmt.Errorf("tx %s: %w", tx.Hash().Hex(), contract.ErrReverted)
	case common.TxStatusLost:
		return info, fmt.Errorf("tx %s: %w", tx.Hash().Hex(), ErrTxLost)
	}
	return info, nil
}

// ReportMined prints the block and the gas of a mined tx.
func (cc *CmdContext) ReportMined(info common.TxInfo) {
	rows := [][2]string{}
	if info.Receipt != nil {
		rows = append(rows,
			[2]string{"Block", info.Receipt.BlockNumber.String()},
			[2]string{"Gas used", common.ReadableNumber(fmt.Sprintf("%d", info.Receipt.GasUsed))},
		)
	}
	rows = append(rows, [2]string{"Fee", cc.FormatAmount(info.GasCost())})
	cc.UI.Indent().KeyValue(rows)
}
