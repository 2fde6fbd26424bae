package monitor

import (
	"context"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/realmhunter/nbctl/common"
)

const (
	DefaultInterval    = 2 * time.Second
	DefaultLostTimeout = 3 * time.Minute
)

type TxInfoReader interface {
	TxInfoFromHash(ctx context.Context, txHash ethcommon.Hash) (common.TxInfo, error)
}

// TxMonitor polls a reader until a transaction is mined, reverted or
// considered lost. A tx is lost when no node has seen it for LostTimeout.
type TxMonitor struct {
	reader      TxInfoReader
	Interval    time.Duration
	LostTimeout time.Duration
}

func NewGenericTxMonitor(r TxInfoReader) *TxMonitor {
	return &TxMonitor{
		reader:      r,
		Interval:    DefaultInterval,
		LostTimeout: DefaultLostTimeout,
	}
}

// Wait blocks until the tx reaches a final status or ctx is done.
func (tm *TxMonitor) Wait(ctx context.Context, txHash ethcommon.Hash) (common.TxInfo, error) {
	ticker := time.NewTicker(tm.Interval)
	defer ticker.Stop()
	startTime := time.Now()
	isOnNode := false
	for {
		txinfo, err := tm.reader.TxInfoFromHash(ctx, txHash)
		if err != nil {
			common.DebugPrintf("checking tx %s: %s", txHash.Hex(), err)
		}
		if txinfo.IsFinal() {
			return txinfo, nil
		}
		switch txinfo.Status {
		case common.TxStatusNotFound:
			if !isOnNode && time.Since(startTime) > tm.LostTimeout {
				return common.TxInfo{Status: common.TxStatusLost}, nil
			}
		case common.TxStatusPending:
			isOnNode = true
		}

		select {
		case <-ctx.Done():
			return common.TxInfo{Status: common.TxStatusPending, Tx: txinfo.Tx}, ctx.Err()
		case <-ticker.C:
		}
	}
}
