package broadcaster

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/core/types"

	"github.com/realmhunter/nbctl/common"
	"github.com/realmhunter/nbctl/util/reader"
)

// Sender is a node that accepts signed transactions.
type Sender interface {
	NodeName() string
	SendTransaction(ctx context.Context, tx *types.Transaction) error
}

// Broadcaster takes a signed tx and tries to broadcast it to all
// nodes it manages as fast as possible. The tx counts as broadcasted
// once at least one node accepted it.
type Broadcaster struct {
	nodes map[string]Sender
}

func (b *Broadcaster) BroadcastTx(ctx context.Context, tx *types.Transaction) (string, bool, error) {
	hash := tx.Hash().Hex()
	if len(b.nodes) == 0 {
		return hash, false, fmt.Errorf("no nodes to broadcast to")
	}
	timeout, cancel := context.WithTimeout(ctx, reader.TIMEOUT)
	defer cancel()

	parallelTasks := []func() error{}
	for name := range b.nodes {
		n := b.nodes[name]
		parallelTasks = append(parallelTasks, func() error {
			if err := n.SendTransaction(timeout, tx); err != nil {
				return fmt.Errorf("%s: %w", n.NodeName(), err)
			}
			return nil
		})
	}
	numErrs, err := common.RunParallel(parallelTasks...)
	if numErrs == len(b.nodes) {
		return hash, false, fmt.Errorf("couldn't broadcast tx %s: %w", hash, err)
	}
	if err != nil {
		common.DebugPrintf("tx %s rejected by %d of %d nodes: %s", hash, numErrs, len(b.nodes), err)
	}
	return hash, true, nil
}

func NewGenericBroadcaster(nodes map[string]string) *Broadcaster {
	senders := map[string]Sender{}
	for name, url := range nodes {
		senders[name] = reader.NewOneNodeReader(name, url)
	}
	return &Broadcaster{
		nodes: senders,
	}
}

func NewBroadcasterWithNodes(nodes ...Sender) *Broadcaster {
	senders := map[string]Sender{}
	for _, n := range nodes {
		senders[n.NodeName()] = n
	}
	return &Broadcaster{
		nodes: senders,
	}
}
