package broadcaster

import (
	"context"
	"errors"
	"math/big"
	"sync/atomic"
	"testing"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	name  string
	err   error
	calls atomic.Int32
}

func (f *fakeSender) NodeName() string { return f.name }

func (f *fakeSender) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	f.calls.Add(1)
	return f.err
}

func testTx() *types.Transaction {
	return types.NewTx(&types.LegacyTx{
		Nonce:    1,
		GasPrice: big.NewInt(1),
		Gas:      21000,
		Value:    big.NewInt(0),
	})
}

func TestBroadcastReachesEveryNode(t *testing.T) {
	a := &fakeSender{name: "a"}
	b := &fakeSender{name: "b", err: errors.New("nonce too low")}
	bc := NewBroadcasterWithNodes(a, b)

	tx := testTx()
	hash, broadcasted, err := bc.BroadcastTx(context.Background(), tx)
	require.NoError(t, err)
	require.True(t, broadcasted)
	require.Equal(t, tx.Hash().Hex(), hash)
	require.Equal(t, int32(1), a.calls.Load())
	require.Equal(t, int32(1), b.calls.Load())
}

func TestBroadcastFailsWhenEveryNodeRejects(t *testing.T) {
	cause := errors.New("insufficient funds")
	bc := NewBroadcasterWithNodes(
		&fakeSender{name: "a", err: cause},
		&fakeSender{name: "b", err: cause},
	)
	_, broadcasted, err := bc.BroadcastTx(context.Background(), testTx())
	require.False(t, broadcasted)
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "a: insufficient funds")
}

func TestBroadcastWithoutNodes(t *testing.T) {
	_, broadcasted, err := NewGenericBroadcaster(nil).BroadcastTx(context.Background(), testTx())
	require.False(t, broadcasted)
	require.Error(t, err)
}
