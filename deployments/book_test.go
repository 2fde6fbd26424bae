package deployments

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

const (
	genesisAddress     = "0x31B0A7e9f7EDffbD5214A11693FFd286aDda8D89"
	marketplaceAddress = "0x8E71d31d525A298c2C065fCcf1eAd3D595c06A20"
)

func newTestBook(t *testing.T) *Book {
	return Open(filepath.Join(t.TempDir(), "nested", "deployments.json"))
}

func TestRecordAndGet(t *testing.T) {
	b := newTestBook(t)
	_, err := b.List(4)
	require.NoError(t, err)

	require.NoError(t, b.Record(Record{ChainID: 4, Name: "GenesisNBMonMintingA", Contract: "GenesisNBMonMintingA", Address: genesisAddress}))
	require.NoError(t, b.Record(Record{ChainID: 4, Name: "GenesisMarketplace", Address: marketplaceAddress}))
	require.NoError(t, b.Record(Record{ChainID: 97, Name: "GenesisMarketplace", Address: genesisAddress}))

	r, err := b.Get(4, "GenesisMarketplace")
	require.NoError(t, err)
	require.Equal(t, marketplaceAddress, r.Address)
	require.False(t, r.Timestamp.IsZero())

	records, err := b.List(4)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "GenesisMarketplace", records[0].Name)

	// reopening reads what was persisted
	r, err = Open(b.Path()).Get(97, "GenesisMarketplace")
	require.NoError(t, err)
	require.Equal(t, genesisAddress, r.Address)
}

func TestRecordOverwrites(t *testing.T) {
	b := newTestBook(t)
	require.NoError(t, b.Record(Record{ChainID: 1337, Name: "NBMon", Address: genesisAddress}))
	require.NoError(t, b.Record(Record{ChainID: 1337, Name: "NBMon", Address: marketplaceAddress}))
	records, err := b.List(1337)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, marketplaceAddress, records[0].Address)
}

func TestRecordValidation(t *testing.T) {
	b := newTestBook(t)
	require.Error(t, b.Record(Record{ChainID: 1, Address: genesisAddress}))
	require.Error(t, b.Record(Record{ChainID: 1, Name: "x", Address: "0x1234"}))
}

func TestResolve(t *testing.T) {
	b := newTestBook(t)
	require.NoError(t, b.Record(Record{ChainID: 4, Name: "GenesisNBMonMintingA", Address: genesisAddress}))

	addr, err := b.Resolve(4, "GenesisNBMonMintingA")
	require.NoError(t, err)
	require.Equal(t, ethcommon.HexToAddress(genesisAddress), addr)

	addr, err = b.Resolve(4, marketplaceAddress)
	require.NoError(t, err)
	require.Equal(t, ethcommon.HexToAddress(marketplaceAddress), addr)

	_, err = b.Resolve(4, "MintingA")
	require.ErrorIs(t, err, ErrDeploymentNotFound)
	require.Contains(t, err.Error(), "did you mean GenesisNBMonMintingA")

	_, err = b.Resolve(97, "GenesisNBMonMintingA")
	require.ErrorIs(t, err, ErrDeploymentNotFound)
}

func TestCorruptBook(t *testing.T) {
	b := newTestBook(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(b.Path()), 0o755))
	require.NoError(t, os.WriteFile(b.Path(), []byte("{not json"), 0o644))
	_, err := b.List(1)
	require.Error(t, err)
}

func TestConcurrentRecords(t *testing.T) {
	b := newTestBook(t)
	wg := sync.WaitGroup{}
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			require.NoError(t, b.Record(Record{ChainID: 1, Name: fmt.Sprintf("c%d", i), Address: genesisAddress}))
		}(i)
	}
	wg.Wait()
	records, err := b.List(1)
	require.NoError(t, err)
	require.Len(t, records, 10)
}
