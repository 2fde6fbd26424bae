package artifacts

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const answerABI = `[{"inputs":[],"name":"answer","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"}]`

func writeArtifact(t *testing.T, dir, source, name, bytecode string) {
	t.Helper()
	content := fmt.Sprintf(`{
  "_format": "hh-sol-artifact-1",
  "contractName": %q,
  "sourceName": %q,
  "abi": %s,
  "bytecode": %q,
  "deployedBytecode": "0x",
  "linkReferences": {},
  "deployedLinkReferences": {}
}`, name, source, answerABI, bytecode)
	path := filepath.Join(dir, source, name+".json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	dbg := filepath.Join(dir, source, name+".dbg.json")
	require.NoError(t, os.WriteFile(dbg, []byte(`{"_format":"hh-sol-dbg-1"}`), 0o644))
}

func newTestStore(t *testing.T) *Store {
	dir := t.TempDir()
	writeArtifact(t, dir, "contracts/GenesisNBMon.sol", "GenesisNBMon", "0x600a600c600039600a6000f3602a60005260206000f3")
	writeArtifact(t, dir, "contracts/Marketplace.sol", "GenesisMarketplace", "0x6001")
	writeArtifact(t, dir, "contracts/IERC721.sol", "IERC721", "0x")
	writeArtifact(t, dir, "contracts/a/Token.sol", "Token", "0x6001")
	writeArtifact(t, dir, "contracts/b/Token.sol", "Token", "0x6002")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "build-info"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "build-info", "abc.json"), []byte(`{"id":"abc"}`), 0o644))
	return NewStore(dir)
}

func TestGetByName(t *testing.T) {
	s := newTestStore(t)
	a, err := s.Get("GenesisNBMon")
	require.NoError(t, err)
	require.Equal(t, "contracts/GenesisNBMon.sol", a.SourceName)
	require.True(t, a.Deployable())
	require.Contains(t, a.ABI.Methods, "answer")
	require.Len(t, a.Bytecode, 22)
}

func TestGetAbstractContract(t *testing.T) {
	a, err := newTestStore(t).Get("IERC721")
	require.NoError(t, err)
	require.False(t, a.Deployable())
}

func TestGetAmbiguousAndQualified(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get("Token")
	require.ErrorIs(t, err, ErrAmbiguousArtifact)
	require.Contains(t, err.Error(), "contracts/a/Token.sol:Token")
	require.Contains(t, err.Error(), "contracts/b/Token.sol:Token")

	a, err := s.Get("contracts/b/Token.sol:Token")
	require.NoError(t, err)
	require.Equal(t, []byte{0x60, 0x02}, a.Bytecode)
}

func TestGetUnknownSuggests(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get("GenNBMon")
	require.ErrorIs(t, err, ErrArtifactNotFound)
	require.Contains(t, err.Error(), "did you mean GenesisNBMon")

	_, err = s.Get("contracts/Nope.sol:Nope")
	require.ErrorIs(t, err, ErrArtifactNotFound)
}

func TestList(t *testing.T) {
	list, err := newTestStore(t).List()
	require.NoError(t, err)
	names := []string{}
	for _, a := range list {
		names = append(names, a.FullyQualifiedName())
	}
	require.Equal(t, []string{
		"contracts/Marketplace.sol:GenesisMarketplace",
		"contracts/GenesisNBMon.sol:GenesisNBMon",
		"contracts/IERC721.sol:IERC721",
		"contracts/a/Token.sol:Token",
		"contracts/b/Token.sol:Token",
	}, names)
}

func TestMissingDirectory(t *testing.T) {
	_, err := NewStore(filepath.Join(t.TempDir(), "nope")).Get("GenesisNBMon")
	require.Error(t, err)
	require.Contains(t, err.Error(), "are the contracts compiled?")
}

func TestReadBareABIFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Answer.json")
	require.NoError(t, os.WriteFile(path, []byte(answerABI), 0o644))
	a, err := NewStore("unused").Get(path)
	require.NoError(t, err)
	require.Equal(t, "Answer", a.ContractName)
	require.False(t, a.Deployable())
}

func TestUnlinkedArtifact(t *testing.T) {
	a, err := ParseArtifact([]byte(`{
  "contractName": "UsesLib",
  "sourceName": "contracts/UsesLib.sol",
  "abi": [],
  "bytecode": "0x60__$abc$__",
  "linkReferences": {"contracts/Lib.sol": {"Lib": [{"length": 20, "start": 1}]}}
}`))
	require.NoError(t, err)
	require.True(t, a.Unlinked)
	require.False(t, a.Deployable())
}
