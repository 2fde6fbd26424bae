package deployments

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/sahilm/fuzzy"

	"github.com/realmhunter/nbctl/common"
)

var ErrDeploymentNotFound = errors.New("deployment not found")

// Record is one deployed contract instance.
type Record struct {
	ChainID   uint64    `json:"chainId"`
	Name      string    `json:"name"`
	Contract  string    `json:"contract"`
	Address   string    `json:"address"`
	TxHash    string    `json:"txHash,omitempty"`
	Deployer  string    `json:"deployer,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func (r Record) ContractAddress() ethcommon.Address {
	return ethcommon.HexToAddress(r.Address)
}

// Book persists deployment records in a json file keyed by chain id then
// deployment name. A missing file is an empty book.
type Book struct {
	path string
	mu   sync.Mutex
}

type bookContent map[string]map[string]Record

func Open(path string) *Book {
	return &Book{path: path}
}

func (b *Book) Path() string {
	return b.path
}

func (b *Book) read() (bookContent, error) {
	content, err := os.ReadFile(b.path)
	if errors.Is(err, os.ErrNotExist) {
		return bookContent{}, nil
	}
	if err != nil {
		return nil, err
	}
	result := bookContent{}
	if len(strings.TrimSpace(string(content))) == 0 {
		return result, nil
	}
	if err := json.Unmarshal(content, &result); err != nil {
		return nil, fmt.Errorf("couldn't parse deployments from %s: %w", b.path, err)
	}
	return result, nil
}

// write replaces the file atomically so an interrupted write never
// leaves a truncated book behind.
func (b *Book) write(content bookContent) error {
	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(b.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), b.path)
}

func chainKey(chainID uint64) string {
	return strconv.FormatUint(chainID, 10)
}

// Record stores r, replacing any earlier record with the same name on
// the same chain.
func (b *Book) Record(r Record) error {
	if r.Name == "" {
		return fmt.Errorf("deployment record needs a name")
	}
	if !ethcommon.IsHexAddress(r.Address) {
		return fmt.Errorf("deployment record has invalid address %q", r.Address)
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	content, err := b.read()
	if err != nil {
		return err
	}
	key := chainKey(r.ChainID)
	if content[key] == nil {
		content[key] = map[string]Record{}
	}
	if old, found := content[key][r.Name]; found {
		common.DebugPrintf("replacing deployment %s at %s with %s", r.Name, old.Address, r.Address)
	}
	content[key][r.Name] = r
	if err := b.write(content); err != nil {
		return fmt.Errorf("couldn't save deployments to %s: %w", b.path, err)
	}
	return nil
}

// List returns the records of a chain ordered by name.
func (b *Book) List(chainID uint64) ([]Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	content, err := b.read()
	if err != nil {
		return nil, err
	}
	result := []Record{}
	for _, r := range content[chainKey(chainID)] {
		result = append(result, r)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (b *Book) Get(chainID uint64, name string) (Record, error) {
	records, err := b.List(chainID)
	if err != nil {
		return Record{}, err
	}
	for _, r := range records {
		if r.Name == name {
			return r, nil
		}
	}
	suggestions := []string{}
	for _, m := range fuzzy.FindFrom(name, FuzzySource(records)) {
		suggestions = append(suggestions, records[m.Index].Name)
		if len(suggestions) == 3 {
			break
		}
	}
	if len(suggestions) > 0 {
		return Record{}, fmt.Errorf("%w: %s on chain %d (did you mean %s?)",
			ErrDeploymentNotFound, name, chainID, strings.Join(suggestions, ", "))
	}
	return Record{}, fmt.Errorf("%w: %s on chain %d", ErrDeploymentNotFound, name, chainID)
}

// Resolve accepts a hex address or the name of a deployment on chainID.
func (b *Book) Resolve(chainID uint64, nameOrAddress string) (ethcommon.Address, error) {
	nameOrAddress = strings.TrimSpace(nameOrAddress)
	if ethcommon.IsHexAddress(nameOrAddress) {
		return ethcommon.HexToAddress(nameOrAddress), nil
	}
	r, err := b.Get(chainID, nameOrAddress)
	if err != nil {
		return ethcommon.Address{}, err
	}
	return r.ContractAddress(), nil
}
