package artifacts

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"

	"github.com/realmhunter/nbctl/common"
)

var (
	ErrArtifactNotFound  = errors.New("contract artifact not found")
	ErrAmbiguousArtifact = errors.New("contract name is ambiguous")
)

// Store resolves contract names against a Hardhat artifacts directory
// (<dir>/**/<File>.sol/<Name>.json). The directory is scanned once, on
// first use.
type Store struct {
	dir string

	once    sync.Once
	loadErr error
	byName  map[string][]*Artifact
	byFQN   map[string]*Artifact
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) Dir() string {
	return s.dir
}

func isArtifactFile(path string) bool {
	if filepath.Ext(path) != ".json" || strings.HasSuffix(path, ".dbg.json") {
		return false
	}
	return strings.HasSuffix(filepath.Base(filepath.Dir(path)), ".sol")
}

func (s *Store) load() error {
	s.once.Do(func() {
		s.byName = map[string][]*Artifact{}
		s.byFQN = map[string]*Artifact{}
		s.loadErr = filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if d.Name() == "build-info" {
					return filepath.SkipDir
				}
				return nil
			}
			if !isArtifactFile(path) {
				return nil
			}
			a, err := ReadArtifactFile(path)
			if err != nil {
				common.Logger().Warn().Err(err).Str("file", path).Msg("skipping unreadable artifact")
				return nil
			}
			s.byName[a.ContractName] = append(s.byName[a.ContractName], a)
			s.byFQN[a.FullyQualifiedName()] = a
			return nil
		})
		if s.loadErr != nil {
			s.loadErr = fmt.Errorf("couldn't read artifacts from %s (are the contracts compiled?): %w", s.dir, s.loadErr)
		}
		common.DebugPrintf("loaded %d artifacts from %s", len(s.byFQN), s.dir)
	})
	return s.loadErr
}

// Get resolves a bare contract name, a fully qualified
// "contracts/File.sol:Name" or a path to an artifact/abi json file.
func (s *Store) Get(name string) (*Artifact, error) {
	name = strings.TrimSpace(name)
	if strings.HasSuffix(name, ".json") {
		return ReadArtifactFile(name)
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	if strings.Contains(name, ":") {
		if a, found := s.byFQN[name]; found {
			return a, nil
		}
		return nil, s.notFound(name)
	}
	candidates := s.byName[name]
	switch len(candidates) {
	case 0:
		return nil, s.notFound(name)
	case 1:
		return candidates[0], nil
	}
	names := []string{}
	for _, c := range candidates {
		names = append(names, c.FullyQualifiedName())
	}
	sort.Strings(names)
	return nil, fmt.Errorf("%w: %s matches %s, use a fully qualified name", ErrAmbiguousArtifact, name, strings.Join(names, ", "))
}

func (s *Store) notFound(name string) error {
	suggestions := s.Suggest(name)
	if len(suggestions) == 0 {
		return fmt.Errorf("%w: %s", ErrArtifactNotFound, name)
	}
	return fmt.Errorf("%w: %s (did you mean %s?)", ErrArtifactNotFound, name, strings.Join(suggestions, ", "))
}

// Suggest returns up to 3 known contract names that fuzzy match input.
func (s *Store) Suggest(input string) []string {
	if err := s.load(); err != nil {
		return nil
	}
	names := make([]string, 0, len(s.byName))
	for n := range s.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	result := []string{}
	for _, m := range fuzzy.Find(input, names) {
		result = append(result, m.Str)
		if len(result) == 3 {
			break
		}
	}
	return result
}

// List returns every artifact ordered by contract name then source.
func (s *Store) List() ([]*Artifact, error) {
	if err := s.load(); err != nil {
		return nil, err
	}
	result := make([]*Artifact, 0, len(s.byFQN))
	for _, a := range s.byFQN {
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].ContractName != result[j].ContractName {
			return result[i].ContractName < result[j].ContractName
		}
		return result[i].SourceName < result[j].SourceName
	})
	return result, nil
}
