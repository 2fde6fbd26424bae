package artifacts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Artifact is one compiled contract: its interface and, when the contract
// is not abstract, the creation bytecode.
type Artifact struct {
	ContractName string
	SourceName   string
	ABI          abi.ABI
	Bytecode     []byte
	// Unlinked is set when the bytecode references libraries that were
	// never linked, so it cannot be deployed as is.
	Unlinked bool
	Path     string
}

func (a *Artifact) FullyQualifiedName() string {
	if a.SourceName == "" {
		return a.ContractName
	}
	return a.SourceName + ":" + a.ContractName
}

func (a *Artifact) Deployable() bool {
	return len(a.Bytecode) > 0 && !a.Unlinked
}

type hardhatArtifact struct {
	Format         string                                `json:"_format"`
	ContractName   string                                `json:"contractName"`
	SourceName     string                                `json:"sourceName"`
	ABI            json.RawMessage                       `json:"abi"`
	Bytecode       string                                `json:"bytecode"`
	LinkReferences map[string]map[string]json.RawMessage `json:"linkReferences"`
}

// ParseArtifact decodes a Hardhat artifact file.
func ParseArtifact(content []byte) (*Artifact, error) {
	raw := hardhatArtifact{}
	if err := json.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("couldn't parse artifact: %w", err)
	}
	if raw.ContractName == "" || len(raw.ABI) == 0 {
		return nil, fmt.Errorf("not a contract artifact: missing contractName or abi")
	}
	a, err := abi.JSON(bytes.NewReader(raw.ABI))
	if err != nil {
		return nil, fmt.Errorf("couldn't parse abi of %s: %w", raw.ContractName, err)
	}
	result := &Artifact{
		ContractName: raw.ContractName,
		SourceName:   raw.SourceName,
		ABI:          a,
	}
	if len(raw.LinkReferences) > 0 {
		result.Unlinked = true
		return result, nil
	}
	if raw.Bytecode != "" && raw.Bytecode != "0x" {
		code, err := hexutil.Decode(raw.Bytecode)
		if err != nil {
			return nil, fmt.Errorf("couldn't decode bytecode of %s: %w", raw.ContractName, err)
		}
		result.Bytecode = code
	}
	return result, nil
}

// ReadArtifactFile reads either a Hardhat artifact or a bare ABI json
// array. A bare ABI is named after the file.
func ReadArtifactFile(path string) (*Artifact, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if trimmed := bytes.TrimSpace(content); len(trimmed) > 0 && trimmed[0] == '[' {
		a, err := abi.JSON(bytes.NewReader(trimmed))
		if err != nil {
			return nil, fmt.Errorf("couldn't parse abi file %s: %w", path, err)
		}
		return &Artifact{
			ContractName: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
			ABI:          a,
			Path:         path,
		}, nil
	}
	result, err := ParseArtifact(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	result.Path = path
	return result, nil
}
