package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/realmhunter/nbctl/networks"
)

const (
	DefaultProjectFile     = "nbctl.yaml"
	DefaultNetworkName     = "polygon-testnet"
	DefaultArtifactsDir    = "artifacts"
	DefaultDeploymentsFile = "deployments.json"
)

type ProjectPaths struct {
	Artifacts   string `yaml:"artifacts"`
	Deployments string `yaml:"deployments"`
}

type ProjectNetwork struct {
	URL               string   `yaml:"url"`
	ChainID           uint64   `yaml:"chainId"`
	GasPrice          uint64   `yaml:"gasPrice"`
	Accounts          []string `yaml:"accounts"`
	NativeTokenSymbol string   `yaml:"nativeTokenSymbol"`
	BlockTime         uint64   `yaml:"blockTime"`
	AlternativeNames  []string `yaml:"alternativeNames"`
}

// ProjectConfig is the content of nbctl.yaml, the network table and paths
// shared by every command run in a project directory.
type ProjectConfig struct {
	DefaultNetwork string                    `yaml:"defaultNetwork"`
	Paths          ProjectPaths              `yaml:"paths"`
	Networks       map[string]ProjectNetwork `yaml:"networks"`

	dir string
}

var project *ProjectConfig

func defaultProject() *ProjectConfig {
	return &ProjectConfig{
		DefaultNetwork: DefaultNetworkName,
		Paths: ProjectPaths{
			Artifacts:   DefaultArtifactsDir,
			Deployments: DefaultDeploymentsFile,
		},
		Networks: map[string]ProjectNetwork{},
		dir:      ".",
	}
}

// Project returns the loaded project config or the defaults if none was
// loaded.
func Project() *ProjectConfig {
	if project == nil {
		return defaultProject()
	}
	return project
}

// LoadProject reads the project file at path and registers its networks.
// When path is empty the default nbctl.yaml is used and may be absent.
func LoadProject(path string) (*ProjectConfig, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultProjectFile
	}
	content, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			project = defaultProject()
			return project, nil
		}
		return nil, fmt.Errorf("couldn't read project file: %w", err)
	}
	p, err := ParseProject(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	p.dir = filepath.Dir(path)
	if err := p.RegisterNetworks(); err != nil {
		return nil, err
	}
	project = p
	return project, nil
}

func ParseProject(content []byte) (*ProjectConfig, error) {
	p := defaultProject()
	if err := yaml.Unmarshal(content, p); err != nil {
		return nil, fmt.Errorf("couldn't parse project file: %w", err)
	}
	if p.DefaultNetwork == "" {
		p.DefaultNetwork = DefaultNetworkName
	}
	if p.Paths.Artifacts == "" {
		p.Paths.Artifacts = DefaultArtifactsDir
	}
	if p.Paths.Deployments == "" {
		p.Paths.Deployments = DefaultDeploymentsFile
	}
	if p.Networks == nil {
		p.Networks = map[string]ProjectNetwork{}
	}
	return p, nil
}

// NetworkConfigs converts the project's network table into network configs.
// ${VAR} references in urls are expanded from the environment.
func (p *ProjectConfig) NetworkConfigs() ([]networks.GenericNetworkConfig, error) {
	names := make([]string, 0, len(p.Networks))
	for name := range p.Networks {
		names = append(names, name)
	}
	sort.Strings(names)

	result := []networks.GenericNetworkConfig{}
	for _, name := range names {
		pn := p.Networks[name]
		url := strings.TrimSpace(os.ExpandEnv(pn.URL))
		if url == "" {
			return nil, fmt.Errorf("network '%s' has no url", name)
		}
		result = append(result, networks.GenericNetworkConfig{
			Name:                 name,
			AlternativeNames:     pn.AlternativeNames,
			ChainID:              pn.ChainID,
			NativeTokenSymbol:    pn.NativeTokenSymbol,
			BlockTime:            pn.BlockTime,
			NodeVariableName:     nodeVariableName(name),
			DefaultNodes:         map[string]string{name: url},
			GasPrice:             pn.GasPrice,
			AccountVariableNames: pn.Accounts,
		})
	}
	return result, nil
}

func (p *ProjectConfig) RegisterNetworks() error {
	configs, err := p.NetworkConfigs()
	if err != nil {
		return err
	}
	for _, c := range configs {
		n, err := networks.NewNetworkFromConfig(c)
		if err != nil {
			return err
		}
		networks.AddNetwork(n)
	}
	return nil
}

// ArtifactsDir is the artifacts path resolved against the project file's
// directory.
func (p *ProjectConfig) ArtifactsDir() string {
	return p.resolve(p.Paths.Artifacts)
}

func (p *ProjectConfig) DeploymentsFile() string {
	return p.resolve(p.Paths.Deployments)
}

func (p *ProjectConfig) resolve(path string) string {
	if filepath.IsAbs(path) || p.dir == "" {
		return path
	}
	return filepath.Join(p.dir, path)
}

// nodeVariableName turns "polygon-testnet" into "POLYGON_TESTNET_NODE".
func nodeVariableName(network string) string {
	name := strings.ToUpper(network)
	name = strings.NewReplacer("-", "_", ".", "_", " ", "_").Replace(name)
	return name + "_NODE"
}
