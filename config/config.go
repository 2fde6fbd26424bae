package config

import (
	"fmt"

	"github.com/realmhunter/nbctl/networks"
)

var (
	NetworkString string
	EnvFiles      []string
	ProjectFile   string
	Verbose       bool
	JSONOutput    bool

	network networks.Network
)

var (
	RawValue          string
	RawGasPrice       string
	GasLimit          uint64
	ExtraGasLimit     uint64
	From              string
	Count             uint64
	DontWaitToBeMined bool
	NoRecord          bool
	DeploymentName    string
	YesToAllPrompt    bool

	MetadataName        string
	MetadataDescription string
	MetadataImage       string
	MetadataProperties  []string
	PinningEndpoint     string
)

// SetNetwork resolves networkStr against the registered networks and makes
// it the network of the current run. An empty string selects the project's
// default network.
func SetNetwork(networkStr string) error {
	if networkStr == "" {
		networkStr = Project().DefaultNetwork
	}
	n, err := networks.GetNetwork(networkStr)
	if err != nil {
		return fmt.Errorf("couldn't use network: %w", err)
	}
	network = n
	return nil
}

func Network() networks.Network {
	if network == nil {
		return networks.PolygonTestnet
	}
	return network
}
