package networks

import (
	"fmt"
	"sort"
	"sync"
)

// Insert more Network implementation here to support
// more chains
var supportedNetworks = []Network{
	PolygonTestnet,
	Ganache,
	BSCTestnet,
	BSCMainnet,
	Rinkeby,
}

var globalSupportedNetworks = newSupportedNetworks(supportedNetworks...)
var ErrNetworkNotFound = fmt.Errorf("network not found")

type networks struct {
	mu           sync.RWMutex
	networks     map[string]Network
	networksByID map[uint64]Network
}

func newSupportedNetworks(builtins ...Network) *networks {
	result := &networks{
		networks:     map[string]Network{},
		networksByID: map[uint64]Network{},
	}
	for _, n := range builtins {
		if _, found := result.networks[n.GetName()]; found {
			panic(
				fmt.Errorf(
					"network with name or alternative name of '%s' already exists",
					n.GetName(),
				),
			)
		}
		for _, an := range n.GetAlternativeNames() {
			if _, found := result.networks[an]; found {
				panic(
					fmt.Errorf("network with name or alternative name of '%s' already exists", an),
				)
			}
		}
		result.add(n)
	}
	return result
}

func (n *networks) add(network Network) {
	n.networks[network.GetName()] = network
	n.networksByID[network.GetChainID()] = network
	for _, an := range network.GetAlternativeNames() {
		n.networks[an] = network
	}
}

// addOrReplace registers network, dropping every name of a previously
// registered network that shares its name or chain id.
func (n *networks) addOrReplace(network Network) {
	n.mu.Lock()
	defer n.mu.Unlock()

	var stale []Network
	if old, found := n.networks[network.GetName()]; found {
		stale = append(stale, old)
	}
	if old, found := n.networksByID[network.GetChainID()]; found {
		stale = append(stale, old)
	}
	for _, old := range stale {
		for name, registered := range n.networks {
			if registered == old {
				delete(n.networks, name)
			}
		}
		if registered, found := n.networksByID[old.GetChainID()]; found && registered == old {
			delete(n.networksByID, old.GetChainID())
		}
	}
	n.add(network)
}

func (n *networks) getSupportedNetworkNames() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	res := []string{}
	for name := range n.networks {
		res = append(res, name)
	}
	sort.Strings(res)
	return res
}

func (n *networks) getSupportedNetworks() []Network {
	n.mu.RLock()
	defer n.mu.RUnlock()
	res := []Network{}
	for _, network := range n.networksByID {
		res = append(res, network)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].GetName() < res[j].GetName()
	})
	return res
}

func (n *networks) getNetworkByID(id uint64) (Network, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	res, found := n.networksByID[id]
	if !found {
		return nil, fmt.Errorf("network id %d: %w", id, ErrNetworkNotFound)
	}
	return res, nil
}

func (n *networks) getNetwork(name string) (Network, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	res, found := n.networks[name]
	if !found {
		return nil, fmt.Errorf("network name '%s': %w", name, ErrNetworkNotFound)
	}
	return res, nil
}

func NewNetworkFromConfig(config GenericNetworkConfig) (Network, error) {
	if config.Name == "" {
		return nil, fmt.Errorf("network name is required")
	}
	if config.ChainID == 0 {
		return nil, fmt.Errorf("network '%s': chain id is required", config.Name)
	}
	return NewGenericNetwork(config), nil
}

// GetSupportedNetworks returns every registered network once, sorted by name.
func GetSupportedNetworks() []Network {
	return globalSupportedNetworks.getSupportedNetworks()
}

func GetNetwork(name string) (Network, error) {
	return globalSupportedNetworks.getNetwork(name)
}

func GetNetworkByID(id uint64) (Network, error) {
	return globalSupportedNetworks.getNetworkByID(id)
}

func GetSupportedNetworkNames() []string {
	return globalSupportedNetworks.getSupportedNetworkNames()
}

// AddNetwork registers a network for the rest of the process. A network
// with the same name or chain id as an existing one replaces it.
func AddNetwork(network Network) {
	globalSupportedNetworks.addOrReplace(network)
}
