package networks

import (
	"fmt"
	"os"
	"strings"
)

// GetNodes returns the nodes to talk to on network. The node env variable,
// when set, is added as the "custom-node" entry next to the defaults.
func GetNodes(network Network) (map[string]string, error) {
	nodes := map[string]string{}
	for name, url := range network.GetDefaultNodes() {
		nodes[name] = url
	}
	if varName := network.GetNodeVariableName(); varName != "" {
		if customNode := strings.TrimSpace(os.Getenv(varName)); customNode != "" {
			nodes["custom-node"] = customNode
		}
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf(
			"network '%s' has no node, set %s to a node url",
			network.GetName(),
			network.GetNodeVariableName(),
		)
	}
	return nodes, nil
}
