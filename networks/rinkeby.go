package networks

import (
	"fmt"
	"os"
	"strings"
)

const MoralisNodeVariable = "MORALIS_NODEAPI"

var Rinkeby Network = NewRinkeby()

type rinkeby struct {
	*GenericNetwork
}

func NewRinkeby() *rinkeby {
	return &rinkeby{
		GenericNetwork: NewGenericNetwork(GenericNetworkConfig{
			Name:               "rinkeby",
			AlternativeNames:   []string{"eth-rinkeby"},
			ChainID:            4,
			NativeTokenSymbol:  "ETH",
			NativeTokenDecimal: 18,
			BlockTime:          15,
			NodeVariableName:   "ETHEREUM_RINKEBY_NODE",
		}),
	}
}

// GetDefaultNodes only has a node when the moralis node id is available in
// the environment. It is read lazily so a .env loaded after package init is
// still honored.
func (r *rinkeby) GetDefaultNodes() map[string]string {
	nodeID := strings.TrimSpace(os.Getenv(MoralisNodeVariable))
	if nodeID == "" {
		return map[string]string{}
	}
	return map[string]string{
		"moralis": fmt.Sprintf("https://speedy-nodes-nyc.moralis.io/%s/eth/rinkeby", nodeID),
	}
}
