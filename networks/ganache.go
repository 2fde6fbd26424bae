package networks

var Ganache Network = NewGanache()

type ganache struct {
	*GenericNetwork
}

func NewGanache() *ganache {
	return &ganache{
		GenericNetwork: NewGenericNetwork(GenericNetworkConfig{
			Name:               "ganache",
			AlternativeNames:   []string{"local"},
			ChainID:            1337,
			NativeTokenSymbol:  "ETH",
			NativeTokenDecimal: 18,
			BlockTime:          1,
			NodeVariableName:   "GANACHE_NODE",
			DefaultNodes: map[string]string{
				"ganache": "http://127.0.0.1:7545",
			},
		}),
	}
}
