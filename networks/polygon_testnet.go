package networks

var PolygonTestnet Network = NewPolygonTestnet()

type polygonTestnet struct {
	*GenericNetwork
}

func NewPolygonTestnet() *polygonTestnet {
	return &polygonTestnet{
		GenericNetwork: NewGenericNetwork(GenericNetworkConfig{
			Name:               "polygon-testnet",
			AlternativeNames:   []string{"mumbai", "matic-testnet"},
			ChainID:            80001,
			NativeTokenSymbol:  "MATIC",
			NativeTokenDecimal: 18,
			BlockTime:          2,
			NodeVariableName:   "POLYGON_TESTNET_NODE",
			DefaultNodes: map[string]string{
				"maticvigil": "https://rpc-mumbai.maticvigil.com",
			},
		}),
	}
}
