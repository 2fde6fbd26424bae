package networks

import (
	"encoding/json"
	"math/big"
	"time"
)

const DefaultAccountVariable = "WALLET_1"

type GenericNetworkConfig struct {
	Name                 string            `json:"name" yaml:"name"`
	AlternativeNames     []string          `json:"alternative_names" yaml:"alternativeNames"`
	ChainID              uint64            `json:"chain_id" yaml:"chainId"`
	NativeTokenSymbol    string            `json:"native_token_symbol" yaml:"nativeTokenSymbol"`
	NativeTokenDecimal   uint64            `json:"native_token_decimal" yaml:"nativeTokenDecimal"`
	BlockTime            uint64            `json:"block_time" yaml:"blockTime"`
	NodeVariableName     string            `json:"node_variable_name" yaml:"nodeVariableName"`
	DefaultNodes         map[string]string `json:"default_nodes" yaml:"defaultNodes"`
	GasPrice             uint64            `json:"gas_price,omitempty" yaml:"gasPrice"`
	AccountVariableNames []string          `json:"account_variable_names" yaml:"accounts"`
}

// GenericNetwork is a Network fully described by its config. Built-in
// networks embed it, custom networks from the project file are plain
// GenericNetworks.
type GenericNetwork struct {
	config GenericNetworkConfig
}

func NewGenericNetwork(config GenericNetworkConfig) *GenericNetwork {
	if config.NativeTokenSymbol == "" {
		config.NativeTokenSymbol = "ETH"
	}
	if config.NativeTokenDecimal == 0 {
		config.NativeTokenDecimal = 18
	}
	if config.BlockTime == 0 {
		config.BlockTime = 2
	}
	if len(config.AccountVariableNames) == 0 {
		config.AccountVariableNames = []string{DefaultAccountVariable}
	}
	return &GenericNetwork{config: config}
}

func (gn *GenericNetwork) GetName() string {
	return gn.config.Name
}

func (gn *GenericNetwork) GetChainID() uint64 {
	return gn.config.ChainID
}

func (gn *GenericNetwork) GetAlternativeNames() []string {
	return gn.config.AlternativeNames
}

func (gn *GenericNetwork) GetNativeTokenSymbol() string {
	return gn.config.NativeTokenSymbol
}

func (gn *GenericNetwork) GetNativeTokenDecimal() uint64 {
	return gn.config.NativeTokenDecimal
}

func (gn *GenericNetwork) GetBlockTime() time.Duration {
	return time.Duration(gn.config.BlockTime) * time.Second
}

func (gn *GenericNetwork) GetNodeVariableName() string {
	return gn.config.NodeVariableName
}

func (gn *GenericNetwork) GetDefaultNodes() map[string]string {
	return gn.config.DefaultNodes
}

func (gn *GenericNetwork) GetGasPrice() *big.Int {
	if gn.config.GasPrice == 0 {
		return nil
	}
	return new(big.Int).SetUint64(gn.config.GasPrice)
}

func (gn *GenericNetwork) GetAccountVariableNames() []string {
	return gn.config.AccountVariableNames
}

func (gn *GenericNetwork) MarshalJSON() ([]byte, error) {
	return json.Marshal(gn.config)
}
