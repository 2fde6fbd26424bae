package contract

import (
	"encoding/json"
	"math/big"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

type listing struct {
	Seller ethcommon.Address
	Price  *big.Int
	Active bool
}

func TestFormatValue(t *testing.T) {
	require.Equal(t, "1,234,567", FormatValue(big.NewInt(1234567)))
	require.Equal(t, "255", FormatValue(uint8(255)))
	require.Equal(t, `"NBMon"`, FormatValue("NBMon"))
	require.Equal(t, "0x0102", FormatValue([]byte{1, 2}))
	require.Equal(t, "0x0100", FormatValue([2]byte{1, 0}))
	require.Equal(t, "[1, 2,000]", FormatValue([]*big.Int{big.NewInt(1), big.NewInt(2000)}))
	require.Equal(t, "<nil>", FormatValue((*big.Int)(nil)))
	require.Equal(t,
		"(Seller: 0x0000000000000000000000000000000000000001, Price: 10, Active: true)",
		FormatValue(listing{ethcommon.HexToAddress("0x01"), big.NewInt(10), true}),
	)
}

func TestJSONValue(t *testing.T) {
	out, err := json.Marshal(JSONValue([]interface{}{
		new(big.Int).Lsh(big.NewInt(1), 100),
		listing{ethcommon.HexToAddress("0x01"), big.NewInt(10), false},
		[3]uint8{1, 2, 3},
	}))
	require.NoError(t, err)
	require.JSONEq(t, `[
		"1267650600228229401496703205376",
		{"Seller": "0x0000000000000000000000000000000000000001", "Price": "10", "Active": false},
		"0x010203"
	]`, string(out))
}
