package contract

import (
	"fmt"
	"math/big"
	"reflect"
	"strings"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/realmhunter/nbctl/common"
)

// FormatValue renders an unpacked abi value for humans.
func FormatValue(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return "<nil>"
	case *big.Int:
		if value == nil {
			return "<nil>"
		}
		return common.ReadableNumber(value.String())
	case ethcommon.Address:
		return value.Hex()
	case ethcommon.Hash:
		return value.Hex()
	case []byte:
		return hexutil.Encode(value)
	case string:
		return fmt.Sprintf("%q", value)
	case bool:
		return fmt.Sprintf("%t", value)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int,
		reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint:
		return common.ReadableNumber(fmt.Sprintf("%d", v))
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return hexutil.Encode(byteArray(rv))
		}
		return formatList(rv)
	case reflect.Slice:
		return formatList(rv)
	case reflect.Struct:
		parts := []string{}
		for i := 0; i < rv.NumField(); i++ {
			if !rv.Type().Field(i).IsExported() {
				continue
			}
			parts = append(parts, fmt.Sprintf("%s: %s", rv.Type().Field(i).Name, FormatValue(rv.Field(i).Interface())))
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case reflect.Pointer:
		if rv.IsNil() {
			return "<nil>"
		}
		return FormatValue(rv.Elem().Interface())
	}
	return fmt.Sprintf("%v", v)
}

func formatList(rv reflect.Value) string {
	parts := make([]string, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		parts = append(parts, FormatValue(rv.Index(i).Interface()))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func byteArray(rv reflect.Value) []byte {
	b := make([]byte, rv.Len())
	reflect.Copy(reflect.ValueOf(b), rv)
	return b
}

// JSONValue converts an unpacked abi value into something encoding/json
// prints losslessly: numbers as decimal strings and bytes as hex.
func JSONValue(v interface{}) interface{} {
	switch value := v.(type) {
	case nil:
		return nil
	case *big.Int:
		if value == nil {
			return nil
		}
		return value.String()
	case ethcommon.Address:
		return value.Hex()
	case ethcommon.Hash:
		return value.Hex()
	case []byte:
		return hexutil.Encode(value)
	case string, bool:
		return value
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int,
		reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint:
		return fmt.Sprintf("%d", v)
	case reflect.Array, reflect.Slice:
		if rv.Kind() == reflect.Array && rv.Type().Elem().Kind() == reflect.Uint8 {
			return hexutil.Encode(byteArray(rv))
		}
		result := make([]interface{}, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			result = append(result, JSONValue(rv.Index(i).Interface()))
		}
		return result
	case reflect.Struct:
		result := map[string]interface{}{}
		for i := 0; i < rv.NumField(); i++ {
			if rv.Type().Field(i).IsExported() {
				result[rv.Type().Field(i).Name] = JSONValue(rv.Field(i).Interface())
			}
		}
		return result
	case reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		return JSONValue(rv.Elem().Interface())
	}
	return v
}
