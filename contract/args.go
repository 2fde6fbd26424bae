package contract

import (
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/realmhunter/nbctl/common"
	"github.com/realmhunter/nbctl/networks"
)

// AddressResolver turns a non hex address argument, such as a deployment
// name, into an address.
type AddressResolver func(input string) (ethcommon.Address, error)

// ArgParser converts command line strings to the Go values abi.Pack
// expects.
type ArgParser struct {
	// Network enables native amounts like "1.5 MATIC". Without it
	// amounts are read as "<n> ETH" with 18 decimals.
	Network  networks.Network
	Resolver AddressResolver
}

func ParseArgs(arguments abi.Arguments, raw []string, resolver AddressResolver) ([]interface{}, error) {
	p := &ArgParser{Resolver: resolver}
	return p.Parse(arguments, raw)
}

func (p *ArgParser) Parse(arguments abi.Arguments, raw []string) ([]interface{}, error) {
	if len(raw) != len(arguments) {
		return nil, fmt.Errorf("expected %d arguments (%s), got %d", len(arguments), describeArguments(arguments), len(raw))
	}
	result := make([]interface{}, 0, len(raw))
	for i, arg := range arguments {
		value, err := p.ParseValue(arg.Type, raw[i])
		if err != nil {
			name := arg.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			return nil, fmt.Errorf("argument %s (%s): %w", name, arg.Type, err)
		}
		result = append(result, value)
	}
	return result, nil
}

func describeArguments(arguments abi.Arguments) string {
	parts := []string{}
	for _, arg := range arguments {
		parts = append(parts, strings.TrimSpace(arg.Type.String()+" "+arg.Name))
	}
	return strings.Join(parts, ", ")
}

func (p *ArgParser) ParseValue(t abi.Type, str string) (interface{}, error) {
	str = strings.TrimSpace(str)
	switch t.T {
	case abi.StringTy:
		return unquote(str), nil
	case abi.IntTy, abi.UintTy:
		return p.parseInteger(t, str)
	case abi.BoolTy:
		return parseBool(str)
	case abi.AddressTy:
		return p.parseAddress(str)
	case abi.HashTy:
		if !strings.HasPrefix(str, "0x") {
			return nil, fmt.Errorf("hash must begin with 0x")
		}
		return ethcommon.HexToHash(str), nil
	case abi.BytesTy, abi.FunctionTy:
		return parseBytes(str)
	case abi.FixedBytesTy:
		return parseFixedBytes(t, str)
	case abi.TupleTy:
		return p.parseTuple(t, str)
	case abi.SliceTy, abi.ArrayTy:
		return p.parseArray(t, str)
	}
	return nil, fmt.Errorf("unsupported type: %s", t)
}

func unquote(str string) string {
	if len(str) >= 2 {
		if (str[0] == '"' && str[len(str)-1] == '"') || (str[0] == '\'' && str[len(str)-1] == '\'') {
			return str[1 : len(str)-1]
		}
	}
	return str
}

func parseBool(str string) (bool, error) {
	switch strings.ToLower(str) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf(`bool value must be "true" or "false"`)
}

func (p *ArgParser) parseAddress(str string) (ethcommon.Address, error) {
	str = unquote(str)
	if ethcommon.IsHexAddress(str) {
		return ethcommon.HexToAddress(str), nil
	}
	if strings.HasPrefix(str, "0x") {
		return ethcommon.Address{}, fmt.Errorf("invalid address %s", str)
	}
	if p.Resolver == nil {
		return ethcommon.Address{}, fmt.Errorf("%s is not an address", str)
	}
	return p.Resolver(str)
}

// parseInteger accepts decimal, 0x hex, or a native amount such as
// "1.5 ETH". Sizes up to 64 bits map to Go ints, larger ones to *big.Int.
func (p *ArgParser) parseInteger(t abi.Type, str string) (interface{}, error) {
	str = unquote(str)
	n, err := p.parseBig(str)
	if err != nil {
		return nil, err
	}
	if t.T == abi.UintTy && n.Sign() < 0 {
		return nil, fmt.Errorf("%s is negative", str)
	}
	limit, magnitude := t.Size, n
	if t.T == abi.IntTy {
		limit--
		if n.Sign() < 0 {
			// -2^(size-1) is the smallest value that fits
			magnitude = new(big.Int).Neg(n)
			magnitude.Sub(magnitude, big.NewInt(1))
		}
	}
	if magnitude.BitLen() > limit {
		return nil, fmt.Errorf("%s overflows %s", str, t)
	}
	return sizedInteger(t, n), nil
}

// sizedInteger converts an in range n to the Go type abi.Pack expects
// for t.
func sizedInteger(t abi.Type, n *big.Int) interface{} {
	if t.T == abi.UintTy {
		switch t.Size {
		case 8:
			return uint8(n.Uint64())
		case 16:
			return uint16(n.Uint64())
		case 32:
			return uint32(n.Uint64())
		case 64:
			return n.Uint64()
		}
		return n
	}
	switch t.Size {
	case 8:
		return int8(n.Int64())
	case 16:
		return int16(n.Int64())
	case 32:
		return int32(n.Int64())
	case 64:
		return n.Int64()
	}
	return n
}

func (p *ArgParser) parseBig(str string) (*big.Int, error) {
	if str == "" {
		return nil, fmt.Errorf("empty number")
	}
	parts := strings.Fields(str)
	if len(parts) == 1 {
		return common.StringToBig(str)
	}
	if len(parts) != 2 {
		return nil, fmt.Errorf("can't read %q as a number", str)
	}
	symbol, decimal := "ETH", uint64(18)
	if p.Network != nil {
		symbol, decimal = p.Network.GetNativeTokenSymbol(), p.Network.GetNativeTokenDecimal()
	}
	if !strings.EqualFold(parts[1], symbol) {
		return nil, fmt.Errorf("unknown unit %s, only %s amounts are supported", parts[1], symbol)
	}
	return common.FloatStringToBig(parts[0], decimal)
}

func parseBytes(str string) ([]byte, error) {
	if str == "0x" || str == "" {
		return []byte{}, nil
	}
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		return []byte(str[1 : len(str)-1]), nil
	}
	return hexutil.Decode(str)
}

func parseFixedBytes(t abi.Type, str string) (interface{}, error) {
	raw, err := parseBytes(str)
	if err != nil {
		return nil, err
	}
	if len(raw) > t.Size {
		return nil, fmt.Errorf("%d bytes don't fit in %s", len(raw), t)
	}
	arr := reflect.New(t.GetType()).Elem()
	reflect.Copy(arr, reflect.ValueOf(raw))
	return arr.Interface(), nil
}

func (p *ArgParser) parseTuple(t abi.Type, str string) (interface{}, error) {
	elems, err := splitList(str)
	if err != nil {
		return nil, err
	}
	if len(elems) != len(t.TupleElems) {
		return nil, fmt.Errorf("tuple needs %d fields, got %d", len(t.TupleElems), len(elems))
	}
	tuple := reflect.New(t.TupleType).Elem()
	for i, elemType := range t.TupleElems {
		value, err := p.ParseValue(*elemType, elems[i])
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", t.TupleRawNames[i], err)
		}
		tuple.Field(i).Set(reflect.ValueOf(value))
	}
	return tuple.Interface(), nil
}

func (p *ArgParser) parseArray(t abi.Type, str string) (interface{}, error) {
	elems, err := splitList(str)
	if err != nil {
		return nil, err
	}
	var result reflect.Value
	if t.T == abi.ArrayTy {
		if len(elems) != t.Size {
			return nil, fmt.Errorf("array needs %d elements, got %d", t.Size, len(elems))
		}
		result = reflect.New(t.GetType()).Elem()
	} else {
		result = reflect.MakeSlice(t.GetType(), len(elems), len(elems))
	}
	for i, elemStr := range elems {
		value, err := p.ParseValue(*t.Elem, elemStr)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		result.Index(i).Set(reflect.ValueOf(value))
	}
	return result.Interface(), nil
}

// splitList splits "[a, b, (c, d)]" or "(a, b)" into its top level
// elements. Commas inside nested brackets or quotes don't split.
func splitList(str string) ([]string, error) {
	str = strings.TrimSpace(str)
	if len(str) < 2 ||
		!((str[0] == '[' && str[len(str)-1] == ']') || (str[0] == '(' && str[len(str)-1] == ')')) {
		return nil, fmt.Errorf("%q must be wrapped in [] or ()", str)
	}
	inner := strings.TrimSpace(str[1 : len(str)-1])
	if inner == "" {
		return []string{}, nil
	}

	result := []string{}
	var current strings.Builder
	depth := 0
	var quote rune
	for _, char := range inner {
		switch {
		case quote != 0:
			if char == quote {
				quote = 0
			}
		case char == '"' || char == '\'':
			quote = char
		case char == '[' || char == '(':
			depth++
		case char == ']' || char == ')':
			if depth == 0 {
				return nil, fmt.Errorf("unbalanced %q in %s", char, str)
			}
			depth--
		case char == ',' && depth == 0:
			result = append(result, strings.TrimSpace(current.String()))
			current.Reset()
			continue
		}
		current.WriteRune(char)
	}
	if depth != 0 || quote != 0 {
		return nil, fmt.Errorf("unterminated bracket or quote in %s", str)
	}
	result = append(result, strings.TrimSpace(current.String()))
	return result, nil
}
