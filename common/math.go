package common

import (
	"fmt"
	"math/big"
	"strings"
)

// FloatStringToBig converts a decimal string such as "1.5" to a big int
// scaled by 10^decimal. "1.5" with decimal 18 gives 1500000000000000000.
// Digits beyond the given precision are truncated.
func FloatStringToBig(value string, decimal uint64) (*big.Int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, fmt.Errorf("couldn't parse empty string to big int")
	}
	r, success := new(big.Rat).SetString(value)
	if !success {
		return nil, fmt.Errorf("couldn't parse %q to big int", value)
	}
	power := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimal)), nil)
	r.Mul(r, new(big.Rat).SetInt(power))
	return new(big.Int).Quo(r.Num(), r.Denom()), nil
}

// BigToFloatString converts a big int to a decimal string according to its
// number of decimal digits. Trailing zeroes are removed.
// Example:
// - BigToFloatString(1100, 3) = "1.1"
// - BigToFloatString(1100, 2) = "11"
func BigToFloatString(value *big.Int, decimal uint64) string {
	if value == nil {
		return "0"
	}
	neg := value.Sign() < 0
	digits := new(big.Int).Abs(value).String()
	if uint64(len(digits)) <= decimal {
		digits = strings.Repeat("0", int(decimal)-len(digits)+1) + digits
	}
	intPart := digits[:len(digits)-int(decimal)]
	fracPart := strings.TrimRight(digits[len(digits)-int(decimal):], "0")
	result := intPart
	if fracPart != "" {
		result = intPart + "." + fracPart
	}
	if neg {
		return "-" + result
	}
	return result
}

// GweiToWei converts a gwei decimal string to wei.
func GweiToWei(gwei string) (*big.Int, error) {
	return FloatStringToBig(gwei, 9)
}

// StringToBig parses a base 10 or 0x prefixed base 16 integer.
func StringToBig(input string) (*big.Int, error) {
	input = strings.TrimSpace(input)
	base := 10
	if strings.HasPrefix(input, "0x") || strings.HasPrefix(input, "0X") {
		input = input[2:]
		base = 16
	}
	result, success := big.NewInt(0).SetString(input, base)
	if !success {
		return nil, fmt.Errorf("parsed %s to big int failed", input)
	}
	return result, nil
}

// ReadableNumber groups digits of a base 10 number by thousands.
// ReadableNumber("1234567") = "1,234,567"
func ReadableNumber(value string) string {
	sign := ""
	if strings.HasPrefix(value, "-") {
		sign = "-"
		value = value[1:]
	}
	if len(value) <= 3 {
		return sign + value
	}
	var b strings.Builder
	head := len(value) % 3
	if head > 0 {
		b.WriteString(value[:head])
	}
	for i := head; i < len(value); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(value[i : i+3])
	}
	return sign + b.String()
}
