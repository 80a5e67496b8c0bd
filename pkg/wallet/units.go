package wallet

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// ToUnits converts a decimal amount such as a command fee into base units
// of a currency with the given number of decimals. Digits beyond the
// currency's precision are truncated.
func ToUnits(amount float64, decimals uint8) (*big.Int, error) {
	if amount < 0 {
		return nil, NewWalletError(ErrCodeInvalidAmount, fmt.Sprintf("negative amount %v", amount), nil, "")
	}

	// Formatting with the shortest representation keeps 0.001 as "0.001"
	// instead of its binary approximation.
	s := strconv.FormatFloat(amount, 'f', -1, 64)
	whole, frac, _ := strings.Cut(s, ".")
	if len(frac) > int(decimals) {
		frac = frac[:decimals]
	}
	frac += strings.Repeat("0", int(decimals)-len(frac))

	units, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, NewWalletError(ErrCodeInvalidAmount, fmt.Sprintf("cannot convert %v", amount), nil, "")
	}
	return units, nil
}

// ToWei converts an amount of native currency to wei.
func ToWei(amount float64) (*big.Int, error) {
	return ToUnits(amount, 18)
}

// FormatUnits renders base units as a decimal string, trimming trailing zeros.
func FormatUnits(units *big.Int, decimals uint8) string {
	if units == nil {
		return "0"
	}

	neg := units.Sign() < 0
	digits := new(big.Int).Abs(units).String()
	if len(digits) <= int(decimals) {
		digits = strings.Repeat("0", int(decimals)-len(digits)+1) + digits
	}

	whole := digits[:len(digits)-int(decimals)]
	frac := strings.TrimRight(digits[len(digits)-int(decimals):], "0")

	out := whole
	if frac != "" {
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}
