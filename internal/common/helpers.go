package common

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	TezDecimals = 6         // tez has 6 decimals (mutez)
	MutezPerTez = 1_000_000 // display unit to micro unit factor
)

// MutezToTez converts mutez to a tez display string without float precision loss
func MutezToTez(mutez uint64) string {
	return formatWithDecimals(mutez, TezDecimals)
}

// TezToMutez converts a tez display string to mutez without float precision loss
func TezToMutez(tez string) (uint64, error) {
	return parseWithDecimals(tez, TezDecimals)
}

// TezToMutezString converts a tez display string to the integer mutez string
// the node expects. An empty string is zero.
// Example: TezToMutezString("1.5") = "1500000"
func TezToMutezString(tez string) (string, error) {
	if strings.TrimSpace(tez) == "" {
		return "0", nil
	}
	mutez, err := TezToMutez(tez)
	if err != nil {
		return "", err
	}
	return strconv.FormatUint(mutez, 10), nil
}

// ParseMutez parses an integer mutez string as returned by the node
func ParseMutez(mutez string) (uint64, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(mutez), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid mutez amount %q: %w", mutez, err)
	}
	return n, nil
}

// formatWithDecimals converts integer to decimal string by inserting decimal point
// Example: formatWithDecimals(1500000, 6) = "1.500000"
func formatWithDecimals(value uint64, decimals int) string {
	s := strconv.FormatUint(value, 10)

	// Pad with leading zeros if needed
	for len(s) <= decimals {
		s = "0" + s
	}

	pos := len(s) - decimals
	return s[:pos] + "." + s[pos:]
}

// parseWithDecimals converts decimal string to integer by removing decimal point
// Example: parseWithDecimals("1.5", 6) = 1500000
func parseWithDecimals(s string, decimals int) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty string")
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, fmt.Errorf("invalid decimal format")
	}

	whole := parts[0]
	if whole == "" {
		whole = "0"
	}
	frac := ""
	if len(parts) == 2 {
		frac = parts[1]
	}

	if len(frac) > decimals {
		return 0, fmt.Errorf("too many decimal places: at most %d allowed", decimals)
	}
	frac += strings.Repeat("0", decimals-len(frac))

	// ParseUint rejects signs, so negative amounts fail here
	n, err := strconv.ParseUint(whole+frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return n, nil
}
