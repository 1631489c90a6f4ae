package connector

import (
	"strconv"
	"strings"
)

// IsInteger reports whether s parses as a plain integer.
func IsInteger(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

// IsNumeric reports whether s parses as a number.
func IsNumeric(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// ToFloat converts s to a float, returning 0 when it does not parse.
// This is the soft-read contract used throughout amount handling.
func ToFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// DecimalCount returns the number of digits after the decimal point in a
// numeric string. Non-numeric strings and strings without a fractional
// part count as zero.
func DecimalCount(s string) int {
	if !IsNumeric(s) {
		return 0
	}
	i := strings.IndexByte(s, '.')
	if i < 0 {
		return 0
	}
	return len(s) - i - 1
}

// FormatNumber formats a float with the given number of decimal places.
// With decimals < 1 the shortest representation is used.
func FormatNumber(f float64, decimals int) string {
	if decimals < 1 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', decimals, 64)
}
