package redkit

import (
	"fmt"
	"strconv"
	"strings"
)

// parseStoredInt parses a stored string value as a base-10 int64,
// rejecting leading/trailing whitespace the way Redis does.
func parseStoredInt(data []byte) (int64, error) {
	s := string(data)
	if s == "" || strings.TrimSpace(s) != s {
		return 0, fmt.Errorf("not an integer")
	}
	return strconv.ParseInt(s, 10, 64)
}

func formatStoredInt(v int64) []byte {
	return []byte(strconv.FormatInt(v, 10))
}

// parseStoredFloat parses a stored string value as a float64.
func parseStoredFloat(data []byte) (float64, error) {
	s := string(data)
	if s == "" || strings.TrimSpace(s) != s {
		return 0, fmt.Errorf("not a float")
	}
	return strconv.ParseFloat(s, 64)
}

// formatStoredFloat renders v as a bare integer when it has no
// fractional part, otherwise with 17 significant digits, per the
// canonical INCRBYFLOAT formatting rule.
func formatStoredFloat(v float64) []byte {
	if v == float64(int64(v)) {
		return []byte(strconv.FormatInt(int64(v), 10))
	}
	return []byte(strconv.FormatFloat(v, 'g', 17, 64))
}
