// Package normalize coerces loosely-typed lead fields into well-formed values
// so downstream scorers are total over their declared domains.
package normalize

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Budget coerces a raw budget value into a non-negative float64. It accepts
// Go numeric types, json.Number, and numeric strings (with optional currency
// symbol and thousands separators). Empty, absent, negative, or unparseable
// input resolves to 0 — never an error.
func Budget(v any) float64 {
	var f float64

	switch b := v.(type) {
	case nil:
		return 0
	case float64:
		f = b
	case float32:
		f = float64(b)
	case int:
		f = float64(b)
	case int32:
		f = float64(b)
	case int64:
		f = float64(b)
	case json.Number:
		parsed, err := b.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		f = parseBudgetString(b)
	default:
		return 0
	}

	if f < 0 {
		return 0
	}
	return f
}

// parseBudgetString handles numeric strings as entered by humans: "50000",
// "$50,000", " 50000.50 ". Anything else yields 0.
func parseBudgetString(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// Count coerces a raw interaction count into a non-negative int using the
// same total-function contract as Budget.
func Count(v *int) int {
	if v == nil || *v < 0 {
		return 0
	}
	return *v
}
