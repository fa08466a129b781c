package normalize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBudget(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"float64", float64(50000), 50000},
		{"int", 25000, 25000},
		{"int64", int64(100000), 100000},
		{"float32", float32(1500), 1500},
		{"numeric string", "50000", 50000},
		{"decimal string", "50000.50", 50000.50},
		{"string with currency symbol", "$150,000", 150000},
		{"string with whitespace", "  5000  ", 5000},
		{"json number", json.Number("75000"), 75000},
		{"nil", nil, 0},
		{"empty string", "", 0},
		{"whitespace string", "   ", 0},
		{"non-numeric string", "call me maybe", 0},
		{"bad json number", json.Number("abc"), 0},
		{"negative number", float64(-100), 0},
		{"negative string", "-5000", 0},
		{"unsupported type", []string{"50000"}, 0},
		{"bool", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Budget(tt.in))
		})
	}
}

func TestBudget_NeverNegative(t *testing.T) {
	for _, v := range []any{-1, int64(-50), float64(-0.01), "-99999", "-$1,000"} {
		assert.GreaterOrEqual(t, Budget(v), 0.0, "input %v", v)
	}
}

func TestCount(t *testing.T) {
	n := 7
	neg := -3
	assert.Equal(t, 7, Count(&n))
	assert.Equal(t, 0, Count(nil))
	assert.Equal(t, 0, Count(&neg))
}
