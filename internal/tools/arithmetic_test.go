package tools

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xiaot623/gogo/agentloop/internal/domain"
)

func TestArithmetic(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name string
		exec ExecutorFunc
		args map[string]any
		want string
	}{
		{"add", Add, map[string]any{"a": 40.0, "b": 12.0}, "52"},
		{"subtract", Subtract, map[string]any{"a": 5.0, "b": 8.0}, "-3"},
		{"multiply", Multiply, map[string]any{"a": 52.0, "b": 6.0}, "312"},
		{"string operands", Add, map[string]any{"a": "2", "b": " 3 "}, "5"},
		{"int operands", Multiply, map[string]any{"a": 7, "b": int64(6)}, "42"},
		{"product beyond int64", Multiply, map[string]any{"a": 4611686018427387904.0, "b": 4.0}, "18446744073709551616"},
		{"float at 2^63", Add, map[string]any{"a": 9223372036854775807.0, "b": 0.0}, "9223372036854775808"},
		{"sum beyond int64", Add, map[string]any{"a": "9223372036854775807", "b": 1}, "9223372036854775808"},
		{"difference below int64", Subtract, map[string]any{"a": int64(-9223372036854775808), "b": 1}, "-9223372036854775809"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.exec(ctx, tc.args)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestArithmeticRejectsNonIntegers(t *testing.T) {
	ctx := context.Background()
	for _, args := range []map[string]any{
		{"a": 1.5, "b": 2.0},
		{"a": 1.0},
		{"a": "one", "b": 2.0},
		{"a": true, "b": 2.0},
		{"a": math.Inf(1), "b": 2.0},
		{"a": math.NaN(), "b": 2.0},
	} {
		_, err := Add(ctx, args)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument, "args=%v", args)
	}
}
