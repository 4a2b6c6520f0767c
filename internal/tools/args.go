package tools

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/xiaot623/gogo/agentloop/internal/domain"
)

// stringArg returns a non-blank string argument.
func stringArg(args map[string]any, key string) (string, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return "", fmt.Errorf("%s is required: %w", key, domain.ErrInvalidArgument)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string, got %T: %w", key, raw, domain.ErrInvalidArgument)
	}
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("%s must not be empty: %w", key, domain.ErrInvalidArgument)
	}
	return s, nil
}

// intArg returns an integer argument as an exact big.Int. JSON numbers decode as float64
// and are accepted when integral; numeric strings may exceed the int64 range.
func intArg(args map[string]any, key string) (*big.Int, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, fmt.Errorf("%s is required: %w", key, domain.ErrInvalidArgument)
	}
	switch v := raw.(type) {
	case int:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
			return nil, fmt.Errorf("%s must be an integer, got %v: %w", key, v, domain.ErrInvalidArgument)
		}
		n, _ := big.NewFloat(v).Int(nil)
		return n, nil
	case string:
		n, ok := new(big.Int).SetString(strings.TrimSpace(v), 10)
		if !ok {
			return nil, fmt.Errorf("%s must be an integer, got %q: %w", key, v, domain.ErrInvalidArgument)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("%s must be an integer, got %T: %w", key, raw, domain.ErrInvalidArgument)
	}
}

func objectSchema(required []string, props map[string]any) map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}
