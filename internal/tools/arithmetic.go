package tools

import (
	"context"
	"math/big"
)

// binaryOp computes on exact integers, so results never wrap around.
func binaryOp(op func(z, a, b *big.Int) *big.Int) ExecutorFunc {
	return func(_ context.Context, args map[string]any) (string, error) {
		a, err := intArg(args, "a")
		if err != nil {
			return "", err
		}
		b, err := intArg(args, "b")
		if err != nil {
			return "", err
		}
		return op(new(big.Int), a, b).String(), nil
	}
}

// Add returns a + b.
var Add = binaryOp((*big.Int).Add)

// Subtract returns a - b.
var Subtract = binaryOp((*big.Int).Sub)

// Multiply returns a * b.
var Multiply = binaryOp((*big.Int).Mul)
