package swarm

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"pump-swarm-bot-go/internal/config"
)

// GenerateAmounts produces n independent SOL amounts uniformly sampled from
// [minSOL, maxSOL], each rounded to a whole number of lamports. Used only for
// fresh buy runs; resumed runs reuse the persisted plan verbatim.
func GenerateAmounts(n int, minSOL, maxSOL float64) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("wallet count must be positive, got %d", n)
	}
	if minSOL <= 0 || maxSOL < minSOL {
		return nil, fmt.Errorf("invalid amount range [%f, %f]", minSOL, maxSOL)
	}

	minLamports := config.ConvertSOLToLamports(minSOL)
	maxLamports := config.ConvertSOLToLamports(maxSOL)
	span := big.NewInt(int64(maxLamports - minLamports + 1))

	amounts := make([]float64, n)
	for i := 0; i < n; i++ {
		offset, err := rand.Int(rand.Reader, span)
		if err != nil {
			return nil, fmt.Errorf("random source failed: %w", err)
		}
		amounts[i] = config.ConvertLamportsToSOL(minLamports + offset.Uint64())
	}

	return amounts, nil
}
