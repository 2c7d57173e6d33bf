package swarm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAmounts(t *testing.T) {
	amounts, err := GenerateAmounts(50, 0.01, 0.05)
	require.NoError(t, err)
	require.Len(t, amounts, 50)

	for _, a := range amounts {
		assert.GreaterOrEqual(t, a, 0.01)
		assert.LessOrEqual(t, a, 0.05)
	}
}

func TestGenerateAmountsDegenerateRange(t *testing.T) {
	amounts, err := GenerateAmounts(5, 0.02, 0.02)
	require.NoError(t, err)

	for _, a := range amounts {
		assert.InDelta(t, 0.02, a, 1e-12)
	}
}

func TestGenerateAmountsWholeLamports(t *testing.T) {
	amounts, err := GenerateAmounts(20, 0.001, 0.002)
	require.NoError(t, err)

	for _, a := range amounts {
		lamports := a * 1e9
		assert.InDelta(t, lamports, float64(uint64(lamports+0.5)), 1e-6)
	}
}

func TestGenerateAmountsInvalidInput(t *testing.T) {
	_, err := GenerateAmounts(0, 0.01, 0.05)
	assert.Error(t, err)

	_, err = GenerateAmounts(-3, 0.01, 0.05)
	assert.Error(t, err)

	_, err = GenerateAmounts(5, 0, 0.05)
	assert.Error(t, err)

	_, err = GenerateAmounts(5, 0.05, 0.01)
	assert.Error(t, err)
}
