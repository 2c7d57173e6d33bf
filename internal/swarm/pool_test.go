package swarm

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bip39 "github.com/tyler-smith/go-bip39"

	"pump-swarm-bot-go/internal/store"
	"pump-swarm-bot-go/internal/wallet"
)

func TestPoolGenerate(t *testing.T) {
	st := newTestStore(t)
	pool := NewPool(st, newTestLogger(t))

	records, mnemonic, err := pool.Generate(10, false)
	require.NoError(t, err)
	require.Len(t, records, 10)
	assert.Len(t, strings.Fields(mnemonic), 24)

	seen := make(map[string]bool)
	for _, rec := range records {
		assert.NotEmpty(t, rec.PrivateKey)
		assert.NotEmpty(t, rec.PublicKey)
		assert.False(t, seen[rec.PublicKey], "duplicate public key %s", rec.PublicKey)
		seen[rec.PublicKey] = true

		// every record must round-trip into a usable keypair
		w, err := wallet.FromBase58(rec.PrivateKey)
		require.NoError(t, err)
		assert.Equal(t, rec.PublicKey, w.PublicKeyString())
	}

	loaded, err := pool.Load()
	require.NoError(t, err)
	assert.Equal(t, records, loaded)
}

func TestPoolGenerateRefusesOverwrite(t *testing.T) {
	st := newTestStore(t)
	pool := NewPool(st, newTestLogger(t))

	first, _, err := pool.Generate(3, false)
	require.NoError(t, err)

	_, _, err = pool.Generate(3, false)
	assert.ErrorIs(t, err, ErrPoolExists)

	loaded, err := pool.Load()
	require.NoError(t, err)
	assert.Equal(t, first, loaded, "refused generate must not touch the pool")

	second, _, err := pool.Generate(3, true)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestPoolGenerateClearsStaleCheckpoint(t *testing.T) {
	st := newTestStore(t)
	pool := NewPool(st, newTestLogger(t))

	_, _, err := pool.Generate(2, false)
	require.NoError(t, err)

	rec := testRecords(t, 1)[0]
	require.NoError(t, st.SaveCheckpoint([]store.PausedWalletRecord{
		{PrivateKey: rec.PrivateKey, PublicKey: rec.PublicKey, AmountSOL: 0.02},
	}))

	_, _, err = pool.Generate(2, true)
	require.NoError(t, err)

	has, err := st.HasCheckpoint()
	require.NoError(t, err)
	assert.False(t, has)
}

func TestPoolMnemonicRecovery(t *testing.T) {
	st := newTestStore(t)
	pool := NewPool(st, newTestLogger(t))

	records, mnemonic, err := pool.Generate(5, false)
	require.NoError(t, err)

	// re-deriving from the persisted mnemonic reproduces the exact pool
	seed := bip39.NewSeed(mnemonic, "")
	for i, rec := range records {
		w, err := wallet.FromSeed(seed, uint32(i))
		require.NoError(t, err)
		assert.Equal(t, rec.PublicKey, w.PublicKeyString())
		assert.Equal(t, rec.PrivateKey, w.PrivateKeyBase58())
	}

	data, err := os.ReadFile(filepath.Join(filepath.Dir(st.WalletsPath()), "mnemonic.txt"))
	require.NoError(t, err)
	assert.Equal(t, mnemonic, strings.TrimSpace(string(data)))
}

func TestPoolGenerateInvalidCount(t *testing.T) {
	pool := NewPool(newTestStore(t), newTestLogger(t))

	_, _, err := pool.Generate(0, false)
	assert.Error(t, err)
}
