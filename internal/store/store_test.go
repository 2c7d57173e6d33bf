package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	st, err := NewStore(t.TempDir(), log)
	require.NoError(t, err)
	return st
}

func TestWalletsRoundTrip(t *testing.T) {
	st := newTestStore(t)

	assert.False(t, st.HasWallets())

	wallets := []WalletRecord{
		{PrivateKey: "key-a", PublicKey: "pub-a"},
		{PrivateKey: "key-b", PublicKey: "pub-b"},
	}
	require.NoError(t, st.SaveWallets(wallets))
	assert.True(t, st.HasWallets())

	loaded, err := st.LoadWallets()
	require.NoError(t, err)
	assert.Equal(t, wallets, loaded)
}

func TestLoadWalletsMissing(t *testing.T) {
	st := newTestStore(t)

	_, err := st.LoadWallets()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no wallet pool found")
}

func TestCheckpointRoundTrip(t *testing.T) {
	st := newTestStore(t)

	paused := []PausedWalletRecord{
		{PrivateKey: "key-a", PublicKey: "pub-a", AmountSOL: 0.021},
		{PrivateKey: "key-b", PublicKey: "pub-b", AmountSOL: 0.034},
	}
	require.NoError(t, st.SaveCheckpoint(paused))

	has, err := st.HasCheckpoint()
	require.NoError(t, err)
	assert.True(t, has)

	loaded, err := st.LoadCheckpoint()
	require.NoError(t, err)
	assert.Equal(t, paused, loaded)
}

func TestCheckpointMissingFileIsEmpty(t *testing.T) {
	st := newTestStore(t)

	loaded, err := st.LoadCheckpoint()
	require.NoError(t, err)
	assert.Empty(t, loaded)

	has, err := st.HasCheckpoint()
	require.NoError(t, err)
	assert.False(t, has)
}

func TestClearCheckpointIdempotent(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.SaveCheckpoint([]PausedWalletRecord{
		{PrivateKey: "key-a", PublicKey: "pub-a", AmountSOL: 0.02},
	}))

	require.NoError(t, st.ClearCheckpoint())
	require.NoError(t, st.ClearCheckpoint())

	has, err := st.HasCheckpoint()
	require.NoError(t, err)
	assert.False(t, has)
}

func TestSaveCheckpointOverwrites(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.SaveCheckpoint([]PausedWalletRecord{
		{PrivateKey: "key-a", PublicKey: "pub-a", AmountSOL: 0.02},
		{PrivateKey: "key-b", PublicKey: "pub-b", AmountSOL: 0.03},
	}))
	require.NoError(t, st.SaveCheckpoint([]PausedWalletRecord{
		{PrivateKey: "key-b", PublicKey: "pub-b", AmountSOL: 0.03},
	}))

	loaded, err := st.LoadCheckpoint()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "pub-b", loaded[0].PublicKey)
}

func TestKeyFilePermissions(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.SaveWallets([]WalletRecord{{PrivateKey: "k", PublicKey: "p"}}))
	require.NoError(t, st.SaveMnemonic("abandon abandon about"))

	for _, name := range []string{"wallets.json", "mnemonic.txt"} {
		info, err := os.Stat(filepath.Join(filepath.Dir(st.WalletsPath()), name))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), name)
	}
}

func TestNoTempFileLeftBehind(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.SaveWallets([]WalletRecord{{PrivateKey: "k", PublicKey: "p"}}))

	entries, err := os.ReadDir(filepath.Dir(st.WalletsPath()))
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp")
	}
}
