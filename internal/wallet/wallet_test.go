package wallet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bip39 "github.com/tyler-smith/go-bip39"
)

func TestNewWallet(t *testing.T) {
	a, err := New()
	require.NoError(t, err)
	b, err := New()
	require.NoError(t, err)

	assert.NotEmpty(t, a.PublicKeyString())
	assert.NotEqual(t, a.PublicKeyString(), b.PublicKeyString())
}

func TestFromBase58RoundTrip(t *testing.T) {
	a, err := New()
	require.NoError(t, err)

	restored, err := FromBase58(a.PrivateKeyBase58())
	require.NoError(t, err)
	assert.Equal(t, a.PublicKeyString(), restored.PublicKeyString())
}

func TestFromBase58Invalid(t *testing.T) {
	_, err := FromBase58("not-a-valid-key")
	assert.Error(t, err)

	_, err = FromBase58("")
	assert.Error(t, err)
}

func TestFromSeedDeterministic(t *testing.T) {
	seed := bip39.NewSeed("legal winner thank year wave sausage worth useful legal winner thank yellow", "")

	w1, err := FromSeed(seed, 0)
	require.NoError(t, err)
	w2, err := FromSeed(seed, 0)
	require.NoError(t, err)

	assert.Equal(t, w1.PublicKeyString(), w2.PublicKeyString())
	assert.Equal(t, w1.PrivateKeyBase58(), w2.PrivateKeyBase58())
}

func TestFromSeedIndexesDiffer(t *testing.T) {
	seed := bip39.NewSeed("legal winner thank year wave sausage worth useful legal winner thank yellow", "")

	seen := make(map[string]bool)
	for i := uint32(0); i < 10; i++ {
		w, err := FromSeed(seed, i)
		require.NoError(t, err)
		assert.False(t, seen[w.PublicKeyString()], "index %d collided", i)
		seen[w.PublicKeyString()] = true
	}
}

func TestSolanaKeyBridge(t *testing.T) {
	w, err := New()
	require.NoError(t, err)

	// both SDK representations must agree on the keypair
	assert.Equal(t, w.PublicKeyString(), w.SolanaPublicKey().String())
	assert.Equal(t, w.SolanaPublicKey(), w.SolanaPrivateKey().PublicKey())
}
