package swarm

import (
	"fmt"

	"pump-swarm-bot-go/internal/logger"
	"pump-swarm-bot-go/internal/store"
	"pump-swarm-bot-go/internal/wallet"

	bip39 "github.com/tyler-smith/go-bip39"
)

// Pool manages the subsidiary wallet pool. Generation overwrites the
// persisted list, so the keypairs are derived from a BIP-39 mnemonic that is
// persisted alongside them; a regenerated-over pool stays recoverable.
type Pool struct {
	store  *store.Store
	logger *logger.Logger
}

// NewPool creates a wallet pool manager
func NewPool(st *store.Store, log *logger.Logger) *Pool {
	return &Pool{
		store:  st,
		logger: log,
	}
}

// Generate creates n fresh keypairs, persists them (overwriting any existing
// pool) and clears any stale checkpoint. Refuses to overwrite an existing
// pool unless force is set. Returns the records and the recovery mnemonic.
func (p *Pool) Generate(n int, force bool) ([]store.WalletRecord, string, error) {
	if n <= 0 {
		return nil, "", fmt.Errorf("wallet count must be positive, got %d", n)
	}

	if p.store.HasWallets() && !force {
		return nil, "", ErrPoolExists
	}

	entropy, err := bip39.NewEntropy(256)
	if err != nil {
		return nil, "", fmt.Errorf("random source failed: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build mnemonic: %w", err)
	}
	seed := bip39.NewSeed(mnemonic, "")

	records := make([]store.WalletRecord, 0, n)
	for i := 0; i < n; i++ {
		w, err := wallet.FromSeed(seed, uint32(i))
		if err != nil {
			return nil, "", fmt.Errorf("failed to generate wallet %d: %w", i, err)
		}
		records = append(records, store.WalletRecord{
			PrivateKey: w.PrivateKeyBase58(),
			PublicKey:  w.PublicKeyString(),
		})
	}

	if err := p.store.SaveWallets(records); err != nil {
		return nil, "", err
	}
	if err := p.store.SaveMnemonic(mnemonic); err != nil {
		return nil, "", err
	}

	// A checkpoint from a previous pool refers to wallets that no longer
	// exist in the list; drop it.
	if err := p.store.ClearCheckpoint(); err != nil {
		return nil, "", err
	}

	p.logger.WithField("count", n).Info("🔑 Wallet pool generated")
	return records, mnemonic, nil
}

// Load reads the persisted pool
func (p *Pool) Load() ([]store.WalletRecord, error) {
	return p.store.LoadWallets()
}
