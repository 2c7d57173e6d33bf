package wallet

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

// Wallet wraps a Solana keypair. Balance queries and transfers go through the
// chain gateway; the wallet only holds key material and signs.
type Wallet struct {
	account types.Account
}

// FromBase58 creates a wallet from a base58-encoded private key
func FromBase58(privateKey string) (*Wallet, error) {
	if privateKey == "" {
		return nil, fmt.Errorf("private key is required")
	}

	account, err := types.AccountFromBase58(privateKey)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	return &Wallet{account: account}, nil
}

// New creates a wallet with a fresh random keypair
func New() (*Wallet, error) {
	account := types.NewAccount()
	if account.PublicKey == (common.PublicKey{}) {
		return nil, fmt.Errorf("keypair generation produced an empty key")
	}
	return &Wallet{account: account}, nil
}

// FromSeed derives the index-th wallet of a pool from a master seed. The
// derivation is deterministic so a pool can be rebuilt from its mnemonic.
func FromSeed(seed []byte, index uint32) (*Wallet, error) {
	if len(seed) == 0 {
		return nil, fmt.Errorf("seed is required")
	}

	h := sha256.New()
	h.Write(seed)
	var idx [4]byte
	binary.BigEndian.PutUint32(idx[:], index)
	h.Write(idx[:])

	account, err := types.AccountFromSeed(h.Sum(nil))
	if err != nil {
		return nil, fmt.Errorf("failed to derive account %d: %w", index, err)
	}

	return &Wallet{account: account}, nil
}

// PublicKey returns the wallet's public key
func (w *Wallet) PublicKey() common.PublicKey {
	return w.account.PublicKey
}

// PublicKeyString returns the wallet's public key as base58 string
func (w *Wallet) PublicKeyString() string {
	return w.account.PublicKey.String()
}

// PrivateKeyBase58 returns the private key in the base58 form used by the
// persisted wallet list
func (w *Wallet) PrivateKeyBase58() string {
	return base58.Encode(w.account.PrivateKey)
}

// Account returns the underlying account for signing
func (w *Wallet) Account() types.Account {
	return w.account
}

// SolanaPrivateKey bridges the keypair to the solana-go signing API
func (w *Wallet) SolanaPrivateKey() solana.PrivateKey {
	return solana.PrivateKey(w.account.PrivateKey)
}

// SolanaPublicKey bridges the public key to the solana-go API
func (w *Wallet) SolanaPublicKey() solana.PublicKey {
	return solana.PublicKeyFromBytes(w.account.PublicKey.Bytes())
}
