package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// WalletRecord is one subsidiary wallet of the pool. The on-disk order of
// records defines the buy/sell ordering.
type WalletRecord struct {
	PrivateKey string `json:"privateKey"`
	PublicKey  string `json:"publicKey"`
}

// PausedWalletRecord is a WalletRecord plus the SOL amount that was still
// queued to be spent by that wallet when a buy run was interrupted.
type PausedWalletRecord struct {
	PrivateKey string  `json:"privateKey"`
	PublicKey  string  `json:"publicKey"`
	AmountSOL  float64 `json:"amount"`
}

const (
	walletsFile    = "wallets.json"
	checkpointFile = "checkpoint.json"
	mnemonicFile   = "mnemonic.txt"
)

// Store owns the on-disk representation of the wallet list and the paused-run
// checkpoint. It is a process-wide singleton without locking: only one
// orchestrator run may use it at a time.
type Store struct {
	dataDir string
	logger  *logrus.Logger
}

// NewStore creates a store bound to a data directory
func NewStore(dataDir string, logger *logrus.Logger) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dataDir, err)
	}

	return &Store{
		dataDir: dataDir,
		logger:  logger,
	}, nil
}

// WalletsPath returns the path of the persisted wallet list
func (s *Store) WalletsPath() string {
	return filepath.Join(s.dataDir, walletsFile)
}

// CheckpointPath returns the path of the persisted checkpoint
func (s *Store) CheckpointPath() string {
	return filepath.Join(s.dataDir, checkpointFile)
}

// SaveWallets overwrites the persisted wallet list
func (s *Store) SaveWallets(wallets []WalletRecord) error {
	if err := s.writeJSON(s.WalletsPath(), wallets); err != nil {
		return fmt.Errorf("failed to save wallets: %w", err)
	}

	s.logger.WithField("count", len(wallets)).Info("Wallet list saved")
	return nil
}

// LoadWallets reads the persisted wallet list
func (s *Store) LoadWallets() ([]WalletRecord, error) {
	data, err := os.ReadFile(s.WalletsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no wallet pool found, run generate first")
		}
		return nil, fmt.Errorf("failed to read wallets: %w", err)
	}

	var wallets []WalletRecord
	if err := json.Unmarshal(data, &wallets); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wallets: %w", err)
	}

	return wallets, nil
}

// HasWallets reports whether a wallet pool is already persisted
func (s *Store) HasWallets() bool {
	_, err := os.Stat(s.WalletsPath())
	return err == nil
}

// SaveCheckpoint overwrites the persisted checkpoint with the unprocessed
// tail of an interrupted buy run
func (s *Store) SaveCheckpoint(paused []PausedWalletRecord) error {
	if paused == nil {
		paused = []PausedWalletRecord{}
	}

	if err := s.writeJSON(s.CheckpointPath(), paused); err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}

	s.logger.WithField("remaining", len(paused)).Debug("Checkpoint saved")
	return nil
}

// LoadCheckpoint reads the persisted checkpoint. A missing file or empty
// sequence means no paused run exists.
func (s *Store) LoadCheckpoint() ([]PausedWalletRecord, error) {
	data, err := os.ReadFile(s.CheckpointPath())
	if err != nil {
		if os.IsNotExist(err) {
			return []PausedWalletRecord{}, nil
		}
		return nil, fmt.Errorf("failed to read checkpoint: %w", err)
	}

	var paused []PausedWalletRecord
	if err := json.Unmarshal(data, &paused); err != nil {
		return nil, fmt.Errorf("failed to unmarshal checkpoint: %w", err)
	}

	return paused, nil
}

// ClearCheckpoint persists an empty checkpoint. Clearing twice in a row is a
// harmless no-op.
func (s *Store) ClearCheckpoint() error {
	return s.SaveCheckpoint([]PausedWalletRecord{})
}

// HasCheckpoint reports whether a non-empty checkpoint is persisted
func (s *Store) HasCheckpoint() (bool, error) {
	paused, err := s.LoadCheckpoint()
	if err != nil {
		return false, err
	}
	return len(paused) > 0, nil
}

// SaveMnemonic persists the recovery mnemonic of a generated pool
func (s *Store) SaveMnemonic(mnemonic string) error {
	path := filepath.Join(s.dataDir, mnemonicFile)
	if err := s.writeFile(path, []byte(mnemonic+"\n")); err != nil {
		return fmt.Errorf("failed to save mnemonic: %w", err)
	}
	return nil
}

// writeJSON marshals v and writes it atomically
func (s *Store) writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal: %w", err)
	}
	return s.writeFile(path, data)
}

// writeFile writes via a temp file and rename so a crash mid-write cannot
// leave a truncated record behind
func (s *Store) writeFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to rename %s: %w", tmp, err)
	}
	return nil
}
