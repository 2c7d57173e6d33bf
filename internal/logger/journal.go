package logger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// JournalEntry represents one recorded action of an orchestrated run
type JournalEntry struct {
	Timestamp    time.Time `json:"timestamp"`
	Phase        string    `json:"phase"`  // "funding", "buy", "consolidate", "sell", "sweep"
	Action       string    `json:"action"` // "transfer_sol", "transfer_token", "buy", "sell"
	Wallet       string    `json:"wallet"`
	Counterparty string    `json:"counterparty,omitempty"`
	Mint         string    `json:"mint,omitempty"`
	AmountSOL    float64   `json:"amount_sol,omitempty"`
	AmountTokens float64   `json:"amount_tokens,omitempty"`
	Signature    string    `json:"signature,omitempty"`
	Status       string    `json:"status"` // "success", "failed", "skipped"
	ErrorMessage string    `json:"error_message,omitempty"`
}

// RunJournal appends run activity to daily JSONL files so a run can be
// reconstructed after the fact (funding transfers have no rollback)
type RunJournal struct {
	baseDir string
	logger  *Logger
}

// NewRunJournal creates a new run journal
func NewRunJournal(baseDir string, logger *Logger) (*RunJournal, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	return &RunJournal{
		baseDir: baseDir,
		logger:  logger,
	}, nil
}

// Record appends an entry to today's journal file
func (j *RunJournal) Record(entry JournalEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	filename := filepath.Join(j.baseDir, fmt.Sprintf("run_%s.jsonl", entry.Timestamp.Format("2006-01-02")))

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal journal entry: %w", err)
	}

	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open journal file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write journal entry: %w", err)
	}

	return nil
}

// RecordTransfer records a native or token transfer
func (j *RunJournal) RecordTransfer(phase, from, to string, amountSOL float64, signature string, err error) {
	entry := JournalEntry{
		Phase:        phase,
		Action:       "transfer_sol",
		Wallet:       from,
		Counterparty: to,
		AmountSOL:    amountSOL,
		Signature:    signature,
		Status:       "success",
	}
	if err != nil {
		entry.Status = "failed"
		entry.ErrorMessage = err.Error()
	}

	if werr := j.Record(entry); werr != nil {
		j.logger.WithError(werr).Warn("Failed to record transfer in journal")
	}
}

// RecordTrade records a buy or sell submitted through the trading API
func (j *RunJournal) RecordTrade(phase, action, wallet, mint string, amountSOL, amountTokens float64, signature string, err error) {
	entry := JournalEntry{
		Phase:        phase,
		Action:       action,
		Wallet:       wallet,
		Mint:         mint,
		AmountSOL:    amountSOL,
		AmountTokens: amountTokens,
		Signature:    signature,
		Status:       "success",
	}
	if err != nil {
		entry.Status = "failed"
		entry.ErrorMessage = err.Error()
	} else if signature == "" {
		entry.Status = "skipped"
	}

	if werr := j.Record(entry); werr != nil {
		j.logger.WithError(werr).Warn("Failed to record trade in journal")
	}
}
