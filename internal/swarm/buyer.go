package swarm

import (
	"context"
	"fmt"
	"time"

	"pump-swarm-bot-go/internal/config"
	"pump-swarm-bot-go/internal/logger"
	"pump-swarm-bot-go/internal/store"
	"pump-swarm-bot-go/internal/wallet"
)

// RunState is the terminal state of a buy run
type RunState string

const (
	RunCompleted RunState = "completed"
	RunPaused    RunState = "paused"
)

// BuyConfig contains the tunable parameters of a buy run
type BuyConfig struct {
	SlippageBP      int
	BuySplit        float64 // fraction of the spendable balance committed per buy
	FeeBuffer       float64 // haircut modelling the trading platform's cut
	ReserveLamports uint64  // rent buffer every wallet retains
	TxDelay         time.Duration
	InterruptCheck  bool
}

// Buyer drives the funding and buying sequence across the wallet pool.
// A run moves Funding → Trading and ends Completed or Paused. The trading
// loop is strictly sequential: the interruption check only means something
// when the last transaction on the mint can be assumed to be ours.
type Buyer struct {
	chain   ChainGateway
	trade   TradeGateway
	store   *store.Store
	journal *logger.RunJournal
	logger  *logger.Logger
	mint    string
	cfg     BuyConfig
}

// NewBuyer creates a buy orchestrator
func NewBuyer(chain ChainGateway, trade TradeGateway, st *store.Store, journal *logger.RunJournal, log *logger.Logger, mint string, cfg BuyConfig) *Buyer {
	return &Buyer{
		chain:   chain,
		trade:   trade,
		store:   st,
		journal: journal,
		logger:  log,
		mint:    mint,
		cfg:     cfg,
	}
}

// Run executes a buy run over the given wallets and amount plan. When
// resuming, the funding phase is skipped and the inputs are the persisted
// checkpoint tail.
func (b *Buyer) Run(ctx context.Context, main *wallet.Wallet, wallets []store.WalletRecord, amounts []float64, resuming bool) (RunState, error) {
	if len(wallets) == 0 {
		return "", fmt.Errorf("wallet pool is empty")
	}
	if len(wallets) != len(amounts) {
		return "", fmt.Errorf("amount plan length %d does not match wallet count %d", len(amounts), len(wallets))
	}

	if !resuming {
		if err := b.checkMainBalance(ctx, main, amounts); err != nil {
			return "", err
		}
		if err := b.fund(ctx, main, wallets, amounts); err != nil {
			return "", err
		}
	}

	return b.tradeAll(ctx, wallets, amounts)
}

// Resume continues a paused run from the persisted checkpoint. An empty
// checkpoint is a no-op.
func (b *Buyer) Resume(ctx context.Context, main *wallet.Wallet) (RunState, error) {
	paused, err := b.store.LoadCheckpoint()
	if err != nil {
		return "", err
	}
	if len(paused) == 0 {
		return "", ErrNothingToResume
	}

	wallets := make([]store.WalletRecord, len(paused))
	amounts := make([]float64, len(paused))
	for i, rec := range paused {
		wallets[i] = store.WalletRecord{PrivateKey: rec.PrivateKey, PublicKey: rec.PublicKey}
		amounts[i] = rec.AmountSOL
	}

	b.logger.WithField("remaining", len(paused)).Info("▶️ Resuming paused buy run")
	return b.Run(ctx, main, wallets, amounts, true)
}

// checkMainBalance rejects the run before any transfer when the main wallet
// cannot cover the planned spend plus its own reserve
func (b *Buyer) checkMainBalance(ctx context.Context, main *wallet.Wallet, amounts []float64) error {
	var needed uint64
	for _, a := range amounts {
		needed += config.ConvertSOLToLamports(a)
	}
	needed += b.cfg.ReserveLamports

	balance := b.chain.Balance(ctx, main.PublicKeyString())
	if balance < needed {
		return fmt.Errorf("%w: need %.6f SOL, have %.6f SOL",
			ErrInsufficientBalance,
			config.ConvertLamportsToSOL(needed),
			config.ConvertLamportsToSOL(balance))
	}

	return nil
}

// fund transfers each wallet's planned amount from the main wallet. A
// failure aborts the run with no rollback; the operator inspects balances
// manually.
func (b *Buyer) fund(ctx context.Context, main *wallet.Wallet, wallets []store.WalletRecord, amounts []float64) error {
	for i, rec := range wallets {
		lamports := config.ConvertSOLToLamports(amounts[i])

		sig, err := b.chain.TransferSOL(ctx, main, rec.PublicKey, lamports)
		b.journal.RecordTransfer("funding", main.PublicKeyString(), rec.PublicKey, amounts[i], sig, err)
		if err != nil {
			return fmt.Errorf("funding wallet %d (%s) failed: %w", i, rec.PublicKey, err)
		}

		b.logger.LogFunding(i, rec.PublicKey, amounts[i], sig)

		if err := b.sleep(ctx); err != nil {
			return err
		}
	}

	return nil
}

// tradeAll runs the trading phase over the wallets in order. lastOwnSig is
// the signature of the last buy this run submitted; it is the reference the
// interruption check compares against.
func (b *Buyer) tradeAll(ctx context.Context, wallets []store.WalletRecord, amounts []float64) (RunState, error) {
	lastOwnSig := ""

	for i, rec := range wallets {
		if b.cfg.InterruptCheck && i > 0 && lastOwnSig != "" {
			observed := b.chain.LatestMintSignature(ctx)
			if observed != "" && observed != lastOwnSig {
				b.logger.LogInterruption(b.mint, observed, lastOwnSig, i)
				if err := b.pause(wallets[i:], amounts[i:]); err != nil {
					return "", err
				}
				return RunPaused, nil
			}
		}

		sig, err := b.buyOne(ctx, i, rec)
		if err != nil {
			// Persist the unprocessed tail before surfacing the error so
			// the run stays resumable.
			if perr := b.pause(wallets[i:], amounts[i:]); perr != nil {
				b.logger.WithError(perr).Error("Failed to checkpoint after trade error")
			}
			return "", fmt.Errorf("trading aborted at wallet %d (checkpoint saved): %w", i, err)
		}

		if sig != "" {
			lastOwnSig = sig
			if err := b.sleep(ctx); err != nil {
				return "", err
			}
		}
	}

	if err := b.store.ClearCheckpoint(); err != nil {
		return "", err
	}
	b.logger.LogCheckpoint("cleared", 0)

	return RunCompleted, nil
}

// buyOne sizes and submits a single wallet's buy. An empty signature with a
// nil error means the wallet was skipped or made no progress.
func (b *Buyer) buyOne(ctx context.Context, index int, rec store.WalletRecord) (string, error) {
	w, err := wallet.FromBase58(rec.PrivateKey)
	if err != nil {
		return "", fmt.Errorf("wallet %d has an invalid key: %w", index, err)
	}

	balance := b.chain.Balance(ctx, rec.PublicKey)
	b.logger.LogBalance(rec.PublicKey, config.ConvertLamportsToSOL(balance), balance)

	if balance <= b.cfg.ReserveLamports {
		b.logger.WithWallet(rec.PublicKey).Info("Nothing spendable, skipping wallet")
		return "", nil
	}
	spendable := balance - b.cfg.ReserveLamports

	buySOL := config.ConvertLamportsToSOL(spendable) * b.cfg.BuySplit * b.cfg.FeeBuffer
	b.logger.LogTradeAttempt("buy", b.mint, rec.PublicKey, buySOL)

	sig, err := b.trade.SubmitBuy(ctx, w, buySOL, b.cfg.SlippageBP)
	b.journal.RecordTrade("buy", "buy", rec.PublicKey, b.mint, buySOL, 0, sig, err)
	if err != nil {
		b.logger.LogTradeError("buy", b.mint, rec.PublicKey, err)
		return "", err
	}

	if sig != "" {
		b.logger.LogTradeSuccess("buy", b.mint, rec.PublicKey, buySOL, sig)
	}
	return sig, nil
}

// pause persists the unprocessed tail as the checkpoint
func (b *Buyer) pause(wallets []store.WalletRecord, amounts []float64) error {
	paused := make([]store.PausedWalletRecord, len(wallets))
	for i, rec := range wallets {
		paused[i] = store.PausedWalletRecord{
			PrivateKey: rec.PrivateKey,
			PublicKey:  rec.PublicKey,
			AmountSOL:  amounts[i],
		}
	}

	if err := b.store.SaveCheckpoint(paused); err != nil {
		return fmt.Errorf("failed to persist checkpoint: %w", err)
	}

	b.logger.LogCheckpoint("saved", len(paused))
	return nil
}

// sleep applies the fixed inter-transaction pacing delay
func (b *Buyer) sleep(ctx context.Context) error {
	if b.cfg.TxDelay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(b.cfg.TxDelay):
		return nil
	}
}
