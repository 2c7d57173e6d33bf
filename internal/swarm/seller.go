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

// SellConfig contains the tunable parameters of a sell pass
type SellConfig struct {
	SlippageBP      int
	ReserveLamports uint64
	TxDelay         time.Duration
	SettleDelay     time.Duration // wait after the consolidated sell, before the sweep
}

// Seller consolidates tokens and residual SOL from the pool into wallet 0,
// sells the consolidated position through the trading API, and sweeps the
// proceeds to the main wallet. One linear pass; transfers are never retried
// or rolled back.
type Seller struct {
	chain   ChainGateway
	trade   TradeGateway
	journal *logger.RunJournal
	logger  *logger.Logger
	mint    string
	cfg     SellConfig
}

// NewSeller creates a sell orchestrator
func NewSeller(chain ChainGateway, trade TradeGateway, journal *logger.RunJournal, log *logger.Logger, mint string, cfg SellConfig) *Seller {
	return &Seller{
		chain:   chain,
		trade:   trade,
		journal: journal,
		logger:  log,
		mint:    mint,
		cfg:     cfg,
	}
}

// Run executes the consolidation, sell and sweep sequence
func (s *Seller) Run(ctx context.Context, main *wallet.Wallet, wallets []store.WalletRecord) error {
	if len(wallets) == 0 {
		return fmt.Errorf("wallet pool is empty")
	}

	primary := wallets[0]

	for i := 1; i < len(wallets); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.consolidateOne(ctx, i, wallets[i], primary.PublicKey)
	}

	primaryWallet, err := wallet.FromBase58(primary.PrivateKey)
	if err != nil {
		return fmt.Errorf("wallet 0 has an invalid key: %w", err)
	}

	sold, err := s.sellConsolidated(ctx, primaryWallet)
	if err != nil {
		return err
	}

	if sold {
		s.logger.WithField("delay", s.cfg.SettleDelay).Info("⏳ Waiting for sell to settle")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.cfg.SettleDelay):
		}
	}

	return s.sweep(ctx, primaryWallet, main.PublicKeyString())
}

// consolidateOne moves wallet i's tokens and SOL surplus to wallet 0. A
// failed step logs and abandons the rest of this wallet's mini-sequence;
// the pass continues with the next wallet.
func (s *Seller) consolidateOne(ctx context.Context, index int, rec store.WalletRecord, primaryAddress string) {
	w, err := wallet.FromBase58(rec.PrivateKey)
	if err != nil {
		s.logger.LogError("seller", "consolidate", err, map[string]interface{}{"index": index})
		return
	}

	tokenRaw, tokenUI := s.chain.TokenBalance(ctx, rec.PublicKey)
	if tokenRaw > 0 {
		sig, err := s.chain.TransferToken(ctx, w, primaryAddress, tokenRaw)
		s.journal.RecordTrade("consolidate", "transfer_token", rec.PublicKey, s.mint, 0, tokenUI, sig, err)
		if err != nil {
			s.logger.LogError("seller", "token_consolidate", err, map[string]interface{}{
				"index":  index,
				"wallet": rec.PublicKey,
			})
			return
		}

		s.logger.WithFields(map[string]interface{}{
			"index":     index,
			"wallet":    rec.PublicKey,
			"tokens":    tokenUI,
			"signature": sig,
		}).Info("📦 Tokens consolidated")

		if !s.sleep(ctx) {
			return
		}
	}

	balance := s.chain.Balance(ctx, rec.PublicKey)
	if balance <= s.cfg.ReserveLamports {
		return
	}
	surplus := balance - s.cfg.ReserveLamports

	sig, err := s.chain.TransferSOL(ctx, w, primaryAddress, surplus)
	s.journal.RecordTransfer("consolidate", rec.PublicKey, primaryAddress, config.ConvertLamportsToSOL(surplus), sig, err)
	if err != nil {
		s.logger.LogError("seller", "sol_consolidate", err, map[string]interface{}{
			"index":  index,
			"wallet": rec.PublicKey,
		})
		return
	}

	s.logger.WithFields(map[string]interface{}{
		"index":     index,
		"wallet":    rec.PublicKey,
		"amount":    config.ConvertLamportsToSOL(surplus),
		"signature": sig,
	}).Info("💸 SOL surplus consolidated")

	s.sleep(ctx)
}

// sellConsolidated sells wallet 0's full token balance through the trading
// API. Returns whether a sell transaction was actually submitted.
func (s *Seller) sellConsolidated(ctx context.Context, primary *wallet.Wallet) (bool, error) {
	address := primary.PublicKeyString()

	tokenRaw, tokenUI := s.chain.TokenBalance(ctx, address)
	if tokenRaw == 0 {
		s.logger.WithWallet(address).Info("No tokens to sell")
		return false, nil
	}

	s.logger.LogTradeAttempt("sell", s.mint, address, tokenUI)

	sig, err := s.trade.SubmitSell(ctx, primary, tokenUI, s.cfg.SlippageBP)
	s.journal.RecordTrade("sell", "sell", address, s.mint, 0, tokenUI, sig, err)
	if err != nil {
		s.logger.LogTradeError("sell", s.mint, address, err)
		return false, fmt.Errorf("consolidated sell failed: %w", err)
	}
	if sig == "" {
		// No transaction came back; skip the sell but still sweep.
		return false, nil
	}

	s.logger.LogTradeSuccess("sell", s.mint, address, tokenUI, sig)
	return true, nil
}

// sweep moves wallet 0's SOL surplus back to the main wallet
func (s *Seller) sweep(ctx context.Context, primary *wallet.Wallet, mainAddress string) error {
	address := primary.PublicKeyString()

	balance := s.chain.Balance(ctx, address)
	if balance <= s.cfg.ReserveLamports {
		s.logger.WithWallet(address).Info("No surplus to sweep")
		return nil
	}
	surplus := balance - s.cfg.ReserveLamports

	sig, err := s.chain.TransferSOL(ctx, primary, mainAddress, surplus)
	s.journal.RecordTransfer("sweep", address, mainAddress, config.ConvertLamportsToSOL(surplus), sig, err)
	if err != nil {
		return fmt.Errorf("final sweep failed: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"amount":    config.ConvertLamportsToSOL(surplus),
		"signature": sig,
	}).Info("🏁 Proceeds swept to main wallet")

	return nil
}

// sleep applies the fixed inter-transaction pacing delay; returns false when
// the context was cancelled
func (s *Seller) sleep(ctx context.Context) bool {
	if s.cfg.TxDelay <= 0 {
		return true
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(s.cfg.TxDelay):
		return true
	}
}
