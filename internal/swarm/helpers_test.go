package swarm

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"pump-swarm-bot-go/internal/logger"
	"pump-swarm-bot-go/internal/store"
	"pump-swarm-bot-go/internal/wallet"

	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.NewLogger(logger.LogConfig{Level: "error", Format: "json"})
	require.NoError(t, err)
	return log
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	log := newTestLogger(t)
	st, err := store.NewStore(t.TempDir(), log.Logger)
	require.NoError(t, err)
	return st
}

func newTestJournal(t *testing.T) *logger.RunJournal {
	t.Helper()
	log := newTestLogger(t)
	journal, err := logger.NewRunJournal(filepath.Join(t.TempDir(), "journal"), log)
	require.NoError(t, err)
	return journal
}

func newTestWallet(t *testing.T) *wallet.Wallet {
	t.Helper()
	w, err := wallet.New()
	require.NoError(t, err)
	return w
}

func testRecords(t *testing.T, n int) []store.WalletRecord {
	t.Helper()
	records := make([]store.WalletRecord, n)
	for i := range records {
		w := newTestWallet(t)
		records[i] = store.WalletRecord{
			PrivateKey: w.PrivateKeyBase58(),
			PublicKey:  w.PublicKeyString(),
		}
	}
	return records
}

type transferCall struct {
	from     string
	to       string
	lamports uint64
}

type tokenTransferCall struct {
	from   string
	to     string
	amount uint64
}

// fakeChain implements ChainGateway over in-memory balances
type fakeChain struct {
	balances       map[string]uint64
	tokenRaw       map[string]uint64
	tokenUI        map[string]float64
	latestSigs     []string // consumed per LatestMintSignature call
	latestSigIdx   int
	transfers      []transferCall
	tokenTransfers []tokenTransferCall
	transferErr    error
	tokenErr       error
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		balances: make(map[string]uint64),
		tokenRaw: make(map[string]uint64),
		tokenUI:  make(map[string]float64),
	}
}

func (f *fakeChain) Balance(ctx context.Context, address string) uint64 {
	return f.balances[address]
}

func (f *fakeChain) TokenBalance(ctx context.Context, address string) (uint64, float64) {
	return f.tokenRaw[address], f.tokenUI[address]
}

func (f *fakeChain) TransferSOL(ctx context.Context, from *wallet.Wallet, to string, lamports uint64) (string, error) {
	if f.transferErr != nil {
		return "", f.transferErr
	}
	f.transfers = append(f.transfers, transferCall{from: from.PublicKeyString(), to: to, lamports: lamports})
	f.balances[from.PublicKeyString()] -= lamports
	f.balances[to] += lamports
	return fmt.Sprintf("sol-transfer-%d", len(f.transfers)), nil
}

func (f *fakeChain) TransferToken(ctx context.Context, from *wallet.Wallet, to string, amount uint64) (string, error) {
	if f.tokenErr != nil {
		return "", f.tokenErr
	}
	f.tokenTransfers = append(f.tokenTransfers, tokenTransferCall{from: from.PublicKeyString(), to: to, amount: amount})
	f.tokenRaw[from.PublicKeyString()] -= amount
	f.tokenRaw[to] += amount
	return fmt.Sprintf("token-transfer-%d", len(f.tokenTransfers)), nil
}

func (f *fakeChain) LatestMintSignature(ctx context.Context) string {
	if f.latestSigIdx >= len(f.latestSigs) {
		return ""
	}
	sig := f.latestSigs[f.latestSigIdx]
	f.latestSigIdx++
	return sig
}

type buyCall struct {
	wallet    string
	solAmount float64
}

type sellCall struct {
	wallet      string
	tokenAmount float64
}

// fakeTrade implements TradeGateway with scripted responses
type fakeTrade struct {
	buys     []buyCall
	sells    []sellCall
	buyErrAt int // index (1-based) of the buy call that errors; 0 disables
	buyEmpty bool
	sellErr  error
	sellSkip bool
}

func (f *fakeTrade) SubmitBuy(ctx context.Context, w *wallet.Wallet, solAmount float64, slippageBP int) (string, error) {
	f.buys = append(f.buys, buyCall{wallet: w.PublicKeyString(), solAmount: solAmount})
	if f.buyErrAt > 0 && len(f.buys) == f.buyErrAt {
		return "", fmt.Errorf("trade API unreachable")
	}
	if f.buyEmpty {
		return "", nil
	}
	return fmt.Sprintf("own-%d", len(f.buys)-1), nil
}

func (f *fakeTrade) SubmitSell(ctx context.Context, w *wallet.Wallet, tokenAmount float64, slippageBP int) (string, error) {
	f.sells = append(f.sells, sellCall{wallet: w.PublicKeyString(), tokenAmount: tokenAmount})
	if f.sellErr != nil {
		return "", f.sellErr
	}
	if f.sellSkip {
		return "", nil
	}
	return fmt.Sprintf("sell-%d", len(f.sells)-1), nil
}
