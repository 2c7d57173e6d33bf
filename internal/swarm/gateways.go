package swarm

import (
	"context"
	"errors"

	"pump-swarm-bot-go/internal/wallet"
)

// ChainGateway is the on-chain surface the orchestrators drive. Balance and
// lookup methods fail soft (zero/empty); transfer methods fail hard and must
// not return before the transfer is confirmed.
type ChainGateway interface {
	Balance(ctx context.Context, address string) uint64
	TokenBalance(ctx context.Context, address string) (raw uint64, ui float64)
	TransferSOL(ctx context.Context, from *wallet.Wallet, to string, lamports uint64) (string, error)
	TransferToken(ctx context.Context, from *wallet.Wallet, to string, amount uint64) (string, error)
	LatestMintSignature(ctx context.Context) string
}

// TradeGateway submits orders against the hosted trading API. An empty
// signature with a nil error means the API produced no transaction; the
// caller treats it as no progress.
type TradeGateway interface {
	SubmitBuy(ctx context.Context, w *wallet.Wallet, solAmount float64, slippageBP int) (string, error)
	SubmitSell(ctx context.Context, w *wallet.Wallet, tokenAmount float64, slippageBP int) (string, error)
}

var (
	// ErrInsufficientBalance is returned when the main wallet cannot cover
	// the planned spend; nothing has been transferred yet.
	ErrInsufficientBalance = errors.New("main wallet balance insufficient for planned spend")

	// ErrNothingToResume is returned when a resume is requested against an
	// empty checkpoint
	ErrNothingToResume = errors.New("no paused run to resume")

	// ErrPoolExists is returned when generate would overwrite an existing
	// pool without force. Overwriting strands any funds still held by the
	// old pool.
	ErrPoolExists = errors.New("wallet pool already exists, use force to overwrite")
)
