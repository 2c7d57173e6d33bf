package chain

import (
	"context"
	"fmt"

	"pump-swarm-bot-go/internal/client"
	"pump-swarm-bot-go/internal/logger"
	"pump-swarm-bot-go/internal/wallet"

	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
)

// Gateway exposes the on-chain operations the orchestrators need. Balance
// and lookup queries fail soft (zero/empty plus a log line); transfers fail
// hard and every transfer is confirmed before the call returns.
type Gateway struct {
	rpcClient *client.Client
	logger    *logger.Logger
	mint      string
	watcher   *client.MintWatcher // optional live signature source
}

// NewGateway creates a chain gateway for the given mint
func NewGateway(rpcClient *client.Client, log *logger.Logger, mint string) *Gateway {
	return &Gateway{
		rpcClient: rpcClient,
		logger:    log,
		mint:      mint,
	}
}

// UseWatcher switches interruption lookups to the live WebSocket watcher
func (g *Gateway) UseWatcher(watcher *client.MintWatcher) {
	g.watcher = watcher
}

// Balance returns the SOL balance of an address in lamports. Returns 0 on
// lookup failure; a stalled query must not abort an otherwise healthy run.
func (g *Gateway) Balance(ctx context.Context, address string) uint64 {
	balance, err := g.rpcClient.GetBalance(ctx, address)
	if err != nil {
		g.logger.WithWallet(address).WithError(err).Warn("Balance lookup failed, treating as zero")
		return 0
	}
	return balance
}

// TokenBalance returns the address's balance of the target mint, raw and UI.
// Returns zero on failure, including the common "no token account yet" case.
func (g *Gateway) TokenBalance(ctx context.Context, address string) (uint64, float64) {
	raw, ui, err := g.rpcClient.GetTokenBalance(ctx, address, g.mint)
	if err != nil {
		g.logger.WithWallet(address).WithError(err).Debug("Token balance lookup failed, treating as zero")
		return 0, 0
	}
	return raw, ui
}

// LatestMintSignature returns the most recent transaction signature touching
// the mint, or empty when the lookup fails or nothing exists
func (g *Gateway) LatestMintSignature(ctx context.Context) string {
	if g.watcher != nil {
		return g.watcher.Latest()
	}

	sig, err := g.rpcClient.GetLatestMintSignature(ctx, g.mint)
	if err != nil {
		g.logger.WithError(err).Warn("Latest mint signature lookup failed")
		return ""
	}
	return sig
}

// TransferSOL sends lamports from one wallet to an address and waits for
// confirmation
func (g *Gateway) TransferSOL(ctx context.Context, from *wallet.Wallet, to string, lamports uint64) (string, error) {
	toKey, err := solana.PublicKeyFromBase58(to)
	if err != nil {
		return "", fmt.Errorf("invalid recipient address: %w", err)
	}

	instruction := system.NewTransferInstruction(
		lamports,
		from.SolanaPublicKey(),
		toKey,
	).Build()

	sig, err := g.signAndSend(ctx, from, []solana.Instruction{instruction})
	if err != nil {
		return "", fmt.Errorf("SOL transfer to %s failed: %w", to, err)
	}

	return sig, nil
}

// TransferToken sends raw token units of the target mint from one wallet to
// an address, creating the recipient's associated token account when missing.
// The transfer is confirmed before the call returns.
func (g *Gateway) TransferToken(ctx context.Context, from *wallet.Wallet, to string, amount uint64) (string, error) {
	toKey, err := solana.PublicKeyFromBase58(to)
	if err != nil {
		return "", fmt.Errorf("invalid recipient address: %w", err)
	}
	mintKey, err := solana.PublicKeyFromBase58(g.mint)
	if err != nil {
		return "", fmt.Errorf("invalid mint address: %w", err)
	}

	sourceATA, _, err := solana.FindAssociatedTokenAddress(from.SolanaPublicKey(), mintKey)
	if err != nil {
		return "", fmt.Errorf("failed to find source ATA: %w", err)
	}
	destATA, _, err := solana.FindAssociatedTokenAddress(toKey, mintKey)
	if err != nil {
		return "", fmt.Errorf("failed to find destination ATA: %w", err)
	}

	var instructions []solana.Instruction

	exists, err := g.rpcClient.AccountExists(ctx, destATA.String())
	if err != nil {
		g.logger.WithError(err).Debug("Destination ATA lookup failed, will try to create it")
	}
	if !exists {
		instructions = append(instructions, associatedtokenaccount.NewCreateInstruction(
			from.SolanaPublicKey(), // payer
			toKey,                  // wallet
			mintKey,                // mint
		).Build())
	}

	instructions = append(instructions, token.NewTransferInstruction(
		amount,
		sourceATA,
		destATA,
		from.SolanaPublicKey(),
		nil,
	).Build())

	sig, err := g.signAndSend(ctx, from, instructions)
	if err != nil {
		return "", fmt.Errorf("token transfer to %s failed: %w", to, err)
	}

	return sig, nil
}

// signAndSend builds, signs and submits a transaction, waiting for
// confirmation
func (g *Gateway) signAndSend(ctx context.Context, from *wallet.Wallet, instructions []solana.Instruction) (string, error) {
	blockhash, err := g.rpcClient.GetLatestBlockhash(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get latest blockhash: %w", err)
	}

	transaction, err := solana.NewTransaction(
		instructions,
		blockhash,
		solana.TransactionPayer(from.SolanaPublicKey()),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create transaction: %w", err)
	}

	_, err = transaction.Sign(
		func(key solana.PublicKey) *solana.PrivateKey {
			if from.SolanaPublicKey().Equals(key) {
				pk := from.SolanaPrivateKey()
				return &pk
			}
			return nil
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}

	sig, err := g.rpcClient.SendAndConfirmTransaction(ctx, transaction)
	if err != nil {
		return "", err
	}

	return sig.String(), nil
}
