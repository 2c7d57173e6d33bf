package trade

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"pump-swarm-bot-go/internal/client"
	"pump-swarm-bot-go/internal/logger"
	"pump-swarm-bot-go/internal/wallet"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// Portal submits buy and sell orders through a hosted trading API. The API
// returns a serialized unsigned transaction; the portal signs it with the
// acting wallet and submits it to the chain itself.
type Portal struct {
	endpoint    string
	pool        string
	mint        string
	priorityFee float64
	httpClient  *http.Client
	rpcClient   *client.Client
	logger      *logger.Logger
}

// PortalConfig contains trading API configuration
type PortalConfig struct {
	Endpoint       string
	Pool           string
	Mint           string
	PriorityFeeSOL float64
	Timeout        time.Duration
}

// orderRequest is the JSON body of a trade order
type orderRequest struct {
	PublicKey        string  `json:"publicKey"`
	Action           string  `json:"action"` // "buy" or "sell"
	Mint             string  `json:"mint"`
	Amount           float64 `json:"amount"`
	DenominatedInSol string  `json:"denominatedInSol"` // "true" for SOL amounts
	Slippage         float64 `json:"slippage"`         // percent
	PriorityFee      float64 `json:"priorityFee"`
	Pool             string  `json:"pool"`
}

// NewPortal creates a trading API client
func NewPortal(config PortalConfig, rpcClient *client.Client, log *logger.Logger) *Portal {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return &Portal{
		endpoint:    config.Endpoint,
		pool:        config.Pool,
		mint:        config.Mint,
		priorityFee: config.PriorityFeeSOL,
		httpClient:  &http.Client{Timeout: config.Timeout},
		rpcClient:   rpcClient,
		logger:      log,
	}
}

// SubmitBuy submits a buy order spending solAmount SOL from the wallet.
// An empty signature with nil error means the API returned no transaction;
// the caller keeps its prior trade reference.
func (p *Portal) SubmitBuy(ctx context.Context, w *wallet.Wallet, solAmount float64, slippageBP int) (string, error) {
	txBytes, err := p.requestTransaction(ctx, w, "buy", solAmount, true, slippageBP)
	if err != nil {
		return "", fmt.Errorf("buy order failed: %w", err)
	}
	if len(txBytes) == 0 {
		p.logger.WithWallet(w.PublicKeyString()).Warn("Trade API returned no buy transaction")
		return "", nil
	}

	sig, err := p.signAndSubmit(ctx, w, txBytes)
	if err != nil {
		return "", fmt.Errorf("buy order failed: %w", err)
	}

	return sig, nil
}

// SubmitSell submits a sell order for tokenAmount tokens (UI units) from the
// wallet. An empty signature with nil error means no transaction came back
// and the step was skipped.
func (p *Portal) SubmitSell(ctx context.Context, w *wallet.Wallet, tokenAmount float64, slippageBP int) (string, error) {
	txBytes, err := p.requestTransaction(ctx, w, "sell", tokenAmount, false, slippageBP)
	if err != nil {
		return "", fmt.Errorf("sell order failed: %w", err)
	}
	if len(txBytes) == 0 {
		p.logger.WithWallet(w.PublicKeyString()).Warn("Trade API returned no sell transaction")
		return "", nil
	}

	sig, err := p.signAndSubmit(ctx, w, txBytes)
	if err != nil {
		return "", fmt.Errorf("sell order failed: %w", err)
	}

	return sig, nil
}

// requestTransaction posts the order and returns the serialized transaction
// blob, or nil when the API answered without one
func (p *Portal) requestTransaction(ctx context.Context, w *wallet.Wallet, action string, amount float64, inSOL bool, slippageBP int) ([]byte, error) {
	denominated := "false"
	if inSOL {
		denominated = "true"
	}

	request := orderRequest{
		PublicKey:        w.PublicKeyString(),
		Action:           action,
		Mint:             p.mint,
		Amount:           amount,
		DenominatedInSol: denominated,
		Slippage:         float64(slippageBP) / 100.0,
		PriorityFee:      p.priorityFee,
		Pool:             p.pool,
	}

	requestBody, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	p.logger.WithFields(map[string]interface{}{
		"action": action,
		"amount": amount,
		"wallet": w.PublicKeyString(),
	}).Debug("Submitting trade order")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach trade API: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trade API error %d: %s", resp.StatusCode, string(responseBody))
	}

	return responseBody, nil
}

// signAndSubmit signs the serialized transaction with the acting wallet and
// sends it, waiting for confirmation
func (p *Portal) signAndSubmit(ctx context.Context, w *wallet.Wallet, txBytes []byte) (string, error) {
	transaction, err := solana.TransactionFromDecoder(bin.NewBinDecoder(txBytes))
	if err != nil {
		return "", fmt.Errorf("failed to decode transaction: %w", err)
	}

	_, err = transaction.Sign(
		func(key solana.PublicKey) *solana.PrivateKey {
			if w.SolanaPublicKey().Equals(key) {
				pk := w.SolanaPrivateKey()
				return &pk
			}
			return nil
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}

	sig, err := p.rpcClient.SendAndConfirmTransaction(ctx, transaction)
	if err != nil {
		return "", err
	}

	return sig.String(), nil
}
