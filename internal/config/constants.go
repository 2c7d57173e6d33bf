package config

// Solana network constants
const (
	SolanaMainnetRPC = "https://api.mainnet-beta.solana.com"
	SolanaDevnetRPC  = "https://api.devnet.solana.com"

	// WebSocket endpoints
	SolanaMainnetWS = "wss://api.mainnet-beta.solana.com"
	SolanaDevnetWS  = "wss://api.devnet.solana.com"

	// Hosted trading API (pumpportal-compatible local-transaction endpoint)
	DefaultTradeAPIEndpoint = "https://pumpportal.fun/api/trade-local"

	// Solana constants
	LamportsPerSol = 1_000_000_000

	// Transaction constants
	ConfirmTimeoutSec = 30
)

// Trading constants
const (
	// Default slippage in basis points (1% = 100 bp)
	DefaultSlippageBP = 500 // 5%

	// Bounds for randomized per-wallet buy amounts, in SOL
	DefaultMinBuySOL = 0.01
	DefaultMaxBuySOL = 0.05

	// Fraction of the spendable balance a wallet commits per buy
	DefaultBuySplit = 1.0

	// Haircut modelling the trading platform's fee cut
	DefaultFeeBuffer = 0.99

	// Minimum lamport balance an account keeps to stay rent exempt
	DefaultReserveSOL = 0.001

	// Pacing between consecutive on-chain transactions
	DefaultTxDelayMs = 1500

	// Extra wait after the consolidated sell before the final sweep
	DefaultSettleDelaySec = 15
)

// GetRPCEndpoint returns RPC endpoint based on network
func GetRPCEndpoint(network string) string {
	switch network {
	case "mainnet":
		return SolanaMainnetRPC
	case "devnet":
		return SolanaDevnetRPC
	default:
		return SolanaMainnetRPC
	}
}

// GetWSEndpoint returns WebSocket endpoint based on network
func GetWSEndpoint(network string) string {
	switch network {
	case "mainnet":
		return SolanaMainnetWS
	case "devnet":
		return SolanaDevnetWS
	default:
		return SolanaMainnetWS
	}
}

// ConvertSOLToLamports converts SOL to lamports
func ConvertSOLToLamports(sol float64) uint64 {
	return uint64(sol * LamportsPerSol)
}

// ConvertLamportsToSOL converts lamports to SOL
func ConvertLamportsToSOL(lamports uint64) float64 {
	return float64(lamports) / LamportsPerSol
}
