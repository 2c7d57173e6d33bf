package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestConfig(t *testing.T) *Config {
	t.Helper()
	return &Config{
		Network:    "devnet",
		PrivateKey: "5yQ1uX1v3examplekey",
		Mint:       "So11111111111111111111111111111111111111112",
		Trading: TradingConfig{
			TradeAPIEndpoint: DefaultTradeAPIEndpoint,
			MinBuySOL:        0.01,
			MaxBuySOL:        0.05,
			SlippageBP:       500,
			BuySplit:         1.0,
			FeeBuffer:        0.99,
			ReserveSOL:       0.001,
			TxDelayMs:        1500,
			SettleDelaySec:   15,
			Pool:             "pump",
		},
		Storage: StorageConfig{DataDir: t.TempDir()},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

func TestValidateConfigFillsEndpoints(t *testing.T) {
	cfg := validTestConfig(t)
	require.NoError(t, validateConfig(cfg))

	assert.Equal(t, GetRPCEndpoint("devnet"), cfg.RPCUrl)
	assert.Equal(t, GetWSEndpoint("devnet"), cfg.WSUrl)
}

func TestValidateConfigKeepsExplicitEndpoints(t *testing.T) {
	cfg := validTestConfig(t)
	cfg.RPCUrl = "https://rpc.example.com"
	cfg.WSUrl = "wss://ws.example.com"
	require.NoError(t, validateConfig(cfg))

	assert.Equal(t, "https://rpc.example.com", cfg.RPCUrl)
	assert.Equal(t, "wss://ws.example.com", cfg.WSUrl)
}

func TestValidateConfigRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing private key", func(c *Config) { c.PrivateKey = "" }},
		{"missing mint", func(c *Config) { c.Mint = "" }},
		{"zero min buy", func(c *Config) { c.Trading.MinBuySOL = 0 }},
		{"inverted buy range", func(c *Config) { c.Trading.MaxBuySOL = 0.005 }},
		{"slippage too low", func(c *Config) { c.Trading.SlippageBP = 5 }},
		{"slippage too high", func(c *Config) { c.Trading.SlippageBP = 6000 }},
		{"buy split above one", func(c *Config) { c.Trading.BuySplit = 1.5 }},
		{"zero fee buffer", func(c *Config) { c.Trading.FeeBuffer = 0 }},
		{"negative tx delay", func(c *Config) { c.Trading.TxDelayMs = -1 }},
		{"negative settle delay", func(c *Config) { c.Trading.SettleDelaySec = -1 }},
		{"negative reserve", func(c *Config) { c.Trading.ReserveSOL = -0.001 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validTestConfig(t)
			tc.mutate(cfg)
			assert.Error(t, validateConfig(cfg))
		})
	}
}

func TestDelayHelpers(t *testing.T) {
	cfg := validTestConfig(t)
	cfg.Trading.TxDelayMs = 1500
	cfg.Trading.SettleDelaySec = 15
	cfg.Trading.ReserveSOL = 0.001

	assert.Equal(t, 1500*time.Millisecond, cfg.TxDelay())
	assert.Equal(t, 15*time.Second, cfg.SettleDelay())
	assert.Equal(t, uint64(1_000_000), cfg.ReserveLamports())
}

func TestLamportConversions(t *testing.T) {
	assert.Equal(t, uint64(1_000_000_000), ConvertSOLToLamports(1.0))
	assert.InDelta(t, 0.5, ConvertLamportsToSOL(500_000_000), 1e-12)
	assert.Equal(t, uint64(0), ConvertSOLToLamports(0))
}

func TestNetworkEndpoints(t *testing.T) {
	assert.Contains(t, GetRPCEndpoint("mainnet"), "mainnet")
	assert.Contains(t, GetRPCEndpoint("devnet"), "devnet")
	assert.Contains(t, GetWSEndpoint("devnet"), "wss://")
}
