package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	// Network settings
	Network   string `mapstructure:"network" yaml:"network"`
	RPCUrl    string `mapstructure:"rpc_url" yaml:"rpc_url"`
	WSUrl     string `mapstructure:"ws_url" yaml:"ws_url"`
	RPCAPIKey string `mapstructure:"rpc_api_key" yaml:"rpc_api_key"`

	// Main wallet settings
	PrivateKey string `mapstructure:"private_key" yaml:"private_key"`

	// Target token mint (base58)
	Mint string `mapstructure:"mint" yaml:"mint"`

	// Trading settings
	Trading TradingConfig `mapstructure:"trading" yaml:"trading"`

	// Storage settings
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`

	// Logging settings
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// TradingConfig contains trading-related settings
type TradingConfig struct {
	TradeAPIEndpoint string  `mapstructure:"trade_api_endpoint" yaml:"trade_api_endpoint"`
	MinBuySOL        float64 `mapstructure:"min_buy_sol" yaml:"min_buy_sol"`
	MaxBuySOL        float64 `mapstructure:"max_buy_sol" yaml:"max_buy_sol"`
	SlippageBP       int     `mapstructure:"slippage_bp" yaml:"slippage_bp"`
	BuySplit         float64 `mapstructure:"buy_split" yaml:"buy_split"`
	FeeBuffer        float64 `mapstructure:"fee_buffer" yaml:"fee_buffer"`
	ReserveSOL       float64 `mapstructure:"reserve_sol" yaml:"reserve_sol"`
	TxDelayMs        int     `mapstructure:"tx_delay_ms" yaml:"tx_delay_ms"`
	SettleDelaySec   int     `mapstructure:"settle_delay_sec" yaml:"settle_delay_sec"`
	InterruptCheck   bool    `mapstructure:"interrupt_check" yaml:"interrupt_check"`
	WatchViaWS       bool    `mapstructure:"watch_via_ws" yaml:"watch_via_ws"`
	PriorityFeeSOL   float64 `mapstructure:"priority_fee_sol" yaml:"priority_fee_sol"`
	Pool             string  `mapstructure:"pool" yaml:"pool"`
}

// StorageConfig contains persistence settings
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	LogToFile   bool   `mapstructure:"log_to_file" yaml:"log_to_file"`
	LogFilePath string `mapstructure:"log_file_path" yaml:"log_file_path"`
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string, envPath string) (*Config, error) {
	config := &Config{}

	// First, load .env file if specified or default locations
	if err := loadEnvFile(envPath); err != nil {
		fmt.Printf("Warning: Failed to load .env file: %v\n", err)
	}

	// Set default values
	setDefaults()

	// Set config file path
	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		// Look for config in current directory and common config directories
		viper.SetConfigName("bot")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath("$HOME/.pump-swarm-bot")
		viper.AddConfigPath("/etc/pump-swarm-bot/")
	}

	// Enable reading from environment variables
	viper.AutomaticEnv()
	viper.SetEnvPrefix("SWARMBOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Manually bind environment variables that viper might miss
	bindEnvVariables()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, continue with defaults and env vars
		fmt.Printf("Config file not found, using environment variables and defaults\n")
	}

	// Unmarshal config
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate and post-process config
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// loadEnvFile loads environment variables from .env file
func loadEnvFile(envPath string) error {
	var envFiles []string

	// If specific path provided, use it first
	if envPath != "" {
		envFiles = append(envFiles, envPath)
	}

	// Add default .env file locations
	envFiles = append(envFiles, []string{
		".env",
		"./.env",
		"configs/.env",
	}...)

	var envFile string
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			envFile = file
			break
		}
	}

	if envFile == "" {
		if envPath != "" {
			return fmt.Errorf("specified .env file not found: %s", envPath)
		}
		return fmt.Errorf(".env file not found in any of the expected locations: %v", envFiles)
	}

	file, err := os.Open(envFile)
	if err != nil {
		return fmt.Errorf("failed to open .env file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE format
		if !strings.Contains(line, "=") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present
		if len(value) >= 2 {
			if (strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"")) ||
				(strings.HasPrefix(value, "'") && strings.HasSuffix(value, "'")) {
				value = value[1 : len(value)-1]
			}
		}

		os.Setenv(key, value)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading .env file: %w", err)
	}

	return nil
}

// bindEnvVariables manually binds environment variables that viper might miss
func bindEnvVariables() {
	// Top-level variables
	viper.BindEnv("network", "SWARMBOT_NETWORK")
	viper.BindEnv("rpc_url", "SWARMBOT_RPC_URL")
	viper.BindEnv("ws_url", "SWARMBOT_WS_URL")
	viper.BindEnv("rpc_api_key", "SWARMBOT_RPC_API_KEY")
	viper.BindEnv("private_key", "SWARMBOT_PRIVATE_KEY")
	viper.BindEnv("mint", "SWARMBOT_MINT")

	// Trading variables
	viper.BindEnv("trading.trade_api_endpoint", "SWARMBOT_TRADING_TRADE_API_ENDPOINT")
	viper.BindEnv("trading.min_buy_sol", "SWARMBOT_TRADING_MIN_BUY_SOL")
	viper.BindEnv("trading.max_buy_sol", "SWARMBOT_TRADING_MAX_BUY_SOL")
	viper.BindEnv("trading.slippage_bp", "SWARMBOT_TRADING_SLIPPAGE_BP")
	viper.BindEnv("trading.buy_split", "SWARMBOT_TRADING_BUY_SPLIT")
	viper.BindEnv("trading.fee_buffer", "SWARMBOT_TRADING_FEE_BUFFER")
	viper.BindEnv("trading.reserve_sol", "SWARMBOT_TRADING_RESERVE_SOL")
	viper.BindEnv("trading.tx_delay_ms", "SWARMBOT_TRADING_TX_DELAY_MS")
	viper.BindEnv("trading.settle_delay_sec", "SWARMBOT_TRADING_SETTLE_DELAY_SEC")
	viper.BindEnv("trading.interrupt_check", "SWARMBOT_TRADING_INTERRUPT_CHECK")
	viper.BindEnv("trading.watch_via_ws", "SWARMBOT_TRADING_WATCH_VIA_WS")
	viper.BindEnv("trading.priority_fee_sol", "SWARMBOT_TRADING_PRIORITY_FEE_SOL")
	viper.BindEnv("trading.pool", "SWARMBOT_TRADING_POOL")

	// Storage variables
	viper.BindEnv("storage.data_dir", "SWARMBOT_STORAGE_DATA_DIR")

	// Logging variables
	viper.BindEnv("logging.level", "SWARMBOT_LOGGING_LEVEL")
	viper.BindEnv("logging.format", "SWARMBOT_LOGGING_FORMAT")
	viper.BindEnv("logging.log_to_file", "SWARMBOT_LOGGING_LOG_TO_FILE")
}

// setDefaults sets default configuration values
func setDefaults() {
	// Network defaults
	viper.SetDefault("network", "mainnet")
	viper.SetDefault("rpc_url", "")
	viper.SetDefault("ws_url", "")

	// Trading defaults
	viper.SetDefault("trading.trade_api_endpoint", DefaultTradeAPIEndpoint)
	viper.SetDefault("trading.min_buy_sol", DefaultMinBuySOL)
	viper.SetDefault("trading.max_buy_sol", DefaultMaxBuySOL)
	viper.SetDefault("trading.slippage_bp", DefaultSlippageBP)
	viper.SetDefault("trading.buy_split", DefaultBuySplit)
	viper.SetDefault("trading.fee_buffer", DefaultFeeBuffer)
	viper.SetDefault("trading.reserve_sol", DefaultReserveSOL)
	viper.SetDefault("trading.tx_delay_ms", DefaultTxDelayMs)
	viper.SetDefault("trading.settle_delay_sec", DefaultSettleDelaySec)
	viper.SetDefault("trading.interrupt_check", true)
	viper.SetDefault("trading.watch_via_ws", false)
	viper.SetDefault("trading.priority_fee_sol", 0.00005)
	viper.SetDefault("trading.pool", "pump")

	// Storage defaults
	viper.SetDefault("storage.data_dir", "data")

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
	viper.SetDefault("logging.log_to_file", false)
	viper.SetDefault("logging.log_file_path", "logs/bot.log")
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	// Set RPC and WS URLs if not provided
	if config.RPCUrl == "" {
		config.RPCUrl = GetRPCEndpoint(config.Network)
	}
	if config.WSUrl == "" {
		config.WSUrl = GetWSEndpoint(config.Network)
	}

	// Validate main wallet key
	if config.PrivateKey == "" {
		return fmt.Errorf("private_key is required")
	}

	// Validate target mint
	if config.Mint == "" {
		return fmt.Errorf("mint is required")
	}

	// Validate buy amount range
	if config.Trading.MinBuySOL <= 0 {
		return fmt.Errorf("min_buy_sol must be positive")
	}
	if config.Trading.MaxBuySOL < config.Trading.MinBuySOL {
		return fmt.Errorf("max_buy_sol (%f) must not be below min_buy_sol (%f)",
			config.Trading.MaxBuySOL, config.Trading.MinBuySOL)
	}

	// Validate slippage
	if config.Trading.SlippageBP < 10 || config.Trading.SlippageBP > 5000 {
		return fmt.Errorf("slippage_bp must be between 10 and 5000 (0.1%% to 50%%)")
	}

	// Validate sizing fractions
	if config.Trading.BuySplit <= 0 || config.Trading.BuySplit > 1 {
		return fmt.Errorf("buy_split must be in (0, 1]")
	}
	if config.Trading.FeeBuffer <= 0 || config.Trading.FeeBuffer > 1 {
		return fmt.Errorf("fee_buffer must be in (0, 1]")
	}

	// Validate pacing
	if config.Trading.TxDelayMs < 0 {
		return fmt.Errorf("tx_delay_ms must be non-negative")
	}
	if config.Trading.SettleDelaySec < 0 {
		return fmt.Errorf("settle_delay_sec must be non-negative")
	}

	if config.Trading.ReserveSOL < 0 {
		return fmt.Errorf("reserve_sol must be non-negative")
	}

	// Create data directory
	if err := os.MkdirAll(config.Storage.DataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory %s: %w", config.Storage.DataDir, err)
	}

	// Create log directory if needed
	if config.Logging.LogToFile {
		logDir := filepath.Dir(config.Logging.LogFilePath)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return fmt.Errorf("failed to create log directory %s: %w", logDir, err)
		}
	}

	return nil
}

// TxDelay returns the pacing delay applied between consecutive transactions
func (c *Config) TxDelay() time.Duration {
	return time.Duration(c.Trading.TxDelayMs) * time.Millisecond
}

// SettleDelay returns the wait applied after the consolidated sell
func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.Trading.SettleDelaySec) * time.Second
}

// ReserveLamports returns the rent buffer every account retains, in lamports
func (c *Config) ReserveLamports() uint64 {
	return ConvertSOLToLamports(c.Trading.ReserveSOL)
}
