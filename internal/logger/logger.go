package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger represents the application logger
type Logger struct {
	*logrus.Logger
	config LogConfig
}

// LogConfig contains logger configuration
type LogConfig struct {
	Level       string
	Format      string // "json" or "text"
	LogToFile   bool
	LogFilePath string
}

// NewLogger creates a new logger instance
func NewLogger(config LogConfig) (*Logger, error) {
	log := logrus.New()

	// Set log level
	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %s: %w", config.Level, err)
	}
	log.SetLevel(level)

	// Always output to stdout first
	log.SetOutput(os.Stdout)

	// Set log format based on configuration
	switch strings.ToLower(config.Format) {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	case "text":
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05.000",
			ForceColors:     true,
			DisableQuote:    true,
		})
	default:
		// Default to a custom text format with clear timestamp
		log.SetFormatter(&CustomFormatter{})
	}

	if config.LogToFile && config.LogFilePath != "" {
		logDir := filepath.Dir(config.LogFilePath)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory %s: %w", logDir, err)
		}
	}

	return &Logger{
		Logger: log,
		config: config,
	}, nil
}

// CustomFormatter provides a clean, timestamped format for console output
type CustomFormatter struct{}

func (f *CustomFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	timestamp := entry.Time.Format("2006-01-02 15:04:05.000")
	level := strings.ToUpper(entry.Level.String())

	// Color coding for different log levels
	var levelColor string
	switch entry.Level {
	case logrus.DebugLevel:
		levelColor = "\033[36m" // Cyan
	case logrus.InfoLevel:
		levelColor = "\033[32m" // Green
	case logrus.WarnLevel:
		levelColor = "\033[33m" // Yellow
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		levelColor = "\033[31m" // Red
	default:
		levelColor = "\033[0m" // Reset
	}

	resetColor := "\033[0m"

	// Build the log message
	msg := fmt.Sprintf("%s [%s%s%s] %s",
		timestamp,
		levelColor,
		level,
		resetColor,
		entry.Message)

	// Add fields if present
	if len(entry.Data) > 0 {
		msg += " |"
		for key, value := range entry.Data {
			msg += fmt.Sprintf(" %s=%v", key, value)
		}
	}

	msg += "\n"
	return []byte(msg), nil
}

// WithField adds a field to the logger
func (l *Logger) WithField(key string, value interface{}) *logrus.Entry {
	return l.Logger.WithField(key, value)
}

// WithFields adds multiple fields to the logger
func (l *Logger) WithFields(fields logrus.Fields) *logrus.Entry {
	return l.Logger.WithFields(fields)
}

// WithError adds an error field to the logger
func (l *Logger) WithError(err error) *logrus.Entry {
	return l.Logger.WithError(err)
}

// Run-specific logging methods

// LogFunding logs a funding transfer from the main wallet
func (l *Logger) LogFunding(index int, to string, amountSOL float64, signature string) {
	l.WithFields(logrus.Fields{
		"event":     "funding",
		"index":     index,
		"to":        to,
		"amount":    amountSOL,
		"signature": signature,
	}).Info("💸 Wallet funded")
}

// LogTradeAttempt logs when a trade attempt is made
func (l *Logger) LogTradeAttempt(tradeType, mint, wallet string, amount float64) {
	l.WithFields(logrus.Fields{
		"event":  "trade_attempt",
		"type":   tradeType,
		"mint":   mint,
		"wallet": wallet,
		"amount": amount,
	}).Info("💰 Trade attempt initiated")
}

// LogTradeSuccess logs when a trade is successful
func (l *Logger) LogTradeSuccess(tradeType, mint, wallet string, amount float64, signature string) {
	l.WithFields(logrus.Fields{
		"event":     "trade_success",
		"type":      tradeType,
		"mint":      mint,
		"wallet":    wallet,
		"amount":    amount,
		"signature": signature,
	}).Info("✅ Trade successful")
}

// LogTradeError logs when a trade fails
func (l *Logger) LogTradeError(tradeType, mint, wallet string, err error) {
	l.WithFields(logrus.Fields{
		"event":  "trade_error",
		"type":   tradeType,
		"mint":   mint,
		"wallet": wallet,
	}).WithError(err).Error("❌ Trade failed")
}

// LogCheckpoint logs checkpoint persistence events
func (l *Logger) LogCheckpoint(action string, remaining int) {
	l.WithFields(logrus.Fields{
		"event":     "checkpoint",
		"action":    action,
		"remaining": remaining,
	}).Info("📌 Checkpoint updated")
}

// LogInterruption logs a detected third-party interruption on the mint
func (l *Logger) LogInterruption(mint, observed, own string, index int) {
	l.WithFields(logrus.Fields{
		"event":    "interruption",
		"mint":     mint,
		"observed": observed,
		"own":      own,
		"index":    index,
	}).Warn("🛑 Foreign activity detected on mint")
}

// LogBalance logs wallet balance information
func (l *Logger) LogBalance(wallet string, balanceSOL float64, balanceLamports uint64) {
	l.WithFields(logrus.Fields{
		"event":            "balance_check",
		"wallet":           wallet,
		"balance_sol":      balanceSOL,
		"balance_lamports": balanceLamports,
	}).Debug("💰 Wallet balance")
}

// LogError logs general errors with context
func (l *Logger) LogError(component, operation string, err error, fields logrus.Fields) {
	logFields := logrus.Fields{
		"event":     "error",
		"component": component,
		"operation": operation,
	}

	// Merge additional fields
	for k, v := range fields {
		logFields[k] = v
	}

	l.WithFields(logFields).WithError(err).Error("💥 Component error")
}

// LogStartup logs application startup information
func (l *Logger) LogStartup(version, network, rpcUrl string) {
	l.WithFields(logrus.Fields{
		"event":   "startup",
		"version": version,
		"network": network,
		"rpc_url": rpcUrl,
	}).Info("🚀 Bot starting up")
}

// LogShutdown logs application shutdown information
func (l *Logger) LogShutdown(reason string) {
	l.WithFields(logrus.Fields{
		"event":  "shutdown",
		"reason": reason,
	}).Info("🛑 Bot shutting down")
}

// WithComponent returns a logger with component context
func (l *Logger) WithComponent(component string) *logrus.Entry {
	return l.WithField("component", component)
}

// WithWallet returns a logger with wallet context
func (l *Logger) WithWallet(address string) *logrus.Entry {
	return l.WithField("wallet", address)
}
