package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// MintWatcher keeps a live view of the most recent transaction signature
// touching a mint, via a logsSubscribe stream. It is an optional alternative
// to polling getSignaturesForAddress during interruption checks.
type MintWatcher struct {
	url    string
	mint   string
	logger *logrus.Logger

	mu        sync.RWMutex
	conn      *websocket.Conn
	latestSig string

	ctx            context.Context
	cancel         context.CancelFunc
	reconnectDelay time.Duration
}

// wsMessage is a Solana WebSocket JSON-RPC message
type wsMessage struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *int            `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// logsNotification represents a logsNotification payload
type logsNotification struct {
	Subscription int `json:"subscription"`
	Result       struct {
		Context struct {
			Slot uint64 `json:"slot"`
		} `json:"context"`
		Value struct {
			Signature string      `json:"signature"`
			Err       interface{} `json:"err"`
			Logs      []string    `json:"logs"`
		} `json:"value"`
	} `json:"result"`
}

// NewMintWatcher creates a watcher for the given mint
func NewMintWatcher(url, mint string, logger *logrus.Logger) *MintWatcher {
	ctx, cancel := context.WithCancel(context.Background())

	return &MintWatcher{
		url:            url,
		mint:           mint,
		logger:         logger,
		ctx:            ctx,
		cancel:         cancel,
		reconnectDelay: 5 * time.Second,
	}
}

// Start connects and begins tracking mint activity
func (mw *MintWatcher) Start() error {
	if err := mw.connect(); err != nil {
		return err
	}

	go mw.readLoop()
	return nil
}

// Stop closes the connection
func (mw *MintWatcher) Stop() {
	mw.cancel()

	mw.mu.Lock()
	defer mw.mu.Unlock()
	if mw.conn != nil {
		mw.conn.Close()
		mw.conn = nil
	}
}

// Latest returns the most recent signature seen on the mint, or empty when
// nothing has been observed yet
func (mw *MintWatcher) Latest() string {
	mw.mu.RLock()
	defer mw.mu.RUnlock()
	return mw.latestSig
}

func (mw *MintWatcher) connect() error {
	mw.logger.WithField("url", mw.url).Info("🔌 Connecting mint watcher WebSocket...")

	dialer := websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	conn, resp, err := dialer.Dial(mw.url, nil)
	if err != nil {
		if resp != nil {
			mw.logger.WithFields(logrus.Fields{
				"status": resp.Status,
				"url":    mw.url,
			}).Error("❌ WebSocket connection failed")
		}
		return fmt.Errorf("failed to connect to WebSocket: %w", err)
	}

	conn.SetReadLimit(1024 * 1024)

	id := 1
	sub := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  "logsSubscribe",
		"params": []interface{}{
			map[string]interface{}{"mentions": []string{mw.mint}},
			map[string]interface{}{"commitment": "confirmed"},
		},
	}
	if err := conn.WriteJSON(sub); err != nil {
		conn.Close()
		return fmt.Errorf("failed to send logsSubscribe: %w", err)
	}

	mw.mu.Lock()
	mw.conn = conn
	mw.mu.Unlock()

	mw.logger.WithField("mint", mw.mint).Info("✅ Mint watcher subscribed")
	return nil
}

func (mw *MintWatcher) readLoop() {
	for {
		select {
		case <-mw.ctx.Done():
			return
		default:
		}

		mw.mu.RLock()
		conn := mw.conn
		mw.mu.RUnlock()

		if conn == nil {
			mw.reconnect()
			continue
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			if mw.ctx.Err() != nil {
				return
			}
			mw.logger.WithError(err).Warn("Mint watcher read failed, reconnecting")
			mw.reconnect()
			continue
		}

		var msg wsMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			mw.logger.WithError(err).Debug("Failed to parse WebSocket message")
			continue
		}

		if msg.Error != nil {
			mw.logger.WithFields(logrus.Fields{
				"code":    msg.Error.Code,
				"message": msg.Error.Message,
			}).Warn("WebSocket error message")
			continue
		}

		if msg.Method != "logsNotification" {
			continue
		}

		var notif logsNotification
		if err := json.Unmarshal(msg.Params, &notif); err != nil {
			mw.logger.WithError(err).Debug("Failed to parse logs notification")
			continue
		}

		// Failed transactions still count as foreign activity on the mint
		if notif.Result.Value.Signature != "" {
			mw.mu.Lock()
			mw.latestSig = notif.Result.Value.Signature
			mw.mu.Unlock()
		}
	}
}

func (mw *MintWatcher) reconnect() {
	mw.mu.Lock()
	if mw.conn != nil {
		mw.conn.Close()
		mw.conn = nil
	}
	mw.mu.Unlock()

	select {
	case <-mw.ctx.Done():
		return
	case <-time.After(mw.reconnectDelay):
	}

	if err := mw.connect(); err != nil {
		mw.logger.WithError(err).Warn("Mint watcher reconnect failed")
	}
}
