package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"pump-swarm-bot-go/internal/chain"
	"pump-swarm-bot-go/internal/client"
	"pump-swarm-bot-go/internal/config"
	"pump-swarm-bot-go/internal/logger"
	"pump-swarm-bot-go/internal/store"
	"pump-swarm-bot-go/internal/swarm"
	"pump-swarm-bot-go/internal/trade"
	"pump-swarm-bot-go/internal/wallet"
)

const Version = "1.0.0"

// CLI flags
var (
	action      = flag.String("action", "", "Action to run (generate/buy/resume/sell); empty opens the menu")
	walletCount = flag.Int("count", 0, "Number of wallets to generate")
	force       = flag.Bool("force", false, "Overwrite an existing wallet pool on generate")

	network    = flag.String("network", "", "Network to use (mainnet/devnet)")
	logLevel   = flag.String("log-level", "", "Log level (debug/info/warn/error)")
	configFile = flag.String("config", "", "Path to config file")
	envFile    = flag.String("env", "", "Path to .env file")
)

// App wires the orchestrators to their collaborators
type App struct {
	config     *config.Config
	logger     *logger.Logger
	rpcClient  *client.Client
	watcher    *client.MintWatcher
	mainWallet *wallet.Wallet
	store      *store.Store
	pool       *swarm.Pool
	buyer      *swarm.Buyer
	seller     *swarm.Seller
}

func main() {
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile, *envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	applyCliOverrides(cfg)

	log, err := logger.NewLogger(logger.LogConfig{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		LogToFile:   cfg.Logging.LogToFile,
		LogFilePath: cfg.Logging.LogFilePath,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	app, err := NewApp(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create application")
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.LogStartup(Version, cfg.Network, cfg.RPCUrl)

	if *action != "" {
		if err := app.Dispatch(ctx, *action, *walletCount, *force); err != nil {
			log.WithError(err).Error("Action failed")
			os.Exit(1)
		}
		return
	}

	app.MenuLoop(ctx)
	log.LogShutdown("menu exit")
}

func applyCliOverrides(cfg *config.Config) {
	if *network != "" {
		cfg.Network = *network
		cfg.RPCUrl = config.GetRPCEndpoint(cfg.Network)
		cfg.WSUrl = config.GetWSEndpoint(cfg.Network)
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
}

// NewApp builds the application from configuration
func NewApp(cfg *config.Config, log *logger.Logger) (*App, error) {
	rpcClient, err := client.NewClient(client.ClientConfig{
		RPCEndpoint: cfg.RPCUrl,
		WSEndpoint:  cfg.WSUrl,
		APIKey:      cfg.RPCAPIKey,
		Timeout:     time.Duration(config.ConfirmTimeoutSec) * time.Second,
	}, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create RPC client: %w", err)
	}

	mainWallet, err := wallet.FromBase58(cfg.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("invalid main wallet key: %w", err)
	}

	st, err := store.NewStore(cfg.Storage.DataDir, log.Logger)
	if err != nil {
		return nil, err
	}

	journal, err := logger.NewRunJournal(filepath.Join(cfg.Storage.DataDir, "journal"), log)
	if err != nil {
		return nil, err
	}

	gateway := chain.NewGateway(rpcClient, log, cfg.Mint)

	var watcher *client.MintWatcher
	if cfg.Trading.InterruptCheck && cfg.Trading.WatchViaWS {
		watcher = client.NewMintWatcher(cfg.WSUrl, cfg.Mint, log.Logger)
		if err := watcher.Start(); err != nil {
			return nil, fmt.Errorf("failed to start mint watcher: %w", err)
		}
		gateway.UseWatcher(watcher)
	}

	portal := trade.NewPortal(trade.PortalConfig{
		Endpoint:       cfg.Trading.TradeAPIEndpoint,
		Pool:           cfg.Trading.Pool,
		Mint:           cfg.Mint,
		PriorityFeeSOL: cfg.Trading.PriorityFeeSOL,
	}, rpcClient, log)

	buyer := swarm.NewBuyer(gateway, portal, st, journal, log, cfg.Mint, swarm.BuyConfig{
		SlippageBP:      cfg.Trading.SlippageBP,
		BuySplit:        cfg.Trading.BuySplit,
		FeeBuffer:       cfg.Trading.FeeBuffer,
		ReserveLamports: cfg.ReserveLamports(),
		TxDelay:         cfg.TxDelay(),
		InterruptCheck:  cfg.Trading.InterruptCheck,
	})

	seller := swarm.NewSeller(gateway, portal, journal, log, cfg.Mint, swarm.SellConfig{
		SlippageBP:      cfg.Trading.SlippageBP,
		ReserveLamports: cfg.ReserveLamports(),
		TxDelay:         cfg.TxDelay(),
		SettleDelay:     cfg.SettleDelay(),
	})

	return &App{
		config:     cfg,
		logger:     log,
		rpcClient:  rpcClient,
		watcher:    watcher,
		mainWallet: mainWallet,
		store:      st,
		pool:       swarm.NewPool(st, log),
		buyer:      buyer,
		seller:     seller,
	}, nil
}

// Close releases network resources
func (a *App) Close() {
	if a.watcher != nil {
		a.watcher.Stop()
	}
	if a.rpcClient != nil {
		a.rpcClient.Close()
	}
}

// Dispatch runs one named action
func (a *App) Dispatch(ctx context.Context, action string, count int, force bool) error {
	switch action {
	case "generate":
		return a.runGenerate(count, force)
	case "buy":
		return a.runBuy(ctx)
	case "resume":
		return a.runResume(ctx)
	case "sell":
		return a.runSell(ctx)
	default:
		return fmt.Errorf("unknown action %q (want generate, buy, resume or sell)", action)
	}
}

// MenuLoop offers the action set interactively until the operator exits
func (a *App) MenuLoop(ctx context.Context) {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Println()
		fmt.Println("=== pump-swarm-bot ===")
		fmt.Println("1) Generate wallet pool")
		fmt.Println("2) Buy (fresh run)")
		fmt.Println("3) Resume paused buy run")
		fmt.Println("4) Sell and sweep")
		fmt.Println("5) Exit")
		fmt.Print("> ")

		if !scanner.Scan() {
			return
		}
		choice := strings.TrimSpace(scanner.Text())

		var err error
		switch choice {
		case "1":
			err = a.menuGenerate(scanner)
		case "2":
			err = a.runBuy(ctx)
		case "3":
			err = a.runResume(ctx)
		case "4":
			err = a.runSell(ctx)
		case "5", "q", "exit":
			return
		default:
			fmt.Println("Unknown choice")
			continue
		}

		if err != nil {
			a.logger.WithError(err).Error("Action failed")
		}

		if ctx.Err() != nil {
			return
		}
	}
}

func (a *App) menuGenerate(scanner *bufio.Scanner) error {
	fmt.Print("Number of wallets: ")
	if !scanner.Scan() {
		return fmt.Errorf("no input")
	}
	count, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil {
		return fmt.Errorf("invalid wallet count: %w", err)
	}

	force := false
	if a.store.HasWallets() {
		fmt.Print("A pool already exists; overwriting strands its funds. Type 'yes' to overwrite: ")
		if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != "yes" {
			return fmt.Errorf("generation cancelled")
		}
		force = true
	}

	return a.runGenerate(count, force)
}

func (a *App) runGenerate(count int, force bool) error {
	records, mnemonic, err := a.pool.Generate(count, force)
	if err != nil {
		return err
	}

	fmt.Printf("Generated %d wallets.\n", len(records))
	fmt.Printf("Recovery mnemonic (also saved to %s):\n  %s\n",
		filepath.Join(a.config.Storage.DataDir, "mnemonic.txt"), mnemonic)
	return nil
}

func (a *App) runBuy(ctx context.Context) error {
	wallets, err := a.store.LoadWallets()
	if err != nil {
		return err
	}

	if paused, err := a.store.HasCheckpoint(); err == nil && paused {
		a.logger.Warn("A paused run exists; a fresh buy will clear its checkpoint on completion")
	}

	amounts, err := swarm.GenerateAmounts(len(wallets), a.config.Trading.MinBuySOL, a.config.Trading.MaxBuySOL)
	if err != nil {
		return err
	}

	state, err := a.buyer.Run(ctx, a.mainWallet, wallets, amounts, false)
	if err != nil {
		return err
	}

	a.logger.WithField("state", state).Info("Buy run finished")
	return nil
}

func (a *App) runResume(ctx context.Context) error {
	state, err := a.buyer.Resume(ctx, a.mainWallet)
	if err != nil {
		if errors.Is(err, swarm.ErrNothingToResume) {
			fmt.Println("Nothing to resume.")
			return nil
		}
		return err
	}

	a.logger.WithField("state", state).Info("Resumed run finished")
	return nil
}

func (a *App) runSell(ctx context.Context) error {
	wallets, err := a.store.LoadWallets()
	if err != nil {
		return err
	}

	if err := a.seller.Run(ctx, a.mainWallet, wallets); err != nil {
		return err
	}

	a.logger.Info("Sell pass finished")
	return nil
}
