/* main.go
 * The "main" method for running the Smallie server. Loads configuration, connects to the database and starts the
 * HTTP server, the background refresher and (when a token is configured) the operator bot
 * Usage: go run . -env=".env" -addr=":8080" -debug="false" -bot="true" -seed="true"
 * Authors: Zachary Bower
 */

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"smallie/api/api"
	"smallie/api/external"
	"smallie/api/metrics"
	"smallie/api/refresh"
	"smallie/bot"
	"smallie/config"
	"smallie/web"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	//Flags
	envPtr := flag.String("env", ".env", "Path of the .env file to load, if present")
	addrPtr := flag.String("addr", "", "Address for the HTTP server, overrides ADDR")
	debugPtr := flag.String("debug", "false", "Debug logging: takes true or false as argument")
	botPtr := flag.String("bot", "true", "Run the Discord bot when a token is configured: takes true or false as argument")
	seedPtr := flag.String("seed", "true", "Seed the default tasks when the tasks collection is empty: takes true or false as argument")
	flag.Parse()

	cfg, err := config.Load(*envPtr)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *addrPtr != "" {
		cfg.Addr = *addrPtr
	}
	flags, err := parseBoolFlags(map[string]string{"debug": *debugPtr, "bot": *botPtr, "seed": *seedPtr})
	if err != nil {
		slog.Error("failed to parse flags", "error", err)
		os.Exit(1)
	}
	cfg.Debug = cfg.Debug || flags["debug"]

	logger := newLogger(cfg.Debug)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, flags["bot"], flags["seed"]); err != nil {
		logger.Error("smallie exited with error", "error", err)
		os.Exit(1)
	}
}

// run wires every component together and blocks until ctx is cancelled or the HTTP server fails
func run(ctx context.Context, cfg config.Config, logger *slog.Logger, runBot bool, seed bool) error {
	competition, err := cfg.Competition()
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	receipts, closeReceipts := newReceiptLog(ctx, cfg, logger)
	defer closeReceipts()

	apiPtr, err := api.NewAPI(ctx, cfg.DBName, cfg.MongoURI, api.Options{
		Fiat:        newFiatRail(cfg, logger),
		Crypto:      external.NewSimulatedWallet(cfg.TransferDelay),
		Receipts:    receipts,
		Metrics:     metrics.New(registry),
		Competition: &competition,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := apiPtr.Close(closeCtx); err != nil {
			logger.Warn("failed to disconnect from database", "error", err)
		}
	}()

	if seed {
		if _, err := apiPtr.SeedTasks(ctx); err != nil {
			return err
		}
	}

	var wg sync.WaitGroup
	defer wg.Wait()
	// Stop the refresher and bot if the HTTP server returns first
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	refresher := refresh.New(apiPtr, cfg.RefreshInterval, logger)
	wg.Add(1)
	go func() {
		defer wg.Done()
		refresher.Run(ctx)
	}()

	//Init bot when a token is configured
	if runBot && cfg.DiscordToken != "" {
		discordBot, err := bot.NewBot(cfg.DiscordToken, apiPtr, cfg.AdminDiscordIDs)
		if err != nil {
			return err
		}
		discordBot.Logger = logger
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := discordBot.Run(ctx); err != nil {
				logger.Error("discord bot stopped", "error", err)
			}
		}()
	} else {
		logger.Info("discord bot disabled")
	}

	return web.Start(ctx, web.Config{
		Addr:              cfg.Addr,
		API:               apiPtr,
		Refresher:         refresher,
		Gatherer:          registry,
		AdminPasswordHash: cfg.AdminPasswordHash,
		JWTSecret:         cfg.JWTSecret,
		SessionTTL:        cfg.SessionTTL,
		SecureCookies:     cfg.SecureCookies,
		Logger:            logger,
		Debug:             cfg.Debug,
	})
}

// newFiatRail returns the Flutterwave rail, or nil when no public key is configured so votes are recorded directly
func newFiatRail(cfg config.Config, logger *slog.Logger) external.FiatRail {
	if cfg.FlutterwavePublicKey == "" {
		logger.Warn("FLW_PUBLIC_KEY not set, votes will be recorded without payment")
		return nil
	}
	if cfg.FlutterwaveSecretKey == "" {
		logger.Warn("FLW_SECRET_KEY not set, payments will not be verified with Flutterwave")
	}
	return external.NewFlutterwave(external.FlutterwaveConfig{
		PublicKey:   cfg.FlutterwavePublicKey,
		SecretKey:   cfg.FlutterwaveSecretKey,
		WebhookHash: cfg.FlutterwaveWebhookHash,
		BaseURL:     cfg.FlutterwaveBaseURL,
		RedirectURL: cfg.FlutterwaveRedirectURL,
	})
}

// newReceiptLog connects to Redis when configured and falls back to an in-memory log
func newReceiptLog(ctx context.Context, cfg config.Config, logger *slog.Logger) (external.ReceiptLog, func()) {
	if cfg.RedisAddr == "" {
		return external.NewMemoryReceipts(), func() {}
	}
	receipts, err := external.NewRedisReceipts(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Warn("redis unavailable, keeping receipts in memory", "error", err)
		return external.NewMemoryReceipts(), func() {}
	}
	return receipts, func() {
		if err := receipts.Close(); err != nil {
			logger.Warn("failed to close redis", "error", err)
		}
	}
}

// newLogger returns a JSON logger, or a text logger at debug level when debug is set
func newLogger(debug bool) *slog.Logger {
	if debug {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
}
