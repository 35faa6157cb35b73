// Package main scores a wallet from the command line. It can keep a local
// score history, re-score on wallet activity and verify the token registry.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"retardio-meter/internal/config"
	"retardio-meter/internal/domain"
	"retardio-meter/internal/holdings"
	"retardio-meter/internal/logging"
	"retardio-meter/internal/meter"
	"retardio-meter/internal/scoring"
	"retardio-meter/internal/solana"
	"retardio-meter/internal/storage"
	"retardio-meter/internal/storage/stores"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Parse flags (config values as defaults)
	rpcEndpoint := flag.String("rpc-endpoint", cfg.RPCEndpoint, "Solana RPC HTTP endpoint")
	wsEndpoint := flag.String("ws-endpoint", cfg.WSEndpoint, "Solana WebSocket endpoint (for -watch)")
	sqlitePath := flag.String("sqlite-path", cfg.SQLitePath, "SQLite file for score history (empty keeps none)")
	jsonOut := flag.Bool("json", false, "Print the score record as JSON")
	watch := flag.Bool("watch", false, "Keep running and re-score on every wallet transaction")
	debounce := flag.Duration("debounce", meter.DefaultDebounce, "Quiet period before a re-score in -watch mode")
	history := flag.Int("history", 0, "Also print the last N stored scores of the wallet")
	verify := flag.Bool("verify-tokens", false, "Check the token registry against on-chain mint metadata and exit")
	logLevel := flag.String("log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flag.Parse()

	logger := logging.New(logging.Config{Level: *logLevel, Pretty: true})
	logging.SetGlobalLogger(logger)

	if *rpcEndpoint == "" {
		fmt.Fprintln(os.Stderr, "Error: --rpc-endpoint or SOLANA_RPC_ENDPOINT is required")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	st, err := stores.Open(ctx, stores.Options{SQLitePath: *sqlitePath, Logger: logger})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening score history: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	rpc := solana.NewHTTPClient(*rpcEndpoint, solana.WithTimeout(cfg.RPCTimeout))

	if *verify {
		ok, err := verifyTokens(ctx, rpc, st.Metadata)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error verifying tokens: %v\n", err)
			os.Exit(1)
		}
		if !ok {
			os.Exit(2)
		}
		return
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: score [flags] <wallet-address>")
		flag.PrintDefaults()
		os.Exit(1)
	}
	wallet := flag.Arg(0)

	fetcher := holdings.NewFetcher(rpc,
		holdings.WithPageLimit(cfg.NFTPageLimit),
		holdings.WithLogger(logger),
	)
	svc, err := meter.NewService(meter.Options{
		Fetcher: fetcher,
		Store:   st.Scores,
		Logger:  logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	printRecord := func(rec *domain.ScoreRecord) {
		var perr error
		if *jsonOut {
			perr = writeJSON(os.Stdout, rec)
		} else {
			perr = writeText(os.Stdout, rec)
		}
		if perr != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", perr)
		}
	}

	rec, err := svc.Score(ctx, wallet)
	if err != nil {
		fmt.Fprintln(os.Stderr, scoreErrorMessage(err))
		os.Exit(1)
	}
	printRecord(rec)

	if *history > 0 {
		records, err := svc.History(ctx, wallet, *history)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading history: %v\n", err)
			os.Exit(1)
		}
		if err := writeHistory(os.Stdout, records); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		}
	}

	if !*watch {
		return
	}

	if err := watchWallet(ctx, logger, svc, *wsEndpoint, *debounce, wallet, printRecord); err != nil &&
		!errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error watching wallet: %v\n", err)
		os.Exit(1)
	}
}

func watchWallet(
	ctx context.Context,
	logger zerolog.Logger,
	svc *meter.Service,
	wsEndpoint string,
	debounce time.Duration,
	wallet string,
	emit func(*domain.ScoreRecord),
) error {
	if wsEndpoint == "" {
		return errors.New("--ws-endpoint or SOLANA_WS_ENDPOINT is required for -watch")
	}

	wsCfg := solana.DefaultWSConfig()
	wsCfg.Logger = logger
	ws, err := solana.NewWSClient(ctx, wsEndpoint, &wsCfg)
	if err != nil {
		return fmt.Errorf("connect websocket: %w", err)
	}
	defer ws.Close()

	watcher := meter.NewWatcher(svc, ws,
		meter.WithDebounce(debounce),
		meter.WithWatchLogger(logger),
	)

	fmt.Fprintln(os.Stderr, "Watching for wallet activity, Ctrl+C to stop")
	return watcher.Watch(ctx, wallet, func(rec *domain.ScoreRecord, err error) {
		if err != nil {
			fmt.Fprintln(os.Stderr, scoreErrorMessage(err))
			return
		}
		emit(rec)
	})
}

// scoreErrorMessage maps a scoring failure to the message shown to users.
func scoreErrorMessage(err error) string {
	if errors.Is(err, meter.ErrInvalidAddress) {
		return "Invalid wallet address"
	}
	return "Error fetching balance: " + err.Error()
}

// verifyTokens checks every registry token on-chain, stores the fetched
// metadata and prints one line per token. Reports whether all matched.
func verifyTokens(ctx context.Context, rpc solana.RPCClient, metadata storage.MintMetadataStore) (bool, error) {
	verifier := holdings.NewMetadataVerifier(rpc)

	results, err := verifier.VerifyAll(ctx, scoring.KnownTokens())
	if err != nil {
		return false, err
	}

	allOK := true
	for _, res := range results {
		if res.Metadata.Mint != "" {
			m := res.Metadata
			if err := metadata.Upsert(ctx, &m); err != nil {
				return false, fmt.Errorf("store metadata for %s: %w", res.Token.Symbol, err)
			}
		}
		if err := writeVerification(os.Stdout, res); err != nil {
			return false, err
		}
		allOK = allOK && res.OK()
	}
	return allOK, nil
}
