package main

import (
	"context"
	"flag"
	"os"

	"ledger/internal/bank"
	"ledger/internal/cli"
	"ledger/internal/config"
	"ledger/internal/money"
	"ledger/internal/store"

	"github.com/charmbracelet/log"
)

func main() {
	interest := flag.String("apply-interest", "", "apply this interest rate to every account and exit (e.g. 0.015)")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "ledger"})
	if err := config.LoadDotEnv(); err != nil {
		logger.Fatal("failed to read .env", "err", err)
	}
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", "err", err)
	}
	logger.SetLevel(cfg.LogLevel)

	ctx := context.Background()
	backend, closeStore, err := store.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", "err", err)
	}
	defer closeStore()

	ledger := bank.NewLedger(backend,
		bank.WithRates(cfg.Rates),
		bank.WithLockout(bank.LockoutPolicy{Threshold: cfg.LockoutThreshold, Window: cfg.LockoutWindow}),
		bank.WithLogger(logger),
	)
	if err := ledger.Load(ctx); err != nil {
		logger.Error("error loading accounts", "err", err)
	}

	if *interest != "" {
		rate, err := money.ParseRate(*interest)
		if err != nil {
			logger.Fatal("invalid interest rate", "rate", *interest, "err", err)
		}
		count := ledger.ApplyInterestToAllAccounts(ctx, rate)
		logger.Info("interest applied", "rate", rate, "accounts", count)
		return
	}

	app := cli.New(ledger, cli.NewHuhPrompter(os.Getenv("ACCESSIBLE") != ""), os.Stdout, logger)
	if err := app.Run(ctx); err != nil {
		os.Exit(1)
	}
}
