package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ledger/internal/bank"
	"ledger/internal/config"
	"ledger/internal/handlers"
	"ledger/internal/store"
	"ledger/internal/websocket"

	"github.com/charmbracelet/log"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "server", ReportTimestamp: true})
	if err := config.LoadDotEnv(); err != nil {
		logger.Fatal("failed to read .env", "err", err)
	}
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", "err", err)
	}
	logger.SetLevel(cfg.LogLevel)
	if cfg.OperatorKeyHash == "" {
		logger.Warn("OPERATOR_KEY_HASH is not set; /admin/interest is disabled")
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), 15*time.Second)
	backend, closeStore, err := store.Open(startCtx, cfg, logger.WithPrefix("store"))
	if err != nil {
		cancelStart()
		logger.Fatal("failed to open store", "err", err)
	}
	defer closeStore()

	hub := websocket.NewHub(logger.WithPrefix("ws"))
	ledger := bank.NewLedger(backend,
		bank.WithRates(cfg.Rates),
		bank.WithLockout(bank.LockoutPolicy{Threshold: cfg.LockoutThreshold, Window: cfg.LockoutWindow}),
		bank.WithLogger(logger.WithPrefix("ledger")),
		bank.WithNotifier(hub),
	)
	if err := ledger.Load(startCtx); err != nil {
		cancelStart()
		logger.Fatal("error loading accounts", "err", err)
	}
	cancelStart()

	handler := handlers.New(cfg, ledger, hub, logger.WithPrefix("http"))
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("ledger API listening", "addr", server.Addr, "env", cfg.AppEnv, "store", cfg.StoreBackend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "err", err)
	}
	if err := ledger.Save(ctx); err != nil {
		logger.Error("error saving accounts", "err", err)
	}
	logger.Info("ledger API stopped")
}
