package handlers

import (
	"net/http"
	"os"

	"ledger/internal/config"
	"ledger/internal/middleware"
	"ledger/internal/websocket"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handler struct {
	cfg    config.Config
	ledger Ledger
	hub    *websocket.Hub
	logger *log.Logger
}

func New(cfg config.Config, ledger Ledger, hub *websocket.Hub, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "http"})
	}
	return &Handler{
		cfg:    cfg,
		ledger: ledger,
		hub:    hub,
		logger: logger,
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.Recoverer)
	router.Use(h.requestLogger)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.cfg.AllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", middleware.OperatorKeyHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Post("/accounts", h.CreateAccount)
	router.Post("/auth/login", h.Login)
	router.Get("/rates", h.ListRates)

	router.Group(func(r chi.Router) {
		r.Use(middleware.Auth(h.cfg.JWTSecret))
		r.Get("/accounts/me", h.Me)
		r.Get("/accounts/me/balance", h.GetBalance)
		r.Get("/accounts/me/transactions", h.ListTransactions)
		r.Post("/accounts/me/deposit", h.Deposit)
		r.Post("/accounts/me/withdraw", h.Withdraw)
		r.Post("/transfers", h.Transfer)
		r.Get("/ws/balances", h.WSBalances)
	})

	router.With(middleware.RequireOperator(h.cfg.OperatorKeyHash)).Post("/admin/interest", h.ApplyInterest)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", chimiddleware.GetReqID(r.Context()),
		)
	})
}
