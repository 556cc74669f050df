// Package relay exposes the bridge's operations over HTTP so that chatbot
// platforms and other services can call them without speaking the vendor API.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"storefront-bridge/internal/apiclient"
	"storefront-bridge/internal/pricing"
	"storefront-bridge/internal/storefront"
)

// Options configure the relay server.
type Options struct {
	ListenAddr      string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AssetBaseURL    string
	ServerName      string
}

// Server is the HTTP relay in front of the storefront client, the price
// enricher, and the generic API registry.
type Server struct {
	opts     Options
	store    *storefront.Client
	enricher *pricing.Enricher
	apis     *apiclient.Registry
	logger   zerolog.Logger
}

// New constructs a relay server. apis may be nil when no generic endpoints
// are configured.
func New(opts Options, store *storefront.Client, enricher *pricing.Enricher, apis *apiclient.Registry, logger zerolog.Logger) *Server {
	if opts.ServerName == "" {
		opts.ServerName = "storefront-bridge"
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	if apis == nil {
		apis = apiclient.NewRegistry()
	}
	return &Server{
		opts:     opts,
		store:    store,
		enricher: enricher,
		apis:     apis,
		logger:   logger.With().Str("component", "relay").Logger(),
	}
}

// Handler builds the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /tools", s.handleListTools)
	mux.HandleFunc("POST /tools/{name}", s.handleCallTool)
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("POST /webhook/{platform}", s.handleWebhook)

	return WithRequestID(WithLogging(s.logger, mux))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.opts.ListenAddr,
		Handler:      s.Handler(),
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info().Str("addr", s.opts.ListenAddr).Msg("relay listening")

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info().Msg("relay stopped")
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"server":    s.opts.ServerName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorPayload struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, errorPayload{Error: message, Details: details})
}
