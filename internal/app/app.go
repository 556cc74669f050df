package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"storefront-bridge/internal/apiclient"
	"storefront-bridge/internal/config"
	"storefront-bridge/internal/httpclient"
	"storefront-bridge/internal/pricing"
	"storefront-bridge/internal/relay"
	"storefront-bridge/internal/storefront"
)

// App aggregates configuration and shared dependencies for the CLI commands.
// A single limiter instance gates every call against the storefront backend,
// so CLI commands and the relay share one quota.
type App struct {
	Config *config.Config
	Logger zerolog.Logger

	limiter *httpclient.Limiter
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{
		Config:  cfg,
		Logger:  logger.With().Str("component", "app").Logger(),
		limiter: httpclient.NewLimiter(cfg.RateLimit.RequestsPerMinute),
	}
}

func (a *App) newTransport() *httpclient.Client {
	return httpclient.New(httpclient.Options{
		Timeout:     a.Config.Storefront.RequestTimeout,
		MaxAttempts: a.Config.Retry.MaxAttempts,
		BackoffBase: a.Config.Retry.BackoffBase,
		UserAgent:   a.Config.Storefront.UserAgent,
	}, a.limiter)
}

func (a *App) newStorefront(transport *httpclient.Client) *storefront.Client {
	return storefront.NewClient(storefront.Options{
		BaseURL:        a.Config.Storefront.BaseURL,
		AcceptLanguage: a.Config.Storefront.AcceptLanguage,
	}, transport, a.Logger)
}

func (a *App) newEnricher(transport *httpclient.Client) *pricing.Enricher {
	return pricing.NewEnricher(pricing.EnricherOptions{
		BaseURL:        a.Config.Storefront.BaseURL,
		AcceptLanguage: a.Config.Storefront.AcceptLanguage,
		BulkLimit:      a.Config.Pricing.BulkLimit,
		FallbackLimit:  a.Config.Pricing.FallbackLimit,
	}, transport, a.Logger)
}

// NewWeather exposes the weather integration.
func (a *App) NewWeather() *apiclient.Weather {
	return apiclient.NewWeather(a.Config.Weather.BaseURL, a.Config.Weather.APIKey, a.newTransport())
}

// NewRegistry builds the generic API registry from the configured endpoints.
// The weather integration is attached only when an API key is present.
func (a *App) NewRegistry(transport *httpclient.Client) *apiclient.Registry {
	registry := apiclient.NewRegistry()
	for name, remote := range a.Config.APIs {
		if remote.Kind == "graphql" {
			registry.RegisterGraphQL(name, apiclient.NewGraphQL(remote.BaseURL, remote.Headers, transport))
			continue
		}
		registry.RegisterREST(name, apiclient.NewREST(apiclient.RESTOptions{
			BaseURL: remote.BaseURL,
			Headers: remote.Headers,
		}, transport))
	}
	if a.Config.Weather.APIKey != "" {
		registry.SetWeather(apiclient.NewWeather(a.Config.Weather.BaseURL, a.Config.Weather.APIKey, transport))
	}
	return registry
}

// Serve runs the HTTP relay until interrupted.
func (a *App) Serve(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	transport := a.newTransport()
	server := relay.New(relay.Options{
		ListenAddr:      a.Config.Relay.ListenAddr,
		ReadTimeout:     a.Config.Relay.ReadTimeout,
		WriteTimeout:    a.Config.Relay.WriteTimeout,
		ShutdownTimeout: a.Config.Relay.ShutdownTimeout,
		AssetBaseURL:    a.Config.Storefront.AssetBaseURL,
		ServerName:      a.Config.App.Name,
	}, a.newStorefront(transport), a.newEnricher(transport), a.NewRegistry(transport), a.Logger)

	a.Logger.Info().Str("addr", a.Config.Relay.ListenAddr).Msg("starting relay service")
	err := server.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("relay terminated with error")
		return err
	}

	a.Logger.Info().Msg("relay service stopped")
	return nil
}
