package app

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/covechat/cove-server/internal/auth"
	"github.com/covechat/cove-server/internal/config"
	"github.com/covechat/cove-server/internal/core"
	"github.com/covechat/cove-server/internal/service/friends"
	"github.com/covechat/cove-server/internal/store"
	"github.com/covechat/cove-server/internal/store/sqlite"
	transporthttp "github.com/covechat/cove-server/internal/transport/http"
)

// App wires together the stores, the session core and the transport layer.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	store           store.Store
	log             *zerolog.Logger
}

// New constructs the application with the provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	if cfg.TokenSecret == "" {
		return nil, errors.New("token_secret must be configured")
	}

	st, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}
	logger.Info().Str("db_path", cfg.DatabasePath).Msg("database initialized")

	tokens := &auth.TokenConfig{
		Secret:   []byte(cfg.TokenSecret),
		Issuer:   cfg.TokenIssuer,
		Audience: cfg.TokenAudience,
		TTL:      cfg.TokenTTL,
	}
	if tokens.TTL == 0 {
		tokens.TTL = auth.DefaultSessionTTL
	}

	var verifier auth.Verifier
	if cfg.IdentityProviderURL != "" {
		verifier = auth.NewHTTPVerifier(cfg.IdentityProviderURL)
	} else {
		logger.Warn().Msg("no identity provider configured, login endpoint disabled")
		verifier = rejectAllVerifier{}
	}

	registry := core.NewRegistry(st, tokens, logger)
	membership := core.NewMembership()
	dispatcher := core.NewDispatcher(registry, membership, st, logger)
	moderator := core.NewModerator(st, st, registry, dispatcher, cfg.AdminIdentity, logger)

	if cfg.AdminIdentity == "" {
		logger.Warn().Msg("no admin identity configured, moderation endpoints disabled")
	}

	server := transporthttp.NewServer(cfg, transporthttp.Services{
		Auth:       auth.NewService(st, verifier, tokens),
		Registry:   registry,
		Membership: membership,
		Dispatcher: dispatcher,
		Moderator:  moderator,
		Friends:    friends.New(st),
		Store:      st,
	}, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		store:           st,
		log:             logger,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or a
// fatal server error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		a.log.Info().Str("addr", a.server.Addr).Msg("http server listening")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.cleanup()
			return err
		}

		a.cleanup()
		return <-serverErr
	}
}

// cleanup closes the database and other resources.
func (a *App) cleanup() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close store")
		} else {
			a.log.Info().Msg("store closed")
		}
	}
}

// rejectAllVerifier stands in when no identity provider endpoint is set.
type rejectAllVerifier struct{}

func (rejectAllVerifier) Verify(context.Context, string) (*auth.ExternalIdentity, error) {
	return nil, auth.ErrCredentialRejected
}
