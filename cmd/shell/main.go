package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/learnhub/learnhub-client/internal/api"
	"github.com/learnhub/learnhub-client/internal/api/handler"
	"github.com/learnhub/learnhub-client/internal/api/metrics"
	"github.com/learnhub/learnhub-client/internal/core/domain"
	"github.com/learnhub/learnhub-client/internal/core/service"
	"github.com/learnhub/learnhub-client/internal/infrastructure/db/local"
	mongostore "github.com/learnhub/learnhub-client/internal/infrastructure/db/mongo"
	redisstore "github.com/learnhub/learnhub-client/internal/infrastructure/db/redis"
	"github.com/learnhub/learnhub-client/internal/infrastructure/gateway"
	"github.com/learnhub/learnhub-client/internal/infrastructure/http/handlers"
	"github.com/learnhub/learnhub-client/internal/infrastructure/navigation"
	"github.com/learnhub/learnhub-client/internal/pkg/config"
	"github.com/learnhub/learnhub-client/pkg/logger"
)

// credentialStore is what the shell needs from a backend: the session's
// storage plus a readiness probe.
type credentialStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
}

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "learnhub-shell",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("shell stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	sessions := service.NewSessionService(store, logger.Component("session"))
	sessions.Subscribe(func(s domain.Session) {
		state := "anonymous"
		authenticated := 0.0
		if s.Authenticated {
			state = "authenticated"
			authenticated = 1
		}
		metrics.SessionTransitionsTotal.WithLabelValues(state).Inc()
		metrics.SessionAuthenticated.Set(authenticated)
	})
	if err := sessions.Hydrate(ctx); err != nil {
		log.Warn().Err(err).Msg("hydration fell back to an anonymous session")
	}

	events := gateway.NewEvents()
	nav := navigation.NewNavigator(cfg.Navigation.LoginPath, logger.Component("navigation"))
	events.Subscribe(nav.OnSessionInvalidated)

	tr := gateway.NewTransport(sessions, events, logger.Component("gateway"))
	client := gateway.NewClient(cfg.API.URL, gateway.NewHTTPClient(tr, cfg.API.Timeout), tr.Exempt())

	router := api.NewRouter(api.Deps{
		Log:        logger.Component("http"),
		Sessions:   sessions,
		Auth:       service.NewAuthService(client, sessions, logger.Component("auth")),
		Dashboards: service.NewDashboardService(client),
		Gate:       service.NewAccessGate(sessions, cfg.Navigation.LoginPath, cfg.Navigation.LandingPath),
		API:        client,
		Nav:        nav,
		Paths:      handler.Paths{Login: cfg.Navigation.LoginPath, Landing: cfg.Navigation.LandingPath},
		Checks: map[string]handlers.Check{
			"credentials": store.Ping,
			"session": func(context.Context) error {
				if !sessions.Snapshot().Initialized {
					return errors.New("session not hydrated")
				}
				return nil
			},
		},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.API.Timeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Str("api", cfg.API.URL).Msg("shell starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shell shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	log.Info().Msg("shutdown complete")
	return nil
}

// openStore picks the credential backend named in the config. The returned
// func releases any connection it opened.
func openStore(ctx context.Context, cfg *config.Config) (credentialStore, func(), error) {
	noop := func() {}

	switch cfg.Credential.Store {
	case config.StoreMemory:
		return local.NewMemoryStore(), noop, nil

	case config.StoreRedis:
		client, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, noop, err
		}
		return redisstore.NewCredentialStore(client, cfg.Credential.Namespace), func() { _ = client.Close() }, nil

	case config.StoreMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  "learnhub-shell",
		})
		if err != nil {
			return nil, noop, err
		}
		closeFn := func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(disconnectCtx)
		}
		return mongostore.NewCredentialStore(db, cfg.Credential.Namespace), closeFn, nil

	default:
		return local.NewFileStore(cfg.Credential.File, logger.Component("credentials")), noop, nil
	}
}
