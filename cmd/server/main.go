package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/rollcall-app/rollcall/internal/accessgraph"
	"github.com/rollcall-app/rollcall/internal/admin"
	"github.com/rollcall-app/rollcall/internal/api"
	"github.com/rollcall-app/rollcall/internal/config"
	"github.com/rollcall-app/rollcall/internal/database"
	"github.com/rollcall-app/rollcall/internal/identity"
	"github.com/rollcall-app/rollcall/internal/member"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db.Pool()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	verifier, claims, err := initIdentityProvider(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize identity provider", "error", err)
		os.Exit(1)
	}

	memberRepo := member.NewRepository(db.Pool())
	graphRepo := accessgraph.NewRepository(db.Pool())

	router := api.NewRouter(api.RouterDeps{
		Verifier:     verifier,
		AdminService: admin.NewService(verifier, claims),
		MemberRepo:   memberRepo,
		GraphRepo:    graphRepo,
		Resolver:     accessgraph.NewResolver(graphRepo),
		DBPinger:     db,
		Version:      cfg.Version,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting rollcall server", "port", cfg.Port, "version", cfg.Version, "authProvider", cfg.AuthProvider)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String())
	case err := <-serverErr:
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

func setupLogger(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// initIdentityProvider wires the configured identity authority. Local mode
// pairs an HS256 verifier with an in-memory claim store and must not be used
// outside development.
func initIdentityProvider(ctx context.Context, cfg *config.Config) (identity.Verifier, identity.ClaimStore, error) {
	switch cfg.AuthProvider {
	case config.ProviderLocal:
		slog.Warn("using local identity provider; claims are not persisted")
		return identity.NewLocalVerifier(cfg.AuthSecret), identity.NewMemoryStore(), nil
	default:
		provider, err := identity.NewFirebaseProvider(ctx, cfg.FirebaseProjectID, cfg.CredentialsFile)
		if err != nil {
			return nil, nil, err
		}
		return provider, provider, nil
	}
}
