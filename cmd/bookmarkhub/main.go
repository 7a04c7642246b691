package main

import (
	"context"
	"crypto/rand"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	gatewayadapter "github.com/danovak/bookmarkhub/internal/adapter/driven/gateway"
	"github.com/danovak/bookmarkhub/internal/adapter/driven/notify"
	"github.com/danovak/bookmarkhub/internal/adapter/driven/redisnotify"
	sqliteadapter "github.com/danovak/bookmarkhub/internal/adapter/driven/sqlite"
	httphandler "github.com/danovak/bookmarkhub/internal/adapter/driving/http"
	"github.com/danovak/bookmarkhub/internal/adapter/driving/session"
	webhandler "github.com/danovak/bookmarkhub/internal/adapter/driving/web"
	"github.com/danovak/bookmarkhub/internal/application"
	"github.com/danovak/bookmarkhub/internal/config"
	"github.com/danovak/bookmarkhub/internal/domain/port/driven"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on malformed env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"gateway_configured", cfg.HasGatewayCredentials(),
		"oauth_provider", cfg.OAuthProvider,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	// 4. Run migrations on writer connection.
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("migrations complete")

	// 5. Wire driven adapters.
	bookmarkStore := sqliteadapter.NewBookmarkRepo(db)

	// Gateway client only when credentials are configured. The interface
	// variable stays nil otherwise; assigning a nil *Client would make the
	// nil checks downstream pass while calls panic.
	var gateway driven.IdentityGateway
	if cfg.HasGatewayCredentials() {
		gateway = gatewayadapter.NewClient(cfg.GatewayURL, cfg.GatewayKey)
		slog.Info("identity gateway client created", "url", cfg.GatewayURL)
	} else {
		slog.Info("no gateway credentials configured, sign-in disabled")
	}

	// Change notifier: Redis pub/sub when an address is configured so
	// multiple instances see each other's writes, in-process bus otherwise.
	var notifier driven.ChangeNotifier
	if cfg.RedisAddr != "" {
		redisNotifier, err := redisnotify.New(ctx, cfg.RedisAddr, slog.Default())
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := redisNotifier.Close(); closeErr != nil {
				slog.Error("error closing redis notifier", "error", closeErr)
			}
		}()
		notifier = redisNotifier
		slog.Info("redis change notifier connected", "addr", cfg.RedisAddr)
	} else {
		notifier = notify.NewBus()
		slog.Info("using in-process change notifier")
	}

	// 6. Session codec. Without a configured secret, sessions use an
	// ephemeral key and do not survive a restart.
	secret := cfg.SecretKey
	if secret == nil {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return err
		}
		slog.Warn("no secret key configured, sessions will not survive restarts")
	}
	sessions, err := session.NewCodec(secret)
	if err != nil {
		return err
	}

	// 7. Create application service.
	bookmarkSvc := application.NewBookmarkService(bookmarkStore, gateway, notifier, slog.Default())

	// 8. Create HTTP handler and register API routes.
	apiHandler := httphandler.NewHandler(bookmarkSvc, notifier, sessions, slog.Default())
	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, apiHandler)

	// 9. Create web handler and register GUI routes.
	webHandler := webhandler.NewHandler(gateway, sessions, cfg.OAuthProvider, cfg.PublicURL, slog.Default())
	webhandler.RegisterRoutes(mux, webHandler)

	// Apply middleware.
	handler := httphandler.ApplyMiddleware(mux, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
		// No WriteTimeout: the event stream endpoint holds its response
		// open for the lifetime of the browser tab.
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	slog.Info("bookmarkhub started", "listen_addr", cfg.ListenAddr)

	// 10. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
