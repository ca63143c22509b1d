package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/profiles/internal/profiles/http"
	"github.com/aussiebroadwan/profiles/internal/profiles/media"
	"github.com/aussiebroadwan/profiles/internal/profiles/service"
	"github.com/aussiebroadwan/profiles/internal/profiles/store"
	"github.com/aussiebroadwan/profiles/internal/profiles/store/drivers/mongo"
	"github.com/aussiebroadwan/profiles/internal/profiles/store/drivers/sqlite"
	"github.com/aussiebroadwan/profiles/pkg/httpx"
	"github.com/aussiebroadwan/profiles/pkg/jwtx"
	"github.com/aussiebroadwan/profiles/pkg/slogx"
)

// BuildVersion is overridden at build time via -ldflags.
var BuildVersion = "v0.1.0"

// Paths outside the gate's defaults that stay public.
var systemPrefixes = []string{"/livez", "/readyz", "/swagger/"}

// Application encapsulates the profiles service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// The store connects on first use, not at startup.
	conn   *store.LazyConn
	issuer *jwtx.Issuer

	identityService     *service.IdentityService
	registrationService *service.RegistrationService
	profileService      *service.ProfileService
	sessionService      *service.SessionService
	googleService       *service.GoogleService // Optional: nil when Google sign-in is not configured

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "profiles",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.init(context.Background()); err != nil {
		return nil, err
	}
	return app, nil
}

func (app *Application) init(ctx context.Context) error {
	issuer, err := jwtx.NewIssuer(app.cfg.AuthSecret, app.cfg.Issuer, app.cfg.SessionTTL)
	if err != nil {
		return fmt.Errorf("failed to initialize token issuer: %w", err)
	}
	app.issuer = issuer

	opener, err := app.storeOpener()
	if err != nil {
		return err
	}
	app.conn = store.NewLazyConn(opener)

	if err := app.initServices(ctx); err != nil {
		return err
	}
	app.initHTTP()
	return nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("profiles service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"store", app.cfg.StoreDriver,
		"google", app.googleService != nil,
		"media", app.cfg.Media.Enabled(),
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down profiles service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Only closes the store if a request ever opened it.
	if err := app.conn.Close(); err != nil {
		app.logger.Error("error closing store", "error", err)
		return err
	}

	app.logger.Info("profiles service stopped")
	return nil
}

// Handler exposes the router, mainly for in-process tests.
func (app *Application) Handler() http.Handler { return app.router }

func (app *Application) storeOpener() (store.Opener, error) {
	switch app.cfg.StoreDriver {
	case DriverSQLite:
		dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
		return app.logOpen(sqlite.Open(dsn)), nil
	case DriverMongo:
		return app.logOpen(mongo.Open(app.cfg.Mongo)), nil
	default:
		return nil, fmt.Errorf("%w: unknown STORE_DRIVER %q", ErrInvalidConfig, app.cfg.StoreDriver)
	}
}

// logOpen reports each connection attempt, successful or not.
func (app *Application) logOpen(open store.Opener) store.Opener {
	return func(ctx context.Context) (store.Store, error) {
		start := time.Now()
		st, err := open(ctx)
		if err != nil {
			app.logger.Error("store connection failed", "driver", app.cfg.StoreDriver, "error", err)
			return nil, err
		}
		app.logger.Info("store connected",
			"driver", app.cfg.StoreDriver,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return st, nil
	}
}

func (app *Application) initServices(ctx context.Context) error {
	app.identityService = &service.IdentityService{Conn: app.conn}
	app.registrationService = &service.RegistrationService{Conn: app.conn}
	app.sessionService = &service.SessionService{Tokens: app.issuer}
	app.profileService = &service.ProfileService{Conn: app.conn}

	if app.cfg.Media.Enabled() {
		uploader, err := media.NewUploader(ctx, app.cfg.Media)
		if err != nil {
			return fmt.Errorf("failed to initialize media uploader: %w", err)
		}
		app.profileService.Avatars = uploader
	} else {
		app.logger.Warn("media storage not configured, avatar uploads will be ignored")
	}

	if app.cfg.Google.Enabled() {
		app.googleService = service.NewGoogleService(app.cfg.Google, app.identityService)
	}
	return nil
}

func (app *Application) initHTTP() {
	gate := &httpx.Gate{
		PublicPrefixes: append(append([]string{}, httpx.DefaultPublicPrefixes...), systemPrefixes...),
		Verifier:       app.issuer,
		BaseURL:        app.cfg.BaseURL,
	}

	router := httpapi.NewRouter(
		gate,
		httpx.CookieOptions{Secure: app.cfg.CookieSecure},
		BuildVersion,
		app.conn,
		app.logger,
	)

	router.Limits = httpapi.RateLimits{
		Strict:   app.cfg.StrictLimit,
		Moderate: app.cfg.ModerateLimit,
		Lenient:  app.cfg.LenientLimit,
	}
	if app.cfg.Media.MaxBytes > 0 {
		router.MaxUploadBytes = app.cfg.Media.MaxBytes
	}

	router.IdentityService = app.identityService
	router.RegistrationService = app.registrationService
	router.ProfileService = app.profileService
	router.SessionService = app.sessionService
	router.GoogleService = app.googleService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
