// Package server initializes and runs the accounts server: the REST API, the
// gRPC health endpoint, the verification mail dispatcher and the periodic
// cleanup of unverified accounts.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/gophaccounts/internal/logging"
	"github.com/dmitrijs2005/gophaccounts/internal/server/config"
	"github.com/dmitrijs2005/gophaccounts/internal/server/mailer"
	"github.com/dmitrijs2005/gophaccounts/internal/server/rest"
	"github.com/dmitrijs2005/gophaccounts/internal/server/services"

	gs "github.com/dmitrijs2005/gophaccounts/internal/server/grpc"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	storage *Storage
	mail    *mailer.Dispatcher
	auth    *services.AuthService
	users   *services.UserService
	cleanup *services.CleanupService
}

// NewApp opens storage, applies migrations and wires the services.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	return newApp(ctx, cfg, logging.NewJSONLogger(os.Stdout, cfg.LogLevel))
}

func newApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	storage, err := OpenStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := storage.Migrate(ctx); err != nil {
		_ = storage.Close()
		return nil, err
	}

	sender := mailer.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom)
	mail := mailer.NewDispatcher(sender, logger, cfg.MailQueueSize, cfg.MailWorkers).
		WithLinkValidity(cfg.VerificationTokenValidityDuration)

	return &App{
		config:  cfg,
		logger:  logger,
		storage: storage,
		mail:    mail,
		auth:    NewAuthService(cfg, storage, mail, logger),
		users:   services.NewUserService(storage.UoW, logger),
		cleanup: services.NewCleanupService(storage.UoW, cfg.UnverifiedRetention, logger),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	handler := rest.NewHandler(app.auth, app.users, rest.CookieSettings{
		AccessTTL:  app.auth.AccessTTL(),
		RefreshTTL: app.auth.RefreshTTL(),
		Secure:     app.config.CookieSecure,
	}, app.logger)

	srv := &http.Server{
		Addr:              app.config.EndpointAddrHTTP,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      65 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "http shutdown", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	var probe gs.Pinger
	if app.storage.DB != nil {
		probe = app.storage.DB
	}

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, probe)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled, a termination signal arrives or a
// listener fails, then drains the mail queue and closes storage.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)
	app.mail.Start(ctx)

	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		app.cleanup.Run(ctx, app.config.CleanupInterval)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.mail.Stop()
	app.logger.Info(ctx, "App stopped")

	return app.storage.Close()
}
