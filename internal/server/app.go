// Package server wires the mail server together: configuration, logging,
// the mailbox store, the auth and delivery services, and the TCP listener.
// It also handles graceful shutdown on OS signals.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gophmail/internal/logging"
	"github.com/dmitrijs2005/gophmail/internal/server/auth"
	"github.com/dmitrijs2005/gophmail/internal/server/config"
	"github.com/dmitrijs2005/gophmail/internal/server/delivery"
	"github.com/dmitrijs2005/gophmail/internal/server/mailbox"
	"github.com/dmitrijs2005/gophmail/internal/server/tcp"
)

type App struct {
	config *config.Config
	logger logging.Logger
	server *tcp.Server
}

// NewApp builds the application. A data directory that cannot be created is
// a fatal startup failure and is returned as an error.
func NewApp(c *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	store, err := mailbox.NewStore(c.DataDir)
	if err != nil {
		return nil, fmt.Errorf("store init error: %w", err)
	}

	as := auth.NewService(store)
	router := delivery.NewRouter(store, c.Domain)
	srv := tcp.NewServer(c.EndpointAddr, c.IdleTimeout, logger, as, store, router)

	return &App{config: c, logger: logger, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		return err
	}
	return nil
}
