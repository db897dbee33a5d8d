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

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"goflare.io/discounts"
	"goflare.io/discounts/config"
	"goflare.io/discounts/server"
)

// App ties the HTTP server, the reclaimer schedule and the order event
// pipeline into one lifecycle.
type App struct {
	config       *config.Config
	server       *server.Server
	scheduler    *discounts.Scheduler
	eventManager *discounts.EventManager
	dispatcher   *discounts.Dispatcher
	logger       *zap.Logger
}

func NewApp(
	appConfig *config.Config,
	srv *server.Server,
	scheduler *discounts.Scheduler,
	eventManager *discounts.EventManager,
	dispatcher *discounts.Dispatcher,
	logger *zap.Logger,
) *App {
	return &App{
		config:       appConfig,
		server:       srv,
		scheduler:    scheduler,
		eventManager: eventManager,
		dispatcher:   dispatcher,
		logger:       logger,
	}
}

// Run starts every component and blocks until an OS signal or a component
// failure, then shuts down gracefully.
func (a *App) Run() error {
	defer a.logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.dispatcher.Run()
	defer a.dispatcher.Stop()

	if err := a.eventManager.SubscribeToOrders(a.dispatcher); err != nil {
		return fmt.Errorf("failed to subscribe to order events: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := a.scheduler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("scheduler error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		a.logger.Info("starting discounts server", zap.String("addr", a.config.Server.Address))
		if err := a.server.Start(a.config.Server.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		a.logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		return nil
	})

	return g.Wait()
}
