//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"goflare.io/discounts"
	"goflare.io/discounts/auth"
	"goflare.io/discounts/cart"
	"goflare.io/discounts/config"
	"goflare.io/discounts/discount"
	"goflare.io/discounts/driver"
	"goflare.io/discounts/geocode"
	"goflare.io/discounts/handlers"
	"goflare.io/discounts/server"
	"goflare.io/discounts/shop"
	"goflare.io/discounts/user"
)

func InitializeApplication() (*App, error) {

	wire.Build(
		config.ProvideApplicationConfig,
		config.NewLogger,
		config.ProvidePostgresConn,
		config.ProvideRedis,
		config.ProvideNATSConn,
		driver.NewTransactionManager,
		cart.NewRepository,
		cart.NewSaver,
		discount.NewRepository,
		user.NewRepository,
		shop.NewRepository,
		auth.NewValidator,
		geocode.NewResolver,
		provideCartStore,
		provideDiscountStore,
		provideUserStore,
		provideShopStore,
		provideCartSaver,
		providePermissionValidator,
		provideCountyResolver,
		discounts.NewEvaluator,
		discounts.NewEngine,
		provideService,
		discounts.NewReclaimer,
		discounts.NewScheduler,
		discounts.NewRecorder,
		provideDispatcher,
		discounts.NewEventManager,
		handlers.NewDiscountHandler,
		server.NewServer,
		NewApp,
	)

	return &App{}, nil
}
