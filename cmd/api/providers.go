package main

import (
	"goflare.io/discounts"
	"goflare.io/discounts/auth"
	"goflare.io/discounts/cart"
	"goflare.io/discounts/config"
	"goflare.io/discounts/discount"
	"goflare.io/discounts/geocode"
	"goflare.io/discounts/shop"
	"goflare.io/discounts/user"
	"go.uber.org/zap"
)

func provideCartStore(repo cart.Repository) discounts.CartStore {
	return repo
}

func provideDiscountStore(repo discount.Repository) discounts.DiscountStore {
	return repo
}

func provideUserStore(repo user.Repository) discounts.UserStore {
	return repo
}

func provideShopStore(repo shop.Repository) discounts.ShopStore {
	return repo
}

func provideCartSaver(saver *cart.Saver) discounts.CartSaver {
	return saver
}

func providePermissionValidator(validator *auth.Validator) discounts.PermissionValidator {
	return validator
}

func provideCountyResolver(resolver *geocode.Resolver) discounts.CountyResolver {
	return resolver
}

func provideService(engine *discounts.Engine) discounts.Service {
	return engine
}

func provideDispatcher(appConfig *config.Config, recorder *discounts.Recorder, logger *zap.Logger) *discounts.Dispatcher {
	return discounts.NewDispatcher(appConfig.Events.Workers, appConfig.Events.QueueSize, recorder, logger)
}
