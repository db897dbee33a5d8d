package discounts

import (
	"context"
	"time"

	"go.uber.org/zap"

	"goflare.io/discounts/models"
)

// Service is the surface the transport layer calls into.
type Service interface {
	ApplyDiscountCode(ctx context.Context, input ApplyDiscountCodeInput) (*models.Cart, error)
	ListAppliedDiscounts(ctx context.Context, cartID, shopID, requesterID string) ([]models.AppliedDiscount, error)
}

// CartStore is the cart collection. Lookup methods return (nil, nil) when no
// cart matches.
type CartStore interface {
	FindByID(ctx context.Context, id string) (*models.Cart, error)
	FindForAccount(ctx context.Context, id, shopID, accountID, anonymousToken string) (*models.Cart, error)
	CountWithDiscount(ctx context.Context, accountID, discountID string) (int, error)
	ReclaimStale(ctx context.Context, olderThan time.Time) (int64, error)
}

// DiscountStore is the discount collection. FindByCode matches
// case-insensitively within the given shop scope and returns (nil, nil) when
// no discount matches. AppendTransaction is set-like: inserting a transaction
// identical to an existing one is a no-op.
type DiscountStore interface {
	FindByCode(ctx context.Context, code string, shopIDs []string) (*models.Discount, error)
	AppendTransaction(ctx context.Context, discountID string, txn models.Transaction) error
}

type UserStore interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type ShopStore interface {
	FindPrimary(ctx context.Context) (*models.Shop, error)
	FindLocationSettings(ctx context.Context, shopID string) (*models.ShopLocationSettings, error)
}

// CartSaver is the external save pipeline: it revalidates and persists a
// mutated cart and is the only writer of cart state for successful
// applications.
type CartSaver interface {
	SaveCart(ctx context.Context, cart *models.Cart) (*models.Cart, error)
}

type PermissionOptions struct {
	ShopID string
	Owner  string
}

// PermissionValidator authorizes access to a resource on behalf of a
// requester. It returns ErrPermissionDenied on unauthorized access.
type PermissionValidator interface {
	ValidatePermissions(ctx context.Context, requesterID, resource, action string, opts PermissionOptions) error
}

// CountyResolver resolves a shop's county from its location settings.
// ok is false whenever the county cannot be determined; resolution never
// fails with an error.
type CountyResolver interface {
	ResolveCounty(ctx context.Context, settings *models.ShopLocationSettings) (county string, ok bool)
}

// Engine decides discount eligibility and applies discount codes to carts.
type Engine struct {
	carts       CartStore
	discounts   DiscountStore
	users       UserStore
	shops       ShopStore
	saver       CartSaver
	permissions PermissionValidator
	evaluator   *Evaluator
	logger      *zap.Logger
}

func NewEngine(
	carts CartStore,
	discounts DiscountStore,
	users UserStore,
	shops ShopStore,
	saver CartSaver,
	permissions PermissionValidator,
	evaluator *Evaluator,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		carts:       carts,
		discounts:   discounts,
		users:       users,
		shops:       shops,
		saver:       saver,
		permissions: permissions,
		evaluator:   evaluator,
		logger:      logger,
	}
}
