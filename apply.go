package discounts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"goflare.io/discounts/models"
)

// ApplyDiscountCodeInput identifies the cart, shop and code of one
// application attempt. CartToken is set for anonymous carts.
type ApplyDiscountCodeInput struct {
	CartID       string
	ShopID       string
	DiscountCode string
	UserID       string
	CartToken    string
}

// ApplyDiscountCode checks a discount code's eligibility against a cart and,
// when eligible, appends a discount billing entry and hands the cart to the
// save pipeline. No mutation happens on any failure path. Repeated
// successful calls with the same code append additional entries; the
// operation is not idempotent.
func (e *Engine) ApplyDiscountCode(ctx context.Context, input ApplyDiscountCodeInput) (*models.Cart, error) {
	code := strings.ToLower(input.DiscountCode)

	cart, err := e.loadCart(ctx, input)
	if err != nil {
		return nil, err
	}

	user, err := e.users.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	discount, err := e.discounts.FindByCode(ctx, code, e.shopScope(ctx, input.ShopID))
	if err != nil {
		return nil, fmt.Errorf("failed to find discount: %w", err)
	}
	if discount == nil {
		return nil, ErrDiscountNotFound
	}

	location, err := e.locationSettings(ctx, discount, input.ShopID)
	if err != nil {
		return nil, err
	}

	counts, err := e.usageCounts(ctx, discount, input.UserID)
	if err != nil {
		return nil, err
	}

	verdict := e.evaluator.Evaluate(ctx, EvaluationInput{
		Conditions: discount.Conditions,
		Cart:       cart,
		ShopID:     input.ShopID,
		Location:   location,
		Counts:     counts,
		Now:        time.Now().UTC(),
	})
	if !verdict.Eligible {
		e.logger.Info("discount code rejected",
			zap.String("cart_id", cart.ID),
			zap.String("code", code),
			zap.String("reason", string(verdict.Failure.Reason)))
		return nil, verdict.Failure
	}

	cart.Billing = append(cart.Billing, newBillingEntry(discount, cart))

	savedCart, err := e.saver.SaveCart(ctx, cart)
	if err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}

	e.logger.Info("discount code applied",
		zap.String("cart_id", savedCart.ID),
		zap.String("discount_id", discount.ID),
		zap.String("code", code))

	return savedCart, nil
}

// ListAppliedDiscounts projects the discount-kind billing entries of a cart
// after the same authorization check the applicator performs. Inaccessible
// carts fail loudly rather than listing empty.
func (e *Engine) ListAppliedDiscounts(ctx context.Context, cartID, shopID, requesterID string) ([]models.AppliedDiscount, error) {
	cart, err := e.carts.FindByID(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to find cart: %w", err)
	}
	if cart == nil || cart.ShopID != shopID {
		return nil, ErrCartNotFound
	}

	err = e.permissions.ValidatePermissions(ctx, requesterID, cartResource(cartID), "read", PermissionOptions{
		ShopID: shopID,
		Owner:  cart.AccountID,
	})
	if err != nil {
		return nil, err
	}

	applied := make([]models.AppliedDiscount, 0, len(cart.Billing))
	for _, entry := range cart.Billing {
		if !entry.IsDiscountCode() {
			continue
		}
		applied = append(applied, models.AppliedDiscount{
			ID:   entry.ID,
			Code: entry.Data.Code,
		})
	}

	return applied, nil
}

// loadCart resolves the cart by owner or anonymous token first. A cart that
// exists but belongs to someone else requires an explicit permission check
// against its owner.
func (e *Engine) loadCart(ctx context.Context, input ApplyDiscountCodeInput) (*models.Cart, error) {
	cart, err := e.carts.FindForAccount(ctx, input.CartID, input.ShopID, input.UserID, input.CartToken)
	if err != nil {
		return nil, fmt.Errorf("failed to find cart: %w", err)
	}
	if cart != nil {
		return cart, nil
	}

	cart, err = e.carts.FindByID(ctx, input.CartID)
	if err != nil {
		return nil, fmt.Errorf("failed to find cart: %w", err)
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}

	err = e.permissions.ValidatePermissions(ctx, input.UserID, cartResource(input.CartID), "update", PermissionOptions{
		ShopID: input.ShopID,
		Owner:  cart.AccountID,
	})
	if err != nil {
		return nil, err
	}

	return cart, nil
}

// shopScope is the shop IDs a discount lookup is filtered by: the requesting
// shop plus the primary shop, whose discounts are usable everywhere.
func (e *Engine) shopScope(ctx context.Context, shopID string) []string {
	scope := []string{shopID}

	primary, err := e.shops.FindPrimary(ctx)
	if err != nil {
		e.logger.Warn("failed to find primary shop", zap.Error(err))
		return scope
	}
	if primary != nil && primary.ID != shopID {
		scope = append(scope, primary.ID)
	}

	return scope
}

// locationSettings loads the shop's coordinates only when the discount has a
// county condition. Missing settings stay nil; the evaluator treats them as
// unresolvable.
func (e *Engine) locationSettings(ctx context.Context, discount *models.Discount, shopID string) (*models.ShopLocationSettings, error) {
	if discount.Conditions == nil || discount.Conditions.County == nil {
		return nil, nil
	}

	location, err := e.shops.FindLocationSettings(ctx, shopID)
	if err != nil {
		return nil, fmt.Errorf("failed to find shop location settings: %w", err)
	}
	return location, nil
}

func newBillingEntry(discount *models.Discount, cart *models.Cart) models.BillingEntry {
	return models.BillingEntry{
		ID:           uuid.NewString(),
		Amount:       discount.Amount,
		CreatedAt:    time.Now().UTC(),
		CurrencyCode: cart.CurrencyCode,
		Data: models.BillingData{
			DiscountID: discount.ID,
			Code:       discount.Code,
		},
		DisplayName:       fmt.Sprintf("Discount Code: %s", discount.Code),
		Method:            discount.CalculationMethod,
		Mode:              models.BillingModeDiscount,
		Name:              models.BillingNameDiscountCode,
		PaymentPluginName: models.PaymentPluginDiscountCodes,
		Processor:         discount.Processor,
		ShopID:            cart.ShopID,
		Status:            models.BillingStatusCreated,
		TransactionID:     uuid.NewString(),
	}
}

func cartResource(cartID string) string {
	return fmt.Sprintf("carts:%s", cartID)
}
