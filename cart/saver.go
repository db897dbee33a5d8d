package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"goflare.io/discounts/driver"
	"goflare.io/discounts/models"
)

// Saver is the cart save pipeline: it revalidates a mutated cart,
// recomputes the discount aggregate from the billing list, and persists the
// result. It is the only writer of cart state for successful discount
// applications.
type Saver struct {
	repo               Repository
	transactionManager *driver.TransactionManager
	logger             *zap.Logger
}

func NewSaver(repo Repository, tm *driver.TransactionManager, logger *zap.Logger) *Saver {
	return &Saver{
		repo:               repo,
		transactionManager: tm,
		logger:             logger,
	}
}

func (s *Saver) SaveCart(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	if err := validate(cart); err != nil {
		return nil, err
	}

	cart.Discount = discountTotal(cart)
	cart.UpdatedAt = time.Now().UTC()

	err := s.transactionManager.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		return s.repo.Update(ctx, tx, cart)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("cart saved",
		zap.String("cart_id", cart.ID),
		zap.Float64("discount", cart.Discount))

	return cart, nil
}

func validate(cart *models.Cart) error {
	if cart.ID == "" {
		return fmt.Errorf("cart has no id")
	}
	for _, entry := range cart.Billing {
		if entry.ID == "" {
			return fmt.Errorf("billing entry has no id")
		}
		if entry.Amount < 0 {
			return fmt.Errorf("billing entry %s has negative amount", entry.ID)
		}
		if entry.CurrencyCode != cart.CurrencyCode {
			return fmt.Errorf("billing entry %s currency %s does not match cart currency %s",
				entry.ID, entry.CurrencyCode, cart.CurrencyCode)
		}
	}
	return nil
}

func discountTotal(cart *models.Cart) float64 {
	var total float64
	for _, entry := range cart.Billing {
		if entry.IsDiscountCode() {
			total += entry.Amount
		}
	}
	return total
}
