package discounts

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"goflare.io/discounts/models"
)

// Recorder accrues usage statistics when orders are placed: one transaction
// per discount the order redeemed. Appends are set-like, so redelivered
// events do not duplicate records.
type Recorder struct {
	discounts DiscountStore
	logger    *zap.Logger
}

func NewRecorder(discounts DiscountStore, logger *zap.Logger) *Recorder {
	return &Recorder{
		discounts: discounts,
		logger:    logger,
	}
}

// Record appends a transaction to every discount the order references. The
// appends run concurrently and independently; a failed append does not
// cancel its siblings, and the first error is returned after all have
// finished.
func (r *Recorder) Record(ctx context.Context, order *models.Order) error {
	if len(order.Discounts) == 0 {
		return nil
	}

	appliedAt := time.Now().UTC()

	var group errgroup.Group
	for _, orderDiscount := range order.Discounts {
		discountID := orderDiscount.DiscountID
		group.Go(func() error {
			txn := models.Transaction{
				UserID:    order.AccountID,
				CartID:    order.CartID,
				AppliedAt: appliedAt,
			}
			if err := r.discounts.AppendTransaction(ctx, discountID, txn); err != nil {
				r.logger.Error("failed to record discount transaction",
					zap.String("discount_id", discountID),
					zap.String("order_id", order.ID),
					zap.Error(err))
				return err
			}
			return nil
		})
	}

	return group.Wait()
}
