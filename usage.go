package discounts

import (
	"context"
	"fmt"

	"goflare.io/discounts/models"
)

// UsageCounts is the derived redemption accounting a discount's limits are
// checked against.
type UsageCounts struct {
	// UserRedemptions is the number of recorded transactions belonging to
	// the requesting user.
	UserRedemptions int
	// CartRedemptions is the number of the user's carts that already carry a
	// discount billing entry for this discount. It is a live query, not
	// derived from transactions: a cart can carry the discount before any
	// order exists.
	CartRedemptions int
	// TotalRedemptions is the number of transactions across all users.
	TotalRedemptions int
}

// countTransactions accumulates per-user transaction counts in a single pass
// and returns the requester's count alongside the global total.
func countTransactions(transactions []models.Transaction, userID string) (user, total int) {
	perUser := make(map[string]int, len(transactions))
	for _, txn := range transactions {
		perUser[txn.UserID]++
	}
	return perUser[userID], len(transactions)
}

func (e *Engine) usageCounts(ctx context.Context, discount *models.Discount, userID string) (UsageCounts, error) {
	user, total := countTransactions(discount.Transactions, userID)

	carts, err := e.carts.CountWithDiscount(ctx, userID, discount.ID)
	if err != nil {
		return UsageCounts{}, fmt.Errorf("failed to count carts with discount: %w", err)
	}

	return UsageCounts{
		UserRedemptions:  user,
		CartRedemptions:  carts,
		TotalRedemptions: total,
	}, nil
}
