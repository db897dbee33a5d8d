package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"goflare.io/discounts/driver"
	"goflare.io/discounts/models"
)

var _ Repository = (*repository)(nil)

// Repository is the cart store. Lookups return (nil, nil) when no cart
// matches the filter.
type Repository interface {
	FindByID(ctx context.Context, id string) (*models.Cart, error)
	FindForAccount(ctx context.Context, id, shopID, accountID, anonymousToken string) (*models.Cart, error)
	CountWithDiscount(ctx context.Context, accountID, discountID string) (int, error)
	ReclaimStale(ctx context.Context, olderThan time.Time) (int64, error)
	Update(ctx context.Context, tx pgx.Tx, cart *models.Cart) error
}

type repository struct {
	conn driver.PostgresPool
}

func NewRepository(conn driver.PostgresPool) Repository {
	return &repository{conn: conn}
}

const cartColumns = `id, shop_id, account_id, anonymous_access_token, currency_code, discount, items, billing, created_at, updated_at`

func (r *repository) FindByID(ctx context.Context, id string) (*models.Cart, error) {
	query := fmt.Sprintf(`SELECT %s FROM carts WHERE id = @id`, cartColumns)

	return r.scanCart(r.conn.QueryRow(ctx, query, pgx.NamedArgs{"id": id}))
}

// FindForAccount matches a cart either by its owner or, for anonymous carts,
// by its access token.
func (r *repository) FindForAccount(ctx context.Context, id, shopID, accountID, anonymousToken string) (*models.Cart, error) {
	query := fmt.Sprintf(`
    SELECT %s FROM carts
    WHERE id = @id
      AND shop_id = @shop_id
      AND (account_id = @account_id
           OR (anonymous_access_token <> '' AND anonymous_access_token = @token))
    `, cartColumns)

	args := pgx.NamedArgs{
		"id":         id,
		"shop_id":    shopID,
		"account_id": accountID,
		"token":      anonymousToken,
	}

	return r.scanCart(r.conn.QueryRow(ctx, query, args))
}

// CountWithDiscount counts the account's carts already carrying a discount
// billing entry for the given discount, via JSONB containment on the billing
// list.
func (r *repository) CountWithDiscount(ctx context.Context, accountID, discountID string) (int, error) {
	filter, err := json.Marshal([]map[string]any{{
		"paymentPluginName": models.PaymentPluginDiscountCodes,
		"data":              map[string]string{"discountId": discountID},
	}})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal billing filter: %w", err)
	}

	const query = `
    SELECT COUNT(*) FROM carts
    WHERE account_id = @account_id AND billing @> @filter
    `

	var count int
	err = r.conn.QueryRow(ctx, query, pgx.NamedArgs{
		"account_id": accountID,
		"filter":     string(filter),
	}).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count carts with discount: %w", err)
	}

	return count, nil
}

// ReclaimStale clears the entire billing list and resets the discount
// aggregate on every cart untouched since olderThan. All billing records go,
// not only discount entries.
func (r *repository) ReclaimStale(ctx context.Context, olderThan time.Time) (int64, error) {
	const query = `
    UPDATE carts
    SET billing = '[]'::jsonb, discount = 0
    WHERE updated_at < @older_than AND jsonb_array_length(billing) > 0
    `

	tag, err := r.conn.Exec(ctx, query, pgx.NamedArgs{"older_than": olderThan})
	if err != nil {
		return 0, fmt.Errorf("failed to reclaim stale carts: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (r *repository) Update(ctx context.Context, tx pgx.Tx, cart *models.Cart) error {
	const query = `
    UPDATE carts
    SET discount = @discount,
        items = @items,
        billing = @billing,
        updated_at = @updated_at
    WHERE id = @id
    `

	args := pgx.NamedArgs{
		"id":         cart.ID,
		"discount":   cart.Discount,
		"items":      cart.Items,
		"billing":    cart.Billing,
		"updated_at": cart.UpdatedAt,
	}

	tag, err := tx.Exec(ctx, query, args)
	if err != nil {
		return fmt.Errorf("failed to update cart: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("cart %s does not exist", cart.ID)
	}

	return nil
}

func (r *repository) scanCart(row pgx.Row) (*models.Cart, error) {
	var cart models.Cart
	err := row.Scan(
		&cart.ID,
		&cart.ShopID,
		&cart.AccountID,
		&cart.AnonymousAccessToken,
		&cart.CurrencyCode,
		&cart.Discount,
		&cart.Items,
		&cart.Billing,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan cart: %w", err)
	}

	return &cart, nil
}
