package discount

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"goflare.io/discounts/driver"
	"goflare.io/discounts/models"
)

const cacheTTL = 30 * time.Second

var _ Repository = (*repository)(nil)

// Repository is the discount store. FindByCode matches case-insensitively
// within the given shop scope and returns (nil, nil) when nothing matches.
type Repository interface {
	FindByCode(ctx context.Context, code string, shopIDs []string) (*models.Discount, error)
	AppendTransaction(ctx context.Context, discountID string, txn models.Transaction) error
}

type repository struct {
	conn   driver.PostgresPool
	cache  *redis.Client
	logger *zap.Logger
}

func NewRepository(conn driver.PostgresPool, cache *redis.Client, logger *zap.Logger) Repository {
	return &repository{
		conn:   conn,
		cache:  cache,
		logger: logger,
	}
}

// FindByCode reads through a short-lived redis cache keyed by (code, shop).
// The shop scope is part of the SQL filter: a code shared by several shops
// must resolve to the in-scope row, not an arbitrary one. Cache failures fall
// through to postgres.
func (r *repository) FindByCode(ctx context.Context, code string, shopIDs []string) (*models.Discount, error) {
	for _, shopID := range shopIDs {
		if discount := r.cachedByCode(ctx, code, shopID); discount != nil {
			return discount, nil
		}
	}

	discount, err := r.findByCode(ctx, code, shopIDs)
	if err != nil {
		return nil, err
	}
	if discount == nil {
		return nil, nil
	}

	r.cacheByCode(ctx, discount)
	return discount, nil
}

func (r *repository) findByCode(ctx context.Context, code string, shopIDs []string) (*models.Discount, error) {
	const query = `
    SELECT id, code, shop_id, amount, calculation_method, processor, label,
           conditions, transactions, created_at, updated_at
    FROM discounts
    WHERE lower(code) = lower(@code) AND shop_id = ANY(@shop_ids)
    `

	var discount models.Discount
	err := r.conn.QueryRow(ctx, query, pgx.NamedArgs{"code": code, "shop_ids": shopIDs}).Scan(
		&discount.ID,
		&discount.Code,
		&discount.ShopID,
		&discount.Amount,
		&discount.CalculationMethod,
		&discount.Processor,
		&discount.Label,
		&discount.Conditions,
		&discount.Transactions,
		&discount.CreatedAt,
		&discount.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find discount by code: %w", err)
	}

	return &discount, nil
}

// AppendTransaction inserts the transaction into the discount's list unless
// an identical record is already present. The cache entry for the discount's
// (code, shop) is invalidated so subsequent eligibility checks see the new
// count.
func (r *repository) AppendTransaction(ctx context.Context, discountID string, txn models.Transaction) error {
	record, err := json.Marshal([]models.Transaction{txn})
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}

	const query = `
    UPDATE discounts
    SET transactions = COALESCE(transactions, '[]'::jsonb) || @record,
        updated_at = now()
    WHERE id = @id AND NOT (COALESCE(transactions, '[]'::jsonb) @> @record)
    RETURNING code, shop_id
    `

	var code, shopID string
	err = r.conn.QueryRow(ctx, query, pgx.NamedArgs{
		"id":     discountID,
		"record": string(record),
	}).Scan(&code, &shopID)
	if errors.Is(err, pgx.ErrNoRows) {
		// Either the discount does not exist or the record is already
		// present; both leave the list unchanged.
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to append discount transaction: %w", err)
	}

	r.invalidate(ctx, code, shopID)
	return nil
}

func (r *repository) cachedByCode(ctx context.Context, code, shopID string) *models.Discount {
	data, err := r.cache.Get(ctx, cacheKey(code, shopID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("discount cache read failed", zap.Error(err))
		}
		return nil
	}

	var discount models.Discount
	if err = json.Unmarshal(data, &discount); err != nil {
		r.logger.Warn("discount cache entry corrupt", zap.String("code", code), zap.Error(err))
		return nil
	}
	return &discount
}

func (r *repository) cacheByCode(ctx context.Context, discount *models.Discount) {
	data, err := json.Marshal(discount)
	if err != nil {
		return
	}
	if err = r.cache.Set(ctx, cacheKey(discount.Code, discount.ShopID), data, cacheTTL).Err(); err != nil {
		r.logger.Warn("discount cache write failed", zap.Error(err))
	}
}

func (r *repository) invalidate(ctx context.Context, code, shopID string) {
	if err := r.cache.Del(ctx, cacheKey(code, shopID)).Err(); err != nil {
		r.logger.Warn("discount cache invalidation failed", zap.String("code", code), zap.Error(err))
	}
}

func cacheKey(code, shopID string) string {
	return fmt.Sprintf("discounts:code:%s:%s", shopID, code)
}
