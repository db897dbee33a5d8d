package shop

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"goflare.io/discounts/driver"
	"goflare.io/discounts/models"
)

var _ Repository = (*repository)(nil)

// Repository is the shop and shop-settings store. Lookups return (nil, nil)
// when nothing matches.
type Repository interface {
	FindPrimary(ctx context.Context) (*models.Shop, error)
	FindLocationSettings(ctx context.Context, shopID string) (*models.ShopLocationSettings, error)
}

type repository struct {
	conn driver.PostgresPool
}

func NewRepository(conn driver.PostgresPool) Repository {
	return &repository{conn: conn}
}

func (r *repository) FindPrimary(ctx context.Context) (*models.Shop, error) {
	const query = `SELECT id, name, shop_type FROM shops WHERE shop_type = @shop_type`

	var shop models.Shop
	err := r.conn.QueryRow(ctx, query, pgx.NamedArgs{"shop_type": models.ShopTypePrimary}).Scan(
		&shop.ID,
		&shop.Name,
		&shop.ShopType,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find primary shop: %w", err)
	}

	return &shop, nil
}

func (r *repository) FindLocationSettings(ctx context.Context, shopID string) (*models.ShopLocationSettings, error) {
	const query = `SELECT shop_id, latitude, longitude FROM shop_location_settings WHERE shop_id = @shop_id`

	var settings models.ShopLocationSettings
	err := r.conn.QueryRow(ctx, query, pgx.NamedArgs{"shop_id": shopID}).Scan(
		&settings.ShopID,
		&settings.Latitude,
		&settings.Longitude,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find shop location settings: %w", err)
	}

	return &settings, nil
}
