package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"goflare.io/discounts/driver"
	"goflare.io/discounts/models"
)

var _ Repository = (*repository)(nil)

// Repository is the user store. FindByID returns (nil, nil) for unknown
// users.
type Repository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type repository struct {
	conn driver.PostgresPool
}

func NewRepository(conn driver.PostgresPool) Repository {
	return &repository{conn: conn}
}

func (r *repository) FindByID(ctx context.Context, id string) (*models.User, error) {
	const query = `SELECT id, name, email, created_at FROM users WHERE id = @id`

	var user models.User
	err := r.conn.QueryRow(ctx, query, pgx.NamedArgs{"id": id}).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &user, nil
}
