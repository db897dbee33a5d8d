package discounts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"goflare.io/discounts/models"
)

func TestCountTransactions(t *testing.T) {
	now := time.Now().UTC()
	transactions := []models.Transaction{
		{UserID: "user-1", CartID: "cart-1", AppliedAt: now},
		{UserID: "user-1", CartID: "cart-2", AppliedAt: now},
		{UserID: "user-2", CartID: "cart-3", AppliedAt: now},
	}

	user, total := countTransactions(transactions, "user-1")
	assert.Equal(t, 2, user)
	assert.Equal(t, 3, total)

	user, total = countTransactions(transactions, "user-3")
	assert.Equal(t, 0, user)
	assert.Equal(t, 3, total)
}

func TestCountTransactions_Empty(t *testing.T) {
	user, total := countTransactions(nil, "user-1")
	assert.Equal(t, 0, user)
	assert.Equal(t, 0, total)
}
