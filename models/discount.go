package models

import "time"

// Discount is a discount-code record scoped to a shop. Codes are stored
// lowercase and matched case-insensitively.
type Discount struct {
	ID                string               `json:"id"`
	Code              string               `json:"code"`
	ShopID            string               `json:"shopId"`
	Amount            float64              `json:"amount"`
	CalculationMethod string               `json:"calculationMethod"`
	Processor         string               `json:"processor"`
	Label             string               `json:"label,omitempty"`
	Conditions        *DiscountConditions  `json:"conditions,omitempty"`
	Transactions      []Transaction        `json:"transactions,omitempty"`
	CreatedAt         time.Time            `json:"createdAt"`
	UpdatedAt         time.Time            `json:"updatedAt"`
}

// DiscountConditions restricts when a discount may be applied. A nil
// Conditions means the discount is always eligible.
type DiscountConditions struct {
	Enabled         bool             `json:"enabled"`
	Order           *OrderConditions `json:"order,omitempty"`
	County          *string          `json:"county,omitempty"`
	AccountLimit    int              `json:"accountLimit,omitempty"`
	RedemptionLimit int              `json:"redemptionLimit,omitempty"`

	// ExcludedShopIDs disqualifies the listed shops. The stored field keeps
	// its historical name "permissions", but membership blocks rather than
	// authorizes.
	ExcludedShopIDs []string `json:"permissions,omitempty"`
}

// OrderConditions bounds the cart total and the validity period.
type OrderConditions struct {
	EndDate *time.Time `json:"endDate,omitempty"`
	Min     *float64   `json:"min,omitempty"`
	Max     *float64   `json:"max,omitempty"`
}

// Transaction records one redemption of a discount. The transactions list is
// append-only and is the ground truth for usage accounting.
type Transaction struct {
	UserID    string    `json:"userId"`
	CartID    string    `json:"cartId"`
	AppliedAt time.Time `json:"appliedAt"`
}

// AppliedDiscount is the projection of a discount-kind billing entry
// returned by the applied-discounts query.
type AppliedDiscount struct {
	ID   string `json:"id"`
	Code string `json:"code"`
}
