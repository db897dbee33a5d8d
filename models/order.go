package models

import "time"

// Order is the slice of an order the discount engine cares about: which
// discounts it redeemed, which cart it came from and who placed it.
type Order struct {
	ID        string          `json:"id"`
	CartID    string          `json:"cartId"`
	AccountID string          `json:"accountId"`
	ShopID    string          `json:"shopId,omitempty"`
	Discounts []OrderDiscount `json:"discounts,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

type OrderDiscount struct {
	DiscountID string `json:"discountId"`
	Code       string `json:"code,omitempty"`
}
