package models

import "time"

type Cart struct {
	ID                   string         `json:"id"`
	ShopID               string         `json:"shopId"`
	AccountID            string         `json:"accountId"`
	AnonymousAccessToken string         `json:"anonymousAccessToken,omitempty"`
	CurrencyCode         string         `json:"currencyCode"`
	Discount             float64        `json:"discount"`
	Items                []CartItem     `json:"items,omitempty"`
	Billing              []BillingEntry `json:"billing,omitempty"`
	CreatedAt            time.Time      `json:"createdAt"`
	UpdatedAt            time.Time      `json:"updatedAt"`
}

type CartItem struct {
	ID       string `json:"id"`
	Title    string `json:"title,omitempty"`
	Quantity int    `json:"quantity"`
	Subtotal Money  `json:"subtotal"`
}

type Money struct {
	Amount       float64 `json:"amount"`
	CurrencyCode string  `json:"currencyCode"`
}

// Total is the cart amount the order min/max conditions are checked against:
// the sum of item subtotals minus the discount already applied.
func (c *Cart) Total() float64 {
	var sum float64
	for _, item := range c.Items {
		sum += item.Subtotal.Amount
	}
	return sum - c.Discount
}
