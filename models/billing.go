package models

import "time"

const (
	BillingModeDiscount        = "discount"
	BillingNameDiscountCode    = "discount_code"
	BillingStatusCreated       = "created"
	PaymentPluginDiscountCodes = "discount-codes"
)

// BillingEntry is a charge or credit line item on a cart. Discount
// applications are billing entries with Mode "discount" and the discount
// reference in Data. Entries are created once and never mutated.
type BillingEntry struct {
	ID                string      `json:"id"`
	Amount            float64     `json:"amount"`
	CreatedAt         time.Time   `json:"createdAt"`
	CurrencyCode      string      `json:"currencyCode"`
	Data              BillingData `json:"data"`
	DisplayName       string      `json:"displayName"`
	Method            string      `json:"method"`
	Mode              string      `json:"mode"`
	Name              string      `json:"name"`
	PaymentPluginName string      `json:"paymentPluginName"`
	Processor         string      `json:"processor"`
	ShopID            string      `json:"shopId"`
	Status            string      `json:"status"`
	TransactionID     string      `json:"transactionId"`
}

type BillingData struct {
	DiscountID string `json:"discountId"`
	Code       string `json:"code"`
}

// IsDiscountCode reports whether the entry was produced by a discount-code
// application.
func (b *BillingEntry) IsDiscountCode() bool {
	return b.PaymentPluginName == PaymentPluginDiscountCodes
}
