package discounts

import (
	"errors"
	"fmt"
)

var (
	ErrCartNotFound     = errors.New("cart not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrDiscountNotFound = errors.New("discount not found")
	ErrPermissionDenied = errors.New("permission denied")
)

// IneligibilityReason identifies why a discount could not be applied.
// Exactly one reason is reported per application attempt.
type IneligibilityReason string

const (
	ReasonNotAdherentStore      IneligibilityReason = "not_adherent_store"
	ReasonInvalidCounty         IneligibilityReason = "invalid_county"
	ReasonAmountOutOfBounds     IneligibilityReason = "amount_out_of_bounds"
	ReasonDiscountLimitExceeded IneligibilityReason = "discount_limit_exceeded"
	ReasonUserLimitExceeded     IneligibilityReason = "user_limit_exceeded"
	ReasonDiscountDisabled      IneligibilityReason = "discount_disabled"
	ReasonDiscountOutdated      IneligibilityReason = "discount_outdated"
)

// IneligibleError is the typed failure returned when a discount's conditions
// reject the application. Min and Max are set only for
// ReasonAmountOutOfBounds.
type IneligibleError struct {
	Reason IneligibilityReason
	Min    *float64
	Max    *float64
}

func (e *IneligibleError) Error() string {
	switch e.Reason {
	case ReasonNotAdherentStore:
		return "discount is not available for this store"
	case ReasonInvalidCounty:
		return "discount is not available in the shop's county"
	case ReasonAmountOutOfBounds:
		min := 0.0
		if e.Min != nil {
			min = *e.Min
		}
		if e.Max != nil {
			return fmt.Sprintf("cart total must be between %.2f and %.2f", min, *e.Max)
		}
		return fmt.Sprintf("cart total must be at least %.2f", min)
	case ReasonDiscountLimitExceeded:
		return "discount redemption limit has been reached"
	case ReasonUserLimitExceeded:
		return "discount usage limit for this account has been reached"
	case ReasonDiscountDisabled:
		return "discount is disabled"
	case ReasonDiscountOutdated:
		return "discount has expired"
	}
	return "discount is not eligible"
}
