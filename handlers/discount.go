package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"goflare.io/discounts"
)

// requesterHeader carries the identity the upstream gateway decoded for this
// request.
const requesterHeader = "X-User-ID"

type DiscountHandler interface {
	ApplyDiscountCode(c echo.Context) error
	ListAppliedDiscounts(c echo.Context) error
}

type discountHandler struct {
	Discounts discounts.Service
}

func NewDiscountHandler(
	Discounts discounts.Service,
) DiscountHandler {
	return &discountHandler{
		Discounts: Discounts,
	}
}

type applyDiscountCodeRequest struct {
	ShopID       string `json:"shopId"`
	DiscountCode string `json:"discountCode"`
	Token        string `json:"token,omitempty"`
}

// ApplyDiscountCode handles POST /carts/:cartID/discounts
func (dh *discountHandler) ApplyDiscountCode(c echo.Context) error {
	var req applyDiscountCodeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}
	if req.ShopID == "" || req.DiscountCode == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "shopId and discountCode are required"})
	}

	cart, err := dh.Discounts.ApplyDiscountCode(c.Request().Context(), discounts.ApplyDiscountCodeInput{
		CartID:       c.Param("cartID"),
		ShopID:       req.ShopID,
		DiscountCode: req.DiscountCode,
		UserID:       c.Request().Header.Get(requesterHeader),
		CartToken:    req.Token,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, cart)
}

// ListAppliedDiscounts handles GET /carts/:cartID/discounts
func (dh *discountHandler) ListAppliedDiscounts(c echo.Context) error {
	shopID := c.QueryParam("shopId")
	if shopID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "shopId is required"})
	}

	applied, err := dh.Discounts.ListAppliedDiscounts(
		c.Request().Context(),
		c.Param("cartID"),
		shopID,
		c.Request().Header.Get(requesterHeader),
	)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, applied)
}

type ineligibleResponse struct {
	Error   string                        `json:"error"`
	Reason  discounts.IneligibilityReason `json:"reason"`
	Details *ineligibleDetails            `json:"details,omitempty"`
}

type ineligibleDetails struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

func writeError(c echo.Context, err error) error {
	var ineligible *discounts.IneligibleError
	if errors.As(err, &ineligible) {
		resp := ineligibleResponse{
			Error:  ineligible.Error(),
			Reason: ineligible.Reason,
		}
		if ineligible.Min != nil || ineligible.Max != nil {
			resp.Details = &ineligibleDetails{Min: ineligible.Min, Max: ineligible.Max}
		}
		return c.JSON(http.StatusUnprocessableEntity, resp)
	}

	switch {
	case errors.Is(err, discounts.ErrCartNotFound),
		errors.Is(err, discounts.ErrUserNotFound),
		errors.Is(err, discounts.ErrDiscountNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, discounts.ErrPermissionDenied):
		return c.JSON(http.StatusForbidden, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
}
