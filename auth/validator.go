package auth

import (
	"context"

	"go.uber.org/zap"

	"goflare.io/discounts"
)

// Validator authorizes cart access: the requester must be the resource
// owner. Anything else fails with ErrPermissionDenied.
type Validator struct {
	logger *zap.Logger
}

func NewValidator(logger *zap.Logger) *Validator {
	return &Validator{logger: logger}
}

func (v *Validator) ValidatePermissions(ctx context.Context, requesterID, resource, action string, opts discounts.PermissionOptions) error {
	if requesterID != "" && requesterID == opts.Owner {
		return nil
	}

	v.logger.Info("permission denied",
		zap.String("requester_id", requesterID),
		zap.String("resource", resource),
		zap.String("action", action),
		zap.String("shop_id", opts.ShopID))

	return discounts.ErrPermissionDenied
}
