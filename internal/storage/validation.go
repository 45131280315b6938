package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/helixbill/denialflow/internal/common"
)

// validateContext ensures the context is valid and not canceled.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return fmt.Errorf("%w: context cannot be nil", common.ErrValidation)
	}
	select {
	case <-ctx.Done():
		return fmt.Errorf("context canceled: %w", ctx.Err())
	default:
		return nil
	}
}

// validateString ensures a required string field is non-empty.
func validateString(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s cannot be empty", common.ErrValidation, fieldName)
	}
	return nil
}
