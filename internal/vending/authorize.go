package vending

import "go-vending-machine/internal/domain"

// Caller is the authenticated identity handed in by the transport layer.
type Caller struct {
	UserID string
	Role   string
}

// Authorize checks the caller against the role an operation requires. An
// empty requiredRole means any authenticated caller passes.
func Authorize(caller Caller, requiredRole string) error {
	if caller.UserID == "" {
		return domain.ErrForbidden
	}
	if requiredRole != "" && caller.Role != requiredRole {
		return domain.ErrForbidden
	}
	return nil
}
