package domain

import "errors"

// Stable business errors surfaced to API clients. The message text is part
// of the public contract and must not change.
var (
	ErrProductNotFound     = errors.New("Product not found!")
	ErrOutOfStock          = errors.New("Product is out of stock!")
	ErrInsufficientDeposit = errors.New("Insufficient deposit!")
	ErrInvalidCoin         = errors.New("Amount can either be 5, 10, 20,50 or 100")
	ErrCostNotMultipleOf5  = errors.New("Product cost is not multiple of 5")
	ErrInvalidQuantity     = errors.New("product_quantity must not be less than 1")
	ErrUserNotFound        = errors.New("User not found")
	ErrForbidden           = errors.New("Forbidden resource")

	// ErrAmountNotBreakable is an internal invariant violation: an amount
	// reached the denomination engine that is not a multiple of 5. Upstream
	// validation makes this unreachable for well-formed requests.
	ErrAmountNotBreakable = errors.New("amount not expressible in coin denominations")
)
