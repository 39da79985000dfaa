package vending

import (
	"context"

	"go-vending-machine/internal/domain"
)

// Change is the machine's payout view of a buyer balance.
type Change struct {
	Balance   int       `json:"balance"`
	Breakdown Breakdown `json:"breakdown"`
}

// Receipt is the result of a successful purchase. Products is a slice even
// though a single call buys exactly one product type; the shape leaves room
// for multi-item purchases.
type Receipt struct {
	TotalSpent int              `json:"total_spent"`
	Products   []domain.Product `json:"products"`
	Change     Change           `json:"change"`
}

// Purchaser runs the buy flow. The repositories it is built with decide the
// isolation: the HTTP layer constructs one per request, bound to a database
// transaction, so the row locks taken by FindByIDForUpdate hold until the
// whole debit+decrement pair commits or rolls back.
type Purchaser struct {
	Users    domain.UserRepository
	Products domain.ProductRepository
}

func NewPurchaser(users domain.UserRepository, products domain.ProductRepository) *Purchaser {
	return &Purchaser{Users: users, Products: products}
}

// Purchase checks stock and funds, debits the buyer, decrements the product
// and returns the remaining balance broken into denominations. Checks run in
// a fixed order and the first failure wins; nothing is mutated on failure.
//
// The change returned is the breakdown of the buyer's entire remaining
// balance after the debit, not the change from this one purchase. That is
// the machine's observed behaviour: deposit 50, buy for 15, get 35 back.
func (p *Purchaser) Purchase(ctx context.Context, buyerID, productID string, quantity int) (*Receipt, error) {
	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}

	prod, err := p.Products.FindByIDForUpdate(ctx, productID)
	if err != nil {
		return nil, err
	}
	if prod == nil {
		return nil, domain.ErrProductNotFound
	}
	if quantity > prod.AmountAvailable {
		return nil, domain.ErrOutOfStock
	}

	buyer, err := p.Users.FindByIDForUpdate(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if buyer == nil {
		return nil, domain.ErrUserNotFound
	}
	totalCost := prod.Cost * quantity
	if buyer.Deposit < totalCost {
		return nil, domain.ErrInsufficientDeposit
	}

	remaining := buyer.Deposit - totalCost
	if err := p.Users.UpdateDeposit(ctx, buyer.ID, remaining); err != nil {
		return nil, err
	}
	prod.AmountAvailable -= quantity
	if err := p.Products.UpdateStock(ctx, prod.ID, prod.AmountAvailable); err != nil {
		return nil, err
	}

	breakdown, err := Compute(remaining)
	if err != nil {
		// deposits and costs are both multiples of 5, so the remainder is too
		return nil, err
	}
	return &Receipt{
		TotalSpent: totalCost,
		Products:   []domain.Product{*prod},
		Change:     Change{Balance: remaining, Breakdown: breakdown},
	}, nil
}
