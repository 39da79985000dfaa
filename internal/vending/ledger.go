package vending

import (
	"context"

	"go-vending-machine/internal/domain"
)

// AddCoin returns the balance after depositing a single coin/note. Only the
// five machine denominations are accepted; anything else is rejected with
// domain.ErrInvalidCoin. There is no upper bound on the balance.
func AddCoin(balance, amount int) (int, error) {
	if !ValidCoin(amount) {
		return balance, domain.ErrInvalidCoin
	}
	return balance + amount, nil
}

// Ledger applies deposit and reset against persisted buyer balances.
type Ledger struct {
	Users domain.UserRepository
}

func NewLedger(users domain.UserRepository) *Ledger { return &Ledger{Users: users} }

// Deposit adds one coin to the buyer's balance and returns the new balance.
// The row lock keeps two concurrent deposits from both reading the same
// stale balance.
func (l *Ledger) Deposit(ctx context.Context, buyerID string, amount int) (int, error) {
	u, err := l.Users.FindByIDForUpdate(ctx, buyerID)
	if err != nil {
		return 0, err
	}
	if u == nil {
		return 0, domain.ErrUserNotFound
	}
	next, err := AddCoin(u.Deposit, amount)
	if err != nil {
		return 0, err
	}
	if err := l.Users.UpdateDeposit(ctx, u.ID, next); err != nil {
		return 0, err
	}
	return next, nil
}

// Reset sets the buyer's balance back to zero. Repeated calls are harmless.
func (l *Ledger) Reset(ctx context.Context, buyerID string) (int, error) {
	u, err := l.Users.FindByID(ctx, buyerID)
	if err != nil {
		return 0, err
	}
	if u == nil {
		return 0, domain.ErrUserNotFound
	}
	if err := l.Users.UpdateDeposit(ctx, u.ID, 0); err != nil {
		return 0, err
	}
	return 0, nil
}
