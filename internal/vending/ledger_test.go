package vending

import (
	"context"
	"errors"
	"testing"

	"go-vending-machine/internal/domain"
)

func TestAddCoin(t *testing.T) {
	got, err := AddCoin(50, 50)
	if err != nil || got != 100 {
		t.Fatalf("AddCoin(50, 50) = %d, %v, want 100, nil", got, err)
	}
	got, err = AddCoin(0, 5)
	if err != nil || got != 5 {
		t.Fatalf("AddCoin(0, 5) = %d, %v, want 5, nil", got, err)
	}
	for _, bad := range []int{150, 0, 1, 7, -5, 25} {
		if _, err := AddCoin(10, bad); !errors.Is(err, domain.ErrInvalidCoin) {
			t.Errorf("AddCoin(10, %d) err = %v, want ErrInvalidCoin", bad, err)
		}
	}
}

func TestLedgerDeposit(t *testing.T) {
	users := newFakeUsers(&domain.User{ID: "b1", Role: domain.RoleBuyer, Deposit: 50})
	l := NewLedger(users)

	got, err := l.Deposit(context.Background(), "b1", 50)
	if err != nil || got != 100 {
		t.Fatalf("Deposit = %d, %v, want 100, nil", got, err)
	}
	if users.byID["b1"].Deposit != 100 {
		t.Fatalf("persisted deposit = %d, want 100", users.byID["b1"].Deposit)
	}

	// deposits accumulate, they do not replace
	if got, _ = l.Deposit(context.Background(), "b1", 20); got != 120 {
		t.Fatalf("second deposit = %d, want 120", got)
	}

	if _, err := l.Deposit(context.Background(), "b1", 150); !errors.Is(err, domain.ErrInvalidCoin) {
		t.Fatalf("Deposit(150) err = %v, want ErrInvalidCoin", err)
	}
	if users.byID["b1"].Deposit != 120 {
		t.Fatalf("rejected deposit mutated balance: %d", users.byID["b1"].Deposit)
	}

	if _, err := l.Deposit(context.Background(), "nobody", 5); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("Deposit unknown user err = %v, want ErrUserNotFound", err)
	}
}

func TestLedgerResetIsIdempotent(t *testing.T) {
	users := newFakeUsers(&domain.User{ID: "b1", Role: domain.RoleBuyer, Deposit: 245})
	l := NewLedger(users)

	for i := 0; i < 3; i++ {
		got, err := l.Reset(context.Background(), "b1")
		if err != nil || got != 0 {
			t.Fatalf("Reset #%d = %d, %v, want 0, nil", i+1, got, err)
		}
	}
	if users.byID["b1"].Deposit != 0 {
		t.Fatalf("persisted deposit = %d, want 0", users.byID["b1"].Deposit)
	}
}
