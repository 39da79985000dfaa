package vending

import (
	"errors"
	"testing"

	"go-vending-machine/internal/domain"
)

func TestAuthorize(t *testing.T) {
	buyer := Caller{UserID: "u1", Role: domain.RoleBuyer}
	seller := Caller{UserID: "u2", Role: domain.RoleSeller}

	if err := Authorize(buyer, domain.RoleBuyer); err != nil {
		t.Errorf("buyer as buyer: %v", err)
	}
	if err := Authorize(seller, domain.RoleSeller); err != nil {
		t.Errorf("seller as seller: %v", err)
	}
	if err := Authorize(buyer, ""); err != nil {
		t.Errorf("any authenticated role: %v", err)
	}
	if err := Authorize(seller, domain.RoleBuyer); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("seller as buyer err = %v, want ErrForbidden", err)
	}
	if err := Authorize(Caller{}, domain.RoleBuyer); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("anonymous err = %v, want ErrForbidden", err)
	}
}
