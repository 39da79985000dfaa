package vending

import (
	"errors"
	"testing"

	"pgregory.net/rapid"

	"go-vending-machine/internal/domain"
)

func TestComputeKnownAmounts(t *testing.T) {
	cases := []struct {
		name   string
		amount int
		want   Breakdown
	}{
		{"zero", 0, Breakdown{100: 0, 50: 0, 20: 0, 10: 0, 5: 0}},
		{"single smallest coin", 5, Breakdown{100: 0, 50: 0, 20: 0, 10: 0, 5: 1}},
		{"thirty five", 35, Breakdown{100: 0, 50: 0, 20: 1, 10: 1, 5: 1}},
		{"ninety", 90, Breakdown{100: 0, 50: 1, 20: 2, 10: 0, 5: 0}},
		{"two eighty five", 285, Breakdown{100: 2, 50: 1, 20: 1, 10: 1, 5: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Compute(tc.amount)
			if err != nil {
				t.Fatalf("Compute(%d): %v", tc.amount, err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("Compute(%d) = %v, want %v", tc.amount, got, tc.want)
			}
			for d, n := range tc.want {
				if got[d] != n {
					t.Errorf("Compute(%d)[%d] = %d, want %d", tc.amount, d, got[d], n)
				}
			}
		})
	}
}

func TestComputeRejectsUnbreakableAmounts(t *testing.T) {
	for _, amount := range []int{-5, -1, 1, 3, 7, 101, 1234} {
		if _, err := Compute(amount); !errors.Is(err, domain.ErrAmountNotBreakable) {
			t.Errorf("Compute(%d) err = %v, want ErrAmountNotBreakable", amount, err)
		}
	}
}

// Property: for every non-negative multiple of 5, the breakdown sums back to
// the amount, covers every denomination, and is greedy (no count at a smaller
// denomination could be folded into a larger one).
func TestComputeProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		amount := 5 * rapid.IntRange(0, 100000).Draw(t, "fives")

		got, err := Compute(amount)
		if err != nil {
			t.Fatalf("Compute(%d): %v", amount, err)
		}
		if got.Total() != amount {
			t.Fatalf("Compute(%d) sums to %d", amount, got.Total())
		}
		if len(got) != len(Denominations) {
			t.Fatalf("Compute(%d) has %d entries, want %d", amount, len(got), len(Denominations))
		}
		// Greedy largest-first means the value held below any denomination
		// is always smaller than that denomination.
		for i, d := range Denominations {
			below := 0
			for _, s := range Denominations[i+1:] {
				below += s * got[s]
			}
			if below >= d {
				t.Fatalf("Compute(%d): %d held below denomination %d", amount, below, d)
			}
		}
	})
}

func TestValidCoin(t *testing.T) {
	for _, d := range Denominations {
		if !ValidCoin(d) {
			t.Errorf("ValidCoin(%d) = false", d)
		}
	}
	for _, v := range []int{0, 1, 15, 150, -5, 25} {
		if ValidCoin(v) {
			t.Errorf("ValidCoin(%d) = true", v)
		}
	}
}
