// Package vending holds the transactional core of the marketplace: the
// denomination engine, the deposit ledger and the purchase flow. Everything
// here operates on domain entities handed in by the transport layer and
// persists through the domain repository interfaces.
package vending

import "go-vending-machine/internal/domain"

// Denominations are the accepted coin/note values, largest first. Deposits
// and product costs are constrained so that any valid balance is expressible
// in these.
var Denominations = [...]int{100, 50, 20, 10, 5}

// ValidCoin reports whether amount is a single accepted coin/note.
func ValidCoin(amount int) bool {
	for _, d := range Denominations {
		if amount == d {
			return true
		}
	}
	return false
}

// Breakdown maps a denomination to the number of coins of that value.
// Every denomination is present, zero counts included.
type Breakdown map[int]int

// Total returns sum(denomination * count).
func (b Breakdown) Total() int {
	t := 0
	for d, n := range b {
		t += d * n
	}
	return t
}

// Compute decomposes amount greedily, largest denomination first. The greedy
// rule is exact for this denomination set, so the counts always sum back to
// amount. Amounts that are negative or not a multiple of 5 cannot be broken
// and report domain.ErrAmountNotBreakable.
func Compute(amount int) (Breakdown, error) {
	if amount < 0 || amount%5 != 0 {
		return nil, domain.ErrAmountNotBreakable
	}
	out := make(Breakdown, len(Denominations))
	rest := amount
	for _, d := range Denominations {
		out[d] = rest / d
		rest %= d
	}
	return out, nil
}
