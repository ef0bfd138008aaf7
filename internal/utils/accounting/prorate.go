package accounting

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"
)

// ErrNoWeight is returned when an amount cannot be spread because all weights are zero.
var ErrNoWeight = errors.New("cannot prorate over zero total weight")

// Prorate splits amount across weights in proportion, at money precision, using the
// largest remainder method so the shares always sum to the rounded amount exactly.
// Ties go to the earlier index.
func Prorate(amount decimal.Decimal, weights []decimal.Decimal) ([]decimal.Decimal, error) {
	shares := make([]decimal.Decimal, len(weights))
	for i := range shares {
		shares[i] = decimal.Zero
	}
	amount = RoundMoney(amount)
	if amount.IsZero() || len(weights) == 0 {
		return shares, nil
	}

	totalWeight := decimal.Zero
	for _, w := range weights {
		if w.IsPositive() {
			totalWeight = totalWeight.Add(w)
		}
	}
	if !totalWeight.IsPositive() {
		return nil, ErrNoWeight
	}

	unit := decimal.New(1, -MoneyPlaces)
	cents := amount.Shift(MoneyPlaces).IntPart()

	type remainder struct {
		idx  int
		frac decimal.Decimal
	}
	rems := make([]remainder, 0, len(weights))
	var allocated int64
	for i, w := range weights {
		if !w.IsPositive() {
			continue
		}
		exact := decimal.NewFromInt(cents).Mul(w).Div(totalWeight)
		floor := exact.Floor()
		shares[i] = floor.Mul(unit)
		allocated += floor.IntPart()
		rems = append(rems, remainder{idx: i, frac: exact.Sub(floor)})
	}

	sort.SliceStable(rems, func(a, b int) bool {
		return rems[a].frac.GreaterThan(rems[b].frac)
	})
	for k := int64(0); k < cents-allocated; k++ {
		r := rems[k%int64(len(rems))]
		shares[r.idx] = shares[r.idx].Add(unit)
	}
	return shares, nil
}
