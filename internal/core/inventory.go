package core

// ItemValue is the stock value of a single product: quantity times unit
// price, in cents. It fails when the product overflows int64 cents.
func ItemValue(p Product) (Money, error) {
	cents, err := mulCents(p.Stock, p.UnitPrice.Cents)
	if err != nil {
		return Money{}, err
	}
	return Money{Cents: cents}, nil
}

// TotalValue sums the stock value over all products. Malformed items
// (negative stock or price) and amounts that overflow int64 cents fail
// with a validation error.
func TotalValue(items []Product) (Money, error) {
	var total Money
	for _, p := range items {
		if p.Stock < 0 {
			return Money{}, ErrInvalidQuantity
		}
		if p.UnitPrice.Cents < 0 {
			return Money{}, ErrInvalidAmount
		}
		v, err := ItemValue(p)
		if err != nil {
			return Money{}, err
		}
		if total.Cents, err = addCents(total.Cents, v.Cents); err != nil {
			return Money{}, err
		}
	}
	return total, nil
}

// ApplyStockDelta applies a signed stock adjustment with a floor at zero.
// Stock never goes negative regardless of how large a removal is.
func ApplyStockDelta(stock, delta int64) int64 {
	next := stock + delta
	if next < 0 {
		return 0
	}
	return next
}
