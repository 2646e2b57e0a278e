package core

import "fmt"

// DefaultTaxRateBP is the fixed tax rate in basis points (9%). The
// effective rate is configuration, not a constant baked into callers.
const DefaultTaxRateBP = 900

// LineItem is one row of an invoice draft.
type LineItem struct {
	Description string
	Quantity    int64
	UnitPrice   Money
}

// Total is quantity times unit price for this line. It fails when the
// product overflows int64 cents.
func (li LineItem) Total() (Money, error) {
	cents, err := mulCents(li.Quantity, li.UnitPrice.Cents)
	if err != nil {
		return Money{}, err
	}
	return Money{Cents: cents}, nil
}

func (li LineItem) Validate() error {
	if li.Quantity < 0 {
		return ErrInvalidQuantity
	}
	if err := li.UnitPrice.Validate(); err != nil {
		return err
	}
	_, err := li.Total()
	return err
}

// Draft is an invoice under composition. It is ephemeral: it exists only
// while the invoice is being put together and is discarded after printing.
type Draft struct {
	BillTo  string
	LogoRef string
	Items   []LineItem
}

// AddItem appends a zero-valued line.
func (d *Draft) AddItem() {
	d.Items = append(d.Items, LineItem{})
}

// RemoveItem removes the line at index i. The draft is left unchanged when
// the index is out of range.
func (d *Draft) RemoveItem(i int) error {
	if i < 0 || i >= len(d.Items) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(d.Items))
	}
	d.Items = append(d.Items[:i], d.Items[i+1:]...)
	return nil
}

// SetDescription replaces the description of line i.
func (d *Draft) SetDescription(i int, s string) error {
	if i < 0 || i >= len(d.Items) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(d.Items))
	}
	d.Items[i].Description = s
	return nil
}

// SetQuantity replaces the quantity of line i, rejecting negatives.
func (d *Draft) SetQuantity(i int, q int64) error {
	if i < 0 || i >= len(d.Items) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(d.Items))
	}
	if q < 0 {
		return ErrInvalidQuantity
	}
	d.Items[i].Quantity = q
	return nil
}

// SetUnitPrice replaces the unit price of line i, rejecting negatives.
func (d *Draft) SetUnitPrice(i int, cents int64) error {
	if i < 0 || i >= len(d.Items) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(d.Items))
	}
	if cents < 0 {
		return ErrInvalidAmount
	}
	d.Items[i].UnitPrice = Money{Cents: cents}
	return nil
}

// Totals is the computed money block of an invoice.
type Totals struct {
	Subtotal   Money
	Tax        Money
	GrandTotal Money
}

// Calculator computes invoice totals at a fixed tax rate. Totals are
// recomputed from scratch on every call; with tens of lines at most there
// is nothing worth caching.
type Calculator struct {
	TaxRateBP int64
}

// NewCalculator returns a calculator at the given rate in basis points.
// A non-positive rate falls back to the default 9%.
func NewCalculator(taxRateBP int64) Calculator {
	if taxRateBP <= 0 {
		taxRateBP = DefaultTaxRateBP
	}
	return Calculator{TaxRateBP: taxRateBP}
}

// Totals computes subtotal, tax and grand total over the line items.
// Tax is rounded half-up to the nearest cent. Amounts that overflow int64
// cents fail with a validation error rather than wrapping.
func (c Calculator) Totals(items []LineItem) (Totals, error) {
	var sub int64
	for _, li := range items {
		if err := li.Validate(); err != nil {
			return Totals{}, err
		}
		line, err := li.Total()
		if err != nil {
			return Totals{}, err
		}
		if sub, err = addCents(sub, line.Cents); err != nil {
			return Totals{}, err
		}
	}

	scaled, err := mulCents(sub, c.TaxRateBP)
	if err != nil {
		return Totals{}, err
	}
	rounded, err := addCents(scaled, 5000)
	if err != nil {
		return Totals{}, err
	}
	tax := rounded / 10000

	grand, err := addCents(sub, tax)
	if err != nil {
		return Totals{}, err
	}
	return Totals{
		Subtotal:   Money{Cents: sub},
		Tax:        Money{Cents: tax},
		GrandTotal: Money{Cents: grand},
	}, nil
}
