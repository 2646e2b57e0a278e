package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"

	Incoming CheckType = "incoming"
	Outgoing CheckType = "outgoing"

	Pending CheckStatus = "pending"
	Cashed  CheckStatus = "cashed"
	Bounced CheckStatus = "bounced"

	Paid    InvoiceStatus = "paid"
	Unpaid  InvoiceStatus = "unpaid"
	Overdue InvoiceStatus = "overdue"
)

type (
	TransactionType string
	CheckType       string
	CheckStatus     string
	InvoiceStatus   string

	// Date is a calendar day. The time-of-day component is always UTC midnight.
	Date struct {
		time.Time
	}

	Transaction struct {
		ID          int64
		Type        TransactionType
		Category    string
		Description string
		Amount      Money
		Date        Date
	}

	Check struct {
		ID          int64
		Type        CheckType
		Payee       string
		Amount      Money
		DueDate     Date
		Status      CheckStatus
		Description string
	}

	// Product is a single inventory item.
	Product struct {
		ID        int64
		Name      string
		Barcode   string
		Stock     int64
		UnitPrice Money
	}

	// Invoice is a persisted invoice as shown in the read-only list view.
	// It is distinct from Draft, which exists only while composing.
	Invoice struct {
		ID            int64
		InvoiceNumber string
		CustomerName  string
		Amount        Money
		DueDate       Date
		Status        InvoiceStatus
	}
)

// ErrValidation is the root of all input validation errors. The specific
// sentinels below wrap it so callers can match either the precise cause or
// the whole class with errors.Is.
var (
	ErrValidation = errors.New("invalid input")

	ErrInvalidAmount    = fmt.Errorf("%w: invalid amount", ErrValidation)
	ErrInvalidQuantity  = fmt.Errorf("%w: invalid quantity", ErrValidation)
	ErrInvalidDate      = fmt.Errorf("%w: invalid date", ErrValidation)
	ErrInvalidType      = fmt.Errorf("%w: invalid type", ErrValidation)
	ErrInvalidStatus    = fmt.Errorf("%w: invalid status", ErrValidation)
	ErrEmptyDescription = fmt.Errorf("%w: empty description", ErrValidation)
	ErrEmptyCategory    = fmt.Errorf("%w: empty category", ErrValidation)
	ErrEmptyPayee       = fmt.Errorf("%w: empty payee", ErrValidation)
	ErrEmptyName        = fmt.Errorf("%w: empty name", ErrValidation)

	ErrNotFound         = errors.New("record not found")
	ErrIndexOutOfRange  = errors.New("line item index out of range")
	ErrStatusTransition = errors.New("status transition not allowed")
)

// NewDate builds a Date from year, month and day in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an arbitrary instant to its UTC calendar day.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return NewDate(y, m, d)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (tt TransactionType) Valid() bool {
	return tt == Income || tt == Expense
}

func (ct CheckType) Valid() bool {
	return ct == Incoming || ct == Outgoing
}

func (cs CheckStatus) Valid() bool {
	return cs == Pending || cs == Cashed || cs == Bounced
}

func (is InvoiceStatus) Valid() bool {
	return is == Paid || is == Unpaid || is == Overdue
}

func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	return t.Date.Validate()
}

func (c Check) Validate() error {
	if !c.Type.Valid() {
		return ErrInvalidType
	}
	if !c.Status.Valid() {
		return ErrInvalidStatus
	}
	if strings.TrimSpace(c.Payee) == "" {
		return ErrEmptyPayee
	}
	if err := c.Amount.Validate(); err != nil {
		return err
	}
	return c.DueDate.Validate()
}

// Transition moves a check to a new status. Only pending checks may move,
// and only to cashed or bounced.
func (c *Check) Transition(next CheckStatus) error {
	if !next.Valid() {
		return ErrInvalidStatus
	}
	if c.Status != Pending || next == Pending {
		return fmt.Errorf("%w: %s -> %s", ErrStatusTransition, c.Status, next)
	}
	c.Status = next
	return nil
}

func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if p.Stock < 0 {
		return ErrInvalidQuantity
	}
	return p.UnitPrice.Validate()
}

func (i Invoice) Validate() error {
	if !i.Status.Valid() {
		return ErrInvalidStatus
	}
	if strings.TrimSpace(i.CustomerName) == "" {
		return ErrEmptyName
	}
	if err := i.Amount.Validate(); err != nil {
		return err
	}
	return i.DueDate.Validate()
}
