package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Credit TransactionType = "credit"
	Debit  TransactionType = "debit"
)

type (
	TransactionType string

	Date struct {
		time.Time
	}

	// Transaction is a single dated credit or debit entry. ID is zero until
	// the store assigns one; it never changes afterwards.
	Transaction struct {
		ID          int64
		Date        Date
		Description string
		Amount      decimal.Decimal
		Type        TransactionType
		CreatedAt   time.Time
	}
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrEmptyDescription = errors.New("empty description")

	// ErrNotFound is reported when a delete or lookup target does not exist.
	ErrNotFound = errors.New("transaction not found")
)

// ValidationError reports a field-level problem with a submitted transaction.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Err.Error() }

func (e *ValidationError) Unwrap() error { return e.Err }

// DateFormat is the wire and storage representation of a calendar day.
const DateFormat = "2006-01-02"

// NewDate creates a Date from year, month, day at day granularity.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a Date in the YYYY-MM-DD wire format.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateFormat, strings.TrimSpace(s))
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

// Month returns the month as an int (1-12).
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year.
func (d Date) Year() int {
	return d.Time.Year()
}

func (d Date) String() string {
	return d.Time.Format(DateFormat)
}

func (t TransactionType) IsValid() bool {
	switch t {
	case Credit, Debit:
		return true
	default:
		return false
	}
}

func (t TransactionType) String() string { return string(t) }

// Validate checks a transaction before it is sent to the store. The returned
// error is always a *ValidationError naming the offending field.
func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return &ValidationError{Field: "date", Err: err}
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return &ValidationError{Field: "description", Err: ErrEmptyDescription}
	}
	if len(t.Description) > 200 {
		return &ValidationError{Field: "description", Err: errors.New("description too long (max 200 characters)")}
	}
	// Amount is a magnitude; sign semantics come only from Type.
	if !t.Amount.IsPositive() {
		return &ValidationError{Field: "amount", Err: ErrInvalidAmount}
	}
	if !t.Type.IsValid() {
		return &ValidationError{Field: "type", Err: ErrInvalidType}
	}
	return nil
}
