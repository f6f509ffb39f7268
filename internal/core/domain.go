package core

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the ISO calendar date format used by every ledger source.
const DateLayout = "2006-01-02"

// UncategorizedLabel names the bucket for expenses without a category.
const UncategorizedLabel = "Uncategorized"

type (
	// Date is a calendar date with no time component (UTC midnight).
	Date struct {
		time.Time
	}

	// Money is an amount in minor currency units (cents).
	Money struct {
		Cents int64
	}

	// Transaction is one normalized ledger entry as supplied by a source.
	Transaction struct {
		ID         string
		Date       Date
		Amount     Money // positive = inflow, negative = outflow
		Payee      string
		Category   string // empty when absent
		Account    string
		Notes      string
		IsTransfer bool
	}

	// CategoryAmount represents an amount aggregated by category name.
	CategoryAmount struct {
		Name   string
		Amount Money
	}
)

var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrMissingID     = errors.New("missing transaction id")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses an ISO YYYY-MM-DD date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// String formats the date as YYYY-MM-DD, or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// AddDays returns the date n days later (n may be negative).
func (d Date) AddDays(n int) Date {
	return Date{Time: d.AddDate(0, 0, n)}
}

// DaysUntil returns the number of whole days from d to other.
func (d Date) DaysUntil(other Date) int {
	return int(other.Sub(d.Time).Hours() / 24)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

// IsIncome reports whether the amount is an inflow.
func (m Money) IsIncome() bool { return m.Cents > 0 }

// IsExpense reports whether the amount is an outflow.
func (m Money) IsExpense() bool { return m.Cents < 0 }

// Abs returns the absolute amount.
func (m Money) Abs() Money {
	if m.Cents < 0 {
		return Money{Cents: -m.Cents}
	}
	return m
}

// HasCategory reports whether the transaction carries a real category.
// Whitespace-only names are kept as given.
func (t Transaction) HasCategory() bool {
	return t.Category != "" && t.Category != UncategorizedLabel
}

// CategoryOrDefault returns the category, or the uncategorized label when empty.
func (t Transaction) CategoryOrDefault() string {
	if t.Category == "" {
		return UncategorizedLabel
	}
	return t.Category
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrMissingID
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	return nil
}
