package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Expense TransactionKind = "expense"
	Deposit TransactionKind = "deposit"
)

type (
	// TransactionKind separates the two transaction collections. They share a
	// shape but are never merged at the store level.
	TransactionKind string

	Money struct {
		Cents int64
	}

	Category struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}

	// Transaction is a single recorded expense or deposit. Date is the
	// business date chosen by the user; CreatedAt is when the record was
	// stored. Reports always group on Date.
	Transaction struct {
		ID          int64     `json:"id"`
		OwnerID     string    `json:"-"`
		Description string    `json:"description"`
		Amount      Money     `json:"amount"`
		CategoryID  int64     `json:"category,omitempty"`
		Date        time.Time `json:"date"`
		CreatedAt   time.Time `json:"createdAt"`
	}

	// CategoryTotal is one row of the per-category expense breakdown.
	CategoryTotal struct {
		CategoryID int64  `json:"-"`
		Category   string `json:"category"`
		Total      Money  `json:"total"`
	}

	// MonthTotal is one point of the monthly expense series.
	MonthTotal struct {
		Year  int
		Month int // 1-12
		Total Money
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyOwner       = errors.New("empty owner")
)

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.OwnerID) == "" {
		return ErrEmptyOwner
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if t.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if t.Date.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

// EpochDay returns the number of whole days since the Unix epoch for the
// given instant's UTC calendar day. Reports use it as the ledger grouping
// key so chronological order never depends on string formatting.
func EpochDay(t time.Time) int64 {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC).Unix() / 86400
}
