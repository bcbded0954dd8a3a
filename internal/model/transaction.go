package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendlens/spendlens/internal/category"
)

// Transaction represents one parsed statement line.
type Transaction struct {
	Date             time.Time
	Kind             string          // statement transaction type (DEB, FPI, etc.)
	Description      string          // merchant / payee as printed on the statement
	Amount           decimal.Decimal // as exported; direction comes from the category
	Category         string          // raw backend label, may not be a known category
	ShortDescription string
}

// NewTransaction returns an unclassified transaction.
func NewTransaction(date time.Time, kind, description string, amount decimal.Decimal) Transaction {
	return Transaction{
		Date:        date,
		Kind:        kind,
		Description: description,
		Amount:      amount,
		Category:    category.Other.Name(),
	}
}

// ResolvedCategory maps the stored label onto the category set, falling back
// to OTHER for unknown labels.
func (t Transaction) ResolvedCategory() category.Category {
	return category.Resolve(t.Category)
}

// Classified reports whether a classification has been applied.
func (t Transaction) Classified() bool {
	return t.ShortDescription != ""
}
