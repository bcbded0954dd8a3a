// Package stats reduces a classified transaction collection to totals and
// builds the trend report. Every function here is a pure read of its input.
package stats

import (
	"github.com/shopspring/decimal"

	"github.com/spendlens/spendlens/internal/category"
	"github.com/spendlens/spendlens/internal/model"
)

// Totals splits all money into three buckets by category.
//
// The split is deliberately coarse: only PAY counts as paid in and only
// TRANSFERS_FROM_FRIENDS as a reimbursement. Every other category, including
// OTHER, unknown labels and inflows such as SAVINGS transfers, counts as paid
// out. Amount signs are not consulted.
type Totals struct {
	PaidOut        decimal.Decimal
	PaidIn         decimal.Decimal
	Reimbursements decimal.Decimal
}

// Sum returns PaidOut + PaidIn + Reimbursements.
func (t Totals) Sum() decimal.Decimal {
	return t.PaidOut.Add(t.PaidIn).Add(t.Reimbursements)
}

// ComputeTotals assigns each transaction to exactly one bucket.
func ComputeTotals(txns []model.Transaction) Totals {
	var t Totals
	for _, txn := range txns {
		switch txn.ResolvedCategory() {
		case category.Pay:
			t.PaidIn = t.PaidIn.Add(txn.Amount)
		case category.TransfersFromFriends:
			t.Reimbursements = t.Reimbursements.Add(txn.Amount)
		default:
			t.PaidOut = t.PaidOut.Add(txn.Amount)
		}
	}
	return t
}

// CategoryTotals holds one sum per category.
type CategoryTotals map[category.Category]decimal.Decimal

// CategoryTotal is one entry of CategoryTotals.Ordered.
type CategoryTotal struct {
	Category category.Category
	Total    decimal.Decimal
}

// SumByCategory returns a total for every category, zero where nothing was
// spent. Labels that do not name a category are counted under OTHER.
func SumByCategory(txns []model.Transaction) CategoryTotals {
	totals := make(CategoryTotals, len(category.All()))
	for _, c := range category.All() {
		totals[c] = decimal.Zero
	}
	for _, txn := range txns {
		c := txn.ResolvedCategory()
		totals[c] = totals[c].Add(txn.Amount)
	}
	return totals
}

// Sum returns the total over all categories.
func (ct CategoryTotals) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, v := range ct {
		sum = sum.Add(v)
	}
	return sum
}

// Ordered returns the totals in category declaration order.
func (ct CategoryTotals) Ordered() []CategoryTotal {
	all := category.All()
	out := make([]CategoryTotal, 0, len(all))
	for _, c := range all {
		out = append(out, CategoryTotal{Category: c, Total: ct[c]})
	}
	return out
}

// Summary is everything the analyze command prints before the report.
type Summary struct {
	Count        int
	Unclassified int
	Totals       Totals
	Categories   CategoryTotals
}

// Summarize computes totals and category sums in one call.
func Summarize(txns []model.Transaction) Summary {
	unclassified := 0
	for _, txn := range txns {
		if !txn.Classified() {
			unclassified++
		}
	}
	return Summary{
		Count:        len(txns),
		Unclassified: unclassified,
		Totals:       ComputeTotals(txns),
		Categories:   SumByCategory(txns),
	}
}
