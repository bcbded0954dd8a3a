package stats

import (
	"context"
	"fmt"
	"strings"

	"github.com/spendlens/spendlens/internal/completion"
	"github.com/spendlens/spendlens/internal/model"
)

const trendInstruction = "Using that list of transactions, each a short description then a value, " +
	"followed by the category totals, write a report for the customer intelligently identifying " +
	"common trends in spending and then suggesting ways to save money."

// BuildTrendPrompt lists every transaction in collection order, then the
// category totals, then the report instruction. currency is printed before
// each amount. Transactions without a short description fall back to their
// statement description.
func BuildTrendPrompt(txns []model.Transaction, currency string) string {
	var b strings.Builder
	for _, txn := range txns {
		label := txn.ShortDescription
		if label == "" {
			label = txn.Description
		}
		fmt.Fprintf(&b, "%s: %s%s\n", label, currency, txn.Amount.StringFixed(2))
	}

	b.WriteString("Category totals: ")
	ordered := SumByCategory(txns).Ordered()
	parts := make([]string, 0, len(ordered))
	for _, ct := range ordered {
		parts = append(parts, fmt.Sprintf("%s: %s%s", ct.Category.Name(), currency, ct.Total.StringFixed(2)))
	}
	b.WriteString(strings.Join(parts, ", "))
	b.WriteString("\n")
	b.WriteString(trendInstruction)
	return b.String()
}

// TrendReport asks the backend for a narrative report and returns its text
// unparsed. Backend failures are returned as is, without retrying.
func TrendReport(ctx context.Context, c completion.Completer, txns []model.Transaction, currency string) (string, error) {
	report, err := c.Complete(ctx, BuildTrendPrompt(txns, currency))
	if err != nil {
		return "", fmt.Errorf("generating trend report: %w", err)
	}
	return report, nil
}
