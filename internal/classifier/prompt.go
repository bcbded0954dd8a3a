package classifier

import (
	"errors"
	"strings"

	"github.com/spendlens/spendlens/internal/category"
)

// ErrEmptyResponse is returned when the backend answers with nothing usable.
var ErrEmptyResponse = errors.New("empty classification response")

// Result is one parsed classification answer.
type Result struct {
	Label            string // verbatim; may not name a known category
	ShortDescription string
}

// Known reports whether Label is an exact category name.
func (r Result) Known() bool {
	return category.IsKnown(r.Label)
}

// BuildPrompt returns the classification prompt for one statement
// description. Categories appear in declaration order.
func BuildPrompt(description string) string {
	var b strings.Builder
	b.WriteString("Here are the spending categories in the format 'CATEGORY, description':\n")
	for _, c := range category.All() {
		b.WriteString(c.Name())
		b.WriteString(", ")
		b.WriteString(c.Description())
		b.WriteString("\n")
	}
	b.WriteString("Categorise the bank transaction '")
	b.WriteString(description)
	b.WriteString("'. Reply with exactly two comma-separated fields like this: 'CATEGORY,short description'. ")
	b.WriteString("CATEGORY must be one of the category names above. ")
	b.WriteString("The short description should be a 2/3 word guess at what the transaction is. ")
	b.WriteString("Return nothing else. Do not provide thoughts or explanation.")
	return b.String()
}

// ParseResponse splits a raw answer on its first comma. The label is kept
// exactly as sent (no case folding); only the short description is trimmed.
// An answer without a comma becomes a label with no short description.
func ParseResponse(raw string) (Result, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Result{}, ErrEmptyResponse
	}

	label, short, found := strings.Cut(raw, ",")
	if !found {
		return Result{Label: raw}, nil
	}
	return Result{Label: label, ShortDescription: strings.TrimSpace(short)}, nil
}
