package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendlens/spendlens/internal/model"
)

// StatementParser parses the four-column personal statement export:
// date, type, description, amount.
type StatementParser struct{}

const (
	statementDateFormat = "02 Jan 2006"
	statementNumFields  = 4
	statementColDate    = 0
	statementColType    = 1
	statementColDesc    = 2
	statementColAmount  = 3
)

// Format returns the parser name.
func (p *StatementParser) Format() string { return "statement" }

// Parse reads the export and returns unclassified transactions in file
// order. The first row is always a header.
func (p *StatementParser) Parse(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = statementNumFields
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading statement CSV: %w: %w", ErrMalformedRow, err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	txns := make([]model.Transaction, 0, len(records)-1)
	for i, rec := range records[1:] {
		txn, err := parseStatementRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w: %w", i+2, ErrMalformedRow, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

func parseStatementRow(rec []string) (model.Transaction, error) {
	rawDate := strings.TrimSpace(rec[statementColDate])
	date, err := time.Parse(statementDateFormat, rawDate)
	if err != nil {
		// Single-digit days ("5 Jan 2024") appear in some exports.
		date, err = time.Parse("2 Jan 2006", rawDate)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("parsing date %q: %w", rec[statementColDate], err)
		}
	}

	rawAmount := strings.TrimSpace(rec[statementColAmount])
	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", rec[statementColAmount], err)
	}

	return model.NewTransaction(
		date,
		strings.TrimSpace(rec[statementColType]),
		strings.TrimSpace(rec[statementColDesc]),
		amount,
	), nil
}
