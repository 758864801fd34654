// Package sheets mirrors the earnings list into a spreadsheet.
package sheets

import (
	"context"

	"github.com/shopspring/decimal"

	"earnings/internal/core"
)

// Row is one earning as laid out in the spreadsheet.
type Row struct {
	Date     core.Date
	Category string
	Source   string
	Amount   decimal.Decimal
	Notes    string
}

// Header is the first row written above the earnings.
var Header = []string{"Date", "Category", "Source", "Amount", "Notes"}

// Ports for outbound adapters.
type (
	// EarningsWriter replaces the whole earnings range with rows.
	EarningsWriter interface {
		ReplaceEarnings(ctx context.Context, rows []Row) (ref string, err error)
	}
)

// RowsFrom converts earnings to spreadsheet rows, keeping their order.
// Categories are written by label.
func RowsFrom(list []core.Earning) []Row {
	rows := make([]Row, 0, len(list))
	for _, e := range list {
		rows = append(rows, Row{
			Date:     e.Date,
			Category: e.Category.Label(),
			Source:   e.Source,
			Amount:   e.Amount.Decimal(),
			Notes:    e.Notes,
		})
	}
	return rows
}
