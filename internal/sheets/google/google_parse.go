package google

import (
	ports "earnings/internal/sheets"
)

// toValues lays rows out as a values matrix with the header first. Amounts go
// out as numbers so the sheet can sum them.
func toValues(rows []ports.Row) [][]any {
	values := make([][]any, 0, len(rows)+1)
	header := make([]any, len(ports.Header))
	for i, h := range ports.Header {
		header[i] = h
	}
	values = append(values, header)

	for _, r := range rows {
		amount, _ := r.Amount.Float64()
		values = append(values, []any{string(r.Date), r.Category, r.Source, amount, r.Notes})
	}
	return values
}
