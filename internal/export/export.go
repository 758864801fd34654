// Package export renders the earnings list as an XLSX workbook.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"earnings/internal/core"
	"earnings/internal/earnings"
	"earnings/internal/entities"
	"earnings/internal/log"
	"earnings/internal/sheets"
)

const (
	EarningsSheet = "Earnings"
	SummarySheet  = "Summary"
)

// Service produces XLSX bytes from the entity store.
type Service struct {
	store  *entities.Store
	logger *log.Logger
}

func NewService(store *entities.Store, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Wrap(nil, log.ComponentExport)
	}
	return &Service{store: store, logger: logger.WithComponent(log.ComponentExport)}
}

// EarningsXLSX returns a workbook with the filtered earnings on one sheet and
// their per-category totals on another.
func (s *Service) EarningsXLSX(ctx context.Context, filter earnings.Filter) ([]byte, error) {
	start := time.Now()

	list, err := s.store.Earnings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load earnings: %w", err)
	}
	list = filter.Apply(list, s.store.Now())

	buf, err := Workbook(list)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Earnings workbook exported",
		log.FieldOperation, log.OpExport,
		"rows", len(list),
		log.FieldDuration, time.Since(start).Milliseconds())
	return buf, nil
}

// Workbook lays out list as an XLSX file.
func Workbook(list []core.Earning) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// the default sheet becomes the earnings sheet
	if err := f.SetSheetName(f.GetSheetName(0), EarningsSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeEarnings(f, list); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return nil, fmt.Errorf("create summary sheet: %w", err)
	}
	if err := writeSummary(f, list); err != nil {
		return nil, err
	}

	idx, _ := f.GetSheetIndex(EarningsSheet)
	f.SetActiveSheet(idx)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func writeEarnings(f *excelize.File, list []core.Earning) error {
	if err := writeRow(f, EarningsSheet, 1, toAny(sheets.Header)); err != nil {
		return err
	}
	for i, r := range sheets.RowsFrom(list) {
		amount, _ := r.Amount.Float64()
		if err := writeRow(f, EarningsSheet, i+2, []any{string(r.Date), r.Category, r.Source, amount, r.Notes}); err != nil {
			return err
		}
	}

	_ = f.SetColWidth(EarningsSheet, "A", "A", 14) // date
	_ = f.SetColWidth(EarningsSheet, "B", "B", 22) // category
	_ = f.SetColWidth(EarningsSheet, "C", "C", 24) // source
	_ = f.SetColWidth(EarningsSheet, "D", "D", 14) // amount
	_ = f.SetColWidth(EarningsSheet, "E", "E", 48) // notes
	return nil
}

func writeSummary(f *excelize.File, list []core.Earning) error {
	if err := writeRow(f, SummarySheet, 1, []any{"Category", "Total"}); err != nil {
		return err
	}
	row := 2
	for _, st := range earnings.GroupBySource(list) {
		total, _ := st.Total.Float64()
		if err := writeRow(f, SummarySheet, row, []any{st.Category.Label(), total}); err != nil {
			return err
		}
		row++
	}
	total, _ := earnings.Total(list).Float64()
	if err := writeRow(f, SummarySheet, row, []any{"Total", total}); err != nil {
		return err
	}

	_ = f.SetColWidth(SummarySheet, "A", "A", 22)
	_ = f.SetColWidth(SummarySheet, "B", "B", 14)
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
