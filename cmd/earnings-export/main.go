// Command earnings-export writes the stored earnings out once: as an XLSX
// workbook, as a JSON backup, or into the configured Google Sheet.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"earnings/internal/backup"
	"earnings/internal/cli"
	"earnings/internal/core"
	"earnings/internal/earnings"
	"earnings/internal/export"
	"earnings/internal/log"
	"earnings/internal/sheets"
	gsheet "earnings/internal/sheets/google"
)

func main() {
	format := flag.String("format", "xlsx", "output format: xlsx, json or sheets")
	out := flag.String("out", "", "output file, - for stdout (default earnings-<date>.<format>)")
	category := flag.String("category", "", "only export this category (xlsx and sheets)")
	dateRange := flag.String("range", "", "only export this range: today, week, month, year (xlsx and sheets)")
	flag.Parse()

	cfg, logger := cli.Bootstrap("earnings-export", os.Stderr)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	store, be, err := cli.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open store", log.FieldError, err)
		os.Exit(1)
	}
	defer cli.Close(logger, be)

	filter := earnings.Filter{Category: core.Category(*category), Range: earnings.DateRange(*dateRange)}
	today := core.DateOf(store.Now())

	switch *format {
	case "xlsx":
		buf, err := export.NewService(store, logger).EarningsXLSX(ctx, filter)
		if err == nil {
			err = write(defaultName(*out, today, "xlsx"), buf)
		}
		exitOn(logger, "XLSX export failed", err)

	case "json":
		doc, err := backup.NewService(store, logger).Export(ctx)
		exitOn(logger, "Backup export failed", err)
		buf, err := json.MarshalIndent(doc, "", "  ")
		if err == nil {
			err = write(defaultName(*out, today, "json"), append(buf, '\n'))
		}
		exitOn(logger, "Backup export failed", err)

	case "sheets":
		client, err := gsheet.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
		exitOn(logger, "Failed to initialize Google Sheets client", err)
		list, err := store.Earnings(ctx)
		exitOn(logger, "Failed to load earnings", err)
		ref, err := client.ReplaceEarnings(ctx, sheets.RowsFrom(filter.Apply(list, store.Now())))
		exitOn(logger, "Sheets export failed", err)
		logger.Info("Earnings written to sheet", "range", ref)

	default:
		logger.Error("Unknown format", "format", *format)
		flag.Usage()
		os.Exit(2)
	}
}

func defaultName(out string, today core.Date, ext string) string {
	if out != "" {
		return out
	}
	return fmt.Sprintf("earnings-%s.%s", today, ext)
}

func write(path string, buf []byte) error {
	var w io.Writer = os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		defer f.Close()
		w = f
	}
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func exitOn(logger *log.Logger, msg string, err error) {
	if err != nil {
		logger.Error(msg, log.FieldError, err)
		os.Exit(1)
	}
}
