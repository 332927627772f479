package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/NammaThalle/grocery-tracker/constants"
	"github.com/NammaThalle/grocery-tracker/internal/entity"
)

const sheetName = "Expenses"

// RowLister is the archive slice the exporter needs.
type RowLister interface {
	ListRows(ctx context.Context, from, to time.Time) ([]entity.ItemRow, error)
}

// Service produces XLSX bytes from archived expense rows.
type Service struct {
	rows   RowLister
	logger *slog.Logger
}

func NewService(rows RowLister, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{rows: rows, logger: logger}
}

// ExportXLSX returns a workbook for the given date window.
// If only from is provided -> from..today (inclusive).
// If only to is provided   -> beginning..to (inclusive).
// If neither is provided   -> all rows.
func (s *Service) ExportXLSX(ctx context.Context, from, to *time.Time) ([]byte, error) {
	start := time.Now()

	var fromDate, toDate time.Time
	if from != nil {
		fromDate = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	}
	if to != nil {
		toDate = time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	}
	if from != nil && to == nil {
		today := time.Now().UTC()
		toDate = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	}

	rows, err := s.rows.ListRows(ctx, fromDate, toDate)
	if err != nil {
		return nil, fmt.Errorf("query rows: %w", err)
	}

	out, err := BuildWorkbook(rows)
	if err != nil {
		return nil, err
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// BuildWorkbook renders item rows into a single-sheet workbook in the
// canonical column order.
func BuildWorkbook(rows []entity.ItemRow) ([]byte, error) {
	f := excelize.NewFile()
	if index, _ := f.GetSheetIndex(sheetName); index == -1 {
		if _, err := f.NewSheet(sheetName); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheetName)
	f.SetActiveSheet(activeIndex)
	if defIdx, _ := f.GetSheetIndex("Sheet1"); defIdx != -1 && sheetName != "Sheet1" {
		_ = f.DeleteSheet("Sheet1")
	}

	for i, h := range constants.SheetColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, h)
	}

	for n, r := range rows {
		for col, v := range r.Values() {
			cell, _ := excelize.CoordinatesToCellName(col+1, n+2)
			_ = f.SetCellValue(sheetName, cell, v)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 12) // date
	_ = f.SetColWidth(sheetName, "B", "C", 28) // names
	_ = f.SetColWidth(sheetName, "D", "F", 14) // quantities
	_ = f.SetColWidth(sheetName, "G", "H", 12) // money

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
