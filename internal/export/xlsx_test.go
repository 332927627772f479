package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/NammaThalle/grocery-tracker/constants"
	"github.com/NammaThalle/grocery-tracker/internal/entity"
)

func TestBuildWorkbook(t *testing.T) {
	rows := []entity.ItemRow{
		{
			Date:  time.Date(2024, time.June, 18, 0, 0, 0, 0, time.UTC),
			Store: "Big Bazaar",
			Item: entity.ProcessedItem{
				OriginalName:  "E FR DRAKSHE-500g",
				CleanName:     "Grapes",
				Pieces:        1,
				UnitSize:      "500g",
				TotalQuantity: "500g",
				PricePerUnit:  60.0,
				TotalValue:    60.0,
			},
		},
		{
			Date:  time.Date(2024, time.June, 18, 0, 0, 0, 0, time.UTC),
			Store: "Big Bazaar",
			Item: entity.ProcessedItem{
				OriginalName:  "LIME-5pcs",
				CleanName:     "Lime",
				Pieces:        1,
				UnitSize:      "5pcs",
				TotalQuantity: "5pcs",
				PricePerUnit:  30.0,
				TotalValue:    30.0,
			},
		},
	}

	data, err := BuildWorkbook(rows)
	if err != nil {
		t.Fatalf("build workbook: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer func() { _ = f.Close() }()

	got, err := f.GetRows("Expenses")
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(got))
	}

	for i, want := range constants.SheetColumns {
		if got[0][i] != want {
			t.Errorf("header[%d] = %q, want %q", i, got[0][i], want)
		}
	}

	first := got[1]
	if first[0] != "2024-06-18" {
		t.Errorf("date cell = %q", first[0])
	}
	if first[1] != "E FR DRAKSHE-500g" || first[2] != "Grapes" {
		t.Errorf("name cells = %q, %q", first[1], first[2])
	}
	if first[5] != "500g" {
		t.Errorf("total quantity cell = %q", first[5])
	}
	if first[6] != "60.00" || first[7] != "60.00" {
		t.Errorf("money cells = %q, %q", first[6], first[7])
	}
}

func TestBuildWorkbookEmpty(t *testing.T) {
	data, err := BuildWorkbook(nil)
	if err != nil {
		t.Fatalf("build workbook: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer func() { _ = f.Close() }()

	got, err := f.GetRows("Expenses")
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("rows = %d, want header only", len(got))
	}
}
