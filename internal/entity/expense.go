package entity

import (
	"fmt"
	"time"
)

// ProcessedItem is one canonical, persistence-ready expense row.
// All fields are final after normalization; rows are never mutated.
type ProcessedItem struct {
	OriginalName  string  `json:"original_name"`
	CleanName     string  `json:"clean_name"`
	Pieces        int     `json:"pieces"`
	UnitSize      string  `json:"unit_size"`
	TotalQuantity string  `json:"total_quantity"`
	PricePerUnit  float64 `json:"price_per_unit"`
	TotalValue    float64 `json:"total_value"`
}

// Expense is one validated expense record, built once per pipeline
// invocation and immutable afterwards.
type Expense struct {
	Date       time.Time       `json:"date"`
	StoreName  string          `json:"store_name,omitempty"`
	Items      []ProcessedItem `json:"items"`
	GrandTotal float64         `json:"grand_total"`
}

// Diagnostics is the only user-facing signal the pipeline produces
// besides the record itself: dropped-item counts and soft inconsistency
// flags. None of it blocks assembly.
type Diagnostics struct {
	DroppedItems     int     `json:"dropped_items"`
	DateFallbackUsed bool    `json:"date_fallback_used"`
	TotalMismatch    bool    `json:"total_mismatch"`
	TotalDelta       float64 `json:"total_delta,omitempty"`
}

// ItemRow pairs an item with its expense-level metadata, in the shape
// the spreadsheet boundary consumes.
type ItemRow struct {
	Date  time.Time
	Store string
	Item  ProcessedItem
}

// Rows flattens the expense into item rows for appending.
func (e *Expense) Rows() []ItemRow {
	rows := make([]ItemRow, 0, len(e.Items))
	for _, it := range e.Items {
		rows = append(rows, ItemRow{Date: e.Date, Store: e.StoreName, Item: it})
	}
	return rows
}

// Values renders one row in the canonical column order:
// Date, Original Item Name, Item Name, Pieces, Unit Size,
// Total Quantity, Price, Value.
func (r ItemRow) Values() []any {
	return []any{
		r.Date.Format("2006-01-02"),
		r.Item.OriginalName,
		r.Item.CleanName,
		r.Item.Pieces,
		r.Item.UnitSize,
		r.Item.TotalQuantity,
		fmt.Sprintf("%.2f", r.Item.PricePerUnit),
		fmt.Sprintf("%.2f", r.Item.TotalValue),
	}
}
