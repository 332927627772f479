package constants

// SheetColumns is the canonical column order for persisted expense rows.
// The spreadsheet appender, the XLSX exporter, and the archive all emit
// item rows in this order.
var SheetColumns = []string{
	"Date",
	"Original Item Name",
	"Item Name",
	"Pieces",
	"Unit Size",
	"Total Quantity",
	"Price",
	"Value",
}
