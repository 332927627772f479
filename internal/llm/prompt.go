package llm

import "strings"

// ReceiptPrompt instructs the model to transcribe a grocery receipt
// photo into the expense payload shape. Line totals are the amount
// paid for the whole line, never the per-unit price.
func ReceiptPrompt() string {
	return strings.Join([]string{
		"Analyze this grocery receipt and extract each item with detailed information in JSON format:",
		`{`,
		`  "store": "Store name from receipt",`,
		`  "date": "Receipt date (DD-MM-YYYY or any format visible)",`,
		`  "items": [`,
		`    {`,
		`      "name": "Complete item name as written on receipt",`,
		`      "quantity": "1",`,
		`      "unit": "kg/pcs/g/liters",`,
		`      "total_price": 45.50`,
		`    }`,
		`  ],`,
		`  "subtotal": 105.50,`,
		`  "total": 110.78`,
		`}`,
		"",
		"Instructions:",
		"- Extract EVERY item exactly as written on receipt",
		"- Look for the receipt date, usually at top or bottom of receipt",
		"- For \"total_price\", use the TOTAL AMOUNT PAID for that item line (not per-unit price)",
		"- Example: If \"Grapes-500g\" costs 60, then total_price should be 60.0 (for the entire 500g)",
		"- Example: If \"Lime-5pcs\" costs 30, then total_price should be 30.0 (for all 5 pieces)",
		"- If quantity not clear, assume 1 and use \"pcs\" as unit",
		"- If date not visible, use \"N/A\"",
		"- Use numbers only for prices (no currency symbols)",
		"- Ensure all numeric values are proper numbers, not strings",
		"- Return ONLY valid JSON",
	}, "\n")
}

// TextExpensePrompt instructs the model to structure a typed expense
// message. The raw message is embedded verbatim.
func TextExpensePrompt(text string) string {
	return strings.Join([]string{
		"Extract expense information from this text and format as detailed JSON:",
		"",
		`Text: "` + text + `"`,
		"",
		"Format as JSON:",
		`{`,
		`  "store": "Store name if mentioned, otherwise 'Manual Entry'",`,
		`  "items": [`,
		`    {`,
		`      "name": "Complete item name",`,
		`      "quantity": "1",`,
		`      "unit": "kg/pcs/g/liters",`,
		`      "total_price": 60.0`,
		`    }`,
		`  ],`,
		`  "total": 130.0`,
		`}`,
		"",
		"Instructions:",
		"- Extract all items with their prices",
		"- Determine appropriate units (kg for vegetables/fruits, pcs for countable items, g/ml for small quantities)",
		"- For \"total_price\", use the TOTAL amount spent on that item (not per-unit price)",
		"- Example: \"Apples 2kg 120\" means total_price should be 120.0 (for the entire 2kg)",
		"- Example: \"5 oranges 50\" means total_price should be 50.0 (for all 5 oranges)",
		"- Convert prices to numbers only (remove currency symbols and abbreviations)",
		"- If quantity mentioned, extract it properly",
		"- Ensure all numeric values are proper numbers, not strings",
		"- Return ONLY valid JSON",
	}, "\n")
}
