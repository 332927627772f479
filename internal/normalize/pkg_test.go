package normalize

import (
	"testing"

	"github.com/NammaThalle/grocery-tracker/constants"
)

func TestParsePackage(t *testing.T) {
	cases := []struct {
		name      string
		token     string
		itemName  string
		pieces    int
		unitSize  string
		totalQty  string
	}{
		{name: "grams token", token: "500g", itemName: "E FR DRAKSHE-500g", pieces: 1, unitSize: "500g", totalQty: "500g"},
		{name: "pieces token", token: "5pcs", itemName: "LIME-5pcs", pieces: 1, unitSize: "5pcs", totalQty: "5pcs"},
		{name: "kilogram token", token: "2kg", itemName: "Apples", pieces: 1, unitSize: "2kg", totalQty: "2kg"},
		{name: "multiplier", token: "2x500g", itemName: "Milk", pieces: 2, unitSize: "500g", totalQty: "1kg"},
		{name: "multiplier with spaces", token: "3 x 330ml", itemName: "Cola", pieces: 3, unitSize: "330ml", totalQty: "990ml"},
		{name: "multiplier crossing litre boundary", token: "4x330ml", itemName: "Cola", pieces: 4, unitSize: "330ml", totalQty: "1.32l"},
		{name: "bare count", token: "4", itemName: "Eggs", pieces: 4, unitSize: "1pcs", totalQty: "4pcs"},
		{name: "no token size in name", token: "", itemName: "SUNL TGHT 150GRAM-1pcs", pieces: 1, unitSize: "150g", totalQty: "150g"},
		{name: "nothing recognizable", token: "", itemName: "Fruits", pieces: 1, unitSize: "1pcs", totalQty: "1pcs"},
		{name: "litre spelled out", token: "1 litre", itemName: "Milk", pieces: 1, unitSize: "1l", totalQty: "1l"},
		{name: "mass at boundary", token: "1000g", itemName: "Rice", pieces: 1, unitSize: "1000g", totalQty: "1kg"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pkg := ParsePackage(tc.token, tc.itemName)
			if pkg.Pieces != tc.pieces {
				t.Errorf("pieces = %d, want %d", pkg.Pieces, tc.pieces)
			}
			if got := pkg.UnitSize.String(); got != tc.unitSize {
				t.Errorf("unit size = %q, want %q", got, tc.unitSize)
			}
			if got := pkg.Total.String(); got != tc.totalQty {
				t.Errorf("total quantity = %q, want %q", got, tc.totalQty)
			}
		})
	}
}

func TestParsePackageZeroSentinel(t *testing.T) {
	pkg := ParsePackage("0", "Mystery")
	if pkg.Total.Value != 0 {
		t.Errorf("total = %v, want 0 sentinel", pkg.Total.Value)
	}
}

func TestNormalizeQuantity(t *testing.T) {
	cases := []struct {
		name string
		in   Quantity
		want Quantity
	}{
		{name: "small mass stays grams", in: Quantity{500, constants.Gram}, want: Quantity{500, constants.Gram}},
		{name: "boundary mass converts", in: Quantity{1000, constants.Gram}, want: Quantity{1, constants.Kilogram}},
		{name: "large mass converts", in: Quantity{1500, constants.Gram}, want: Quantity{1.5, constants.Kilogram}},
		{name: "volume converts", in: Quantity{1250, constants.Millilitre}, want: Quantity{1.25, constants.Litre}},
		{name: "small volume stays", in: Quantity{330, constants.Millilitre}, want: Quantity{330, constants.Millilitre}},
		{name: "counts never convert", in: Quantity{1200, constants.Piece}, want: Quantity{1200, constants.Piece}},
		{name: "rounding", in: Quantity{1333, constants.Gram}, want: Quantity{1.33, constants.Kilogram}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeQuantity(tc.in)
			if got != tc.want {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestNormalizeQuantityIdempotent(t *testing.T) {
	// An already-normalized value passes through unchanged, never
	// re-divided.
	once := NormalizeQuantity(Quantity{1500, constants.Gram})
	twice := NormalizeQuantity(once)
	if once != twice {
		t.Errorf("not idempotent: %+v vs %+v", once, twice)
	}
}
