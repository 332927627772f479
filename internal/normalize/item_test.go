package normalize

import (
	"errors"
	"math"
	"testing"

	"github.com/NammaThalle/grocery-tracker/internal/common"
	"github.com/NammaThalle/grocery-tracker/internal/extract"
)

func ln(v float64) *extract.LooseNumber {
	n := extract.LooseNumber(v)
	return &n
}

func TestItemGrapesReceipt(t *testing.T) {
	got, err := Item(extract.RawItem{
		Name:       "E FR DRAKSHE-500g",
		Quantity:   "500",
		Unit:       "g",
		TotalPrice: ln(60.0),
	})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if got.CleanName != "Grapes" {
		t.Errorf("clean name = %q, want Grapes", got.CleanName)
	}
	if got.Pieces != 1 {
		t.Errorf("pieces = %d, want 1", got.Pieces)
	}
	if got.UnitSize != "500g" {
		t.Errorf("unit size = %q, want 500g", got.UnitSize)
	}
	if got.TotalQuantity != "500g" {
		t.Errorf("total quantity = %q, want 500g", got.TotalQuantity)
	}
	if got.PricePerUnit != 60.0 {
		t.Errorf("price per unit = %v, want 60", got.PricePerUnit)
	}
	if got.TotalValue != 60.0 {
		t.Errorf("total value = %v, want 60", got.TotalValue)
	}
}

func TestItemPerPiecePrice(t *testing.T) {
	got, err := Item(extract.RawItem{
		Name:       "LIME-5pcs",
		Quantity:   "5",
		Unit:       "pcs",
		TotalPrice: ln(30.0),
	})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	// "5pcs" is one package of five pieces, so the package price stands.
	if got.Pieces != 1 {
		t.Errorf("pieces = %d, want 1", got.Pieces)
	}
	if got.PricePerUnit != 30.0 {
		t.Errorf("price per unit = %v, want 30", got.PricePerUnit)
	}
	if got.TotalValue != 30.0 {
		t.Errorf("total value = %v, want 30", got.TotalValue)
	}
}

func TestItemMultiplePackages(t *testing.T) {
	got, err := Item(extract.RawItem{
		Name:       "Milk 2x500ml",
		Quantity:   "2x500ml",
		TotalPrice: ln(56.0),
	})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if got.Pieces != 2 {
		t.Errorf("pieces = %d, want 2", got.Pieces)
	}
	if got.TotalQuantity != "1l" {
		t.Errorf("total quantity = %q, want 1l", got.TotalQuantity)
	}
	if got.PricePerUnit != 28.0 {
		t.Errorf("price per unit = %v, want 28", got.PricePerUnit)
	}
	if got.TotalValue != 56.0 {
		t.Errorf("total value = %v, want 56", got.TotalValue)
	}
}

func TestItemUnsalvageable(t *testing.T) {
	cases := []struct {
		name string
		raw  extract.RawItem
	}{
		{
			name: "negative price",
			raw:  extract.RawItem{Name: "Refund", Price: extract.LooseNumber(-5)},
		},
		{
			name: "zero quantity",
			raw:  extract.RawItem{Name: "Mystery", Quantity: "0", Price: extract.LooseNumber(10)},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Item(tc.raw)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, common.ErrInvalidItemEntry) {
				t.Errorf("error = %v, want InvalidItemEntry", err)
			}
		})
	}
}

func TestItemMoneyRounding(t *testing.T) {
	got, err := Item(extract.RawItem{
		Name:     "Bananas",
		Quantity: "3",
		Price:    extract.LooseNumber(100.0),
	})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if math.Abs(got.PricePerUnit-33.33) > 1e-9 {
		t.Errorf("price per unit = %v, want 33.33", got.PricePerUnit)
	}
	if got.TotalValue != 100.0 {
		t.Errorf("total value = %v, want 100", got.TotalValue)
	}
}
