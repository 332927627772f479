package expense

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/NammaThalle/grocery-tracker/internal/common"
	"github.com/NammaThalle/grocery-tracker/internal/extract"
)

func ln(v float64) *extract.LooseNumber {
	n := extract.LooseNumber(v)
	return &n
}

func f64(v float64) *float64 { return &v }

func TestAssembleTextExpense(t *testing.T) {
	// "Spent 150 on fruits today" with no itemized breakdown.
	fallback := time.Date(2025, time.March, 10, 18, 45, 0, 0, time.UTC)

	exp, diags, err := NewAssembler(nil, 2).Assemble(Input{
		Items: []extract.RawItem{
			{Name: "Fruits", Quantity: "1", Unit: "pcs", TotalPrice: ln(150.0)},
		},
		DateString: "today",
		Fallback:   fallback,
	})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if !diags.DateFallbackUsed {
		t.Error("expected date fallback flag")
	}
	if want := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC); !exp.Date.Equal(want) {
		t.Errorf("date = %v, want %v", exp.Date, want)
	}
	if len(exp.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(exp.Items))
	}
	it := exp.Items[0]
	if it.CleanName != "Fruits" {
		t.Errorf("clean name = %q, want Fruits", it.CleanName)
	}
	if it.Pieces != 1 || it.UnitSize != "1pcs" || it.TotalQuantity != "1pcs" {
		t.Errorf("package = %d %q %q, want 1 1pcs 1pcs", it.Pieces, it.UnitSize, it.TotalQuantity)
	}
	if it.TotalValue != 150.0 {
		t.Errorf("total value = %v, want 150", it.TotalValue)
	}
	if exp.GrandTotal != 150.0 {
		t.Errorf("grand total = %v, want 150", exp.GrandTotal)
	}
}

func TestAssembleDropsInvalidItems(t *testing.T) {
	exp, diags, err := NewAssembler(nil, 4).Assemble(Input{
		Items: []extract.RawItem{
			{Name: "Onion", Quantity: "1", Unit: "kg", TotalPrice: ln(40.0)},
			{Name: "Refund", Price: extract.LooseNumber(-5)},
			{Name: "Tomato", Quantity: "500", Unit: "g", TotalPrice: ln(25.0)},
		},
		DateString: "18-06-2024",
		Fallback:   time.Now(),
	})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if diags.DroppedItems != 1 {
		t.Errorf("dropped = %d, want 1", diags.DroppedItems)
	}
	if diags.DateFallbackUsed {
		t.Error("unexpected date fallback flag")
	}
	if len(exp.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(exp.Items))
	}
	// Surviving items keep input order and their normalized form.
	if exp.Items[0].CleanName != "Onion" || exp.Items[1].CleanName != "Tomato" {
		t.Errorf("order = %q, %q", exp.Items[0].CleanName, exp.Items[1].CleanName)
	}
	if exp.GrandTotal != 65.0 {
		t.Errorf("grand total = %v, want 65", exp.GrandTotal)
	}
}

func TestAssembleEmptyExpense(t *testing.T) {
	cases := []struct {
		name  string
		items []extract.RawItem
	}{
		{name: "no items", items: nil},
		{
			name: "all items invalid",
			items: []extract.RawItem{
				{Name: "Refund", Price: extract.LooseNumber(-5)},
				{Name: "Mystery", Quantity: "0", Price: extract.LooseNumber(10)},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, diags, err := NewAssembler(nil, 2).Assemble(Input{
				Items:      tc.items,
				DateString: "today",
				Fallback:   time.Now(),
			})
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, common.ErrEmptyExpense) {
				t.Errorf("error = %v, want EmptyExpense", err)
			}
			if diags.DroppedItems != len(tc.items) {
				t.Errorf("dropped = %d, want %d", diags.DroppedItems, len(tc.items))
			}
		})
	}
}

func TestAssembleTotalMismatch(t *testing.T) {
	exp, diags, err := NewAssembler(nil, 2).Assemble(Input{
		Items: []extract.RawItem{
			{Name: "Rice", Quantity: "5", Unit: "kg", TotalPrice: ln(400.0)},
			{Name: "Dal", Quantity: "1", Unit: "kg", TotalPrice: ln(80.0)},
		},
		DateString:    "18-06-2024",
		Fallback:      time.Now(),
		AssertedTotal: f64(500.0),
	})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	// Computed sum wins; the discrepancy is reported, not corrected.
	if exp.GrandTotal != 480.0 {
		t.Errorf("grand total = %v, want 480", exp.GrandTotal)
	}
	if !diags.TotalMismatch {
		t.Error("expected total mismatch flag")
	}
	if diags.TotalDelta != 20.0 {
		t.Errorf("delta = %v, want 20", diags.TotalDelta)
	}
}

func TestAssembleTotalWithinTolerance(t *testing.T) {
	_, diags, err := NewAssembler(nil, 2).Assemble(Input{
		Items: []extract.RawItem{
			{Name: "Rice", Quantity: "5", Unit: "kg", TotalPrice: ln(498.0)},
		},
		DateString:    "18-06-2024",
		Fallback:      time.Now(),
		AssertedTotal: f64(500.0)},
	)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if diags.TotalMismatch {
		t.Errorf("unexpected mismatch flag, delta %v", diags.TotalDelta)
	}
}

func TestAssemblePreservesOrderUnderParallelism(t *testing.T) {
	var items []extract.RawItem
	for i := 0; i < 100; i++ {
		items = append(items, extract.RawItem{
			Name:       fmt.Sprintf("Item %03d", i),
			Quantity:   "1",
			Unit:       "pcs",
			TotalPrice: ln(float64(i + 1)),
		})
	}

	exp, _, err := NewAssembler(nil, 8).Assemble(Input{
		Items:      items,
		DateString: "2024-06-18",
		Fallback:   time.Now(),
	})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if len(exp.Items) != 100 {
		t.Fatalf("items = %d, want 100", len(exp.Items))
	}
	for i, it := range exp.Items {
		if want := fmt.Sprintf("Item %03d", i); it.CleanName != want {
			t.Fatalf("item %d = %q, want %q", i, it.CleanName, want)
		}
	}
}
