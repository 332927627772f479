package expense

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/NammaThalle/grocery-tracker/constants"
	"github.com/NammaThalle/grocery-tracker/internal/common"
	"github.com/NammaThalle/grocery-tracker/internal/entity"
	"github.com/NammaThalle/grocery-tracker/internal/extract"
	"github.com/NammaThalle/grocery-tracker/internal/normalize"
)

// Assembler composes normalized items and a normalized date into one
// immutable expense record. Item normalization is independent per
// entry, so it fans out across a small worker group and recombines in
// input order.
type Assembler struct {
	logger  *slog.Logger
	workers int
}

func NewAssembler(logger *slog.Logger, workers int) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	if workers <= 0 {
		workers = 4
	}
	return &Assembler{logger: logger, workers: workers}
}

// Input is everything one assembly needs: the raw item list, the raw
// date string, the caller-provided fallback date, and optional store
// metadata and asserted grand total for cross-checking.
type Input struct {
	Items         []extract.RawItem
	DateString    string
	Fallback      time.Time
	StoreName     string
	AssertedTotal *float64
}

// Assemble normalizes the date once, every item independently, and
// validates cross-item invariants. Items failing normalization are
// excluded and counted in diagnostics; they never fail the invocation.
// Only total item loss does.
func (a *Assembler) Assemble(in Input) (*entity.Expense, entity.Diagnostics, error) {
	var diags entity.Diagnostics

	date, usedFallback := normalize.Date(in.DateString, in.Fallback)
	diags.DateFallbackUsed = usedFallback

	items := a.normalizeAll(in.Items)
	diags.DroppedItems = len(in.Items) - len(items)
	if len(items) == 0 {
		return nil, diags, fmt.Errorf("%w: %d raw items, none survived", common.ErrEmptyExpense, len(in.Items))
	}

	var grand float64
	for _, it := range items {
		grand += it.TotalValue
	}
	grand = roundMoney(grand)

	if in.AssertedTotal != nil {
		delta := math.Abs(*in.AssertedTotal - grand)
		limit := constants.TotalRelTolerance * math.Max(math.Abs(*in.AssertedTotal), grand)
		if delta > limit {
			diags.TotalMismatch = true
			diags.TotalDelta = roundMoney(delta)
			a.logger.Warn("expense.total_mismatch",
				"asserted", *in.AssertedTotal, "computed", grand, "delta", diags.TotalDelta)
		}
	}

	return &entity.Expense{
		Date:       date,
		StoreName:  in.StoreName,
		Items:      items,
		GrandTotal: grand,
	}, diags, nil
}

// normalizeAll runs the item normalizer across a worker group and
// recombines results in input order, dropping only entries that failed
// with an invalid-entry error.
func (a *Assembler) normalizeAll(raw []extract.RawItem) []entity.ProcessedItem {
	type outcome struct {
		item entity.ProcessedItem
		err  error
	}
	results := make([]outcome, len(raw))

	workers := a.workers
	if workers > len(raw) {
		workers = len(raw)
	}
	if workers <= 1 {
		for i, r := range raw {
			it, err := normalize.Item(r)
			results[i] = outcome{item: it, err: err}
		}
	} else {
		idx := make(chan int)
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range idx {
					it, err := normalize.Item(raw[i])
					results[i] = outcome{item: it, err: err}
				}
			}()
		}
		for i := range raw {
			idx <- i
		}
		close(idx)
		wg.Wait()
	}

	items := make([]entity.ProcessedItem, 0, len(raw))
	for i, res := range results {
		if res.err != nil {
			if errors.Is(res.err, common.ErrInvalidItemEntry) {
				a.logger.Warn("expense.item_dropped", "index", i, "name", raw[i].Name, "error", res.err)
				continue
			}
			a.logger.Error("expense.item_error", "index", i, "name", raw[i].Name, "error", res.err)
			continue
		}
		items = append(items, res.item)
	}
	return items
}

func roundMoney(v float64) float64 {
	p := math.Pow(10, constants.MoneyDecimals)
	return math.Round(v*p) / p
}
