package normalize

import (
	"fmt"

	"github.com/NammaThalle/grocery-tracker/constants"
	"github.com/NammaThalle/grocery-tracker/internal/common"
	"github.com/NammaThalle/grocery-tracker/internal/entity"
	"github.com/NammaThalle/grocery-tracker/internal/extract"
)

// Item turns one raw model-reported entry into a canonical row:
// cleaned name, parsed package size, normalized total quantity, and
// reconciled prices. The asserted line total is treated as ground truth
// (it comes from the printed receipt), so the per-piece price is always
// derived from it.
//
// The only unsalvageable entries are a negative price or a quantity
// that resolves to zero; everything else is best-effort normalized.
func Item(raw extract.RawItem) (entity.ProcessedItem, error) {
	price := raw.LinePrice()
	if price < 0 {
		return entity.ProcessedItem{}, fmt.Errorf("%w: %q has negative price %.2f", common.ErrInvalidItemEntry, raw.Name, price)
	}

	pkg := ParsePackage(raw.QuantityToken(), raw.Name)
	if pkg.Total.Value <= 0 {
		return entity.ProcessedItem{}, fmt.Errorf("%w: %q resolves to zero quantity", common.ErrInvalidItemEntry, raw.Name)
	}

	totalValue := roundTo(price, constants.MoneyDecimals)
	perPiece := roundTo(totalValue/float64(pkg.Pieces), constants.MoneyDecimals)

	return entity.ProcessedItem{
		OriginalName:  raw.Name,
		CleanName:     CleanName(raw.Name),
		Pieces:        pkg.Pieces,
		UnitSize:      pkg.UnitSize.String(),
		TotalQuantity: pkg.Total.String(),
		PricePerUnit:  perPiece,
		TotalValue:    totalValue,
	}, nil
}
