package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/NammaThalle/grocery-tracker/constants"
)

// Quantity is a value with its canonical unit.
type Quantity struct {
	Value float64
	Unit  constants.Unit
}

// String renders the quantity the way it appears in persisted rows,
// e.g. "500g", "0.5kg", "5pcs".
func (q Quantity) String() string {
	return strconv.FormatFloat(q.Value, 'f', -1, 64) + string(q.Unit)
}

// PackageSize describes how much of an item was purchased: the piece
// count, the per-piece size, and the resulting total quantity.
// Invariant: Total.Value = Pieces × UnitSize.Value within the unit
// family, after normalization.
type PackageSize struct {
	Pieces   int
	UnitSize Quantity
	Total    Quantity
}

var (
	multiplierRe = regexp.MustCompile(`^\s*(\d+)\s*[x×*]\s*`)
	sizeRe       = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(kgs?|kilos?|grams?|gms?|g\b|ml\b|litres?|liters?|ltrs?|lt\b|l\b|pcs\b|pieces?|pc\b|nos?\b|units?)`)
)

// ParsePackage extracts a package size from the quantity token, falling
// back to scanning the raw item name for embedded size fragments like
// "-500g" or "150GRAM-1pcs". Absence of any recognizable unit defaults
// to a single whole piece.
func ParsePackage(token, name string) PackageSize {
	pieces := 1
	scan := strings.TrimSpace(token)

	// Leading multiplier ("2x500g") or a bare integer token: both mean
	// the number of packages actually bought.
	if m := multiplierRe.FindStringSubmatch(scan); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			pieces = n
		}
		scan = scan[len(m[0]):]
	} else if n, err := strconv.Atoi(scan); err == nil {
		// A bare zero is kept: it resolves to a zero total quantity,
		// the sentinel for an unsalvageable entry.
		pieces = n
		scan = ""
	}

	unitSize := Quantity{Value: 1, Unit: constants.Piece}
	if size, ok := findSize(scan); ok {
		unitSize = size
	} else if size, ok := findSize(name); ok {
		unitSize = size
	}

	total := NormalizeQuantity(Quantity{
		Value: unitSize.Value * float64(pieces),
		Unit:  unitSize.Unit,
	})

	return PackageSize{Pieces: pieces, UnitSize: unitSize, Total: total}
}

func findSize(s string) (Quantity, bool) {
	m := sizeRe.FindStringSubmatch(s)
	if m == nil {
		return Quantity{}, false
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Quantity{}, false
	}
	unit, ok := constants.ParseUnit(strings.TrimSpace(m[2]))
	if !ok {
		return Quantity{}, false
	}
	return Quantity{Value: value, Unit: unit}, true
}

// NormalizeQuantity converts toward the more human-readable unit:
// masses of at least 1000 g become kilograms, volumes of at least
// 1000 ml become litres. Counts never convert. The operation is
// idempotent: an already-normalized quantity passes through unchanged
// apart from rounding.
func NormalizeQuantity(q Quantity) Quantity {
	switch q.Unit {
	case constants.Gram:
		if q.Value >= constants.GramsPerKilogram {
			return Quantity{Value: roundTo(q.Value/constants.GramsPerKilogram, constants.QuantityDecimals), Unit: constants.Kilogram}
		}
	case constants.Millilitre:
		if q.Value >= constants.MillilitresPerLitre {
			return Quantity{Value: roundTo(q.Value/constants.MillilitresPerLitre, constants.QuantityDecimals), Unit: constants.Litre}
		}
	}
	return Quantity{Value: roundTo(q.Value, constants.QuantityDecimals), Unit: q.Unit}
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
