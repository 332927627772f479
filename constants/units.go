package constants

import "strings"

// Unit is the canonical measurement unit for a grocery quantity.
type Unit string

// Stable values (these exact strings appear in persisted rows).
const (
	Gram      Unit = "g"
	Kilogram  Unit = "kg"
	Millilitre Unit = "ml"
	Litre     Unit = "l"
	Piece     Unit = "pcs"
)

// Family groups units that share a dimension. Quantities convert only
// within their own family.
type Family int

const (
	FamilyCount Family = iota
	FamilyMass
	FamilyVolume
)

// Normalization thresholds and rounding, kept explicit so boundary
// behavior (exactly 1000) is testable rather than implied.
const (
	// GramsPerKilogram is the boundary at which a mass total is
	// reported in kilograms instead of grams. A total of exactly
	// 1000 g converts to 1 kg.
	GramsPerKilogram = 1000.0
	// MillilitresPerLitre is the volume equivalent of the above.
	MillilitresPerLitre = 1000.0
	// QuantityDecimals is the rounding precision for converted quantities.
	QuantityDecimals = 2
	// MoneyDecimals is the rounding precision for all monetary values.
	MoneyDecimals = 2
	// TotalRelTolerance is the relative tolerance beyond which two
	// independently derived totals are treated as inconsistent.
	TotalRelTolerance = 0.01
)

// unitAliases maps the spelling variants seen in model output and on
// printed receipts to canonical units.
var unitAliases = map[string]Unit{
	"g":       Gram,
	"gm":      Gram,
	"gms":     Gram,
	"gram":    Gram,
	"grams":   Gram,
	"kg":      Kilogram,
	"kgs":     Kilogram,
	"kilo":    Kilogram,
	"kilos":   Kilogram,
	"ml":      Millilitre,
	"milli":   Millilitre,
	"l":       Litre,
	"lt":      Litre,
	"ltr":     Litre,
	"ltrs":    Litre,
	"litre":   Litre,
	"litres":  Litre,
	"liter":   Litre,
	"liters":  Litre,
	"pc":      Piece,
	"pcs":     Piece,
	"piece":   Piece,
	"pieces":  Piece,
	"nos":     Piece,
	"no":      Piece,
	"unit":    Piece,
	"units":   Piece,
}

// ParseUnit resolves a raw unit token to its canonical unit.
func ParseUnit(s string) (Unit, bool) {
	u, ok := unitAliases[strings.ToLower(strings.TrimSpace(s))]
	return u, ok
}

// FamilyOf returns the dimension a unit measures.
func (u Unit) FamilyOf() Family {
	switch u {
	case Gram, Kilogram:
		return FamilyMass
	case Millilitre, Litre:
		return FamilyVolume
	default:
		return FamilyCount
	}
}
