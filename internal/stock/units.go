package stock

import (
	"math"
	"strconv"

	"github.com/moeketsims/stocktracking-sub002/internal/models"
)

// ToBaseUnit converts a quantity in the given unit to the item's base unit
// (kg). Quantities already in the base unit pass through unchanged. No
// rounding happens here; fractional kg stay representable.
func ToBaseUnit(quantity float64, unit string, item *models.Item) float64 {
	if unit == item.Unit {
		return quantity
	}
	return quantity * item.ConversionFactor
}

// FromBaseUnit converts a base-unit quantity to the target unit. Inverse of
// ToBaseUnit for any non-zero conversion factor.
func FromBaseUnit(quantityKg float64, unit string, item *models.Item) float64 {
	if unit == item.Unit {
		return quantityKg
	}
	return quantityKg / item.ConversionFactor
}

// WholeBags converts an on-hand kg quantity to whole display units, flooring.
// A partial bag does not count as a usable unit on stock displays.
func WholeBags(quantityKg float64, item *models.Item) int {
	if item.ConversionFactor <= 0 {
		return 0
	}
	return int(math.Floor(quantityKg / item.ConversionFactor))
}

// Format renders a quantity with fixed decimals and a unit label, pluralising
// "bag" when the quantity is not exactly 1.
func Format(quantity float64, unit string, decimals int) string {
	label := unit
	if unit == models.UnitBag && quantity != 1 {
		label = "bags"
	}
	return strconv.FormatFloat(quantity, 'f', decimals, 64) + " " + label
}

// FormatBags is Format with the display default of one decimal place.
func FormatBags(quantity float64) string {
	return Format(quantity, models.UnitBag, 1)
}
