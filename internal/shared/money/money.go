package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Cents is an amount in minor currency units. All monetary values inside the
// service are Cents; dollars only exist at the HTTP and CLI boundaries.
type Cents int64

const (
	centsPerDollar  = 100
	monthsPerYear   = 12
	displayDecimals = 2
)

var (
	hundred = decimal.NewFromInt(centsPerDollar)
	twelve  = decimal.NewFromInt(monthsPerYear)
	half    = decimal.NewFromFloat(0.5)
)

// DollarsToCents converts a dollar amount to cents, rounding half-up.
func DollarsToCents(dollars float64) Cents {
	return roundHalfUp(decimal.NewFromFloat(dollars).Mul(hundred))
}

// ParseDecimalDollars parses a decimal dollar string such as "60000.50"
// without going through float64.
func ParseDecimalDollars(s string) (Cents, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid dollar amount %q: %w", s, err)
	}
	return roundHalfUp(d.Mul(hundred)), nil
}

// CentsToDollars is exact division by 100, for display and logging only.
func CentsToDollars(c Cents) float64 {
	return decimal.New(int64(c), -displayDecimals).InexactFloat64()
}

// FormatCentsAsDecimal renders cents as a fixed two-decimal string (5 -> "0.05").
func FormatCentsAsDecimal(c Cents) string {
	return decimal.New(int64(c), -displayDecimals).StringFixed(displayDecimals)
}

// CalculatePercentage returns amount*rate rounded half-up to whole cents.
// This is the only rounding point of the bracket calculation.
func CalculatePercentage(amount Cents, rate float64) Cents {
	return roundHalfUp(decimal.NewFromInt(int64(amount)).Mul(decimal.NewFromFloat(rate)))
}

// AnnualToMonthly divides an annual amount by 12, rounding half-up.
func AnnualToMonthly(annual Cents) Cents {
	return roundHalfUp(decimal.NewFromInt(int64(annual)).Div(twelve))
}

// roundHalfUp rounds ties toward positive infinity: floor(d + 0.5).
func roundHalfUp(d decimal.Decimal) Cents {
	return Cents(d.Add(half).Floor().IntPart())
}
