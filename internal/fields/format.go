package fields

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/terra-money/alliance-estimator/internal/types"
)

const (
	// InputRequiredPlaceholder replaces derived values that cannot be computed yet.
	InputRequiredPlaceholder = "Input Required"
	// EmptyValue is shown for formatted values that are not numbers.
	EmptyValue = "--"

	takeRateSignificantDigits = 9
)

type Format int

const (
	FormatDefault Format = iota
	FormatPercent
	FormatCurrency
	FormatTakeRate
)

func (f Format) String() string {
	switch f {
	case FormatPercent:
		return "percent"
	case FormatCurrency:
		return "currency"
	case FormatTakeRate:
		return "takeRate"
	default:
		return "default"
	}
}

func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// Apply renders v. Non-finite values render as EmptyValue.
func (f Format) Apply(v float64) string {
	if !types.IsFinite(v) {
		return EmptyValue
	}
	switch f {
	case FormatPercent:
		return FormatPercentValue(v)
	case FormatCurrency:
		return FormatCurrencyValue(v)
	case FormatTakeRate:
		return FormatSignificant(v, takeRateSignificantDigits)
	default:
		return FormatNumber(v)
	}
}

// Display renders a field value the way it is shown next to its label.
func (f Field) Display(v float64, inputRequired bool) string {
	if inputRequired && f.Kind == KindDerived {
		return InputRequiredPlaceholder
	}
	if f.Kind == KindInput && math.IsNaN(v) {
		return ""
	}
	return f.Format.Apply(v)
}

// FormatPercentValue renders a fraction as a percentage with four decimals, e.g. 0.0123 -> "1.2300 %".
func FormatPercentValue(v float64) string {
	return fmt.Sprintf("%.4f %%", v*100)
}

// FormatCurrencyValue renders USD with grouping and two decimals, e.g. "-$1,234.50".
func FormatCurrencyValue(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return sign + "$" + humanize.FormatFloat("#,###.##", v)
}

// FormatNumber groups thousands and keeps at most three fraction digits.
func FormatNumber(v float64) string {
	return humanize.CommafWithDigits(v, 3)
}

// FormatSignificant renders v with the given number of significant digits, switching to
// exponent notation for very small or very large magnitudes, e.g. 0.0000016 -> "0.00000160000000".
func FormatSignificant(v float64, digits int) string {
	if digits < 1 {
		digits = 1
	}
	if v == 0 {
		if digits == 1 {
			return "0"
		}
		return "0." + strings.Repeat("0", digits-1)
	}

	mantissa := strconv.FormatFloat(v, 'e', digits-1, 64)
	exp, err := strconv.Atoi(mantissa[strings.IndexByte(mantissa, 'e')+1:])
	if err != nil {
		return mantissa
	}

	if exp < -6 || exp >= digits {
		m := mantissa[:strings.IndexByte(mantissa, 'e')]
		if exp < 0 {
			return fmt.Sprintf("%se%d", m, exp)
		}
		return fmt.Sprintf("%se+%d", m, exp)
	}
	return strconv.FormatFloat(v, 'f', digits-1-exp, 64)
}
