package invoice

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencySuffix is appended to every formatted amount
const CurrencySuffix = "  €"

// Currency is the ISO code of the only supported currency
const Currency = "EUR"

// ToCents rounds d to two decimals (half away from zero) and returns the
// amount in cents. d must fit in an int64 once shifted to cents; use
// FormatAmount for display, it has no such limit.
func ToCents(d decimal.Decimal) int64 {
	return d.Round(2).Shift(2).IntPart()
}

// FormatAmount renders d in the invoice locale: euros grouped by three
// digits with a space, a decimal comma and two cent digits, followed by
// CurrencySuffix. 1000 becomes "1 000,00  €".
func FormatAmount(d decimal.Decimal) string {
	rounded := d.Round(2)

	sign := ""
	if rounded.Sign() < 0 {
		sign = "-"
		rounded = rounded.Neg()
	}

	euros, cents, _ := strings.Cut(rounded.StringFixed(2), ".")
	return sign + groupThousands(euros) + "," + cents + CurrencySuffix
}

// FormatPrice is FormatAmount for float inputs. f must be finite; NaN and
// infinities panic.
func FormatPrice(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		panic(fmt.Sprintf("invoice: cannot format non-finite price %v", f))
	}
	return FormatAmount(decimal.NewFromFloat(f))
}

// FormatCents renders an amount already held in cents
func FormatCents(cents int64) string {
	return FormatAmount(decimal.New(cents, -2))
}

// groupThousands inserts a space between every group of three digits
func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// TaxLabel renders the footer label for rate, e.g. "10% USt." for 0.10.
// Fractional percents are truncated.
func TaxLabel(rate decimal.Decimal) string {
	return fmt.Sprintf("%d%% USt.", rate.Shift(2).IntPart())
}
