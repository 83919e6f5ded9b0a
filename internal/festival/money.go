package festival

import (
	"fmt"
	"strings"
)

// Money is an amount in centavos. All price arithmetic is done on this
// integer type; conversion to text happens only for display.
type Money int64

// Cents returns the amount in minor units.
func (m Money) Cents() int64 { return int64(m) }

// Decimal renders the amount with two decimal places and a dot separator,
// e.g. "225.00".
func (m Money) Decimal() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// String renders the amount in Brazilian reais, e.g. "R$ 1.225,00".
func (m Money) String() string {
	v := int64(m)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	units := fmt.Sprintf("%d", v/100)
	var b strings.Builder
	for i, r := range units {
		if i > 0 && (len(units)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return fmt.Sprintf("%sR$ %s,%02d", sign, b.String(), v%100)
}
