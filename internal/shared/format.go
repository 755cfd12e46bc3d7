package shared

import (
	"strconv"
	"strings"
)

// FormatRupiah renders an amount the way the report pages display money:
// "Rp 1.234.567,89" with dot thousand separators and a comma decimal mark.
func FormatRupiah(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(intPart[i : i+3])
	}

	out := "Rp " + b.String() + "," + frac
	if neg {
		out = "Rp -" + b.String() + "," + frac
	}
	return out
}
