package festival

import "strings"

// Digits strips every non-digit rune from s.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidCPF reports whether doc is a well-formed CPF: 11 digits after
// stripping punctuation, not all equal, with both modulo-11 check digits
// matching.
func ValidCPF(doc string) bool {
	d := Digits(doc)
	if len(d) != 11 {
		return false
	}
	if strings.Count(d, d[:1]) == 11 {
		return false
	}
	return cpfCheckDigit(d[:9]) == d[9] && cpfCheckDigit(d[:10]) == d[10]
}

// cpfCheckDigit computes the next check digit for the given prefix, with
// weights running from len(prefix)+1 down to 2.
func cpfCheckDigit(prefix string) byte {
	sum := 0
	weight := len(prefix) + 1
	for i := 0; i < len(prefix); i++ {
		sum += int(prefix[i]-'0') * weight
		weight--
	}
	r := (sum * 10) % 11
	if r == 10 {
		r = 0
	}
	return byte('0' + r)
}
