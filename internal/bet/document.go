package bet

import (
	"fmt"
	"strconv"
	"strings"
)

// governmentDocument replaces the all-zero legal-entity root.
const governmentDocument = "00000000000191"

// branchSuffix is appended to an 8-digit root to address the head office.
const branchSuffix = "0001"

// NormalizeDocument turns raw CNPJ/CPF input into its punctuated display
// form. An 8-digit root is expanded to a full head-office CNPJ with computed
// check digits. Lengths other than 11 and 14 are returned as bare digits.
func NormalizeDocument(raw string) string {
	d := digitsOnly(raw)
	if len(d) == 8 {
		if d == "00000000" {
			d = governmentDocument
		} else {
			base := d + branchSuffix
			dv, _ := CNPJCheckDigits(base)
			d = base + dv
		}
	}
	return formatDocument(d)
}

// CNPJCheckDigits computes the two modulus-11 check digits for a 12-digit
// CNPJ base (root + branch).
func CNPJCheckDigits(base string) (string, error) {
	if len(base) != 12 || digitsOnly(base) != base {
		return "", fmt.Errorf("cnpj base must be 12 digits, got %q", base)
	}
	first := mod11(base)
	second := mod11(base + strconv.Itoa(first))
	return strconv.Itoa(first) + strconv.Itoa(second), nil
}

// ValidCNPJ reports whether doc (punctuated or not) carries correct check digits.
func ValidCNPJ(doc string) bool {
	d := digitsOnly(doc)
	if len(d) != 14 {
		return false
	}
	dv, err := CNPJCheckDigits(d[:12])
	return err == nil && dv == d[12:]
}

// mod11 weights digits right to left with 2..9 repeating.
func mod11(digits string) int {
	sum, weight := 0, 2
	for i := len(digits) - 1; i >= 0; i-- {
		sum += int(digits[i]-'0') * weight
		weight++
		if weight > 9 {
			weight = 2
		}
	}
	r := sum % 11
	if r < 2 {
		return 0
	}
	return 11 - r
}

func formatDocument(d string) string {
	switch len(d) {
	case 14:
		return d[0:2] + "." + d[2:5] + "." + d[5:8] + "/" + d[8:12] + "-" + d[12:14]
	case 11:
		return d[0:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:11]
	default:
		return d
	}
}

func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func parseNonNegative(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
