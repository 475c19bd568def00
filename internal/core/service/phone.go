package service

import (
	"fmt"
	"strings"
)

// NormalizePhone canonicalizes national 10/11-digit phone numbers to the
// +7 (AAA) BBB-CC-DD form. Eleven digits starting with 7 or 8 and bare
// ten-digit numbers are recognized; anything else passes through unchanged.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case len(digits) == 11 && (digits[0] == '7' || digits[0] == '8'):
		digits = "7" + digits[1:]
	case len(digits) == 10:
		digits = "7" + digits
	default:
		return raw
	}

	return fmt.Sprintf("+%c (%s) %s-%s-%s",
		digits[0], digits[1:4], digits[4:7], digits[7:9], digits[9:11])
}
