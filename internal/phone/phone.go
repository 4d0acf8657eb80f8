package phone

import (
	"regexp"
	"strings"
)

const countryCode = "61"

var (
	nonDigit       = regexp.MustCompile(`\D`)
	domesticMobile = regexp.MustCompile(`^\+61\d{9}$`)
)

// Normalize turns freeform phone input into international format.
// It never fails; input that can't be mapped is returned best-effort.
func Normalize(raw string) string {
	digits := nonDigit.ReplaceAllString(raw, "")

	switch {
	case strings.HasPrefix(digits, "0"):
		return "+" + countryCode + digits[1:]
	case strings.HasPrefix(digits, countryCode):
		return "+" + digits
	case strings.HasPrefix(raw, "+"):
		// only the raw input is checked here, not the cleaned digits
		return raw
	default:
		return "+" + digits
	}
}

// IsValidDomesticMobile reports whether s is exactly +61 followed by 9 digits.
func IsValidDomesticMobile(s string) bool {
	return domesticMobile.MatchString(s)
}
