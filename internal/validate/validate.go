package validate

import (
	"regexp"
	"strings"
)

var (
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	rePhone = regexp.MustCompile(`^\+?[0-9 ()-]{5,20}$`)
	reKind  = regexp.MustCompile(`^(SALE|RENTAL)$`)
)

// ID validates a simple resource identifier (item/order/party ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 60 {
		return "", false
	}
	return s, true
}

func Phone(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true // optional
	}
	return s, rePhone.MatchString(s)
}

// Qty clamps a requested quantity to [1,999] to avoid abuse.
func Qty(n int) int {
	if n < 1 {
		return 1
	}
	if n > 999 {
		return 999
	}
	return n
}

func Price(f float64) bool { return f >= 0 }

// TaxRate accepts a fraction, not a percentage.
func TaxRate(f float64) bool { return f >= 0 && f <= 1 }

// Kind validates allowed item kind enums.
func Kind(s string) (string, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	return s, s != "" && reKind.MatchString(s)
}
