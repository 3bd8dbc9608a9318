// Package validate holds the form rules the storefront checks before a
// request ever reaches the backend.
package validate

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	reEmail   = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reQ       = regexp.MustCompile(`^[\p{L}\p{N} _'&.,\-]{1,80}$`)
	reID      = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	rePhone   = regexp.MustCompile(`^[6-9][0-9]{9}$`)
	rePincode = regexp.MustCompile(`^[1-9][0-9]{5}$`)
	reOTP     = regexp.MustCompile(`^[0-9]{4,6}$`)
	reCoupon  = regexp.MustCompile(`^[A-Za-z0-9_-]{3,32}$`)
)

// MaxQty bounds a single cart line.
const MaxQty = 50

func Email(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) == 0 || len(s) > 100 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Q validates a search query: trims, enforces allowed characters and max length
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if utf8.RuneCountInString(s) > 80 {
		s = string([]rune(s)[:80])
	}
	return s, reQ.MatchString(s)
}

func Qty(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	if n > MaxQty {
		return MaxQty
	}
	return n
}

// ID validates a resource identifier (product/category/order ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || utf8.RuneCountInString(s) > 60 {
		return "", false
	}
	return s, true
}

// Phone accepts a ten digit mobile number, tolerating a +91 prefix and spaces.
func Phone(s string) (string, bool) {
	s = strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "+91")
	return s, rePhone.MatchString(s)
}

func Pincode(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, rePincode.MatchString(s)
}

func OTP(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reOTP.MatchString(s)
}

// Coupon normalises a coupon code to upper case.
func Coupon(s string) (string, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	return s, reCoupon.MatchString(s)
}

// Rating parses a 1..5 star rating.
func Rating(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > 5 {
		return 0, false
	}
	return n, true
}

// Text validates required free text such as review comments and address lines.
func Text(s string, max int) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || utf8.RuneCountInString(s) > max {
		return "", false
	}
	return s, true
}

// Password enforces length plus mixed character classes for new passwords.
func Password(s string) bool {
	l := len(s)
	if l < 8 || l > 64 {
		return false
	}
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	return hasLower && hasUpper && hasDigit && hasSymbol
}

// Errors collects per-field messages for a form.
type Errors map[string]string

func (e Errors) Add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

func (e Errors) Any() bool { return len(e) > 0 }
