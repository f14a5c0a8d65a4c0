package validate

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reEmail   = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reID      = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reOTP     = regexp.MustCompile(`^[0-9]{6}$`)
	reHostel  = regexp.MustCompile(`^[A-Za-z0-9 _-]{1,30}$`)
	reRoom    = regexp.MustCompile(`^[A-Za-z0-9-]{1,10}$`)
	rePhone   = regexp.MustCompile(`^[0-9+\- ]{7,15}$`)
	reCat     = regexp.MustCompile(`^(electronics|books|clothing|furniture|sports|stationery|cycle|other)$`)
	reCond    = regexp.MustCompile(`^(new|like_new|good|fair)$`)
	reStatus  = regexp.MustCompile(`^(pending|confirmed|delivered|cancelled)$`)
	reProdSta = regexp.MustCompile(`^(available|reserved|delivered)$`)
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 60 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// ID validates resource identifiers (users, products, orders).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

func OTP(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reOTP.MatchString(s)
}

func Hostel(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reHostel.MatchString(s)
}

func Room(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reRoom.MatchString(s)
}

func Phone(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true // optional
	}
	return s, rePhone.MatchString(s)
}

func Category(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	return s, reCat.MatchString(s)
}

func Condition(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	return s, reCond.MatchString(s)
}

func OrderStatus(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	return s, reStatus.MatchString(s)
}

func ProductStatus(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	return s, reProdSta.MatchString(s)
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 60 {
		return "", false
	}
	return s, true
}

// Qty clamps a quantity into [1,50] to avoid abuse.
func Qty(n int) int {
	if n < 1 {
		return 1
	}
	if n > 50 {
		return 50
	}
	return n
}

func Rating(n int) bool { return n >= 1 && n <= 5 }

// Q validates a search query: trims, enforces allowed characters and max length.
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if len(s) > 50 {
		s = s[:50]
	}
	for _, r := range s {
		if !(r == ' ' || r == '_' || r == '-' || r == '\'' ||
			('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9')) {
			return "", false
		}
	}
	return s, true
}

// Price parses a positive price with at most two decimal places of intent.
func Price(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 || v > 1_000_000 {
		return 0, false
	}
	return v, true
}

// Password enforces a length window plus character classes.
func Password(s string) bool {
	l := len(s)
	if l < 8 || l > 64 {
		return false
	}
	var hasLower, hasUpper, hasDigit bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		}
	}
	return hasLower && hasUpper && hasDigit
}
