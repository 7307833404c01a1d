package validate

import (
	"regexp"
	"strings"

	"paddyseed/internal/domain"
)

var (
	rePhone = regexp.MustCompile(`^[0-9]{10}$`)
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reZip   = regexp.MustCompile(`^[0-9]{5,6}$`)
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 100 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// ID validates a resource identifier (UUIDs and seeded slugs both pass).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

func Rating(n int) bool { return n >= 1 && n <= 5 }

// Title enforces the 5-100 character review title window.
func Title(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, len(s) >= 5 && len(s) <= 100
}

// Comment enforces the 10-500 character review comment window.
func Comment(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, len(s) >= 10 && len(s) <= 500
}

// Address checks every required shipping field and returns the first failure.
func Address(a domain.Address) *domain.ValidationError {
	if strings.TrimSpace(a.Name) == "" {
		return domain.Invalid("shippingAddress.name", "name is required")
	}
	if !rePhone.MatchString(a.Phone) {
		return domain.Invalid("shippingAddress.phone", "must be a 10-digit number")
	}
	if strings.TrimSpace(a.Street) == "" {
		return domain.Invalid("shippingAddress.street", "street is required")
	}
	if strings.TrimSpace(a.City) == "" {
		return domain.Invalid("shippingAddress.city", "city is required")
	}
	if strings.TrimSpace(a.State) == "" {
		return domain.Invalid("shippingAddress.state", "state is required")
	}
	if !reZip.MatchString(a.ZipCode) {
		return domain.Invalid("shippingAddress.zipCode", "zip code is required")
	}
	return nil
}

// Password enforces a simple length window for login checks.
func Password(s string) bool {
	return len(s) >= 8 && len(s) <= 72 // bcrypt input cap
}
