package validate

import (
	"strings"
	"testing"

	"paddyseed/internal/domain"
)

func TestEmail(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"asha@example.com", true},
		{"  asha@example.com  ", true},
		{"asha@example", false},
		{"@example.com", false},
		{"", false},
		{strings.Repeat("a", 95) + "@ex.com", false},
	}
	for _, c := range cases {
		if _, ok := Email(c.in); ok != c.ok {
			t.Errorf("Email(%q) = %v, want %v", c.in, ok, c.ok)
		}
	}
}

func TestTitleAndCommentWindows(t *testing.T) {
	if _, ok := Title("Good"); ok {
		t.Error("4-char title must fail")
	}
	if _, ok := Title("Great"); !ok {
		t.Error("5-char title must pass")
	}
	if _, ok := Title(strings.Repeat("x", 101)); ok {
		t.Error("101-char title must fail")
	}
	if _, ok := Comment("too short"); ok {
		t.Error("9-char comment must fail")
	}
	if _, ok := Comment("just long enough!"); !ok {
		t.Error("comment inside window must pass")
	}
	if _, ok := Comment(strings.Repeat("x", 501)); ok {
		t.Error("501-char comment must fail")
	}
}

func TestRating(t *testing.T) {
	for _, n := range []int{1, 3, 5} {
		if !Rating(n) {
			t.Errorf("Rating(%d) must pass", n)
		}
	}
	for _, n := range []int{0, 6, -1} {
		if Rating(n) {
			t.Errorf("Rating(%d) must fail", n)
		}
	}
}

func TestAddress(t *testing.T) {
	valid := domain.Address{
		Name:    "Asha Rao",
		Phone:   "9876543210",
		Street:  "12 Lake Road",
		City:    "Pune",
		State:   "MH",
		ZipCode: "411001",
	}
	if err := Address(valid); err != nil {
		t.Fatalf("valid address rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*domain.Address)
		field  string
	}{
		{"missing name", func(a *domain.Address) { a.Name = "  " }, "shippingAddress.name"},
		{"short phone", func(a *domain.Address) { a.Phone = "12345" }, "shippingAddress.phone"},
		{"phone with letters", func(a *domain.Address) { a.Phone = "98765abcde" }, "shippingAddress.phone"},
		{"missing street", func(a *domain.Address) { a.Street = "" }, "shippingAddress.street"},
		{"missing city", func(a *domain.Address) { a.City = "" }, "shippingAddress.city"},
		{"missing state", func(a *domain.Address) { a.State = "" }, "shippingAddress.state"},
		{"bad zip", func(a *domain.Address) { a.ZipCode = "41" }, "shippingAddress.zipCode"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a := valid
			c.mutate(&a)
			err := Address(a)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if err.Field != c.field {
				t.Fatalf("field = %q, want %q", err.Field, c.field)
			}
		})
	}
}

func TestID(t *testing.T) {
	if _, ok := ID("550e8400-e29b-41d4-a716-446655440000"); !ok {
		t.Error("uuid must pass")
	}
	if _, ok := ID("honey-wild-500"); !ok {
		t.Error("slug must pass")
	}
	if _, ok := ID("has space"); ok {
		t.Error("space must fail")
	}
	if _, ok := ID(""); ok {
		t.Error("empty must fail")
	}
}
