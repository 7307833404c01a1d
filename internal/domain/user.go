package domain

const (
	RoleUser   = "user"
	RoleVendor = "vendor"
	RoleAdmin  = "admin"
)

type User struct {
	ID    string `db:"id" json:"id"`
	Email string `db:"email" json:"email"`
	Name  string `db:"name" json:"name"`
	Hash  string `db:"password_hash" json:"-"`
	Role  string `db:"role" json:"role"`
}

// CanAccess is the owner-or-admin predicate used for orders, payments and
// reviews alike, instead of repeating the check inline per operation.
func (u *User) CanAccess(ownerID string) bool {
	if u == nil {
		return false
	}
	return u.ID == ownerID || u.Role == RoleAdmin
}
