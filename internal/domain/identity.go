package domain

const RoleAdmin = "admin"

// Identity is the authenticated caller as supplied by the auth middleware.
type Identity struct {
	UserID int
	Email  string
	Role   string
}

func (i Identity) IsPrivileged() bool {
	return i.Role == RoleAdmin
}
