package auth

type Role string

const (
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

func (r Role) IsValid() bool { return r == RoleEmployee || r == RoleAdmin }

// Actor is the caller identified by the bearer token.
type Actor struct {
	EmployeeID string
	Role       Role
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
