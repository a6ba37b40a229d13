package auth

type Role string

const (
	RoleOwner    Role = "owner"    // Company owner - full access
	RoleManager  Role = "manager"  // Can read every employee's DTR
	RoleEmployee Role = "employee" // Regular employee
)

// Principal is the authenticated caller, taken from the access token claims.
type Principal struct {
	UserID     string
	EmployeeID string
	Role       Role
}

// IsManager checks if the caller is a manager or owner
func (p Principal) IsManager() bool {
	return p.Role == RoleManager || p.Role == RoleOwner
}
