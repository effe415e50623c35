package domain

// Role is the resolved role of the caller
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleTechnician Role = "technician"
	RoleAdmin      Role = "admin"
)

// Actor is the resolved identity performing an operation.
// Identity resolution happens upstream; the core trusts this value.
type Actor struct {
	ID   int64
	Role Role
}

// ValidRole returns true if the role is one of the known roles
func ValidRole(r Role) bool {
	return r == RoleCustomer || r == RoleTechnician || r == RoleAdmin
}
