package domain

// SystemRole enumerates global administrative roles held by operators.
type SystemRole string

const (
	SystemRoleAdmin   SystemRole = "ADMIN"
	SystemRoleSupport SystemRole = "SUPPORT"
)

// ValidSystemRole reports whether the value is a known system role.
func ValidSystemRole(role SystemRole) bool {
	return role == SystemRoleAdmin || role == SystemRoleSupport
}

// Operator is a global administrative account with exactly one system role.
type Operator struct {
	Identity
	SystemRole SystemRole
}

// CanCreate reports whether an operator holding this role may create an
// operator with the target role. Admins may create admins and support;
// support may only create support.
func (r SystemRole) CanCreate(target SystemRole) bool {
	switch r {
	case SystemRoleAdmin:
		return target == SystemRoleAdmin || target == SystemRoleSupport
	case SystemRoleSupport:
		return target == SystemRoleSupport
	default:
		return false
	}
}
