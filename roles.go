package auth

// roleRank orders roles for IsAtLeast comparisons
func roleRank(r AccountRole) (int, bool) {
	switch r {
	case RoleGuest:
		return 0, true
	case RoleMember:
		return 1, true
	case RoleAdmin:
		return 2, true
	case RoleOwner:
		return 3, true
	default:
		return 0, false
	}
}

// IsValidRole checks if the role is one of the predefined valid roles
func IsValidRole(r AccountRole) bool {
	_, ok := roleRank(r)
	return ok
}

// RoleIsAtLeast checks if a role meets the minimum required level.
// Unknown roles never qualify.
func RoleIsAtLeast(r, minRole AccountRole) bool {
	current, ok := roleRank(r)
	if !ok {
		return false
	}

	min, ok := roleRank(minRole)
	if !ok {
		return false
	}

	return current >= min
}

// AllRoles returns all predefined roles in hierarchical order
func AllRoles() []AccountRole {
	return []AccountRole{
		RoleGuest,
		RoleMember,
		RoleAdmin,
		RoleOwner,
	}
}

// ParseRole safely parses a string into an AccountRole
func ParseRole(roleStr string) (AccountRole, bool) {
	role := AccountRole(roleStr)
	return role, IsValidRole(role)
}
