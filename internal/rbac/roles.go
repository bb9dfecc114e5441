package rbac

// Role is the closed set of privilege levels.
// Keep the literals stable; they are persisted on user rows and embedded in
// access tokens. Ordered by privilege: ADMIN > TI > VIEWER.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleTI     Role = "TI"
	RoleViewer Role = "VIEWER"
)

// Parse maps a raw role string to a Role. Unknown strings are rejected;
// there is no unchecked casting anywhere else.
func Parse(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleTI, RoleViewer:
		return Role(s), true
	default:
		return "", false
	}
}

// Allowed reports whether role is one of allowed.
// Pure function, no side effects, no bypass roles.
func Allowed(role Role, allowed ...Role) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}
