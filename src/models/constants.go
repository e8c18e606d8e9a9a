package models

// Role represents a user's permission level
type Role string

const (
	// RoleAdmin can manage users and all catalog data
	RoleAdmin Role = "admin"
	// RoleMaintainer edits catalog data
	RoleMaintainer Role = "maintainer"
	// RoleViewer has read access to protected catalog routes
	RoleViewer Role = "viewer"
	// RoleStudent is the role given to self-registered accounts
	RoleStudent Role = "student"
)

// Roles lists every valid role in display order
var Roles = []Role{RoleAdmin, RoleMaintainer, RoleViewer, RoleStudent}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// Table names
const (
	TableUsers        = "users"
	TableDestinations = "destinations"
	TableProducts     = "products"
)
