// Package entity contains the core business objects of the project.
package entity

// Role represents the type of account a user holds in the marketplace.
// A user has at most one role at a time; the role decides which profile
// table applies and which dashboard the user is routed to.
type Role string

const (
	// RoleFarmer indicates a farmer selling produce and buying supplies.
	RoleFarmer Role = "farmer"
	// RoleStoreOwner indicates an agri-input store owner.
	RoleStoreOwner Role = "store_owner"
	// RoleBroker indicates a commission agent at a market yard.
	RoleBroker Role = "broker"
	// RoleExpert indicates an agricultural expert.
	RoleExpert Role = "expert"
	// RoleStudent indicates an agriculture student.
	RoleStudent Role = "student"
	// RoleConsumer indicates an end consumer buying produce.
	RoleConsumer Role = "consumer"

	// RoleNone is the zero value for an account whose role is not yet resolved.
	RoleNone Role = ""
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is one of the six known values.
func (r Role) IsValid() bool {
	switch r {
	case RoleFarmer, RoleStoreOwner, RoleBroker, RoleExpert, RoleStudent, RoleConsumer:
		return true
	default:
		return false
	}
}

// ParseRole converts a string to a Role, reporting whether it is valid.
// RoleNone is returned for anything outside the closed enumeration.
func ParseRole(s string) (Role, bool) {
	role := Role(s)
	if role.IsValid() {
		return role, true
	}

	return RoleNone, false
}

// AllRoles lists every valid role, in display order.
func AllRoles() []Role {
	return []Role{RoleFarmer, RoleStoreOwner, RoleBroker, RoleExpert, RoleStudent, RoleConsumer}
}
