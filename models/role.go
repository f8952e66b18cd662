package models

// Role identifies what kind of account a user holds. Roles are stored as
// strings in the users collection but handled as an enumerated type so that
// authorization checks never depend on prefix matching.
type Role string

const (
	RoleInvestor          Role = "investor"
	RoleIntroducer        Role = "introducer"
	RolePartner           Role = "partner"
	RoleCommercialPartner Role = "commercial_partner"
	RoleArranger          Role = "arranger"
	RoleLawyer            Role = "lawyer"
	RoleStaffAdmin        Role = "staff_admin"
	RoleStaffOps          Role = "staff_ops"
	RoleCEO               Role = "ceo"
)

// Capability is a coarse permission bucket granted by a role.
type Capability string

const (
	// CapabilityStaff grants blanket access to entity-scoped resources
	// regardless of ownership links.
	CapabilityStaff Capability = "staff"
	// CapabilityArranger allows advancing commissions on behalf of deals.
	CapabilityArranger Capability = "arranger"
)

var roleCapabilities = map[Role][]Capability{
	RoleStaffAdmin: {CapabilityStaff, CapabilityArranger},
	RoleStaffOps:   {CapabilityStaff},
	RoleCEO:        {CapabilityStaff, CapabilityArranger},
	RoleArranger:   {CapabilityArranger},
}

// HasCapability reports whether the role carries the given capability.
// Unknown roles carry no capabilities.
func HasCapability(role Role, cap Capability) bool {
	for _, c := range roleCapabilities[role] {
		if c == cap {
			return true
		}
	}
	return false
}

// IsStaff is a shorthand for the staff override used across handlers.
func IsStaff(role Role) bool {
	return HasCapability(role, CapabilityStaff)
}

// ValidRole reports whether the stored string is a known role.
func ValidRole(role Role) bool {
	switch role {
	case RoleInvestor, RoleIntroducer, RolePartner, RoleCommercialPartner,
		RoleArranger, RoleLawyer, RoleStaffAdmin, RoleStaffOps, RoleCEO:
		return true
	}
	return false
}
