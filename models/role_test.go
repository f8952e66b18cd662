package models

import "testing"

func TestHasCapability(t *testing.T) {
	tests := []struct {
		role Role
		cap  Capability
		want bool
	}{
		{RoleStaffAdmin, CapabilityStaff, true},
		{RoleStaffAdmin, CapabilityArranger, true},
		{RoleStaffOps, CapabilityStaff, true},
		{RoleStaffOps, CapabilityArranger, false},
		{RoleCEO, CapabilityStaff, true},
		{RoleArranger, CapabilityArranger, true},
		{RoleArranger, CapabilityStaff, false},
		{RoleInvestor, CapabilityStaff, false},
		{RoleIntroducer, CapabilityStaff, false},
		{Role("staff_impostor"), CapabilityStaff, false},
		{Role(""), CapabilityStaff, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.cap), func(t *testing.T) {
			if got := HasCapability(tt.role, tt.cap); got != tt.want {
				t.Errorf("HasCapability(%s, %s) = %v, want %v", tt.role, tt.cap, got, tt.want)
			}
		})
	}
}

func TestIsStaff(t *testing.T) {
	staff := []Role{RoleStaffAdmin, RoleStaffOps, RoleCEO}
	for _, role := range staff {
		if !IsStaff(role) {
			t.Errorf("IsStaff(%s) = false, want true", role)
		}
	}

	nonStaff := []Role{RoleInvestor, RoleIntroducer, RolePartner, RoleCommercialPartner, RoleArranger, RoleLawyer}
	for _, role := range nonStaff {
		if IsStaff(role) {
			t.Errorf("IsStaff(%s) = true, want false", role)
		}
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []Role{
		RoleInvestor, RoleIntroducer, RolePartner, RoleCommercialPartner,
		RoleArranger, RoleLawyer, RoleStaffAdmin, RoleStaffOps, RoleCEO,
	} {
		if !ValidRole(role) {
			t.Errorf("ValidRole(%s) = false, want true", role)
		}
	}

	for _, role := range []Role{"", "admin", "staff", "Staff_Admin"} {
		if ValidRole(role) {
			t.Errorf("ValidRole(%s) = true, want false", role)
		}
	}
}
