package models

import "testing"

func TestParseReferringEntityType(t *testing.T) {
	valid := map[string]ReferringEntityType{
		"introducer":         EntityIntroducer,
		"partner":            EntityPartner,
		"commercial_partner": EntityCommercialPartner,
	}
	for input, want := range valid {
		got, err := ParseReferringEntityType(input)
		if err != nil {
			t.Errorf("ParseReferringEntityType(%q) error = %v", input, err)
		}
		if got != want {
			t.Errorf("ParseReferringEntityType(%q) = %s, want %s", input, got, want)
		}
	}

	for _, input := range []string{"", "investor", "Introducer", "commercial-partner"} {
		if _, err := ParseReferringEntityType(input); err != ErrUnknownEntityType {
			t.Errorf("ParseReferringEntityType(%q) error = %v, want ErrUnknownEntityType", input, err)
		}
	}
}

func TestEntityCollections(t *testing.T) {
	tests := []struct {
		entityType   ReferringEntityType
		wantColl     string
		wantJunction string
	}{
		{EntityIntroducer, "introducers", "introducer_users"},
		{EntityPartner, "partners", "partner_users"},
		{EntityCommercialPartner, "commercialPartners", "commercial_partner_users"},
	}

	for _, tt := range tests {
		coll, err := tt.entityType.Collection()
		if err != nil || coll != tt.wantColl {
			t.Errorf("Collection(%s) = %s, %v; want %s", tt.entityType, coll, err, tt.wantColl)
		}
		junction, err := tt.entityType.UserJunctionCollection()
		if err != nil || junction != tt.wantJunction {
			t.Errorf("UserJunctionCollection(%s) = %s, %v; want %s", tt.entityType, junction, err, tt.wantJunction)
		}
	}

	if _, err := ReferringEntityType("bogus").Collection(); err != ErrUnknownEntityType {
		t.Errorf("Collection(bogus) error = %v, want ErrUnknownEntityType", err)
	}
}
