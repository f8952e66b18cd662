package utils

import (
	"strings"
	"testing"

	"github.com/AveloCapital/avelo_backend/models"
)

func TestGenerateReferralCodePrefixes(t *testing.T) {
	tests := []struct {
		entityType models.ReferringEntityType
		prefix     string
	}{
		{models.EntityIntroducer, "INT-"},
		{models.EntityPartner, "PTR-"},
		{models.EntityCommercialPartner, "CP-"},
	}

	for _, tt := range tests {
		t.Run(string(tt.entityType), func(t *testing.T) {
			code, err := GenerateReferralCode(tt.entityType)
			if err != nil {
				t.Fatalf("GenerateReferralCode() error = %v", err)
			}
			if !strings.HasPrefix(code, tt.prefix) {
				t.Errorf("code %q missing prefix %q", code, tt.prefix)
			}
			if len(code) <= len(tt.prefix) {
				t.Errorf("code %q has no random part", code)
			}
		})
	}
}

func TestGenerateReferralCodeUnknownType(t *testing.T) {
	if _, err := GenerateReferralCode(models.ReferringEntityType("bogus")); err == nil {
		t.Error("expected error for unknown entity type")
	}
}

func TestGenerateReferralCodeUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := GenerateReferralCode(models.EntityIntroducer)
		if err != nil {
			t.Fatalf("GenerateReferralCode() error = %v", err)
		}
		if seen[code] {
			t.Fatalf("duplicate code %q after %d generations", code, i)
		}
		seen[code] = true
	}
}
