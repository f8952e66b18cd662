package repositories

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMergeMembershipWinsOverLegacy(t *testing.T) {
	investor := primitive.NewObjectID()
	deal := primitive.NewObjectID()
	now := time.Now()

	memberships := []MembershipReferral{
		{InvestorID: investor, DealID: deal, InvitedAt: now},
	}
	legacy := []LegacyReferral{
		{InvestorID: investor, DealID: deal, SubscriptionStatus: "active", CreatedAt: now.Add(-time.Hour)},
	}

	merged := MergeReferredInvestors(memberships, legacy)
	if len(merged) != 1 {
		t.Fatalf("len = %d, want 1", len(merged))
	}
	if merged[0].Source != SourceMembership {
		t.Errorf("source = %s, want %s", merged[0].Source, SourceMembership)
	}
	if merged[0].SubscriptionStatus != "" {
		t.Errorf("legacy fields leaked into membership row: %q", merged[0].SubscriptionStatus)
	}
}

func TestMergeLegacyDedupFirstSeenWins(t *testing.T) {
	investor := primitive.NewObjectID()
	deal := primitive.NewObjectID()
	now := time.Now()

	// Two legacy rows for the same referral, the first one newer. The
	// caller supplies rows most recent first, so first-seen keeps the
	// newest row.
	legacy := []LegacyReferral{
		{InvestorID: investor, DealID: deal, SubscriptionStatus: "active", SubscriptionAmount: 500, CreatedAt: now},
		{InvestorID: investor, DealID: deal, SubscriptionStatus: "lapsed", SubscriptionAmount: 100, CreatedAt: now.Add(-24 * time.Hour)},
	}

	merged := MergeReferredInvestors(nil, legacy)
	if len(merged) != 1 {
		t.Fatalf("len = %d, want 1", len(merged))
	}
	if merged[0].SubscriptionStatus != "active" {
		t.Errorf("status = %q, want %q (first seen)", merged[0].SubscriptionStatus, "active")
	}
	if merged[0].SubscriptionAmount != 500 {
		t.Errorf("amount = %v, want 500", merged[0].SubscriptionAmount)
	}
}

func TestMergeNoInterleaving(t *testing.T) {
	dealA, dealB := primitive.NewObjectID(), primitive.NewObjectID()
	now := time.Now()

	memberships := []MembershipReferral{
		{InvestorID: primitive.NewObjectID(), DealID: dealA, InvitedAt: now},
		{InvestorID: primitive.NewObjectID(), DealID: dealB, InvitedAt: now.Add(-time.Hour)},
	}
	// Legacy row newer than every membership row; it must still come last
	legacy := []LegacyReferral{
		{InvestorID: primitive.NewObjectID(), DealID: dealA, CreatedAt: now.Add(time.Hour)},
	}

	merged := MergeReferredInvestors(memberships, legacy)
	if len(merged) != 3 {
		t.Fatalf("len = %d, want 3", len(merged))
	}
	if merged[0].Source != SourceMembership || merged[1].Source != SourceMembership {
		t.Error("membership block must come first")
	}
	if merged[2].Source != SourceLegacy {
		t.Error("legacy block must come last")
	}
}

func TestMergeSameInvestorDifferentDeals(t *testing.T) {
	investor := primitive.NewObjectID()
	dealA, dealB := primitive.NewObjectID(), primitive.NewObjectID()
	now := time.Now()

	memberships := []MembershipReferral{
		{InvestorID: investor, DealID: dealA, InvitedAt: now},
	}
	legacy := []LegacyReferral{
		{InvestorID: investor, DealID: dealB, CreatedAt: now},
	}

	// Dedup key is (investor, deal); the same investor on another deal is
	// a distinct entry
	merged := MergeReferredInvestors(memberships, legacy)
	if len(merged) != 2 {
		t.Fatalf("len = %d, want 2", len(merged))
	}
}

func TestMergeEmptySources(t *testing.T) {
	if merged := MergeReferredInvestors(nil, nil); len(merged) != 0 {
		t.Errorf("len = %d, want 0", len(merged))
	}

	legacy := []LegacyReferral{
		{InvestorID: primitive.NewObjectID(), DealID: primitive.NewObjectID(), CreatedAt: time.Now()},
	}
	merged := MergeReferredInvestors(nil, legacy)
	if len(merged) != 1 || merged[0].Source != SourceLegacy {
		t.Errorf("legacy-only merge wrong: %+v", merged)
	}
}

func TestMergePreservesMembershipFields(t *testing.T) {
	investor := primitive.NewObjectID()
	deal := primitive.NewObjectID()
	feePlan := primitive.NewObjectID()
	invitedAt := time.Now().Add(-48 * time.Hour)

	merged := MergeReferredInvestors([]MembershipReferral{
		{InvestorID: investor, DealID: deal, FeePlanID: feePlan, InvitedAt: invitedAt},
	}, nil)

	if len(merged) != 1 {
		t.Fatalf("len = %d, want 1", len(merged))
	}
	got := merged[0]
	if got.InvestorID != investor || got.DealID != deal {
		t.Error("identity fields not carried over")
	}
	if got.FeePlanID != feePlan {
		t.Error("fee plan id not carried over")
	}
	if got.InvitedAt == nil || !got.InvitedAt.Equal(invitedAt) {
		t.Error("invitedAt not carried over")
	}
}
