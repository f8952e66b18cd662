package repositories

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestApplyCanDispatch(t *testing.T) {
	dealA := primitive.NewObjectID()
	dealB := primitive.NewObjectID()
	termSheet1 := primitive.NewObjectID()
	termSheet2 := primitive.NewObjectID()
	planOnSheet1 := primitive.NewObjectID()
	planOnSheet2 := primitive.NewObjectID()

	planTermSheets := map[primitive.ObjectID]primitive.ObjectID{
		planOnSheet1: termSheet1,
		planOnSheet2: termSheet2,
	}
	// The entity holds one accepted plan: deal A on term sheet 1
	accepted := map[dealTermSheet]bool{
		{DealID: dealA, TermSheetID: termSheet1}: true,
	}

	listing := []ReferredInvestor{
		// Assigned plan on the accepted term sheet: blocked
		{DealID: dealA, FeePlanID: planOnSheet1},
		// Assigned plan on a different term sheet of the same deal: free
		{DealID: dealA, FeePlanID: planOnSheet2},
		// Legacy row on deal A has no term sheet; the accepted plan blocks it
		{DealID: dealA},
		// Membership on another deal is untouched by deal A's plan
		{DealID: dealB, FeePlanID: planOnSheet1},
		// No accepted plan anywhere near deal B
		{DealID: dealB},
	}

	applyCanDispatch(listing, planTermSheets, accepted)

	want := []bool{false, true, false, true, true}
	for i, entry := range listing {
		if entry.CanDispatch != want[i] {
			t.Errorf("listing[%d].CanDispatch = %v, want %v", i, entry.CanDispatch, want[i])
		}
	}
}

func TestApplyCanDispatchNoAcceptedPlans(t *testing.T) {
	listing := []ReferredInvestor{
		{DealID: primitive.NewObjectID(), FeePlanID: primitive.NewObjectID()},
		{DealID: primitive.NewObjectID()},
	}

	applyCanDispatch(listing, nil, nil)

	for i, entry := range listing {
		if !entry.CanDispatch {
			t.Errorf("listing[%d].CanDispatch = false, want true", i)
		}
	}
}

func TestApplyCanDispatchUnresolvableAssignedPlan(t *testing.T) {
	// An assigned plan that no longer resolves falls back to the deal-level
	// check rather than silently allowing dispatch
	deal := primitive.NewObjectID()
	accepted := map[dealTermSheet]bool{
		{DealID: deal, TermSheetID: primitive.NewObjectID()}: true,
	}

	listing := []ReferredInvestor{
		{DealID: deal, FeePlanID: primitive.NewObjectID()},
	}

	applyCanDispatch(listing, nil, accepted)

	if listing[0].CanDispatch {
		t.Error("CanDispatch = true, want false for deal with an accepted plan")
	}
}

func TestApplyCanDispatchDealBWherePlanSheetAccepted(t *testing.T) {
	// Term sheets are deal-scoped: an accepted (dealA, sheet) pair never
	// blocks a row on deal B even when the row's plan shares the sheet
	dealA := primitive.NewObjectID()
	dealB := primitive.NewObjectID()
	sheet := primitive.NewObjectID()
	plan := primitive.NewObjectID()

	accepted := map[dealTermSheet]bool{
		{DealID: dealA, TermSheetID: sheet}: true,
	}
	planTermSheets := map[primitive.ObjectID]primitive.ObjectID{plan: sheet}

	listing := []ReferredInvestor{{DealID: dealB, FeePlanID: plan}}

	applyCanDispatch(listing, planTermSheets, accepted)

	if !listing[0].CanDispatch {
		t.Error("CanDispatch = false, want true for a different deal")
	}
}
