// repositories/referral_merge.go
package repositories

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReferralSource tags which data model a referred-investor record came from.
type ReferralSource string

const (
	// SourceMembership rows come from the current dealMemberships model.
	SourceMembership ReferralSource = "membership"
	// SourceLegacy rows come from the old subscription/commission linkage.
	SourceLegacy ReferralSource = "legacy"
)

// MembershipReferral is the normalized shape of a current-model referral row.
type MembershipReferral struct {
	InvestorID primitive.ObjectID
	DealID     primitive.ObjectID
	UserID     primitive.ObjectID
	FeePlanID  primitive.ObjectID
	InvitedAt  time.Time
}

// LegacyReferral is the normalized shape of a legacy-model referral row.
// One investor+deal pair can appear several times in the legacy source
// (multiple commission rows for one referral).
type LegacyReferral struct {
	InvestorID         primitive.ObjectID
	DealID             primitive.ObjectID
	SubscriptionStatus string
	SubscriptionAmount float64
	Currency           string
	CreatedAt          time.Time
}

// ReferredInvestor is one entry in the merged referral listing.
type ReferredInvestor struct {
	InvestorID primitive.ObjectID `json:"investor_id"`
	DealID     primitive.ObjectID `json:"deal_id"`
	Source     ReferralSource     `json:"source"`

	InvestorName string `json:"investor_name,omitempty"`
	DealName     string `json:"deal_name,omitempty"`

	// Populated only for membership-sourced rows
	FeePlanID primitive.ObjectID `json:"fee_plan_id,omitempty"`
	InvitedAt *time.Time         `json:"invited_at,omitempty"`

	// Populated only for legacy-sourced rows
	SubscriptionStatus string     `json:"subscription_status,omitempty"`
	SubscriptionAmount float64    `json:"subscription_amount,omitempty"`
	Currency           string     `json:"currency,omitempty"`
	ReferredAt         *time.Time `json:"referred_at,omitempty"`

	// CanDispatch is true when no accepted fee plan exists yet for the
	// (deal, entity, term sheet) triple; filled in by the repository.
	CanDispatch bool `json:"can_dispatch"`
}

func referralKey(investorID, dealID primitive.ObjectID) string {
	return fmt.Sprintf("%s-%s", investorID.Hex(), dealID.Hex())
}

// MergeReferredInvestors combines the two referral data models into one
// deduplicated listing. Membership rows are authoritative: a legacy row whose
// (investor, deal) pair is already represented by a membership row is
// dropped. The legacy source is additionally deduplicated against itself,
// first-seen wins. Ordering is the membership block first, then the legacy
// block, each in the order the caller supplied (most recent first); sources
// are never interleaved.
func MergeReferredInvestors(memberships []MembershipReferral, legacy []LegacyReferral) []ReferredInvestor {
	merged := make([]ReferredInvestor, 0, len(memberships)+len(legacy))

	seen := make(map[string]bool, len(memberships))
	for _, m := range memberships {
		m := m
		seen[referralKey(m.InvestorID, m.DealID)] = true
		merged = append(merged, ReferredInvestor{
			InvestorID: m.InvestorID,
			DealID:     m.DealID,
			Source:     SourceMembership,
			FeePlanID:  m.FeePlanID,
			InvitedAt:  &m.InvitedAt,
		})
	}

	legacySeen := make(map[string]bool, len(legacy))
	for _, l := range legacy {
		l := l
		key := referralKey(l.InvestorID, l.DealID)
		if seen[key] || legacySeen[key] {
			continue
		}
		legacySeen[key] = true
		merged = append(merged, ReferredInvestor{
			InvestorID:         l.InvestorID,
			DealID:             l.DealID,
			Source:             SourceLegacy,
			SubscriptionStatus: l.SubscriptionStatus,
			SubscriptionAmount: l.SubscriptionAmount,
			Currency:           l.Currency,
			ReferredAt:         &l.CreatedAt,
		})
	}

	return merged
}
