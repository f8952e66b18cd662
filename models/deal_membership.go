package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DealMembership is the current-generation association of a user (and
// optionally an investor) with a deal, including referral attribution and the
// fee plan assigned to the referral.
type DealMembership struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	DealID     primitive.ObjectID `json:"dealId" bson:"dealId"`
	UserID     primitive.ObjectID `json:"userId" bson:"userId"`
	InvestorID primitive.ObjectID `json:"investorId,omitempty" bson:"investorId,omitempty"`

	ReferredBy        *ReferringEntityRef `json:"referredBy,omitempty" bson:"referredBy,omitempty"`
	AssignedFeePlanID primitive.ObjectID  `json:"assignedFeePlanId,omitempty" bson:"assignedFeePlanId,omitempty"`

	InvitedAt time.Time `json:"invitedAt" bson:"invitedAt"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}
