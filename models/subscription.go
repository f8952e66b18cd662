package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Subscription is a legacy-model row linking an investor to a deal or vehicle
// directly through introducerId/partnerId columns. These rows predate
// DealMembership and coexist with it; referral listings must merge both.
type Subscription struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	InvestorID primitive.ObjectID `json:"investorId" bson:"investorId"`
	DealID     primitive.ObjectID `json:"dealId" bson:"dealId"`
	VehicleID  primitive.ObjectID `json:"vehicleId,omitempty" bson:"vehicleId,omitempty"`

	IntroducerID primitive.ObjectID `json:"introducerId,omitempty" bson:"introducerId,omitempty"`
	PartnerID    primitive.ObjectID `json:"partnerId,omitempty" bson:"partnerId,omitempty"`

	Amount    float64   `json:"amount" bson:"amount"`
	Currency  string    `json:"currency" bson:"currency"`
	Status    string    `json:"status" bson:"status"` // pending, signed, funded, withdrawn
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}
