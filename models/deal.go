package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Deal is a fundraising transaction investors subscribe into.
type Deal struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	VehicleID primitive.ObjectID `json:"vehicleId,omitempty" bson:"vehicleId,omitempty"`
	Currency  string             `json:"currency" bson:"currency"`
	Status    string             `json:"status" bson:"status"` // open, closing, closed
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// TermSheet captures the commercial terms a fee plan is negotiated against.
type TermSheet struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	DealID    primitive.ObjectID `json:"dealId" bson:"dealId"`
	Version   int                `json:"version" bson:"version"`
	Title     string             `json:"title" bson:"title"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}
