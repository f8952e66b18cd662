package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Investor is the investing counterparty record. Several users may be linked
// to one investor (family offices, corporate investors); the investor_users
// junction collection holds the links, ordered by linkedAt.
type Investor struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Email     string             `json:"email,omitempty" bson:"email,omitempty"`
	Country   string             `json:"country,omitempty" bson:"country,omitempty"`
	KYCStatus string             `json:"kycStatus,omitempty" bson:"kycStatus,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// InvestorUser links a portal user to an investor record.
type InvestorUser struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	InvestorID primitive.ObjectID `json:"investorId" bson:"investorId"`
	UserID     primitive.ObjectID `json:"userId" bson:"userId"`
	LinkedAt   time.Time          `json:"linkedAt" bson:"linkedAt"`
}
