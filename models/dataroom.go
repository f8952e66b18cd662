package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DataRoomAccess grants an investor access to a deal's data room until
// ExpiresAt. RevokedAt stays nil while the grant is active.
type DataRoomAccess struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	DealID     primitive.ObjectID `json:"dealId" bson:"dealId"`
	InvestorID primitive.ObjectID `json:"investorId" bson:"investorId"`
	GrantedBy  primitive.ObjectID `json:"grantedBy,omitempty" bson:"grantedBy,omitempty"`

	ExpiresAt time.Time  `json:"expiresAt" bson:"expiresAt"`
	RevokedAt *time.Time `json:"revokedAt,omitempty" bson:"revokedAt,omitempty"`
	Note      string     `json:"note,omitempty" bson:"note,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// DealDocument is a data-room document. InvestorVisible is reset to false
// once a deal has no unrevoked access grants left.
type DealDocument struct {
	ID              primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	DealID          primitive.ObjectID `json:"dealId" bson:"dealId"`
	Name            string             `json:"name" bson:"name"`
	StorageKey      string             `json:"storageKey" bson:"storageKey"`
	InvestorVisible bool               `json:"investorVisible" bson:"investorVisible"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// GrantDataRoomAccessRequest is the staff body for granting access.
type GrantDataRoomAccessRequest struct {
	DealID     string `json:"dealId" validate:"required"`
	InvestorID string `json:"investorId" validate:"required"`
	Days       int    `json:"days" validate:"required,gt=0,lte=365"`
	Note       string `json:"note,omitempty"`
}

// ExtendDataRoomAccessRequest extends an existing grant.
type ExtendDataRoomAccessRequest struct {
	Days int `json:"days" validate:"required,gt=0,lte=365"`
}
