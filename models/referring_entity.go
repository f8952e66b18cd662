package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReferringEntityType discriminates the three kinds of counterparty that can
// bring investors to deals.
type ReferringEntityType string

const (
	EntityIntroducer        ReferringEntityType = "introducer"
	EntityPartner           ReferringEntityType = "partner"
	EntityCommercialPartner ReferringEntityType = "commercial_partner"
)

// ErrUnknownEntityType is returned when a stored or supplied entity type
// string is not one of the three known variants.
var ErrUnknownEntityType = errors.New("unknown referring entity type")

// ReferringEntityRef is a tagged reference to exactly one referring entity.
// Fee plans and commissions carry this instead of three nullable foreign
// keys, so "exactly one is set" holds by construction.
type ReferringEntityRef struct {
	Type ReferringEntityType `json:"type" bson:"type"`
	ID   primitive.ObjectID  `json:"id" bson:"id"`
}

// Collection returns the mongo collection name backing the entity type.
func (t ReferringEntityType) Collection() (string, error) {
	switch t {
	case EntityIntroducer:
		return "introducers", nil
	case EntityPartner:
		return "partners", nil
	case EntityCommercialPartner:
		return "commercialPartners", nil
	}
	return "", ErrUnknownEntityType
}

// UserJunctionCollection returns the junction collection linking portal users
// to entities of this type.
func (t ReferringEntityType) UserJunctionCollection() (string, error) {
	switch t {
	case EntityIntroducer:
		return "introducer_users", nil
	case EntityPartner:
		return "partner_users", nil
	case EntityCommercialPartner:
		return "commercial_partner_users", nil
	}
	return "", ErrUnknownEntityType
}

// ParseReferringEntityType validates a path/query supplied entity type.
func ParseReferringEntityType(s string) (ReferringEntityType, error) {
	t := ReferringEntityType(s)
	if _, err := t.Collection(); err != nil {
		return "", err
	}
	return t, nil
}

// Introducer brings individual investors to deals, usually a single person.
type Introducer struct {
	ID     primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name   string             `json:"name" bson:"name"`
	Email  string             `json:"email,omitempty" bson:"email,omitempty"`
	UserID primitive.ObjectID `json:"userId,omitempty" bson:"userId,omitempty"`
	// LinkedUserID predates the introducer_users junction collection and is
	// kept as a fallback for rows migrated from the old schema.
	LinkedUserID primitive.ObjectID `json:"linkedUserId,omitempty" bson:"linkedUserId,omitempty"`
	ReferralCode string             `json:"referralCode,omitempty" bson:"referralCode,omitempty"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Partner is an institutional distribution counterparty with its own team of
// portal users, linked through partner_users.
type Partner struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Email        string             `json:"email,omitempty" bson:"email,omitempty"`
	UserID       primitive.ObjectID `json:"userId,omitempty" bson:"userId,omitempty"`
	ReferralCode string             `json:"referralCode,omitempty" bson:"referralCode,omitempty"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// CommercialPartner is a white-label counterparty operating under its own brand.
type CommercialPartner struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Email        string             `json:"email,omitempty" bson:"email,omitempty"`
	UserID       primitive.ObjectID `json:"userId,omitempty" bson:"userId,omitempty"`
	ReferralCode string             `json:"referralCode,omitempty" bson:"referralCode,omitempty"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// EntityUser is a row in one of the {entity}_users junction collections.
type EntityUser struct {
	ID       primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	EntityID primitive.ObjectID `json:"entityId" bson:"entityId"`
	UserID   primitive.ObjectID `json:"userId" bson:"userId"`
	LinkedAt time.Time          `json:"linkedAt" bson:"linkedAt"`
}
