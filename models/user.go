package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a portal account. A user may additionally be linked to an investor
// record (for investor personas) or to a referring entity (for introducer,
// partner and commercial partner personas).
type User struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Email      string             `json:"email" bson:"email"`
	Password   string             `json:"password,omitempty" bson:"password"`
	FullName   string             `json:"fullName" bson:"fullName"`
	Phone      string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Role       Role               `json:"role" bson:"role"`
	InvestorID primitive.ObjectID `json:"investorId,omitempty" bson:"investorId,omitempty"`
	GoogleID   string             `json:"googleId,omitempty" bson:"googleId,omitempty"`
	FCMToken   string             `json:"fcmToken,omitempty" bson:"fcmToken,omitempty"`

	IsActive       bool       `json:"isActive" bson:"isActive"`
	LastActivityAt *time.Time `json:"lastActivityAt,omitempty" bson:"lastActivityAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// LoginRequest is the body for email/password login
type LoginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"rememberMe"`
}

// LoginData is returned inside the response envelope on successful login
type LoginData struct {
	Token           string `json:"token"`
	RefreshToken    string `json:"refreshToken"`
	RememberMeToken string `json:"rememberMeToken,omitempty"`
	User            User   `json:"user"`
}

// SignupRequest is the body for account creation
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"fullName" validate:"required"`
	Phone    string `json:"phone,omitempty"`
	Role     Role   `json:"role" validate:"required"`
}
