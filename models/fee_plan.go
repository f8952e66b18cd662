package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FeePlanStatus is the lifecycle state of a fee plan.
type FeePlanStatus string

const (
	FeePlanDraft            FeePlanStatus = "draft"
	FeePlanSent             FeePlanStatus = "sent"
	FeePlanPendingSignature FeePlanStatus = "pending_signature"
	FeePlanAccepted         FeePlanStatus = "accepted"
	FeePlanRejected         FeePlanStatus = "rejected"
)

// Typed transition errors. Handlers map these onto HTTP statuses; the
// current status is carried so it can be echoed back to the caller.
type FeePlanTransitionError struct {
	Code    string
	Current FeePlanStatus
}

func (e *FeePlanTransitionError) Error() string {
	return fmt.Sprintf("%s (current status: %s)", e.Code, e.Current)
}

const (
	FeePlanErrAlreadyAccepted = "AlreadyAccepted"
	FeePlanErrAlreadyRejected = "AlreadyRejected"
	FeePlanErrInvalidStatus   = "InvalidStatus"
)

// CanAccept reports whether an accept transition is legal from s.
// Accepted and rejected are terminal; everything pre-terminal may accept.
func (s FeePlanStatus) CanAccept() error {
	switch s {
	case FeePlanDraft, FeePlanSent, FeePlanPendingSignature:
		return nil
	case FeePlanAccepted:
		return &FeePlanTransitionError{Code: FeePlanErrAlreadyAccepted, Current: s}
	case FeePlanRejected:
		return &FeePlanTransitionError{Code: FeePlanErrInvalidStatus, Current: s}
	}
	return &FeePlanTransitionError{Code: FeePlanErrInvalidStatus, Current: s}
}

// CanReject reports whether a reject transition is legal from s.
// An accepted plan cannot be un-accepted.
func (s FeePlanStatus) CanReject() error {
	switch s {
	case FeePlanDraft, FeePlanSent, FeePlanPendingSignature:
		return nil
	case FeePlanRejected:
		return &FeePlanTransitionError{Code: FeePlanErrAlreadyRejected, Current: s}
	case FeePlanAccepted:
		return &FeePlanTransitionError{Code: FeePlanErrAlreadyAccepted, Current: s}
	}
	return &FeePlanTransitionError{Code: FeePlanErrInvalidStatus, Current: s}
}

// CanSend reports whether a draft plan may be dispatched to its entity.
func (s FeePlanStatus) CanSend() error {
	if s == FeePlanDraft {
		return nil
	}
	return &FeePlanTransitionError{Code: FeePlanErrInvalidStatus, Current: s}
}

// CanMarkPendingSignature reports whether the plan may move to
// pending_signature when its term sheet goes out for e-signature.
func (s FeePlanStatus) CanMarkPendingSignature() error {
	if s == FeePlanSent {
		return nil
	}
	return &FeePlanTransitionError{Code: FeePlanErrInvalidStatus, Current: s}
}

// FeePlan is a proposed fee/commission arrangement between the platform and
// one referring entity for one deal and term sheet.
type FeePlan struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	DealID      primitive.ObjectID `json:"dealId" bson:"dealId"`
	TermSheetID primitive.ObjectID `json:"termSheetId" bson:"termSheetId"`
	Entity      ReferringEntityRef `json:"entity" bson:"entity"`
	Status      FeePlanStatus      `json:"status" bson:"status"`

	FeePercent     float64 `json:"feePercent" bson:"feePercent"`
	Currency       string  `json:"currency" bson:"currency"`
	RejectReason   string  `json:"rejectReason,omitempty" bson:"rejectReason,omitempty"`
	EnvelopeID     string  `json:"envelopeId,omitempty" bson:"envelopeId,omitempty"`
	CreatedByStaff bool    `json:"createdByStaff" bson:"createdByStaff"`

	SentAt     *time.Time         `json:"sentAt,omitempty" bson:"sentAt,omitempty"`
	AcceptedAt *time.Time         `json:"acceptedAt,omitempty" bson:"acceptedAt,omitempty"`
	AcceptedBy primitive.ObjectID `json:"acceptedBy,omitempty" bson:"acceptedBy,omitempty"`
	RejectedAt *time.Time         `json:"rejectedAt,omitempty" bson:"rejectedAt,omitempty"`
	RejectedBy primitive.ObjectID `json:"rejectedBy,omitempty" bson:"rejectedBy,omitempty"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// CreateFeePlanRequest is the staff body for drafting a plan.
type CreateFeePlanRequest struct {
	DealID      string  `json:"dealId" validate:"required"`
	TermSheetID string  `json:"termSheetId" validate:"required"`
	EntityType  string  `json:"entityType" validate:"required,oneof=introducer partner commercial_partner"`
	EntityID    string  `json:"entityId" validate:"required"`
	FeePercent  float64 `json:"feePercent" validate:"required,gt=0"`
	Currency    string  `json:"currency" validate:"required,len=3"`
}

// RejectFeePlanRequest carries the optional rejection reason.
type RejectFeePlanRequest struct {
	Reason string `json:"reason,omitempty"`
}
