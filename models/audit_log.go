package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditLog is an append-only record of a state change. Entries are written
// alongside every fee plan and commission transition and every data-room
// revocation; they are never updated or deleted.
type AuditLog struct {
	ID       primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Action   string             `json:"action" bson:"action"` // e.g. "fee_plan.accept"
	ActorID  primitive.ObjectID `json:"actorId,omitempty" bson:"actorId,omitempty"`
	System   bool               `json:"system,omitempty" bson:"system,omitempty"` // true for cron-initiated entries
	TargetID primitive.ObjectID `json:"targetId" bson:"targetId"`

	DealID      primitive.ObjectID `json:"dealId,omitempty" bson:"dealId,omitempty"`
	TermSheetID primitive.ObjectID `json:"termSheetId,omitempty" bson:"termSheetId,omitempty"`

	PreviousStatus string                 `json:"previousStatus,omitempty" bson:"previousStatus,omitempty"`
	NewStatus      string                 `json:"newStatus,omitempty" bson:"newStatus,omitempty"`
	Detail         map[string]interface{} `json:"detail,omitempty" bson:"detail,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
