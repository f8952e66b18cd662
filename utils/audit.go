// utils/audit.go
package utils

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AveloCapital/avelo_backend/config"
	"github.com/AveloCapital/avelo_backend/models"
)

// SaveAuditLog appends an entry to the audit log collection. The log is
// append-only; failures are logged server-side but never fail the operation
// being audited.
func SaveAuditLog(db *mongo.Client, entry models.AuditLog) {
	entry.ID = primitive.NewObjectID()
	entry.CreatedAt = time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := config.GetCollection(db, "auditLogs").InsertOne(ctx, entry)
	if err != nil {
		log.Printf("Failed to write audit log entry %s for %s: %v", entry.Action, entry.TargetID.Hex(), err)
	}
}
