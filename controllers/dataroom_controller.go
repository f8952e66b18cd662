// controllers/dataroom_controller.go
package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AveloCapital/avelo_backend/config"
	"github.com/AveloCapital/avelo_backend/models"
	"github.com/AveloCapital/avelo_backend/repositories"
	"github.com/AveloCapital/avelo_backend/utils"
)

type DataRoomController struct {
	DB    *mongo.Client
	users *repositories.UserRepository
}

func NewDataRoomController(db *mongo.Client) *DataRoomController {
	return &DataRoomController{
		DB:    db,
		users: repositories.NewUserRepository(db),
	}
}

// Grant gives an investor time-boxed access to a deal's data room
// (staff only)
func (dc *DataRoomController) Grant(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.GrantDataRoomAccessRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed",
			Data:    err.Error(),
		})
	}

	dealID, err := primitive.ObjectIDFromHex(req.DealID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid deal ID",
		})
	}
	investorID, err := primitive.ObjectIDFromHex(req.InvestorID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid investor ID",
		})
	}

	actorID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid session",
		})
	}

	now := time.Now()
	grant := models.DataRoomAccess{
		ID:         primitive.NewObjectID(),
		DealID:     dealID,
		InvestorID: investorID,
		GrantedBy:  actorID,
		ExpiresAt:  now.AddDate(0, 0, req.Days),
		Note:       utils.SanitizeInput(req.Note),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := config.GetCollection(dc.DB, "dataRoomAccess").InsertOne(ctx, grant); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to grant access",
		})
	}

	utils.SaveAuditLog(dc.DB, models.AuditLog{
		Action:   "dataroom.grant",
		ActorID:  actorID,
		TargetID: grant.ID,
		DealID:   dealID,
		Detail: map[string]interface{}{
			"investorId": investorID.Hex(),
			"expiresAt":  grant.ExpiresAt.Format(time.RFC3339),
		},
	})

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Data room access granted",
		Data:    grant,
	})
}

// Extend pushes an active grant's expiry out by the requested days
// (staff only). The extension is relative to the later of now and the
// current expiry, so extending an about-to-expire grant never shortens it.
func (dc *DataRoomController) Extend(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	grantID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid grant ID",
		})
	}

	var req models.ExtendDataRoomAccessRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed",
			Data:    err.Error(),
		})
	}

	coll := config.GetCollection(dc.DB, "dataRoomAccess")

	var grant models.DataRoomAccess
	if err := coll.FindOne(ctx, bson.M{"_id": grantID}).Decode(&grant); err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Grant not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load grant",
		})
	}
	if grant.RevokedAt != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Grant is revoked; issue a new one instead",
		})
	}

	now := time.Now()
	base := grant.ExpiresAt
	if base.Before(now) {
		base = now
	}
	newExpiry := base.AddDate(0, 0, req.Days)

	_, err = coll.UpdateOne(ctx, bson.M{"_id": grantID}, bson.M{
		"$set": bson.M{"expiresAt": newExpiry, "updatedAt": now},
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to extend grant",
		})
	}

	actorID, _ := utils.GetUserIDFromToken(c)
	utils.SaveAuditLog(dc.DB, models.AuditLog{
		Action:   "dataroom.extend",
		ActorID:  actorID,
		TargetID: grantID,
		DealID:   grant.DealID,
		Detail: map[string]interface{}{
			"previousExpiresAt": grant.ExpiresAt.Format(time.RFC3339),
			"expiresAt":         newExpiry.Format(time.RFC3339),
		},
	})

	grant.ExpiresAt = newExpiry
	grant.UpdatedAt = now
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Data room access extended",
		Data:    grant,
	})
}

// Revoke ends a grant immediately (staff only)
func (dc *DataRoomController) Revoke(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	grantID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid grant ID",
		})
	}

	actorID, _ := utils.GetUserIDFromToken(c)

	grant, err := dc.revokeGrant(ctx, grantID, actorID, false, "revoked by staff")
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Grant not found or already revoked",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to revoke grant",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Data room access revoked",
		Data:    grant,
	})
}

// ListForDeal returns every grant for a deal, active and revoked
// (staff only)
func (dc *DataRoomController) ListForDeal(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dealID, err := primitive.ObjectIDFromHex(c.Param("dealId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid deal ID",
		})
	}

	opts := options.Find().SetSort(bson.D{{Key: "expiresAt", Value: -1}})
	cursor, err := config.GetCollection(dc.DB, "dataRoomAccess").Find(ctx, bson.M{"dealId": dealID}, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load grants",
		})
	}
	defer cursor.Close(ctx)

	var grants []models.DataRoomAccess
	if err := cursor.All(ctx, &grants); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode grants",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Grants retrieved",
		Data:    grants,
	})
}

// SweepExpired is the cron entry point: it revokes every expired unrevoked
// grant, audits each revocation and notifies the investor's earliest-linked
// user with an extension call to action. A failing row is counted and
// skipped, never fatal to the sweep.
func (dc *DataRoomController) SweepExpired(c echo.Context) error {
	secret := os.Getenv("CRON_SECRET")
	if secret == "" || c.Request().Header.Get("X-Cron-Secret") != secret {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	result, err := dc.sweep(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Sweep failed",
		})
	}

	return c.JSON(http.StatusOK, result)
}

// SweepResult reports the outcome of one expiry sweep.
type SweepResult struct {
	Success      bool     `json:"success"`
	RunID        string   `json:"runId"`
	RevokedCount int      `json:"revokedCount"`
	ErrorCount   int      `json:"errorCount"`
	Errors       []string `json:"errors,omitempty"`
}

// grantSweeper is the per-row effect set the expiry sweep applies, split from
// the orchestration so the revoke/notify sequencing can be tested without a
// database.
type grantSweeper interface {
	revokeExpired(ctx context.Context, grant models.DataRoomAccess) error
	notifyExpired(ctx context.Context, grant models.DataRoomAccess)
}

// runSweep revokes each expired grant and notifies exactly once per
// successful revocation. A failing row is counted and skipped: it gets no
// notification and never aborts the rest of the batch. An empty batch
// reports revokedCount 0, which is what an immediate re-run returns.
func runSweep(ctx context.Context, expired []models.DataRoomAccess, ops grantSweeper, runID string) *SweepResult {
	result := &SweepResult{Success: true, RunID: runID}
	for _, grant := range expired {
		if err := ops.revokeExpired(ctx, grant); err != nil {
			result.ErrorCount++
			result.Errors = append(result.Errors,
				fmt.Sprintf("grant %s: %v", grant.ID.Hex(), err))
			continue
		}
		result.RevokedCount++
		ops.notifyExpired(ctx, grant)
	}
	return result
}

func (dc *DataRoomController) sweep(ctx context.Context) (*SweepResult, error) {
	coll := config.GetCollection(dc.DB, "dataRoomAccess")

	// Strict $lt: a grant expiring at this exact instant is still active
	cursor, err := coll.Find(ctx, bson.M{
		"expiresAt": bson.M{"$lt": time.Now()},
		"revokedAt": nil,
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var expired []models.DataRoomAccess
	if err := cursor.All(ctx, &expired); err != nil {
		return nil, err
	}

	result := runSweep(ctx, expired, dc, uuid.New().String())

	dc.recordSweepRun(ctx, result)

	log.Printf("Data room expiry sweep %s: revoked %d, errors %d",
		result.RunID, result.RevokedCount, result.ErrorCount)
	return result, nil
}

// recordSweepRun keeps the last run visible to ops via Redis; failures are
// logged only since the sweep itself already committed
func (dc *DataRoomController) recordSweepRun(ctx context.Context, result *SweepResult) {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return
	}
	summary := fmt.Sprintf("%s run=%s revoked=%d errors=%d",
		time.Now().Format(time.RFC3339), result.RunID, result.RevokedCount, result.ErrorCount)
	if err := rdb.Set(ctx, "dataroom:sweep:last_run", summary, 0).Err(); err != nil {
		log.Printf("Failed to record sweep run: %v", err)
	}
}

func (dc *DataRoomController) revokeExpired(ctx context.Context, grant models.DataRoomAccess) error {
	_, err := dc.revokeGrant(ctx, grant.ID, primitive.NilObjectID, true, "auto-revoked on expiry")
	return err
}

// notifyExpired tells the investor's earliest-linked user their access ended.
// Notification failures are best-effort, same as everywhere else.
func (dc *DataRoomController) notifyExpired(ctx context.Context, grant models.DataRoomAccess) {
	user, err := dc.users.EarliestLinkedUser(ctx, dc.DB, grant.InvestorID)
	if err != nil {
		log.Printf("Failed to resolve notification recipient for investor %s: %v", grant.InvestorID.Hex(), err)
		return
	}
	if user == nil {
		return
	}
	utils.NotifyUser(dc.DB, user.ID, "Data room access expired",
		"Your access to the deal data room has expired. You can request an extension.",
		"dataroom_access_expired", "request_extension", map[string]interface{}{
			"dealId":     grant.DealID.Hex(),
			"investorId": grant.InvestorID.Hex(),
		})
}

// revokeGrant stamps revokedAt on an unrevoked grant, audits the change and
// resets document visibility once the deal has no active grants left. The
// filter on revokedAt makes the revoke idempotent under concurrent sweeps.
func (dc *DataRoomController) revokeGrant(ctx context.Context, grantID, actorID primitive.ObjectID, system bool, note string) (*models.DataRoomAccess, error) {
	coll := config.GetCollection(dc.DB, "dataRoomAccess")
	now := time.Now()

	res := coll.FindOneAndUpdate(ctx,
		bson.M{"_id": grantID, "revokedAt": nil},
		bson.M{"$set": bson.M{"revokedAt": now, "note": note, "updatedAt": now}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var grant models.DataRoomAccess
	if err := res.Decode(&grant); err != nil {
		return nil, err
	}

	utils.SaveAuditLog(dc.DB, models.AuditLog{
		Action:   "dataroom.revoke",
		ActorID:  actorID,
		System:   system,
		TargetID: grant.ID,
		DealID:   grant.DealID,
		Detail: map[string]interface{}{
			"investorId": grant.InvestorID.Hex(),
			"note":       note,
		},
	})

	if err := dc.resetVisibilityIfUnused(ctx, grant.DealID); err != nil {
		log.Printf("Failed to reset document visibility for deal %s: %v", grant.DealID.Hex(), err)
	}

	return &grant, nil
}

// shouldResetVisibility reports whether a deal's documents go back to hidden:
// only once the deal has no active grants left.
func shouldResetVisibility(activeGrants int64) bool {
	return activeGrants == 0
}

// resetVisibilityIfUnused hides a deal's documents from investors once the
// deal has no active grants remaining
func (dc *DataRoomController) resetVisibilityIfUnused(ctx context.Context, dealID primitive.ObjectID) error {
	remaining, err := config.GetCollection(dc.DB, "dataRoomAccess").CountDocuments(ctx, bson.M{
		"dealId":    dealID,
		"revokedAt": nil,
	})
	if err != nil {
		return err
	}
	if !shouldResetVisibility(remaining) {
		return nil
	}

	_, err = config.GetCollection(dc.DB, "dealDocuments").UpdateMany(ctx,
		bson.M{"dealId": dealID, "investorVisible": true},
		bson.M{"$set": bson.M{"investorVisible": false, "updatedAt": time.Now()}},
	)
	return err
}
