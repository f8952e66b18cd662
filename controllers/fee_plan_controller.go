// controllers/fee_plan_controller.go
package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AveloCapital/avelo_backend/config"
	"github.com/AveloCapital/avelo_backend/models"
	"github.com/AveloCapital/avelo_backend/utils"
)

type FeePlanController struct {
	DB *mongo.Client
}

func NewFeePlanController(db *mongo.Client) *FeePlanController {
	return &FeePlanController{DB: db}
}

// Create drafts a new fee plan for a deal and referring entity (staff only;
// enforced by route middleware)
func (fc *FeePlanController) Create(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.CreateFeePlanRequest
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
	termSheetID, err := primitive.ObjectIDFromHex(req.TermSheetID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid term sheet ID",
		})
	}
	entityType, err := models.ParseReferringEntityType(req.EntityType)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Unknown entity type",
		})
	}
	entityID, err := primitive.ObjectIDFromHex(req.EntityID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid entity ID",
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
	plan := models.FeePlan{
		ID:          primitive.NewObjectID(),
		DealID:      dealID,
		TermSheetID: termSheetID,
		Entity: models.ReferringEntityRef{
			Type: entityType,
			ID:   entityID,
		},
		Status:         models.FeePlanDraft,
		FeePercent:     req.FeePercent,
		Currency:       req.Currency,
		CreatedByStaff: true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := config.GetCollection(fc.DB, "feePlans").InsertOne(ctx, plan); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create fee plan",
		})
	}

	utils.SaveAuditLog(fc.DB, models.AuditLog{
		Action:      "fee_plan.create",
		ActorID:     actorID,
		TargetID:    plan.ID,
		DealID:      plan.DealID,
		TermSheetID: plan.TermSheetID,
		NewStatus:   string(plan.Status),
	})

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Fee plan created",
		Data:    plan,
	})
}

// Get returns one fee plan; the caller must be staff or linked to the
// plan's entity
func (fc *FeePlanController) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	plan, errResp := fc.loadAuthorizedPlan(ctx, c)
	if errResp != nil {
		return errResp(c)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Fee plan retrieved",
		Data:    plan,
	})
}

// Send dispatches a draft plan to its referring entity and notifies every
// linked user (staff only)
func (fc *FeePlanController) Send(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	plan, errResp := fc.loadAuthorizedPlan(ctx, c)
	if errResp != nil {
		return errResp(c)
	}

	if err := plan.Status.CanSend(); err != nil {
		return feePlanTransitionResponse(c, err)
	}

	actorID, _ := utils.GetUserIDFromToken(c)
	now := time.Now()

	updated, err := fc.transition(ctx, plan, bson.M{
		"status":    models.FeePlanSent,
		"sentAt":    now,
		"updatedAt": now,
	})
	if err != nil {
		return feePlanTransitionResponse(c, err)
	}

	utils.SaveAuditLog(fc.DB, models.AuditLog{
		Action:         "fee_plan.send",
		ActorID:        actorID,
		TargetID:       plan.ID,
		DealID:         plan.DealID,
		TermSheetID:    plan.TermSheetID,
		PreviousStatus: string(plan.Status),
		NewStatus:      string(models.FeePlanSent),
	})

	fc.notifyEntityUsers(plan, "Fee plan received",
		"A fee plan is ready for your review.", "fee_plan_sent")

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Fee plan sent",
		Data:    updated,
	})
}

// MarkPendingSignature moves a sent plan to pending_signature when its term
// sheet goes out for e-signature (staff only)
func (fc *FeePlanController) MarkPendingSignature(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	plan, errResp := fc.loadAuthorizedPlan(ctx, c)
	if errResp != nil {
		return errResp(c)
	}

	if err := plan.Status.CanMarkPendingSignature(); err != nil {
		return feePlanTransitionResponse(c, err)
	}

	var req struct {
		EnvelopeID string `json:"envelopeId"`
	}
	_ = c.Bind(&req)

	actorID, _ := utils.GetUserIDFromToken(c)
	now := time.Now()

	set := bson.M{
		"status":    models.FeePlanPendingSignature,
		"updatedAt": now,
	}
	if req.EnvelopeID != "" {
		set["envelopeId"] = req.EnvelopeID
	}

	updated, err := fc.transition(ctx, plan, set)
	if err != nil {
		return feePlanTransitionResponse(c, err)
	}

	utils.SaveAuditLog(fc.DB, models.AuditLog{
		Action:         "fee_plan.pending_signature",
		ActorID:        actorID,
		TargetID:       plan.ID,
		DealID:         plan.DealID,
		TermSheetID:    plan.TermSheetID,
		PreviousStatus: string(plan.Status),
		NewStatus:      string(models.FeePlanPendingSignature),
	})

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Fee plan marked pending signature",
		Data:    updated,
	})
}

// Accept transitions a plan to accepted and stamps acceptedAt/acceptedBy.
// Legal from draft, sent and pending_signature.
func (fc *FeePlanController) Accept(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	plan, errResp := fc.loadAuthorizedPlan(ctx, c)
	if errResp != nil {
		return errResp(c)
	}

	if err := plan.Status.CanAccept(); err != nil {
		return feePlanTransitionResponse(c, err)
	}

	actorID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid session",
		})
	}

	now := time.Now()
	updated, err := fc.transition(ctx, plan, bson.M{
		"status":     models.FeePlanAccepted,
		"acceptedAt": now,
		"acceptedBy": actorID,
		"updatedAt":  now,
	})
	if err != nil {
		return feePlanTransitionResponse(c, err)
	}

	utils.SaveAuditLog(fc.DB, models.AuditLog{
		Action:         "fee_plan.accept",
		ActorID:        actorID,
		TargetID:       plan.ID,
		DealID:         plan.DealID,
		TermSheetID:    plan.TermSheetID,
		PreviousStatus: string(plan.Status),
		NewStatus:      string(models.FeePlanAccepted),
	})

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Fee plan accepted",
		Data:    updated,
	})
}

// Reject transitions a plan to rejected with an optional reason. An accepted
// plan cannot be un-accepted; a rejected one reports AlreadyRejected.
func (fc *FeePlanController) Reject(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	plan, errResp := fc.loadAuthorizedPlan(ctx, c)
	if errResp != nil {
		return errResp(c)
	}

	if err := plan.Status.CanReject(); err != nil {
		return feePlanTransitionResponse(c, err)
	}

	var req models.RejectFeePlanRequest
	_ = c.Bind(&req)

	actorID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid session",
		})
	}

	now := time.Now()
	set := bson.M{
		"status":     models.FeePlanRejected,
		"rejectedAt": now,
		"rejectedBy": actorID,
		"updatedAt":  now,
	}
	if req.Reason != "" {
		set["rejectReason"] = utils.SanitizeInput(req.Reason)
	}

	updated, err := fc.transition(ctx, plan, set)
	if err != nil {
		return feePlanTransitionResponse(c, err)
	}

	utils.SaveAuditLog(fc.DB, models.AuditLog{
		Action:         "fee_plan.reject",
		ActorID:        actorID,
		TargetID:       plan.ID,
		DealID:         plan.DealID,
		TermSheetID:    plan.TermSheetID,
		PreviousStatus: string(plan.Status),
		NewStatus:      string(models.FeePlanRejected),
		Detail:         map[string]interface{}{"reason": req.Reason},
	})

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Fee plan rejected",
		Data:    updated,
	})
}

// ListForEntity returns all plans for one referring entity
func (fc *FeePlanController) ListForEntity(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	entityType, err := models.ParseReferringEntityType(c.QueryParam("entityType"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Unknown entity type",
		})
	}
	entityID, err := primitive.ObjectIDFromHex(c.QueryParam("entityId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid entity ID",
		})
	}

	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid session",
		})
	}

	allowed, err := utils.CanActOnBehalfOf(ctx, fc.DB, userID, entityType, entityID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to verify permissions",
		})
	}
	if !allowed {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "You are not linked to this entity",
		})
	}

	cursor, err := config.GetCollection(fc.DB, "feePlans").Find(ctx, bson.M{
		"entity.type": entityType,
		"entity.id":   entityID,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load fee plans",
		})
	}
	defer cursor.Close(ctx)

	var plans []models.FeePlan
	if err := cursor.All(ctx, &plans); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode fee plans",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Fee plans retrieved",
		Data:    plans,
	})
}

// transition applies a compare-and-swap update filtered on the plan's
// expected prior status. A concurrent transition makes the filter miss and
// the caller sees the fresh status instead of silently overwriting it.
func (fc *FeePlanController) transition(ctx context.Context, plan *models.FeePlan, set bson.M) (*models.FeePlan, error) {
	coll := config.GetCollection(fc.DB, "feePlans")

	res, err := coll.UpdateOne(ctx,
		bson.M{"_id": plan.ID, "status": plan.Status},
		bson.M{"$set": set},
	)
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		// Lost a race; report against the now-current status
		var fresh models.FeePlan
		if err := coll.FindOne(ctx, bson.M{"_id": plan.ID}).Decode(&fresh); err != nil {
			return nil, err
		}
		switch fresh.Status {
		case models.FeePlanAccepted:
			return nil, &models.FeePlanTransitionError{Code: models.FeePlanErrAlreadyAccepted, Current: fresh.Status}
		case models.FeePlanRejected:
			return nil, &models.FeePlanTransitionError{Code: models.FeePlanErrAlreadyRejected, Current: fresh.Status}
		default:
			return nil, &models.FeePlanTransitionError{Code: models.FeePlanErrInvalidStatus, Current: fresh.Status}
		}
	}

	var updated models.FeePlan
	if err := coll.FindOne(ctx, bson.M{"_id": plan.ID}).Decode(&updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// loadAuthorizedPlan loads the plan from the path id and verifies the caller
// may act on its entity. Returns a deferred error responder on failure.
func (fc *FeePlanController) loadAuthorizedPlan(ctx context.Context, c echo.Context) (*models.FeePlan, func(echo.Context) error) {
	planID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return nil, jsonError(http.StatusBadRequest, "Invalid fee plan ID")
	}

	var plan models.FeePlan
	err = config.GetCollection(fc.DB, "feePlans").FindOne(ctx, bson.M{"_id": planID}).Decode(&plan)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, jsonError(http.StatusNotFound, "Fee plan not found")
		}
		return nil, jsonError(http.StatusInternalServerError, "Failed to load fee plan")
	}

	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return nil, jsonError(http.StatusUnauthorized, "Invalid session")
	}

	allowed, err := utils.CanActOnBehalfOf(ctx, fc.DB, userID, plan.Entity.Type, plan.Entity.ID)
	if err != nil {
		return nil, jsonError(http.StatusInternalServerError, "Failed to verify permissions")
	}
	if !allowed {
		return nil, jsonError(http.StatusForbidden, "You are not linked to this entity")
	}

	return &plan, nil
}

// notifyEntityUsers fans a notification out to every user linked to the
// plan's entity; delivery is best-effort
func (fc *FeePlanController) notifyEntityUsers(plan *models.FeePlan, title, message, notifType string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userIDs, err := utils.EntityUserIDs(ctx, fc.DB, plan.Entity.Type, plan.Entity.ID)
	if err != nil {
		log.Printf("Failed to resolve users for %s %s: %v", plan.Entity.Type, plan.Entity.ID.Hex(), err)
		return
	}

	for _, userID := range userIDs {
		utils.NotifyUser(fc.DB, userID, title, message, notifType, "", map[string]interface{}{
			"feePlanId": plan.ID.Hex(),
			"dealId":    plan.DealID.Hex(),
		})
	}
}

func feePlanTransitionResponse(c echo.Context, err error) error {
	var terr *models.FeePlanTransitionError
	if errors.As(err, &terr) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: terr.Error(),
			Data:    map[string]string{"code": terr.Code, "currentStatus": string(terr.Current)},
		})
	}
	return c.JSON(http.StatusInternalServerError, models.Response{
		Status:  http.StatusInternalServerError,
		Message: "Failed to update fee plan",
	})
}

func jsonError(status int, message string) func(echo.Context) error {
	return func(c echo.Context) error {
		return c.JSON(status, models.Response{
			Status:  status,
			Message: message,
		})
	}
}
