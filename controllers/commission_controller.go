// controllers/commission_controller.go
package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AveloCapital/avelo_backend/config"
	"github.com/AveloCapital/avelo_backend/models"
	"github.com/AveloCapital/avelo_backend/utils"
)

type CommissionController struct {
	DB *mongo.Client
}

func NewCommissionController(db *mongo.Client) *CommissionController {
	return &CommissionController{DB: db}
}

// RequestInvoice moves an accrued commission to invoice_requested, assigns
// an invoice reference and notifies every user linked to the earning entity.
// An entity with no linked users is fine; the transition still commits.
func (cc *CommissionController) RequestInvoice(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	commission, errResp := cc.loadAuthorizedCommission(ctx, c)
	if errResp != nil {
		return errResp(c)
	}

	if err := commission.Status.CanRequestInvoice(); err != nil {
		return commissionTransitionResponse(c, err)
	}

	actorID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid session",
		})
	}

	now := time.Now()
	invoiceRef := fmt.Sprintf("INV-%s", uuid.New().String()[:8])

	updated, err := cc.transition(ctx, commission, bson.M{
		"status":             models.CommissionInvoiceRequested,
		"invoiceRef":         invoiceRef,
		"invoiceRequestedAt": now,
		"updatedAt":          now,
	})
	if err != nil {
		return commissionTransitionResponse(c, err)
	}

	utils.SaveAuditLog(cc.DB, models.AuditLog{
		Action:         "commission.request_invoice",
		ActorID:        actorID,
		TargetID:       commission.ID,
		DealID:         commission.DealID,
		PreviousStatus: string(commission.Status),
		NewStatus:      string(models.CommissionInvoiceRequested),
		Detail:         map[string]interface{}{"invoiceRef": invoiceRef},
	})

	go cc.notifyEntityUsers(commission, "Invoice requested",
		fmt.Sprintf("An invoice (%s) has been requested for your commission.", invoiceRef),
		"commission_invoice_requested")

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Invoice requested",
		Data:    updated,
	})
}

// MarkInvoiced records that the invoice was issued (staff only)
func (cc *CommissionController) MarkInvoiced(c echo.Context) error {
	return cc.staffTransition(c, "commission.mark_invoiced", models.CommissionInvoiced,
		func(s models.CommissionStatus) error { return s.CanMarkInvoiced() },
		func(now time.Time) bson.M {
			return bson.M{"status": models.CommissionInvoiced, "invoicedAt": now, "updatedAt": now}
		})
}

// MarkPaid records payout of an invoiced commission (staff only)
func (cc *CommissionController) MarkPaid(c echo.Context) error {
	return cc.staffTransition(c, "commission.mark_paid", models.CommissionPaid,
		func(s models.CommissionStatus) error { return s.CanMarkPaid() },
		func(now time.Time) bson.M {
			return bson.M{"status": models.CommissionPaid, "paidAt": now, "updatedAt": now}
		})
}

// Cancel voids a commission from any state except paid or cancelled
// (staff only)
func (cc *CommissionController) Cancel(c echo.Context) error {
	return cc.staffTransition(c, "commission.cancel", models.CommissionCancelled,
		func(s models.CommissionStatus) error { return s.CanCancel() },
		func(now time.Time) bson.M {
			return bson.M{"status": models.CommissionCancelled, "cancelledAt": now, "updatedAt": now}
		})
}

// ListForEntity returns all commissions earned by one referring entity
func (cc *CommissionController) ListForEntity(c echo.Context) error {
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

	allowed, err := utils.CanActOnBehalfOf(ctx, cc.DB, userID, entityType, entityID)
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

	cursor, err := config.GetCollection(cc.DB, "commissions").Find(ctx, bson.M{
		"entity.type": entityType,
		"entity.id":   entityID,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load commissions",
		})
	}
	defer cursor.Close(ctx)

	var commissions []models.Commission
	if err := cursor.All(ctx, &commissions); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode commissions",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commissions retrieved",
		Data:    commissions,
	})
}

// staffTransition is the shared shape of the staff-driven lifecycle steps.
// The permission gate is the route middleware; here only the state machine
// and the CAS write differ per step.
func (cc *CommissionController) staffTransition(c echo.Context, action string, target models.CommissionStatus,
	check func(models.CommissionStatus) error, set func(time.Time) bson.M) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	commission, errResp := cc.loadCommission(ctx, c)
	if errResp != nil {
		return errResp(c)
	}

	if err := check(commission.Status); err != nil {
		return commissionTransitionResponse(c, err)
	}

	actorID, _ := utils.GetUserIDFromToken(c)
	now := time.Now()

	updated, err := cc.transition(ctx, commission, set(now))
	if err != nil {
		return commissionTransitionResponse(c, err)
	}

	utils.SaveAuditLog(cc.DB, models.AuditLog{
		Action:         action,
		ActorID:        actorID,
		TargetID:       commission.ID,
		DealID:         commission.DealID,
		PreviousStatus: string(commission.Status),
		NewStatus:      string(target),
	})

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commission updated",
		Data:    updated,
	})
}

// transition applies a compare-and-swap update filtered on the expected
// prior status so concurrent transitions cannot overwrite each other.
func (cc *CommissionController) transition(ctx context.Context, commission *models.Commission, set bson.M) (*models.Commission, error) {
	coll := config.GetCollection(cc.DB, "commissions")

	res, err := coll.UpdateOne(ctx,
		bson.M{"_id": commission.ID, "status": commission.Status},
		bson.M{"$set": set},
	)
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		var fresh models.Commission
		if err := coll.FindOne(ctx, bson.M{"_id": commission.ID}).Decode(&fresh); err != nil {
			return nil, err
		}
		return nil, &models.CommissionTransitionError{Current: fresh.Status}
	}

	var updated models.Commission
	if err := coll.FindOne(ctx, bson.M{"_id": commission.ID}).Decode(&updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (cc *CommissionController) loadCommission(ctx context.Context, c echo.Context) (*models.Commission, func(echo.Context) error) {
	commissionID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return nil, jsonError(http.StatusBadRequest, "Invalid commission ID")
	}

	var commission models.Commission
	err = config.GetCollection(cc.DB, "commissions").FindOne(ctx, bson.M{"_id": commissionID}).Decode(&commission)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, jsonError(http.StatusNotFound, "Commission not found")
		}
		return nil, jsonError(http.StatusInternalServerError, "Failed to load commission")
	}
	return &commission, nil
}

func (cc *CommissionController) loadAuthorizedCommission(ctx context.Context, c echo.Context) (*models.Commission, func(echo.Context) error) {
	commission, errResp := cc.loadCommission(ctx, c)
	if errResp != nil {
		return nil, errResp
	}

	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return nil, jsonError(http.StatusUnauthorized, "Invalid session")
	}

	allowed, err := utils.CanActOnBehalfOf(ctx, cc.DB, userID, commission.Entity.Type, commission.Entity.ID)
	if err != nil {
		return nil, jsonError(http.StatusInternalServerError, "Failed to verify permissions")
	}
	if !allowed {
		return nil, jsonError(http.StatusForbidden, "You are not linked to this entity")
	}
	return commission, nil
}

func (cc *CommissionController) notifyEntityUsers(commission *models.Commission, title, message, notifType string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userIDs, err := utils.EntityUserIDs(ctx, cc.DB, commission.Entity.Type, commission.Entity.ID)
	if err != nil {
		log.Printf("Failed to resolve users for %s %s: %v", commission.Entity.Type, commission.Entity.ID.Hex(), err)
		return
	}
	if len(userIDs) == 0 {
		log.Printf("No linked users for %s %s; skipping notification", commission.Entity.Type, commission.Entity.ID.Hex())
		return
	}

	for _, userID := range userIDs {
		utils.NotifyUser(cc.DB, userID, title, message, notifType, "", map[string]interface{}{
			"commissionId": commission.ID.Hex(),
			"dealId":       commission.DealID.Hex(),
		})
	}
}

func commissionTransitionResponse(c echo.Context, err error) error {
	var terr *models.CommissionTransitionError
	if errors.As(err, &terr) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: terr.Error(),
			Data:    map[string]string{"currentStatus": string(terr.Current)},
		})
	}
	return c.JSON(http.StatusInternalServerError, models.Response{
		Status:  http.StatusInternalServerError,
		Message: "Failed to update commission",
	})
}
