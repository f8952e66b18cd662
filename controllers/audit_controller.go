// controllers/audit_controller.go
package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AveloCapital/avelo_backend/config"
	"github.com/AveloCapital/avelo_backend/models"
)

type AuditController struct {
	DB *mongo.Client
}

func NewAuditController(db *mongo.Client) *AuditController {
	return &AuditController{DB: db}
}

// List returns audit entries newest first, filterable by target, deal or
// action (staff only)
func (ac *AuditController) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if target := c.QueryParam("targetId"); target != "" {
		targetID, err := primitive.ObjectIDFromHex(target)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid target ID",
			})
		}
		filter["targetId"] = targetID
	}
	if deal := c.QueryParam("dealId"); deal != "" {
		dealID, err := primitive.ObjectIDFromHex(deal)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid deal ID",
			})
		}
		filter["dealId"] = dealID
	}
	if action := c.QueryParam("action"); action != "" {
		filter["action"] = action
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(200)
	cursor, err := config.GetCollection(ac.DB, "auditLogs").Find(ctx, filter, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load audit log",
		})
	}
	defer cursor.Close(ctx)

	var entries []models.AuditLog
	if err := cursor.All(ctx, &entries); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode audit log",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Audit log retrieved",
		Data:    entries,
	})
}
