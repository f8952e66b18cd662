// controllers/referral_controller.go
package controllers

import (
	"bytes"
	"context"
	"encoding/base64"
	"image/png"
	"net/http"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AveloCapital/avelo_backend/config"
	"github.com/AveloCapital/avelo_backend/models"
	"github.com/AveloCapital/avelo_backend/repositories"
	"github.com/AveloCapital/avelo_backend/utils"
)

type ReferralController struct {
	DB        *mongo.Client
	referrals *repositories.ReferralRepository
}

func NewReferralController(db *mongo.Client) *ReferralController {
	return &ReferralController{
		DB:        db,
		referrals: repositories.NewReferralRepository(db),
	}
}

// GetIntroducerReferredInvestors lists every investor an introducer referred,
// merged across both referral data models
func (rc *ReferralController) GetIntroducerReferredInvestors(c echo.Context) error {
	return rc.referredInvestors(c, models.EntityIntroducer)
}

// GetPartnerReferredInvestors lists every investor a partner referred
func (rc *ReferralController) GetPartnerReferredInvestors(c echo.Context) error {
	return rc.referredInvestors(c, models.EntityPartner)
}

// GetCommercialPartnerReferredInvestors lists every investor a commercial
// partner referred; commercial partners have no legacy rows so only the
// membership model contributes
func (rc *ReferralController) GetCommercialPartnerReferredInvestors(c echo.Context) error {
	return rc.referredInvestors(c, models.EntityCommercialPartner)
}

func (rc *ReferralController) referredInvestors(c echo.Context, entityType models.ReferringEntityType) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	entityID, err := primitive.ObjectIDFromHex(c.Param("id"))
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

	allowed, err := utils.CanActOnBehalfOf(ctx, rc.DB, userID, entityType, entityID)
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

	collName, err := entityType.Collection()
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Unknown entity type",
		})
	}

	var entity struct {
		ID   primitive.ObjectID `bson:"_id" json:"id"`
		Name string             `bson:"name" json:"name"`
	}
	err = config.GetCollection(rc.DB, collName).FindOne(ctx, bson.M{"_id": entityID}).Decode(&entity)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Entity not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load entity",
		})
	}

	listing, err := rc.referrals.ListReferredInvestors(ctx, entityType, entityID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load referred investors",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Referred investors retrieved",
		Data: map[string]interface{}{
			"referred_investors": listing,
			string(entityType):   entity,
			"total_count":        len(listing),
		},
	})
}

// GetReferralCode returns the introducer's referral code, generating and
// persisting one on first request
func (rc *ReferralController) GetReferralCode(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	entityType, err := models.ParseReferringEntityType(c.QueryParam("entityType"))
	if err != nil {
		entityType = models.EntityIntroducer
	}
	entityID, err := primitive.ObjectIDFromHex(c.Param("id"))
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

	allowed, err := utils.CanActOnBehalfOf(ctx, rc.DB, userID, entityType, entityID)
	if err != nil || !allowed {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "You are not linked to this entity",
		})
	}

	collName, err := entityType.Collection()
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Unknown entity type",
		})
	}
	coll := config.GetCollection(rc.DB, collName)

	var entity struct {
		ReferralCode string `bson:"referralCode"`
	}
	if err := coll.FindOne(ctx, bson.M{"_id": entityID}).Decode(&entity); err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Entity not found",
		})
	}

	if entity.ReferralCode == "" {
		code, err := utils.GenerateReferralCode(entityType)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to generate referral code",
			})
		}
		_, err = coll.UpdateOne(ctx, bson.M{"_id": entityID}, bson.M{
			"$set": bson.M{"referralCode": code, "updatedAt": time.Now()},
		})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to save referral code",
			})
		}
		entity.ReferralCode = code
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Referral code retrieved",
		Data:    map[string]string{"referralCode": entity.ReferralCode},
	})
}

// GetReferralQRCode renders a referral code as a PNG QR code
func (rc *ReferralController) GetReferralQRCode(c echo.Context) error {
	referralCode := c.Param("code")
	if referralCode == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Referral code is required",
		})
	}

	buffer, err := renderReferralQR(referralCode)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate QR code",
		})
	}

	c.Response().Header().Set("Content-Disposition", "inline; filename=referral-"+referralCode+".png")
	return c.Blob(http.StatusOK, "image/png", buffer.Bytes())
}

// GetReferralQRCodeBase64 returns the QR code as a base64 data payload for
// clients that embed it rather than fetch the image
func (rc *ReferralController) GetReferralQRCodeBase64(c echo.Context) error {
	referralCode := c.Param("code")
	if referralCode == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Referral code is required",
		})
	}

	buffer, err := renderReferralQR(referralCode)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate QR code",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "QR code generated",
		Data: map[string]string{
			"referralCode": referralCode,
			"qrCode":       "data:image/png;base64," + base64.StdEncoding.EncodeToString(buffer.Bytes()),
		},
	})
}

func renderReferralQR(referralCode string) (*bytes.Buffer, error) {
	content := "https://portal.avelocapital.com/signup?ref=" + referralCode

	qrCode, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		return nil, err
	}
	qrCode, err = barcode.Scale(qrCode, 200, 200)
	if err != nil {
		return nil, err
	}

	buffer := new(bytes.Buffer)
	if err := png.Encode(buffer, qrCode); err != nil {
		return nil, err
	}
	return buffer, nil
}
