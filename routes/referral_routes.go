package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AveloCapital/avelo_backend/controllers"
	"github.com/AveloCapital/avelo_backend/middleware"
)

// RegisterReferralRoutes registers the referred-investor listings and the
// referral code endpoints
func RegisterReferralRoutes(e *echo.Echo, db *mongo.Client) {
	referralController := controllers.NewReferralController(db)

	group := e.Group("/api")
	group.Use(middleware.JWTMiddleware())

	group.GET("/introducers/:id/referred-investors", referralController.GetIntroducerReferredInvestors)
	group.GET("/partners/:id/referred-investors", referralController.GetPartnerReferredInvestors)
	group.GET("/commercial-partners/:id/referred-investors", referralController.GetCommercialPartnerReferredInvestors)

	group.GET("/referrals/:id/code", referralController.GetReferralCode)
	group.GET("/referrals/qr/:code", referralController.GetReferralQRCode)
	group.GET("/referrals/qr/:code/base64", referralController.GetReferralQRCodeBase64)
}
