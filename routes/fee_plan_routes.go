package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AveloCapital/avelo_backend/controllers"
	"github.com/AveloCapital/avelo_backend/middleware"
)

// RegisterFeePlanRoutes registers the fee plan lifecycle routes. Creating,
// sending and signature tracking are staff actions; accept and reject are
// open to any user linked to the plan's entity (checked in the controller).
func RegisterFeePlanRoutes(e *echo.Echo, db *mongo.Client) {
	feePlanController := controllers.NewFeePlanController(db)

	group := e.Group("/api/fee-plans")
	group.Use(middleware.JWTMiddleware())

	group.GET("", feePlanController.ListForEntity)
	group.GET("/:id", feePlanController.Get)
	group.POST("/:id/accept", feePlanController.Accept)
	group.POST("/:id/reject", feePlanController.Reject)

	staff := e.Group("/api/fee-plans")
	staff.Use(middleware.JWTMiddleware(), middleware.RequireStaff())
	staff.POST("", feePlanController.Create)
	staff.POST("/:id/send", feePlanController.Send)
	staff.POST("/:id/pending-signature", feePlanController.MarkPendingSignature)
}
