package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AveloCapital/avelo_backend/controllers"
	"github.com/AveloCapital/avelo_backend/middleware"
)

// RegisterDataRoomRoutes registers data-room access management and the
// expiry sweep. The sweep authenticates with the X-Cron-Secret header
// rather than a user token so the scheduler needs no portal account.
func RegisterDataRoomRoutes(e *echo.Echo, db *mongo.Client) {
	dataRoomController := controllers.NewDataRoomController(db)

	staff := e.Group("/api/data-room")
	staff.Use(middleware.JWTMiddleware(), middleware.RequireStaff())
	staff.POST("/grants", dataRoomController.Grant)
	staff.POST("/grants/:id/extend", dataRoomController.Extend)
	staff.POST("/grants/:id/revoke", dataRoomController.Revoke)
	staff.GET("/deals/:dealId/grants", dataRoomController.ListForDeal)

	e.GET("/api/cron/data-room-expiry", dataRoomController.SweepExpired)
}
