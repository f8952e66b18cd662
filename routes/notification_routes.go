package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AveloCapital/avelo_backend/controllers"
	"github.com/AveloCapital/avelo_backend/middleware"
)

// RegisterNotificationRoutes registers the in-app notification routes
func RegisterNotificationRoutes(e *echo.Echo, db *mongo.Client) {
	notificationController := controllers.NewNotificationController(db)

	group := e.Group("/api/notifications")
	group.Use(middleware.JWTMiddleware())

	group.GET("", notificationController.List)
	group.POST("/:id/read", notificationController.MarkRead)
	group.POST("/read-all", notificationController.MarkAllRead)
}
