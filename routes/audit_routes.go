package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AveloCapital/avelo_backend/controllers"
	"github.com/AveloCapital/avelo_backend/middleware"
)

// RegisterAuditRoutes registers the audit log listing (staff only)
func RegisterAuditRoutes(e *echo.Echo, db *mongo.Client) {
	auditController := controllers.NewAuditController(db)

	group := e.Group("/api/audit-logs")
	group.Use(middleware.JWTMiddleware(), middleware.RequireStaff())
	group.GET("", auditController.List)
}
