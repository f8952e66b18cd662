package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AveloCapital/avelo_backend/controllers"
	"github.com/AveloCapital/avelo_backend/middleware"
)

// RegisterCommissionRoutes registers the commission lifecycle routes.
// Requesting an invoice is an entity-side action; the bookkeeping
// transitions belong to staff.
func RegisterCommissionRoutes(e *echo.Echo, db *mongo.Client) {
	commissionController := controllers.NewCommissionController(db)

	group := e.Group("/api/commissions")
	group.Use(middleware.JWTMiddleware())

	group.GET("", commissionController.ListForEntity)
	group.POST("/:id/request-invoice", commissionController.RequestInvoice)

	staff := e.Group("/api/commissions")
	staff.Use(middleware.JWTMiddleware(), middleware.RequireStaff())
	staff.POST("/:id/mark-invoiced", commissionController.MarkInvoiced)
	staff.POST("/:id/mark-paid", commissionController.MarkPaid)
	staff.POST("/:id/cancel", commissionController.Cancel)
}
