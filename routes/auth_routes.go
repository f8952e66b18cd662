package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AveloCapital/avelo_backend/controllers"
	"github.com/AveloCapital/avelo_backend/middleware"
)

// RegisterAuthRoutes registers authentication and session routes
func RegisterAuthRoutes(e *echo.Echo, db *mongo.Client) {
	authController := controllers.NewAuthController(db)

	public := e.Group("/api/auth")
	public.POST("/signup", authController.Signup)
	public.POST("/login", authController.Login)
	public.POST("/login/remember-me", authController.LoginWithRememberMe)
	public.POST("/login/google", authController.GoogleLogin)

	authed := e.Group("/api/auth")
	authed.Use(middleware.JWTMiddleware())
	authed.POST("/logout", authController.Logout)
	authed.POST("/fcm-token", authController.UpdateFCMToken)
}
