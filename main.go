package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/AveloCapital/avelo_backend/config"
	"github.com/AveloCapital/avelo_backend/middleware"
	"github.com/AveloCapital/avelo_backend/routes"
	"github.com/AveloCapital/avelo_backend/utils"
	"github.com/AveloCapital/avelo_backend/websocket"
)

// CustomValidator wires go-playground/validator into Echo
type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config.InitFirebase()
	config.ConnectRedis()
	defer config.CloseRedis()

	client := config.ConnectDB()

	wsHub := websocket.NewHub()
	go wsHub.Run()
	utils.SetRealtimeHub(wsHub)

	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	rateLimiter := middleware.NewRateLimiter()

	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.GlobalCORS())
	e.Use(echoMiddleware.Secure())
	e.Use(rateLimiter.RateLimit())
	e.Use(middleware.SecurityHeadersWithConfig(middleware.SecurityConfig{
		AllowedDomains: []string{"portal.avelocapital.com"},
		AllowInlineJS:  false,
		AllowEval:      false,
	}))
	e.Use(httpsRedirect())

	e.Match([]string{"GET", "HEAD"}, "/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":  "OK",
			"message": "Avelo portal backend is running",
			"version": "1.0",
		})
	})

	e.Match([]string{"GET", "HEAD"}, "/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":   "healthy",
			"database": "connected",
		})
	})

	routes.RegisterAuthRoutes(e, client)
	routes.RegisterFeePlanRoutes(e, client)
	routes.RegisterCommissionRoutes(e, client)
	routes.RegisterReferralRoutes(e, client)
	routes.RegisterDataRoomRoutes(e, client)
	routes.RegisterNotificationRoutes(e, client)
	routes.RegisterAuditRoutes(e, client)

	e.GET("/api/ws", func(c echo.Context) error {
		return websocket.HandleWebSocket(c, wsHub)
	})

	// Expired blacklist entries pile up otherwise
	go middleware.CleanupBlacklist()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	e.Logger.Fatal(e.Start(":" + port))
}

func httpsRedirect() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get("X-Forwarded-Proto") == "http" {
				return c.Redirect(301, "https://"+c.Request().Host+c.Request().RequestURI)
			}
			return next(c)
		}
	}
}
