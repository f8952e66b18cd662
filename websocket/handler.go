package websocket

import (
	"net/http"

	"github.com/golang-jwt/jwt"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AveloCapital/avelo_backend/middleware"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket upgrades the connection for an authenticated portal user.
// Browsers cannot set an Authorization header on the upgrade request, so the
// token rides in the "token" query parameter instead.
func HandleWebSocket(c echo.Context, hub *Hub) error {
	tokenStr := c.QueryParam("token")
	if tokenStr == "" || middleware.IsTokenBlacklisted(tokenStr) {
		return c.NoContent(http.StatusUnauthorized)
	}

	claims := &middleware.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(middleware.GetJWTSecret()), nil
	})
	if err != nil || !token.Valid {
		return c.NoContent(http.StatusUnauthorized)
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.NoContent(http.StatusUnauthorized)
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := &Client{UserID: userID, Conn: conn}
	hub.register <- client

	conn.WriteJSON(Event{
		Type:    "connected",
		Message: "Connection established",
		UserID:  userID.Hex(),
	})

	go func() {
		defer func() {
			hub.unregister <- client
		}()
		for {
			// Reads only detect disconnect; clients do not send commands
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()

	return nil
}
