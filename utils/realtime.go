// utils/realtime.go
package utils

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AveloCapital/avelo_backend/websocket"
)

// RealtimePusher delivers an event to a connected portal user. Satisfied by
// *websocket.Hub; kept as an interface so notification delivery still works
// when no hub is running.
type RealtimePusher interface {
	SendToUser(userID primitive.ObjectID, event websocket.Event) error
}

var realtimeHub RealtimePusher

// SetRealtimeHub registers the WebSocket hub notifications are pushed
// through. Called once from main before the server starts.
func SetRealtimeHub(hub RealtimePusher) {
	realtimeHub = hub
}

// PushRealtime pushes a notification event to the user's open WebSocket
// connection, if any. Users without a connection are skipped; they still get
// the in-app notification document.
func PushRealtime(userID primitive.ObjectID, title, message, notifType, cta string, data map[string]interface{}) {
	if realtimeHub == nil {
		return
	}
	_ = realtimeHub.SendToUser(userID, websocket.Event{
		Type:    websocket.EventNotification,
		Message: message,
		UserID:  userID.Hex(),
		Data: map[string]interface{}{
			"title": title,
			"type":  notifType,
			"cta":   cta,
			"data":  data,
		},
	})
}
