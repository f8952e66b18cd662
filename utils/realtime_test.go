package utils

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AveloCapital/avelo_backend/websocket"
)

type recordingPusher struct {
	userIDs []primitive.ObjectID
	events  []websocket.Event
	err     error
}

func (p *recordingPusher) SendToUser(userID primitive.ObjectID, event websocket.Event) error {
	p.userIDs = append(p.userIDs, userID)
	p.events = append(p.events, event)
	return p.err
}

func TestPushRealtime(t *testing.T) {
	pusher := &recordingPusher{}
	SetRealtimeHub(pusher)
	t.Cleanup(func() { SetRealtimeHub(nil) })

	userID := primitive.NewObjectID()
	PushRealtime(userID, "Data room access expired", "Your access has expired.",
		"dataroom_access_expired", "request_extension",
		map[string]interface{}{"dealId": "abc"})

	if len(pusher.events) != 1 {
		t.Fatalf("got %d events, want 1", len(pusher.events))
	}
	if pusher.userIDs[0] != userID {
		t.Errorf("event sent to %s, want %s", pusher.userIDs[0].Hex(), userID.Hex())
	}

	event := pusher.events[0]
	if event.Type != websocket.EventNotification {
		t.Errorf("event type = %q, want %q", event.Type, websocket.EventNotification)
	}
	if event.Message != "Your access has expired." {
		t.Errorf("event message = %q", event.Message)
	}
	if event.UserID != userID.Hex() {
		t.Errorf("event userId = %q, want %q", event.UserID, userID.Hex())
	}

	payload, ok := event.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("event data is %T, want map", event.Data)
	}
	if payload["title"] != "Data room access expired" {
		t.Errorf("payload title = %v", payload["title"])
	}
	if payload["cta"] != "request_extension" {
		t.Errorf("payload cta = %v", payload["cta"])
	}
}

func TestPushRealtimeWithoutHub(t *testing.T) {
	SetRealtimeHub(nil)

	// Must be a no-op, not a panic
	PushRealtime(primitive.NewObjectID(), "title", "message", "type", "", nil)
}

func TestPushRealtimeSwallowsSendErrors(t *testing.T) {
	pusher := &recordingPusher{err: errors.New("user not connected")}
	SetRealtimeHub(pusher)
	t.Cleanup(func() { SetRealtimeHub(nil) })

	// A disconnected user must not surface an error to notification callers
	PushRealtime(primitive.NewObjectID(), "title", "message", "type", "", nil)

	if len(pusher.events) != 1 {
		t.Fatalf("got %d events, want 1", len(pusher.events))
	}
}
