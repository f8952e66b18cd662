package utils

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"firebase.google.com/go/v4/messaging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"gopkg.in/gomail.v2"

	"github.com/AveloCapital/avelo_backend/config"
	"github.com/AveloCapital/avelo_backend/models"
)

// SaveNotification saves an in-app notification to the database
func SaveNotification(db *mongo.Client, userID primitive.ObjectID, title, message, notifType, cta string, data interface{}) error {
	collection := config.GetCollection(db, "notifications")

	notification := models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      notifType,
		CTA:       cta,
		Data:      data,
		IsRead:    false,
		CreatedAt: time.Now(),
	}

	_, err := collection.InsertOne(context.Background(), notification)
	return err
}

// SendEmail sends a plain-text email through the configured SMTP relay.
// Delivery failures are logged and returned but callers treat them as
// best-effort.
func SendEmail(to, subject, body string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	smtpPort := 2525
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		fmt.Sscanf(portStr, "%d", &smtpPort)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", smtpUser)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	if err := d.DialAndSend(m); err != nil {
		log.Printf("Failed to send email to %s: %v", to, err)
		return err
	}
	return nil
}

// NotifyUser delivers a notification to a user across every channel: in-app
// document, WebSocket push, email and FCM push. Channel failures are logged
// and swallowed so
// a notification never fails the operation that triggered it.
func NotifyUser(db *mongo.Client, userID primitive.ObjectID, title, message, notifType, cta string, data map[string]interface{}) {
	if err := SaveNotification(db, userID, title, message, notifType, cta, data); err != nil {
		log.Printf("Failed to save notification for user %s: %v", userID.Hex(), err)
	}

	PushRealtime(userID, title, message, notifType, cta, data)

	var user models.User
	err := config.GetCollection(db, "users").FindOne(context.Background(), bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		log.Printf("Failed to load user %s for notification delivery: %v", userID.Hex(), err)
		return
	}

	if user.Email != "" {
		_ = SendEmail(user.Email, title, message)
	}

	if user.FCMToken != "" {
		if err := sendFCM(user.FCMToken, title, message, data); err != nil {
			log.Printf("Failed to send FCM notification to user %s: %v", userID.Hex(), err)
		}
	}
}

// sendFCM pushes a Firebase Cloud Messaging notification to a device token
func sendFCM(token, title, message string, data map[string]interface{}) error {
	if config.FirebaseApp == nil {
		return fmt.Errorf("firebase app not initialized")
	}

	ctx := context.Background()
	client, err := config.FirebaseApp.Messaging(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging client: %w", err)
	}

	notificationData := map[string]string{
		"timestamp": time.Now().Format(time.RFC3339),
	}
	for key, value := range data {
		if str, ok := value.(string); ok {
			notificationData[key] = str
		}
	}

	fcmMessage := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  message,
		},
		Data: notificationData,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound:     "default",
				ChannelID: "avelo_fcm_channel",
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Alert: &messaging.ApsAlert{
						Title: title,
						Body:  message,
					},
					Sound: "default",
					Badge: func() *int { v := 1; return &v }(),
				},
			},
		},
	}

	response, err := client.Send(ctx, fcmMessage)
	if err != nil {
		return fmt.Errorf("failed to send FCM notification: %w", err)
	}

	log.Printf("FCM notification sent: %s", response)
	return nil
}

// EntityUserIDs resolves every portal user linked to a referring entity.
// Introducers resolve through the direct userId, then the introducer_users
// junction, then the legacy linkedUserId fallback; partners and commercial
// partners resolve through their junction collections plus the direct userId.
// An entity with no linked users yields an empty slice, not an error.
func EntityUserIDs(ctx context.Context, db *mongo.Client, entityType models.ReferringEntityType, entityID primitive.ObjectID) ([]primitive.ObjectID, error) {
	collName, err := entityType.Collection()
	if err != nil {
		return nil, err
	}

	seen := make(map[primitive.ObjectID]bool)
	var ids []primitive.ObjectID
	add := func(id primitive.ObjectID) {
		if !id.IsZero() && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	var entity struct {
		UserID       primitive.ObjectID `bson:"userId"`
		LinkedUserID primitive.ObjectID `bson:"linkedUserId"`
	}
	err = config.GetCollection(db, collName).FindOne(ctx, bson.M{"_id": entityID}).Decode(&entity)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	add(entity.UserID)

	junctionColl, err := entityType.UserJunctionCollection()
	if err != nil {
		return nil, err
	}
	cursor, err := config.GetCollection(db, junctionColl).Find(ctx, bson.M{"entityId": entityID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var links []models.EntityUser
	if err := cursor.All(ctx, &links); err != nil {
		return nil, err
	}
	for _, link := range links {
		add(link.UserID)
	}

	// Legacy single-user fallback for introducers migrated before the
	// junction collection existed
	if entityType == models.EntityIntroducer && len(ids) == 0 {
		add(entity.LinkedUserID)
	}

	return ids, nil
}
