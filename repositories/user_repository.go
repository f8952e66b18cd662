package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AveloCapital/avelo_backend/config"
	"github.com/AveloCapital/avelo_backend/models"
)

type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Client) *UserRepository {
	return &UserRepository{
		collection: config.GetCollection(db, "users"),
	}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) UpdateFCMToken(ctx context.Context, userID primitive.ObjectID, token string) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$set": bson.M{
			"fcmToken":  token,
			"updatedAt": time.Now(),
		},
	})
	return err
}

// EarliestLinkedUser returns the user that was linked to the investor first,
// used as the notification recipient for investor-scoped events. Returns
// (nil, nil) when the investor has no linked users.
func (r *UserRepository) EarliestLinkedUser(ctx context.Context, db *mongo.Client, investorID primitive.ObjectID) (*models.User, error) {
	linkColl := config.GetCollection(db, "investor_users")

	var link models.InvestorUser
	err := linkColl.FindOne(ctx, bson.M{"investorId": investorID},
		options.FindOne().SetSort(bson.D{{Key: "linkedAt", Value: 1}})).Decode(&link)
	if err == nil {
		return r.FindByID(ctx, link.UserID)
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	// Fallback to the direct investorId link on the user document
	var user models.User
	err = r.collection.FindOne(ctx, bson.M{"investorId": investorID},
		options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: 1}})).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
