// utils/permissions.go
package utils

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AveloCapital/avelo_backend/config"
	"github.com/AveloCapital/avelo_backend/models"
)

// CanActOnBehalfOf decides whether userID may act for the given referring
// entity. Checks, short-circuiting on the first hit:
//  1. the entity document's own userId field
//  2. a row in the entity's {entity}_users junction collection
//  3. the caller's staff capability, checked last as the override path
//
// A missing entity or absent link yields false, not an error.
func CanActOnBehalfOf(ctx context.Context, db *mongo.Client, userID primitive.ObjectID, entityType models.ReferringEntityType, entityID primitive.ObjectID) (bool, error) {
	collName, err := entityType.Collection()
	if err != nil {
		return false, err
	}

	// Direct ownership on the entity document
	var entity struct {
		UserID       primitive.ObjectID `bson:"userId"`
		LinkedUserID primitive.ObjectID `bson:"linkedUserId"`
	}
	err = config.GetCollection(db, collName).FindOne(ctx, bson.M{"_id": entityID}).Decode(&entity)
	if err == nil {
		if entity.UserID == userID {
			return true, nil
		}
		// Pre-junction rows carry the link on linkedUserId instead
		if entityType == models.EntityIntroducer && entity.LinkedUserID == userID {
			return true, nil
		}
	} else if err != mongo.ErrNoDocuments {
		return false, err
	}

	// Junction collection link
	junctionColl, err := entityType.UserJunctionCollection()
	if err != nil {
		return false, err
	}
	count, err := config.GetCollection(db, junctionColl).CountDocuments(ctx, bson.M{
		"entityId": entityID,
		"userId":   userID,
	})
	if err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	// Staff override, always last
	var user models.User
	err = config.GetCollection(db, "users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return false, nil
		}
		return false, err
	}

	return models.IsStaff(user.Role), nil
}
