package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const banCollectionName = "banned_users"

// MongoBanRepository implements BanRepository for MongoDB.
// Ban and Unban are idempotent; the collection is a set keyed by user_id.
type MongoBanRepository struct {
	collection *mongo.Collection
}

// NewMongoBanRepository creates a new MongoDB ban repository.
func NewMongoBanRepository(db *mongo.Database) *MongoBanRepository {
	return &MongoBanRepository{
		collection: db.Collection(banCollectionName),
	}
}

// Ban adds the user to the banned set. It reports whether the entry is new.
func (r *MongoBanRepository) Ban(ctx context.Context, userID int64) (bool, error) {
	filter := bson.M{"user_id": userID}
	update := bson.M{"$setOnInsert": bson.M{"user_id": userID, "banned_at": time.Now()}}

	result, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, fmt.Errorf("failed to ban user %d: %w", userID, err)
	}
	return result.UpsertedCount > 0, nil
}

// Unban removes the user from the banned set. It reports whether an entry existed.
func (r *MongoBanRepository) Unban(ctx context.Context, userID int64) (bool, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"user_id": userID})
	if err != nil {
		return false, fmt.Errorf("failed to unban user %d: %w", userID, err)
	}
	return result.DeletedCount > 0, nil
}

// IsBanned checks set membership for the given user.
func (r *MongoBanRepository) IsBanned(ctx context.Context, userID int64) (bool, error) {
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check ban state for user %d: %w", userID, err)
	}
	return true, nil
}
