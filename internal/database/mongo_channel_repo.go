package database

import (
	"context"
	"fmt"
	"time"

	"adboard-bot/internal/database/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const channelCollectionName = "channels"

// MongoChannelRepository implements ChannelRepository for MongoDB.
type MongoChannelRepository struct {
	collection *mongo.Collection
}

// NewMongoChannelRepository creates a new MongoDB channel repository.
func NewMongoChannelRepository(db *mongo.Database) *MongoChannelRepository {
	return &MongoChannelRepository{
		collection: db.Collection(channelCollectionName),
	}
}

// Add registers a destination channel. It reports whether the entry is new.
func (r *MongoChannelRepository) Add(ctx context.Context, channelID int64) (bool, error) {
	filter := bson.M{"channel_id": channelID}
	update := bson.M{"$setOnInsert": bson.M{"channel_id": channelID, "added_at": time.Now()}}

	result, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, fmt.Errorf("failed to add channel %d: %w", channelID, err)
	}
	return result.UpsertedCount > 0, nil
}

// Remove deletes a destination channel. It reports whether an entry existed.
func (r *MongoChannelRepository) Remove(ctx context.Context, channelID int64) (bool, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"channel_id": channelID})
	if err != nil {
		return false, fmt.Errorf("failed to remove channel %d: %w", channelID, err)
	}
	return result.DeletedCount > 0, nil
}

// List returns all registered channel IDs.
func (r *MongoChannelRepository) List(ctx context.Context) ([]int64, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}
	defer cursor.Close(ctx)

	var channels []models.Channel
	if err := cursor.All(ctx, &channels); err != nil {
		return nil, fmt.Errorf("failed to decode channels: %w", err)
	}

	ids := make([]int64, 0, len(channels))
	for _, ch := range channels {
		ids = append(ids, ch.ChannelID)
	}
	return ids, nil
}

// StaticChannels is a fixed, config-backed ChannelSource.
type StaticChannels []int64

// List returns the configured channel IDs.
func (s StaticChannels) List(_ context.Context) ([]int64, error) {
	return s, nil
}
