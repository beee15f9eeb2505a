package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"adboard-bot/internal/database/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const postCollectionName = "posts"

// MongoPostRepository implements PostRepository for MongoDB.
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoDB post repository.
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{
		collection: db.Collection(postCollectionName),
	}
}

// EnsureIndexes creates the unique user_id index that backs the
// one-post-per-user invariant.
func (r *MongoPostRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create posts user_id index: %w", err)
	}
	return nil
}

// Upsert stores the post, replacing any existing entry for the same user wholesale.
func (r *MongoPostRepository) Upsert(ctx context.Context, post *models.Post) error {
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	post.Published = false

	filter := bson.M{"user_id": post.UserID}
	_, err := r.collection.ReplaceOne(ctx, filter, post, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert post for user %d: %w", post.UserID, err)
	}
	return nil
}

// ListDue returns unpublished posts, oldest first, optionally age-gated.
// A document that cannot be decoded is logged and skipped, not retried.
func (r *MongoPostRepository) ListDue(ctx context.Context, now time.Time, minAge time.Duration) ([]models.Post, error) {
	filter := bson.M{"published": false}
	if minAge > 0 {
		filter["created_at"] = bson.M{"$lte": now.Add(-minAge)}
	}
	return r.find(ctx, filter)
}

// ListPending returns every unpublished post regardless of age.
func (r *MongoPostRepository) ListPending(ctx context.Context) ([]models.Post, error) {
	return r.find(ctx, bson.M{"published": false})
}

func (r *MongoPostRepository) find(ctx context.Context, filter bson.M) ([]models.Post, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to find posts: %w", err)
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	for cursor.Next(ctx) {
		var post models.Post
		if err := cursor.Decode(&post); err != nil {
			log.Printf("Skipping malformed post document: %v", err)
			continue
		}
		posts = append(posts, post)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}
	return posts, nil
}

// MarkPublished flags the post as published. The created_at condition keeps a
// submission that overwrote the record mid-batch from being disposed.
func (r *MongoPostRepository) MarkPublished(ctx context.Context, userID int64, createdAt time.Time) error {
	filter := bson.M{"user_id": userID, "created_at": createdAt, "published": false}
	update := bson.M{"$set": bson.M{"published": true, "published_at": time.Now()}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to mark post published for user %d: %w", userID, err)
	}
	if result.MatchedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

// Delete removes the post under the same created_at condition as MarkPublished.
func (r *MongoPostRepository) Delete(ctx context.Context, userID int64, createdAt time.Time) error {
	filter := bson.M{"user_id": userID, "created_at": createdAt}

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete post for user %d: %w", userID, err)
	}
	if result.DeletedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

// PurgePublishedBefore deletes posts published before cutoff.
func (r *MongoPostRepository) PurgePublishedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	filter := bson.M{"published": true, "published_at": bson.M{"$lte": cutoff}}

	result, err := r.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to purge published posts: %w", err)
	}
	return result.DeletedCount, nil
}
