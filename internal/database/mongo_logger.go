package database

import (
	"context"
	"fmt"
	"time"

	"adboard-bot/internal/database/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// MongoLogger implements the logger interfaces using MongoDB.
// It records user actions and per-channel delivery logs.
type MongoLogger struct {
	db *mongo.Database
}

// NewMongoLogger creates and returns a new MongoLogger instance.
// It requires a connected MongoDB database instance.
func NewMongoLogger(db *mongo.Database) *MongoLogger {
	return &MongoLogger{db: db}
}

// LogUserAction writes a user action log entry to the database.
// It records the user ID, action type, additional details, and timestamp.
func (m *MongoLogger) LogUserAction(userID int64, action string, details interface{}) error {
	collection := m.db.Collection("user_actions")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := collection.InsertOne(ctx, map[string]interface{}{
		"user_id": userID,
		"action":  action,
		"details": details,
		"time":    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to insert user action log for user %d: %w", userID, err)
	}
	return nil
}

// LogPublishedPost writes a log entry for a post delivered to a channel.
func (m *MongoLogger) LogPublishedPost(logEntry models.PostLog) error {
	collection := m.db.Collection("post_logs")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := collection.InsertOne(ctx, logEntry)
	if err != nil {
		return fmt.Errorf("failed to insert post log into collection 'post_logs': %w", err)
	}
	return nil
}
