package database

import (
	"context"
	"errors"
	"time"

	"adboard-bot/internal/database/models"
)

// ErrPostNotFound is returned when a pending post does not exist, or was
// replaced by a newer submission between read and dispose.
var ErrPostNotFound = errors.New("post not found")

// PostRepository is the durable store of pending posts, keyed by submitter.
type PostRepository interface {
	// Upsert stores the post, wholesale-replacing any existing entry for the
	// same user ID.
	Upsert(ctx context.Context, post *models.Post) error
	// ListDue returns all posts eligible for publication at the given time:
	// not yet published and, when an age gate is configured, at least minAge old.
	ListDue(ctx context.Context, now time.Time, minAge time.Duration) ([]models.Post, error)
	// ListPending returns every unpublished post regardless of age.
	ListPending(ctx context.Context) ([]models.Post, error)
	// MarkPublished flags the post as published. The createdAt condition makes
	// the update a no-op (ErrPostNotFound) when a newer submission has replaced
	// the record since it was read.
	MarkPublished(ctx context.Context, userID int64, createdAt time.Time) error
	// Delete removes the post outright, under the same createdAt condition.
	Delete(ctx context.Context, userID int64, createdAt time.Time) error
	// PurgePublishedBefore deletes posts published before cutoff and returns
	// how many were removed.
	PurgePublishedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// BanRepository is the persisted set of banned user IDs.
type BanRepository interface {
	// Ban adds the user to the set. It reports whether the entry is new.
	Ban(ctx context.Context, userID int64) (added bool, err error)
	// Unban removes the user from the set. It reports whether an entry existed.
	Unban(ctx context.Context, userID int64) (removed bool, err error)
	IsBanned(ctx context.Context, userID int64) (bool, error)
}

// ChannelRepository manages the dynamic set of destination channels.
type ChannelRepository interface {
	Add(ctx context.Context, channelID int64) (added bool, err error)
	Remove(ctx context.Context, channelID int64) (removed bool, err error)
	List(ctx context.Context) ([]int64, error)
}

// ChannelSource yields the destination channels for a publish batch.
// It is satisfied both by the static config-backed list and by ChannelRepository.
type ChannelSource interface {
	List(ctx context.Context) ([]int64, error)
}

// PostLogger defines the interface for logging published posts.
type PostLogger interface {
	LogPublishedPost(log models.PostLog) error
}

// UserActionLogger defines the interface for logging user actions.
type UserActionLogger interface {
	LogUserAction(userID int64, action string, details interface{}) error
}
