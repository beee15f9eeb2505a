package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is a user's single pending submission awaiting channel publication.
// At most one exists per user; a new submission wholesale-replaces the old one.
type Post struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	UserID   int64              `bson:"user_id"`
	Username string             `bson:"username,omitempty"`
	Body     string             `bson:"body,omitempty"`
	// FileID is the Telegram file handle of the attached photo, empty for
	// text-only posts.
	FileID string `bson:"file_id,omitempty"`

	// Optional classified-ad metadata.
	Category string `bson:"category,omitempty"`
	Delivery string `bson:"delivery,omitempty"`
	City     string `bson:"city,omitempty"`

	Published   bool      `bson:"published"`
	CreatedAt   time.Time `bson:"created_at"`
	PublishedAt time.Time `bson:"published_at,omitempty"`
}

// HasPhoto reports whether the post carries a photo attachment.
func (p *Post) HasPhoto() bool {
	return p.FileID != ""
}

// BanEntry marks a user as disallowed from submitting and being published.
type BanEntry struct {
	UserID   int64     `bson:"user_id"`
	BannedAt time.Time `bson:"banned_at"`
}

// Channel is a destination chat the bot publishes into.
type Channel struct {
	ChannelID int64     `bson:"channel_id"`
	AddedAt   time.Time `bson:"added_at"`
}
