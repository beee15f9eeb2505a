package models

import "time"

// PostLog stores information about a post delivered to one channel.
type PostLog struct {
	SenderID       int64     `bson:"sender_id"`
	SenderUsername string    `bson:"sender_username,omitempty"`
	Body           string    `bson:"body,omitempty"`
	MessageType    string    `bson:"message_type"` // "text" or "photo"
	ReceivedAt     time.Time `bson:"received_at"`
	PublishedAt    time.Time `bson:"published_at"`
	ChannelID      int64     `bson:"channel_id"`
	ChannelPostID  int       `bson:"channel_post_id"`
}
