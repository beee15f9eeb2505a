package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DisposePolicy selects what happens to a post after a publish attempt.
type DisposePolicy string

const (
	// DisposeMark sets published=true after a successful delivery. A failed
	// flag update leaves the post due, so the next cycle may send a duplicate.
	DisposeMark DisposePolicy = "mark"
	// DisposeDelete removes the record outright. A crash between send and
	// delete loses the post permanently.
	DisposeDelete DisposePolicy = "delete"
)

// Config holds the application configuration.
type Config struct {
	AppEnv          string
	Debug           bool
	Version         string
	BotToken        string
	AdminIDs        []int64
	ChannelIDs      []int64 // empty means the channel set is DB-backed
	SentryDSN       string
	MongoDBURI      string
	MongoDBDatabase string
	DefaultLanguage string

	PublishInterval      time.Duration
	MinPostAge           time.Duration
	DisposePolicy        DisposePolicy
	RetractBeforePublish bool
	PostRetention        time.Duration
}

// LoadConfig loads configuration from environment variables.
// It attempts to load a .env file if present but prioritizes
// actual environment variables set in the system (e.g., by Docker).
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	debug, _ := strconv.ParseBool(getEnv("DEBUG", "false"))

	adminIDs, err := parseIDList(getEnv("ADMIN_IDS", ""))
	if err != nil {
		return nil, fmt.Errorf("invalid ADMIN_IDS: %w", err)
	}

	channelIDs, err := parseIDList(getEnv("CHANNEL_IDS", ""))
	if err != nil {
		return nil, fmt.Errorf("invalid CHANNEL_IDS: %w", err)
	}

	publishInterval, err := parseDuration("PUBLISH_INTERVAL", 10*time.Minute)
	if err != nil {
		return nil, err
	}
	minPostAge, err := parseDuration("MIN_POST_AGE", 0)
	if err != nil {
		return nil, err
	}
	postRetention, err := parseDuration("POST_RETENTION", 30*24*time.Hour)
	if err != nil {
		return nil, err
	}

	policy := DisposePolicy(getEnv("DISPOSE_POLICY", string(DisposeMark)))
	if policy != DisposeMark && policy != DisposeDelete {
		return nil, fmt.Errorf("invalid DISPOSE_POLICY %q: must be %q or %q", policy, DisposeMark, DisposeDelete)
	}

	retract, _ := strconv.ParseBool(getEnv("RETRACT_BEFORE_PUBLISH", "false"))

	cfg := &Config{
		AppEnv:               getEnv("APP_ENV", "development"),
		Debug:                debug,
		Version:              getEnv("VERSION", "dev"),
		BotToken:             getEnv("TELEGRAM_BOT_TOKEN", ""),
		AdminIDs:             adminIDs,
		ChannelIDs:           channelIDs,
		SentryDSN:            getEnv("SENTRY_DSN", ""),
		MongoDBURI:           getEnv("MONGODB_URI", ""),
		MongoDBDatabase:      getEnv("MONGODB_DATABASE", ""),
		DefaultLanguage:      getEnv("DEFAULT_LANGUAGE", "en"),
		PublishInterval:      publishInterval,
		MinPostAge:           minPostAge,
		DisposePolicy:        policy,
		RetractBeforePublish: retract,
		PostRetention:        postRetention,
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if len(cfg.AdminIDs) == 0 {
		return nil, fmt.Errorf("ADMIN_IDS is required")
	}
	if len(cfg.ChannelIDs) == 0 {
		log.Println("CHANNEL_IDS is not set, channel list will be managed via admin commands")
	}
	if cfg.SentryDSN == "" {
		log.Println("Warning: SENTRY_DSN is not set. Error tracking disabled.")
	}
	if cfg.MongoDBURI == "" {
		return nil, fmt.Errorf("MONGODB_URI is required")
	}
	if cfg.MongoDBDatabase == "" {
		return nil, fmt.Errorf("MONGODB_DATABASE is required")
	}

	return cfg, nil
}

// IsAdmin reports whether userID is on the configured administrator allow-list.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// parseIDList parses a comma-separated list of int64 chat/user IDs.
// An empty input yields an empty list, not an error.
func parseIDList(s string) ([]int64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad ID %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// parseDuration reads a duration env var, falling back to def when unset.
func parseDuration(key string, def time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

// getEnv retrieves an environment variable or returns a default value.
// A variable set to the empty string counts as unset.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
