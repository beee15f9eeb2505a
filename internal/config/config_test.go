package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setRequiredEnv sets the minimal environment for a successful LoadConfig.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_BOT_TOKEN", "123456:test-token")
	t.Setenv("ADMIN_IDS", "1000")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("MONGODB_DATABASE", "adboard_test")
	t.Setenv("CHANNEL_IDS", "")
	t.Setenv("PUBLISH_INTERVAL", "")
	t.Setenv("MIN_POST_AGE", "")
	t.Setenv("POST_RETENTION", "")
	t.Setenv("DISPOSE_POLICY", "")
	t.Setenv("RETRACT_BEFORE_PUBLISH", "")
	t.Setenv("DEFAULT_LANGUAGE", "")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DISPOSE_POLICY", "mark")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "123456:test-token", cfg.BotToken)
	assert.Equal(t, []int64{1000}, cfg.AdminIDs)
	assert.Empty(t, cfg.ChannelIDs)
	assert.Equal(t, 10*time.Minute, cfg.PublishInterval)
	assert.Equal(t, time.Duration(0), cfg.MinPostAge)
	assert.Equal(t, 30*24*time.Hour, cfg.PostRetention)
	assert.Equal(t, DisposeMark, cfg.DisposePolicy)
	assert.False(t, cfg.RetractBeforePublish)
	assert.Equal(t, "en", cfg.DefaultLanguage)
}

func TestLoadConfigFullSettings(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ADMIN_IDS", "1000, 2000,3000")
	t.Setenv("CHANNEL_IDS", "-100123,-100456")
	t.Setenv("PUBLISH_INTERVAL", "2h")
	t.Setenv("MIN_POST_AGE", "45m")
	t.Setenv("DISPOSE_POLICY", "delete")
	t.Setenv("RETRACT_BEFORE_PUBLISH", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, []int64{1000, 2000, 3000}, cfg.AdminIDs)
	assert.Equal(t, []int64{-100123, -100456}, cfg.ChannelIDs)
	assert.Equal(t, 2*time.Hour, cfg.PublishInterval)
	assert.Equal(t, 45*time.Minute, cfg.MinPostAge)
	assert.Equal(t, DisposeDelete, cfg.DisposePolicy)
	assert.True(t, cfg.RetractBeforePublish)
}

func TestLoadConfigValidation(t *testing.T) {
	t.Run("MissingBotToken", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("TELEGRAM_BOT_TOKEN", "")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "TELEGRAM_BOT_TOKEN")
	})

	t.Run("MissingAdminIDs", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("ADMIN_IDS", "")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "ADMIN_IDS")
	})

	t.Run("MalformedAdminIDs", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("ADMIN_IDS", "1000,abc")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "ADMIN_IDS")
	})

	t.Run("MissingMongoURI", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("MONGODB_URI", "")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "MONGODB_URI")
	})

	t.Run("UnknownDisposePolicy", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("DISPOSE_POLICY", "shred")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "DISPOSE_POLICY")
	})

	t.Run("BadPublishInterval", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("PUBLISH_INTERVAL", "soon")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "PUBLISH_INTERVAL")
	})
}

func TestConfigIsAdmin(t *testing.T) {
	cfg := &Config{AdminIDs: []int64{1000, 2000}}

	assert.True(t, cfg.IsAdmin(1000))
	assert.True(t, cfg.IsAdmin(2000))
	assert.False(t, cfg.IsAdmin(3000))
}
