package locales

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetMessage(t *testing.T) {
	Init("en")

	t.Run("KnownKey", func(t *testing.T) {
		msg := GetMessage(NewLocalizer("en"), "MsgNoPosts", nil, nil)
		assert.Equal(t, "No pending posts.", msg)
	})

	t.Run("TemplateData", func(t *testing.T) {
		msg := GetMessage(NewLocalizer("en"), "MsgBanned", map[string]interface{}{"UserID": int64(42)}, nil)
		assert.Equal(t, "🚫 User 42 banned", msg)
	})

	t.Run("RussianTranslation", func(t *testing.T) {
		msg := GetMessage(NewLocalizer("ru"), "MsgNoPosts", nil, nil)
		assert.Equal(t, "Нет постов для отправки.", msg)
	})

	t.Run("UnknownLanguageFallsBackToDefault", func(t *testing.T) {
		msg := GetMessage(NewLocalizer("xx"), "MsgNoPosts", nil, nil)
		assert.Equal(t, "No pending posts.", msg)
	})

	t.Run("UnknownKeyReturnsID", func(t *testing.T) {
		msg := GetMessage(NewLocalizer("en"), "MsgDoesNotExist", nil, nil)
		assert.Equal(t, "MsgDoesNotExist", msg)
	})
}

func TestGetDefaultLanguageTag(t *testing.T) {
	Init("ru")
	assert.Equal(t, "ru", GetDefaultLanguageTag().String())

	// Restore the default other package tests rely on.
	Init("en")
}
