package handlers

import (
	"context"
	"log"

	"adboard-bot/internal/locales"
	"adboard-bot/pkg/telegoapi"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"github.com/nicksnyder/go-i18n/v2/i18n"
)

// sendSuccess sends a reply to the user. Send failures are logged, not surfaced.
func (h *MessageHandler) sendSuccess(ctx context.Context, bot telegoapi.BotAPI, chatID int64, text string) error {
	_, err := bot.SendMessage(ctx, tu.Message(tu.ID(chatID), text))
	if err != nil {
		log.Printf("Error sending reply to chat %d: %v", chatID, err)
	}
	return nil
}

// sendError sends a generic localized error message and returns the original
// error so the update loop can report it.
func (h *MessageHandler) sendError(ctx context.Context, bot telegoapi.BotAPI, chatID int64, originalErr error) error {
	log.Printf("Error for user in chat %d: %v", chatID, originalErr)

	localizer := locales.NewLocalizer(locales.GetDefaultLanguageTag().String())
	errMsg := locales.GetMessage(localizer, "MsgErrorGeneral", nil, nil)

	if _, sendErr := bot.SendMessage(ctx, tu.Message(tu.ID(chatID), errMsg)); sendErr != nil {
		log.Printf("Error sending generic error message to chat %d: %v", chatID, sendErr)
	}

	return originalErr
}

// getLocalizer picks a localizer for the given user, falling back to the
// configured default language.
func (h *MessageHandler) getLocalizer(user *telego.User) *i18n.Localizer {
	lang := locales.GetDefaultLanguageTag().String()
	if user != nil && user.LanguageCode != "" {
		lang = user.LanguageCode
	}
	return locales.NewLocalizer(lang)
}

// recordUserActivity logs the action performed by a user. Logging failures
// never fail the operation for the user.
func (h *MessageHandler) recordUserActivity(user *telego.User, action string, details map[string]interface{}) {
	if user == nil {
		log.Printf("Attempted to record activity for nil user, action: %s", action)
		return
	}
	if h.actionLogger == nil {
		return
	}
	if err := h.actionLogger.LogUserAction(user.ID, action, details); err != nil {
		log.Printf("Error logging action %s for user %d (%s): %v", action, user.ID, user.Username, err)
	}
}

// requireAdmin checks the allow-list. Non-admin invocations of admin commands
// are a silent no-op, only logged.
func (h *MessageHandler) requireAdmin(ctx context.Context, command string, userID int64) bool {
	isAdmin, err := h.adminChecker.IsAdmin(ctx, userID)
	if err != nil {
		log.Printf("[Cmd:%s User:%d] Admin check failed: %v. Assuming non-admin.", command, userID, err)
		return false
	}
	if !isAdmin {
		log.Printf("[Cmd:%s User:%d] Non-admin attempted admin command, ignoring.", command, userID)
	}
	return isAdmin
}
