package handlers

import (
	"context"
	"fmt"
	"log"
	"time"

	"adboard-bot/internal/database/models"
	"adboard-bot/internal/locales"
	"adboard-bot/pkg/telegoapi"

	"github.com/mymmrac/telego"
)

// HandleText handles an incoming private text message as a post submission.
func (h *MessageHandler) HandleText(ctx context.Context, bot telegoapi.BotAPI, message telego.Message) error {
	if message.Text == "" {
		return nil
	}
	return h.handleSubmission(ctx, bot, message, message.Text, "", ActionSubmitText)
}

// HandlePhoto handles an incoming private photo message as a post submission.
// The caption becomes the post body; the highest-resolution photo variant is kept.
func (h *MessageHandler) HandlePhoto(ctx context.Context, bot telegoapi.BotAPI, message telego.Message) error {
	if len(message.Photo) == 0 {
		log.Printf("HandlePhoto called with non-photo message (ID: %d) from user %d", message.MessageID, message.From.ID)
		return nil
	}
	// Telegram lists photo sizes in ascending order; the last one is the largest.
	fileID := message.Photo[len(message.Photo)-1].FileID
	return h.handleSubmission(ctx, bot, message, message.Caption, fileID, ActionSubmitPhoto)
}

// handleSubmission persists a submission, overwriting any previous pending post
// for the sender. Banned senders get a refusal and cause no storage mutation.
func (h *MessageHandler) handleSubmission(ctx context.Context, bot telegoapi.BotAPI, message telego.Message, body, fileID, action string) error {
	userID := message.From.ID
	chatID := message.Chat.ID
	localizer := h.getLocalizer(message.From)

	if message.Chat.Type != telego.ChatTypePrivate {
		log.Printf("[Submission User:%d] Ignoring submission from non-private chat %d (%s)", userID, chatID, message.Chat.Type)
		return nil
	}

	banned, err := h.banRepo.IsBanned(ctx, userID)
	if err != nil {
		return h.sendError(ctx, bot, chatID, fmt.Errorf("failed to check ban state for user %d: %w", userID, err))
	}
	if banned {
		log.Printf("[Submission User:%d] Banned user attempted to submit a post.", userID)
		refusal := locales.GetMessage(localizer, "MsgSubmissionBanned", nil, nil)
		return h.sendSuccess(ctx, bot, chatID, refusal)
	}

	post := &models.Post{
		UserID:    userID,
		Username:  message.From.Username,
		Body:      body,
		FileID:    fileID,
		CreatedAt: time.Now(),
	}
	if err := h.postRepo.Upsert(ctx, post); err != nil {
		return h.sendError(ctx, bot, chatID, fmt.Errorf("failed to store post for user %d: %w", userID, err))
	}

	h.recordUserActivity(message.From, action, map[string]interface{}{
		"chat_id":   chatID,
		"has_photo": fileID != "",
	})

	confirmation := locales.GetMessage(localizer, "MsgSubmissionReceived", nil, nil)
	return h.sendSuccess(ctx, bot, chatID, confirmation)
}
