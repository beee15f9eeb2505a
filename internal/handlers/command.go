package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"adboard-bot/internal/locales"
	"adboard-bot/pkg/telegoapi"

	"github.com/mymmrac/telego"
)

// HandleStart handles the /start command.
// It registers the bot commands with Telegram, logs the action, and sends a welcome message.
func (h *MessageHandler) HandleStart(ctx context.Context, bot telegoapi.BotAPI, message telego.Message) error {
	if err := h.setupCommands(ctx, bot); err != nil {
		return h.sendError(ctx, bot, message.Chat.ID, fmt.Errorf("failed to set up commands: %w", err))
	}

	localizer := h.getLocalizer(message.From)

	h.recordUserActivity(message.From, ActionCommandStart, map[string]interface{}{
		"chat_id": message.Chat.ID,
	})

	startMsg := locales.GetMessage(localizer, "MsgStart", nil, nil)
	return h.sendSuccess(ctx, bot, message.Chat.ID, startMsg)
}

// HandleHelp handles the /help command.
// Admin-only commands are listed only for users on the allow-list.
func (h *MessageHandler) HandleHelp(ctx context.Context, bot telegoapi.BotAPI, message telego.Message) error {
	localizer := h.getLocalizer(message.From)
	isAdmin, _ := h.adminChecker.IsAdmin(ctx, message.From.ID)

	var helpText strings.Builder
	helpText.WriteString(locales.GetMessage(localizer, "MsgHelpHeader", nil, nil) + "\n")
	for _, cmd := range h.commands {
		if cmd.AdminOnly && !isAdmin {
			continue
		}
		localizedDesc := locales.GetMessage(localizer, cmd.Description, nil, nil)
		helpText.WriteString(fmt.Sprintf("/%s - %s\n", cmd.Command, localizedDesc))
	}
	footerKey := "MsgHelpFooterUser"
	if isAdmin {
		footerKey = "MsgHelpFooterAdmin"
	}
	helpText.WriteString(locales.GetMessage(localizer, footerKey, nil, nil))

	h.recordUserActivity(message.From, ActionCommandHelp, map[string]interface{}{
		"chat_id":  message.Chat.ID,
		"is_admin": isAdmin,
	})

	return h.sendSuccess(ctx, bot, message.Chat.ID, helpText.String())
}

// HandleVersion handles the /version command.
func (h *MessageHandler) HandleVersion(ctx context.Context, bot telegoapi.BotAPI, message telego.Message) error {
	localizer := h.getLocalizer(message.From)

	versionText := locales.GetMessage(localizer, "MsgVersion", map[string]interface{}{
		"Version": h.version,
	}, nil)

	h.recordUserActivity(message.From, ActionCommandVersion, map[string]interface{}{
		"chat_id": message.Chat.ID,
		"version": h.version,
	})

	return h.sendSuccess(ctx, bot, message.Chat.ID, versionText)
}

// HandleBan handles the admin-only /ban <user_id> command.
// The reply is sent only after the ban has been persisted.
func (h *MessageHandler) HandleBan(ctx context.Context, bot telegoapi.BotAPI, message telego.Message) error {
	if !h.requireAdmin(ctx, "ban", message.From.ID) {
		return nil
	}
	localizer := h.getLocalizer(message.From)

	targetID, err := parseIDArg(message.Text)
	if err != nil {
		usage := locales.GetMessage(localizer, "MsgBanUsage", nil, nil)
		return h.sendSuccess(ctx, bot, message.Chat.ID, usage)
	}

	added, err := h.banRepo.Ban(ctx, targetID)
	if err != nil {
		return h.sendError(ctx, bot, message.Chat.ID, fmt.Errorf("failed to ban user %d: %w", targetID, err))
	}

	h.recordUserActivity(message.From, ActionCommandBan, map[string]interface{}{
		"chat_id":   message.Chat.ID,
		"target_id": targetID,
		"added":     added,
	})

	msgID := "MsgBanned"
	if !added {
		msgID = "MsgAlreadyBanned"
	}
	reply := locales.GetMessage(localizer, msgID, map[string]interface{}{"UserID": targetID}, nil)
	return h.sendSuccess(ctx, bot, message.Chat.ID, reply)
}

// HandleUnban handles the admin-only /unban <user_id> command.
func (h *MessageHandler) HandleUnban(ctx context.Context, bot telegoapi.BotAPI, message telego.Message) error {
	if !h.requireAdmin(ctx, "unban", message.From.ID) {
		return nil
	}
	localizer := h.getLocalizer(message.From)

	targetID, err := parseIDArg(message.Text)
	if err != nil {
		usage := locales.GetMessage(localizer, "MsgUnbanUsage", nil, nil)
		return h.sendSuccess(ctx, bot, message.Chat.ID, usage)
	}

	removed, err := h.banRepo.Unban(ctx, targetID)
	if err != nil {
		return h.sendError(ctx, bot, message.Chat.ID, fmt.Errorf("failed to unban user %d: %w", targetID, err))
	}

	h.recordUserActivity(message.From, ActionCommandUnban, map[string]interface{}{
		"chat_id":   message.Chat.ID,
		"target_id": targetID,
		"removed":   removed,
	})

	msgID := "MsgUnbanned"
	if !removed {
		msgID = "MsgNotBanned"
	}
	reply := locales.GetMessage(localizer, msgID, map[string]interface{}{"UserID": targetID}, nil)
	return h.sendSuccess(ctx, bot, message.Chat.ID, reply)
}

// HandleAllPosts handles the admin-only /all_posts command.
// It lists every pending post as "user_id: body" lines. Read-only.
func (h *MessageHandler) HandleAllPosts(ctx context.Context, bot telegoapi.BotAPI, message telego.Message) error {
	if !h.requireAdmin(ctx, "all_posts", message.From.ID) {
		return nil
	}
	localizer := h.getLocalizer(message.From)

	posts, err := h.postRepo.ListPending(ctx)
	if err != nil {
		return h.sendError(ctx, bot, message.Chat.ID, fmt.Errorf("failed to list pending posts: %w", err))
	}

	h.recordUserActivity(message.From, ActionCommandAllPosts, map[string]interface{}{
		"chat_id": message.Chat.ID,
		"count":   len(posts),
	})

	if len(posts) == 0 {
		reply := locales.GetMessage(localizer, "MsgNoPosts", nil, nil)
		return h.sendSuccess(ctx, bot, message.Chat.ID, reply)
	}

	var listing strings.Builder
	listing.WriteString(locales.GetMessage(localizer, "MsgAllPostsHeader", nil, nil) + "\n")
	for _, post := range posts {
		listing.WriteString(fmt.Sprintf("%d: %s\n", post.UserID, post.Body))
	}
	return h.sendSuccess(ctx, bot, message.Chat.ID, listing.String())
}

// HandleAddChannel handles the admin-only /add_channel <chat_id> command.
// Rejected with a notice when the channel list is fixed in configuration.
func (h *MessageHandler) HandleAddChannel(ctx context.Context, bot telegoapi.BotAPI, message telego.Message) error {
	if !h.requireAdmin(ctx, "add_channel", message.From.ID) {
		return nil
	}
	localizer := h.getLocalizer(message.From)

	if h.channelRepo == nil {
		reply := locales.GetMessage(localizer, "MsgChannelsStatic", nil, nil)
		return h.sendSuccess(ctx, bot, message.Chat.ID, reply)
	}

	channelID, err := parseIDArg(message.Text)
	if err != nil {
		usage := locales.GetMessage(localizer, "MsgChannelUsage", map[string]interface{}{"Command": "/add_channel"}, nil)
		return h.sendSuccess(ctx, bot, message.Chat.ID, usage)
	}

	if _, err := h.channelRepo.Add(ctx, channelID); err != nil {
		return h.sendError(ctx, bot, message.Chat.ID, fmt.Errorf("failed to add channel %d: %w", channelID, err))
	}

	h.recordUserActivity(message.From, ActionCommandAddChannel, map[string]interface{}{
		"chat_id":    message.Chat.ID,
		"channel_id": channelID,
	})

	reply := locales.GetMessage(localizer, "MsgChannelAdded", map[string]interface{}{"ChannelID": channelID}, nil)
	return h.sendSuccess(ctx, bot, message.Chat.ID, reply)
}

// HandleRemoveChannel handles the admin-only /remove_channel <chat_id> command.
func (h *MessageHandler) HandleRemoveChannel(ctx context.Context, bot telegoapi.BotAPI, message telego.Message) error {
	if !h.requireAdmin(ctx, "remove_channel", message.From.ID) {
		return nil
	}
	localizer := h.getLocalizer(message.From)

	if h.channelRepo == nil {
		reply := locales.GetMessage(localizer, "MsgChannelsStatic", nil, nil)
		return h.sendSuccess(ctx, bot, message.Chat.ID, reply)
	}

	channelID, err := parseIDArg(message.Text)
	if err != nil {
		usage := locales.GetMessage(localizer, "MsgChannelUsage", map[string]interface{}{"Command": "/remove_channel"}, nil)
		return h.sendSuccess(ctx, bot, message.Chat.ID, usage)
	}

	removed, err := h.channelRepo.Remove(ctx, channelID)
	if err != nil {
		return h.sendError(ctx, bot, message.Chat.ID, fmt.Errorf("failed to remove channel %d: %w", channelID, err))
	}

	h.recordUserActivity(message.From, ActionCommandRemoveChannel, map[string]interface{}{
		"chat_id":    message.Chat.ID,
		"channel_id": channelID,
		"removed":    removed,
	})

	msgID := "MsgChannelRemoved"
	if !removed {
		msgID = "MsgChannelNotFound"
	}
	reply := locales.GetMessage(localizer, msgID, map[string]interface{}{"ChannelID": channelID}, nil)
	return h.sendSuccess(ctx, bot, message.Chat.ID, reply)
}

// parseIDArg extracts the single integer argument of commands like /ban 42.
func parseIDArg(text string) (int64, error) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return 0, fmt.Errorf("expected exactly one argument, got %d", len(fields)-1)
	}
	id, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("argument is not an integer: %w", err)
	}
	return id, nil
}

// setupCommands registers the bot's commands with Telegram using localized descriptions.
func (h *MessageHandler) setupCommands(ctx context.Context, bot telegoapi.BotAPI) error {
	if len(h.commands) == 0 {
		return nil
	}

	localizer := locales.NewLocalizer(locales.GetDefaultLanguageTag().String())

	commands := make([]telego.BotCommand, 0, len(h.commands))
	for _, cmd := range h.commands {
		if cmd.AdminOnly {
			continue // keep admin commands out of the public command menu
		}
		commands = append(commands, telego.BotCommand{
			Command:     cmd.Command,
			Description: locales.GetMessage(localizer, cmd.Description, nil, nil),
		})
	}

	if err := bot.SetMyCommands(ctx, &telego.SetMyCommandsParams{Commands: commands}); err != nil {
		return fmt.Errorf("failed to set bot commands: %w", err)
	}
	return nil
}
