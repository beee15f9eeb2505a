package handlers

import (
	"context"
	"log"

	"adboard-bot/internal/auth"
	"adboard-bot/internal/database"
	"adboard-bot/pkg/telegoapi"

	"github.com/mymmrac/telego"
)

// Command represents a bot command, mapping the command string to its
// description key and handler function.
type Command struct {
	Command     string // The command string (e.g., "start").
	Description string // Localization key of the command description for /help.
	AdminOnly   bool   // Hidden from non-admins in /help, gated in the handler.
	Handler     func(context.Context, telegoapi.BotAPI, telego.Message) error
}

// MessageHandler handles incoming Telegram commands and post submissions.
// It is stateless between updates; all durable state lives in the repositories.
type MessageHandler struct {
	version string

	postRepo     database.PostRepository
	banRepo      database.BanRepository
	channelRepo  database.ChannelRepository // nil when the channel list is static
	actionLogger database.UserActionLogger
	adminChecker auth.AdminCheckerInterface

	commands []Command
}

// NewMessageHandler creates and initializes a new MessageHandler instance.
// channelRepo may be nil when the destination channels are fixed in configuration.
func NewMessageHandler(
	version string,
	postRepo database.PostRepository,
	banRepo database.BanRepository,
	channelRepo database.ChannelRepository,
	actionLogger database.UserActionLogger,
	adminChecker auth.AdminCheckerInterface,
) *MessageHandler {
	if postRepo == nil {
		log.Fatal("MessageHandler: post repository dependency is nil")
	}
	if banRepo == nil {
		log.Fatal("MessageHandler: ban repository dependency is nil")
	}
	if adminChecker == nil {
		log.Fatal("MessageHandler: admin checker dependency is nil")
	}

	h := &MessageHandler{
		version:      version,
		postRepo:     postRepo,
		banRepo:      banRepo,
		channelRepo:  channelRepo,
		actionLogger: actionLogger,
		adminChecker: adminChecker,
	}
	h.commands = []Command{
		{Command: "start", Description: "CmdStartDesc", Handler: h.HandleStart},
		{Command: "help", Description: "CmdHelpDesc", Handler: h.HandleHelp},
		{Command: "version", Description: "CmdVersionDesc", Handler: h.HandleVersion},
		{Command: "ban", Description: "CmdBanDesc", AdminOnly: true, Handler: h.HandleBan},
		{Command: "unban", Description: "CmdUnbanDesc", AdminOnly: true, Handler: h.HandleUnban},
		{Command: "all_posts", Description: "CmdAllPostsDesc", AdminOnly: true, Handler: h.HandleAllPosts},
		{Command: "add_channel", Description: "CmdAddChannelDesc", AdminOnly: true, Handler: h.HandleAddChannel},
		{Command: "remove_channel", Description: "CmdRemoveChannelDesc", AdminOnly: true, Handler: h.HandleRemoveChannel},
	}
	return h
}

// GetCommandHandler retrieves the handler function for a command string (e.g., "start").
// It returns nil if the command is not found.
func (h *MessageHandler) GetCommandHandler(command string) func(context.Context, telegoapi.BotAPI, telego.Message) error {
	for _, cmd := range h.commands {
		if cmd.Command == command {
			return cmd.Handler
		}
	}
	return nil
}
