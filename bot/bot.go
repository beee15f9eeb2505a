package bot

import (
	"context"
	"fmt"
	"log"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"adboard-bot/internal/handlers"
	"adboard-bot/internal/locales"
	"adboard-bot/pkg/telegoapi"

	"github.com/getsentry/sentry-go"
	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"go.uber.org/ratelimit"
)

// Bot wraps the telego update stream, routing commands and private-chat
// submissions to the message handler.
type Bot struct {
	bot         telegoapi.BotAPI
	updatesChan <-chan telego.Update
	debug       bool
	handler     *handlers.MessageHandler
	ratelimiter ratelimit.Limiter
}

// Deps holds the dependencies required by the Bot.
type Deps struct {
	Bot         telegoapi.BotAPI
	UpdatesChan <-chan telego.Update
	Debug       bool
	Handler     *handlers.MessageHandler
}

// New creates a new Bot instance from its dependencies.
func New(deps Deps) (*Bot, error) {
	if deps.Bot == nil {
		return nil, fmt.Errorf("telego bot (BotAPI) instance cannot be nil")
	}
	if deps.UpdatesChan == nil {
		return nil, fmt.Errorf("updates channel cannot be nil")
	}
	if deps.Handler == nil {
		return nil, fmt.Errorf("message handler cannot be nil")
	}

	return &Bot{
		bot:         deps.Bot,
		updatesChan: deps.UpdatesChan,
		debug:       deps.Debug,
		handler:     deps.Handler,
		ratelimiter: ratelimit.New(20),
	}, nil
}

// handleCommandUpdate processes a message identified as a command.
func (b *Bot) handleCommandUpdate(ctx context.Context, message telego.Message) {
	command := "unknown"
	if len(message.Text) > 1 && strings.HasPrefix(message.Text, "/") {
		command = strings.Split(message.Text, " ")[0][1:]
	}
	logPrefix := fmt.Sprintf("[Cmd:%s User:%d]", command, message.From.ID)

	handlerFunc := b.handler.GetCommandHandler(command)
	if handlerFunc == nil {
		log.Printf("%s No handler found", logPrefix)
		localizer := locales.NewLocalizer(locales.GetDefaultLanguageTag().String())
		unknownCmdMsg := locales.GetMessage(localizer, "MsgErrorUnknownCommand", nil, nil)
		if _, err := b.bot.SendMessage(ctx, tu.Message(tu.ID(message.Chat.ID), unknownCmdMsg)); err != nil {
			log.Printf("%s Failed to send unknown command message: %v", logPrefix, err)
		}
		return
	}

	if b.debug {
		log.Printf("%s Executing handler", logPrefix)
	}
	if err := handlerFunc(ctx, b.bot, message); err != nil {
		log.Printf("%s Handler error: %v", logPrefix, err)
		sentry.CaptureException(fmt.Errorf("%s handler error: %w", logPrefix, err))
	}
}

// processUpdate routes incoming updates to the appropriate handlers.
func (b *Bot) processUpdate(ctx context.Context, update telego.Update) {
	b.ratelimiter.Take()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("PANIC recovered in processUpdate: %v\n%s", r, debug.Stack())
			sentry.CurrentHub().Recover(r)
			sentry.Flush(2 * time.Second)
		}
	}()

	processingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if update.Message == nil {
		if b.debug {
			log.Printf("Ignoring unhandled update type: %+v", update)
		}
		return
	}

	message := *update.Message
	if message.From == nil {
		// Channel posts from linked chats carry no sender; nothing to do.
		log.Printf("Ignoring message %d from chat %d without sender", message.MessageID, message.Chat.ID)
		return
	}

	var err error
	switch {
	case strings.HasPrefix(message.Text, "/"):
		b.handleCommandUpdate(processingCtx, message)
		return
	case len(message.Photo) > 0:
		err = b.handler.HandlePhoto(processingCtx, b.bot, message)
	case message.Text != "":
		err = b.handler.HandleText(processingCtx, b.bot, message)
	default:
		if message.Chat.Type == telego.ChatTypePrivate {
			localizer := locales.NewLocalizer(locales.GetDefaultLanguageTag().String())
			notice := locales.GetMessage(localizer, "MsgSubmissionUnsupported", nil, nil)
			if _, sendErr := b.bot.SendMessage(processingCtx, tu.Message(tu.ID(message.Chat.ID), notice)); sendErr != nil {
				log.Printf("[Msg:%d User:%d] Failed to send unsupported-content notice: %v", message.MessageID, message.From.ID, sendErr)
			}
		} else if b.debug {
			log.Printf("Ignoring unhandled message type (ID: %d)", message.MessageID)
		}
		return
	}
	if err != nil {
		log.Printf("[Msg:%d User:%d] Handler error: %v", message.MessageID, message.From.ID, err)
		sentry.CaptureException(fmt.Errorf("message %d handler error: %w", message.MessageID, err))
	}
}

// Start begins the bot's update processing loop and blocks until ctx is done
// or the updates channel closes.
func (b *Bot) Start(ctx context.Context) {
	log.Println("Listening for updates...")

	var wg sync.WaitGroup

	for {
		select {
		case <-ctx.Done():
			log.Println("Context done, stopping update processing...")
			wg.Wait()
			log.Println("All update processing finished.")
			return
		case update, ok := <-b.updatesChan:
			if !ok {
				log.Println("Updates channel closed.")
				wg.Wait()
				return
			}
			wg.Add(1)
			go func(up telego.Update) {
				defer wg.Done()
				b.processUpdate(ctx, up)
			}(update)
		}
	}
}
