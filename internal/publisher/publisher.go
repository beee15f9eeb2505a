package publisher

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime/debug"
	"time"

	"adboard-bot/internal/config"
	"adboard-bot/internal/database"
	"adboard-bot/internal/database/models"
	"adboard-bot/pkg/telegoapi"

	"github.com/getsentry/sentry-go"
	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"go.uber.org/ratelimit"
)

// sendTimeout bounds every outbound Telegram call so a hung request cannot
// stall the whole batch.
const sendTimeout = 10 * time.Second

// Publisher periodically fans pending posts out to the configured channels.
// It alternates between waiting out the interval and running one batch; a batch
// always completes, partial failures included, before the next wait begins.
type Publisher struct {
	bot        telegoapi.BotAPI
	posts      database.PostRepository
	bans       database.BanRepository
	channels   database.ChannelSource
	postLogger database.PostLogger

	interval   time.Duration
	minPostAge time.Duration
	policy     config.DisposePolicy
	retract    bool
	retention  time.Duration

	limiter ratelimit.Limiter
	now     func() time.Time

	// lastSent maps a channel ID to the message IDs delivered there during the
	// most recent batch. Used only for retraction; reset at the start of each
	// retraction pass and never persisted.
	lastSent map[int64][]int
}

// Deps holds the dependencies required by the Publisher.
type Deps struct {
	Bot        telegoapi.BotAPI
	Posts      database.PostRepository
	Bans       database.BanRepository
	Channels   database.ChannelSource
	PostLogger database.PostLogger

	Interval             time.Duration
	MinPostAge           time.Duration
	DisposePolicy        config.DisposePolicy
	RetractBeforePublish bool
	PostRetention        time.Duration

	// Now overrides the clock in tests; defaults to time.Now.
	Now func() time.Time
}

// New creates a Publisher from its dependencies.
func New(deps Deps) (*Publisher, error) {
	if deps.Bot == nil {
		return nil, fmt.Errorf("bot instance cannot be nil")
	}
	if deps.Posts == nil {
		return nil, fmt.Errorf("post repository cannot be nil")
	}
	if deps.Bans == nil {
		return nil, fmt.Errorf("ban repository cannot be nil")
	}
	if deps.Channels == nil {
		return nil, fmt.Errorf("channel source cannot be nil")
	}
	if deps.Interval <= 0 {
		return nil, fmt.Errorf("publish interval must be positive, got %s", deps.Interval)
	}
	if deps.DisposePolicy != config.DisposeMark && deps.DisposePolicy != config.DisposeDelete {
		return nil, fmt.Errorf("unknown dispose policy %q", deps.DisposePolicy)
	}

	now := deps.Now
	if now == nil {
		now = time.Now
	}

	return &Publisher{
		bot:        deps.Bot,
		posts:      deps.Posts,
		bans:       deps.Bans,
		channels:   deps.Channels,
		postLogger: deps.PostLogger,
		interval:   deps.Interval,
		minPostAge: deps.MinPostAge,
		policy:     deps.DisposePolicy,
		retract:    deps.RetractBeforePublish,
		retention:  deps.PostRetention,
		limiter:    ratelimit.New(20),
		now:        now,
		lastSent:   make(map[int64][]int),
	}, nil
}

// Run executes publish batches at the configured interval until ctx is cancelled.
// No cycle failure ever terminates the loop.
func (p *Publisher) Run(ctx context.Context) {
	log.Printf("[Publisher] Started with interval %s, policy %q", p.interval, p.policy)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[Publisher] Context cancelled, stopping.")
			return
		case <-ticker.C:
			p.RunBatch(ctx)
		}
	}
}

// RunBatch executes one publish cycle: retract previous messages if enabled,
// snapshot due posts and channels, fan each post out to every channel, then
// dispose of delivered posts.
func (p *Publisher) RunBatch(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Publisher] PANIC recovered in batch: %v\n%s", r, debug.Stack())
			sentry.CurrentHub().Recover(r)
			sentry.Flush(2 * time.Second)
		}
	}()

	channels, err := p.channels.List(ctx)
	if err != nil {
		log.Printf("[Publisher] Failed to list channels, skipping cycle: %v", err)
		sentry.CaptureException(fmt.Errorf("publisher channel listing failed: %w", err))
		return
	}

	if p.retract {
		p.retractPrevious(ctx, channels)
	}

	posts, err := p.posts.ListDue(ctx, p.now(), p.minPostAge)
	if err != nil {
		log.Printf("[Publisher] Failed to list due posts, skipping cycle: %v", err)
		sentry.CaptureException(fmt.Errorf("publisher post listing failed: %w", err))
		return
	}

	if len(posts) == 0 {
		return
	}
	if len(channels) == 0 {
		log.Printf("[Publisher] %d post(s) due but no channels configured, nothing sent.", len(posts))
		return
	}

	log.Printf("[Publisher] Publishing %d post(s) to %d channel(s)", len(posts), len(channels))

	var disposed int
	for i := range posts {
		if p.publishPost(ctx, &posts[i], channels) {
			disposed++
		}
	}

	p.purgeOld(ctx)

	log.Printf("[Publisher] Batch complete: %d/%d post(s) disposed", disposed, len(posts))
}

// publishPost fans one post out to every channel and disposes of it when at
// least one delivery succeeded. It reports whether the post was disposed.
func (p *Publisher) publishPost(ctx context.Context, post *models.Post, channels []int64) bool {
	// Re-check ban state: a ban applied after submission must suppress
	// publication. Skipped posts stay pending so a later unban still publishes.
	banned, err := p.bans.IsBanned(ctx, post.UserID)
	if err != nil {
		log.Printf("[Publisher User:%d] Ban check failed, deferring post to next cycle: %v", post.UserID, err)
		return false
	}
	if banned {
		log.Printf("[Publisher User:%d] Submitter is banned, post not sent.", post.UserID)
		return false
	}

	delivered := 0
	for _, channelID := range channels {
		messageID, err := p.sendToChannel(ctx, post, channelID)
		if err != nil {
			log.Printf("[Publisher User:%d Channel:%d] Delivery failed: %v", post.UserID, channelID, err)
			sentry.CaptureException(fmt.Errorf("delivery of post from user %d to channel %d failed: %w", post.UserID, channelID, err))
			continue
		}
		delivered++
		if p.retract {
			p.lastSent[channelID] = append(p.lastSent[channelID], messageID)
		}
		p.logDelivery(post, channelID, messageID)
	}

	if delivered == 0 {
		// Total failure: leave the post pending for the next cycle.
		log.Printf("[Publisher User:%d] Delivered to no channel, post left pending.", post.UserID)
		return false
	}
	if delivered < len(channels) {
		// Best-effort fan-out: partial failure still disposes.
		log.Printf("[Publisher User:%d] Delivered to %d of %d channels, disposing anyway.", post.UserID, delivered, len(channels))
	}

	return p.dispose(ctx, post)
}

// sendToChannel delivers one post to one channel and returns the sent message ID.
func (p *Publisher) sendToChannel(ctx context.Context, post *models.Post, channelID int64) (int, error) {
	p.limiter.Take()

	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	text := Render(post)

	var sent *telego.Message
	var err error
	if post.HasPhoto() {
		sent, err = p.bot.SendPhoto(sendCtx, &telego.SendPhotoParams{
			ChatID:  tu.ID(channelID),
			Photo:   telego.InputFile{FileID: post.FileID},
			Caption: text,
		})
	} else {
		sent, err = p.bot.SendMessage(sendCtx, tu.Message(tu.ID(channelID), text))
	}
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

// dispose applies the configured dispose policy. A record replaced by a newer
// submission mid-batch is left alone. It reports whether the post was disposed.
func (p *Publisher) dispose(ctx context.Context, post *models.Post) bool {
	var err error
	switch p.policy {
	case config.DisposeDelete:
		err = p.posts.Delete(ctx, post.UserID, post.CreatedAt)
	default:
		err = p.posts.MarkPublished(ctx, post.UserID, post.CreatedAt)
	}

	if errors.Is(err, database.ErrPostNotFound) {
		log.Printf("[Publisher User:%d] Post was replaced during the batch, newer submission kept.", post.UserID)
		return false
	}
	if err != nil {
		// Mark failure after a successful send: the next cycle may send a
		// duplicate. Accepted degraded behavior.
		log.Printf("[Publisher User:%d] WARNING: dispose failed, duplicate send possible next cycle: %v", post.UserID, err)
		sentry.CaptureException(fmt.Errorf("dispose of post from user %d failed: %w", post.UserID, err))
		return false
	}
	return true
}

// retractPrevious deletes every message recorded during the previous batch,
// then resets the record. Failures are logged and never abort the batch.
func (p *Publisher) retractPrevious(ctx context.Context, channels []int64) {
	previous := p.lastSent
	p.lastSent = make(map[int64][]int)

	for _, channelID := range channels {
		for _, messageID := range previous[channelID] {
			p.limiter.Take()
			delCtx, cancel := context.WithTimeout(ctx, sendTimeout)
			err := p.bot.DeleteMessage(delCtx, &telego.DeleteMessageParams{
				ChatID:    tu.ID(channelID),
				MessageID: messageID,
			})
			cancel()
			if err != nil {
				log.Printf("[Publisher Channel:%d] Failed to retract message %d: %v", channelID, messageID, err)
			}
		}
	}
}

// purgeOld removes long-published posts under the mark policy. The delete
// policy disposes records outright, so there is nothing to purge.
func (p *Publisher) purgeOld(ctx context.Context) {
	if p.policy != config.DisposeMark || p.retention <= 0 {
		return
	}
	removed, err := p.posts.PurgePublishedBefore(ctx, p.now().Add(-p.retention))
	if err != nil {
		log.Printf("[Publisher] Failed to purge old published posts: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("[Publisher] Purged %d published post(s) older than %s", removed, p.retention)
	}
}

// logDelivery records a successful per-channel delivery in the post log.
func (p *Publisher) logDelivery(post *models.Post, channelID int64, messageID int) {
	if p.postLogger == nil {
		return
	}
	entry := models.PostLog{
		SenderID:       post.UserID,
		SenderUsername: post.Username,
		Body:           post.Body,
		MessageType:    "text",
		ReceivedAt:     post.CreatedAt,
		PublishedAt:    p.now(),
		ChannelID:      channelID,
		ChannelPostID:  messageID,
	}
	if post.HasPhoto() {
		entry.MessageType = "photo"
	}
	if err := p.postLogger.LogPublishedPost(entry); err != nil {
		log.Printf("[Publisher User:%d Channel:%d] Failed to log delivery: %v", post.UserID, channelID, err)
	}
}
