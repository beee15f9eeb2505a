package bot

import (
	"context"
	"sync"
	"testing"
	"time"

	"adboard-bot/internal/database/models"
	"adboard-bot/internal/handlers"
	"adboard-bot/internal/locales"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBot is a mock implementing the telegoapi.BotAPI interface.
type MockBot struct {
	mock.Mock
}

func (m *MockBot) SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error) {
	args := m.Called(ctx, params)
	if msg, ok := args.Get(0).(*telego.Message); ok {
		return msg, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBot) SendPhoto(ctx context.Context, params *telego.SendPhotoParams) (*telego.Message, error) {
	args := m.Called(ctx, params)
	if msg, ok := args.Get(0).(*telego.Message); ok {
		return msg, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBot) DeleteMessage(ctx context.Context, params *telego.DeleteMessageParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func (m *MockBot) SetMyCommands(ctx context.Context, params *telego.SetMyCommandsParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func (m *MockBot) GetMe(ctx context.Context) (*telego.User, error) {
	args := m.Called(ctx)
	if user, ok := args.Get(0).(*telego.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

// Minimal repository stubs for wiring a real MessageHandler.

type stubPostRepo struct {
	mu       sync.Mutex
	upserted []models.Post
}

func (s *stubPostRepo) Upsert(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserted = append(s.upserted, *post)
	return nil
}

func (s *stubPostRepo) ListDue(context.Context, time.Time, time.Duration) ([]models.Post, error) {
	return nil, nil
}

func (s *stubPostRepo) ListPending(context.Context) ([]models.Post, error) { return nil, nil }

func (s *stubPostRepo) MarkPublished(context.Context, int64, time.Time) error { return nil }

func (s *stubPostRepo) Delete(context.Context, int64, time.Time) error { return nil }

func (s *stubPostRepo) PurgePublishedBefore(context.Context, time.Time) (int64, error) {
	return 0, nil
}

type stubBanRepo struct{}

func (stubBanRepo) Ban(context.Context, int64) (bool, error)      { return true, nil }
func (stubBanRepo) Unban(context.Context, int64) (bool, error)    { return true, nil }
func (stubBanRepo) IsBanned(context.Context, int64) (bool, error) { return false, nil }

type stubAdminChecker struct{ admin bool }

func (s stubAdminChecker) IsAdmin(context.Context, int64) (bool, error) { return s.admin, nil }

func setupBotTest(t *testing.T) (*Bot, *MockBot, *stubPostRepo, chan telego.Update) {
	t.Helper()
	locales.Init("en")

	mockAPI := new(MockBot)
	postRepo := &stubPostRepo{}
	handler := handlers.NewMessageHandler("v-test", postRepo, stubBanRepo{}, nil, nil, stubAdminChecker{admin: false})

	updates := make(chan telego.Update, 1)
	b, err := New(Deps{
		Bot:         mockAPI,
		UpdatesChan: updates,
		Handler:     handler,
	})
	require.NoError(t, err)
	return b, mockAPI, postRepo, updates
}

func messageUpdate(text string) telego.Update {
	return telego.Update{
		Message: &telego.Message{
			MessageID: 300,
			From:      &telego.User{ID: 42, Username: "alice", LanguageCode: "en"},
			Chat:      telego.Chat{ID: 42, Type: telego.ChatTypePrivate},
			Date:      time.Now().Unix(),
			Text:      text,
		},
	}
}

func TestNew(t *testing.T) {
	b, _, _, _ := setupBotTest(t)
	assert.NotNil(t, b)

	t.Run("NilBot", func(t *testing.T) {
		_, err := New(Deps{UpdatesChan: make(chan telego.Update), Handler: &handlers.MessageHandler{}})
		assert.Error(t, err)
	})

	t.Run("NilUpdatesChan", func(t *testing.T) {
		_, err := New(Deps{Bot: new(MockBot), Handler: &handlers.MessageHandler{}})
		assert.Error(t, err)
	})

	t.Run("NilHandler", func(t *testing.T) {
		_, err := New(Deps{Bot: new(MockBot), UpdatesChan: make(chan telego.Update)})
		assert.Error(t, err)
	})
}

func TestProcessUpdateRouting(t *testing.T) {
	ctx := context.Background()

	t.Run("UnknownCommandReplies", func(t *testing.T) {
		b, mockAPI, _, _ := setupBotTest(t)
		var reply string
		mockAPI.On("SendMessage", mock.Anything, mock.AnythingOfType("*telego.SendMessageParams")).
			Run(func(args mock.Arguments) {
				reply = args.Get(1).(*telego.SendMessageParams).Text
			}).
			Return(&telego.Message{}, nil).Once()

		b.processUpdate(ctx, messageUpdate("/bogus"))

		expected := locales.GetMessage(locales.NewLocalizer("en"), "MsgErrorUnknownCommand", nil, nil)
		assert.Equal(t, expected, reply)
	})

	t.Run("VersionCommandRouted", func(t *testing.T) {
		b, mockAPI, _, _ := setupBotTest(t)
		var reply string
		mockAPI.On("SendMessage", mock.Anything, mock.AnythingOfType("*telego.SendMessageParams")).
			Run(func(args mock.Arguments) {
				reply = args.Get(1).(*telego.SendMessageParams).Text
			}).
			Return(&telego.Message{}, nil).Once()

		b.processUpdate(ctx, messageUpdate("/version"))

		assert.Contains(t, reply, "v-test")
	})

	t.Run("TextBecomesSubmission", func(t *testing.T) {
		b, mockAPI, postRepo, _ := setupBotTest(t)
		mockAPI.On("SendMessage", mock.Anything, mock.Anything).Return(&telego.Message{}, nil).Once()

		b.processUpdate(ctx, messageUpdate("selling bike"))

		require.Len(t, postRepo.upserted, 1)
		assert.Equal(t, "selling bike", postRepo.upserted[0].Body)
	})

	t.Run("PhotoBecomesSubmission", func(t *testing.T) {
		b, mockAPI, postRepo, _ := setupBotTest(t)
		mockAPI.On("SendMessage", mock.Anything, mock.Anything).Return(&telego.Message{}, nil).Once()

		update := messageUpdate("")
		update.Message.Caption = "bike photo"
		update.Message.Photo = []telego.PhotoSize{{FileID: "f1", Width: 640, Height: 640}}
		b.processUpdate(ctx, update)

		require.Len(t, postRepo.upserted, 1)
		assert.Equal(t, "f1", postRepo.upserted[0].FileID)
		assert.Equal(t, "bike photo", postRepo.upserted[0].Body)
	})

	t.Run("UnsupportedContentGetsNotice", func(t *testing.T) {
		b, mockAPI, postRepo, _ := setupBotTest(t)
		var reply string
		mockAPI.On("SendMessage", mock.Anything, mock.AnythingOfType("*telego.SendMessageParams")).
			Run(func(args mock.Arguments) {
				reply = args.Get(1).(*telego.SendMessageParams).Text
			}).
			Return(&telego.Message{}, nil).Once()

		update := messageUpdate("")
		update.Message.Sticker = &telego.Sticker{FileID: "sticker-1"}
		b.processUpdate(ctx, update)

		expected := locales.GetMessage(locales.NewLocalizer("en"), "MsgSubmissionUnsupported", nil, nil)
		assert.Equal(t, expected, reply)
		assert.Empty(t, postRepo.upserted)
	})

	t.Run("NonMessageUpdateIgnored", func(t *testing.T) {
		b, mockAPI, _, _ := setupBotTest(t)

		b.processUpdate(ctx, telego.Update{})

		mockAPI.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
	})

	t.Run("SenderlessMessageIgnored", func(t *testing.T) {
		b, mockAPI, _, _ := setupBotTest(t)

		update := messageUpdate("text")
		update.Message.From = nil
		b.processUpdate(ctx, update)

		mockAPI.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
	})
}

func TestStartStopsOnContextCancel(t *testing.T) {
	b, mockAPI, postRepo, updates := setupBotTest(t)
	mockAPI.On("SendMessage", mock.Anything, mock.Anything).Return(&telego.Message{}, nil).Maybe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		b.Start(ctx)
		close(done)
	}()

	updates <- messageUpdate("selling bike")

	// Give the dispatched goroutine a moment before shutting down.
	assert.Eventually(t, func() bool {
		postRepo.mu.Lock()
		defer postRepo.mu.Unlock()
		return len(postRepo.upserted) == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("bot did not stop after context cancellation")
	}
}
