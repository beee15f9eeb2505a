package telegoapi

import (
	"context"

	"github.com/mymmrac/telego"
)

// BotAPI is the subset of bot operations the handlers and the publisher use.
// Both the real telego.Bot and test mocks satisfy it.
type BotAPI interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
	SendPhoto(ctx context.Context, params *telego.SendPhotoParams) (*telego.Message, error)
	DeleteMessage(ctx context.Context, params *telego.DeleteMessageParams) error
	SetMyCommands(ctx context.Context, params *telego.SetMyCommandsParams) error
	GetMe(ctx context.Context) (*telego.User, error)
}
