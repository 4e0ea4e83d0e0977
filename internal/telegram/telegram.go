package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/insta-downloader/internal/domain"
)

// MaxCaptionLength is Telegram's limit for media captions, counted after entity parsing.
const MaxCaptionLength = 1024

//go:generate go run go.uber.org/mock/mockgen -source=telegram.go -destination=mocks/mock.go
type Client interface {
	GetUpdatesChan(u tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()

	SendMessage(chatID int64, text string) (int, error)
	EditMessageText(chatID int64, messageID int, newText string) error

	// SendMedia sends items by URL, as one photo/video or as albums of up to 10.
	// captionMarkdown is MarkdownV2 and is attached to the first item only.
	SendMedia(chatID int64, items []domain.MediaItem, captionMarkdown string) error
}
