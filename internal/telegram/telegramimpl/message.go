package telegramimpl

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/insta-downloader/internal/domain"
)

const maxAlbumSize = 10

// SendMessage sends a plain text message and returns its id
func (tg *TelegramImpl) SendMessage(chatID int64, text string) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true

	sent, err := tg.TgBot.Send(msg)
	if err != nil {
		tg.Logger.Error("Error sending message", "chat_id", chatID, "error", err)
		return 0, fmt.Errorf("failed to send message: %w", err)
	}
	return sent.MessageID, nil
}

// EditMessageText replaces the text of a message sent earlier
func (tg *TelegramImpl) EditMessageText(chatID int64, messageID int, newText string) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, newText)
	edit.DisableWebPagePreview = true

	if _, err := tg.TgBot.Request(edit); err != nil {
		tg.Logger.Error("Error editing message", "chat_id", chatID, "message_id", messageID, "error", err)
		return fmt.Errorf("failed to edit message: %w", err)
	}
	return nil
}

// SendMedia lets Telegram fetch every item by URL
func (tg *TelegramImpl) SendMedia(chatID int64, items []domain.MediaItem, captionMarkdown string) error {
	if len(items) == 0 {
		return nil
	}

	if len(items) == 1 {
		return tg.sendSingle(chatID, items[0], captionMarkdown)
	}

	for start := 0; start < len(items); start += maxAlbumSize {
		end := min(start+maxAlbumSize, len(items))
		caption := ""
		if start == 0 {
			caption = captionMarkdown
		}

		chunk := items[start:end]
		if len(chunk) == 1 {
			if err := tg.sendSingle(chatID, chunk[0], caption); err != nil {
				return err
			}
			continue
		}

		album := tgbotapi.NewMediaGroup(chatID, inputMedia(chunk, caption))
		if _, err := tg.TgBot.SendMediaGroup(album); err != nil {
			tg.Logger.Error("Error sending media group", "chat_id", chatID, "size", len(chunk), "error", err)
			return fmt.Errorf("failed to send media group: %w", err)
		}
	}

	tg.Logger.Info("Sent media", "chat_id", chatID, "count", len(items))
	return nil
}

func (tg *TelegramImpl) sendSingle(chatID int64, item domain.MediaItem, captionMarkdown string) error {
	file := tgbotapi.FileURL(item.URL)

	var msg tgbotapi.Chattable
	if item.IsVideo() {
		video := tgbotapi.NewVideo(chatID, file)
		video.Caption = captionMarkdown
		video.ParseMode = tgbotapi.ModeMarkdownV2
		msg = video
	} else {
		photo := tgbotapi.NewPhoto(chatID, file)
		photo.Caption = captionMarkdown
		photo.ParseMode = tgbotapi.ModeMarkdownV2
		msg = photo
	}

	if _, err := tg.TgBot.Send(msg); err != nil {
		tg.Logger.Error("Error sending media", "chat_id", chatID, "type", item.Kind, "error", err)
		return fmt.Errorf("failed to send %s: %w", item.Kind, err)
	}
	return nil
}

// inputMedia builds album entries; the caption goes on the first one.
func inputMedia(items []domain.MediaItem, captionMarkdown string) []interface{} {
	media := make([]interface{}, 0, len(items))
	for i, item := range items {
		file := tgbotapi.FileURL(item.URL)
		if item.IsVideo() {
			video := tgbotapi.NewInputMediaVideo(file)
			if i == 0 && captionMarkdown != "" {
				video.Caption = captionMarkdown
				video.ParseMode = tgbotapi.ModeMarkdownV2
			}
			media = append(media, video)
			continue
		}
		photo := tgbotapi.NewInputMediaPhoto(file)
		if i == 0 && captionMarkdown != "" {
			photo.Caption = captionMarkdown
			photo.ParseMode = tgbotapi.ModeMarkdownV2
		}
		media = append(media, photo)
	}
	return media
}
