package commandimpl

import (
	"context"
	"fmt"
	"strings"

	"github.com/orgball2608/insta-downloader/internal/domain"
	"github.com/orgball2608/insta-downloader/internal/telegram"
	"github.com/orgball2608/insta-downloader/pkg/errors"
	"github.com/orgball2608/insta-downloader/pkg/formatter"
)

const processFailedMessage = "Failed to process Instagram URL"

func (c *CommandImpl) handleMediaCommand(ctx context.Context, chatID int64, command, args string) error {
	postURL := strings.TrimSpace(args)
	if postURL == "" {
		_, err := c.Telegram.SendMessage(chatID, fmt.Sprintf("Please provide a URL: /%s <instagram_url>", command))
		return err
	}

	sentMsgID, err := c.Telegram.SendMessage(chatID, "Fetching media... ⏳")
	if err != nil {
		return fmt.Errorf("failed to send initial message: %w", err)
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, extractTimeout)
	defer cancel()

	result, err := c.Instagram.Extract(ctxWithTimeout, postURL)
	if err != nil {
		c.editStatus(chatID, sentMsgID, "❌ "+userMessage(err))
		return fmt.Errorf("failed to extract %s: %w", postURL, err)
	}

	c.editStatus(chatID, sentMsgID, fmt.Sprintf("✅ Found %d media item(s). Sending now...", len(result.Media)))

	caption := formatter.Caption(result.Username, result.Caption, telegram.MaxCaptionLength)
	if err := c.Telegram.SendMedia(chatID, result.Media, caption); err != nil {
		c.Logger.Error("Failed to send media, falling back to links", "chat_id", chatID, "error", err)
		_, err = c.Telegram.SendMessage(chatID, mediaLinks(result.Media))
		return err
	}

	return nil
}

func (c *CommandImpl) editStatus(chatID int64, messageID int, text string) {
	if err := c.Telegram.EditMessageText(chatID, messageID, text); err != nil {
		c.Logger.Warn("Failed to update status message", "chat_id", chatID, "error", err)
	}
}

// userMessage maps extraction errors to the same texts the HTTP API returns.
func userMessage(err error) string {
	if errors.IsInvalidInput(err) || errors.IsNotFound(err) {
		return errors.GetMessage(err)
	}
	return processFailedMessage
}

func mediaLinks(items []domain.MediaItem) string {
	var sb strings.Builder
	sb.WriteString("Telegram could not fetch the files, here are the direct links:")
	for i, item := range items {
		fmt.Fprintf(&sb, "\n%d. %s: %s", i+1, item.Kind, item.URL)
	}
	return sb.String()
}
