package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"summabot/internal/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	callbackMenu      = "menu"
	callbackSource    = "source"
	callbackSummarize = "summarize"
	callbackClear     = "clear"

	sourceCallbackPrefix = "source_"
)

// sendMessageWithKeyboard sends MarkdownV2 text. Callers escape dynamic parts.
func (b *Bot) sendMessageWithKeyboard(
	ctx context.Context,
	chatID int64,
	text string,
	keyboard [][]tgbotapi.InlineKeyboardButton,
) error {
	message := tgbotapi.NewMessage(chatID, b.normalizeText(ctx, chatID, text))

	// See https://core.telegram.org/bots/api#markdownv2-style.
	message.ParseMode = tgbotapi.ModeMarkdownV2

	message.DisableWebPagePreview = true
	if len(keyboard) > 0 {
		message.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(keyboard...)
	}

	_, err := b.rateLimiter.Send(ctx, message)
	return err
}

// sendPlainMessages sends text without parse mode, split to fit Telegram's
// length limit. The keyboard is attached to the last part only.
func (b *Bot) sendPlainMessages(
	ctx context.Context,
	chatID int64,
	text string,
	keyboard [][]tgbotapi.InlineKeyboardButton,
) error {
	parts := splitMessage(b.normalizeText(ctx, chatID, text), telegramMessageMaxLength)

	var errs []error
	for i, part := range parts {
		message := tgbotapi.NewMessage(chatID, part)
		message.DisableWebPagePreview = true

		if i == len(parts)-1 && len(keyboard) > 0 {
			message.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(keyboard...)
		}

		if _, err := b.rateLimiter.Send(ctx, message); err != nil {
			errs = append(errs, fmt.Errorf("send message part %d/%d: %w", i+1, len(parts), err))
		}
	}

	return errors.Join(errs...)
}

func (b *Bot) normalizeText(ctx context.Context, chatID int64, text string) string {
	normalizedText := strings.ToValidUTF8(text, "?")
	if normalizedText != text {
		b.log.WarnContext(ctx, "Message text had invalid UTF-8 and was normalized",
			"chatID", chatID,
			"originalLen", len(text),
			"normalizedLen", len(normalizedText))
	}

	return normalizedText
}

func getMenuKeyboard() [][]tgbotapi.InlineKeyboardButton {
	return [][]tgbotapi.InlineKeyboardButton{
		{
			tgbotapi.NewInlineKeyboardButtonData("⚙️ Input source", callbackSource),
			tgbotapi.NewInlineKeyboardButtonData("✨ Summarize", callbackSummarize),
		},
		{
			tgbotapi.NewInlineKeyboardButtonData("🧹 Clear input", callbackClear),
		},
	}
}

func getSourceKeyboard() [][]tgbotapi.InlineKeyboardButton {
	var keyboard [][]tgbotapi.InlineKeyboardButton

	for _, s := range domain.Sources {
		keyboard = append(keyboard, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(sourceIcon(s)+" "+s.Label(), sourceCallbackPrefix+string(s)),
		})
	}

	return keyboard
}

func getReadyKeyboard() [][]tgbotapi.InlineKeyboardButton {
	return [][]tgbotapi.InlineKeyboardButton{
		{
			tgbotapi.NewInlineKeyboardButtonData("✨ Summarize", callbackSummarize),
			tgbotapi.NewInlineKeyboardButtonData("🧹 Clear", callbackClear),
		},
	}
}

func sourceIcon(s domain.Source) string {
	switch s {
	case domain.SourcePaste:
		return "✏️"
	case domain.SourceFile:
		return "📂"
	case domain.SourceWebpage:
		return "🌐"
	case domain.SourceYouTube:
		return "📹"
	default:
		return "•"
	}
}
