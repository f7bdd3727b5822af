package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"summabot/internal/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) error {
	chatID := callback.Message.Chat.ID
	userID := callback.From.ID
	data := strings.TrimSpace(callback.Data)

	switch data {
	case callbackMenu:
		return b.withEmptyCallbackAnswer(callback, func() error {
			return b.handleMenuCommand(ctx, chatID, userID)
		})
	case callbackSource:
		return b.withEmptyCallbackAnswer(callback, func() error {
			return b.handleSourceCommand(ctx, chatID, userID)
		})
	case callbackSummarize:
		return b.withEmptyCallbackAnswer(callback, func() error {
			return b.handleSummarizeCommand(ctx, chatID)
		})
	case callbackClear:
		return b.withEmptyCallbackAnswer(callback, func() error {
			return b.handleClearCommand(ctx, chatID)
		})
	}

	if sourceStr, ok := strings.CutPrefix(data, sourceCallbackPrefix); ok {
		return b.handleSourceQuery(ctx, sourceStr, callback)
	}

	return b.withEmptyCallbackAnswer(callback, func() error { return nil })
}

func (b *Bot) handleSourceQuery(
	ctx context.Context,
	sourceStr string,
	callback *tgbotapi.CallbackQuery,
) error {
	source, ok := domain.ParseSource(sourceStr)
	if !ok {
		return b.errorCallbackAnswer(callback, fmt.Errorf("unknown input source %q", sourceStr))
	}

	if err := b.db.UpsertInputSource(ctx, callback.From.ID, source); err != nil {
		return b.errorCallbackAnswer(callback, fmt.Errorf("upsert input source: %w", err))
	}

	answer := "✅ Input source: " + source.Label()
	if _, err := b.rateLimiter.Request(tgbotapi.NewCallback(callback.ID, answer)); err != nil {
		return fmt.Errorf("send request: %w", err)
	}

	return b.sendPlainMessages(ctx, callback.Message.Chat.ID, sourcePrompt(source), nil)
}

func sourcePrompt(source domain.Source) string {
	switch source {
	case domain.SourceFile:
		return uploadHintText
	case domain.SourceWebpage:
		return "🌐 Enter webpage URL:"
	case domain.SourceYouTube:
		return "📹 Enter YouTube video URL:"
	default:
		return "✏️ Paste your text here:"
	}
}

func (b *Bot) withEmptyCallbackAnswer(
	callback *tgbotapi.CallbackQuery,
	fn func() error,
) error {
	var errs []error

	if _, err := b.rateLimiter.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		errs = append(errs, b.errorCallbackAnswer(callback, fmt.Errorf("send request: %w", err)))
	}

	if err := fn(); err != nil {
		errs = append(errs, fmt.Errorf("call fn: %w", err))
	}

	return errors.Join(errs...)
}

func (b *Bot) errorCallbackAnswer(
	callback *tgbotapi.CallbackQuery,
	err error,
) error {
	if _, sendErr := b.rateLimiter.Request(tgbotapi.NewCallback(callback.ID, "❌ Failed.")); sendErr != nil {
		return errors.Join(err, fmt.Errorf("send request: %w", sendErr))
	}
	return err
}
