package bot

import (
	"context"
	"errors"
	"fmt"
	"summabot/internal/pipeline"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const welcomeText = `📄✨ *Welcome to Summabot\!*

Send me something to summarize in bullet points:

– paste text
– upload a \.txt, \.pdf or \.docx file
– send a webpage URL
– send a YouTube video URL

Pick the input source with /source, then press *Summarize* or use /summarize\.
/clear drops everything you sent so far\.`

const sourceText = `*⚙️ Input source*

Current input source is *%s*\.

Choose your input source below:`

const (
	emptyInputText     = "⚠️ Please provide some input!"
	summaryFailedText  = "❌ Failed to generate summary. Please try again later."
	clearedText        = "🧹 Input is cleared."
	summaryHeadingText = "✅ Summary\n\n"
)

func (b *Bot) handleStartCommand(ctx context.Context, chatID int64, userID int64) error {
	if err := b.sendMessageWithKeyboard(ctx, chatID, welcomeText, nil); err != nil {
		return fmt.Errorf("send message with keyboard: %w", err)
	}

	return b.handleSourceCommand(ctx, chatID, userID)
}

func (b *Bot) handleMenuCommand(ctx context.Context, chatID int64, userID int64) error {
	settings, err := b.db.GetUserSettings(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user settings: %w", err)
	}

	text := fmt.Sprintf("*📋 Menu*\n\nInput source: *%s*\\.", escape(settings.Source.Label()))

	return b.sendMessageWithKeyboard(ctx, chatID, text, b.menuKeyboard)
}

func (b *Bot) handleSourceCommand(ctx context.Context, chatID int64, userID int64) error {
	settings, err := b.db.GetUserSettings(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user settings: %w", err)
	}

	text := fmt.Sprintf(sourceText, escape(settings.Source.Label()))

	return b.sendMessageWithKeyboard(ctx, chatID, text, b.sourceKeyboard)
}

func (b *Bot) handleSummarizeCommand(ctx context.Context, chatID int64) error {
	d := b.drafts.Get(chatID)

	var summary string
	err := b.withSpinner(ctx, chatID, tgbotapi.ChatTyping, func() error {
		var summarizeErr error
		summary, summarizeErr = b.pipeline.Summarize(ctx, d)

		return summarizeErr
	})

	switch {
	case errors.Is(err, pipeline.ErrEmptyInput):
		return b.sendPlainMessages(ctx, chatID, emptyInputText, nil)
	case err != nil:
		return errors.Join(
			fmt.Errorf("summarize: %w", err),
			b.sendPlainMessages(ctx, chatID, summaryFailedText, b.readyKeyboard),
		)
	}

	return b.sendPlainMessages(ctx, chatID, summaryHeadingText+summary, b.menuKeyboard)
}

func (b *Bot) handleClearCommand(ctx context.Context, chatID int64) error {
	b.drafts.Clear(chatID)

	return b.sendPlainMessages(ctx, chatID, clearedText, b.menuKeyboard)
}
