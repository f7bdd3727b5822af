package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"summabot/internal/domain"
	"summabot/internal/extractor"
	"summabot/internal/pipeline"
	"summabot/internal/validate"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	uploadHintText      = "📂 Upload a file (.txt, .pdf, .docx) as a document."
	unsupportedFileText = "⚠️ Unsupported file type. Upload a .txt, .pdf or .docx file."
	emptyFileText       = "⚠️ No text could be extracted from this file."
	tooLargeFileText    = "⚠️ The file is too large."
	failedFileText      = "❌ Failed to read the file."
	invalidWebpageText  = "⚠️ Invalid webpage URL format."
	invalidYouTubeText  = "⚠️ Invalid YouTube URL format."
)

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	userID := message.From.ID

	if message.Document != nil {
		return b.withSpinner(ctx, chatID, tgbotapi.ChatUploadDocument, func() error {
			return b.handleDocument(ctx, chatID, message.Document)
		})
	}

	text := strings.TrimSpace(message.Text)
	if text == "" {
		return nil
	}

	switch {
	case strings.HasPrefix(text, "/start"), strings.HasPrefix(text, "/help"):
		return b.handleStartCommand(ctx, chatID, userID)
	case strings.HasPrefix(text, "/menu"):
		return b.handleMenuCommand(ctx, chatID, userID)
	case strings.HasPrefix(text, "/source"):
		return b.handleSourceCommand(ctx, chatID, userID)
	case strings.HasPrefix(text, "/summarize"):
		return b.handleSummarizeCommand(ctx, chatID)
	case strings.HasPrefix(text, "/clear"):
		return b.handleClearCommand(ctx, chatID)
	}

	settings, err := b.db.GetUserSettings(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user settings: %w", err)
	}

	return b.withSpinner(ctx, chatID, tgbotapi.ChatTyping, func() error {
		return b.handleInputText(ctx, chatID, settings.Source, text)
	})
}

func (b *Bot) handleInputText(
	ctx context.Context,
	chatID int64,
	source domain.Source,
	text string,
) error {
	switch source {
	case domain.SourceFile:
		return b.sendPlainMessages(ctx, chatID, uploadHintText, nil)
	case domain.SourceWebpage:
		return b.handleURLInput(ctx, chatID, text, b.pipeline.ExtractWebpage, invalidWebpageText,
			func(d *domain.Draft, extracted, sourceURL string) {
				d.URLText = extracted
				d.SourceURL = sourceURL
			})
	case domain.SourceYouTube:
		return b.handleURLInput(ctx, chatID, text, b.pipeline.ExtractYouTube, invalidYouTubeText,
			func(d *domain.Draft, extracted, sourceURL string) {
				d.YouTubeText = extracted
				d.SourceURL = sourceURL
			})
	default:
		b.drafts.Update(chatID, func(d *domain.Draft) { d.PasteText = text })

		return b.sendReady(ctx, chatID, "✏️ Text received", text)
	}
}

type urlExtractFunc func(ctx context.Context, rawURL string) (string, validate.URL, error)

func (b *Bot) handleURLInput(
	ctx context.Context,
	chatID int64,
	text string,
	extract urlExtractFunc,
	invalidText string,
	store func(d *domain.Draft, extracted, sourceURL string),
) error {
	extracted, u, err := extract(ctx, pickURL(text))
	if errors.Is(err, validate.ErrInvalidURL) {
		return b.sendPlainMessages(ctx, chatID, invalidText, nil)
	}
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}

	b.drafts.Update(chatID, func(d *domain.Draft) { store(d, extracted, u.String()) })

	if extractor.IsSentinel(extracted) {
		return b.sendPlainMessages(ctx, chatID, "⚠️ "+extracted, nil)
	}

	return b.sendReady(ctx, chatID, "🌐 Text extracted from "+u.String(), extracted)
}

func (b *Bot) handleDocument(ctx context.Context, chatID int64, doc *tgbotapi.Document) error {
	if !extractor.SupportedFile(doc.FileName) {
		return b.sendPlainMessages(ctx, chatID, unsupportedFileText, nil)
	}

	if limit := b.pipeline.MaxUploadBytes(); limit > 0 && int64(doc.FileSize) > limit {
		return b.sendPlainMessages(ctx, chatID, tooLargeFileText, nil)
	}

	data, err := b.downloadFile(ctx, doc.FileID)
	if err != nil {
		return errors.Join(
			fmt.Errorf("download file: %w", err),
			b.sendPlainMessages(ctx, chatID, failedFileText, nil),
		)
	}

	text, err := b.pipeline.ExtractFile(doc.FileName, data)
	if errors.Is(err, pipeline.ErrTooLarge) {
		return b.sendPlainMessages(ctx, chatID, tooLargeFileText, nil)
	}
	if err != nil {
		return errors.Join(
			fmt.Errorf("extract file: %w", err),
			b.sendPlainMessages(ctx, chatID, failedFileText, nil),
		)
	}

	if strings.TrimSpace(text) == "" {
		return b.sendPlainMessages(ctx, chatID, emptyFileText, nil)
	}

	b.drafts.Update(chatID, func(d *domain.Draft) {
		d.FileName = doc.FileName
		d.FileText = text
	})

	return b.sendReady(ctx, chatID, "📂 Text extracted from "+doc.FileName, text)
}

func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	fileURL, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("get file direct URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := b.fileClient.Do(req) //nolint:gosec // Telegram file URL
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if err = resp.Body.Close(); err != nil {
			b.log.ErrorContext(ctx, "Failed to close response body",
				"error", err,
				"fileID", fileID,
				"operation", "downloadFile")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("do request: unexpected status: %d", resp.StatusCode)
	}

	body := io.Reader(resp.Body)
	if limit := b.pipeline.MaxUploadBytes(); limit > 0 {
		// One extra byte lets the pipeline notice oversized files.
		body = io.LimitReader(resp.Body, limit+1)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return data, nil
}

// sendReady confirms an accepted input and offers the summarize button.
func (b *Bot) sendReady(ctx context.Context, chatID int64, title, text string) error {
	message := fmt.Sprintf("%s (%d characters).\n\nPress Summarize when ready.",
		title, len([]rune(text)))

	return b.sendPlainMessages(ctx, chatID, message, b.readyKeyboard)
}
