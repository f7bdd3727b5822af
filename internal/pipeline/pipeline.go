// Package pipeline ties extraction, validation and summarization together for
// both front ends.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"summabot/internal/domain"
	"summabot/internal/extractor"
	"summabot/internal/summarizer"
	"summabot/internal/validate"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyInput = errors.New("input is empty")
	ErrTooLarge   = errors.New("file is too large")
)

type Pipeline struct {
	extractor        *extractor.Extractor
	summarizer       summarizer.Summarizer
	summarizeTimeout time.Duration
	maxUploadBytes   int64
	log              *slog.Logger
}

func New(
	e *extractor.Extractor,
	s summarizer.Summarizer,
	summarizeTimeout time.Duration,
	maxUploadBytes int64,
	log *slog.Logger,
) *Pipeline {
	return &Pipeline{
		extractor:        e,
		summarizer:       s,
		summarizeTimeout: summarizeTimeout,
		maxUploadBytes:   maxUploadBytes,
		log:              log,
	}
}

func (p *Pipeline) MaxUploadBytes() int64 {
	return p.maxUploadBytes
}

// ExtractFile returns the text of an uploaded file.
func (p *Pipeline) ExtractFile(name string, data []byte) (string, error) {
	if p.maxUploadBytes > 0 && int64(len(data)) > p.maxUploadBytes {
		return "", fmt.Errorf("%w (size = %d, limit = %d)", ErrTooLarge, len(data), p.maxUploadBytes)
	}

	text, err := extractor.File(name, data)
	if err != nil {
		return "", fmt.Errorf("extract file (name = %s): %w", name, err)
	}

	return text, nil
}

// ExtractWebpage validates rawURL and returns page text or an extractor sentinel.
func (p *Pipeline) ExtractWebpage(ctx context.Context, rawURL string) (string, validate.URL, error) {
	u, err := validate.NewURL(rawURL)
	if err != nil {
		return "", validate.URL{}, err
	}

	return p.extractor.Webpage(ctx, u.String()), u, nil
}

// ExtractYouTube validates rawURL and returns the transcript or an extractor sentinel.
func (p *Pipeline) ExtractYouTube(ctx context.Context, rawURL string) (string, validate.URL, error) {
	u, err := validate.NewURL(rawURL)
	if err != nil {
		return "", validate.URL{}, err
	}

	return p.extractor.YouTube(ctx, u.String()), u, nil
}

// Summarize picks the final input of d and summarizes it. An input that is
// blank after trimming never reaches the summarizer.
func (p *Pipeline) Summarize(ctx context.Context, d domain.Draft) (string, error) {
	finalInput := d.FinalInput()
	if strings.TrimSpace(finalInput) == "" {
		return "", ErrEmptyInput
	}

	if p.summarizer == nil {
		return "", errors.New("summarizer is not configured")
	}

	prompt := validate.NewPrompt(finalInput)
	requestID := uuid.NewString()
	start := time.Now()

	p.log.InfoContext(ctx, "Summarizing input",
		"requestID", requestID,
		"inputChars", len(prompt.Text),
		"fileName", d.FileName,
		"sourceURL", d.SourceURL)

	if p.summarizeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.summarizeTimeout)
		defer cancel()
	}

	summary, err := p.summarizer.Summarize(ctx, summarizer.Input{Text: prompt.Text})
	if err != nil {
		p.log.ErrorContext(ctx, "Failed to summarize input",
			"error", err,
			"requestID", requestID,
			"sourceURL", d.SourceURL,
			"elapsedSeconds", time.Since(start).Seconds())

		return "", fmt.Errorf("summarize: %w", err)
	}

	p.log.InfoContext(ctx, "Input is summarized",
		"requestID", requestID,
		"summaryChars", len(summary),
		"elapsedSeconds", time.Since(start).Seconds())

	return summary, nil
}
