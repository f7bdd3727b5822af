package extractor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kkdai/youtube/v2"
)

const (
	youTubeWatchMarker = "youtube.com/watch?v="
	youTubeShortMarker = "youtu.be/"

	transcriptLanguage = "en"
)

// VideoID understands only watch?v= and youtu.be/ links; anything else yields "".
func VideoID(rawURL string) string {
	switch {
	case strings.Contains(rawURL, youTubeWatchMarker):
		parts := strings.Split(rawURL, "v=")
		id, _, _ := strings.Cut(parts[len(parts)-1], "&")

		return id
	case strings.Contains(rawURL, youTubeShortMarker):
		parts := strings.Split(rawURL, "/")
		id, _, _ := strings.Cut(parts[len(parts)-1], "?")

		return id
	default:
		return ""
	}
}

// YouTube returns the English transcript of the video behind rawURL, or an
// extractor sentinel.
func (e *Extractor) YouTube(ctx context.Context, rawURL string) string {
	videoID := VideoID(rawURL)
	if videoID == "" {
		return SentinelInvalidYouTube
	}

	if e.transcripts == nil {
		e.log.ErrorContext(ctx, "Transcript fetcher is not configured",
			"videoID", videoID)

		return SentinelTranscriptFailed
	}

	raw, err := e.fetchTranscript(ctx, videoID)
	switch {
	case errors.Is(err, ErrCaptionsDisabled):
		return SentinelCaptionsDisabled
	case errors.Is(err, ErrNoTranscript):
		return SentinelNoTranscript
	case err != nil:
		e.log.WarnContext(ctx, "Failed to get YouTube transcript",
			"error", err,
			"videoID", videoID,
			"url", rawURL)

		return SentinelTranscriptFailed
	}

	text := strings.TrimSpace(strings.Join(strings.Fields(raw), " "))
	if text == "" {
		return SentinelEmptyTranscript
	}

	return text
}

// fetchTranscript bounds the fetch by the extractor's fetch timeout. The fetch
// runs in its own goroutine so a fetcher that ignores ctx is still abandoned.
func (e *Extractor) fetchTranscript(ctx context.Context, videoID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.fetchTimeout)
	defer cancel()

	type result struct {
		text string
		err  error
	}

	resCh := make(chan result, 1)
	go func() {
		text, err := e.transcripts.Transcript(ctx, videoID)
		resCh <- result{text: text, err: classifyTranscriptError(err)}
	}()

	select {
	case res := <-resCh:
		return res.text, res.err
	case <-ctx.Done():
		return "", fmt.Errorf("fetch transcript: %w", ctx.Err())
	}
}

// classifyTranscriptError maps library errors onto typed errors.
func classifyTranscriptError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrCaptionsDisabled) || errors.Is(err, ErrNoTranscript) {
		return err
	}

	if errors.Is(err, youtube.ErrTranscriptDisabled) {
		return fmt.Errorf("%w: %w", ErrCaptionsDisabled, err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "disabled"):
		return fmt.Errorf("%w: %w", ErrCaptionsDisabled, err)
	case strings.Contains(msg, "no transcript"), strings.Contains(msg, "no captions"),
		strings.Contains(msg, "not available"):
		return fmt.Errorf("%w: %w", ErrNoTranscript, err)
	default:
		return err
	}
}

// TranscriptClient fetches English captions through the YouTube web client.
type TranscriptClient struct {
	client youtube.Client
}

// NewTranscriptClient returns the production YouTube transcript client.
func NewTranscriptClient() *TranscriptClient {
	return &TranscriptClient{}
}

func (c *TranscriptClient) Transcript(ctx context.Context, videoID string) (string, error) {
	video, err := c.client.GetVideoContext(ctx, videoID)
	if err != nil {
		return "", fmt.Errorf("get video: %w", err)
	}

	segments, err := c.client.GetTranscriptCtx(ctx, video, transcriptLanguage)
	if err != nil {
		return "", fmt.Errorf("get transcript: %w", err)
	}

	texts := make([]string, 0, len(segments))
	for _, s := range segments {
		texts = append(texts, s.Text)
	}

	return strings.Join(texts, " "), nil
}
