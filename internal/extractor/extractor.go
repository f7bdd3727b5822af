package extractor

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"summabot/internal/domain"
	"time"

	"github.com/mmcdole/gofeed"
)

const (
	SentinelNoText           = "[Extractor: No text found. Try downloading and uploading the PDF instead.]"
	SentinelScrapeFailed     = "[Extractor: Failed to scrape. Try downloading and uploading the PDF instead.]"
	SentinelInvalidYouTube   = "[Extractor: Invalid YouTube URL format.]"
	SentinelEmptyTranscript  = "[Extractor: Transcript not found or empty.]"
	SentinelCaptionsDisabled = "[Extractor: Captions are disabled for this video.]"
	SentinelNoTranscript     = "[Extractor: No transcript available for this video.]"
	SentinelTranscriptFailed = "[Extractor: Failed to get transcript.]"

	defaultFetchTimeout = 30 * time.Second
	userAgent           = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36"
)

var (
	ErrCaptionsDisabled = errors.New("captions are disabled")
	ErrNoTranscript     = errors.New("no transcript")
)

// TranscriptFetcher returns the plain transcript of a YouTube video.
type TranscriptFetcher interface {
	Transcript(ctx context.Context, videoID string) (string, error)
}

type Extractor struct {
	client       *http.Client
	feedParser   *gofeed.Parser
	transcripts  TranscriptFetcher
	fetchTimeout time.Duration
	log          *slog.Logger
}

func New(
	fetchTimeout time.Duration,
	transcripts TranscriptFetcher,
	log *slog.Logger,
) *Extractor {
	if fetchTimeout <= 0 {
		fetchTimeout = defaultFetchTimeout
	}

	return &Extractor{
		client:       &http.Client{Timeout: fetchTimeout},
		feedParser:   gofeed.NewParser(),
		transcripts:  transcripts,
		fetchTimeout: fetchTimeout,
		log:          log,
	}
}

// IsSentinel reports whether text is a failure notice produced by the extractor.
func IsSentinel(text string) bool {
	return domain.IsSentinel(text)
}
