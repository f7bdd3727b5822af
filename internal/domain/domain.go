package domain

import (
	"strings"
	"time"
)

// SentinelPrefix marks extractor output that is a failure notice rather than text.
const SentinelPrefix = "[Extractor"

type Source string

const (
	SourcePaste   Source = "paste"
	SourceFile    Source = "file"
	SourceWebpage Source = "webpage"
	SourceYouTube Source = "youtube"
)

// Sources lists the input sources in the order they are offered to the user.
var Sources = []Source{SourcePaste, SourceFile, SourceWebpage, SourceYouTube} //nolint:gochecknoglobals // Immutable list.

func ParseSource(raw string) (Source, bool) {
	s := Source(strings.TrimSpace(raw))
	switch s {
	case SourcePaste, SourceFile, SourceWebpage, SourceYouTube:
		return s, true
	default:
		return "", false
	}
}

func (s Source) Label() string {
	switch s {
	case SourcePaste:
		return "Paste Text"
	case SourceFile:
		return "Upload File"
	case SourceWebpage:
		return "Webpage URL"
	case SourceYouTube:
		return "YouTube URL"
	default:
		return string(s)
	}
}

type UserSettings struct {
	UserID int64
	Source Source
}

// Draft collects whatever the user supplied so far in one chat.
type Draft struct {
	FileName    string
	FileText    string
	SourceURL   string
	URLText     string
	YouTubeText string
	PasteText   string
	UpdatedAt   time.Time
}

// FinalInput picks a single input: uploaded file, then webpage text, then
// YouTube transcript, then pasted text. Extractor sentinels never win.
func (d Draft) FinalInput() string {
	candidates := []string{
		d.FileText,
		cleanExtracted(d.URLText),
		cleanExtracted(d.YouTubeText),
		d.PasteText,
	}

	for _, c := range candidates {
		if c != "" {
			return c
		}
	}

	return ""
}

func (d Draft) IsEmpty() bool {
	return d.FileText == "" && d.URLText == "" && d.YouTubeText == "" && d.PasteText == ""
}

func IsSentinel(text string) bool {
	return strings.HasPrefix(text, SentinelPrefix)
}

func cleanExtracted(text string) string {
	if IsSentinel(text) {
		return ""
	}

	return text
}
