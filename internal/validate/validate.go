// Package validate holds the two input shapes checked before any network call.
package validate

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var ErrInvalidURL = errors.New("invalid URL")

// Prompt is the text handed to the summarizer. Emptiness is the caller's concern.
type Prompt struct {
	Text string
}

func NewPrompt(text string) Prompt {
	return Prompt{Text: text}
}

// URL is an absolute http(s) URL with a host.
type URL struct {
	raw string
}

func NewURL(raw string) (URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return URL{}, fmt.Errorf("%w: empty", ErrInvalidURL)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return URL{}, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return URL{}, fmt.Errorf("%w: scheme %q", ErrInvalidURL, u.Scheme)
	}

	if u.Hostname() == "" {
		return URL{}, fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	if u.Path == "" {
		u.Path = "/"
	}

	return URL{raw: u.String()}, nil
}

func (u URL) String() string {
	return u.raw
}
