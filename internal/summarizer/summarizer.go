package summarizer

import (
	"context"
	"errors"
)

const (
	systemPrompt     = "You are a helpful summarizer."
	userPromptPrefix = "Summarize this in bullet points:\n\n"
)

var ErrEmptyResponse = errors.New("response has no summary")

// Input describes the payload for a summary request.
type Input struct {
	// Text contains the plain text to summarise.
	Text string
}

// Summarizer produces a bullet-point summary for a given input text.
type Summarizer interface {
	Summarize(ctx context.Context, input Input) (string, error)
}

func userPrompt(text string) string {
	return userPromptPrefix + text
}
