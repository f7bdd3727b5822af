package extractor

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/kkdai/youtube/v2"
)

type stubTranscripts struct {
	text  string
	err   error
	calls []string
}

func (s *stubTranscripts) Transcript(_ context.Context, videoID string) (string, error) {
	s.calls = append(s.calls, videoID)

	return s.text, s.err
}

// blockingTranscripts ignores ctx and returns only after release is closed.
type blockingTranscripts struct {
	release chan struct{}
}

func (b *blockingTranscripts) Transcript(_ context.Context, _ string) (string, error) {
	<-b.release

	return "too late", nil
}

func TestVideoID(t *testing.T) {
	cases := map[string]string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ":             "dQw4w9WgXcQ",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s":       "dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ":                            "dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ?si=abc":                     "dQw4w9WgXcQ",
		"https://www.youtube.com/shorts/dQw4w9WgXcQ":              "",
		"https://www.youtube.com/embed/dQw4w9WgXcQ":               "",
		"https://example.com/watch?v=dQw4w9WgXcQ":                 "",
		"https://m.youtube.com/watch?feature=share&v=dQw4w9WgXcQ": "",
	}

	for in, want := range cases {
		if got := VideoID(in); got != want {
			t.Fatalf("VideoID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestYouTubeInvalidURLReturnsSentinel(t *testing.T) {
	stub := &stubTranscripts{text: "never used"}
	e := New(time.Second, stub, slog.Default())

	got := e.YouTube(context.Background(), "https://www.youtube.com/playlist?list=PL123")
	if got != SentinelInvalidYouTube {
		t.Fatalf("expected invalid-format sentinel, got %q", got)
	}

	if len(stub.calls) != 0 {
		t.Fatalf("expected no transcript fetch, got %v", stub.calls)
	}
}

func TestYouTubeJoinsTranscript(t *testing.T) {
	stub := &stubTranscripts{text: "  hello\nworld  \n again "}
	e := New(time.Second, stub, slog.Default())

	got := e.YouTube(context.Background(), "https://youtu.be/abc123")
	if got != "hello world again" {
		t.Fatalf("unexpected transcript: %q", got)
	}

	if len(stub.calls) != 1 || stub.calls[0] != "abc123" {
		t.Fatalf("unexpected fetch calls: %v", stub.calls)
	}
}

func TestYouTubeSentinels(t *testing.T) {
	cases := []struct {
		name string
		stub *stubTranscripts
		want string
	}{
		{"empty", &stubTranscripts{text: "   "}, SentinelEmptyTranscript},
		{"disabled", &stubTranscripts{err: errors.New("Subtitles are disabled for this video")}, SentinelCaptionsDisabled},
		{"missing", &stubTranscripts{err: ErrNoTranscript}, SentinelNoTranscript},
		{"other", &stubTranscripts{err: errors.New("connection reset")}, SentinelTranscriptFailed},
	}

	for _, tc := range cases {
		e := New(time.Second, tc.stub, slog.Default())

		got := e.YouTube(context.Background(), "https://www.youtube.com/watch?v=abc123")
		if got != tc.want {
			t.Fatalf("%s: got %q want %q", tc.name, got, tc.want)
		}
	}
}

func TestYouTubeWithoutFetcherFails(t *testing.T) {
	e := New(time.Second, nil, slog.Default())

	if got := e.YouTube(context.Background(), "https://youtu.be/abc123"); got != SentinelTranscriptFailed {
		t.Fatalf("expected failure sentinel, got %q", got)
	}
}

func TestYouTubeHonorsFetchTimeout(t *testing.T) {
	stub := &blockingTranscripts{release: make(chan struct{})}
	defer close(stub.release)

	e := New(200*time.Millisecond, stub, slog.Default())

	done := make(chan string, 1)
	go func() {
		done <- e.YouTube(context.Background(), "https://youtu.be/abc123")
	}()

	select {
	case got := <-done:
		if got != SentinelTranscriptFailed {
			t.Fatalf("expected failure sentinel after timeout, got %q", got)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("YouTube is still blocked after the fetch timeout")
	}
}

func TestClassifyTranscriptErrorDisabledByLibrary(t *testing.T) {
	err := classifyTranscriptError(youtube.ErrTranscriptDisabled)
	if !errors.Is(err, ErrCaptionsDisabled) {
		t.Fatalf("expected ErrCaptionsDisabled, got %v", err)
	}
}
