package bot

import (
	"strings"
	"summabot/internal/domain"
	"testing"
	"unicode/utf8"
)

func TestPickURLFindsFirstURL(t *testing.T) {
	got := pickURL("please summarize https://example.com/a?b=c and https://other.example")
	if got != "https://example.com/a?b=c" {
		t.Fatalf("unexpected URL: %q", got)
	}
}

func TestPickURLFallsBackToText(t *testing.T) {
	if got := pickURL("  not a link  "); got != "not a link" {
		t.Fatalf("expected trimmed text, got %q", got)
	}
}

func TestSplitMessageKeepsShortText(t *testing.T) {
	parts := splitMessage("short", 10)
	if len(parts) != 1 || parts[0] != "short" {
		t.Fatalf("unexpected parts: %q", parts)
	}
}

func TestSplitMessagePrefersLineBreaks(t *testing.T) {
	text := "- first bullet\n- second bullet\n- third bullet"

	parts := splitMessage(text, 20)
	if len(parts) != 3 {
		t.Fatalf("expected 3 parts, got %d: %q", len(parts), parts)
	}

	if parts[0] != "- first bullet" || parts[1] != "- second bullet" || parts[2] != "- third bullet" {
		t.Fatalf("unexpected parts: %q", parts)
	}
}

func TestSplitMessageRespectsLimitWithoutBreaks(t *testing.T) {
	text := strings.Repeat("й", 25)

	parts := splitMessage(text, 10)
	if len(parts) != 3 {
		t.Fatalf("expected 3 parts, got %d", len(parts))
	}

	for _, p := range parts {
		if utf8.RuneCountInString(p) > 10 {
			t.Fatalf("part exceeds limit: %q", p)
		}
	}

	if strings.Join(parts, "") != text {
		t.Fatalf("expected parts to reassemble the text")
	}
}

func TestSourceKeyboardCoversAllSources(t *testing.T) {
	keyboard := getSourceKeyboard()
	if len(keyboard) != len(domain.Sources) {
		t.Fatalf("expected %d rows, got %d", len(domain.Sources), len(keyboard))
	}

	for i, s := range domain.Sources {
		data := keyboard[i][0].CallbackData
		if data == nil || *data != sourceCallbackPrefix+string(s) {
			t.Fatalf("unexpected callback data for %q: %v", s, data)
		}
	}
}

func TestEscapeMarkdownV2(t *testing.T) {
	if got := escape("Upload File (v1.0)!"); got != `Upload File \(v1\.0\)\!` {
		t.Fatalf("unexpected escape result: %q", got)
	}
}

func TestUpdateBackoffSeconds(t *testing.T) {
	if got := updateBackoffSeconds(initialBackoffSeconds); got != initialBackoffSeconds*backoffGrowthFactor {
		t.Fatalf("unexpected backoff: %d", got)
	}

	if got := updateBackoffSeconds(maxBackoffSeconds - 1); got != maxBackoffSeconds {
		t.Fatalf("expected backoff to be capped, got %d", got)
	}
}
