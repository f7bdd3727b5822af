package bot

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"summabot/internal/domain"
	"summabot/internal/draft"
	"summabot/internal/extractor"
	"summabot/internal/pipeline"
	"summabot/internal/ratelimiter"
	"summabot/internal/summarizer"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type sentMessage struct {
	chatID   int64
	text     string
	keyboard any
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if m, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, sentMessage{chatID: m.ChatID, text: m.Text, keyboard: m.ReplyMarkup})
	}

	return tgbotapi.Message{}, nil
}

func (f *fakeSender) Request(_ tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) messages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]sentMessage(nil), f.sent...)
}

type fakeSummarizer struct {
	mu     sync.Mutex
	inputs []string
}

func (s *fakeSummarizer) Summarize(_ context.Context, input summarizer.Input) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputs = append(s.inputs, input.Text)

	return "- point", nil
}

func (s *fakeSummarizer) seen() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.inputs...)
}

func newTestBot(summ summarizer.Summarizer) (*Bot, *fakeSender) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	sender := &fakeSender{}

	e := extractor.New(time.Second, nil, log)

	return &Bot{
		rateLimiter:    ratelimiter.New(sender, log),
		pipeline:       pipeline.New(e, summ, time.Second, 1<<20, log),
		drafts:         draft.NewStore(time.Hour),
		menuKeyboard:   getMenuKeyboard(),
		sourceKeyboard: getSourceKeyboard(),
		readyKeyboard:  getReadyKeyboard(),
		log:            log,
	}, sender
}

func TestSummarizeEmptyDraftAsksForInput(t *testing.T) {
	summ := &fakeSummarizer{}
	b, sender := newTestBot(summ)

	if err := b.handleSummarizeCommand(context.Background(), 101); err != nil {
		t.Fatalf("handleSummarizeCommand returned error: %v", err)
	}

	sent := sender.messages()
	if len(sent) != 1 || sent[0].text != emptyInputText {
		t.Fatalf("expected empty input notice, got %+v", sent)
	}

	if len(summ.seen()) != 0 {
		t.Fatalf("summarizer must not be called for empty input, got %q", summ.seen())
	}
}

func TestSummarizeSendsSummaryOfFinalInput(t *testing.T) {
	summ := &fakeSummarizer{}
	b, sender := newTestBot(summ)

	b.drafts.Update(102, func(d *domain.Draft) {
		d.PasteText = "pasted text"
		d.FileText = "file text"
	})

	if err := b.handleSummarizeCommand(context.Background(), 102); err != nil {
		t.Fatalf("handleSummarizeCommand returned error: %v", err)
	}

	if got := summ.seen(); len(got) != 1 || got[0] != "file text" {
		t.Fatalf("expected file text to be summarized, got %q", got)
	}

	sent := sender.messages()
	if len(sent) != 1 || sent[0].text != summaryHeadingText+"- point" {
		t.Fatalf("unexpected messages: %+v", sent)
	}
}

func TestWebpageSentinelIsShownAsWarning(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	b, sender := newTestBot(&fakeSummarizer{})

	err := b.handleInputText(context.Background(), 103, domain.SourceWebpage, "please read "+srv.URL+"/page")
	if err != nil {
		t.Fatalf("handleInputText returned error: %v", err)
	}

	sent := sender.messages()
	if len(sent) != 1 || sent[0].text != "⚠️ "+extractor.SentinelScrapeFailed {
		t.Fatalf("expected sentinel warning, got %+v", sent)
	}

	if got := b.drafts.Get(103).FinalInput(); got != "" {
		t.Fatalf("sentinel must not become the final input, got %q", got)
	}
}

func TestInvalidURLsAreRejected(t *testing.T) {
	cases := []struct {
		chatID int64
		source domain.Source
		want   string
	}{
		{104, domain.SourceWebpage, invalidWebpageText},
		{105, domain.SourceYouTube, invalidYouTubeText},
	}

	for _, tc := range cases {
		b, sender := newTestBot(&fakeSummarizer{})

		if err := b.handleInputText(context.Background(), tc.chatID, tc.source, "not a link"); err != nil {
			t.Fatalf("%s: handleInputText returned error: %v", tc.source, err)
		}

		sent := sender.messages()
		if len(sent) != 1 || sent[0].text != tc.want {
			t.Fatalf("%s: unexpected messages: %+v", tc.source, sent)
		}

		if !b.drafts.Get(tc.chatID).IsEmpty() {
			t.Fatalf("%s: invalid URL must not touch the draft", tc.source)
		}
	}
}

func TestPastedTextIsStoredAndOffersSummarize(t *testing.T) {
	b, sender := newTestBot(&fakeSummarizer{})

	if err := b.handleInputText(context.Background(), 106, domain.SourcePaste, "hello world"); err != nil {
		t.Fatalf("handleInputText returned error: %v", err)
	}

	sent := sender.messages()
	if len(sent) != 1 || !strings.HasPrefix(sent[0].text, "✏️ Text received (11 characters).") {
		t.Fatalf("unexpected messages: %+v", sent)
	}

	if sent[0].keyboard == nil {
		t.Fatalf("expected the summarize keyboard to be attached")
	}

	if got := b.drafts.Get(106).FinalInput(); got != "hello world" {
		t.Fatalf("unexpected final input: %q", got)
	}
}

func TestClearDropsDraft(t *testing.T) {
	b, sender := newTestBot(&fakeSummarizer{})
	b.drafts.Update(107, func(d *domain.Draft) { d.PasteText = "something" })

	if err := b.handleClearCommand(context.Background(), 107); err != nil {
		t.Fatalf("handleClearCommand returned error: %v", err)
	}

	if !b.drafts.Get(107).IsEmpty() {
		t.Fatalf("expected draft to be cleared")
	}

	if sent := sender.messages(); len(sent) != 1 || sent[0].text != clearedText {
		t.Fatalf("unexpected messages: %+v", sent)
	}
}

func TestUpdateProcessingTimeout(t *testing.T) {
	if updateProcessingTimeout != 2*time.Minute {
		t.Fatalf("unexpected update timeout: %s", updateProcessingTimeout)
	}
}
