package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"summabot/internal/config"
	"summabot/internal/domain"
	"summabot/internal/extractor"
	"summabot/internal/pipeline"
	"summabot/internal/summarizer"
	"syscall"
	"time"

	"gopkg.in/alecthomas/kingpin.v2"
)

const stdinMarker = "-"

var (
	app  = kingpin.New("summarize", "summarize text, a document, a webpage or a YouTube video in bullet points")
	args = struct {
		file    *string
		url     *string
		youtube *string
		text    *string
	}{
		file:    app.Flag("file", "path to a .txt, .pdf or .docx file").Short('f').String(),
		url:     app.Flag("url", "webpage URL").Short('u').String(),
		youtube: app.Flag("youtube", "YouTube video URL").Short('y').String(),
		text:    app.Flag("text", "text to summarize, - reads stdin").Short('t').String(),
	}
)

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))

	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log); err != nil {
		log.ErrorContext(ctx, "Failed to summarize",
			"error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger) error {
	cfg, err := config.LoadCLIConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	summ, err := summarizer.NewFromConfig(ctx, cfg.Summarizer)
	if err != nil {
		return fmt.Errorf("create summarizer: %w", err)
	}

	ext := extractor.New(cfg.Extractor.FetchTimeout, extractor.NewTranscriptClient(), log)
	p := pipeline.New(ext, summ, cfg.Summarizer.SummarizeTimeout, cfg.Extractor.MaxUploadBytes, log)

	d, err := buildDraft(ctx, p, os.Stdin, os.Stderr)
	if err != nil {
		return err
	}

	summary, err := p.Summarize(ctx, d)
	if errors.Is(err, pipeline.ErrEmptyInput) {
		return errors.New("please provide some input")
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(os.Stdout, summary)

	return err
}

// buildDraft fills a draft from every flag that was given. Extraction
// problems are reported on warn and leave the affected field empty, so the
// next source by precedence is used instead.
func buildDraft(
	ctx context.Context,
	p *pipeline.Pipeline,
	stdin io.Reader,
	warn io.Writer,
) (domain.Draft, error) {
	d := domain.Draft{UpdatedAt: time.Now()}

	if *args.file != "" {
		if !extractor.SupportedFile(*args.file) {
			return d, fmt.Errorf("unsupported file type (path = %s)", *args.file)
		}

		data, err := os.ReadFile(*args.file)
		if err != nil {
			return d, fmt.Errorf("read file (path = %s): %w", *args.file, err)
		}

		text, err := p.ExtractFile(*args.file, data)
		if err != nil {
			return d, err
		}

		d.FileName = *args.file
		d.FileText = text
		warnSentinel(warn, text)
	}

	if *args.url != "" {
		text, u, err := p.ExtractWebpage(ctx, *args.url)
		if err != nil {
			fmt.Fprintln(warn, "⚠️ Invalid webpage URL format.")
		} else {
			d.SourceURL = u.String()
			d.URLText = text
			warnSentinel(warn, text)
		}
	}

	if *args.youtube != "" {
		text, u, err := p.ExtractYouTube(ctx, *args.youtube)
		if err != nil {
			fmt.Fprintln(warn, "⚠️ Invalid YouTube URL format.")
		} else {
			if d.SourceURL == "" {
				d.SourceURL = u.String()
			}
			d.YouTubeText = text
			warnSentinel(warn, text)
		}
	}

	switch *args.text {
	case "":
	case stdinMarker:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return d, fmt.Errorf("read stdin: %w", err)
		}
		d.PasteText = string(data)
	default:
		d.PasteText = *args.text
	}

	return d, nil
}

func warnSentinel(w io.Writer, text string) {
	if extractor.IsSentinel(text) {
		fmt.Fprintln(w, "⚠️ "+text)
	}
}
