package extractor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

const maxPageBytes = 10 << 20

var whitespaceRe = regexp.MustCompile(`[ \t\f\v]+`)

// Webpage downloads rawURL and returns its main text. Failures come back as
// extractor sentinels.
func (e *Extractor) Webpage(ctx context.Context, rawURL string) string {
	text, err := e.fetchWebpageText(ctx, rawURL)
	if err != nil {
		e.log.WarnContext(ctx, "Failed to scrape URL",
			"error", err,
			"url", rawURL)

		return SentinelScrapeFailed
	}

	text = strings.TrimSpace(text)
	if text == "" {
		e.log.InfoContext(ctx, "No text found on page",
			"url", rawURL)

		return SentinelNoText
	}

	return text
}

func (e *Extractor) fetchWebpageText(ctx context.Context, rawURL string) (string, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := e.client.Do(req) //nolint:gosec // User-supplied URL is the point.
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if err = resp.Body.Close(); err != nil {
			e.log.ErrorContext(ctx, "Failed to close response body",
				"error", err,
				"url", rawURL,
				"operation", "fetchWebpageText")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("do request: unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	if isFeedContentType(resp.Header.Get("Content-Type")) {
		text, feedErr := e.feedText(body)
		if feedErr == nil {
			return text, nil
		}

		e.log.DebugContext(ctx, "Feed parsing failed, treating response as a page",
			"error", feedErr,
			"url", rawURL)
	}

	text, err := articleText(body, pageURL)
	if err == nil && strings.TrimSpace(text) != "" {
		return text, nil
	}

	if err != nil {
		e.log.DebugContext(ctx, "Readability failed, falling back to goquery",
			"error", err,
			"url", rawURL)
	}

	return fallbackText(body)
}

// articleText runs readability and renders the article as markdown so the
// model keeps headings and lists.
func articleText(body []byte, pageURL *url.URL) (string, error) {
	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		return "", fmt.Errorf("parse article: %w", err)
	}

	if strings.TrimSpace(article.Content) != "" {
		md, mdErr := htmltomarkdown.ConvertString(article.Content)
		if mdErr == nil && strings.TrimSpace(md) != "" {
			return md, nil
		}
	}

	return article.TextContent, nil
}

func fallbackText(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create document from reader: %w", err)
	}

	doc.Find("script, style, noscript, iframe, svg, header, footer, nav, aside").Remove()

	content := doc.Find("article, main, #content").First()
	if content.Length() == 0 {
		content = doc.Find("body")
	}

	var lines []string
	for _, line := range strings.Split(content.Text(), "\n") {
		line = strings.TrimSpace(whitespaceRe.ReplaceAllString(line, " "))
		if line != "" {
			lines = append(lines, line)
		}
	}

	return strings.Join(lines, "\n"), nil
}

func (e *Extractor) feedText(body []byte) (string, error) {
	parsed, err := e.feedParser.Parse(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse feed: %w", err)
	}

	if parsed == nil {
		return "", errors.New("parse feed: empty result")
	}

	var b strings.Builder
	if title := strings.TrimSpace(parsed.Title); title != "" {
		b.WriteString(title)
		b.WriteString("\n\n")
	}

	for _, item := range parsed.Items {
		if item == nil {
			continue
		}

		b.WriteString("- ")
		b.WriteString(strings.TrimSpace(item.Title))

		description := strings.TrimSpace(item.Description)
		if description != "" {
			if plain, plainErr := fallbackText([]byte(description)); plainErr == nil {
				description = plain
			}
			b.WriteString(": ")
			b.WriteString(strings.ReplaceAll(description, "\n", " "))
		}
		b.WriteString("\n")
	}

	return b.String(), nil
}

func isFeedContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	switch mediaType {
	case "application/rss+xml", "application/atom+xml", "application/feed+json",
		"application/xml", "text/xml":
		return true
	default:
		return false
	}
}
