package bot

import (
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"mvdan.cc/xurls/v2"
)

const telegramMessageMaxLength = 4096

func escape(text string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, text)
}

// pickURL returns the first http(s) URL in text, or the trimmed text itself
// so validation can reject it with a proper message.
func pickURL(text string) string {
	text = strings.TrimSpace(text)

	if found := xurls.Strict().FindString(text); found != "" {
		return found
	}

	return text
}

// splitMessage cuts text into pieces of at most limit runes, preferring line
// breaks as cut points.
func splitMessage(text string, limit int) []string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var parts []string
	runes := []rune(text)

	for len(runes) > limit {
		cut := limit
		for i := limit; i > limit/2; i-- {
			if runes[i-1] == '\n' {
				cut = i
				break
			}
		}

		parts = append(parts, strings.TrimRight(string(runes[:cut]), "\n"))
		runes = runes[cut:]
	}

	if rest := string(runes); strings.TrimSpace(rest) != "" {
		parts = append(parts, rest)
	}

	return parts
}
