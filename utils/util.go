package utils

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Like fmt.Sprintf but numbers get thousands separators, e.g. 12345 -> "12,345".
func HumanizedSprintf(format string, args ...any) string {
	return printer.Sprintf(format, args...)
}

// Formats t as a Discord timestamp tag. Style is one of Discord's format letters ("R", "f", ...),
// empty for the client default.
func DiscordTimestamp(t time.Time, style string) string {
	if style == "" {
		return fmt.Sprintf("<t:%d>", t.Unix())
	}

	return fmt.Sprintf("<t:%d:%s>", t.Unix(), style)
}

// Pads s with spaces on the right up to width runes.
func PadRight(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}

	return s + strings.Repeat(" ", width-n)
}

// Formats a score so whole numbers lose their trailing ".0".
func FormatScore(score float64) string {
	if score == float64(int64(score)) {
		return HumanizedSprintf("%d", int64(score))
	}

	return HumanizedSprintf("%.2f", score)
}

// Whether s is an absolute http(s) link.
func IsLink(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
