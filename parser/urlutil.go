package parser

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	urlRe = regexp.MustCompile(`https?://[^\s<>\[\]()'"]+`)
	// Markdown link syntax is stripped first so the same URL is not seen twice.
	markdownLinkRe = regexp.MustCompile(`\[[^\]]*]\((https?://\S+?)\)`)
)

// ExtractURL isolates the first usable http(s) URL from shared free text.
// Share sheets often deliver a whole message ("check this out! https://...")
// rather than a bare link. Returns "" when no valid URL is present.
func ExtractURL(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	// A bare, valid URL passes through untouched.
	if u, err := url.Parse(text); err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" && !strings.ContainsAny(text, " \t\n") {
		return text
	}

	sanitized := markdownLinkRe.ReplaceAllString(text, " $1 ")
	for _, match := range urlRe.FindAllString(sanitized, -1) {
		cleaned := strings.TrimRight(match, ".,;:!?")
		u, err := url.Parse(cleaned)
		if err != nil || u.Host == "" {
			continue
		}
		return cleaned
	}
	return ""
}
