package parser

import (
	"regexp"
	"strings"

	"listing-parser/models"
)

var (
	// "שם הרחוב 12, עיר" or "Herzl 15, Tel Aviv" — street with house number
	// followed by a locality.
	streetCityRe = regexp.MustCompile(`([\p{Hebrew}a-zA-Z\s']{2,}\s+\d{1,4})\s*,\s*([\p{Hebrew}a-zA-Z\s']+)`)
	// Street-keyword prefix without a locality: "רחוב הרצל 15".
	streetKeywordRe = regexp.MustCompile(`(?:רחוב|רח'|סמטת|שדרות|דרך)\s+[\p{Hebrew}\s']+\s*\d{1,4}`)
	// Labeled address in running text.
	labeledAddrRe = regexp.MustCompile(`(?i)(?:כתובת|address)[:\s]*([\p{Hebrew}a-zA-Z0-9\s,'.]+?)(?:\s{2,}|$)`)
	// Hebrew locative prefix: "דירה ברמת גן" → "רמת גן".
	// One optional second word covers two-word cities; anything greedier
	// swallows the rest of the sentence.
	locativeRe = regexp.MustCompile(`\sב([\p{Hebrew}]{2,}(?:\s[\p{Hebrew}]{2,})?)`)

	containsDigitRe = regexp.MustCompile(`\d`)
)

// extractAddress is the one site-category-aware extractor: portal titles
// have a known "Type, Street N, Area, City | tagline" shape, while the
// social network's titles are too noisy for the generic patterns and get
// their own restricted cascade.
func extractAddress(title, description, pageText string, category models.SiteCategory) string {
	switch category {
	case models.SiteYad2, models.SiteMadlan:
		if addr := portalTitleAddress(title, description); addr != "" {
			return addr
		}
	case models.SiteSocial:
		// Deliberately no generic fallthrough: a miss here returns empty.
		return socialAddress(title, description)
	}

	for _, s := range []string{title, description} {
		if s == "" {
			continue
		}
		if m := streetCityRe.FindString(s); m != "" {
			return strings.TrimSpace(m)
		}
		if m := streetKeywordRe.FindString(s); m != "" {
			return strings.TrimSpace(m)
		}
	}

	if m := labeledAddrRe.FindStringSubmatch(pageText); m != nil {
		addr := strings.TrimSpace(m[1])
		if runes := []rune(addr); len(runes) > 100 {
			addr = string(runes[:100])
		}
		return addr
	}
	return ""
}

// portalTitleAddress decodes the portals' title convention. The tagline
// after the pipe is discarded; a leading property-type label ("דירה") is
// dropped when the second comma part looks like a street (has a number).
func portalTitleAddress(title, description string) string {
	for _, s := range []string{title, description} {
		if s == "" {
			continue
		}
		beforePipe := strings.TrimSpace(strings.SplitN(s, "|", 2)[0])
		parts := splitTrim(beforePipe, ",")

		if len(parts) >= 3 {
			if containsDigitRe.MatchString(parts[1]) {
				return strings.Join(parts[1:], ", ")
			}
			return strings.Join(parts, ", ")
		}
		if len(parts) == 2 && containsDigitRe.MatchString(parts[0]) {
			return beforePipe
		}
	}
	return ""
}

// socialAddress works only over what the preview tags expose: the
// description first (street+number, then a locative-prefixed place name),
// then the last meaningful pipe segment of the title.
func socialAddress(title, description string) string {
	if description != "" {
		if m := streetCityRe.FindString(description); m != "" {
			return strings.TrimSpace(m)
		}
		if m := locativeRe.FindStringSubmatch(" " + description); m != nil {
			return strings.TrimSpace(m[1])
		}
	}

	if title != "" {
		segments := splitTrim(title, "|")
		for i := len(segments) - 1; i >= 0; i-- {
			seg := segments[i]
			if seg == "" || strings.EqualFold(seg, "Facebook") {
				continue
			}
			if m := locativeRe.FindStringSubmatch(" " + seg); m != nil {
				return strings.TrimSpace(m[1])
			}
			break
		}
	}
	return ""
}

func splitTrim(s, sep string) []string {
	raw := strings.Split(s, sep)
	out := make([]string, 0, len(raw))
	for _, part := range raw {
		out = append(out, strings.TrimSpace(part))
	}
	return out
}
