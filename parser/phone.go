package parser

import (
	"regexp"
	"strings"
)

// The four shapes Israeli listings write phone numbers in: local mobile,
// local landline, and the two international prefixes.
var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`05\d[-.\s]?\d{3}[-.\s]?\d{4}`),
	regexp.MustCompile(`0[2-9][-.\s]?\d{3}[-.\s]?\d{4,5}`),
	regexp.MustCompile(`\+972[-.\s]?\d{1,2}[-.\s]?\d{3}[-.\s]?\d{4}`),
	regexp.MustCompile(`\b972[-.\s]?\d{1,2}[-.\s]?\d{3}[-.\s]?\d{4}`),
}

var (
	nonDigitRe   = regexp.MustCompile(`\D`)
	localPhoneRe = regexp.MustCompile(`^0[2-9]\d{8}$`)
)

// extractPhones collects contact numbers from the corpus, normalized to the
// canonical 10-digit local form and pretty-printed, deduplicated, capped.
// Returns nil when nothing valid was found.
func (p *Parser) extractPhones(corpus string) *string {
	seen := make(map[string]struct{})
	var phones []string

	for _, re := range phonePatterns {
		for _, raw := range re.FindAllString(corpus, -1) {
			num := normalizePhone(raw)
			if num == "" {
				continue
			}
			if _, dup := seen[num]; dup {
				continue
			}
			seen[num] = struct{}{}
			phones = append(phones, formatPhone(num))
			if len(phones) == p.cfg.MaxPhones {
				joined := strings.Join(phones, ", ")
				return &joined
			}
		}
	}

	if len(phones) == 0 {
		return nil
	}
	joined := strings.Join(phones, ", ")
	return &joined
}

// normalizePhone reduces a match to the canonical local form: digits only,
// international prefix replaced with a leading 0. Anything that does not end
// up as exactly 10 digits starting 0[2-9] is rejected.
func normalizePhone(raw string) string {
	digits := nonDigitRe.ReplaceAllString(raw, "")
	if strings.HasPrefix(digits, "972") {
		digits = "0" + digits[3:]
	}
	if !localPhoneRe.MatchString(digits) {
		return ""
	}
	return digits
}

// formatPhone pretty-prints a canonical number: mobiles as 3-3-4, landlines
// as area code then the rest.
func formatPhone(num string) string {
	if strings.HasPrefix(num, "05") {
		return num[:3] + "-" + num[3:6] + "-" + num[6:]
	}
	return num[:2] + "-" + num[2:]
}
