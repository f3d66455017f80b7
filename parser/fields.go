package parser

import (
	"regexp"
	"strconv"
	"strings"

	"listing-parser/config"
)

// numberPattern is one step of an extraction cascade: a pattern whose first
// capture group is the candidate number, plus an optional transform applied
// before range validation. Cascades stop at the first in-range match, so
// ordering encodes trust.
type numberPattern struct {
	re        *regexp.Regexp
	transform func(float64) float64
	// fixed short-circuits the capture: a match yields this value directly
	// (used for phrases like "ground floor" that carry no digits).
	fixed *float64
	// decimalComma treats a comma as a decimal point ("3,5 חדרים") instead
	// of a thousands separator.
	decimalComma bool
}

var (
	pricePatterns = []numberPattern{
		{re: regexp.MustCompile(`₪\s*([\d,]+(?:\.\d+)?)`)},
		{re: regexp.MustCompile(`([\d,]+(?:\.\d+)?)\s*₪`)},
		{re: regexp.MustCompile(`(?i)([\d,]+(?:\.\d+)?)\s*(?:ש"ח|ש״ח|שקל|שקלים|shekel|NIS|ILS)`)},
		{re: regexp.MustCompile(`מחיר[:\s]+([\d,]+)`)},
		{re: regexp.MustCompile(`(?i)price[:\s]+([\d,]+)`)},
		// "1.5 מיליון" — the multiplier only applies to the short form.
		{re: regexp.MustCompile(`([\d.]+)\s*מיליון`), transform: func(n float64) float64 {
			if n < 100 {
				return n * 1000000
			}
			return n
		}},
	}

	roomsPatterns = []numberPattern{
		{re: regexp.MustCompile(`(\d+(?:[.,]\d)?)\s*חדרי?ם`), decimalComma: true},
		{re: regexp.MustCompile(`חדרי?ם[:\s]+([\d.]+)`)},
		{re: regexp.MustCompile(`חד['׳][:\s]*([\d.]+)`)},
		{re: regexp.MustCompile(`(?i)(\d+(?:\.\d)?)\s*(?:rooms?|beds?|bedrooms?)\b`)},
		{re: regexp.MustCompile(`(?i)(?:rooms?|bedrooms?)[:\s]+(\d+(?:\.\d)?)`)},
	}

	bathsPatterns = []numberPattern{
		{re: regexp.MustCompile(`(\d+(?:\.5)?)\s*(?:אמבטי(?:ות|ה)?|מקלחות|שירותים)`)},
		{re: regexp.MustCompile(`(?:אמבטי(?:ות|ה)?|מקלחות)[:\s]+(\d+(?:\.5)?)`)},
		{re: regexp.MustCompile(`(?i)(\d+(?:\.5)?)\s*bath(?:room)?s?\b`)},
		{re: regexp.MustCompile(`(?i)bath(?:room)?s?[:\s]+(\d+(?:\.5)?)`)},
	}

	sqmPatterns = []numberPattern{
		{re: regexp.MustCompile(`(?i)(\d+)\s*(?:מ"ר|מ״ר|מטר|m²|sqm)`)},
		{re: regexp.MustCompile(`שטח[:\s]+(\d+)`)},
		{re: regexp.MustCompile(`(?i)area[:\s]+(\d+)`)},
		{re: regexp.MustCompile(`(?i)(\d+)\s*sq\.?\s*m`)},
		{re: regexp.MustCompile(`גודל(?:\s*הנכס)?[:\s]+(\d+)`)},
	}

	groundFloor = 0.0

	floorPatterns = []numberPattern{
		{re: regexp.MustCompile(`קומ[הת][:\s]+(\d+)`)},
		{re: regexp.MustCompile(`קומת\s*קרקע`), fixed: &groundFloor},
		{re: regexp.MustCompile(`(?i)floor[:\s]+(\d+)`)},
		{re: regexp.MustCompile(`(?i)(\d+)(?:st|nd|rd|th)\s*floor`)},
		// "קומה 3 מתוך 5" — only the floor itself, not the building height.
		{re: regexp.MustCompile(`קומ[הת]\s+(\d+)\s*(?:מתוך|מ-|/)`)},
	}

	parkingRe  = regexp.MustCompile(`(?i)חניה|חנייה|חנית|חניות|parking|מקום\s*חניה`)
	elevatorRe = regexp.MustCompile(`(?i)מעלית|elevator|lift`)
)

// firstInRange runs a cascade over the corpus and returns the first parsed
// value the range accepts. Out-of-range matches are discarded, not clamped,
// so a spurious digit sequence never masquerades as a real value.
func firstInRange(corpus string, patterns []numberPattern, r config.Range) *float64 {
	for _, pat := range patterns {
		m := pat.re.FindStringSubmatch(corpus)
		if m == nil {
			continue
		}

		if pat.fixed != nil {
			if r.Contains(*pat.fixed) {
				v := *pat.fixed
				return &v
			}
			continue
		}

		numStr := strings.ReplaceAll(m[1], ",", "")
		if pat.decimalComma {
			numStr = strings.ReplaceAll(m[1], ",", ".")
		}
		n, err := strconv.ParseFloat(numStr, 64)
		if err != nil {
			continue
		}
		if pat.transform != nil {
			n = pat.transform(n)
		}
		if r.Contains(n) {
			return &n
		}
	}
	return nil
}

func (p *Parser) extractPrice(corpus string) *float64 {
	return firstInRange(corpus, pricePatterns, p.cfg.Price)
}

func (p *Parser) extractRooms(corpus string) *float64 {
	return firstInRange(corpus, roomsPatterns, p.cfg.Rooms)
}

func (p *Parser) extractBaths(corpus string) *float64 {
	return firstInRange(corpus, bathsPatterns, p.cfg.Baths)
}

func (p *Parser) extractSqm(corpus string) *float64 {
	return firstInRange(corpus, sqmPatterns, p.cfg.Sqm)
}

func (p *Parser) extractFloor(corpus string) *float64 {
	return firstInRange(corpus, floorPatterns, p.cfg.Floor)
}

// extractBool is a bare keyword-presence test. No negation handling: "אין
// מעלית" still reads as an elevator, a known limitation the manual review
// step absorbs.
func extractBool(corpus string, re *regexp.Regexp) bool {
	return re.MatchString(corpus)
}
