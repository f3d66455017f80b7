package parser

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

var (
	scriptBlockRe = regexp.MustCompile(`(?is)<script.*?</script>`)
	styleBlockRe  = regexp.MustCompile(`(?is)<style.*?</style>`)
	anyTagRe      = regexp.MustCompile(`<[^>]+>`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
)

// StripHTML flattens a page to plain text for pattern matching. Script and
// style contents are removed entirely, not just their tags, so code and CSS
// never pollute the corpus. Output is entity-decoded, whitespace-collapsed
// and capped at the configured corpus size.
func (p *Parser) StripHTML(rawHTML string) string {
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML)); err == nil {
		// Dropping the nodes (not just the tags) keeps code and CSS out of
		// the corpus even when they contain literal "</script>" strings.
		doc.Find("script, style, noscript").Remove()
		if serialized, err := doc.Html(); err == nil {
			rawHTML = serialized
		}
	} else {
		rawHTML = scriptBlockRe.ReplaceAllString(rawHTML, " ")
		rawHTML = styleBlockRe.ReplaceAllString(rawHTML, " ")
	}

	// Tags become spaces so adjacent elements do not fuse into one word.
	text := anyTagRe.ReplaceAllString(rawHTML, " ")
	text = html.UnescapeString(text)
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	if len(text) > p.cfg.CorpusMaxLen {
		cut := p.cfg.CorpusMaxLen
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	return text
}

// BuildCorpus joins the OG title, OG description and the stripped page text
// into the single text the field extractors run over. Title and description
// lead so short, high-signal strings match before page boilerplate.
func (p *Parser) BuildCorpus(title, description, pageText string) string {
	return title + "\n" + description + "\n" + pageText
}
