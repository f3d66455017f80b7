// Package parser implements the listing-URL ingestion pipeline: fetch a
// real-estate listing page and heuristically extract a structured property
// record from its markup. Best-effort by design — every stage degrades to
// partial output instead of failing, and the caller gets a caveat message
// when confidence is reduced.
package parser

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"time"

	"listing-parser/config"
	"listing-parser/models"
	"listing-parser/utils"
)

// Messages surfaced in ExtractedRecord.Error. These reach end users
// verbatim, so they stay human-readable sentences.
const (
	ErrMsgFetch       = "Could not fetch page"
	ErrMsgEmpty       = "Empty response from page"
	ErrMsgGatedSome   = "Limited data from Facebook. Review and complete manually."
	ErrMsgGatedNone   = "Facebook requires login. Please add details manually."
	ErrMsgParseFailed = "Failed to parse URL"
)

// Parser runs the stateless per-URL extraction pipeline. Safe for
// concurrent use: all fields are set at construction and never mutated.
type Parser struct {
	cfg    *config.Heuristics
	logger *utils.Logger
	client *http.Client

	loginRe   *regexp.Regexp
	listingRe *regexp.Regexp
}

// New builds a Parser from heuristics config. Invalid marker patterns fall
// back to the packaged defaults rather than failing construction.
func New(cfg *config.Heuristics, fetchTimeout time.Duration, logger *utils.Logger) *Parser {
	defaults := config.DefaultHeuristics()

	loginRe, err := regexp.Compile(cfg.LoginPattern)
	if err != nil {
		logger.Warn("[parser] Bad login_pattern %q, using default: %v", cfg.LoginPattern, err)
		loginRe = regexp.MustCompile(defaults.LoginPattern)
	}
	listingRe, err := regexp.Compile(cfg.ListingPattern)
	if err != nil {
		logger.Warn("[parser] Bad listing_pattern %q, using default: %v", cfg.ListingPattern, err)
		listingRe = regexp.MustCompile(defaults.ListingPattern)
	}

	return &Parser{
		cfg:       cfg,
		logger:    logger,
		client:    newHTTPClient(fetchTimeout),
		loginRe:   loginRe,
		listingRe: listingRe,
	}
}

// Parse runs the full pipeline for one URL. The returned record is always
// well-formed; a non-nil error is returned only from the outermost recovery
// boundary, and even then alongside a renderable record.
func (p *Parser) Parse(ctx context.Context, rawURL string) (rec models.ExtractedRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("[parser] Panic while parsing %s: %v", rawURL, r)
			rec = models.EmptyRecord(rawURL)
			rec.Error = ErrMsgParseFailed
			err = errors.New(ErrMsgParseFailed)
		}
	}()

	category := Classify(rawURL)
	p.logger.Debug("[parser] %s classified as %s", rawURL, category)

	html, fetchErr := p.Fetch(ctx, rawURL, category)
	if fetchErr != nil {
		rec = models.EmptyRecord(rawURL)
		if errors.Is(fetchErr, ErrEmptyBody) {
			rec.Error = ErrMsgEmpty
		} else {
			rec.Error = ErrMsgFetch
		}
		p.logger.Warn("[parser] Fetch failed for %s: %v", rawURL, fetchErr)
		return rec, nil
	}

	return p.ParseHTML(rawURL, category, html), nil
}

// ParseHTML runs every extraction stage over already-fetched markup. Split
// out from Parse so identical HTML always produces identical records, with
// no network in the way.
func (p *Parser) ParseHTML(rawURL string, category models.SiteCategory, html string) models.ExtractedRecord {
	if p.IsGated(html, category) {
		return p.gatedRecord(rawURL, html)
	}

	og := ExtractOgTags(html)

	structured, blocks := ExtractStructured(html)
	for _, b := range blocks {
		if b.Err != nil {
			p.logger.Debug("[parser] Skipped malformed JSON-LD block %d: %v", b.Index, b.Err)
		}
	}

	pageText := p.StripHTML(html)
	corpus := p.BuildCorpus(og.Title, og.Description, pageText)

	rec := models.ExtractedRecord{
		SourceURL:      rawURL,
		RawTitle:       og.Title,
		RawDescription: og.Description,
	}

	// Priority merge: structured data beats the heuristic extractors;
	// address additionally falls back to the raw title.
	rec.Address = firstNonEmpty(
		deref(structured.Address),
		extractAddress(og.Title, og.Description, pageText, category),
		og.Title,
	)
	rec.Price = coalesce(structured.Price, func() *float64 { return p.extractPrice(corpus) })
	rec.Bedrooms = coalesce(structured.Bedrooms, func() *float64 { return p.extractRooms(corpus) })
	rec.Baths = coalesce(structured.Baths, func() *float64 { return p.extractBaths(corpus) })
	rec.Sqm = coalesce(structured.Sqm, func() *float64 { return p.extractSqm(corpus) })
	rec.Floor = coalesce(structured.Floor, func() *float64 { return p.extractFloor(corpus) })

	if structured.Parking != nil {
		rec.Parking = *structured.Parking
	} else {
		rec.Parking = extractBool(corpus, parkingRe)
	}
	if structured.Elevator != nil {
		rec.Elevator = *structured.Elevator
	} else {
		rec.Elevator = extractBool(corpus, elevatorRe)
	}

	rec.ContactPhone = p.extractPhones(corpus)
	rec.Images = p.collectImages(og, html, structured.Images)

	return rec
}

// gatedRecord salvages what the login wall left behind: preview tags only,
// with a caveat message that tells the user how much survived. The document
// <title> fallback is deliberately skipped here — a login wall always has
// one ("Log into Facebook") and it would both mask the no-data message and
// land as the record's address.
func (p *Parser) gatedRecord(rawURL, html string) models.ExtractedRecord {
	og := previewOgTags(html)

	rec := models.EmptyRecord(rawURL)
	rec.Address = og.Title
	rec.RawTitle = og.Title
	rec.RawDescription = og.Description
	if og.Image != "" {
		rec.Images = []string{og.Image}
	}
	if og.Title != "" {
		rec.Error = ErrMsgGatedSome
	} else {
		rec.Error = ErrMsgGatedNone
	}
	return rec
}

// collectImages merges image URLs by source priority — primary OG image,
// any further og:image tags, then structured data — deduplicated by exact
// string, capped at the configured maximum.
func (p *Parser) collectImages(og models.OgTags, html string, structuredImages []string) []string {
	images := make([]string, 0, p.cfg.MaxImages)
	seen := make(map[string]struct{})

	add := func(src string) {
		if src == "" || len(images) >= p.cfg.MaxImages {
			return
		}
		if _, dup := seen[src]; dup {
			return
		}
		seen[src] = struct{}{}
		images = append(images, src)
	}

	add(og.Image)
	for _, src := range AllOgImages(html) {
		add(src)
	}
	for _, src := range structuredImages {
		add(src)
	}
	return images
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// coalesce returns the structured value when present; the heuristic
// fallback only runs when needed.
func coalesce(structured *float64, fallback func() *float64) *float64 {
	if structured != nil {
		return structured
	}
	return fallback()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
