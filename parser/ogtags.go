package parser

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dyatlov/go-opengraph/opengraph"

	"listing-parser/models"
)

// Meta markup puts content= and property= in either order, so each tag gets
// two patterns. These only run as a fallback when the opengraph parser came
// up empty for a field (e.g. on truncated or badly nested markup).
type metaPatterns struct {
	propFirst    *regexp.Regexp
	contentFirst *regexp.Regexp
}

func newMetaPatterns(property string) metaPatterns {
	quoted := regexp.QuoteMeta(property)
	return metaPatterns{
		propFirst:    regexp.MustCompile(`(?i)<meta[^>]*(?:property|name)=["']` + quoted + `["'][^>]*content=["']([^"']+)["']`),
		contentFirst: regexp.MustCompile(`(?i)<meta[^>]*content=["']([^"']+)["'][^>]*(?:property|name)=["']` + quoted + `["']`),
	}
}

func (mp metaPatterns) find(rawHTML string) string {
	if m := mp.propFirst.FindStringSubmatch(rawHTML); m != nil {
		return html.UnescapeString(m[1])
	}
	if m := mp.contentFirst.FindStringSubmatch(rawHTML); m != nil {
		return html.UnescapeString(m[1])
	}
	return ""
}

var (
	ogTitleRe = newMetaPatterns("og:title")
	ogDescRe  = newMetaPatterns("og:description")
	ogImageRe = newMetaPatterns("og:image")
	ogURLRe   = newMetaPatterns("og:url")

	ogImageAllRe = regexp.MustCompile(`(?i)(?:property|name)=["']og:image["'][^>]*content=["']([^"']+)["']|content=["']([^"']+)["'][^>]*(?:property|name)=["']og:image["']`)
)

// previewOgTags reads only the og: preview tags: proper HTML parsing first,
// regex fallback second. Nothing outside the preview metadata is consulted,
// so an empty result really means the page published no preview — which is
// what the gate-page path keys its message off.
func previewOgTags(rawHTML string) models.OgTags {
	og := opengraph.NewOpenGraph()
	_ = og.ProcessHTML(strings.NewReader(rawHTML))

	tags := models.OgTags{
		Title:       html.UnescapeString(og.Title),
		Description: html.UnescapeString(og.Description),
		URL:         html.UnescapeString(og.URL),
	}
	if len(og.Images) > 0 {
		tags.Image = og.Images[0].URL
	}

	if tags.Title == "" {
		tags.Title = ogTitleRe.find(rawHTML)
	}
	if tags.Description == "" {
		tags.Description = ogDescRe.find(rawHTML)
	}
	if tags.Image == "" {
		tags.Image = ogImageRe.find(rawHTML)
	}
	if tags.URL == "" {
		tags.URL = ogURLRe.find(rawHTML)
	}
	return tags
}

// ExtractOgTags pulls the social-preview metadata out of raw markup, with a
// <title>/meta-description fallback for pages that publish no preview tags.
// Gated pages must not go through this: a login wall still carries its own
// document <title>, which is noise, not listing data (see previewOgTags).
func ExtractOgTags(rawHTML string) models.OgTags {
	tags := previewOgTags(rawHTML)

	if tags.Title == "" || tags.Description == "" {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML)); err == nil {
			if tags.Title == "" {
				tags.Title = strings.TrimSpace(doc.Find("title").First().Text())
			}
			if tags.Description == "" {
				if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
					tags.Description = strings.TrimSpace(html.UnescapeString(desc))
				}
			}
		}
	}

	return tags
}

// AllOgImages returns every og:image URL present in the markup, in document
// order, deduplicated. Listing pages routinely carry several.
func AllOgImages(rawHTML string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, m := range ogImageAllRe.FindAllStringSubmatch(rawHTML, -1) {
		src := m[1]
		if src == "" {
			src = m[2]
		}
		src = html.UnescapeString(src)
		if src == "" {
			continue
		}
		if _, dup := seen[src]; dup {
			continue
		}
		seen[src] = struct{}{}
		out = append(out, src)
	}
	return out
}
