package parser

import (
	"strings"

	"listing-parser/models"
)

// hostFragments maps known domain fragments to their site category.
// Matching is case-insensitive substring search over the whole URL, the
// same way the mobile share targets present these links.
var hostFragments = []struct {
	fragment string
	category models.SiteCategory
}{
	{"facebook.com", models.SiteSocial},
	{"fb.com", models.SiteSocial},
	{"fbcdn", models.SiteSocial},
	{"yad2.co.il", models.SiteYad2},
	{"madlan.co.il", models.SiteMadlan},
}

// Classify categorizes a listing URL by host pattern. Unknown hosts are
// generic. Pure string matching; no network access.
func Classify(rawURL string) models.SiteCategory {
	lower := strings.ToLower(rawURL)
	for _, hf := range hostFragments {
		if strings.Contains(lower, hf.fragment) {
			return hf.category
		}
	}
	return models.SiteGeneric
}
