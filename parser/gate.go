package parser

import "listing-parser/models"

// IsGated reports whether the social network served its login wall instead
// of the listing. Two conditions must both hold: login-form markers near the
// top of the page, and no listing/marketplace markers in the leading window.
// The second check keeps pages that merely mention "log in" in a footer from
// being misclassified.
//
// Only the social category is ever gated; the portals serve listings to
// anonymous fetches.
func (p *Parser) IsGated(html string, category models.SiteCategory) bool {
	if category != models.SiteSocial {
		return false
	}

	loginWindow := html
	if len(loginWindow) > p.cfg.GateLoginWindow {
		loginWindow = loginWindow[:p.cfg.GateLoginWindow]
	}
	listingWindow := html
	if len(listingWindow) > p.cfg.GateListingWindow {
		listingWindow = listingWindow[:p.cfg.GateListingWindow]
	}

	return p.loginRe.MatchString(loginWindow) && !p.listingRe.MatchString(listingWindow)
}
