package parser

import (
	"strings"
	"testing"

	"listing-parser/models"
)

func TestIsGated(t *testing.T) {
	p := newTestParser()

	loginHTML := `<html><body><form id="login_form"><button class="loginbutton">Log In</button></form></body></html>`
	listingHTML := `<html><body><div class="marketplace">For sale</div><form id="login_form">Log In</form></body></html>`
	plainHTML := `<html><body><p>Just a page</p></body></html>`

	tests := []struct {
		name     string
		html     string
		category models.SiteCategory
		want     bool
	}{
		{"login wall on social", loginHTML, models.SiteSocial, true},
		{"real content with login footer", listingHTML, models.SiteSocial, false},
		{"no login markers", plainHTML, models.SiteSocial, false},
		{"portals are never gated", loginHTML, models.SiteYad2, false},
		{"generic is never gated", loginHTML, models.SiteGeneric, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.IsGated(tt.html, tt.category); got != tt.want {
				t.Errorf("IsGated = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestIsGatedWindows(t *testing.T) {
	p := newTestParser()

	// Login markers beyond the inspection window must not trigger gating.
	padding := strings.Repeat("x", p.cfg.GateLoginWindow)
	html := "<html>" + padding + `<form id="login_form">Log In</form>`

	if p.IsGated(html, models.SiteSocial) {
		t.Error("login markers outside the window should not gate the page")
	}

	// Listing markers beyond their (smaller) window do not rescue the page.
	pad := strings.Repeat("y", p.cfg.GateListingWindow)
	html = `<button class="loginbutton">Log In</button>` + pad + `<div>marketplace</div>`

	if !p.IsGated(html, models.SiteSocial) {
		t.Error("listing markers outside the window should not prevent gating")
	}
}
