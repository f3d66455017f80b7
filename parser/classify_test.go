package parser

import (
	"testing"

	"listing-parser/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		url  string
		want models.SiteCategory
	}{
		{"https://www.facebook.com/marketplace/item/123", models.SiteSocial},
		{"https://fb.com/share/abc", models.SiteSocial},
		{"https://scontent.fbcdn.net/v/photo.jpg", models.SiteSocial},
		{"https://www.yad2.co.il/realestate/item/abc123", models.SiteYad2},
		{"https://WWW.YAD2.CO.IL/item/1", models.SiteYad2},
		{"https://www.madlan.co.il/listings/xyz", models.SiteMadlan},
		{"https://www.homeless.co.il/sale/1", models.SiteGeneric},
		{"https://example.com/listing", models.SiteGeneric},
		{"", models.SiteGeneric},
	}

	for _, tt := range tests {
		if got := Classify(tt.url); got != tt.want {
			t.Errorf("Classify(%q) = %q; want %q", tt.url, got, tt.want)
		}
	}
}
