package parser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"listing-parser/models"
)

const listingHTML = `<html><head>
<meta property="og:title" content="דירה, הרצל 15, פלורנטין, תל אביב | יד2" />
<meta property="og:description" content="3 חדרים, קומה 2, 85 מ&quot;ר עם חניה ומעלית. לפרטים: 052-123-4567" />
<meta property="og:image" content="https://img.example.com/1.jpg" />
<meta property="og:image" content="https://img.example.com/2.jpg" />
<script type="application/ld+json">
{"@type": "RealEstateListing", "numberOfRooms": 3.5,
 "offers": {"price": "2,450,000"},
 "image": ["https://img.example.com/1.jpg", "https://img.example.com/3.jpg"]}
</script>
</head><body><p>דירה מהממת למכירה</p></body></html>`

func TestParseHTMLPriorityMerge(t *testing.T) {
	p := newTestParser()

	rec := p.ParseHTML("https://www.yad2.co.il/item/1", models.SiteYad2, listingHTML)

	// Structured data beats the corpus: 3.5 rooms, not the textual 3.
	if rec.Bedrooms == nil || *rec.Bedrooms != 3.5 {
		t.Errorf("bedrooms = %v; want 3.5 from structured data", rec.Bedrooms)
	}
	if rec.Price == nil || *rec.Price != 2450000 {
		t.Errorf("price = %v; want 2450000", rec.Price)
	}
	// No structured floor/sqm — heuristics fill in.
	if rec.Floor == nil || *rec.Floor != 2 {
		t.Errorf("floor = %v; want 2 from corpus", rec.Floor)
	}
	if rec.Sqm == nil || *rec.Sqm != 85 {
		t.Errorf("sqm = %v; want 85 from corpus", rec.Sqm)
	}
	if rec.Address != "הרצל 15, פלורנטין, תל אביב" {
		t.Errorf("address = %q", rec.Address)
	}
	if !rec.Parking || !rec.Elevator {
		t.Errorf("parking/elevator = %v/%v; want true/true", rec.Parking, rec.Elevator)
	}
	if got := sval(rec.ContactPhone); got != "052-123-4567" {
		t.Errorf("contact_phone = %q", got)
	}
	if rec.RawTitle == "" || rec.RawDescription == "" {
		t.Error("raw title/description must carry the OG tags")
	}
	if rec.Error != "" {
		t.Errorf("unexpected error %q", rec.Error)
	}
}

func TestParseHTMLImageDedup(t *testing.T) {
	p := newTestParser()

	rec := p.ParseHTML("https://example.com/1", models.SiteGeneric, listingHTML)

	want := []string{
		"https://img.example.com/1.jpg",
		"https://img.example.com/2.jpg",
		"https://img.example.com/3.jpg",
	}
	if !reflect.DeepEqual(rec.Images, want) {
		t.Errorf("images = %v; want %v", rec.Images, want)
	}
}

func TestParseHTMLIdempotent(t *testing.T) {
	p := newTestParser()

	first := p.ParseHTML("https://example.com/1", models.SiteGeneric, listingHTML)
	second := p.ParseHTML("https://example.com/1", models.SiteGeneric, listingHTML)

	if !reflect.DeepEqual(first, second) {
		t.Error("identical HTML must produce identical records")
	}
}

func TestParseHTMLGated(t *testing.T) {
	p := newTestParser()

	gated := `<html><head>
	<meta property="og:title" content="דירה למכירה בחולון" />
	<meta property="og:image" content="https://img.example.com/preview.jpg" />
	</head><body><form id="login_form"><button class="loginbutton">Log In</button></form></body></html>`

	rec := p.ParseHTML("https://facebook.com/groups/1/posts/2", models.SiteSocial, gated)

	if rec.Error != ErrMsgGatedSome {
		t.Errorf("error = %q; want %q", rec.Error, ErrMsgGatedSome)
	}
	if rec.Address != "דירה למכירה בחולון" {
		t.Errorf("address = %q; want the salvaged title", rec.Address)
	}
	if len(rec.Images) != 1 {
		t.Errorf("images = %v; want the single preview image", rec.Images)
	}
	if rec.Price != nil || rec.Bedrooms != nil {
		t.Error("gated records must not carry field extractions")
	}
}

func TestParseHTMLGatedNoTitle(t *testing.T) {
	p := newTestParser()

	gated := `<html><body><form id="login_form"><button class="loginbutton">Log In</button></form></body></html>`
	rec := p.ParseHTML("https://facebook.com/x", models.SiteSocial, gated)

	if rec.Error != ErrMsgGatedNone {
		t.Errorf("error = %q; want %q", rec.Error, ErrMsgGatedNone)
	}
	if rec.Address != "" {
		t.Errorf("address = %q; want empty", rec.Address)
	}
}

func TestParseHTMLGatedDocumentTitleIgnored(t *testing.T) {
	p := newTestParser()

	// A login wall with no preview tags, only its own document title. That
	// title is not listing data: the record must say no data survived.
	gated := `<html><head><title>Log into Facebook</title></head>
	<body><form id="login_form"><button class="loginbutton">Log In</button></form></body></html>`
	rec := p.ParseHTML("https://facebook.com/groups/1/posts/2", models.SiteSocial, gated)

	if rec.Error != ErrMsgGatedNone {
		t.Errorf("error = %q; want %q", rec.Error, ErrMsgGatedNone)
	}
	if rec.Address != "" {
		t.Errorf("address = %q; the login page title must not leak in", rec.Address)
	}
	if rec.RawTitle != "" {
		t.Errorf("raw_title = %q; want empty", rec.RawTitle)
	}
}

func TestParseFetchFailure(t *testing.T) {
	p := newTestParser()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	rec, err := p.Parse(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Parse returned hard error: %v", err)
	}
	if rec.Error != ErrMsgFetch {
		t.Errorf("error = %q; want %q", rec.Error, ErrMsgFetch)
	}
	if rec.SourceURL != srv.URL {
		t.Errorf("source_url = %q; must echo the input", rec.SourceURL)
	}
	if rec.Address != "" || rec.Price != nil || len(rec.Images) != 0 {
		t.Error("failed fetch must yield an empty record shape")
	}
}

func TestParseEmptyBody(t *testing.T) {
	p := newTestParser()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	rec, err := p.Parse(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Parse returned hard error: %v", err)
	}
	if rec.Error != ErrMsgEmpty {
		t.Errorf("error = %q; want %q", rec.Error, ErrMsgEmpty)
	}
}

func TestParseSuccess(t *testing.T) {
	p := newTestParser()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(listingHTML))
	}))
	defer srv.Close()

	rec, err := p.Parse(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Parse returned hard error: %v", err)
	}
	if rec.Error != "" {
		t.Errorf("unexpected error %q", rec.Error)
	}
	if rec.Price == nil || *rec.Price != 2450000 {
		t.Errorf("price = %v; want 2450000", rec.Price)
	}
}
