package models

// SiteCategory identifies the listing site family a URL belongs to. It is
// derived purely from the URL host and selects the fetch header profile and
// extraction strategy.
type SiteCategory string

const (
	SiteSocial  SiteCategory = "social"
	SiteYad2    SiteCategory = "yad2"
	SiteMadlan  SiteCategory = "madlan"
	SiteGeneric SiteCategory = "generic"
)

// OgTags holds the social-preview metadata recovered from a page. Empty
// string means the tag was absent.
type OgTags struct {
	Title       string
	Description string
	Image       string
	URL         string
}

// StructuredListing accumulates fields parsed from embedded JSON-LD blocks.
// Each field is filled at most once: the first non-null value found across
// all blocks and items wins and is never overwritten.
type StructuredListing struct {
	Address  *string
	Price    *float64
	Bedrooms *float64
	Baths    *float64
	Sqm      *float64
	Floor    *float64
	Parking  *bool
	Elevator *bool
	Images   []string
}

// ExtractedRecord is the merged output of the parsing pipeline. Error is a
// human-readable caveat, not a hard failure: a populated Error with partial
// fields means the record needs manual review, not that parsing crashed.
type ExtractedRecord struct {
	Address        string   `json:"address"`
	Price          *float64 `json:"price"`
	Bedrooms       *float64 `json:"bedrooms"`
	Baths          *float64 `json:"baths"`
	Sqm            *float64 `json:"sqm"`
	Floor          *float64 `json:"floor"`
	Parking        bool     `json:"parking"`
	Elevator       bool     `json:"elevator"`
	ContactPhone   *string  `json:"contact_phone"`
	Images         []string `json:"images"`
	SourceURL      string   `json:"source_url"`
	RawTitle       string   `json:"raw_title"`
	RawDescription string   `json:"raw_description"`
	Error          string   `json:"error,omitempty"`
}

// EmptyRecord returns a well-formed record with every extractable field
// blank. All error paths return this shape so callers can always render it.
func EmptyRecord(sourceURL string) ExtractedRecord {
	return ExtractedRecord{
		Images:    []string{},
		SourceURL: sourceURL,
	}
}
