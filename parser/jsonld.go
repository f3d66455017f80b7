package parser

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"listing-parser/models"
)

var (
	ldScriptRe = regexp.MustCompile(`(?is)<script[^>]*type=["']application/ld\+json["'][^>]*>(.*?)</script>`)
	ldTypeRe   = regexp.MustCompile(`(?i)realestate|product|residence|apartment|house|singlefamily|offer|place`)
	numSepRe   = regexp.MustCompile(`[,\s]`)
)

// candidateKind classifies a JSON-LD item. Recognized schema families are
// listed explicitly; items without a usable @type can still qualify when
// they duck-type as a listing (carry an address or room count).
type candidateKind int

const (
	kindNotListing candidateKind = iota
	kindSchemaTyped
	kindDuckTyped
)

// BlockResult records the outcome of parsing one ld+json block. Malformed
// blocks are skipped, never fatal; the caller aggregates these for logging.
type BlockResult struct {
	Index int
	Err   error
}

// ExtractStructured scans all embedded JSON-LD blocks and folds listing
// candidates into a StructuredListing, first non-null value per field wins.
// Highest-trust extraction source: sites that publish it tend to publish it
// correctly.
func ExtractStructured(html string) (models.StructuredListing, []BlockResult) {
	var sl models.StructuredListing
	var results []BlockResult

	for i, m := range ldScriptRe.FindAllStringSubmatch(html, -1) {
		var data any
		if err := json.Unmarshal([]byte(m[1]), &data); err != nil {
			results = append(results, BlockResult{Index: i, Err: err})
			continue
		}
		results = append(results, BlockResult{Index: i})

		items, ok := data.([]any)
		if !ok {
			items = []any{data}
		}
		for _, raw := range items {
			item, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			foldItem(item, &sl)
			// Some sites nest everything under @graph.
			if graph, ok := item["@graph"].([]any); ok {
				for _, sub := range graph {
					if subItem, ok := sub.(map[string]any); ok {
						foldItem(subItem, &sl)
					}
				}
			}
		}
	}
	return sl, results
}

func classifyItem(item map[string]any) candidateKind {
	if t, ok := item["@type"]; ok && ldTypeRe.MatchString(asString(t)) {
		return kindSchemaTyped
	}
	if item["address"] != nil || item["numberOfRooms"] != nil {
		return kindDuckTyped
	}
	return kindNotListing
}

// foldItem fills still-empty fields of sl from one candidate item.
func foldItem(item map[string]any, sl *models.StructuredListing) {
	if classifyItem(item) == kindNotListing {
		return
	}

	if sl.Address == nil {
		if addr := itemAddress(item); addr != "" {
			sl.Address = &addr
		}
	}

	if sl.Price == nil {
		price := item["price"]
		if isPlaceholder(price) {
			if offers, ok := item["offers"].(map[string]any); ok {
				price = offers["price"]
			}
		}
		if n, ok := parseLooseFloat(price); ok && n > 1000 {
			sl.Price = &n
		}
	}

	if sl.Bedrooms == nil {
		rooms := firstPresent(item, "numberOfRooms", "bedrooms", "numberOfBedrooms")
		if n, ok := parseLooseFloat(rooms); ok {
			sl.Bedrooms = &n
		}
	}

	if sl.Baths == nil {
		baths := firstPresent(item, "numberOfBathroomsTotal", "numberOfBathrooms")
		if n, ok := parseLooseFloat(baths); ok {
			sl.Baths = &n
		}
	}

	if sl.Sqm == nil {
		area := firstPresent(item, "floorSize", "area")
		// floorSize is commonly a QuantitativeValue wrapper.
		if obj, ok := area.(map[string]any); ok {
			area = obj["value"]
		}
		if n, ok := parseLooseFloat(area); ok && n > 5 && n < 10000 {
			sl.Sqm = &n
		}
	}

	if sl.Images == nil {
		sl.Images = itemImages(item)
	}
}

// itemAddress extracts an address string: verbatim string, else the parts of
// a PostalAddress object joined with ", ", else the item's generic name.
func itemAddress(item map[string]any) string {
	switch addr := item["address"].(type) {
	case string:
		return addr
	case map[string]any:
		var parts []string
		for _, key := range []string{"streetAddress", "addressLocality", "addressRegion"} {
			if s := asString(addr[key]); s != "" {
				parts = append(parts, s)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, ", ")
		}
	}
	return asString(item["name"])
}

// itemImages maps an image/photo field to a list of URL strings, capped at 8.
func itemImages(item map[string]any) []string {
	img := item["image"]
	if img == nil {
		img = item["photo"]
	}

	switch v := img.(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []any:
		var out []string
		for _, entry := range v {
			var url string
			switch e := entry.(type) {
			case string:
				url = e
			case map[string]any:
				url = asString(e["url"])
				if url == "" {
					url = asString(e["contentUrl"])
				}
			}
			if url == "" {
				continue
			}
			out = append(out, url)
			if len(out) == 8 {
				break
			}
		}
		return out
	}
	return nil
}

func firstPresent(item map[string]any, keys ...string) any {
	for _, key := range keys {
		if v := item[key]; !isPlaceholder(v) {
			return v
		}
	}
	return nil
}

// isPlaceholder reports the values half-filled blocks leave behind: missing,
// empty string, or zero. These never count as data; a zero here must not
// stop the text extractors from having a go at the field.
func isPlaceholder(v any) bool {
	switch n := v.(type) {
	case nil:
		return true
	case string:
		return n == ""
	case float64:
		return n == 0
	}
	return false
}

// parseLooseFloat parses a number from a JSON value that may be a float, a
// string, or a string with thousands separators.
func parseLooseFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		return n, true
	default:
		s := numSepRe.ReplaceAllString(asString(v), "")
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
}

func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case []any:
		if len(s) > 0 {
			return asString(s[0])
		}
		return ""
	default:
		return ""
	}
}
