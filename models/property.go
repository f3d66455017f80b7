package models

import "time"

// Property is the persisted record a family member saves after reviewing a
// parsed listing. Numeric fields stay nullable: a saved property may still
// be missing data the extractor could not recover.
type Property struct {
	ID           string    `json:"id"`
	FamilyID     string    `json:"family_id"`
	Address      string    `json:"address"`
	Price        *float64  `json:"price"`
	Beds         *float64  `json:"beds"`
	Baths        *float64  `json:"baths"`
	Sqm          *float64  `json:"sqm"`
	Floor        *float64  `json:"floor"`
	Parking      bool      `json:"parking"`
	Elevator     bool      `json:"elevator"`
	Status       string    `json:"status"`
	Images       []string  `json:"images"`
	SourceURL    string    `json:"source_url"`
	ContactPhone *string   `json:"contact_phone"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// InsightReport holds the computed analytics over a family's saved
// properties.
type InsightReport struct {
	TotalProperties  int            `json:"total_properties"`
	WithPrice        int            `json:"with_price"`
	AveragePrice     float64        `json:"average_price"`
	MinPrice         float64        `json:"min_price"`
	MaxPrice         float64        `json:"max_price"`
	MostExpensive    *Property      `json:"most_expensive,omitempty"`
	PropertiesByCity map[string]int `json:"properties_by_city"`
	CountByStatus    map[string]int `json:"count_by_status"`
}
