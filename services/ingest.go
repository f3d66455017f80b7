package services

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"listing-parser/models"
	"listing-parser/storage"
	"listing-parser/utils"
)

// ErrNoAddress rejects records with nothing to file the property under.
var ErrNoAddress = errors.New("record has no address")

// IngestService turns accepted ExtractedRecords into stored Properties.
type IngestService struct {
	store  storage.PropertyStore
	logger *utils.Logger
}

// NewIngestService creates an IngestService backed by the given store.
func NewIngestService(store storage.PropertyStore, logger *utils.Logger) *IngestService {
	return &IngestService{store: store, logger: logger}
}

// FromRecord converts a parsed record into a new Property for the family.
// Text fields are whitespace-normalized; the listing title stands in for a
// missing address so the property is at least findable.
func FromRecord(rec *models.ExtractedRecord, familyID string) *models.Property {
	address := normaliseText(rec.Address)
	if address == "" {
		address = normaliseText(rec.RawTitle)
	}

	images := rec.Images
	if images == nil {
		images = []string{}
	}

	return &models.Property{
		FamilyID:     familyID,
		Address:      address,
		Price:        rec.Price,
		Beds:         rec.Bedrooms,
		Baths:        rec.Baths,
		Sqm:          rec.Sqm,
		Floor:        rec.Floor,
		Parking:      rec.Parking,
		Elevator:     rec.Elevator,
		Status:       "new",
		Images:       images,
		SourceURL:    rec.SourceURL,
		ContactPhone: rec.ContactPhone,
	}
}

// Save converts and persists one record. Records with neither an address
// nor a title are rejected so users never get untitled ghost entries.
func (s *IngestService) Save(ctx context.Context, rec *models.ExtractedRecord, familyID string) (*models.Property, error) {
	property := FromRecord(rec, familyID)
	if property.Address == "" {
		return nil, ErrNoAddress
	}

	if err := s.store.Insert(ctx, property); err != nil {
		return nil, err
	}
	s.logger.Info("[ingest] Saved property %s (%s)", property.ID, property.Address)
	return property, nil
}

// normaliseText strips leading/trailing whitespace and collapses internal
// whitespace.
func normaliseText(s string) string {
	fields := strings.FieldsFunc(strings.TrimSpace(s), func(r rune) bool {
		return unicode.IsSpace(r)
	})
	return strings.Join(fields, " ")
}
