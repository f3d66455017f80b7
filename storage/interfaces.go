package storage

import (
	"context"

	"listing-parser/models"
)

// PropertyStore is the interface any property persistence backend must
// satisfy. The parser itself never touches it; only accepted records are
// stored.
type PropertyStore interface {
	Insert(ctx context.Context, p *models.Property) error
	Get(ctx context.Context, id string) (*models.Property, error)
	Update(ctx context.Context, p *models.Property) error
	Delete(ctx context.Context, id string) error
	ListByFamily(ctx context.Context, familyID, status string) ([]*models.Property, error)
	Close() error
}

// RecordWriter is the interface for dumping parsed records in bulk,
// used by the batch ingest mode.
type RecordWriter interface {
	WriteRecords(records []*models.ExtractedRecord) error
	Close() error
}
