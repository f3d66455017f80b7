package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"listing-parser/models"
	"listing-parser/utils"
)

// PostgresStore persists properties to PostgreSQL.
type PostgresStore struct {
	db     *sql.DB
	logger *utils.Logger
}

// NewPostgresStore opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use store. The initial ping is retried because the
// database container routinely comes up after the service does.
func NewPostgresStore(dsn string, logger *utils.Logger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	retry := &utils.RetryConfig{MaxAttempts: 10, BaseDelay: 2 * time.Second, Logger: logger}
	if err := retry.Do("postgres ping", db.Ping); err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}

	ps := &PostgresStore{db: db, logger: logger}
	if err := ps.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return ps, nil
}

func (ps *PostgresStore) migrate() error {
	_, err := ps.db.Exec(`
		CREATE TABLE IF NOT EXISTS properties (
			id            UUID PRIMARY KEY,
			family_id     TEXT         NOT NULL,
			address       TEXT         NOT NULL,
			price         NUMERIC(12,2),
			beds          NUMERIC(4,1),
			baths         NUMERIC(4,1),
			sqm           NUMERIC(7,1),
			floor         NUMERIC(5,1),
			parking       BOOLEAN      NOT NULL DEFAULT FALSE,
			elevator      BOOLEAN      NOT NULL DEFAULT FALSE,
			status        VARCHAR(30)  NOT NULL DEFAULT 'new',
			images        TEXT[]       NOT NULL DEFAULT '{}',
			source_url    TEXT         NOT NULL DEFAULT '',
			contact_phone TEXT,
			notes         TEXT         NOT NULL DEFAULT '',
			created_at    TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			updated_at    TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_properties_family ON properties(family_id);
		CREATE INDEX IF NOT EXISTS idx_properties_status ON properties(status);
	`)
	return err
}

// Insert stores a new property, assigning an ID when the caller left it
// empty.
func (ps *PostgresStore) Insert(ctx context.Context, p *models.Property) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = "new"
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := ps.db.ExecContext(ctx, `
		INSERT INTO properties
			(id, family_id, address, price, beds, baths, sqm, floor,
			 parking, elevator, status, images, source_url, contact_phone, notes,
			 created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
	`,
		p.ID, p.FamilyID, p.Address, p.Price, p.Beds, p.Baths, p.Sqm, p.Floor,
		p.Parking, p.Elevator, p.Status, pq.Array(p.Images), p.SourceURL, p.ContactPhone, p.Notes,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: insert: %w", err)
	}
	return nil
}

// Get retrieves one property by ID. Returns sql.ErrNoRows when absent.
func (ps *PostgresStore) Get(ctx context.Context, id string) (*models.Property, error) {
	row := ps.db.QueryRowContext(ctx, `
		SELECT id, family_id, address, price, beds, baths, sqm, floor,
		       parking, elevator, status, images, source_url, contact_phone, notes,
		       created_at, updated_at
		FROM properties WHERE id = $1
	`, id)
	return scanProperty(row)
}

// Update rewrites all mutable fields of an existing property.
func (ps *PostgresStore) Update(ctx context.Context, p *models.Property) error {
	p.UpdatedAt = time.Now()
	res, err := ps.db.ExecContext(ctx, `
		UPDATE properties SET
			address = $2, price = $3, beds = $4, baths = $5, sqm = $6, floor = $7,
			parking = $8, elevator = $9, status = $10, images = $11,
			source_url = $12, contact_phone = $13, notes = $14, updated_at = $15
		WHERE id = $1
	`,
		p.ID, p.Address, p.Price, p.Beds, p.Baths, p.Sqm, p.Floor,
		p.Parking, p.Elevator, p.Status, pq.Array(p.Images),
		p.SourceURL, p.ContactPhone, p.Notes, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a property by ID.
func (ps *PostgresStore) Delete(ctx context.Context, id string) error {
	res, err := ps.db.ExecContext(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListByFamily retrieves a family's properties, optionally filtered by
// status, newest first.
func (ps *PostgresStore) ListByFamily(ctx context.Context, familyID, status string) ([]*models.Property, error) {
	query := `
		SELECT id, family_id, address, price, beds, baths, sqm, floor,
		       parking, elevator, status, images, source_url, contact_phone, notes,
		       created_at, updated_at
		FROM properties WHERE family_id = $1`
	args := []any{familyID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := ps.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list: %w", err)
	}
	defer rows.Close()

	var properties []*models.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		properties = append(properties, p)
	}
	return properties, rows.Err()
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProperty(row rowScanner) (*models.Property, error) {
	p := &models.Property{}
	var price, beds, baths, sqm, floor sql.NullFloat64
	var contactPhone sql.NullString

	err := row.Scan(
		&p.ID, &p.FamilyID, &p.Address, &price, &beds, &baths, &sqm, &floor,
		&p.Parking, &p.Elevator, &p.Status, pq.Array(&p.Images), &p.SourceURL, &contactPhone, &p.Notes,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: scan row: %w", err)
	}

	p.Price = nullToPtr(price)
	p.Beds = nullToPtr(beds)
	p.Baths = nullToPtr(baths)
	p.Sqm = nullToPtr(sqm)
	p.Floor = nullToPtr(floor)
	if contactPhone.Valid {
		p.ContactPhone = &contactPhone.String
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return p, nil
}

func nullToPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}
