package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"listing-parser/models"
)

// CSVWriter dumps parsed records to a CSV file, one row per URL. Used by
// the batch ingest mode so results survive even without a database.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates the output directory if needed and opens the file
// for writing, truncating any previous run.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("csv: mkdir: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create: %w", err)
	}

	w := &CSVWriter{file: file, writer: csv.NewWriter(file)}
	header := []string{
		"source_url", "address", "price", "bedrooms", "baths", "sqm", "floor",
		"parking", "elevator", "contact_phone", "images", "raw_title", "error",
	}
	if err := w.writer.Write(header); err != nil {
		file.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	return w, nil
}

// WriteRecords appends one row per record and flushes.
func (w *CSVWriter) WriteRecords(records []*models.ExtractedRecord) error {
	for _, r := range records {
		row := []string{
			r.SourceURL,
			r.Address,
			floatField(r.Price),
			floatField(r.Bedrooms),
			floatField(r.Baths),
			floatField(r.Sqm),
			floatField(r.Floor),
			strconv.FormatBool(r.Parking),
			strconv.FormatBool(r.Elevator),
			stringField(r.ContactPhone),
			strings.Join(r.Images, " "),
			r.RawTitle,
			r.Error,
		}
		if err := w.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}
	w.writer.Flush()
	return w.writer.Error()
}

func (w *CSVWriter) Close() error {
	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

func floatField(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func stringField(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
