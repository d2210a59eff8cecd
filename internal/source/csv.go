// Package source loads the canonical job listing and reconciles it against the
// content directory that holds the saved job pages.
package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jonesrussell/jobs-dashboard/internal/domain"
)

// ErrSourceNotFound is returned when the canonical CSV listing does not exist.
var ErrSourceNotFound = errors.New("canonical job listing not found")

// LoadCSV reads the canonical job listing. Rows without a filename are
// malformed and dropped. The returned records carry no modification time or
// status yet.
func LoadCSV(path string) ([]domain.JobRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	// Harvested rows occasionally have trailing columns
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	var records []domain.JobRecord

	for {
		row, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("read csv row: %w", readErr)
		}

		record := rowToRecord(header, row)
		if record.Filename == "" {
			continue
		}
		records = append(records, record)
	}

	return records, nil
}

// rowToRecord maps one CSV row onto a JobRecord using the header for column
// lookup. Short rows leave trailing fields empty.
func rowToRecord(header, row []string) domain.JobRecord {
	var record domain.JobRecord

	for i, name := range header {
		if i >= len(row) {
			break
		}
		val := row[i]

		switch name {
		case domain.ColFilename:
			record.Filename = val
		case domain.ColTitle:
			record.Title = val
		case domain.ColCompany:
			record.Company = val
		case domain.ColSkills:
			record.Skills = val
		case domain.ColSeniority:
			record.Seniority = val
		case domain.ColGerman:
			record.German = val
		default:
			if record.Extra == nil {
				record.Extra = make(map[string]string)
			}
			record.Extra[name] = val
		}
	}

	return record
}

// Filenames returns the unique filenames of the given records, preserving
// first-seen order.
func Filenames(records []domain.JobRecord) []string {
	seen := make(map[string]bool, len(records))
	names := make([]string, 0, len(records))

	for _, record := range records {
		if seen[record.Filename] {
			continue
		}
		seen[record.Filename] = true
		names = append(names, record.Filename)
	}

	return names
}
