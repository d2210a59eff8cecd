// Package view reconciles the canonical CSV listing, the content directory,
// and the status store into a single freshness-annotated record set.
package view

import (
	"context"
	"fmt"
	"time"

	"github.com/jonesrussell/jobs-dashboard/internal/domain"
	"github.com/jonesrussell/jobs-dashboard/internal/logger"
	"github.com/jonesrussell/jobs-dashboard/internal/source"
)

// StatusStore is the subset of the status store used during reconciliation.
type StatusStore interface {
	// Sync ensures every canonical filename has a status entry.
	Sync(ctx context.Context, filenames []string) error
	// GetAll returns the full filename to status mapping.
	GetAll(ctx context.Context) (map[string]string, error)
}

// Service builds the unified job view.
type Service struct {
	store      StatusStore
	csvPath    string
	contentDir string
	windowDays int
	now        func() time.Time
	log        logger.Logger
}

// NewService creates a view Service. windowDays is the baseline recency trim
// applied at build time for cache economy; request-time narrowing happens in
// the filter engine.
func NewService(store StatusStore, csvPath, contentDir string, windowDays int, log logger.Logger) *Service {
	return &Service{
		store:      store,
		csvPath:    csvPath,
		contentDir: contentDir,
		windowDays: windowDays,
		now:        time.Now,
		log:        log,
	}
}

// BuildView produces the reconciled record set: canonical rows verified
// against the content directory, trimmed to the baseline recency window, with
// persisted statuses merged in. A status-store failure fails the build
// outright so reviewers never see fabricated default statuses.
func (s *Service) BuildView(ctx context.Context) ([]domain.JobRecord, error) {
	records, err := source.LoadCSV(s.csvPath)
	if err != nil {
		return nil, fmt.Errorf("load canonical listing: %w", err)
	}

	if syncErr := s.store.Sync(ctx, source.Filenames(records)); syncErr != nil {
		return nil, fmt.Errorf("sync status entries: %w", syncErr)
	}

	loaded := len(records)
	records = source.AnnotateModTime(records, s.contentDir)
	records = source.RecentWindow(records, s.windowDays, s.now())

	statuses, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("merge statuses: %w", err)
	}

	for i := range records {
		status, ok := statuses[records[i].Filename]
		if !ok || status == "" {
			status = domain.StatusNew
		}
		records[i].Status = status
	}

	s.log.Info("Job view rebuilt",
		logger.Int("canonical_rows", loaded),
		logger.Int("records", len(records)),
		logger.Int("window_days", s.windowDays),
	)

	return records, nil
}
