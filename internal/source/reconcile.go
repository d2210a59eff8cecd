package source

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jonesrussell/jobs-dashboard/internal/domain"
)

// hoursPerDay converts a day window into a duration.
const hoursPerDay = 24

// AnnotateModTime attaches each record's backing content modification time,
// looked up as contentDir/<Filename>. Records whose backing content no longer
// exists are dropped: a reconciled view never contains a record without a
// modification time.
func AnnotateModTime(records []domain.JobRecord, contentDir string) []domain.JobRecord {
	out := make([]domain.JobRecord, 0, len(records))

	for _, record := range records {
		info, err := os.Stat(filepath.Join(contentDir, record.Filename))
		if err != nil {
			continue
		}
		record.LastModified = info.ModTime()
		out = append(out, record)
	}

	return out
}

// RecentWindow keeps records whose LastModified falls within the given number
// of days of now (inclusive at the boundary) and sorts them most recent first.
// Ties are broken by filename so the ordering is deterministic.
func RecentWindow(records []domain.JobRecord, days int, now time.Time) []domain.JobRecord {
	cutoff := now.Add(-time.Duration(days) * hoursPerDay * time.Hour)

	out := make([]domain.JobRecord, 0, len(records))
	for _, record := range records {
		if record.LastModified.Before(cutoff) {
			continue
		}
		out = append(out, record)
	}

	SortByRecency(out)

	return out
}

// SortByRecency orders records most recent first, filename ascending on ties.
func SortByRecency(records []domain.JobRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].LastModified.Equal(records[j].LastModified) {
			return records[i].LastModified.After(records[j].LastModified)
		}
		return records[i].Filename < records[j].Filename
	})
}
