// Package domain defines the core types shared across the jobs-dashboard service.
package domain

import (
	"sort"
	"strings"
	"time"
)

// Canonical CSV column headers of the harvested job listing.
const (
	ColFilename  = "Filename"
	ColTitle     = "Job title"
	ColCompany   = "Company name"
	ColSkills    = "Required technical skills"
	ColSeniority = "Role seniority"
	ColGerman    = "German language fluency required"
)

// StatusNew is the default review status for a job that nobody has looked at yet.
const StatusNew = "new"

// MissingValue is the placeholder rendered for absent fields in API responses.
const MissingValue = "N/A"

// JobRecord is one reconciled row of the job listing: a canonical CSV row
// annotated with the backing content's modification time and the persisted
// review status.
type JobRecord struct {
	// Filename uniquely identifies the job and names its backing HTML file.
	Filename string

	Title     string
	Company   string
	Skills    string
	Seniority string
	German    string

	// Extra holds CSV columns that are not used by any filter and are passed
	// through to the API verbatim.
	Extra map[string]string

	// LastModified is the modification time of the backing content file.
	// Records whose content is missing never appear in a reconciled view.
	LastModified time.Time

	// Status is the review status from the status store (default "new").
	Status string
}

// Flatten renders the record as a flat key-value object keyed by the original
// CSV headers plus "status" and "last_modified". Empty values are coerced to
// the "N/A" placeholder.
func (r JobRecord) Flatten() map[string]string {
	out := make(map[string]string, len(r.Extra)+8)

	out[ColFilename] = orMissing(r.Filename)
	out[ColTitle] = orMissing(r.Title)
	out[ColCompany] = orMissing(r.Company)
	out[ColSkills] = orMissing(r.Skills)
	out[ColSeniority] = orMissing(r.Seniority)
	out[ColGerman] = orMissing(r.German)

	for key, val := range r.Extra {
		out[key] = orMissing(val)
	}

	out["status"] = orMissing(r.Status)
	out["last_modified"] = r.LastModified.UTC().Format(time.RFC3339)

	return out
}

// Key returns a deterministic identity string covering every field of the
// record. Two records with equal keys are exact row duplicates.
func (r JobRecord) Key() string {
	var sb strings.Builder

	sb.WriteString(r.Filename)
	sb.WriteByte(0)
	sb.WriteString(r.Title)
	sb.WriteByte(0)
	sb.WriteString(r.Company)
	sb.WriteByte(0)
	sb.WriteString(r.Skills)
	sb.WriteByte(0)
	sb.WriteString(r.Seniority)
	sb.WriteByte(0)
	sb.WriteString(r.German)
	sb.WriteByte(0)
	sb.WriteString(r.Status)
	sb.WriteByte(0)
	sb.WriteString(r.LastModified.UTC().Format(time.RFC3339Nano))

	extraKeys := make([]string, 0, len(r.Extra))
	for key := range r.Extra {
		extraKeys = append(extraKeys, key)
	}
	sort.Strings(extraKeys)
	for _, key := range extraKeys {
		sb.WriteByte(0)
		sb.WriteString(key)
		sb.WriteByte('=')
		sb.WriteString(r.Extra[key])
	}

	return sb.String()
}

func orMissing(val string) string {
	if val == "" {
		return MissingValue
	}
	return val
}
