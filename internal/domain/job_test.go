package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/jobs-dashboard/internal/domain"
)

func TestFlatten(t *testing.T) {
	record := domain.JobRecord{
		Filename:     "a.html",
		Title:        "Backend Engineer",
		Company:      "Acme",
		Skills:       "Go, PostgreSQL",
		Seniority:    "Senior",
		German:       "No",
		Extra:        map[string]string{"Location": "Berlin", "Salary": ""},
		LastModified: time.Date(2026, 3, 10, 12, 30, 0, 0, time.UTC),
		Status:       "reviewed",
	}

	flat := record.Flatten()

	assert.Equal(t, "a.html", flat[domain.ColFilename])
	assert.Equal(t, "Backend Engineer", flat[domain.ColTitle])
	assert.Equal(t, "Berlin", flat["Location"])
	assert.Equal(t, "reviewed", flat["status"])
	assert.Equal(t, "2026-03-10T12:30:00Z", flat["last_modified"])
	// Empty fields render as the placeholder, pass-through columns included
	assert.Equal(t, domain.MissingValue, flat["Salary"])
}

func TestFlatten_EmptyRecord(t *testing.T) {
	flat := domain.JobRecord{}.Flatten()

	assert.Equal(t, domain.MissingValue, flat[domain.ColFilename])
	assert.Equal(t, domain.MissingValue, flat[domain.ColTitle])
	assert.Equal(t, domain.MissingValue, flat[domain.ColCompany])
	assert.Equal(t, domain.MissingValue, flat[domain.ColSkills])
	assert.Equal(t, domain.MissingValue, flat[domain.ColSeniority])
	assert.Equal(t, domain.MissingValue, flat[domain.ColGerman])
	assert.Equal(t, domain.MissingValue, flat["status"])
}

func TestKey_IdenticalRecordsMatch(t *testing.T) {
	modTime := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	a := domain.JobRecord{
		Filename:     "a.html",
		Title:        "Engineer",
		Extra:        map[string]string{"Location": "Berlin", "Remote": "yes"},
		LastModified: modTime,
		Status:       "new",
	}
	b := domain.JobRecord{
		Filename:     "a.html",
		Title:        "Engineer",
		Extra:        map[string]string{"Remote": "yes", "Location": "Berlin"},
		LastModified: modTime,
		Status:       "new",
	}

	// Extra map iteration order must not affect identity
	assert.Equal(t, a.Key(), b.Key())
}

func TestKey_AnyFieldDifferenceDistinguishes(t *testing.T) {
	base := domain.JobRecord{
		Filename:     "a.html",
		Title:        "Engineer",
		Company:      "Acme",
		LastModified: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		Status:       "new",
	}

	tests := []struct {
		name   string
		mutate func(*domain.JobRecord)
	}{
		{name: "title", mutate: func(r *domain.JobRecord) { r.Title = "Senior Engineer" }},
		{name: "company", mutate: func(r *domain.JobRecord) { r.Company = "Globex" }},
		{name: "status", mutate: func(r *domain.JobRecord) { r.Status = "reviewed" }},
		{name: "mod time", mutate: func(r *domain.JobRecord) { r.LastModified = r.LastModified.Add(time.Second) }},
		{name: "extra column", mutate: func(r *domain.JobRecord) { r.Extra = map[string]string{"Location": "Berlin"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := base
			tt.mutate(&other)
			assert.NotEqual(t, base.Key(), other.Key())
		})
	}
}
