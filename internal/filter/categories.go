// Package filter applies the dashboard's declarative query predicates to a
// reconciled job record set.
package filter

import "strings"

// CategoryOther is the sentinel category matching records that fall into none
// of the named categories of a dimension.
const CategoryOther = "other"

// categoryRule binds a category name to the keywords that select it.
// Matching is a case-insensitive substring test against the record's text.
type categoryRule struct {
	name     string
	keywords []string
}

// seniorityRules are evaluated independently; a record may match several
// categories (e.g. "Senior/Mid").
var seniorityRules = []categoryRule{
	{name: "internship", keywords: []string{"intern", "praktik"}},
	{name: "entry", keywords: []string{"entry"}},
	{name: "junior", keywords: []string{"junior"}},
	{name: "mid", keywords: []string{"mid", "medi"}},
	{name: "senior", keywords: []string{"senior"}},
	{name: "unclear", keywords: []string{"unclear", "multiple"}},
}

// German-requirement category names.
const (
	germanIntermediate = "intermediate"
	germanYes          = "yes"
	germanNo           = "no"
)

// matchesSeniority reports whether the record's seniority text falls into the
// given category. Empty text matches no category, "other" included.
func matchesSeniority(text, category string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)

	if category == CategoryOther {
		for _, rule := range seniorityRules {
			if containsAny(lower, rule.keywords) {
				return false
			}
		}
		return true
	}

	for _, rule := range seniorityRules {
		if rule.name == category {
			return containsAny(lower, rule.keywords)
		}
	}

	return false
}

// matchesGerman reports whether the record's language-requirement text falls
// into the given category. "yes" and "no" are prefix tests so that values like
// "No (English only)" classify correctly; "intermediate" is a substring test.
func matchesGerman(text, category string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)

	switch category {
	case germanIntermediate:
		return strings.Contains(lower, germanIntermediate)
	case germanYes:
		return strings.HasPrefix(lower, germanYes)
	case germanNo:
		return strings.HasPrefix(lower, germanNo)
	case CategoryOther:
		return !strings.Contains(lower, germanIntermediate) &&
			!strings.HasPrefix(lower, germanYes) &&
			!strings.HasPrefix(lower, germanNo)
	default:
		return false
	}
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
