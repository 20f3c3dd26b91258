// Package query narrows and orders record sets that were already fetched.
// Nothing here touches the store and nothing here fails: an absent field is
// simply a field that does not match.
package query

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"disasterprep/models"
)

// AllCategory is the facet value that selects every record.
const AllCategory = "All"

// TextAccessor reads a text field. ok is false when the field is absent.
type TextAccessor[T any] func(rec T) (value string, ok bool)

// TimeAccessor reads a date field. ok is false when the field is absent.
type TimeAccessor[T any] func(rec T) (value time.Time, ok bool)

// TextField reads the field with the given JSON name.
func TextField[T any](name string) TextAccessor[T] {
	return func(rec T) (string, bool) {
		return models.LookupString(rec, name)
	}
}

// DateField reads the date field with the given JSON name.
func DateField[T any](name string) TimeAccessor[T] {
	return func(rec T) (time.Time, bool) {
		return models.LookupTime(rec, name)
	}
}

// Search keeps the records where text occurs, ignoring case, in at least one
// of fields. Blank text keeps everything.
func Search[T any](records []T, text string, fields ...TextAccessor[T]) []T {
	if strings.TrimSpace(text) == "" {
		return append([]T(nil), records...)
	}
	fold := cases.Fold()
	needle := fold.String(text)

	out := make([]T, 0, len(records))
	for _, rec := range records {
		for _, field := range fields {
			value, ok := field(rec)
			if ok && strings.Contains(fold.String(value), needle) {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}

// Facet keeps the records whose category equals category exactly.
// AllCategory keeps everything; a record without a category never matches a
// concrete value.
func Facet[T any](records []T, category string, field TextAccessor[T]) []T {
	if category == AllCategory {
		return append([]T(nil), records...)
	}
	out := make([]T, 0, len(records))
	if field == nil {
		return out
	}
	for _, rec := range records {
		if value, ok := field(rec); ok && value == category {
			out = append(out, rec)
		}
	}
	return out
}

// Categories returns AllCategory followed by the distinct category values of
// records in first-seen order. Absent and blank values are skipped.
func Categories[T any](records []T, field TextAccessor[T]) []string {
	out := []string{AllCategory}
	if field == nil {
		return out
	}
	seen := map[string]bool{AllCategory: true}
	for _, rec := range records {
		value, ok := field(rec)
		if !ok || strings.TrimSpace(value) == "" || seen[value] {
			continue
		}
		seen[value] = true
		out = append(out, value)
	}
	return out
}

// SortNewestFirst returns a copy of records ordered by field, newest first.
// Records without a date count as the Unix epoch; ties keep their input order.
func SortNewestFirst[T any](records []T, field TimeAccessor[T]) []T {
	out := append([]T(nil), records...)
	if field == nil {
		return out
	}
	keys := make([]time.Time, len(out))
	for i, rec := range out {
		keys[i] = dateOrEpoch(field, rec)
	}
	sort.Stable(byNewest[T]{records: out, keys: keys})
	return out
}

var epoch = time.Unix(0, 0).UTC()

func dateOrEpoch[T any](field TimeAccessor[T], rec T) time.Time {
	if t, ok := field(rec); ok {
		return t
	}
	return epoch
}

type byNewest[T any] struct {
	records []T
	keys    []time.Time
}

func (b byNewest[T]) Len() int           { return len(b.records) }
func (b byNewest[T]) Less(i, j int) bool { return b.keys[i].After(b.keys[j]) }
func (b byNewest[T]) Swap(i, j int) {
	b.records[i], b.records[j] = b.records[j], b.records[i]
	b.keys[i], b.keys[j] = b.keys[j], b.keys[i]
}

// Query is the live filter state of a listing page.
type Query[T any] struct {
	Search        string
	SearchFields  []TextAccessor[T]
	Category      string // Empty means AllCategory
	CategoryField TextAccessor[T]
	DateField     TimeAccessor[T] // nil keeps store order
}

// Apply runs facet, then search, then sort. records is never modified.
func Apply[T any](records []T, q Query[T]) []T {
	category := q.Category
	if category == "" {
		category = AllCategory
	}
	out := Facet(records, category, q.CategoryField)
	out = Search(out, q.Search, q.SearchFields...)
	if q.DateField != nil {
		out = SortNewestFirst(out, q.DateField)
	}
	return out
}

// ForSchema builds a Query from the search, category and date fields the
// collection's schema declares.
func ForSchema[T any](schema models.Schema, search, category string) Query[T] {
	q := Query[T]{Search: search, Category: category}
	for _, name := range schema.SearchFields {
		q.SearchFields = append(q.SearchFields, TextField[T](name))
	}
	if schema.CategoryField != "" {
		q.CategoryField = TextField[T](schema.CategoryField)
	} else {
		q.Category = AllCategory
	}
	if schema.DateField != "" {
		q.DateField = DateField[T](schema.DateField)
	}
	return q
}
