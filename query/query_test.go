package query

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"disasterprep/models"
)

type item struct {
	Title    string
	Category *string
	Date     *time.Time
}

func title(r item) (string, bool) { return r.Title, r.Title != "" }

func category(r item) (string, bool) { return models.Deref(r.Category), r.Category != nil }

func date(r item) (time.Time, bool) {
	if r.Date == nil {
		return time.Time{}, false
	}
	return *r.Date, true
}

func day(d int) *time.Time {
	t := time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func titles(items []item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	return out
}

func sampleItems() []item {
	return []item{
		{Title: "Flood", Category: models.String("Natural")},
		{Title: "Fire", Category: models.String("Natural")},
		{Title: "Cyberattack", Category: models.String("Man-made")},
	}
}

func TestApplyFacetThenSearch(t *testing.T) {
	q := Query[item]{
		Search:        "flo",
		SearchFields:  []TextAccessor[item]{title},
		Category:      "Natural",
		CategoryField: category,
	}
	got := Apply(sampleItems(), q)
	if diff := cmp.Diff([]string{"Flood"}, titles(got)); diff != "" {
		t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
	}
}

func TestSearch(t *testing.T) {
	records := append(sampleItems(), item{Title: ""}, item{Title: "ÉVACUATION ROUTES"})

	t.Run("case insensitive substring", func(t *testing.T) {
		assert.Equal(t, []string{"Fire"}, titles(Search(records, "FIR", title)))
		assert.Equal(t, []string{"ÉVACUATION ROUTES"}, titles(Search(records, "évacuation", title)))
	})

	t.Run("absent fields never match", func(t *testing.T) {
		got := Search(records, "natural", category)
		assert.Equal(t, []string{"Flood", "Fire"}, titles(got))
	})

	t.Run("any listed field may match", func(t *testing.T) {
		got := Search(records, "man", title, category)
		assert.Equal(t, []string{"Cyberattack"}, titles(got))
	})

	t.Run("blank text is identity", func(t *testing.T) {
		assert.Equal(t, titles(records), titles(Search(records, "  ", title)))
	})

	t.Run("idempotent", func(t *testing.T) {
		once := Search(records, "f", title)
		twice := Search(once, "f", title)
		if diff := cmp.Diff(titles(once), titles(twice)); diff != "" {
			t.Errorf("second search changed the result (-once +twice):\n%s", diff)
		}
	})
}

func TestFacet(t *testing.T) {
	records := append(sampleItems(), item{Title: "Unknown"})

	t.Run("All is identity", func(t *testing.T) {
		assert.Equal(t, titles(records), titles(Facet(records, AllCategory, category)))
	})

	t.Run("exact and case sensitive", func(t *testing.T) {
		assert.Equal(t, []string{"Flood", "Fire"}, titles(Facet(records, "Natural", category)))
		assert.Empty(t, Facet(records, "natural", category))
		assert.Empty(t, Facet(records, "Nat", category))
	})

	t.Run("no category field", func(t *testing.T) {
		assert.Empty(t, Facet(records, "Natural", nil))
		assert.Len(t, Facet(records, AllCategory, nil), len(records))
	})
}

func TestFacetAndSearchCommute(t *testing.T) {
	records := append(sampleItems(), item{Title: "Flash flood", Category: models.String("Natural")}, item{Title: "Floor collapse"})
	for _, text := range []string{"", "flo", "fire", "x"} {
		for _, cat := range []string{AllCategory, "Natural", "Man-made", "Other"} {
			a := Search(Facet(records, cat, category), text, title)
			b := Facet(Search(records, text, title), cat, category)
			if diff := cmp.Diff(titles(a), titles(b)); diff != "" {
				t.Errorf("search %q / category %q do not commute (-facet first +search first):\n%s", text, cat, diff)
			}
		}
	}
}

func TestCategories(t *testing.T) {
	records := []item{
		{Title: "a", Category: models.String("Natural")},
		{Title: "b"},
		{Title: "c", Category: models.String("")},
		{Title: "d", Category: models.String("Man-made")},
		{Title: "e", Category: models.String("Natural")},
		{Title: "f", Category: models.String("All")},
	}
	got := Categories(records, category)
	if diff := cmp.Diff([]string{"All", "Natural", "Man-made"}, got); diff != "" {
		t.Errorf("Categories() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{AllCategory}, Categories[item](nil, category))
	assert.Equal(t, []string{AllCategory}, Categories(records, nil))
}

func TestSortNewestFirst(t *testing.T) {
	records := []item{
		{Title: "no date 1"},
		{Title: "jan 2", Date: day(2)},
		{Title: "jan 5 first", Date: day(5)},
		{Title: "no date 2"},
		{Title: "jan 5 second", Date: day(5)},
	}
	original := titles(records)

	got := SortNewestFirst(records, date)
	want := []string{"jan 5 first", "jan 5 second", "jan 2", "no date 1", "no date 2"}
	if diff := cmp.Diff(want, titles(got)); diff != "" {
		t.Errorf("SortNewestFirst() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, original, titles(records), "input order is untouched")
}

func TestSortMissingDateIsEpoch(t *testing.T) {
	before := time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []item{{Title: "ancient", Date: &before}, {Title: "undated"}}
	assert.Equal(t, []string{"undated", "ancient"}, titles(SortNewestFirst(records, date)))
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	records := []item{{Title: "old", Date: day(1)}, {Title: "new", Date: day(9)}}
	got := Apply(records, Query[item]{DateField: date})
	assert.Equal(t, []string{"new", "old"}, titles(got))
	assert.Equal(t, []string{"old", "new"}, titles(records))
}

func TestForSchema(t *testing.T) {
	articles := []*models.AwarenessArticle{
		{Base: models.Base{ID: "1"}, Title: models.String("Heatwave basics"), Category: models.String("Weather"), PublicationDate: models.Date(2023, 6, 1)},
		{Base: models.Base{ID: "2"}, Title: models.String("Quake drills"), Summary: models.String("Drop, cover and hold on during a heatwave? No."), Category: models.String("Geology"), PublicationDate: models.Date(2024, 2, 1)},
		{Base: models.Base{ID: "3"}, Title: models.String("Heat and pets"), Category: models.String("Weather")},
		{Base: models.Base{ID: "4"}, Title: models.String("Heat maps"), Category: models.String("Weather"), PublicationDate: models.Date(2024, 7, 1)},
	}
	schema := models.MustSchema(models.CollectionAwarenessArticles)

	got := Apply(articles, ForSchema[*models.AwarenessArticle](schema, "heat", "Weather"))
	ids := make([]string, len(got))
	for i, a := range got {
		ids[i] = a.ID
	}
	assert.Equal(t, []string{"4", "1", "3"}, ids)

	cats := Categories(articles, TextField[*models.AwarenessArticle](schema.CategoryField))
	assert.Equal(t, []string{"All", "Weather", "Geology"}, cats)
}

func TestForSchemaWithoutFacet(t *testing.T) {
	teams := []*models.RescueTeam{
		{Base: models.Base{ID: "1"}, TeamName: models.String("Alpine")},
		{Base: models.Base{ID: "2"}, TeamName: models.String("Coastal"), DeploymentAreas: models.String("Alpine valleys")},
	}
	q := ForSchema[*models.RescueTeam](models.MustSchema(models.CollectionRescueTeams), "alpine", "Anything")
	assert.Len(t, Apply(teams, q), 2, "a category on an unfaceted collection is ignored")
}
