package binder

import (
	"context"
	"sync"
	"time"

	"disasterprep/models"
	"disasterprep/query"
	"disasterprep/repository"
)

// ListFetcher loads a whole collection as T.
func ListFetcher[T models.Record](repo repository.ContentRepository, collection models.Collection) Fetch[[]T] {
	return func(ctx context.Context) ([]T, bool, error) {
		items, err := repository.List[T](ctx, repo, collection)
		if err != nil {
			return nil, false, err
		}
		return items, true, nil
	}
}

// DetailFetcher loads one record; a missing id resolves as not found.
func DetailFetcher[T models.Record](repo repository.ContentRepository, collection models.Collection, id string) Fetch[T] {
	return func(ctx context.Context) (T, bool, error) {
		return repository.Get[T](ctx, repo, collection, id)
	}
}

// ListView is what a listing page renders.
type ListView[T any] struct {
	State      State    `json:"state"`
	Items      []T      `json:"items"`
	Total      int      `json:"total"` // Size of the collection before filtering
	Categories []string `json:"categories,omitempty"`
	Search     string   `json:"search"`
	Category   string   `json:"category,omitempty"`
	Err        error    `json:"-"`
}

// Listing is the binder of a listing page: the fetched collection plus the
// live search text and category. Changing them recomputes the view without
// fetching again.
type Listing[T models.Record] struct {
	schema   models.Schema
	resource *Resource[[]T]
	repo     repository.ContentRepository

	mu       sync.RWMutex
	search   string
	category string
}

// NewListing creates a listing binder for the schema's collection.
func NewListing[T models.Record](repo repository.ContentRepository, schema models.Schema, timeout time.Duration) *Listing[T] {
	return &Listing[T]{
		schema:   schema,
		resource: NewResource[[]T](timeout),
		repo:     repo,
		category: query.AllCategory,
	}
}

// Mount starts loading the collection.
func (l *Listing[T]) Mount(ctx context.Context) uint64 {
	return l.resource.Mount(ctx, ListFetcher[T](l.repo, l.schema.Collection))
}

func (l *Listing[T]) Unmount() { l.resource.Unmount() }
func (l *Listing[T]) Drain()   { l.resource.Drain() }

// Wait blocks like Resource.Wait and returns the filtered view.
func (l *Listing[T]) Wait(ctx context.Context) ListView[T] {
	l.resource.Wait(ctx)
	return l.View()
}

// SetSearch replaces the search text.
func (l *Listing[T]) SetSearch(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.search = text
}

// SetCategory replaces the selected category. Empty selects every category.
func (l *Listing[T]) SetCategory(category string) {
	if category == "" {
		category = query.AllCategory
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.category = category
}

// View applies the current filters to the loaded collection.
func (l *Listing[T]) View() ListView[T] {
	snap := l.resource.Snapshot()
	l.mu.RLock()
	search, category := l.search, l.category
	l.mu.RUnlock()

	view := ListView[T]{State: snap.State, Search: search, Err: snap.Err, Items: []T{}}
	if l.schema.CategoryField != "" {
		view.Category = category
	}
	if snap.State != Loaded {
		return view
	}
	view.Total = len(snap.Value)
	view.Items = query.Apply(snap.Value, query.ForSchema[T](l.schema, search, category))
	if l.schema.CategoryField != "" {
		view.Categories = query.Categories(snap.Value, query.TextField[T](l.schema.CategoryField))
	}
	return view
}

// Detail is the binder of a detail page. Showing a different id remounts.
type Detail[T models.Record] struct {
	repo       repository.ContentRepository
	collection models.Collection
	resource   *Resource[T]

	mu sync.Mutex
	id string
}

// NewDetail creates a detail binder for one collection.
func NewDetail[T models.Record](repo repository.ContentRepository, collection models.Collection, timeout time.Duration) *Detail[T] {
	return &Detail[T]{repo: repo, collection: collection, resource: NewResource[T](timeout)}
}

// Show loads the record with the given id unless it is already the one shown.
func (d *Detail[T]) Show(ctx context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.id == id && d.id != "" {
		return
	}
	d.id = id
	d.resource.Mount(ctx, DetailFetcher[T](d.repo, d.collection, id))
}

func (d *Detail[T]) Unmount() {
	d.mu.Lock()
	d.id = ""
	d.mu.Unlock()
	d.resource.Unmount()
}

func (d *Detail[T]) Snapshot() Snapshot[T]                { return d.resource.Snapshot() }
func (d *Detail[T]) Wait(ctx context.Context) Snapshot[T] { return d.resource.Wait(ctx) }
func (d *Detail[T]) Drain()                               { d.resource.Drain() }
