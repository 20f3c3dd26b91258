package repository

import (
	"context"
	"fmt"

	"disasterprep/models"
)

// List is ListAll narrowed to the collection's concrete record type.
func List[T models.Record](ctx context.Context, repo ContentRepository, collection models.Collection) ([]T, error) {
	res, err := repo.ListAll(ctx, collection)
	if err != nil {
		return nil, err
	}
	items := make([]T, 0, len(res.Items))
	for _, rec := range res.Items {
		typed, ok := rec.(T)
		if !ok {
			return nil, fmt.Errorf("collection %s holds %T, not %T", collection, rec, *new(T))
		}
		items = append(items, typed)
	}
	return items, nil
}

// Get is GetByID narrowed to T. found is false when no record has that id.
func Get[T models.Record](ctx context.Context, repo ContentRepository, collection models.Collection, id string) (rec T, found bool, err error) {
	raw, err := repo.GetByID(ctx, collection, id)
	if err != nil || raw == nil {
		return rec, false, err
	}
	typed, ok := raw.(T)
	if !ok {
		return rec, false, fmt.Errorf("collection %s holds %T, not %T", collection, raw, rec)
	}
	return typed, true, nil
}

// Insert creates rec in its own collection.
func Insert[T models.Record](ctx context.Context, repo ContentRepository, rec T) (T, error) {
	created, err := repo.Create(ctx, rec.CollectionName(), rec)
	if err != nil {
		var zero T
		return zero, err
	}
	return created.(T), nil
}
