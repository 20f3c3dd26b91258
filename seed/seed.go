// Package seed loads content fixtures into a content repository.
//
// A fixture file is a YAML mapping from collection id to a list of records,
// each written with the same field names the JSON views use:
//
//	disastertypes:
//	  - _id: flood
//	    name: Flood
//	    category: Natural
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"disasterprep/models"
	"disasterprep/repository"
)

// Result counts what Load did per collection.
type Result struct {
	Created map[models.Collection]int
	Skipped map[models.Collection]int // Records whose id already existed
}

// Total is the number of records created.
func (r Result) Total() int {
	n := 0
	for _, c := range r.Created {
		n += c
	}
	return n
}

// LoadFile is Load for a file on disk.
func LoadFile(ctx context.Context, repo repository.ContentRepository, path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()
	return Load(ctx, repo, f)
}

// Load creates every record of the fixture document through repo, so the
// repository's validation applies. Records whose id already exists are
// skipped, which makes seeding repeatable. Unknown collections are rejected
// before anything is written.
func Load(ctx context.Context, repo repository.ContentRepository, r io.Reader) (Result, error) {
	log := zap.L().Named("Seed")
	var doc map[string][]map[string]interface{}
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return Result{}, fmt.Errorf("failed to parse seed document: %w", err)
	}

	names := make([]string, 0, len(doc))
	for name := range doc {
		if _, ok := models.SchemaFor(models.Collection(name)); !ok {
			return Result{}, fmt.Errorf("seed document names unknown collection %q", name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	res := Result{Created: map[models.Collection]int{}, Skipped: map[models.Collection]int{}}
	for _, name := range names {
		collection := models.Collection(name)
		schema := models.MustSchema(collection)
		for i, entry := range doc[name] {
			rec, err := decode(schema, entry)
			if err != nil {
				return res, fmt.Errorf("%s[%d]: %w", name, i, err)
			}
			if rec.RecordID() != "" {
				existing, err := repo.GetByID(ctx, collection, rec.RecordID())
				if err != nil {
					return res, fmt.Errorf("%s[%d]: %w", name, i, err)
				}
				if existing != nil {
					res.Skipped[collection]++
					continue
				}
			}
			if _, err := repo.Create(ctx, collection, rec); err != nil {
				return res, fmt.Errorf("%s[%d]: %w", name, i, err)
			}
			res.Created[collection]++
		}
		log.Info("Seeded collection", zap.String("collection", name),
			zap.Int("created", res.Created[collection]), zap.Int("skipped", res.Skipped[collection]))
	}
	return res, nil
}

// decode converts a YAML entry into the collection's record type by way of
// its JSON field names.
func decode(schema models.Schema, entry map[string]interface{}) (models.Record, error) {
	raw, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to encode entry: %w", err)
	}
	rec := schema.New()
	if err := json.Unmarshal(raw, rec); err != nil {
		return nil, fmt.Errorf("failed to decode %s entry: %w", schema.Label, err)
	}
	return rec, nil
}
