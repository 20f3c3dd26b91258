package repository

import (
	"context"
	"reflect"
	"sync"
	"time"

	"go.uber.org/zap"

	"disasterprep/models"
)

// memoryContentRepository keeps every collection in process memory.
// Insertion order is the store order.
type memoryContentRepository struct {
	records map[models.Collection][]models.Record
	byID    map[models.Collection]map[string]int // Index into records
	mu      sync.RWMutex
	now     func() time.Time
	log     *zap.Logger
}

// NewMemoryContentRepository creates an empty in-memory ContentRepository
// covering every registered collection.
func NewMemoryContentRepository() ContentRepository {
	r := &memoryContentRepository{
		records: make(map[models.Collection][]models.Record),
		byID:    make(map[models.Collection]map[string]int),
		now:     time.Now,
		log:     zap.L().Named("MemoryContentRepository"),
	}
	for _, c := range models.Collections() {
		r.records[c] = nil
		r.byID[c] = make(map[string]int)
	}
	return r
}

func (r *memoryContentRepository) ListAll(ctx context.Context, collection models.Collection) (*ListResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable("list", collection, err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.records[collection]
	if !ok {
		return nil, unknownCollection("list", collection)
	}
	items := make([]models.Record, len(stored))
	for i, rec := range stored {
		items[i] = clone(rec)
	}
	r.log.Debug("Listed collection", zap.String("collection", string(collection)), zap.Int("count", len(items)))
	return &ListResult{Items: items}, nil
}

func (r *memoryContentRepository) GetByID(ctx context.Context, collection models.Collection, id string) (models.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable("get", collection, err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	index, ok := r.byID[collection]
	if !ok {
		return nil, unknownCollection("get", collection)
	}
	i, found := index[id]
	if !found {
		return nil, nil
	}
	return clone(r.records[collection][i]), nil
}

func (r *memoryContentRepository) Create(ctx context.Context, collection models.Collection, record models.Record) (models.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable("create", collection, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	index, ok := r.byID[collection]
	if !ok {
		return nil, unknownCollection("create", collection)
	}
	if err := checkCreate(collection, record); err != nil {
		return nil, err
	}
	if _, exists := index[record.RecordID()]; exists {
		return nil, invalid("create", collection, []string{"_id"}, nil)
	}

	now := r.now()
	meta := record.Meta()
	meta.CreatedAt = &now
	meta.UpdatedAt = &now

	index[record.RecordID()] = len(r.records[collection])
	r.records[collection] = append(r.records[collection], clone(record))
	r.log.Info("Created record", zap.String("collection", string(collection)), zap.String("id", record.RecordID()))
	return record, nil
}

// clone returns a deep copy so callers cannot mutate stored records, either
// by reassigning a field or by writing through one of its pointers.
func clone(rec models.Record) models.Record {
	v := reflect.ValueOf(rec)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return rec
	}
	return deepCopy(v).Interface().(models.Record)
}

func deepCopy(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		cp := reflect.New(v.Elem().Type())
		cp.Elem().Set(deepCopy(v.Elem()))
		return cp
	case reflect.Struct:
		cp := reflect.New(v.Type()).Elem()
		cp.Set(v)
		for i := 0; i < cp.NumField(); i++ {
			if f := cp.Field(i); f.CanSet() {
				f.Set(deepCopy(v.Field(i)))
			}
		}
		return cp
	case reflect.Slice:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		cp := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			cp.Index(i).Set(deepCopy(v.Index(i)))
		}
		return cp
	default:
		return v
	}
}
