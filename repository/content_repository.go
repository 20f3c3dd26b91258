package repository

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"disasterprep/models"
)

// ListResult is the full current contents of one collection, in store order.
// Callers must not rely on that order.
type ListResult struct {
	Items []models.Record
}

// ContentRepository is the whole surface the site needs from the content store.
type ContentRepository interface {
	// ListAll returns every record of a collection.
	ListAll(ctx context.Context, collection models.Collection) (*ListResult, error)
	// GetByID returns (nil, nil) when no record has that id.
	GetByID(ctx context.Context, collection models.Collection, id string) (models.Record, error)
	// Create stores a record whose id was chosen by the caller. It is never retried.
	Create(ctx context.Context, collection models.Collection, record models.Record) (models.Record, error)
}

// table performs the typed gorm queries for one collection.
type table interface {
	list(ctx context.Context, db *gorm.DB) ([]models.Record, error)
	get(ctx context.Context, db *gorm.DB, id string) (models.Record, error)
	create(ctx context.Context, db *gorm.DB, rec models.Record) error
}

type gormTable[T any, PT interface {
	*T
	models.Record
}] struct{}

func (gormTable[T, PT]) list(ctx context.Context, db *gorm.DB) ([]models.Record, error) {
	var rows []T
	if err := db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.Record, len(rows))
	for i := range rows {
		out[i] = PT(&rows[i])
	}
	return out, nil
}

func (gormTable[T, PT]) get(ctx context.Context, db *gorm.DB, id string) (models.Record, error) {
	var row T
	err := db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return PT(&row), nil
}

func (gormTable[T, PT]) create(ctx context.Context, db *gorm.DB, rec models.Record) error {
	return db.WithContext(ctx).Create(rec).Error
}

var tables = map[models.Collection]table{
	models.CollectionDisasterTypes:          gormTable[models.DisasterType, *models.DisasterType]{},
	models.CollectionEmergencyGuides:        gormTable[models.EmergencyGuide, *models.EmergencyGuide]{},
	models.CollectionEmergencyContacts:      gormTable[models.EmergencyContact, *models.EmergencyContact]{},
	models.CollectionRescueTeams:            gormTable[models.RescueTeam, *models.RescueTeam]{},
	models.CollectionSafeZoneLocations:      gormTable[models.SafeZoneLocation, *models.SafeZoneLocation]{},
	models.CollectionAwarenessArticles:      gormTable[models.AwarenessArticle, *models.AwarenessArticle]{},
	models.CollectionGalleryImages:          gormTable[models.GalleryImage, *models.GalleryImage]{},
	models.CollectionLeadershipTeam:         gormTable[models.LeadershipMember, *models.LeadershipMember]{},
	models.CollectionOrganizationTimeline:   gormTable[models.TimelineEvent, *models.TimelineEvent]{},
	models.CollectionAchievements:           gormTable[models.Achievement, *models.Achievement]{},
	models.CollectionVolunteerRegistrations: gormTable[models.VolunteerRegistration, *models.VolunteerRegistration]{},
}

type contentRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewContentRepository creates a ContentRepository backed by gorm.
// Tables are expected to exist already (see database.Migrate).
func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepository{db: db, log: zap.L().Named("ContentRepository")}
}

func (r *contentRepository) ListAll(ctx context.Context, collection models.Collection) (*ListResult, error) {
	t, ok := tables[collection]
	if !ok {
		r.log.Warn("ListAll on unknown collection", zap.String("collection", string(collection)))
		return nil, unknownCollection("list", collection)
	}
	items, err := t.list(ctx, r.db)
	if err != nil {
		r.log.Error("Failed to list collection", zap.String("collection", string(collection)), zap.Error(err))
		return nil, unavailable("list", collection, err)
	}
	r.log.Debug("Listed collection", zap.String("collection", string(collection)), zap.Int("count", len(items)))
	return &ListResult{Items: items}, nil
}

func (r *contentRepository) GetByID(ctx context.Context, collection models.Collection, id string) (models.Record, error) {
	t, ok := tables[collection]
	if !ok {
		r.log.Warn("GetByID on unknown collection", zap.String("collection", string(collection)))
		return nil, unknownCollection("get", collection)
	}
	rec, err := t.get(ctx, r.db, id)
	if err != nil {
		r.log.Error("Failed to get record", zap.String("collection", string(collection)), zap.String("id", id), zap.Error(err))
		return nil, unavailable("get", collection, err)
	}
	if rec == nil {
		r.log.Debug("Record not found", zap.String("collection", string(collection)), zap.String("id", id))
	}
	return rec, nil
}

func (r *contentRepository) Create(ctx context.Context, collection models.Collection, record models.Record) (models.Record, error) {
	t, ok := tables[collection]
	if !ok {
		return nil, unknownCollection("create", collection)
	}
	if err := checkCreate(collection, record); err != nil {
		r.log.Info("Rejected create payload", zap.String("collection", string(collection)), zap.Error(err))
		return nil, err
	}
	err := t.create(ctx, r.db, record)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			r.log.Info("Duplicate record id", zap.String("collection", string(collection)), zap.String("id", record.RecordID()))
			return nil, invalid("create", collection, []string{"_id"}, fmt.Errorf("id %q already exists", record.RecordID()))
		}
		r.log.Error("Failed to create record", zap.String("collection", string(collection)), zap.String("id", record.RecordID()), zap.Error(err))
		return nil, unavailable("create", collection, err)
	}
	r.log.Info("Created record", zap.String("collection", string(collection)), zap.String("id", record.RecordID()))
	return record, nil
}

// checkCreate validates a create payload and clears store-owned timestamps.
func checkCreate(collection models.Collection, record models.Record) error {
	if record == nil || isNilPointer(record) {
		return invalid("create", collection, nil, errors.New("record cannot be nil"))
	}
	if record.CollectionName() != collection {
		return invalid("create", collection, nil, fmt.Errorf("record of type %T belongs to %q", record, record.CollectionName()))
	}
	if missing := models.MissingFields(record); len(missing) > 0 {
		return invalid("create", collection, missing, errors.New("required fields are missing"))
	}
	meta := record.Meta()
	meta.CreatedAt = nil
	meta.UpdatedAt = nil
	return nil
}

func isNilPointer(record models.Record) bool {
	v := reflect.ValueOf(record)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
