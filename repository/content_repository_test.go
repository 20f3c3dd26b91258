package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"disasterprep/database"
	"disasterprep/models"
)

func newGormRepository(t *testing.T) ContentRepository {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "content.db"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return NewContentRepository(db)
}

// backends runs the same contract against every ContentRepository implementation.
func backends(t *testing.T, run func(t *testing.T, repo ContentRepository)) {
	t.Run("gorm", func(t *testing.T) { run(t, newGormRepository(t)) })
	t.Run("memory", func(t *testing.T) { run(t, NewMemoryContentRepository()) })
}

func disaster(id, name, category string) *models.DisasterType {
	return &models.DisasterType{
		Base:     models.Base{ID: id},
		Name:     models.String(name),
		Category: models.String(category),
	}
}

func ids(items []models.Record) []string {
	out := make([]string, len(items))
	for i, rec := range items {
		out[i] = rec.RecordID()
	}
	return out
}

func TestReadAfterWrite(t *testing.T) {
	backends(t, func(t *testing.T, repo ContentRepository) {
		ctx := context.Background()
		_, err := repo.Create(ctx, models.CollectionDisasterTypes, disaster("d1", "Flood", "Natural"))
		require.NoError(t, err)

		before, err := repo.ListAll(ctx, models.CollectionDisasterTypes)
		require.NoError(t, err)

		_, err = repo.Create(ctx, models.CollectionDisasterTypes, disaster("d2", "Fire", "Natural"))
		require.NoError(t, err)

		after, err := repo.ListAll(ctx, models.CollectionDisasterTypes)
		require.NoError(t, err)

		assert.Subset(t, ids(after.Items), ids(before.Items))
		assert.Contains(t, ids(after.Items), "d2")
		assert.Len(t, after.Items, len(before.Items)+1)
	})
}

func TestGetByID(t *testing.T) {
	backends(t, func(t *testing.T, repo ContentRepository) {
		ctx := context.Background()
		_, err := repo.Create(ctx, models.CollectionDisasterTypes, disaster("d1", "Flood", "Natural"))
		require.NoError(t, err)

		t.Run("present", func(t *testing.T) {
			rec, err := repo.GetByID(ctx, models.CollectionDisasterTypes, "d1")
			require.NoError(t, err)
			require.IsType(t, &models.DisasterType{}, rec)
			assert.Equal(t, "Flood", models.Deref(rec.(*models.DisasterType).Name))
			assert.Nil(t, rec.(*models.DisasterType).Icon, "absent optional fields stay nil")
		})

		t.Run("missing id is nil without error", func(t *testing.T) {
			rec, err := repo.GetByID(ctx, models.CollectionDisasterTypes, "missing-id")
			assert.NoError(t, err)
			assert.Nil(t, rec)
		})

		t.Run("id of another collection", func(t *testing.T) {
			rec, err := repo.GetByID(ctx, models.CollectionRescueTeams, "d1")
			assert.NoError(t, err)
			assert.Nil(t, rec)
		})
	})
}

func TestUnknownCollection(t *testing.T) {
	backends(t, func(t *testing.T, repo ContentRepository) {
		ctx := context.Background()
		unknown := models.Collection("weather")

		_, err := repo.ListAll(ctx, unknown)
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = repo.GetByID(ctx, unknown, "x")
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = repo.Create(ctx, unknown, disaster("d1", "Flood", "Natural"))
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestCreateValidation(t *testing.T) {
	backends(t, func(t *testing.T, repo ContentRepository) {
		ctx := context.Background()

		t.Run("missing required fields", func(t *testing.T) {
			reg := &models.VolunteerRegistration{
				Base:     models.Base{ID: "v1"},
				FullName: models.String("Ana"),
				Email:    models.String("ana@example.org"),
				Skills:   models.String("   "),
			}
			_, err := repo.Create(ctx, models.CollectionVolunteerRegistrations, reg)
			require.ErrorIs(t, err, ErrValidation)
			assert.ElementsMatch(t, []string{"phoneNumber", "skills", "availability"}, InvalidFields(err))

			res, err := repo.ListAll(ctx, models.CollectionVolunteerRegistrations)
			require.NoError(t, err)
			assert.Empty(t, res.Items, "a rejected payload must not be stored")
		})

		t.Run("missing id", func(t *testing.T) {
			_, err := repo.Create(ctx, models.CollectionDisasterTypes, disaster("", "Flood", "Natural"))
			require.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, []string{"_id"}, InvalidFields(err))
		})

		t.Run("wrong record type", func(t *testing.T) {
			_, err := repo.Create(ctx, models.CollectionRescueTeams, disaster("d9", "Flood", "Natural"))
			assert.ErrorIs(t, err, ErrValidation)
		})

		t.Run("nil record", func(t *testing.T) {
			_, err := repo.Create(ctx, models.CollectionDisasterTypes, nil)
			assert.ErrorIs(t, err, ErrValidation)
		})

		t.Run("typed nil record", func(t *testing.T) {
			var rec *models.DisasterType
			var err error
			require.NotPanics(t, func() {
				_, err = repo.Create(ctx, models.CollectionDisasterTypes, rec)
			})
			assert.ErrorIs(t, err, ErrValidation)
		})

		t.Run("duplicate id", func(t *testing.T) {
			_, err := repo.Create(ctx, models.CollectionDisasterTypes, disaster("dup", "Flood", "Natural"))
			require.NoError(t, err)
			_, err = repo.Create(ctx, models.CollectionDisasterTypes, disaster("dup", "Fire", "Natural"))
			require.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, []string{"_id"}, InvalidFields(err))

			rec, err := repo.GetByID(ctx, models.CollectionDisasterTypes, "dup")
			require.NoError(t, err)
			assert.Equal(t, "Flood", models.Deref(rec.(*models.DisasterType).Name), "the original record is untouched")
		})
	})
}

func TestCreateStoreOwnsTimestamps(t *testing.T) {
	backends(t, func(t *testing.T, repo ContentRepository) {
		ctx := context.Background()
		forged := time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)
		rec := disaster("d1", "Flood", "Natural")
		rec.CreatedAt = &forged

		_, err := repo.Create(ctx, models.CollectionDisasterTypes, rec)
		require.NoError(t, err)

		got, err := repo.GetByID(ctx, models.CollectionDisasterTypes, "d1")
		require.NoError(t, err)
		meta := got.Meta()
		require.NotNil(t, meta.CreatedAt)
		assert.True(t, meta.CreatedAt.After(forged), "client-supplied creation time is discarded")
		assert.NotNil(t, meta.UpdatedAt)
	})
}

func TestTypedHelpers(t *testing.T) {
	backends(t, func(t *testing.T, repo ContentRepository) {
		ctx := context.Background()
		article := &models.AwarenessArticle{
			Base:            models.Base{ID: "a1"},
			Title:           models.String("Pack a go-bag"),
			PublicationDate: models.Date(2024, time.March, 3),
		}
		_, err := Insert(ctx, repo, article)
		require.NoError(t, err)

		list, err := List[*models.AwarenessArticle](ctx, repo, models.CollectionAwarenessArticles)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Pack a go-bag", models.Deref(list[0].Title))
		require.NotNil(t, list[0].PublicationDate)
		assert.True(t, list[0].PublicationDate.Equal(time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC)))

		got, found, err := Get[*models.AwarenessArticle](ctx, repo, models.CollectionAwarenessArticles, "a1")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "a1", got.ID)

		_, found, err = Get[*models.AwarenessArticle](ctx, repo, models.CollectionAwarenessArticles, "nope")
		assert.NoError(t, err)
		assert.False(t, found)

		_, err = List[*models.RescueTeam](ctx, repo, models.CollectionAwarenessArticles)
		assert.Error(t, err, "element type must match the collection")
	})
}

func TestMemoryRepositoryIsolation(t *testing.T) {
	ctx := context.Background()

	t.Run("reassigning fields", func(t *testing.T) {
		repo := NewMemoryContentRepository()
		rec := disaster("d1", "Flood", "Natural")
		_, err := repo.Create(ctx, models.CollectionDisasterTypes, rec)
		require.NoError(t, err)

		rec.Name = models.String("Changed after create")
		got, err := repo.GetByID(ctx, models.CollectionDisasterTypes, "d1")
		require.NoError(t, err)
		assert.Equal(t, "Flood", models.Deref(got.(*models.DisasterType).Name))

		got.(*models.DisasterType).Category = models.String("Changed after read")
		again, err := repo.GetByID(ctx, models.CollectionDisasterTypes, "d1")
		require.NoError(t, err)
		assert.Equal(t, "Natural", models.Deref(again.(*models.DisasterType).Category))
	})

	t.Run("writing through pointers", func(t *testing.T) {
		repo := NewMemoryContentRepository()
		rec := disaster("d1", "Flood", "Natural")
		_, err := repo.Create(ctx, models.CollectionDisasterTypes, rec)
		require.NoError(t, err)

		*rec.Name = "Changed after create"
		*rec.CreatedAt = time.Time{}

		got, err := repo.GetByID(ctx, models.CollectionDisasterTypes, "d1")
		require.NoError(t, err)
		*got.(*models.DisasterType).Category = "Changed after read"

		list, err := repo.ListAll(ctx, models.CollectionDisasterTypes)
		require.NoError(t, err)
		require.Len(t, list.Items, 1)
		*list.Items[0].(*models.DisasterType).Name = "Changed after list"

		again, err := repo.GetByID(ctx, models.CollectionDisasterTypes, "d1")
		require.NoError(t, err)
		stored := again.(*models.DisasterType)
		assert.Equal(t, "Flood", models.Deref(stored.Name))
		assert.Equal(t, "Natural", models.Deref(stored.Category))
		require.NotNil(t, stored.CreatedAt)
		assert.False(t, stored.CreatedAt.IsZero())
	})

	t.Run("dates and numbers", func(t *testing.T) {
		repo := NewMemoryContentRepository()
		zone := &models.SafeZoneLocation{
			Base:         models.Base{ID: "z1"},
			LocationName: models.String("Hall"),
			Latitude:     models.Float(51.5),
		}
		_, err := repo.Create(ctx, models.CollectionSafeZoneLocations, zone)
		require.NoError(t, err)
		*zone.Latitude = 0

		got, err := repo.GetByID(ctx, models.CollectionSafeZoneLocations, "z1")
		require.NoError(t, err)
		assert.Equal(t, 51.5, *got.(*models.SafeZoneLocation).Latitude)

		article := &models.AwarenessArticle{
			Base:            models.Base{ID: "a1"},
			Title:           models.String("Go-bag"),
			PublicationDate: models.Date(2024, time.March, 3),
		}
		_, err = repo.Create(ctx, models.CollectionAwarenessArticles, article)
		require.NoError(t, err)
		article.PublicationDate.Time = time.Time{}

		stored, err := repo.GetByID(ctx, models.CollectionAwarenessArticles, "a1")
		require.NoError(t, err)
		date := stored.(*models.AwarenessArticle).PublicationDate
		require.NotNil(t, date)
		assert.True(t, date.Equal(time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC)))
	})
}

func TestMemoryRepositoryCancelledContext(t *testing.T) {
	repo := NewMemoryContentRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.ListAll(ctx, models.CollectionDisasterTypes)
	require.ErrorIs(t, err, ErrUnavailable)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestErrorMessage(t *testing.T) {
	err := invalid("create", models.CollectionVolunteerRegistrations, []string{"email"}, errors.New("required fields are missing"))
	assert.Equal(t, "create volunteerregistrations: validation error (fields: email): required fields are missing", err.Error())
	assert.NotErrorIs(t, err, ErrUnavailable)
}
