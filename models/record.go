package models

import (
	"time"
)

// Collection is the identifier of a named record collection in the content store.
type Collection string

const (
	CollectionDisasterTypes          Collection = "disastertypes"
	CollectionEmergencyGuides        Collection = "emergencyguides"
	CollectionEmergencyContacts      Collection = "emergencycontacts"
	CollectionRescueTeams            Collection = "rescueteams"
	CollectionSafeZoneLocations      Collection = "safezonelocations"
	CollectionAwarenessArticles      Collection = "awarenessarticles"
	CollectionGalleryImages          Collection = "galleryimages"
	CollectionLeadershipTeam         Collection = "leadershipteam"
	CollectionOrganizationTimeline   Collection = "organizationtimeline"
	CollectionAchievements           Collection = "achievements"
	CollectionVolunteerRegistrations Collection = "volunteerregistrations"
)

// Record is implemented by every collection type.
type Record interface {
	RecordID() string
	CollectionName() Collection
	Meta() *Base
}

// Base holds the fields shared by every record.
// ID is chosen by whoever creates the record; the timestamps belong to the store.
type Base struct {
	ID        string     `gorm:"primaryKey;column:id" json:"_id"`
	CreatedAt *time.Time `gorm:"column:created_date;autoCreateTime" json:"_createdDate,omitempty"`
	UpdatedAt *time.Time `gorm:"column:updated_date;autoUpdateTime" json:"_updatedDate,omitempty"`
}

// RecordID returns the record's opaque identifier.
func (b *Base) RecordID() string {
	return b.ID
}

// Meta exposes the shared fields so the store can manage them.
func (b *Base) Meta() *Base {
	return b
}

// String returns a pointer to s, for building records with optional text fields.
func String(s string) *string {
	return &s
}

// Float returns a pointer to f.
func Float(f float64) *float64 {
	return &f
}

// Deref returns the value behind an optional text field, or "" when it is absent.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
