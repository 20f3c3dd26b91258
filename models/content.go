package models

// DisasterType describes one kind of disaster and how to respond to it.
type DisasterType struct {
	Base
	Name     *string `json:"name,omitempty"`
	Icon     *string `json:"icon,omitempty"`                   // Image reference, never dereferenced here
	Category *string `gorm:"index" json:"category,omitempty"` // e.g. "Natural", "Man-made"
	Risks    *string `gorm:"type:text" json:"risks,omitempty"`
	Dos      *string `gorm:"type:text" json:"dos,omitempty"`
	Donts    *string `gorm:"type:text" json:"donts,omitempty"`
}

func (DisasterType) TableName() string           { return string(CollectionDisasterTypes) }
func (*DisasterType) CollectionName() Collection { return CollectionDisasterTypes }

// GuidePhase names one of the three instructional phases of an emergency guide.
type GuidePhase string

const (
	PhaseBefore GuidePhase = "pre"
	PhaseDuring GuidePhase = "during"
	PhaseAfter  GuidePhase = "post"
)

// GuideStep is a single present phase of a guide.
type GuideStep struct {
	Phase        GuidePhase `json:"phase"`
	Instructions string     `json:"instructions"`
}

// EmergencyGuide carries instructions for before, during and after a disaster.
type EmergencyGuide struct {
	Base
	GuideTitle                 *string `json:"guideTitle,omitempty"`
	Description                *string `gorm:"type:text" json:"description,omitempty"`
	PreDisasterInstructions    *string `gorm:"type:text" json:"preDisasterInstructions,omitempty"`
	DuringDisasterInstructions *string `gorm:"type:text" json:"duringDisasterInstructions,omitempty"`
	PostDisasterInstructions   *string `gorm:"type:text" json:"postDisasterInstructions,omitempty"`
	DownloadablePdfURL         *string `gorm:"column:downloadable_pdf_url" json:"downloadablePdfUrl,omitempty"`
	ThumbnailImage             *string `json:"thumbnailImage,omitempty"`
}

func (EmergencyGuide) TableName() string           { return string(CollectionEmergencyGuides) }
func (*EmergencyGuide) CollectionName() Collection { return CollectionEmergencyGuides }

// Phases returns the authored phases in pre, during, post order. Absent or
// blank phases are left out rather than rendered empty.
func (g *EmergencyGuide) Phases() []GuideStep {
	steps := make([]GuideStep, 0, 3)
	for _, p := range []struct {
		phase GuidePhase
		text  *string
	}{
		{PhaseBefore, g.PreDisasterInstructions},
		{PhaseDuring, g.DuringDisasterInstructions},
		{PhaseAfter, g.PostDisasterInstructions},
	} {
		if p.text == nil || *p.text == "" {
			continue
		}
		steps = append(steps, GuideStep{Phase: p.phase, Instructions: *p.text})
	}
	return steps
}

// EmergencyContact is a phone line to call in an emergency.
type EmergencyContact struct {
	Base
	ContactName   *string `json:"contactName,omitempty"`
	PhoneNumber   *string `json:"phoneNumber,omitempty"`
	Category      *string `gorm:"index" json:"category,omitempty"`
	CountryRegion *string `json:"countryRegion,omitempty"`
	Notes         *string `gorm:"type:text" json:"notes,omitempty"`
}

func (EmergencyContact) TableName() string           { return string(CollectionEmergencyContacts) }
func (*EmergencyContact) CollectionName() Collection { return CollectionEmergencyContacts }

// RescueTeam is a deployable rescue unit.
type RescueTeam struct {
	Base
	TeamName                 *string `json:"teamName,omitempty"`
	RolesAndResponsibilities *string `gorm:"type:text" json:"rolesAndResponsibilities,omitempty"`
	ContactEmail             *string `json:"contactEmail,omitempty"`
	ContactPhone             *string `json:"contactPhone,omitempty"`
	DeploymentAreas          *string `json:"deploymentAreas,omitempty"`
	TeamBadge                *string `json:"teamBadge,omitempty"`
}

func (RescueTeam) TableName() string           { return string(CollectionRescueTeams) }
func (*RescueTeam) CollectionName() Collection { return CollectionRescueTeams }

// SafeZoneLocation is a shelter or assembly point shown on the map.
type SafeZoneLocation struct {
	Base
	LocationName       *string  `json:"locationName,omitempty"`
	LocationType       *string  `gorm:"index" json:"locationType,omitempty"` // e.g. "Shelter", "Hospital"
	Latitude           *float64 `json:"latitude,omitempty"`
	Longitude          *float64 `json:"longitude,omitempty"`
	TooltipDescription *string  `gorm:"type:text" json:"tooltipDescription,omitempty"`
	IconURL            *string  `gorm:"column:icon_url" json:"iconUrl,omitempty"`
	ColorCode          *string  `json:"colorCode,omitempty"` // Display colour for the marker
}

func (SafeZoneLocation) TableName() string           { return string(CollectionSafeZoneLocations) }
func (*SafeZoneLocation) CollectionName() Collection { return CollectionSafeZoneLocations }

// Coordinates returns the location's position. ok is false unless both
// latitude and longitude are present and in range.
func (l *SafeZoneLocation) Coordinates() (lat, lng float64, ok bool) {
	if l.Latitude == nil || l.Longitude == nil {
		return 0, 0, false
	}
	lat, lng = *l.Latitude, *l.Longitude
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return 0, 0, false
	}
	return lat, lng, true
}

// GalleryImage is a photo from a past response or drill.
type GalleryImage struct {
	Base
	GalleryImage *string    `gorm:"column:gallery_image" json:"galleryImage,omitempty"`
	Title        *string    `json:"title,omitempty"`
	Category     *string    `gorm:"index" json:"category,omitempty"`
	Description  *string    `gorm:"type:text" json:"description,omitempty"`
	DateTaken    *Timestamp `json:"dateTaken,omitempty"`
}

func (GalleryImage) TableName() string           { return string(CollectionGalleryImages) }
func (*GalleryImage) CollectionName() Collection { return CollectionGalleryImages }

// LeadershipMember is one person on the organisation's leadership team.
type LeadershipMember struct {
	Base
	Name           *string `json:"name,omitempty"`
	Role           *string `json:"role,omitempty"`
	ProfilePicture *string `json:"profilePicture,omitempty"`
	Biography      *string `gorm:"type:text" json:"biography,omitempty"`
	LinkedInURL    *string `gorm:"column:linked_in_url" json:"linkedInUrl,omitempty"`
}

func (LeadershipMember) TableName() string           { return string(CollectionLeadershipTeam) }
func (*LeadershipMember) CollectionName() Collection { return CollectionLeadershipTeam }

// TimelineEvent is a milestone in the organisation's history.
type TimelineEvent struct {
	Base
	EventTitle       *string    `json:"eventTitle,omitempty"`
	EventDate        *Timestamp `json:"eventDate,omitempty"`
	EventDescription *string    `gorm:"type:text" json:"eventDescription,omitempty"`
	EventImage       *string    `json:"eventImage,omitempty"`
	LearnMoreURL     *string    `gorm:"column:learn_more_url" json:"learnMoreUrl,omitempty"`
}

func (TimelineEvent) TableName() string           { return string(CollectionOrganizationTimeline) }
func (*TimelineEvent) CollectionName() Collection { return CollectionOrganizationTimeline }

// Achievement is a recognised outcome, optionally with an impact figure.
type Achievement struct {
	Base
	Title           *string    `json:"title,omitempty"`
	Description     *string    `gorm:"type:text" json:"description,omitempty"`
	Icon            *string    `json:"icon,omitempty"`
	DateAchieved    *Timestamp `json:"dateAchieved,omitempty"`
	ImpactMetric    *float64   `json:"impactMetric,omitempty"`
	CallToActionURL *string    `gorm:"column:call_to_action_url" json:"callToActionUrl,omitempty"`
}

func (Achievement) TableName() string           { return string(CollectionAchievements) }
func (*Achievement) CollectionName() Collection { return CollectionAchievements }
