package models

import (
	"fmt"
	"sort"
)

// FieldType is the semantic type of a record field.
type FieldType string

const (
	FieldText   FieldType = "text"
	FieldImage  FieldType = "image"
	FieldURL    FieldType = "url"
	FieldNumber FieldType = "number"
	FieldDate   FieldType = "date"
)

// Field describes one collection-specific field, keyed by its JSON name.
type Field struct {
	Name     string
	Type     FieldType
	Required bool
}

// Schema is the static description of a collection. It carries no behaviour;
// the repository validates against it and listing pages read their search,
// facet and sort fields from it.
type Schema struct {
	Collection    Collection
	Label         string // Human-readable singular, used in not-found messages
	Fields        []Field
	SearchFields  []string
	CategoryField string // Empty when the collection has no facet
	DateField     string // Empty when the collection has no chronological order
	New           func() Record
}

// Required returns the names of the fields a create payload must carry.
func (s Schema) Required() []string {
	var names []string
	for _, f := range s.Fields {
		if f.Required {
			names = append(names, f.Name)
		}
	}
	return names
}

// Field looks up a field definition by JSON name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func text(name string) Field     { return Field{Name: name, Type: FieldText} }
func required(name string) Field { return Field{Name: name, Type: FieldText, Required: true} }
func image(name string) Field    { return Field{Name: name, Type: FieldImage} }
func url(name string) Field      { return Field{Name: name, Type: FieldURL} }
func number(name string) Field   { return Field{Name: name, Type: FieldNumber} }
func date(name string) Field     { return Field{Name: name, Type: FieldDate} }

var schemas = map[Collection]Schema{
	CollectionDisasterTypes: {
		Collection:    CollectionDisasterTypes,
		Label:         "Disaster",
		Fields:        []Field{required("name"), image("icon"), text("category"), text("risks"), text("dos"), text("donts")},
		SearchFields:  []string{"name", "risks", "category"},
		CategoryField: "category",
		New:           func() Record { return &DisasterType{} },
	},
	CollectionEmergencyGuides: {
		Collection: CollectionEmergencyGuides,
		Label:      "Emergency guide",
		Fields: []Field{
			required("guideTitle"), text("description"),
			text("preDisasterInstructions"), text("duringDisasterInstructions"), text("postDisasterInstructions"),
			url("downloadablePdfUrl"), image("thumbnailImage"),
		},
		SearchFields: []string{"guideTitle", "description"},
		New:          func() Record { return &EmergencyGuide{} },
	},
	CollectionEmergencyContacts: {
		Collection:    CollectionEmergencyContacts,
		Label:         "Emergency contact",
		Fields:        []Field{required("contactName"), text("phoneNumber"), text("category"), text("countryRegion"), text("notes")},
		SearchFields:  []string{"contactName", "countryRegion", "notes"},
		CategoryField: "category",
		New:           func() Record { return &EmergencyContact{} },
	},
	CollectionRescueTeams: {
		Collection: CollectionRescueTeams,
		Label:      "Rescue team",
		Fields: []Field{
			required("teamName"), text("rolesAndResponsibilities"), text("contactEmail"),
			text("contactPhone"), text("deploymentAreas"), image("teamBadge"),
		},
		SearchFields: []string{"teamName", "deploymentAreas", "rolesAndResponsibilities"},
		New:          func() Record { return &RescueTeam{} },
	},
	CollectionSafeZoneLocations: {
		Collection: CollectionSafeZoneLocations,
		Label:      "Safe zone",
		Fields: []Field{
			required("locationName"), text("locationType"), number("latitude"), number("longitude"),
			text("tooltipDescription"), url("iconUrl"), text("colorCode"),
		},
		SearchFields:  []string{"locationName", "tooltipDescription"},
		CategoryField: "locationType",
		New:           func() Record { return &SafeZoneLocation{} },
	},
	CollectionAwarenessArticles: {
		Collection: CollectionAwarenessArticles,
		Label:      "Article",
		Fields: []Field{
			required("title"), text("content"), text("author"), date("publicationDate"),
			text("summary"), image("mainImage"), text("category"),
		},
		SearchFields:  []string{"title", "summary"},
		CategoryField: "category",
		DateField:     "publicationDate",
		New:           func() Record { return &AwarenessArticle{} },
	},
	CollectionGalleryImages: {
		Collection: CollectionGalleryImages,
		Label:      "Image",
		Fields: []Field{
			{Name: "galleryImage", Type: FieldImage, Required: true},
			text("title"), text("category"), text("description"), date("dateTaken"),
		},
		SearchFields:  []string{"title", "description"},
		CategoryField: "category",
		DateField:     "dateTaken",
		New:           func() Record { return &GalleryImage{} },
	},
	CollectionLeadershipTeam: {
		Collection:   CollectionLeadershipTeam,
		Label:        "Team member",
		Fields:       []Field{required("name"), text("role"), image("profilePicture"), text("biography"), url("linkedInUrl")},
		SearchFields: []string{"name", "role"},
		New:          func() Record { return &LeadershipMember{} },
	},
	CollectionOrganizationTimeline: {
		Collection:   CollectionOrganizationTimeline,
		Label:        "Timeline event",
		Fields:       []Field{required("eventTitle"), date("eventDate"), text("eventDescription"), image("eventImage"), url("learnMoreUrl")},
		SearchFields: []string{"eventTitle", "eventDescription"},
		DateField:    "eventDate",
		New:          func() Record { return &TimelineEvent{} },
	},
	CollectionAchievements: {
		Collection: CollectionAchievements,
		Label:      "Achievement",
		Fields: []Field{
			required("title"), text("description"), image("icon"), date("dateAchieved"),
			number("impactMetric"), url("callToActionUrl"),
		},
		SearchFields: []string{"title", "description"},
		DateField:    "dateAchieved",
		New:          func() Record { return &Achievement{} },
	},
	CollectionVolunteerRegistrations: {
		Collection: CollectionVolunteerRegistrations,
		Label:      "Registration",
		Fields: []Field{
			required("fullName"), required("email"), required("phoneNumber"), required("skills"),
			required("availability"), text("pastExperience"), image("uploadedIdDocument"), date("registrationDate"),
		},
		SearchFields: []string{"fullName", "skills"},
		DateField:    "registrationDate",
		New:          func() Record { return &VolunteerRegistration{} },
	},
}

// SchemaFor returns the schema of a known collection.
func SchemaFor(c Collection) (Schema, bool) {
	s, ok := schemas[c]
	return s, ok
}

// MustSchema is SchemaFor for collections named by constant.
func MustSchema(c Collection) Schema {
	s, ok := schemas[c]
	if !ok {
		panic(fmt.Sprintf("models: no schema registered for collection %q", c))
	}
	return s
}

// Collections lists every registered collection in a stable order.
func Collections() []Collection {
	out := make([]Collection, 0, len(schemas))
	for c := range schemas {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// AllModels returns one empty value per collection, for schema migration.
func AllModels() []any {
	out := make([]any, 0, len(schemas))
	for _, c := range Collections() {
		out = append(out, schemas[c].New())
	}
	return out
}

// MissingFields reports required fields that are absent or blank on r,
// including the record id.
func MissingFields(r Record) []string {
	var missing []string
	if r.RecordID() == "" {
		missing = append(missing, "_id")
	}
	schema, ok := SchemaFor(r.CollectionName())
	if !ok {
		return missing
	}
	for _, name := range schema.Required() {
		if v, ok := LookupString(r, name); !ok || isBlank(v) {
			missing = append(missing, name)
		}
	}
	return missing
}
