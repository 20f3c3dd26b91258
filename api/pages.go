package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"disasterprep/middleware"
	"disasterprep/models"
	"disasterprep/services"
	"disasterprep/utils"
)

type quickLink struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Path        string `json:"path"`
}

var quickLinks = []quickLink{
	{"Emergency Guide", "Step-by-step disaster response instructions", "/emergency-guide"},
	{"Safe Zone Map", "Find nearest shelters and safe locations", "/safe-zone-map"},
	{"Awareness", "Articles on preparing for and recovering from disasters", "/awareness"},
	{"Volunteer", "Join our rescue teams", "/volunteer"},
}

// HomeHandler serves the landing page.
// GET /
func (h *APIHandler) HomeHandler(c *gin.Context) {
	data := gin.H{
		"session":     middleware.SessionState(c),
		"quick_links": quickLinks,
	}
	if notice := middleware.TakeNotice(c, h.opts.Cookies); notice != "" {
		data["notice"] = notice
	}
	utils.SendData(c, http.StatusOK, "OK", data)
}

// DisastersHandler lists disaster types, filtered by search and category.
// GET /disasters
func (h *APIHandler) DisastersHandler(c *gin.Context) {
	listPage(h, c, models.CollectionDisasterTypes, same[*models.DisasterType])
}

// DisasterDetailHandler shows one disaster type.
// GET /disasters/:id
func (h *APIHandler) DisasterDetailHandler(c *gin.Context) {
	detailPage(h, c, models.CollectionDisasterTypes, same[*models.DisasterType])
}

type guideItem struct {
	*models.EmergencyGuide
	Phases []models.GuideStep `json:"phases"`
}

// EmergencyGuideHandler lists guides with their instructions split into phases.
// GET /emergency-guide
func (h *APIHandler) EmergencyGuideHandler(c *gin.Context) {
	listPage(h, c, models.CollectionEmergencyGuides, func(g *models.EmergencyGuide) guideItem {
		return guideItem{EmergencyGuide: g, Phases: g.Phases()}
	})
}

// RescueTeamsHandler lists rescue teams.
// GET /rescue-teams
func (h *APIHandler) RescueTeamsHandler(c *gin.Context) {
	listPage(h, c, models.CollectionRescueTeams, same[*models.RescueTeam])
}

// RescueTeamDetailHandler shows one rescue team.
// GET /rescue-teams/:id
func (h *APIHandler) RescueTeamDetailHandler(c *gin.Context) {
	detailPage(h, c, models.CollectionRescueTeams, same[*models.RescueTeam])
}

type position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type safeZoneItem struct {
	*models.SafeZoneLocation
	Position *position `json:"position,omitempty"` // Absent when the location cannot be placed on the map
}

// SafeZonesHandler lists safe zones with map positions, faceted by location type.
// GET /safe-zone-map
func (h *APIHandler) SafeZonesHandler(c *gin.Context) {
	listPage(h, c, models.CollectionSafeZoneLocations, func(l *models.SafeZoneLocation) safeZoneItem {
		item := safeZoneItem{SafeZoneLocation: l}
		if lat, lng, ok := l.Coordinates(); ok {
			item.Position = &position{Lat: lat, Lng: lng}
		}
		return item
	})
}

// ContactsHandler lists emergency contacts, faceted by category.
// GET /contacts
func (h *APIHandler) ContactsHandler(c *gin.Context) {
	listPage(h, c, models.CollectionEmergencyContacts, same[*models.EmergencyContact])
}

const excerptLength = 160

type articleItem struct {
	*models.AwarenessArticle
	Teaser string `json:"excerpt,omitempty"`
}

func presentArticle(a *models.AwarenessArticle) articleItem {
	teaser, _ := a.Excerpt(excerptLength)
	return articleItem{AwarenessArticle: a, Teaser: teaser}
}

// AwarenessHandler lists awareness articles, newest first, with excerpts.
// GET /awareness
func (h *APIHandler) AwarenessHandler(c *gin.Context) {
	listPage(h, c, models.CollectionAwarenessArticles, presentArticle)
}

// ArticleDetailHandler shows one awareness article.
// GET /awareness/:id
func (h *APIHandler) ArticleDetailHandler(c *gin.Context) {
	detailPage(h, c, models.CollectionAwarenessArticles, presentArticle)
}

// GalleryHandler lists gallery images, newest first.
// GET /gallery
func (h *APIHandler) GalleryHandler(c *gin.Context) {
	listPage(h, c, models.CollectionGalleryImages, same[*models.GalleryImage])
}

// AboutHandler serves leadership, timeline and achievements together.
// GET /about
func (h *APIHandler) AboutHandler(c *gin.Context) {
	resourcePage(h, c, func(ctx context.Context) (*services.AboutPage, bool, error) {
		page, err := h.about.Load(ctx)
		return page, err == nil, err
	})
}

// VolunteerHandler submits the volunteer form. The confirmation is only sent
// once the store has acknowledged the registration.
// POST /volunteer
func (h *APIHandler) VolunteerHandler(c *gin.Context) {
	var form services.VolunteerForm
	if err := c.ShouldBindJSON(&form); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	// The write is not abandoned when the client goes away mid-request.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), h.opts.FetchTimeout)
	defer cancel()

	reg, err := h.volunteers.Register(ctx, form)
	if err != nil {
		utils.SendRepositoryError(c, err)
		return
	}
	utils.SendData(c, http.StatusCreated, "Registration received", gin.H{
		"confirmation": fmt.Sprintf("Thank you for registering, %s! Our team will contact you soon.", models.Deref(reg.FullName)),
		"registration": reg,
	})
}

// DashboardHandler is mounted behind middleware.RequireMember.
// GET /dashboard
func (h *APIHandler) DashboardHandler(c *gin.Context) {
	member := middleware.SessionState(c).Profile
	resourcePage(h, c, func(ctx context.Context) (*services.Dashboard, bool, error) {
		dash, err := h.dashboard.Load(ctx, member)
		return dash, err == nil, err
	})
}
