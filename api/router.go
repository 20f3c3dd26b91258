package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"disasterprep/middleware"
	"disasterprep/session"
)

// NewRouter creates the gin engine with middlewares and every page route.
func NewRouter(handler *APIHandler, sessions *session.Manager) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Cors(handler.opts.AllowedOrigins))
	r.Use(middleware.Session(sessions, handler.opts.Cookies))
	registerRoutes(r, handler)
	return r
}

func registerRoutes(r *gin.Engine, handler *APIHandler) {
	r.GET("/", handler.HomeHandler)

	r.GET("/disasters", handler.DisastersHandler)
	r.GET("/disasters/:id", handler.DisasterDetailHandler)
	r.GET("/emergency-guide", handler.EmergencyGuideHandler)
	r.GET("/rescue-teams", handler.RescueTeamsHandler)
	r.GET("/rescue-teams/:id", handler.RescueTeamDetailHandler)
	r.GET("/safe-zone-map", handler.SafeZonesHandler)
	r.GET("/contacts", handler.ContactsHandler)
	r.GET("/awareness", handler.AwarenessHandler)
	r.GET("/awareness/:id", handler.ArticleDetailHandler)
	r.GET("/gallery", handler.GalleryHandler)
	r.GET("/about", handler.AboutHandler)
	r.POST("/volunteer", handler.VolunteerHandler)

	r.GET("/dashboard", middleware.RequireMember(handler.opts.Cookies), handler.DashboardHandler)

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", handler.LoginHandler)
		authGroup.POST("/logout", handler.LogoutHandler)
		authGroup.GET("/session", handler.SessionHandler)
	}

	r.NoRoute(func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/")
	})
}
