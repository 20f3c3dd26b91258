package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"disasterprep/binder"
	"disasterprep/middleware"
	"disasterprep/models"
	"disasterprep/repository"
	"disasterprep/services"
	"disasterprep/utils"
)

// Options are the page-loading and cookie settings of the handler.
type Options struct {
	FetchTimeout time.Duration // Upper bound on one store operation
	RenderWait   time.Duration // How long a page waits before answering "loading"
	Cookies      middleware.CookieOptions

	// Origins allowed to make credentialed cross-origin requests
	AllowedOrigins []string
}

// APIHandler holds dependencies for API handlers.
type APIHandler struct {
	repo       repository.ContentRepository
	about      services.AboutService
	volunteers services.VolunteerService
	dashboard  services.DashboardService
	opts       Options
	log        *zap.Logger
}

// NewAPIHandler creates a new APIHandler with necessary dependencies.
func NewAPIHandler(
	repo repository.ContentRepository,
	about services.AboutService,
	volunteers services.VolunteerService,
	dashboard services.DashboardService,
	opts Options,
) *APIHandler {
	return &APIHandler{
		repo:       repo,
		about:      about,
		volunteers: volunteers,
		dashboard:  dashboard,
		opts:       opts,
		log:        zap.L().Named("APIHandler"),
	}
}

// renderContext bounds how long a page waits for its binder.
func (h *APIHandler) renderContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.opts.RenderWait)
}

func sendLoading(c *gin.Context) {
	utils.SendData(c, http.StatusAccepted, "Loading", gin.H{"state": binder.Loading})
}

// listPage serves a listing page for collection: it mounts a listing binder,
// applies the search and category query parameters and renders the view
// through present.
func listPage[T models.Record, V any](h *APIHandler, c *gin.Context, collection models.Collection, present func(T) V) {
	schema := models.MustSchema(collection)
	listing := binder.NewListing[T](h.repo, schema, h.opts.FetchTimeout)
	listing.SetSearch(c.Query("search"))
	listing.SetCategory(c.Query("category"))
	listing.Mount(c.Request.Context())
	defer listing.Unmount()

	ctx, cancel := h.renderContext(c)
	defer cancel()
	view := listing.Wait(ctx)

	switch view.State {
	case binder.Loaded:
		items := make([]V, len(view.Items))
		for i, item := range view.Items {
			items[i] = present(item)
		}
		utils.SendData(c, http.StatusOK, "OK", binder.ListView[V]{
			State:      view.State,
			Items:      items,
			Total:      view.Total,
			Categories: view.Categories,
			Search:     view.Search,
			Category:   view.Category,
		})
	case binder.Failed:
		utils.SendJSONError(c, http.StatusServiceUnavailable, "", view.Err)
	default:
		sendLoading(c)
	}
}

// detailPage serves the record named by the :id path parameter.
func detailPage[T models.Record, V any](h *APIHandler, c *gin.Context, collection models.Collection, present func(T) V) {
	schema := models.MustSchema(collection)
	detail := binder.NewDetail[T](h.repo, collection, h.opts.FetchTimeout)
	detail.Show(c.Request.Context(), c.Param("id"))
	defer detail.Unmount()

	ctx, cancel := h.renderContext(c)
	defer cancel()
	snap := detail.Wait(ctx)

	switch snap.State {
	case binder.Loaded:
		utils.SendData(c, http.StatusOK, "OK", present(snap.Value))
	case binder.NotFound:
		utils.SendJSONError(c, http.StatusNotFound, schema.Label+" not found", nil)
	case binder.Failed:
		utils.SendJSONError(c, http.StatusServiceUnavailable, "", snap.Err)
	default:
		sendLoading(c)
	}
}

// resourcePage serves a page whose content comes from a single fetch.
func resourcePage[T any](h *APIHandler, c *gin.Context, fetch binder.Fetch[T]) {
	res := binder.NewResource[T](h.opts.FetchTimeout)
	res.Mount(c.Request.Context(), fetch)
	defer res.Unmount()

	ctx, cancel := h.renderContext(c)
	defer cancel()
	snap := res.Wait(ctx)

	switch snap.State {
	case binder.Loaded:
		utils.SendData(c, http.StatusOK, "OK", snap.Value)
	case binder.NotFound:
		utils.SendJSONError(c, http.StatusNotFound, "Not found", nil)
	case binder.Failed:
		utils.SendJSONError(c, http.StatusServiceUnavailable, "", snap.Err)
	default:
		sendLoading(c)
	}
}

func same[T any](v T) T { return v }
