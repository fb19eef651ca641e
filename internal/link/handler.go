// AngelaMos | 2026
// handler.go

package link

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/carterperez-dev/linkbio/internal/analytics"
	"github.com/carterperez-dev/linkbio/internal/core"
	"github.com/carterperez-dev/linkbio/internal/middleware"
)

const resourceName = "link"

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/links", func(r chi.Router) {
		r.Use(authenticator)

		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/{linkID}", h.Get)
		r.Put("/{linkID}", h.Update)
		r.Delete("/{linkID}", h.Delete)
		r.Get("/{linkID}/stats", h.Stats)
	})

	r.With(authenticator).Get("/analytics/links/{linkID}", h.Analytics)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CreateLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	link, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		core.Error(w, err, resourceName)
		return
	}

	core.Created(w, ToLinkResponse(link, h.service.ShortURL))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := ListParams{
		OwnerID: middleware.GetUserID(r.Context()),
		Page:    parseIntQuery(r, "page", 1),
		Limit:   parseIntQuery(r, "limit", 10),
		Search:  r.URL.Query().Get("search"),
		Tag:     r.URL.Query().Get("tag"),
	}
	params.Normalize()

	links, total, err := h.service.List(r.Context(), params)
	if err != nil {
		core.Error(w, err, resourceName)
		return
	}

	core.Paginated(
		w,
		ToLinkResponseList(links, h.service.ShortURL),
		params.Page,
		params.Limit,
		total,
	)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	linkID, ok := linkIDParam(w, r)
	if !ok {
		return
	}

	link, err := h.service.Get(r.Context(), middleware.GetUserID(r.Context()), linkID)
	if err != nil {
		core.Error(w, err, resourceName)
		return
	}

	core.OK(w, ToLinkResponse(link, h.service.ShortURL))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	linkID, ok := linkIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	link, err := h.service.Update(
		r.Context(),
		middleware.GetUserID(r.Context()),
		linkID,
		req,
	)
	if err != nil {
		core.Error(w, err, resourceName)
		return
	}

	core.OK(w, ToLinkResponse(link, h.service.ShortURL))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	linkID, ok := linkIDParam(w, r)
	if !ok {
		return
	}

	err := h.service.Delete(r.Context(), middleware.GetUserID(r.Context()), linkID)
	if err != nil {
		core.Error(w, err, resourceName)
		return
	}

	core.OK(w, MessageResponse{Message: "Link deleted successfully"})
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	linkID, ok := linkIDParam(w, r)
	if !ok {
		return
	}

	link, events, err := h.service.Stats(
		r.Context(),
		middleware.GetUserID(r.Context()),
		linkID,
	)
	if err != nil {
		core.Error(w, err, resourceName)
		return
	}

	core.OK(w, ToStatsResponse(link, events))
}

func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	linkID, ok := linkIDParam(w, r)
	if !ok {
		return
	}

	period := analytics.ParsePeriod(r.URL.Query().Get("period"))

	link, summary, err := h.service.Analytics(
		r.Context(),
		middleware.GetUserID(r.Context()),
		linkID,
		period,
	)
	if err != nil {
		core.Error(w, err, resourceName)
		return
	}

	core.OK(w, ToAnalyticsResponse(link, period, summary))
}

// linkIDParam rejects ids that are not UUIDs as not found, before they reach
// the database.
func linkIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "linkID")
	if _, err := uuid.Parse(id); err != nil {
		core.NotFound(w, resourceName)
		return "", false
	}
	return id, true
}

func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}
