// AngelaMos | 2026
// handler.go

package redirect

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/linkbio/internal/analytics"
	"github.com/carterperez-dev/linkbio/internal/core"
	"github.com/carterperez-dev/linkbio/internal/middleware"
)

const resourceName = "link"

type UnlockRequest struct {
	Password string `json:"password" validate:"required"`
}

type PasswordRequiredResponse struct {
	RequiresPassword bool   `json:"requiresPassword"`
	Message          string `json:"message"`
}

type UnlockResponse struct {
	OriginalURL string `json:"originalUrl"`
}

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

// RegisterRoutes mounts the public redirect endpoints. They match any single
// path segment, so register them after every other top-level route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/{shortCode}", h.Resolve)
	r.Post("/{shortCode}", h.Unlock)
}

func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Resolve(
		r.Context(),
		chi.URLParam(r, "shortCode"),
		visitFromRequest(r),
	)
	if err != nil {
		core.Error(w, err, resourceName)
		return
	}

	if res.RequiresPassword {
		core.OK(w, PasswordRequiredResponse{
			RequiresPassword: true,
			Message:          "This link is password protected",
		})
		return
	}

	http.Redirect(w, r, res.Destination, http.StatusFound)
}

func (h *Handler) Unlock(w http.ResponseWriter, r *http.Request) {
	var req UnlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	res, err := h.service.Unlock(
		r.Context(),
		chi.URLParam(r, "shortCode"),
		req.Password,
		visitFromRequest(r),
	)
	if err != nil {
		core.Error(w, err, resourceName)
		return
	}

	core.OK(w, UnlockResponse{OriginalURL: res.Destination})
}

func visitFromRequest(r *http.Request) analytics.Visit {
	return analytics.Visit{
		IPAddress: middleware.ClientIP(r),
		UserAgent: r.UserAgent(),
		Referer:   r.Referer(),
		Location:  middleware.Country(r),
	}
}
