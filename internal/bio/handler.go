// AngelaMos | 2026
// handler.go

package bio

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/linkbio/internal/analytics"
	"github.com/carterperez-dev/linkbio/internal/core"
	"github.com/carterperez-dev/linkbio/internal/middleware"
)

const (
	resourceName = "bio page"

	imageField    = "image"
	maxImageBytes = 5 << 20
	sniffLen      = 512
)

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
	r.Route("/bio", func(r chi.Router) {
		r.Get("/public/{username}", h.Public)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)

			r.Post("/", h.Create)
			r.Get("/", h.Get)
			r.Put("/", h.Update)
			r.Delete("/", h.Delete)
			r.Get("/stats", h.Stats)
			r.Post("/image", h.UploadImage)
		})
	})

	r.With(authenticator).Get("/analytics/bio", h.Analytics)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	page, err := h.service.Create(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		core.Error(w, err, resourceName)
		return
	}

	core.Created(w, ToBioPageResponse(page))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.Get(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.Error(w, err, resourceName)
		return
	}

	core.OK(w, ToBioPageResponse(page))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateBioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	page, err := h.service.Update(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		core.Error(w, err, resourceName)
		return
	}

	core.OK(w, ToBioPageResponse(page))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), middleware.GetUserID(r.Context())); err != nil {
		core.Error(w, err, resourceName)
		return
	}

	core.OK(w, MessageResponse{Message: "Bio page deleted successfully"})
}

func (h *Handler) Public(w http.ResponseWriter, r *http.Request) {
	username := strings.ToLower(chi.URLParam(r, "username"))

	page, owner, err := h.service.View(r.Context(), username, analytics.Visit{
		IPAddress: middleware.ClientIP(r),
		UserAgent: r.UserAgent(),
		Referer:   r.Referer(),
		Location:  middleware.Country(r),
	})
	if err != nil {
		core.Error(w, err, resourceName)
		return
	}

	core.OK(w, ToPublicBioResponse(page, owner.Username))
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	page, events, err := h.service.Stats(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.Error(w, err, resourceName)
		return
	}

	core.OK(w, ToStatsResponse(page, events))
}

func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	period := analytics.ParsePeriod(r.URL.Query().Get("period"))

	page, summary, err := h.service.Analytics(
		r.Context(),
		middleware.GetUserID(r.Context()),
		period,
	)
	if err != nil {
		core.Error(w, err, resourceName)
		return
	}

	core.OK(w, ToAnalyticsResponse(page, period, summary))
}

func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)

	file, _, err := r.FormFile(imageField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			core.BadRequest(w, "image must be 5MB or smaller")
			return
		}
		core.BadRequest(w, "image file is required")
		return
	}
	defer file.Close() //nolint:errcheck

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		core.BadRequest(w, "could not read image")
		return
	}
	head = head[:n]

	if !strings.HasPrefix(http.DetectContentType(head), "image/") {
		core.BadRequest(w, "only image files are allowed")
		return
	}

	page, err := h.service.UploadImage(
		r.Context(),
		middleware.GetUserID(r.Context()),
		io.MultiReader(bytes.NewReader(head), file),
	)
	if err != nil {
		core.Error(w, err, resourceName)
		return
	}

	core.OK(w, ImageResponse{URL: page.ProfileImage, BioPage: ToBioPageResponse(page)})
}
