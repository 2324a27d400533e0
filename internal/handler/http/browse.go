package http

import (
	"log/slog"
	"net/http"

	"github.com/m4mynk/luxor-frontend/internal/session"
	"github.com/m4mynk/luxor-frontend/pkg/httputil"
	"github.com/m4mynk/luxor-frontend/pkg/validator"
)

// BrowseHandler handles recently viewed products and the post-login
// redirect target.
type BrowseHandler struct {
	service *session.Service
	logger  *slog.Logger
}

// NewBrowseHandler creates a new browse HTTP handler.
func NewBrowseHandler(svc *session.Service, logger *slog.Logger) *BrowseHandler {
	return &BrowseHandler{service: svc, logger: logger}
}

// RecordViewRequest is the JSON body for recording a product view.
type RecordViewRequest struct {
	ProductID string  `json:"product_id" validate:"required"`
	Name      string  `json:"name"`
	Price     float64 `json:"price" validate:"gte=0"`
	Image     string  `json:"image"`
}

// RedirectRequest is the JSON body for the post-login redirect target.
type RedirectRequest struct {
	Target string `json:"target" validate:"required"`
}

// RecentlyViewed handles GET /api/v1/browse/recently-viewed
func (h *BrowseHandler) RecentlyViewed(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	viewed, err := h.service.RecentlyViewed(r.Context(), sid)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: viewed})
}

// RecordView handles POST /api/v1/browse/recently-viewed
func (h *BrowseHandler) RecordView(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req RecordViewRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product := session.ViewedProduct{
		ProductID: req.ProductID,
		Name:      req.Name,
		Price:     req.Price,
		Image:     req.Image,
	}

	if err := h.service.RecordView(r.Context(), sid, product); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "recorded"}})
}

// SetRedirect handles PUT /api/v1/session/redirect
func (h *BrowseHandler) SetRedirect(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req RedirectRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.service.SetRedirect(r.Context(), sid, req.Target); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "saved"}})
}

// ClaimRedirect handles POST /api/v1/session/redirect/claim. The target is
// returned once and cleared.
func (h *BrowseHandler) ClaimRedirect(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	target, err := h.service.ClaimRedirect(r.Context(), sid)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"target": target}})
}
