package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/m4mynk/luxor-frontend/internal/domain"
	"github.com/m4mynk/luxor-frontend/internal/wishlist"
	"github.com/m4mynk/luxor-frontend/pkg/httputil"
	"github.com/m4mynk/luxor-frontend/pkg/validator"
)

// WishlistHandler handles HTTP requests for wishlist endpoints.
type WishlistHandler struct {
	service *wishlist.Service
	logger  *slog.Logger
}

// NewWishlistHandler creates a new wishlist HTTP handler.
func NewWishlistHandler(svc *wishlist.Service, logger *slog.Logger) *WishlistHandler {
	return &WishlistHandler{service: svc, logger: logger}
}

// AddWishlistRequest is the JSON body for saving a product.
type AddWishlistRequest struct {
	ProductID    string  `json:"product_id" validate:"required"`
	Name         string  `json:"name" validate:"required,min=1,max=500"`
	Price        float64 `json:"price" validate:"gte=0"`
	Image        string  `json:"image"`
	CountInStock int     `json:"count_in_stock" validate:"gte=0"`
	Active       bool    `json:"active"`
}

// Get handles GET /api/v1/wishlist
func (h *WishlistHandler) Get(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	items, err := h.service.Get(r.Context(), sid)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: items})
}

// AddItem handles POST /api/v1/wishlist/items
func (h *WishlistHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req AddWishlistRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	item := domain.WishlistItem{
		ProductID:    req.ProductID,
		Name:         req.Name,
		Price:        req.Price,
		Image:        req.Image,
		CountInStock: req.CountInStock,
		Active:       req.Active,
	}

	if err := h.service.Add(r.Context(), sid, item); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.respondWithWishlist(w, r, sid)
}

// RemoveItem handles DELETE /api/v1/wishlist/items/{productId}
func (h *WishlistHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	if err := h.service.Remove(r.Context(), sid, chi.URLParam(r, "productId")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.respondWithWishlist(w, r, sid)
}

// Reconcile handles POST /api/v1/wishlist/reconcile, forcing a stock refresh
// outside the background interval.
func (h *WishlistHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	items, err := h.service.Reconcile(r.Context(), sid)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: items})
}

func (h *WishlistHandler) respondWithWishlist(w http.ResponseWriter, r *http.Request, sid string) {
	items, err := h.service.Get(r.Context(), sid)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: items})
}
