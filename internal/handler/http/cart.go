package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/m4mynk/luxor-frontend/internal/cart"
	"github.com/m4mynk/luxor-frontend/internal/domain"
	"github.com/m4mynk/luxor-frontend/pkg/httputil"
	"github.com/m4mynk/luxor-frontend/pkg/validator"
)

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	service *cart.Service
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(svc *cart.Service, logger *slog.Logger) *CartHandler {
	return &CartHandler{service: svc, logger: logger}
}

// AddItemRequest is the JSON body for adding an item to the cart. Either
// size or selected_size must resolve; color is optional.
type AddItemRequest struct {
	ProductID     string  `json:"product_id" validate:"required"`
	Name          string  `json:"name" validate:"required,min=1,max=500"`
	Price         float64 `json:"price" validate:"gte=0"`
	Size          string  `json:"size"`
	SelectedSize  string  `json:"selected_size"`
	Color         string  `json:"color"`
	SelectedColor string  `json:"selected_color"`
	Image         string  `json:"image"`
	Category      string  `json:"category"`
	Quantity      int     `json:"quantity" validate:"gte=0"`
}

// UpdateVariantRequest is the JSON body for rewriting a line's size or color.
type UpdateVariantRequest struct {
	Value string `json:"value"`
}

// Get handles GET /api/v1/cart
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
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

// AddItem handles POST /api/v1/cart/items. The mutation is debounced, so a
// 202 acknowledges scheduling rather than completion.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	input := domain.AddItemInput{
		ProductID:     req.ProductID,
		Name:          req.Name,
		Price:         req.Price,
		Size:          req.Size,
		SelectedSize:  req.SelectedSize,
		Color:         req.Color,
		SelectedColor: req.SelectedColor,
		Image:         req.Image,
		Category:      req.Category,
	}

	if err := h.service.Add(r.Context(), sid, input, req.Quantity); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusAccepted, httputil.Response{Data: map[string]string{"status": "scheduled"}})
}

// RemoveItem handles DELETE /api/v1/cart/items/{productId}?size=&color=
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	productID := chi.URLParam(r, "productId")
	size := r.URL.Query().Get("size")
	color := r.URL.Query().Get("color")

	if err := h.service.Remove(r.Context(), sid, productID, size, color); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.respondWithCart(w, r, sid)
}

// Increase handles POST /api/v1/cart/items/{productId}/increase?size=&color=
func (h *CartHandler) Increase(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, h.service.Increase)
}

// Decrease handles POST /api/v1/cart/items/{productId}/decrease?size=&color=
func (h *CartHandler) Decrease(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, h.service.Decrease)
}

func (h *CartHandler) adjust(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, sessionID, productID, size, color string) error) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	productID := chi.URLParam(r, "productId")
	size := r.URL.Query().Get("size")
	color := r.URL.Query().Get("color")

	if err := op(r.Context(), sid, productID, size, color); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.respondWithCart(w, r, sid)
}

// UpdateSize handles PUT /api/v1/cart/items/{productId}/size
func (h *CartHandler) UpdateSize(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req UpdateVariantRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if err := h.service.UpdateSize(r.Context(), sid, chi.URLParam(r, "productId"), req.Value); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.respondWithCart(w, r, sid)
}

// UpdateColor handles PUT /api/v1/cart/items/{productId}/color
func (h *CartHandler) UpdateColor(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req UpdateVariantRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if err := h.service.UpdateColor(r.Context(), sid, chi.URLParam(r, "productId"), req.Value); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.respondWithCart(w, r, sid)
}

// Clear handles DELETE /api/v1/cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	if err := h.service.Clear(r.Context(), sid); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "cleared"}})
}

func (h *CartHandler) respondWithCart(w http.ResponseWriter, r *http.Request, sid string) {
	items, err := h.service.Get(r.Context(), sid)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: items})
}
