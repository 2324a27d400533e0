package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/m4mynk/luxor-frontend/internal/checkout"
	"github.com/m4mynk/luxor-frontend/internal/domain"
	"github.com/m4mynk/luxor-frontend/internal/session"
	"github.com/m4mynk/luxor-frontend/pkg/httputil"
	"github.com/m4mynk/luxor-frontend/pkg/validator"
)

// CheckoutHandler handles HTTP requests for checkout endpoints.
type CheckoutHandler struct {
	service *checkout.Service
	session *session.Service
	logger  *slog.Logger
}

// NewCheckoutHandler creates a new checkout HTTP handler.
func NewCheckoutHandler(svc *checkout.Service, sess *session.Service, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{service: svc, session: sess, logger: logger}
}

// ApplyCouponRequest is the JSON body for coupon validation.
type ApplyCouponRequest struct {
	Code                string  `json:"code" validate:"required"`
	TotalBeforeDiscount float64 `json:"total_before_discount" validate:"gte=0"`
}

// ApplyCouponResponse carries the server's coupon verdict.
type ApplyCouponResponse struct {
	Coupon     domain.Coupon `json:"coupon"`
	Discount   float64       `json:"discount"`
	FinalPrice float64       `json:"final_price"`
}

// BuyNowRequest is the JSON body for the buy-now snapshot.
type BuyNowRequest struct {
	AddItemRequest
}

// PaymentOrderRequest is the JSON body for creating a payment-gateway order.
type PaymentOrderRequest struct {
	Amount float64 `json:"amount" validate:"gt=0"`
}

// Quote handles POST /api/v1/checkout/quote
func (h *CheckoutHandler) Quote(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req checkout.QuoteInput
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	result, err := h.service.Quote(r.Context(), sid, req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// ApplyCoupon handles POST /api/v1/checkout/coupon
func (h *CheckoutHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	if _, ok := sessionID(w, r); !ok {
		return
	}

	var req ApplyCouponRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	result, err := h.service.ApplyCoupon(r.Context(), req.Code, req.TotalBeforeDiscount)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: ApplyCouponResponse{
		Coupon:     result.Coupon,
		Discount:   result.Discount,
		FinalPrice: result.FinalPrice,
	}})
}

// PlaceOrder handles POST /api/v1/checkout/orders
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req checkout.PlaceOrderInput
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	result, err := h.service.PlaceOrder(r.Context(), sid, req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: result})
}

// BuyNow handles POST /api/v1/checkout/buy-now, snapshotting a single item
// that bypasses the cart.
func (h *CheckoutHandler) BuyNow(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req BuyNowRequest
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

	if err := h.session.SetBuyNow(r.Context(), sid, input, req.Quantity); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: map[string]string{"status": "saved"}})
}

// CreatePaymentOrder handles POST /api/v1/checkout/payment/order
func (h *CheckoutHandler) CreatePaymentOrder(w http.ResponseWriter, r *http.Request) {
	if _, ok := sessionID(w, r); !ok {
		return
	}

	var req PaymentOrderRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	order, err := h.service.CreatePaymentOrder(r.Context(), req.Amount)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: order})
}

// VerifyPayment handles POST /api/v1/checkout/payment/verify
func (h *CheckoutHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req checkout.VerifyPaymentInput
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.service.VerifyPayment(r.Context(), sid, req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "verified"}})
}

// CancelOrder handles POST /api/v1/orders/{orderId}/cancel
func (h *CheckoutHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	if _, ok := sessionID(w, r); !ok {
		return
	}

	if err := h.service.CancelOrder(r.Context(), chi.URLParam(r, "orderId")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "cancelled"}})
}
