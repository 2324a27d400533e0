package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/m4mynk/luxor-frontend/internal/commerce"
	"github.com/m4mynk/luxor-frontend/internal/domain"
	"github.com/m4mynk/luxor-frontend/internal/event"
	apperrors "github.com/m4mynk/luxor-frontend/pkg/errors"
)

// CartSource reads and clears the live cart.
type CartSource interface {
	Get(ctx context.Context, sessionID string) ([]domain.LineItem, error)
	Clear(ctx context.Context, sessionID string) error
}

// SnapshotSource reads and removes the buy-now snapshot.
type SnapshotSource interface {
	GetBuyNow(ctx context.Context, sessionID string) ([]domain.LineItem, error)
	RemoveBuyNow(ctx context.Context, sessionID string) error
}

// Service orchestrates checkout against the commerce API. It only reads the
// cart; the one item list it owns is the transient buy-now snapshot handled
// through SnapshotSource. All pricing authority stays with the remote API.
type Service struct {
	cart     CartSource
	snapshot SnapshotSource
	api      commerce.API
	producer *event.Producer
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates the checkout orchestrator.
func NewService(cart CartSource, snapshot SnapshotSource, api commerce.API, producer *event.Producer, logger *slog.Logger) *Service {
	return &Service{
		cart:     cart,
		snapshot: snapshot,
		api:      api,
		producer: producer,
		logger:   logger,
		now:      time.Now,
	}
}

// LoadItems returns the active item source: the buy-now snapshot when the
// shopper bypassed the cart, otherwise the live cart.
func (s *Service) LoadItems(ctx context.Context, sessionID string, buyNow bool) ([]domain.LineItem, error) {
	if buyNow {
		return s.snapshot.GetBuyNow(ctx, sessionID)
	}
	return s.cart.Get(ctx, sessionID)
}

// QuoteInput selects the item source and carries the last applied coupon
// result, if any.
type QuoteInput struct {
	BuyNow         bool                  `json:"buy_now"`
	ShippingOption domain.ShippingOption `json:"shipping_option" validate:"omitempty,oneof=standard express"`
	CouponApplied  bool                  `json:"coupon_applied"`
	Discount       float64               `json:"discount"`
	FinalPrice     float64               `json:"final_price"`
}

// QuoteResult is the priced checkout view.
type QuoteResult struct {
	Items []domain.LineItem `json:"items"`
	Quote domain.Quote      `json:"quote"`
}

// Quote prices the active item list.
func (s *Service) Quote(ctx context.Context, sessionID string, input QuoteInput) (*QuoteResult, error) {
	items, err := s.LoadItems(ctx, sessionID, input.BuyNow)
	if err != nil {
		return nil, err
	}

	option := input.ShippingOption
	if option == "" {
		option = domain.ShippingStandard
	}

	return &QuoteResult{
		Items: items,
		Quote: domain.ComputeQuote(items, option, input.Discount, input.FinalPrice, input.CouponApplied, s.now()),
	}, nil
}

// ApplyCoupon validates the code against the commerce API. On success the
// result replaces any previously applied coupon on the caller's side; on
// failure the server's message is surfaced and the caller clears its coupon
// state.
func (s *Service) ApplyCoupon(ctx context.Context, code string, totalBeforeDiscount float64) (*commerce.CouponResult, error) {
	if code == "" {
		return nil, apperrors.InvalidInput("coupon code is required")
	}

	result, err := s.api.ValidateCoupon(ctx, code, totalBeforeDiscount)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "coupon applied",
		slog.String("code", result.Coupon.Code),
		slog.String("type", result.Coupon.DiscountType),
		slog.Float64("final_price", result.FinalPrice),
	)
	return result, nil
}

// PlaceOrderInput is the order submission.
type PlaceOrderInput struct {
	BuyNow         bool                  `json:"buy_now"`
	ShippingOption domain.ShippingOption `json:"shipping_option" validate:"omitempty,oneof=standard express"`
	PaymentMethod  domain.PaymentMethod  `json:"payment_method" validate:"required,oneof=COD Online"`
	Address        commerce.Address      `json:"address"`
	Coupon         *domain.Coupon        `json:"coupon,omitempty"`
}

// PlaceOrderResult carries the created order. PaymentPending is true on the
// online branch: the source item list stays intact until the payment is
// verified.
type PlaceOrderResult struct {
	Order          *commerce.Order `json:"order"`
	PaymentPending bool            `json:"payment_pending"`
}

// PlaceOrder validates, saves the shipping address, distributes the applied
// coupon across the items, and submits the order. Cash-on-delivery clears
// the source list immediately; online payment leaves it for VerifyPayment.
func (s *Service) PlaceOrder(ctx context.Context, sessionID string, input PlaceOrderInput) (*PlaceOrderResult, error) {
	items, err := s.LoadItems(ctx, sessionID, input.BuyNow)
	if err != nil {
		return nil, err
	}

	// Guards run before any network call.
	if len(items) == 0 {
		return nil, apperrors.InvalidInput("no items to order")
	}
	if productID := domain.MissingSize(items); productID != "" {
		return nil, apperrors.InvalidInput(fmt.Sprintf("select a size for product %s", productID))
	}
	if !domain.ValidPhone(input.Address.Phone) {
		return nil, apperrors.InvalidInput("phone number must be 10 digits")
	}

	if err := s.api.UpdateAddress(ctx, input.Address); err != nil {
		return nil, fmt.Errorf("save shipping address: %w", err)
	}

	// The distribution is recomputed fresh from the applied coupon on every
	// submission.
	orderItems := domain.DistributeDiscount(items, input.Coupon)

	method := commerce.PaymentMethodCOD
	if input.PaymentMethod == domain.PaymentOnline {
		method = commerce.PaymentMethodOnline
	}

	couponCode := ""
	if input.Coupon != nil {
		couponCode = input.Coupon.Code
	}

	order, err := s.api.CreateOrder(ctx, commerce.OrderRequest{
		OrderItems:        orderItems,
		PaymentMethod:     method,
		ShippingAddress:   input.Address,
		EstimatedDelivery: domain.EstimatedDelivery(s.now(), input.ShippingOption),
		CouponCode:        couponCode,
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "order placed",
		slog.String("session_id", sessionID),
		slog.String("order_id", order.ID),
		slog.String("payment_method", method),
		slog.Float64("total_price", order.TotalPrice),
	)

	if err := s.producer.PublishOrderPlaced(ctx, event.OrderPlacedData{
		SessionID:     sessionID,
		OrderID:       order.ID,
		PaymentMethod: method,
		TotalPrice:    order.TotalPrice,
		CouponCode:    couponCode,
		ItemCount:     len(orderItems),
	}); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.placed event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	if input.PaymentMethod == domain.PaymentOnline {
		return &PlaceOrderResult{Order: order, PaymentPending: true}, nil
	}

	s.clearSource(ctx, sessionID, input.BuyNow)
	return &PlaceOrderResult{Order: order, PaymentPending: false}, nil
}

// CreatePaymentOrder opens a payment-gateway order for the given amount.
func (s *Service) CreatePaymentOrder(ctx context.Context, amount float64) (*commerce.PaymentOrder, error) {
	if amount <= 0 {
		return nil, apperrors.InvalidInput("amount must be positive")
	}
	return s.api.CreatePaymentOrder(ctx, amount)
}

// VerifyPaymentInput is the gateway callback payload.
type VerifyPaymentInput struct {
	BuyNow         bool   `json:"buy_now"`
	GatewayOrderID string `json:"gateway_order_id" validate:"required"`
	PaymentID      string `json:"payment_id" validate:"required"`
	Signature      string `json:"signature" validate:"required"`
}

// VerifyPayment confirms the gateway signature with the commerce API and, on
// success, performs the deferred clear of the source item list.
func (s *Service) VerifyPayment(ctx context.Context, sessionID string, input VerifyPaymentInput) error {
	if err := s.api.VerifyPayment(ctx, input.GatewayOrderID, input.PaymentID, input.Signature); err != nil {
		return err
	}

	s.clearSource(ctx, sessionID, input.BuyNow)

	s.logger.InfoContext(ctx, "payment verified",
		slog.String("session_id", sessionID),
		slog.String("gateway_order_id", input.GatewayOrderID),
	)
	return nil
}

// CancelOrder forwards the cancellation to the commerce API.
func (s *Service) CancelOrder(ctx context.Context, orderID string) error {
	if orderID == "" {
		return apperrors.InvalidInput("order id is required")
	}
	return s.api.CancelOrder(ctx, orderID)
}

// clearSource empties whichever item list fed the order. The order already
// exists upstream, so a failing clear is logged rather than failing the call.
func (s *Service) clearSource(ctx context.Context, sessionID string, buyNow bool) {
	var err error
	if buyNow {
		err = s.snapshot.RemoveBuyNow(ctx, sessionID)
	} else {
		err = s.cart.Clear(ctx, sessionID)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to clear order source",
			slog.String("session_id", sessionID),
			slog.Bool("buy_now", buyNow),
			slog.String("error", err.Error()),
		)
	}
}
