package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/m4mynk/luxor-frontend/internal/domain"
	pkgkafka "github.com/m4mynk/luxor-frontend/pkg/kafka"
)

// Kafka topics for storefront activity events.
const (
	TopicCartUpdated     = "storefront.cart.updated"
	TopicCartCleared     = "storefront.cart.cleared"
	TopicWishlistUpdated = "storefront.wishlist.updated"
	TopicOrderPlaced     = "storefront.order.placed"
)

// Source identifier for events originating from this service.
const SourceStorefront = "storefront-session"

// Publisher publishes storefront events. Satisfied by the Kafka producer;
// tests substitute a recorder.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	SessionID string            `json:"session_id"`
	Items     []domain.LineItem `json:"items"`
	Subtotal  float64           `json:"subtotal"`
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	SessionID string `json:"session_id"`
}

// WishlistUpdatedData is the payload for a wishlist.updated event.
type WishlistUpdatedData struct {
	SessionID string                `json:"session_id"`
	Items     []domain.WishlistItem `json:"items"`
}

// OrderPlacedData is the payload for an order.placed event.
type OrderPlacedData struct {
	SessionID     string  `json:"session_id"`
	OrderID       string  `json:"order_id"`
	PaymentMethod string  `json:"payment_method"`
	TotalPrice    float64 `json:"total_price"`
	CouponCode    string  `json:"coupon_code,omitempty"`
	ItemCount     int     `json:"item_count"`
}

// Producer publishes storefront activity events to Kafka.
type Producer struct {
	kafka  Publisher
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishCartUpdated publishes a cart.updated event.
func (p *Producer) PublishCartUpdated(ctx context.Context, sessionID string, items []domain.LineItem) error {
	data := CartUpdatedData{
		SessionID: sessionID,
		Items:     items,
		Subtotal:  domain.Subtotal(items),
	}

	event, err := pkgkafka.NewEvent(TopicCartUpdated, sessionID, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartUpdated, event); err != nil {
		return fmt.Errorf("publish cart.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.updated event",
		slog.String("session_id", sessionID),
		slog.Int("items", len(items)),
	)

	return nil
}

// PublishCartCleared publishes a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context, sessionID string) error {
	event, err := pkgkafka.NewEvent(TopicCartCleared, sessionID, SourceStorefront, CartClearedData{SessionID: sessionID})
	if err != nil {
		return fmt.Errorf("create cart.cleared event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartCleared, event); err != nil {
		return fmt.Errorf("publish cart.cleared event: %w", err)
	}

	return nil
}

// PublishWishlistUpdated publishes a wishlist.updated event.
func (p *Producer) PublishWishlistUpdated(ctx context.Context, sessionID string, items []domain.WishlistItem) error {
	data := WishlistUpdatedData{SessionID: sessionID, Items: items}

	event, err := pkgkafka.NewEvent(TopicWishlistUpdated, sessionID, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create wishlist.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicWishlistUpdated, event); err != nil {
		return fmt.Errorf("publish wishlist.updated event: %w", err)
	}

	return nil
}

// PublishOrderPlaced publishes an order.placed event.
func (p *Producer) PublishOrderPlaced(ctx context.Context, data OrderPlacedData) error {
	event, err := pkgkafka.NewEvent(TopicOrderPlaced, data.SessionID, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create order.placed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderPlaced, event); err != nil {
		return fmt.Errorf("publish order.placed event: %w", err)
	}

	p.logger.InfoContext(ctx, "published order.placed event",
		slog.String("session_id", data.SessionID),
		slog.String("order_id", data.OrderID),
	)

	return nil
}
