package cart

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/m4mynk/luxor-frontend/internal/domain"
	"github.com/m4mynk/luxor-frontend/internal/event"
	"github.com/m4mynk/luxor-frontend/internal/storage"
	"github.com/m4mynk/luxor-frontend/internal/task"
	apperrors "github.com/m4mynk/luxor-frontend/pkg/errors"
)

// Service is the sole writer of cart line items. Every mutation persists the
// full list and publishes a cart event; reads hydrate from the store and
// default to an empty list when the blob is absent or unparseable.
type Service struct {
	store     storage.Store
	producer  *event.Producer
	debouncer *task.Debouncer
	logger    *slog.Logger
}

// NewService creates the cart service.
func NewService(store storage.Store, producer *event.Producer, debouncer *task.Debouncer, logger *slog.Logger) *Service {
	return &Service{
		store:     store,
		producer:  producer,
		debouncer: debouncer,
		logger:    logger,
	}
}

// Get returns the session's cart lines.
func (s *Service) Get(ctx context.Context, sessionID string) ([]domain.LineItem, error) {
	return s.load(ctx, sessionID)
}

// Add validates and normalizes the item, then schedules the merge behind the
// debounce window. Rapid repeated adds of the same line collapse into one
// applied mutation. Validation failures reject immediately, before anything
// is scheduled.
func (s *Service) Add(ctx context.Context, sessionID string, input domain.AddItemInput, qty int) error {
	item, err := input.Resolve()
	if err != nil {
		s.logger.WarnContext(ctx, "rejected cart add",
			slog.String("session_id", sessionID),
			slog.String("product_id", input.ProductID),
			slog.String("error", err.Error()),
		)
		return apperrors.InvalidInput(err.Error())
	}

	// The merge runs after the request returns, so detach cancellation but
	// keep context values for logging.
	applyCtx := context.WithoutCancel(ctx)
	key := debounceKey(sessionID, item)

	s.debouncer.Schedule(key, func() {
		if err := s.mutate(applyCtx, sessionID, func(items []domain.LineItem) []domain.LineItem {
			return domain.AddLine(items, item, qty)
		}); err != nil {
			s.logger.ErrorContext(applyCtx, "debounced cart add failed",
				slog.String("session_id", sessionID),
				slog.String("product_id", item.ProductID),
				slog.String("error", err.Error()),
			)
		}
	})

	return nil
}

// Remove deletes the line matching the exact identity key.
func (s *Service) Remove(ctx context.Context, sessionID, productID, size, color string) error {
	return s.mutate(ctx, sessionID, func(items []domain.LineItem) []domain.LineItem {
		return domain.RemoveLine(items, productID, size, color)
	})
}

// Increase bumps the matching line's quantity by one.
func (s *Service) Increase(ctx context.Context, sessionID, productID, size, color string) error {
	return s.mutate(ctx, sessionID, func(items []domain.LineItem) []domain.LineItem {
		return domain.IncreaseLine(items, productID, size, color)
	})
}

// Decrease lowers the matching line's quantity by one, never below 1.
func (s *Service) Decrease(ctx context.Context, sessionID, productID, size, color string) error {
	return s.mutate(ctx, sessionID, func(items []domain.LineItem) []domain.LineItem {
		return domain.DecreaseLine(items, productID, size, color)
	})
}

// UpdateSize rewrites the size on lines matching the product id.
func (s *Service) UpdateSize(ctx context.Context, sessionID, productID, size string) error {
	if size == "" {
		return apperrors.InvalidInput("size is required")
	}
	return s.mutate(ctx, sessionID, func(items []domain.LineItem) []domain.LineItem {
		return domain.UpdateLineSize(items, productID, size)
	})
}

// UpdateColor rewrites the color on lines matching the product id.
func (s *Service) UpdateColor(ctx context.Context, sessionID, productID, color string) error {
	return s.mutate(ctx, sessionID, func(items []domain.LineItem) []domain.LineItem {
		return domain.UpdateLineColor(items, productID, color)
	})
}

// Clear empties the cart and publishes cart.cleared.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	if err := s.store.SetJSON(ctx, storage.CartKey(sessionID), []domain.LineItem{}); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	if err := s.producer.PublishCartCleared(ctx, sessionID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart cleared", slog.String("session_id", sessionID))
	return nil
}

// mutate runs one read-modify-write cycle: hydrate, apply the reducer,
// persist, publish cart.updated.
func (s *Service) mutate(ctx context.Context, sessionID string, fn func([]domain.LineItem) []domain.LineItem) error {
	items, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}

	next := fn(items)

	if err := s.store.SetJSON(ctx, storage.CartKey(sessionID), next); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}

	if err := s.producer.PublishCartUpdated(ctx, sessionID, next); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	return nil
}

func (s *Service) load(ctx context.Context, sessionID string) ([]domain.LineItem, error) {
	var items []domain.LineItem
	found, err := s.store.GetJSON(ctx, storage.CartKey(sessionID), &items)
	if err != nil {
		// A corrupt blob hydrates as an empty cart rather than wedging the
		// session permanently.
		s.logger.WarnContext(ctx, "cart blob unreadable, treating as empty",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
		return []domain.LineItem{}, nil
	}
	if !found || items == nil {
		return []domain.LineItem{}, nil
	}
	return items, nil
}

func debounceKey(sessionID string, item domain.LineItem) string {
	return strings.Join([]string{sessionID, item.ProductID, item.Size, item.Color}, "|")
}
