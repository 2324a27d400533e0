package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/m4mynk/luxor-frontend/internal/domain"
	"github.com/m4mynk/luxor-frontend/internal/storage"
	apperrors "github.com/m4mynk/luxor-frontend/pkg/errors"
)

// maxRecentlyViewed bounds the recently viewed list.
const maxRecentlyViewed = 8

// ViewedProduct is one entry in the recently viewed list.
type ViewedProduct struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image,omitempty"`
}

// Service owns the small per-session state beyond the cart and wishlist:
// the buy-now snapshot, the recently viewed list, and the post-login
// redirect target.
type Service struct {
	store  storage.Store
	logger *slog.Logger
}

// NewService creates the session extras service.
func NewService(store storage.Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// SetBuyNow writes the single-item snapshot used when a product bypasses the
// cart for immediate checkout.
func (s *Service) SetBuyNow(ctx context.Context, sessionID string, input domain.AddItemInput, qty int) error {
	item, err := input.Resolve()
	if err != nil {
		return apperrors.InvalidInput(err.Error())
	}
	if qty < 1 {
		qty = 1
	}
	item.Quantity = qty

	if err := s.store.SetJSON(ctx, storage.BuyNowKey(sessionID), []domain.LineItem{item}); err != nil {
		return fmt.Errorf("save buy-now snapshot: %w", err)
	}

	s.logger.InfoContext(ctx, "buy-now snapshot saved",
		slog.String("session_id", sessionID),
		slog.String("product_id", item.ProductID),
	)
	return nil
}

// GetBuyNow returns the snapshot, or an empty list when none is set.
func (s *Service) GetBuyNow(ctx context.Context, sessionID string) ([]domain.LineItem, error) {
	var items []domain.LineItem
	found, err := s.store.GetJSON(ctx, storage.BuyNowKey(sessionID), &items)
	if err != nil {
		return nil, err
	}
	if !found || items == nil {
		return []domain.LineItem{}, nil
	}
	return items, nil
}

// RemoveBuyNow discards the snapshot. Called once the order it fed is placed.
func (s *Service) RemoveBuyNow(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, storage.BuyNowKey(sessionID))
}

// RecordView prepends the product to the recently viewed list, de-duplicated
// by product id and capped at eight entries, most recent first.
func (s *Service) RecordView(ctx context.Context, sessionID string, product ViewedProduct) error {
	if product.ProductID == "" {
		return apperrors.InvalidInput("product id is required")
	}

	var viewed []ViewedProduct
	if _, err := s.store.GetJSON(ctx, storage.RecentlyViewedKey(sessionID), &viewed); err != nil {
		s.logger.WarnContext(ctx, "recently viewed blob unreadable, resetting",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
		viewed = nil
	}

	next := make([]ViewedProduct, 0, maxRecentlyViewed)
	next = append(next, product)
	for _, v := range viewed {
		if v.ProductID == product.ProductID {
			continue
		}
		next = append(next, v)
		if len(next) == maxRecentlyViewed {
			break
		}
	}

	return s.store.SetJSON(ctx, storage.RecentlyViewedKey(sessionID), next)
}

// RecentlyViewed returns the list, most recent first.
func (s *Service) RecentlyViewed(ctx context.Context, sessionID string) ([]ViewedProduct, error) {
	var viewed []ViewedProduct
	found, err := s.store.GetJSON(ctx, storage.RecentlyViewedKey(sessionID), &viewed)
	if err != nil {
		return nil, err
	}
	if !found || viewed == nil {
		return []ViewedProduct{}, nil
	}
	return viewed, nil
}

// SetRedirect stores where to send the shopper after they log in.
func (s *Service) SetRedirect(ctx context.Context, sessionID, target string) error {
	if target == "" {
		return apperrors.InvalidInput("redirect target is required")
	}
	return s.store.SetJSON(ctx, storage.RedirectKey(sessionID), target)
}

// ClaimRedirect returns the stored target and clears it, so it is honored
// at most once.
func (s *Service) ClaimRedirect(ctx context.Context, sessionID string) (string, error) {
	var target string
	found, err := s.store.GetJSON(ctx, storage.RedirectKey(sessionID), &target)
	if err != nil {
		return "", err
	}
	if !found {
		return "", nil
	}

	if err := s.store.Delete(ctx, storage.RedirectKey(sessionID)); err != nil {
		return "", err
	}
	return target, nil
}
