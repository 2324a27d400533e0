package wishlist

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/m4mynk/luxor-frontend/internal/domain"
	"github.com/m4mynk/luxor-frontend/internal/event"
	"github.com/m4mynk/luxor-frontend/internal/storage"
	"github.com/m4mynk/luxor-frontend/internal/task"
	apperrors "github.com/m4mynk/luxor-frontend/pkg/errors"
)

// maxStockLookups bounds the reconcile fan-out per session.
const maxStockLookups = 8

// StockAPI is the slice of the commerce API the wishlist needs.
type StockAPI interface {
	Stock(ctx context.Context, productID string) (domain.StockStatus, error)
}

// Service is the sole writer of wishlist items. Entries are keyed by product
// id alone; stock fields are refreshed by reconciliation, everything else
// stays as snapshotted at add time.
type Service struct {
	store    storage.Store
	stock    StockAPI
	producer *event.Producer
	logger   *slog.Logger
}

// NewService creates the wishlist service.
func NewService(store storage.Store, stock StockAPI, producer *event.Producer, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		stock:    stock,
		producer: producer,
		logger:   logger,
	}
}

// Get returns the session's wishlist.
func (s *Service) Get(ctx context.Context, sessionID string) ([]domain.WishlistItem, error) {
	return s.load(ctx, sessionID)
}

// Add appends the item unless the product is already saved.
func (s *Service) Add(ctx context.Context, sessionID string, item domain.WishlistItem) error {
	if item.ProductID == "" {
		return apperrors.InvalidInput("product id is required")
	}

	items, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}

	next := domain.AddWishlistItem(items, item)
	if len(next) == len(items) {
		// Already saved; nothing to write.
		return nil
	}

	return s.save(ctx, sessionID, next)
}

// Remove drops the product from the wishlist.
func (s *Service) Remove(ctx context.Context, sessionID, productID string) error {
	items, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}

	return s.save(ctx, sessionID, domain.RemoveWishlistItem(items, productID))
}

// Reconcile refreshes every saved item's live stock. Lookups fan out
// concurrently and failures degrade only the affected item to out-of-stock
// and inactive. The write is skipped entirely when nothing changed.
func (s *Service) Reconcile(ctx context.Context, sessionID string) ([]domain.WishlistItem, error) {
	items, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return items, nil
	}

	var mu sync.Mutex
	statuses := make(map[string]domain.StockStatus, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxStockLookups)
	for _, item := range items {
		productID := item.ProductID
		g.Go(func() error {
			status, err := s.stock.Stock(gctx, productID)
			if err != nil {
				// Safe-fail: the item degrades via the missing map entry.
				s.logger.WarnContext(gctx, "stock lookup failed, marking item unavailable",
					slog.String("session_id", sessionID),
					slog.String("product_id", productID),
					slog.String("error", err.Error()),
				)
				return nil
			}
			mu.Lock()
			statuses[productID] = status
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	next, changed := domain.MergeStock(items, statuses)
	if !changed {
		return next, nil
	}

	if err := s.save(ctx, sessionID, next); err != nil {
		return nil, err
	}
	return next, nil
}

// ReconcileAll runs one reconciliation pass over every session with a
// wishlist. A failing session is logged and skipped.
func (s *Service) ReconcileAll(ctx context.Context) {
	keys, err := s.store.ScanKeys(ctx, storage.WishlistPrefix)
	if err != nil {
		s.logger.ErrorContext(ctx, "wishlist key scan failed", slog.String("error", err.Error()))
		return
	}

	for _, key := range keys {
		sessionID := storage.SessionFromKey(key, storage.WishlistPrefix)
		if _, err := s.Reconcile(ctx, sessionID); err != nil {
			s.logger.ErrorContext(ctx, "wishlist reconcile failed",
				slog.String("session_id", sessionID),
				slog.String("error", err.Error()),
			)
		}
	}
}

// Reconciler returns the background periodic runner. It is established once
// at startup and is never re-armed by wishlist mutations.
func (s *Service) Reconciler(interval time.Duration) *task.Periodic {
	return task.NewPeriodic(interval, s.ReconcileAll)
}

func (s *Service) load(ctx context.Context, sessionID string) ([]domain.WishlistItem, error) {
	var items []domain.WishlistItem
	found, err := s.store.GetJSON(ctx, storage.WishlistKey(sessionID), &items)
	if err != nil {
		s.logger.WarnContext(ctx, "wishlist blob unreadable, treating as empty",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
		return []domain.WishlistItem{}, nil
	}
	if !found || items == nil {
		return []domain.WishlistItem{}, nil
	}
	return items, nil
}

func (s *Service) save(ctx context.Context, sessionID string, items []domain.WishlistItem) error {
	if err := s.store.SetJSON(ctx, storage.WishlistKey(sessionID), items); err != nil {
		return fmt.Errorf("save wishlist: %w", err)
	}

	if err := s.producer.PublishWishlistUpdated(ctx, sessionID, items); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish wishlist.updated event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}
	return nil
}
