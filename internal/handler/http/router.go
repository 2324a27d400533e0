package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m4mynk/luxor-frontend/internal/cart"
	"github.com/m4mynk/luxor-frontend/internal/checkout"
	"github.com/m4mynk/luxor-frontend/internal/session"
	"github.com/m4mynk/luxor-frontend/internal/wishlist"
	"github.com/m4mynk/luxor-frontend/pkg/health"
	"github.com/m4mynk/luxor-frontend/pkg/middleware"
)

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	cartService *cart.Service,
	wishlistService *wishlist.Service,
	checkoutService *checkout.Service,
	sessionService *session.Service,
	healthHandler *health.Handler,
	logger *slog.Logger,
	allowedOrigins []string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.CORS(allowedOrigins))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	cartHandler := NewCartHandler(cartService, logger)
	wishlistHandler := NewWishlistHandler(wishlistService, logger)
	checkoutHandler := NewCheckoutHandler(checkoutService, sessionService, logger)
	browseHandler := NewBrowseHandler(sessionService, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.Session())
		r.Use(CredentialsPassthrough)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.Get)
			r.Delete("/", cartHandler.Clear)

			r.Post("/items", cartHandler.AddItem)
			r.Delete("/items/{productId}", cartHandler.RemoveItem)
			r.Post("/items/{productId}/increase", cartHandler.Increase)
			r.Post("/items/{productId}/decrease", cartHandler.Decrease)
			r.Put("/items/{productId}/size", cartHandler.UpdateSize)
			r.Put("/items/{productId}/color", cartHandler.UpdateColor)
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", wishlistHandler.Get)
			r.Post("/items", wishlistHandler.AddItem)
			r.Delete("/items/{productId}", wishlistHandler.RemoveItem)
			r.Post("/reconcile", wishlistHandler.Reconcile)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/quote", checkoutHandler.Quote)
			r.Post("/coupon", checkoutHandler.ApplyCoupon)
			r.Post("/orders", checkoutHandler.PlaceOrder)
			r.Post("/buy-now", checkoutHandler.BuyNow)
			r.Post("/payment/order", checkoutHandler.CreatePaymentOrder)
			r.Post("/payment/verify", checkoutHandler.VerifyPayment)
		})

		r.Post("/orders/{orderId}/cancel", checkoutHandler.CancelOrder)

		r.Route("/browse", func(r chi.Router) {
			r.Get("/recently-viewed", browseHandler.RecentlyViewed)
			r.Post("/recently-viewed", browseHandler.RecordView)
		})

		r.Route("/session", func(r chi.Router) {
			r.Put("/redirect", browseHandler.SetRedirect)
			r.Post("/redirect/claim", browseHandler.ClaimRedirect)
		})
	})

	return r
}
