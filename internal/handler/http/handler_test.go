package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m4mynk/luxor-frontend/internal/cart"
	"github.com/m4mynk/luxor-frontend/internal/checkout"
	"github.com/m4mynk/luxor-frontend/internal/commerce"
	"github.com/m4mynk/luxor-frontend/internal/domain"
	"github.com/m4mynk/luxor-frontend/internal/event"
	"github.com/m4mynk/luxor-frontend/internal/session"
	redisstore "github.com/m4mynk/luxor-frontend/internal/storage/redis"
	"github.com/m4mynk/luxor-frontend/internal/task"
	"github.com/m4mynk/luxor-frontend/internal/wishlist"
	apperrors "github.com/m4mynk/luxor-frontend/pkg/errors"
	"github.com/m4mynk/luxor-frontend/pkg/health"
	pkgkafka "github.com/m4mynk/luxor-frontend/pkg/kafka"
)

type nopPublisher struct{}

func (nopPublisher) Publish(ctx context.Context, topic string, e *pkgkafka.Event) error { return nil }

// fakeCommerce stubs the remote commerce API.
type fakeCommerce struct {
	mu           sync.Mutex
	stock        map[string]domain.StockStatus
	couponResult *commerce.CouponResult
	couponErr    error
	orders       int
}

func (f *fakeCommerce) Me(ctx context.Context) (*commerce.User, error) { return &commerce.User{}, nil }
func (f *fakeCommerce) UpdateAddress(ctx context.Context, addr commerce.Address) error { return nil }
func (f *fakeCommerce) Product(ctx context.Context, id string) (*commerce.Product, error) {
	return &commerce.Product{ID: id}, nil
}
func (f *fakeCommerce) Stock(ctx context.Context, id string) (domain.StockStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stock[id], nil
}
func (f *fakeCommerce) ValidateCoupon(ctx context.Context, code string, total float64) (*commerce.CouponResult, error) {
	if f.couponErr != nil {
		return nil, f.couponErr
	}
	return f.couponResult, nil
}
func (f *fakeCommerce) CreateOrder(ctx context.Context, req commerce.OrderRequest) (*commerce.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders++
	return &commerce.Order{ID: "ord-1", TotalPrice: 1998, PaymentMethod: req.PaymentMethod}, nil
}
func (f *fakeCommerce) CancelOrder(ctx context.Context, orderID string) error { return nil }
func (f *fakeCommerce) CreatePaymentOrder(ctx context.Context, amount float64) (*commerce.PaymentOrder, error) {
	return &commerce.PaymentOrder{ID: "pay_1", Amount: amount, Currency: "INR"}, nil
}
func (f *fakeCommerce) VerifyPayment(ctx context.Context, o, p, s string) error { return nil }

func setupRouter(t *testing.T) (http.Handler, *fakeCommerce) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	logger := slog.New(slog.DiscardHandler)
	store := redisstore.NewStore(client, time.Hour)
	producer := event.NewProducer(nopPublisher{}, logger)
	api := &fakeCommerce{stock: map[string]domain.StockStatus{}}

	// Zero debounce window keeps handler tests synchronous enough to poll.
	debouncer := task.NewDebouncer(0, nil)
	t.Cleanup(debouncer.Close)

	cartSvc := cart.NewService(store, producer, debouncer, logger)
	wishlistSvc := wishlist.NewService(store, api, producer, logger)
	sessionSvc := session.NewService(store, logger)
	checkoutSvc := checkout.NewService(cartSvc, sessionSvc, api, producer, logger)

	router := NewRouter(cartSvc, wishlistSvc, checkoutSvc, sessionSvc, health.NewHandler(), logger, nil)
	return router, api
}

func doRequest(t *testing.T, router http.Handler, method, path, sessionID, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if sessionID != "" {
		req.Header.Set("X-Session-ID", sessionID)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func cartItems(t *testing.T, router http.Handler, sessionID string) []domain.LineItem {
	t.Helper()
	rec := doRequest(t, router, http.MethodGet, "/api/v1/cart", sessionID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []domain.LineItem `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Data
}

func TestAddItem_SchedulesAndApplies(t *testing.T) {
	router, _ := setupRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/cart/items", "sess-1",
		`{"product_id": "p1", "name": "Linen Shirt", "price": 999, "selected_size": "M", "quantity": 2}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	require.Eventually(t, func() bool {
		items := cartItems(t, router, "sess-1")
		return len(items) == 1 && items[0].Quantity == 2
	}, time.Second, 5*time.Millisecond)
}

func TestAddItem_MissingSizeRejected(t *testing.T) {
	router, _ := setupRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/cart/items", "sess-1",
		`{"product_id": "p1", "name": "Linen Shirt", "price": 999}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddItem_MissingBodyFieldsFailValidation(t *testing.T) {
	router, _ := setupRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/cart/items", "sess-1", `{"size": "M"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Error struct {
			Code   string            `json:"code"`
			Fields map[string]string `json:"fields"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Fields, "product_id")
}

func TestCartLifecycle_IncreaseDecreaseRemove(t *testing.T) {
	router, _ := setupRouter(t)

	doRequest(t, router, http.MethodPost, "/api/v1/cart/items", "sess-1",
		`{"product_id": "p1", "name": "Linen Shirt", "price": 999, "size": "M", "color": "Black", "quantity": 1}`)
	require.Eventually(t, func() bool { return len(cartItems(t, router, "sess-1")) == 1 }, time.Second, 5*time.Millisecond)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/cart/items/p1/increase?size=M&color=Black", "sess-1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, cartItems(t, router, "sess-1")[0].Quantity)

	rec = doRequest(t, router, http.MethodPost, "/api/v1/cart/items/p1/decrease?size=M&color=Black", "sess-1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, cartItems(t, router, "sess-1")[0].Quantity)

	rec = doRequest(t, router, http.MethodDelete, "/api/v1/cart/items/p1?size=M&color=Black", "sess-1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, cartItems(t, router, "sess-1"))
}

func TestUpdateSize(t *testing.T) {
	router, _ := setupRouter(t)

	doRequest(t, router, http.MethodPost, "/api/v1/cart/items", "sess-1",
		`{"product_id": "p1", "name": "Linen Shirt", "price": 999, "size": "M", "quantity": 1}`)
	require.Eventually(t, func() bool { return len(cartItems(t, router, "sess-1")) == 1 }, time.Second, 5*time.Millisecond)

	rec := doRequest(t, router, http.MethodPut, "/api/v1/cart/items/p1/size", "sess-1", `{"value": "XL"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "XL", cartItems(t, router, "sess-1")[0].Size)
}

func TestSessionHeader_MintedWhenAbsent(t *testing.T) {
	router, _ := setupRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/cart", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Session-ID"))
}

func TestWishlist_AddAndReconcile(t *testing.T) {
	router, api := setupRouter(t)
	api.stock["p1"] = domain.StockStatus{CountInStock: 7, Active: true}

	rec := doRequest(t, router, http.MethodPost, "/api/v1/wishlist/items", "sess-1",
		`{"product_id": "p1", "name": "Linen Shirt", "price": 999, "count_in_stock": 4, "active": true}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/v1/wishlist/reconcile", "sess-1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []domain.WishlistItem `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, 7, resp.Data[0].CountInStock)
}

func TestCheckout_QuoteFromCart(t *testing.T) {
	router, _ := setupRouter(t)

	doRequest(t, router, http.MethodPost, "/api/v1/cart/items", "sess-1",
		`{"product_id": "p1", "name": "Linen Shirt", "price": 999, "size": "M", "quantity": 2}`)
	require.Eventually(t, func() bool { return len(cartItems(t, router, "sess-1")) == 1 }, time.Second, 5*time.Millisecond)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/checkout/quote", "sess-1",
		`{"shipping_option": "express"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data checkout.QuoteResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.InDelta(t, 2097, resp.Data.Quote.Total, 1e-9)
}

func TestCheckout_CouponRejectionSurfacesMessage(t *testing.T) {
	router, api := setupRouter(t)
	api.couponErr = apperrors.InvalidInput("Coupon has expired")

	rec := doRequest(t, router, http.MethodPost, "/api/v1/checkout/coupon", "sess-1",
		`{"code": "OLD", "total_before_discount": 1000}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Coupon has expired")
}

func TestCheckout_PlaceOrderCOD(t *testing.T) {
	router, api := setupRouter(t)

	doRequest(t, router, http.MethodPost, "/api/v1/cart/items", "sess-1",
		`{"product_id": "p1", "name": "Linen Shirt", "price": 999, "size": "M", "quantity": 2}`)
	require.Eventually(t, func() bool { return len(cartItems(t, router, "sess-1")) == 1 }, time.Second, 5*time.Millisecond)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/checkout/orders", "sess-1",
		`{"payment_method": "COD", "address": {"address": "12 MG Road", "city": "Pune", "postalCode": "411001", "country": "India", "phone": "9876543210"}}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	api.mu.Lock()
	orders := api.orders
	api.mu.Unlock()
	assert.Equal(t, 1, orders)
	assert.Empty(t, cartItems(t, router, "sess-1"))
}

func TestCheckout_PlaceOrderInvalidPhone(t *testing.T) {
	router, api := setupRouter(t)

	doRequest(t, router, http.MethodPost, "/api/v1/cart/items", "sess-1",
		`{"product_id": "p1", "name": "Linen Shirt", "price": 999, "size": "M", "quantity": 1}`)
	require.Eventually(t, func() bool { return len(cartItems(t, router, "sess-1")) == 1 }, time.Second, 5*time.Millisecond)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/checkout/orders", "sess-1",
		`{"payment_method": "COD", "address": {"phone": "123"}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	api.mu.Lock()
	assert.Zero(t, api.orders)
	api.mu.Unlock()
}

func TestBuyNowFlow(t *testing.T) {
	router, _ := setupRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/checkout/buy-now", "sess-1",
		`{"product_id": "p2", "name": "Chinos", "price": 1499, "selected_size": "32", "quantity": 1}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/v1/checkout/quote", "sess-1", `{"buy_now": true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data checkout.QuoteResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Items, 1)
	assert.Equal(t, "p2", resp.Data.Items[0].ProductID)
}

func TestRecentlyViewed(t *testing.T) {
	router, _ := setupRouter(t)

	for _, id := range []string{"p1", "p2", "p1"} {
		rec := doRequest(t, router, http.MethodPost, "/api/v1/browse/recently-viewed", "sess-1",
			`{"product_id": "`+id+`", "name": "x", "price": 1}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doRequest(t, router, http.MethodGet, "/api/v1/browse/recently-viewed", "sess-1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []session.ViewedProduct `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "p1", resp.Data[0].ProductID)
}

func TestRedirect_SetAndClaim(t *testing.T) {
	router, _ := setupRouter(t)

	rec := doRequest(t, router, http.MethodPut, "/api/v1/session/redirect", "sess-1", `{"target": "/checkout"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/v1/session/redirect/claim", "sess-1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/checkout")

	rec = doRequest(t, router, http.MethodPost, "/api/v1/session/redirect/claim", "sess-1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "/checkout")
}

func TestHealthEndpoints(t *testing.T) {
	router, _ := setupRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/health/live", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
