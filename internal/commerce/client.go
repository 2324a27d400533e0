package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/m4mynk/luxor-frontend/internal/domain"
	"github.com/m4mynk/luxor-frontend/pkg/httpclient"
)

// API is the remote commerce backend the storefront orchestrates against.
// All business authority (pricing, inventory, payment capture, coupon
// validation) lives behind it.
type API interface {
	Me(ctx context.Context) (*User, error)
	UpdateAddress(ctx context.Context, addr Address) error
	Product(ctx context.Context, productID string) (*Product, error)
	Stock(ctx context.Context, productID string) (domain.StockStatus, error)
	ValidateCoupon(ctx context.Context, code string, totalPrice float64) (*CouponResult, error)
	CreateOrder(ctx context.Context, req OrderRequest) (*Order, error)
	CancelOrder(ctx context.Context, orderID string) error
	CreatePaymentOrder(ctx context.Context, amount float64) (*PaymentOrder, error)
	VerifyPayment(ctx context.Context, gatewayOrderID, paymentID, signature string) error
}

// HTTPDoer executes HTTP requests. Both httpclient.Client and
// httpclient.CircuitBreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

type credentialsKey struct{}

// WithCredentials stores the shopper's Cookie header value on the context so
// outbound commerce calls carry their session.
func WithCredentials(ctx context.Context, cookie string) context.Context {
	if cookie == "" {
		return ctx
	}
	return context.WithValue(ctx, credentialsKey{}, cookie)
}

func credentialsFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(credentialsKey{}).(string); ok {
		return v
	}
	return ""
}

// Client is the typed HTTP client for the commerce API.
type Client struct {
	http    HTTPDoer
	baseURL string
	logger  *slog.Logger
}

// NewClient creates a commerce API client. The base URL must not end with a
// trailing slash.
func NewClient(doer HTTPDoer, baseURL string, logger *slog.Logger) *Client {
	return &Client{
		http:    doer,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// Me fetches the current shopper and their saved address.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateAddress saves the shopper's shipping address.
func (c *Client) UpdateAddress(ctx context.Context, addr Address) error {
	return c.doJSON(ctx, http.MethodPost, "/api/auth/update-address", addr, nil)
}

// Product fetches a product document.
func (c *Client) Product(ctx context.Context, productID string) (*Product, error) {
	var product Product
	if err := c.doJSON(ctx, http.MethodGet, "/api/products/"+url.PathEscape(productID), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Stock fetches a product's live stock count and active flag.
func (c *Client) Stock(ctx context.Context, productID string) (domain.StockStatus, error) {
	var resp struct {
		CountInStock int  `json:"countInStock"`
		Active       bool `json:"active"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/products/"+url.PathEscape(productID)+"/stock", nil, &resp); err != nil {
		return domain.StockStatus{}, err
	}
	return domain.StockStatus{CountInStock: resp.CountInStock, Active: resp.Active}, nil
}

// ValidateCoupon submits the code with the pre-discount total and returns
// the server's verdict. A rejected coupon surfaces the server's message.
func (c *Client) ValidateCoupon(ctx context.Context, code string, totalPrice float64) (*CouponResult, error) {
	req := struct {
		Code       string  `json:"code"`
		TotalPrice float64 `json:"totalPrice"`
	}{Code: code, TotalPrice: totalPrice}

	var resp struct {
		Coupon struct {
			Code          string  `json:"code"`
			DiscountType  string  `json:"discountType"`
			DiscountValue float64 `json:"discountValue"`
		} `json:"coupon"`
		Discount   float64 `json:"discount"`
		FinalPrice float64 `json:"finalPrice"`
	}

	if err := c.doJSON(ctx, http.MethodPost, "/api/coupons/validate", req, &resp); err != nil {
		return nil, err
	}

	return &CouponResult{
		Coupon: domain.Coupon{
			Code:          resp.Coupon.Code,
			DiscountType:  resp.Coupon.DiscountType,
			DiscountValue: resp.Coupon.DiscountValue,
		},
		Discount:   resp.Discount,
		FinalPrice: resp.FinalPrice,
	}, nil
}

// CreateOrder submits the order and returns the created document.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	var order Order
	if err := c.doJSON(ctx, http.MethodPost, "/api/orders", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CancelOrder cancels an order by ID.
func (c *Client) CancelOrder(ctx context.Context, orderID string) error {
	return c.doJSON(ctx, http.MethodPut, "/api/orders/"+url.PathEscape(orderID)+"/cancel", nil, nil)
}

// CreatePaymentOrder creates a payment-gateway order for the given amount.
func (c *Client) CreatePaymentOrder(ctx context.Context, amount float64) (*PaymentOrder, error) {
	req := struct {
		Amount float64 `json:"amount"`
	}{Amount: amount}

	var order PaymentOrder
	if err := c.doJSON(ctx, http.MethodPost, "/api/payment/order", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// VerifyPayment submits the gateway's signature for verification.
func (c *Client) VerifyPayment(ctx context.Context, gatewayOrderID, paymentID, signature string) error {
	req := struct {
		OrderID   string `json:"orderId"`
		PaymentID string `json:"paymentId"`
		Signature string `json:"signature"`
	}{OrderID: gatewayOrderID, PaymentID: paymentID, Signature: signature}

	return c.doJSON(ctx, http.MethodPost, "/api/payment/verify", req, nil)
}

// doJSON executes one commerce API call: marshal the body, forward the
// shopper's credentials, check the status, decode the response. Non-2xx
// responses are parsed for the API's `{message}` shape so the server's
// wording reaches the shopper verbatim.
func (c *Client) doJSON(ctx context.Context, method, path string, body, target any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", path, err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create %s request: %w", path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie := credentialsFromContext(ctx); cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("call commerce API %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return httpclient.ParseResponseError(resp, "commerce")
	}
	defer resp.Body.Close()

	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
