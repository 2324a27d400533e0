package commerce

import (
	"time"

	"github.com/m4mynk/luxor-frontend/internal/domain"
)

// User is the authenticated shopper as returned by the commerce API.
type User struct {
	ID      string  `json:"_id"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Address Address `json:"address"`
}

// Address is a shipping address in the commerce API's wire shape.
type Address struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
}

// Product is the subset of the product document the storefront reads.
type Product struct {
	ID           string   `json:"_id"`
	Name         string   `json:"name"`
	Price        float64  `json:"price"`
	Image        string   `json:"image"`
	Category     string   `json:"category"`
	Sizes        []string `json:"sizes"`
	Colors       []string `json:"colors"`
	CountInStock int      `json:"countInStock"`
	Active       bool     `json:"active"`
}

// CouponResult is a successful coupon validation: the descriptor, the
// discount amount off the submitted total, and the resulting final price.
type CouponResult struct {
	Coupon     domain.Coupon
	Discount   float64
	FinalPrice float64
}

// OrderRequest is the order submission body.
type OrderRequest struct {
	OrderItems        []domain.OrderItem `json:"orderItems"`
	PaymentMethod     string             `json:"paymentMethod"`
	ShippingAddress   Address            `json:"shippingAddress"`
	EstimatedDelivery time.Time          `json:"estimatedDelivery"`
	CouponCode        string             `json:"couponCode,omitempty"`
}

// Order is a created order as returned by the commerce API.
type Order struct {
	ID                string             `json:"_id"`
	OrderItems        []domain.OrderItem `json:"orderItems"`
	PaymentMethod     string             `json:"paymentMethod"`
	TotalPrice        float64            `json:"totalPrice"`
	IsPaid            bool               `json:"isPaid"`
	Status            string             `json:"status"`
	EstimatedDelivery time.Time          `json:"estimatedDelivery"`
	CreatedAt         time.Time          `json:"createdAt"`
}

// PaymentOrder is a payment-gateway order created ahead of an online payment.
type PaymentOrder struct {
	ID       string  `json:"id"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// Payment method strings as the commerce API expects them.
const (
	PaymentMethodCOD    = "Cash on Delivery"
	PaymentMethodOnline = "Online Payment"
)
