package domain

import (
	"math"
	"regexp"
	"time"
)

// ShippingOption selects the delivery tier.
type ShippingOption string

const (
	ShippingStandard ShippingOption = "standard"
	ShippingExpress  ShippingOption = "express"
)

// PaymentMethod selects how the order is paid.
type PaymentMethod string

const (
	PaymentCOD    PaymentMethod = "COD"
	PaymentOnline PaymentMethod = "Online"
)

// Discount types as returned by the coupon validation endpoint.
const (
	DiscountPercent = "percent"
	DiscountFlat    = "flat"
)

const expressShippingFee = 99

// Coupon is a server-validated discount descriptor.
type Coupon struct {
	Code          string  `json:"code"`
	DiscountType  string  `json:"discount_type"`
	DiscountValue float64 `json:"discount_value"`
}

// Quote is the priced view of a checkout item list.
type Quote struct {
	Subtotal            float64   `json:"subtotal"`
	ShippingFee         float64   `json:"shipping_fee"`
	TotalBeforeDiscount float64   `json:"total_before_discount"`
	DiscountAmount      float64   `json:"discount_amount"`
	Total               float64   `json:"total"`
	EstimatedDelivery   time.Time `json:"estimated_delivery"`
}

// OrderItem is a line as submitted to the orders endpoint, carrying the unit
// price after coupon distribution.
type OrderItem struct {
	Product         string  `json:"product"`
	Name            string  `json:"name"`
	Qty             int     `json:"qty"`
	Price           float64 `json:"price"`
	DiscountedPrice float64 `json:"discountedPrice"`
	Image           string  `json:"image,omitempty"`
	Size            string  `json:"size"`
	Color           string  `json:"color,omitempty"`
}

// ShippingFee returns the flat fee for the chosen option.
func ShippingFee(option ShippingOption) float64 {
	if option == ShippingExpress {
		return expressShippingFee
	}
	return 0
}

// EstimatedDelivery is three days out for express shipping, seven otherwise.
func EstimatedDelivery(now time.Time, option ShippingOption) time.Time {
	if option == ShippingExpress {
		return now.AddDate(0, 0, 3)
	}
	return now.AddDate(0, 0, 7)
}

// ComputeQuote prices the item list. The total is the coupon's final price
// when one has been applied, otherwise subtotal plus shipping.
func ComputeQuote(items []LineItem, option ShippingOption, discount, finalPrice float64, couponApplied bool, now time.Time) Quote {
	subtotal := Subtotal(items)
	fee := ShippingFee(option)

	q := Quote{
		Subtotal:            subtotal,
		ShippingFee:         fee,
		TotalBeforeDiscount: subtotal + fee,
		EstimatedDelivery:   EstimatedDelivery(now, option),
	}

	if couponApplied {
		q.DiscountAmount = discount
		q.Total = finalPrice
	} else {
		q.Total = q.TotalBeforeDiscount
	}
	return q
}

// DistributeDiscount converts cart lines to order items, applying the coupon
// to each unit price. Percent coupons discount every unit by the percentage.
// Flat coupons split the amount evenly across distinct lines (not across
// quantity) and subtract the share from each unit price, floored at zero.
// Prices are rounded to two decimals.
func DistributeDiscount(items []LineItem, coupon *Coupon) []OrderItem {
	perItemFlat := 0.0
	if coupon != nil && coupon.DiscountType == DiscountFlat && len(items) > 0 {
		perItemFlat = coupon.DiscountValue / float64(len(items))
	}

	orderItems := make([]OrderItem, 0, len(items))
	for _, li := range items {
		discounted := li.Price
		if coupon != nil {
			switch coupon.DiscountType {
			case DiscountPercent:
				discounted = li.Price - li.Price*coupon.DiscountValue/100
			case DiscountFlat:
				discounted = li.Price - perItemFlat
			}
		}
		if discounted < 0 {
			discounted = 0
		}

		orderItems = append(orderItems, OrderItem{
			Product:         li.ProductID,
			Name:            li.Name,
			Qty:             li.Quantity,
			Price:           li.Price,
			DiscountedPrice: round2(discounted),
			Image:           li.Image,
			Size:            li.Size,
			Color:           li.Color,
		})
	}
	return orderItems
}

var phonePattern = regexp.MustCompile(`^\d{10}$`)

// ValidPhone reports whether the string is exactly ten digits.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// MissingSize returns the product id of the first item without a selected
// size, or an empty string when every item has one.
func MissingSize(items []LineItem) string {
	for _, li := range items {
		if li.Size == "" {
			return li.ProductID
		}
	}
	return ""
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
