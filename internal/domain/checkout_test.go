package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// ShippingFee / EstimatedDelivery Tests
// ============================================================================

func TestShippingFee_Express(t *testing.T) {
	assert.Equal(t, float64(99), ShippingFee(ShippingExpress))
}

func TestShippingFee_Standard(t *testing.T) {
	assert.Equal(t, float64(0), ShippingFee(ShippingStandard))
}

func TestEstimatedDelivery(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, now.AddDate(0, 0, 3), EstimatedDelivery(now, ShippingExpress))
	assert.Equal(t, now.AddDate(0, 0, 7), EstimatedDelivery(now, ShippingStandard))
}

// ============================================================================
// ComputeQuote Tests
// ============================================================================

func TestComputeQuote_NoCoupon(t *testing.T) {
	items := []LineItem{{ProductID: "p1", Price: 999, Quantity: 2}}
	now := time.Now()

	q := ComputeQuote(items, ShippingExpress, 0, 0, false, now)

	assert.InDelta(t, 1998, q.Subtotal, 1e-9)
	assert.Equal(t, float64(99), q.ShippingFee)
	assert.InDelta(t, 2097, q.TotalBeforeDiscount, 1e-9)
	assert.InDelta(t, 2097, q.Total, 1e-9)
	assert.Zero(t, q.DiscountAmount)
}

func TestComputeQuote_CouponFinalPriceWins(t *testing.T) {
	items := []LineItem{{ProductID: "p1", Price: 999, Quantity: 2}}

	q := ComputeQuote(items, ShippingStandard, 100, 1898, true, time.Now())

	assert.InDelta(t, 1998, q.TotalBeforeDiscount, 1e-9)
	assert.InDelta(t, 100, q.DiscountAmount, 1e-9)
	assert.InDelta(t, 1898, q.Total, 1e-9)
}

// ============================================================================
// DistributeDiscount Tests
// ============================================================================

func TestDistributeDiscount_PercentPerUnit(t *testing.T) {
	items := []LineItem{{ProductID: "p1", Price: 500, Size: "M", Quantity: 1}}
	coupon := &Coupon{Code: "SAVE10", DiscountType: DiscountPercent, DiscountValue: 10}

	orderItems := DistributeDiscount(items, coupon)

	require.Len(t, orderItems, 1)
	assert.InDelta(t, 450, orderItems[0].DiscountedPrice, 1e-9)
	assert.InDelta(t, 500, orderItems[0].Price, 1e-9)
}

func TestDistributeDiscount_FlatSplitAcrossDistinctItems(t *testing.T) {
	items := []LineItem{
		{ProductID: "p1", Price: 500, Size: "M", Quantity: 3},
		{ProductID: "p2", Price: 800, Size: "L", Quantity: 1},
	}
	coupon := &Coupon{Code: "FLAT100", DiscountType: DiscountFlat, DiscountValue: 100}

	orderItems := DistributeDiscount(items, coupon)

	require.Len(t, orderItems, 2)
	// 100 split across 2 distinct lines, not across total quantity.
	assert.InDelta(t, 450, orderItems[0].DiscountedPrice, 1e-9)
	assert.InDelta(t, 750, orderItems[1].DiscountedPrice, 1e-9)
}

func TestDistributeDiscount_FlatFloorsAtZero(t *testing.T) {
	items := []LineItem{{ProductID: "p1", Price: 40, Size: "M", Quantity: 1}}
	coupon := &Coupon{Code: "FLAT100", DiscountType: DiscountFlat, DiscountValue: 100}

	orderItems := DistributeDiscount(items, coupon)

	assert.Equal(t, float64(0), orderItems[0].DiscountedPrice)
}

func TestDistributeDiscount_NoCouponKeepsUnitPrice(t *testing.T) {
	items := []LineItem{{ProductID: "p1", Price: 999.999, Size: "M", Quantity: 2}}

	orderItems := DistributeDiscount(items, nil)

	assert.InDelta(t, 1000, orderItems[0].DiscountedPrice, 1e-9)
	assert.InDelta(t, 999.999, orderItems[0].Price, 1e-9)
}

func TestDistributeDiscount_RoundsToTwoDecimals(t *testing.T) {
	items := []LineItem{
		{ProductID: "p1", Price: 500, Size: "M", Quantity: 1},
		{ProductID: "p2", Price: 500, Size: "M", Quantity: 1},
		{ProductID: "p3", Price: 500, Size: "M", Quantity: 1},
	}
	coupon := &Coupon{Code: "FLAT100", DiscountType: DiscountFlat, DiscountValue: 100}

	orderItems := DistributeDiscount(items, coupon)

	// 100/3 = 33.333...; 500 - 33.333... = 466.67 after rounding.
	assert.InDelta(t, 466.67, orderItems[0].DiscountedPrice, 1e-9)
}

func TestDistributeDiscount_EndToEndScenario(t *testing.T) {
	items := []LineItem{{ProductID: "P1", Size: "M", Color: "Black", Price: 999, Quantity: 2}}
	coupon := &Coupon{Code: "FLAT100", DiscountType: DiscountFlat, DiscountValue: 100}

	orderItems := DistributeDiscount(items, coupon)

	require.Len(t, orderItems, 1)
	assert.InDelta(t, 899, orderItems[0].DiscountedPrice, 1e-9)
	assert.Equal(t, 2, orderItems[0].Qty)

	// Order total per the applied coupon: 1998 - 100 = 1898.
	q := ComputeQuote(items, ShippingStandard, 100, 1898, true, time.Now())
	assert.InDelta(t, 1898, q.Total, 1e-9)
}

// ============================================================================
// Submission Guard Tests
// ============================================================================

func TestValidPhone(t *testing.T) {
	assert.True(t, ValidPhone("9876543210"))
	assert.False(t, ValidPhone("987654321"))
	assert.False(t, ValidPhone("98765432101"))
	assert.False(t, ValidPhone("98765abc10"))
	assert.False(t, ValidPhone(""))
}

func TestMissingSize(t *testing.T) {
	items := []LineItem{
		{ProductID: "p1", Size: "M"},
		{ProductID: "p2"},
	}

	assert.Equal(t, "p2", MissingSize(items))
}

func TestMissingSize_AllPresent(t *testing.T) {
	items := []LineItem{{ProductID: "p1", Size: "M"}}

	assert.Empty(t, MissingSize(items))
}
