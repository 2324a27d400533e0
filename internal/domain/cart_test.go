package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLine(productID, size, color string, qty int) LineItem {
	return LineItem{
		ProductID: productID,
		Name:      "Linen Shirt",
		Price:     999,
		Size:      size,
		Color:     color,
		Quantity:  qty,
	}
}

// ============================================================================
// AddItemInput.Resolve Tests
// ============================================================================

func TestResolve_SizeFallsBackToSelectedSize(t *testing.T) {
	in := AddItemInput{ProductID: "p1", SelectedSize: "M", SelectedColor: "Black"}

	item, err := in.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "M", item.Size)
	assert.Equal(t, "Black", item.Color)
}

func TestResolve_ExplicitFieldsWin(t *testing.T) {
	in := AddItemInput{ProductID: "p1", Size: "L", SelectedSize: "M", Color: "Navy", SelectedColor: "Black"}

	item, err := in.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "L", item.Size)
	assert.Equal(t, "Navy", item.Color)
}

func TestResolve_MissingProductID(t *testing.T) {
	in := AddItemInput{Size: "M"}

	_, err := in.Resolve()
	assert.ErrorIs(t, err, ErrMissingProductID)
}

func TestResolve_MissingSize(t *testing.T) {
	in := AddItemInput{ProductID: "p1"}

	_, err := in.Resolve()
	assert.ErrorIs(t, err, ErrMissingSize)
}

func TestResolve_ColorMayBeEmpty(t *testing.T) {
	in := AddItemInput{ProductID: "p1", Size: "M"}

	item, err := in.Resolve()
	require.NoError(t, err)
	assert.Empty(t, item.Color)
}

// ============================================================================
// AddLine Tests
// ============================================================================

func TestAddLine_SameIdentityKeyMerges(t *testing.T) {
	items := AddLine(nil, testLine("p1", "M", "Black", 0), 2)
	items = AddLine(items, testLine("p1", "M", "Black", 0), 3)

	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestAddLine_DifferentSizeIsDistinctLine(t *testing.T) {
	items := AddLine(nil, testLine("p1", "M", "Black", 0), 1)
	items = AddLine(items, testLine("p1", "L", "Black", 0), 1)

	assert.Len(t, items, 2)
}

func TestAddLine_DifferentColorIsDistinctLine(t *testing.T) {
	items := AddLine(nil, testLine("p1", "M", "Black", 0), 1)
	items = AddLine(items, testLine("p1", "M", "White", 0), 1)

	assert.Len(t, items, 2)
}

func TestAddLine_NonPositiveQtyDefaultsToOne(t *testing.T) {
	items := AddLine(nil, testLine("p1", "M", "Black", 0), 0)

	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestAddLine_DoesNotMutateInput(t *testing.T) {
	orig := []LineItem{testLine("p1", "M", "Black", 2)}

	_ = AddLine(orig, testLine("p1", "M", "Black", 0), 3)

	assert.Equal(t, 2, orig[0].Quantity)
}

// ============================================================================
// RemoveLine Tests
// ============================================================================

func TestRemoveLine_ExactMatch(t *testing.T) {
	items := []LineItem{
		testLine("p1", "M", "Black", 1),
		testLine("p1", "L", "Black", 1),
	}

	next := RemoveLine(items, "p1", "M", "Black")

	require.Len(t, next, 1)
	assert.Equal(t, "L", next[0].Size)
}

func TestRemoveLine_AbsentMatchIsNoOp(t *testing.T) {
	items := []LineItem{testLine("p1", "M", "Black", 1)}

	next := RemoveLine(items, "p2", "M", "Black")

	assert.Equal(t, items, next)
}

func TestRemoveThenAdd_ProducesFreshLine(t *testing.T) {
	items := []LineItem{testLine("p1", "M", "Black", 5)}

	items = RemoveLine(items, "p1", "M", "Black")
	items = AddLine(items, testLine("p1", "M", "Black", 0), 1)

	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

// ============================================================================
// Increase / Decrease Tests
// ============================================================================

func TestIncreaseLine(t *testing.T) {
	items := []LineItem{testLine("p1", "M", "Black", 1)}

	next := IncreaseLine(items, "p1", "M", "Black")

	assert.Equal(t, 2, next[0].Quantity)
}

func TestDecreaseLine(t *testing.T) {
	items := []LineItem{testLine("p1", "M", "Black", 3)}

	next := DecreaseLine(items, "p1", "M", "Black")

	assert.Equal(t, 2, next[0].Quantity)
}

func TestDecreaseLine_FloorsAtOne(t *testing.T) {
	items := []LineItem{testLine("p1", "M", "Black", 1)}

	next := DecreaseLine(items, "p1", "M", "Black")

	assert.Equal(t, 1, next[0].Quantity)
}

func TestIncreaseLine_NoMatchIsNoOp(t *testing.T) {
	items := []LineItem{testLine("p1", "M", "Black", 1)}

	next := IncreaseLine(items, "p1", "L", "Black")

	assert.Equal(t, items, next)
}

// ============================================================================
// UpdateSize / UpdateColor Tests
// ============================================================================

func TestUpdateLineSize_MatchesByProductIDOnly(t *testing.T) {
	items := []LineItem{testLine("p1", "M", "Black", 1)}

	next := UpdateLineSize(items, "p1", "XL")

	assert.Equal(t, "XL", next[0].Size)
}

func TestUpdateLineColor_MatchesByProductIDOnly(t *testing.T) {
	items := []LineItem{
		testLine("p1", "M", "Black", 1),
		testLine("p2", "M", "Black", 1),
	}

	next := UpdateLineColor(items, "p1", "Olive")

	assert.Equal(t, "Olive", next[0].Color)
	assert.Equal(t, "Black", next[1].Color)
}

// ============================================================================
// Subtotal and persistence round-trip
// ============================================================================

func TestSubtotal(t *testing.T) {
	items := []LineItem{
		{ProductID: "p1", Price: 999, Quantity: 2},
		{ProductID: "p2", Price: 500, Quantity: 1},
	}

	assert.InDelta(t, 2498, Subtotal(items), 1e-9)
}

func TestSubtotal_Empty(t *testing.T) {
	assert.Zero(t, Subtotal(nil))
}

func TestLineItems_JSONRoundTrip(t *testing.T) {
	items := []LineItem{
		{ProductID: "p1", Name: "Linen Shirt", Price: 999.50, Size: "M", Color: "Black", Quantity: 2, Image: "shirt.jpg", Category: "shirts"},
		{ProductID: "p2", Name: "Chinos", Price: 1499, Size: "32", Quantity: 1},
	}

	data, err := json.Marshal(items)
	require.NoError(t, err)

	var restored []LineItem
	require.NoError(t, json.Unmarshal(data, &restored))
	assert.Equal(t, items, restored)
}
