package domain

import "errors"

var (
	// ErrMissingProductID rejects cart adds without a product reference.
	ErrMissingProductID = errors.New("cart item has no product id")
	// ErrMissingSize rejects cart adds without a resolved size.
	ErrMissingSize = errors.New("cart item has no size")
)

// LineItem is one cart entry. Two entries with the same product id but a
// different size or color are distinct lines.
type LineItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Size      string  `json:"size"`
	Color     string  `json:"color,omitempty"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image,omitempty"`
	Category  string  `json:"category,omitempty"`
}

// Matches reports whether the line has the given identity key
// (product id, size, color).
func (li LineItem) Matches(productID, size, color string) bool {
	return li.ProductID == productID && li.Size == size && li.Color == color
}

// AddItemInput is a product as submitted for adding to the cart. Product
// listings and product detail pages name the chosen variant differently, so
// both field pairs are accepted and resolved here.
type AddItemInput struct {
	ProductID     string  `json:"product_id"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Size          string  `json:"size"`
	SelectedSize  string  `json:"selected_size"`
	Color         string  `json:"color"`
	SelectedColor string  `json:"selected_color"`
	Image         string  `json:"image"`
	Category      string  `json:"category"`
}

// Resolve normalizes the input into a line item. The size falls back to the
// selected size and the color to the selected color; a missing color is
// allowed, a missing product id or size is not.
func (in AddItemInput) Resolve() (LineItem, error) {
	size := in.Size
	if size == "" {
		size = in.SelectedSize
	}
	color := in.Color
	if color == "" {
		color = in.SelectedColor
	}

	if in.ProductID == "" {
		return LineItem{}, ErrMissingProductID
	}
	if size == "" {
		return LineItem{}, ErrMissingSize
	}

	return LineItem{
		ProductID: in.ProductID,
		Name:      in.Name,
		Price:     in.Price,
		Size:      size,
		Color:     color,
		Image:     in.Image,
		Category:  in.Category,
	}, nil
}

// findLine returns the index of the line matching the identity key, or -1.
func findLine(items []LineItem, productID, size, color string) int {
	for i := range items {
		if items[i].Matches(productID, size, color) {
			return i
		}
	}
	return -1
}

// AddLine merges the item into an existing line with the same identity key
// (quantity += qty) or appends a new line. A non-positive qty counts as 1.
func AddLine(items []LineItem, item LineItem, qty int) []LineItem {
	if qty < 1 {
		qty = 1
	}

	next := cloneLines(items)
	if i := findLine(next, item.ProductID, item.Size, item.Color); i >= 0 {
		next[i].Quantity += qty
		return next
	}

	item.Quantity = qty
	return append(next, item)
}

// RemoveLine deletes the line matching the identity key exactly. An absent
// match is a no-op.
func RemoveLine(items []LineItem, productID, size, color string) []LineItem {
	next := make([]LineItem, 0, len(items))
	for _, li := range items {
		if li.Matches(productID, size, color) {
			continue
		}
		next = append(next, li)
	}
	return next
}

// IncreaseLine bumps the matching line's quantity by one.
func IncreaseLine(items []LineItem, productID, size, color string) []LineItem {
	next := cloneLines(items)
	if i := findLine(next, productID, size, color); i >= 0 {
		next[i].Quantity++
	}
	return next
}

// DecreaseLine lowers the matching line's quantity by one, never below 1.
func DecreaseLine(items []LineItem, productID, size, color string) []LineItem {
	next := cloneLines(items)
	if i := findLine(next, productID, size, color); i >= 0 && next[i].Quantity > 1 {
		next[i].Quantity--
	}
	return next
}

// UpdateLineSize rewrites the size on lines matching the product id only.
// This is intentionally looser than the full identity key so a line's
// variant can be corrected in place.
func UpdateLineSize(items []LineItem, productID, size string) []LineItem {
	next := cloneLines(items)
	for i := range next {
		if next[i].ProductID == productID {
			next[i].Size = size
		}
	}
	return next
}

// UpdateLineColor rewrites the color on lines matching the product id only.
func UpdateLineColor(items []LineItem, productID, color string) []LineItem {
	next := cloneLines(items)
	for i := range next {
		if next[i].ProductID == productID {
			next[i].Color = color
		}
	}
	return next
}

// Subtotal is the sum of unit price times quantity over all lines.
func Subtotal(items []LineItem) float64 {
	var total float64
	for _, li := range items {
		total += li.Price * float64(li.Quantity)
	}
	return total
}

func cloneLines(items []LineItem) []LineItem {
	next := make([]LineItem, len(items))
	copy(next, items)
	return next
}
