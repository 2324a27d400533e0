package domain

// WishlistItem is a product snapshot captured at add time. Only the stock
// fields are refreshed afterwards; name, price, and image stay as saved.
type WishlistItem struct {
	ProductID    string  `json:"product_id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Image        string  `json:"image,omitempty"`
	CountInStock int     `json:"count_in_stock"`
	Active       bool    `json:"active"`
}

// StockStatus is the live availability of a product.
type StockStatus struct {
	CountInStock int  `json:"count_in_stock"`
	Active       bool `json:"active"`
}

// AddWishlistItem appends the item unless an entry with the same product id
// already exists. Wishlist entries are keyed by product id alone.
func AddWishlistItem(items []WishlistItem, item WishlistItem) []WishlistItem {
	for _, it := range items {
		if it.ProductID == item.ProductID {
			return items
		}
	}
	next := make([]WishlistItem, len(items), len(items)+1)
	copy(next, items)
	return append(next, item)
}

// RemoveWishlistItem filters out the entry with the given product id.
func RemoveWishlistItem(items []WishlistItem, productID string) []WishlistItem {
	next := make([]WishlistItem, 0, len(items))
	for _, it := range items {
		if it.ProductID == productID {
			continue
		}
		next = append(next, it)
	}
	return next
}

// MergeStock applies live stock statuses onto the saved items. An item with
// no status entry degrades to out-of-stock and inactive. The boolean reports
// whether any item's stock fields actually changed, so callers can skip a
// redundant write.
func MergeStock(items []WishlistItem, statuses map[string]StockStatus) ([]WishlistItem, bool) {
	next := make([]WishlistItem, len(items))
	copy(next, items)

	changed := false
	for i := range next {
		status, ok := statuses[next[i].ProductID]
		if !ok {
			status = StockStatus{}
		}
		if next[i].CountInStock != status.CountInStock || next[i].Active != status.Active {
			next[i].CountInStock = status.CountInStock
			next[i].Active = status.Active
			changed = true
		}
	}
	return next, changed
}
