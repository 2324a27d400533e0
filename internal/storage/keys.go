package storage

import "strings"

// Key prefixes for each session state blob.
const (
	CartPrefix           = "cart:"
	WishlistPrefix       = "wishlist:"
	BuyNowPrefix         = "buynow:"
	RecentlyViewedPrefix = "recent:"
	RedirectPrefix       = "redirect:"
)

// CartKey is the session's cart line item list.
func CartKey(sessionID string) string { return CartPrefix + sessionID }

// WishlistKey is the session's wishlist.
func WishlistKey(sessionID string) string { return WishlistPrefix + sessionID }

// BuyNowKey is the session's single-item buy-now snapshot.
func BuyNowKey(sessionID string) string { return BuyNowPrefix + sessionID }

// RecentlyViewedKey is the session's recently viewed product list.
func RecentlyViewedKey(sessionID string) string { return RecentlyViewedPrefix + sessionID }

// RedirectKey is the session's post-login redirect target.
func RedirectKey(sessionID string) string { return RedirectPrefix + sessionID }

// SessionFromKey strips the prefix off a scanned key, returning the session
// ID it belongs to.
func SessionFromKey(key, prefix string) string {
	return strings.TrimPrefix(key, prefix)
}
