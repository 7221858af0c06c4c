package cart

import "github.com/wichananm65/eco-shop-backend/internal/product"

// Item is one stored cart row.
type Item struct {
	ProductID int    `json:"productId"`
	Quantity  int    `json:"quantity"`
	AddedAt   string `json:"addedAt,omitempty"`
}

// Line is a cart item joined with the current catalog entry.
type Line struct {
	Product   product.Product `json:"product"`
	Quantity  int             `json:"quantity"`
	LineTotal float64         `json:"lineTotal"`
}

// View is the cart as returned to clients. Currency is empty when the lines
// are priced in more than one currency.
type View struct {
	Items     []Line  `json:"items"`
	ItemCount int     `json:"itemCount"`
	Total     float64 `json:"total"`
	Currency  string  `json:"currency"`
}
