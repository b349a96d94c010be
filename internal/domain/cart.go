package domain

// CartReference is a cart line before it is joined with the catalog.
// Qty 0 means the line should be removed.
type CartReference struct {
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
}

// CartItem is a fully populated cart row ready for display.
type CartItem struct {
	Product
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
}
