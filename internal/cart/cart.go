// Package cart joins cart references with the product catalog and values the result.
package cart

import "qkart/storefront/internal/domain"

// Materialize returns one CartItem per reference whose product is in the catalog,
// in reference order. References to unknown products are dropped.
func Materialize(refs []domain.CartReference, products []domain.Product) []domain.CartItem {
	items := make([]domain.CartItem, 0, len(refs))
	if len(refs) == 0 || len(products) == 0 {
		return items
	}

	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	for _, ref := range refs {
		p, ok := byID[ref.ProductID]
		if !ok {
			continue
		}
		items = append(items, domain.CartItem{
			Product:   p,
			ProductID: ref.ProductID,
			Qty:       ref.Qty,
		})
	}

	return items
}

// TotalValue sums cost * qty over all items.
func TotalValue(items []domain.CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Cost * float64(item.Qty)
	}
	return total
}

// ItemCount sums the quantities of all items.
func ItemCount(items []domain.CartItem) int {
	count := 0
	for _, item := range items {
		count += item.Qty
	}
	return count
}

// Contains reports whether productID has a line in items.
func Contains(items []domain.CartItem, productID string) bool {
	for _, item := range items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}
