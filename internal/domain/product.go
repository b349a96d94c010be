package domain

// Product is a catalog entry as served by the backend.
type Product struct {
	ID       string  `json:"_id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Cost     float64 `json:"cost"`
	Rating   int     `json:"rating"` // 0-5
	Image    string  `json:"image"`
}
