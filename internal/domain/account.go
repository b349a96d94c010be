package domain

import "time"

// Session holds the logged in user and the token used for authenticated calls
type Session struct {
	Username string  `json:"username"`
	Token    string  `json:"token"`
	Balance  float64 `json:"balance"`
}

// Address is a shipping address saved on the backend
type Address struct {
	ID      string `json:"_id"`
	Address string `json:"address"`
}

// Order is a local record of a completed checkout
type Order struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	AddressID string     `json:"address_id"`
	Items     []CartItem `json:"items"`
	Total     float64    `json:"total"`
	CreatedAt time.Time  `json:"created_at"`
}
