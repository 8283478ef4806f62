package domain

import "time"

// Category groups products. Names are unique; categories are created on
// demand when a product names one that does not exist yet.
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
