package model

import "time"

// MaxProductImages caps how many images a product may carry.
const MaxProductImages = 4

// Defaults applied when a product is added with missing fields.
const (
	DefaultProductTitle      = "Untitled Product"
	DefaultLowStockThreshold = 5
)

// Product is a stock-keeping entry belonging to at most one category.
type Product struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Price             float64   `json:"price"`
	Quantity          int       `json:"quantity"`
	LowStockThreshold int       `json:"lowStockThreshold"`
	Images            []Image   `json:"images"`
	CategoryID        string    `json:"categoryId"`
	CreatedBy         string    `json:"createdBy"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// LowStock reports whether the product's quantity is strictly below its
// threshold.
func (p Product) LowStock() bool {
	return p.Quantity < p.LowStockThreshold
}

// Image is a stored picture reference, optionally with inline data.
type Image struct {
	URI    string `json:"uri"`
	Base64 string `json:"base64,omitempty"`
	MIME   string `json:"mime,omitempty"`
}
