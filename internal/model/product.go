package model

import "time"

// Product represents a catalogue entry that can be attached to shipments.
// Deleted products are kept as inactive rows rather than removed.
type Product struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description,omitempty" db:"description"`
	Brand       string    `json:"brand,omitempty" db:"brand"`
	Category    string    `json:"category,omitempty" db:"category"`
	Size        string    `json:"size,omitempty" db:"size"`
	Price       float64   `json:"price" db:"price"`
	Stock       int       `json:"stock" db:"stock"`
	Active      bool      `json:"active" db:"active"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// ProductRequest represents the payload for creating or replacing a product.
type ProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Brand       string  `json:"brand"`
	Category    string  `json:"category"`
	Size        string  `json:"size"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
}

// Validate checks the declared field constraints.
func (r *ProductRequest) Validate() error {
	if r.Name == "" {
		return NewDomainError(ErrCodeMissingField, "Product name is required")
	}
	if r.Price < 0 {
		return ErrInvalidPrice
	}
	if r.Stock < 0 {
		return ErrInvalidStock
	}
	return nil
}
