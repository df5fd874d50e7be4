package domain

import (
	"github.com/google/uuid"
)

// Product represents a catalog product
type Product struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Article      string    `json:"article" db:"article"`
	Title        string    `json:"title" db:"title"`
	Type         string    `json:"type" db:"type"`
	Trademark    string    `json:"trademark" db:"trademark"`
	Price        float64   `json:"price" db:"price"`
	PriceGroupID uuid.UUID `json:"price_group_id" db:"price_group_id"`
	Disabled     bool      `json:"disabled" db:"disabled"`
}

// Trademark represents a brand with its display logo
type Trademark struct {
	ID      uuid.UUID `json:"id" db:"id"`
	Title   string    `json:"title" db:"title"`
	LogoURL string    `json:"logo_url" db:"logo_url"`
}

// Warehouse represents a stock location
type Warehouse struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	IsPrivate bool      `json:"is_private" db:"is_private"`
}

// Remain represents the stock quantity of a product at one warehouse
type Remain struct {
	ProductID   uuid.UUID `json:"product_id" db:"product_id"`
	WarehouseID uuid.UUID `json:"warehouse_id" db:"warehouse_id"`
	Remain      float64   `json:"remain" db:"remain"`
}

// PriceRecord is the precomputed public (guest) price of a product
type PriceRecord struct {
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	Price     float64   `json:"price" db:"price"`
}

// AnalogCandidate is one row of the analog candidate query: a product joined
// against zero or one remain/warehouse row. A product stocked at several
// warehouses yields one candidate per warehouse.
type AnalogCandidate struct {
	Product   Product
	Remain    *float64 // nil when the product has no remain row
	IsPrivate *bool    // nil when no warehouse row is joined
}

// AnnotatedProduct is a product prepared for presentation: the buyer-specific
// price is resolved and the trademark logo is attached when one exists.
type AnnotatedProduct struct {
	Product
	ResolvedPrice float64    `json:"resolved_price"`
	Logo          *Trademark `json:"logo,omitempty"`
	Remain        *float64   `json:"remain,omitempty"`
}
