package domain

import (
	"github.com/google/uuid"
)

// PriceType is a negotiated pricing tier assigned to a partner. Percent is a
// markup when positive and a markdown when negative.
type PriceType struct {
	ID      uuid.UUID `json:"id" db:"id"`
	Title   string    `json:"title" db:"title"`
	Percent float64   `json:"percent" db:"percent"`
}

// Partner is an identified wholesale buyer
type Partner struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	PriceTypeID *uuid.UUID `json:"price_type_id" db:"price_type_id"`
}

// PartnerDiscount is a partner-specific override for one price group. Its
// percent is subtracted from the partner's price-type percent.
type PartnerDiscount struct {
	ID           uuid.UUID `json:"id" db:"id"`
	PartnerID    uuid.UUID `json:"partner_id" db:"partner_id"`
	PriceGroupID uuid.UUID `json:"price_group_id" db:"price_group_id"`
	Percent      float64   `json:"percent" db:"percent"`
}

// BuyerContext identifies who is asking for a price. A zero value (nil
// Partner) is a guest. Every pricing call receives one explicitly; there is
// no ambient "current user".
type BuyerContext struct {
	Partner   *Partner
	PriceType *PriceType
}

// IsGuest reports whether the context carries no partner identity
func (b BuyerContext) IsGuest() bool {
	return b.Partner == nil
}

// Guest returns the anonymous buyer context
func Guest() BuyerContext {
	return BuyerContext{}
}
