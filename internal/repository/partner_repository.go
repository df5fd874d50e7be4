package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"partstore/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrPartnerNotFound   = errors.New("partner not found")
	ErrPriceTypeNotFound = errors.New("price type not found")
)

// PartnerRepository defines the interface for partner data access
type PartnerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Partner, error)
	FindPriceType(ctx context.Context, id uuid.UUID) (*domain.PriceType, error)
}

type partnerRepository struct {
	db *sql.DB
}

// NewPartnerRepository creates a new instance of PartnerRepository
func NewPartnerRepository(db *sql.DB) PartnerRepository {
	return &partnerRepository{db: db}
}

// FindByID retrieves a partner by ID using parameterized queries
func (r *partnerRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Partner, error) {
	query := `
		SELECT id, title, price_type_id
		FROM partners
		WHERE id = $1
	`

	partner := &domain.Partner{}
	var priceTypeID uuid.NullUUID
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&partner.ID,
		&partner.Title,
		&priceTypeID,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPartnerNotFound
		}
		return nil, fmt.Errorf("failed to find partner by ID: %w", err)
	}

	if priceTypeID.Valid {
		partner.PriceTypeID = &priceTypeID.UUID
	}
	return partner, nil
}

// FindPriceType retrieves a price type by ID using parameterized queries
func (r *partnerRepository) FindPriceType(ctx context.Context, id uuid.UUID) (*domain.PriceType, error) {
	query := `
		SELECT id, title, percent
		FROM price_types
		WHERE id = $1
	`

	priceType := &domain.PriceType{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&priceType.ID,
		&priceType.Title,
		&priceType.Percent,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPriceTypeNotFound
		}
		return nil, fmt.Errorf("failed to find price type by ID: %w", err)
	}

	return priceType, nil
}
