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
	ErrProductNotFound   = errors.New("product not found")
	ErrPriceNotFound     = errors.New("public price not found")
	ErrDiscountNotFound  = errors.New("partner discount not found")
	ErrTrademarkNotFound = errors.New("trademark not found")
)

// CatalogRepository defines the interface for catalog data access
type CatalogRepository interface {
	FindProductByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	FindPublicPrice(ctx context.Context, productID uuid.UUID) (*domain.PriceRecord, error)
	FindPartnerDiscount(ctx context.Context, priceGroupID, partnerID uuid.UUID) (*domain.PartnerDiscount, error)
	FindTrademarkByTitle(ctx context.Context, title string) (*domain.Trademark, error)
	QueryAnalogCandidates(ctx context.Context, productType, excludeTrademark string) ([]domain.AnalogCandidate, error)
	SetProductDisabled(ctx context.Context, id uuid.UUID, disabled bool) error
	UpsertPartnerDiscount(ctx context.Context, discount *domain.PartnerDiscount) error
}

type catalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository creates a new instance of CatalogRepository
func NewCatalogRepository(db *sql.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

// FindProductByID retrieves a product by ID using parameterized queries
func (r *catalogRepository) FindProductByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `
		SELECT id, article, title, type, trademark, price, price_group_id, disabled
		FROM products
		WHERE id = $1
	`

	product := &domain.Product{}
	var priceGroupID uuid.NullUUID
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&product.ID,
		&product.Article,
		&product.Title,
		&product.Type,
		&product.Trademark,
		&product.Price,
		&priceGroupID,
		&product.Disabled,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	product.PriceGroupID = priceGroupID.UUID
	return product, nil
}

// FindPublicPrice retrieves the precomputed guest price record for a product
func (r *catalogRepository) FindPublicPrice(ctx context.Context, productID uuid.UUID) (*domain.PriceRecord, error) {
	query := `
		SELECT product_id, price
		FROM product_prices
		WHERE product_id = $1
	`

	record := &domain.PriceRecord{}
	err := r.db.QueryRowContext(ctx, query, productID).Scan(
		&record.ProductID,
		&record.Price,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPriceNotFound
		}
		return nil, fmt.Errorf("failed to find public price: %w", err)
	}

	return record, nil
}

// FindPartnerDiscount retrieves the discount override for one price group and partner
func (r *catalogRepository) FindPartnerDiscount(ctx context.Context, priceGroupID, partnerID uuid.UUID) (*domain.PartnerDiscount, error) {
	query := `
		SELECT id, partner_id, price_group_id, percent
		FROM partner_discounts
		WHERE price_group_id = $1 AND partner_id = $2
	`

	discount := &domain.PartnerDiscount{}
	err := r.db.QueryRowContext(ctx, query, priceGroupID, partnerID).Scan(
		&discount.ID,
		&discount.PartnerID,
		&discount.PriceGroupID,
		&discount.Percent,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrDiscountNotFound
		}
		return nil, fmt.Errorf("failed to find partner discount: %w", err)
	}

	return discount, nil
}

// FindTrademarkByTitle retrieves a trademark by case-insensitive exact title match
func (r *catalogRepository) FindTrademarkByTitle(ctx context.Context, title string) (*domain.Trademark, error) {
	query := `
		SELECT id, title, COALESCE(logo_url, '')
		FROM trademarks
		WHERE LOWER(title) = LOWER($1)
	`

	trademark := &domain.Trademark{}
	err := r.db.QueryRowContext(ctx, query, title).Scan(
		&trademark.ID,
		&trademark.Title,
		&trademark.LogoURL,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTrademarkNotFound
		}
		return nil, fmt.Errorf("failed to find trademark: %w", err)
	}

	return trademark, nil
}

// QueryAnalogCandidates returns the ordered analog candidate rows for a
// product type, excluding one trademark. Remains and warehouses are joined
// with LEFT JOINs, so a product stocked at several warehouses produces one
// row per warehouse and an unstocked product produces a single row with NULL
// remain. Ordering is done here in one deterministic query: candidates with
// stock at a private warehouse first, then by remain quantity, then by base
// price, all descending with NULLs sorted last.
func (r *catalogRepository) QueryAnalogCandidates(ctx context.Context, productType, excludeTrademark string) ([]domain.AnalogCandidate, error) {
	query := `
		SELECT p.id, p.article, p.title, p.type, p.trademark, p.price, p.price_group_id, p.disabled,
		       r.remain, w.is_private
		FROM products p
		LEFT JOIN product_remains r ON r.product_id = p.id
		LEFT JOIN warehouses w ON w.id = r.warehouse_id
		WHERE p.disabled = FALSE
		  AND p.type = $1
		  AND p.trademark <> $2
		  AND p.price > 0
		ORDER BY (CASE WHEN w.is_private = TRUE THEN 1 ELSE NULL END) DESC NULLS LAST,
		         r.remain DESC NULLS LAST,
		         p.price DESC
	`

	rows, err := r.db.QueryContext(ctx, query, productType, excludeTrademark)
	if err != nil {
		return nil, fmt.Errorf("failed to query analog candidates: %w", err)
	}
	defer rows.Close()

	candidates := []domain.AnalogCandidate{}
	for rows.Next() {
		var (
			candidate    domain.AnalogCandidate
			priceGroupID uuid.NullUUID
			remain       sql.NullFloat64
			isPrivate    sql.NullBool
		)
		err := rows.Scan(
			&candidate.Product.ID,
			&candidate.Product.Article,
			&candidate.Product.Title,
			&candidate.Product.Type,
			&candidate.Product.Trademark,
			&candidate.Product.Price,
			&priceGroupID,
			&candidate.Product.Disabled,
			&remain,
			&isPrivate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analog candidate: %w", err)
		}

		candidate.Product.PriceGroupID = priceGroupID.UUID
		if remain.Valid {
			candidate.Remain = &remain.Float64
		}
		if isPrivate.Valid {
			candidate.IsPrivate = &isPrivate.Bool
		}
		candidates = append(candidates, candidate)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analog candidates: %w", err)
	}

	return candidates, nil
}

// SetProductDisabled toggles the disabled flag of a product
func (r *catalogRepository) SetProductDisabled(ctx context.Context, id uuid.UUID, disabled bool) error {
	query := `UPDATE products SET disabled = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, disabled)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// UpsertPartnerDiscount creates or replaces the discount override for one
// partner and price group
func (r *catalogRepository) UpsertPartnerDiscount(ctx context.Context, discount *domain.PartnerDiscount) error {
	query := `
		INSERT INTO partner_discounts (id, partner_id, price_group_id, percent)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (partner_id, price_group_id)
		DO UPDATE SET percent = EXCLUDED.percent
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		discount.ID,
		discount.PartnerID,
		discount.PriceGroupID,
		discount.Percent,
	)

	if err != nil {
		return fmt.Errorf("failed to upsert partner discount: %w", err)
	}

	return nil
}
