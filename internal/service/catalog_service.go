package service

import (
	"context"
	"errors"
	"fmt"

	"partstore/internal/domain"
	"partstore/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductInfo is a product with its display extras: the trademark logo and,
// when resolvable for the buyer, a price. Price is a pointer so "price
// unavailable" stays distinct from a price of zero.
type ProductInfo struct {
	domain.Product
	Logo  *domain.Trademark `json:"logo,omitempty"`
	Price *float64          `json:"price"`
}

// CatalogService exposes product display data and catalog maintenance
type CatalogService interface {
	GetProductInfo(ctx context.Context, productID uuid.UUID, buyer domain.BuyerContext) (*ProductInfo, error)
	SetProductDisabled(ctx context.Context, productID uuid.UUID, disabled bool) error
	UpsertPartnerDiscount(ctx context.Context, partnerID, priceGroupID uuid.UUID, percent float64) (*domain.PartnerDiscount, error)
}

type catalogService struct {
	catalogRepo repository.CatalogRepository
	pricing     PricingService
	logger      *zap.Logger
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(catalogRepo repository.CatalogRepository, pricing PricingService, logger *zap.Logger) CatalogService {
	return &catalogService{
		catalogRepo: catalogRepo,
		pricing:     pricing,
		logger:      logger,
	}
}

// GetProductInfo loads a product with its trademark logo and buyer price.
// A missing product is repository.ErrProductNotFound. A missing logo is not
// an error. A price that cannot be resolved (guest without a public price
// record) leaves Price nil.
func (s *catalogService) GetProductInfo(ctx context.Context, productID uuid.UUID, buyer domain.BuyerContext) (*ProductInfo, error) {
	product, err := s.catalogRepo.FindProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	info := &ProductInfo{Product: *product}

	logo, err := s.catalogRepo.FindTrademarkByTitle(ctx, product.Trademark)
	if err != nil && !errors.Is(err, repository.ErrTrademarkNotFound) {
		return nil, fmt.Errorf("failed to load trademark logo: %w", err)
	}
	info.Logo = logo

	price, err := s.pricing.ResolvePrice(ctx, product, buyer)
	if err != nil {
		if !errors.Is(err, repository.ErrPriceNotFound) {
			return nil, fmt.Errorf("failed to resolve price: %w", err)
		}
		s.logger.Debug("Product has no public price record",
			zap.String("product_id", product.ID.String()),
		)
	} else {
		info.Price = &price
	}

	return info, nil
}

// SetProductDisabled toggles product visibility in the catalog
func (s *catalogService) SetProductDisabled(ctx context.Context, productID uuid.UUID, disabled bool) error {
	if err := s.catalogRepo.SetProductDisabled(ctx, productID, disabled); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return err
		}
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

// UpsertPartnerDiscount creates or replaces one partner's discount override
// for a price group
func (s *catalogService) UpsertPartnerDiscount(ctx context.Context, partnerID, priceGroupID uuid.UUID, percent float64) (*domain.PartnerDiscount, error) {
	discount := &domain.PartnerDiscount{
		ID:           uuid.New(),
		PartnerID:    partnerID,
		PriceGroupID: priceGroupID,
		Percent:      percent,
	}

	if err := s.catalogRepo.UpsertPartnerDiscount(ctx, discount); err != nil {
		return nil, fmt.Errorf("failed to upsert partner discount: %w", err)
	}

	return discount, nil
}
