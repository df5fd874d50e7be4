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

// AnalogService finds competing products of the same type under other brands
type AnalogService interface {
	FindAnalogs(ctx context.Context, productID uuid.UUID, buyer domain.BuyerContext) ([]domain.AnnotatedProduct, error)
}

type analogService struct {
	catalogRepo repository.CatalogRepository
	pricing     PricingService
	logger      *zap.Logger
}

// NewAnalogService creates a new instance of AnalogService
func NewAnalogService(catalogRepo repository.CatalogRepository, pricing PricingService, logger *zap.Logger) AnalogService {
	return &analogService{
		catalogRepo: catalogRepo,
		pricing:     pricing,
		logger:      logger,
	}
}

// FindAnalogs returns the ordered analogs of a product for one buyer.
//
// The source product must exist; repository.ErrProductNotFound is returned
// as-is when it does not. Candidates arrive from the store already ordered
// (private-warehouse stock first, then remain quantity, then base price, all
// descending). The buyer price is then resolved per candidate and candidates
// whose price is not positive are dropped without reordering the rest.
// Failures on an individual candidate (unresolvable price, broken logo
// lookup) exclude that candidate and never abort the whole search.
func (s *analogService) FindAnalogs(ctx context.Context, productID uuid.UUID, buyer domain.BuyerContext) ([]domain.AnnotatedProduct, error) {
	product, err := s.catalogRepo.FindProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load source product: %w", err)
	}

	candidates, err := s.catalogRepo.QueryAnalogCandidates(ctx, product.Type, product.Trademark)
	if err != nil {
		return nil, fmt.Errorf("failed to query analog candidates: %w", err)
	}

	analogs := []domain.AnnotatedProduct{}
	for _, candidate := range candidates {
		price, err := s.pricing.ResolvePrice(ctx, &candidate.Product, buyer)
		if err != nil {
			s.logger.Debug("Excluding analog candidate without resolvable price",
				zap.String("product_id", candidate.Product.ID.String()),
				zap.Error(err),
			)
			continue
		}
		if price <= 0 {
			continue
		}

		logo, err := s.catalogRepo.FindTrademarkByTitle(ctx, candidate.Product.Trademark)
		if err != nil {
			if !errors.Is(err, repository.ErrTrademarkNotFound) {
				s.logger.Warn("Excluding analog candidate after logo lookup failure",
					zap.String("product_id", candidate.Product.ID.String()),
					zap.String("trademark", candidate.Product.Trademark),
					zap.Error(err),
				)
				continue
			}
			// Absent logo is valid, the analog just ships without one.
			logo = nil
		}

		analogs = append(analogs, domain.AnnotatedProduct{
			Product:       candidate.Product,
			ResolvedPrice: price,
			Logo:          logo,
			Remain:        candidate.Remain,
		})
	}

	return analogs, nil
}
