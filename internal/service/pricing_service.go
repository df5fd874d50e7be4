package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"partstore/internal/domain"
	"partstore/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// PricingService computes the buyer-specific unit price of a product
type PricingService interface {
	ResolvePrice(ctx context.Context, product *domain.Product, buyer domain.BuyerContext) (float64, error)
	ResolvePriceByID(ctx context.Context, productID uuid.UUID, buyer domain.BuyerContext) (float64, error)
}

type pricingService struct {
	catalogRepo repository.CatalogRepository
	redisClient *redis.Client // optional public price cache; nil disables caching
	cacheTTL    time.Duration
	logger      *zap.Logger
}

// NewPricingService creates a new instance of PricingService. A nil Redis
// client turns the public price cache off.
func NewPricingService(catalogRepo repository.CatalogRepository, redisClient *redis.Client, cacheTTL time.Duration, logger *zap.Logger) PricingService {
	return &pricingService{
		catalogRepo: catalogRepo,
		redisClient: redisClient,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

// ResolvePrice computes the price of a product for one buyer.
//
// Guests get the precomputed public price record verbatim; a missing record
// is repository.ErrPriceNotFound, never zero. Partners start from their price
// type percent (0 when no type is assigned), reduced by the discount override
// for the product's price group when one exists, applied to the base
// wholesale price and rounded to 2 decimals half away from zero.
func (s *pricingService) ResolvePrice(ctx context.Context, product *domain.Product, buyer domain.BuyerContext) (float64, error) {
	if buyer.IsGuest() {
		record, err := s.publicPrice(ctx, product.ID)
		if err != nil {
			return 0, err
		}
		// Verbatim, no rounding applied here.
		return record.Price, nil
	}

	percent := 0.0 // default wholesale rate
	if buyer.PriceType != nil {
		percent = buyer.PriceType.Percent
	}

	discount, err := s.catalogRepo.FindPartnerDiscount(ctx, product.PriceGroupID, buyer.Partner.ID)
	if err != nil && !errors.Is(err, repository.ErrDiscountNotFound) {
		return 0, fmt.Errorf("failed to resolve partner discount: %w", err)
	}
	if discount != nil {
		percent -= discount.Percent
	}

	base := product.Price
	switch {
	case percent < 0:
		return roundPrice(base - base/100*math.Abs(percent)), nil
	case percent > 0:
		return roundPrice(base + base/100*math.Abs(percent)), nil
	}
	return roundPrice(base), nil
}

// ResolvePriceByID loads a product and resolves its price for one buyer
func (s *pricingService) ResolvePriceByID(ctx context.Context, productID uuid.UUID, buyer domain.BuyerContext) (float64, error) {
	product, err := s.catalogRepo.FindProductByID(ctx, productID)
	if err != nil {
		return 0, err
	}
	return s.ResolvePrice(ctx, product, buyer)
}

// publicPrice returns the guest price record, consulting the Redis cache
// first when one is configured. Cache failures fall through to Postgres.
func (s *pricingService) publicPrice(ctx context.Context, productID uuid.UUID) (*domain.PriceRecord, error) {
	if s.redisClient == nil {
		return s.catalogRepo.FindPublicPrice(ctx, productID)
	}

	key := fmt.Sprintf("public_price:%s", productID)
	cached, err := s.redisClient.Get(ctx, key).Result()
	if err == nil {
		record := &domain.PriceRecord{}
		if err := json.Unmarshal([]byte(cached), record); err == nil {
			return record, nil
		}
		s.logger.Debug("Discarding malformed cached price", zap.String("key", key))
	} else if err != redis.Nil {
		s.logger.Debug("Price cache unavailable", zap.Error(err), zap.String("key", key))
	}

	record, err := s.catalogRepo.FindPublicPrice(ctx, productID)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(record); err == nil {
		if err := s.redisClient.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
			s.logger.Debug("Failed to cache public price", zap.Error(err), zap.String("key", key))
		}
	}

	return record, nil
}

// roundPrice rounds to 2 decimal places, halves away from zero
func roundPrice(price float64) float64 {
	return math.Round(price*100) / 100
}
