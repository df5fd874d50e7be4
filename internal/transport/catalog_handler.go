package transport

import (
	"errors"
	"net/http"
	"strconv"

	"partstore/internal/domain"
	"partstore/internal/middleware"
	"partstore/internal/repository"
	"partstore/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaginatedResponse wraps a page of items for presentation
type PaginatedResponse struct {
	Items      interface{} `json:"items"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

// PriceResponse carries a resolved buyer price
type PriceResponse struct {
	ProductID string  `json:"product_id"`
	Price     float64 `json:"price"`
}

// CatalogHandler handles HTTP requests for product lookup
type CatalogHandler struct {
	catalogService service.CatalogService
	analogService  service.AnalogService
	pricingService service.PricingService
	userService    service.UserService
	analogPageSize int
	logger         *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(
	catalogService service.CatalogService,
	analogService service.AnalogService,
	pricingService service.PricingService,
	userService service.UserService,
	analogPageSize int,
	logger *zap.Logger,
) *CatalogHandler {
	if analogPageSize <= 0 {
		analogPageSize = 60
	}
	return &CatalogHandler{
		catalogService: catalogService,
		analogService:  analogService,
		pricingService: pricingService,
		userService:    userService,
		analogPageSize: analogPageSize,
		logger:         logger,
	}
}

// RegisterRoutes registers all catalog routes. The routes are public;
// optionalAuth attaches the user identity when a valid token is present so
// that partners see their negotiated prices.
func (h *CatalogHandler) RegisterRoutes(r chi.Router, optionalAuth func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		r.Use(optionalAuth)
		r.Get("/{id}", h.GetProduct)
		r.Get("/{id}/price", h.GetPrice)
		r.Get("/{id}/analogs", h.GetAnalogs)
	})
}

// GetProduct handles product display lookup
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.productID(w, r)
	if !ok {
		return
	}

	buyer, ok := h.buyer(w, r)
	if !ok {
		return
	}

	info, err := h.catalogService.GetProductInfo(r.Context(), productID, buyer)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to get product info", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, info)
}

// GetPrice handles buyer price resolution for one product
func (h *CatalogHandler) GetPrice(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.productID(w, r)
	if !ok {
		return
	}

	buyer, ok := h.buyer(w, r)
	if !ok {
		return
	}

	price, err := h.pricingService.ResolvePriceByID(r.Context(), productID, buyer)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		if errors.Is(err, repository.ErrPriceNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "price unavailable")
			return
		}
		h.logger.Error("Failed to resolve price", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to resolve price")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, PriceResponse{
		ProductID: productID.String(),
		Price:     price,
	})
}

// GetAnalogs handles the analog product search
func (h *CatalogHandler) GetAnalogs(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.productID(w, r)
	if !ok {
		return
	}

	buyer, ok := h.buyer(w, r)
	if !ok {
		return
	}

	analogs, err := h.analogService.FindAnalogs(r.Context(), productID, buyer)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to find analogs", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to find analogs")
		return
	}

	page := 1
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}

	middleware.RespondWithJSON(w, http.StatusOK, paginate(analogs, page, h.analogPageSize))
}

// productID parses the product ID path parameter, responding with 400 on
// malformed input
func (h *CatalogHandler) productID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return uuid.Nil, false
	}
	return id, true
}

// buyer resolves the pricing identity of the request: the linked partner for
// authenticated partner users, guest otherwise. Broken partner configuration
// is a 409, not a silent guest fallback.
func (h *CatalogHandler) buyer(w http.ResponseWriter, r *http.Request) (domain.BuyerContext, bool) {
	userIDStr, authenticated := middleware.GetUserID(r.Context())
	if !authenticated {
		return domain.Guest(), true
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		middleware.RespondWithError(w, http.StatusUnauthorized, "invalid user ID")
		return domain.BuyerContext{}, false
	}

	buyer, err := h.userService.BuyerContext(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrDanglingPartner) || errors.Is(err, service.ErrDanglingPriceType) {
			h.logger.Error("Broken partner configuration", zap.String("user_id", userIDStr), zap.Error(err))
			middleware.RespondWithError(w, http.StatusConflict, "partner pricing configuration is invalid")
			return domain.BuyerContext{}, false
		}
		h.logger.Error("Failed to resolve buyer context", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to resolve buyer")
		return domain.BuyerContext{}, false
	}

	return buyer, true
}

// paginate slices one page out of the full analog list. The service returns
// the complete ordered sequence; presentation cuts it into pages.
func paginate(analogs []domain.AnnotatedProduct, page, pageSize int) PaginatedResponse {
	total := len(analogs)
	totalPages := (total + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return PaginatedResponse{
		Items:      analogs[start:end],
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
