package transport

import (
	"errors"
	"net/http"

	"partstore/internal/middleware"
	"partstore/internal/repository"
	"partstore/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SetDisabledRequest represents the product disable/enable payload
type SetDisabledRequest struct {
	Disabled *bool `json:"disabled" validate:"required"`
}

// UpsertDiscountRequest represents the partner discount payload
type UpsertDiscountRequest struct {
	PartnerID    string  `json:"partner_id" validate:"required,uuid"`
	PriceGroupID string  `json:"price_group_id" validate:"required,uuid"`
	Percent      float64 `json:"percent"`
}

// AdminHandler handles catalog maintenance endpoints
type AdminHandler struct {
	catalogService service.CatalogService
	logger         *zap.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(catalogService service.CatalogService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes registers all admin routes behind auth + admin role checks
func (h *AdminHandler) RegisterRoutes(r chi.Router, authMiddleware, requireAdmin func(http.Handler) http.Handler) {
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(requireAdmin)
		r.Put("/products/{id}/disabled", h.SetProductDisabled)
		r.Post("/discounts", h.UpsertDiscount)
	})
}

// SetProductDisabled handles toggling product visibility
func (h *AdminHandler) SetProductDisabled(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	var req SetDisabledRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Disable request validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.catalogService.SetProductDisabled(r.Context(), productID, *req.Disabled); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to update product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update product")
		return
	}

	h.logger.Info("Product visibility updated",
		zap.String("product_id", productID.String()),
		zap.Bool("disabled", *req.Disabled),
	)
	middleware.RespondWithJSON(w, http.StatusOK, map[string]bool{"disabled": *req.Disabled})
}

// UpsertDiscount handles creating or replacing a partner discount override
func (h *AdminHandler) UpsertDiscount(w http.ResponseWriter, r *http.Request) {
	var req UpsertDiscountRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Discount request validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	partnerID, _ := uuid.Parse(req.PartnerID)
	priceGroupID, _ := uuid.Parse(req.PriceGroupID)

	discount, err := h.catalogService.UpsertPartnerDiscount(r.Context(), partnerID, priceGroupID, req.Percent)
	if err != nil {
		h.logger.Error("Failed to upsert discount", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to save discount")
		return
	}

	h.logger.Info("Partner discount saved",
		zap.String("partner_id", req.PartnerID),
		zap.String("price_group_id", req.PriceGroupID),
		zap.Float64("percent", req.Percent),
	)
	middleware.RespondWithJSON(w, http.StatusOK, discount)
}
