package handlers

import (
	"net/http"

	apierrors "github.com/jordanlanch/careconnect/pkg/api/errors"
	"github.com/jordanlanch/careconnect/pkg/billing"
	"github.com/jordanlanch/careconnect/pkg/domain"
	"github.com/labstack/echo/v4"
)

// PricingHandler exposes plan prices without creating a session
type PricingHandler struct {
	service *billing.Service
}

// NewPricingHandler creates a new pricing handler
func NewPricingHandler(service *billing.Service) *PricingHandler {
	return &PricingHandler{service: service}
}

// GetPrice godoc
// @Summary Price a plan
// @Tags Billing
// @Produce json
// @Param slug path string true "Plan slug"
// @Param type query string false "buyer_pro, tokens or seller_plus (default tokens)"
// @Success 200 {object} models.PriceQuote
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /pricing/{slug} [get]
func (h *PricingHandler) GetPrice(c echo.Context) error {
	if h.service == nil {
		return apierrors.ConfigurationError(c, domain.NewConfigurationError(MsgPaymentNotConfigured))
	}

	purchaseType := c.QueryParam("type")
	if purchaseType == "" {
		purchaseType = string(billing.TypeTokens)
	}

	quote, err := h.service.Quote(c.Request().Context(), purchaseType, c.Param("slug"))
	if err != nil {
		return apierrors.Respond(c, err)
	}

	return c.JSON(http.StatusOK, quote)
}
