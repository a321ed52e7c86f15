package handlers

import (
	"encoding/json"
	"net/http"

	apierrors "github.com/jordanlanch/careconnect/pkg/api/errors"
	"github.com/jordanlanch/careconnect/pkg/billing"
	"github.com/jordanlanch/careconnect/pkg/domain"
	"github.com/jordanlanch/careconnect/pkg/models"
	"github.com/labstack/echo/v4"
)

// MsgPaymentNotConfigured is returned on every request when checkout is not configured
const MsgPaymentNotConfigured = "Payment service is not configured"

// CheckoutHandler serves the checkout session endpoint
type CheckoutHandler struct {
	service *billing.Service
	baseURL billing.BaseURLSource
}

// NewCheckoutHandler creates a new checkout handler. A nil service answers
// every request with a configuration error.
func NewCheckoutHandler(service *billing.Service, baseURL billing.BaseURLSource) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		baseURL: baseURL,
	}
}

// CreateCheckoutSession godoc
// @Summary Create a hosted checkout session
// @Description Prices a buyer pro subscription, token bundle or seller plus plan and returns the payment page URL
// @Tags Billing
// @Accept json
// @Produce json
// @Param request body models.CheckoutRequest true "Purchase"
// @Success 200 {object} models.CheckoutResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 405 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /create-checkout-session [post]
func (h *CheckoutHandler) CreateCheckoutSession(c echo.Context) error {
	if h.service == nil {
		return apierrors.ConfigurationError(c, domain.NewConfigurationError(MsgPaymentNotConfigured))
	}

	switch c.Request().Method {
	case http.MethodOptions:
		return c.NoContent(http.StatusOK)
	case http.MethodPost:
	default:
		return apierrors.MethodNotAllowed(c)
	}

	var req models.CheckoutRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return apierrors.BadRequest(c, domain.ErrCodeBadRequest, "Invalid JSON body")
	}

	resp, err := h.service.CreateCheckoutSession(c.Request().Context(), req, h.resolveBaseURL(c))
	if err != nil {
		return apierrors.Respond(c, err)
	}

	return c.JSON(http.StatusOK, resp)
}

// resolveBaseURL reads the forwarding headers plus the request host, which
// net/http keeps out of the header map.
func (h *CheckoutHandler) resolveBaseURL(c echo.Context) string {
	r := c.Request()
	header := r.Header.Clone()
	if header.Get("Host") == "" && r.Host != "" {
		header.Set("Host", r.Host)
	}
	return h.baseURL.ResolveBaseURL(header)
}
