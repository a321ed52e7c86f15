package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	apierrors "github.com/jordanlanch/careconnect/pkg/api/errors"
	"github.com/jordanlanch/careconnect/pkg/auth"
	"github.com/jordanlanch/careconnect/pkg/authevents"
	"github.com/jordanlanch/careconnect/pkg/domain"
	custommiddleware "github.com/jordanlanch/careconnect/pkg/middleware"
	"github.com/jordanlanch/careconnect/pkg/models"
	"github.com/labstack/echo/v4"
)

// AuthHookHandler receives "account signed in" notifications from the auth backend
type AuthHookHandler struct {
	bus      authevents.Bus
	validate *validator.Validate
}

// NewAuthHookHandler creates a new auth hook handler
func NewAuthHookHandler(bus authevents.Bus) *AuthHookHandler {
	return &AuthHookHandler{
		bus:      bus,
		validate: validator.New(),
	}
}

// SignedIn godoc
// @Summary Signal that an account became authenticated
// @Description Wakes any signup wizard awaiting confirmation for the email. Requires X-Hook-Secret.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body models.AuthSignedInHook true "Account"
// @Success 200 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/hooks/signed-in [post]
func (h *AuthHookHandler) SignedIn(c echo.Context) error {
	var req models.AuthSignedInHook
	if err := c.Bind(&req); err != nil {
		return apierrors.BadRequest(c, domain.ErrCodeBadRequest, "Invalid JSON body")
	}
	if err := h.validate.Struct(req); err != nil {
		return apierrors.BadRequest(c, domain.ErrCodeValidation, "A valid email is required")
	}

	if err := h.bus.Publish(c.Request().Context(), req.Email); err != nil {
		return apierrors.Respond(c, domain.NewUpstreamError("publish auth signal", err))
	}

	return c.JSON(http.StatusOK, models.SuccessResponse{Success: true})
}

// SessionSignedIn godoc
// @Summary Report a browser sign-in
// @Description Verifies the provider access token and wakes any signup wizard awaiting confirmation for its email.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.SuccessResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /auth/session [post]
func (h *AuthHookHandler) SessionSignedIn(c echo.Context) error {
	claims, ok := c.Get(custommiddleware.ClaimsKey).(*auth.Claims)
	if !ok {
		return apierrors.Respond(c, domain.NewConfigurationError("Session sign-in is not configured"))
	}

	if err := h.bus.Publish(c.Request().Context(), claims.Email); err != nil {
		return apierrors.Respond(c, domain.NewUpstreamError("publish auth signal", err))
	}

	return c.JSON(http.StatusOK, models.SuccessResponse{Success: true})
}
