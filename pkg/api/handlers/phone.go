package handlers

import (
	"errors"
	"net/http"

	apierrors "github.com/jordanlanch/careconnect/pkg/api/errors"
	"github.com/jordanlanch/careconnect/pkg/domain"
	"github.com/jordanlanch/careconnect/pkg/phone"
	"github.com/jordanlanch/careconnect/pkg/signup"
	"github.com/labstack/echo/v4"
)

// PhoneHandler lets the credentials step check a number before submitting
type PhoneHandler struct{}

// NewPhoneHandler creates a new phone handler.
func NewPhoneHandler() *PhoneHandler {
	return &PhoneHandler{}
}

// ValidatePhoneRequest represents a phone validation request.
type ValidatePhoneRequest struct {
	Phone  string `json:"phone"`
	Region string `json:"region,omitempty"` // Optional, defaults to GB
}

// ValidatePhone godoc
// @Summary Validate a phone number
// @Description Parse a number as typed and return its E.164 and national forms
// @Tags Signup
// @Accept json
// @Produce json
// @Param request body ValidatePhoneRequest true "Phone validation request"
// @Success 200 {object} phone.Details
// @Failure 400 {object} models.ErrorResponse
// @Router /signup/phone/validate [post]
func (h *PhoneHandler) ValidatePhone(c echo.Context) error {
	var req ValidatePhoneRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.BadRequest(c, domain.ErrCodeBadRequest, "Invalid JSON body")
	}

	if req.Region == "" {
		req.Region = phone.DefaultRegion
	}

	details, err := phone.Validate(req.Phone, req.Region)
	switch {
	case errors.Is(err, phone.ErrEmpty):
		return apierrors.BadRequest(c, domain.ErrCodeValidation, "Phone number is required")
	case err != nil:
		return apierrors.BadRequest(c, domain.ErrCodeValidation, signup.MsgInvalidPhone)
	}

	return c.JSON(http.StatusOK, details)
}
