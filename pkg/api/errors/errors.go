package errors

import (
	"log"
	"net/http"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/jordanlanch/careconnect/pkg/domain"
	"github.com/jordanlanch/careconnect/pkg/models"
	"github.com/labstack/echo/v4"
)

// GenericMessage is returned for every failure whose detail must stay server side
const GenericMessage = "An internal error occurred. Please try again later."

// Respond converts a service error into its JSON response.
// Caller-correctable failures are 400 with their message; everything else is 500.
func Respond(c echo.Context, err error) error {
	switch code := domain.GetErrorCode(err); code {
	case domain.ErrCodeValidation, domain.ErrCodeNotFound, domain.ErrCodeBadRequest:
		return BadRequest(c, code, domain.Message(err))
	case domain.ErrCodeConfiguration:
		return ConfigurationError(c, err)
	default:
		return InternalError(c, err)
	}
}

// BadRequest returns a 400 with a message the caller can act on
func BadRequest(c echo.Context, code, message string) error {
	return c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// ConfigurationError returns a 500 naming the missing configuration
func ConfigurationError(c echo.Context, err error) error {
	log.Printf("[CONFIGURATION ERROR] Path: %s, Error: %v", c.Request().URL.Path, err)

	return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error: domain.Message(err),
		Code:  domain.ErrCodeConfiguration,
	})
}

// InternalError returns a generic internal server error
func InternalError(c echo.Context, err error) error {
	log.Printf("[INTERNAL ERROR] Path: %s, Error: %v", c.Request().URL.Path, err)
	capture(c, err)

	code := domain.GetErrorCode(err)
	if code != domain.ErrCodeUpstream {
		code = domain.ErrCodeInternal
	}

	return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error: GenericMessage,
		Code:  code,
	})
}

// NotFoundError returns a 404 for an unknown route resource
func NotFoundError(c echo.Context, resource string) error {
	return c.JSON(http.StatusNotFound, models.ErrorResponse{
		Error: resource + " not found",
		Code:  domain.ErrCodeNotFound,
	})
}

// ConflictError returns a 409 when the resource is not in a state that allows the action
func ConflictError(c echo.Context, message string) error {
	return c.JSON(http.StatusConflict, models.ErrorResponse{
		Error: message,
		Code:  domain.ErrCodeBadRequest,
	})
}

// MethodNotAllowed returns a 405
func MethodNotAllowed(c echo.Context) error {
	return c.JSON(http.StatusMethodNotAllowed, models.ErrorResponse{
		Error: "Method not allowed",
	})
}

func capture(c echo.Context, err error) {
	if hub := sentryecho.GetHubFromContext(c); hub != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetTag("path", c.Path())
			hub.CaptureException(err)
		})
	}
}
