package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/jordanlanch/careconnect/pkg/domain"
	"github.com/jordanlanch/careconnect/pkg/models"
	"github.com/labstack/echo/v4"
)

// HookSecretHeader carries the shared secret of the auth backend webhook
const HookSecretHeader = "X-Hook-Secret"

// RequireHookSecret rejects requests whose hook secret does not match.
// An empty configured secret disables the route entirely.
func RequireHookSecret(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if secret == "" {
				return c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
					Error: "Auth hook is not configured",
					Code:  domain.ErrCodeConfiguration,
				})
			}

			got := c.Request().Header.Get(HookSecretHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				return c.JSON(http.StatusUnauthorized, models.ErrorResponse{
					Error: "Invalid hook secret",
					Code:  domain.ErrCodeUnauthorized,
				})
			}

			return next(c)
		}
	}
}
