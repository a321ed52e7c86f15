package middleware

import (
	"net/http"
	"strings"

	"github.com/jordanlanch/careconnect/pkg/auth"
	"github.com/jordanlanch/careconnect/pkg/domain"
	"github.com/jordanlanch/careconnect/pkg/models"
	"github.com/labstack/echo/v4"
)

// ClaimsKey is the echo context key holding *auth.Claims
const ClaimsKey = "claims"

// RequireAccessToken accepts requests carrying a valid provider access token
// as "Authorization: Bearer <token>". An empty secret disables the route.
func RequireAccessToken(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if secret == "" {
				return c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
					Error: "Session sign-in is not configured",
					Code:  domain.ErrCodeConfiguration,
				})
			}

			scheme, token, ok := strings.Cut(c.Request().Header.Get(echo.HeaderAuthorization), " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				return c.JSON(http.StatusUnauthorized, models.ErrorResponse{
					Error: "Authorization header must be 'Bearer {token}'",
					Code:  domain.ErrCodeUnauthorized,
				})
			}

			claims, err := auth.ValidateAccessToken(token, secret)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, models.ErrorResponse{
					Error: "Invalid access token",
					Code:  domain.ErrCodeUnauthorized,
				})
			}

			c.Set(ClaimsKey, claims)
			return next(c)
		}
	}
}
