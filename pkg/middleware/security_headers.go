package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// DocsPrefix is where the interactive API docs are served
const DocsPrefix = "/swagger/"

// APISecurityHeaders is the policy for JSON responses. The API never serves
// documents, so nothing may be framed, embedded or cached.
var APISecurityHeaders = map[string]string{
	"Content-Security-Policy":           "default-src 'none'; frame-ancestors 'none'; base-uri 'none'; form-action 'none'",
	"Referrer-Policy":                   "no-referrer",
	"Permissions-Policy":                "camera=(), microphone=(), geolocation=(), payment=()",
	echo.HeaderXContentTypeOptions:      "nosniff",
	echo.HeaderXFrameOptions:            "DENY",
	echo.HeaderCacheControl:             "no-store",
	"Cross-Origin-Opener-Policy":        "same-origin",
	"X-Permitted-Cross-Domain-Policies": "none",
}

// SkipDocs skips the docs UI, which needs scripts and styles
func SkipDocs(c echo.Context) bool {
	return strings.HasPrefix(c.Request().URL.Path, DocsPrefix)
}

// SecurityHeaders sets APISecurityHeaders before the handler runs, so a
// handler may still override Cache-Control for its own response.
func SecurityHeaders(skipper middleware.Skipper) echo.MiddlewareFunc {
	if skipper == nil {
		skipper = middleware.DefaultSkipper
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skipper(c) {
				return next(c)
			}
			h := c.Response().Header()
			for name, value := range APISecurityHeaders {
				h.Set(name, value)
			}
			return next(c)
		}
	}
}
