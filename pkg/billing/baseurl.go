package billing

import (
	"net/http"
	"strings"
)

// DefaultBaseURL is the local development frontend
const DefaultBaseURL = "http://localhost:5173"

// BaseURLSource carries the configured origins consulted before request headers
type BaseURLSource struct {
	FrontendURL string
	PlatformURL string
}

// ResolveBaseURL picks the origin redirects are built on. Configured
// origins win over request headers; the development default is last.
func (s BaseURLSource) ResolveBaseURL(h http.Header) string {
	for _, candidate := range []string{s.FrontendURL, s.PlatformURL, h.Get("Origin")} {
		if candidate != "" {
			return strings.TrimRight(candidate, "/")
		}
	}

	host := h.Get("X-Forwarded-Host")
	if host == "" {
		host = h.Get("Host")
	}
	if host != "" {
		proto := h.Get("X-Forwarded-Proto")
		if proto == "" {
			proto = "https"
		}
		return proto + "://" + strings.TrimRight(host, "/")
	}

	return DefaultBaseURL
}
