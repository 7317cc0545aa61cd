package middleware

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// DefaultContentSecurityPolicy allows same-origin assets plus the provider's
// condition icons.
const DefaultContentSecurityPolicy = "default-src 'self'; base-uri 'self'; " +
	"font-src 'self' https: data:; form-action 'self'; frame-ancestors 'self'; " +
	"img-src 'self' data: https://openweathermap.org http://openweathermap.org; " +
	"object-src 'none'; script-src 'self'; script-src-attr 'none'; " +
	"style-src 'self' https: 'unsafe-inline'"

// SecurityHeaders sets the hardening headers on every response. An empty csp
// falls back to DefaultContentSecurityPolicy.
func SecurityHeaders(csp string) func(http.Handler) http.Handler {
	if csp == "" {
		csp = DefaultContentSecurityPolicy
	}
	chain := []func(http.Handler) http.Handler{
		chimw.SetHeader("Content-Security-Policy", csp),
		chimw.SetHeader("X-Content-Type-Options", "nosniff"),
		chimw.SetHeader("X-Frame-Options", "SAMEORIGIN"),
		chimw.SetHeader("Referrer-Policy", "no-referrer"),
		chimw.SetHeader("Cross-Origin-Opener-Policy", "same-origin"),
		chimw.SetHeader("X-DNS-Prefetch-Control", "off"),
	}
	return func(next http.Handler) http.Handler {
		for i := len(chain) - 1; i >= 0; i-- {
			next = chain[i](next)
		}
		return next
	}
}
