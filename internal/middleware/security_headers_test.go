package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecurityHeaders(t *testing.T) {
	tests := []struct {
		name    string
		csp     string
		wantCSP string
	}{
		{"default policy", "", DefaultContentSecurityPolicy},
		{"custom policy", "default-src 'none'", "default-src 'none'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := SecurityHeaders(tt.csp)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTeapot)
			}))

			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, http.StatusTeapot, rr.Code)
			assert.Equal(t, tt.wantCSP, rr.Header().Get("Content-Security-Policy"))
			assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
			assert.Equal(t, "SAMEORIGIN", rr.Header().Get("X-Frame-Options"))
			assert.Equal(t, "no-referrer", rr.Header().Get("Referrer-Policy"))
			assert.Equal(t, "same-origin", rr.Header().Get("Cross-Origin-Opener-Policy"))
			assert.Equal(t, "off", rr.Header().Get("X-DNS-Prefetch-Control"))
		})
	}
}
