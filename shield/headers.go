package shield

import "net/http"

// HeaderConfig defines the security headers applied to every response.
// Empty fields are skipped.
type HeaderConfig struct {
	CSP                 string
	XFrameOptions       string
	XContentTypeOptions string
	ReferrerPolicy      string
	PermissionsPolicy   string
}

// DefaultHeaders returns the header set for the marksight surface. The only
// HTML served is a self-posting form with an inline stylesheet, so the policy
// allows exactly that and nothing else; the JSON API routes are unaffected by
// the CSP either way.
func DefaultHeaders() HeaderConfig {
	return HeaderConfig{
		CSP: "default-src 'none'; style-src 'unsafe-inline'; form-action 'self'; " +
			"base-uri 'none'; frame-ancestors 'none'",
		XFrameOptions:       "DENY",
		XContentTypeOptions: "nosniff",
		ReferrerPolicy:      "no-referrer",
		PermissionsPolicy:   "camera=(), microphone=(), geolocation=()",
	}
}

// SecurityHeaders returns middleware that sets the configured headers on
// every response. The header map is built once at construction.
func SecurityHeaders(cfg HeaderConfig) func(http.Handler) http.Handler {
	set := map[string]string{
		"Content-Security-Policy": cfg.CSP,
		"X-Frame-Options":         cfg.XFrameOptions,
		"X-Content-Type-Options":  cfg.XContentTypeOptions,
		"Referrer-Policy":         cfg.ReferrerPolicy,
		"Permissions-Policy":      cfg.PermissionsPolicy,
	}
	for name, value := range set {
		if value == "" {
			delete(set, name)
		}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for name, value := range set {
				h.Set(name, value)
			}
			next.ServeHTTP(w, r)
		})
	}
}
